package oauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PGInstallationStore persists installations in PostgreSQL through a pgx
// pool. It uses the same two-table schema as SQLInstallationStore but talks
// the native protocol and upserts the bot row instead of delete-and-insert.
type PGInstallationStore struct {
	pool *pgxpool.Pool
}

// NewPGInstallationStore creates a PostgreSQL-backed installation store.
func NewPGInstallationStore(pool *pgxpool.Pool) (*PGInstallationStore, error) {
	if pool == nil {
		return nil, errors.New("oauth: pg store requires a pool")
	}
	return &PGInstallationStore{pool: pool}, nil
}

const pgInsertInstallation = `
INSERT INTO oauth_installations (
	workspace_key, app_id, enterprise_id, enterprise_name, team_id, team_name,
	is_enterprise_install, bot_token, bot_id, bot_user_id, bot_scopes,
	bot_refresh_token, bot_token_expires_at, user_id, user_token, user_scopes,
	user_refresh_token, user_token_expires_at, incoming_webhook_url,
	incoming_webhook_channel, incoming_webhook_channel_id, installed_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19,$20,$21,$22)`

const pgUpsertBot = `
INSERT INTO oauth_bots (
	workspace_key, app_id, enterprise_id, team_id, bot_token, bot_id,
	bot_user_id, bot_scopes, bot_refresh_token, bot_token_expires_at, installed_at
) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11)
ON CONFLICT (workspace_key) DO UPDATE SET
	app_id = EXCLUDED.app_id,
	bot_token = EXCLUDED.bot_token,
	bot_id = EXCLUDED.bot_id,
	bot_user_id = EXCLUDED.bot_user_id,
	bot_scopes = EXCLUDED.bot_scopes,
	bot_refresh_token = EXCLUDED.bot_refresh_token,
	bot_token_expires_at = EXCLUDED.bot_token_expires_at,
	installed_at = EXCLUDED.installed_at`

const pgSelectInstallation = `
SELECT app_id, enterprise_id, enterprise_name, team_id, team_name,
	is_enterprise_install, bot_token, bot_id, bot_user_id, bot_scopes,
	bot_refresh_token, bot_token_expires_at, user_id, user_token, user_scopes,
	user_refresh_token, user_token_expires_at, incoming_webhook_url,
	incoming_webhook_channel, incoming_webhook_channel_id, installed_at
FROM oauth_installations
WHERE workspace_key = $1 AND ($2 = '' OR user_id = $2)
ORDER BY installed_at DESC
LIMIT 1`

const pgSelectBot = `
SELECT app_id, enterprise_id, team_id, bot_token, bot_id, bot_user_id,
	bot_scopes, bot_refresh_token, bot_token_expires_at, installed_at
FROM oauth_bots
WHERE workspace_key = $1`

// SaveInstallation inserts the grant and upserts the workspace's bot row in
// one transaction.
func (s *PGInstallationStore) SaveInstallation(ctx context.Context, inst *Installation) error {
	q := queryFor(inst)

	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("oauth: beginning save: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	_, err = tx.Exec(ctx, pgInsertInstallation,
		q.workspaceKey(), inst.AppID, inst.EnterpriseID, inst.EnterpriseName,
		inst.TeamID, inst.TeamName, inst.IsEnterpriseInstall, inst.BotToken,
		inst.BotID, inst.BotUserID, inst.BotScopes, inst.BotRefreshToken,
		pgTime(inst.BotTokenExpiresAt), inst.UserID, inst.UserToken,
		inst.UserScopes, inst.UserRefreshToken, pgTime(inst.UserTokenExpiresAt),
		inst.IncomingWebhookURL, inst.IncomingWebhookChannel,
		inst.IncomingWebhookChannelID, inst.InstalledAt)
	if err != nil {
		return fmt.Errorf("oauth: inserting installation: %w", err)
	}

	bot := inst.ToBot()
	_, err = tx.Exec(ctx, pgUpsertBot,
		q.workspaceKey(), bot.AppID, bot.EnterpriseID, bot.TeamID, bot.BotToken,
		bot.BotID, bot.BotUserID, bot.BotScopes, bot.BotRefreshToken,
		pgTime(bot.BotTokenExpiresAt), bot.InstalledAt)
	if err != nil {
		return fmt.Errorf("oauth: upserting bot: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("oauth: committing save: %w", err)
	}
	return nil
}

// FindInstallation returns the newest grant matching q.
func (s *PGInstallationStore) FindInstallation(ctx context.Context, q Query) (*Installation, error) {
	inst := &Installation{}
	var botExpires, userExpires *time.Time
	err := s.pool.QueryRow(ctx, pgSelectInstallation, q.workspaceKey(), q.UserID).Scan(
		&inst.AppID, &inst.EnterpriseID, &inst.EnterpriseName, &inst.TeamID,
		&inst.TeamName, &inst.IsEnterpriseInstall, &inst.BotToken, &inst.BotID,
		&inst.BotUserID, &inst.BotScopes, &inst.BotRefreshToken, &botExpires,
		&inst.UserID, &inst.UserToken, &inst.UserScopes, &inst.UserRefreshToken,
		&userExpires, &inst.IncomingWebhookURL, &inst.IncomingWebhookChannel,
		&inst.IncomingWebhookChannelID, &inst.InstalledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrInstallationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("oauth: querying installation: %w", err)
	}
	if botExpires != nil {
		inst.BotTokenExpiresAt = *botExpires
	}
	if userExpires != nil {
		inst.UserTokenExpiresAt = *userExpires
	}
	return inst, nil
}

// FindBot returns the workspace's bot grant.
func (s *PGInstallationStore) FindBot(ctx context.Context, q Query) (*Bot, error) {
	bot := &Bot{}
	var expires *time.Time
	err := s.pool.QueryRow(ctx, pgSelectBot, q.workspaceKey()).Scan(
		&bot.AppID, &bot.EnterpriseID, &bot.TeamID, &bot.BotToken, &bot.BotID,
		&bot.BotUserID, &bot.BotScopes, &bot.BotRefreshToken, &expires,
		&bot.InstalledAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrBotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("oauth: querying bot: %w", err)
	}
	if expires != nil {
		bot.BotTokenExpiresAt = *expires
	}
	return bot, nil
}

// DeleteInstallation removes all grants by the query's user in the workspace.
func (s *PGInstallationStore) DeleteInstallation(ctx context.Context, q Query) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM oauth_installations WHERE workspace_key = $1 AND user_id = $2`,
		q.workspaceKey(), q.UserID)
	if err != nil {
		return fmt.Errorf("oauth: deleting installation: %w", err)
	}
	return nil
}

// DeleteBot removes the workspace's bot row.
func (s *PGInstallationStore) DeleteBot(ctx context.Context, q Query) error {
	_, err := s.pool.Exec(ctx,
		`DELETE FROM oauth_bots WHERE workspace_key = $1`, q.workspaceKey())
	if err != nil {
		return fmt.Errorf("oauth: deleting bot: %w", err)
	}
	return nil
}

// pgTime maps a zero time to NULL.
func pgTime(t time.Time) *time.Time {
	if t.IsZero() {
		return nil
	}
	return &t
}
