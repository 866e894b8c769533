package oauth

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
)

// Vendor selects the SQL placeholder dialect for SQLInstallationStore.
type Vendor string

const (
	// VendorPostgreSQL uses $1, $2, ... placeholders.
	VendorPostgreSQL Vendor = "postgresql"
	// VendorMySQL uses ? placeholders.
	VendorMySQL Vendor = "mysql"
)

const (
	installationsTable = "oauth_installations"
	botsTable          = "oauth_bots"
)

// SQLInstallationStore persists installations through database/sql. The
// schema is two tables: oauth_installations (one row per user grant, newest
// wins) and oauth_bots (one row per workspace, upserted on save).
type SQLInstallationStore struct {
	db *sql.DB
	sb squirrel.StatementBuilderType
}

// NewSQLInstallationStore creates a SQL-backed installation store for the
// given vendor dialect.
func NewSQLInstallationStore(db *sql.DB, vendor Vendor) (*SQLInstallationStore, error) {
	if db == nil {
		return nil, errors.New("oauth: sql store requires a database handle")
	}

	sb := squirrel.StatementBuilder
	switch vendor {
	case VendorPostgreSQL:
		sb = sb.PlaceholderFormat(squirrel.Dollar)
	case VendorMySQL, "":
		sb = sb.PlaceholderFormat(squirrel.Question)
	default:
		return nil, fmt.Errorf("oauth: unsupported sql vendor %q", vendor)
	}

	return &SQLInstallationStore{db: db, sb: sb}, nil
}

var installationColumns = []string{
	"app_id", "enterprise_id", "enterprise_name", "team_id", "team_name",
	"is_enterprise_install", "bot_token", "bot_id", "bot_user_id",
	"bot_scopes", "bot_refresh_token", "bot_token_expires_at",
	"user_id", "user_token", "user_scopes", "user_refresh_token",
	"user_token_expires_at", "incoming_webhook_url",
	"incoming_webhook_channel", "incoming_webhook_channel_id", "installed_at",
}

var botColumns = []string{
	"app_id", "enterprise_id", "team_id", "bot_token", "bot_id",
	"bot_user_id", "bot_scopes", "bot_refresh_token",
	"bot_token_expires_at", "installed_at",
}

// SaveInstallation inserts the grant and replaces the workspace's bot row.
// Both statements run in one transaction.
func (s *SQLInstallationStore) SaveInstallation(ctx context.Context, inst *Installation) error {
	q := queryFor(inst)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("oauth: beginning save: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	insert, args, err := s.sb.Insert(installationsTable).
		Columns(append([]string{"workspace_key"}, installationColumns...)...).
		Values(q.workspaceKey(),
			inst.AppID, inst.EnterpriseID, inst.EnterpriseName, inst.TeamID, inst.TeamName,
			inst.IsEnterpriseInstall, inst.BotToken, inst.BotID, inst.BotUserID,
			inst.BotScopes, inst.BotRefreshToken, nullTime(inst.BotTokenExpiresAt),
			inst.UserID, inst.UserToken, inst.UserScopes, inst.UserRefreshToken,
			nullTime(inst.UserTokenExpiresAt), inst.IncomingWebhookURL,
			inst.IncomingWebhookChannel, inst.IncomingWebhookChannelID, inst.InstalledAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("oauth: building insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insert, args...); err != nil {
		return fmt.Errorf("oauth: inserting installation: %w", err)
	}

	del, args, err := s.sb.Delete(botsTable).
		Where(squirrel.Eq{"workspace_key": q.workspaceKey()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("oauth: building bot delete: %w", err)
	}
	if _, err := tx.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("oauth: replacing bot: %w", err)
	}

	bot := inst.ToBot()
	insertBot, args, err := s.sb.Insert(botsTable).
		Columns(append([]string{"workspace_key"}, botColumns...)...).
		Values(q.workspaceKey(),
			bot.AppID, bot.EnterpriseID, bot.TeamID, bot.BotToken, bot.BotID,
			bot.BotUserID, bot.BotScopes, bot.BotRefreshToken,
			nullTime(bot.BotTokenExpiresAt), bot.InstalledAt).
		ToSql()
	if err != nil {
		return fmt.Errorf("oauth: building bot insert: %w", err)
	}
	if _, err := tx.ExecContext(ctx, insertBot, args...); err != nil {
		return fmt.Errorf("oauth: inserting bot: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("oauth: committing save: %w", err)
	}
	return nil
}

// FindInstallation returns the newest grant matching q.
func (s *SQLInstallationStore) FindInstallation(ctx context.Context, q Query) (*Installation, error) {
	where := squirrel.Eq{"workspace_key": q.workspaceKey()}
	if q.UserID != "" {
		where["user_id"] = q.UserID
	}

	query, args, err := s.sb.Select(installationColumns...).
		From(installationsTable).
		Where(where).
		OrderBy("installed_at DESC").
		Limit(1).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("oauth: building select: %w", err)
	}

	inst := &Installation{}
	var botExpires, userExpires sql.NullTime
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&inst.AppID, &inst.EnterpriseID, &inst.EnterpriseName, &inst.TeamID, &inst.TeamName,
		&inst.IsEnterpriseInstall, &inst.BotToken, &inst.BotID, &inst.BotUserID,
		&inst.BotScopes, &inst.BotRefreshToken, &botExpires,
		&inst.UserID, &inst.UserToken, &inst.UserScopes, &inst.UserRefreshToken,
		&userExpires, &inst.IncomingWebhookURL,
		&inst.IncomingWebhookChannel, &inst.IncomingWebhookChannelID, &inst.InstalledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrInstallationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("oauth: querying installation: %w", err)
	}
	inst.BotTokenExpiresAt = botExpires.Time
	inst.UserTokenExpiresAt = userExpires.Time
	return inst, nil
}

// FindBot returns the workspace's bot grant.
func (s *SQLInstallationStore) FindBot(ctx context.Context, q Query) (*Bot, error) {
	query, args, err := s.sb.Select(botColumns...).
		From(botsTable).
		Where(squirrel.Eq{"workspace_key": q.workspaceKey()}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("oauth: building select: %w", err)
	}

	bot := &Bot{}
	var expires sql.NullTime
	err = s.db.QueryRowContext(ctx, query, args...).Scan(
		&bot.AppID, &bot.EnterpriseID, &bot.TeamID, &bot.BotToken, &bot.BotID,
		&bot.BotUserID, &bot.BotScopes, &bot.BotRefreshToken,
		&expires, &bot.InstalledAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrBotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("oauth: querying bot: %w", err)
	}
	bot.BotTokenExpiresAt = expires.Time
	return bot, nil
}

// DeleteInstallation removes all grants by the query's user in the workspace.
func (s *SQLInstallationStore) DeleteInstallation(ctx context.Context, q Query) error {
	del, args, err := s.sb.Delete(installationsTable).
		Where(squirrel.Eq{"workspace_key": q.workspaceKey(), "user_id": q.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("oauth: building delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("oauth: deleting installation: %w", err)
	}
	return nil
}

// DeleteBot removes the workspace's bot row.
func (s *SQLInstallationStore) DeleteBot(ctx context.Context, q Query) error {
	del, args, err := s.sb.Delete(botsTable).
		Where(squirrel.Eq{"workspace_key": q.workspaceKey()}).
		ToSql()
	if err != nil {
		return fmt.Errorf("oauth: building delete: %w", err)
	}
	if _, err := s.db.ExecContext(ctx, del, args...); err != nil {
		return fmt.Errorf("oauth: deleting bot: %w", err)
	}
	return nil
}

func nullTime(t time.Time) sql.NullTime {
	return sql.NullTime{Time: t, Valid: !t.IsZero()}
}
