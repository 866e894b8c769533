package oauth

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

// MongoInstallationStore persists installations in MongoDB: an
// "installations" collection keyed per user grant and a "bots" collection
// keyed per workspace.
type MongoInstallationStore struct {
	installations *mongo.Collection
	bots          *mongo.Collection
}

// NewMongoInstallationStore creates a MongoDB-backed installation store in
// the given database.
func NewMongoInstallationStore(db *mongo.Database) (*MongoInstallationStore, error) {
	if db == nil {
		return nil, errors.New("oauth: mongo store requires a database")
	}
	return &MongoInstallationStore{
		installations: db.Collection("installations"),
		bots:          db.Collection("bots"),
	}, nil
}

type installationDoc struct {
	Key          string        `bson:"_id"`
	WorkspaceKey string        `bson:"workspace_key"`
	InstalledAt  int64         `bson:"installed_at"`
	Installation *Installation `bson:"installation"`
}

type botDoc struct {
	WorkspaceKey string `bson:"_id"`
	Bot          *Bot   `bson:"bot"`
}

// SaveInstallation upserts the user grant and the workspace's bot document.
func (s *MongoInstallationStore) SaveInstallation(ctx context.Context, inst *Installation) error {
	q := queryFor(inst)
	upsert := options.Replace().SetUpsert(true)

	doc := installationDoc{
		Key:          q.userKey(),
		WorkspaceKey: q.workspaceKey(),
		InstalledAt:  inst.InstalledAt.UnixNano(),
		Installation: inst,
	}
	if _, err := s.installations.ReplaceOne(ctx, bson.M{"_id": doc.Key}, doc, upsert); err != nil {
		return fmt.Errorf("oauth: saving installation: %w", err)
	}

	bot := botDoc{WorkspaceKey: q.workspaceKey(), Bot: inst.ToBot()}
	if _, err := s.bots.ReplaceOne(ctx, bson.M{"_id": bot.WorkspaceKey}, bot, upsert); err != nil {
		return fmt.Errorf("oauth: saving bot: %w", err)
	}
	return nil
}

// FindInstallation returns the grant matching q, falling back to the
// workspace's most recently installed grant when no user id is given.
func (s *MongoInstallationStore) FindInstallation(ctx context.Context, q Query) (*Installation, error) {
	var res *mongo.SingleResult
	if q.UserID != "" {
		res = s.installations.FindOne(ctx, bson.M{"_id": q.userKey()})
	} else {
		opts := options.FindOne().SetSort(bson.D{{Key: "installed_at", Value: -1}})
		res = s.installations.FindOne(ctx, bson.M{"workspace_key": q.workspaceKey()}, opts)
	}

	var doc installationDoc
	err := res.Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrInstallationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("oauth: finding installation: %w", err)
	}
	return doc.Installation, nil
}

// FindBot returns the workspace's bot grant.
func (s *MongoInstallationStore) FindBot(ctx context.Context, q Query) (*Bot, error) {
	var doc botDoc
	err := s.bots.FindOne(ctx, bson.M{"_id": q.workspaceKey()}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, ErrBotNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("oauth: finding bot: %w", err)
	}
	return doc.Bot, nil
}

// DeleteInstallation removes the grant matching q.
func (s *MongoInstallationStore) DeleteInstallation(ctx context.Context, q Query) error {
	if _, err := s.installations.DeleteOne(ctx, bson.M{"_id": q.userKey()}); err != nil {
		return fmt.Errorf("oauth: deleting installation: %w", err)
	}
	return nil
}

// DeleteBot removes the workspace's bot document.
func (s *MongoInstallationStore) DeleteBot(ctx context.Context, q Query) error {
	if _, err := s.bots.DeleteOne(ctx, bson.M{"_id": q.workspaceKey()}); err != nil {
		return fmt.Errorf("oauth: deleting bot: %w", err)
	}
	return nil
}
