package repository

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"prepmate/internal/model"
)

// SessionRepo archives exported session snapshots. The live session stays
// in memory; this is only the explicit-export durability path.
type SessionRepo interface {
	Archive(ctx context.Context, session *model.Session) error

	// GetByID returns an archived snapshot, or nil when none exists
	GetByID(ctx context.Context, id string) (*model.Session, error)

	ListRecent(ctx context.Context, limit int64) ([]*model.Session, error)
}

type sessionRepo struct {
	collection *mongo.Collection
}

// NewSessionRepo creates a mongo-backed session archive
func NewSessionRepo(db *mongo.Database) SessionRepo {
	return &sessionRepo{
		collection: db.Collection("session_archive"),
	}
}

func (r *sessionRepo) Archive(ctx context.Context, session *model.Session) error {
	if session.UpdatedAt.IsZero() {
		session.UpdatedAt = time.Now()
	}

	// Upsert by session ID so re-exporting the same session replaces the
	// earlier snapshot instead of duplicating it
	opts := options.Replace().SetUpsert(true)
	_, err := r.collection.ReplaceOne(ctx, bson.M{"_id": session.ID}, session, opts)
	return err
}

func (r *sessionRepo) GetByID(ctx context.Context, id string) (*model.Session, error) {
	var session model.Session
	err := r.collection.FindOne(ctx, bson.M{"_id": id}).Decode(&session)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

func (r *sessionRepo) ListRecent(ctx context.Context, limit int64) ([]*model.Session, error) {
	opts := options.Find().
		SetSort(bson.M{"updatedAt": -1}).
		SetLimit(limit)

	cursor, err := r.collection.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var sessions []*model.Session
	if err = cursor.All(ctx, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}
