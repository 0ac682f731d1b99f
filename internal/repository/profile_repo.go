package repository

import (
	"context"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"prepmate/internal/model"
)

// ProfileRepo stores the candidate's background documents (CV, experience
// write-ups, personality profile) and serves them back as retrieval
// context for answer generation.
type ProfileRepo interface {
	Add(ctx context.Context, doc *model.ProfileDocument) error

	// Text returns the concatenated text of all documents of a kind,
	// newest last. The query narrows by naive keyword match when set.
	Text(ctx context.Context, kind model.ProfileKind, query string) (string, error)

	// Latest returns the most recent document of a kind, or nil
	Latest(ctx context.Context, kind model.ProfileKind) (*model.ProfileDocument, error)
}

type profileRepo struct {
	collection *mongo.Collection
}

// NewProfileRepo creates a mongo-backed profile document store
func NewProfileRepo(db *mongo.Database) ProfileRepo {
	return &profileRepo{
		collection: db.Collection("profile_documents"),
	}
}

func (r *profileRepo) Add(ctx context.Context, doc *model.ProfileDocument) error {
	if doc.AddedAt.IsZero() {
		doc.AddedAt = time.Now()
	}

	result, err := r.collection.InsertOne(ctx, doc)
	if err != nil {
		return err
	}
	if oid, ok := result.InsertedID.(primitive.ObjectID); ok {
		doc.ID = oid.Hex()
	}
	return nil
}

func (r *profileRepo) Text(ctx context.Context, kind model.ProfileKind, query string) (string, error) {
	opts := options.Find().SetSort(bson.M{"addedAt": 1})
	cursor, err := r.collection.Find(ctx, bson.M{"kind": kind}, opts)
	if err != nil {
		return "", err
	}
	defer cursor.Close(ctx)

	var docs []*model.ProfileDocument
	if err = cursor.All(ctx, &docs); err != nil {
		return "", err
	}

	matched := filterByKeywords(docs, query)

	var parts []string
	for _, d := range matched {
		parts = append(parts, d.Text)
	}
	return strings.Join(parts, "\n\n"), nil
}

func (r *profileRepo) Latest(ctx context.Context, kind model.ProfileKind) (*model.ProfileDocument, error) {
	opts := options.FindOne().SetSort(bson.M{"addedAt": -1})

	var doc model.ProfileDocument
	err := r.collection.FindOne(ctx, bson.M{"kind": kind}, opts).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &doc, nil
}

// filterByKeywords keeps documents sharing at least one word with the
// query. When nothing matches (or the query is empty) it returns all
// documents: dropping everything would starve the generator of context.
func filterByKeywords(docs []*model.ProfileDocument, query string) []*model.ProfileDocument {
	words := strings.Fields(strings.ToLower(query))
	if len(words) == 0 {
		return docs
	}

	var matched []*model.ProfileDocument
	for _, d := range docs {
		text := strings.ToLower(d.Text)
		for _, w := range words {
			if len(w) >= 4 && strings.Contains(text, w) {
				matched = append(matched, d)
				break
			}
		}
	}
	if len(matched) == 0 {
		return docs
	}
	return matched
}
