package storage

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/mongo"
)

// MessageRecord is the canonical persisted form of a chat message.
// It always carries the sender's original, untranslated content.
type MessageRecord struct {
	Content   string    `bson:"content"`
	Sender    string    `bson:"sender"`
	Chat      string    `bson:"chat"`
	CreatedAt time.Time `bson:"createdAt"`
}

// MessageStore accepts one record per inbound message for durable storage.
type MessageStore interface {
	Store(ctx context.Context, rec MessageRecord) error
}

type MongoMessageStore struct {
	coll *mongo.Collection
}

func NewMongoMessageStore(db *mongo.Database) *MongoMessageStore {
	return &MongoMessageStore{coll: db.Collection("messages")}
}

func (s *MongoMessageStore) Store(ctx context.Context, rec MessageRecord) error {
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}
	if _, err := s.coll.InsertOne(ctx, rec); err != nil {
		return errors.Wrap(err, "insert message")
	}
	return nil
}
