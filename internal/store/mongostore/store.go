// Package mongostore implements store.Store on MongoDB, one collection per
// entity. Ids are ObjectID hex strings; references between documents are kept
// as those strings and are not enforced.
package mongostore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/pliu/aichat/internal/store"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
)

type MongoStore struct {
	client *mongo.Client
	db     *mongo.Database
}

var _ store.Store = (*MongoStore)(nil)

var allCollections = []string{
	store.CollUsers,
	store.CollChatHistory,
	store.CollDirectMessages,
	store.CollGroups,
	store.CollGroupMessages,
	store.CollNotes,
	store.CollEmailTemplates,
}

// New connects to uri, verifies the connection and ensures indexes.
func New(ctx context.Context, uri, database string) (*MongoStore, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(uri).SetConnectTimeout(10 * time.Second))
	if err != nil {
		return nil, err
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	s := &MongoStore{client: client, db: client.Database(database)}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("ensure indexes: %w", err)
	}
	return s, nil
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	unique := func(field string) mongo.IndexModel {
		return mongo.IndexModel{
			Keys:    bson.D{{Key: field, Value: 1}},
			Options: options.Index().SetUnique(true),
		}
	}
	byTime := func(fields ...string) mongo.IndexModel {
		keys := bson.D{}
		for _, f := range fields {
			keys = append(keys, bson.E{Key: f, Value: 1})
		}
		return mongo.IndexModel{Keys: keys}
	}

	indexes := map[string][]mongo.IndexModel{
		store.CollUsers:          {unique("username"), unique("email"), byTime("verificationToken")},
		store.CollEmailTemplates: {unique("name")},
		store.CollChatHistory:    {byTime("userId", "timestamp")},
		store.CollDirectMessages: {byTime("senderId", "recipientId", "timestamp")},
		store.CollGroups:         {byTime("members")},
		store.CollGroupMessages:  {byTime("groupId", "timestamp")},
		store.CollNotes:          {byTime("userId", "createdAt")},
	}
	for coll, models := range indexes {
		if _, err := s.db.Collection(coll).Indexes().CreateMany(ctx, models); err != nil {
			return fmt.Errorf("%s: %w", coll, err)
		}
	}
	return nil
}

func (s *MongoStore) coll(name string) *mongo.Collection {
	return s.db.Collection(name)
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, nil)
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) Stats(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64, len(allCollections))
	for _, name := range allCollections {
		n, err := s.coll(name).CountDocuments(ctx, bson.D{})
		if err != nil {
			return nil, fmt.Errorf("count %s: %w", name, err)
		}
		out[name] = n
	}
	return out, nil
}

// newestFirst sorts by the given time field, breaking ties on _id, whose
// ObjectIDs grow monotonically per process.
func newestFirst(field string, limit int) *options.FindOptionsBuilder {
	opts := options.Find().SetSort(bson.D{{Key: field, Value: -1}, {Key: "_id", Value: -1}})
	if limit > 0 {
		opts.SetLimit(int64(limit))
	}
	return opts
}

func objectID(id string) (bson.ObjectID, bool) {
	oid, err := bson.ObjectIDFromHex(id)
	if err != nil {
		return bson.NilObjectID, false
	}
	return oid, true
}

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return store.ErrNotFound
	}
	return err
}

func now() time.Time {
	return time.Now().UTC()
}

func reverse[T any](items []T) {
	for i, j := 0, len(items)-1; i < j; i, j = i+1, j-1 {
		items[i], items[j] = items[j], items[i]
	}
}
