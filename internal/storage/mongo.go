// Package storage persists closed-session records and resolves user
// display names. Collection names follow the existing deployment's
// database ("Session", "User").
package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/HumbertoIsraelLV/meet-app-backend/internal/domain"
)

const (
	sessionCollection = "Session"
	userCollection    = "User"
)

type Store struct {
	client *mongo.Client
	db     *mongo.Database
}

func NewStore(ctx context.Context, uri, database string) (*Store, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		return nil, fmt.Errorf("mongo ping: %w", err)
	}
	return &Store{client: client, db: client.Database(database)}, nil
}

func (s *Store) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

// SaveSession writes the closed room's record. Called exactly once per
// room, after its in-memory state is discarded.
func (s *Store) SaveSession(ctx context.Context, sess *domain.Session) error {
	if _, err := s.db.Collection(sessionCollection).InsertOne(ctx, sess); err != nil {
		return fmt.Errorf("insert session: %w", err)
	}
	return nil
}

// ListSessions returns all persisted session records, newest first.
func (s *Store) ListSessions(ctx context.Context) ([]domain.Session, error) {
	opts := options.Find().SetSort(bson.D{{Key: "_id", Value: -1}})
	cursor, err := s.db.Collection(sessionCollection).Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("find sessions: %w", err)
	}
	defer cursor.Close(ctx)

	var sessions []domain.Session
	if err := cursor.All(ctx, &sessions); err != nil {
		return nil, fmt.Errorf("decode sessions: %w", err)
	}
	return sessions, nil
}

// UserNames resolves identities to display names through the user
// directory. Identities without a directory entry are simply absent
// from the result; the directory is never mutated here.
func (s *Store) UserNames(ctx context.Context, ids []domain.Identity) (map[domain.Identity]string, error) {
	if len(ids) == 0 {
		return map[domain.Identity]string{}, nil
	}
	cursor, err := s.db.Collection(userCollection).Find(ctx, bson.M{"_id": bson.M{"$in": ids}})
	if err != nil {
		return nil, fmt.Errorf("find users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []struct {
		ID   domain.Identity `bson:"_id"`
		Name string          `bson:"name"`
	}
	if err := cursor.All(ctx, &users); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}
	names := make(map[domain.Identity]string, len(users))
	for _, u := range users {
		names[u.ID] = u.Name
	}
	return names, nil
}
