package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// EnsureIndexes creates the unique indexes that back nickname and e-mail
// uniqueness.
func (s *Store) EnsureIndexes(ctx context.Context) error {
	nickname := mongo.IndexModel{
		Keys:    bson.D{{Key: "nickname", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.users.Indexes().CreateOne(ctx, nickname); err != nil {
		return fmt.Errorf("create users.nickname index: %w", err)
	}

	email := mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true),
	}
	if _, err := s.accounts.Indexes().CreateOne(ctx, email); err != nil {
		return fmt.Errorf("create accounts.email index: %w", err)
	}
	return nil
}
