package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"coin-market/models"
)

func (s *Store) CreateAccount(ctx context.Context, a *models.Account) error {
	if _, err := s.accounts.InsertOne(ctx, a); err != nil {
		return fmt.Errorf("create account: %w", duplicate(err))
	}
	return nil
}

func (s *Store) FindAccountByEmail(ctx context.Context, email string) (*models.Account, error) {
	var a models.Account
	if err := s.accounts.FindOne(ctx, bson.M{"email": email}).Decode(&a); err != nil {
		return nil, fmt.Errorf("find account: %w", notFound(err))
	}
	return &a, nil
}

func (s *Store) DeleteAccount(ctx context.Context, uid string) error {
	if _, err := s.accounts.DeleteOne(ctx, bson.M{"_id": uid}); err != nil {
		return fmt.Errorf("delete account %s: %w", uid, err)
	}
	return nil
}
