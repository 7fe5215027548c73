package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"

	"coin-market/models"
)

func (s *Store) GetUser(ctx context.Context, uid string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"_id": uid}).Decode(&u); err != nil {
		return nil, fmt.Errorf("get user %s: %w", uid, notFound(err))
	}
	return &u, nil
}

func (s *Store) FindUserByNickname(ctx context.Context, nickname string) (*models.User, error) {
	var u models.User
	if err := s.users.FindOne(ctx, bson.M{"nickname": nickname}).Decode(&u); err != nil {
		return nil, fmt.Errorf("find user by nickname: %w", notFound(err))
	}
	return &u, nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*models.User, error) {
	cursor, err := s.users.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	defer cursor.Close(ctx)

	var users []*models.User
	for cursor.Next(ctx) {
		var u models.User
		if err := cursor.Decode(&u); err != nil {
			return nil, fmt.Errorf("decode user: %w", err)
		}
		users = append(users, &u)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return users, nil
}

func (s *Store) CreateUser(ctx context.Context, u *models.User) error {
	if _, err := s.users.InsertOne(ctx, u); err != nil {
		return fmt.Errorf("create user: %w", duplicate(err))
	}
	return nil
}

func (s *Store) SaveUser(ctx context.Context, u *models.User) error {
	prev := u.Version
	u.Version = prev + 1
	res, err := s.users.ReplaceOne(ctx, bson.M{"_id": u.UID, "version": prev}, u)
	if err != nil {
		u.Version = prev
		return fmt.Errorf("save user %s: %w", u.UID, duplicate(err))
	}
	if res.MatchedCount == 0 {
		u.Version = prev
		return fmt.Errorf("save user %s: %w", u.UID, ErrConflict)
	}
	return nil
}

func (s *Store) SetAssets(ctx context.Context, uid string, total int64) error {
	update := bson.M{
		"$set": bson.M{"hourlyAsset": total, "totalAsset": total},
		"$inc": bson.M{"version": 1},
	}
	return s.updateUser(ctx, uid, update, "set assets")
}

func (s *Store) AddCash(ctx context.Context, uid string, amount int64) error {
	update := bson.M{"$inc": bson.M{"cash": amount, "version": 1}}
	return s.updateUser(ctx, uid, update, "add cash")
}

func (s *Store) updateUser(ctx context.Context, uid string, update bson.M, op string) error {
	res, err := s.users.UpdateOne(ctx, bson.M{"_id": uid}, update)
	if err != nil {
		return fmt.Errorf("%s for %s: %w", op, uid, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("%s for %s: %w", op, uid, ErrNotFound)
	}
	return nil
}

func (s *Store) DeleteUser(ctx context.Context, uid string) error {
	res, err := s.users.DeleteOne(ctx, bson.M{"_id": uid})
	if err != nil {
		return fmt.Errorf("delete user %s: %w", uid, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("delete user %s: %w", uid, ErrNotFound)
	}
	return nil
}
