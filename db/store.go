// Package db is the document store: the system documents (market, news,
// ranking), user documents and identity accounts, kept in MongoDB.
package db

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/mongo"

	"coin-market/models"
)

var (
	ErrNotFound  = errors.New("document not found")
	ErrConflict  = errors.New("document changed since it was read")
	ErrDuplicate = errors.New("document already exists")
)

// MarketStore holds the process-wide system documents.
type MarketStore interface {
	LoadMarket(ctx context.Context) (*models.Market, error)
	// CreateMarket inserts the market document; ErrDuplicate if it exists.
	CreateMarket(ctx context.Context, m *models.Market) error
	// AdvanceMarket writes items and slotID only if the stored slot differs
	// from slotID. It reports whether this call performed the write.
	AdvanceMarket(ctx context.Context, items []models.Coin, slotID string) (bool, error)
	SaveCoins(ctx context.Context, items []models.Coin) error
	ReplaceMarket(ctx context.Context, m *models.Market) error
	SetForcedChange(ctx context.Context, coinID string, percent float64) error

	LoadNews(ctx context.Context) (*models.News, error)
	SaveNews(ctx context.Context, n models.News) error

	LoadRanking(ctx context.Context) (*models.Ranking, error)
	SaveRanking(ctx context.Context, r models.Ranking) error
}

// UserStore holds one document per player.
type UserStore interface {
	GetUser(ctx context.Context, uid string) (*models.User, error)
	FindUserByNickname(ctx context.Context, nickname string) (*models.User, error)
	ListUsers(ctx context.Context) ([]*models.User, error)
	CreateUser(ctx context.Context, u *models.User) error
	// SaveUser replaces the document if its version still matches u.Version
	// and bumps the version; otherwise it returns ErrConflict.
	SaveUser(ctx context.Context, u *models.User) error
	// SetAssets overwrites the hourly snapshot and total asset fields.
	SetAssets(ctx context.Context, uid string, total int64) error
	AddCash(ctx context.Context, uid string, amount int64) error
	DeleteUser(ctx context.Context, uid string) error
}

// AccountStore backs the identity service.
type AccountStore interface {
	CreateAccount(ctx context.Context, a *models.Account) error
	FindAccountByEmail(ctx context.Context, email string) (*models.Account, error)
	DeleteAccount(ctx context.Context, uid string) error
}

// Store implements every store interface on one database.
type Store struct {
	system   *mongo.Collection
	users    *mongo.Collection
	accounts *mongo.Collection
}

func NewStore(database *mongo.Database) *Store {
	return &Store{
		system:   database.Collection("system"),
		users:    database.Collection("users"),
		accounts: database.Collection("accounts"),
	}
}

var (
	_ MarketStore  = (*Store)(nil)
	_ UserStore    = (*Store)(nil)
	_ AccountStore = (*Store)(nil)
)

func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}

func duplicate(err error) error {
	if mongo.IsDuplicateKeyError(err) {
		return ErrDuplicate
	}
	return err
}
