package db

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	"coin-market/models"
)

func (s *Store) LoadMarket(ctx context.Context) (*models.Market, error) {
	var m models.Market
	if err := s.system.FindOne(ctx, bson.M{"_id": models.MarketDocID}).Decode(&m); err != nil {
		return nil, fmt.Errorf("load market: %w", notFound(err))
	}
	return &m, nil
}

func (s *Store) CreateMarket(ctx context.Context, m *models.Market) error {
	doc := bson.M{"_id": models.MarketDocID, "items": m.Items, "lastSlotId": m.LastSlotID}
	if _, err := s.system.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("create market: %w", duplicate(err))
	}
	return nil
}

func (s *Store) AdvanceMarket(ctx context.Context, items []models.Coin, slotID string) (bool, error) {
	filter := bson.M{"_id": models.MarketDocID, "lastSlotId": bson.M{"$ne": slotID}}
	update := bson.M{"$set": bson.M{"items": items, "lastSlotId": slotID}}
	res, err := s.system.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("advance market to %s: %w", slotID, err)
	}
	return res.MatchedCount == 1, nil
}

func (s *Store) SaveCoins(ctx context.Context, items []models.Coin) error {
	res, err := s.system.UpdateOne(ctx,
		bson.M{"_id": models.MarketDocID},
		bson.M{"$set": bson.M{"items": items}})
	if err != nil {
		return fmt.Errorf("save coins: %w", err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("save coins: %w", ErrNotFound)
	}
	return nil
}

func (s *Store) ReplaceMarket(ctx context.Context, m *models.Market) error {
	doc := bson.M{"_id": models.MarketDocID, "items": m.Items, "lastSlotId": m.LastSlotID}
	_, err := s.system.ReplaceOne(ctx, bson.M{"_id": models.MarketDocID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace market: %w", err)
	}
	return nil
}

func (s *Store) SetForcedChange(ctx context.Context, coinID string, percent float64) error {
	res, err := s.system.UpdateOne(ctx,
		bson.M{"_id": models.MarketDocID, "items.id": coinID},
		bson.M{"$set": bson.M{"items.$.forcedChange": percent}})
	if err != nil {
		return fmt.Errorf("set forced change on %s: %w", coinID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("set forced change on %s: %w", coinID, ErrNotFound)
	}
	return nil
}

func (s *Store) LoadNews(ctx context.Context) (*models.News, error) {
	var n models.News
	if err := s.system.FindOne(ctx, bson.M{"_id": models.NewsDocID}).Decode(&n); err != nil {
		return nil, fmt.Errorf("load news: %w", notFound(err))
	}
	return &n, nil
}

func (s *Store) SaveNews(ctx context.Context, n models.News) error {
	doc := bson.M{"_id": models.NewsDocID, "text": n.Text}
	_, err := s.system.ReplaceOne(ctx, bson.M{"_id": models.NewsDocID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save news: %w", err)
	}
	return nil
}

func (s *Store) LoadRanking(ctx context.Context) (*models.Ranking, error) {
	var r models.Ranking
	if err := s.system.FindOne(ctx, bson.M{"_id": models.RankingDocID}).Decode(&r); err != nil {
		return nil, fmt.Errorf("load ranking: %w", notFound(err))
	}
	return &r, nil
}

func (s *Store) SaveRanking(ctx context.Context, r models.Ranking) error {
	doc := bson.M{"_id": models.RankingDocID, "lastUpdatedDate": r.LastUpdatedDate}
	_, err := s.system.ReplaceOne(ctx, bson.M{"_id": models.RankingDocID}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("save ranking: %w", err)
	}
	return nil
}
