package game

import (
	"sort"

	"coin-market/models"
)

// Criterion selects the field a ranking is sorted by.
type Criterion string

const (
	ByTotalAsset Criterion = "total"
	ByProfit     Criterion = "profit"
)

// DefaultRankingLimit is how many entries a board shows.
const DefaultRankingLimit = 100

// MinPercentile keeps the top entry from rendering as 0%.
const MinPercentile = 0.01

// Reasons a caller has no numeric rank.
const (
	ReasonAdmin    = "admin"
	ReasonUnranked = "unranked"
)

type RankEntry struct {
	Rank     int     `json:"rank"`
	UID      string  `json:"uid"`
	Nickname string  `json:"nickname"`
	Asset    int64   `json:"asset"`
	Profit   float64 `json:"profit"`
}

type SelfRank struct {
	Ranked     bool    `json:"ranked"`
	Rank       int     `json:"rank,omitempty"`
	Percentile float64 `json:"percentile,omitempty"`
	Reason     string  `json:"reason,omitempty"`
	Nickname   string  `json:"nickname"`
	Asset      int64   `json:"asset"`
	Profit     float64 `json:"profit"`
}

type Board struct {
	Criterion Criterion   `json:"criterion"`
	Total     int         `json:"total"`
	Entries   []RankEntry `json:"entries"`
	Self      *SelfRank   `json:"self,omitempty"`
}

// RankedAsset is the asset value a ranking uses: the daily snapshot, or
// the running total when no snapshot exists yet.
func RankedAsset(u *models.User) int64 {
	if u.HourlyAsset != 0 {
		return u.HourlyAsset
	}
	return u.TotalAsset
}

// BuildRanking sorts non-admin users by the criterion, descending, and
// returns the top limit. selfID, when non-empty, is located in the full
// sorted list.
func BuildRanking(users []*models.User, by Criterion, selfID string, limit int) Board {
	if limit <= 0 {
		limit = DefaultRankingLimit
	}
	ranked := make([]RankEntry, 0, len(users))
	var self *models.User
	for _, u := range users {
		if u.UID == selfID {
			self = u
		}
		if u.IsAdmin {
			continue
		}
		ranked = append(ranked, RankEntry{
			UID:      u.UID,
			Nickname: u.Nickname,
			Asset:    RankedAsset(u),
			Profit:   u.YesterdayProfit,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		if by == ByProfit {
			return ranked[i].Profit > ranked[j].Profit
		}
		return ranked[i].Asset > ranked[j].Asset
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	board := Board{Criterion: by, Total: len(ranked)}
	if len(ranked) > limit {
		board.Entries = ranked[:limit]
	} else {
		board.Entries = ranked
	}

	if self != nil {
		board.Self = locate(ranked, self)
	}
	return board
}

func locate(ranked []RankEntry, self *models.User) *SelfRank {
	out := &SelfRank{Nickname: self.Nickname, Asset: RankedAsset(self), Profit: self.YesterdayProfit}
	for _, e := range ranked {
		if e.UID != self.UID {
			continue
		}
		out.Ranked = true
		out.Rank = e.Rank
		out.Percentile = Percentile(e.Rank, len(ranked))
		return out
	}
	if self.IsAdmin {
		out.Reason = ReasonAdmin
	} else {
		out.Reason = ReasonUnranked
	}
	return out
}

// Percentile is rank/total as a percentage, floored at MinPercentile.
func Percentile(rank, total int) float64 {
	if total <= 0 {
		return 0
	}
	p := round2(float64(rank) / float64(total) * 100)
	if p < MinPercentile {
		p = MinPercentile
	}
	return p
}
