package controllers

import (
	"context"
	"errors"
	"sort"
	"sync"

	"coin-market/db"
	"coin-market/models"
)

// memStore is an in-memory stand-in for db.Store. It copies documents in
// and out the way a real database would.
type memStore struct {
	mu       sync.Mutex
	market   *models.Market
	news     *models.News
	ranking  *models.Ranking
	users    map[string]*models.User
	accounts map[string]*models.Account

	advanceErr error
	saveErr    error
	assetsErr  error
	// conflicts makes the next N SaveUser calls fail with ErrConflict.
	conflicts int
	advances  int
}

func newMemStore() *memStore {
	return &memStore{
		users:    map[string]*models.User{},
		accounts: map[string]*models.Account{},
	}
}

var (
	_ db.MarketStore  = (*memStore)(nil)
	_ db.UserStore    = (*memStore)(nil)
	_ db.AccountStore = (*memStore)(nil)
)

func cloneMarket(m *models.Market) *models.Market {
	out := &models.Market{LastSlotID: m.LastSlotID, Items: make([]models.Coin, len(m.Items))}
	for i, c := range m.Items {
		out.Items[i] = c.Clone()
	}
	return out
}

func (s *memStore) LoadMarket(context.Context) (*models.Market, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.market == nil {
		return nil, db.ErrNotFound
	}
	return cloneMarket(s.market), nil
}

func (s *memStore) CreateMarket(_ context.Context, m *models.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.market != nil {
		return db.ErrDuplicate
	}
	s.market = cloneMarket(m)
	return nil
}

func (s *memStore) AdvanceMarket(_ context.Context, items []models.Coin, slotID string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.advanceErr != nil {
		return false, s.advanceErr
	}
	if s.market == nil {
		return false, db.ErrNotFound
	}
	if s.market.LastSlotID == slotID {
		return false, nil
	}
	s.market = cloneMarket(&models.Market{Items: items, LastSlotID: slotID})
	s.advances++
	return true, nil
}

func (s *memStore) SaveCoins(_ context.Context, items []models.Coin) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot := ""
	if s.market != nil {
		slot = s.market.LastSlotID
	}
	s.market = cloneMarket(&models.Market{Items: items, LastSlotID: slot})
	return nil
}

func (s *memStore) ReplaceMarket(_ context.Context, m *models.Market) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.market = cloneMarket(m)
	return nil
}

func (s *memStore) SetForcedChange(_ context.Context, coinID string, percent float64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.market == nil {
		return db.ErrNotFound
	}
	for i := range s.market.Items {
		if s.market.Items[i].ID == coinID {
			p := percent
			s.market.Items[i].ForcedChange = &p
			return nil
		}
	}
	return db.ErrNotFound
}

func (s *memStore) LoadNews(context.Context) (*models.News, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.news == nil {
		return nil, db.ErrNotFound
	}
	n := *s.news
	return &n, nil
}

func (s *memStore) SaveNews(_ context.Context, n models.News) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.news = &n
	return nil
}

func (s *memStore) LoadRanking(context.Context) (*models.Ranking, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ranking == nil {
		return nil, db.ErrNotFound
	}
	r := *s.ranking
	return &r, nil
}

func (s *memStore) SaveRanking(_ context.Context, r models.Ranking) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.ranking = &r
	return nil
}

func (s *memStore) GetUser(_ context.Context, uid string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uid]
	if !ok {
		return nil, db.ErrNotFound
	}
	return u.Clone(), nil
}

func (s *memStore) FindUserByNickname(_ context.Context, nickname string) (*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, u := range s.users {
		if u.Nickname == nickname {
			return u.Clone(), nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *memStore) ListUsers(context.Context) ([]*models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]*models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UID < out[j].UID })
	return out, nil
}

func (s *memStore) CreateUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.UID]; ok {
		return db.ErrDuplicate
	}
	for _, other := range s.users {
		if other.Nickname == u.Nickname {
			return db.ErrDuplicate
		}
	}
	s.users[u.UID] = u.Clone()
	return nil
}

func (s *memStore) SaveUser(_ context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.saveErr != nil {
		return s.saveErr
	}
	if s.conflicts > 0 {
		s.conflicts--
		s.users[u.UID].Version++
		return db.ErrConflict
	}
	cur, ok := s.users[u.UID]
	if !ok {
		return db.ErrNotFound
	}
	if cur.Version != u.Version {
		return db.ErrConflict
	}
	next := u.Clone()
	next.Version++
	s.users[u.UID] = next
	u.Version = next.Version
	return nil
}

func (s *memStore) SetAssets(_ context.Context, uid string, total int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.assetsErr != nil {
		return s.assetsErr
	}
	u, ok := s.users[uid]
	if !ok {
		return db.ErrNotFound
	}
	u.TotalAsset = total
	u.HourlyAsset = total
	u.Version++
	return nil
}

func (s *memStore) AddCash(_ context.Context, uid string, amount int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u, ok := s.users[uid]
	if !ok {
		return db.ErrNotFound
	}
	u.Cash += amount
	u.Version++
	return nil
}

func (s *memStore) DeleteUser(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[uid]; !ok {
		return db.ErrNotFound
	}
	delete(s.users, uid)
	return nil
}

func (s *memStore) CreateAccount(_ context.Context, a *models.Account) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, other := range s.accounts {
		if other.Email == a.Email {
			return db.ErrDuplicate
		}
	}
	acct := *a
	s.accounts[a.UID] = &acct
	return nil
}

func (s *memStore) FindAccountByEmail(_ context.Context, email string) (*models.Account, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, a := range s.accounts {
		if a.Email == email {
			acct := *a
			return &acct, nil
		}
	}
	return nil, db.ErrNotFound
}

func (s *memStore) DeleteAccount(_ context.Context, uid string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.accounts[uid]; !ok {
		return db.ErrNotFound
	}
	delete(s.accounts, uid)
	return nil
}

func (s *memStore) putUser(u *models.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if u.Holdings == nil {
		u.Holdings = map[string]models.Holding{}
	}
	s.users[u.UID] = u.Clone()
}

func (s *memStore) user(uid string) *models.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.users[uid].Clone()
}

// recorder captures broadcasts.
type recorder struct {
	mu   sync.Mutex
	msgs []models.WSMessage
}

func (r *recorder) Broadcast(msg models.WSMessage) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.msgs = append(r.msgs, msg)
}

func (r *recorder) events() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.msgs))
	for i, m := range r.msgs {
		out[i] = m.Event
	}
	return out
}

var errBoom = errors.New("boom")
