package repository

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"marketly-backend/models"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store used by tests. Transactions snapshot the
// data and restore it when the callback fails. The error fields let tests
// inject storage failures.
type MemoryStore struct {
	mu        sync.Mutex
	users     map[uuid.UUID]models.User
	campaigns map[uuid.UUID]models.Campaign
	clock     time.Time
	inTx      bool

	CreateUserErr     error
	UpdateUserErr     error
	CreateCampaignErr error
	ListCampaignsErr  error
	PingErr           error
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		users:     make(map[uuid.UUID]models.User),
		campaigns: make(map[uuid.UUID]models.Campaign),
		clock:     time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
}

// Users returns a user repository backed by the store's maps
func (s *MemoryStore) Users() UserRepository { return memoryUsers{s} }

// Campaigns returns a campaign repository backed by the store's maps
func (s *MemoryStore) Campaigns() CampaignRepository { return memoryCampaigns{s} }

// InTx runs fn and rolls back every change it made if it returns an error
func (s *MemoryStore) InTx(ctx context.Context, fn func(tx Store) error) error {
	s.mu.Lock()
	if s.inTx {
		s.mu.Unlock()
		return fn(s)
	}
	s.inTx = true
	users := make(map[uuid.UUID]models.User, len(s.users))
	for k, v := range s.users {
		users[k] = v
	}
	campaigns := make(map[uuid.UUID]models.Campaign, len(s.campaigns))
	for k, v := range s.campaigns {
		campaigns[k] = v
	}
	s.mu.Unlock()

	err := fn(s)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.inTx = false
	if err != nil {
		s.users = users
		s.campaigns = campaigns
	}
	return err
}

// Ping returns PingErr
func (s *MemoryStore) Ping(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.PingErr
}

// UserCount returns the number of stored users
func (s *MemoryStore) UserCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.users)
}

// CampaignCount returns the number of stored campaigns across all owners
func (s *MemoryStore) CampaignCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.campaigns)
}

// tick returns strictly increasing timestamps so ordering is deterministic
func (s *MemoryStore) tick() time.Time {
	s.clock = s.clock.Add(time.Second)
	return s.clock
}

type memoryUsers struct{ s *MemoryStore }

func (r memoryUsers) Create(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.CreateUserErr != nil {
		return r.s.CreateUserErr
	}
	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateKey
		}
	}
	user.ID = uuid.New()
	user.CreatedAt = r.s.tick()
	r.s.users[user.ID] = *user
	return nil
}

func (r memoryUsers) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (r memoryUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	for _, u := range r.s.users {
		if strings.EqualFold(u.Email, email) {
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (r memoryUsers) Update(ctx context.Context, user *models.User) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.UpdateUserErr != nil {
		return r.s.UpdateUserErr
	}
	existing, ok := r.s.users[user.ID]
	if !ok {
		return ErrNotFound
	}
	for id, u := range r.s.users {
		if id != user.ID && strings.EqualFold(u.Email, user.Email) {
			return ErrDuplicateKey
		}
	}
	existing.Name = user.Name
	existing.Email = user.Email
	existing.PasswordHash = user.PasswordHash
	r.s.users[user.ID] = existing
	return nil
}

type memoryCampaigns struct{ s *MemoryStore }

func (r memoryCampaigns) Create(ctx context.Context, campaign *models.Campaign) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.CreateCampaignErr != nil {
		return r.s.CreateCampaignErr
	}
	campaign.ID = uuid.New()
	campaign.CreatedAt = r.s.tick()
	r.s.campaigns[campaign.ID] = *campaign
	return nil
}

func (r memoryCampaigns) ListByUserID(ctx context.Context, userID uuid.UUID) ([]*models.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	if r.s.ListCampaignsErr != nil {
		return nil, r.s.ListCampaignsErr
	}
	campaigns := make([]*models.Campaign, 0)
	for _, c := range r.s.campaigns {
		if c.UserID == userID {
			c := c
			campaigns = append(campaigns, &c)
		}
	}
	sort.Slice(campaigns, func(i, j int) bool {
		return campaigns[i].CreatedAt.After(campaigns[j].CreatedAt)
	})
	return campaigns, nil
}

func (r memoryCampaigns) GetByUserIDAndID(ctx context.Context, userID, id uuid.UUID) (*models.Campaign, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.campaigns[id]
	if !ok || c.UserID != userID {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (r memoryCampaigns) DeleteByUserIDAndID(ctx context.Context, userID, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	c, ok := r.s.campaigns[id]
	if !ok || c.UserID != userID {
		return ErrNotFound
	}
	delete(r.s.campaigns, id)
	return nil
}
