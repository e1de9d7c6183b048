package mocks

import (
	"context"
	"database/sql"
	"sort"
	"strings"
	"sync"

	"github.com/fintrack/fintrack-api/internal/domain"
	"github.com/fintrack/fintrack-api/internal/store"
)

// MockUserStore is an in-memory implementation of store.UserStore for
// testing. It is safe for concurrent use.
type MockUserStore struct {
	mu     sync.RWMutex
	users  map[int64]*domain.User
	nextID int64

	// OwnedCounts is returned by CountOwned for every user.
	OwnedCounts store.OwnedCounts

	// ForcedErr, when set, is returned from every method.
	ForcedErr error
}

var _ store.UserStore = (*MockUserStore)(nil)

// NewMockUserStore creates a new empty in-memory user store.
func NewMockUserStore() *MockUserStore {
	return &MockUserStore{
		users:  make(map[int64]*domain.User),
		nextID: 1,
	}
}

// Create implements store.UserStore.Create.
func (s *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, existing := range s.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return store.ErrEmailExists
		}
	}

	user.ID = s.nextID
	s.nextID++

	copied := *user
	s.users[user.ID] = &copied
	return nil
}

// GetByID implements store.UserStore.GetByID.
func (s *MockUserStore) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	user, ok := s.users[id]
	if !ok {
		return nil, store.ErrUserNotFound
	}
	copied := *user
	return &copied, nil
}

// GetByEmail implements store.UserStore.GetByEmail.
func (s *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			copied := *user
			return &copied, nil
		}
	}
	return nil, store.ErrUserNotFound
}

// Update implements store.UserStore.Update.
func (s *MockUserStore) Update(ctx context.Context, user *domain.User) error {
	if s.ForcedErr != nil {
		return s.ForcedErr
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.users[user.ID]; !ok {
		return store.ErrUserNotFound
	}
	for id, existing := range s.users {
		if id != user.ID && strings.EqualFold(existing.Email, user.Email) {
			return store.ErrEmailExists
		}
	}

	copied := *user
	s.users[user.ID] = &copied
	return nil
}

// ExistsByEmail implements store.UserStore.ExistsByEmail.
func (s *MockUserStore) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	if s.ForcedErr != nil {
		return false, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for _, user := range s.users {
		if strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// ExistsByEmailExcluding implements store.UserStore.ExistsByEmailExcluding.
func (s *MockUserStore) ExistsByEmailExcluding(ctx context.Context, email string, excludeID int64) (bool, error) {
	if s.ForcedErr != nil {
		return false, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	for id, user := range s.users {
		if id != excludeID && strings.EqualFold(user.Email, email) {
			return true, nil
		}
	}
	return false, nil
}

// ListActive implements store.UserStore.ListActive.
func (s *MockUserStore) ListActive(ctx context.Context) ([]*domain.User, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.User
	for _, user := range s.users {
		if user.Active {
			copied := *user
			result = append(result, &copied)
		}
	}
	sortUsersByName(result)
	return result, nil
}

// ListByRole implements store.UserStore.ListByRole.
func (s *MockUserStore) ListByRole(ctx context.Context, role domain.Role) ([]*domain.User, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.User
	for _, user := range s.users {
		if user.Role == role {
			copied := *user
			result = append(result, &copied)
		}
	}
	sortUsersByName(result)
	return result, nil
}

// SearchByName implements store.UserStore.SearchByName.
func (s *MockUserStore) SearchByName(ctx context.Context, name string) ([]*domain.User, error) {
	if s.ForcedErr != nil {
		return nil, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	needle := strings.ToLower(name)
	var result []*domain.User
	for _, user := range s.users {
		if strings.Contains(strings.ToLower(user.Name), needle) {
			copied := *user
			result = append(result, &copied)
		}
	}
	sortUsersByName(result)
	return result, nil
}

// CountActive implements store.UserStore.CountActive.
func (s *MockUserStore) CountActive(ctx context.Context) (int64, error) {
	if s.ForcedErr != nil {
		return 0, s.ForcedErr
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var count int64
	for _, user := range s.users {
		if user.Active {
			count++
		}
	}
	return count, nil
}

// CountOwned implements store.UserStore.CountOwned.
func (s *MockUserStore) CountOwned(ctx context.Context, userID int64) (store.OwnedCounts, error) {
	if s.ForcedErr != nil {
		return store.OwnedCounts{}, s.ForcedErr
	}
	return s.OwnedCounts, nil
}

// WithTx implements store.UserStore.WithTx. The in-memory store has no real
// transactions, so it returns itself.
func (s *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	return s
}

func sortUsersByName(users []*domain.User) {
	sort.Slice(users, func(i, j int) bool {
		return users[i].Name < users[j].Name
	})
}
