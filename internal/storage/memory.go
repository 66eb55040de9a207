package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/good-yellow-bee/adminnotices/internal/models"
)

// MemoryStorage implements Storage in process memory. It backs tests and
// throwaway instances started with an empty database path.
type MemoryStorage struct {
	users    *memoryUserRepo
	options  *memoryOptionRepo
	userMeta *memoryUserMetaRepo
}

// NewMemoryStorage creates an empty in-memory storage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		users:    &memoryUserRepo{byID: make(map[string]*models.User)},
		options:  &memoryOptionRepo{values: make(map[string]string)},
		userMeta: &memoryUserMetaRepo{values: make(map[string]map[string]string)},
	}
}

func (s *MemoryStorage) Open() error    { return nil }
func (s *MemoryStorage) Close() error   { return nil }
func (s *MemoryStorage) Migrate() error { return nil }

// EnsureAdminUser creates default admin if no users exist.
func (s *MemoryStorage) EnsureAdminUser() error {
	return ensureAdminUser(context.Background(), s)
}

func (s *MemoryStorage) Users() UserRepository        { return s.users }
func (s *MemoryStorage) Options() OptionRepository    { return s.options }
func (s *MemoryStorage) UserMeta() UserMetaRepository { return s.userMeta }

type memoryUserRepo struct {
	mu   sync.RWMutex
	byID map[string]*models.User
}

func (r *memoryUserRepo) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; ok {
		return fmt.Errorf("insert user: duplicate id %s", user.ID)
	}
	for _, u := range r.byID {
		if u.Username == user.Username {
			return fmt.Errorf("insert user: duplicate username %s", user.Username)
		}
	}
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *memoryUserRepo) GetByID(_ context.Context, id string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	u, ok := r.byID[id]
	if !ok {
		//nolint:nilnil
		return nil, nil
	}
	cp := *u
	return &cp, nil
}

func (r *memoryUserRepo) GetByUsername(_ context.Context, username string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, u := range r.byID {
		if u.Username == username {
			cp := *u
			return &cp, nil
		}
	}
	//nolint:nilnil
	return nil, nil
}

func (r *memoryUserRepo) Update(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.byID[user.ID]; !ok {
		return fmt.Errorf("user not found: %s", user.ID)
	}
	cp := *user
	r.byID[user.ID] = &cp
	return nil
}

func (r *memoryUserRepo) List(_ context.Context) ([]*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	users := make([]*models.User, 0, len(r.byID))
	for _, u := range r.byID {
		cp := *u
		users = append(users, &cp)
	}
	sort.Slice(users, func(i, j int) bool {
		if !users[i].CreatedAt.Equal(users[j].CreatedAt) {
			return users[i].CreatedAt.Before(users[j].CreatedAt)
		}
		return users[i].Username < users[j].Username
	})
	return users, nil
}

func (r *memoryUserRepo) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.byID)), nil
}

type memoryOptionRepo struct {
	mu     sync.RWMutex
	values map[string]string
}

func (r *memoryOptionRepo) Get(_ context.Context, name string) (string, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	v, ok := r.values[name]
	return v, ok, nil
}

func (r *memoryOptionRepo) Set(_ context.Context, name, value string) error {
	r.mu.Lock()
	r.values[name] = value
	r.mu.Unlock()
	return nil
}

func (r *memoryOptionRepo) Delete(_ context.Context, name string) error {
	r.mu.Lock()
	delete(r.values, name)
	r.mu.Unlock()
	return nil
}

type memoryUserMetaRepo struct {
	mu     sync.RWMutex
	values map[string]map[string]string
}

func (r *memoryUserMetaRepo) Get(_ context.Context, userID, key string) (string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.values[userID][key], nil
}

func (r *memoryUserMetaRepo) Set(_ context.Context, userID, key, value string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.values[userID] == nil {
		r.values[userID] = make(map[string]string)
	}
	r.values[userID][key] = value
	return nil
}

func (r *memoryUserMetaRepo) Delete(_ context.Context, userID, key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.values[userID], key)
	return nil
}
