package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/sp3dr4/bizsearch/internal/domain"
)

type Repository struct {
	mu        sync.RWMutex
	users     map[int64]*domain.User
	usernames map[string]int64
	history   []domain.SearchHistoryRecord
	nextUser  int64
	nextEntry int64
}

func NewRepository() *Repository {
	return &Repository{
		users:     make(map[int64]*domain.User),
		usernames: make(map[string]int64),
	}
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.usernames[user.Username]; exists {
		return nil, domain.ErrUsernameTaken
	}

	// Create a copy with a generated ID (simulate database behavior)
	r.nextUser++
	created := &domain.User{
		ID:           r.nextUser,
		Username:     user.Username,
		PasswordHash: user.PasswordHash,
		CreatedAt:    user.CreatedAt,
	}
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.users[created.ID] = created
	r.usernames[created.Username] = created.ID

	out := *created
	return &out, nil
}

func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, exists := r.usernames[username]
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	out := *r.users[id]
	return &out, nil
}

func (r *Repository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, exists := r.users[id]
	if !exists {
		return nil, domain.ErrUserNotFound
	}

	out := *user
	return &out, nil
}

func (r *Repository) RecordSearch(ctx context.Context, record *domain.SearchHistoryRecord) (*domain.SearchHistoryRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextEntry++
	created := *record
	created.ID = r.nextEntry
	if created.CreatedAt.IsZero() {
		created.CreatedAt = time.Now().UTC()
	}

	r.history = append(r.history, created)
	return &created, nil
}

func (r *Repository) ListSearchHistory(ctx context.Context, userID int64) ([]domain.SearchHistoryRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	records := make([]domain.SearchHistoryRecord, 0)
	for _, rec := range r.history {
		if rec.UserID == userID {
			records = append(records, rec)
		}
	}

	sort.SliceStable(records, func(i, j int) bool {
		return records[i].CreatedAt.Before(records[j].CreatedAt)
	})

	return records, nil
}

func (r *Repository) Close() error {
	return nil
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	return nil
}
