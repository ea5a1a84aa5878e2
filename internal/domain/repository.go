package domain

import "context"

type SearchHistoryRepository interface {
	RecordSearch(ctx context.Context, record *SearchHistoryRecord) (*SearchHistoryRecord, error)
	// ListSearchHistory returns the user's records oldest first
	ListSearchHistory(ctx context.Context, userID int64) ([]SearchHistoryRecord, error)
}

type UserRepository interface {
	CreateUser(ctx context.Context, user *User) (*User, error)
	FindUserByUsername(ctx context.Context, username string) (*User, error)
	FindUserByID(ctx context.Context, id int64) (*User, error)
}

// Repository is the persistent store backing users and search history.
type Repository interface {
	SearchHistoryRepository
	UserRepository
	Close() error
	HealthCheck(ctx context.Context) error
}
