package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/sp3dr4/bizsearch/internal/domain"
)

type Repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) CreateUser(ctx context.Context, user *domain.User) (*domain.User, error) {
	query := `
		INSERT INTO users (username, password, created_at)
		VALUES ($1, $2, $3)
		RETURNING id, username, password, created_at
	`

	var result domain.User
	err := r.db.QueryRowxContext(ctx, query, user.Username, user.PasswordHash, user.CreatedAt).StructScan(&result)
	if err != nil {
		return nil, r.handlePostgreSQLError(err, "create user", domain.ErrUserNotFound)
	}

	slog.Debug("User created successfully", "username", result.Username, "id", result.ID)
	return &result, nil
}

func (r *Repository) FindUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, username, password, created_at FROM users WHERE username = $1`

	if err := r.db.GetContext(ctx, &user, query, username); err != nil {
		return nil, r.handlePostgreSQLError(err, "find user by username", domain.ErrUserNotFound)
	}

	return &user, nil
}

func (r *Repository) FindUserByID(ctx context.Context, id int64) (*domain.User, error) {
	var user domain.User
	query := `SELECT id, username, password, created_at FROM users WHERE id = $1`

	if err := r.db.GetContext(ctx, &user, query, id); err != nil {
		return nil, r.handlePostgreSQLError(err, "find user by id", domain.ErrUserNotFound)
	}

	return &user, nil
}

func (r *Repository) RecordSearch(ctx context.Context, record *domain.SearchHistoryRecord) (*domain.SearchHistoryRecord, error) {
	query := `
		INSERT INTO search_history (user_id, query, location, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id, user_id, query, location, created_at
	`

	var result domain.SearchHistoryRecord
	err := r.db.QueryRowxContext(ctx, query, record.UserID, record.Query, record.Location, record.CreatedAt).StructScan(&result)
	if err != nil {
		return nil, r.handlePostgreSQLError(err, "record search", domain.ErrUserNotFound)
	}

	return &result, nil
}

func (r *Repository) ListSearchHistory(ctx context.Context, userID int64) ([]domain.SearchHistoryRecord, error) {
	records := []domain.SearchHistoryRecord{}
	query := `
		SELECT id, user_id, query, location, created_at
		FROM search_history
		WHERE user_id = $1
		ORDER BY created_at, id
	`

	if err := r.db.SelectContext(ctx, &records, query, userID); err != nil {
		return nil, r.handlePostgreSQLError(err, "list search history", domain.ErrUserNotFound)
	}

	return records, nil
}

// handlePostgreSQLError converts PostgreSQL-specific errors to domain errors
func (r *Repository) handlePostgreSQLError(err error, operation string, notFound error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		slog.Error("PostgreSQL error",
			"operation", operation,
			"code", pqErr.Code,
			"message", pqErr.Message,
			"detail", pqErr.Detail,
		)

		switch pqErr.Code {
		case "23505": // unique_violation
			if pqErr.Constraint == "users_username_key" {
				return domain.ErrUsernameTaken
			}
			return fmt.Errorf("unique constraint violation: %s", pqErr.Detail)
		case "23503": // foreign_key_violation
			return domain.ErrUserNotFound
		case "23502": // not_null_violation
			return fmt.Errorf("required field missing: %s", pqErr.Column)
		case "08000", "08003", "08006": // connection errors
			return fmt.Errorf("database connection error: %s", pqErr.Message)
		default:
			return fmt.Errorf("database error [%s]: %s", pqErr.Code, pqErr.Message)
		}
	}

	if errors.Is(err, sql.ErrNoRows) {
		return notFound
	}

	return fmt.Errorf("%s: %w", operation, err)
}

func (r *Repository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}

func (r *Repository) HealthCheck(ctx context.Context) error {
	if r.db == nil {
		return errors.New("database connection is nil")
	}
	return r.db.PingContext(ctx)
}
