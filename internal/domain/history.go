package domain

import "time"

// SearchHistoryRecord is an append-only entry written for each search made
// by an authenticated user.
type SearchHistoryRecord struct {
	ID        int64     `db:"id" json:"id"`
	UserID    int64     `db:"user_id" json:"userId"`
	Query     string    `db:"query" json:"query"`
	Location  string    `db:"location" json:"location"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}
