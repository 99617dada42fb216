package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"referral-rewards-bot/internal/model"
)

// EntryRepository handles the append-only ledger entry log.
// Entries record every credit for audit purposes; balances are never
// recomputed from them.
type EntryRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewEntryRepository creates a new EntryRepository instance.
func NewEntryRepository(pool *pgxpool.Pool, queryTimeout time.Duration) *EntryRepository {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &EntryRepository{pool: pool, timeout: queryTimeout}
}

// Create appends a ledger entry.
func (r *EntryRepository) Create(ctx context.Context, userID int64, amount int64, entryType string, description *string) (*model.LedgerEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const query = `
		INSERT INTO ledger_entries (user_id, amount, type, description, created_at)
		VALUES ($1, $2, $3, $4, NOW())
		RETURNING id, user_id, amount, type, description, created_at
	`

	var entry model.LedgerEntry
	err := r.pool.QueryRow(ctx, query, userID, amount, entryType, description).Scan(
		&entry.ID,
		&entry.UserID,
		&entry.Amount,
		&entry.Type,
		&entry.Description,
		&entry.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create ledger entry: %w: %w", ErrStoreUnavailable, err)
	}

	return &entry, nil
}

// GetByUserID retrieves recent entries for an account, newest first.
func (r *EntryRepository) GetByUserID(ctx context.Context, userID int64, limit int) ([]*model.LedgerEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, r.timeout)
	defer cancel()

	const query = `
		SELECT id, user_id, amount, type, description, created_at
		FROM ledger_entries
		WHERE user_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`

	rows, err := r.pool.Query(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get ledger entries: %w: %w", ErrStoreUnavailable, err)
	}
	defer rows.Close()

	var entries []*model.LedgerEntry
	for rows.Next() {
		var entry model.LedgerEntry
		err := rows.Scan(
			&entry.ID,
			&entry.UserID,
			&entry.Amount,
			&entry.Type,
			&entry.Description,
			&entry.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ledger entry: %w", err)
		}
		entries = append(entries, &entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ledger entries: %w: %w", ErrStoreUnavailable, err)
	}

	return entries, nil
}
