// Package repository provides data access layer implementations.
package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"referral-rewards-bot/internal/model"
)

// defaultQueryTimeout bounds every persistence call so no ledger operation
// can hang the calling task.
const defaultQueryTimeout = 5 * time.Second

// AccountRepository handles account data persistence.
// It is the Account Store: all balance mutations go through additive atomic
// updates, never read-then-write of the full balance.
type AccountRepository struct {
	pool    *pgxpool.Pool
	timeout time.Duration
}

// NewAccountRepository creates a new AccountRepository instance.
func NewAccountRepository(pool *pgxpool.Pool, queryTimeout time.Duration) *AccountRepository {
	if queryTimeout <= 0 {
		queryTimeout = defaultQueryTimeout
	}
	return &AccountRepository{pool: pool, timeout: queryTimeout}
}

// bounded derives a context with the repository's query timeout.
func (r *AccountRepository) bounded(ctx context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(ctx, r.timeout)
}

const accountColumns = `user_id, points, referred_by, last_bonus_claim, wallet_address, created_at, updated_at`

func scanAccount(row pgx.Row) (*model.Account, error) {
	var acct model.Account
	err := row.Scan(
		&acct.UserID,
		&acct.Points,
		&acct.ReferredBy,
		&acct.LastBonusClaim,
		&acct.WalletAddress,
		&acct.CreatedAt,
		&acct.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// Get retrieves an account by user ID.
// Returns ErrAccountNotFound if the account does not exist.
func (r *AccountRepository) Get(ctx context.Context, userID int64) (*model.Account, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	const query = `
		SELECT ` + accountColumns + `
		FROM accounts
		WHERE user_id = $1
	`

	acct, err := scanAccount(r.pool.QueryRow(ctx, query, userID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("failed to get account: %w: %w", ErrStoreUnavailable, err)
	}

	return acct, nil
}

// Create creates an account with an optional referrer reference.
// Creation is atomic with respect to concurrent calls for the same ID: at
// most one caller observes created=true, the rest observe created=false.
// referred_by is set once here and never mutated afterwards.
func (r *AccountRepository) Create(ctx context.Context, userID int64, referredBy *int64) (bool, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	const query = `
		INSERT INTO accounts (user_id, referred_by, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (user_id) DO NOTHING
	`

	tag, err := r.pool.Exec(ctx, query, userID, referredBy)
	if err != nil {
		return false, fmt.Errorf("failed to create account: %w: %w", ErrStoreUnavailable, err)
	}

	return tag.RowsAffected() == 1, nil
}

// Credit adds amount points to an account. The update is additive
// (points = points + amount) so concurrent credits accumulate correctly.
// Returns ErrAccountNotFound when the account does not exist.
func (r *AccountRepository) Credit(ctx context.Context, userID int64, amount int64) error {
	if amount <= 0 {
		return fmt.Errorf("credit amount must be positive, got %d", amount)
	}

	ctx, cancel := r.bounded(ctx)
	defer cancel()

	const query = `
		UPDATE accounts
		SET points = points + $2, updated_at = NOW()
		WHERE user_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, userID, amount)
	if err != nil {
		return fmt.Errorf("failed to credit account: %w: %w", ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// ClaimBonus atomically performs a daily bonus claim: it credits amount and
// stamps last_bonus_claim in a single UPDATE predicated on the cooldown
// having elapsed. Concurrent claims for the same account cannot both
// succeed; exactly one observes claimed=true.
func (r *AccountRepository) ClaimBonus(ctx context.Context, userID int64, amount int64, now time.Time, cooldown time.Duration) (bool, error) {
	if amount <= 0 {
		return false, fmt.Errorf("bonus amount must be positive, got %d", amount)
	}

	ctx, cancel := r.bounded(ctx)
	defer cancel()

	const query = `
		UPDATE accounts
		SET points = points + $2, last_bonus_claim = $3, updated_at = NOW()
		WHERE user_id = $1
		  AND (last_bonus_claim IS NULL OR last_bonus_claim <= $4)
	`

	tag, err := r.pool.Exec(ctx, query, userID, amount, now, now.Add(-cooldown))
	if err != nil {
		return false, fmt.Errorf("failed to claim bonus: %w: %w", ErrStoreUnavailable, err)
	}

	return tag.RowsAffected() == 1, nil
}

// SetLastBonusClaim stamps the last bonus claim timestamp without crediting.
// ClaimBonus is the operation used on the claim path; this primitive exists
// for administrative corrections.
func (r *AccountRepository) SetLastBonusClaim(ctx context.Context, userID int64, claimTime time.Time) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	const query = `
		UPDATE accounts
		SET last_bonus_claim = $2, updated_at = NOW()
		WHERE user_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, userID, claimTime)
	if err != nil {
		return fmt.Errorf("failed to set last bonus claim: %w: %w", ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// SetWallet unconditionally overwrites the account's wallet address.
// The address is a pass-through string; no format validation is performed.
func (r *AccountRepository) SetWallet(ctx context.Context, userID int64, address string) error {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	const query = `
		UPDATE accounts
		SET wallet_address = $2, updated_at = NOW()
		WHERE user_id = $1
	`

	tag, err := r.pool.Exec(ctx, query, userID, address)
	if err != nil {
		return fmt.Errorf("failed to set wallet: %w: %w", ErrStoreUnavailable, err)
	}
	if tag.RowsAffected() == 0 {
		return ErrAccountNotFound
	}

	return nil
}

// Exists checks if an account with the given user ID exists.
func (r *AccountRepository) Exists(ctx context.Context, userID int64) (bool, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	const query = `SELECT EXISTS(SELECT 1 FROM accounts WHERE user_id = $1)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check account existence: %w: %w", ErrStoreUnavailable, err)
	}

	return exists, nil
}

// CountReferrals returns how many accounts name userID as their referrer.
func (r *AccountRepository) CountReferrals(ctx context.Context, userID int64) (int64, error) {
	ctx, cancel := r.bounded(ctx)
	defer cancel()

	const query = `SELECT COUNT(*) FROM accounts WHERE referred_by = $1`

	var count int64
	if err := r.pool.QueryRow(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count referrals: %w: %w", ErrStoreUnavailable, err)
	}

	return count, nil
}
