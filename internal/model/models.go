// Package model defines the data models for the referral rewards bot.
package model

import "time"

// Account represents a single user's ledger record.
// Points only ever increase through credit operations; referred_by is set
// once at creation and never mutated afterwards.
type Account struct {
	UserID         int64      `db:"user_id"`
	Points         int64      `db:"points"`
	ReferredBy     *int64     `db:"referred_by"`
	LastBonusClaim *time.Time `db:"last_bonus_claim"`
	WalletAddress  *string    `db:"wallet_address"`
	CreatedAt      time.Time  `db:"created_at"`
	UpdatedAt      time.Time  `db:"updated_at"`
}

// HasWallet reports whether the account has a wallet address configured.
func (a *Account) HasWallet() bool {
	return a.WalletAddress != nil && *a.WalletAddress != ""
}

// Wallet returns the wallet address or an empty string.
func (a *Account) Wallet() string {
	if a.WalletAddress == nil {
		return ""
	}
	return *a.WalletAddress
}

// LedgerEntry is an append-only record of a single credit.
// Entries are informational; balances are never recomputed from them.
type LedgerEntry struct {
	ID          int64     `db:"id"`
	UserID      int64     `db:"user_id"`
	Amount      int64     `db:"amount"`
	Type        string    `db:"type"`
	Description *string   `db:"description"`
	CreatedAt   time.Time `db:"created_at"`
}

// Entry types for categorizing credits.
const (
	EntryTypeReferral = "referral" // Referrer credited for a new referee
	EntryTypeDaily    = "daily"    // Daily bonus claim
)
