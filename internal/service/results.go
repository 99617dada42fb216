package service

import (
	"errors"
	"time"
)

// Common errors for ledger operations.
var (
	// ErrAdminNotConfigured is returned by RequestRedemption when no
	// administrative recipient is configured.
	ErrAdminNotConfigured = errors.New("admin recipient not configured")
)

// RegisterResult reports the outcome of a registration attempt.
// Created=false means the account already existed; that is an expected,
// idempotent no-op, not an error.
type RegisterResult struct {
	Created          bool
	CreditedReferrer bool
	ReferrerID       int64 // set when CreditedReferrer is true
}

// ClaimResult reports the outcome of a daily bonus claim attempt.
// When Claimed is false the claim was rejected by the cooldown window and
// Remaining holds the exact time left until the next eligible claim.
type ClaimResult struct {
	Claimed   bool
	Amount    int64
	Remaining time.Duration
}

// RedemptionResult reports the outcome of a redemption hand-off.
type RedemptionResult struct {
	Balance  int64
	Wallet   string
	Notified bool
}
