// Package service provides business logic implementations.
package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"referral-rewards-bot/internal/metrics"
	"referral-rewards-bot/internal/model"
	"referral-rewards-bot/internal/repository"
)

// AccountStore is the persistence contract the ledger engine depends on.
// Implemented by repository.AccountRepository.
type AccountStore interface {
	Get(ctx context.Context, userID int64) (*model.Account, error)
	Create(ctx context.Context, userID int64, referredBy *int64) (bool, error)
	Credit(ctx context.Context, userID int64, amount int64) error
	ClaimBonus(ctx context.Context, userID int64, amount int64, now time.Time, cooldown time.Duration) (bool, error)
	SetWallet(ctx context.Context, userID int64, address string) error
	CountReferrals(ctx context.Context, userID int64) (int64, error)
}

// EntryStore appends audit entries for credits.
// Implemented by repository.EntryRepository.
type EntryStore interface {
	Create(ctx context.Context, userID int64, amount int64, entryType string, description *string) (*model.LedgerEntry, error)
}

// Notifier delivers courtesy notifications. Delivery failures are logged
// and discarded by the ledger engine; they never fail the triggering
// ledger operation.
type Notifier interface {
	NotifyReferrer(referrerID int64, bonus int64) error
	NotifyAdmin(adminID int64, accountID int64, balance int64, wallet string) error
}

// LedgerService implements the points ledger and eligibility engine:
// registration with referral attribution, daily bonus claims, wallet
// updates and redemption hand-offs.
type LedgerService struct {
	accounts AccountStore
	entries  EntryStore
	notifier Notifier

	referralBonus int64
	dailyBonus    int64
	cooldown      time.Duration
	adminID       int64
}

// NewLedgerService creates a new LedgerService instance.
func NewLedgerService(
	accounts AccountStore,
	entries EntryStore,
	notifier Notifier,
	referralBonus int64,
	dailyBonus int64,
	cooldown time.Duration,
	adminID int64,
) *LedgerService {
	return &LedgerService{
		accounts:      accounts,
		entries:       entries,
		notifier:      notifier,
		referralBonus: referralBonus,
		dailyBonus:    dailyBonus,
		cooldown:      cooldown,
		adminID:       adminID,
	}
}

// SetNotifier binds the courtesy notifier once the transport is up.
// The ledger works without one; notifications are simply skipped.
func (s *LedgerService) SetNotifier(n Notifier) {
	s.notifier = n
}

// Register creates an account for newID, attributing the referral when a
// valid referrer is supplied. Registration is idempotent: a second call for
// an existing ID is a no-op returning Created=false, and the original
// referred_by is kept regardless of later arguments.
//
// A self-referral or non-positive referrer hint is silently dropped, not an
// error. A referrer that was never registered is a warning, not a failure:
// the new account is still created.
func (s *LedgerService) Register(ctx context.Context, newID int64, referrerID *int64) (RegisterResult, error) {
	referrerID = sanitizeReferrer(newID, referrerID)

	created, err := s.accounts.Create(ctx, newID, referrerID)
	if err != nil {
		return RegisterResult{}, fmt.Errorf("failed to register account: %w", err)
	}
	if !created {
		return RegisterResult{Created: false}, nil
	}

	metrics.RegistrationsTotal.Inc()
	result := RegisterResult{Created: true}

	if referrerID == nil {
		return result, nil
	}

	// Referral bonus is granted exactly once per distinct new referee,
	// at the moment that referee's creation wins.
	if err := s.accounts.Credit(ctx, *referrerID, s.referralBonus); err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			log.Warn().
				Int64("account_id", newID).
				Int64("referrer_id", *referrerID).
				Msg("Referrer does not exist, skipping referral credit")
			return result, nil
		}
		// The new account is already committed; the credit did not happen
		// and is surfaced so the caller knows the ledger may be short.
		return result, fmt.Errorf("failed to credit referrer: %w", err)
	}

	metrics.ReferralCreditsTotal.Inc()
	result.CreditedReferrer = true
	result.ReferrerID = *referrerID

	s.recordEntry(ctx, *referrerID, s.referralBonus, model.EntryTypeReferral,
		fmt.Sprintf("referral of account %d", newID))

	if s.notifier != nil {
		if err := s.notifier.NotifyReferrer(*referrerID, s.referralBonus); err != nil {
			log.Warn().Err(err).
				Int64("referrer_id", *referrerID).
				Msg("Failed to notify referrer, credit already committed")
		}
	}

	return result, nil
}

// sanitizeReferrer drops invalid referral hints: absent, non-positive, or
// equal to the account being registered.
func sanitizeReferrer(newID int64, referrerID *int64) *int64 {
	if referrerID == nil {
		return nil
	}
	if *referrerID <= 0 || *referrerID == newID {
		return nil
	}
	return referrerID
}

// ClaimDailyBonus attempts a daily bonus claim at the given instant.
// The credit and the last_bonus_claim stamp commit atomically in the store,
// so concurrent claims for the same account yield exactly one success.
func (s *LedgerService) ClaimDailyBonus(ctx context.Context, userID int64, now time.Time) (ClaimResult, error) {
	claimed, err := s.accounts.ClaimBonus(ctx, userID, s.dailyBonus, now, s.cooldown)
	if err != nil {
		return ClaimResult{}, fmt.Errorf("failed to claim daily bonus: %w", err)
	}

	if claimed {
		metrics.BonusClaimsTotal.Inc()
		s.recordEntry(ctx, userID, s.dailyBonus, model.EntryTypeDaily, "daily bonus")
		return ClaimResult{Claimed: true, Amount: s.dailyBonus}, nil
	}

	// Rejected: either the account is unknown or the cooldown is active.
	acct, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return ClaimResult{}, fmt.Errorf("failed to resolve claim rejection: %w", err)
	}

	_, remaining := bonusEligibility(acct.LastBonusClaim, now, s.cooldown)
	metrics.BonusCooldownRejections.Inc()
	return ClaimResult{Claimed: false, Remaining: remaining}, nil
}

// CanClaimDaily reports claim eligibility without mutating state.
func (s *LedgerService) CanClaimDaily(ctx context.Context, userID int64, now time.Time) (bool, time.Duration, error) {
	acct, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return false, 0, fmt.Errorf("failed to check claim eligibility: %w", err)
	}
	eligible, remaining := bonusEligibility(acct.LastBonusClaim, now, s.cooldown)
	return eligible, remaining, nil
}

// bonusEligibility computes daily bonus eligibility from the last claim
// timestamp. Eligible when no prior claim exists or the cooldown has fully
// elapsed; otherwise remaining is the exact time left.
func bonusEligibility(lastClaim *time.Time, now time.Time, cooldown time.Duration) (bool, time.Duration) {
	if lastClaim == nil {
		return true, 0
	}
	next := lastClaim.Add(cooldown)
	if !now.Before(next) {
		return true, 0
	}
	return false, next.Sub(now)
}

// SetWallet overwrites the account's wallet address. The address is an
// opaque pass-through string owned by the account holder.
func (s *LedgerService) SetWallet(ctx context.Context, userID int64, address string) error {
	if err := s.accounts.SetWallet(ctx, userID, address); err != nil {
		return fmt.Errorf("failed to set wallet: %w", err)
	}
	return nil
}

// RequestRedemption forwards the account's identity and balance to the
// administrative recipient. It never mutates the ledger: redemption is a
// hand-off to a human operator, not an automated debit.
func (s *LedgerService) RequestRedemption(ctx context.Context, userID int64) (RedemptionResult, error) {
	if s.adminID == 0 {
		return RedemptionResult{}, ErrAdminNotConfigured
	}

	acct, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return RedemptionResult{}, fmt.Errorf("failed to read balance for redemption: %w", err)
	}

	result := RedemptionResult{Balance: acct.Points, Wallet: acct.Wallet()}

	if s.notifier != nil {
		if err := s.notifier.NotifyAdmin(s.adminID, userID, acct.Points, acct.Wallet()); err != nil {
			log.Warn().Err(err).
				Int64("account_id", userID).
				Int64("admin_id", s.adminID).
				Msg("Failed to deliver redemption notification")
		} else {
			result.Notified = true
		}
	}

	metrics.RedemptionRequestsTotal.Inc()
	return result, nil
}

// GetBalance retrieves an account's current point balance.
func (s *LedgerService) GetBalance(ctx context.Context, userID int64) (int64, error) {
	acct, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to get balance: %w", err)
	}
	return acct.Points, nil
}

// GetAccount retrieves the full account record.
func (s *LedgerService) GetAccount(ctx context.Context, userID int64) (*model.Account, error) {
	return s.accounts.Get(ctx, userID)
}

// CountReferrals returns how many accounts the user has referred.
func (s *LedgerService) CountReferrals(ctx context.Context, userID int64) (int64, error) {
	return s.accounts.CountReferrals(ctx, userID)
}

// recordEntry appends an audit entry. Entry failures never fail the
// triggering credit, which has already committed.
func (s *LedgerService) recordEntry(ctx context.Context, userID int64, amount int64, entryType, description string) {
	if s.entries == nil {
		return
	}
	if _, err := s.entries.Create(ctx, userID, amount, entryType, &description); err != nil {
		log.Warn().Err(err).
			Int64("account_id", userID).
			Str("type", entryType).
			Msg("Failed to record ledger entry")
	}
}
