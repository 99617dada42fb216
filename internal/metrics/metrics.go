// Package metrics exposes prometheus counters for ledger operations.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RegistrationsTotal counts successful account registrations.
	RegistrationsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewards_registrations_total",
		Help: "Number of new accounts registered",
	})

	// ReferralCreditsTotal counts referral bonuses credited to referrers.
	ReferralCreditsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewards_referral_credits_total",
		Help: "Number of referral bonuses credited",
	})

	// BonusClaimsTotal counts successful daily bonus claims.
	BonusClaimsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewards_bonus_claims_total",
		Help: "Number of daily bonuses claimed",
	})

	// BonusCooldownRejections counts claims rejected by the cooldown window.
	BonusCooldownRejections = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewards_bonus_cooldown_rejections_total",
		Help: "Number of daily bonus claims rejected while cooling down",
	})

	// RedemptionRequestsTotal counts redemption hand-offs sent to the admin.
	RedemptionRequestsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "rewards_redemption_requests_total",
		Help: "Number of redemption requests forwarded to the admin",
	})
)
