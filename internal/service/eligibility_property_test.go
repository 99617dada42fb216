// Property-based tests for the daily bonus eligibility computation.
package service

import (
	"testing"
	"time"

	"pgregory.net/rapid"
)

// TestBonusEligibilityProperty checks the core eligibility rule:
// eligible iff there is no prior claim or the cooldown has fully elapsed.
func TestBonusEligibilityProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		now := time.Unix(rapid.Int64Range(1_000_000, 2_000_000_000).Draw(t, "now"), 0)
		cooldownHours := rapid.IntRange(1, 48).Draw(t, "cooldownHours")
		cooldown := time.Duration(cooldownHours) * time.Hour

		// nil means never claimed; otherwise some instant at or before now
		var lastClaim *time.Time
		if rapid.Bool().Draw(t, "hasClaimed") {
			secondsAgo := rapid.Int64Range(0, 7*24*3600).Draw(t, "secondsAgo")
			claim := now.Add(-time.Duration(secondsAgo) * time.Second)
			lastClaim = &claim
		}

		eligible, remaining := bonusEligibility(lastClaim, now, cooldown)

		if lastClaim == nil {
			if !eligible {
				t.Fatalf("never-claimed account must be eligible")
			}
			if remaining != 0 {
				t.Fatalf("never-claimed account must have 0 remaining, got %v", remaining)
			}
			return
		}

		next := lastClaim.Add(cooldown)
		expectEligible := !now.Before(next)

		if eligible != expectEligible {
			t.Fatalf("eligibility mismatch: lastClaim=%v cooldown=%v now=%v: expected %v, got %v",
				lastClaim, cooldown, now, expectEligible, eligible)
		}

		if eligible {
			if remaining != 0 {
				t.Fatalf("eligible account must have 0 remaining, got %v", remaining)
			}
		} else {
			if remaining <= 0 || remaining > cooldown {
				t.Fatalf("remaining must be in (0, %v], got %v", cooldown, remaining)
			}
			if !now.Add(remaining).Equal(next) {
				t.Fatalf("remaining must be exact: now+remaining=%v, next=%v", now.Add(remaining), next)
			}
		}
	})
}

// TestBonusEligibilityBoundary pins the exact window boundary: a claim
// becomes eligible at precisely lastClaim+cooldown, not a second before.
func TestBonusEligibilityBoundary(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		claim := time.Unix(rapid.Int64Range(1_000_000, 2_000_000_000).Draw(t, "claim"), 0)
		cooldown := time.Duration(rapid.IntRange(1, 48).Draw(t, "cooldownHours")) * time.Hour

		eligible, _ := bonusEligibility(&claim, claim.Add(cooldown), cooldown)
		if !eligible {
			t.Fatalf("must be eligible exactly at the end of the window")
		}

		eligible, remaining := bonusEligibility(&claim, claim.Add(cooldown-time.Second), cooldown)
		if eligible {
			t.Fatalf("must not be eligible one second before the window ends")
		}
		if remaining != time.Second {
			t.Fatalf("expected 1s remaining, got %v", remaining)
		}
	})
}

// TestSanitizeReferrerProperty checks the referral hint sanitation rules.
func TestSanitizeReferrerProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		newID := rapid.Int64Range(1, 1_000_000).Draw(t, "newID")

		if got := sanitizeReferrer(newID, nil); got != nil {
			t.Fatalf("absent referrer must stay absent")
		}

		referrer := rapid.Int64Range(-1_000, 1_000_000).Draw(t, "referrer")
		got := sanitizeReferrer(newID, &referrer)

		switch {
		case referrer <= 0, referrer == newID:
			if got != nil {
				t.Fatalf("invalid referrer %d for account %d must be dropped", referrer, newID)
			}
		default:
			if got == nil || *got != referrer {
				t.Fatalf("valid referrer %d must be kept, got %v", referrer, got)
			}
		}
	})
}
