// Property-based tests for concurrent per-account serialization.
package lock

import (
	"sync"
	"testing"

	"pgregory.net/rapid"
)

// TestConcurrentCreditSafetyProperty checks that for any set of concurrent
// credit operations on the same account, the final balance equals the
// sequential sum when every operation runs under the account's lock.
func TestConcurrentCreditSafetyProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		initialPoints := rapid.Int64Range(0, 100000).Draw(t, "initialPoints")
		numOps := rapid.IntRange(2, 20).Draw(t, "numOps")
		accountID := rapid.Int64Range(1, 1000000).Draw(t, "accountID")

		amounts := make([]int64, numOps)
		expected := initialPoints
		for i := range amounts {
			amounts[i] = rapid.Int64Range(1, 500).Draw(t, "amount")
			expected += amounts[i]
		}

		al := NewAccountLock()
		points := initialPoints

		var wg sync.WaitGroup
		wg.Add(numOps)
		for _, amount := range amounts {
			go func(amount int64) {
				defer wg.Done()
				al.Lock(accountID)
				defer al.Unlock(accountID)
				points += amount
			}(amount)
		}
		wg.Wait()

		if points != expected {
			t.Fatalf("points mismatch under locking: expected %d, got %d (initial=%d, numOps=%d)",
				expected, points, initialPoints, numOps)
		}
	})
}

// TestLocksAreIndependentPerAccount checks that holding one account's lock
// never blocks another account's operations.
func TestLocksAreIndependentPerAccount(t *testing.T) {
	al := NewAccountLock()

	al.Lock(1)
	defer al.Unlock(1)

	if !al.TryLock(2) {
		t.Fatal("lock on account 1 must not block account 2")
	}
	al.Unlock(2)

	if al.TryLock(1) {
		t.Fatal("second acquisition on a held lock must fail")
	}
}

// TestWithLockReleasesOnError checks the lock is released when fn fails.
func TestWithLockReleasesOnError(t *testing.T) {
	al := NewAccountLock()

	errBoom := al.WithLock(42, func() error {
		return ErrLockTimeout // any error
	})
	if errBoom == nil {
		t.Fatal("expected the callback error to propagate")
	}

	if !al.TryLock(42) {
		t.Fatal("lock must be released after WithLock returns")
	}
	al.Unlock(42)
}
