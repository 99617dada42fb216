// Package lock provides per-account locking so that read-modify-write
// sequences on the same account are serialized.
package lock

import (
	"context"
	"sync"
	"time"
)

// accountMutex wraps a mutex so instances can be pooled.
type accountMutex struct {
	mu sync.Mutex
}

// AccountLock provides per-account locking to prevent races between
// registration and bonus-claim sequences for the same account.
// Operations on different accounts never contend.
type AccountLock struct {
	locks sync.Map // map[int64]*accountMutex
	pool  sync.Pool
}

// NewAccountLock creates a new AccountLock instance.
func NewAccountLock() *AccountLock {
	return &AccountLock{
		pool: sync.Pool{
			New: func() any {
				return &accountMutex{}
			},
		},
	}
}

// getLock retrieves or creates a mutex for the given account ID.
func (al *AccountLock) getLock(accountID int64) *accountMutex {
	if v, ok := al.locks.Load(accountID); ok {
		return v.(*accountMutex)
	}

	newLock := al.pool.Get().(*accountMutex)
	actual, loaded := al.locks.LoadOrStore(accountID, newLock)
	if loaded {
		// Another goroutine stored first; return ours to the pool.
		al.pool.Put(newLock)
	}
	return actual.(*accountMutex)
}

// Lock acquires the lock for an account.
func (al *AccountLock) Lock(accountID int64) {
	al.getLock(accountID).mu.Lock()
}

// Unlock releases the lock for an account.
func (al *AccountLock) Unlock(accountID int64) {
	if v, ok := al.locks.Load(accountID); ok {
		v.(*accountMutex).mu.Unlock()
	}
}

// TryLock attempts to acquire the lock without blocking.
func (al *AccountLock) TryLock(accountID int64) bool {
	return al.getLock(accountID).mu.TryLock()
}

// WithLock executes fn while holding the account's lock.
func (al *AccountLock) WithLock(accountID int64, fn func() error) error {
	al.Lock(accountID)
	defer al.Unlock(accountID)
	return fn()
}

// LockWithTimeout attempts to acquire the lock within the timeout.
// Returns false if the lock could not be acquired in time; the pending
// acquisition is released as soon as it eventually succeeds.
func (al *AccountLock) LockWithTimeout(ctx context.Context, accountID int64, timeout time.Duration) bool {
	lock := al.getLock(accountID)

	done := make(chan struct{})
	go func() {
		lock.mu.Lock()
		close(done)
	}()

	timeoutCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	select {
	case <-done:
		return true
	case <-timeoutCtx.Done():
		go func() {
			<-done
			lock.mu.Unlock()
		}()
		return false
	}
}

// WithLockContext executes fn while holding the account's lock, failing
// with ErrLockTimeout if the lock cannot be acquired in time.
func (al *AccountLock) WithLockContext(ctx context.Context, accountID int64, timeout time.Duration, fn func() error) error {
	if !al.LockWithTimeout(ctx, accountID, timeout) {
		return ErrLockTimeout
	}
	defer al.Unlock(accountID)

	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
		return fn()
	}
}
