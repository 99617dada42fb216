// Package session tracks short-lived conversational state keyed by account
// ID. The only state today is "awaiting wallet input": the window between
// the user pressing the wallet button and sending the address text.
// Entries expire after a TTL so a stale prompt cannot capture unrelated
// messages days later.
package session

import (
	"sync"
	"time"
)

// Manager holds pending conversation states with expiry.
type Manager struct {
	mu      sync.Mutex
	pending map[int64]time.Time // account ID -> deadline
	ttl     time.Duration
	now     func() time.Time
}

// NewManager creates a Manager with the given TTL for pending states.
func NewManager(ttl time.Duration) *Manager {
	return &Manager{
		pending: make(map[int64]time.Time),
		ttl:     ttl,
		now:     time.Now,
	}
}

// AwaitWallet marks the account as waiting for wallet text until the TTL
// elapses. Re-prompting resets the deadline.
func (m *Manager) AwaitWallet(accountID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pending[accountID] = m.now().Add(m.ttl)
}

// ConsumeWallet reports whether the account was awaiting wallet input and
// clears the state. An expired entry is dropped and reported as false.
func (m *Manager) ConsumeWallet(accountID int64) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	deadline, ok := m.pending[accountID]
	if !ok {
		return false
	}
	delete(m.pending, accountID)
	return m.now().Before(deadline)
}

// Cancel clears any pending state for the account.
func (m *Manager) Cancel(accountID int64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.pending, accountID)
}
