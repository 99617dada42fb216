package session

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConsumeWallet(t *testing.T) {
	m := NewManager(5 * time.Minute)

	assert.False(t, m.ConsumeWallet(1), "no prompt means no pending state")

	m.AwaitWallet(1)
	assert.True(t, m.ConsumeWallet(1))
	assert.False(t, m.ConsumeWallet(1), "consuming clears the state")
}

func TestConsumeWalletExpires(t *testing.T) {
	m := NewManager(5 * time.Minute)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.AwaitWallet(1)

	now = now.Add(10 * time.Minute)
	assert.False(t, m.ConsumeWallet(1), "expired prompt must not capture text")
	assert.False(t, m.ConsumeWallet(1), "expired entry is dropped")
}

func TestAwaitWalletResetsDeadline(t *testing.T) {
	m := NewManager(5 * time.Minute)

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	m.now = func() time.Time { return now }

	m.AwaitWallet(1)
	now = now.Add(4 * time.Minute)
	m.AwaitWallet(1)
	now = now.Add(4 * time.Minute)

	assert.True(t, m.ConsumeWallet(1), "re-prompting resets the deadline")
}

func TestCancel(t *testing.T) {
	m := NewManager(5 * time.Minute)

	m.AwaitWallet(1)
	m.Cancel(1)
	assert.False(t, m.ConsumeWallet(1))
}

func TestSessionsAreIndependent(t *testing.T) {
	m := NewManager(5 * time.Minute)

	m.AwaitWallet(1)
	assert.False(t, m.ConsumeWallet(2))
	assert.True(t, m.ConsumeWallet(1))
}
