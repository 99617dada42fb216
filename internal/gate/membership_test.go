package gate

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	tele "gopkg.in/telebot.v3"
)

type fakeChecker struct {
	role tele.MemberStatus
	err  error
}

func (f *fakeChecker) ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &tele.ChatMember{Role: f.role}, nil
}

func TestIsMember(t *testing.T) {
	tests := []struct {
		name string
		role tele.MemberStatus
		err  error
		want bool
	}{
		{"member", tele.Member, nil, true},
		{"administrator", tele.Administrator, nil, true},
		{"creator", tele.Creator, nil, true},
		{"left", tele.Left, nil, false},
		{"kicked", tele.Kicked, nil, false},
		{"restricted", tele.Restricted, nil, false},
		{"api error fails closed", tele.Member, errors.New("bad gateway"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := NewMembershipGate(&fakeChecker{role: tt.role, err: tt.err}, -100123)
			assert.Equal(t, tt.want, g.IsMember(42))
		})
	}
}

func TestIsMemberNoChannelConfigured(t *testing.T) {
	g := NewMembershipGate(&fakeChecker{err: errors.New("must not be called")}, 0)
	assert.True(t, g.IsMember(42), "no channel requirement means everyone passes")
}
