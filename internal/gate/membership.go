// Package gate implements the eligibility gate: channel membership checks
// consulted by the front end before ledger-affecting actions.
package gate

import (
	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

// memberChecker is the slice of the telebot API the gate needs.
type memberChecker interface {
	ChatMemberOf(chat, user tele.Recipient) (*tele.ChatMember, error)
}

// MembershipGate checks whether a user is a member of the required channel.
type MembershipGate struct {
	bot       memberChecker
	channelID int64
}

// NewMembershipGate creates a gate bound to the required channel.
func NewMembershipGate(bot memberChecker, channelID int64) *MembershipGate {
	return &MembershipGate{bot: bot, channelID: channelID}
}

// IsMember reports whether the user belongs to the required channel.
// Any failure of the check itself is treated as non-membership (fail
// closed) so transient API errors never grant access.
func (g *MembershipGate) IsMember(userID int64) bool {
	if g.channelID == 0 {
		// No channel requirement configured.
		return true
	}

	member, err := g.bot.ChatMemberOf(
		&tele.Chat{ID: g.channelID},
		&tele.User{ID: userID},
	)
	if err != nil {
		log.Warn().Err(err).
			Int64("user_id", userID).
			Int64("channel_id", g.channelID).
			Msg("Membership check failed, treating as non-member")
		return false
	}

	switch member.Role {
	case tele.Creator, tele.Administrator, tele.Member:
		return true
	default:
		return false
	}
}
