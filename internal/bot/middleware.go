// Package bot provides middleware for the Telegram bot.
package bot

import (
	"fmt"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"
)

// membershipChecker is satisfied by gate.MembershipGate.
type membershipChecker interface {
	IsMember(userID int64) bool
}

// MembershipMiddleware gates ledger-affecting actions on channel
// membership. The check fails closed: a failed lookup is treated as
// non-membership by the gate.
func MembershipMiddleware(gate membershipChecker, channelUsername string) tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			if sender == nil {
				return nil
			}

			if !gate.IsMember(sender.ID) {
				return c.Reply(fmt.Sprintf(
					"🚫 Únete a nuestro canal para usar el bot: https://t.me/%s",
					channelUsername,
				))
			}

			return next(c)
		}
	}
}

// LoggingMiddleware logs all incoming updates.
func LoggingMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			sender := c.Sender()
			chat := c.Chat()

			logEvent := log.Debug()
			if sender != nil {
				logEvent = logEvent.
					Int64("user_id", sender.ID).
					Str("username", sender.Username)
			}
			if chat != nil {
				logEvent = logEvent.
					Int64("chat_id", chat.ID).
					Str("chat_type", string(chat.Type))
			}
			logEvent.
				Str("text", c.Text()).
				Msg("Received update")

			return next(c)
		}
	}
}

// RecoveryMiddleware recovers from panics in handlers.
func RecoveryMiddleware() tele.MiddlewareFunc {
	return func(next tele.HandlerFunc) tele.HandlerFunc {
		return func(c tele.Context) error {
			defer func() {
				if r := recover(); r != nil {
					log.Error().
						Interface("panic", r).
						Msg("Recovered from panic in handler")
					_ = c.Reply("❌ Ocurrió un error interno, inténtalo más tarde.")
				}
			}()
			return next(c)
		}
	}
}
