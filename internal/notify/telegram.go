// Package notify delivers courtesy notifications over Telegram.
// Delivery is best-effort: a blocked bot or closed chat is the recipient's
// problem, never the ledger's.
package notify

import (
	"fmt"

	tele "gopkg.in/telebot.v3"
)

// sender is the slice of the telebot API the notifier needs.
type sender interface {
	Send(to tele.Recipient, what interface{}, opts ...interface{}) (*tele.Message, error)
}

// TelegramNotifier sends referrer and admin notifications via the bot.
type TelegramNotifier struct {
	bot sender
}

// NewTelegramNotifier creates a notifier over the given bot.
func NewTelegramNotifier(bot sender) *TelegramNotifier {
	return &TelegramNotifier{bot: bot}
}

// NotifyReferrer tells a referrer they earned the referral bonus.
func (n *TelegramNotifier) NotifyReferrer(referrerID int64, bonus int64) error {
	msg := fmt.Sprintf("🔥 ¡Alguien se unió con tu enlace! Ganaste %d puntos.", bonus)
	_, err := n.bot.Send(&tele.User{ID: referrerID}, msg)
	if err != nil {
		return fmt.Errorf("failed to notify referrer %d: %w", referrerID, err)
	}
	return nil
}

// NotifyAdmin forwards a redemption request to the administrative recipient.
func (n *TelegramNotifier) NotifyAdmin(adminID int64, accountID int64, balance int64, wallet string) error {
	if wallet == "" {
		wallet = "no configurada"
	}
	msg := fmt.Sprintf(
		"📩 Solicitud de canje\n"+
			"👤 ID: %d\n"+
			"💵 Saldo: %d puntos\n"+
			"👛 Billetera: %s",
		accountID, balance, wallet,
	)
	_, err := n.bot.Send(&tele.User{ID: adminID}, msg)
	if err != nil {
		return fmt.Errorf("failed to notify admin %d: %w", adminID, err)
	}
	return nil
}
