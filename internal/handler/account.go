// Package handler provides Telegram bot command and callback handlers.
// Handlers are thin shims: they resolve intent, hold the per-account lock
// around ledger mutations and render results. All rules live in the
// ledger service.
package handler

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"referral-rewards-bot/internal/pkg/lock"
	"referral-rewards-bot/internal/repository"
	"referral-rewards-bot/internal/service"
	"referral-rewards-bot/internal/session"
)

// AccountHandler handles account-related commands and callbacks.
type AccountHandler struct {
	ledger      *service.LedgerService
	accountLock *lock.AccountLock
	sessions    *session.Manager
	botUsername string
	supportText string
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(ledger *service.LedgerService, accountLock *lock.AccountLock, sessions *session.Manager, botUsername string) *AccountHandler {
	return &AccountHandler{
		ledger:      ledger,
		accountLock: accountLock,
		sessions:    sessions,
		botUsername: botUsername,
		supportText: "👤 Escribe al soporte para cualquier duda o para procesar tu canje manualmente.",
	}
}

// HandleStart handles /start, registering the sender and attributing the
// referral when a payload carries the inviter's ID. Re-running /start is a
// no-op for an existing account.
func (h *AccountHandler) HandleStart(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	var referrerID *int64
	if payload := c.Message().Payload; payload != "" {
		if id, err := strconv.ParseInt(payload, 10, 64); err == nil {
			referrerID = &id
		}
	}

	h.accountLock.Lock(sender.ID)
	defer h.accountLock.Unlock(sender.ID)

	result, err := h.ledger.Register(ctx, sender.ID, referrerID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Registration failed")
		return c.Reply("❌ No se pudo crear tu cuenta, inténtalo más tarde.")
	}

	if result.Created {
		return c.Reply(
			"¡Épale! Bienvenido al bot oficial de recompensas. ✅\n\n"+
				"Invita amigos con tu enlace y reclama tu bono diario para acumular puntos.",
			MainKeyboard(),
		)
	}

	return c.Reply("👋 ¡Bienvenido de nuevo!", MainKeyboard())
}

// HandleBalance renders the balance screen with its inline actions.
func (h *AccountHandler) HandleBalance(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	acct, err := h.ledger.GetAccount(ctx, sender.ID)
	if err != nil {
		if errors.Is(err, repository.ErrAccountNotFound) {
			return c.Reply("Usa /start para crear tu cuenta primero.")
		}
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Balance lookup failed")
		return c.Reply("❌ No se pudo consultar tu saldo, inténtalo más tarde.")
	}

	wallet := acct.Wallet()
	if wallet == "" {
		wallet = "No configurada"
	}

	msg := fmt.Sprintf(
		"💰 MI BALANCE\n\n"+
			"👤 ID: %d\n"+
			"💵 Saldo: %d puntos\n"+
			"📅 Fecha: %s\n"+
			"👛 Billetera: %s",
		sender.ID, acct.Points, time.Now().Format("02/01/2006"), wallet,
	)

	return c.Reply(msg, BalanceKeyboard())
}

// HandleReferrals shows the user's referral link and count.
func (h *AccountHandler) HandleReferrals(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	count, err := h.ledger.CountReferrals(ctx, sender.ID)
	if err != nil {
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Referral count failed")
		return c.Reply("❌ No se pudo consultar tus referidos, inténtalo más tarde.")
	}

	return c.Reply(fmt.Sprintf(
		"👥 REFERIDOS\n\n"+
			"Has invitado a %d persona(s).\n\n"+
			"Tu enlace de invitación:\n"+
			"https://t.me/%s?start=%d",
		count, h.botUsername, sender.ID,
	))
}

// HandleSupport shows the support contact text.
func (h *AccountHandler) HandleSupport(c tele.Context) error {
	return c.Reply(h.supportText)
}

// HandleDailyBonus handles the daily bonus inline button.
func (h *AccountHandler) HandleDailyBonus(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	var result service.ClaimResult
	err := h.accountLock.WithLockContext(ctx, sender.ID, 5*time.Second, func() error {
		var claimErr error
		result, claimErr = h.ledger.ClaimDailyBonus(ctx, sender.ID, time.Now())
		return claimErr
	})
	if err != nil {
		if errors.Is(err, lock.ErrLockTimeout) {
			return c.Edit("⏳ Hay otra operación en curso, inténtalo de nuevo.")
		}
		if errors.Is(err, repository.ErrAccountNotFound) {
			return c.Edit("Usa /start para crear tu cuenta primero.")
		}
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Daily bonus claim failed")
		return c.Edit("❌ No se pudo reclamar el bono, inténtalo más tarde.")
	}

	if result.Claimed {
		return c.Edit(fmt.Sprintf("🎁 ¡Felicidades! Has recibido %d puntos gratis.", result.Amount))
	}

	return c.Edit(fmt.Sprintf("⏳ Ya reclamaste tu bono. Vuelve en %s.", formatRemaining(result.Remaining)))
}

// formatRemaining renders a cooldown as exact hours and minutes.
func formatRemaining(d time.Duration) string {
	hours := int(d.Hours())
	minutes := int(d.Minutes()) % 60
	return fmt.Sprintf("%dh %dm", hours, minutes)
}

// HandleWalletPrompt handles the wallet inline button: it opens the
// awaiting-wallet window and asks for the address.
func (h *AccountHandler) HandleWalletPrompt(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	h.sessions.AwaitWallet(sender.ID)
	return c.Send("✍️ Envía tu dirección de billetera ahora:")
}

// HandleText routes free text: wallet capture when a prompt is pending,
// otherwise the reply keyboard buttons.
func (h *AccountHandler) HandleText(c tele.Context) error {
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	text := c.Text()

	if h.sessions.ConsumeWallet(sender.ID) {
		ctx := context.Background()
		if err := h.ledger.SetWallet(ctx, sender.ID, text); err != nil {
			if errors.Is(err, repository.ErrAccountNotFound) {
				return c.Reply("Usa /start para crear tu cuenta primero.")
			}
			log.Error().Err(err).Int64("user_id", sender.ID).Msg("Wallet update failed")
			return c.Reply("❌ No se pudo guardar la billetera, inténtalo más tarde.")
		}
		return c.Reply(fmt.Sprintf("✅ Billetera guardada: %s", text))
	}

	switch text {
	case BtnBalance:
		return h.HandleBalance(c)
	case BtnReferrals:
		return h.HandleReferrals(c)
	case BtnSupport:
		return h.HandleSupport(c)
	}

	return nil
}

// HandleRedeem handles the redemption inline button: a notification
// hand-off to the admin, never an automatic debit.
func (h *AccountHandler) HandleRedeem(c tele.Context) error {
	ctx := context.Background()
	sender := c.Sender()
	if sender == nil {
		return nil
	}

	result, err := h.ledger.RequestRedemption(ctx, sender.ID)
	if err != nil {
		if errors.Is(err, service.ErrAdminNotConfigured) {
			return c.Edit("⚠️ El canje no está disponible por ahora, inténtalo más tarde.")
		}
		if errors.Is(err, repository.ErrAccountNotFound) {
			return c.Edit("Usa /start para crear tu cuenta primero.")
		}
		log.Error().Err(err).Int64("user_id", sender.ID).Msg("Redemption request failed")
		return c.Edit("❌ No se pudo enviar la solicitud, inténtalo más tarde.")
	}

	return c.Edit(fmt.Sprintf(
		"🔄 Solicitud de canje enviada.\n\n"+
			"💵 Saldo actual: %d puntos\n"+
			"Un operador la procesará manualmente.",
		result.Balance,
	))
}
