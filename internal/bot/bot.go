// Package bot provides the Telegram bot initialization and handler
// registration. The bot is a thin event dispatcher: it resolves intent,
// consults the eligibility gate and forwards to the ledger handlers.
package bot

import (
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
	tele "gopkg.in/telebot.v3"

	"referral-rewards-bot/internal/config"
	"referral-rewards-bot/internal/gate"
	"referral-rewards-bot/internal/handler"
	"referral-rewards-bot/internal/notify"
	"referral-rewards-bot/internal/pkg/lock"
	"referral-rewards-bot/internal/service"
	"referral-rewards-bot/internal/session"
)

// Bot wraps the telebot instance with application dependencies.
type Bot struct {
	bot            *tele.Bot
	cfg            *config.Config
	ledger         *service.LedgerService
	membershipGate *gate.MembershipGate

	accountHandler *handler.AccountHandler
}

// Dependencies holds everything the bot needs to run.
type Dependencies struct {
	Config      *config.Config
	Ledger      *service.LedgerService
	AccountLock *lock.AccountLock
	Sessions    *session.Manager
}

// New creates a new Bot instance with the given dependencies.
// It also binds the ledger's notifier to the live bot connection.
func New(deps *Dependencies) (*Bot, error) {
	if deps.Config.Bot.Token == "" {
		return nil, fmt.Errorf("bot token is required")
	}

	pref := tele.Settings{
		Token:  deps.Config.Bot.Token,
		Poller: &tele.LongPoller{Timeout: 10 * time.Second},
	}

	teleBot, err := tele.NewBot(pref)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	// The notifier and the gate need the live connection, so they are
	// wired here rather than in main.
	deps.Ledger.SetNotifier(notify.NewTelegramNotifier(teleBot))

	b := &Bot{
		bot:            teleBot,
		cfg:            deps.Config,
		ledger:         deps.Ledger,
		membershipGate: gate.NewMembershipGate(teleBot, deps.Config.Channel.ID),
	}

	b.accountHandler = handler.NewAccountHandler(
		deps.Ledger,
		deps.AccountLock,
		deps.Sessions,
		teleBot.Me.Username,
	)

	b.bot.Use(RecoveryMiddleware())
	b.bot.Use(LoggingMiddleware())

	b.registerHandlers()

	return b, nil
}

// registerHandlers registers all command, text and callback handlers.
// Registration via /start stays outside the membership gate so a referral
// is attributed even before the user joins the channel; everything that
// reads or spends points requires membership.
func (b *Bot) registerHandlers() {
	b.bot.Handle("/start", b.accountHandler.HandleStart)

	members := b.bot.Group()
	members.Use(MembershipMiddleware(b.membershipGate, b.cfg.Channel.Username))
	members.Handle("/balance", b.accountHandler.HandleBalance)
	members.Handle("/referidos", b.accountHandler.HandleReferrals)
	members.Handle(tele.OnText, b.accountHandler.HandleText)
	members.Handle(tele.OnCallback, b.handleCallback)
}

// handleCallback routes inline button presses.
func (b *Bot) handleCallback(c tele.Context) error {
	callback := c.Callback()
	if callback == nil {
		return nil
	}

	// Telebot v3 may add a \f prefix to callback data.
	data := strings.TrimPrefix(callback.Data, "\f")

	// Acknowledge the press so the client stops the spinner.
	_ = c.Respond()

	switch data {
	case handler.CallbackDailyBonus:
		return b.accountHandler.HandleDailyBonus(c)
	case handler.CallbackSetWallet:
		return b.accountHandler.HandleWalletPrompt(c)
	case handler.CallbackRedeem:
		return b.accountHandler.HandleRedeem(c)
	default:
		log.Debug().Str("data", data).Msg("Unknown callback ignored")
		return nil
	}
}

// Start starts the bot polling.
func (b *Bot) Start() {
	log.Info().Str("username", b.bot.Me.Username).Msg("Starting bot...")
	b.bot.Start()
}

// Stop stops the bot gracefully.
func (b *Bot) Stop() {
	log.Info().Msg("Stopping bot...")
	b.bot.Stop()
}
