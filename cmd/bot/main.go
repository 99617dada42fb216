// Package main is the entry point for the referral rewards bot.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"referral-rewards-bot/internal/bot"
	"referral-rewards-bot/internal/config"
	"referral-rewards-bot/internal/health"
	"referral-rewards-bot/internal/pkg/db"
	"referral-rewards-bot/internal/pkg/lock"
	"referral-rewards-bot/internal/repository"
	"referral-rewards-bot/internal/service"
	"referral-rewards-bot/internal/session"
)

func main() {
	// Configure zerolog
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339})

	// Load configuration
	cfg, err := config.Load("config")
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log.Info().Msg("Configuration loaded successfully")

	if !cfg.RedemptionEnabled() {
		log.Warn().Msg("No admin recipient configured, redemption requests are disabled")
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Initialize database connection pool
	dbPool, err := db.NewPool(ctx, &cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer dbPool.Close()

	// Run database migrations
	if err := runMigrations(ctx, dbPool); err != nil {
		log.Fatal().Err(err).Msg("Failed to run database migrations")
	}

	// Initialize repositories
	accountRepo := repository.NewAccountRepository(dbPool.Pool, cfg.Database.QueryTimeout)
	entryRepo := repository.NewEntryRepository(dbPool.Pool, cfg.Database.QueryTimeout)

	// Initialize ledger service; the notifier is bound once the bot is up.
	ledgerService := service.NewLedgerService(
		accountRepo,
		entryRepo,
		nil,
		cfg.Rewards.ReferralBonus,
		cfg.Rewards.DailyBonus,
		cfg.Rewards.Cooldown(),
		cfg.Admin.ID,
	)

	accountLock := lock.NewAccountLock()
	sessions := session.NewManager(cfg.Session.WalletTimeout)

	// Initialize bot
	telegramBot, err := bot.New(&bot.Dependencies{
		Config:      cfg,
		Ledger:      ledgerService,
		AccountLock: accountLock,
		Sessions:    sessions,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create bot")
	}

	// Health/metrics server
	healthServer := health.NewServer(cfg.Server.Port, dbPool)
	go func() {
		if err := healthServer.Start(); err != nil {
			log.Error().Err(err).Msg("Health server stopped")
		}
	}()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		log.Info().Msg("Bot is starting...")
		telegramBot.Start()
	}()

	sig := <-sigChan
	log.Info().Str("signal", sig.String()).Msg("Received shutdown signal")

	telegramBot.Stop()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	if err := healthServer.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Health server shutdown failed")
	}

	log.Info().Msg("Bot stopped gracefully")
}

// runMigrations executes idempotent schema creation at process start.
func runMigrations(ctx context.Context, pool *db.Pool) error {
	log.Info().Msg("Running database migrations...")

	// Migration 1: accounts table
	_, err := pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS accounts (
			user_id BIGINT PRIMARY KEY,
			points BIGINT NOT NULL DEFAULT 0 CHECK (points >= 0),
			referred_by BIGINT,
			last_bonus_claim TIMESTAMPTZ,
			wallet_address TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_accounts_referred_by ON accounts(referred_by);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 1: accounts table created")

	// Migration 2: ledger entry log
	_, err = pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS ledger_entries (
			id BIGSERIAL PRIMARY KEY,
			user_id BIGINT NOT NULL REFERENCES accounts(user_id) ON DELETE CASCADE,
			amount BIGINT NOT NULL,
			type VARCHAR(50) NOT NULL,
			description TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);
		CREATE INDEX IF NOT EXISTS idx_ledger_entries_user_time ON ledger_entries(user_id, created_at DESC);
	`)
	if err != nil {
		return err
	}
	log.Info().Msg("Migration 2: ledger_entries table created")

	log.Info().Msg("All migrations completed successfully")
	return nil
}
