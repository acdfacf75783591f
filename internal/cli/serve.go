package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"docbot/internal/adapter/store"
	"docbot/internal/adapter/watcher"
	"docbot/internal/bot"
	"docbot/internal/logger"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the Telegram bot",
	Long: `Run the Telegram bot with long polling. The embedding cache is built or
validated on startup, before the bot starts accepting messages.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	p, err := buildPipeline(cfg, nil)
	if err != nil {
		return err
	}

	// Fail fast on an unreadable or empty document.
	if _, err := p.manager.EnsureCache(p.source); err != nil {
		return fmt.Errorf("failed to prepare embedding cache: %w", err)
	}

	st, err := store.NewSQLiteStore(cfg.Storage.DBPath)
	if err != nil {
		return fmt.Errorf("failed to open statistics store: %w", err)
	}
	defer st.Close()

	b, err := bot.New(cfg.Telegram.TokenEnv, p.newAnswerer(cfg), st, store.ExportXLSX, cfg.Telegram.AdminChatID)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.Document.Watch {
		w, err := watcher.New(p.source.Path(), func() {
			p.manager.Invalidate()
			if _, err := p.manager.EnsureCache(p.source); err != nil {
				logger.Error("cache refresh failed, keeping previous cache: %v", err)
			}
		})
		if err != nil {
			return fmt.Errorf("failed to watch document: %w", err)
		}
		defer w.Stop()
		go w.Run(ctx)
	}

	if err := b.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	logger.Info("shutting down")
	return nil
}
