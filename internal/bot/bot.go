// Package bot runs the Telegram front end: language selection, question
// handling and the admin statistics export.
package bot

import (
	"context"
	"fmt"
	"os"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"docbot/internal/domain"
	"docbot/internal/logger"
	"docbot/internal/port"
	"docbot/internal/usecase"
)

const langCallbackPrefix = "lang_"

// Bot wires the Telegram API to the answering pipeline.
type Bot struct {
	api         *tgbotapi.BotAPI
	answerer    *usecase.Answerer
	stats       port.StatsStore
	exportXLSX  func(port.StatsStore, string) (string, error)
	adminChatID int64
	exportPath  string
}

// New creates a bot. The token is read from the environment variable named
// by tokenEnv.
func New(tokenEnv string, answerer *usecase.Answerer, stats port.StatsStore,
	exportXLSX func(port.StatsStore, string) (string, error), adminChatID int64) (*Bot, error) {

	token := os.Getenv(tokenEnv)
	if token == "" {
		return nil, fmt.Errorf("bot token not found in environment variable: %s", tokenEnv)
	}

	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	return &Bot{
		api:         api,
		answerer:    answerer,
		stats:       stats,
		exportXLSX:  exportXLSX,
		adminChatID: adminChatID,
		exportPath:  "data/stats.xlsx",
	}, nil
}

// Run long-polls for updates until the context is cancelled. Each update is
// handled in its own goroutine; the flow within one message is sequential.
func (b *Bot) Run(ctx context.Context) error {
	logger.Info("bot authorized as @%s", b.api.Self.UserName)

	updateCfg := tgbotapi.NewUpdate(0)
	updateCfg.Timeout = 30
	updates := b.api.GetUpdatesChan(updateCfg)

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return ctx.Err()
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			go b.handleUpdate(update)
		}
	}
}

func (b *Bot) handleUpdate(update tgbotapi.Update) {
	defer func() {
		if r := recover(); r != nil {
			logger.Error("panic while handling update: %v", r)
		}
	}()

	switch {
	case update.CallbackQuery != nil:
		b.handleCallback(update.CallbackQuery)
	case update.Message != nil && update.Message.IsCommand():
		b.handleCommand(update.Message)
	case update.Message != nil && update.Message.Text != "":
		b.handleQuestion(update.Message)
	}
}

func (b *Bot) send(c tgbotapi.Chattable) {
	if _, err := b.api.Send(c); err != nil {
		logger.Warn("failed to send message: %v", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

// languageKeyboard builds the inline keyboard with one button per language.
func languageKeyboard() tgbotapi.InlineKeyboardMarkup {
	flags := map[domain.Language]string{
		domain.LangUzbek:   "🇺🇿",
		domain.LangRussian: "🇷🇺",
		domain.LangEnglish: "🇬🇧",
	}

	var row []tgbotapi.InlineKeyboardButton
	for _, lang := range domain.Languages {
		label := lang.Label() + " " + flags[lang]
		row = append(row, tgbotapi.NewInlineKeyboardButtonData(label, langCallbackPrefix+string(lang)))
	}
	return tgbotapi.NewInlineKeyboardMarkup(row)
}
