package bot

import (
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"docbot/internal/domain"
	"docbot/internal/logger"
)

func (b *Bot) handleCommand(msg *tgbotapi.Message) {
	switch msg.Command() {
	case "start":
		b.handleStart(msg)
	case "help":
		b.reply(msg.Chat.ID, helpText)
	case "stat":
		b.handleStats(msg)
	default:
		b.reply(msg.Chat.ID, helpText)
	}
}

func (b *Bot) handleStart(msg *tgbotapi.Message) {
	if msg.From != nil {
		err := b.stats.UpsertUser(domain.User{
			ChatID:    msg.Chat.ID,
			Username:  msg.From.UserName,
			FirstName: msg.From.FirstName,
			LastName:  msg.From.LastName,
		})
		if err != nil {
			logger.Warn("failed to upsert user %d: %v", msg.Chat.ID, err)
		}
	}

	prompt := tgbotapi.NewMessage(msg.Chat.ID, chooseLanguagePrompt)
	prompt.ReplyMarkup = languageKeyboard()
	b.send(prompt)
}

// handleCallback processes a language button press.
func (b *Bot) handleCallback(q *tgbotapi.CallbackQuery) {
	if _, err := b.api.Request(tgbotapi.NewCallback(q.ID, "")); err != nil {
		logger.Warn("failed to acknowledge callback: %v", err)
	}

	if !strings.HasPrefix(q.Data, langCallbackPrefix) || q.Message == nil {
		return
	}
	lang, err := domain.ParseLanguage(strings.TrimPrefix(q.Data, langCallbackPrefix))
	if err != nil {
		logger.Warn("callback with unknown language: %q", q.Data)
		return
	}

	chatID := q.Message.Chat.ID
	if err := b.stats.SetLanguage(chatID, lang); err != nil {
		logger.Warn("failed to store language for %d: %v", chatID, err)
	}

	// Replace the keyboard message with the confirmation.
	b.send(tgbotapi.NewEditMessageText(chatID, q.Message.MessageID, repliesFor(lang).Selected))
}

func (b *Bot) handleQuestion(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	lang, ok, err := b.stats.GetLanguage(chatID)
	if err != nil {
		logger.Warn("failed to read language for %d: %v", chatID, err)
	}
	if !ok {
		prompt := tgbotapi.NewMessage(chatID, chooseLanguagePrompt)
		prompt.ReplyMarkup = languageKeyboard()
		b.send(prompt)
		return
	}

	answer, err := b.answerer.Answer(msg.Text, lang)
	if err != nil {
		logger.Error("failed to answer question from %d: %v", chatID, err)
		b.reply(chatID, repliesFor(lang).TryAgain)
		return
	}

	if err := b.stats.RecordQuestion(chatID, msg.Text, answer); err != nil {
		logger.Warn("failed to record question for %d: %v", chatID, err)
	}

	b.reply(chatID, answer)
	b.reply(chatID, repliesFor(lang).AskMore)
}

// handleStats exports the statistics workbook to the admin chat.
func (b *Bot) handleStats(msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	if chatID != b.adminChatID {
		lang, ok, _ := b.stats.GetLanguage(chatID)
		if !ok {
			lang = domain.LangUzbek
		}
		b.reply(chatID, repliesFor(lang).NotAllowed)
		return
	}

	path, err := b.exportXLSX(b.stats, b.exportPath)
	if err != nil {
		logger.Error("failed to export statistics: %v", err)
		b.reply(chatID, repliesFor(domain.LangUzbek).TryAgain)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FilePath(path))
	doc.Caption = "stats.xlsx"
	b.send(doc)
}
