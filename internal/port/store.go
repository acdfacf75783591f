package port

import "docbot/internal/domain"

// StatsStore records users and their questions for the admin statistics.
// Question records are append-only.
type StatsStore interface {
	UpsertUser(user domain.User) error

	// SetLanguage records the language a chat picked on the keyboard.
	SetLanguage(chatID int64, lang domain.Language) error

	// GetLanguage returns the stored language for a chat, or ok=false
	// if the chat has not picked one yet.
	GetLanguage(chatID int64) (domain.Language, bool, error)

	// RecordQuestion appends a question/answer pair and increments the
	// user's question counter.
	RecordQuestion(chatID int64, question, answer string) error

	ListUsers() ([]domain.User, error)

	ListQuestions() ([]domain.QuestionRecord, error)

	Close() error
}
