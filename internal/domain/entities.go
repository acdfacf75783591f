package domain

import "time"

// Passage is a contiguous chunk of the reference document used as the unit
// of retrieval. Index is its stable position within the document.
type Passage struct {
	Index int
	Text  string
}

// ScoredPassage pairs a passage with its similarity to a query.
type ScoredPassage struct {
	Passage Passage
	Score   float64
}

// User is a Telegram chat the bot has seen.
type User struct {
	ChatID        int64
	Username      string
	FirstName     string
	LastName      string
	Language      Language
	QuestionCount int
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// QuestionRecord is one answered question, kept for the admin statistics.
type QuestionRecord struct {
	ID       int64
	ChatID   int64
	Question string
	Answer   string
	AskedAt  time.Time
}
