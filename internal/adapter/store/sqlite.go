// Package store persists users and their questions in SQLite and exports
// the accumulated statistics as a spreadsheet for the admin.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite" // SQLite driver

	"docbot/internal/domain"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	chat_id        INTEGER PRIMARY KEY,
	username       TEXT,
	first_name     TEXT,
	last_name      TEXT,
	language       TEXT,
	question_count INTEGER NOT NULL DEFAULT 0,
	created_at     TEXT NOT NULL,
	updated_at     TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS questions (
	id       INTEGER PRIMARY KEY AUTOINCREMENT,
	chat_id  INTEGER NOT NULL,
	question TEXT NOT NULL,
	answer   TEXT NOT NULL,
	asked_at TEXT NOT NULL,
	FOREIGN KEY(chat_id) REFERENCES users(chat_id)
);
`

// SQLiteStore implements port.StatsStore on a local SQLite file.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if needed) the statistics database.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating data directory: %w", err)
		}
	}

	db, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing schema: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// UpsertUser inserts the user or refreshes its profile fields. A stored
// language is kept when the incoming record has none.
func (s *SQLiteStore) UpsertUser(user domain.User) error {
	now := time.Now().UTC().Format(time.RFC3339)
	_, err := s.db.Exec(`
		INSERT INTO users (chat_id, username, first_name, last_name, language, question_count, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, 0, ?, ?)
		ON CONFLICT(chat_id) DO UPDATE SET
			username   = excluded.username,
			first_name = excluded.first_name,
			last_name  = excluded.last_name,
			language   = COALESCE(NULLIF(excluded.language, ''), users.language),
			updated_at = excluded.updated_at`,
		user.ChatID, user.Username, user.FirstName, user.LastName, string(user.Language), now, now)
	return err
}

// SetLanguage records the language a chat picked.
func (s *SQLiteStore) SetLanguage(chatID int64, lang domain.Language) error {
	now := time.Now().UTC().Format(time.RFC3339)
	res, err := s.db.Exec(`UPDATE users SET language = ?, updated_at = ? WHERE chat_id = ?`,
		string(lang), now, chatID)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return s.UpsertUser(domain.User{ChatID: chatID, Language: lang})
	}
	return nil
}

// GetLanguage returns the stored language for a chat, ok=false when the
// chat has not picked one.
func (s *SQLiteStore) GetLanguage(chatID int64) (domain.Language, bool, error) {
	var code sql.NullString
	err := s.db.QueryRow(`SELECT language FROM users WHERE chat_id = ?`, chatID).Scan(&code)
	if err == sql.ErrNoRows {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	if !code.Valid || code.String == "" {
		return "", false, nil
	}
	lang, err := domain.ParseLanguage(code.String)
	if err != nil {
		return "", false, nil
	}
	return lang, true, nil
}

// RecordQuestion appends a question/answer pair and increments the user's
// counter in one transaction.
func (s *SQLiteStore) RecordQuestion(chatID int64, question, answer string) error {
	now := time.Now().UTC().Format(time.RFC3339)

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.Exec(`INSERT INTO questions (chat_id, question, answer, asked_at) VALUES (?, ?, ?, ?)`,
		chatID, question, answer, now); err != nil {
		return err
	}
	if _, err := tx.Exec(`UPDATE users SET question_count = question_count + 1, updated_at = ? WHERE chat_id = ?`,
		now, chatID); err != nil {
		return err
	}

	return tx.Commit()
}

// ListUsers returns every known user, most recently active first.
func (s *SQLiteStore) ListUsers() ([]domain.User, error) {
	rows, err := s.db.Query(`
		SELECT chat_id, username, first_name, last_name, language, question_count, created_at, updated_at
		FROM users ORDER BY updated_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []domain.User
	for rows.Next() {
		var u domain.User
		var lang sql.NullString
		var created, updated string
		if err := rows.Scan(&u.ChatID, &u.Username, &u.FirstName, &u.LastName, &lang, &u.QuestionCount, &created, &updated); err != nil {
			return nil, err
		}
		if lang.Valid {
			u.Language = domain.Language(lang.String)
		}
		u.CreatedAt, _ = time.Parse(time.RFC3339, created)
		u.UpdatedAt, _ = time.Parse(time.RFC3339, updated)
		users = append(users, u)
	}
	return users, rows.Err()
}

// ListQuestions returns every recorded question, oldest first.
func (s *SQLiteStore) ListQuestions() ([]domain.QuestionRecord, error) {
	rows, err := s.db.Query(`SELECT id, chat_id, question, answer, asked_at FROM questions ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.QuestionRecord
	for rows.Next() {
		var r domain.QuestionRecord
		var asked string
		if err := rows.Scan(&r.ID, &r.ChatID, &r.Question, &r.Answer, &asked); err != nil {
			return nil, err
		}
		r.AskedAt, _ = time.Parse(time.RFC3339, asked)
		records = append(records, r)
	}
	return records, rows.Err()
}
