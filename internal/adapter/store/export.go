package store

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/xuri/excelize/v2"

	"docbot/internal/port"
)

// ExportXLSX writes the statistics store to an .xlsx workbook with a Users
// sheet and a Questions sheet. Returns the written path.
func ExportXLSX(s port.StatsStore, path string) (string, error) {
	users, err := s.ListUsers()
	if err != nil {
		return "", fmt.Errorf("listing users: %w", err)
	}
	questions, err := s.ListQuestions()
	if err != nil {
		return "", fmt.Errorf("listing questions: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	const usersSheet = "Users"
	if err := f.SetSheetName("Sheet1", usersSheet); err != nil {
		return "", err
	}

	userHeaders := []any{"chat_id", "username", "first_name", "last_name", "language", "question_count", "created_at", "updated_at"}
	if err := f.SetSheetRow(usersSheet, "A1", &userHeaders); err != nil {
		return "", err
	}
	for i, u := range users {
		row := []any{
			u.ChatID, u.Username, u.FirstName, u.LastName, string(u.Language),
			u.QuestionCount, u.CreatedAt.Format(time.RFC3339), u.UpdatedAt.Format(time.RFC3339),
		}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(usersSheet, cell, &row); err != nil {
			return "", err
		}
	}

	const questionsSheet = "Questions"
	if _, err := f.NewSheet(questionsSheet); err != nil {
		return "", err
	}
	questionHeaders := []any{"id", "chat_id", "question", "answer", "asked_at"}
	if err := f.SetSheetRow(questionsSheet, "A1", &questionHeaders); err != nil {
		return "", err
	}
	for i, q := range questions {
		row := []any{q.ID, q.ChatID, q.Question, q.Answer, q.AskedAt.Format(time.RFC3339)}
		cell := fmt.Sprintf("A%d", i+2)
		if err := f.SetSheetRow(questionsSheet, cell, &row); err != nil {
			return "", err
		}
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return "", err
		}
	}
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("saving workbook: %w", err)
	}
	return path, nil
}
