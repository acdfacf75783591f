// Package docsource loads the reference document from disk and extracts its
// plain text. Supported formats: .docx, .txt and .md.
package docsource

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FileSource reads the reference document from a local file. The file is
// re-read on every Load so edits are picked up before fingerprinting.
type FileSource struct {
	path string
}

// NewFileSource creates a source for the given path.
func NewFileSource(path string) (*FileSource, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".docx", ".txt", ".md":
	default:
		return nil, fmt.Errorf("unsupported document format: %q", filepath.Ext(path))
	}
	return &FileSource{path: path}, nil
}

// Path returns the document location.
func (s *FileSource) Path() string {
	return s.path
}

// Load reads the document and returns its extracted text.
func (s *FileSource) Load() (string, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return "", fmt.Errorf("failed to read document: %w", err)
	}

	if strings.EqualFold(filepath.Ext(s.path), ".docx") {
		text, err := extractDocxText(data)
		if err != nil {
			return "", fmt.Errorf("failed to extract %s: %w", s.path, err)
		}
		return text, nil
	}

	return string(data), nil
}
