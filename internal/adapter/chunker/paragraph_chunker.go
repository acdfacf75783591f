// Package chunker splits the reference document into retrieval passages.
package chunker

import (
	"strings"

	"docbot/internal/domain"
)

// ParagraphChunker merges paragraphs into passages bounded by a maximum
// character budget, carrying a short overlap between consecutive passages to
// preserve context across the boundary. Splits always happen on paragraph
// boundaries, never mid-word. Chunking is deterministic: the same text yields
// the same passages in the same order.
type ParagraphChunker struct {
	maxChars int
	overlap  int
}

// NewParagraphChunker creates a chunker. overlap must be smaller than
// maxChars; config validation enforces that.
func NewParagraphChunker(maxChars, overlap int) *ParagraphChunker {
	return &ParagraphChunker{
		maxChars: maxChars,
		overlap:  overlap,
	}
}

// Chunk splits text into ordered passages. Returns domain.ErrEmptyDocument
// when the text contains no non-blank paragraphs.
func (c *ParagraphChunker) Chunk(text string) ([]domain.Passage, error) {
	var paragraphs []string
	for _, line := range strings.Split(text, "\n") {
		if p := strings.TrimSpace(line); p != "" {
			paragraphs = append(paragraphs, p)
		}
	}
	if len(paragraphs) == 0 {
		return nil, domain.ErrEmptyDocument
	}

	var chunks []string
	var buffer []string
	currentLen := 0

	for _, para := range paragraphs {
		if currentLen+len(para)+1 > c.maxChars && len(buffer) > 0 {
			chunk := strings.Join(buffer, "\n")
			chunks = append(chunks, chunk)

			overlapText := tailRunes(chunk, c.overlap)
			if overlapText != "" {
				buffer = []string{overlapText, para}
				currentLen = len(overlapText) + len(para)
			} else {
				buffer = []string{para}
				currentLen = len(para)
			}
			continue
		}
		buffer = append(buffer, para)
		currentLen += len(para) + 1
	}

	if len(buffer) > 0 {
		chunks = append(chunks, strings.Join(buffer, "\n"))
	}

	passages := make([]domain.Passage, len(chunks))
	for i, text := range chunks {
		passages[i] = domain.Passage{Index: i, Text: text}
	}
	return passages, nil
}

// tailRunes returns the last n characters of s without splitting a UTF-8
// sequence. The document is Uzbek/Cyrillic text, so byte slicing would not
// be safe here.
func tailRunes(s string, n int) string {
	if n <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[len(runes)-n:])
}
