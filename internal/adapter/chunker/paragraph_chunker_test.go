package chunker

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"docbot/internal/domain"
)

func TestChunkShortDocumentStaysWhole(t *testing.T) {
	c := NewParagraphChunker(1500, 150)

	passages, err := c.Chunk("A single short paragraph.")
	if err != nil {
		t.Fatal(err)
	}
	if len(passages) != 1 {
		t.Fatalf("expected 1 passage, got %d", len(passages))
	}
	if passages[0].Text != "A single short paragraph." {
		t.Errorf("passage altered: %q", passages[0].Text)
	}
	if passages[0].Index != 0 {
		t.Errorf("expected index 0, got %d", passages[0].Index)
	}
}

func TestChunkSplitsOnParagraphBoundaries(t *testing.T) {
	c := NewParagraphChunker(30, 0)

	text := "First paragraph here.\nSecond paragraph here.\nThird paragraph here."
	passages, err := c.Chunk(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(passages) < 2 {
		t.Fatalf("expected multiple passages, got %d", len(passages))
	}

	// No passage may split a paragraph mid-word.
	for _, p := range passages {
		for _, line := range strings.Split(p.Text, "\n") {
			if !strings.HasSuffix(line, "here.") {
				t.Errorf("paragraph split mid-text: %q", line)
			}
		}
	}

	// Every paragraph must appear in some passage.
	for _, para := range strings.Split(text, "\n") {
		found := false
		for _, p := range passages {
			if strings.Contains(p.Text, para) {
				found = true
				break
			}
		}
		if !found {
			t.Errorf("paragraph %q missing from all passages", para)
		}
	}
}

func TestChunkCarriesOverlap(t *testing.T) {
	c := NewParagraphChunker(30, 10)

	text := "aaaaaaaaaaaaaaaaaaaa\nbbbbbbbbbbbbbbbbbbbb\ncccccccccccccccccccc"
	passages, err := c.Chunk(text)
	if err != nil {
		t.Fatal(err)
	}
	if len(passages) < 2 {
		t.Skip("need at least 2 passages to test overlap")
	}

	for i := 1; i < len(passages); i++ {
		prev := passages[i-1].Text
		tail := prev[len(prev)-10:]
		if !strings.HasPrefix(passages[i].Text, tail) {
			t.Errorf("passage %d does not start with the previous tail %q: %q", i, tail, passages[i].Text)
		}
	}
}

func TestChunkIsDeterministic(t *testing.T) {
	c := NewParagraphChunker(40, 8)
	text := strings.Repeat("Paragraph with some words in it.\n", 20)

	first, err := c.Chunk(text)
	if err != nil {
		t.Fatal(err)
	}
	for i := 0; i < 5; i++ {
		again, err := c.Chunk(text)
		if err != nil {
			t.Fatal(err)
		}
		if !reflect.DeepEqual(first, again) {
			t.Fatalf("chunking not deterministic on run %d", i)
		}
	}
}

func TestChunkIndicesAreSequential(t *testing.T) {
	c := NewParagraphChunker(25, 0)
	passages, err := c.Chunk("one one one one\ntwo two two two\nthree three three")
	if err != nil {
		t.Fatal(err)
	}
	for i, p := range passages {
		if p.Index != i {
			t.Errorf("passage %d has index %d", i, p.Index)
		}
	}
}

func TestChunkEmptyDocument(t *testing.T) {
	c := NewParagraphChunker(1500, 150)

	for _, text := range []string{"", "   \n\t\n  "} {
		if _, err := c.Chunk(text); !errors.Is(err, domain.ErrEmptyDocument) {
			t.Errorf("Chunk(%q): expected ErrEmptyDocument, got %v", text, err)
		}
	}
}

func TestChunkMultibyteOverlap(t *testing.T) {
	c := NewParagraphChunker(20, 5)

	// Cyrillic paragraphs: overlap slicing must not cut a rune in half.
	text := "банк ҳақида савол\nжавоб бериш хизмати\nфойдаланувчи сўрови"
	passages, err := c.Chunk(text)
	if err != nil {
		t.Fatal(err)
	}
	for _, p := range passages {
		if !strings.ContainsRune(p.Text, '�') {
			continue
		}
		t.Errorf("passage contains replacement character, rune was split: %q", p.Text)
	}
}
