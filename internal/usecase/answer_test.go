package usecase

import (
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"docbot/internal/adapter/cache"
	"docbot/internal/adapter/chunker"
	"docbot/internal/adapter/openai"
	"docbot/internal/adapter/retriever"
	"docbot/internal/domain"
)

type memSource struct{ text string }

func (s *memSource) Load() (string, error) { return s.text, nil }
func (s *memSource) Path() string          { return "mem://doc" }

// echoTranslator tags text instead of translating, so tests can observe
// which translation legs ran.
type echoTranslator struct{ failOnTarget domain.Language }

func (tr *echoTranslator) Translate(text string, source, target domain.Language) (string, error) {
	if source != "" && source == target {
		return text, nil
	}
	if tr.failOnTarget != "" && target == tr.failOnTarget {
		return "", domain.ErrProvider
	}
	return "[" + string(target) + "]" + text, nil
}

type cannedLLM struct {
	lastPrompt string
	answer     string
	err        error
}

func (l *cannedLLM) GenerateWithSystem(system, user string) (string, error) {
	l.lastPrompt = user
	return l.answer, l.err
}
func (l *cannedLLM) ModelName() string { return "canned" }

func newAnswerer(t *testing.T, llm *cannedLLM, tr *echoTranslator, minScore float64) *Answerer {
	t.Helper()
	embedder := openai.NewMockEmbedder(8)
	ch := chunker.NewParagraphChunker(60, 0)
	src := &memSource{text: "kredit shartlari haqida\nto'lov muddati haqida\nloyiha maqsadi haqida"}
	manager := cache.NewManager(filepath.Join(t.TempDir(), "emb.db"), ch, embedder)

	return NewAnswerer(src, manager, retriever.NewSemantic(embedder), llm, tr, 2, minScore)
}

func TestAnswerTranslatesBothLegs(t *testing.T) {
	llm := &cannedLLM{answer: "javob matni"}
	a := newAnswerer(t, llm, &echoTranslator{}, 0)

	got, err := a.Answer("what are the loan terms?", domain.LangEnglish)
	if err != nil {
		t.Fatal(err)
	}
	// Question leg: en -> uz before retrieval.
	if !strings.Contains(llm.lastPrompt, "[uz]what are the loan terms?") {
		t.Errorf("question was not translated to Uzbek: %q", llm.lastPrompt)
	}
	// Answer leg: uz -> en after generation.
	if got != "[en]javob matni" {
		t.Errorf("answer not translated back: %q", got)
	}
}

func TestAnswerUzbekSkipsBackTranslation(t *testing.T) {
	llm := &cannedLLM{answer: "javob matni"}
	a := newAnswerer(t, llm, &echoTranslator{}, 0)

	got, err := a.Answer("kredit shartlari qanday?", domain.LangUzbek)
	if err != nil {
		t.Fatal(err)
	}
	if got != "javob matni" {
		t.Errorf("uzbek answer must be returned untouched: %q", got)
	}
}

func TestAnswerPromptContainsPassages(t *testing.T) {
	llm := &cannedLLM{answer: "ok"}
	a := newAnswerer(t, llm, &echoTranslator{}, 0)

	if _, err := a.Answer("savol", domain.LangUzbek); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(llm.lastPrompt, "Bo'lak 1") || !strings.Contains(llm.lastPrompt, "Bo'lak 2") {
		t.Errorf("prompt missing numbered passages:\n%s", llm.lastPrompt)
	}
	if !strings.Contains(llm.lastPrompt, "Savol: savol") {
		t.Errorf("prompt missing question:\n%s", llm.lastPrompt)
	}
}

func TestAnswerThresholdFallback(t *testing.T) {
	llm := &cannedLLM{answer: "ok"}
	// Impossible threshold filters every passage; the prompt must say so
	// instead of silently passing an empty context.
	a := newAnswerer(t, llm, &echoTranslator{}, 2.0)

	if _, err := a.Answer("savol", domain.LangUzbek); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(llm.lastPrompt, noContextFallback) {
		t.Errorf("prompt missing empty-context fallback:\n%s", llm.lastPrompt)
	}
}

func TestAnswerPropagatesGenerationFailure(t *testing.T) {
	llm := &cannedLLM{err: domain.ErrProvider}
	a := newAnswerer(t, llm, &echoTranslator{}, 0)

	if _, err := a.Answer("savol", domain.LangUzbek); !errors.Is(err, domain.ErrProvider) {
		t.Errorf("expected ErrProvider, got %v", err)
	}
}

func TestAnswerPropagatesTranslationFailure(t *testing.T) {
	llm := &cannedLLM{answer: "javob"}
	a := newAnswerer(t, llm, &echoTranslator{failOnTarget: domain.LangRussian}, 0)

	if _, err := a.Answer("вопрос", domain.LangRussian); !errors.Is(err, domain.ErrProvider) {
		t.Errorf("expected ErrProvider from back-translation, got %v", err)
	}
}
