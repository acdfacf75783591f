// Package usecase orchestrates the question answering pipeline:
// translate to the retrieval language, retrieve passages, generate an
// answer, translate back.
package usecase

import (
	"fmt"
	"strings"

	"docbot/internal/adapter/cache"
	"docbot/internal/adapter/retriever"
	"docbot/internal/domain"
	"docbot/internal/logger"
	"docbot/internal/port"
)

// Retrieval and generation always run in Uzbek; see domain.Language.
const retrievalLanguage = domain.LangUzbek

// The assistant must answer only from the retrieved context, in Uzbek.
const answerSystemPrompt = "Siz loyiha hujjati bo'yicha savollarga javob beruvchi yordamchisiz. " +
	"Faqat berilgan kontekstdan foydalaning va javobni o'zbek tilida aniq hamda batafsil yozing. " +
	"Agar kontekstda ma'lumot bo'lmasa, rostini ayting va to'qimang."

const noContextFallback = "Hujjatdan mos keladigan ma'lumot topilmadi."

// Answerer runs the full retrieval-augmented answer flow for one question.
type Answerer struct {
	source     port.DocumentSource
	cache      *cache.Manager
	retriever  *retriever.Semantic
	llm        port.LLM
	translator port.Translator
	topK       int
	minScore   float64
}

// NewAnswerer wires the pipeline.
func NewAnswerer(
	source port.DocumentSource,
	cacheManager *cache.Manager,
	sem *retriever.Semantic,
	llm port.LLM,
	translator port.Translator,
	topK int,
	minScore float64,
) *Answerer {
	return &Answerer{
		source:     source,
		cache:      cacheManager,
		retriever:  sem,
		llm:        llm,
		translator: translator,
		topK:       topK,
		minScore:   minScore,
	}
}

// Answer answers a question asked in lang and returns the reply in the
// same language.
func (a *Answerer) Answer(question string, lang domain.Language) (string, error) {
	uzQuestion, err := a.translator.Translate(question, lang, retrievalLanguage)
	if err != nil {
		return "", fmt.Errorf("translating question: %w", err)
	}

	c, err := a.cache.EnsureCache(a.source)
	if err != nil {
		return "", err
	}

	scored, err := a.retriever.Search(uzQuestion, c, a.topK)
	if err != nil {
		return "", err
	}
	if a.minScore > 0 {
		scored = filterByScore(scored, a.minScore)
	}

	uzAnswer, err := a.llm.GenerateWithSystem(answerSystemPrompt, buildPrompt(uzQuestion, scored))
	if err != nil {
		return "", fmt.Errorf("generating answer: %w", err)
	}
	logger.Debug("answered question from %d passages", len(scored))

	if lang == retrievalLanguage {
		return uzAnswer, nil
	}
	answer, err := a.translator.Translate(uzAnswer, retrievalLanguage, lang)
	if err != nil {
		return "", fmt.Errorf("translating answer: %w", err)
	}
	return answer, nil
}

// buildPrompt numbers the retrieved passages and appends the question.
func buildPrompt(question string, scored []domain.ScoredPassage) string {
	var blocks []string
	for i, sp := range scored {
		blocks = append(blocks, fmt.Sprintf("Bo'lak %d (score %.3f):\n%s", i+1, sp.Score, sp.Passage.Text))
	}

	contextText := strings.Join(blocks, "\n\n")
	if contextText == "" {
		contextText = noContextFallback
	}

	return fmt.Sprintf("Kontekst:\n%s\n\nSavol: %s\n\nKo'rsatilgan kontekstga tayanib javob bering.",
		contextText, question)
}

func filterByScore(scored []domain.ScoredPassage, min float64) []domain.ScoredPassage {
	filtered := make([]domain.ScoredPassage, 0, len(scored))
	for _, sp := range scored {
		if sp.Score >= min {
			filtered = append(filtered, sp)
		}
	}
	return filtered
}
