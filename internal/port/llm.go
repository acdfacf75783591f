package port

import "docbot/internal/domain"

// LLM represents a chat model used for answer generation.
type LLM interface {
	// GenerateWithSystem generates text with a system prompt.
	GenerateWithSystem(systemPrompt, userPrompt string) (string, error)

	// ModelName returns the name of the model.
	ModelName() string
}

// Translator converts text between the supported languages.
type Translator interface {
	// Translate translates text to the target language. Source may be
	// empty when unknown. Empty input and source == target are returned
	// unchanged without a provider call.
	Translate(text string, source, target domain.Language) (string, error)
}
