package openai

import (
	"fmt"
	"strings"

	"docbot/internal/domain"
)

// Translator translates between the supported languages via the chat model.
type Translator struct {
	chat *ChatModel
}

// NewTranslator creates a translator on top of a chat model. Translation
// runs at temperature 0; callers should construct a dedicated ChatModel.
func NewTranslator(chat *ChatModel) *Translator {
	return &Translator{chat: chat}
}

// Translate translates text to the target language. Blank input and
// source == target are returned unchanged without a provider call.
func (t *Translator) Translate(text string, source, target domain.Language) (string, error) {
	if strings.TrimSpace(text) == "" {
		return text, nil
	}
	if source != "" && source == target {
		return text, nil
	}

	system := fmt.Sprintf(
		"You are a precise translator. Translate the user message to %s. "+
			"Return only the translation without extra commentary.", target.Label())
	if source != "" {
		system += fmt.Sprintf(" The source language is %s.", source.Label())
	}

	return t.chat.GenerateWithSystem(system, strings.TrimSpace(text))
}
