package domain

import "fmt"

// Language is a user-facing language the bot can converse in. Retrieval and
// answer generation always happen in Uzbek; other languages are translated
// at the edges.
type Language string

const (
	LangUzbek   Language = "uz"
	LangRussian Language = "ru"
	LangEnglish Language = "en"
)

// Languages lists every supported language in display order.
var Languages = []Language{LangUzbek, LangRussian, LangEnglish}

// ParseLanguage validates a language code coming from callback data or storage.
func ParseLanguage(code string) (Language, error) {
	switch Language(code) {
	case LangUzbek, LangRussian, LangEnglish:
		return Language(code), nil
	}
	return "", fmt.Errorf("unsupported language code: %q", code)
}

// Label returns the human-readable name used in translation prompts and
// the language keyboard.
func (l Language) Label() string {
	switch l {
	case LangUzbek:
		return "O'zbek"
	case LangRussian:
		return "Русский"
	case LangEnglish:
		return "English"
	}
	return string(l)
}
