package bot

import "docbot/internal/domain"

// replySet holds every user-facing string for one language.
type replySet struct {
	Selected   string
	AskMore    string
	TryAgain   string
	NotAllowed string
}

// replies is keyed by every supported language; TestRepliesExhaustive
// keeps it in sync with domain.Languages.
var replies = map[domain.Language]replySet{
	domain.LangUzbek: {
		Selected:   "Siz O'zbek tilini tanladingiz. Savolingizni yozing.",
		AskMore:    "Yana savollaringiz bormi?",
		TryAgain:   "Uzr, hozircha javob bera olmadim. Qayta urinib ko'ring.",
		NotAllowed: "Sizga ruxsat berilmagan.",
	},
	domain.LangRussian: {
		Selected:   "Вы выбрали русский язык. Задайте ваш вопрос о проекте.",
		AskMore:    "Есть ли у вас другие вопросы?",
		TryAgain:   "Извините, сейчас не получилось ответить. Попробуйте ещё раз.",
		NotAllowed: "У вас нет доступа.",
	},
	domain.LangEnglish: {
		Selected:   "You selected English. Ask your question about the project.",
		AskMore:    "Do you have any other questions?",
		TryAgain:   "Sorry, I could not answer right now. Please try again.",
		NotAllowed: "You are not allowed to do that.",
	},
}

// Shown before a language is known, so all three at once.
const (
	chooseLanguagePrompt = "Tilni tanlang / Выберите язык / Choose language:"
	helpText             = "Boshlash uchun /start buyrug'ini bosing va tilni tanlang."
)

// repliesFor returns the reply set for a language, falling back to Uzbek.
func repliesFor(lang domain.Language) replySet {
	if r, ok := replies[lang]; ok {
		return r
	}
	return replies[domain.LangUzbek]
}
