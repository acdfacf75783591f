package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"docbot/internal/domain"
)

var (
	askQuestion string
	askLang     string
)

var askCmd = &cobra.Command{
	Use:   "ask",
	Short: "Answer one question from the terminal",
	Long: `Answer a single question without going through Telegram. Useful for
checking retrieval quality and prompt changes.

Examples:
  docbot ask -q "Loyiha qanday ishlaydi?"
  docbot ask -q "How are payouts calculated?" --lang en`,
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
	askCmd.Flags().StringVarP(&askQuestion, "question", "q", "", "question to answer (required)")
	askCmd.Flags().StringVar(&askLang, "lang", string(domain.LangUzbek), "question language: uz, ru or en")
	askCmd.MarkFlagRequired("question")
}

func runAsk(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	lang, err := domain.ParseLanguage(askLang)
	if err != nil {
		return err
	}

	p, err := buildPipeline(cfg, nil)
	if err != nil {
		return err
	}

	answer, err := p.newAnswerer(cfg).Answer(askQuestion, lang)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	return nil
}
