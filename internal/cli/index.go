package cli

import (
	"fmt"
	"os"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docbot/internal/port"
)

var indexForce bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "Build or refresh the embedding cache",
	Long: `Build the embedding cache for the reference document. Nothing is done
when the cached fingerprint already matches the document; --force discards
the cache first.`,
	RunE: runIndex,
}

func init() {
	rootCmd.AddCommand(indexCmd)
	indexCmd.Flags().BoolVarP(&indexForce, "force", "f", false, "rebuild even if the cache is up to date")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg := GetConfig()

	if indexForce {
		if err := os.Remove(cfg.Storage.CachePath); err != nil && !os.IsNotExist(err) {
			return fmt.Errorf("failed to discard cache: %w", err)
		}
	}

	p, err := buildPipeline(cfg, func(inner port.Embedder) port.Embedder {
		return &progressEmbedder{inner: inner, batch: cfg.Embedding.BatchSize}
	})
	if err != nil {
		return err
	}

	c, err := p.manager.EnsureCache(p.source)
	if err != nil {
		return err
	}

	fmt.Printf("cache ready: %d passages, model %s, fingerprint %s\n",
		len(c.Passages), c.Model, c.Fingerprint[:12])
	return nil
}

// progressEmbedder shows a progress bar while passages are embedded. It
// forwards batch-sized slices so the bar advances between provider calls.
type progressEmbedder struct {
	inner port.Embedder
	batch int
}

func (e *progressEmbedder) Embed(texts []string) ([][]float32, error) {
	if len(texts) <= 1 {
		return e.inner.Embed(texts)
	}

	bar := progressbar.Default(int64(len(texts)), "embedding passages")
	defer bar.Finish()

	all := make([][]float32, 0, len(texts))
	for i := 0; i < len(texts); i += e.batch {
		end := i + e.batch
		if end > len(texts) {
			end = len(texts)
		}
		vectors, err := e.inner.Embed(texts[i:end])
		if err != nil {
			return nil, err
		}
		all = append(all, vectors...)
		bar.Add(end - i)
	}
	return all, nil
}

func (e *progressEmbedder) ModelName() string {
	return e.inner.ModelName()
}
