package cli

import (
	"docbot/config"
	"docbot/internal/adapter/cache"
	"docbot/internal/adapter/chunker"
	"docbot/internal/adapter/docsource"
	"docbot/internal/adapter/openai"
	"docbot/internal/adapter/retriever"
	"docbot/internal/port"
	"docbot/internal/usecase"
)

// pipeline bundles the retrieval components shared by serve, index and ask.
type pipeline struct {
	source   *docsource.FileSource
	client   *openai.Client
	embedder port.Embedder
	manager  *cache.Manager
}

// buildPipeline wires the document source, embedder and cache manager from
// the configuration. wrap, when non-nil, decorates the embedder (the index
// command adds a progress bar).
func buildPipeline(cfg *config.Config, wrap func(port.Embedder) port.Embedder) (*pipeline, error) {
	source, err := docsource.NewFileSource(cfg.Document.Path)
	if err != nil {
		return nil, err
	}

	client, err := openai.NewClient(
		cfg.Embedding.APIKeyEnv,
		cfg.Embedding.BaseURL,
		cfg.Embedding.RequestsPerSecond,
		cfg.Embedding.MaxRetries,
	)
	if err != nil {
		return nil, err
	}

	var embedder port.Embedder = openai.NewEmbedder(client, cfg.Embedding.Model, cfg.Embedding.BatchSize)
	if wrap != nil {
		embedder = wrap(embedder)
	}

	ch := chunker.NewParagraphChunker(cfg.Document.MaxChunkChars, cfg.Document.ChunkOverlap)
	manager := cache.NewManager(cfg.Storage.CachePath, ch, embedder)

	return &pipeline{
		source:   source,
		client:   client,
		embedder: embedder,
		manager:  manager,
	}, nil
}

// newAnswerer assembles the full answering pipeline on top of the retrieval
// components.
func (p *pipeline) newAnswerer(cfg *config.Config) *usecase.Answerer {
	qa := openai.NewChatModel(p.client, cfg.Answer.QAModel, 0.2)
	translator := openai.NewTranslator(openai.NewChatModel(p.client, cfg.Answer.TranslationModel, 0))

	return usecase.NewAnswerer(
		p.source,
		p.manager,
		retriever.NewSemantic(p.embedder),
		qa,
		translator,
		cfg.Answer.TopK,
		cfg.Answer.MinScoreThreshold,
	)
}
