package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the assistant.
type Config struct {
	Telegram  TelegramConfig  `yaml:"telegram"`
	Document  DocumentConfig  `yaml:"document"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Answer    AnswerConfig    `yaml:"answer"`
	Storage   StorageConfig   `yaml:"storage"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// TelegramConfig holds bot credentials and the admin chat.
type TelegramConfig struct {
	TokenEnv    string `yaml:"token_env"`     // Environment variable for the bot token
	AdminChatID int64  `yaml:"admin_chat_id"` // Chat allowed to run /stat
}

// DocumentConfig describes the single reference document.
type DocumentConfig struct {
	Path          string `yaml:"path"`
	MaxChunkChars int    `yaml:"max_chunk_chars"`
	ChunkOverlap  int    `yaml:"chunk_overlap"`
	Watch         bool   `yaml:"watch"` // Rebuild the cache when the file changes
}

// EmbeddingConfig holds embedding provider configuration.
type EmbeddingConfig struct {
	Model             string  `yaml:"model"`       // e.g., "text-embedding-3-large"
	APIKeyEnv         string  `yaml:"api_key_env"` // Environment variable for API key
	BaseURL           string  `yaml:"base_url"`
	BatchSize         int     `yaml:"batch_size"`
	RequestsPerSecond float64 `yaml:"requests_per_second"`
	MaxRetries        int     `yaml:"max_retries"`
}

// AnswerConfig holds retrieval and generation configuration.
type AnswerConfig struct {
	TopK              int     `yaml:"top_k"`
	MinScoreThreshold float64 `yaml:"min_score_threshold"` // Filter results below this score (0 = disabled)
	QAModel           string  `yaml:"qa_model"`
	TranslationModel  string  `yaml:"translation_model"`
}

// StorageConfig holds paths of the persisted state.
type StorageConfig struct {
	CachePath string `yaml:"cache_path"` // Embedding cache (bbolt file)
	DBPath    string `yaml:"db_path"`    // Statistics store (sqlite file)
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Telegram: TelegramConfig{
			TokenEnv: "TELEGRAM_BOT_TOKEN",
		},
		Document: DocumentConfig{
			Path:          "docs/reference.docx",
			MaxChunkChars: 1500,
			ChunkOverlap:  150,
			Watch:         true,
		},
		Embedding: EmbeddingConfig{
			Model:             "text-embedding-3-large",
			APIKeyEnv:         "OPENAI_API_KEY",
			BaseURL:           "https://api.openai.com/v1",
			BatchSize:         100,
			RequestsPerSecond: 2.0,
			MaxRetries:        3,
		},
		Answer: AnswerConfig{
			TopK:             4,
			QAModel:          "gpt-4o",
			TranslationModel: "gpt-4o-mini",
		},
		Storage: StorageConfig{
			CachePath: "data/embeddings.db",
			DBPath:    "data/bot.db",
		},
		Logging: LoggingConfig{
			Verbose: false,
		},
	}
}

// Load loads configuration from a YAML file, merged over the defaults.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Return defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}

	return cfg, cfg.Validate()
}

// LoadFromDir loads configuration from a directory (looks for docbot.yaml).
func LoadFromDir(dir string) (*Config, error) {
	path := filepath.Join(dir, "docbot.yaml")
	if _, err := os.Stat(path); err == nil {
		return Load(path)
	}
	return DefaultConfig(), nil
}

// Validate rejects values the pipeline cannot work with.
func (c *Config) Validate() error {
	if c.Document.MaxChunkChars <= 0 {
		return fmt.Errorf("document.max_chunk_chars must be positive, got %d", c.Document.MaxChunkChars)
	}
	if c.Document.ChunkOverlap < 0 || c.Document.ChunkOverlap >= c.Document.MaxChunkChars {
		return fmt.Errorf("document.chunk_overlap must be in [0, max_chunk_chars), got %d", c.Document.ChunkOverlap)
	}
	if c.Answer.TopK <= 0 {
		return fmt.Errorf("answer.top_k must be positive, got %d", c.Answer.TopK)
	}
	if c.Embedding.BatchSize <= 0 {
		return fmt.Errorf("embedding.batch_size must be positive, got %d", c.Embedding.BatchSize)
	}
	return nil
}

// Save saves configuration to a YAML file.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
