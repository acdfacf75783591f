// Package cache manages the persisted embedding cache for the reference
// document. The cache holds one vector per passage and is keyed by a
// fingerprint of the document text together with the embedding model name;
// any mismatch forces a full rebuild. Rebuilds replace the cache file
// atomically so a crash mid-rebuild never destroys the previous good cache.
package cache

import (
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"go.etcd.io/bbolt"

	"docbot/internal/adapter/chunker"
	"docbot/internal/domain"
	"docbot/internal/logger"
	"docbot/internal/port"
)

var (
	bucketMeta     = []byte("meta")
	bucketPassages = []byte("passages")

	keyFingerprint = []byte("fingerprint")
	keyModel       = []byte("model")
	keyCount       = []byte("count")
)

// Cache is the loaded embedding cache: ordered passages with one vector
// each, plus the fingerprint and model they were computed from.
type Cache struct {
	Fingerprint string
	Model       string
	Passages    []domain.Passage
	Vectors     [][]float32
}

// Manager owns the cache file. It is safe for concurrent use; two
// goroutines that both detect a stale cache may rebuild independently,
// which is idempotent and cheaper than serializing rare rebuilds.
type Manager struct {
	path     string
	chunker  *chunker.ParagraphChunker
	embedder port.Embedder

	mu      sync.RWMutex
	current *Cache
}

// NewManager creates a cache manager persisting to path.
func NewManager(path string, ch *chunker.ParagraphChunker, embedder port.Embedder) *Manager {
	return &Manager{
		path:     path,
		chunker:  ch,
		embedder: embedder,
	}
}

// Fingerprint returns the hex SHA-256 digest of the document text.
func Fingerprint(text string) string {
	sum := sha256.Sum256([]byte(text))
	return hex.EncodeToString(sum[:])
}

// EnsureCache returns a cache that matches the current document content,
// rebuilding it if the fingerprint or embedding model changed. No embedding
// calls are made when a valid cache exists in memory or on disk. On
// embedding failure the previous cache file is left untouched.
func (m *Manager) EnsureCache(source port.DocumentSource) (*Cache, error) {
	text, err := source.Load()
	if err != nil {
		return nil, err
	}

	fp := Fingerprint(text)
	model := m.embedder.ModelName()

	m.mu.RLock()
	current := m.current
	m.mu.RUnlock()
	if current != nil && current.Fingerprint == fp && current.Model == model {
		return current, nil
	}

	if loaded, err := loadFile(m.path); err != nil {
		logger.Warn("discarding unreadable embedding cache %s: %v", m.path, err)
	} else if loaded != nil && loaded.Fingerprint == fp && loaded.Model == model {
		logger.Info("loaded embedding cache from %s (%d passages)", m.path, len(loaded.Passages))
		m.setCurrent(loaded)
		return loaded, nil
	}

	logger.Info("no valid cache for %s, building embeddings", source.Path())
	rebuilt, err := m.rebuild(text, fp, model)
	if err != nil {
		return nil, err
	}
	m.setCurrent(rebuilt)
	return rebuilt, nil
}

// Invalidate drops the in-memory cache so the next EnsureCache re-checks
// the document. Used by the file watcher.
func (m *Manager) Invalidate() {
	m.mu.Lock()
	m.current = nil
	m.mu.Unlock()
}

func (m *Manager) setCurrent(c *Cache) {
	m.mu.Lock()
	m.current = c
	m.mu.Unlock()
}

// rebuild chunks the text, embeds every passage and persists a new cache.
func (m *Manager) rebuild(text, fingerprint, model string) (*Cache, error) {
	passages, err := m.chunker.Chunk(text)
	if err != nil {
		return nil, err
	}

	texts := make([]string, len(passages))
	for i, p := range passages {
		texts[i] = p.Text
	}

	vectors, err := m.embedder.Embed(texts)
	if err != nil {
		return nil, err
	}
	if len(vectors) != len(passages) {
		return nil, fmt.Errorf("%w: embedded %d of %d passages", domain.ErrProvider, len(vectors), len(passages))
	}

	c := &Cache{
		Fingerprint: fingerprint,
		Model:       model,
		Passages:    passages,
		Vectors:     vectors,
	}
	if err := saveFile(m.path, c); err != nil {
		return nil, fmt.Errorf("failed to persist embedding cache: %w", err)
	}
	logger.Info("saved embedding cache to %s (%d passages)", m.path, len(passages))
	return c, nil
}

type storedPassage struct {
	Text   string    `json:"t"`
	Vector []float32 `json:"v"`
}

// saveFile writes the cache to a temporary file and renames it over the
// target path, so readers never observe a half-written cache.
func saveFile(path string, c *Cache) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}

	tmp := path + ".tmp"
	if err := os.Remove(tmp); err != nil && !os.IsNotExist(err) {
		return err
	}

	db, err := bbolt.Open(tmp, 0600, nil)
	if err != nil {
		return err
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}
		if err := meta.Put(keyFingerprint, []byte(c.Fingerprint)); err != nil {
			return err
		}
		if err := meta.Put(keyModel, []byte(c.Model)); err != nil {
			return err
		}
		count := make([]byte, 4)
		binary.BigEndian.PutUint32(count, uint32(len(c.Passages)))
		if err := meta.Put(keyCount, count); err != nil {
			return err
		}

		passages, err := tx.CreateBucketIfNotExists(bucketPassages)
		if err != nil {
			return err
		}
		for i, p := range c.Passages {
			key := make([]byte, 4)
			binary.BigEndian.PutUint32(key, uint32(i))
			data, err := json.Marshal(storedPassage{Text: p.Text, Vector: c.Vectors[i]})
			if err != nil {
				return err
			}
			if err := passages.Put(key, data); err != nil {
				return err
			}
		}
		return nil
	})
	if cerr := db.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(tmp)
		return err
	}

	return os.Rename(tmp, path)
}

// loadFile reads a persisted cache. A missing file returns (nil, nil);
// any unreadable or internally inconsistent file is reported as
// domain.ErrCacheCorrupt so callers fall back to a rebuild.
func loadFile(path string) (*Cache, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, nil
	}

	db, err := bbolt.Open(path, 0600, &bbolt.Options{ReadOnly: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheCorrupt, err)
	}
	defer db.Close()

	c := &Cache{}
	err = db.View(func(tx *bbolt.Tx) error {
		meta := tx.Bucket(bucketMeta)
		passages := tx.Bucket(bucketPassages)
		if meta == nil || passages == nil {
			return fmt.Errorf("missing buckets")
		}

		c.Fingerprint = string(meta.Get(keyFingerprint))
		c.Model = string(meta.Get(keyModel))
		countRaw := meta.Get(keyCount)
		if c.Fingerprint == "" || c.Model == "" || len(countRaw) != 4 {
			return fmt.Errorf("incomplete metadata")
		}
		count := int(binary.BigEndian.Uint32(countRaw))

		c.Passages = make([]domain.Passage, 0, count)
		c.Vectors = make([][]float32, 0, count)
		for i := 0; i < count; i++ {
			key := make([]byte, 4)
			binary.BigEndian.PutUint32(key, uint32(i))
			data := passages.Get(key)
			if data == nil {
				return fmt.Errorf("passage %d missing", i)
			}
			var sp storedPassage
			if err := json.Unmarshal(data, &sp); err != nil {
				return fmt.Errorf("passage %d unreadable: %v", i, err)
			}
			c.Passages = append(c.Passages, domain.Passage{Index: i, Text: sp.Text})
			c.Vectors = append(c.Vectors, sp.Vector)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrCacheCorrupt, err)
	}

	return c, nil
}
