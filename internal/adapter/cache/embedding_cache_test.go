package cache

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"docbot/internal/adapter/chunker"
	"docbot/internal/adapter/openai"
	"docbot/internal/domain"
	"docbot/internal/port"
)

// memSource is an in-memory DocumentSource for tests.
type memSource struct {
	text string
	err  error
}

func (s *memSource) Load() (string, error) { return s.text, s.err }
func (s *memSource) Path() string          { return "mem://doc" }

// failingEmbedder always reports a provider failure.
type failingEmbedder struct{}

func (failingEmbedder) Embed([]string) ([][]float32, error) {
	return nil, domain.ErrProvider
}
func (failingEmbedder) ModelName() string { return "mock" }

func newManager(t *testing.T, embedder port.Embedder) (*Manager, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "embeddings.db")
	ch := chunker.NewParagraphChunker(40, 0)
	return NewManager(path, ch, embedder), path
}

func TestFingerprintSensitivity(t *testing.T) {
	if Fingerprint("document text") != Fingerprint("document text") {
		t.Error("fingerprint not deterministic")
	}
	if Fingerprint("document text") == Fingerprint("document texT") {
		t.Error("single-byte change did not change fingerprint")
	}
}

func TestEnsureCacheBuildsOnce(t *testing.T) {
	embedder := openai.NewMockEmbedder(8)
	m, _ := newManager(t, embedder)
	src := &memSource{text: "first paragraph\nsecond paragraph\nthird paragraph"}

	c, err := m.EnsureCache(src)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Passages) == 0 || len(c.Passages) != len(c.Vectors) {
		t.Fatalf("bad cache shape: %d passages, %d vectors", len(c.Passages), len(c.Vectors))
	}
	if c.Fingerprint != Fingerprint(src.text) {
		t.Error("cache fingerprint does not match document")
	}
	if embedder.Calls() != 1 {
		t.Fatalf("expected exactly one batched embed call, got %d", embedder.Calls())
	}

	// Unchanged document: no further provider calls.
	if _, err := m.EnsureCache(src); err != nil {
		t.Fatal(err)
	}
	if embedder.Calls() != 1 {
		t.Errorf("second EnsureCache made %d extra embed calls", embedder.Calls()-1)
	}
}

func TestEnsureCacheLoadsFromDisk(t *testing.T) {
	embedder := openai.NewMockEmbedder(8)
	m, path := newManager(t, embedder)
	src := &memSource{text: "alpha paragraph\nbeta paragraph"}

	if _, err := m.EnsureCache(src); err != nil {
		t.Fatal(err)
	}

	// Fresh manager, same file: must load without embedding.
	fresh := NewManager(path, chunker.NewParagraphChunker(40, 0), embedder)
	c, err := fresh.EnsureCache(src)
	if err != nil {
		t.Fatal(err)
	}
	if embedder.Calls() != 1 {
		t.Errorf("disk load made %d extra embed calls", embedder.Calls()-1)
	}
	if c.Fingerprint != Fingerprint(src.text) {
		t.Error("loaded cache has wrong fingerprint")
	}
}

func TestEnsureCacheRebuildsOnChange(t *testing.T) {
	embedder := openai.NewMockEmbedder(8)
	m, _ := newManager(t, embedder)
	src := &memSource{text: "original content"}

	if _, err := m.EnsureCache(src); err != nil {
		t.Fatal(err)
	}

	src.text = "edited content"
	c, err := m.EnsureCache(src)
	if err != nil {
		t.Fatal(err)
	}
	if embedder.Calls() != 2 {
		t.Errorf("expected exactly one rebuild embed call, got %d total", embedder.Calls())
	}
	if c.Fingerprint != Fingerprint("edited content") {
		t.Error("rebuilt cache fingerprint does not match new document")
	}
}

func TestEnsureCacheRebuildsOnModelChange(t *testing.T) {
	embedder := openai.NewMockEmbedder(8)
	m, path := newManager(t, embedder)
	src := &memSource{text: "stable content"}

	if _, err := m.EnsureCache(src); err != nil {
		t.Fatal(err)
	}

	other := &renamedEmbedder{MockEmbedder: openai.NewMockEmbedder(8), name: "other-model"}
	fresh := NewManager(path, chunker.NewParagraphChunker(40, 0), other)
	c, err := fresh.EnsureCache(src)
	if err != nil {
		t.Fatal(err)
	}
	if other.Calls() != 1 {
		t.Errorf("model change should force a rebuild, got %d embed calls", other.Calls())
	}
	if c.Model != "other-model" {
		t.Errorf("rebuilt cache has model %q", c.Model)
	}
}

type renamedEmbedder struct {
	*openai.MockEmbedder
	name string
}

func (e *renamedEmbedder) ModelName() string { return e.name }

func TestEmbedFailureLeavesPriorCacheIntact(t *testing.T) {
	embedder := openai.NewMockEmbedder(8)
	m, path := newManager(t, embedder)
	src := &memSource{text: "good content"}

	if _, err := m.EnsureCache(src); err != nil {
		t.Fatal(err)
	}

	broken := NewManager(path, chunker.NewParagraphChunker(40, 0), failingEmbedder{})
	src.text = "changed content"
	if _, err := broken.EnsureCache(src); !errors.Is(err, domain.ErrProvider) {
		t.Fatalf("expected ErrProvider, got %v", err)
	}

	// The old cache file must still be loadable and valid for the old text.
	loaded, err := loadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded == nil || loaded.Fingerprint != Fingerprint("good content") {
		t.Error("prior cache was damaged by a failed rebuild")
	}
}

func TestInterruptedRebuildLeavesPriorCacheUsable(t *testing.T) {
	embedder := openai.NewMockEmbedder(8)
	m, path := newManager(t, embedder)
	src := &memSource{text: "committed content"}

	if _, err := m.EnsureCache(src); err != nil {
		t.Fatal(err)
	}

	// Simulate a process killed mid-rebuild: a half-written temporary
	// file exists, the rename never happened.
	if err := os.WriteFile(path+".tmp", []byte("half-written junk"), 0600); err != nil {
		t.Fatal(err)
	}

	fresh := NewManager(path, chunker.NewParagraphChunker(40, 0), embedder)
	c, err := fresh.EnsureCache(src)
	if err != nil {
		t.Fatal(err)
	}
	if c.Fingerprint != Fingerprint("committed content") {
		t.Error("previous cache not intact after interrupted rebuild")
	}
	if embedder.Calls() != 1 {
		t.Errorf("expected no re-embedding, got %d calls", embedder.Calls())
	}
}

func TestCorruptCacheTriggersRebuild(t *testing.T) {
	embedder := openai.NewMockEmbedder(8)
	m, path := newManager(t, embedder)
	src := &memSource{text: "some content"}

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte("not a database"), 0600); err != nil {
		t.Fatal(err)
	}

	c, err := m.EnsureCache(src)
	if err != nil {
		t.Fatal(err)
	}
	if embedder.Calls() != 1 {
		t.Errorf("corrupt cache should rebuild, got %d embed calls", embedder.Calls())
	}
	if c.Fingerprint != Fingerprint(src.text) {
		t.Error("rebuilt cache has wrong fingerprint")
	}
}

func TestEmptyDocumentRefused(t *testing.T) {
	embedder := openai.NewMockEmbedder(8)
	m, path := newManager(t, embedder)

	_, err := m.EnsureCache(&memSource{text: "   \n  \n"})
	if !errors.Is(err, domain.ErrEmptyDocument) {
		t.Fatalf("expected ErrEmptyDocument, got %v", err)
	}
	if embedder.Calls() != 0 {
		t.Errorf("empty document must not be embedded, got %d calls", embedder.Calls())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("empty document must not produce a cache file")
	}
}

func TestDocumentReadFailurePropagates(t *testing.T) {
	embedder := openai.NewMockEmbedder(8)
	m, _ := newManager(t, embedder)

	wantErr := os.ErrPermission
	_, err := m.EnsureCache(&memSource{err: wantErr})
	if !errors.Is(err, wantErr) {
		t.Fatalf("expected read error to propagate, got %v", err)
	}
}
