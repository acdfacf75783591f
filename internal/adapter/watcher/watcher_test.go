package watcher

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestWatcherFiresOnDocumentWrite(t *testing.T) {
	old := settleDelay
	settleDelay = 20 * time.Millisecond
	defer func() { settleDelay = old }()

	dir := t.TempDir()
	doc := filepath.Join(dir, "reference.txt")
	if err := os.WriteFile(doc, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 1)
	w, err := New(doc, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	// Give the watcher a moment to register, then edit the document.
	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(doc, []byte("v2"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
	case <-time.After(3 * time.Second):
		t.Fatal("change callback never fired")
	}
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	old := settleDelay
	settleDelay = 20 * time.Millisecond
	defer func() { settleDelay = old }()

	dir := t.TempDir()
	doc := filepath.Join(dir, "reference.txt")
	if err := os.WriteFile(doc, []byte("v1"), 0644); err != nil {
		t.Fatal(err)
	}

	fired := make(chan struct{}, 1)
	w, err := New(doc, func() {
		select {
		case fired <- struct{}{}:
		default:
		}
	})
	if err != nil {
		t.Fatal(err)
	}
	defer w.Stop()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go w.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	if err := os.WriteFile(filepath.Join(dir, "unrelated.txt"), []byte("x"), 0644); err != nil {
		t.Fatal(err)
	}

	select {
	case <-fired:
		t.Fatal("callback fired for an unrelated file")
	case <-time.After(200 * time.Millisecond):
	}
}
