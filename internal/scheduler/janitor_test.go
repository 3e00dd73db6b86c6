package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/shelfsync/shelfsync/internal/domain"
	"github.com/shelfsync/shelfsync/internal/logger"
	"github.com/shelfsync/shelfsync/internal/store/docstore"
)

func seedDocs(t *testing.T, docs *docstore.MemoryStore, userIDs ...string) {
	t.Helper()
	for _, id := range userIDs {
		doc := domain.Document{
			UserID:    id,
			Items:     []domain.Item{{ID: "i1", Title: "t", CreatedAt: time.Now()}},
			UpdatedAt: time.Now(),
		}
		if err := docs.Put(context.Background(), doc); err != nil {
			t.Fatalf("failed to seed doc for %s: %v", id, err)
		}
	}
}

func TestSweepRemovesStaleDocuments(t *testing.T) {
	docs := docstore.NewMemoryStore()
	seedDocs(t, docs, "u1", "u2")

	// Everything written before the sweep counts as stale with a 1ns max age.
	time.Sleep(5 * time.Millisecond)

	j := NewJanitor(docs, logger.Nop(), time.Hour, time.Nanosecond)
	j.Sweep()

	if got := docs.Count(); got != 0 {
		t.Errorf("got %d documents after sweep, want 0", got)
	}
}

func TestSweepKeepsFreshDocuments(t *testing.T) {
	docs := docstore.NewMemoryStore()
	seedDocs(t, docs, "u1", "u2", "u3")

	j := NewJanitor(docs, logger.Nop(), time.Hour, time.Hour)
	j.Sweep()

	if got := docs.Count(); got != 3 {
		t.Errorf("got %d documents after sweep, want 3", got)
	}
}

func TestJanitorDefaultsMaxAge(t *testing.T) {
	j := NewJanitor(docstore.NewMemoryStore(), logger.Nop(), time.Hour, 0)
	if j.maxAge != DefaultJanitorMaxAge {
		t.Errorf("maxAge = %v, want default %v", j.maxAge, DefaultJanitorMaxAge)
	}
}

func TestJanitorStartStop(t *testing.T) {
	docs := docstore.NewMemoryStore()
	seedDocs(t, docs, "u1")

	j := NewJanitor(docs, logger.Nop(), time.Hour, time.Hour)
	if err := j.Start(context.Background()); err != nil {
		t.Fatalf("Start failed: %v", err)
	}
	j.Stop()

	// The initial sweep ran with a generous max age; nothing is pruned.
	if got := docs.Count(); got != 1 {
		t.Errorf("got %d documents, want 1", got)
	}
}
