package testsupport

import (
	"context"
	"testing"
	"time"

	"reelsync/internal/catalog"
	"reelsync/internal/config"
)

// MustOpenStore opens a catalog.Store for tests and registers cleanup.
func MustOpenStore(t testing.TB, cfg *config.Config) *catalog.Store {
	t.Helper()

	store, err := catalog.Open(cfg)
	if err != nil {
		t.Fatalf("catalog.Open: %v", err)
	}
	t.Cleanup(func() {
		store.Close()
	})
	return store
}

// NewItem inserts a pending catalog row for tests using the provided store.
func NewItem(t testing.TB, store *catalog.Store, externalID, fileName string) *catalog.Item {
	t.Helper()

	modified := time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC)
	item, err := store.Insert(context.Background(), &catalog.Item{
		ExternalID: externalID,
		Title:      fileName,
		FileName:   fileName,
		MimeType:   "video/mp4",
		SizeBytes:  1024,
		ModifiedAt: &modified,
	})
	if err != nil {
		t.Fatalf("store.Insert: %v", err)
	}
	return item
}
