package reconcile_test

import (
	"context"
	"testing"
	"time"

	"reelsync/internal/catalog"
	"reelsync/internal/drive"
	"reelsync/internal/reconcile"
	"reelsync/internal/testsupport"
)

func remoteItem(id, name string) drive.Item {
	return drive.Item{
		ID:         id,
		Name:       name,
		MimeType:   "video/mp4",
		SizeBytes:  2048,
		ModifiedAt: time.Date(2026, 2, 1, 10, 0, 0, 0, time.UTC),
		FolderID:   "folder-1",
		FolderName: "2.1 Contact maken",
		FolderPath: "Technieken > Fase 2 > 2.1 Contact maken",
	}
}

func newReconciler(t *testing.T) (*reconcile.Reconciler, *catalog.Store) {
	t.Helper()
	cfg := testsupport.NewConfig(t)
	store := testsupport.MustOpenStore(t, cfg)
	return reconcile.New(store, cfg.Drive.CopyPrefixes, nil), store
}

func TestRunInsertsFreshCatalog(t *testing.T) {
	rec, store := newReconciler(t)
	ctx := context.Background()

	remote := []drive.Item{
		remoteItem("a", "1 intro.mp4"),
		remoteItem("b", "2 verdieping.mp4"),
	}
	summary, err := rec.Run(ctx, remote)
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Added != 2 || summary.Failed != 0 {
		t.Fatalf("summary = %+v", summary)
	}

	items, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("got %d rows", len(items))
	}
	if items[0].ExternalID != "a" || items[0].PlaybackOrder != 1 {
		t.Fatalf("first row: %+v", items[0])
	}
	if items[1].ExternalID != "b" || items[1].PlaybackOrder != 2 {
		t.Fatalf("second row: %+v", items[1])
	}
	if items[0].Title != "1 intro" {
		t.Fatalf("title = %q, want extension stripped", items[0].Title)
	}
	if items[0].Status != catalog.StatusPending {
		t.Fatalf("status = %q", items[0].Status)
	}
	if items[0].FolderPath != "Technieken > Fase 2 > 2.1 Contact maken" {
		t.Fatalf("folder path = %q", items[0].FolderPath)
	}
}

func TestRunIsIdempotent(t *testing.T) {
	rec, _ := newReconciler(t)
	ctx := context.Background()

	remote := []drive.Item{
		remoteItem("a", "1 intro.mp4"),
		remoteItem("b", "2 verdieping.mp4"),
	}
	if _, err := rec.Run(ctx, remote); err != nil {
		t.Fatalf("first run: %v", err)
	}

	plan, err := rec.Plan(ctx, remote)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if !plan.Empty() {
		t.Fatalf("second plan not empty: %+v", plan)
	}
	if plan.Unchanged != 2 {
		t.Fatalf("unchanged = %d", plan.Unchanged)
	}
}

func TestRunReordersMovedItems(t *testing.T) {
	rec, store := newReconciler(t)
	ctx := context.Background()

	if _, err := rec.Run(ctx, []drive.Item{
		remoteItem("a", "1 intro.mp4"),
		remoteItem("b", "2 verdieping.mp4"),
	}); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	summary, err := rec.Run(ctx, []drive.Item{
		remoteItem("b", "2 verdieping.mp4"),
		remoteItem("a", "1 intro.mp4"),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.OrdersUpdated != 2 {
		t.Fatalf("orders updated = %d", summary.OrdersUpdated)
	}

	items, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if items[0].ExternalID != "b" || items[1].ExternalID != "a" {
		t.Fatalf("order after move: %s, %s", items[0].ExternalID, items[1].ExternalID)
	}
}

func TestRunSkipsCopyPrefixedFiles(t *testing.T) {
	rec, store := newReconciler(t)
	ctx := context.Background()

	summary, err := rec.Run(ctx, []drive.Item{
		remoteItem("a", "1 intro.mp4"),
		remoteItem("copy", "Kopie van 1 intro.mp4"),
		remoteItem("b", "2 verdieping.mp4"),
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Added != 2 || summary.SkippedCopies != 1 {
		t.Fatalf("summary = %+v", summary)
	}

	items, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	// The copy keeps its slot in the traversal order, so the following
	// item lands at position 3 and a gap remains at 2.
	if items[0].ExternalID != "a" || items[0].PlaybackOrder != 1 {
		t.Fatalf("first row: %+v", items[0])
	}
	if items[1].ExternalID != "b" || items[1].PlaybackOrder != 3 {
		t.Fatalf("second row: %+v", items[1])
	}

	// Re-running over the same stream leaves the gapped order alone.
	plan, err := rec.Plan(ctx, []drive.Item{
		remoteItem("a", "1 intro.mp4"),
		remoteItem("copy", "Kopie van 1 intro.mp4"),
		remoteItem("b", "2 verdieping.mp4"),
	})
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if !plan.Empty() {
		t.Fatalf("second plan not empty: %+v", plan)
	}
}

func TestRunSoftDeletesAbsentRows(t *testing.T) {
	rec, store := newReconciler(t)
	ctx := context.Background()

	if _, err := rec.Run(ctx, []drive.Item{
		remoteItem("a", "1 intro.mp4"),
		remoteItem("b", "2 verdieping.mp4"),
	}); err != nil {
		t.Fatalf("seed run: %v", err)
	}

	summary, err := rec.Run(ctx, []drive.Item{remoteItem("a", "1 intro.mp4")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Deleted != 1 {
		t.Fatalf("deleted = %d", summary.Deleted)
	}

	items, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(items) != 1 || items[0].ExternalID != "a" {
		t.Fatalf("surviving rows: %+v", items)
	}
}

func TestRunKeepsHiddenRowsOnRemoval(t *testing.T) {
	rec, store := newReconciler(t)
	ctx := context.Background()

	if _, err := store.Insert(ctx, &catalog.Item{
		ExternalID: "hidden-1",
		Title:      "verborgen",
		FileName:   "verborgen.mp4",
		IsHidden:   true,
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}

	plan, err := rec.Plan(ctx, nil)
	if err != nil {
		t.Fatalf("Plan: %v", err)
	}
	if len(plan.Deletes) != 0 {
		t.Fatalf("hidden row planned for deletion: %+v", plan)
	}
	if plan.KeptHidden != 1 {
		t.Fatalf("kept hidden = %d", plan.KeptHidden)
	}
}

func TestRunCollapsesDuplicateRows(t *testing.T) {
	rec, store := newReconciler(t)
	ctx := context.Background()

	// Two historical rows for the same Drive file; the one carrying a
	// playback reference must survive.
	if _, err := store.Insert(ctx, &catalog.Item{
		ExternalID: "a",
		Title:      "intro",
		FileName:   "1 intro.mp4",
	}); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	keeper, err := store.Insert(ctx, &catalog.Item{
		ExternalID:  "a",
		Title:       "intro",
		FileName:    "1 intro.mp4",
		PlaybackRef: "playback-42",
	})
	if err != nil {
		t.Fatalf("Insert: %v", err)
	}

	summary, err := rec.Run(ctx, []drive.Item{remoteItem("a", "1 intro.mp4")})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Deleted != 1 {
		t.Fatalf("deleted = %d", summary.Deleted)
	}

	items, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if len(items) != 1 || items[0].ID != keeper.ID {
		t.Fatalf("survivor: %+v", items)
	}
	if items[0].PlaybackRef != "playback-42" {
		t.Fatalf("playback ref lost: %+v", items[0])
	}
}

func TestRunRefreshesChangedRemoteFiles(t *testing.T) {
	rec, store := newReconciler(t)
	ctx := context.Background()

	if _, err := rec.Run(ctx, []drive.Item{remoteItem("a", "1 intro.mp4")}); err != nil {
		t.Fatalf("seed run: %v", err)
	}
	seeded, err := store.ListActive(ctx)
	if err != nil {
		t.Fatalf("ListActive: %v", err)
	}
	if err := store.UpdateStatus(ctx, seeded[0].ID, catalog.StatusCompleted); err != nil {
		t.Fatalf("UpdateStatus: %v", err)
	}

	updated := remoteItem("a", "1 intro.mp4")
	updated.SizeBytes = 9999
	updated.ModifiedAt = updated.ModifiedAt.Add(48 * time.Hour)

	summary, err := rec.Run(ctx, []drive.Item{updated})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}
	if summary.Refreshed != 1 {
		t.Fatalf("refreshed = %d", summary.Refreshed)
	}

	got, err := store.GetByID(ctx, seeded[0].ID)
	if err != nil {
		t.Fatalf("GetByID: %v", err)
	}
	if got.SizeBytes != 9999 {
		t.Fatalf("size = %d", got.SizeBytes)
	}
	if got.Status != catalog.StatusPending {
		t.Fatalf("status = %q, want pending for reprocessing", got.Status)
	}
}

func TestApplyCountsRowFailures(t *testing.T) {
	rec, _ := newReconciler(t)

	plan := &reconcile.Plan{Deletes: []int64{12345}}
	summary, err := rec.Apply(context.Background(), plan)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	if summary.Failed != 1 || summary.Deleted != 0 {
		t.Fatalf("summary = %+v", summary)
	}
}
