package reconcile

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"

	"reelsync/internal/catalog"
	"reelsync/internal/drive"
	"reelsync/internal/logging"
)

// Reconciler aligns the catalog with the ordered item stream a Drive walk
// produced. Planning is pure; Apply performs the writes, so a dry run can
// show the full plan without touching the database.
type Reconciler struct {
	store        *catalog.Store
	logger       *slog.Logger
	copyPrefixes []string
}

// New builds a reconciler. copyPrefixes mark duplicate uploads by
// filename prefix; such files are neither inserted nor counted in the
// playback order.
func New(store *catalog.Store, copyPrefixes []string, logger *slog.Logger) *Reconciler {
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Reconciler{
		store:        store,
		logger:       logger.With(logging.String(logging.FieldComponent, "reconcile")),
		copyPrefixes: copyPrefixes,
	}
}

// Insert is a remote item that has no catalog row yet.
type Insert struct {
	Item  drive.Item
	Order int
}

// Reorder moves an existing row to a new playback position.
type Reorder struct {
	ID    int64
	Order int
}

// Refresh updates a row whose remote file changed since it was cataloged.
type Refresh struct {
	ID   int64
	Item drive.Item
}

// Plan is the full set of changes a reconciliation run would make.
// Applying the plan to the same catalog state is idempotent: a second
// plan computed afterwards is empty.
type Plan struct {
	Inserts       []Insert
	Reorders      []Reorder
	Refreshes     []Refresh
	Deletes       []int64
	Duplicates    []int64
	Unchanged     int
	SkippedCopies int
	KeptHidden    int
}

// Empty reports whether applying the plan would change nothing.
func (p *Plan) Empty() bool {
	return len(p.Inserts) == 0 && len(p.Reorders) == 0 && len(p.Refreshes) == 0 &&
		len(p.Deletes) == 0 && len(p.Duplicates) == 0
}

// Summary counts the writes an Apply performed.
type Summary struct {
	Added         int
	OrdersUpdated int
	Refreshed     int
	Deleted       int
	Unchanged     int
	SkippedCopies int
	Failed        int
}

// Plan computes the changes needed to make the catalog mirror the remote
// item stream. An item's playback position is its 1-based index in the
// walker's output; copy-marked files keep their slot but are never
// inserted or reordered, so a gap remains where each copy sits.
func (r *Reconciler) Plan(ctx context.Context, remote []drive.Item) (*Plan, error) {
	existing, err := r.store.ListActive(ctx)
	if err != nil {
		return nil, err
	}

	plan := &Plan{}
	survivors := r.collapseDuplicates(existing, plan)

	seen := make(map[string]struct{}, len(remote))
	for i, item := range remote {
		order := i + 1
		if r.isCopy(item.Name) {
			plan.SkippedCopies++
			continue
		}
		if _, dup := seen[item.ID]; dup {
			continue
		}
		seen[item.ID] = struct{}{}

		row, ok := survivors[item.ID]
		if !ok {
			plan.Inserts = append(plan.Inserts, Insert{Item: item, Order: order})
			continue
		}
		changed := false
		if row.PlaybackOrder != order {
			plan.Reorders = append(plan.Reorders, Reorder{ID: row.ID, Order: order})
			changed = true
		}
		if row.ModifiedAt != nil && item.ModifiedAt.After(*row.ModifiedAt) {
			plan.Refreshes = append(plan.Refreshes, Refresh{ID: row.ID, Item: item})
			changed = true
		}
		if !changed {
			plan.Unchanged++
		}
	}

	for externalID, row := range survivors {
		if _, present := seen[externalID]; present {
			continue
		}
		if row.IsHidden {
			plan.KeptHidden++
			continue
		}
		plan.Deletes = append(plan.Deletes, row.ID)
	}
	return plan, nil
}

// collapseDuplicates picks one surviving row per external id. A row with
// a populated playback reference wins; otherwise the oldest row does.
// The losers are queued for soft deletion unless hidden.
func (r *Reconciler) collapseDuplicates(existing []*catalog.Item, plan *Plan) map[string]*catalog.Item {
	survivors := make(map[string]*catalog.Item, len(existing))
	for _, row := range existing {
		current, ok := survivors[row.ExternalID]
		if !ok {
			survivors[row.ExternalID] = row
			continue
		}
		loser := row
		if row.PlaybackRef != "" && current.PlaybackRef == "" {
			survivors[row.ExternalID] = row
			loser = current
		}
		if loser.IsHidden {
			plan.KeptHidden++
			continue
		}
		plan.Duplicates = append(plan.Duplicates, loser.ID)
	}
	return survivors
}

// Apply executes a plan. Individual row failures are logged and counted
// but do not abort the run.
func (r *Reconciler) Apply(ctx context.Context, plan *Plan) (Summary, error) {
	summary := Summary{
		Unchanged:     plan.Unchanged,
		SkippedCopies: plan.SkippedCopies,
	}

	for _, insert := range plan.Inserts {
		item := insert.Item
		row := &catalog.Item{
			ExternalID:    item.ID,
			FolderID:      item.FolderID,
			FolderPath:    item.FolderPath,
			Title:         titleFromName(item.Name),
			FileName:      item.Name,
			MimeType:      item.MimeType,
			SizeBytes:     item.SizeBytes,
			Status:        catalog.StatusPending,
			PlaybackOrder: insert.Order,
		}
		if !item.ModifiedAt.IsZero() {
			modified := item.ModifiedAt
			row.ModifiedAt = &modified
		}
		if _, err := r.store.Insert(ctx, row); err != nil {
			summary.Failed++
			r.logger.Error("insert failed",
				logging.String(logging.FieldExternalID, item.ID),
				logging.String("file_name", item.Name),
				logging.Error(err))
			continue
		}
		summary.Added++
	}

	for _, reorder := range plan.Reorders {
		if err := r.store.UpdatePlaybackOrder(ctx, reorder.ID, reorder.Order); err != nil {
			summary.Failed++
			r.logger.Error("reorder failed",
				logging.Int64("item_id", reorder.ID),
				logging.Error(err))
			continue
		}
		summary.OrdersUpdated++
	}

	for _, refresh := range plan.Refreshes {
		if err := r.store.UpdateRemoteMetadata(ctx, refresh.ID, refresh.Item.SizeBytes, refresh.Item.ModifiedAt, true); err != nil {
			summary.Failed++
			r.logger.Error("metadata refresh failed",
				logging.Int64("item_id", refresh.ID),
				logging.Error(err))
			continue
		}
		summary.Refreshed++
	}

	for _, id := range plan.Duplicates {
		r.delete(ctx, id, &summary)
	}
	for _, id := range plan.Deletes {
		r.delete(ctx, id, &summary)
	}

	return summary, nil
}

func (r *Reconciler) delete(ctx context.Context, id int64, summary *Summary) {
	if err := r.store.MarkDeleted(ctx, id); err != nil {
		summary.Failed++
		r.logger.Error("delete failed",
			logging.Int64("item_id", id),
			logging.Error(err))
		return
	}
	summary.Deleted++
}

// Run plans and immediately applies in one step.
func (r *Reconciler) Run(ctx context.Context, remote []drive.Item) (Summary, error) {
	plan, err := r.Plan(ctx, remote)
	if err != nil {
		return Summary{}, err
	}
	return r.Apply(ctx, plan)
}

func (r *Reconciler) isCopy(name string) bool {
	for _, prefix := range r.copyPrefixes {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

func titleFromName(name string) string {
	title := strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSpace(title)
}
