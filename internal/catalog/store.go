package catalog

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"reelsync/internal/config"
	"reelsync/internal/services"
)

// Store manages catalog persistence backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the catalog database and applies
// migrations.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}

	dbPath := cfg.Paths.Database
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: dbPath}
	if err := store.applyMigrations(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}

	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Insert adds a new catalog row and returns it with the assigned id.
func (s *Store) Insert(ctx context.Context, item *Item) (*Item, error) {
	timestamp := time.Now().UTC().Format(time.RFC3339Nano)
	status := item.Status
	if status == "" {
		status = StatusPending
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO catalog_items (
            external_id, folder_id, folder_path, title, file_name, mime_type,
            size_bytes, modified_at, status, playback_order, playback_ref,
            is_hidden, manual_technique_id, ai_technique_id, ai_confidence,
            suggested_technique_id, suggested_confidence, suggestion_source,
            phase, created_at, updated_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ExternalID,
		nullableString(item.FolderID),
		nullableString(item.FolderPath),
		item.Title,
		item.FileName,
		nullableString(item.MimeType),
		item.SizeBytes,
		nullableTime(item.ModifiedAt),
		status,
		item.PlaybackOrder,
		nullableString(item.PlaybackRef),
		boolToInt(item.IsHidden),
		nullableString(item.ManualTechniqueID),
		nullableString(item.AITechniqueID),
		nullableFloat(item.AIConfidence),
		nullableString(item.SuggestedTechniqueID),
		nullableFloat(item.SuggestedConfidence),
		nullableString(item.SuggestionSource),
		nullableString(item.Phase),
		timestamp,
		timestamp,
	)
	if err != nil {
		return nil, fmt.Errorf("insert catalog item: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	return s.GetByID(ctx, id)
}

// GetByID fetches a catalog row by identifier.
func (s *Store) GetByID(ctx context.Context, id int64) (*Item, error) {
	row := s.db.QueryRowContext(ctx, "SELECT "+itemColumns+" FROM catalog_items WHERE id = ?", id)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "get", fmt.Sprintf("catalog item %d not found", id), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get catalog item: %w", err)
	}
	return item, nil
}

// GetByExternalID returns the active row for a Drive file id. Among
// historical duplicates the row carrying a playback reference wins, then
// the oldest.
func (s *Store) GetByExternalID(ctx context.Context, externalID string) (*Item, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+itemColumns+` FROM catalog_items
         WHERE external_id = ? AND deleted_at IS NULL
         ORDER BY (playback_ref IS NOT NULL AND playback_ref != '') DESC, id
         LIMIT 1`, externalID)
	item, err := scanItem(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, services.Wrap(services.ErrNotFound, "catalog", "get", fmt.Sprintf("no active row for external id %s", externalID), nil)
	}
	if err != nil {
		return nil, fmt.Errorf("get by external id: %w", err)
	}
	return item, nil
}

// ListActive returns every non-deleted row ordered by playback order.
// Historical duplicates sharing an external id are all returned; callers
// decide which survives.
func (s *Store) ListActive(ctx context.Context) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+itemColumns+" FROM catalog_items WHERE deleted_at IS NULL ORDER BY playback_order, id")
	if err != nil {
		return nil, fmt.Errorf("list active items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", err)
	}
	return items, nil
}

// ListUnclassified returns active rows with no manual technique and no
// accepted suggestion, the backfill work set.
func (s *Store) ListUnclassified(ctx context.Context) ([]*Item, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+itemColumns+` FROM catalog_items
         WHERE deleted_at IS NULL
           AND (manual_technique_id IS NULL OR manual_technique_id = '')
         ORDER BY playback_order, id`)
	if err != nil {
		return nil, fmt.Errorf("list unclassified items: %w", err)
	}
	defer rows.Close()

	var items []*Item
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("scan catalog item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate catalog items: %w", err)
	}
	return items, nil
}

// UpdatePlaybackOrder sets the playback position of a row.
func (s *Store) UpdatePlaybackOrder(ctx context.Context, id int64, order int) error {
	return s.touchUpdate(ctx, "update playback order",
		"UPDATE catalog_items SET playback_order = ?, updated_at = ? WHERE id = ?",
		order, now(), id)
}

// UpdateClassification records a fused technique suggestion on a row.
// Rows with a manual technique are left untouched.
func (s *Store) UpdateClassification(ctx context.Context, id int64, techniqueID string, confidence float64, source, phase string) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE catalog_items
         SET suggested_technique_id = ?, suggested_confidence = ?,
             suggestion_source = ?, phase = ?, updated_at = ?
         WHERE id = ? AND (manual_technique_id IS NULL OR manual_technique_id = '')`,
		nullableString(techniqueID), confidence, nullableString(source), nullableString(phase), now(), id)
	if err != nil {
		return fmt.Errorf("update classification: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "catalog", "classify", fmt.Sprintf("catalog item %d missing or manually classified", id), nil)
	}
	return nil
}

// UpdateRemoteMetadata refreshes size and modification time from Drive.
// When resetStatus is set the row returns to pending for reprocessing.
func (s *Store) UpdateRemoteMetadata(ctx context.Context, id int64, sizeBytes int64, modifiedAt time.Time, resetStatus bool) error {
	if resetStatus {
		return s.touchUpdate(ctx, "update remote metadata",
			"UPDATE catalog_items SET size_bytes = ?, modified_at = ?, status = ?, updated_at = ? WHERE id = ?",
			sizeBytes, modifiedAt.UTC().Format(time.RFC3339Nano), StatusPending, now(), id)
	}
	return s.touchUpdate(ctx, "update remote metadata",
		"UPDATE catalog_items SET size_bytes = ?, modified_at = ?, updated_at = ? WHERE id = ?",
		sizeBytes, modifiedAt.UTC().Format(time.RFC3339Nano), now(), id)
}

// UpdateStatus transitions a row's processing status.
func (s *Store) UpdateStatus(ctx context.Context, id int64, status Status) error {
	return s.touchUpdate(ctx, "update status",
		"UPDATE catalog_items SET status = ?, updated_at = ? WHERE id = ?",
		status, now(), id)
}

// MarkDeleted soft-deletes a row. Hidden rows are never deleted.
func (s *Store) MarkDeleted(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE catalog_items SET status = ?, deleted_at = ?, updated_at = ? WHERE id = ? AND is_hidden = 0 AND deleted_at IS NULL",
		StatusDeleted, now(), now(), id)
	if err != nil {
		return fmt.Errorf("mark deleted: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "catalog", "delete", fmt.Sprintf("catalog item %d missing, hidden, or already deleted", id), nil)
	}
	return nil
}

// CountByStatus tallies active rows per status for operator summaries.
func (s *Store) CountByStatus(ctx context.Context) (map[Status]int, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT status, COUNT(1) FROM catalog_items WHERE deleted_at IS NULL GROUP BY status")
	if err != nil {
		return nil, fmt.Errorf("count by status: %w", err)
	}
	defer rows.Close()

	counts := make(map[Status]int)
	for rows.Next() {
		var status Status
		var count int
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("scan status count: %w", err)
		}
		counts[status] = count
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate status counts: %w", err)
	}
	return counts, nil
}

func (s *Store) touchUpdate(ctx context.Context, label, query string, args ...any) error {
	res, err := s.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("%s: %w", label, err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return services.Wrap(services.ErrNotFound, "catalog", "update", label+": no matching row", nil)
	}
	return nil
}

func now() string {
	return time.Now().UTC().Format(time.RFC3339Nano)
}
