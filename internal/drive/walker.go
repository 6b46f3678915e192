package drive

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"

	"golang.org/x/text/collate"

	"reelsync/internal/config"
	"reelsync/internal/logging"
	"reelsync/internal/services"
)

// pathSeparator joins folder names into the breadcrumb the classifier
// receives, e.g. "Technieken > Fase 2 > 2.1.3 Doorvragen".
const pathSeparator = " > "

// maxWalkDepth bounds recursion. Drive folder graphs are not guaranteed
// acyclic across shared drives, so the walker caps depth and tracks
// visited folder ids instead of trusting the hierarchy.
const maxWalkDepth = 32

// Walker performs a deterministic depth-first traversal of Drive folder
// trees and yields the media files in playback order.
type Walker struct {
	lister     Lister
	collator   *collate.Collator
	logger     *slog.Logger
	skipIDs    map[string]struct{}
	skipNames  map[string]struct{}
	extensions map[string]struct{}
	pathMemo   map[string]string
}

// NewWalker builds a walker over lister using the skip lists, media
// extensions, and sort locale from cfg. Skip names and extensions are
// expected in normalized (lower-cased) form.
func NewWalker(lister Lister, cfg config.Drive, logger *slog.Logger) *Walker {
	if logger == nil {
		logger = logging.NewNop()
	}
	w := &Walker{
		lister:     lister,
		collator:   newCollator(cfg.SortLocale),
		logger:     logger.With(logging.String(logging.FieldComponent, "walker")),
		skipIDs:    make(map[string]struct{}, len(cfg.SkipFolderIDs)),
		skipNames:  make(map[string]struct{}, len(cfg.SkipFolderNames)),
		extensions: make(map[string]struct{}, len(cfg.VideoExtensions)),
		pathMemo:   make(map[string]string),
	}
	for _, id := range cfg.SkipFolderIDs {
		w.skipIDs[id] = struct{}{}
	}
	for _, name := range cfg.SkipFolderNames {
		w.skipNames[strings.ToLower(strings.TrimSpace(name))] = struct{}{}
	}
	for _, ext := range cfg.VideoExtensions {
		w.extensions[strings.ToLower(ext)] = struct{}{}
	}
	return w
}

type walkRun struct {
	visited map[string]struct{}
	items   []Item
}

// Walk traverses each root subtree depth-first, emitting the media files
// of a folder before descending into its subfolders. Sibling folders and
// files are visited in collated name order, so the result order is the
// catalog playback order. Any listing failure aborts the walk; a partial
// traversal is never returned.
func (w *Walker) Walk(ctx context.Context, rootIDs []string) ([]Item, error) {
	run := &walkRun{visited: make(map[string]struct{})}
	for _, rootID := range rootIDs {
		root, err := w.lister.GetFolder(ctx, rootID)
		if err != nil {
			return nil, err
		}
		if w.skipFolder(root) {
			w.logger.Info("root folder is on the skip list, ignoring",
				logging.String(logging.FieldFolderID, root.ID),
				logging.String("folder_name", root.Name))
			continue
		}
		if err := w.walkFolder(ctx, run, root, root.Name, 0); err != nil {
			return nil, err
		}
	}
	return run.items, nil
}

func (w *Walker) walkFolder(ctx context.Context, run *walkRun, folder Folder, path string, depth int) error {
	if depth > maxWalkDepth {
		return services.Wrap(services.ErrStructural, "walk", "descend", fmt.Sprintf("folder %s exceeds depth limit %d", folder.ID, maxWalkDepth), nil)
	}
	if _, seen := run.visited[folder.ID]; seen {
		w.logger.Warn("folder reachable by more than one path, skipping repeat",
			logging.String(logging.FieldFolderID, folder.ID),
			logging.String(logging.FieldFolderPath, path))
		return nil
	}
	run.visited[folder.ID] = struct{}{}
	w.pathMemo[folder.ID] = path

	files, err := w.lister.ListFiles(ctx, folder.ID)
	if err != nil {
		return err
	}
	media := make([]Item, 0, len(files))
	for _, item := range files {
		if !w.isMedia(item) {
			continue
		}
		item.FolderID = folder.ID
		item.FolderName = folder.Name
		item.FolderPath = path
		media = append(media, item)
	}
	sortItems(w.collator, media)
	run.items = append(run.items, media...)

	subfolders, err := w.lister.ListFolders(ctx, folder.ID)
	if err != nil {
		return err
	}
	sortFolders(w.collator, subfolders)
	for _, sub := range subfolders {
		if w.skipFolder(sub) {
			w.logger.Debug("skipping folder subtree",
				logging.String(logging.FieldFolderID, sub.ID),
				logging.String("folder_name", sub.Name))
			continue
		}
		if err := w.walkFolder(ctx, run, sub, path+pathSeparator+sub.Name, depth+1); err != nil {
			return err
		}
	}
	return nil
}

func (w *Walker) skipFolder(folder Folder) bool {
	if _, ok := w.skipIDs[folder.ID]; ok {
		return true
	}
	_, ok := w.skipNames[strings.ToLower(strings.TrimSpace(folder.Name))]
	return ok
}

// isMedia reports whether a file belongs in the catalog, either by video
// MIME type or by filename extension for files Drive did not sniff.
func (w *Walker) isMedia(item Item) bool {
	if strings.HasPrefix(item.MimeType, "video/") {
		return true
	}
	_, ok := w.extensions[strings.ToLower(filepath.Ext(item.Name))]
	return ok
}

// FolderPath resolves the breadcrumb path for a folder id, climbing the
// parent chain as needed. Paths discovered during Walk are served from
// the memo without further API calls.
func (w *Walker) FolderPath(ctx context.Context, folderID string) (string, error) {
	if path, ok := w.pathMemo[folderID]; ok {
		return path, nil
	}
	var segments []string
	id := folderID
	for depth := 0; id != ""; depth++ {
		if depth > maxWalkDepth {
			return "", services.Wrap(services.ErrStructural, "walk", "folder_path", fmt.Sprintf("parent chain of %s exceeds depth limit %d", folderID, maxWalkDepth), nil)
		}
		if path, ok := w.pathMemo[id]; ok {
			segments = append([]string{path}, segments...)
			break
		}
		folder, err := w.lister.GetFolder(ctx, id)
		if err != nil {
			return "", err
		}
		segments = append([]string{folder.Name}, segments...)
		id = folder.ParentID
	}
	path := strings.Join(segments, pathSeparator)
	w.pathMemo[folderID] = path
	return path, nil
}
