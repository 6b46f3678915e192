package drive

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	drivev3 "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"reelsync/internal/config"
	"reelsync/internal/logging"
	"reelsync/internal/services"
)

const listFields = "nextPageToken, files(id, name, mimeType, size, modifiedTime, parents)"

// Client wraps the Drive v3 API with paginated listing, bounded retries,
// and per-request timeouts. It implements Lister.
type Client struct {
	svc        *drivev3.Service
	logger     *slog.Logger
	pageSize   int64
	timeout    time.Duration
	maxRetries int
}

// NewClient builds an authenticated read-only Drive client from the
// configured OAuth credentials and token files.
func NewClient(ctx context.Context, cfg config.Drive, logger *slog.Logger) (*Client, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	source, err := tokenSource(ctx, cfg.CredentialsFile, cfg.TokenFile)
	if err != nil {
		return nil, err
	}
	svc, err := drivev3.NewService(ctx, option.WithTokenSource(source))
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "new_service", "create drive service", err)
	}
	return &Client{
		svc:        svc,
		logger:     logger.With(logging.String(logging.FieldComponent, "drive")),
		pageSize:   int64(cfg.PageSize),
		timeout:    time.Duration(cfg.RequestTimeout) * time.Second,
		maxRetries: cfg.MaxRetries,
	}, nil
}

// tokenSource loads the OAuth client configuration and the stored token,
// and returns a source that refreshes the token as it expires.
func tokenSource(ctx context.Context, credentialsFile, tokenFile string) (oauth2.TokenSource, error) {
	credData, err := os.ReadFile(credentialsFile)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "credentials", fmt.Sprintf("read credentials file %s", credentialsFile), err)
	}
	oauthConfig, err := google.ConfigFromJSON(credData, drivev3.DriveReadonlyScope)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "credentials", "parse oauth client configuration", err)
	}
	tokenData, err := os.ReadFile(tokenFile)
	if err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "token", fmt.Sprintf("read token file %s", tokenFile), err)
	}
	var token oauth2.Token
	if err := json.Unmarshal(tokenData, &token); err != nil {
		return nil, services.Wrap(services.ErrConfiguration, "drive", "token", "parse stored oauth token", err)
	}
	return oauthConfig.TokenSource(ctx, &token), nil
}

// ListFolders returns every direct child folder of parentID, draining all
// result pages before returning.
func (c *Client) ListFolders(ctx context.Context, parentID string) ([]Folder, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType = '%s' and trashed = false", parentID, folderMimeType)
	files, err := c.listAll(ctx, "list_folders", query)
	if err != nil {
		return nil, err
	}
	folders := make([]Folder, 0, len(files))
	for _, f := range files {
		if f.Id == "" || f.Name == "" {
			return nil, services.Wrap(services.ErrStructural, "drive", "list_folders", fmt.Sprintf("folder listing under %s returned entry without id or name", parentID), nil)
		}
		folders = append(folders, Folder{ID: f.Id, Name: f.Name, ParentID: parentID})
	}
	return folders, nil
}

// ListFiles returns every direct non-folder child of parentID. Folder
// context fields are left for the walker to fill in.
func (c *Client) ListFiles(ctx context.Context, parentID string) ([]Item, error) {
	query := fmt.Sprintf("'%s' in parents and mimeType != '%s' and trashed = false", parentID, folderMimeType)
	files, err := c.listAll(ctx, "list_files", query)
	if err != nil {
		return nil, err
	}
	items := make([]Item, 0, len(files))
	for _, f := range files {
		if f.Id == "" || f.Name == "" {
			return nil, services.Wrap(services.ErrStructural, "drive", "list_files", fmt.Sprintf("file listing under %s returned entry without id or name", parentID), nil)
		}
		item := Item{
			ID:        f.Id,
			Name:      f.Name,
			MimeType:  f.MimeType,
			SizeBytes: f.Size,
			FolderID:  parentID,
		}
		if f.ModifiedTime != "" {
			modified, err := time.Parse(time.RFC3339, f.ModifiedTime)
			if err != nil {
				return nil, services.Wrap(services.ErrStructural, "drive", "list_files", fmt.Sprintf("file %s has malformed modifiedTime %q", f.Id, f.ModifiedTime), err)
			}
			item.ModifiedAt = modified
		}
		items = append(items, item)
	}
	return items, nil
}

// GetFolder fetches a single folder by id.
func (c *Client) GetFolder(ctx context.Context, folderID string) (Folder, error) {
	var file *drivev3.File
	err := c.withRetry(ctx, "get_folder", func(ctx context.Context) error {
		var callErr error
		file, callErr = c.svc.Files.Get(folderID).
			Fields("id, name, mimeType, parents").
			Context(ctx).Do()
		return classifyError("get_folder", callErr)
	})
	if err != nil {
		return Folder{}, err
	}
	if file.MimeType != folderMimeType {
		return Folder{}, services.Wrap(services.ErrStructural, "drive", "get_folder", fmt.Sprintf("%s is not a folder (mimeType %s)", folderID, file.MimeType), nil)
	}
	folder := Folder{ID: file.Id, Name: file.Name}
	if len(file.Parents) > 0 {
		folder.ParentID = file.Parents[0]
	}
	return folder, nil
}

func (c *Client) listAll(ctx context.Context, op, query string) ([]*drivev3.File, error) {
	var all []*drivev3.File
	pageToken := ""
	for {
		var page *drivev3.FileList
		err := c.withRetry(ctx, op, func(ctx context.Context) error {
			call := c.svc.Files.List().
				Q(query).
				Fields(listFields).
				PageSize(c.pageSize).
				Context(ctx)
			if pageToken != "" {
				call = call.PageToken(pageToken)
			}
			var callErr error
			page, callErr = call.Do()
			return classifyError(op, callErr)
		})
		if err != nil {
			return nil, err
		}
		all = append(all, page.Files...)
		pageToken = page.NextPageToken
		if pageToken == "" {
			return all, nil
		}
	}
}

// withRetry runs fn under the per-request timeout and retries transient
// failures with doubling backoff, up to maxRetries additional attempts.
func (c *Client) withRetry(ctx context.Context, op string, fn func(ctx context.Context) error) error {
	backoff := 500 * time.Millisecond
	for attempt := 0; ; attempt++ {
		callCtx, cancel := context.WithTimeout(ctx, c.timeout)
		err := fn(callCtx)
		cancel()
		if err == nil {
			return nil
		}
		if attempt >= c.maxRetries || !services.IsRetryable(err) {
			return err
		}
		c.logger.Warn("retrying drive request",
			logging.String("operation", op),
			logging.Int("attempt", attempt+1),
			logging.Duration("backoff", backoff),
			logging.Error(err))
		select {
		case <-time.After(backoff):
		case <-ctx.Done():
			return services.Wrap(services.ErrTimeout, "drive", op, "request cancelled during backoff", ctx.Err())
		}
		if backoff < 8*time.Second {
			backoff *= 2
		}
	}
}

// classifyError maps Drive API failures onto the service error taxonomy so
// the retry loop and callers can distinguish transient from fatal faults.
func classifyError(op string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	// The deadline error itself is not wrapped: IsRetryable treats an
	// expired context as fatal, but a blown per-request timeout should
	// still be retried.
	if errors.Is(err, context.DeadlineExceeded) {
		return services.Wrap(services.ErrTimeout, "drive", op, "drive request timed out", nil)
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		switch {
		case apiErr.Code == 429 || apiErr.Code >= 500:
			return services.Wrap(services.ErrTransient, "drive", op, fmt.Sprintf("drive responded %d", apiErr.Code), err)
		case apiErr.Code == 401 || apiErr.Code == 403:
			return services.Wrap(services.ErrConfiguration, "drive", op, "drive rejected credentials", err)
		case apiErr.Code == 404:
			return services.Wrap(services.ErrNotFound, "drive", op, "drive object not found", err)
		default:
			return services.Wrap(services.ErrStructural, "drive", op, fmt.Sprintf("drive responded %d", apiErr.Code), err)
		}
	}
	// Network-level failures carry no API status; treat them as retryable.
	return services.Wrap(services.ErrTransient, "drive", op, "drive request failed", err)
}
