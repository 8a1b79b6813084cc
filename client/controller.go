package client

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"
)

// Controller wires the three resource stores, the selection set and
// the view filter together, and maps user intents to backend calls
// followed by targeted refreshes. Write failures are returned to the
// caller for display; the stores keep their last-known-good contents
// and nothing is retried.
type Controller struct {
	client    *Client
	pdfs      *Store[*PDF]
	folders   *FolderStore
	tags      *Store[*Tag]
	selection *SelectionSet
	logger    *slog.Logger

	mu     sync.Mutex
	filter Filter
}

// NewController creates a controller around a client. The PDF store
// fetches with the controller's current folder, tag and search
// filter, so a refresh always reflects the active view.
func NewController(c *Client, logger *slog.Logger) *Controller {
	ctrl := &Controller{
		client:    c,
		folders:   NewFolderStore(c),
		selection: NewSelectionSet(),
		logger:    logger,
	}
	ctrl.pdfs = NewStore(func(ctx context.Context) ([]*PDF, error) {
		return c.ListPDFs(ctx, &ListPDFsOptions{
			Folder: ctrl.Filter().Folder,
			Tag:    ctrl.Filter().Tag,
			Search: ctrl.Filter().Search,
		})
	})
	ctrl.tags = NewStore(func(ctx context.Context) ([]*Tag, error) {
		return c.ListTags(ctx)
	})
	return ctrl
}

// PDFs returns the PDF store.
func (ctrl *Controller) PDFs() *Store[*PDF] { return ctrl.pdfs }

// Folders returns the folder store.
func (ctrl *Controller) Folders() *FolderStore { return ctrl.folders }

// Tags returns the tag store.
func (ctrl *Controller) Tags() *Store[*Tag] { return ctrl.tags }

// Selection returns the selection set.
func (ctrl *Controller) Selection() *SelectionSet { return ctrl.selection }

// Filter returns the active view filter.
func (ctrl *Controller) Filter() Filter {
	ctrl.mu.Lock()
	defer ctrl.mu.Unlock()
	return ctrl.filter
}

// SetFolderFilter changes the folder scope. Changing scope always
// clears the selection so a batch action cannot target hidden PDFs.
func (ctrl *Controller) SetFolderFilter(ctx context.Context, f FolderFilter) error {
	ctrl.mu.Lock()
	ctrl.filter.Folder = f
	ctrl.mu.Unlock()
	ctrl.selection.Clear()
	return ctrl.pdfs.Refresh(ctx)
}

// SetTagFilter changes the tag filter and clears the selection.
func (ctrl *Controller) SetTagFilter(ctx context.Context, tag string) error {
	ctrl.mu.Lock()
	ctrl.filter.Tag = tag
	ctrl.mu.Unlock()
	ctrl.selection.Clear()
	return ctrl.pdfs.Refresh(ctx)
}

// SetSearch changes the search query. Search narrows the visible set
// without invalidating the selection.
func (ctrl *Controller) SetSearch(ctx context.Context, query string) error {
	ctrl.mu.Lock()
	ctrl.filter.Search = query
	ctrl.mu.Unlock()
	return ctrl.pdfs.Refresh(ctx)
}

// Visible returns the PDFs passing the active filter. The server
// already scopes the fetched list; this re-applies the same predicate
// locally so the view stays correct between a filter change and the
// refresh that follows it.
func (ctrl *Controller) Visible() []*PDF {
	return ctrl.Filter().Visible(ctrl.pdfs.Items())
}

// Load performs the initial fetch of all three stores.
func (ctrl *Controller) Load(ctx context.Context) error {
	if err := ctrl.pdfs.Fetch(ctx); err != nil {
		return err
	}
	if err := ctrl.folders.Fetch(ctx); err != nil {
		return err
	}
	return ctrl.tags.Fetch(ctx)
}

// Upload sends a file with optional tags and folder assignment, then
// refreshes all three stores: the new PDF, the folder count it lands
// in, and any tag names it introduced.
func (ctrl *Controller) Upload(ctx context.Context, filename string, content io.Reader, tags []string, folderID *int64) (*PDF, error) {
	pdf, err := ctrl.client.UploadPDF(ctx, &UploadPDFRequest{
		Filename: filename,
		Content:  content,
		Tags:     dedupeTags(tags),
		FolderID: folderID,
	})
	if err != nil {
		return nil, err
	}
	ctrl.refresh(ctx, true, true, true)
	return pdf, nil
}

// MoveSelected moves every selected PDF into the target folder (nil =
// unfiled) in one request, then clears the selection and refreshes
// PDFs and folder counts.
func (ctrl *Controller) MoveSelected(ctx context.Context, folderID *int64) error {
	ids := ctrl.selection.IDs()
	if len(ids) == 0 {
		return fmt.Errorf("no PDFs selected")
	}
	if err := ctrl.client.MovePDFs(ctx, ids, folderID); err != nil {
		return err
	}
	ctrl.selection.Clear()
	ctrl.refresh(ctx, true, true, false)
	return nil
}

// Delete removes a single PDF and refreshes all three stores.
func (ctrl *Controller) Delete(ctx context.Context, id int64) error {
	if err := ctrl.client.DeletePDF(ctx, id); err != nil {
		return err
	}
	ctrl.selection.Update(id, false)
	ctrl.refresh(ctx, true, true, true)
	return nil
}

// DeleteSelected deletes every selected PDF as independent concurrent
// requests. There is no atomicity: some deletes can succeed while
// others fail, and nothing is rolled back. The first error is
// returned after all requests finish, the refresh then reconciles the
// stores with whatever actually happened server-side.
func (ctrl *Controller) DeleteSelected(ctx context.Context) error {
	ids := ctrl.selection.IDs()
	if len(ids) == 0 {
		return fmt.Errorf("no PDFs selected")
	}

	g, gctx := errgroup.WithContext(ctx)
	for _, id := range ids {
		id := id
		g.Go(func() error {
			return ctrl.client.DeletePDF(gctx, id)
		})
	}
	err := g.Wait()

	ctrl.selection.Clear()
	ctrl.refresh(ctx, true, true, true)
	return err
}

// Rename changes a PDF's filename and refreshes the PDF list so the
// displayed name matches what the server stored.
func (ctrl *Controller) Rename(ctx context.Context, id int64, filename string) (*PDF, error) {
	pdf, err := ctrl.client.RenamePDF(ctx, id, filename)
	if err != nil {
		return nil, err
	}
	ctrl.refresh(ctx, true, false, false)
	return pdf, nil
}

// Retag replaces a PDF's full tag list. Add and remove actions in the
// UI compute the new complete list and submit it through here; the
// list is deduplicated before it is sent. Tag counts come from the
// server, so the tag store refreshes too.
func (ctrl *Controller) Retag(ctx context.Context, id int64, tags []string) (*PDF, error) {
	pdf, err := ctrl.client.UpdateTags(ctx, id, dedupeTags(tags))
	if err != nil {
		return nil, err
	}
	ctrl.refresh(ctx, true, false, true)
	return pdf, nil
}

// AutoTag asks the server for suggested tags for a stored PDF. The
// result is a candidate list the user confirms before it is applied
// via Retag; nothing is changed by this call.
func (ctrl *Controller) AutoTag(ctx context.Context, id int64) ([]string, error) {
	return ctrl.client.GenerateTags(ctx, &id, "")
}

// BatchTag adds or removes tags on every selected PDF in one request.
func (ctrl *Controller) BatchTag(ctx context.Context, operation string, tags []string) error {
	if operation != BatchAddTags && operation != BatchRemoveTags {
		return fmt.Errorf("unsupported batch tag operation %q", operation)
	}
	ids := ctrl.selection.IDs()
	if len(ids) == 0 {
		return fmt.Errorf("no PDFs selected")
	}
	if err := ctrl.client.BatchUpdate(ctx, operation, ids, dedupeTags(tags)); err != nil {
		return err
	}
	ctrl.refresh(ctx, true, false, true)
	return nil
}

// CreateFolder creates a folder and refreshes the folder store.
func (ctrl *Controller) CreateFolder(ctx context.Context, name, color string) (*Folder, error) {
	folder, err := ctrl.client.CreateFolder(ctx, name, color)
	if err != nil {
		return nil, err
	}
	ctrl.refresh(ctx, false, true, false)
	return folder, nil
}

// RenameFolder renames a folder and refreshes folders and PDFs, whose
// derived folder names changed with it.
func (ctrl *Controller) RenameFolder(ctx context.Context, id int64, name string) (*Folder, error) {
	folder, err := ctrl.client.UpdateFolder(ctx, id, &UpdateFolderRequest{Name: &name})
	if err != nil {
		return nil, err
	}
	ctrl.refresh(ctx, true, true, false)
	return folder, nil
}

// DeleteFolder removes a folder. Its PDFs become unfiled server-side,
// so both the PDF and folder stores refresh.
func (ctrl *Controller) DeleteFolder(ctx context.Context, id int64) error {
	if err := ctrl.client.DeleteFolder(ctx, id); err != nil {
		return err
	}
	ctrl.refresh(ctx, true, true, false)
	return nil
}

// DeleteTag removes a tag everywhere and refreshes PDFs and tags.
func (ctrl *Controller) DeleteTag(ctx context.Context, name string) error {
	if err := ctrl.client.DeleteTag(ctx, name); err != nil {
		return err
	}
	ctrl.refresh(ctx, true, false, true)
	return nil
}

// refresh re-fetches the requested stores. Refresh failures are
// logged, not returned: the triggering write already succeeded and
// the stores keep their last-known-good contents until the next sync.
func (ctrl *Controller) refresh(ctx context.Context, pdfs, folders, tags bool) {
	if pdfs {
		if err := ctrl.pdfs.Refresh(ctx); err != nil {
			ctrl.logger.Warn("pdf store refresh failed", "error", err)
		}
	}
	if folders {
		if err := ctrl.folders.Refresh(ctx); err != nil {
			ctrl.logger.Warn("folder store refresh failed", "error", err)
		}
	}
	if tags {
		if err := ctrl.tags.Refresh(ctx); err != nil {
			ctrl.logger.Warn("tag store refresh failed", "error", err)
		}
	}
}

// dedupeTags trims and deduplicates a tag list, preserving order of
// first appearance.
func dedupeTags(tags []string) []string {
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return out
}
