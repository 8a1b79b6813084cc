package client

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/url"
	"strconv"
	"strings"
)

// Batch operations accepted by BatchUpdate.
const (
	BatchDelete     = "delete"
	BatchAddTags    = "add_tags"
	BatchRemoveTags = "remove_tags"
)

// possibleArrayProps are envelope keys the backend has been observed
// wrapping list responses in. A bare array is tried first.
var possibleArrayProps = []string{"pdfs", "items", "results", "data"}

// ListPDFsOptions filters a PDF list request. Exactly one folder
// parameter form is sent per call, derived from Folder.
type ListPDFsOptions struct {
	Folder FolderFilter
	Tag    string
	Search string
}

// ListPDFs retrieves PDFs matching the given filters.
func (c *Client) ListPDFs(ctx context.Context, opts *ListPDFsOptions) ([]*PDF, error) {
	query := url.Values{}
	unfiled := false
	if opts != nil {
		switch {
		case opts.Folder.IsUnfiled():
			query.Set("unfiled", "true")
			unfiled = true
		default:
			if id, ok := opts.Folder.ID(); ok {
				query.Set("folder_id", strconv.FormatInt(id, 10))
			}
		}
		if opts.Tag != "" {
			query.Set("tag", opts.Tag)
		}
		if opts.Search != "" {
			query.Set("search", opts.Search)
		}
	}

	var payload json.RawMessage
	if err := c.doJSON(ctx, "GET", "/api/pdfs", query, nil, &payload); err != nil {
		return nil, wrapError(err, "ListPDFs")
	}

	raws, err := decodeRecordList(payload)
	if err != nil {
		return nil, wrapError(err, "ListPDFs")
	}

	pdfs := NormalizePDFs(raws, c.logger)

	// The server already filters unfiled requests, but stray records
	// with zero or negative folder ids have slipped through before.
	if unfiled {
		filtered := pdfs[:0]
		for _, p := range pdfs {
			if p.FolderID == nil || *p.FolderID <= 0 {
				p.FolderID = nil
				filtered = append(filtered, p)
			}
		}
		pdfs = filtered
	}

	return pdfs, nil
}

// GetPDF retrieves a single PDF by id.
func (c *Client) GetPDF(ctx context.Context, id int64) (*PDF, error) {
	var raw Raw
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/pdfs/%d", id), nil, nil, &raw); err != nil {
		return nil, wrapError(err, "GetPDF")
	}
	pdf, err := NormalizePDF(raw)
	if err != nil {
		return nil, wrapError(err, "GetPDF")
	}
	return pdf, nil
}

// UploadPDFRequest describes a file upload. Tags are joined into the
// comma-separated form the endpoint expects.
type UploadPDFRequest struct {
	Filename string
	Content  io.Reader
	Tags     []string
	FolderID *int64
}

// UploadPDF uploads a PDF with optional tags and folder assignment.
func (c *Client) UploadPDF(ctx context.Context, req *UploadPDFRequest) (*PDF, error) {
	var body strings.Builder
	writer := multipart.NewWriter(&body)

	part, err := writer.CreateFormFile("file", req.Filename)
	if err != nil {
		return nil, fmt.Errorf("UploadPDF: %w", err)
	}
	if _, err := io.Copy(part, req.Content); err != nil {
		return nil, fmt.Errorf("UploadPDF: %w", err)
	}
	if len(req.Tags) > 0 {
		if err := writer.WriteField("tags", strings.Join(req.Tags, ",")); err != nil {
			return nil, fmt.Errorf("UploadPDF: %w", err)
		}
	}
	if req.FolderID != nil {
		if err := writer.WriteField("folder_id", strconv.FormatInt(*req.FolderID, 10)); err != nil {
			return nil, fmt.Errorf("UploadPDF: %w", err)
		}
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("UploadPDF: %w", err)
	}

	fullURL, err := c.buildURL("/api/pdfs/upload", nil)
	if err != nil {
		return nil, fmt.Errorf("UploadPDF: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", fullURL, strings.NewReader(body.String()))
	if err != nil {
		return nil, fmt.Errorf("UploadPDF: create request: %w", err)
	}
	httpReq.Header.Set("Content-Type", writer.FormDataContentType())
	httpReq.Header.Set("Accept", "application/json")

	var raw Raw
	if err := c.do(httpReq, &raw); err != nil {
		return nil, wrapError(err, "UploadPDF")
	}

	pdf, err := NormalizePDF(raw)
	if err != nil {
		return nil, wrapError(err, "UploadPDF")
	}
	return pdf, nil
}

// DeletePDF deletes a single PDF.
func (c *Client) DeletePDF(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, "DELETE", fmt.Sprintf("/api/pdfs/%d", id), nil, nil, nil); err != nil {
		return wrapError(err, "DeletePDF")
	}
	return nil
}

// MovePDFs moves the given PDFs into a folder. A nil folderID moves
// them to unfiled.
func (c *Client) MovePDFs(ctx context.Context, ids []int64, folderID *int64) error {
	body := map[string]interface{}{
		"pdf_ids":   ids,
		"folder_id": folderID,
	}
	if err := c.doJSON(ctx, "POST", "/api/pdfs/move", nil, body, nil); err != nil {
		return wrapError(err, "MovePDFs")
	}
	return nil
}

// BatchUpdate applies one operation to a set of PDFs in a single
// request. Tags are required for the tag operations and ignored for
// delete.
func (c *Client) BatchUpdate(ctx context.Context, operation string, ids []int64, tags []string) error {
	body := map[string]interface{}{
		"operation": operation,
		"pdf_ids":   ids,
	}
	if len(tags) > 0 {
		body["tags"] = tags
	}
	if err := c.doJSON(ctx, "POST", "/api/pdfs/batch", nil, body, nil); err != nil {
		return wrapError(err, "BatchUpdate")
	}
	return nil
}

// UpdateTags replaces a PDF's full tag list.
func (c *Client) UpdateTags(ctx context.Context, id int64, tags []string) (*PDF, error) {
	body := map[string]interface{}{"tags": tags}

	var raw Raw
	if err := c.doJSON(ctx, "PUT", fmt.Sprintf("/api/pdfs/%d/tags", id), nil, body, &raw); err != nil {
		return nil, wrapError(err, "UpdateTags")
	}
	pdf, err := NormalizePDF(raw)
	if err != nil {
		return nil, wrapError(err, "UpdateTags")
	}
	return pdf, nil
}

// RenamePDF changes a PDF's display filename.
func (c *Client) RenamePDF(ctx context.Context, id int64, filename string) (*PDF, error) {
	body := map[string]interface{}{"filename": filename}

	var raw Raw
	if err := c.doJSON(ctx, "PUT", fmt.Sprintf("/api/pdfs/%d/rename", id), nil, body, &raw); err != nil {
		return nil, wrapError(err, "RenamePDF")
	}
	pdf, err := NormalizePDF(raw)
	if err != nil {
		return nil, wrapError(err, "RenamePDF")
	}
	return pdf, nil
}

// UnfiledCount returns the number of PDFs without a folder.
func (c *Client) UnfiledCount(ctx context.Context) (int, error) {
	var result struct {
		Count int `json:"count"`
	}
	if err := c.doJSON(ctx, "GET", "/api/pdfs/unfiled-count", nil, nil, &result); err != nil {
		return 0, wrapError(err, "UnfiledCount")
	}
	return result.Count, nil
}

// ViewURL returns the inline-view URL for a PDF, suitable for handing
// to a browser viewer.
func (c *Client) ViewURL(id int64) string {
	u, err := c.buildURL(fmt.Sprintf("/api/pdfs/%d/view", id), nil)
	if err != nil {
		return ""
	}
	return u
}

// DownloadURL returns the attachment-download URL for a PDF.
func (c *Client) DownloadURL(id int64) string {
	u, err := c.buildURL(fmt.Sprintf("/api/pdfs/%d/download", id), nil)
	if err != nil {
		return ""
	}
	return u
}

// DownloadPDF streams a PDF's bytes. The caller must close the reader.
func (c *Client) DownloadPDF(ctx context.Context, id int64) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, "GET", c.DownloadURL(id), nil)
	if err != nil {
		return nil, fmt.Errorf("DownloadPDF: create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("DownloadPDF: do request: %w", err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		body, _ := io.ReadAll(resp.Body)
		resp.Body.Close()
		return nil, &Error{StatusCode: resp.StatusCode, Message: string(body), Op: "DownloadPDF"}
	}
	return resp.Body, nil
}

// decodeRecordList accepts either a bare JSON array of records or an
// object wrapping the array under a known key.
func decodeRecordList(payload json.RawMessage) ([]Raw, error) {
	var raws []Raw
	if err := json.Unmarshal(payload, &raws); err == nil {
		return raws, nil
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected list response shape")
	}
	for _, prop := range possibleArrayProps {
		inner, ok := envelope[prop]
		if !ok {
			continue
		}
		if err := json.Unmarshal(inner, &raws); err != nil {
			return nil, fmt.Errorf("unexpected %q envelope shape", prop)
		}
		return raws, nil
	}

	// An envelope with no recognized array key means zero items.
	return []Raw{}, nil
}
