package client

import (
	"context"
	"encoding/json"
	"fmt"
)

// FolderList is a normalized folder listing with the server-computed
// count of PDFs that belong to no folder.
type FolderList struct {
	Folders      []*Folder
	UnfiledCount int
}

// ListFolders retrieves all folders. The endpoint historically
// returned either a bare array or {folders, unfiled_count}; both
// shapes normalize to the same FolderList.
func (c *Client) ListFolders(ctx context.Context) (*FolderList, error) {
	var payload json.RawMessage
	if err := c.doJSON(ctx, "GET", "/api/folders", nil, nil, &payload); err != nil {
		return nil, wrapError(err, "ListFolders")
	}

	list, err := decodeFolderList(payload, c)
	if err != nil {
		return nil, wrapError(err, "ListFolders")
	}
	return list, nil
}

// GetFolder retrieves a single folder by id.
func (c *Client) GetFolder(ctx context.Context, id int64) (*Folder, error) {
	var raw Raw
	if err := c.doJSON(ctx, "GET", fmt.Sprintf("/api/folders/%d", id), nil, nil, &raw); err != nil {
		return nil, wrapError(err, "GetFolder")
	}
	folder, err := NormalizeFolder(raw)
	if err != nil {
		return nil, wrapError(err, "GetFolder")
	}
	return folder, nil
}

// CreateFolder creates a folder with an optional palette color.
func (c *Client) CreateFolder(ctx context.Context, name, color string) (*Folder, error) {
	body := map[string]interface{}{"name": name}
	if color != "" {
		body["color"] = color
	}

	var raw Raw
	if err := c.doJSON(ctx, "POST", "/api/folders", nil, body, &raw); err != nil {
		return nil, wrapError(err, "CreateFolder")
	}
	folder, err := NormalizeFolder(raw)
	if err != nil {
		return nil, wrapError(err, "CreateFolder")
	}
	return folder, nil
}

// UpdateFolderRequest carries folder changes. Nil fields are left
// unchanged.
type UpdateFolderRequest struct {
	Name  *string `json:"name,omitempty"`
	Color *string `json:"color,omitempty"`
}

// UpdateFolder renames a folder and/or changes its color.
func (c *Client) UpdateFolder(ctx context.Context, id int64, req *UpdateFolderRequest) (*Folder, error) {
	var raw Raw
	if err := c.doJSON(ctx, "PUT", fmt.Sprintf("/api/folders/%d", id), nil, req, &raw); err != nil {
		return nil, wrapError(err, "UpdateFolder")
	}
	folder, err := NormalizeFolder(raw)
	if err != nil {
		return nil, wrapError(err, "UpdateFolder")
	}
	return folder, nil
}

// DeleteFolder removes a folder. Its PDFs become unfiled server-side.
func (c *Client) DeleteFolder(ctx context.Context, id int64) error {
	if err := c.doJSON(ctx, "DELETE", fmt.Sprintf("/api/folders/%d", id), nil, nil, nil); err != nil {
		return wrapError(err, "DeleteFolder")
	}
	return nil
}

// decodeFolderList handles both folder list response shapes. A bare
// array carries no unfiled count; the envelope form carries both.
func decodeFolderList(payload json.RawMessage, c *Client) (*FolderList, error) {
	var raws []Raw
	if err := json.Unmarshal(payload, &raws); err == nil {
		return &FolderList{
			Folders:      NormalizeFolders(raws, c.logger),
			UnfiledCount: 0,
		}, nil
	}

	var envelope struct {
		Folders      []Raw       `json:"folders"`
		UnfiledCount interface{} `json:"unfiled_count"`
	}
	if err := json.Unmarshal(payload, &envelope); err != nil {
		return nil, fmt.Errorf("unexpected folder list shape")
	}

	return &FolderList{
		Folders:      NormalizeFolders(envelope.Folders, c.logger),
		UnfiledCount: int(coerceInt64(envelope.UnfiledCount)),
	}, nil
}
