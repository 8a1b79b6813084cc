package client

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
)

// ListTags retrieves all tags with their usage counts.
func (c *Client) ListTags(ctx context.Context) ([]*Tag, error) {
	var payload json.RawMessage
	if err := c.doJSON(ctx, "GET", "/api/tags", nil, nil, &payload); err != nil {
		return nil, wrapError(err, "ListTags")
	}

	raws, err := decodeRecordList(payload)
	if err != nil {
		return nil, wrapError(err, "ListTags")
	}
	return NormalizeTags(raws, c.logger), nil
}

// DeleteTag removes a tag everywhere: from the tag table and from
// every PDF carrying it.
func (c *Client) DeleteTag(ctx context.Context, name string) error {
	path := "/api/tags/" + url.PathEscape(name)
	if err := c.doJSON(ctx, "DELETE", path, nil, nil, nil); err != nil {
		return wrapError(err, "DeleteTag")
	}
	return nil
}

// GenerateTags asks the server to suggest tags for a stored PDF or a
// free-text excerpt. Exactly one of pdfID and text should be set. The
// result is a candidate list; it is not applied to any PDF until the
// caller submits it through UpdateTags.
func (c *Client) GenerateTags(ctx context.Context, pdfID *int64, text string) ([]string, error) {
	body := map[string]interface{}{}
	switch {
	case pdfID != nil:
		body["pdf_id"] = *pdfID
	case text != "":
		body["text"] = text
	default:
		return nil, fmt.Errorf("GenerateTags: pdf id or text required")
	}

	var result struct {
		Tags []string `json:"tags"`
	}
	if err := c.doJSON(ctx, "POST", "/api/tags/generate", nil, body, &result); err != nil {
		return nil, wrapError(err, "GenerateTags")
	}
	return result.Tags, nil
}
