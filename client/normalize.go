package client

import (
	"fmt"
	"log/slog"
	"math"
	"strconv"
	"strings"
	"time"
)

// PDF is the canonical client-side PDF record.
type PDF struct {
	ID         int64
	Filename   string
	FolderID   *int64 // nil = unfiled
	FolderName string
	Tags       []string
	DateAdded  time.Time
	Size       int64
}

// Folder is the canonical client-side folder record.
type Folder struct {
	ID       int64
	Name     string
	Color    string
	PDFCount int
}

// Tag is the canonical client-side tag record.
type Tag struct {
	Name  string
	Count int
}

// Raw is an undecoded backend record. The backend is not consistent
// about field types (numeric vs string ids, missing optionals), so
// records are decoded into a loose map and coerced field by field.
type Raw map[string]interface{}

// millisCutoff separates unix-seconds from unix-milliseconds
// timestamps. Values below it are treated as seconds.
const millisCutoff = 1e10

// NormalizePDF converts a raw backend record into a PDF. Missing
// optional fields get defaults; an id that cannot be coerced to an
// integer is an error (the record is unusable without one).
func NormalizePDF(raw Raw) (*PDF, error) {
	id, ok := coerceID(raw["id"])
	if !ok {
		return nil, fmt.Errorf("pdf record has no usable id (got %v)", raw["id"])
	}

	return &PDF{
		ID:         id,
		Filename:   coerceString(raw["filename"]),
		FolderID:   coerceFolderID(raw["folder_id"]),
		FolderName: coerceString(raw["folder_name"]),
		Tags:       coerceTags(raw["tags"]),
		DateAdded:  coerceDate(raw["date_added"], raw["created_at"]),
		Size:       coerceInt64(raw["size"]),
	}, nil
}

// NormalizeFolder converts a raw backend record into a Folder.
func NormalizeFolder(raw Raw) (*Folder, error) {
	id, ok := coerceID(raw["id"])
	if !ok {
		return nil, fmt.Errorf("folder record has no usable id (got %v)", raw["id"])
	}

	name := strings.TrimSpace(coerceString(raw["name"]))
	if name == "" {
		return nil, fmt.Errorf("folder %d has an empty name", id)
	}

	return &Folder{
		ID:       id,
		Name:     name,
		Color:    coerceString(raw["color"]),
		PDFCount: int(coerceInt64(raw["pdf_count"])),
	}, nil
}

// NormalizeTag converts a raw backend record into a Tag.
func NormalizeTag(raw Raw) (*Tag, error) {
	name := strings.TrimSpace(coerceString(raw["name"]))
	if name == "" {
		return nil, fmt.Errorf("tag record has no usable name (got %v)", raw["name"])
	}

	return &Tag{
		Name:  name,
		Count: int(coerceInt64(raw["count"])),
	}, nil
}

// NormalizePDFs normalizes a batch, dropping records that fail with a
// logged warning. A bad record never aborts the rest of the batch.
func NormalizePDFs(raws []Raw, logger *slog.Logger) []*PDF {
	pdfs := make([]*PDF, 0, len(raws))
	for _, raw := range raws {
		pdf, err := NormalizePDF(raw)
		if err != nil {
			logger.Warn("skipping malformed pdf record", "error", err)
			continue
		}
		pdfs = append(pdfs, pdf)
	}
	return pdfs
}

// NormalizeFolders normalizes a batch, dropping records that fail.
func NormalizeFolders(raws []Raw, logger *slog.Logger) []*Folder {
	folders := make([]*Folder, 0, len(raws))
	for _, raw := range raws {
		folder, err := NormalizeFolder(raw)
		if err != nil {
			logger.Warn("skipping malformed folder record", "error", err)
			continue
		}
		folders = append(folders, folder)
	}
	return folders
}

// NormalizeTags normalizes a batch, dropping records that fail.
func NormalizeTags(raws []Raw, logger *slog.Logger) []*Tag {
	tags := make([]*Tag, 0, len(raws))
	for _, raw := range raws {
		tag, err := NormalizeTag(raw)
		if err != nil {
			logger.Warn("skipping malformed tag record", "error", err)
			continue
		}
		tags = append(tags, tag)
	}
	return tags
}

// coerceID accepts a numeric or numeric-string id. Returns false when
// the value cannot be read as an integer.
func coerceID(v interface{}) (int64, bool) {
	switch t := v.(type) {
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return 0, false
		}
		return int64(t), true
	case int64:
		return t, true
	case int:
		return int64(t), true
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(t), 10, 64)
		if err != nil {
			return 0, false
		}
		return n, true
	default:
		return 0, false
	}
}

// coerceFolderID maps absent or unparseable folder ids to nil (unfiled).
func coerceFolderID(v interface{}) *int64 {
	if v == nil {
		return nil
	}
	id, ok := coerceID(v)
	if !ok {
		return nil
	}
	return &id
}

func coerceString(v interface{}) string {
	s, _ := v.(string)
	return s
}

func coerceInt64(v interface{}) int64 {
	n, _ := coerceID(v)
	return n
}

// coerceTags returns the string elements of an array value. Any
// non-array input yields an empty list. Duplicates are kept as-is;
// deduplication happens when a tag list is submitted, not here.
func coerceTags(v interface{}) []string {
	arr, ok := v.([]interface{})
	if !ok {
		return []string{}
	}
	tags := make([]string, 0, len(arr))
	for _, item := range arr {
		if s, ok := item.(string); ok {
			tags = append(tags, s)
		}
	}
	return tags
}

// coerceDate applies the date policy: unix timestamps as numbers or
// digit-strings (seconds below millisCutoff, milliseconds above),
// then RFC 3339 and common date layouts, then "now" as the fallback
// for anything unparseable. Candidates are tried in order and the
// first non-nil one wins.
func coerceDate(candidates ...interface{}) time.Time {
	for _, v := range candidates {
		if v == nil {
			continue
		}
		if t, ok := parseDate(v); ok {
			return t
		}
	}
	return time.Now().UTC()
}

func parseDate(v interface{}) (time.Time, bool) {
	switch t := v.(type) {
	case time.Time:
		return t.UTC(), true
	case float64:
		return unixToTime(t), true
	case int64:
		return unixToTime(float64(t)), true
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return time.Time{}, false
		}
		if n, err := strconv.ParseFloat(s, 64); err == nil {
			return unixToTime(n), true
		}
		for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05", "2006-01-02 15:04:05", "2006-01-02"} {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed.UTC(), true
			}
		}
		return time.Time{}, false
	default:
		return time.Time{}, false
	}
}

func unixToTime(n float64) time.Time {
	if n < millisCutoff {
		n *= 1000
	}
	return time.UnixMilli(int64(n)).UTC()
}
