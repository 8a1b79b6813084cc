package client

import "strings"

type folderFilterKind int

const (
	folderFilterAll folderFilterKind = iota
	folderFilterUnfiled
	folderFilterID
)

// FolderFilter selects which folder scope a PDF list is restricted
// to: every PDF, only unfiled PDFs, or one folder by id. The zero
// value means all folders. A tagged type avoids the old convention of
// overloading -1 as "unfiled" inside an id field.
type FolderFilter struct {
	kind folderFilterKind
	id   int64
}

// AllFolders matches every PDF regardless of folder.
func AllFolders() FolderFilter {
	return FolderFilter{kind: folderFilterAll}
}

// UnfiledOnly matches PDFs with no folder assignment.
func UnfiledOnly() FolderFilter {
	return FolderFilter{kind: folderFilterUnfiled}
}

// InFolder matches PDFs in the given folder.
func InFolder(id int64) FolderFilter {
	return FolderFilter{kind: folderFilterID, id: id}
}

// IsAll reports whether the filter matches every folder.
func (f FolderFilter) IsAll() bool { return f.kind == folderFilterAll }

// IsUnfiled reports whether the filter matches only unfiled PDFs.
func (f FolderFilter) IsUnfiled() bool { return f.kind == folderFilterUnfiled }

// ID returns the folder id and true when the filter targets one folder.
func (f FolderFilter) ID() (int64, bool) {
	if f.kind != folderFilterID {
		return 0, false
	}
	return f.id, true
}

// Filter is the full view filter: folder scope, exact tag membership,
// and a free-text search query.
type Filter struct {
	Folder FolderFilter
	Tag    string // empty = no tag filter
	Search string // empty = no search
}

// Matches reports whether a PDF passes all three predicates. The
// check is pure; the visible set is always re-derived from the
// current PDF list and filter, never cached.
func (f Filter) Matches(p *PDF) bool {
	return f.matchesFolder(p) && f.matchesTag(p) && f.matchesSearch(p)
}

// Visible returns the PDFs passing the filter, preserving order.
func (f Filter) Visible(pdfs []*PDF) []*PDF {
	visible := make([]*PDF, 0, len(pdfs))
	for _, p := range pdfs {
		if f.Matches(p) {
			visible = append(visible, p)
		}
	}
	return visible
}

func (f Filter) matchesFolder(p *PDF) bool {
	switch f.Folder.kind {
	case folderFilterUnfiled:
		return p.FolderID == nil
	case folderFilterID:
		return p.FolderID != nil && *p.FolderID == f.Folder.id
	default:
		return true
	}
}

func (f Filter) matchesTag(p *PDF) bool {
	if f.Tag == "" {
		return true
	}
	for _, tag := range p.Tags {
		if tag == f.Tag {
			return true
		}
	}
	return false
}

func (f Filter) matchesSearch(p *PDF) bool {
	if f.Search == "" {
		return true
	}
	query := strings.ToLower(f.Search)
	if strings.Contains(strings.ToLower(p.Filename), query) {
		return true
	}
	for _, tag := range p.Tags {
		if strings.Contains(strings.ToLower(tag), query) {
			return true
		}
	}
	return false
}
