package handler

import (
	"log/slog"
	"net/http"

	"github.com/matthewyanek/pdf-classroom-manager/internal/httputil"
	"github.com/matthewyanek/pdf-classroom-manager/internal/service"
)

// TagHandler handles tag HTTP requests, including AI tag generation
type TagHandler struct {
	tagService service.TagService
	tagger     service.TaggerService // nil when no API key is configured
	logger     *slog.Logger
}

// NewTagHandler creates a new tag handler
func NewTagHandler(tagService service.TagService, tagger service.TaggerService, logger *slog.Logger) *TagHandler {
	return &TagHandler{
		tagService: tagService,
		tagger:     tagger,
		logger:     logger,
	}
}

// ListTags lists all tags with their PDF counts
// GET /api/tags
func (h *TagHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tagService.List(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tags)
}

// GetTag retrieves a tag by name
// GET /api/tags/{name}
func (h *TagHandler) GetTag(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		httputil.RespondError(w, http.StatusBadRequest, "tag name is required")
		return
	}

	tag, err := h.tagService.Get(r.Context(), name)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, tag)
}

// DeleteTag removes a tag everywhere
// DELETE /api/tags/{name}
func (h *TagHandler) DeleteTag(w http.ResponseWriter, r *http.Request) {
	name := r.PathValue("name")
	if name == "" {
		httputil.RespondError(w, http.StatusBadRequest, "tag name is required")
		return
	}

	if err := h.tagService.Delete(r.Context(), name); err != nil {
		respondError(w, h.logger, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GenerateTags suggests tags for a PDF or raw text
// POST /api/tags/generate
func (h *TagHandler) GenerateTags(w http.ResponseWriter, r *http.Request) {
	if h.tagger == nil {
		httputil.RespondError(w, http.StatusServiceUnavailable, "tag generation is not configured")
		return
	}

	var req service.GenerateTagsRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	tags, err := h.tagger.Generate(r.Context(), &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string][]string{"tags": tags})
}
