package handler

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/matthewyanek/pdf-classroom-manager/internal/httputil"
	"github.com/matthewyanek/pdf-classroom-manager/internal/service"
)

// PDFHandler handles PDF HTTP requests
type PDFHandler struct {
	pdfService    service.PDFService
	maxUploadSize int64
	logger        *slog.Logger
}

// NewPDFHandler creates a new PDF handler
func NewPDFHandler(pdfService service.PDFService, maxUploadSize int64, logger *slog.Logger) *PDFHandler {
	return &PDFHandler{
		pdfService:    pdfService,
		maxUploadSize: maxUploadSize,
		logger:        logger,
	}
}

// HealthCheck responds 200 while the process is up
// GET /health
func (h *PDFHandler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	httputil.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ListPDFs lists PDFs with optional filtering
// GET /api/pdfs?{folder_id|unfiled,tag,search}
//
// folder_id=-1 is the legacy spelling of unfiled=true and is honored
// for old clients.
func (h *PDFHandler) ListPDFs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	req := &service.ListPDFsRequest{
		Tag:    q.Get("tag"),
		Search: q.Get("search"),
	}

	if q.Get("unfiled") == "true" {
		req.Unfiled = true
	} else if raw := q.Get("folder_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, fmt.Sprintf("invalid folder_id %q", raw))
			return
		}
		if id == -1 {
			req.Unfiled = true
		} else {
			req.FolderID = &id
		}
	}

	pdfs, err := h.pdfService.List(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, pdfs)
}

// GetPDF retrieves a single PDF record
// GET /api/pdfs/{id}
func (h *PDFHandler) GetPDF(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	pdf, err := h.pdfService.Get(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, pdf)
}

// UploadPDF accepts a multipart upload (file, tags, folder_id)
// POST /api/pdfs/upload
func (h *PDFHandler) UploadPDF(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)

	file, header, err := r.FormFile("file")
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "no file selected")
		return
	}
	defer file.Close()

	req := &service.UploadRequest{
		Filename: header.Filename,
		File:     file,
		Tags:     r.FormValue("tags"),
	}

	if raw := r.FormValue("folder_id"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			httputil.RespondError(w, http.StatusBadRequest, fmt.Sprintf("invalid folder_id %q", raw))
			return
		}
		req.FolderID = &id
	}

	pdf, err := h.pdfService.Upload(r.Context(), req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusCreated, pdf)
}

// DeletePDF deletes a single PDF
// DELETE /api/pdfs/{id}
func (h *PDFHandler) DeletePDF(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.pdfService.Delete(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// DeletePDFs deletes a set of PDFs in one request
// POST /api/pdfs/delete
func (h *PDFHandler) DeletePDFs(w http.ResponseWriter, r *http.Request) {
	var req struct {
		PDFIDs []int64 `json:"pdf_ids"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.pdfService.BatchUpdate(r.Context(), &service.BatchRequest{
		Operation: service.BatchDelete,
		PDFIDs:    req.PDFIDs,
	})
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// MovePDFs moves a batch of PDFs to a folder (null = unfiled)
// POST /api/pdfs/move
func (h *PDFHandler) MovePDFs(w http.ResponseWriter, r *http.Request) {
	var req service.MoveRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.pdfService.Move(r.Context(), &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// BatchUpdate applies delete/add_tags/remove_tags to a set of PDFs
// POST /api/pdfs/batch
func (h *PDFHandler) BatchUpdate(w http.ResponseWriter, r *http.Request) {
	var req service.BatchRequest
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := h.pdfService.BatchUpdate(r.Context(), &req)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, result)
}

// UpdateTags replaces a PDF's tag list
// PUT /api/pdfs/{id}/tags
func (h *PDFHandler) UpdateTags(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Tags []string `json:"tags"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	pdf, err := h.pdfService.UpdateTags(r.Context(), id, req.Tags)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, pdf)
}

// RenamePDF updates a PDF's display filename
// PUT /api/pdfs/{id}/rename
func (h *PDFHandler) RenamePDF(w http.ResponseWriter, r *http.Request) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	var req struct {
		Filename string `json:"filename"`
	}
	if err := httputil.ParseJSON(w, r, &req); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	pdf, err := h.pdfService.Rename(r.Context(), id, req.Filename)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, pdf)
}

// UnfiledCount returns the number of PDFs without a folder
// GET /api/pdfs/unfiled-count
func (h *PDFHandler) UnfiledCount(w http.ResponseWriter, r *http.Request) {
	count, err := h.pdfService.UnfiledCount(r.Context())
	if err != nil {
		respondError(w, h.logger, err)
		return
	}

	httputil.RespondJSON(w, http.StatusOK, map[string]int{"count": count})
}

// ViewPDF serves the PDF inline for the browser viewer
// GET /api/pdfs/{id}/view
func (h *PDFHandler) ViewPDF(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "inline")
}

// DownloadPDF serves the PDF as an attachment
// GET /api/pdfs/{id}/download
func (h *PDFHandler) DownloadPDF(w http.ResponseWriter, r *http.Request) {
	h.serveFile(w, r, "attachment")
}

func (h *PDFHandler) serveFile(w http.ResponseWriter, r *http.Request, disposition string) {
	id, err := httputil.PathID(r)
	if err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return
	}

	pdf, f, err := h.pdfService.OpenFile(r.Context(), id)
	if err != nil {
		respondError(w, h.logger, err)
		return
	}
	defer f.Close()

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`%s; filename=%q`, disposition, sanitizeHeaderFilename(pdf.Filename)))

	if _, err := io.Copy(w, f); err != nil {
		h.logger.Warn("failed to stream pdf", "pdf_id", id, "error", err)
	}
}

func sanitizeHeaderFilename(name string) string {
	return strings.Map(func(r rune) rune {
		if r == '"' || r == '\r' || r == '\n' {
			return '_'
		}
		return r
	}, name)
}
