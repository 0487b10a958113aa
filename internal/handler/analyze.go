package handler

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"image"
	"io"
	"log/slog"
	"net/http"

	"github.com/chartsight/internal/analysis"
	"github.com/chartsight/internal/media"
	"github.com/chartsight/internal/metrics"
	"github.com/chartsight/internal/web"
)

const fastModel = "llava:7b"

type analyzer interface {
	Analyze(ctx context.Context, img image.Image) analysis.Result
}

// AnalyzeHandler serves the analyzer page and binds its button to the
// analysis function.
type AnalyzeHandler struct {
	BaseHandler
	analyzer        analyzer
	templates       *template.Template
	maxUploadSizeMB int
}

func NewAnalyzeHandler(logger *slog.Logger, a analyzer, tmpl *template.Template, maxUploadSizeMB int) *AnalyzeHandler {
	return &AnalyzeHandler{
		BaseHandler:     BaseHandler{Logger: logger},
		analyzer:        a,
		templates:       tmpl,
		maxUploadSizeMB: maxUploadSizeMB,
	}
}

// Page renders the upload form and output area.
func (h *AnalyzeHandler) Page(w http.ResponseWriter, r *http.Request) {
	data := web.PageData{
		Title:     "Stock & Crypto Chart Analyzer",
		Model:     analysis.Model,
		FastModel: fastModel,
		MaxUpload: h.maxUploadSizeMB,
	}

	var buf bytes.Buffer
	if err := h.templates.ExecuteTemplate(&buf, "index.html", data); err != nil {
		h.serverErrorResponse(w, r, fmt.Errorf("rendering index: %w", err))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// Analyze accepts an optional "image" multipart field and responds with the
// analysis text. A request without an image gets the upload prompt.
func (h *AnalyzeHandler) Analyze(w http.ResponseWriter, r *http.Request) {
	maxSize := int64(h.maxUploadSizeMB) << 20
	r.Body = http.MaxBytesReader(w, r.Body, maxSize)

	if err := r.ParseMultipartForm(maxSize); err != nil && !errors.Is(err, http.ErrNotMultipart) {
		h.Logger.Warn("analyze: form parse failed", "err", err)
		metrics.UploadsRejectedTotal.Inc()
		h.badRequestResponse(w, r, "upload too large or invalid")
		return
	}
	if r.MultipartForm != nil {
		defer r.MultipartForm.RemoveAll()
	}

	img, err := readImage(r)
	if err != nil {
		h.Logger.Warn("analyze: upload rejected", "err", err)
		metrics.UploadsRejectedTotal.Inc()
		if errors.Is(err, media.ErrTooLarge) {
			h.badRequestResponse(w, r, "image dimensions too large")
			return
		}
		h.badRequestResponse(w, r, "please upload a PNG, JPEG, GIF, WebP or BMP chart image")
		return
	}

	res := h.analyzer.Analyze(r.Context(), img)

	if err := h.writeJSON(w, http.StatusOK, envelope{"ok": res.OK(), "analysis": res.Message()}); err != nil {
		h.logError(r, err)
	}
}

// readImage returns the uploaded chart, or nil when none was sent.
func readImage(r *http.Request) (image.Image, error) {
	if r.MultipartForm == nil {
		return nil, nil
	}
	files := r.MultipartForm.File["image"]
	if len(files) == 0 {
		return nil, nil
	}

	file, err := files[0].Open()
	if err != nil {
		return nil, fmt.Errorf("opening upload: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("reading upload: %w", err)
	}
	if len(data) == 0 {
		return nil, nil
	}

	img, _, err := media.Decode(data)
	if err != nil {
		return nil, err
	}
	return img, nil
}
