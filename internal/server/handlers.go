// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/pdiddy/manuscript-press/internal/export"
	"github.com/pdiddy/manuscript-press/internal/ingest"
	"github.com/pdiddy/manuscript-press/internal/layout"
	"github.com/pdiddy/manuscript-press/internal/manuscript"
	"github.com/pdiddy/manuscript-press/internal/prompt"
	"github.com/pdiddy/manuscript-press/internal/validate"
	"github.com/pdiddy/manuscript-press/pkg/types"
)

// handleIngest accepts a multipart upload under the "manuscript" field,
// extracts text and figures, and parks the source until /api/structure runs.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.Server.MaxUploadSize)
	if err := r.ParseMultipartForm(s.cfg.Server.MaxUploadSize); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("parsing upload: %w", err))
		return
	}

	file, header, err := r.FormFile("manuscript")
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("missing manuscript file: %w", err))
		return
	}
	defer file.Close()

	format, err := ingest.Detect(header.Filename)
	if err != nil {
		writeError(w, http.StatusUnsupportedMediaType, err)
		return
	}

	src, err := s.ingest.ExtractReader(r.Context(), file, format)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	s.mu.Lock()
	s.pending = src
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]any{
		"format":  src.Format,
		"chars":   len(src.RawText),
		"figures": len(src.Figures),
		"notes":   src.Notes,
	})
}

type structureRequest struct {
	ArticleType string `json:"article_type"`
	Manual      bool   `json:"manual"`
}

// handleStructure runs extraction (or manual fallback) over the pending
// source and installs the finalized document.
func (s *Server) handleStructure(w http.ResponseWriter, r *http.Request) {
	var req structureRequest
	if r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
			return
		}
	}

	s.mu.Lock()
	src := s.pending
	s.mu.Unlock()
	if src == nil {
		writeError(w, http.StatusConflict, fmt.Errorf("no manuscript ingested"))
		return
	}

	var doc *types.Manuscript
	recovered := false
	model := ""

	if req.Manual {
		doc = manuscript.Manual(src.RawText, src.Figures)
	} else {
		p, err := prompt.Build(src.RawText, src.Figures, req.ArticleType)
		if err != nil {
			writeError(w, http.StatusBadRequest, err)
			return
		}
		var progress bytes.Buffer
		result, err := s.extract.Run(r.Context(), p, src.Figures, &progress)
		if err != nil {
			s.logger.Warn("extraction failed", "detail", progress.String())
			writeError(w, http.StatusBadGateway, err)
			return
		}
		doc = result.Manuscript
		recovered = result.Recovered
		model = result.Model
	}

	if req.ArticleType != "" {
		doc.ArticleType = req.ArticleType
	}
	manuscript.Finalize(doc, s.cfg.Journal, time.Now())

	if err := s.store.Apply(manuscript.ReplaceDocument{Doc: doc, Original: src.RawText}); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"manuscript": doc,
		"model":      model,
		"recovered":  recovered,
		"manual":     req.Manual,
	})
}

func (s *Server) handleGetManuscript(w http.ResponseWriter, _ *http.Request) {
	doc := s.store.Snapshot()
	if doc == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no document loaded"))
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

// handlePatchManuscript applies one scalar field update.
func (s *Server) handlePatchManuscript(w http.ResponseWriter, r *http.Request) {
	var op manuscript.SetField
	if err := json.NewDecoder(r.Body).Decode(&struct {
		Field *string `json:"field"`
		Value *string `json:"value"`
	}{&op.Field, &op.Value}); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	if err := s.store.Apply(op); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleUpdateSection(w http.ResponseWriter, r *http.Request) {
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("bad section index: %w", err))
		return
	}

	var body struct {
		Heading string `json:"header"`
		Content string `json:"body"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}

	op := manuscript.UpdateSection{Index: index, Heading: body.Heading, Content: body.Content}
	if err := s.store.Apply(op); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleReorderFigure(w http.ResponseWriter, r *http.Request) {
	var op manuscript.ReorderFigure
	if err := json.NewDecoder(r.Body).Decode(&op); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	if err := s.store.Apply(op); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	writeJSON(w, http.StatusOK, s.store.Snapshot())
}

func (s *Server) handleValidate(w http.ResponseWriter, _ *http.Request) {
	doc := s.store.Snapshot()
	if doc == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no document loaded"))
		return
	}
	writeJSON(w, http.StatusOK, validate.Compare(s.store.Original(), doc))
}

func (s *Server) handleLayout(w http.ResponseWriter, _ *http.Request) {
	doc := s.store.Snapshot()
	if doc == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no document loaded"))
		return
	}
	writeJSON(w, http.StatusOK, layout.Flow(doc))
}

func (s *Server) handleExportPDF(w http.ResponseWriter, r *http.Request) {
	doc := s.store.Snapshot()
	if doc == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no document loaded"))
		return
	}

	html, err := export.RenderHTML(doc, layout.Flow(doc), s.cfg.Journal)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}

	outPath := s.outputPath(doc, ".pdf")
	writer := export.NewPDFWriter(s.cfg.Export)
	if err := writer.Write(r.Context(), html, outPath); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	serveFile(w, r, outPath, "application/pdf")
}

func (s *Server) handleExportDOCX(w http.ResponseWriter, r *http.Request) {
	doc := s.store.Snapshot()
	if doc == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no document loaded"))
		return
	}

	outPath := s.outputPath(doc, ".docx")
	writer := export.NewDOCXWriter(s.cfg.Journal)
	if err := writer.Write(doc, layout.Flow(doc), outPath); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	serveFile(w, r, outPath,
		"application/vnd.openxmlformats-officedocument.wordprocessingml.document")
}

func (s *Server) handleExportLetter(w http.ResponseWriter, r *http.Request) {
	doc := s.store.Snapshot()
	if doc == nil {
		writeError(w, http.StatusNotFound, fmt.Errorf("no document loaded"))
		return
	}

	html, err := export.RenderLetter(doc, s.cfg.Journal, time.Now())
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, err)
		return
	}

	outPath := s.outputPath(doc, "-acceptance-letter.pdf")
	writer := export.NewPDFWriter(s.cfg.Export)
	if err := writer.Write(r.Context(), html, outPath); err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	serveFile(w, r, outPath, "application/pdf")
}

func (s *Server) handleGetSettings(w http.ResponseWriter, _ *http.Request) {
	all, err := s.settings.All()
	if err != nil {
		writeError(w, http.StatusInternalServerError, err)
		return
	}
	writeJSON(w, http.StatusOK, all)
}

// handlePutSettings stores every key in the request body.
func (s *Server) handlePutSettings(w http.ResponseWriter, r *http.Request) {
	var body map[string]string
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("decoding request: %w", err))
		return
	}
	for k, v := range body {
		if err := s.settings.Set(k, v); err != nil {
			writeError(w, http.StatusInternalServerError, err)
			return
		}
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// outputPath derives the export file name from the document title.
func (s *Server) outputPath(doc *types.Manuscript, suffix string) string {
	dir := s.cfg.Export.OutputDir
	if dir == "" {
		dir = "output"
	}
	name := "manuscript"
	if doc.Title != "" {
		name = slugify(doc.Title)
	}
	return filepath.Join(dir, name+suffix)
}

// slugify lowercases and collapses non-alphanumerics into dashes.
func slugify(s string) string {
	var out []rune
	dash := false
	for _, r := range s {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			out = append(out, r)
			dash = false
		case r >= 'A' && r <= 'Z':
			out = append(out, r+'a'-'A')
			dash = false
		default:
			if !dash && len(out) > 0 {
				out = append(out, '-')
				dash = true
			}
		}
	}
	for len(out) > 0 && out[len(out)-1] == '-' {
		out = out[:len(out)-1]
	}
	if len(out) == 0 {
		return "manuscript"
	}
	if len(out) > 60 {
		out = out[:60]
	}
	return string(out)
}

func serveFile(w http.ResponseWriter, r *http.Request, path, contentType string) {
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", filepath.Base(path)))
	http.ServeFile(w, r, path)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]string{"error": err.Error()})
}
