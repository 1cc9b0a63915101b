package server

import (
	"errors"
	"io"
	"net/http"
	"path/filepath"

	"github.com/contasapp/contas-ingest/constants"
	"github.com/contasapp/contas-ingest/internal/entity"
	"github.com/contasapp/contas-ingest/internal/pipeline"
)

type uploadResponse struct {
	Success  bool                 `json:"success"`
	Results  []pipeline.Result    `json:"results"`
	Rejected []pipeline.Rejection `json:"rejected,omitempty"`
	Error    string               `json:"error,omitempty"`
}

// handleUpload accepts a multipart form with one or more "file" parts and runs
// them through the pipeline. Non-file form fields are ignored.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)

	mr, err := r.MultipartReader()
	if err != nil {
		respondError(w, http.StatusBadRequest, "expected multipart/form-data request")
		return
	}

	var docs []entity.Document
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			respondError(w, http.StatusBadRequest, "malformed multipart body")
			return
		}
		if part.FormName() != "file" || part.FileName() == "" {
			_ = part.Close()
			continue
		}

		content, err := io.ReadAll(part)
		_ = part.Close()
		if err != nil {
			// MaxBytesReader surfaces here once the cap is exceeded.
			respondError(w, http.StatusRequestEntityTooLarge, "upload exceeds size limit")
			return
		}

		mt := constants.NormalizeMediaType(part.Header.Get("Content-Type"))
		if mt == "" || mt == "application/octet-stream" {
			mt = constants.MapExtToMediaType(filepath.Ext(part.FileName()))
		}

		docs = append(docs, entity.Document{
			DisplayName: part.FileName(),
			MediaType:   mt,
			Content:     content,
		})
	}

	batch, err := s.orchestrator.Ingest(r.Context(), docs)
	if err != nil {
		s.logger.Error("ingestion aborted", "error", err)
		respondError(w, http.StatusInternalServerError, "ingestion aborted: "+err.Error())
		return
	}

	results := batch.Results
	if results == nil {
		results = []pipeline.Result{}
	}
	respondJSON(w, http.StatusOK, uploadResponse{
		Success:  true,
		Results:  results,
		Rejected: batch.Rejected,
	})
}
