package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/contasapp/contas-ingest/internal/common"
	"github.com/contasapp/contas-ingest/internal/entity"
	"github.com/contasapp/contas-ingest/internal/review"
)

const maxCommitBody = 1 << 20

type commitResponse struct {
	Success     bool                `json:"success"`
	Transaction *entity.Transaction `json:"transaction,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// handleCommit turns a reviewed draft into a stored transaction. The body is
// schema-checked before decoding so malformed requests never reach the
// review service.
func (s *Server) handleCommit(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCommitBody))
	if err != nil {
		respondError(w, http.StatusBadRequest, "cannot read request body")
		return
	}

	if err := review.ValidateDraftJSON(body); err != nil {
		respondError(w, http.StatusUnprocessableEntity, err.Error())
		return
	}

	var draft review.Draft
	if err := json.Unmarshal(body, &draft); err != nil {
		respondError(w, http.StatusBadRequest, "cannot decode request body")
		return
	}

	tx, err := s.review.Commit(r.Context(), draft)
	if err != nil {
		if errors.Is(err, common.ErrCommitValidation) {
			respondError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.logger.Error("commit failed", "error", err)
		respondError(w, http.StatusInternalServerError, "could not save transaction")
		return
	}

	respondJSON(w, http.StatusCreated, commitResponse{Success: true, Transaction: &tx})
}
