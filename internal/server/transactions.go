package server

import (
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/contasapp/contas-ingest/internal/common"
	"github.com/contasapp/contas-ingest/internal/entity"
)

type listResponse struct {
	Success      bool                 `json:"success"`
	Transactions []entity.Transaction `json:"transactions"`
	Error        string               `json:"error,omitempty"`
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}
	from, to, err := dateWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	txs, err := s.store.List(r.Context(), userID, from, to)
	if err != nil {
		s.logger.Error("list transactions failed", "user_id", userID, "error", err)
		respondError(w, http.StatusInternalServerError, "could not list transactions")
		return
	}
	if txs == nil {
		txs = []entity.Transaction{}
	}
	respondJSON(w, http.StatusOK, listResponse{Success: true, Transactions: txs})
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}
	id := chi.URLParam(r, "id")

	if err := s.store.Delete(r.Context(), id, userID); err != nil {
		if errors.Is(err, common.ErrNotFound) {
			respondError(w, http.StatusNotFound, "transaction not found")
			return
		}
		s.logger.Error("delete transaction failed", "id", id, "error", err)
		respondError(w, http.StatusInternalServerError, "could not delete transaction")
		return
	}
	respondJSON(w, http.StatusOK, map[string]any{"success": true})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	if userID == "" {
		respondError(w, http.StatusBadRequest, "user_id query parameter is required")
		return
	}
	from, to, err := dateWindow(r)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	data, err := s.export.TransactionsXLSX(r.Context(), userID, from, to)
	if err != nil {
		s.logger.Error("export failed", "user_id", userID, "error", err)
		respondError(w, http.StatusInternalServerError, "could not build export")
		return
	}

	w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	w.Header().Set("Content-Disposition", `attachment; filename="transactions.xlsx"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(data)
}

// dateWindow parses optional from/to query parameters (YYYY-MM-DD).
func dateWindow(r *http.Request) (from, to *time.Time, err error) {
	parse := func(key string) (*time.Time, error) {
		v := r.URL.Query().Get(key)
		if v == "" {
			return nil, nil
		}
		t, err := time.Parse("2006-01-02", v)
		if err != nil {
			return nil, errors.New(key + " must be YYYY-MM-DD")
		}
		return &t, nil
	}
	if from, err = parse("from"); err != nil {
		return nil, nil, err
	}
	if to, err = parse("to"); err != nil {
		return nil, nil, err
	}
	return from, to, nil
}
