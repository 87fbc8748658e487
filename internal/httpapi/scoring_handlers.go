package httpapi

import (
	"bytes"
	"context"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/leadscore/internal/leads"
	"github.com/spigell/leadscore/internal/store"
)

// ScoringHandler runs scoring and serves its results.
type ScoringHandler struct {
	Store  *store.Store
	Run    store.RunFunc
	Logger *zap.Logger
}

// Score runs the batch detached from the request's cancellation.
func (h ScoringHandler) Score(w http.ResponseWriter, r *http.Request) {
	results, err := h.Store.Score(context.WithoutCancel(r.Context()), h.Run)
	if errors.Is(err, store.ErrNoOffer) {
		WriteError(w, r, http.StatusBadRequest, "no_offer", "No offer found. POST /offer first.")
		return
	}
	if err != nil {
		h.Logger.Error("scoring failed", zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "scored": results.Len()})
}

func (h ScoringHandler) Results(w http.ResponseWriter, r *http.Request) {
	items := []leads.ScoredLead{}
	if results := h.Store.Results(); results.Len() > 0 {
		items = results.Items
	}
	WriteJSON(w, http.StatusOK, items)
}

func (h ScoringHandler) Export(w http.ResponseWriter, r *http.Request) {
	var buf bytes.Buffer
	err := leads.WriteCSV(&buf, h.Store.Results())
	if errors.Is(err, leads.ErrNoResults) {
		WriteError(w, r, http.StatusNotFound, "not_found", "No results yet.")
		return
	}
	if err != nil {
		h.Logger.Error("export failed", zap.Error(err))
		WriteError(w, r, http.StatusInternalServerError, "internal_error", err.Error())
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", "attachment; filename=results.csv")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(buf.Bytes())
}

func (h ScoringHandler) Reset(w http.ResponseWriter, r *http.Request) {
	h.Store.Reset()
	h.Logger.Info("store reset")
	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
