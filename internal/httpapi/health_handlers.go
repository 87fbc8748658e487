package httpapi

import (
	"net/http"

	"github.com/spigell/leadscore/internal/store"
)

type HealthHandler struct {
	Store      *store.Store
	Classifier ClassifierInfo
}

func (h HealthHandler) Root(w http.ResponseWriter, r *http.Request) {
	WriteJSON(w, http.StatusOK, map[string]any{
		"message": "Lead Scoring API is running!",
	})
}

func (h HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	leadCount, resultCount := h.Store.Counts()

	classifier := map[string]string{"mode": "mock"}
	if h.Classifier != nil {
		classifier["mode"] = h.Classifier.Mode()
		classifier["provider"] = h.Classifier.Provider()
		classifier["model"] = h.Classifier.Model()
	}

	WriteJSON(w, http.StatusOK, map[string]any{
		"ok":         true,
		"classifier": classifier,
		"leads":      leadCount,
		"results":    resultCount,
	})
}
