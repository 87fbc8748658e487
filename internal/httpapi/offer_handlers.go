package httpapi

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/leadscore/internal/leads"
	"github.com/spigell/leadscore/internal/logger"
	"github.com/spigell/leadscore/internal/store"
)

type OfferHandler struct {
	Store  *store.Store
	Logger *zap.Logger
}

func (h OfferHandler) Save(w http.ResponseWriter, r *http.Request) {
	var offer leads.Offer
	if err := json.NewDecoder(r.Body).Decode(&offer); err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_offer", "Invalid offer payload: "+err.Error())
		return
	}

	offer.Name = strings.TrimSpace(offer.Name)
	if offer.Name == "" {
		WriteError(w, r, http.StatusBadRequest, "invalid_offer", "Offer name is required.")
		return
	}

	h.Store.SetOffer(offer)
	h.Logger.Info("offer saved",
		zap.String(logger.FieldOffer, offer.Name),
		zap.Int("value_props", len(offer.ValueProps)),
		zap.Int("ideal_use_cases", len(offer.IdealUseCases)),
	)

	WriteJSON(w, http.StatusOK, map[string]string{"status": "ok", "message": "Offer saved."})
}
