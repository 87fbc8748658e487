package httpapi

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"github.com/spigell/leadscore/internal/leads"
	"github.com/spigell/leadscore/internal/metrics"
	"github.com/spigell/leadscore/internal/store"
)

const defaultMaxUploadBytes = 32 << 20

type LeadsHandler struct {
	Store          *store.Store
	Logger         *zap.Logger
	Metrics        *metrics.Recorder
	MaxUploadBytes int64
}

func (h LeadsHandler) Upload(w http.ResponseWriter, r *http.Request) {
	limit := h.MaxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	file, header, err := r.FormFile("file")
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		WriteError(w, r, http.StatusRequestEntityTooLarge, "file_too_large",
			fmt.Sprintf("Upload exceeds the %d byte limit.", tooLarge.Limit))
		return
	}
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "missing_file", "Expected a multipart upload with a \"file\" field.")
		return
	}
	defer file.Close()

	name := strings.ToLower(header.Filename)
	if !strings.HasSuffix(name, ".csv") && !strings.HasSuffix(name, ".txt") {
		WriteError(w, r, http.StatusBadRequest, "unsupported_file", "Only CSV files supported.")
		return
	}

	batch, err := leads.ParseCSV(file)
	if err != nil {
		WriteError(w, r, http.StatusBadRequest, "invalid_csv", "Could not parse CSV: "+err.Error())
		return
	}

	total := h.Store.AddLeads(batch)
	h.Metrics.RecordLeadsIngested(len(batch))
	h.Logger.Info("leads imported",
		zap.String("file", header.Filename),
		zap.Int("imported", len(batch)),
		zap.Int("total", total),
	)

	WriteJSON(w, http.StatusOK, map[string]any{"status": "ok", "imported": len(batch)})
}
