package httpapi

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/spigell/leadscore/internal/metrics"
	"github.com/spigell/leadscore/internal/store"
)

// ClassifierInfo describes the active intent classifier for health checks.
type ClassifierInfo interface {
	Mode() string
	Provider() string
	Model() string
}

type Deps struct {
	Store *store.Store

	// Run scores a lead snapshot; usually (*scoring.Pipeline).Run.
	Run store.RunFunc

	Classifier ClassifierInfo

	Logger  *zap.Logger
	Metrics *metrics.Recorder

	// MetricsHandler is mounted on /metrics when set.
	MetricsHandler http.Handler

	// MaxUploadBytes caps lead uploads. Zero means 32 MiB.
	MaxUploadBytes int64
}
