package cmd

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/spigell/leadscore/internal/httpapi"
	"github.com/spigell/leadscore/internal/logger"
	"github.com/spigell/leadscore/internal/metrics"
	"github.com/spigell/leadscore/internal/store"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the lead scoring HTTP API",
	Run: func(_ *cobra.Command, _ []string) {
		serve()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("addr", "", "listen address (default :8000)")
	viper.BindPFlag("server.addr", serveCmd.Flags().Lookup("addr"))
}

func serve() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger, err := logger.New(viper.GetBool("json"), viper.GetBool("debug"))
	if err != nil {
		log.Fatalf("creating a logger: %s", err)
	}
	defer logger.Sync()

	config, err := getConfig(viper.GetViper())
	if err != nil {
		logger.Fatal("getting a config", zap.Error(err))
	}

	logger.Info("starting the leadscore api", zap.String("version", version))

	recorder := metrics.NewRecorder(config.AI.Metrics)

	classifier, err := newClassifier(ctx, config.AI, logger, recorder)
	if err != nil {
		logger.Fatal("building intent classifier", zap.Error(err))
	}

	pipeline := newPipeline(classifier, config, logger, recorder)

	handler := httpapi.NewHandler(httpapi.Deps{
		Store:          store.New(),
		Run:            pipeline.Run,
		Classifier:     classifier,
		Logger:         logger,
		Metrics:        recorder,
		MetricsHandler: metrics.Handler(),
	})

	srv := &http.Server{
		Addr:         config.Server.Addr,
		Handler:      handler,
		ReadTimeout:  config.Server.ReadTimeout,
		WriteTimeout: config.Server.WriteTimeout,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server failed", zap.Error(err))
		}
	}()

	logger.Info("listening", zap.String("addr", config.Server.Addr), zap.String("classifier", classifier.Mode()))

	<-ctx.Done()
	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	}
}
