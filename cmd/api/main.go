package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	httpadapter "github.com/amoghlakshman/cafe-insights/internal/adapters/http"
	"github.com/amoghlakshman/cafe-insights/internal/bootstrap"
	"github.com/amoghlakshman/cafe-insights/internal/config"
	"github.com/amoghlakshman/cafe-insights/internal/observability/logging"
	"github.com/amoghlakshman/cafe-insights/internal/observability/metrics"
)

func main() {
	cfg := config.Load()
	slog.SetDefault(logging.NewJSONLogger("api", cfg.LogLevel))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	httpMetrics := metrics.NewHTTPServerMetrics("api")

	app, err := bootstrap.New(ctx, cfg, httpMetrics.PredictRecorder("api"))
	if err != nil {
		log.Fatalf("bootstrap error: %v", err)
	}
	defer app.Close()

	router := httpadapter.NewRouter(
		app.PredictUC,
		app.PersonaUC,
		app.EstimateUC,
		app.InsightsUC,
		app.Audit,
		httpMetrics,
		httpadapter.Options{
			Service:                "api",
			RecentPredictionsLimit: cfg.RecentPredictionsLimit,
			RateLimitRPS:           cfg.APIRateLimitRPS,
			RateLimitBurst:         cfg.APIRateLimitBurst,
			MaxConcurrent:          cfg.APIMaxConcurrent,
			BackpressureWait:       cfg.APIBackpressureWait,
		},
	)
	server := &http.Server{
		Addr:         ":" + cfg.APIPort,
		Handler:      router.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		slog.Info("api_listening", "port", cfg.APIPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("api server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("api_shutdown_error", "error", err)
	}
}
