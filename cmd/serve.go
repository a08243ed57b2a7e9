package cmd

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"nearby-places/internal/calculator"
	"nearby-places/internal/jobs"
	"nearby-places/internal/logger"
	"nearby-places/internal/models"
	"nearby-places/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP and websocket server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd)
	},
}

func runServe(cmd *cobra.Command) error {
	a, err := loadApp(cmd)
	if err != nil {
		return err
	}
	cfg := a.cfg

	appLogger, err := logger.New(cfg.Env)
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}
	defer appLogger.Sync()

	start := models.Coordinate{Latitude: cfg.StartLat, Longitude: cfg.StartLng}
	if err := calculator.ValidateCoordinate(start); err != nil {
		return fmt.Errorf("start position: %w", err)
	}
	if cfg.RadiusKm < 0 {
		return fmt.Errorf("radius %v: %w", cfg.RadiusKm, calculator.ErrInvalidRadius)
	}

	if cfg.Env != "development" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := server.NewRouter(server.Options{
		Ranker:        a.ranker,
		Jobs:          jobs.NewStore(cfg.OutputDir, appLogger),
		Log:           appLogger,
		Env:           cfg.Env,
		SessionSecret: cfg.SessionSecret,
		Start:         start,
		RadiusKm:      cfg.RadiusKm,
		UploadDir:     cfg.UploadDir,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.ServerPort,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLogger.Info("starting server",
			zap.String("port", cfg.ServerPort),
			zap.Int("places", a.catalog.Len()),
			zap.Int("limit", a.ranker.Limit()),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case err := <-errCh:
		return fmt.Errorf("listen: %w", err)
	case <-quit:
	}

	appLogger.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	appLogger.Info("server exiting")
	return nil
}
