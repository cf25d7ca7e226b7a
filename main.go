package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"caloriescan/internal/api"
	"caloriescan/internal/config"
	"caloriescan/internal/logger"
	"caloriescan/internal/service/ai"
)

func main() {
	cfg, err := config.Load(os.Getenv("CALORIESCAN_CONFIG"))
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	zl, err := logger.New(cfg.BasicConfig.LogLevel)
	if err != nil {
		log.Fatalf("init logger: %v", err)
	}
	defer zl.Sync()

	analyzer, err := ai.NewAnalyzer(context.Background(), cfg)
	if err != nil {
		zl.Fatal("init analyzer", zap.String("provider", cfg.Analyzer.Provider), zap.Error(err))
	}
	analyzer = ai.WithLogging(ai.WithTimeout(analyzer, cfg.Analyzer.Timeout), cfg.Analyzer.Provider, zl)

	gin.SetMode(cfg.BasicConfig.GinMode)
	router := gin.New()
	handler := api.NewHandler(analyzer, zl, cfg.BasicConfig.MaxUploadBytes, cfg.BasicConfig.StaticDir)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		zl.Info("server running",
			zap.String("address", srv.Addr),
			zap.String("provider", cfg.Analyzer.Provider),
			zap.String("region", cfg.Analyzer.Region),
			zap.String("health", "http://localhost:"+cfg.BasicConfig.Port+"/health"),
		)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			zl.Fatal("server stopped", zap.Error(err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	<-ctx.Done()
	zl.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		zl.Error("forced shutdown", zap.Error(err))
	}
}
