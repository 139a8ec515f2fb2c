package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/alertgate/alertgate/internal/alert"
	"github.com/alertgate/alertgate/internal/config"
	"github.com/alertgate/alertgate/internal/exchange"
	"github.com/alertgate/alertgate/internal/handler"
	"github.com/alertgate/alertgate/internal/middleware"
	"github.com/alertgate/alertgate/internal/pkg/logger"
	"github.com/alertgate/alertgate/internal/service"
	"github.com/alertgate/alertgate/internal/signer"
)

func main() {
	// 1. Load Configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	// 2. Initialize Logger (with the ring buffer behind /logs)
	logger.Init(cfg.Log.Level, cfg.Log.BufferSize)

	// 3. Select Signer by credential shape. Missing or broken credentials are
	// not fatal: the gateway stays up and signing calls fail closed.
	sg, err := signer.New(cfg.Coinbase)
	if err != nil {
		logger.Warn("exchange credentials unavailable, order placement disabled", "error", err.Error())
	}

	// 4. Core Services
	client := exchange.NewClient(cfg.Coinbase.BaseURL, sg)
	sizer := service.NewSizer(cfg.Trading.UseTenPercent)
	trader := service.NewTrader(client, sizer)
	parser := alert.NewParser(cfg.Trading.DefaultProduct)

	// Startup probe: confirm connectivity when credentials exist.
	if err == nil {
		probeCtx, cancel := context.WithTimeout(context.Background(), 20*time.Second)
		balances := client.Balances(probeCtx)
		cancel()
		logger.Info("connected to Coinbase", "currencies", len(balances))
	}

	// 5. Handlers
	webhookHandler := handler.NewWebhookHandler(parser, trader)
	statusHandler := handler.NewStatusHandler(client)

	// 6. Router
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.JournalMiddleware())
	// Innermost so the journal and metrics see the final response status.
	r.Use(middleware.ErrorHandler())

	r.GET("/", statusHandler.Home)
	r.GET("/health", statusHandler.Health)
	r.GET("/logs", statusHandler.Logs)
	r.POST("/webhook", webhookHandler.Receive)
	r.POST("/webhook/test", webhookHandler.DryRun)

	if cfg.Metrics.Enabled {
		r.GET(cfg.Metrics.Path, gin.WrapH(promhttp.Handler()))
	}

	// 7. Start Server with Graceful Shutdown
	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: r,
	}

	go func() {
		logger.Info("alertgate started", "port", cfg.Server.Port,
			"use_ten_percent", cfg.Trading.UseTenPercent,
			"default_product", cfg.Trading.DefaultProduct)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server listen failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown: ", err)
	}

	logger.Info("server exiting")
}
