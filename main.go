package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"signalrelaygo/internal/config"
	"signalrelaygo/internal/http/http_server"
	"signalrelaygo/internal/registry"
	"signalrelaygo/internal/services/signaling"
	"signalrelaygo/internal/sweeper"
)

var (
	Log, _ = zap.NewDevelopment()
)

func main() {
	defer Log.Sync()
	zap.ReplaceGlobals(Log)

	// 1. Load configuration
	cfg, err := config.LoadConfig()
	if err != nil {
		Log.Fatal("Failed to load configuration", zap.Error(err))
	}
	Log.Debug("Configuration loaded successfully", zap.Any("config", cfg))

	// 2. Context with signal handling
	ctx, stop := signal.NotifyContext(context.Background(),
		os.Interrupt, syscall.SIGINT, syscall.SIGTERM,
	)
	defer stop()

	// 3. The in-memory mailbox registry — the only state this process has.
	reg := registry.New(registry.RealClock{})

	// 4. Signaling service (fan-out, poll, status)
	signalingService := signaling.NewSignalingService(reg, cfg.HttpServerPort)

	// 5. Background: periodic expiry sweep
	sweeper.Run(ctx, reg,
		time.Duration(cfg.SweepIntervalSeconds)*time.Second,
		time.Duration(cfg.MessageMaxAgeSeconds)*time.Second,
	)

	Log.Info("WebRTC signaling relay starting",
		zap.Uint16("port", cfg.HttpServerPort),
		zap.String("endpoints", "POST /offer, POST /answer, POST /ice-candidate, GET /messages, GET /status"),
	)

	// 6. HTTP server
	httpServer := http_server.NewHttpServer(ctx, cfg.HttpServerPort, signalingService)
	if err := httpServer.Start(); err != nil {
		Log.Fatal("Failed to start HTTP server", zap.Error(err))
	}
}
