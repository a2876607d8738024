package main

import (
	"context"
	"errors"
	"log"
	"math/rand/v2"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"gnn-sim/backend/internal/config"
	"gnn-sim/backend/internal/content"
	"gnn-sim/backend/internal/game"
	"gnn-sim/backend/internal/telemetry"
	"gnn-sim/backend/internal/transport/control"
	"gnn-sim/backend/internal/transport/ws"
	"gnn-sim/backend/internal/world"
)

const (
	shutdownTimeout = 5 * time.Second
	monitorInterval = 30 * time.Second
)

func main() {
	logger := log.Default()

	cfg, err := config.Load(".env")
	if err != nil {
		logger.Fatalf("[Server] Ошибка конфигурации: %v", err)
	}
	config.Set(cfg)

	res, err := content.Load(content.DefaultAtlas(cfg.CreatureTextureSize, cfg.FoodTextureSize))
	if err != nil {
		logger.Fatalf("[Server] Ошибка загрузки ресурсов: %v", err)
	}

	w, err := world.NewWorld(cfg.Tuning, rand.New(rand.NewPCG(cfg.Seed, cfg.Seed)), logger)
	if err != nil {
		logger.Fatalf("[Server] Ошибка создания мира: %v", err)
	}
	if err := w.Initialize(res); err != nil {
		logger.Fatalf("[Server] Ошибка инициализации мира: %v", err)
	}

	tm := telemetry.NewTelemetryManager(cfg.TelemetryEntries, logger)
	wsServer := ws.NewServer(logger)

	gt := game.NewGameTicker(cfg.TPS, w, logger)
	game.RegisterDefaultSystems(gt, tm, wsServer, logger)
	gt.SetPaused(cfg.Paused)
	if err := gt.Start(); err != nil {
		logger.Fatalf("[Server] Ошибка запуска тикера: %v", err)
	}

	// gRPC плоскость управления
	lis, err := net.Listen("tcp", cfg.GRPCAddr)
	if err != nil {
		logger.Fatalf("[Server] Ошибка прослушивания %s: %v", cfg.GRPCAddr, err)
	}
	grpcServer := grpc.NewServer()
	control.NewServer(gt, logger).Register(grpcServer)
	go func() {
		logger.Printf("[Server] gRPC управление на %s", cfg.GRPCAddr)
		if err := grpcServer.Serve(lis); err != nil {
			logger.Printf("[Server] gRPC сервер остановлен: %v", err)
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	monitor := game.NewMonitor(gt, logger)
	monitor.Start(ctx, monitorInterval)

	httpServer := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: newMux(gt, monitor, tm, wsServer, logger),
	}
	go func() {
		logger.Printf("[Server] HTTP на %s (/ws, /stats, /health, /bottlenecks, /alerts, /metrics, /telemetry, /control)", cfg.HTTPAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatalf("[Server] Ошибка HTTP сервера: %v", err)
		}
	}()

	<-ctx.Done()

	logger.Printf("[Server] Получен сигнал завершения, остановка...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		logger.Printf("[Server] Ошибка остановки HTTP: %v", err)
	}
	wsServer.Close()
	grpcServer.GracefulStop()
	gt.Stop()
	tm.PrintSummary()

	logger.Printf("[Server] Остановлен")
}
