package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"github.com/cardroom/holdem/internal/history"
	"github.com/cardroom/holdem/internal/server"
)

var CLI struct {
	Config   string `short:"c" default:"holdem-server.hcl" help:"Path to HCL configuration file"`
	Addr     string `short:"a" help:"Bind address (overrides config)"`
	Port     int    `short:"p" help:"Bind port (overrides config)"`
	LogLevel string `short:"l" help:"Log level (overrides config)"`
}

func main() {
	kctx := kong.Parse(&CLI)

	cfg, err := server.LoadConfig(CLI.Config)
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		kctx.Exit(1)
	}
	if CLI.Addr != "" {
		cfg.Server.Address = CLI.Addr
	}
	if CLI.Port != 0 {
		cfg.Server.Port = CLI.Port
	}
	if CLI.LogLevel != "" {
		cfg.Server.LogLevel = CLI.LogLevel
	}
	if err := cfg.Validate(); err != nil {
		fmt.Printf("Invalid configuration: %v\n", err)
		kctx.Exit(1)
	}

	logger := log.New(os.Stderr)
	switch cfg.Server.LogLevel {
	case "debug":
		logger.SetLevel(log.DebugLevel)
	case "warn":
		logger.SetLevel(log.WarnLevel)
	case "error":
		logger.SetLevel(log.ErrorLevel)
	default:
		logger.SetLevel(log.InfoLevel)
	}

	recorder, cleanup, err := buildRecorder(cfg, logger)
	if err != nil {
		logger.Error("Failed to connect hand history store", "error", err)
		kctx.Exit(1)
	}
	defer cleanup()

	registry := server.NewRegistry(logger)
	clock := quartz.NewReal()
	for _, tableCfg := range cfg.Tables {
		room := server.NewRoom(tableCfg, logger, clock, recorder)
		if err := registry.Add(room); err != nil {
			logger.Error("Failed to register table", "error", err, "table", tableCfg.Name)
			kctx.Exit(1)
		}
		logger.Info("Created table",
			"name", tableCfg.Name,
			"stakes", fmt.Sprintf("%d/%d", tableCfg.SmallBlind, tableCfg.BigBlind),
			"timeout", tableCfg.TurnTimeoutSecs)
	}

	srv := server.NewServer(cfg, registry, logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Info("Starting holdem server", "addr", cfg.ListenAddress(), "tables", len(cfg.Tables))

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return registry.RunAll(ctx) })
	g.Go(func() error { srv.Run(ctx); return nil })
	g.Go(func() error { return srv.ListenAndServe(ctx) })

	if err := g.Wait(); err != nil {
		logger.Error("Server failed", "error", err)
		kctx.Exit(1)
	}
	logger.Info("Server stopped")
}

// buildRecorder wires the configured hand history backend
func buildRecorder(cfg *server.Config, logger *log.Logger) (history.Recorder, func(), error) {
	if !cfg.History.Enabled {
		return history.NopRecorder{}, func() {}, nil
	}

	client := redis.NewClient(&redis.Options{Addr: cfg.History.RedisAddr})
	if err := client.Ping(context.Background()).Err(); err != nil {
		_ = client.Close()
		return nil, nil, fmt.Errorf("pinging redis at %s: %w", cfg.History.RedisAddr, err)
	}
	logger.Info("Hand history enabled", "redis", cfg.History.RedisAddr, "keep", cfg.History.Keep)
	return history.NewRedisRecorder(client, cfg.History.Keep), func() { _ = client.Close() }, nil
}
