package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/abdullahNavin/bookHuntBD-server/aggregate"
	"github.com/abdullahNavin/bookHuntBD-server/config"
	"github.com/abdullahNavin/bookHuntBD-server/server"
	"github.com/abdullahNavin/bookHuntBD-server/sites"
)

func main() {
	// Best effort; a missing .env just means plain process env.
	_ = godotenv.Load()

	defaultCfg := config.DefaultConfig()
	addrDefault := defaultCfg.Addr
	if value, ok := config.EnvString("BOOKHUNT_ADDR"); ok {
		addrDefault = value
	}
	userAgentDefault := defaultCfg.UserAgent
	if value, ok := config.EnvString("BOOKHUNT_USER_AGENT"); ok {
		userAgentDefault = value
	}
	timeoutDefault := defaultCfg.Timeout
	if value, ok, err := config.EnvDuration("BOOKHUNT_TIMEOUT"); err != nil {
		fmt.Fprintf(os.Stderr, "invalid BOOKHUNT_TIMEOUT: %v\n", err)
		os.Exit(1)
	} else if ok {
		timeoutDefault = value
	}

	addr := flag.String("addr", addrDefault, "HTTP listen address")
	userAgent := flag.String("user-agent", userAgentDefault, "User-Agent sent to the bookstore sites")
	timeout := flag.Duration("timeout", timeoutDefault, "Timeout for each outbound site request")
	verbose := flag.Bool("v", false, "Enable verbose logging")
	flag.Parse()

	logger, level := newLogger(*verbose)
	slog.SetDefault(logger)
	slog.SetLogLoggerLevel(level.Level())

	cfg := config.DefaultConfig()
	cfg.Addr = *addr
	cfg.UserAgent = *userAgent
	cfg.Timeout = *timeout
	cfg.Verbose = *verbose
	if err := cfg.Validate(); err != nil {
		slog.Error("invalid configuration", slog.Any("error", err))
		os.Exit(1)
	}

	metrics := sites.NewMetrics()
	aggregator := aggregate.New(sites.All(cfg, metrics))

	srv := &http.Server{
		Addr:    cfg.Addr,
		Handler: server.New(aggregator, metrics.Registry).Handler(),
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	go func() {
		slog.Info("server listening", slog.String("addr", cfg.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server failed", slog.Any("error", err))
			stop()
		}
	}()

	<-ctx.Done()
	slog.Info("shutdown signal received, draining in-flight requests")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown failed", slog.Any("error", err))
	}
}

func newLogger(verbose bool) (*slog.Logger, *slog.LevelVar) {
	level := &slog.LevelVar{}
	if verbose {
		level.Set(slog.LevelDebug)
	} else {
		level.Set(slog.LevelInfo)
	}

	opts := &slog.HandlerOptions{Level: level}
	var handler slog.Handler
	if isTerminal(os.Stdout) {
		handler = slog.NewTextHandler(os.Stdout, opts)
	} else {
		handler = slog.NewJSONHandler(os.Stdout, opts)
	}

	return slog.New(handler), level
}

func isTerminal(f *os.File) bool {
	info, err := f.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}
