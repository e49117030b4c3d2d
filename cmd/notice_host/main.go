package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgnsrekt/return_notice/internal/api"
	"github.com/dgnsrekt/return_notice/internal/config"
	"github.com/dgnsrekt/return_notice/internal/controller"
	"github.com/dgnsrekt/return_notice/internal/netutil"
	"github.com/dgnsrekt/return_notice/internal/notifier"
	"github.com/dgnsrekt/return_notice/internal/notify"
	"github.com/dgnsrekt/return_notice/internal/relay"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load notice host config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		if _, writeErr := io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n"); writeErr != nil {
			slog.Debug("logger setup stderr write failed", "error", writeErr)
		}
		os.Exit(1)
	}

	slog.Info("notice_host config loaded",
		"bind_addr", cfg.BindAddr,
		"port_auto_fallback", cfg.PortAutoFallback,
		"port_candidates", cfg.PortCandidates,
		"site_dir", cfg.SiteDir,
		"program_name", cfg.Profile.ProgramName,
		"locale", cfg.Profile.Locale,
		"dialog_id", cfg.Profile.DialogID,
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	if info, err := os.Stat(cfg.SiteDir); err != nil || !info.IsDir() {
		slog.Error("site directory unavailable", "site_dir", cfg.SiteDir, "error", err)
		os.Exit(1)
	}

	ln, err := netutil.Listen(cfg.BindAddr, cfg.PortCandidates, cfg.PortAutoFallback)
	if err != nil {
		slog.Error("failed to select bind address", "preferred", cfg.BindAddr, "error", err)
		os.Exit(1)
	}
	bindAddr := ln.Addr().String()

	broker := relay.NewBroker()
	sinks := notifier.Sinks{broker}

	runCtx, stopRun := context.WithCancel(context.Background())
	defer stopRun()
	if cfg.NTFYURL != "" {
		ntfy := notify.NewSink(&http.Client{Timeout: 10 * time.Second}, cfg.NTFYURL, cfg.NTFYKinds...)
		go ntfy.Run(runCtx)
		sinks = append(sinks, ntfy)
		slog.Info("ntfy notifications enabled", "kinds", cfg.NTFYKinds)
	}

	svc := controller.NewService(cfg.SiteDir, cfg.Profile, sinks)
	h := api.NewServer(svc, broker)

	srv := &http.Server{Handler: h, ReadHeaderTimeout: 10 * time.Second}

	go func() {
		slog.Info("notice_host listening", "addr", bindAddr, "docs", "http://"+bindAddr+"/docs")
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			slog.Error("notice_host server failed", "error", err)
			os.Exit(1)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("notice_host shutdown failed", "error", err)
	}
	slog.Info("notice_host stopped", "events_published", broker.Published())
}

func setupLogger(level, filename string) error {
	if err := os.MkdirAll("logs", 0o755); err != nil {
		return err
	}

	logWriter := &lumberjack.Logger{
		Filename:   filename,
		MaxSize:    25,
		MaxBackups: 10,
		MaxAge:     14,
		Compress:   true,
	}

	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		slogLevel = slog.LevelInfo
	}

	h := slog.NewTextHandler(io.MultiWriter(os.Stdout, logWriter), &slog.HandlerOptions{Level: slogLevel})
	slog.SetDefault(slog.New(h))
	return nil
}
