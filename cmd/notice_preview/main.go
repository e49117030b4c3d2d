package main

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dgnsrekt/return_notice/internal/browser"
	"github.com/dgnsrekt/return_notice/internal/config"
	"github.com/dgnsrekt/return_notice/internal/notice"
	"github.com/dgnsrekt/return_notice/internal/notifier"
	"gopkg.in/natefinch/lumberjack.v2"
)

func main() {
	cfg, err := config.LoadPreview()
	if err != nil {
		slog.Error("failed to load preview config", "error", err)
		os.Exit(1)
	}

	if err := setupLogger(cfg.LogLevel, cfg.LogFile); err != nil {
		if _, writeErr := io.WriteString(os.Stderr, "logger setup failed: "+err.Error()+"\n"); writeErr != nil {
			slog.Debug("logger setup stderr write failed", "error", writeErr)
		}
		os.Exit(1)
	}

	if len(os.Args) > 1 {
		cfg.URL = os.Args[1]
	}

	slog.Info("notice_preview config loaded",
		"cdp_url", cfg.CDPURL(),
		"launch", cfg.Launch,
		"headless", cfg.Headless,
		"timeout_s", cfg.TimeoutS,
		"program_name", cfg.Profile.ProgramName,
		"log_level", cfg.LogLevel,
		"log_file", cfg.LogFile,
	)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("notice_preview failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.PreviewConfig) error {
	if cfg.Launch {
		launcher := browser.NewLauncher(browser.LaunchConfig{
			CDPAddress:   cfg.CDPAddress,
			CDPPort:      cfg.CDPPort,
			ProfileDir:   cfg.ProfileDir,
			LogFileDir:   cfg.LogFileDir,
			CrashDumpDir: cfg.CrashDumpDir,
			Headless:     cfg.Headless,
		})
		if err := launcher.Launch(ctx); err != nil {
			return err
		}
		defer launcher.Stop()
	}

	tabCtx, detach, err := browser.Attach(ctx, cfg.CDPURL())
	if err != nil {
		return err
	}
	defer detach()

	tab, err := browser.NewTab(tabCtx, time.Duration(cfg.EvalTimeoutMS)*time.Millisecond)
	if err != nil {
		return err
	}
	if err := tab.Navigate(cfg.URL); err != nil {
		return err
	}

	n := notifier.New(notifier.Config{
		DialogID: cfg.Profile.DialogID,
		Title:    cfg.Profile.Title,
		Composer: cfg.Profile.Composer(),
		Sink: notifier.SinkFunc(func(e notifier.Event) {
			slog.Info("notice event", "kind", e.Kind, "dialog_id", e.DialogID, "trigger", e.Trigger, "removed", e.Removed)
		}),
	})
	out := n.Run(tab)
	slog.Info("notice_preview run complete",
		"detected", out.Detected,
		"shown", out.Shown,
		"removed", out.Sanitized.Removed,
		"href", tab.Href(),
	)
	if !out.Shown {
		return nil
	}

	waitCtx, cancel := context.WithTimeout(ctx, time.Duration(cfg.TimeoutS)*time.Second)
	defer cancel()
	if err := tab.Wait(waitCtx, out.Dialog); err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			slog.Info("notice_preview closing open dialog", "reason", err)
			out.Dialog.Dismiss(notice.TriggerTeardown)
			return nil
		}
		return err
	}
	return nil
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
