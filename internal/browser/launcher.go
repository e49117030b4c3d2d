// Package browser runs the return notice inside a live Chromium tab over CDP
// and manages a local Chromium process for previews.
package browser

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"syscall"
	"time"
)

// LaunchConfig holds browser launch configuration.
type LaunchConfig struct {
	CDPAddress   string
	CDPPort      int
	ProfileDir   string
	LogFileDir   string
	CrashDumpDir string
	Headless     bool
	WindowSize   string
}

// Launcher manages the lifecycle of a preview browser process.
type Launcher struct {
	cfg     LaunchConfig
	cmd     *exec.Cmd
	logFile *os.File
	running bool
}

// NewLauncher creates a launcher with the given config.
func NewLauncher(cfg LaunchConfig) *Launcher {
	if cfg.WindowSize == "" {
		cfg.WindowSize = "1280,800"
	}
	return &Launcher{cfg: cfg}
}

// DetectBrowser finds an available Chrome/Chromium binary.
func DetectBrowser() (string, error) {
	candidates := []string{"chromium-browser", "chromium", "google-chrome", "google-chrome-stable"}
	for _, name := range candidates {
		if path, err := exec.LookPath(name); err == nil {
			return path, nil
		}
	}
	if runtime.GOOS == "darwin" {
		macPath := "/Applications/Google Chrome.app/Contents/MacOS/Google Chrome"
		if _, err := os.Stat(macPath); err == nil {
			return macPath, nil
		}
	}
	return "", fmt.Errorf("no supported browser found (tried %v)", candidates)
}

func isPortInUse(address string, port int) bool {
	conn, err := net.DialTimeout("tcp", fmt.Sprintf("%s:%d", address, port), time.Second)
	if err != nil {
		return false
	}
	_ = conn.Close()
	return true
}

// Launch starts the browser on about:blank unless the CDP port already
// answers, in which case the running browser is reused.
func (l *Launcher) Launch(ctx context.Context) error {
	if isPortInUse(l.cfg.CDPAddress, l.cfg.CDPPort) {
		slog.Info("browser already running, reusing it",
			"address", l.cfg.CDPAddress, "port", l.cfg.CDPPort)
		return nil
	}

	browserPath, err := DetectBrowser()
	if err != nil {
		return err
	}
	slog.Info("detected browser", "path", browserPath)

	for _, dir := range []string{l.cfg.ProfileDir, l.cfg.LogFileDir, l.cfg.CrashDumpDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create browser dir %s: %w", dir, err)
		}
	}

	args := []string{
		fmt.Sprintf("--remote-debugging-port=%d", l.cfg.CDPPort),
		fmt.Sprintf("--remote-debugging-address=%s", l.cfg.CDPAddress),
		fmt.Sprintf("--user-data-dir=%s", l.cfg.ProfileDir),
		fmt.Sprintf("--crash-dumps-dir=%s", l.cfg.CrashDumpDir),
		"--no-first-run",
		"--no-default-browser-check",
		"--disable-dev-shm-usage",
		"--disable-breakpad",
		fmt.Sprintf("--window-size=%s", l.cfg.WindowSize),
	}
	if l.cfg.Headless {
		args = append(args, "--headless=new")
	}
	args = append(args, "about:blank")

	l.cmd = exec.Command(browserPath, args...)
	logFile, err := os.Create(filepath.Join(l.cfg.LogFileDir, "chromium.log"))
	if err != nil {
		return fmt.Errorf("create browser log: %w", err)
	}
	l.cmd.Stdout = logFile
	l.cmd.Stderr = logFile

	if err := l.cmd.Start(); err != nil {
		_ = logFile.Close()
		return fmt.Errorf("start browser: %w", err)
	}
	l.logFile = logFile
	l.running = true
	slog.Info("browser process started", "pid", l.cmd.Process.Pid, "headless", l.cfg.Headless)

	if err := l.waitForCDP(ctx); err != nil {
		l.Stop()
		return fmt.Errorf("waiting for CDP: %w", err)
	}
	slog.Info("CDP endpoint ready", "address", l.cfg.CDPAddress, "port", l.cfg.CDPPort)
	return nil
}

// waitForCDP polls /json/version until the endpoint responds.
func (l *Launcher) waitForCDP(ctx context.Context) error {
	url := fmt.Sprintf("http://%s:%d/json/version", l.cfg.CDPAddress, l.cfg.CDPPort)
	deadline := time.After(15 * time.Second)
	ticker := time.NewTicker(250 * time.Millisecond)
	defer ticker.Stop()

	client := &http.Client{Timeout: time.Second}
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-deadline:
			return fmt.Errorf("CDP did not become ready within 15s at %s", url)
		case <-ticker.C:
			resp, err := client.Get(url)
			if err != nil {
				continue
			}
			_ = resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
	}
}

// Running reports whether this launcher spawned a browser process.
func (l *Launcher) Running() bool {
	return l.running
}

// Stop terminates a spawned browser with SIGTERM, falling back to SIGKILL,
// then closes its log. A reused browser is left alone.
func (l *Launcher) Stop() {
	defer l.closeLog()
	if !l.running || l.cmd == nil || l.cmd.Process == nil {
		return
	}
	slog.Info("stopping browser", "pid", l.cmd.Process.Pid)
	_ = l.cmd.Process.Signal(syscall.SIGTERM)

	done := make(chan struct{})
	go func() {
		_ = l.cmd.Wait()
		close(done)
	}()

	select {
	case <-done:
		slog.Info("browser stopped gracefully")
	case <-time.After(5 * time.Second):
		slog.Warn("browser did not exit, sending SIGKILL")
		_ = l.cmd.Process.Kill()
		<-done
	}
	l.running = false
}

func (l *Launcher) closeLog() {
	if l.logFile == nil {
		return
	}
	if err := l.logFile.Close(); err != nil {
		slog.Warn("close browser log failed", "error", err)
	}
	l.logFile = nil
}
