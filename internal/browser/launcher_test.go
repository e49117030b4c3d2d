package browser

import (
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"testing"
)

func TestStopClosesLogAndReapsProcess(t *testing.T) {
	sleep, err := exec.LookPath("sleep")
	if err != nil {
		t.Skip("sleep not available")
	}
	logFile, err := os.Create(filepath.Join(t.TempDir(), "chromium.log"))
	if err != nil {
		t.Fatal(err)
	}
	cmd := exec.Command(sleep, "30")
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		t.Fatalf("Start() error = %v", err)
	}

	l := NewLauncher(LaunchConfig{})
	l.cmd = cmd
	l.logFile = logFile
	l.running = true
	l.Stop()

	if l.Running() {
		t.Fatal("Running() = true after Stop()")
	}
	if err := logFile.Close(); !errors.Is(err, os.ErrClosed) {
		t.Fatalf("log Close() after Stop() = %v; want %v", err, os.ErrClosed)
	}
	if cmd.ProcessState == nil {
		t.Fatal("process not reaped")
	}
}

func TestStopWithoutProcessIsNoop(t *testing.T) {
	l := NewLauncher(LaunchConfig{})
	l.Stop()
	if l.Running() {
		t.Fatal("Running() = true")
	}
}
