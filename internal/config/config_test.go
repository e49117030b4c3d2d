package config

import (
	"os"
	"path/filepath"
	"testing"

	"golang.org/x/text/language"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != "127.0.0.1:8190" {
		t.Fatalf("BindAddr = %q", cfg.BindAddr)
	}
	if cfg.Profile != DefaultProfile() {
		t.Fatalf("Profile = %+v; want defaults", cfg.Profile)
	}
	if len(cfg.PortCandidates) != 2 {
		t.Fatalf("PortCandidates = %v", cfg.PortCandidates)
	}
}

func TestLoadEnvOverrides(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NOTICE_BIND_ADDR", "0.0.0.0:9000")
	t.Setenv("NOTICE_PORT_CANDIDATES", " 127.0.0.1:9001, ,127.0.0.1:9002")
	t.Setenv("NOTICE_PORT_AUTO_FALLBACK", "false")
	t.Setenv("NOTICE_PROGRAM_NAME", "Spring Appeal")
	t.Setenv("NOTICE_LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BindAddr != "0.0.0.0:9000" || cfg.PortAutoFallback {
		t.Fatalf("cfg = %+v", cfg)
	}
	if len(cfg.PortCandidates) != 2 || cfg.PortCandidates[1] != "127.0.0.1:9002" {
		t.Fatalf("PortCandidates = %v", cfg.PortCandidates)
	}
	if cfg.Profile.ProgramName != "Spring Appeal" {
		t.Fatalf("ProgramName = %q", cfg.Profile.ProgramName)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("LogLevel = %q; want lowercased", cfg.LogLevel)
	}
}

func TestLoadProfileFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "profile.yaml")
	data := "program_name: Whole Child Fund\nlocale: en-GB\n"
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}

	p, err := LoadProfile(path)
	if err != nil {
		t.Fatalf("LoadProfile() error = %v", err)
	}
	if p.ProgramName != "Whole Child Fund" || p.Title != DefaultProfile().Title {
		t.Fatalf("LoadProfile() = %+v", p)
	}
	if p.Tag() != language.BritishEnglish {
		t.Fatalf("Tag() = %v; want en-GB", p.Tag())
	}
}

func TestLoadProfileRejectsBadLocale(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	if err := os.WriteFile(path, []byte("locale: \"not a locale!!\"\n"), 0o644); err != nil {
		t.Fatalf("os.WriteFile() error = %v", err)
	}
	if _, err := LoadProfile(path); err == nil {
		t.Fatal("LoadProfile() error = nil; want locale error")
	}
}

func TestLoadProfileMissingFile(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("NOTICE_PROFILE", "does-not-exist.yaml")
	if _, err := Load(); err == nil {
		t.Fatal("Load() error = nil; want missing profile error")
	}
}

func TestLoadPreviewClampsTimeout(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("PREVIEW_TIMEOUT_S", "1")
	t.Setenv("CHROMIUM_CDP_PORT", "9333")
	cfg, err := LoadPreview()
	if err != nil {
		t.Fatalf("LoadPreview() error = %v", err)
	}
	if cfg.TimeoutS != 5 {
		t.Fatalf("TimeoutS = %d; want 5", cfg.TimeoutS)
	}
	if cfg.CDPURL() != "http://127.0.0.1:9333" {
		t.Fatalf("CDPURL() = %q", cfg.CDPURL())
	}
}

// chdir changes the working directory for the duration of the test,
// restoring it on cleanup (equivalent to testing.T.Chdir in Go 1.24+).
func chdir(t *testing.T, dir string) {
	t.Helper()
	prev, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir(%q): %v", dir, err)
	}
	t.Cleanup(func() {
		if err := os.Chdir(prev); err != nil {
			t.Fatalf("restore Chdir(%q): %v", prev, err)
		}
	})
}
