package config

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// PreviewConfig holds configuration for the live browser preview.
type PreviewConfig struct {
	CDPAddress string
	CDPPort    int
	// Launch starts a local Chromium when nothing listens on the CDP port.
	Launch       bool
	ProfileDir   string
	LogFileDir   string
	CrashDumpDir string
	Headless     bool

	EvalTimeoutMS int

	URL      string
	TimeoutS int

	LogLevel string
	LogFile  string

	Profile Profile
}

// LoadPreview reads preview configuration from environment variables.
func LoadPreview() (*PreviewConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	profile, err := loadProfileFromEnv()
	if err != nil {
		return nil, err
	}

	cfg := &PreviewConfig{
		CDPAddress:    getEnvOrDefault("CHROMIUM_CDP_ADDRESS", "127.0.0.1"),
		CDPPort:       getEnvIntOrDefault("CHROMIUM_CDP_PORT", 9220),
		Launch:        getEnvBoolOrDefault("PREVIEW_LAUNCH_BROWSER", true),
		ProfileDir:    getEnvOrDefault("PREVIEW_PROFILE_DIR", "./browser_profile"),
		LogFileDir:    getEnvOrDefault("PREVIEW_BROWSER_LOG_DIR", "./logs/browser"),
		CrashDumpDir:  getEnvOrDefault("PREVIEW_CRASH_DUMP_DIR", "./logs/crash"),
		Headless:      getEnvBoolOrDefault("PREVIEW_HEADLESS", false),
		EvalTimeoutMS: getEnvIntOrDefault("PREVIEW_EVAL_TIMEOUT_MS", 5000),
		URL:           getEnvOrDefault("PREVIEW_URL", "http://127.0.0.1:8190/?payment_status=Completed&tx=PREVIEW&mc_gross=25.00&mc_currency=USD"),
		TimeoutS:      getEnvIntOrDefault("PREVIEW_TIMEOUT_S", 120),
		LogLevel:      strings.ToLower(getEnvOrDefault("PREVIEW_LOG_LEVEL", "info")),
		LogFile:       getEnvOrDefault("PREVIEW_LOG_FILE", "logs/notice_preview.log"),
		Profile:       profile,
	}
	if cfg.TimeoutS < 5 {
		cfg.TimeoutS = 5
	}
	return cfg, nil
}

// CDPURL returns the CDP HTTP endpoint used by the chromedp remote allocator.
func (c *PreviewConfig) CDPURL() string {
	return "http://" + c.CDPAddress + ":" + strconv.Itoa(c.CDPPort)
}
