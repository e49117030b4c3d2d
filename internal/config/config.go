package config

import (
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds configuration for the notice host server.
type Config struct {
	BindAddr         string
	PortCandidates   []string
	PortAutoFallback bool

	// SiteDir holds the HTML pages the host serves.
	SiteDir string

	LogLevel string
	LogFile  string

	// NTFYURL enables operator push notifications when set.
	NTFYURL   string
	NTFYKinds []string

	Profile Profile
}

// Load reads host configuration from environment variables and an optional
// .env file. NOTICE_PROFILE points at a YAML notice profile; NOTICE_* variables
// override individual profile fields.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}

	profile, err := loadProfileFromEnv()
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		BindAddr:         getEnvOrDefault("NOTICE_BIND_ADDR", "127.0.0.1:8190"),
		PortCandidates:   getEnvListOrDefault("NOTICE_PORT_CANDIDATES", []string{"127.0.0.1:8191", "127.0.0.1:8192"}),
		PortAutoFallback: getEnvBoolOrDefault("NOTICE_PORT_AUTO_FALLBACK", true),
		SiteDir:          getEnvOrDefault("NOTICE_SITE_DIR", "./site"),
		LogLevel:         strings.ToLower(getEnvOrDefault("NOTICE_LOG_LEVEL", "info")),
		LogFile:          getEnvOrDefault("NOTICE_LOG_FILE", "logs/notice_host.log"),
		NTFYURL:          getEnvOrDefault("NOTICE_NTFY_URL", ""),
		NTFYKinds:        getEnvListOrDefault("NOTICE_NTFY_KINDS", nil),
		Profile:          profile,
	}
	return cfg, nil
}

func loadProfileFromEnv() (Profile, error) {
	profile := DefaultProfile()
	if path := os.Getenv("NOTICE_PROFILE"); path != "" {
		p, err := LoadProfile(path)
		if err != nil {
			return Profile{}, err
		}
		profile = p
	}
	profile.ProgramName = getEnvOrDefault("NOTICE_PROGRAM_NAME", profile.ProgramName)
	profile.Title = getEnvOrDefault("NOTICE_TITLE", profile.Title)
	profile.Locale = getEnvOrDefault("NOTICE_LOCALE", profile.Locale)
	profile.DialogID = getEnvOrDefault("NOTICE_DIALOG_ID", profile.DialogID)
	if err := profile.validate(); err != nil {
		return Profile{}, err
	}
	return profile, nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvIntOrDefault(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBoolOrDefault(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvListOrDefault(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, item := range strings.Split(val, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}
