package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/dgnsrekt/return_notice/internal/notice"
	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"
)

// Profile is the per-site wording of the notice.
type Profile struct {
	ProgramName string `yaml:"program_name"`
	Title       string `yaml:"title"`
	Locale      string `yaml:"locale"`
	DialogID    string `yaml:"dialog_id"`
}

// DefaultProfile returns the built-in wording.
func DefaultProfile() Profile {
	return Profile{
		ProgramName: notice.DefaultProgramName,
		Title:       notice.DefaultTitle,
		Locale:      "en-US",
		DialogID:    notice.DefaultDialogID,
	}
}

// LoadProfile reads a YAML profile. Missing fields keep their defaults.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, fmt.Errorf("notice profile: %w", err)
	}
	p := DefaultProfile()
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("notice profile: %w", err)
	}
	if err := p.validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Tag returns the parsed locale. validate guarantees it parses.
func (p Profile) Tag() language.Tag {
	tag, err := language.Parse(p.Locale)
	if err != nil {
		return language.AmericanEnglish
	}
	return tag
}

// Composer returns the message composer for this profile.
func (p Profile) Composer() notice.Composer {
	return notice.Composer{ProgramName: p.ProgramName, Locale: p.Tag()}
}

func (p Profile) validate() error {
	if p.DialogID == "" {
		return fmt.Errorf("notice profile: dialog_id must not be empty")
	}
	if _, err := language.Parse(p.Locale); err != nil {
		return fmt.Errorf("notice profile: locale %q: %w", p.Locale, err)
	}
	return nil
}

// LoadProfileFromEnv reads NOTICE_PROFILE and the NOTICE_* profile overrides
// for tools that need no other host settings.
func LoadProfileFromEnv() (Profile, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("failed to load .env file", "error", err)
	}
	return loadProfileFromEnv()
}
