package config

import (
	"errors"
	"fmt"
	"os"
	"slices"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Toast defaults.
const (
	DefaultToastPosition = "top-right"
	DefaultToastTheme    = "light"
	DefaultToastVisible  = 3
)

var (
	toastPositions = []string{"top-left", "top-center", "top-right", "bottom-left", "bottom-center", "bottom-right"}
	toastThemes    = []string{"light", "dark", "system"}
)

// UIConfig contains presentation settings.
type UIConfig struct {
	// LoginPath is where the session gate sends unauthenticated visitors.
	LoginPath string `env:"UI_LOGIN_PATH" envDefault:"/auth/signin"`

	// ConfigFile is an optional YAML file providing toast options.
	// Environment variables take precedence over the file.
	ConfigFile string `env:"UI_CONFIG_FILE"`

	// Toast holds the raw toast settings; read resolved values with ToastOptions.
	Toast ToastConfig `envPrefix:"TOAST_"`
}

// ToastConfig keeps toast settings as raw strings so malformed values fall back
// to defaults instead of failing startup.
type ToastConfig struct {
	Position    string `env:"POSITION"`
	Theme       string `env:"THEME"`
	RichColors  string `env:"RICH_COLORS"`
	Expand      string `env:"EXPAND"`
	Visible     string `env:"VISIBLE"`
	CloseButton string `env:"CLOSE_BUTTON"`
}

// ToastOptions are the resolved toaster settings handed to templates.
type ToastOptions struct {
	Position    string
	Theme       string
	RichColors  bool
	Expand      bool
	Visible     int
	CloseButton bool
}

// Sanitize normalises the login path.
func (u *UIConfig) Sanitize() {
	u.LoginPath = strings.TrimSpace(u.LoginPath)
	if u.LoginPath == "" {
		u.LoginPath = "/auth/signin"
	}
	u.ConfigFile = strings.TrimSpace(u.ConfigFile)
}

// ToastOptions resolves the raw settings; unknown or unparsable values use defaults.
func (u *UIConfig) ToastOptions() ToastOptions {
	t := u.Toast
	return ToastOptions{
		Position:    enumOr(t.Position, toastPositions, DefaultToastPosition),
		Theme:       enumOr(t.Theme, toastThemes, DefaultToastTheme),
		RichColors:  boolOr(t.RichColors, true),
		Expand:      boolOr(t.Expand, false),
		Visible:     positiveIntOr(t.Visible, DefaultToastVisible),
		CloseButton: boolOr(t.CloseButton, true),
	}
}

// uiFile is the YAML overlay shape.
type uiFile struct {
	LoginPath string `yaml:"login_path"`
	Toast     struct {
		Position    string `yaml:"position"`
		Theme       string `yaml:"theme"`
		RichColors  *bool  `yaml:"rich_colors"`
		Expand      *bool  `yaml:"expand"`
		Visible     *int   `yaml:"visible"`
		CloseButton *bool  `yaml:"close_button"`
	} `yaml:"toast"`
}

// ApplyFile overlays values from ConfigFile onto settings not provided via env.
// A missing ConfigFile is not an error.
func (u *UIConfig) ApplyFile(loginPathFromEnv bool) error {
	if u.ConfigFile == "" {
		return nil
	}
	raw, err := os.ReadFile(u.ConfigFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read ui config file: %w", err)
	}
	var f uiFile
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return fmt.Errorf("parse ui config file %s: %w", u.ConfigFile, err)
	}

	if !loginPathFromEnv && f.LoginPath != "" {
		u.LoginPath = f.LoginPath
	}
	fill(&u.Toast.Position, f.Toast.Position)
	fill(&u.Toast.Theme, f.Toast.Theme)
	if f.Toast.RichColors != nil {
		fill(&u.Toast.RichColors, strconv.FormatBool(*f.Toast.RichColors))
	}
	if f.Toast.Expand != nil {
		fill(&u.Toast.Expand, strconv.FormatBool(*f.Toast.Expand))
	}
	if f.Toast.Visible != nil {
		fill(&u.Toast.Visible, strconv.Itoa(*f.Toast.Visible))
	}
	if f.Toast.CloseButton != nil {
		fill(&u.Toast.CloseButton, strconv.FormatBool(*f.Toast.CloseButton))
	}
	return nil
}

func fill(dst *string, v string) {
	if strings.TrimSpace(*dst) == "" {
		*dst = v
	}
}

func enumOr(v string, allowed []string, def string) string {
	v = strings.ToLower(strings.TrimSpace(v))
	if slices.Contains(allowed, v) {
		return v
	}
	return def
}

func boolOr(v string, def bool) bool {
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return def
	}
	return b
}

func positiveIntOr(v string, def int) int {
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil || n < 1 {
		return def
	}
	return n
}
