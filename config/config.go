// Package config resolves user settings from the config file and the
// environment.
package config

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/peterbourgon/ff/v3"
)

// Settings are defaults for command-line flags. Flags given on the command
// line always win.
type Settings struct {
	// Output is the default output mode: human, json, json-compact or ndjson.
	Output   string
	NoColor  bool
	LogLevel slog.Level
	// Listen is the default websocket address for serve.
	Listen string
}

func dir() (string, error) {
	if v := os.Getenv("XLQ_CONFIG_DIR"); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, "xlq"), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "xlq"), nil
}

// FilePath returns the location of config.json.
func FilePath() (string, error) {
	d, err := dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(d, "config.json"), nil
}

// Load layers settings: defaults, then config.json, then XLQ_* environment
// variables. A missing config file is not an error. NO_COLOR disables colour
// whatever the other sources say.
func Load() (Settings, error) {
	var s Settings
	fs := flag.NewFlagSet("xlq", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&s.Output, "output", "", "default output mode (human, json, json-compact, ndjson)")
	fs.BoolVar(&s.NoColor, "no-color", false, "disable colour")
	fs.TextVar(&s.LogLevel, "log-level", slog.LevelWarn, "log level (debug, info, warn, error)")
	fs.StringVar(&s.Listen, "listen", "", "default websocket listen address for serve")

	opts := []ff.Option{ff.WithEnvVarPrefix("XLQ")}
	p, err := FilePath()
	if err == nil {
		opts = append(opts,
			ff.WithConfigFile(p),
			ff.WithConfigFileParser(ff.JSONParser),
			ff.WithAllowMissingConfigFile(true),
		)
	}
	if err := ff.Parse(fs, nil, opts...); err != nil {
		return Settings{LogLevel: slog.LevelWarn}, fmt.Errorf("loading settings: %w", err)
	}
	if os.Getenv("NO_COLOR") != "" {
		s.NoColor = true
	}
	return s, nil
}
