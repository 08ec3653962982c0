// Copyright (c) 2024 mStar
//
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at http://mozilla.org/MPL/2.0/.

package config

import (
	"fmt"
	"os"

	"github.com/adrg/xdg"
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

type StartType int

const (
	// Tells wlheadless to start a repl in parallel for interacting with it
	START_REPL = StartType(iota)
	// Tells wlheadless to execute a specific command on startup
	START_SINGLE_COMMAND
	// Tells wlheadless to start without any specific targets
	// Note: Good luck interacting with it :3
	START_NONE
)

// Config holds everything cmd/wlheadlessd needs to bring a compositor
// instance up. Default returns a single 1920x1080 headless output,
// seat0, and the "us" XKB layout.
type Config struct {
	StartType StartType `envconfig:"START_TYPE,omitempty" toml:"start_type,omitempty" yaml:"start_type,omitempty"`
	// What command to execute on start. Only matters if StartType is set to START_SINGLE_COMMAND
	StartCommand *string `envconfig:"START_COMMAND,omitempty" toml:"start_command,omitempty" yaml:"start_command,omitempty"`

	// LogLevel is a logrus level name ("debug", "info", "warn", "error").
	LogLevel string `envconfig:"LOG_LEVEL,omitempty" toml:"log_level,omitempty" yaml:"log_level,omitempty"`

	// SeatName is the name passed to wlr_seat_create. Defaults to "seat0".
	SeatName string `envconfig:"SEAT_NAME,omitempty" toml:"seat_name,omitempty" yaml:"seat_name,omitempty"`

	// OutputWidth/OutputHeight size the single headless output created
	// during initialize. Defaults to 1920x1080.
	OutputWidth  int `envconfig:"OUTPUT_WIDTH,omitempty" toml:"output_width,omitempty" yaml:"output_width,omitempty"`
	OutputHeight int `envconfig:"OUTPUT_HEIGHT,omitempty" toml:"output_height,omitempty" yaml:"output_height,omitempty"`

	// KeyboardLayout/Model/Variant/Options are passed to Keyboard.SetLayout.
	KeyboardLayout  string `envconfig:"KEYBOARD_LAYOUT,omitempty" toml:"keyboard_layout,omitempty" yaml:"keyboard_layout,omitempty"`
	KeyboardModel   string `envconfig:"KEYBOARD_MODEL,omitempty" toml:"keyboard_model,omitempty" yaml:"keyboard_model,omitempty"`
	KeyboardVariant string `envconfig:"KEYBOARD_VARIANT,omitempty" toml:"keyboard_variant,omitempty" yaml:"keyboard_variant,omitempty"`
	KeyboardOptions string `envconfig:"KEYBOARD_OPTIONS,omitempty" toml:"keyboard_options,omitempty" yaml:"keyboard_options,omitempty"`

	// RuntimeDir overrides XDG_RUNTIME_DIR for the Wayland socket. Empty
	// means defer to xdg.RuntimeDir.
	RuntimeDir string `envconfig:"RUNTIME_DIR,omitempty" toml:"runtime_dir,omitempty" yaml:"runtime_dir,omitempty"`
}

// Default returns the configuration assumed when nothing else is specified.
func Default() Config {
	return Config{
		StartType:      START_REPL,
		LogLevel:       "info",
		SeatName:       "seat0",
		OutputWidth:    1920,
		OutputHeight:   1080,
		KeyboardLayout: "us",
	}
}

// ResolvedRuntimeDir returns RuntimeDir if set, else the XDG runtime
// directory reported by github.com/adrg/xdg.
func (c Config) ResolvedRuntimeDir() string {
	if c.RuntimeDir != "" {
		return c.RuntimeDir
	}
	return xdg.RuntimeDir
}

// Load reads a config file, dispatching on its extension: ".toml" via
// github.com/pelletier/go-toml, ".yaml"/".yml" via gopkg.in/yaml.v3. Missing
// fields keep Default's values.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("reading config %s: %w", path, err)
	}

	switch ext := extOf(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decoding yaml config %s: %w", path, err)
		}
	default:
		if err := toml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("decoding toml config %s: %w", path, err)
		}
	}
	return cfg, nil
}

// Dump renders cfg as YAML, for the REPL's dump-config command.
func Dump(cfg Config) (string, error) {
	out, err := yaml.Marshal(cfg)
	if err != nil {
		return "", err
	}
	return string(out), nil
}

func extOf(path string) string {
	for i := len(path) - 1; i >= 0 && path[i] != '/'; i-- {
		if path[i] == '.' {
			return path[i:]
		}
	}
	return ""
}
