// Package config provides configuration loading for the reader using TOML.
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Display settings
type Display struct {
	StatusLine *bool `toml:"statusLine"` // Reverse-video position line at the bottom
}

// Progress storage settings
type Progress struct {
	Path   string `toml:"path"`
	Format string `toml:"format"` // "json" or "msgpack"
}

// Log settings
type Log struct {
	Path  string `toml:"path"`
	Level string `toml:"level"` // debug, info, warn, error
}

// Keybindings configuration. Arrow, paging and Home/End keys always work;
// these are the letter bindings layered on top.
type Keybindings struct {
	Quit         string `toml:"quit"`
	ScrollUp     string `toml:"scrollUp"`
	ScrollDown   string `toml:"scrollDown"`
	ScrollLeft   string `toml:"scrollLeft"`
	ScrollRight  string `toml:"scrollRight"`
	HalfPageDown string `toml:"halfPageDown"`
	HalfPageUp   string `toml:"halfPageUp"`
	GoTop        string `toml:"goTop"`
	GoBottom     string `toml:"goBottom"`
	Select       string `toml:"select"`
}

// Config is the main configuration struct
type Config struct {
	Display     Display     `toml:"display"`
	Progress    Progress    `toml:"progress"`
	Log         Log         `toml:"log"`
	Keybindings Keybindings `toml:"keybindings"`
}

// ShowStatusLine reports whether the status line is enabled.
func (c *Config) ShowStatusLine() bool {
	return c.Display.StatusLine == nil || *c.Display.StatusLine
}

// Default returns the default configuration.
func Default() *Config {
	dir, err := configDir()
	if err != nil {
		dir = "."
	}
	on := true
	return &Config{
		Display: Display{
			StatusLine: &on,
		},
		Progress: Progress{
			Path:   filepath.Join(dir, "prefs.json"),
			Format: "json",
		},
		Log: Log{
			Path:  filepath.Join(dir, "ereader.log"),
			Level: "info",
		},
		Keybindings: Keybindings{
			Quit:         "q",
			ScrollUp:     "k",
			ScrollDown:   "j",
			ScrollLeft:   "h",
			ScrollRight:  "l",
			HalfPageDown: "d",
			HalfPageUp:   "u",
			GoTop:        "gg",
			GoBottom:     "G",
			Select:       "o",
		},
	}
}

// configDir returns the configuration directory path.
func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".config", "ereader"), nil
}

// ConfigPath returns the path to the user's config file.
func ConfigPath() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load loads configuration from path, layering it on top of defaults.
// An empty path means the default location, which may be absent; an
// explicit path must exist.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		p, err := ConfigPath()
		if err != nil {
			return cfg, nil // Return defaults if we can't determine path
		}
		if _, err := os.Stat(p); os.IsNotExist(err) {
			return cfg, nil
		}
		path = p
	}

	userCfg, err := loadFromTOML(path)
	if err != nil {
		return nil, fmt.Errorf("loading config from %s: %w", path, err)
	}

	return merge(cfg, userCfg), nil
}

// loadFromTOML loads a TOML config file and returns the config.
func loadFromTOML(path string) (*Config, error) {
	var cfg Config
	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config TOML: %w", err)
	}
	return &cfg, nil
}

// merge layers user config on top of defaults.
// Only values present in the user config override defaults.
func merge(defaults, user *Config) *Config {
	result := *defaults

	if user.Display.StatusLine != nil {
		result.Display.StatusLine = user.Display.StatusLine
	}

	if user.Progress.Path != "" {
		result.Progress.Path = expandHome(user.Progress.Path)
	}
	if user.Progress.Format != "" {
		result.Progress.Format = user.Progress.Format
	}

	if user.Log.Path != "" {
		result.Log.Path = expandHome(user.Log.Path)
	}
	if user.Log.Level != "" {
		result.Log.Level = user.Log.Level
	}

	mergeKeybinding(&result.Keybindings.Quit, user.Keybindings.Quit)
	mergeKeybinding(&result.Keybindings.ScrollUp, user.Keybindings.ScrollUp)
	mergeKeybinding(&result.Keybindings.ScrollDown, user.Keybindings.ScrollDown)
	mergeKeybinding(&result.Keybindings.ScrollLeft, user.Keybindings.ScrollLeft)
	mergeKeybinding(&result.Keybindings.ScrollRight, user.Keybindings.ScrollRight)
	mergeKeybinding(&result.Keybindings.HalfPageDown, user.Keybindings.HalfPageDown)
	mergeKeybinding(&result.Keybindings.HalfPageUp, user.Keybindings.HalfPageUp)
	mergeKeybinding(&result.Keybindings.GoTop, user.Keybindings.GoTop)
	mergeKeybinding(&result.Keybindings.GoBottom, user.Keybindings.GoBottom)
	mergeKeybinding(&result.Keybindings.Select, user.Keybindings.Select)

	return &result
}

func mergeKeybinding(dst *string, src string) {
	if src != "" {
		*dst = src
	}
}

func expandHome(path string) string {
	if len(path) < 2 || path[:2] != "~/" {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

// DefaultTOML returns the default configuration as a TOML string.
// Used for --init-config to generate a user config file.
func DefaultTOML() string {
	return `# ereader configuration
# Save to ~/.config/ereader/config.toml and customize
# Only include settings you want to change from defaults

# Display settings
[display]
statusLine = true             # Section name and position on the last row

# Reading progress
[progress]
path = "~/.config/ereader/prefs.json"
format = "json"               # "json" or "msgpack"

# Logging (the terminal is busy while reading, so logs go to a file)
[log]
path = "~/.config/ereader/ereader.log"
level = "info"                # debug, info, warn, error

# Keybindings - arrow keys, PgUp/PgDn and Home/End always work too
[keybindings]
quit = "q"
scrollUp = "k"
scrollDown = "j"
scrollLeft = "h"
scrollRight = "l"
halfPageDown = "d"
halfPageUp = "u"
goTop = "gg"
goBottom = "G"
select = "o"                  # Open the highlighted section (Enter also works)
`
}
