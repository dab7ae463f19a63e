package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/BurntSushi/toml"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadLayersUserConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[display]
statusLine = false

[progress]
path = "/tmp/progress.mp"
format = "msgpack"

[keybindings]
quit = "x"
goTop = "0"
`), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.False(t, cfg.ShowStatusLine())
	assert.Equal(t, "/tmp/progress.mp", cfg.Progress.Path)
	assert.Equal(t, "msgpack", cfg.Progress.Format)
	assert.Equal(t, "x", cfg.Keybindings.Quit)
	assert.Equal(t, "0", cfg.Keybindings.GoTop)

	// untouched values keep their defaults
	assert.Equal(t, "j", cfg.Keybindings.ScrollDown)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, Default().Log.Path, cfg.Log.Path)
}

func TestLoadExplicitPathMustExist(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.toml"))
	assert.Error(t, err)
}

func TestLoadRejectsBadTOML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("[display\nstatusLine = "), 0644))

	_, err := Load(path)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), path)
}

func TestDefaultTOMLParses(t *testing.T) {
	var cfg Config
	_, err := toml.Decode(DefaultTOML(), &cfg)
	require.NoError(t, err)

	defaults := Default()
	assert.Equal(t, defaults.Keybindings, cfg.Keybindings)
	assert.Equal(t, defaults.Progress.Format, cfg.Progress.Format)
	assert.True(t, cfg.ShowStatusLine())
}

func TestExpandHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	assert.Equal(t, filepath.Join(home, "a", "b"), expandHome("~/a/b"))
	assert.Equal(t, "/abs/path", expandHome("/abs/path"))
	assert.Equal(t, "~", expandHome("~"))
}

func TestKeyMatcher(t *testing.T) {
	km := NewKeyMatcher(Default().Keybindings.Actions())

	tests := []struct {
		name  string
		input string
		want  []Action
	}{
		{"single", "j", []Action{ActionScrollDown}},
		{"two-char binding", "gg", []Action{ActionNone, ActionGoTop}},
		{"abandoned prefix", "gj", []Action{ActionNone, ActionScrollDown}},
		{"unbound", "z", []Action{ActionNone}},
		{"case sensitive", "G", []Action{ActionGoBottom}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			km.ClearPending()
			var got []Action
			for _, r := range tt.input {
				got = append(got, km.Match(r))
			}
			assert.Equal(t, tt.want, got)
			assert.Empty(t, km.pending)
		})
	}
}

func TestKeyMatcherHoldsPrefix(t *testing.T) {
	km := NewKeyMatcher(Default().Keybindings.Actions())
	km.Match('g')
	assert.Equal(t, "g", km.pending)

	km.ClearPending()
	assert.Equal(t, ActionNone, km.Match('g'))
	assert.Equal(t, ActionScrollDown, km.Match('j'), "cleared prefix is not completed")
}

func TestActionsFirstBindingWins(t *testing.T) {
	kb := Default().Keybindings
	kb.Select = "q"
	assert.Equal(t, ActionQuit, kb.Actions()["q"])
}
