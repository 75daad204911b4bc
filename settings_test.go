package hxmarkup

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadSettings(t *testing.T) {
	s, err := LoadSettings(strings.NewReader(`
namespace: wicket
strip_wicket_tags: true
compress_whitespace: true
context_path: /app
watch_interval: 2s
locales: [en, de]
well_known_tags: [message]
unique_tags: [border]
`))
	require.NoError(t, err)

	assert.True(t, s.StripWicketTags)
	assert.True(t, s.CompressWhitespace)
	assert.False(t, s.StripComments)
	assert.Equal(t, "/app", s.ContextPath)
	assert.Equal(t, 2*time.Second, s.WatchInterval)
	assert.Equal(t, []string{"en", "de"}, s.Locales)
	// Unset keys keep their defaults.
	assert.Equal(t, "utf-8", s.DefaultEncoding)
	assert.Equal(t, "html", s.Extension)

	reg := s.TagRegistry()
	assert.True(t, reg.IsWellKnown("message"))
	assert.True(t, reg.IsWellKnown("panel"))
	assert.True(t, reg.RequiresUniqueID("border"))
}

func TestLoadSettingsEmpty(t *testing.T) {
	s, err := LoadSettings(strings.NewReader(""))
	require.NoError(t, err)
	assert.Equal(t, DefaultSettings(), s)
}

func TestLoadSettingsErrors(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"unknown key", "strip_tags: true\n"},
		{"empty namespace", "namespace: \"\"\n"},
		{"negative interval", "watch_interval: -1s\n"},
		{"bad duration", "watch_interval: soon\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadSettings(strings.NewReader(tt.yaml))
			assert.Error(t, err)
		})
	}
}

func TestLoadSettingsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hxmarkup.yaml")
	require.NoError(t, os.WriteFile(path, []byte("strip_comments: true\n"), 0o644))

	s, err := LoadSettingsFile(path)
	require.NoError(t, err)
	assert.True(t, s.StripComments)

	_, err = LoadSettingsFile(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestParserOptions(t *testing.T) {
	s := DefaultSettings()
	s.Namespace = "hx"
	s.ContextPath = "/app"

	opts := s.ParserOptions(s.TagRegistry(), nil)
	assert.Equal(t, "hx", opts.Namespace)
	assert.Equal(t, "/app", opts.ContextPath)
	assert.Equal(t, "utf-8", opts.DefaultEncoding)
	assert.NotNil(t, opts.Registry)
}
