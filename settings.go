package hxmarkup

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/pthm/hxmarkup/lib/filter"
	"github.com/pthm/hxmarkup/lib/locator"
	"github.com/pthm/hxmarkup/lib/markup"
	"github.com/pthm/hxmarkup/lib/parser"
)

// Settings configures markup loading and rendering. The zero value is not
// useful; start from DefaultSettings or LoadSettings.
//
//	namespace: wicket
//	strip_wicket_tags: true
//	strip_comments: true
//	compress_whitespace: false
//	insert_head: true
//	default_encoding: utf-8
//	context_path: /app
//	extension: html
//	watch_interval: 1s
//	locales: [en, de, fr-CH]
//	well_known_tags: [message]
//	unique_tags: [border]
type Settings struct {
	Namespace          string        `yaml:"namespace"`
	StripWicketTags    bool          `yaml:"strip_wicket_tags"`
	StripComments      bool          `yaml:"strip_comments"`
	CompressWhitespace bool          `yaml:"compress_whitespace"`
	DefaultEncoding    string        `yaml:"default_encoding"`
	ContextPath        string        `yaml:"context_path"`
	Extension          string        `yaml:"extension"`
	// WatchInterval enables template reloading when positive.
	WatchInterval time.Duration `yaml:"watch_interval"`
	// Locales lists the locales pages are negotiated against, first is the
	// fallback. Empty disables negotiation.
	Locales []string `yaml:"locales"`
	// WellKnownTags and UniqueTags extend the default tag registry.
	WellKnownTags []string `yaml:"well_known_tags"`
	UniqueTags    []string `yaml:"unique_tags"`
	// InsertHead gives pages without a <head> a synthetic one in front of
	// <body>. On by default.
	InsertHead bool `yaml:"insert_head"`
}

// DefaultSettings returns production defaults: no reloading, markup output
// as written apart from a synthesized <head>.
func DefaultSettings() Settings {
	return Settings{
		Namespace:       markup.DefaultNamespace,
		InsertHead:      true,
		DefaultEncoding: "utf-8",
		Extension:       locator.DefaultExtension,
	}
}

// LoadSettings decodes YAML on top of DefaultSettings. Unknown keys are
// rejected.
func LoadSettings(r io.Reader) (Settings, error) {
	s := DefaultSettings()
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&s); err != nil && !errors.Is(err, io.EOF) {
		return Settings{}, fmt.Errorf("hxmarkup: settings: %w", err)
	}
	return s, s.Validate()
}

// LoadSettingsFile reads settings from a YAML file.
func LoadSettingsFile(path string) (Settings, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Settings{}, fmt.Errorf("hxmarkup: settings: %w", err)
	}
	return LoadSettings(bytes.NewReader(data))
}

// Validate checks settings for values that cannot work.
func (s Settings) Validate() error {
	if s.Namespace == "" {
		return errors.New("hxmarkup: settings: namespace must not be empty")
	}
	if s.WatchInterval < 0 {
		return fmt.Errorf("hxmarkup: settings: negative watch_interval %s", s.WatchInterval)
	}
	return nil
}

// TagRegistry returns the default registry extended with the configured
// tags.
func (s Settings) TagRegistry() *filter.TagRegistry {
	return filter.DefaultTagRegistry().With(s.WellKnownTags...).WithUnique(s.UniqueTags...)
}

// ParserOptions translates the settings for lib/parser.
func (s Settings) ParserOptions(registry *filter.TagRegistry, logger *slog.Logger) parser.Options {
	return parser.Options{
		Namespace:          s.Namespace,
		Registry:           registry,
		StripComments:      s.StripComments,
		CompressWhitespace: s.CompressWhitespace,
		StripWicketTags:    s.StripWicketTags,
		DefaultEncoding:    s.DefaultEncoding,
		ContextPath:        s.ContextPath,
		InsertHead:         s.InsertHead,
		Logger:             logger,
	}
}
