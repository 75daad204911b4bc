// Package locator finds the template file for a markup key, falling back
// from the most specific style and locale variant to the plain name.
package locator

import (
	"errors"
	"fmt"
	"io/fs"
	"path"
	"strings"
	"time"

	"golang.org/x/text/language"
)

// ErrNotFound is returned when no variant of a template exists.
var ErrNotFound = errors.New("locator: template not found")

// DefaultExtension is used when a key has none.
const DefaultExtension = "html"

// Key identifies a template variant.
type Key struct {
	// Name is the slash-separated template path without extension,
	// e.g. "pages/Home".
	Name string
	// Style is an optional variant such as "mobile".
	Style string
	// Locale is a BCP 47 tag such as "de-CH".
	Locale string
	// Extension defaults to "html".
	Extension string
}

func (k Key) ext() string {
	if k.Extension == "" {
		return DefaultExtension
	}
	return strings.TrimPrefix(k.Extension, ".")
}

// String returns a stable cache key.
func (k Key) String() string {
	var sb strings.Builder
	sb.WriteString(k.Name)
	if k.Style != "" {
		sb.WriteString("_" + k.Style)
	}
	if k.Locale != "" {
		sb.WriteString("_" + k.Locale)
	}
	sb.WriteString("." + k.ext())
	return sb.String()
}

// Candidates lists the file names tried for key, most specific first.
func Candidates(key Key) []string {
	var locales []string
	if key.Locale != "" {
		if tag, err := language.Parse(key.Locale); err == nil {
			base, _ := tag.Base()
			region, conf := tag.Region()
			if conf == language.Exact {
				locales = append(locales, base.String()+"_"+region.String())
			}
			locales = append(locales, base.String())
		}
	}

	ext := "." + key.ext()
	var out []string
	add := func(parts ...string) {
		out = append(out, strings.Join(parts, "_")+ext)
	}
	if key.Style != "" {
		for _, l := range locales {
			add(key.Name, key.Style, l)
		}
		add(key.Name, key.Style)
	}
	for _, l := range locales {
		add(key.Name, l)
	}
	add(key.Name)
	return out
}

// Resource is a located template file.
type Resource struct {
	Name string
	FS   fs.FS
}

// Open opens the template.
func (r Resource) Open() (fs.File, error) {
	return r.FS.Open(r.Name)
}

// ModTime returns the file's modification time.
func (r Resource) ModTime() (time.Time, error) {
	info, err := fs.Stat(r.FS, r.Name)
	if err != nil {
		return time.Time{}, err
	}
	return info.ModTime(), nil
}

// FS locates templates in a file system.
type FS struct {
	fsys fs.FS
}

// NewFS returns a locator over fsys.
func NewFS(fsys fs.FS) *FS {
	return &FS{fsys: fsys}
}

// Locate returns the most specific existing variant for key.
func (l *FS) Locate(key Key) (Resource, error) {
	if key.Name == "" {
		return Resource{}, fmt.Errorf("%w: empty name", ErrNotFound)
	}
	for _, name := range Candidates(key) {
		name = path.Clean(name)
		info, err := fs.Stat(l.fsys, name)
		if err != nil || info.IsDir() {
			continue
		}
		return Resource{Name: name, FS: l.fsys}, nil
	}
	return Resource{}, fmt.Errorf("%w: %s", ErrNotFound, key)
}
