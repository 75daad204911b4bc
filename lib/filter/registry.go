package filter

import (
	"maps"
	"slices"
	"strings"
)

// Names of the tags in the reserved namespace known out of the box.
const (
	TagRemove    = "remove"
	TagPanel     = "panel"
	TagEnclosure = "enclosure"
	TagContainer = "container"
	TagFragment  = "fragment"
	TagHead      = "head"
)

// TagRegistry lists the tag names accepted in the reserved namespace and
// the subset that get a per-document counter appended to their auto id.
//
// A registry is a value: With and WithUnique return extended copies and
// never change the receiver, so one registry can back concurrent parses.
type TagRegistry struct {
	known  map[string]struct{}
	unique map[string]struct{}
}

// NewTagRegistry returns a registry accepting known. Names are matched
// case-insensitively.
func NewTagRegistry(known ...string) *TagRegistry {
	r := &TagRegistry{known: map[string]struct{}{}, unique: map[string]struct{}{}}
	for _, n := range known {
		r.known[strings.ToLower(n)] = struct{}{}
	}
	return r
}

// DefaultTagRegistry returns the registry used when none is configured.
func DefaultTagRegistry() *TagRegistry {
	return NewTagRegistry(TagRemove, TagPanel, TagContainer, TagFragment).
		WithUnique(TagEnclosure, TagHead)
}

// With returns a copy of r that also accepts names.
func (r *TagRegistry) With(names ...string) *TagRegistry {
	c := r.clone()
	for _, n := range names {
		c.known[strings.ToLower(n)] = struct{}{}
	}
	return c
}

// WithUnique returns a copy of r that accepts names and gives each
// occurrence of them a distinct auto id.
func (r *TagRegistry) WithUnique(names ...string) *TagRegistry {
	c := r.With(names...)
	for _, n := range names {
		c.unique[strings.ToLower(n)] = struct{}{}
	}
	return c
}

// IsWellKnown reports whether name is accepted in the reserved namespace.
func (r *TagRegistry) IsWellKnown(name string) bool {
	_, ok := r.known[strings.ToLower(name)]
	return ok
}

// RequiresUniqueID reports whether name gets a counter appended to its id.
func (r *TagRegistry) RequiresUniqueID(name string) bool {
	_, ok := r.unique[strings.ToLower(name)]
	return ok
}

// Names returns the accepted names, sorted.
func (r *TagRegistry) Names() []string {
	return slices.Sorted(maps.Keys(r.known))
}

func (r *TagRegistry) clone() *TagRegistry {
	return &TagRegistry{known: maps.Clone(r.known), unique: maps.Clone(r.unique)}
}
