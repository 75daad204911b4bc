package hxmarkup

import (
	"errors"
	"fmt"

	"github.com/pthm/hxmarkup/lib/cache"
	"github.com/pthm/hxmarkup/lib/markup"
)

// Sentinel errors for rendering operations.
var (
	ErrNotFound          = errors.New("hxmarkup: resource not found")
	ErrComponentNotFound = errors.New("hxmarkup: component not found")
	ErrMarkupNotFound    = cache.ErrMarkupNotFound
	ErrInvalidBundle     = errors.New("hxmarkup: invalid markup bundle")
)

// BindError reports a markup tag that could not be matched with a live
// component, or a component that failed while rendering its tag.
type BindError struct {
	// ID is the tag id that failed to bind.
	ID string
	// Path is the component path of the container the lookup ran against.
	Path string
	// Resource names the template holding the tag.
	Resource string
	// Tag is the textual form of the tag.
	Tag string
	Err error
}

func (e *BindError) Error() string {
	path := e.Path
	if path == "" {
		path = "<page>"
	}
	return fmt.Sprintf("hxmarkup: %s: unable to find component with id %q in container %q: %s", e.Resource, e.ID, path, e.Tag)
}

func (e *BindError) Unwrap() error { return e.Err }

// IsNotFound checks if err is a not-found error, including a missing
// template.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrNotFound) || errors.Is(err, ErrMarkupNotFound)
}

// IsBindError checks if err is or wraps a *BindError.
func IsBindError(err error) bool {
	var be *BindError
	return errors.As(err, &be)
}

// IsParseError checks if err is or wraps a template parse error.
func IsParseError(err error) bool {
	return markup.IsParseError(err)
}
