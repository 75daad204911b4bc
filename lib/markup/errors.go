package markup

import (
	"errors"
	"fmt"
)

// Sentinel errors for structural markup problems. ParseError and
// MarkupError unwrap to one of these where applicable.
var (
	ErrUnterminatedRegion = errors.New("markup: unterminated remove region")
	ErrOpenCloseRemove    = errors.New("markup: remove tag must not be an open-close tag")
	ErrComponentInRemove  = errors.New("markup: remove region contains a component tag")
	ErrUnknownWicketTag   = errors.New("markup: unknown tag name in reserved namespace")
	ErrEmptyID            = errors.New("markup: empty id attribute")
	ErrMismatchedClose    = errors.New("markup: mismatched close tag")
	ErrUnclosedTag        = errors.New("markup: tag has no close tag")
	ErrEnclosure          = errors.New("markup: invalid enclosure")
	ErrMalformedTag       = errors.New("markup: malformed tag")
)

// ParseError is a fatal problem found while parsing a template.
type ParseError struct {
	// Err is the sentinel classifying the failure.
	Err error
	// Msg is a developer-facing description.
	Msg string
	// Tag is the textual form of the offending tag.
	Tag string
	// Pos is the byte offset of the offending tag in the decoded source.
	Pos int
	// Line and Column are 1-based; zero until the parser fills them in.
	Line, Column int
	// Resource names the template.
	Resource string
}

// NewParseError builds a ParseError for tag.
func NewParseError(err error, tag *ComponentTag, format string, args ...any) *ParseError {
	pe := &ParseError{Err: err, Msg: fmt.Sprintf(format, args...)}
	if tag != nil {
		pe.Tag = tag.String()
		pe.Pos = tag.Pos
	}
	return pe
}

func (e *ParseError) Error() string {
	loc := fmt.Sprintf("offset %d", e.Pos)
	if e.Line > 0 {
		loc = fmt.Sprintf("line %d, column %d", e.Line, e.Column)
	}
	if e.Resource != "" {
		loc = e.Resource + ": " + loc
	}
	if e.Tag != "" {
		return fmt.Sprintf("%s: %s: %s", loc, e.Msg, e.Tag)
	}
	return fmt.Sprintf("%s: %s", loc, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// MarkupError reports a problem found while walking a Stream.
type MarkupError struct {
	Resource string
	Index    int
	Element  string
	Msg      string
	Err      error
}

func (e *MarkupError) Error() string {
	return fmt.Sprintf("%s [element %d: %s]: %s", e.Resource, e.Index, e.Element, e.Msg)
}

func (e *MarkupError) Unwrap() error { return e.Err }

// IsParseError reports whether err is or wraps a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}
