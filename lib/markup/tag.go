package markup

import (
	"fmt"
	"io"
	"strings"
)

// Kind is the syntactic form of a tag.
type Kind uint8

const (
	// Open is <tag>.
	Open Kind = iota + 1
	// Close is </tag>.
	Close
	// OpenClose is <tag/>.
	OpenClose
)

func (k Kind) String() string {
	switch k {
	case Open:
		return "open"
	case Close:
		return "close"
	case OpenClose:
		return "open-close"
	default:
		return fmt.Sprintf("Kind(%d)", uint8(k))
	}
}

// RawTag is a tag as produced by the tokenizer.
//
// Name is the local name and Prefix the namespace prefix, so <wicket:remove>
// has Prefix "wicket" and Name "remove". Pos and Length locate the tag in the
// decoded source; Text is the exact source text of the tag.
type RawTag struct {
	Name   string
	Prefix string
	Attrs  Attributes
	Kind   Kind
	Pos    int
	Length int
	Text   string
}

// QualifiedName returns prefix:name, or name when there is no prefix.
func (t *RawTag) QualifiedName() string {
	if t.Prefix == "" {
		return t.Name
	}
	return t.Prefix + ":" + t.Name
}

// End returns the offset just past the tag.
func (t *RawTag) End() int {
	return t.Pos + t.Length
}

// ComponentTag is a tag annotated by the filter chain.
//
// Filters mutate a ComponentTag while it travels through the chain. Once the
// parser has assembled a Markup, its tags must be treated as read-only;
// render-time changes are made on a Clone.
type ComponentTag struct {
	RawTag

	// ID is the id used to look up a child component. Empty for tags that
	// end up as raw markup.
	ID string

	// WicketTag is set for tags in the markup's reserved namespace.
	WicketTag bool

	// Ignore excludes the tag and everything up to RegionEnd from the markup.
	Ignore bool

	// RegionEnd is the source offset at which an ignored region ends.
	RegionEnd int

	// Modified tags are serialized from their fields rather than Text.
	Modified bool

	// Synthetic tags were inserted by a filter and have no source text.
	Synthetic bool

	// OpenTag links a close tag to the open tag it closes.
	OpenTag *ComponentTag

	// NoCloseTag marks open tags that legitimately have no close tag (<br>, <p>).
	NoCloseTag bool
}

// NewTag wraps a raw tag.
func NewTag(raw RawTag) *ComponentTag {
	return &ComponentTag{RawTag: raw}
}

func (*ComponentTag) element() {}

// IsOpen reports whether the tag is <tag>.
func (t *ComponentTag) IsOpen() bool { return t.Kind == Open }

// IsClose reports whether the tag is </tag>.
func (t *ComponentTag) IsClose() bool { return t.Kind == Close }

// IsOpenClose reports whether the tag is <tag/>.
func (t *ComponentTag) IsOpenClose() bool { return t.Kind == OpenClose }

// HasEqualName compares qualified names case-insensitively.
func (t *ComponentTag) HasEqualName(other *ComponentTag) bool {
	return strings.EqualFold(t.Name, other.Name) && strings.EqualFold(t.Prefix, other.Prefix)
}

// Closes reports whether t is the close tag for open.
//
// When the filter chain linked the close tag to its open tag the link is
// authoritative; otherwise names are compared case-insensitively.
func (t *ComponentTag) Closes(open *ComponentTag) bool {
	if t == nil || open == nil || t.Kind != Close {
		return false
	}
	if t.OpenTag != nil {
		return t.OpenTag == open
	}
	return t.HasEqualName(open)
}

// Put sets an attribute and marks the tag modified.
func (t *ComponentTag) Put(key, value string) {
	t.Attrs.Set(key, value)
	t.Modified = true
}

// RemoveAttr removes an attribute and marks the tag modified if it existed.
func (t *ComponentTag) RemoveAttr(key string) {
	if t.Attrs.Remove(key) {
		t.Modified = true
	}
}

// Clone returns a copy whose attributes can be changed independently.
func (t *ComponentTag) Clone() *ComponentTag {
	c := *t
	c.Attrs = t.Attrs.Clone()
	return &c
}

// String returns the markup for the tag: the source text when untouched,
// otherwise a serialization of the current name, kind and attributes.
func (t *ComponentTag) String() string {
	if !t.Modified && t.Text != "" {
		return t.Text
	}
	var sb strings.Builder
	sb.WriteByte('<')
	if t.Kind == Close {
		sb.WriteByte('/')
	}
	sb.WriteString(t.QualifiedName())
	if t.Kind != Close {
		t.Attrs.writeTo(&sb)
	}
	if t.Kind == OpenClose {
		sb.WriteByte('/')
	}
	sb.WriteByte('>')
	return sb.String()
}

// WriteTo writes String() to w.
func (t *ComponentTag) WriteTo(w io.Writer) (int64, error) {
	n, err := io.WriteString(w, t.String())
	return int64(n), err
}

// DebugString is the form used in error messages.
func (t *ComponentTag) DebugString() string {
	s := fmt.Sprintf("'%s'", t.String())
	if t.ID != "" {
		s += fmt.Sprintf(" (id = '%s')", t.ID)
	}
	if !t.Synthetic {
		s += fmt.Sprintf(" at offset %d", t.Pos)
	}
	return s
}
