package markup

import "fmt"

// Stream is a cursor over a Markup. Streams are cheap and not safe for
// concurrent use; every render pass creates its own.
type Stream struct {
	markup *Markup
	index  int
}

// NewStream returns a stream positioned at the first element.
func NewStream(m *Markup) *Stream {
	return &Stream{markup: m}
}

// Markup returns the underlying markup.
func (s *Stream) Markup() *Markup { return s.markup }

// Index returns the current position.
func (s *Stream) Index() int { return s.index }

// SetIndex moves the cursor.
func (s *Stream) SetIndex(i int) { s.index = i }

// HasMore reports whether the cursor is on an element.
func (s *Stream) HasMore() bool { return s.index < s.markup.Len() }

// Get returns the current element, or nil past the end.
func (s *Stream) Get() Element {
	if !s.HasMore() {
		return nil
	}
	return s.markup.Get(s.index)
}

// Next advances the cursor and returns the new current element.
func (s *Stream) Next() Element {
	s.index++
	return s.Get()
}

// AtTag reports whether the current element is a tag.
func (s *Stream) AtTag() bool {
	_, ok := s.Get().(*ComponentTag)
	return ok
}

// AtOpenTag reports whether the cursor is on <tag>.
func (s *Stream) AtOpenTag() bool {
	t, ok := s.Get().(*ComponentTag)
	return ok && t.IsOpen()
}

// AtCloseTag reports whether the cursor is on </tag>.
func (s *Stream) AtCloseTag() bool {
	t, ok := s.Get().(*ComponentTag)
	return ok && t.IsClose()
}

// AtOpenCloseTag reports whether the cursor is on <tag/>.
func (s *Stream) AtOpenCloseTag() bool {
	t, ok := s.Get().(*ComponentTag)
	return ok && t.IsOpenClose()
}

// Tag returns the current element as a tag, or a *MarkupError when the
// cursor is on raw text or past the end.
func (s *Stream) Tag() (*ComponentTag, error) {
	if t, ok := s.Get().(*ComponentTag); ok {
		return t, nil
	}
	return nil, s.Errorf("tag expected")
}

// SkipRawText advances past consecutive raw text elements.
func (s *Stream) SkipRawText() {
	for {
		if _, ok := s.Get().(RawText); !ok {
			return
		}
		s.index++
	}
}

// SkipComponent advances past the tag at the cursor and, for open tags,
// everything up to and including its close tag.
func (s *Stream) SkipComponent() error {
	tag, err := s.Tag()
	if err != nil {
		return err
	}
	switch {
	case tag.IsOpenClose(), tag.IsOpen() && tag.NoCloseTag:
		s.index++
		return nil
	case tag.IsOpen():
		s.index++
		if err := s.SkipToMatchingClose(tag); err != nil {
			return err
		}
		s.index++
		return nil
	default:
		return s.Errorf("skip component called on bad markup element %s", tag.DebugString())
	}
}

// SkipToMatchingClose advances until the cursor is on the close tag for
// open. Tags in between, including nested components, are skipped.
func (s *Stream) SkipToMatchingClose(open *ComponentTag) error {
	for s.HasMore() {
		if t, ok := s.Get().(*ComponentTag); ok && t.Closes(open) {
			return nil
		}
		s.index++
	}
	return s.Errorf("expected close tag for %s", open.DebugString())
}

// Errorf returns a *MarkupError positioned at the cursor.
func (s *Stream) Errorf(format string, args ...any) error {
	return &MarkupError{
		Resource: s.markup.Resource(),
		Index:    s.index,
		Element:  describe(s.Get()),
		Msg:      fmt.Sprintf(format, args...),
	}
}

func describe(el Element) string {
	switch el := el.(type) {
	case *ComponentTag:
		return el.DebugString()
	case RawText:
		s := string(el)
		if len(s) > 40 {
			s = s[:40] + "..."
		}
		return fmt.Sprintf("%q", s)
	default:
		return "end of markup"
	}
}
