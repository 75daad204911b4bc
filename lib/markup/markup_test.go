package markup

import (
	"errors"
	"strings"
	"testing"
)

func tag(kind Kind, name, id string, attrs ...Attr) *ComponentTag {
	t := NewTag(RawTag{Name: name, Kind: kind, Attrs: attrs})
	t.ID = id
	if i := strings.IndexByte(name, ':'); i > 0 {
		t.Prefix, t.Name = name[:i], name[i+1:]
		t.WicketTag = true
	}
	return t
}

func closing(open *ComponentTag) *ComponentTag {
	c := NewTag(RawTag{Name: open.Name, Prefix: open.Prefix, Kind: Close})
	c.ID = open.ID
	c.OpenTag = open
	return c
}

func TestAttributes(t *testing.T) {
	var a Attributes
	a.Set("class", "x")
	a = append(a, Attr{Key: "Checked"})

	if v, ok := a.Lookup("CLASS"); !ok || v != "x" {
		t.Errorf("Lookup(CLASS) = %q, %v", v, ok)
	}
	if !a.Has("checked") {
		t.Error("Has(checked) = false")
	}

	clone := a.Clone()
	clone.Set("class", "y")
	if a.Get("class") != "x" {
		t.Error("Clone shares storage with the original")
	}

	if !a.Remove("checked") || a.Remove("checked") {
		t.Error("Remove should report presence exactly once")
	}

	var sb strings.Builder
	Attributes{{Key: "a", Value: "1", Quote: '\''}, {Key: "b", Value: "2"}, {Key: "c"}}.writeTo(&sb)
	if got, want := sb.String(), ` a='1' b=2 c`; got != want {
		t.Errorf("writeTo = %q, want %q", got, want)
	}
}

func TestTagString(t *testing.T) {
	tests := []struct {
		name string
		tag  *ComponentTag
		want string
	}{
		{
			name: "source text wins when untouched",
			tag:  &ComponentTag{RawTag: RawTag{Name: "div", Kind: Open, Text: "<DIV  id=x>"}},
			want: "<DIV  id=x>",
		},
		{
			name: "regenerated open",
			tag:  &ComponentTag{RawTag: RawTag{Name: "a", Kind: Open, Attrs: Attributes{{Key: "href", Value: "/", Quote: '"'}}}, Modified: true},
			want: `<a href="/">`,
		},
		{
			name: "regenerated close",
			tag:  &ComponentTag{RawTag: RawTag{Name: "panel", Prefix: "wicket", Kind: Close}},
			want: "</wicket:panel>",
		},
		{
			name: "regenerated open-close",
			tag:  &ComponentTag{RawTag: RawTag{Name: "br", Kind: OpenClose}},
			want: "<br/>",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.tag.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTagPutMarksModified(t *testing.T) {
	tg := &ComponentTag{RawTag: RawTag{Name: "a", Kind: Open, Text: "<a>"}}
	c := tg.Clone()
	c.Put("href", "x")

	if tg.Modified || tg.Attrs.Has("href") {
		t.Error("Clone must not share state")
	}
	if got := c.String(); got != `<a href="x">` {
		t.Errorf("String() = %q", got)
	}

	c.RemoveAttr("missing")
	tg.RemoveAttr("missing")
	if tg.Modified {
		t.Error("removing an absent attribute must not modify the tag")
	}
}

func TestCloses(t *testing.T) {
	open := tag(Open, "span", "a")
	other := tag(Open, "span", "b")
	c := closing(open)

	if !c.Closes(open) {
		t.Error("close tag should close its open tag")
	}
	if c.Closes(other) {
		t.Error("linked close tag must only close its own open tag")
	}

	unlinked := NewTag(RawTag{Name: "SPAN", Kind: Close})
	if !unlinked.Closes(other) {
		t.Error("unlinked close tags compare names")
	}
	if open.Closes(open) {
		t.Error("open tags close nothing")
	}
}

func TestFindComponentIndex(t *testing.T) {
	panel := tag(Open, "wicket:panel", "_panel")
	form := tag(Open, "form", "form")
	name := tag(OpenClose, "input", "name")
	list := tag(Open, "ul", "list")
	m := New(Info{Resource: "x.html"}, []Element{
		RawText("<html>"),
		panel,
		form,
		name,
		closing(form),
		list,
		closing(list),
		closing(panel),
	})

	tests := map[string]int{
		"_panel":    1,
		"form":      2,
		"form:name": 3,
		"list":      5,
		"name":      -1,
		"":          -1,
		"missing":   -1,
	}
	for path, want := range tests {
		if got := m.FindComponentIndex(path); got != want {
			t.Errorf("FindComponentIndex(%q) = %d, want %d", path, got, want)
		}
	}
	if m.Namespace() != DefaultNamespace {
		t.Errorf("Namespace() = %q", m.Namespace())
	}
}

func TestMarkupIsFrozen(t *testing.T) {
	els := []Element{RawText("a"), RawText("b")}
	m := New(Info{}, els)
	els[0] = RawText("changed")

	if got := m.Text(); got != "ab" {
		t.Errorf("Text() = %q, want %q", got, "ab")
	}
	out := m.Elements()
	out[1] = RawText("x")
	if m.Get(1) != RawText("b") {
		t.Error("Elements must return a copy")
	}
}

func TestStream(t *testing.T) {
	outer := tag(Open, "div", "outer")
	inner := tag(Open, "span", "inner")
	br := tag(Open, "p", "p")
	br.NoCloseTag = true
	m := New(Info{Resource: "s.html"}, []Element{
		RawText("a"),
		outer,
		inner,
		RawText("x"),
		closing(inner),
		closing(outer),
		br,
		RawText("b"),
	})

	s := NewStream(m)
	if s.AtTag() {
		t.Fatal("stream should start on raw text")
	}
	s.SkipRawText()
	if !s.AtOpenTag() || s.Index() != 1 {
		t.Fatalf("SkipRawText stopped at %d", s.Index())
	}
	if err := s.SkipComponent(); err != nil {
		t.Fatal(err)
	}
	if s.Index() != 6 {
		t.Fatalf("SkipComponent moved to %d, want 6", s.Index())
	}
	if err := s.SkipComponent(); err != nil {
		t.Fatal(err)
	}
	if s.Index() != 7 {
		t.Fatalf("SkipComponent on a tag without close moved to %d", s.Index())
	}

	_, err := s.Tag()
	var me *MarkupError
	if !errors.As(err, &me) {
		t.Fatalf("Tag() on raw text = %v, want *MarkupError", err)
	}
	if me.Resource != "s.html" || me.Index != 7 {
		t.Errorf("MarkupError = %+v", me)
	}

	if s.Next() != nil || s.HasMore() {
		t.Error("stream should be exhausted")
	}
}

func TestSkipToMatchingCloseFails(t *testing.T) {
	open := tag(Open, "div", "d")
	s := NewStream(New(Info{}, []Element{open, RawText("x")}))
	if err := s.SkipComponent(); err == nil {
		t.Error("expected an error for a missing close tag")
	}
}

func TestParseErrorMessage(t *testing.T) {
	tg := &ComponentTag{RawTag: RawTag{Name: "span", Kind: Open, Text: `<span wicket:id="">`, Pos: 12}}
	pe := NewParseError(ErrEmptyID, tg, "empty %s", "id")

	if !errors.Is(pe, ErrEmptyID) || !IsParseError(pe) {
		t.Error("ParseError should unwrap to its sentinel")
	}
	if got, want := pe.Error(), `offset 12: empty id: <span wicket:id="">`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}

	pe.Resource, pe.Line, pe.Column = "a.html", 3, 4
	if got, want := pe.Error(), `a.html: line 3, column 4: empty id: <span wicket:id="">`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}
