// Package markup holds the parsed representation of a template: tags, raw
// text runs, the immutable Markup sequence and the Stream cursor used while
// rendering.
package markup

import (
	"strconv"
	"strings"
	"sync"
)

const (
	// DefaultNamespace is the namespace prefix used when the template does
	// not declare one.
	DefaultNamespace = "wicket"

	// NamespaceURI is the URI a template binds its namespace prefix to.
	NamespaceURI = "http://wicket.apache.org"

	// AutoIDPrefix starts every id synthesized for namespace tags.
	AutoIDPrefix = "_"
)

// Element is either RawText or *ComponentTag. Consumers switch on the
// concrete type:
//
//	switch el := el.(type) {
//	case markup.RawText:
//	case *markup.ComponentTag:
//	}
type Element interface {
	element()
	String() string
}

// RawText is markup passed through to the output unchanged.
type RawText string

func (RawText) element() {}

func (r RawText) String() string { return string(r) }

// Info describes where a Markup came from.
type Info struct {
	// Resource names the template, for diagnostics.
	Resource string
	// Namespace is the prefix bound to the reserved namespace.
	Namespace string
	// XMLDeclaration is the <?xml ...?> declaration if the template had one.
	XMLDeclaration string
	// Encoding is the character encoding the template was decoded from.
	Encoding string
}

// Markup is the assembled, immutable element sequence of one template.
// It is safe for concurrent use.
type Markup struct {
	info     Info
	elements []Element

	indexOnce sync.Once
	index     map[string]int
}

// New freezes elements into a Markup. The slice is copied.
func New(info Info, elements []Element) *Markup {
	if info.Namespace == "" {
		info.Namespace = DefaultNamespace
	}
	els := make([]Element, len(elements))
	copy(els, elements)
	return &Markup{info: info, elements: els}
}

// Info returns the markup's metadata.
func (m *Markup) Info() Info { return m.info }

// Resource returns the template name.
func (m *Markup) Resource() string { return m.info.Resource }

// Namespace returns the reserved namespace prefix.
func (m *Markup) Namespace() string { return m.info.Namespace }

// Len returns the number of elements.
func (m *Markup) Len() int { return len(m.elements) }

// Get returns the element at i.
func (m *Markup) Get(i int) Element { return m.elements[i] }

// Elements returns a copy of the element sequence.
func (m *Markup) Elements() []Element {
	out := make([]Element, len(m.elements))
	copy(out, m.elements)
	return out
}

// Text concatenates all elements back into markup text.
func (m *Markup) Text() string {
	var sb strings.Builder
	for _, el := range m.elements {
		sb.WriteString(el.String())
	}
	return sb.String()
}

// FindComponentIndex returns the element index of the open tag for a
// colon-separated component path such as "form:name", or -1.
//
// Auto component tags are indexed under their own id but do not contribute
// a path segment, so ids inside <wicket:panel> resolve relative to the panel.
func (m *Markup) FindComponentIndex(path string) int {
	if path == "" {
		return -1
	}
	m.indexOnce.Do(m.buildIndex)
	if i, ok := m.index[path]; ok {
		return i
	}
	return -1
}

func (m *Markup) buildIndex() {
	m.index = make(map[string]int)
	var stack []*ComponentTag
	for i, el := range m.elements {
		tag, ok := el.(*ComponentTag)
		if !ok {
			continue
		}
		switch tag.Kind {
		case Open, OpenClose:
			key := joinPath(stack, tag.ID)
			if _, exists := m.index[key]; !exists {
				m.index[key] = i
			}
			if tag.Kind == Open && !tag.NoCloseTag {
				stack = append(stack, tag)
			}
		case Close:
			for n := len(stack) - 1; n >= 0; n-- {
				if tag.Closes(stack[n]) {
					stack = stack[:n]
					break
				}
			}
		}
	}
}

func joinPath(stack []*ComponentTag, id string) string {
	var parts []string
	for _, t := range stack {
		if !strings.HasPrefix(t.ID, AutoIDPrefix) {
			parts = append(parts, t.ID)
		}
	}
	return strings.Join(append(parts, id), ":")
}

func (m *Markup) String() string {
	return m.info.Resource + " (" + strconv.Itoa(len(m.elements)) + " elements)"
}
