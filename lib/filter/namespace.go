package filter

import (
	"strings"

	"github.com/pthm/hxmarkup/lib/markup"
)

// legacyNamespaceURI is still accepted in older templates.
const legacyNamespaceURI = "http://wicket.sourceforge.net"

// NamespaceHandler picks up the namespace prefix a template declares with
// xmlns:prefix on its <html> tag. Stages nearer the tokenizer see the new
// prefix from the next tag on.
type NamespaceHandler struct {
	state *State
	strip bool
}

// NewNamespaceHandler returns a handler updating state. With strip set the
// declaring attribute is removed from the output.
func NewNamespaceHandler(state *State, strip bool) *NamespaceHandler {
	return &NamespaceHandler{state: state, strip: strip}
}

// NextTag implements Filter.
func (f *NamespaceHandler) NextTag(parent Source) (*markup.ComponentTag, error) {
	tag, err := parent.NextTag()
	if err != nil {
		return nil, err
	}
	if tag.IsClose() || tag.Prefix != "" || !strings.EqualFold(tag.Name, "html") {
		return tag, nil
	}
	for _, attr := range tag.Attrs {
		prefix, ok := cutFold(attr.Key, "xmlns:")
		if !ok || prefix == "" || !isNamespaceURI(attr.Value) {
			continue
		}
		f.state.Namespace = prefix
		if f.strip {
			tag.RemoveAttr(attr.Key)
		}
		break
	}
	return tag, nil
}

func isNamespaceURI(v string) bool {
	v = strings.TrimSpace(v)
	return strings.HasPrefix(v, markup.NamespaceURI) || strings.HasPrefix(v, legacyNamespaceURI)
}

func cutFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}
