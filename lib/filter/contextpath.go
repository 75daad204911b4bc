package filter

import (
	"strings"

	"github.com/pthm/hxmarkup/lib/markup"
)

var contextPathAttrs = []string{"href", "src", "background"}

// ContextPathHandler prefixes relative href, src and background values of
// raw tags with the application's context path.
type ContextPathHandler struct {
	contextPath string
}

// NewContextPathHandler returns a handler for contextPath. An empty or "/"
// context path disables the rewrite.
func NewContextPathHandler(contextPath string) *ContextPathHandler {
	contextPath = strings.TrimSpace(contextPath)
	if contextPath == "/" {
		contextPath = ""
	}
	if contextPath != "" && !strings.HasSuffix(contextPath, "/") {
		contextPath += "/"
	}
	return &ContextPathHandler{contextPath: contextPath}
}

// NextTag implements Filter.
func (f *ContextPathHandler) NextTag(parent Source) (*markup.ComponentTag, error) {
	tag, err := parent.NextTag()
	if err != nil || f.contextPath == "" {
		return tag, err
	}
	if tag.IsClose() || tag.ID != "" || tag.WicketTag {
		return tag, nil
	}
	for _, name := range contextPathAttrs {
		v, ok := tag.Attrs.Lookup(name)
		if ok && isRelativeURL(v) {
			tag.Put(name, f.contextPath+v)
		}
	}
	return tag, nil
}

func isRelativeURL(v string) bool {
	v = strings.TrimSpace(v)
	if v == "" || strings.HasPrefix(v, "/") || strings.HasPrefix(v, "#") || strings.HasPrefix(v, "?") {
		return false
	}
	return !strings.Contains(v, ":")
}
