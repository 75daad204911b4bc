package xmlparser

import (
	"errors"
	"strings"

	"github.com/pthm/hxmarkup/lib/markup"
)

// scanTag re-reads the raw text of a tag token. The x/net/html tokenizer
// lower-cases names and attribute keys; templates need the original spelling
// and quote style so untouched tags can be echoed byte for byte.
func scanTag(raw string, kind markup.Kind) (markup.RawTag, error) {
	tag := markup.RawTag{Kind: kind, Text: raw}

	i := 1 // skip '<'
	if kind == markup.Close {
		i++ // skip '/'
	}
	start := i
	for i < len(raw) && !isSpace(raw[i]) && raw[i] != '/' && raw[i] != '>' {
		i++
	}
	qname := raw[start:i]
	if qname == "" {
		return tag, errors.New("tag without a name")
	}
	if colon := strings.IndexByte(qname, ':'); colon > 0 {
		tag.Prefix, tag.Name = qname[:colon], qname[colon+1:]
	} else {
		tag.Name = qname
	}

	for i < len(raw) {
		for i < len(raw) && (isSpace(raw[i]) || raw[i] == '/') {
			i++
		}
		if i >= len(raw) || raw[i] == '>' {
			break
		}

		keyStart := i
		for i < len(raw) && !isSpace(raw[i]) && raw[i] != '=' && raw[i] != '>' && raw[i] != '/' {
			i++
		}
		attr := markup.Attr{Key: raw[keyStart:i]}

		j := i
		for j < len(raw) && isSpace(raw[j]) {
			j++
		}
		if j < len(raw) && raw[j] == '=' {
			j++
			for j < len(raw) && isSpace(raw[j]) {
				j++
			}
			if j < len(raw) && (raw[j] == '"' || raw[j] == '\'') {
				q := raw[j]
				end := strings.IndexByte(raw[j+1:], q)
				if end < 0 {
					return tag, errors.New("unmatched quote in attribute " + attr.Key)
				}
				attr.Value = raw[j+1 : j+1+end]
				attr.Quote = q
				j += end + 2
			} else {
				valStart := j
				for j < len(raw) && !isSpace(raw[j]) && raw[j] != '>' {
					j++
				}
				// A trailing slash belongs to the self-closing marker.
				if kind == markup.OpenClose && j < len(raw) && raw[j] == '>' && j > valStart && raw[j-1] == '/' {
					j--
				}
				attr.Value = raw[valStart:j]
			}
			i = j
		}
		if kind != markup.Close {
			tag.Attrs = append(tag.Attrs, attr)
		}
	}
	return tag, nil
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f'
}
