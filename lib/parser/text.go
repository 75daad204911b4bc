package parser

import (
	"regexp"
	"strings"
)

var (
	htmlComment = regexp.MustCompile(`(?s)<!--(.*?)-->`)
	blankRun    = regexp.MustCompile(`[ \t]+`)
	lineRun     = regexp.MustCompile(`( ?[\r\n] ?)+`)
)

// stripComments removes HTML comments. Conditional comments
// (<!--[if IE]>...<![endif]-->) are kept.
func stripComments(s string) string {
	if !strings.Contains(s, "<!--") {
		return s
	}
	return htmlComment.ReplaceAllStringFunc(s, func(c string) string {
		body := c[4 : len(c)-3]
		if strings.HasPrefix(body, "[if ") || strings.HasSuffix(body, "<![endif]") {
			return c
		}
		return ""
	})
}

// compressWhitespace collapses whitespace outside <pre> blocks. inPre is
// the state carried over from the previous chunk; the returned bool is the
// state at the end of s.
func compressWhitespace(s string, inPre bool) (string, bool) {
	var sb strings.Builder
	lower := strings.ToLower(s)
	for s != "" {
		if inPre {
			i := strings.Index(lower, "</pre")
			if i < 0 {
				sb.WriteString(s)
				return sb.String(), true
			}
			sb.WriteString(s[:i])
			s, lower = s[i:], lower[i:]
			inPre = false
			continue
		}
		i := indexPreOpen(lower)
		if i < 0 {
			sb.WriteString(compress(s))
			break
		}
		sb.WriteString(compress(s[:i]))
		s, lower = s[i:], lower[i:]
		inPre = true
	}
	return sb.String(), inPre
}

func compress(s string) string {
	s = blankRun.ReplaceAllString(s, " ")
	return lineRun.ReplaceAllString(s, "\n")
}

// indexPreOpen finds "<pre" followed by a delimiter, so <prefix> does not
// count.
func indexPreOpen(lower string) int {
	off := 0
	for {
		i := strings.Index(lower[off:], "<pre")
		if i < 0 {
			return -1
		}
		j := off + i + len("<pre")
		if j >= len(lower) {
			return off + i
		}
		switch lower[j] {
		case '>', ' ', '\t', '\n', '\r', '/':
			return off + i
		}
		off = j
	}
}
