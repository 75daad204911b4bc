// Package xmlparser is the first stage of the markup pipeline. It splits a
// template into tags using the golang.org/x/net/html tokenizer and leaves
// everything else (text, comments, doctype, script and style bodies) in the
// input for the assembler to copy through as raw text.
package xmlparser

import (
	"bytes"
	"fmt"
	"io"
	"regexp"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"

	"github.com/pthm/hxmarkup/lib/markup"
)

var (
	utf8BOM     = []byte{0xEF, 0xBB, 0xBF}
	xmlEncoding = regexp.MustCompile(`^\s*<\?xml\s[^>]*encoding\s*=\s*["']([A-Za-z0-9._:-]+)["']`)
)

// Parser produces the raw tags of one template.
type Parser struct {
	src      string
	z        *html.Tokenizer
	pos      int
	xmlDecl  string
	encoding string
	sawTag   bool
}

// New returns a parser over already decoded source text.
func New(src string) *Parser {
	return &Parser{
		src:      src,
		z:        html.NewTokenizer(strings.NewReader(src)),
		encoding: "utf-8",
	}
}

// Parse reads r, decodes it and returns a parser over the result.
//
// The encoding named in an XML declaration wins over defaultEncoding. An
// empty defaultEncoding means UTF-8.
func Parse(r io.Reader, defaultEncoding string) (*Parser, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	enc := defaultEncoding
	if m := xmlEncoding.FindSubmatch(data); m != nil {
		enc = string(m[1])
	}
	enc = strings.ToLower(strings.TrimSpace(enc))
	if enc == "" || enc == "utf-8" || enc == "utf8" {
		p := New(string(data))
		return p, nil
	}

	rd, err := charset.NewReaderLabel(enc, bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("xmlparser: decode %q: %w", enc, err)
	}
	decoded, err := io.ReadAll(rd)
	if err != nil {
		return nil, fmt.Errorf("xmlparser: decode %q: %w", enc, err)
	}
	p := New(string(decoded))
	p.encoding = enc
	return p, nil
}

// NextTag returns the next tag, or io.EOF once the input is exhausted.
func (p *Parser) NextTag() (*markup.ComponentTag, error) {
	for {
		tt := p.z.Next()
		raw := string(p.z.Raw())
		start := p.pos
		p.pos += len(raw)

		switch tt {
		case html.ErrorToken:
			if err := p.z.Err(); err != io.EOF {
				return nil, err
			}
			return nil, io.EOF
		case html.StartTagToken, html.EndTagToken, html.SelfClosingTagToken:
			p.sawTag = true
			kind := markup.Open
			switch tt {
			case html.EndTagToken:
				kind = markup.Close
			case html.SelfClosingTagToken:
				kind = markup.OpenClose
			}
			tag, err := scanTag(raw, kind)
			if err != nil {
				return nil, &markup.ParseError{Err: markup.ErrMalformedTag, Msg: err.Error(), Tag: raw, Pos: start}
			}
			tag.Pos = start
			tag.Length = len(raw)
			if tagsInBody(tag, tt) {
				p.z.NextIsNotRawText()
			}
			return markup.NewTag(tag), nil
		case html.CommentToken:
			// x/net/html reports <?xml ...?> as a bogus comment.
			if !p.sawTag && p.xmlDecl == "" && strings.HasPrefix(raw, "<?xml") {
				p.xmlDecl = raw
			}
		}
	}
}

// tagsInBody reports whether the body of tag must be tokenized even though
// HTML parses it as raw text (<title>, <textarea>, <noscript>, ...).
// Only script and style bodies stay raw. A self-closing tag has no body.
func tagsInBody(tag markup.RawTag, tt html.TokenType) bool {
	if tt == html.SelfClosingTagToken {
		return true
	}
	if tt != html.StartTagToken || tag.Prefix != "" {
		return false
	}
	name := strings.ToLower(tag.Name)
	return name != "script" && name != "style"
}

// Input returns the source between two offsets. A negative to means the end
// of the input.
func (p *Parser) Input(from, to int) string {
	if to < 0 || to > len(p.src) {
		to = len(p.src)
	}
	if from >= to {
		return ""
	}
	return p.src[from:to]
}

// Source returns the decoded template text.
func (p *Parser) Source() string { return p.src }

// XMLDeclaration returns the <?xml ...?> declaration, if any.
func (p *Parser) XMLDeclaration() string { return p.xmlDecl }

// Encoding returns the encoding the source was decoded from.
func (p *Parser) Encoding() string { return p.encoding }

// Position converts a byte offset into a 1-based line and column.
func (p *Parser) Position(offset int) (line, column int) {
	return Position(p.src, offset)
}

// Position converts a byte offset in src into a 1-based line and column.
func Position(src string, offset int) (line, column int) {
	if offset > len(src) {
		offset = len(src)
	}
	line = 1 + strings.Count(src[:offset], "\n")
	lineStart := strings.LastIndexByte(src[:offset], '\n') + 1
	return line, offset - lineStart + 1
}
