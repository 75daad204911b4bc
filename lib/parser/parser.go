// Package parser turns template text into an immutable markup.Markup.
//
// A parse runs the tokenizer through a freshly built filter chain and
// assembles what comes out: component tags become tag elements, everything
// in between is copied through as raw text.
package parser

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/pthm/hxmarkup/lib/filter"
	"github.com/pthm/hxmarkup/lib/markup"
	"github.com/pthm/hxmarkup/lib/xmlparser"
)

// StageFactory builds an extra stage for one parse. Stages are registered
// by priority on top of the default chain.
type StageFactory func(state *filter.State) filter.Stage

// Options configures a Parser.
type Options struct {
	// Namespace is the reserved namespace prefix. Defaults to "wicket".
	Namespace string
	// Registry lists the tags accepted in the reserved namespace.
	Registry *filter.TagRegistry
	// StripComments drops HTML comments other than conditional comments.
	StripComments bool
	// CompressWhitespace collapses runs of blanks and line breaks outside
	// <pre> blocks.
	CompressWhitespace bool
	// StripWicketTags removes the namespace declaration from <html>.
	StripWicketTags bool
	// DefaultEncoding is used when the template does not declare one.
	DefaultEncoding string
	// ContextPath enables relative link rewriting.
	ContextPath string
	// InsertHead adds a <head> in front of a <body> that has none, so
	// pages always have a place for header contributions.
	InsertHead bool
	// Filters adds stages to every parse.
	Filters []StageFactory
	// Logger receives debug output. Defaults to slog.Default().
	Logger *slog.Logger
}

// Parser parses templates. It is stateless between calls and safe for
// concurrent use.
type Parser struct {
	opts Options
}

// New returns a parser.
func New(opts Options) *Parser {
	if opts.Namespace == "" {
		opts.Namespace = markup.DefaultNamespace
	}
	if opts.Registry == nil {
		opts.Registry = filter.DefaultTagRegistry()
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Parser{opts: opts}
}

// Options returns the parser's configuration.
func (p *Parser) Options() Options { return p.opts }

// ParseString parses src.
func (p *Parser) ParseString(resource, src string) (*markup.Markup, error) {
	return p.Parse(resource, strings.NewReader(src))
}

// Parse reads and parses one template. Failures are *markup.ParseError
// values carrying the resource name and the line and column of the
// offending tag.
func (p *Parser) Parse(resource string, r io.Reader) (*markup.Markup, error) {
	tokenizer, err := xmlparser.Parse(r, p.opts.DefaultEncoding)
	if err != nil {
		return nil, fmt.Errorf("parser: %s: %w", resource, err)
	}

	state := filter.NewState(p.opts.Namespace)
	chain, err := p.chain(state)
	if err != nil {
		return nil, fmt.Errorf("parser: %s: %w", resource, err)
	}

	a := &assembler{
		input:    tokenizer,
		comments: p.opts.StripComments,
		compress: p.opts.CompressWhitespace,
	}
	if err := a.run(chain.Build(tokenizer)); err != nil {
		var pe *markup.ParseError
		if errors.As(err, &pe) {
			pe.Resource = resource
			pe.Line, pe.Column = tokenizer.Position(pe.Pos)
			return nil, pe
		}
		return nil, fmt.Errorf("parser: %s: %w", resource, err)
	}

	m := markup.New(markup.Info{
		Resource:       resource,
		Namespace:      state.Namespace,
		XMLDeclaration: tokenizer.XMLDeclaration(),
		Encoding:       tokenizer.Encoding(),
	}, a.elements)

	if state.Namespace != markup.DefaultNamespace {
		p.opts.Logger.Debug("markup uses a non-default namespace",
			slog.String("resource", resource),
			slog.String("namespace", state.Namespace))
	}
	p.opts.Logger.Debug("parsed markup",
		slog.String("resource", resource),
		slog.Int("elements", m.Len()))
	return m, nil
}

func (p *Parser) chain(state *filter.State) (*filter.Chain, error) {
	c := filter.DefaultChain(state, filter.Config{
		Registry:        p.opts.Registry,
		StripWicketTags: p.opts.StripWicketTags,
		ContextPath:     p.opts.ContextPath,
		InsertHead:      p.opts.InsertHead,
	})
	for _, f := range p.opts.Filters {
		if err := c.Register(f(state)); err != nil {
			return nil, err
		}
	}
	return c, nil
}

type assembler struct {
	input    *xmlparser.Parser
	comments bool
	compress bool

	elements []markup.Element
	inPre    bool
}

func (a *assembler) run(src filter.Source) error {
	pos := 0
	for {
		tag, err := src.NextTag()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}

		add := tag.ID != "" || (tag.IsClose() && tag.OpenTag != nil && tag.OpenTag.ID != "")
		if !add && !tag.Modified && !tag.Ignore {
			continue
		}

		a.text(a.input.Input(pos, tag.Pos))
		switch {
		case tag.Ignore:
			pos = tag.RegionEnd
			continue
		case add:
			a.trackPre(tag)
			a.elements = append(a.elements, tag)
		default:
			a.text(tag.String())
		}
		pos = tag.End()
	}
	a.text(a.input.Input(pos, -1))
	return nil
}

// text appends raw markup, merging it into a preceding raw text element.
func (a *assembler) text(s string) {
	if s == "" {
		return
	}
	if a.comments {
		s = stripComments(s)
	}
	if a.compress {
		s, a.inPre = compressWhitespace(s, a.inPre)
	}
	if s == "" {
		return
	}
	if n := len(a.elements); n > 0 {
		if prev, ok := a.elements[n-1].(markup.RawText); ok {
			a.elements[n-1] = prev + markup.RawText(s)
			return
		}
	}
	a.elements = append(a.elements, markup.RawText(s))
}

func (a *assembler) trackPre(tag *markup.ComponentTag) {
	if tag.Prefix != "" || !strings.EqualFold(tag.Name, "pre") {
		return
	}
	switch tag.Kind {
	case markup.Open:
		a.inPre = true
	case markup.Close:
		a.inPre = false
	}
}
