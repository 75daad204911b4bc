package encoding

import (
	"fmt"

	"github.com/pthm/hxmarkup/lib/locator"
	"github.com/pthm/hxmarkup/lib/markup"
)

// BundleVersion is bumped whenever the record layout changes.
const BundleVersion = 1

// Bundle is a set of precompiled templates.
type Bundle struct {
	Entries []BundleEntry
}

// BundleEntry is one template in a bundle.
type BundleEntry struct {
	Key    locator.Key
	Markup *markup.Markup
}

// Add appends a template.
func (b *Bundle) Add(key locator.Key, m *markup.Markup) {
	b.Entries = append(b.Entries, BundleEntry{Key: key, Markup: m})
}

type bundleRecord struct {
	Version int           `msgpack:"v"`
	Entries []entryRecord `msgpack:"e"`
}

type entryRecord struct {
	Name      string       `msgpack:"n"`
	Style     string       `msgpack:"s,omitempty"`
	Locale    string       `msgpack:"l,omitempty"`
	Extension string       `msgpack:"x,omitempty"`
	Markup    markupRecord `msgpack:"m"`
}

type markupRecord struct {
	Resource       string          `msgpack:"r"`
	Namespace      string          `msgpack:"ns"`
	XMLDeclaration string          `msgpack:"xd,omitempty"`
	Encoding       string          `msgpack:"enc,omitempty"`
	Elements       []elementRecord `msgpack:"el"`
}

// elementRecord holds raw text when Tag is nil.
type elementRecord struct {
	Text string     `msgpack:"t,omitempty"`
	Tag  *tagRecord `msgpack:"g,omitempty"`
}

type tagRecord struct {
	Name       string       `msgpack:"n"`
	Prefix     string       `msgpack:"p,omitempty"`
	Attrs      []attrRecord `msgpack:"a,omitempty"`
	Kind       uint8        `msgpack:"k"`
	Pos        int          `msgpack:"o"`
	Length     int          `msgpack:"len"`
	Text       string       `msgpack:"t,omitempty"`
	ID         string       `msgpack:"id,omitempty"`
	WicketTag  bool         `msgpack:"w,omitempty"`
	Modified   bool         `msgpack:"mod,omitempty"`
	Synthetic  bool         `msgpack:"syn,omitempty"`
	NoCloseTag bool         `msgpack:"nc,omitempty"`
	// OpenTag is the element index of the linked open tag, or -1.
	OpenTag int `msgpack:"ot"`
}

type attrRecord struct {
	Key   string `msgpack:"k"`
	Value string `msgpack:"v"`
	Quote byte   `msgpack:"q"`
}

// EncodeMarkup serializes a single markup.
func (e *Encoder) EncodeMarkup(m *markup.Markup, sensitive bool) (string, error) {
	return e.Encode(toRecord(m), sensitive)
}

// DecodeMarkup restores a markup written by EncodeMarkup.
func (e *Encoder) DecodeMarkup(encoded string, sensitive bool) (*markup.Markup, error) {
	var rec markupRecord
	if err := e.Decode(encoded, sensitive, &rec); err != nil {
		return nil, err
	}
	return fromRecord(rec)
}

// EncodeBundle serializes a bundle.
func (e *Encoder) EncodeBundle(b *Bundle, sensitive bool) (string, error) {
	rec := bundleRecord{Version: BundleVersion}
	for _, entry := range b.Entries {
		rec.Entries = append(rec.Entries, entryRecord{
			Name:      entry.Key.Name,
			Style:     entry.Key.Style,
			Locale:    entry.Key.Locale,
			Extension: entry.Key.Extension,
			Markup:    toRecord(entry.Markup),
		})
	}
	return e.Encode(rec, sensitive)
}

// DecodeBundle restores a bundle written by EncodeBundle.
func (e *Encoder) DecodeBundle(encoded string, sensitive bool) (*Bundle, error) {
	var rec bundleRecord
	if err := e.Decode(encoded, sensitive, &rec); err != nil {
		return nil, err
	}
	if rec.Version != BundleVersion {
		return nil, fmt.Errorf("%w: bundle version %d, want %d", ErrInvalidFormat, rec.Version, BundleVersion)
	}
	b := &Bundle{}
	for _, er := range rec.Entries {
		m, err := fromRecord(er.Markup)
		if err != nil {
			return nil, err
		}
		b.Add(locator.Key{Name: er.Name, Style: er.Style, Locale: er.Locale, Extension: er.Extension}, m)
	}
	return b, nil
}

func toRecord(m *markup.Markup) markupRecord {
	info := m.Info()
	rec := markupRecord{
		Resource:       info.Resource,
		Namespace:      info.Namespace,
		XMLDeclaration: info.XMLDeclaration,
		Encoding:       info.Encoding,
	}
	index := make(map[*markup.ComponentTag]int)
	for i, el := range m.Elements() {
		switch el := el.(type) {
		case markup.RawText:
			rec.Elements = append(rec.Elements, elementRecord{Text: string(el)})
		case *markup.ComponentTag:
			index[el] = i
			tr := &tagRecord{
				Name:       el.Name,
				Prefix:     el.Prefix,
				Kind:       uint8(el.Kind),
				Pos:        el.Pos,
				Length:     el.Length,
				Text:       el.Text,
				ID:         el.ID,
				WicketTag:  el.WicketTag,
				Modified:   el.Modified,
				Synthetic:  el.Synthetic,
				NoCloseTag: el.NoCloseTag,
				OpenTag:    -1,
			}
			for _, a := range el.Attrs {
				tr.Attrs = append(tr.Attrs, attrRecord{Key: a.Key, Value: a.Value, Quote: a.Quote})
			}
			if j, ok := index[el.OpenTag]; ok && el.OpenTag != nil {
				tr.OpenTag = j
			}
			rec.Elements = append(rec.Elements, elementRecord{Tag: tr})
		}
	}
	return rec
}

func fromRecord(rec markupRecord) (*markup.Markup, error) {
	els := make([]markup.Element, len(rec.Elements))
	for i, er := range rec.Elements {
		if er.Tag == nil {
			els[i] = markup.RawText(er.Text)
			continue
		}
		tr := er.Tag
		tag := markup.NewTag(markup.RawTag{
			Name:   tr.Name,
			Prefix: tr.Prefix,
			Kind:   markup.Kind(tr.Kind),
			Pos:    tr.Pos,
			Length: tr.Length,
			Text:   tr.Text,
		})
		for _, a := range tr.Attrs {
			tag.Attrs = append(tag.Attrs, markup.Attr{Key: a.Key, Value: a.Value, Quote: a.Quote})
		}
		tag.ID = tr.ID
		tag.WicketTag = tr.WicketTag
		tag.Modified = tr.Modified
		tag.Synthetic = tr.Synthetic
		tag.NoCloseTag = tr.NoCloseTag
		if tr.OpenTag >= 0 {
			if tr.OpenTag >= i {
				return nil, fmt.Errorf("%w: element %d links forward to %d", ErrInvalidFormat, i, tr.OpenTag)
			}
			open, ok := els[tr.OpenTag].(*markup.ComponentTag)
			if !ok {
				return nil, fmt.Errorf("%w: element %d links to raw text", ErrInvalidFormat, i)
			}
			tag.OpenTag = open
		}
		els[i] = tag
	}
	return markup.New(markup.Info{
		Resource:       rec.Resource,
		Namespace:      rec.Namespace,
		XMLDeclaration: rec.XMLDeclaration,
		Encoding:       rec.Encoding,
	}, els), nil
}
