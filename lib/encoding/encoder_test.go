package encoding

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/pthm/hxmarkup/lib/locator"
	"github.com/pthm/hxmarkup/lib/markup"
	"github.com/pthm/hxmarkup/lib/parser"
)

type sample struct {
	ID   int64  `msgpack:"id"`
	Name string `msgpack:"name"`
	Flag bool   `msgpack:"flag"`
}

func mustEncoder(t *testing.T, key string) *Encoder {
	t.Helper()
	enc, err := NewEncoder([]byte(key))
	if err != nil {
		t.Fatalf("NewEncoder failed: %v", err)
	}
	return enc
}

func TestNewEncoder(t *testing.T) {
	// Any key length works; short keys are stretched.
	if _, err := NewEncoder([]byte("short")); err != nil {
		t.Fatalf("NewEncoder with short key failed: %v", err)
	}
	if _, err := NewEncoder([]byte("this-is-a-32-byte-key-for-aes!!!")); err != nil {
		t.Fatalf("NewEncoder with 32-byte key failed: %v", err)
	}
}

func TestRoundTrip(t *testing.T) {
	enc := mustEncoder(t, "test-key")
	original := sample{ID: 12345, Name: "page.html", Flag: true}

	for _, sensitive := range []bool{false, true} {
		encoded, err := enc.Encode(original, sensitive)
		if err != nil {
			t.Fatalf("Encode(sensitive=%v) failed: %v", sensitive, err)
		}
		if !sensitive && !strings.Contains(encoded, ".") {
			t.Errorf("signed encoding should be payload.signature, got %q", encoded)
		}

		var decoded sample
		if err := enc.Decode(encoded, sensitive, &decoded); err != nil {
			t.Fatalf("Decode(sensitive=%v) failed: %v", sensitive, err)
		}
		if decoded != original {
			t.Errorf("Decode(sensitive=%v) = %+v, want %+v", sensitive, decoded, original)
		}
	}
}

func TestTampering(t *testing.T) {
	enc := mustEncoder(t, "test-key")

	tests := []struct {
		name      string
		sensitive bool
		want      error
	}{
		{"signed", false, ErrSignatureInvalid},
		{"encrypted", true, ErrDecryptFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			encoded, err := enc.Encode(sample{ID: 1, Name: "x"}, tt.sensitive)
			if err != nil {
				t.Fatalf("Encode failed: %v", err)
			}
			flip := "A"
			if encoded[0] == 'A' {
				flip = "B"
			}
			tampered := flip + encoded[1:]

			var decoded sample
			err = enc.Decode(tampered, tt.sensitive, &decoded)
			if !errors.Is(err, tt.want) {
				t.Errorf("Decode(tampered) error = %v, want %v", err, tt.want)
			}
		})
	}
}

func TestInvalidFormat(t *testing.T) {
	enc := mustEncoder(t, "test-key")

	var decoded sample
	if err := enc.Decode("no-separator-here", false, &decoded); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got: %v", err)
	}
	if err := enc.Decode("!!", true, &decoded); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got: %v", err)
	}
}

func TestDifferentKeysCannotDecode(t *testing.T) {
	enc1 := mustEncoder(t, "key-one")
	enc2 := mustEncoder(t, "key-two")

	encoded, err := enc1.Encode(sample{ID: 123}, false)
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	var decoded sample
	if err := enc2.Decode(encoded, false, &decoded); !errors.Is(err, ErrSignatureInvalid) {
		t.Errorf("expected ErrSignatureInvalid, got: %v", err)
	}
}

// shape flattens a markup for comparison, including the open tag links.
func shape(m *markup.Markup) []string {
	var out []string
	index := map[*markup.ComponentTag]int{}
	for i, el := range m.Elements() {
		tag, ok := el.(*markup.ComponentTag)
		if !ok {
			out = append(out, "raw:"+el.String())
			continue
		}
		index[tag] = i
		link := -1
		if j, ok := index[tag.OpenTag]; ok {
			link = j
		}
		out = append(out, strings.Join([]string{
			"tag:" + tag.String(), tag.ID, tag.Kind.String(),
			strings.Repeat("^", link+1),
		}, "|"))
	}
	return out
}

func TestMarkupRoundTrip(t *testing.T) {
	src := `<html xmlns:wicket="http://wicket.apache.org"><body>
<wicket:enclosure><div wicket:id="box"/></wicket:enclosure>
<ul><li wicket:id="row">x</ul><img wicket:id="pic" src='a.png'>
</body></html>`
	m, err := parser.New(parser.Options{}).ParseString("Home.html", src)
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	enc := mustEncoder(t, "bundle-key")
	for _, sensitive := range []bool{false, true} {
		encoded, err := enc.EncodeMarkup(m, sensitive)
		if err != nil {
			t.Fatalf("EncodeMarkup: %v", err)
		}
		got, err := enc.DecodeMarkup(encoded, sensitive)
		if err != nil {
			t.Fatalf("DecodeMarkup: %v", err)
		}
		if diff := cmp.Diff(shape(m), shape(got)); diff != "" {
			t.Errorf("markup mismatch (-want +got):\n%s", diff)
		}
		if got.Info() != m.Info() {
			t.Errorf("Info() = %+v, want %+v", got.Info(), m.Info())
		}
		if got.Text() != m.Text() {
			t.Errorf("Text() differs after round trip")
		}
	}
}

func TestBundleRoundTrip(t *testing.T) {
	p := parser.New(parser.Options{})
	home, _ := p.ParseString("Home.html", `<p wicket:id="a">x</p>`)
	homeDE, _ := p.ParseString("Home_de.html", `<p wicket:id="a">y</p>`)

	var b Bundle
	b.Add(locator.Key{Name: "Home"}, home)
	b.Add(locator.Key{Name: "Home", Locale: "de"}, homeDE)

	enc := mustEncoder(t, "bundle-key")
	encoded, err := enc.EncodeBundle(&b, false)
	if err != nil {
		t.Fatalf("EncodeBundle: %v", err)
	}
	got, err := enc.DecodeBundle(encoded, false)
	if err != nil {
		t.Fatalf("DecodeBundle: %v", err)
	}
	if len(got.Entries) != 2 {
		t.Fatalf("got %d entries", len(got.Entries))
	}
	if got.Entries[1].Key != (locator.Key{Name: "Home", Locale: "de"}) {
		t.Errorf("key = %+v", got.Entries[1].Key)
	}
	if got.Entries[1].Markup.Text() != homeDE.Text() {
		t.Errorf("markup text = %q", got.Entries[1].Markup.Text())
	}
}

func TestBundleVersionMismatch(t *testing.T) {
	enc := mustEncoder(t, "bundle-key")
	encoded, err := enc.Encode(bundleRecord{Version: BundleVersion + 1}, false)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := enc.DecodeBundle(encoded, false); !errors.Is(err, ErrInvalidFormat) {
		t.Errorf("expected ErrInvalidFormat, got %v", err)
	}
}
