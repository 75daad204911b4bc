package hxmarkup

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pthm/hxmarkup/lib/locator"
	"github.com/pthm/hxmarkup/lib/parser"
)

func TestLoadBundle(t *testing.T) {
	m, err := parser.New(parser.Options{}).ParseString("Home.html", `<p wicket:id="a">x</p>`)
	require.NoError(t, err)
	var b Bundle
	b.Add(locator.Key{Name: "Home"}, m)

	enc, err := NewEncoder([]byte("bundle-key"))
	require.NoError(t, err)

	for _, sensitive := range []bool{false, true} {
		data, err := enc.EncodeBundle(&b, sensitive)
		require.NoError(t, err)

		got, err := LoadBundle(strings.NewReader(data+"\n"), []byte("bundle-key"))
		require.NoError(t, err, "sensitive=%v", sensitive)
		require.Len(t, got.Entries, 1)
		assert.Equal(t, m.Text(), got.Entries[0].Markup.Text())

		_, err = LoadBundle(strings.NewReader(data), []byte("other-key"))
		assert.ErrorIs(t, err, ErrInvalidBundle, "sensitive=%v", sensitive)
	}
}

func TestLoadBundleGarbage(t *testing.T) {
	_, err := LoadBundle(strings.NewReader("not a bundle"), []byte("k"))
	assert.ErrorIs(t, err, ErrInvalidBundle)
}
