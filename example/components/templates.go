// Package components holds the panels of the todo example and their
// templates.
package components

import "embed"

// Templates holds the page and panel templates.
//
//go:embed *.html
var Templates embed.FS
