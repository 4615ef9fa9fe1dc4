// Package render provides markdown rendering and sizing utilities for
// terminal output.
package render

// Glamour standard styles selected by the dark-mode preference
const (
	StyleDark  = "dark"
	StyleLight = "light"
)

// Options selects a renderer. Emoji conversion, preserved line breaks and
// table wrapping are always on; only wrap width and style vary per row.
type Options struct {
	Width int
	// Style is a glamour standard style name or a path to a JSON style file
	Style string
}

// DefaultOptions is an 80 column light renderer.
func DefaultOptions() Options {
	return Options{Width: 80, Style: StyleLight}
}

func (o Options) WithWidth(width int) Options {
	o.Width = width
	return o
}

func (o Options) WithStyle(style string) Options {
	o.Style = style
	return o
}

// StyleFor maps the dark-mode flag to a glamour style
func StyleFor(dark bool) string {
	if dark {
		return StyleDark
	}
	return StyleLight
}
