package render

import (
	"os"

	"github.com/diogo/chatty/internal/config"
)

// OptionsFor derives render options from the display preferences for a
// transcript of the given terminal width. GLAMOUR_STYLE overrides the
// style picked from the dark-mode flag.
func OptionsFor(prefs config.Preferences, width int) Options {
	opts := DefaultOptions().
		WithStyle(StyleFor(prefs.DarkMode)).
		WithWidth(RowStyle(prefs.FontSize).WrapWidth(width))

	if style := os.Getenv("GLAMOUR_STYLE"); style != "" {
		opts.Style = style
	}
	return opts
}
