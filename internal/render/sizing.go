package render

import (
	"math"

	"github.com/diogo/chatty/internal/models"
)

// minWrapWidth keeps very narrow terminals readable
const minWrapWidth = 20

// RowMetrics is the terminal rendition of a text size. A terminal cannot
// change glyph size, so larger sizes get a narrower wrap column, more
// breathing room and emphasis.
type RowMetrics struct {
	// Points is the nominal text size the row was bound with
	Points float64
	// Indent is the number of columns the response is shifted right
	Indent int
	// Gap is the number of blank lines after the row
	Gap int
	// Bold emphasizes the query line
	Bold bool
}

// RowStyle returns the metrics for a font size category.
func RowStyle(size models.FontSize) RowMetrics {
	m := RowMetrics{Points: size.Points()}
	switch size {
	case models.FontSmall:
		m.Indent, m.Gap = 0, 0
	case models.FontLarge:
		m.Indent, m.Gap, m.Bold = 2, 2, true
	default:
		m.Indent, m.Gap = 1, 1
	}
	return m
}

// WrapWidth scales the available width so that the number of characters
// per line shrinks as the text size grows. Small text uses the full width.
func (m RowMetrics) WrapWidth(width int) int {
	if width <= 0 {
		return 0
	}
	points := m.Points
	if points <= 0 {
		points = models.FontRegular.Points()
	}
	scaled := int(math.Round(float64(width) * models.FontSmall.Points() / points))
	if scaled > width {
		scaled = width
	}
	if scaled < minWrapWidth {
		scaled = min(minWrapWidth, width)
	}
	return scaled
}
