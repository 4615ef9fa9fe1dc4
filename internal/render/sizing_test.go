package render

import (
	"testing"

	"github.com/diogo/chatty/internal/models"
)

func TestRowStyle(t *testing.T) {
	tests := []struct {
		size   models.FontSize
		points float64
		gap    int
		bold   bool
	}{
		{models.FontSmall, 14, 0, false},
		{models.FontRegular, 18, 1, false},
		{models.FontLarge, 22, 2, true},
		{"bogus", 18, 1, false},
	}

	for _, tt := range tests {
		t.Run(string(tt.size), func(t *testing.T) {
			m := RowStyle(tt.size)
			if m.Points != tt.points {
				t.Errorf("Points = %v, want %v", m.Points, tt.points)
			}
			if m.Gap != tt.gap {
				t.Errorf("Gap = %d, want %d", m.Gap, tt.gap)
			}
			if m.Bold != tt.bold {
				t.Errorf("Bold = %v, want %v", m.Bold, tt.bold)
			}
		})
	}
}

func TestWrapWidth(t *testing.T) {
	small := RowStyle(models.FontSmall).WrapWidth(140)
	regular := RowStyle(models.FontRegular).WrapWidth(140)
	large := RowStyle(models.FontLarge).WrapWidth(140)

	if small != 140 {
		t.Errorf("small = %d, want full width", small)
	}
	if !(small > regular && regular > large) {
		t.Errorf("wrap width should shrink with text size: %d %d %d", small, regular, large)
	}
	if large != 89 {
		t.Errorf("large = %d, want 89", large)
	}
}

func TestWrapWidth_Narrow(t *testing.T) {
	m := RowStyle(models.FontLarge)

	if got := m.WrapWidth(0); got != 0 {
		t.Errorf("WrapWidth(0) = %d", got)
	}
	if got := m.WrapWidth(25); got != 20 {
		t.Errorf("WrapWidth(25) = %d, want 20", got)
	}
	if got := m.WrapWidth(10); got != 10 {
		t.Errorf("WrapWidth(10) = %d, want 10", got)
	}
}
