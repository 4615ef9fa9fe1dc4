// Package models contains data types and constants shared across chatty.
package models

import (
	"fmt"
	"strings"
)

// ProviderID identifies one of the two answer providers
type ProviderID string

// Available providers
const (
	// ProviderAtlas is the default provider and needs no credential
	ProviderAtlas ProviderID = "atlas"
	// ProviderPerplexity requires an API key
	ProviderPerplexity ProviderID = "perplexity"
)

// DefaultProvider is selected at every process start
const DefaultProvider = ProviderAtlas

// ProviderIDs returns all provider identities in toggle order
func ProviderIDs() []ProviderID {
	return []ProviderID{ProviderAtlas, ProviderPerplexity}
}

// DisplayName returns the label shown on the provider toggle
func (p ProviderID) DisplayName() string {
	return strings.ToUpper(string(p))
}

// ParseProviderID converts user input into a ProviderID
func ParseProviderID(s string) (ProviderID, error) {
	normalized := ProviderID(strings.ToLower(strings.TrimSpace(s)))
	for _, id := range ProviderIDs() {
		if id == normalized {
			return id, nil
		}
	}
	return "", fmt.Errorf("unknown provider %q (available: atlas, perplexity)", s)
}

// FontSize is the persisted text size category
type FontSize string

// Font size categories
const (
	FontSmall   FontSize = "small"
	FontRegular FontSize = "regular"
	FontLarge   FontSize = "large"
)

// FontSizes returns the categories in menu order
func FontSizes() []FontSize {
	return []FontSize{FontSmall, FontRegular, FontLarge}
}

// Points returns the fixed text size for the category.
// Unknown values fall back to the regular size.
func (f FontSize) Points() float64 {
	switch f {
	case FontSmall:
		return 14
	case FontLarge:
		return 22
	default:
		return 18
	}
}

// Label returns the human readable name
func (f FontSize) Label() string {
	switch f {
	case FontSmall:
		return "Small"
	case FontLarge:
		return "Large"
	default:
		return "Regular"
	}
}

// Valid reports whether f is one of the three categories
func (f FontSize) Valid() bool {
	switch f {
	case FontSmall, FontRegular, FontLarge:
		return true
	}
	return false
}

// ParseFontSize converts user input ("large", "LARGE") into a FontSize
func ParseFontSize(s string) (FontSize, error) {
	f := FontSize(strings.ToLower(strings.TrimSpace(s)))
	if !f.Valid() {
		return "", fmt.Errorf("unknown font size %q (available: small, regular, large)", s)
	}
	return f, nil
}
