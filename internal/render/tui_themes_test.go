package render

import "testing"

func TestThemeFor(t *testing.T) {
	if got := ThemeFor(true); got.Name != "dark" || !got.Dark {
		t.Errorf("ThemeFor(true) = %s", got.Name)
	}
	if got := ThemeFor(false); got.Name != "light" || got.Dark {
		t.Errorf("ThemeFor(false) = %s", got.Name)
	}
}

func TestThemesDefineAllColors(t *testing.T) {
	for _, theme := range []TUITheme{DarkTheme, LightTheme} {
		colors := map[string]string{
			"Background": string(theme.Background),
			"Surface":    string(theme.Surface),
			"Border":     string(theme.Border),
			"Primary":    string(theme.Primary),
			"Secondary":  string(theme.Secondary),
			"Accent":     string(theme.Accent),
			"Warning":    string(theme.Warning),
			"Error":      string(theme.Error),
			"Text":       string(theme.Text),
			"TextDim":    string(theme.TextDim),
			"TextMute":   string(theme.TextMute),
		}
		for name, c := range colors {
			if c == "" {
				t.Errorf("%s theme: %s is empty", theme.Name, name)
			}
		}
	}
}

func TestThemesDiffer(t *testing.T) {
	if DarkTheme.Background == LightTheme.Background || DarkTheme.Text == LightTheme.Text {
		t.Error("dark and light themes should use different base colors")
	}
}
