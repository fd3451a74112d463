//go:build darwin

package config

// DefaultHotkeys returns the default keyboard shortcuts for macOS
// Uses Cmd where Linux uses Ctrl (macOS convention)
func DefaultHotkeys() HotkeysConfig {
	return HotkeysConfig{
		NextPage:  "Cmd+Right",
		PrevPage:  "Cmd+Left",
		FirstPage: "Cmd+Up",
		LastPage:  "Cmd+Down",

		FocusSearch: "Cmd+F",
		Favorites:   "Cmd+D",
		Escape:      "Escape",
		Launch:      "Enter",
		Quit:        "Cmd+Q",
	}
}
