//go:build !darwin

package config

// DefaultHotkeys returns the default keyboard shortcuts for Windows/Linux
func DefaultHotkeys() HotkeysConfig {
	return HotkeysConfig{
		NextPage:  "Ctrl+Right",
		PrevPage:  "Ctrl+Left",
		FirstPage: "Ctrl+Home",
		LastPage:  "Ctrl+End",

		FocusSearch: "Ctrl+F",
		Favorites:   "Ctrl+D",
		Escape:      "Escape",
		Launch:      "Enter",
		Quit:        "Ctrl+Q",
	}
}
