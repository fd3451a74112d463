package catalog

import (
	"os"
	"path/filepath"
	"strings"
)

// iconSizes are the hicolor sizes tried, largest first.
var iconSizes = []string{"256x256", "128x128", "96x96", "64x64", "48x48", "32x32"}

// iconExts are the raster formats the renderer can decode.
var iconExts = []string{".png", ".jpg", ".webp"}

// IconDirs lists the directories holding icon themes: every XDG data dir's
// icons plus ~/.icons, user dirs first.
func IconDirs() []string {
	var dirs []string
	if h, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs, filepath.Join(h, ".icons"))
	}
	// DefaultDirs is lowest priority first; icons want the reverse.
	apps := DefaultDirs()
	for i := len(apps) - 1; i >= 0; i-- {
		dirs = append(dirs, filepath.Join(filepath.Dir(apps[i]), "icons"))
	}
	return dirs
}

// ResolveIcon maps a desktop entry Icon value to a file. Absolute paths are
// used as they are; names are looked up in the hicolor theme of each dir and
// then in the pixmaps dir next to it. It returns "" when nothing matches.
func ResolveIcon(icon string, dirs []string) string {
	if icon == "" {
		return ""
	}
	if filepath.IsAbs(icon) {
		if _, err := os.Stat(icon); err == nil {
			return icon
		}
		return ""
	}
	name := icon
	for _, ext := range iconExts {
		name = strings.TrimSuffix(name, ext)
	}

	for _, dir := range dirs {
		for _, size := range iconSizes {
			if p := findIcon(filepath.Join(dir, "hicolor", size, "apps"), name); p != "" {
				return p
			}
		}
	}
	for _, dir := range dirs {
		if p := findIcon(filepath.Join(filepath.Dir(dir), "pixmaps"), name); p != "" {
			return p
		}
	}
	return ""
}

func findIcon(dir, name string) string {
	for _, ext := range iconExts {
		p := filepath.Join(dir, name+ext)
		if st, err := os.Stat(p); err == nil && !st.IsDir() {
			return p
		}
	}
	return ""
}
