// Package catalog discovers installed applications from XDG desktop entries,
// watches for installs and removals, and launches entries.
package catalog

import (
	"bufio"
	"io"
	"strings"

	"github.com/justyntemme/launchpad/internal/model"
)

// ParseDesktop reads the [Desktop Entry] group of a desktop file. It
// reports false for entries that must not be shown: hidden, NoDisplay,
// non-application types, or entries without a name or command.
func ParseDesktop(r io.Reader, key string) (model.Item, bool, error) {
	it := model.Item{Key: key, Removable: true}
	inDesktopEntry := false
	show := true

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "[Desktop Entry]" {
			inDesktopEntry = true
			continue
		}
		if strings.HasPrefix(line, "[") {
			inDesktopEntry = false
			continue
		}
		if !inDesktopEntry {
			continue
		}

		k, v, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		k, v = strings.TrimSpace(k), strings.TrimSpace(v)
		switch k {
		case "Name":
			it.Name = v
		case "Exec":
			it.Exec = v
		case "Icon":
			it.Icon = v
		case "Categories":
			it.Categories = splitList(v)
		case "Keywords":
			it.Keywords = splitList(v)
		case "NoDisplay", "Hidden":
			if v == "true" {
				show = false
			}
		case "Type":
			if v != "Application" {
				show = false
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return model.Item{}, false, err
	}
	if !show || it.Name == "" || it.Exec == "" {
		return model.Item{}, false, nil
	}
	return it, true, nil
}

func splitList(v string) []string {
	var out []string
	for _, s := range strings.Split(v, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
