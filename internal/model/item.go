// Package model holds the ordered, paginated item sequences shown by the
// launcher grid and the cross-category operations that mutate them.
package model

import (
	"fmt"
	"strings"
	"time"
)

// Category names one ordered sequence of items.
type Category int

const (
	All Category = iota
	Favorite
	Search
	// Dir is the contents of one folder. Every folder owns its own Dir
	// collection keyed by the folder's key.
	Dir
)

// Page sizes per category. Favorite and Search are unpaged.
const (
	AllPageItemCount = 28
	DirPageItemCount = 12
)

func (c Category) String() string {
	switch c {
	case All:
		return "all"
	case Favorite:
		return "favorite"
	case Search:
		return "search"
	case Dir:
		return "dir"
	default:
		return fmt.Sprintf("category(%d)", int(c))
	}
}

// PageItemCount is the default page size of the category. Zero means the
// category shows every item on a single page.
func (c Category) PageItemCount() int {
	switch c {
	case All:
		return AllPageItemCount
	case Dir:
		return DirPageItemCount
	default:
		return 0
	}
}

// ParseCategory accepts the names produced by String.
func ParseCategory(s string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "all":
		return All, nil
	case "favorite", "favorites", "fav":
		return Favorite, nil
	case "search":
		return Search, nil
	case "dir", "folder":
		return Dir, nil
	}
	return All, fmt.Errorf("unknown category %q", s)
}

// Item is one launchable entry or folder in the grid.
type Item struct {
	Key       string
	Name      string
	Icon      string
	IsDir     bool
	Removable bool

	Exec        string
	DesktopPath string
	Categories  []string
	Keywords    []string
	InstalledAt time.Time
}

// Policy is the read-only view of user configuration the library consults.
type Policy interface {
	// IsHidden reports whether key must never appear in the grid.
	IsHidden(key string) bool
	// IsHeld reports whether key is protected from removal.
	IsHeld(key string) bool
}

type openPolicy struct{}

func (openPolicy) IsHidden(string) bool { return false }
func (openPolicy) IsHeld(string) bool   { return false }

// OrderKey is the persistence name of a sequence: the category name, or
// "dir:<folder key>" for folder contents.
func OrderKey(c Category, folder string) string {
	if c == Dir {
		return "dir:" + folder
	}
	return c.String()
}

// ParseOrderKey reverses OrderKey.
func ParseOrderKey(s string) (Category, string, error) {
	if folder, ok := strings.CutPrefix(s, "dir:"); ok {
		if folder == "" {
			return Dir, "", fmt.Errorf("order key %q: missing folder", s)
		}
		return Dir, folder, nil
	}
	c, err := ParseCategory(s)
	if err != nil {
		return All, "", err
	}
	if c == Dir {
		return Dir, "", fmt.Errorf("order key %q: missing folder", s)
	}
	return c, "", nil
}
