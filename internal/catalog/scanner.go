package catalog

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"github.com/charlievieth/fastwalk"

	"github.com/justyntemme/launchpad/internal/debug"
	"github.com/justyntemme/launchpad/internal/model"
)

// DefaultDirs lists the XDG application directories, lowest priority
// first, so that user entries override system ones.
func DefaultDirs() []string {
	dataDirs := os.Getenv("XDG_DATA_DIRS")
	if dataDirs == "" {
		dataDirs = "/usr/local/share:/usr/share"
	}
	parts := strings.Split(dataDirs, ":")
	var dirs []string
	for i := len(parts) - 1; i >= 0; i-- {
		if parts[i] != "" {
			dirs = append(dirs, filepath.Join(parts[i], "applications"))
		}
	}

	home := os.Getenv("XDG_DATA_HOME")
	if home == "" {
		if h, err := os.UserHomeDir(); err == nil {
			home = filepath.Join(h, ".local", "share")
		}
	}
	if home != "" {
		dirs = append(dirs, filepath.Join(home, "applications"))
	}
	return dirs
}

// DesktopID derives the desktop file id of path below dir: the relative
// path with separators turned into dashes, without the .desktop suffix.
func DesktopID(dir, path string) string {
	rel, err := filepath.Rel(dir, path)
	if err != nil {
		rel = filepath.Base(path)
	}
	rel = strings.TrimSuffix(rel, ".desktop")
	return strings.ReplaceAll(filepath.ToSlash(rel), "/", "-")
}

// Scan walks dirs and parses every desktop entry. A later directory's
// entry replaces an earlier one with the same id, including hiding it.
// Missing directories are skipped.
func Scan(ctx context.Context, dirs []string) ([]model.Item, error) {
	found := make(map[string]*model.Item)
	for _, dir := range dirs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		entries, err := scanDir(ctx, dir)
		if err != nil {
			return nil, err
		}
		for id, it := range entries {
			found[id] = it
		}
	}

	items := make([]model.Item, 0, len(found))
	for _, it := range found {
		if it != nil {
			items = append(items, *it)
		}
	}
	sort.Slice(items, func(i, j int) bool { return items[i].Key < items[j].Key })
	debug.Log(debug.CATALOG, "scan: %d applications in %d dirs", len(items), len(dirs))
	return items, nil
}

// scanDir maps desktop ids to parsed items; a nil item marks an entry that
// exists but must stay hidden.
func scanDir(ctx context.Context, dir string) (map[string]*model.Item, error) {
	if _, err := os.Stat(dir); err != nil {
		debug.Log(debug.CATALOG, "scan: skipping %s: %v", dir, err)
		return nil, nil
	}

	var mu sync.Mutex
	result := make(map[string]*model.Item)

	conf := &fastwalk.Config{Follow: true}
	err := fastwalk.Walk(conf, dir, func(path string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if err != nil {
			debug.Log(debug.CATALOG, "scan: walk error at %q: %v", path, err)
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".desktop") {
			return nil
		}

		id := DesktopID(dir, path)
		it, ok, err := parseFile(path, id)
		if err != nil {
			debug.Log(debug.CATALOG, "scan: %s: %v", path, err)
			return nil
		}
		if info, err := fastwalk.StatDirEntry(path, d); err == nil {
			it.InstalledAt = info.ModTime()
		}

		mu.Lock()
		if ok {
			result[id] = &it
		} else {
			result[id] = nil
		}
		mu.Unlock()
		return nil
	})
	if err != nil && ctx.Err() == nil {
		return nil, err
	}
	return result, ctx.Err()
}

func parseFile(path, id string) (model.Item, bool, error) {
	f, err := os.Open(path)
	if err != nil {
		return model.Item{}, false, err
	}
	defer f.Close()
	it, ok, err := ParseDesktop(f, id)
	it.DesktopPath = path
	return it, ok, err
}

// Provider is the application metadata source the launcher consumes.
type Provider interface {
	Items() []model.Item
	Lookup(key string) (model.Item, bool)
}

// Index is an immutable Provider over one scan result.
type Index struct {
	items []model.Item
	byKey map[string]model.Item
}

// NewIndex builds an index over items.
func NewIndex(items []model.Item) *Index {
	idx := &Index{items: items, byKey: make(map[string]model.Item, len(items))}
	for _, it := range items {
		idx.byKey[it.Key] = it
	}
	return idx
}

func (x *Index) Items() []model.Item {
	return append([]model.Item(nil), x.items...)
}

func (x *Index) Lookup(key string) (model.Item, bool) {
	it, ok := x.byKey[key]
	return it, ok
}
