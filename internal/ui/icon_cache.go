package ui

import (
	"container/list"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
	"sync"

	"gioui.org/op/paint"
	"golang.org/x/image/draw"
	_ "golang.org/x/image/webp"

	"github.com/justyntemme/launchpad/internal/catalog"
	"github.com/justyntemme/launchpad/internal/debug"
)

// IconCache provides an LRU cache of application icons scaled to the icon
// edge of the current layout. Icons load in the background; Get misses
// until the load finishes and Loaded fires.
type IconCache struct {
	mu      sync.Mutex
	cache   map[string]*iconEntry // name@size -> entry
	lru     *list.List            // LRU list (front = most recent)
	maxSize int                   // Maximum number of entries
	dirs    []string              // Icon theme roots

	// Loaded is called from the loader goroutine after an icon is cached.
	Loaded func()

	pending  map[string]bool // Keys currently being loaded or known missing
	loadChan chan iconRequest
	stopChan chan struct{}
}

type iconEntry struct {
	key     string
	op      paint.ImageOp
	element *list.Element
}

type iconRequest struct {
	key  string
	name string
	size int
}

// NewIconCache creates a cache holding up to maxEntries scaled icons.
func NewIconCache(maxEntries int, dirs []string) *IconCache {
	ic := &IconCache{
		cache:    make(map[string]*iconEntry),
		lru:      list.New(),
		maxSize:  maxEntries,
		dirs:     dirs,
		pending:  make(map[string]bool),
		loadChan: make(chan iconRequest, 256),
		stopChan: make(chan struct{}),
	}
	go ic.backgroundLoader()
	return ic
}

func iconKey(name string, size int) string {
	return fmt.Sprintf("%s@%d", name, size)
}

// Get returns the icon for name at size, queueing a load on a miss.
func (ic *IconCache) Get(name string, size int) (paint.ImageOp, bool) {
	if name == "" || size <= 0 {
		return paint.ImageOp{}, false
	}
	key := iconKey(name, size)

	ic.mu.Lock()
	if entry, ok := ic.cache[key]; ok {
		ic.lru.MoveToFront(entry.element)
		ic.mu.Unlock()
		return entry.op, true
	}
	if ic.pending[key] {
		ic.mu.Unlock()
		return paint.ImageOp{}, false
	}
	ic.pending[key] = true
	ic.mu.Unlock()

	// Queue for loading (non-blocking)
	select {
	case ic.loadChan <- iconRequest{key: key, name: name, size: size}:
	default:
		// Channel full, retry on a later frame
		ic.mu.Lock()
		delete(ic.pending, key)
		ic.mu.Unlock()
	}
	return paint.ImageOp{}, false
}

// Clear drops every cached icon, e.g. after the icon edge changed.
func (ic *IconCache) Clear() {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	ic.cache = make(map[string]*iconEntry)
	ic.lru = list.New()
	ic.pending = make(map[string]bool)
	debug.Log(debug.UI, "IconCache: cleared")
}

// Stop shuts down the background loader.
func (ic *IconCache) Stop() {
	close(ic.stopChan)
}

// Size returns the current number of cached icons.
func (ic *IconCache) Size() int {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	return len(ic.cache)
}

func (ic *IconCache) backgroundLoader() {
	for {
		select {
		case <-ic.stopChan:
			return
		case req := <-ic.loadChan:
			ic.load(req)
		}
	}
}

// load decodes and scales one icon. A failed load stays pending so the
// placeholder tile is used without retrying every frame.
func (ic *IconCache) load(req iconRequest) {
	path := catalog.ResolveIcon(req.name, ic.dirs)
	if path == "" {
		debug.Log(debug.UI, "IconCache: no file for %q", req.name)
		return
	}
	img, err := decodeIcon(path)
	if err != nil {
		debug.Log(debug.UI, "IconCache: failed to decode %s: %v", path, err)
		return
	}

	ic.put(req.key, paint.NewImageOp(scaleIcon(img, req.size)))
	debug.Log(debug.UI, "IconCache: cached %s (%dpx)", path, req.size)
	if ic.Loaded != nil {
		ic.Loaded()
	}
}

func decodeIcon(path string) (image.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	return img, err
}

// scaleIcon fits src into a size x size square, keeping its aspect ratio.
func scaleIcon(src image.Image, size int) image.Image {
	b := src.Bounds()
	w, h := b.Dx(), b.Dy()
	if w == 0 || h == 0 {
		return src
	}
	nw, nh := size, size
	if w > h {
		nh = max(1, h*size/w)
	} else if h > w {
		nw = max(1, w*size/h)
	}
	dst := image.NewRGBA(image.Rect(0, 0, nw, nh))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, b, draw.Over, nil)
	return dst
}

// put adds an icon to the cache, evicting old entries if necessary.
func (ic *IconCache) put(key string, op paint.ImageOp) {
	ic.mu.Lock()
	defer ic.mu.Unlock()
	delete(ic.pending, key)

	if entry, ok := ic.cache[key]; ok {
		entry.op = op
		ic.lru.MoveToFront(entry.element)
		return
	}
	for ic.lru.Len() >= ic.maxSize {
		oldest := ic.lru.Back()
		if oldest == nil {
			break
		}
		old := oldest.Value.(*iconEntry)
		delete(ic.cache, old.key)
		ic.lru.Remove(oldest)
	}
	entry := &iconEntry{key: key, op: op}
	entry.element = ic.lru.PushFront(entry)
	ic.cache[key] = entry
}
