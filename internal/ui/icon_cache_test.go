package ui

import (
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
	"time"

	"gioui.org/op/paint"
)

func TestScaleIcon(t *testing.T) {
	tests := []struct {
		name string
		w, h int
		size int
		want image.Point
	}{
		{"square", 256, 256, 48, image.Pt(48, 48)},
		{"wide", 64, 32, 32, image.Pt(32, 16)},
		{"tall", 20, 80, 40, image.Pt(10, 40)},
		{"sliver", 400, 1, 32, image.Pt(32, 1)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := image.NewRGBA(image.Rect(0, 0, tt.w, tt.h))
			got := scaleIcon(src, tt.size).Bounds().Size()
			if got != tt.want {
				t.Errorf("expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIconCache_Eviction(t *testing.T) {
	ic := NewIconCache(2, nil)
	defer ic.Stop()

	op := paint.NewImageOp(image.NewRGBA(image.Rect(0, 0, 1, 1)))
	ic.put("a@32", op)
	ic.put("b@32", op)
	ic.put("c@32", op)

	if ic.Size() != 2 {
		t.Fatalf("expected 2 entries, got %d", ic.Size())
	}
	ic.mu.Lock()
	_, hasA := ic.cache["a@32"]
	_, hasC := ic.cache["c@32"]
	ic.mu.Unlock()
	if hasA {
		t.Error("expected oldest entry to be evicted")
	}
	if !hasC {
		t.Error("expected newest entry to be cached")
	}

	ic.Clear()
	if ic.Size() != 0 {
		t.Errorf("expected empty cache after Clear, got %d", ic.Size())
	}
}

func writePNG(t *testing.T, path string, w, h int) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.NRGBA{R: 200, A: 255})
		}
	}
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if err := png.Encode(f, img); err != nil {
		t.Fatal(err)
	}
}

func TestIconCache_LoadsInBackground(t *testing.T) {
	dir := t.TempDir()
	writePNG(t, filepath.Join(dir, "hicolor", "48x48", "apps", "editor.png"), 64, 32)

	ic := NewIconCache(8, []string{dir})
	defer ic.Stop()
	loaded := make(chan struct{}, 1)
	ic.Loaded = func() { loaded <- struct{}{} }

	if _, ok := ic.Get("editor", 32); ok {
		t.Fatal("expected first Get to miss")
	}
	select {
	case <-loaded:
	case <-time.After(5 * time.Second):
		t.Fatal("icon never loaded")
	}

	op, ok := ic.Get("editor", 32)
	if !ok {
		t.Fatal("expected cached icon after load")
	}
	if got := op.Size(); got != image.Pt(32, 16) {
		t.Errorf("expected 32x16 icon, got %v", got)
	}
}

func TestIconCache_MissingIconStaysPending(t *testing.T) {
	ic := NewIconCache(8, []string{t.TempDir()})
	defer ic.Stop()

	if _, ok := ic.Get("nothing", 32); ok {
		t.Fatal("expected miss")
	}
	if _, ok := ic.Get("", 32); ok {
		t.Error("expected empty name to miss")
	}
	if _, ok := ic.Get("nothing", 0); ok {
		t.Error("expected zero size to miss")
	}
	ic.mu.Lock()
	pending := ic.pending[iconKey("nothing", 32)]
	ic.mu.Unlock()
	if !pending {
		t.Error("expected missing icon to stay pending")
	}
}
