package catalog

import (
	"context"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"time"
)

const firefoxEntry = `[Desktop Entry]
Name=Firefox
Exec=firefox %u
Icon=firefox
Type=Application
Categories=Network;WebBrowser;
Keywords=web;browser;internet

[Desktop Action new-window]
Name=New Window
Exec=firefox --new-window
`

func TestParseDesktop(t *testing.T) {
	it, ok, err := ParseDesktop(strings.NewReader(firefoxEntry), "firefox")
	if err != nil || !ok {
		t.Fatalf("expected a visible entry, got ok=%v err=%v", ok, err)
	}
	if it.Name != "Firefox" || it.Exec != "firefox %u" || it.Icon != "firefox" {
		t.Errorf("action group leaked into entry: %+v", it)
	}
	if !slices.Equal(it.Categories, []string{"Network", "WebBrowser"}) {
		t.Errorf("unexpected categories %v", it.Categories)
	}
	if !slices.Equal(it.Keywords, []string{"web", "browser", "internet"}) {
		t.Errorf("unexpected keywords %v", it.Keywords)
	}
	if !it.Removable {
		t.Error("entries should default to removable")
	}
}

func TestParseDesktop_Hidden(t *testing.T) {
	testCases := []struct {
		name  string
		entry string
	}{
		{"no display", "[Desktop Entry]\nName=A\nExec=a\nNoDisplay=true\n"},
		{"hidden", "[Desktop Entry]\nName=A\nExec=a\nHidden=true\n"},
		{"link type", "[Desktop Entry]\nName=A\nExec=a\nType=Link\n"},
		{"no exec", "[Desktop Entry]\nName=A\n"},
		{"no group", "Name=A\nExec=a\n"},
	}
	for _, tc := range testCases {
		_, ok, err := ParseDesktop(strings.NewReader(tc.entry), "a")
		if err != nil {
			t.Errorf("%s: unexpected error %v", tc.name, err)
		}
		if ok {
			t.Errorf("%s: entry should be hidden", tc.name)
		}
	}
}

func TestCleanExec(t *testing.T) {
	testCases := []struct {
		in, want string
	}{
		{"firefox %u", "firefox"},
		{"gimp-2.10 %U", "gimp-2.10"},
		{"code --new-window %F", "code --new-window"},
		{"printf 100%%", "printf 100%"},
		{"app %i %c %k", "app"},
	}
	for _, tc := range testCases {
		if got := CleanExec(tc.in); got != tc.want {
			t.Errorf("CleanExec(%q): expected %q, got %q", tc.in, tc.want, got)
		}
	}
}

func TestDesktopID(t *testing.T) {
	dir := filepath.Join("/usr", "share", "applications")
	if got := DesktopID(dir, filepath.Join(dir, "kde4", "kate.desktop")); got != "kde4-kate" {
		t.Errorf("expected kde4-kate, got %q", got)
	}
	if got := DesktopID(dir, filepath.Join(dir, "vlc.desktop")); got != "vlc" {
		t.Errorf("expected vlc, got %q", got)
	}
}

func writeEntry(t *testing.T, dir, name, content string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestScan_UserOverridesSystem(t *testing.T) {
	sys := t.TempDir()
	user := t.TempDir()
	writeEntry(t, sys, "firefox.desktop", firefoxEntry)
	writeEntry(t, sys, "vlc.desktop", "[Desktop Entry]\nName=VLC\nExec=vlc %U\n")
	writeEntry(t, sys, "sub/tool.desktop", "[Desktop Entry]\nName=Tool\nExec=tool\n")
	writeEntry(t, sys, "readme.txt", "not an entry")
	writeEntry(t, user, "firefox.desktop", "[Desktop Entry]\nName=My Firefox\nExec=firefox -P me\n")
	writeEntry(t, user, "vlc.desktop", "[Desktop Entry]\nName=VLC\nExec=vlc\nHidden=true\n")

	items, err := Scan(context.Background(), []string{sys, filepath.Join(sys, "missing"), user})
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	var keys []string
	for _, it := range items {
		keys = append(keys, it.Key)
	}
	if !slices.Equal(keys, []string{"firefox", "sub-tool"}) {
		t.Fatalf("unexpected keys %v", keys)
	}
	if items[0].Name != "My Firefox" {
		t.Errorf("user entry should win, got %q", items[0].Name)
	}
	if items[0].DesktopPath != filepath.Join(user, "firefox.desktop") {
		t.Errorf("unexpected desktop path %q", items[0].DesktopPath)
	}
	if items[0].InstalledAt.IsZero() {
		t.Error("expected install time from file")
	}

	idx := NewIndex(items)
	if it, ok := idx.Lookup("sub-tool"); !ok || it.Name != "Tool" {
		t.Errorf("lookup failed: %+v", it)
	}
	if len(idx.Items()) != 2 {
		t.Errorf("expected 2 items, got %d", len(idx.Items()))
	}
}

func TestScan_Cancelled(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "a.desktop", "[Desktop Entry]\nName=A\nExec=a\n")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := Scan(ctx, []string{dir}); err == nil {
		t.Error("expected cancellation error")
	}
}

func TestScannerWorker(t *testing.T) {
	dir := t.TempDir()
	writeEntry(t, dir, "a.desktop", "[Desktop Entry]\nName=A\nExec=a\n")

	s := NewScanner()
	go s.Start()
	defer close(s.RequestChan)

	s.RequestChan <- Request{Op: ScanApps, Dirs: []string{dir}, Gen: 3}
	select {
	case resp := <-s.ResponseChan:
		if resp.Err != nil || resp.Gen != 3 || len(resp.Items) != 1 {
			t.Errorf("unexpected response %+v", resp)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for scan")
	}
}

func TestWatcher(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWatcher(50 * time.Millisecond)
	if err != nil {
		t.Fatalf("watcher: %v", err)
	}
	defer w.Close()
	if err := w.Watch(dir, filepath.Join(dir, "missing")); err != nil {
		t.Fatalf("watch: %v", err)
	}
	if got := w.Watched(); len(got) != 1 || got[0] != dir {
		t.Fatalf("unexpected watched dirs %v", got)
	}

	writeEntry(t, dir, "notes.txt", "ignored")
	writeEntry(t, dir, "new.desktop", "[Desktop Entry]\nName=New\nExec=new\n")

	select {
	case got := <-w.Notify():
		if got != dir {
			t.Errorf("expected %s, got %s", dir, got)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("no change notification")
	}
}

func TestResolveIcon(t *testing.T) {
	root := t.TempDir()
	icons := filepath.Join(root, "share", "icons")
	big := filepath.Join(icons, "hicolor", "128x128", "apps")
	small := filepath.Join(icons, "hicolor", "48x48", "apps")
	pixmaps := filepath.Join(root, "share", "pixmaps")
	for _, d := range []string{big, small, pixmaps} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			t.Fatal(err)
		}
	}
	write := func(p string) {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	write(filepath.Join(big, "term.png"))
	write(filepath.Join(small, "term.png"))
	write(filepath.Join(pixmaps, "old.png"))
	abs := filepath.Join(root, "abs.png")
	write(abs)

	dirs := []string{icons}
	testCases := []struct {
		icon, want string
	}{
		{"term", filepath.Join(big, "term.png")},
		{"term.png", filepath.Join(big, "term.png")},
		{"old", filepath.Join(pixmaps, "old.png")},
		{abs, abs},
		{filepath.Join(root, "missing.png"), ""},
		{"nothing", ""},
		{"", ""},
	}
	for _, tc := range testCases {
		if got := ResolveIcon(tc.icon, dirs); got != tc.want {
			t.Errorf("ResolveIcon(%q) = %q, want %q", tc.icon, got, tc.want)
		}
	}
}
