package model

import (
	"slices"
	"testing"
)

type testPolicy struct {
	hidden map[string]bool
	held   map[string]bool
}

func (p testPolicy) IsHidden(key string) bool { return p.hidden[key] }
func (p testPolicy) IsHeld(key string) bool   { return p.held[key] }

func apps() []Item {
	return []Item{
		{Key: "firefox", Name: "Firefox", Categories: []string{"Network", "WebBrowser"}},
		{Key: "chromium", Name: "Chromium", Categories: []string{"Network", "WebBrowser"}},
		{Key: "gimp", Name: "GIMP", Categories: []string{"Graphics"}},
		{Key: "term", Name: "Terminal", Categories: []string{"System"}},
		{Key: "files", Name: "Files", Categories: []string{"System", "Utility"}},
	}
}

func newTestLibrary(t *testing.T) *Library {
	t.Helper()
	l := NewLibrary(nil)
	n := 0
	l.newKey = func() string {
		n++
		return "folder" + string(rune('0'+n))
	}
	l.Restore(apps(), nil, nil)
	return l
}

func TestRestore_DefaultOrderByName(t *testing.T) {
	l := newTestLibrary(t)
	want := []string{"chromium", "files", "firefox", "gimp", "term"}
	if got := l.Collection(All).Keys(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestRestore_SavedOrderAndFolders(t *testing.T) {
	l := NewLibrary(testPolicy{hidden: map[string]bool{"gimp": true}, held: map[string]bool{"term": true}})
	orders := map[string][]string{
		"all":        {"term", "web", "ghost", "gimp", "lonely"},
		"dir:web":    {"firefox", "chromium", "ghost"},
		"dir:lonely": {"files"},
		"favorite":   {"firefox", "nope"},
	}
	names := map[string]string{"web": "Browsers", "lonely": "Solo"}
	l.Restore(apps(), orders, names)

	want := []string{"term", "web", "files"}
	if got := l.Collection(All).Keys(); !slices.Equal(got, want) {
		t.Errorf("expected top level %v, got %v", want, got)
	}
	if got := l.Folder("web").Keys(); !slices.Equal(got, []string{"firefox", "chromium"}) {
		t.Errorf("unexpected folder contents %v", got)
	}
	if l.Folder("lonely") != nil {
		t.Error("single-child folder should be dissolved on restore")
	}
	if got := l.Collection(Favorite).Keys(); !slices.Equal(got, []string{"firefox"}) {
		t.Errorf("unexpected favorites %v", got)
	}
	it, _ := l.Lookup("term")
	if it.Removable {
		t.Error("held item should not be removable")
	}
	if f, ok := l.Lookup("web"); !ok || !f.IsDir || f.Name != "Browsers" {
		t.Errorf("unexpected folder item %+v", f)
	}
	if _, ok := l.Lookup("gimp"); ok {
		t.Error("hidden item should not be known")
	}
}

func TestMerge(t *testing.T) {
	l := newTestLibrary(t)
	fk, ok := l.Merge("firefox", "chromium")
	if !ok {
		t.Fatal("expected merge to succeed")
	}
	all := l.Collection(All)
	if got := all.Keys(); !slices.Equal(got, []string{fk, "files", "gimp", "term"}) {
		t.Errorf("unexpected top level %v", got)
	}
	if got := l.Folder(fk).Keys(); !slices.Equal(got, []string{"chromium", "firefox"}) {
		t.Errorf("unexpected folder %v", got)
	}
	if f, _ := l.Lookup(fk); f.Name != "Network" {
		t.Errorf("expected folder named Network, got %q", f.Name)
	}

	if _, ok := l.Merge("gimp", fk); ok {
		t.Error("merging onto a folder must fail")
	}
	if _, ok := l.Merge("gimp", "gimp"); ok {
		t.Error("merging onto itself must fail")
	}
}

func TestFolderName(t *testing.T) {
	a := Item{Categories: []string{"System", "Utility"}}
	b := Item{Categories: []string{"Utility"}}
	c := Item{Categories: []string{"Game"}}
	if got := FolderName(a, b); got != "Utility" {
		t.Errorf("expected Utility, got %q", got)
	}
	if got := FolderName(a, c); got != DefaultFolderName {
		t.Errorf("expected default name, got %q", got)
	}
}

func TestAddToFolderAndTakeOut(t *testing.T) {
	l := newTestLibrary(t)
	fk, _ := l.Merge("firefox", "chromium")

	if !l.AddToFolder("gimp", fk) {
		t.Fatal("expected add to folder")
	}
	if got := l.Folder(fk).Keys(); !slices.Equal(got, []string{"chromium", "firefox", "gimp"}) {
		t.Errorf("unexpected folder %v", got)
	}
	if l.AddToFolder(fk, fk) {
		t.Error("a folder cannot join a folder")
	}

	if !l.TakeFromFolder(fk, "gimp", 0) {
		t.Fatal("expected take out")
	}
	if got := l.Collection(All).Keys(); !slices.Equal(got, []string{"gimp", fk, "files", "term"}) {
		t.Errorf("unexpected top level %v", got)
	}

	// Leaving one child dissolves the folder in place.
	l.TakeFromFolder(fk, "firefox", 10)
	if l.Folder(fk) != nil {
		t.Error("folder should be dissolved")
	}
	want := []string{"gimp", "chromium", "files", "term", "firefox"}
	if got := l.Collection(All).Keys(); !slices.Equal(got, want) {
		t.Errorf("expected %v, got %v", want, got)
	}
}

func TestUninstall(t *testing.T) {
	l := newTestLibrary(t)
	fk, _ := l.Merge("firefox", "chromium")
	l.ToggleFavorite("firefox")
	l.SetSearchResults([]string{"firefox", "gimp"})

	if !l.Uninstall("firefox") {
		t.Fatal("expected uninstall")
	}
	if l.Folder(fk) != nil {
		t.Error("folder with one remaining child should dissolve")
	}
	if got := l.Collection(All).Keys(); !slices.Equal(got, []string{"chromium", "files", "gimp", "term"}) {
		t.Errorf("unexpected top level %v", got)
	}
	if l.IsFavorite("firefox") || l.Collection(Search).Contains("firefox") {
		t.Error("uninstalled key still referenced")
	}
	if l.Uninstall("firefox") {
		t.Error("second uninstall should fail")
	}
}

func TestSync(t *testing.T) {
	l := newTestLibrary(t)
	next := apps()[1:]
	next = append(next, Item{Key: "vlc", Name: "VLC"})
	next[0].Name = "Chromium Browser"

	installed, removed := l.Sync(next)
	if !slices.Equal(installed, []string{"vlc"}) {
		t.Errorf("expected vlc installed, got %v", installed)
	}
	if !slices.Equal(removed, []string{"firefox"}) {
		t.Errorf("expected firefox removed, got %v", removed)
	}
	all := l.Collection(All)
	if all.Keys()[all.Len()-1] != "vlc" {
		t.Errorf("new app should be appended, got %v", all.Keys())
	}
	if it, _ := all.At(all.IndexOf("chromium")); it.Name != "Chromium Browser" {
		t.Errorf("metadata not refreshed: %q", it.Name)
	}
}

func TestFavorites(t *testing.T) {
	l := newTestLibrary(t)
	if !l.ToggleFavorite("gimp") || !l.IsFavorite("gimp") {
		t.Fatal("expected gimp to become a favorite")
	}
	if l.AddFavorite("gimp", 0) {
		t.Error("duplicate favorite accepted")
	}
	fk, _ := l.Merge("firefox", "chromium")
	if l.AddFavorite(fk, 0) {
		t.Error("folders cannot be favorites")
	}
	if l.ToggleFavorite("gimp") {
		t.Error("toggle should remove")
	}
	if l.Collection(Favorite).Len() != 0 {
		t.Error("favorites should be empty")
	}
}

func TestOrdersRoundTrip(t *testing.T) {
	l := newTestLibrary(t)
	fk, _ := l.Merge("firefox", "chromium")
	l.RenameFolder(fk, "Web")
	l.ToggleFavorite("term")
	l.Collection(All).Move(0, 2)

	restored := NewLibrary(nil)
	restored.Restore(apps(), l.Orders(), l.FolderNames())

	if got, want := restored.Collection(All).Keys(), l.Collection(All).Keys(); !slices.Equal(got, want) {
		t.Errorf("top level: expected %v, got %v", want, got)
	}
	if got := restored.Folder(fk).Keys(); !slices.Equal(got, l.Folder(fk).Keys()) {
		t.Errorf("folder mismatch %v", got)
	}
	if f, _ := restored.Lookup(fk); f.Name != "Web" {
		t.Errorf("expected folder name Web, got %q", f.Name)
	}
	if !restored.IsFavorite("term") {
		t.Error("favorite lost")
	}
}
