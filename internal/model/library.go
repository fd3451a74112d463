package model

import (
	"maps"
	"slices"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/justyntemme/launchpad/internal/debug"
)

// DefaultFolderName is used when merged items share no category.
const DefaultFolderName = "Folder"

// Library owns every sequence shown by the launcher: the All, Favorite and
// Search collections plus one Dir collection per folder.
type Library struct {
	policy Policy

	known    map[string]Item // installed applications by key
	all      *Collection
	favorite *Collection
	search   *Collection
	folders  map[string]*Collection

	observers []Observer
	newKey    func() string
}

// NewLibrary creates an empty library. A nil policy hides nothing.
func NewLibrary(policy Policy) *Library {
	if policy == nil {
		policy = openPolicy{}
	}
	return &Library{
		policy:   policy,
		known:    make(map[string]Item),
		all:      NewCollection(All, All.PageItemCount()),
		favorite: NewCollection(Favorite, Favorite.PageItemCount()),
		search:   NewCollection(Search, Search.PageItemCount()),
		folders:  make(map[string]*Collection),
		newKey:   uuid.NewString,
	}
}

// SetPolicy replaces the visibility policy. It takes effect on the next
// Restore or Sync.
func (l *Library) SetPolicy(p Policy) {
	if p == nil {
		p = openPolicy{}
	}
	l.policy = p
}

// Subscribe registers o with every current and future collection.
func (l *Library) Subscribe(o Observer) {
	l.observers = append(l.observers, o)
	for _, c := range l.collections() {
		c.Subscribe(o)
	}
}

func (l *Library) collections() []*Collection {
	out := []*Collection{l.all, l.favorite, l.search}
	for _, k := range slices.Sorted(maps.Keys(l.folders)) {
		out = append(out, l.folders[k])
	}
	return out
}

// Collection returns the collection of a top-level category. Dir returns
// nil; use Folder.
func (l *Library) Collection(c Category) *Collection {
	switch c {
	case All:
		return l.all
	case Favorite:
		return l.favorite
	case Search:
		return l.search
	}
	return nil
}

// Folder returns the contents of folder key.
func (l *Library) Folder(key string) *Collection {
	return l.folders[key]
}

// FolderKeys lists the folders in key order.
func (l *Library) FolderKeys() []string {
	return slices.Sorted(maps.Keys(l.folders))
}

// Lookup finds an installed application or a folder by key.
func (l *Library) Lookup(key string) (Item, bool) {
	if it, ok := l.known[key]; ok {
		return it, true
	}
	if _, ok := l.folders[key]; ok {
		pos := l.all.IndexOf(key)
		return l.all.At(pos)
	}
	return Item{}, false
}

// Present reports whether key is still installed or a live folder.
func (l *Library) Present(key string) bool {
	_, ok := l.Lookup(key)
	return ok
}

func (l *Library) prepare(it Item) Item {
	it.Removable = !l.policy.IsHeld(it.Key)
	return it
}

// Restore rebuilds every sequence from the installed applications and the
// persisted orders (keyed by OrderKey) and folder names. Unknown or hidden
// keys are dropped, folders with fewer than two children are dissolved, and
// applications missing from the saved order are appended by name.
func (l *Library) Restore(items []Item, orders map[string][]string, folderNames map[string]string) {
	l.known = make(map[string]Item, len(items))
	for _, it := range items {
		if l.policy.IsHidden(it.Key) {
			continue
		}
		l.known[it.Key] = l.prepare(it)
	}

	placed := make(map[string]bool)
	pick := func(keys []string) []Item {
		var out []Item
		for _, k := range keys {
			if it, ok := l.known[k]; ok && !placed[k] {
				placed[k] = true
				out = append(out, it)
			}
		}
		return out
	}

	folders := make(map[string][]Item)
	for _, fk := range slices.Sorted(maps.Keys(folderNames)) {
		children := pick(orders[OrderKey(Dir, fk)])
		if len(children) < 2 {
			for _, c := range children {
				delete(placed, c.Key)
			}
			continue
		}
		folders[fk] = children
	}

	var top []Item
	for _, k := range orders[OrderKey(All, "")] {
		if _, ok := folders[k]; ok {
			if !placed[k] {
				placed[k] = true
				top = append(top, l.folderItem(k, folderNames[k]))
			}
			continue
		}
		if it, ok := l.known[k]; ok && !placed[k] {
			placed[k] = true
			top = append(top, it)
		}
	}
	// Folders missing from the saved top-level order go to the end.
	for _, fk := range slices.Sorted(maps.Keys(folders)) {
		if !placed[fk] {
			placed[fk] = true
			top = append(top, l.folderItem(fk, folderNames[fk]))
		}
	}
	top = append(top, l.unplaced(placed)...)

	for fk, col := range l.folders {
		if _, ok := folders[fk]; !ok {
			delete(l.folders, fk)
			col.Replace(nil)
		}
	}
	for fk, children := range folders {
		l.ensureFolder(fk).Replace(children)
	}
	l.all.Replace(top)

	var favs []Item
	for _, k := range orders[OrderKey(Favorite, "")] {
		if it, ok := l.known[k]; ok {
			favs = append(favs, it)
		}
	}
	l.favorite.Replace(favs)
	l.search.Replace(nil)

	debug.Log(debug.MODEL, "restored %d apps, %d top-level, %d folders, %d favorites",
		len(l.known), l.all.Len(), len(l.folders), l.favorite.Len())
}

func (l *Library) unplaced(placed map[string]bool) []Item {
	var rest []Item
	for k, it := range l.known {
		if !placed[k] {
			rest = append(rest, it)
		}
	}
	sort.Slice(rest, func(i, j int) bool {
		a, b := strings.ToLower(rest[i].Name), strings.ToLower(rest[j].Name)
		if a != b {
			return a < b
		}
		return rest[i].Key < rest[j].Key
	})
	return rest
}

func (l *Library) folderItem(key, name string) Item {
	if name == "" {
		name = DefaultFolderName
	}
	return Item{Key: key, Name: name, IsDir: true, Removable: false}
}

func (l *Library) ensureFolder(key string) *Collection {
	if col, ok := l.folders[key]; ok {
		return col
	}
	col := newFolderCollection(key)
	for _, o := range l.observers {
		col.Subscribe(o)
	}
	l.folders[key] = col
	return col
}

func (l *Library) dropFolder(key string) {
	col, ok := l.folders[key]
	if !ok {
		return
	}
	delete(l.folders, key)
	col.Replace(nil)
}

// Orders returns every sequence's keys by OrderKey, for persistence.
func (l *Library) Orders() map[string][]string {
	out := map[string][]string{
		l.all.OrderKey():      l.all.Keys(),
		l.favorite.OrderKey(): l.favorite.Keys(),
	}
	for _, col := range l.folders {
		out[col.OrderKey()] = col.Keys()
	}
	return out
}

// FolderNames returns folder display names by key.
func (l *Library) FolderNames() map[string]string {
	out := make(map[string]string, len(l.folders))
	for fk := range l.folders {
		if it, ok := l.Lookup(fk); ok {
			out[fk] = it.Name
		}
	}
	return out
}

// FolderName picks a name for a folder holding items: the first category
// every item shares, or DefaultFolderName.
func FolderName(items ...Item) string {
	if len(items) == 0 {
		return DefaultFolderName
	}
	for _, cat := range items[0].Categories {
		shared := true
		for _, other := range items[1:] {
			if !slices.Contains(other.Categories, cat) {
				shared = false
				break
			}
		}
		if shared {
			return cat
		}
	}
	return DefaultFolderName
}

// Merge combines two top-level applications into a new folder placed where
// dst was. The folder lists dst first. It returns the folder key.
func (l *Library) Merge(srcKey, dstKey string) (string, bool) {
	if srcKey == dstKey {
		return "", false
	}
	srcPos, dstPos := l.all.IndexOf(srcKey), l.all.IndexOf(dstKey)
	if srcPos < 0 || dstPos < 0 {
		return "", false
	}
	src, _ := l.all.At(srcPos)
	dst, _ := l.all.At(dstPos)
	if src.IsDir || dst.IsDir {
		return "", false
	}

	fk := l.newKey()
	folder := l.folderItem(fk, FolderName(dst, src))
	l.ensureFolder(fk).Replace([]Item{dst, src})

	l.all.Begin()
	l.all.RemoveKey(srcKey)
	l.all.InsertAt(folder, l.all.IndexOf(dstKey))
	l.all.RemoveKey(dstKey)
	l.all.End()

	debug.Log(debug.MODEL, "merged %s into %s as folder %s (%q)", srcKey, dstKey, fk, folder.Name)
	return fk, true
}

// AddToFolder moves a top-level application into an existing folder.
func (l *Library) AddToFolder(srcKey, folderKey string) bool {
	col, ok := l.folders[folderKey]
	if !ok {
		return false
	}
	pos := l.all.IndexOf(srcKey)
	src, ok := l.all.At(pos)
	if !ok || src.IsDir {
		return false
	}
	l.all.RemoveAt(pos)
	col.Append(src)
	debug.Log(debug.MODEL, "added %s to folder %s", srcKey, folderKey)
	return true
}

// TakeFromFolder moves key out of a folder into the top level at pos. A
// folder left with a single child is dissolved and the child takes the
// folder's place.
func (l *Library) TakeFromFolder(folderKey, key string, pos int) bool {
	col, ok := l.folders[folderKey]
	if !ok {
		return false
	}
	it, ok := col.RemoveKey(key)
	if !ok {
		return false
	}
	l.all.Begin()
	defer l.all.End()
	l.all.InsertAt(it, pos)
	l.dissolve(folderKey)
	debug.Log(debug.MODEL, "took %s out of folder %s to %d", key, folderKey, pos)
	return true
}

// RenameFolder changes a folder's display name.
func (l *Library) RenameFolder(folderKey, name string) bool {
	it, ok := l.Lookup(folderKey)
	if !ok || !it.IsDir {
		return false
	}
	it.Name = strings.TrimSpace(name)
	if it.Name == "" {
		it.Name = DefaultFolderName
	}
	return l.all.Update(it)
}

func (l *Library) dissolve(folderKey string) {
	col, ok := l.folders[folderKey]
	if !ok || col.Len() >= 2 {
		return
	}
	l.all.Begin()
	defer l.all.End()
	pos := l.all.IndexOf(folderKey)
	l.all.RemoveAt(pos)
	if last, ok := col.At(0); ok {
		l.all.InsertAt(last, pos)
	}
	l.dropFolder(folderKey)
	debug.Log(debug.MODEL, "dissolved folder %s", folderKey)
}

// Install adds a newly discovered application to the end of All, or
// refreshes its metadata everywhere when it is already known.
func (l *Library) Install(it Item) bool {
	if l.policy.IsHidden(it.Key) {
		return false
	}
	it = l.prepare(it)
	_, existed := l.known[it.Key]
	l.known[it.Key] = it
	if existed {
		for _, c := range l.collections() {
			c.Update(it)
		}
		return false
	}
	l.all.Append(it)
	debug.Log(debug.MODEL, "installed %s", it.Key)
	return true
}

// Uninstall removes key from every sequence, including folders.
func (l *Library) Uninstall(key string) bool {
	if _, ok := l.known[key]; !ok {
		return false
	}
	delete(l.known, key)
	l.all.Begin()
	defer l.all.End()
	l.all.RemoveKey(key)
	l.favorite.RemoveKey(key)
	l.search.RemoveKey(key)
	for _, fk := range l.FolderKeys() {
		if _, ok := l.folders[fk].RemoveKey(key); ok {
			l.dissolve(fk)
		}
	}
	debug.Log(debug.MODEL, "uninstalled %s", key)
	return true
}

// Sync reconciles the library with a fresh catalog scan.
func (l *Library) Sync(items []Item) (installed, removed []string) {
	fresh := make(map[string]bool, len(items))
	l.all.Begin()
	defer l.all.End()
	for _, it := range items {
		fresh[it.Key] = true
		if l.Install(it) {
			installed = append(installed, it.Key)
		}
	}
	for _, k := range slices.Sorted(maps.Keys(l.known)) {
		if !fresh[k] && l.Uninstall(k) {
			removed = append(removed, k)
		}
	}
	for _, k := range slices.Collect(maps.Keys(l.known)) {
		if l.policy.IsHidden(k) {
			l.Uninstall(k)
			removed = append(removed, k)
		}
	}
	return installed, removed
}

// IsFavorite reports whether key is in the Favorite sequence.
func (l *Library) IsFavorite(key string) bool {
	return l.favorite.Contains(key)
}

// AddFavorite inserts an application into Favorite at pos. Folders and
// duplicates are rejected.
func (l *Library) AddFavorite(key string, pos int) bool {
	it, ok := l.known[key]
	if !ok || l.favorite.Contains(key) {
		return false
	}
	l.favorite.InsertAt(it, pos)
	return true
}

// ToggleFavorite adds or removes key and reports whether it is now a
// favorite.
func (l *Library) ToggleFavorite(key string) bool {
	if _, ok := l.favorite.RemoveKey(key); ok {
		return false
	}
	return l.AddFavorite(key, -1)
}

// SetSearchResults replaces the Search sequence. Unknown keys are skipped.
func (l *Library) SetSearchResults(keys []string) {
	out := make([]Item, 0, len(keys))
	for _, k := range keys {
		if it, ok := l.known[k]; ok {
			out = append(out, it)
		}
	}
	l.search.Replace(out)
}

// Apps returns every installed, visible application ordered by name.
func (l *Library) Apps() []Item {
	return l.unplaced(nil)
}
