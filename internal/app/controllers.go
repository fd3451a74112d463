package app

import (
	"github.com/justyntemme/launchpad/internal/anim"
	"github.com/justyntemme/launchpad/internal/debug"
	"github.com/justyntemme/launchpad/internal/drag"
	"github.com/justyntemme/launchpad/internal/geom"
	"github.com/justyntemme/launchpad/internal/model"
	"github.com/justyntemme/launchpad/internal/search"
	"github.com/justyntemme/launchpad/internal/ui"
)

// LayoutSaver persists the library's orders and folder names.
type LayoutSaver interface {
	SaveLayout(orders map[string][]string, folders map[string]string)
}

// DockPolicy decides which applications may be added to favorites.
type DockPolicy interface {
	CanDock(key string) bool
}

type dockAnything struct{}

func (dockAnything) CanDock(string) bool { return true }

// LayoutController owns the library, the two drag surfaces and the frame
// state derived from them. It is the drag machine's Sink. All methods run
// on the UI goroutine.
type LayoutController struct {
	lib    *model.Library
	saver  LayoutSaver
	policy DockPolicy

	anim    *anim.Coordinator
	machine *drag.Machine

	main   drag.Surface
	folder drag.Surface
	state  ui.State

	// prevCategory is restored when search is cleared.
	prevCategory model.Category
	folderKey    string
}

// NewLayoutController wires a library to a fresh drag machine and
// animation coordinator.
func NewLayoutController(lib *model.Library, timing drag.Timing, saver LayoutSaver) *LayoutController {
	c := &LayoutController{
		lib:    lib,
		saver:  saver,
		policy: dockAnything{},
		anim:   anim.New(timing.Preview, timing.Settle),
	}
	c.machine = drag.New(timing, c.anim, c)
	c.main.Items = lib.Collection(model.All)
	c.main.Merge = true
	c.machine.SetSurface(drag.ContextMain, &c.main)
	c.state = ui.State{
		Library:  lib,
		Category: model.All,
		Main:     &c.main,
		Drag:     c.machine,
		Anim:     c.anim,
	}
	c.SetGrid(false, 0, 0, 0, 0)
	return c
}

// SetDockPolicy replaces the favorites policy. nil allows everything.
func (c *LayoutController) SetDockPolicy(p DockPolicy) {
	if p == nil {
		p = dockAnything{}
	}
	c.policy = p
}

// SetTiming updates gesture and animation timing.
func (c *LayoutController) SetTiming(t drag.Timing) {
	c.machine.SetTiming(t)
	c.anim.SetDurations(t.Preview, t.Settle)
}

// SetGrid sets the page geometry. cols and rows size the fullscreen grid;
// a windowed launcher always uses the windowed layout. Zero dimensions
// keep the mode defaults.
func (c *LayoutController) SetGrid(windowed bool, cols, rows, folderCols, folderRows int) {
	if windowed || cols <= 0 || rows <= 0 {
		mode := geom.ModeFullscreen
		if windowed {
			mode = geom.ModeWindowed
		}
		cols, rows = mode.Dims()
	}
	if folderCols <= 0 || folderRows <= 0 {
		folderCols, folderRows = geom.ModeFolder.Dims()
	}
	c.state.Windowed = windowed
	c.state.Columns, c.state.Rows = cols, rows
	c.state.FolderCols, c.state.FolderRows = folderCols, folderRows
	c.lib.Collection(model.All).SetPageItemCount(cols * rows)
	if c.folder.Items != nil {
		c.folder.Items.SetPageItemCount(folderCols * folderRows)
	}
}

// State is the frame state handed to the renderer.
func (c *LayoutController) State() *ui.State { return &c.state }

// Library returns the controlled library.
func (c *LayoutController) Library() *model.Library { return c.lib }

// Category is the category on screen.
func (c *LayoutController) Category() model.Category { return c.state.Category }

// OpenFolderKey returns the folder shown in the popup, if any.
func (c *LayoutController) OpenFolderKey() (string, bool) {
	return c.folderKey, c.folderKey != ""
}

func (c *LayoutController) persist() {
	if c.saver == nil {
		return
	}
	c.saver.SaveLayout(c.lib.Orders(), c.lib.FolderNames())
}

func (c *LayoutController) surface(ctx drag.Context) *drag.Surface {
	if ctx == drag.ContextFolder {
		if c.folder.Items == nil {
			return nil
		}
		return &c.folder
	}
	return &c.main
}

// pageCollection is the collection the page controls act on.
func (c *LayoutController) pageCollection() *model.Collection {
	if c.folder.Items != nil {
		return c.folder.Items
	}
	return c.main.Items
}

// RequestMove commits a reorder within one collection.
func (c *LayoutController) RequestMove(ctx drag.Context, from, to int) {
	s := c.surface(ctx)
	if s == nil || s.Items == nil {
		return
	}
	if !s.Items.Move(from, to) {
		return
	}
	debug.Log(debug.APP, "move %s %d -> %d", s.Items.OrderKey(), from, to)
	if s.Items.Category() != model.Search {
		c.persist()
	}
}

// RequestMerge combines two applications into a new folder.
func (c *LayoutController) RequestMerge(srcKey, dstKey string) {
	if c.state.Category != model.All {
		return
	}
	fk, ok := c.lib.Merge(srcKey, dstKey)
	if !ok {
		return
	}
	debug.Log(debug.APP, "merge %s + %s -> %s", srcKey, dstKey, fk)
	c.persist()
}

// RequestDirIn drops an application into an existing folder.
func (c *LayoutController) RequestDirIn(srcKey, folderKey string) {
	if c.state.Category != model.All {
		return
	}
	if c.lib.AddToFolder(srcKey, folderKey) {
		c.persist()
	}
}

// RequestDirOut moves an item out of the open folder to the top level.
func (c *LayoutController) RequestDirOut(folderKey, key string, pos int) {
	if !c.lib.TakeFromFolder(folderKey, key, pos) {
		return
	}
	c.CloseFolder()
	c.persist()
}

// RequestScroll turns the page of the collection being dragged over.
func (c *LayoutController) RequestScroll(delta int) {
	c.TurnPage(delta)
}

// TurnPage moves delta pages forward or back.
func (c *LayoutController) TurnPage(delta int) bool {
	col := c.pageCollection()
	return col.SetPage(col.Page() + delta)
}

// SetPage jumps to page p.
func (c *LayoutController) SetPage(p int) bool {
	return c.pageCollection().SetPage(p)
}

// LastPage jumps to the final page.
func (c *LayoutController) LastPage() bool {
	col := c.pageCollection()
	return col.SetPage(col.PageCount() - 1)
}

// ShowCategory switches the main grid to a top-level category.
func (c *LayoutController) ShowCategory(cat model.Category) {
	col := c.lib.Collection(cat)
	if col == nil || cat == c.state.Category {
		return
	}
	c.machine.Cancel()
	c.CloseFolder()
	if cat != model.Search {
		c.state.Query = ""
	}
	c.state.Category = cat
	c.main.Items = col
	c.main.Merge = cat == model.All
	col.SetPage(0)
	debug.Log(debug.APP, "category %s", cat)
}

// Search filters the installed applications into the Search category.
func (c *LayoutController) Search(query string) {
	if query == "" {
		c.ClearSearch()
		return
	}
	c.lib.SetSearchResults(search.Keys(search.Filter(c.lib.Apps(), query)))
	if c.state.Category != model.Search {
		c.prevCategory = c.state.Category
		c.ShowCategory(model.Search)
	}
	c.state.Query = query
}

// ClearSearch leaves Search for the category shown before it.
func (c *LayoutController) ClearSearch() {
	c.state.Query = ""
	if c.state.Category != model.Search {
		return
	}
	c.ShowCategory(c.prevCategory)
	c.lib.SetSearchResults(nil)
}

// FirstSearchHit returns the best match of the current search.
func (c *LayoutController) FirstSearchHit() (model.Item, bool) {
	if c.state.Category != model.Search {
		return model.Item{}, false
	}
	return c.lib.Collection(model.Search).At(0)
}

// OpenFolder shows folder key in the popup.
func (c *LayoutController) OpenFolder(key string) bool {
	col := c.lib.Folder(key)
	if col == nil {
		return false
	}
	c.machine.Cancel()
	col.SetPageItemCount(c.state.FolderCols * c.state.FolderRows)
	col.SetPage(0)
	c.folder = drag.Surface{Items: col}
	c.folderKey = key
	c.state.Folder = &c.folder
	c.machine.SetSurface(drag.ContextFolder, &c.folder)
	return true
}

// CloseFolder hides the popup. It does nothing when no folder is open.
func (c *LayoutController) CloseFolder() {
	if c.folderKey == "" {
		return
	}
	c.folderKey = ""
	c.folder = drag.Surface{}
	c.state.Folder = nil
	c.machine.SetSurface(drag.ContextFolder, nil)
}

// RenameFolder renames a folder and persists the new name.
func (c *LayoutController) RenameFolder(key, name string) bool {
	if !c.lib.RenameFolder(key, name) {
		return false
	}
	c.persist()
	return true
}

// ToggleFavorite adds or removes an application from favorites. It
// reports whether the application is now a favorite.
func (c *LayoutController) ToggleFavorite(key string) bool {
	it, ok := c.lib.Lookup(key)
	if !ok || it.IsDir {
		return false
	}
	if !c.lib.IsFavorite(key) && !c.policy.CanDock(key) {
		return false
	}
	fav := c.lib.ToggleFavorite(key)
	c.persist()
	return fav
}

// Restore rebuilds the library from a scan and the persisted layout.
func (c *LayoutController) Restore(items []model.Item, orders map[string][]string, folders map[string]string) {
	c.machine.Cancel()
	c.CloseFolder()
	c.lib.Restore(items, orders, folders)
	c.main.Items = c.lib.Collection(c.state.Category)
	c.main.Merge = c.state.Category == model.All
	if c.state.Query != "" {
		c.lib.SetSearchResults(search.Keys(search.Filter(c.lib.Apps(), c.state.Query)))
	}
}

// Sync reconciles the library with a rescan. A gesture or open folder
// whose items vanished is dropped.
func (c *LayoutController) Sync(items []model.Item) (installed, removed []string) {
	installed, removed = c.lib.Sync(items)
	c.machine.Validate(c.lib.Present)
	if c.folderKey != "" && c.lib.Folder(c.folderKey) == nil {
		c.CloseFolder()
	}
	if c.state.Query != "" {
		c.lib.SetSearchResults(search.Keys(search.Filter(c.lib.Apps(), c.state.Query)))
	}
	if len(installed) > 0 || len(removed) > 0 {
		c.persist()
	}
	return installed, removed
}
