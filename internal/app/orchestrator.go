package app

import (
	"fmt"
	"os"
	"sync"

	"gioui.org/app"
	"gioui.org/io/system"
	"gioui.org/op"
	"gioui.org/unit"
	"github.com/rs/zerolog/log"

	"github.com/justyntemme/launchpad/internal/catalog"
	"github.com/justyntemme/launchpad/internal/config"
	"github.com/justyntemme/launchpad/internal/debug"
	"github.com/justyntemme/launchpad/internal/drag"
	"github.com/justyntemme/launchpad/internal/model"
	"github.com/justyntemme/launchpad/internal/store"
	"github.com/justyntemme/launchpad/internal/ui"
)

// iconCacheSize bounds the decoded icons kept in memory.
const iconCacheSize = 512

// startup collects the two halves needed for the first Restore.
type startup struct {
	items      []model.Item
	orders     map[string][]string
	folders    map[string]string
	haveItems  bool
	haveLayout bool
	restored   bool
}

type Orchestrator struct {
	window  *app.Window
	config  *config.Manager
	store   *store.DB
	storeOK bool
	scanner *catalog.Scanner
	watcher *catalog.Watcher
	icons   *ui.IconCache
	ui      *ui.Renderer
	layout  *LayoutController
	debug   bool

	dirs    []string
	scanGen int64
	boot    startup

	// Worker results are queued here and applied by the frame loop.
	mu      sync.Mutex
	pending []func()
}

func NewOrchestrator(debug bool) *Orchestrator {
	r := ui.NewRenderer()
	r.Debug = debug
	o := &Orchestrator{
		window:  new(app.Window),
		config:  config.NewManager(),
		store:   store.NewDB(),
		scanner: catalog.NewScanner(),
		ui:      r,
		debug:   debug,
	}
	o.layout = NewLayoutController(model.NewLibrary(nil), drag.DefaultTiming(), storeSaver{o})
	return o
}

// storeSaver forwards layout saves to the store worker.
type storeSaver struct{ o *Orchestrator }

func (s storeSaver) SaveLayout(orders map[string][]string, folders map[string]string) {
	if !s.o.storeOK {
		return
	}
	s.o.store.RequestChan <- store.Request{Op: store.SaveLayout, Orders: orders, Folders: folders}
}

// timingFor turns the drag config into gesture timing. Disabled
// animations collapse preview and settle to nothing.
func timingFor(cfg config.Config) drag.Timing {
	d := cfg.Drag
	t := drag.Timing{
		Threshold:    d.ThresholdPx,
		QuickDrag:    config.Duration(d.QuickDragMs),
		SwapDelay:    config.Duration(d.SwapDelayMs),
		Preview:      config.Duration(d.PreviewMs),
		Settle:       config.Duration(d.SettleMs),
		ScrollBand:   d.ScrollBandPx,
		ScrollRepeat: config.Duration(d.ScrollRepeatMs),
	}
	if !cfg.UI.Animations {
		t.Preview, t.Settle = 0, 0
	}
	return t
}

// applyConfig pushes configuration into the renderer and the controller.
func (o *Orchestrator) applyConfig() {
	cfg := o.config.Get()
	snap := o.config.Snapshot()

	o.ui.SetDarkMode(o.config.IsDarkMode())
	o.ui.SetHotkeys(cfg.Hotkeys)
	if err := o.config.ParseError(); err != nil {
		o.ui.SetConfigError(fmt.Sprintf("Config error: %v", err))
	}

	o.layout.Library().SetPolicy(snap)
	o.layout.SetDockPolicy(snap)
	o.layout.SetTiming(timingFor(cfg))
	o.layout.SetGrid(!cfg.UI.Fullscreen, cfg.Grid.Columns, cfg.Grid.Rows, cfg.Grid.FolderColumns, cfg.Grid.FolderRows)

	o.dirs = cfg.Catalog.Dirs
	if len(o.dirs) == 0 {
		o.dirs = catalog.DefaultDirs()
	}
}

func (o *Orchestrator) windowOptions() []app.Option {
	cfg := o.config.Get()
	opts := []app.Option{app.Title("Launchpad")}
	if cfg.UI.Fullscreen {
		opts = append(opts, app.Fullscreen.Option())
	} else if cfg.UI.Width > 0 && cfg.UI.Height > 0 {
		opts = append(opts, app.Size(unit.Dp(cfg.UI.Width), unit.Dp(cfg.UI.Height)))
	}
	return opts
}

func (o *Orchestrator) Run() error {
	if o.debug {
		log.Info().Msg("starting launchpad in debug mode")
	}

	if err := o.config.Load(); err != nil {
		log.Error().Err(err).Msg("config: load failed, using defaults")
	}
	o.applyConfig()
	o.window.Option(o.windowOptions()...)

	env := o.config.Env()
	if err := o.store.Open(env.DBPath()); err != nil {
		log.Error().Err(err).Msg("store: open failed, layout will not persist")
		o.boot.haveLayout = true
	} else {
		o.storeOK = true
		defer o.store.Close()
		go o.store.Start()
		o.store.RequestChan <- store.Request{Op: store.FetchLayout}
	}

	o.icons = ui.NewIconCache(iconCacheSize, catalog.IconDirs())
	o.icons.Loaded = o.window.Invalidate
	defer o.icons.Stop()
	o.ui.Icons = o.icons

	go o.scanner.Start()
	go o.processEvents()
	o.startWatcher()
	o.rescan()

	var ops op.Ops
	for {
		switch e := o.window.Event().(type) {
		case app.DestroyEvent:
			o.stopWatcher()
			return e.Err
		case app.FrameEvent:
			o.drain()
			gtx := app.NewContext(&ops, e)
			evt := o.ui.Layout(gtx, o.layout.State())

			if evt.Action != ui.ActionNone {
				debug.Log(debug.APP, "action %s key=%q page=%d", evt.Action, evt.Key, evt.Page)
				o.handleUIEvent(evt)
				o.window.Invalidate()
			}
			e.Frame(gtx.Ops)
		}
	}
}

func (o *Orchestrator) startWatcher() {
	if !o.config.Get().Catalog.Watch {
		return
	}
	w, err := catalog.NewWatcher(0)
	if err != nil {
		log.Warn().Err(err).Msg("catalog: watcher unavailable")
		return
	}
	if err := w.Watch(o.dirs...); err != nil {
		log.Warn().Err(err).Msg("catalog: watch")
	}
	o.watcher = w
	go func() {
		for dir := range w.Notify() {
			debug.Log(debug.CATALOG, "changed: %s", dir)
			o.post(o.rescan)
		}
	}()
}

func (o *Orchestrator) stopWatcher() {
	if o.watcher != nil {
		o.watcher.Close()
	}
}

// rescan asks the scanner for a fresh catalog. Older scans still in flight
// are cancelled and their results ignored.
func (o *Orchestrator) rescan() {
	o.scanGen++
	o.scanner.RequestChan <- catalog.Request{Op: catalog.ScanApps, Dirs: o.dirs, Gen: o.scanGen}
}

// post queues fn for the frame loop and wakes the window.
func (o *Orchestrator) post(fn func()) {
	o.mu.Lock()
	o.pending = append(o.pending, fn)
	o.mu.Unlock()
	o.window.Invalidate()
}

func (o *Orchestrator) drain() {
	o.mu.Lock()
	fns := o.pending
	o.pending = nil
	o.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

func (o *Orchestrator) processEvents() {
	for {
		select {
		case resp := <-o.scanner.ResponseChan:
			o.post(func() { o.handleScanResponse(resp) })
		case resp := <-o.store.ResponseChan:
			o.post(func() { o.handleStoreResponse(resp) })
		}
	}
}

func (o *Orchestrator) handleScanResponse(resp catalog.Response) {
	if resp.Cancelled || resp.Gen != o.scanGen {
		return
	}
	if resp.Err != nil {
		log.Error().Err(resp.Err).Msg("catalog: scan")
		o.ui.ShowError("Could not read installed applications")
		return
	}
	if !o.boot.restored {
		o.boot.items, o.boot.haveItems = resp.Items, true
		o.tryRestore()
		return
	}
	installed, removed := o.layout.Sync(resp.Items)
	if len(installed) > 0 || len(removed) > 0 {
		log.Info().Strs("installed", installed).Strs("removed", removed).Msg("catalog: synced")
	}
}

func (o *Orchestrator) handleStoreResponse(resp store.Response) {
	if resp.Err != nil {
		log.Error().Err(resp.Err).Msg("store")
		if resp.Op == store.SaveLayout {
			o.ui.ShowError("Could not save layout")
		}
	}
	switch resp.Op {
	case store.FetchLayout:
		if !o.boot.restored {
			o.boot.orders, o.boot.folders, o.boot.haveLayout = resp.Orders, resp.Folders, true
			o.tryRestore()
			return
		}
		o.layout.Restore(o.layout.Library().Apps(), resp.Orders, resp.Folders)
	}
}

// tryRestore builds the library once both the scan and the saved layout
// have arrived.
func (o *Orchestrator) tryRestore() {
	b := &o.boot
	if !b.haveItems || !b.haveLayout {
		return
	}
	o.layout.Restore(b.items, b.orders, b.folders)
	b.restored = true
	b.items, b.orders, b.folders = nil, nil, nil
	log.Info().Int("apps", len(o.layout.Library().Apps())).Msg("launchpad: ready")
}

func (o *Orchestrator) handleUIEvent(evt ui.UIEvent) {
	c := o.layout
	switch evt.Action {
	case ui.ActionLaunch:
		o.launch(evt.Key)
	case ui.ActionOpenFolder:
		c.OpenFolder(evt.Key)
	case ui.ActionCloseFolder:
		c.CloseFolder()
	case ui.ActionRenameFolder:
		c.RenameFolder(evt.Key, evt.Name)
	case ui.ActionSearch:
		c.Search(evt.Query)
	case ui.ActionClearSearch:
		c.ClearSearch()
		o.ui.SetSearchText("")
	case ui.ActionSelectCategory:
		if evt.Category != model.Search {
			o.ui.SetSearchText("")
		}
		c.ShowCategory(evt.Category)
	case ui.ActionSetPage:
		c.SetPage(evt.Page)
	case ui.ActionNextPage:
		c.TurnPage(1)
	case ui.ActionPrevPage:
		c.TurnPage(-1)
	case ui.ActionFirstPage:
		c.SetPage(0)
	case ui.ActionLastPage:
		c.LastPage()
	case ui.ActionToggleFavorite:
		it, ok := c.Library().Lookup(evt.Key)
		if !ok {
			break
		}
		was := c.Library().IsFavorite(evt.Key)
		switch {
		case c.ToggleFavorite(evt.Key):
			o.ui.ShowInfo(fmt.Sprintf("Added %s to favorites", it.Name))
		case was:
			o.ui.ShowInfo(fmt.Sprintf("Removed %s from favorites", it.Name))
		}
	case ui.ActionQuit:
		o.window.Perform(system.ActionClose)
	}
}

func (o *Orchestrator) launch(key string) {
	it, ok := o.layout.Library().Lookup(key)
	if !ok {
		return
	}
	if err := catalog.Launch(it); err != nil {
		log.Error().Err(err).Str("key", key).Msg("launch")
		o.ui.ShowError(fmt.Sprintf("Could not launch %s", it.Name))
		return
	}
	o.layout.CloseFolder()
	o.layout.ClearSearch()
	o.ui.SetSearchText("")
}

// Main runs the launcher window. It does not return.
func Main(debug bool) {
	go func() {
		o := NewOrchestrator(debug)
		if err := o.Run(); err != nil {
			log.Fatal().Err(err).Msg("launchpad")
		}
		os.Exit(0)
	}()
	app.Main()
}
