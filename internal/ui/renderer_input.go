package ui

import (
	"image"

	"gioui.org/f32"
	"gioui.org/io/event"
	"gioui.org/io/key"
	"gioui.org/layout"

	"github.com/justyntemme/launchpad/internal/config"
	"github.com/justyntemme/launchpad/internal/debug"
	"github.com/justyntemme/launchpad/internal/drag"
	"github.com/justyntemme/launchpad/internal/model"
)

// Keyboard and pointer input handling

// SetHotkeys configures the keyboard shortcuts from config
func (r *Renderer) SetHotkeys(cfg config.HotkeysConfig) {
	r.hotkeys = config.NewKeymap(cfg)
	debug.Log(debug.HOTKEY, "Hotkeys configured: NextPage=%s, PrevPage=%s, FocusSearch=%s",
		r.hotkeys.NextPage.String(), r.hotkeys.PrevPage.String(), r.hotkeys.FocusSearch.String())
}

func (r *Renderer) processGlobalInput(gtx layout.Context, state *State) UIEvent {
	if r.hotkeys == nil {
		return UIEvent{}
	}

	// No focus requirement: hotkeys fire unless the focused editor
	// consumes the key itself.
	filters := r.buildHotkeyFilters(nil)
	for {
		e, ok := gtx.Event(filters...)
		if !ok {
			break
		}
		k, ok := e.(key.Event)
		if !ok || k.State != key.Press {
			continue
		}
		debug.Log(debug.HOTKEY, "Key pressed: name=%q mods=0x%x", k.Name, k.Modifiers)

		switch {
		case r.hotkeys.Escape.Matches(k):
			if state.Drag.State() != drag.Idle {
				state.Drag.Cancel()
				continue
			}
			if state.FolderOpen() {
				return UIEvent{Action: ActionCloseFolder}
			}
			if state.Category == model.Search {
				r.SetSearchText("")
				return UIEvent{Action: ActionClearSearch}
			}
		case r.hotkeys.NextPage.Matches(k):
			return UIEvent{Action: ActionNextPage}
		case r.hotkeys.PrevPage.Matches(k):
			return UIEvent{Action: ActionPrevPage}
		case r.hotkeys.FirstPage.Matches(k):
			return UIEvent{Action: ActionFirstPage}
		case r.hotkeys.LastPage.Matches(k):
			return UIEvent{Action: ActionLastPage}
		case r.hotkeys.FocusSearch.Matches(k):
			gtx.Execute(key.FocusCmd{Tag: &r.searchEditor})
		case r.hotkeys.Favorites.Matches(k):
			if state.Category == model.Favorite {
				return UIEvent{Action: ActionSelectCategory, Category: model.All}
			}
			return UIEvent{Action: ActionSelectCategory, Category: model.Favorite}
		case r.hotkeys.Launch.Matches(k):
			// Launch the first search hit
			if state.Category == model.Search && state.Main != nil {
				if it, ok := state.Main.Items.At(0); ok {
					return UIEvent{Action: ActionLaunch, Key: it.Key}
				}
			}
		case r.hotkeys.Quit.Matches(k):
			return UIEvent{Action: ActionQuit}
		}
	}
	return UIEvent{}
}

// buildHotkeyFilters creates key.Filter slice for all configured hotkeys
func (r *Renderer) buildHotkeyFilters(focus event.Tag) []event.Filter {
	// Use a map to deduplicate filters with same key+modifiers
	type filterKey struct {
		name key.Name
		mods key.Modifiers
	}
	seen := make(map[filterKey]bool)

	all := r.hotkeys.All()
	filters := make([]event.Filter, 0, len(all))
	for _, hk := range all {
		fk := filterKey{hk.Key, hk.Modifiers}
		if !seen[fk] {
			seen[fk] = true
			filters = append(filters, hk.Filter(focus))
		}
	}
	return filters
}

// processPointer feeds grid pointer events to the drag machine.
func (r *Renderer) processPointer(gtx layout.Context, state *State) UIEvent {
	var out UIEvent
	for {
		e, ok := r.pointer.Update(gtx)
		if !ok {
			break
		}
		p := e.Position
		debug.Log(debug.UI_EVENT, "pointer %d at %v", e.Kind, p)

		switch e.Kind {
		case PointerPress:
			if state.FolderOpen() && !p.Round().In(r.popupRect) {
				out = UIEvent{Action: ActionCloseFolder}
				continue
			}
			if state.Drag.OnPointerDown(gtx.Now, p, -1) {
				r.dragOffset = r.pressOffset(state, p)
			}
		case PointerMove:
			state.Drag.OnPointerMove(gtx.Now, p, -1)
		case PointerRelease:
			key, clicked := state.Drag.OnPointerUp(gtx.Now, p, -1)
			if !clicked {
				continue
			}
			if it, ok := state.Library.Lookup(key); ok && it.IsDir {
				out = UIEvent{Action: ActionOpenFolder, Key: key}
			} else {
				out = UIEvent{Action: ActionLaunch, Key: key}
			}
		case PointerCancel:
			state.Drag.Cancel()
		case PointerSecondary:
			if surf := r.surfaceAt(state, p); surf != nil {
				if it, ok := surf.Items.SlotItem(surf.Grid.SlotAt(p)); ok && !it.IsDir {
					out = UIEvent{Action: ActionToggleFavorite, Key: it.Key}
				}
			}
		case PointerScroll:
			if state.Drag.Dragging() || gtx.Now.Sub(r.lastScroll) < scrollDebounce {
				continue
			}
			r.lastScroll = gtx.Now
			if e.Scroll > 0 {
				out = UIEvent{Action: ActionNextPage}
			} else if e.Scroll < 0 {
				out = UIEvent{Action: ActionPrevPage}
			}
		}
	}
	return out
}

func (r *Renderer) surfaceAt(state *State, p f32.Point) *drag.Surface {
	if state.FolderOpen() {
		if p.Round().In(state.Folder.Bounds) {
			return state.Folder
		}
		return nil
	}
	return state.Main
}

// pressOffset is where the pressed cell's corner sits relative to p, so the
// dragged icon keeps its grip point.
func (r *Renderer) pressOffset(state *State, p f32.Point) image.Point {
	surf := r.surfaceAt(state, p)
	if surf == nil {
		return image.Point{}
	}
	cell := surf.Grid.Cell
	if rect := surf.Grid.CellRect(surf.Grid.SlotAt(p)); !rect.Empty() {
		return rect.Min.Sub(p.Round())
	}
	return cell.Div(-2)
}
