package ui

import (
	"gioui.org/widget"

	"github.com/justyntemme/launchpad/internal/anim"
	"github.com/justyntemme/launchpad/internal/drag"
	"github.com/justyntemme/launchpad/internal/geom"
	"github.com/justyntemme/launchpad/internal/model"
)

type UIAction int

const (
	ActionNone           UIAction = iota
	ActionLaunch                  // Launch the application Key
	ActionOpenFolder              // Open the folder popup for Key
	ActionCloseFolder             // Close the folder popup
	ActionRenameFolder            // Rename folder Key to Name
	ActionSearch                  // Query changed
	ActionClearSearch             // Leave search, back to the previous category
	ActionSelectCategory          // Show Category
	ActionSetPage                 // Jump to Page
	ActionNextPage
	ActionPrevPage
	ActionFirstPage
	ActionLastPage
	ActionToggleFavorite // Add or remove Key from favorites
	ActionQuit
)

func (a UIAction) String() string {
	switch a {
	case ActionLaunch:
		return "launch"
	case ActionOpenFolder:
		return "open-folder"
	case ActionCloseFolder:
		return "close-folder"
	case ActionRenameFolder:
		return "rename-folder"
	case ActionSearch:
		return "search"
	case ActionClearSearch:
		return "clear-search"
	case ActionSelectCategory:
		return "select-category"
	case ActionSetPage:
		return "set-page"
	case ActionNextPage:
		return "next-page"
	case ActionPrevPage:
		return "prev-page"
	case ActionFirstPage:
		return "first-page"
	case ActionLastPage:
		return "last-page"
	case ActionToggleFavorite:
		return "toggle-favorite"
	case ActionQuit:
		return "quit"
	default:
		return "none"
	}
}

// UIEvent is what a frame asks the orchestrator to do.
type UIEvent struct {
	Action   UIAction
	Key      string
	Name     string
	Query    string
	Category model.Category
	Page     int
}

// State is the orchestrator-owned view of the launcher for one frame.
// Main and Folder are the surfaces the drag machine acts on; the renderer
// writes their Grid and Bounds before dispatching pointer events.
type State struct {
	Library  *model.Library
	Category model.Category
	Main     *drag.Surface
	Folder   *drag.Surface // nil while the popup is closed
	Drag     *drag.Machine
	Anim     *anim.Coordinator

	// Layout
	Windowed   bool
	Columns    int
	Rows       int
	FolderCols int
	FolderRows int

	Query string
}

// FolderOpen reports whether the folder popup is showing.
func (s *State) FolderOpen() bool {
	return s.Folder != nil && s.Folder.Items != nil
}

// gridMode picks the layout mode for the main grid.
func (s *State) gridMode() geom.Mode {
	switch {
	case s.Category == model.Search:
		return geom.ModeSearch
	case s.Windowed:
		return geom.ModeWindowed
	default:
		return geom.ModeFullscreen
	}
}

// pageDot is one page indicator button.
type pageDot struct {
	click widget.Clickable
}
