//go:build debug

// Package debug provides a centralized, categorized debug logging system.
// Build with -tags debug to enable logging.
package debug

import (
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/rs/zerolog"
)

// Enabled indicates whether debug logging is active
const Enabled = true

// Category represents a debug logging category
type Category string

const (
	// Core categories
	APP     Category = "APP"     // Orchestration, window loop, intents
	CATALOG Category = "CATALOG" // Desktop entry discovery and watching
	STORE   Category = "STORE"   // sqlite order persistence
	MODEL   Category = "MODEL"   // Collection mutations and notifications
	DRAG    Category = "DRAG"    // Drag state machine transitions
	ANIM    Category = "ANIM"    // Preview and settle animations
	UI      Category = "UI"      // Rendering decisions
	HOTKEY  Category = "HOTKEY"  // Keyboard shortcut handling

	// Verbose (per frame)
	UI_EVENT  Category = "UI_EVENT"
	UI_LAYOUT Category = "UI_LAYOUT"
)

var (
	enabledCategories = map[Category]bool{
		APP:     true,
		CATALOG: true,
		STORE:   true,
		MODEL:   true,
		DRAG:    true,
		ANIM:    true,
		UI:      true,
		HOTKEY:  true,

		UI_EVENT:  false,
		UI_LAYOUT: false,
	}
	categoryMu sync.RWMutex

	logger = zerolog.New(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: "15:04:05.000",
	}).With().Timestamp().Logger()
)

func init() {
	// LAUNCHPAD_DEBUG=DRAG,ANIM or LAUNCHPAD_DEBUG=all or LAUNCHPAD_DEBUG=none
	if env := os.Getenv("LAUNCHPAD_DEBUG"); env != "" {
		Configure(env)
	}
}

// Configure applies a category spec: "all", "none" or a comma list.
func Configure(spec string) {
	categoryMu.Lock()
	defer categoryMu.Unlock()

	spec = strings.ToUpper(strings.TrimSpace(spec))
	switch spec {
	case "":
		return
	case "ALL":
		for cat := range enabledCategories {
			enabledCategories[cat] = true
		}
	case "NONE":
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
	default:
		for cat := range enabledCategories {
			enabledCategories[cat] = false
		}
		for _, cat := range strings.Split(spec, ",") {
			enabledCategories[Category(strings.TrimSpace(cat))] = true
		}
	}
}

// Log logs a debug message for the specified category
func Log(cat Category, format string, args ...interface{}) {
	categoryMu.RLock()
	enabled := enabledCategories[cat]
	categoryMu.RUnlock()

	if !enabled {
		return
	}
	logger.Debug().Str("cat", string(cat)).Msgf(format, args...)
}

// Enable enables a debug category
func Enable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = true
	categoryMu.Unlock()
}

// Disable disables a debug category
func Disable(cat Category) {
	categoryMu.Lock()
	enabledCategories[cat] = false
	categoryMu.Unlock()
}

// IsEnabled returns whether a category is enabled
func IsEnabled(cat Category) bool {
	categoryMu.RLock()
	defer categoryMu.RUnlock()
	return enabledCategories[cat]
}

// ListEnabled returns the currently enabled categories, sorted
func ListEnabled() []Category {
	categoryMu.RLock()
	defer categoryMu.RUnlock()

	var enabled []Category
	for cat, on := range enabledCategories {
		if on {
			enabled = append(enabled, cat)
		}
	}
	sort.Slice(enabled, func(i, j int) bool { return enabled[i] < enabled[j] })
	return enabled
}
