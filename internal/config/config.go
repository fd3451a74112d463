package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// Config holds all user-configurable settings loaded from config.json
type Config struct {
	UI      UIConfig      `json:"ui"`
	Grid    GridConfig    `json:"grid"`
	Drag    DragConfig    `json:"drag"`
	Catalog CatalogConfig `json:"catalog"`
	Hidden  HiddenConfig  `json:"hidden"`
	Hotkeys HotkeysConfig `json:"hotkeys"`
}

// UIConfig holds UI-related settings
type UIConfig struct {
	Theme      string `json:"theme"`      // "light" or "dark"
	Animations bool   `json:"animations"` // false plays every animation with zero duration
	Fullscreen bool   `json:"fullscreen"`
	Width      int    `json:"width"` // Window size in dp when not fullscreen
	Height     int    `json:"height"`
}

// GridConfig holds page dimensions
type GridConfig struct {
	Columns       int `json:"columns"`
	Rows          int `json:"rows"`
	FolderColumns int `json:"folderColumns"`
	FolderRows    int `json:"folderRows"`
}

// DragConfig holds drag and animation timings
type DragConfig struct {
	ThresholdPx    int `json:"thresholdPx"`
	QuickDragMs    int `json:"quickDragMs"`
	SwapDelayMs    int `json:"swapDelayMs"`
	PreviewMs      int `json:"previewMs"`
	SettleMs       int `json:"settleMs"`
	ScrollBandPx   int `json:"scrollBandPx"`
	ScrollRepeatMs int `json:"scrollRepeatMs"`
}

// CatalogConfig holds application discovery settings
type CatalogConfig struct {
	Dirs  []string `json:"dirs,omitempty"` // Empty uses the XDG data dirs
	Watch bool     `json:"watch"`
}

// HiddenConfig holds the hide lists
type HiddenConfig struct {
	Keys         []string `json:"keys"`         // Never shown in the grid
	Held         []string `json:"held"`         // Cannot be removed
	UnableToDock []string `json:"unableToDock"` // Cannot be added to favorites
}

// HotkeysConfig holds keyboard shortcut strings
type HotkeysConfig struct {
	NextPage    string `json:"nextPage"`
	PrevPage    string `json:"prevPage"`
	FirstPage   string `json:"firstPage"`
	LastPage    string `json:"lastPage"`
	FocusSearch string `json:"focusSearch"`
	Favorites   string `json:"favorites"`
	Escape      string `json:"escape"`
	Launch      string `json:"launch"`
	Quit        string `json:"quit"`
}

// Manager handles loading, saving, and accessing configuration
type Manager struct {
	mu       sync.RWMutex
	config   *Config
	path     string
	env      Env
	parseErr error // Stores parsing error if config failed to load
}

// NewManager creates a new configuration manager
func NewManager() *Manager {
	return &Manager{
		config: DefaultConfig(),
	}
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Theme:      "dark",
			Animations: true,
			Fullscreen: true,
			Width:      900,
			Height:     600,
		},
		Grid: GridConfig{
			Columns:       7,
			Rows:          4,
			FolderColumns: 4,
			FolderRows:    3,
		},
		Drag: DragConfig{
			ThresholdPx:    20,
			QuickDragMs:    200,
			SwapDelayMs:    400,
			PreviewMs:      200,
			SettleMs:       200,
			ScrollBandPx:   25,
			ScrollRepeatMs: 600,
		},
		Catalog: CatalogConfig{
			Watch: true,
		},
		Hidden: HiddenConfig{
			Keys:         []string{},
			Held:         []string{},
			UnableToDock: []string{},
		},
		Hotkeys: DefaultHotkeys(),
	}
}

// ConfigPath returns the config file path: ~/.config/launchpad/config.json
func ConfigPath() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "launchpad", "config.json")
}

// Path returns the file the manager reads, honoring LAUNCHPAD_CONFIG.
func (m *Manager) Path() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.path != "" {
		return m.path
	}
	return ConfigPath()
}

// Load reads the configuration from the config file
// If the file doesn't exist, creates it with defaults
// If parsing fails, stores the error and returns defaults
func (m *Manager) Load() error {
	env, err := LoadEnv()
	if err != nil {
		log.Warn().Err(err).Msg("config: ignoring environment overrides")
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.env = env
	m.path = env.Config
	if m.path == "" {
		m.path = ConfigPath()
	}
	m.parseErr = nil

	// Ensure config directory exists
	configDir := filepath.Dir(m.path)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return fmt.Errorf("create config dir %s: %w", configDir, err)
	}

	data, err := os.ReadFile(m.path)
	if os.IsNotExist(err) {
		log.Info().Str("path", m.path).Msg("config: creating default config")
		m.config = DefaultConfig()
		m.applyEnv()
		return m.writeDefaults()
	}
	if err != nil {
		return fmt.Errorf("read config %s: %w", m.path, err)
	}

	// Start from defaults so missing fields keep sane values.
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		// Store error for UI display, use defaults
		log.Error().Err(err).Str("path", m.path).Msg("config: parse error, using defaults")
		m.parseErr = err
		m.config = DefaultConfig()
		m.applyEnv()
		return nil
	}

	log.Debug().Str("path", m.path).Msg("config: loaded")
	m.config = cfg
	m.applyEnv()
	return nil
}

// LoadFile loads path without consulting the environment.
func (m *Manager) LoadFile(path string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.path = path
	m.env = Env{}
	m.parseErr = nil

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		m.parseErr = err
		m.config = DefaultConfig()
		return nil
	}
	m.config = cfg
	return nil
}

// applyEnv overlays environment overrides onto the loaded config.
func (m *Manager) applyEnv() {
	if len(m.env.AppDirs) > 0 {
		m.config.Catalog.Dirs = m.env.AppDirs
	}
	if m.env.NoAnimations {
		m.config.UI.Animations = false
	}
}

// writeDefaults saves the in-memory config without the env overlay, so
// overrides never leak into the file.
func (m *Manager) writeDefaults() error {
	data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// saveUnlocked saves config without acquiring lock (caller must hold lock)
func (m *Manager) saveUnlocked() error {
	data, err := json.MarshalIndent(m.config, "", "  ")
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(m.path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(m.path, data, 0o644)
}

// Save writes the current configuration to disk
func (m *Manager) Save() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.path == "" {
		m.path = ConfigPath()
	}
	return m.saveUnlocked()
}

// Get returns a copy of the current configuration
func (m *Manager) Get() Config {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.config == nil {
		return *DefaultConfig()
	}
	return *m.config
}

// Env returns the environment overrides seen by the last Load.
func (m *Manager) Env() Env {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.env
}

// ParseError returns the parsing error if config failed to load
func (m *Manager) ParseError() error {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.parseErr
}

// SetTheme updates the theme setting
func (m *Manager) SetTheme(theme string) error {
	m.mu.Lock()
	m.config.UI.Theme = theme
	m.mu.Unlock()
	return m.Save()
}

// SetHidden adds or removes key from the hidden list.
func (m *Manager) SetHidden(key string, hidden bool) error {
	m.mu.Lock()
	m.config.Hidden.Keys = toggle(m.config.Hidden.Keys, key, hidden)
	m.mu.Unlock()
	return m.Save()
}

func toggle(list []string, key string, on bool) []string {
	out := list[:0:0]
	for _, k := range list {
		if k != key {
			out = append(out, k)
		}
	}
	if on {
		out = append(out, key)
	}
	return out
}

// IsDarkMode returns true if dark mode is enabled
func (m *Manager) IsDarkMode() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.config.UI.Theme == "dark"
}

// Duration converts a millisecond setting.
func Duration(ms int) time.Duration {
	return time.Duration(ms) * time.Millisecond
}

// GenerateConfig backs up existing config and creates a fresh default config
// Returns the backup path if a backup was created, or empty string if no existing config
func GenerateConfig(configPath string) (backupPath string, err error) {
	if configPath == "" {
		configPath = ConfigPath()
	}

	// Check if existing config exists
	if _, err := os.Stat(configPath); err == nil {
		// Create backup with timestamp
		timestamp := time.Now().Format("20060102-150405")
		backupPath = filepath.Join(filepath.Dir(configPath), "config.backup."+timestamp+".json")

		data, err := os.ReadFile(configPath)
		if err != nil {
			return "", fmt.Errorf("failed to read existing config: %w", err)
		}
		if err := os.WriteFile(backupPath, data, 0o644); err != nil {
			return "", fmt.Errorf("failed to write backup: %w", err)
		}
	}

	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0o755); err != nil {
		return backupPath, fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := json.MarshalIndent(DefaultConfig(), "", "  ")
	if err != nil {
		return backupPath, fmt.Errorf("failed to marshal default config: %w", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		return backupPath, fmt.Errorf("failed to write config: %w", err)
	}
	return backupPath, nil
}
