package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite" // Pure Go SQLite driver

	"github.com/justyntemme/launchpad/internal/debug"
)

type EventType int

const (
	FetchLayout EventType = iota
	SaveLayout
	ResetOrder
	FetchSettings
	SaveSetting
)

type Request struct {
	Op EventType
	// Orders maps an order key ("all", "favorite", "dir:<folder>") to item
	// keys in display order.
	Orders  map[string][]string
	Folders map[string]string
	Key     string
	Value   string
}

type Response struct {
	Op       EventType
	Orders   map[string][]string
	Folders  map[string]string // folder key -> display name
	Settings map[string]string
	Err      error
}

type DB struct {
	conn         *sql.DB
	RequestChan  chan Request
	ResponseChan chan Response
}

func NewDB() *DB {
	return &DB{
		RequestChan:  make(chan Request, 10),
		ResponseChan: make(chan Response, 10),
	}
}

// Open initializes the database connection and schema
func (d *DB) Open(dbPath string) error {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return fmt.Errorf("open %s: %w", dbPath, err)
	}
	// A single connection serializes writers.
	db.SetMaxOpenConns(1)

	// WAL mode allows simultaneous readers and writers
	if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		db.Close()
		return err
	}
	// Synchronous NORMAL is safe against app crashes, faster than FULL
	if _, err := db.Exec("PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return err
	}

	schema := []string{
		`CREATE TABLE IF NOT EXISTS item_order (
			category TEXT NOT NULL,
			position INTEGER NOT NULL,
			key TEXT NOT NULL,
			PRIMARY KEY (category, position)
		);`,
		`CREATE TABLE IF NOT EXISTS folders (
			key TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS settings (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);`,
	}
	for _, q := range schema {
		if _, err := db.Exec(q); err != nil {
			db.Close()
			return fmt.Errorf("create schema: %w", err)
		}
	}

	d.conn = db
	return nil
}

// Start serves requests until RequestChan is closed.
func (d *DB) Start() {
	for req := range d.RequestChan {
		switch req.Op {
		case FetchLayout:
			d.handleFetchLayout()
		case SaveLayout:
			d.handleSaveLayout(req.Orders, req.Folders)
		case ResetOrder:
			d.handleReset(req.Key)
		case FetchSettings:
			d.handleFetchSettings()
		case SaveSetting:
			d.handleSaveSetting(req.Key, req.Value)
		}
	}
}

func (d *DB) handleFetchLayout() {
	orders, err := d.LoadOrders()
	if err != nil {
		d.ResponseChan <- Response{Op: FetchLayout, Err: err}
		return
	}
	folders, err := d.LoadFolders()
	d.ResponseChan <- Response{Op: FetchLayout, Orders: orders, Folders: folders, Err: err}
}

func (d *DB) handleSaveLayout(orders map[string][]string, folders map[string]string) {
	err := d.SaveLayout(orders, folders)
	if err != nil {
		log.Error().Err(err).Msg("store: save layout")
	}
	d.ResponseChan <- Response{Op: SaveLayout, Err: err}
}

func (d *DB) handleReset(key string) {
	err := d.DeleteOrder(key)
	if err != nil {
		log.Error().Err(err).Str("order", key).Msg("store: reset order")
	}
	d.handleFetchLayout()
}

func (d *DB) handleFetchSettings() {
	settings, err := d.Settings()
	d.ResponseChan <- Response{Op: FetchSettings, Settings: settings, Err: err}
}

func (d *DB) handleSaveSetting(key, value string) {
	if err := d.SaveSetting(key, value); err != nil {
		log.Error().Err(err).Str("key", key).Msg("store: save setting")
	}
	// Trigger a fetch to sync settings
	d.handleFetchSettings()
}

// SaveOrder replaces the stored order of one sequence.
func (d *DB) SaveOrder(key string, keys []string) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	if err := saveOrder(tx, key, keys); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func saveOrder(tx *sql.Tx, key string, keys []string) error {
	if _, err := tx.Exec("DELETE FROM item_order WHERE category = ?", key); err != nil {
		return fmt.Errorf("clear order %s: %w", key, err)
	}
	stmt, err := tx.Prepare("INSERT INTO item_order (category, position, key) VALUES (?, ?, ?)")
	if err != nil {
		return err
	}
	defer stmt.Close()
	for i, k := range keys {
		if _, err := stmt.Exec(key, i, k); err != nil {
			return fmt.Errorf("save order %s: %w", key, err)
		}
	}
	return nil
}

// LoadOrder returns the stored keys of one sequence, or nil.
func (d *DB) LoadOrder(key string) ([]string, error) {
	rows, err := d.conn.Query("SELECT key FROM item_order WHERE category = ? ORDER BY position ASC", key)
	if err != nil {
		return nil, fmt.Errorf("load order %s: %w", key, err)
	}
	defer rows.Close()

	var keys []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, rows.Err()
}

// LoadOrders returns every stored sequence.
func (d *DB) LoadOrders() (map[string][]string, error) {
	rows, err := d.conn.Query("SELECT category, key FROM item_order ORDER BY category, position ASC")
	if err != nil {
		return nil, fmt.Errorf("load orders: %w", err)
	}
	defer rows.Close()

	orders := make(map[string][]string)
	for rows.Next() {
		var cat, k string
		if err := rows.Scan(&cat, &k); err != nil {
			return nil, err
		}
		orders[cat] = append(orders[cat], k)
	}
	return orders, rows.Err()
}

// OrderKeys lists the stored sequences.
func (d *DB) OrderKeys() ([]string, error) {
	orders, err := d.LoadOrders()
	if err != nil {
		return nil, err
	}
	keys := make([]string, 0, len(orders))
	for k := range orders {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// DeleteOrder forgets a sequence so the next start falls back to the
// default order.
func (d *DB) DeleteOrder(key string) error {
	if _, err := d.conn.Exec("DELETE FROM item_order WHERE category = ?", key); err != nil {
		return fmt.Errorf("delete order %s: %w", key, err)
	}
	return nil
}

// SaveFolders replaces the stored folder names.
func (d *DB) SaveFolders(folders map[string]string) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	if err := saveFolders(tx, folders); err != nil {
		tx.Rollback()
		return err
	}
	return tx.Commit()
}

func saveFolders(tx *sql.Tx, folders map[string]string) error {
	if _, err := tx.Exec("DELETE FROM folders"); err != nil {
		return fmt.Errorf("clear folders: %w", err)
	}
	for k, name := range folders {
		if _, err := tx.Exec("INSERT INTO folders (key, name) VALUES (?, ?)", k, name); err != nil {
			return fmt.Errorf("save folder %s: %w", k, err)
		}
	}
	return nil
}

// LoadFolders returns folder display names by key.
func (d *DB) LoadFolders() (map[string]string, error) {
	rows, err := d.conn.Query("SELECT key, name FROM folders")
	if err != nil {
		return nil, fmt.Errorf("load folders: %w", err)
	}
	defer rows.Close()

	folders := make(map[string]string)
	for rows.Next() {
		var k, name string
		if err := rows.Scan(&k, &name); err != nil {
			return nil, err
		}
		folders[k] = name
	}
	return folders, rows.Err()
}

// SaveLayout stores every given sequence and the folder set in one
// transaction. Stored folder sequences that are no longer live are removed.
func (d *DB) SaveLayout(orders map[string][]string, folders map[string]string) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return err
	}
	if _, err := tx.Exec("DELETE FROM item_order WHERE category LIKE 'dir:%'"); err != nil {
		tx.Rollback()
		return fmt.Errorf("clear folder orders: %w", err)
	}
	for key, keys := range orders {
		if err := saveOrder(tx, key, keys); err != nil {
			tx.Rollback()
			return err
		}
	}
	if err := saveFolders(tx, folders); err != nil {
		tx.Rollback()
		return err
	}
	if err := tx.Commit(); err != nil {
		return err
	}
	debug.Log(debug.STORE, "saved %d orders, %d folders", len(orders), len(folders))
	return nil
}

// SaveSetting upserts one key-value setting.
func (d *DB) SaveSetting(key, value string) error {
	_, err := d.conn.Exec("INSERT OR REPLACE INTO settings (key, value) VALUES (?, ?)", key, value)
	return err
}

// Settings returns every stored setting.
func (d *DB) Settings() (map[string]string, error) {
	rows, err := d.conn.Query("SELECT key, value FROM settings")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err == nil {
			settings[key] = value
		}
	}
	return settings, rows.Err()
}

func (d *DB) Close() {
	if d.conn != nil {
		d.conn.Close()
	}
}
