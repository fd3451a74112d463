package config

// Snapshot is a read-only view of the hide lists. It is built once per
// config load and handed to the model, which never sees the Manager.
type Snapshot struct {
	hidden map[string]bool
	held   map[string]bool
	noDock map[string]bool
}

// Snapshot captures the current hide lists.
func (m *Manager) Snapshot() *Snapshot {
	cfg := m.Get()
	return NewSnapshot(cfg.Hidden)
}

// NewSnapshot builds a snapshot from h.
func NewSnapshot(h HiddenConfig) *Snapshot {
	set := func(keys []string) map[string]bool {
		out := make(map[string]bool, len(keys))
		for _, k := range keys {
			out[k] = true
		}
		return out
	}
	return &Snapshot{hidden: set(h.Keys), held: set(h.Held), noDock: set(h.UnableToDock)}
}

// IsHidden reports whether key must never appear in the grid.
func (s *Snapshot) IsHidden(key string) bool { return s.hidden[key] }

// IsHeld reports whether key is protected from removal.
func (s *Snapshot) IsHeld(key string) bool { return s.held[key] }

// CanDock reports whether key may be added to favorites.
func (s *Snapshot) CanDock(key string) bool { return !s.noDock[key] }
