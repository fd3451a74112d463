package config

import (
	"strings"

	"gioui.org/io/event"
	"gioui.org/io/key"
)

// Hotkey is one parsed shortcut such as "Ctrl+Right". The zero Hotkey is
// unbound and matches nothing.
type Hotkey struct {
	Key       key.Name
	Modifiers key.Modifiers
}

// modifiers lists the modifier spellings in printing order. The first
// spelling of each is its label.
var modifiers = []struct {
	mod       key.Modifiers
	spellings []string
}{
	{key.ModCtrl, []string{"Ctrl", "Control"}},
	{key.ModCommand, []string{"Cmd", "Command"}},
	{key.ModShift, []string{"Shift"}},
	{key.ModAlt, []string{"Alt", "Option"}},
	{key.ModSuper, []string{"Super", "Meta", "Win"}},
}

// namedKeys are the keys that are not spelled by their own character.
var namedKeys = []struct {
	name      key.Name
	spellings []string
}{
	{key.NameLeftArrow, []string{"Left", "LeftArrow"}},
	{key.NameRightArrow, []string{"Right", "RightArrow"}},
	{key.NameUpArrow, []string{"Up", "UpArrow"}},
	{key.NameDownArrow, []string{"Down", "DownArrow"}},
	{key.NameHome, []string{"Home"}},
	{key.NameEnd, []string{"End"}},
	{key.NamePageUp, []string{"PageUp", "PgUp"}},
	{key.NamePageDown, []string{"PageDown", "PgDn"}},
	{key.NameReturn, []string{"Enter", "Return"}},
	{key.NameEscape, []string{"Escape", "Esc"}},
	{key.NameTab, []string{"Tab"}},
	{key.NameSpace, []string{"Space"}},
	{key.NameDeleteBackward, []string{"Backspace"}},
	{key.NameDeleteForward, []string{"Delete", "Del"}},
}

func spelled(word string, spellings []string) bool {
	for _, s := range spellings {
		if strings.EqualFold(word, s) {
			return true
		}
	}
	return false
}

// ParseHotkey reads a "+"-separated shortcut. Case is ignored. Letters,
// digits and function keys are written as themselves ("F", "5", "F11").
func ParseHotkey(s string) Hotkey {
	var h Hotkey
parts:
	for _, part := range strings.Split(s, "+") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		for _, m := range modifiers {
			if spelled(part, m.spellings) {
				h.Modifiers |= m.mod
				continue parts
			}
		}
		h.Key = keyName(part)
	}
	if h.Key == "" {
		return Hotkey{}
	}
	return h
}

func keyName(word string) key.Name {
	for _, k := range namedKeys {
		if spelled(word, k.spellings) {
			return k.name
		}
	}
	return key.Name(strings.ToUpper(word))
}

// IsEmpty reports whether the hotkey is unbound.
func (h Hotkey) IsEmpty() bool { return h.Key == "" }

// Matches requires the exact modifier set, so Ctrl+F and Ctrl+Shift+F stay
// distinct.
func (h Hotkey) Matches(k key.Event) bool {
	return !h.IsEmpty() && k.Name == h.Key && k.Modifiers == h.Modifiers
}

// String prints the hotkey the way the config file spells it.
func (h Hotkey) String() string {
	if h.IsEmpty() {
		return ""
	}
	var parts []string
	for _, m := range modifiers {
		if h.Modifiers.Contain(m.mod) {
			parts = append(parts, m.spellings[0])
		}
	}
	label := string(h.Key)
	for _, k := range namedKeys {
		if k.name == h.Key {
			label = k.spellings[0]
			break
		}
	}
	return strings.Join(append(parts, label), "+")
}

func (h Hotkey) Filter(focus event.Tag) key.Filter {
	return key.Filter{Focus: focus, Name: h.Key, Required: h.Modifiers}
}

// Keymap binds the launcher's keyboard actions.
type Keymap struct {
	NextPage  Hotkey
	PrevPage  Hotkey
	FirstPage Hotkey
	LastPage  Hotkey

	FocusSearch Hotkey
	Favorites   Hotkey
	Escape      Hotkey
	Launch      Hotkey
	Quit        Hotkey
}

func NewKeymap(cfg HotkeysConfig) *Keymap {
	return &Keymap{
		NextPage:    ParseHotkey(cfg.NextPage),
		PrevPage:    ParseHotkey(cfg.PrevPage),
		FirstPage:   ParseHotkey(cfg.FirstPage),
		LastPage:    ParseHotkey(cfg.LastPage),
		FocusSearch: ParseHotkey(cfg.FocusSearch),
		Favorites:   ParseHotkey(cfg.Favorites),
		Escape:      ParseHotkey(cfg.Escape),
		Launch:      ParseHotkey(cfg.Launch),
		Quit:        ParseHotkey(cfg.Quit),
	}
}

// All returns the bound hotkeys, for building event filters.
func (m *Keymap) All() []Hotkey {
	var out []Hotkey
	for _, h := range []Hotkey{
		m.NextPage, m.PrevPage, m.FirstPage, m.LastPage,
		m.FocusSearch, m.Favorites, m.Escape, m.Launch, m.Quit,
	} {
		if !h.IsEmpty() {
			out = append(out, h)
		}
	}
	return out
}
