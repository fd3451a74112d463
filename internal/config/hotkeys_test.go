package config

import (
	"testing"

	"gioui.org/io/key"
)

func TestParseHotkey(t *testing.T) {
	testCases := []struct {
		input string
		key   key.Name
		mods  key.Modifiers
	}{
		{"Ctrl+Right", key.NameRightArrow, key.ModCtrl},
		{"ctrl+shift+f", "F", key.ModCtrl | key.ModShift},
		{"Escape", key.NameEscape, 0},
		{"Enter", key.NameReturn, 0},
		{"Cmd+Q", "Q", key.ModCommand},
		{"Control + PgDn", key.NamePageDown, key.ModCtrl},
		{"f11", "F11", 0},
		{"Ctrl+", "", 0},
		{"", "", 0},
	}
	for _, tc := range testCases {
		h := ParseHotkey(tc.input)
		if h.Key != tc.key || h.Modifiers != tc.mods {
			t.Errorf("ParseHotkey(%q) = (%q, %v), want (%q, %v)", tc.input, h.Key, h.Modifiers, tc.key, tc.mods)
		}
	}
}

func TestHotkey_Matches(t *testing.T) {
	h := ParseHotkey("Ctrl+Right")
	if !h.Matches(key.Event{Name: key.NameRightArrow, Modifiers: key.ModCtrl}) {
		t.Error("exact event should match")
	}
	if h.Matches(key.Event{Name: key.NameRightArrow, Modifiers: key.ModCtrl | key.ModShift}) {
		t.Error("extra modifier should not match")
	}
	if (Hotkey{}).Matches(key.Event{}) {
		t.Error("empty hotkey never matches")
	}
}

func TestHotkey_String(t *testing.T) {
	testCases := map[string]string{
		"ctrl+shift+f":  "Ctrl+Shift+F",
		"alt+x":         "Alt+X",
		"command+down":  "Cmd+Down",
		"control+pgdn":  "Ctrl+PageDown",
		"shift+ctrl+f1": "Ctrl+Shift+F1",
	}
	for in, want := range testCases {
		if got := ParseHotkey(in).String(); got != want {
			t.Errorf("String(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestKeymap_All(t *testing.T) {
	m := NewKeymap(HotkeysConfig{NextPage: "Ctrl+Right", Escape: "Escape"})
	if got := len(m.All()); got != 2 {
		t.Errorf("All() returned %d hotkeys, want 2", got)
	}
	if m.NextPage.Key != key.NameRightArrow {
		t.Errorf("NextPage = %q", m.NextPage.Key)
	}
	for _, h := range NewKeymap(DefaultHotkeys()).All() {
		if ParseHotkey(h.String()) != h {
			t.Errorf("default %s does not survive printing", h)
		}
	}
}
