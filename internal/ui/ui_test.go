package ui

import (
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/seberle/plume/internal/prefs"
)

func TestThemeKey_PersistsFullPrefs(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	// No explicit prefs path, as when cmd/plume runs without -prefs: the
	// theme key must still land the change in the default file, and the
	// other preference fields must ride along untouched.
	m := Model{
		keys:   defaultKeyMap(),
		theme:  GetTheme("Feather"),
		styles: GetTheme("Feather").Styles(),
		prefs:  prefs.Prefs{Theme: "Feather", ExcludeReplies: true},
	}

	next, _ := m.handleKey(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'T'}})
	got := next.(Model)

	want := NextTheme("Feather")
	if got.theme.Name != want {
		t.Fatalf("theme = %q, want %q", got.theme.Name, want)
	}

	saved := prefs.Load(filepath.Join(home, ".config", "plume", "prefs.toml"))
	if saved.Theme != want {
		t.Fatalf("persisted theme = %q, want %q", saved.Theme, want)
	}
	if !saved.ExcludeReplies {
		t.Fatal("persisted exclude_replies = false, want the preference kept")
	}
}
