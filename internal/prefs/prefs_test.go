package prefs

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoad_MissingFileUsesDefaults(t *testing.T) {
	p := Load(filepath.Join(t.TempDir(), "prefs.toml"))
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want %q", p.Theme, defaultTheme)
	}
	if p.ExcludeReplies {
		t.Fatal("ExcludeReplies = true, want false by default")
	}
}

func TestSaveThenLoad_RoundTrips(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "prefs.toml")

	if err := Save(path, Prefs{Theme: "Night", ExcludeReplies: true}); err != nil {
		t.Fatalf("Save returned error: %v", err)
	}

	p := Load(path)
	if p.Theme != "Night" {
		t.Fatalf("Theme = %q, want Night", p.Theme)
	}
	if !p.ExcludeReplies {
		t.Fatal("ExcludeReplies = false, want true")
	}
}

func TestLoad_CorruptFileFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("theme = [broken"), 0o644); err != nil {
		t.Fatalf("write prefs: %v", err)
	}

	p := Load(path)
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want fallback %q", p.Theme, defaultTheme)
	}
}

func TestLoad_BlankThemeFallsBack(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	if err := os.WriteFile(path, []byte("theme = \"  \"\n"), 0o644); err != nil {
		t.Fatalf("write prefs: %v", err)
	}

	p := Load(path)
	if p.Theme != defaultTheme {
		t.Fatalf("Theme = %q, want fallback %q", p.Theme, defaultTheme)
	}
}
