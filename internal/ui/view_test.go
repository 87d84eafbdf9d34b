package ui

import (
	"strings"
	"testing"

	"github.com/seberle/plume/internal/masto"
	"github.com/seberle/plume/internal/profile"
)

func TestHumanCount(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1K"},
		{1200, "1.2K"},
		{25400, "25.4K"},
		{1000000, "1M"},
		{3400000, "3.4M"},
	}
	for _, tc := range cases {
		if got := humanCount(tc.in); got != tc.want {
			t.Fatalf("humanCount(%d) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestTruncate(t *testing.T) {
	if got := truncate("short", 80, 2); got != "short" {
		t.Fatalf("truncate(short) = %q, want unchanged", got)
	}

	got := truncate("one\ntwo\nthree", 80, 2)
	if got != "one\ntwo…" {
		t.Fatalf("truncate lines = %q, want clipped with ellipsis", got)
	}

	got = truncate(strings.Repeat("x", 100), 10, 1)
	if len([]rune(got)) != 10 || !strings.HasSuffix(got, "…") {
		t.Fatalf("truncate width = %q, want 10 runes ending in ellipsis", got)
	}

	// A width-clipped line must not hide that later lines were dropped.
	got = truncate(strings.Repeat("x", 20)+"\nshort\ndropped", 10, 2)
	want := strings.Repeat("x", 9) + "…\nshort…"
	if got != want {
		t.Fatalf("truncate width+lines = %q, want %q", got, want)
	}

	// One ellipsis is enough when the clipped line is also the last kept one.
	got = truncate(strings.Repeat("x", 20)+"\ndropped", 10, 1)
	if len([]rune(got)) != 10 || strings.HasSuffix(got, "……") {
		t.Fatalf("truncate clipped last line = %q, want single trailing ellipsis", got)
	}
}

func TestRelationshipBadge(t *testing.T) {
	m := Model{theme: GetTheme(""), styles: GetTheme("").Styles()}

	if got := m.relationshipBadge(); got != "" {
		t.Fatalf("badge without relationship = %q, want empty", got)
	}

	cases := []struct {
		rel  masto.Relationship
		want string
	}{
		{masto.Relationship{Blocking: true}, "blocked"},
		{masto.Relationship{Requested: true}, "requested"},
		{masto.Relationship{Following: true, FollowedBy: true}, "mutuals"},
		{masto.Relationship{Following: true}, "following"},
		{masto.Relationship{FollowedBy: true}, "follows you"},
	}
	for _, tc := range cases {
		rel := tc.rel
		m.profSnap = profile.Snapshot{Relationship: &rel}
		if got := m.relationshipBadge(); !strings.Contains(got, tc.want) {
			t.Fatalf("badge for %+v = %q, want %q", tc.rel, got, tc.want)
		}
	}
}

func TestThemes_LookupAndCycle(t *testing.T) {
	if got := GetTheme("Night").Name; got != "Night" {
		t.Fatalf("GetTheme(Night).Name = %q, want Night", got)
	}
	if got := GetTheme("nope").Name; got != themes[0].Name {
		t.Fatalf("GetTheme(unknown).Name = %q, want first theme", got)
	}

	seen := map[string]bool{}
	name := themes[0].Name
	for range themes {
		if seen[name] {
			t.Fatalf("NextTheme cycle revisited %q early", name)
		}
		seen[name] = true
		name = NextTheme(name)
	}
	if name != themes[0].Name {
		t.Fatalf("NextTheme cycle ended at %q, want wrap to first", name)
	}
}
