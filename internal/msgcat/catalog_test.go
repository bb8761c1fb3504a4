package msgcat

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestEmbeddedMessagesRender(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	got, err := c.Render("play.banner", map[string]any{"Name": "brave-otter", "Human": "white", "Trail": true})
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	if !strings.Contains(got, "brave-otter") || !strings.Contains(got, "vacated squares") {
		t.Fatalf("unexpected banner %q", got)
	}
	if got := c.Text("battle.rating", map[string]any{"Name": "basic3", "Rating": 412.6}); got != "basic3: 413" {
		t.Fatalf("battle.rating = %q", got)
	}
}

func TestRenderMissing(t *testing.T) {
	c, err := New("")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if _, err := c.Render("nope.none", nil); err == nil {
		t.Fatalf("expected error for unknown key")
	}
	if _, err := c.Render("play.human_move", map[string]any{}); err == nil {
		t.Fatalf("expected error for missing field")
	}
	if got := c.Text("nope.none", nil); got != "nope.none" {
		t.Fatalf("Text fallback = %q", got)
	}
	if c.Has("nope.none") || !c.Has("play.help") {
		t.Fatalf("Has is wrong")
	}
}

func TestOverrides(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "a.yaml"), []byte("play:\n  human_move: \"-> {{.Square}}\"\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := New(dir)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := c.Text("play.human_move", map[string]any{"Square": "e4"}); got != "-> e4" {
		t.Fatalf("override not applied: %q", got)
	}
	if !c.Has("play.help") {
		t.Fatalf("embedded keys should survive overrides")
	}

	if err := os.WriteFile(filepath.Join(dir, "b.yml"), []byte("play:\n  human_move: again\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(dir); err == nil || !strings.Contains(err.Error(), "duplicate override key") {
		t.Fatalf("expected duplicate key error, got %v", err)
	}
}

func TestOverrideRejectsNonStrings(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "bad.yaml"), []byte("play:\n  help: 3\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := New(dir); err == nil {
		t.Fatalf("expected error for non-string leaf")
	}
	if _, err := New(filepath.Join(dir, "missing")); err == nil {
		t.Fatalf("expected error for missing dir")
	}
}
