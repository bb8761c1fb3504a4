package main

import (
	"bufio"
	"bytes"
	"context"
	"math/rand"
	"strings"
	"testing"

	"github.com/park285/queenduel/internal/adapter/duelpresenter"
	"github.com/park285/queenduel/internal/advisory"
	"github.com/park285/queenduel/internal/bot"
	"github.com/park285/queenduel/internal/duel"
	"github.com/park285/queenduel/internal/msgcat"
	"github.com/park285/queenduel/internal/session"
)

func newTestGame(t *testing.T, out *bytes.Buffer) *game {
	t.Helper()
	cat, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat.New: %v", err)
	}
	mgr := session.NewManager(session.NewMemoryStore(), advisory.NewLocal(bot.NewBasic(1)))
	return newGame(context.Background(), mgr, duelpresenter.NewFormatter(cat, false), out)
}

func TestPickSide(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	if s, err := pickSide("white", r); err != nil || s != duel.White {
		t.Fatalf("white: %v %v", s, err)
	}
	if s, err := pickSide(" BLACK ", r); err != nil || s != duel.Black {
		t.Fatalf("black: %v %v", s, err)
	}
	if _, err := pickSide("green", r); err == nil {
		t.Fatalf("expected error for unknown side")
	}
	seen := map[duel.Side]bool{}
	for range 50 {
		s, err := pickSide("random", r)
		if err != nil {
			t.Fatalf("random: %v", err)
		}
		seen[s] = true
	}
	if len(seen) != 2 {
		t.Fatalf("random side never varied")
	}
}

func TestGameScript(t *testing.T) {
	var out bytes.Buffer
	g := newTestGame(t, &out)
	in := bufio.NewScanner(strings.NewReader("moves\nzz\nd8\ne4\nretry\nquit\n"))
	if err := g.run(session.StartOptions{Human: duel.White}, in); err != nil {
		t.Fatalf("run: %v", err)
	}
	text := out.String()
	for _, want := range []string{
		"you play white",
		"Legal destinations: ",
		`Could not read "zz"`,
		"Illegal move: d8 (occupied)",
		"You moved to e4.",
		"Advisory plays ",
		"Nothing to retry",
		"abandoned.",
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("output missing %q:\n%s", want, text)
		}
	}
	if _, err := g.mgr.Get(context.Background(), g.s.ID); err == nil {
		t.Fatalf("quit should end the session")
	}
}

func TestGameEndsOnEOF(t *testing.T) {
	var out bytes.Buffer
	g := newTestGame(t, &out)
	if err := g.run(session.StartOptions{Human: duel.Black}, bufio.NewScanner(strings.NewReader(""))); err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out.String(), "Advisory plays ") {
		t.Fatalf("advisory should open for a black human:\n%s", out.String())
	}
}
