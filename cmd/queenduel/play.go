package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"math/rand"
	"os"
	"strings"
	"time"

	"github.com/park285/queenduel/internal/adapter/duelpresenter"
	"github.com/park285/queenduel/internal/advisory"
	"github.com/park285/queenduel/internal/bot"
	appcfg "github.com/park285/queenduel/internal/config"
	"github.com/park285/queenduel/internal/duel"
	"github.com/park285/queenduel/internal/msgcat"
	"github.com/park285/queenduel/internal/obslog"
	"github.com/park285/queenduel/internal/session"
)

// color mode for the human side
const (
	sideRandom = "random"
	sideWhite  = "white"
	sideBlack  = "black"
)

func pickSide(mode string, r *rand.Rand) (duel.Side, error) {
	switch strings.ToLower(strings.TrimSpace(mode)) {
	case sideRandom, "":
		if r.Intn(2) == 0 {
			return duel.White, nil
		}
		return duel.Black, nil
	case sideWhite, sideBlack:
		return duel.ParseSide(mode)
	default:
		return duel.White, fmt.Errorf("unknown side %q (random, white, black)", mode)
	}
}

func runPlay(ctx context.Context, cfg *appcfg.AppConfig, cat *msgcat.Catalog, args []string) error {
	fs := flag.NewFlagSet("play", flag.ExitOnError)
	side := fs.String("side", sideRandom, "your side: random, white or black")
	randomBlocks := fs.Bool("random", false, "start from a random layout with blocks")
	trail := fs.Bool("trail", cfg.RuleTrail, "vacated squares become blocks")
	localBot := fs.String("bot", "", "play a local bot instead of ADVISORY_URL")
	colorize := fs.Bool("color", true, "colored board")
	if err := fs.Parse(args); err != nil {
		return err
	}

	r := rand.New(rand.NewSource(time.Now().UnixNano()))
	human, err := pickSide(*side, r)
	if err != nil {
		return err
	}

	var advisor session.Advisor
	if *localBot != "" {
		b, err := bot.Parse(*localBot)
		if err != nil {
			return err
		}
		advisor = advisory.NewLocal(b)
	} else {
		if err := cfg.RequireAdvisory(); err != nil {
			return err
		}
		advisor = advisory.NewClient(cfg.AdvisoryURL,
			advisory.WithToken(cfg.AdvisoryToken),
			advisory.WithTimeout(cfg.AdvisoryTimeout),
			advisory.WithLogger(obslog.L()),
		)
	}

	store := session.NewMemoryStore()
	if cfg.RedisURL != "" {
		rdb, err := session.OpenRedis(ctx, cfg.RedisURL)
		if err != nil {
			return err
		}
		redisStore := session.NewRedisStore(rdb, cfg.SessionTTL())
		defer func() { _ = redisStore.Close() }()
		store = redisStore
	}

	mgr := session.NewManager(store, advisor,
		session.WithRules(duel.Rules{Trail: *trail}),
		session.WithLogger(obslog.L()),
		session.WithAdvisoryTimeout(cfg.AdvisoryTimeout),
	)
	g := newGame(ctx, mgr, duelpresenter.NewFormatter(cat, *colorize), os.Stdout)
	return g.run(session.StartOptions{Human: human, RandomBlocks: *randomBlocks, Rand: r}, bufio.NewScanner(os.Stdin))
}

// game is one interactive session on a line-based terminal.
type game struct {
	ctx context.Context
	mgr *session.Manager
	out io.Writer
	p   *duelpresenter.Presenter
	f   *duelpresenter.Formatter
	s   *session.Session
}

func newGame(ctx context.Context, mgr *session.Manager, f *duelpresenter.Formatter, out io.Writer) *game {
	p := duelpresenter.NewPresenter(func(m string) error {
		_, err := fmt.Fprintln(out, m)
		return err
	}, f)
	return &game{ctx: ctx, mgr: mgr, out: out, p: p, f: f}
}

func (g *game) run(opts session.StartOptions, in *bufio.Scanner) error {
	turn, err := g.mgr.Start(g.ctx, opts)
	if turn == nil {
		return err
	}
	g.s = turn.Session
	if err := g.p.Say(g.f.Banner(g.s)); err != nil {
		return err
	}
	if done, err := g.report(turn, err); done || err != nil {
		return err
	}

	for {
		if err := g.show(); err != nil {
			return err
		}
		if err := g.prompt(); err != nil {
			return err
		}
		if !in.Scan() {
			if err := in.Err(); err != nil {
				return err
			}
			return g.quit()
		}
		line := strings.TrimSpace(in.Text())

		switch strings.ToLower(line) {
		case "":
			continue
		case "quit", "exit", "q":
			return g.quit()
		case "board":
			continue
		case "moves":
			squares, err := g.mgr.Destinations(g.ctx, g.s.ID)
			if err != nil {
				_ = g.p.Say(g.f.Failure(err))
				continue
			}
			_ = g.p.Say(g.f.Moves(squares))
			continue
		case "retry":
			turn, err := g.mgr.Advise(g.ctx, g.s.ID)
			if done, rerr := g.report(turn, err); done || rerr != nil {
				return rerr
			}
			continue
		}

		sq, err := duel.ParseSquare(line)
		if err != nil {
			_ = g.p.Say(g.f.UnknownInput(line))
			continue
		}
		turn, err := g.mgr.Play(g.ctx, g.s.ID, sq)
		if done, rerr := g.report(turn, err); done || rerr != nil {
			return rerr
		}
	}
}

// report prints a turn and any recoverable error. done means the game ended.
func (g *game) report(turn *session.Turn, err error) (bool, error) {
	if turn != nil && turn.Session != nil {
		g.s = turn.Session
		if text := g.f.Turn(turn); text != "" {
			if serr := g.p.Say(text); serr != nil {
				return true, serr
			}
		}
		if turn.Finished() {
			b, berr := g.s.Board()
			if berr != nil {
				return true, berr
			}
			return true, g.p.Board("", b, 0)
		}
	}
	if err == nil {
		return false, nil
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, session.ErrSessionNotFound) {
		return true, err
	}
	return false, g.p.Say(g.f.Failure(err))
}

func (g *game) show() error {
	b, err := g.s.Board()
	if err != nil {
		return err
	}
	var marks duel.Bitboard
	if !g.s.AdvisoryPending && b.SideToMove() == g.s.Human {
		marks, _ = b.LegalMask(g.s.Human)
	}
	return g.p.Board("", b, marks)
}

func (g *game) prompt() error {
	b, err := g.s.Board()
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(g.out, g.f.Prompt(b.SideToMove()))
	return err
}

func (g *game) quit() error {
	if err := g.mgr.End(context.WithoutCancel(g.ctx), g.s.ID); err != nil && !errors.Is(err, session.ErrSessionNotFound) {
		return err
	}
	return g.p.Say(g.f.Abandoned(g.s))
}
