package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/park285/queenduel/internal/bot"
	appcfg "github.com/park285/queenduel/internal/config"
	"github.com/park285/queenduel/internal/duel"
	"github.com/park285/queenduel/internal/msgcat"
	"github.com/park285/queenduel/internal/obslog"
	"github.com/park285/queenduel/internal/tournament"
)

type runFlags struct {
	matchups    int
	workers     int
	trail       bool
	randomStart bool
	seed        int64
	quiet       bool
}

func (f *runFlags) register(fs *flag.FlagSet) {
	fs.IntVar(&f.matchups, "matchups", 100, "number of games")
	fs.IntVar(&f.workers, "workers", runtime.NumCPU(), "concurrent games")
	// static blocks can stall bot games, so tournaments default to the trail rule
	fs.BoolVar(&f.trail, "trail", true, "vacated squares become blocks")
	fs.BoolVar(&f.randomStart, "random", false, "start each game from a random layout")
	fs.Int64Var(&f.seed, "seed", 0, "random seed (0 picks one)")
	fs.BoolVar(&f.quiet, "quiet", false, "no progress output")
}

func (f *runFlags) config() tournament.Config {
	return tournament.Config{
		Matchups:    f.matchups,
		Workers:     f.workers,
		RandomStart: f.randomStart,
		Rules:       duel.Rules{Trail: f.trail},
		Seed:        f.seed,
		Logger:      obslog.L(),
	}
}

// progress prints about every tenth of the run to stderr.
func (f *runFlags) progress(cat *msgcat.Catalog) tournament.Progress {
	if f.quiet {
		return nil
	}
	return func(done, total int) {
		step := max(total/10, 1)
		if done%step == 0 || done == total {
			fmt.Fprintln(os.Stderr, cat.Text("battle.progress", map[string]any{"Done": done, "Total": total}))
		}
	}
}

func runBattle(ctx context.Context, _ *appcfg.AppConfig, cat *msgcat.Catalog, args []string) error {
	fs := flag.NewFlagSet("battle", flag.ExitOnError)
	var rf runFlags
	rf.register(fs)
	k := fs.Float64("k", tournament.DefaultK, "Elo K factor")
	if err := fs.Parse(args); err != nil {
		return err
	}

	names := fs.Args()
	if len(names) < 2 {
		return tournament.ErrTooFewBots
	}
	bots, err := bot.ParseAll(names)
	if err != nil {
		return err
	}

	cfg := rf.config()
	cfg.K = *k
	ratings, err := tournament.Battle(ctx, bots, cfg, rf.progress(cat))
	if err != nil {
		return err
	}
	for i, b := range bots {
		fmt.Println(cat.Text("battle.rating", map[string]any{"Name": b.Name(), "Rating": ratings[i]}))
	}
	return nil
}

func runBench(ctx context.Context, _ *appcfg.AppConfig, cat *msgcat.Catalog, args []string) error {
	fs := flag.NewFlagSet("bench", flag.ExitOnError)
	var rf runFlags
	rf.register(fs)
	kStart := fs.Float64("kstart", 64, "K factor for the first game")
	kEnd := fs.Float64("kend", 8, "K factor for the last game")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 1 {
		return errors.New("bench takes exactly one bot name")
	}
	subject, err := bot.Parse(fs.Arg(0))
	if err != nil {
		return err
	}

	roster, err := tournament.ParseRoster(os.Stdin)
	if err != nil {
		return err
	}

	cfg := rf.config()
	cfg.KStart, cfg.KEnd = *kStart, *kEnd
	rating, err := tournament.Benchmark(ctx, subject, roster, cfg, rf.progress(cat))
	if err != nil {
		return err
	}
	fmt.Println(cat.Text("bench.rating", map[string]any{"Name": subject.Name(), "Rating": rating}))
	return nil
}
