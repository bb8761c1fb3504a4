// Package tournament rates bots by playing them against each other and
// applying Elo updates.
package tournament

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"runtime"
	"time"

	"go.uber.org/zap"

	"github.com/park285/queenduel/internal/bot"
	"github.com/park285/queenduel/internal/duel"
)

const DefaultK = 32

var ErrTooFewBots = errors.New("at least two bots are needed to battle")

// ExpectedScore is the chance that a player rated r1 beats one rated r2.
func ExpectedScore(r1, r2 float64) float64 {
	return 1 / (1 + math.Pow(10, (r2-r1)/400))
}

// Config controls a battle or benchmark run. Zero values pick defaults.
type Config struct {
	Matchups    int
	K           float64
	KStart      float64
	KEnd        float64
	Workers     int
	RandomStart bool
	Rules       duel.Rules
	Seed        int64
	Logger      *zap.Logger
}

func (c Config) withDefaults() Config {
	if c.Matchups <= 0 {
		c.Matchups = 100
	}
	if c.K <= 0 {
		c.K = DefaultK
	}
	if c.KStart <= 0 {
		c.KStart = c.K
	}
	if c.KEnd <= 0 {
		c.KEnd = c.KStart
	}
	if c.Workers <= 0 {
		c.Workers = runtime.NumCPU()
	}
	if c.Seed == 0 {
		c.Seed = time.Now().UnixNano()
	}
	if c.Logger == nil {
		c.Logger = zap.NewNop()
	}
	return c
}

func (c Config) start(r *rand.Rand) *duel.Board {
	if c.RandomStart {
		return duel.Random(r, duel.WithRules(c.Rules))
	}
	return duel.Default(duel.WithRules(c.Rules))
}

// Progress is called after each finished game.
type Progress func(done, total int)

// Battle plays cfg.Matchups games between random pairs of distinct bots and
// returns their ratings, shifted so the lowest is 0. Games run concurrently;
// rating updates are applied one result at a time in completion order.
func Battle(ctx context.Context, bots []bot.Bot, cfg Config, progress Progress) ([]float64, error) {
	if len(bots) < 2 {
		return nil, ErrTooFewBots
	}
	cfg = cfg.withDefaults()
	r := rand.New(rand.NewSource(cfg.Seed))

	games := make([]game, cfg.Matchups)
	for n := range games {
		i, j := r.Intn(len(bots)), r.Intn(len(bots))
		for i == j {
			j = r.Intn(len(bots))
		}
		games[n] = game{white: i, black: j, start: cfg.start(r)}
	}

	ratings := make([]float64, len(bots))
	done := 0
	err := play(ctx, bots, games, cfg.Workers, func(res result) {
		i, j := res.game.white, res.game.black
		ei := ExpectedScore(ratings[i], ratings[j])
		ej := ExpectedScore(ratings[j], ratings[i])
		ratings[i] += cfg.K * (res.score - ei)
		ratings[j] += cfg.K * ((1 - res.score) - ej)
		done++
		if progress != nil {
			progress(done, len(games))
		}
	})
	if err != nil {
		return nil, err
	}

	normalize(ratings)
	cfg.Logger.Info("battle_finished", zap.Int("games", len(games)), zap.Int("bots", len(bots)))
	return ratings, nil
}

func normalize(ratings []float64) {
	if len(ratings) == 0 {
		return
	}
	low := ratings[0]
	for _, v := range ratings[1:] {
		low = min(low, v)
	}
	for i := range ratings {
		ratings[i] -= low
	}
}

// Opponent is a bot with a fixed rating.
type Opponent struct {
	Name   string
	Bot    bot.Bot
	Rating float64
}

// Benchmark rates subject against opponents whose ratings stay fixed. The
// subject starts at the opponents' mean and K moves linearly from cfg.KStart
// to cfg.KEnd over the run.
func Benchmark(ctx context.Context, subject bot.Bot, roster []Opponent, cfg Config, progress Progress) (float64, error) {
	if len(roster) == 0 {
		return 0, fmt.Errorf("%w: roster is empty", ErrTooFewBots)
	}
	cfg = cfg.withDefaults()
	r := rand.New(rand.NewSource(cfg.Seed))

	players := make([]bot.Bot, 0, len(roster)+1)
	players = append(players, subject)
	var rating float64
	for _, o := range roster {
		players = append(players, o.Bot)
		rating += o.Rating
	}
	rating /= float64(len(roster))

	games := make([]game, cfg.Matchups)
	for n := range games {
		opp := 1 + r.Intn(len(roster))
		g := game{white: 0, black: opp, start: cfg.start(r)}
		if r.Intn(2) == 1 {
			g.white, g.black = opp, 0
		}
		games[n] = g
	}

	done := 0
	err := play(ctx, players, games, cfg.Workers, func(res result) {
		score, opp := res.score, res.game.black
		if res.game.white != 0 {
			score, opp = 1-res.score, res.game.white
		}
		k := annealedK(cfg.KStart, cfg.KEnd, done, len(games))
		rating += k * (score - ExpectedScore(rating, roster[opp-1].Rating))
		done++
		if progress != nil {
			progress(done, len(games))
		}
	})
	if err != nil {
		return 0, err
	}
	cfg.Logger.Info("benchmark_finished", zap.String("bot", subject.Name()), zap.Float64("rating", rating))
	return rating, nil
}

func annealedK(start, end float64, n, total int) float64 {
	if total <= 1 {
		return start
	}
	return start + (end-start)*float64(n)/float64(total-1)
}
