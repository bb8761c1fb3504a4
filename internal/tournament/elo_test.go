package tournament

import (
	"context"
	"errors"
	"math"
	"strings"
	"sync"
	"testing"

	"github.com/park285/queenduel/internal/bot"
	"github.com/park285/queenduel/internal/duel"
)

func TestExpectedScore(t *testing.T) {
	if got := ExpectedScore(1500, 1500); got != 0.5 {
		t.Fatalf("equal ratings: %v", got)
	}
	a, b := ExpectedScore(1600, 1400), ExpectedScore(1400, 1600)
	if math.Abs(a+b-1) > 1e-12 {
		t.Fatalf("expected scores should sum to 1: %v + %v", a, b)
	}
	if math.Abs(ExpectedScore(400, 0)-10.0/11) > 1e-12 {
		t.Fatalf("400 point gap should give 10/11")
	}
}

func TestAnnealedK(t *testing.T) {
	if annealedK(40, 10, 0, 4) != 40 || annealedK(40, 10, 3, 4) != 10 || annealedK(40, 10, 1, 4) != 30 {
		t.Fatalf("linear annealing broken")
	}
	if annealedK(40, 10, 0, 1) != 40 {
		t.Fatalf("single game should use the start value")
	}
}

func TestNormalize(t *testing.T) {
	r := []float64{-12, 30, 0}
	normalize(r)
	if r[0] != 0 || r[1] != 42 || r[2] != 12 {
		t.Fatalf("normalize = %v", r)
	}
}

func trail() duel.Rules { return duel.Rules{Trail: true} }

func TestBattleRanksStrongerBotHigher(t *testing.T) {
	bots := []bot.Bot{bot.NewRandom(nil), bot.NewBasic(2)}
	var (
		mu    sync.Mutex
		calls int
	)
	ratings, err := Battle(context.Background(), bots, Config{
		Matchups: 60,
		Workers:  4,
		Rules:    trail(),
		Seed:     7,
	}, func(done, total int) {
		mu.Lock()
		calls++
		mu.Unlock()
		if total != 60 || done < 1 || done > total {
			t.Errorf("bad progress %d/%d", done, total)
		}
	})
	if err != nil {
		t.Fatalf("Battle: %v", err)
	}
	if calls != 60 {
		t.Fatalf("progress called %d times", calls)
	}
	if ratings[0] != 0 || ratings[1] <= 0 {
		t.Fatalf("expected basic2 above random with random at 0, got %v", ratings)
	}
}

func TestBattleRatingsConserveTotal(t *testing.T) {
	bots := []bot.Bot{bot.NewRandom(nil), bot.NewRandom(nil), bot.NewBasic(1)}
	ratings, err := Battle(context.Background(), bots, Config{Matchups: 30, Rules: trail(), RandomStart: true, Seed: 3}, nil)
	if err != nil {
		t.Fatalf("Battle: %v", err)
	}
	low := math.Inf(1)
	for _, r := range ratings {
		low = math.Min(low, r)
	}
	if low != 0 {
		t.Fatalf("minimum rating should be 0, got %v", ratings)
	}
}

func TestBattleNeedsTwoBots(t *testing.T) {
	if _, err := Battle(context.Background(), []bot.Bot{bot.NewRandom(nil)}, Config{}, nil); !errors.Is(err, ErrTooFewBots) {
		t.Fatalf("expected ErrTooFewBots, got %v", err)
	}
}

func TestBattleCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	bots := []bot.Bot{bot.NewRandom(nil), bot.NewRandom(nil)}
	if _, err := Battle(ctx, bots, Config{Matchups: 1000, Rules: trail()}, nil); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestParseRoster(t *testing.T) {
	roster, err := ParseRoster(strings.NewReader("random: 0\n\n# strong one\nbasic2: 310.5\n"))
	if err != nil {
		t.Fatalf("ParseRoster: %v", err)
	}
	if len(roster) != 2 || roster[0].Name != "random" || roster[1].Rating != 310.5 || roster[1].Bot.Name() != "basic2" {
		t.Fatalf("unexpected roster %+v", roster)
	}

	for _, bad := range []string{"random 0", "random: abc", "nobody: 10"} {
		if _, err := ParseRoster(strings.NewReader(bad)); err == nil {
			t.Fatalf("ParseRoster(%q) should fail", bad)
		}
	}
	if _, err := ParseRoster(strings.NewReader("mystery: 1")); !errors.Is(err, bot.ErrUnknownBot) {
		t.Fatalf("expected ErrUnknownBot, got %v", err)
	}
}

func TestBenchmark(t *testing.T) {
	roster := []Opponent{
		{Name: "random", Bot: bot.NewRandom(nil), Rating: 0},
		{Name: "basic1", Bot: bot.NewBasic(1), Rating: 200},
	}
	rating, err := Benchmark(context.Background(), bot.NewBasic(2), roster, Config{
		Matchups: 40,
		KStart:   64,
		KEnd:     8,
		Rules:    trail(),
		Seed:     11,
	}, nil)
	if err != nil {
		t.Fatalf("Benchmark: %v", err)
	}
	if math.IsNaN(rating) || rating < 0 {
		t.Fatalf("basic2 should not rate below random: %v", rating)
	}

	if _, err := Benchmark(context.Background(), bot.NewBasic(1), nil, Config{}, nil); !errors.Is(err, ErrTooFewBots) {
		t.Fatalf("expected ErrTooFewBots for empty roster, got %v", err)
	}
}

func TestStaticRulesCountStalematesAsDraws(t *testing.T) {
	players := []bot.Bot{bot.NewRandom(nil), bot.NewRandom(nil)}
	games := []game{{white: 0, black: 1, start: duel.Default()}}
	var got []result
	if err := play(context.Background(), players, games, 1, func(r result) { got = append(got, r) }); err != nil {
		t.Fatalf("play: %v", err)
	}
	if len(got) != 1 || (got[0].score != 0 && got[0].score != 0.5 && got[0].score != 1) {
		t.Fatalf("unexpected results %+v", got)
	}
}
