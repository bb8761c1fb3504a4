package tournament

import (
	"context"
	"errors"
	"sync"

	"github.com/park285/queenduel/internal/bot"
	"github.com/park285/queenduel/internal/duel"
)

type game struct {
	white, black int
	start        *duel.Board
}

// result holds white's score: 1 win, 0 loss, 0.5 when the ply limit hit.
type result struct {
	game  game
	score float64
}

// play runs games on a fixed pool of workers. apply is only ever called from
// the calling goroutine.
func play(ctx context.Context, players []bot.Bot, games []game, workers int, apply func(result)) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	jobs := make(chan game)
	results := make(chan result)
	errCh := make(chan error, workers)

	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for g := range jobs {
				status, err := bot.Fight(players[g.white], players[g.black], g.start)
				score := 0.5
				switch {
				case errors.Is(err, bot.ErrNoResult):
				case err != nil:
					errCh <- err
					cancel()
					return
				case status == duel.WhiteWins:
					score = 1
				default:
					score = 0
				}
				select {
				case results <- result{game: g, score: score}:
				case <-ctx.Done():
					return
				}
			}
		}()
	}

	go func() {
		defer close(jobs)
		for _, g := range games {
			select {
			case jobs <- g:
			case <-ctx.Done():
				return
			}
		}
	}()
	go func() {
		wg.Wait()
		close(results)
	}()

	received := 0
	for res := range results {
		apply(res)
		received++
	}

	select {
	case err := <-errCh:
		return err
	default:
	}
	if received < len(games) {
		return ctx.Err()
	}
	return nil
}
