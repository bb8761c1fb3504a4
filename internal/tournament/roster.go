package tournament

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/park285/queenduel/internal/bot"
)

// ParseRoster reads "name: rating" lines. Blank lines and lines starting
// with '#' are skipped; anything else malformed is an error.
func ParseRoster(r io.Reader) ([]Opponent, error) {
	var out []Opponent
	sc := bufio.NewScanner(r)
	line := 0
	for sc.Scan() {
		line++
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		name, raw, ok := strings.Cut(text, ":")
		if !ok {
			return nil, fmt.Errorf("roster line %d: want \"name: rating\", got %q", line, text)
		}
		rating, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err != nil {
			return nil, fmt.Errorf("roster line %d: rating: %w", line, err)
		}
		name = strings.TrimSpace(name)
		b, err := bot.Parse(name)
		if err != nil {
			return nil, fmt.Errorf("roster line %d: %w", line, err)
		}
		out = append(out, Opponent{Name: name, Bot: b, Rating: rating})
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
