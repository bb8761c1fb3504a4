package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/park285/queenduel/internal/advisory"
	"github.com/park285/queenduel/internal/duel"
)

// Sends the default opening to ADVISORY_URL once and prints the answer.
func main() {
	baseURL := os.Getenv("ADVISORY_URL")
	token := os.Getenv("ADVISORY_TOKEN")

	if baseURL == "" {
		log.Fatal("ADVISORY_URL is required")
	}

	client := advisory.NewClient(baseURL,
		advisory.WithToken(token),
		advisory.WithTimeout(8*time.Second),
	)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	b := duel.Default()
	start := time.Now()
	sq, err := client.Suggest(ctx, b)
	if err != nil {
		log.Fatalf("/bot error: %v", err)
	}
	legal, _ := b.LegalMask(b.SideToMove())
	fmt.Printf("/bot ok: move=%s index=%d legal=%t took=%s\n", sq, sq.Index(), legal.Has(sq), time.Since(start).Round(time.Millisecond))
}
