package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	appcfg "github.com/park285/queenduel/internal/config"
	"github.com/park285/queenduel/internal/msgcat"
	"github.com/park285/queenduel/internal/obslog"
)

const usage = `usage: queenduel <command> [flags]

commands:
  serve    run the move-advisory service
  play     play against the advisory service (or a local bot with -bot)
  battle   rate bots against each other, e.g. battle random basic2 adapt4
  bench    rate one bot against a roster of "name: rating" lines on stdin`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	cfg, err := appcfg.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	if err := obslog.InitFromEnv(); err != nil {
		log.Fatalf("logger init error: %v", err)
	}
	defer func() { _ = obslog.L().Sync() }()

	cat, err := msgcat.New(cfg.MessagesDir)
	if err != nil {
		log.Fatalf("messages init error: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cmd, args := os.Args[1], os.Args[2:]
	switch cmd {
	case "serve":
		err = runServe(ctx, cfg, cat, args)
	case "play":
		err = runPlay(ctx, cfg, cat, args)
	case "battle":
		err = runBattle(ctx, cfg, cat, args)
	case "bench":
		err = runBench(ctx, cfg, cat, args)
	case "help", "-h", "--help":
		fmt.Println(usage)
		return
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", cmd, usage)
		os.Exit(2)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		obslog.L().Error("command_failed", zap.String("command", cmd), zap.Error(err))
		stop()
		log.Fatalf("%s: %v", cmd, err)
	}
}
