package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/park285/queenduel/internal/advisory"
	"github.com/park285/queenduel/internal/bot"
	appcfg "github.com/park285/queenduel/internal/config"
	"github.com/park285/queenduel/internal/duel"
	"github.com/park285/queenduel/internal/msgcat"
	"github.com/park285/queenduel/internal/obslog"
)

func runServe(ctx context.Context, cfg *appcfg.AppConfig, cat *msgcat.Catalog, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ExitOnError)
	addr := fs.String("addr", cfg.ListenAddr, "listen address")
	botName := fs.String("bot", cfg.AdvisoryBot, "bot answering requests (random, basicN, adaptN, weakN)")
	useToken := fs.Bool("token", cfg.UseToken, "require a bearer token")
	trail := fs.Bool("trail", cfg.RuleTrail, "vacated squares become blocks")
	if err := fs.Parse(args); err != nil {
		return err
	}

	b, err := bot.Parse(*botName)
	if err != nil {
		return err
	}

	opts := []advisory.ServerOption{
		advisory.WithServerLogger(obslog.L()),
		advisory.WithServerRules(duel.Rules{Trail: *trail}),
	}
	token := ""
	if *useToken {
		token = cfg.AdvisoryToken
		if token == "" {
			token = advisory.NewToken()
		}
		opts = append(opts, advisory.WithServerToken(token))
	}

	fmt.Println(cat.Text("serve.access", map[string]any{"Bot": b.Name(), "Addr": *addr, "Token": token}))
	return advisory.NewServer(b, opts...).ListenAndServe(ctx, *addr)
}
