package advisory

import (
	"context"
	"errors"
	"math/rand"
	"net"
	"testing"
	"time"

	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttputil"

	"github.com/park285/queenduel/internal/bot"
	"github.com/park285/queenduel/internal/duel"
)

func newTestServer(t *testing.T, opts ...ServerOption) *fasthttputil.InmemoryListener {
	t.Helper()
	srv := NewServer(bot.NewBasic(1), opts...)
	return serveStub(t, srv.Handler())
}

func TestServerAnswersWithLegalMove(t *testing.T) {
	ln := newTestServer(t, WithServerToken("tok"))
	c := newTestClient(ln, WithToken("tok"))

	r := rand.New(rand.NewSource(8))
	for i := 0; i < 10; i++ {
		b := duel.Random(r)
		sq, err := c.Suggest(context.Background(), b)
		if err != nil {
			t.Fatalf("Suggest: %v", err)
		}
		mask, _ := b.LegalMask(b.SideToMove())
		if !mask.Has(sq) {
			t.Fatalf("server suggested illegal %s on\n%s", sq, b)
		}
	}
}

func TestServerTakesWinningMove(t *testing.T) {
	ln := newTestServer(t)
	b, err := duel.ParseLayout(`
		......#B
		.......#
		........
		........
		........
		........
		........
		W.......
	`, true)
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	if _, err := newTestClient(ln).Play(context.Background(), b); err != nil {
		t.Fatalf("Play: %v", err)
	}
	if b.Status() != duel.WhiteWins {
		t.Fatalf("expected white to win, got %s", b.Status())
	}
}

func TestServerRejectsTokens(t *testing.T) {
	ln := newTestServer(t, WithServerToken("tok"))
	cases := map[string][]Option{
		"missing": nil,
		"wrong":   {WithToken("other")},
	}
	for name, opts := range cases {
		_, err := newTestClient(ln, opts...).Suggest(context.Background(), duel.Default())
		var ue *UnavailableError
		if !errors.As(err, &ue) || ue.Status != fasthttp.StatusUnauthorized {
			t.Fatalf("%s token: expected 401, got %v", name, err)
		}
	}
}

func TestServerWithoutTokenAcceptsAnyone(t *testing.T) {
	ln := newTestServer(t)
	if _, err := newTestClient(ln, WithToken("whatever")).Suggest(context.Background(), duel.Default()); err != nil {
		t.Fatalf("Suggest: %v", err)
	}
}

func TestServerRejectsBadStates(t *testing.T) {
	ln := newTestServer(t)
	c := newTestClient(ln)
	cases := map[int]Request{
		fasthttp.StatusBadRequest:          {StateRepr: StateRepr{WQueen: 3, BQueen: 3, Blocks: "0"}},
		fasthttp.StatusUnprocessableEntity: Encode(mustFinished(t)),
	}
	for status, req := range cases {
		var resp Response
		err := c.doJSON(context.Background(), fasthttp.MethodPost, botPath, req, &resp)
		var ue *UnavailableError
		if !errors.As(err, &ue) || ue.Status != status {
			t.Fatalf("expected %d, got %v", status, err)
		}
	}

	err := c.doJSON(context.Background(), fasthttp.MethodPost, botPath, "not a request", nil)
	var ue *UnavailableError
	if !errors.As(err, &ue) || ue.Status != fasthttp.StatusBadRequest {
		t.Fatalf("expected 400 for malformed body, got %v", err)
	}
}

func TestServerRoutes(t *testing.T) {
	ln := newTestServer(t)
	c := newTestClient(ln)
	if err := c.doJSON(context.Background(), fasthttp.MethodGet, "/healthz", nil, nil); err != nil {
		t.Fatalf("healthz: %v", err)
	}
	err := c.doJSON(context.Background(), fasthttp.MethodGet, botPath, nil, nil)
	var ue *UnavailableError
	if !errors.As(err, &ue) || ue.Status != fasthttp.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %v", err)
	}
	err = c.doJSON(context.Background(), fasthttp.MethodGet, "/missing", nil, nil)
	if !errors.As(err, &ue) || ue.Status != fasthttp.StatusNotFound {
		t.Fatalf("expected 404, got %v", err)
	}
}

func TestServeStopsOnCancel(t *testing.T) {
	ln := fasthttputil.NewInmemoryListener()
	srv := NewServer(bot.NewRandom(nil))
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	c := NewClient("http://advisory", WithDial(func(string) (net.Conn, error) { return ln.Dial() }))
	if _, err := c.Suggest(context.Background(), duel.Default()); err != nil {
		t.Fatalf("Suggest: %v", err)
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Serve: %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatalf("Serve did not stop")
	}
}

func TestNewToken(t *testing.T) {
	a, b := NewToken(), NewToken()
	if len(a) != 32 || a == b {
		t.Fatalf("unexpected tokens %q %q", a, b)
	}
}

func mustFinished(t *testing.T) *duel.Board {
	t.Helper()
	b, err := duel.ParseLayout(`
		.......B
		........
		........
		........
		........
		........
		##......
		W#......
	`, true)
	if err != nil {
		t.Fatalf("ParseLayout: %v", err)
	}
	return b
}
