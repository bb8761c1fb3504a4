package advisory

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/queenduel/internal/bot"
	"github.com/park285/queenduel/internal/duel"
)

// Server answers POST /bot with the configured bot's move.
type Server struct {
	bot      bot.Bot
	token    string
	useToken bool
	rules    duel.Rules
	logger   *zap.Logger
}

type ServerOption func(*Server)

// WithServerToken requires "Authorization: Bearer <token>" on /bot.
func WithServerToken(token string) ServerOption {
	return func(s *Server) {
		s.token = token
		s.useToken = token != ""
	}
}

// WithServerRules sets the rule variant the bot searches under. The wire
// format does not carry it.
func WithServerRules(r duel.Rules) ServerOption {
	return func(s *Server) { s.rules = r }
}

func WithServerLogger(l *zap.Logger) ServerOption {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

func NewServer(b bot.Bot, opts ...ServerOption) *Server {
	s := &Server{bot: b, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewToken returns 16 random bytes as lowercase hex.
func NewToken() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func (s *Server) Handler() fasthttp.RequestHandler {
	return func(ctx *fasthttp.RequestCtx) {
		switch string(ctx.Path()) {
		case botPath:
			if !ctx.IsPost() {
				ctx.Error("method not allowed", fasthttp.StatusMethodNotAllowed)
				return
			}
			s.handleBot(ctx)
		case "/healthz":
			ctx.SetStatusCode(fasthttp.StatusOK)
			ctx.SetBodyString("ok")
		default:
			ctx.Error("not found", fasthttp.StatusNotFound)
		}
	}
}

func (s *Server) authorized(ctx *fasthttp.RequestCtx) (bool, string) {
	if !s.useToken {
		return true, ""
	}
	auth := string(ctx.Request.Header.Peek(fasthttp.HeaderAuthorization))
	token, ok := strings.CutPrefix(auth, "Bearer ")
	if !ok {
		return false, "Missing token"
	}
	if subtle.ConstantTimeCompare([]byte(token), []byte(s.token)) != 1 {
		return false, "Invalid token"
	}
	return true, ""
}

func (s *Server) handleBot(ctx *fasthttp.RequestCtx) {
	if ok, reason := s.authorized(ctx); !ok {
		s.logger.Warn("advisory_unauthorized", zap.String("remote", ctx.RemoteAddr().String()), zap.String("reason", reason))
		ctx.Error(reason, fasthttp.StatusUnauthorized)
		return
	}

	var req Request
	if err := json.Unmarshal(ctx.PostBody(), &req); err != nil {
		ctx.Error("malformed request: "+err.Error(), fasthttp.StatusBadRequest)
		return
	}
	board, err := req.StateRepr.Board(duel.WithRules(s.rules))
	if err != nil {
		ctx.Error(err.Error(), fasthttp.StatusBadRequest)
		return
	}
	if status := board.Status(); status.Terminal() {
		ctx.Error("game is over: "+status.String(), fasthttp.StatusUnprocessableEntity)
		return
	}

	start := time.Now()
	sq, err := s.bot.Decide(board)
	if err != nil {
		s.logger.Error("advisory_decide_failed", zap.String("bot", s.bot.Name()), zap.Error(err))
		ctx.Error("bot failed", fasthttp.StatusInternalServerError)
		return
	}
	move := sq.Index()
	s.logger.Info("advisory_decided",
		zap.String("bot", s.bot.Name()),
		zap.String("side", board.SideToMove().String()),
		zap.String("square", sq.String()),
		zap.Duration("elapsed", time.Since(start)))

	payload, err := json.Marshal(Response{MoveMade: &move, Code: fasthttp.StatusOK})
	if err != nil {
		ctx.Error("encode response", fasthttp.StatusInternalServerError)
		return
	}
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(fasthttp.StatusOK)
	ctx.SetBody(payload)
}

// Serve runs the handler on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &fasthttp.Server{
		Handler:      s.Handler(),
		Name:         "queenduel",
		ReadTimeout:  defaultTimeout,
		WriteTimeout: defaultTimeout,
	}
	errCh := make(chan error, 1)
	go func() { errCh <- srv.Serve(ln) }()

	select {
	case <-ctx.Done():
		if err := srv.Shutdown(); err != nil {
			return err
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, net.ErrClosed) {
			return nil
		}
		return err
	}
}

func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.logger.Info("advisory_listening", zap.String("addr", ln.Addr().String()), zap.String("bot", s.bot.Name()), zap.Bool("token_required", s.useToken))
	return s.Serve(ctx, ln)
}
