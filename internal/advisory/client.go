package advisory

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/park285/queenduel/internal/duel"
)

const (
	botPath        = "/bot"
	defaultTimeout = 10 * time.Second
)

// TokenProvider supplies the bearer token for each request.
type TokenProvider func() string

type Client struct {
	baseURL string
	http    *fasthttp.Client
	token   TokenProvider
	logger  *zap.Logger

	defaultTimeout time.Duration
}

type Option func(*Client)

func WithTimeout(d time.Duration) Option {
	return func(c *Client) {
		if d > 0 {
			c.defaultTimeout = d
		}
	}
}

func WithToken(token string) Option {
	return func(c *Client) { c.token = func() string { return token } }
}

func WithTokenProvider(p TokenProvider) Option {
	return func(c *Client) { c.token = p }
}

// WithDial replaces the TCP dialer, e.g. with an in-memory listener.
func WithDial(dial func(addr string) (net.Conn, error)) Option {
	return func(c *Client) { c.http.Dial = dial }
}

func WithLogger(l *zap.Logger) Option {
	return func(c *Client) {
		if l != nil {
			c.logger = l
		}
	}
}

func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL:        strings.TrimRight(baseURL, "/"),
		http:           &fasthttp.Client{ReadTimeout: defaultTimeout, WriteTimeout: defaultTimeout, MaxConnsPerHost: 64},
		logger:         zap.NewNop(),
		defaultTimeout: defaultTimeout,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Suggest asks the service for the side to move's destination. Exactly one
// request is made; the answer is decoded but not checked for legality.
func (c *Client) Suggest(ctx context.Context, b *duel.Board) (duel.Square, error) {
	if b.Status().Terminal() {
		return duel.Square{}, duel.ErrGameOver
	}
	if err := ctx.Err(); err != nil {
		return duel.Square{}, &UnavailableError{Err: err}
	}

	var resp Response
	if err := c.doJSON(ctx, fasthttp.MethodPost, botPath, Encode(b), &resp); err != nil {
		return duel.Square{}, err
	}
	if resp.Code != 0 && (resp.Code < 200 || resp.Code >= 300) {
		return duel.Square{}, &UnavailableError{Status: resp.Code, Err: errors.New("service reported failure")}
	}
	sq, err := DecodeMove(resp)
	if err != nil {
		return duel.Square{}, &UnavailableError{Err: fmt.Errorf("decode move: %w", err)}
	}
	c.logger.Debug("advisory_suggested",
		zap.String("side", b.SideToMove().String()),
		zap.String("square", sq.String()))
	return sq, nil
}

// Play suggests a move and applies it. An illegal suggestion leaves the board
// unchanged and returns the *duel.IllegalMoveError alongside the square.
func (c *Client) Play(ctx context.Context, b *duel.Board) (duel.Square, error) {
	sq, err := c.Suggest(ctx, b)
	if err != nil {
		return duel.Square{}, err
	}
	if err := b.ApplyMove(sq); err != nil {
		c.logger.Warn("advisory_illegal_suggestion", zap.String("square", sq.Key()), zap.Error(err))
		return sq, err
	}
	return sq, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, in any, out any) error {
	url := c.baseURL + path
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer func() {
		fasthttp.ReleaseRequest(req)
		fasthttp.ReleaseResponse(resp)
	}()

	req.Header.SetMethod(method)
	req.SetRequestURI(url)
	req.Header.SetContentType("application/json")
	if c.token != nil {
		if token := strings.TrimSpace(c.token()); token != "" {
			req.Header.Set(fasthttp.HeaderAuthorization, "Bearer "+token)
		}
	}

	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		req.SetBody(payload)
	}

	start := time.Now()
	if err := c.http.DoDeadline(req, resp, c.computeDeadline(ctx)); err != nil {
		c.logger.Warn("advisory_request_failed", zap.String("url", url), zap.Duration("elapsed", time.Since(start)), zap.Error(err))
		return &UnavailableError{Err: fmt.Errorf("request failed: %w", err)}
	}

	status := resp.StatusCode()
	if status < 200 || status >= 300 {
		body := truncate(string(resp.Body()), 512)
		c.logger.Warn("advisory_bad_status", zap.String("url", url), zap.Int("status", status), zap.String("body", body))
		return &UnavailableError{Status: status, Body: body}
	}

	if out != nil {
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return &UnavailableError{Status: status, Err: fmt.Errorf("decode response: %w", err)}
		}
	}
	return nil
}

func (c *Client) computeDeadline(ctx context.Context) time.Time {
	clientDL := time.Now().Add(c.defaultTimeout)
	if dl, ok := ctx.Deadline(); ok && dl.Before(clientDL) {
		return dl
	}
	return clientDL
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
