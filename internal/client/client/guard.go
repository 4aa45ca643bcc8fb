package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sync"

	"github.com/dmitrijs2005/eventhub/internal/client/credentials"
	"github.com/dmitrijs2005/eventhub/internal/client/models"
	"github.com/dmitrijs2005/eventhub/internal/logging"
	"golang.org/x/sync/singleflight"
)

const RefreshPath = "/auth/refresh/"

type sender interface {
	Send(ctx context.Context, a *attempt) (*Response, error)
}

// Guard replays a request that failed with 401 once, after refreshing the
// access token. A failed refresh clears the store and notifies the
// auth-failure handlers exactly once per refresh flight.
type Guard struct {
	next  sender
	store credentials.Store
	log   logging.Logger

	flights singleflight.Group

	mu       sync.RWMutex
	handlers []func(ctx context.Context)
}

func NewGuard(next sender, store credentials.Store, log logging.Logger) *Guard {
	if log == nil {
		log = logging.Nop()
	}
	return &Guard{next: next, store: store, log: log}
}

// OnAuthFailure registers fn to run after a refresh failed and the
// credentials were purged.
func (g *Guard) OnAuthFailure(fn func(ctx context.Context)) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.handlers = append(g.handlers, fn)
}

func (g *Guard) Do(ctx context.Context, req *Request) (*Response, error) {
	a := &attempt{req: req}

	resp, err := g.next.Send(ctx, a)
	if !needsRefresh(a, err) {
		return resp, err
	}

	access, rerr := g.refresh(ctx, a.sent)
	if rerr != nil {
		g.log.Info(ctx, "token refresh did not succeed", "path", req.Path, "error", rerr)
		return resp, err
	}

	a.token, a.retried = access, true
	return g.next.Send(ctx, a)
}

func needsRefresh(a *attempt, err error) bool {
	if err == nil || a.req.Public || a.retried {
		return false
	}
	var herr *HTTPError
	return errors.As(err, &herr) && herr.Status == http.StatusUnauthorized && herr.Err == nil
}

// refresh joins the flight for the currently stored refresh token. rejected
// is the access token the backend refused.
func (g *Guard) refresh(ctx context.Context, rejected string) (string, error) {
	refresh, ok := g.store.Get(ctx, credentials.Refresh)
	if !ok {
		// The session this request was sent with has already been ended,
		// by a failed refresh or a logout.
		if current, _ := g.store.Get(ctx, credentials.Access); rejected != "" && current != rejected {
			return "", ErrSessionClosed
		}
		g.flights.Do("", func() (any, error) {
			g.fail(context.WithoutCancel(ctx), ErrNoRefreshToken)
			return nil, nil
		})
		return "", ErrNoRefreshToken
	}

	v, err, shared := g.flights.Do(refresh, func() (any, error) {
		ctx := context.WithoutCancel(ctx)
		// A flight that finished just before this one already stored a new token.
		if current, ok := g.store.Get(ctx, credentials.Access); ok && rejected != "" && current != rejected {
			return current, nil
		}
		return g.exchange(ctx, refresh)
	})
	if shared {
		g.log.Debug(ctx, "joined in-flight token refresh")
	}
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

func (g *Guard) exchange(ctx context.Context, refresh string) (string, error) {
	resp, err := g.next.Send(ctx, &attempt{req: &Request{
		Method: http.MethodPost,
		Path:   RefreshPath,
		Body:   map[string]string{"refresh": refresh},
		Public: true,
	}})
	if err != nil {
		g.fail(ctx, err)
		return "", fmt.Errorf("refresh: %w", err)
	}

	var tokens models.TokenResponse
	if err := resp.Decode(&tokens); err != nil {
		g.fail(ctx, err)
		return "", fmt.Errorf("refresh: %w", err)
	}
	if tokens.Access == "" {
		err := &HTTPError{Method: http.MethodPost, Path: RefreshPath, Status: resp.Status, Body: resp.Body,
			Err: errors.New("response has no access token")}
		g.fail(ctx, err)
		return "", fmt.Errorf("refresh: %w", err)
	}

	if current, ok := g.store.Get(ctx, credentials.Refresh); !ok || current != refresh {
		return "", ErrSessionClosed
	}

	if tokens.Refresh != "" {
		err = g.store.SetPair(ctx, credentials.Pair{Access: tokens.Access, Refresh: tokens.Refresh})
	} else {
		err = g.store.Set(ctx, credentials.Access, tokens.Access)
	}
	if err != nil {
		g.log.Warn(ctx, "storing refreshed token failed", "error", err)
	}

	g.log.Debug(ctx, "access token refreshed", "rotated", tokens.Refresh != "")
	return tokens.Access, nil
}

func (g *Guard) fail(ctx context.Context, cause error) {
	if err := g.store.Clear(ctx); err != nil {
		g.log.Warn(ctx, "clearing credentials failed", "error", err)
	}
	g.log.Info(ctx, "session ended, authentication required", "cause", cause)

	g.mu.RLock()
	handlers := append([]func(context.Context){}, g.handlers...)
	g.mu.RUnlock()

	for _, fn := range handlers {
		fn(ctx)
	}
}
