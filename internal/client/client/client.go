package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dmitrijs2005/eventhub/internal/client/credentials"
	"github.com/dmitrijs2005/eventhub/internal/client/models"
	"github.com/dmitrijs2005/eventhub/internal/logging"
)

// AuthAPI covers the authentication endpoints.
type AuthAPI interface {
	Register(ctx context.Context, u models.NewUser) (*models.User, error)
	Login(ctx context.Context, c models.Credentials) (*models.TokenResponse, error)
	Profile(ctx context.Context) (*models.User, error)
	UpdateProfile(ctx context.Context, u models.ProfileUpdate) (*models.User, error)
	OnAuthFailure(fn func(ctx context.Context))
}

// EventsAPI covers the event endpoints.
type EventsAPI interface {
	Events(ctx context.Context, f models.EventFilter) (*models.Page[models.Event], error)
	Event(ctx context.Context, slug string) (*models.Event, error)
	CreateEvent(ctx context.Context, e models.NewEvent) (*models.Event, error)
	RegisterAttendee(ctx context.Context, slug string, r models.AttendeeRegistration) (*models.Registration, error)
	Sessions(ctx context.Context, slug string) ([]models.EventSession, error)
	CreateSession(ctx context.Context, slug string, s models.EventSession) (*models.EventSession, error)
	AdminMetrics(ctx context.Context) (*models.AdminMetrics, error)
	ExportAttendees(ctx context.Context, slug string) ([]byte, error)
}

type Client interface {
	AuthAPI
	EventsAPI
}

type HTTPClient struct {
	guard *Guard
}

var _ Client = (*HTTPClient)(nil)

func NewHTTPClient(hc *http.Client, resolver *Resolver, store credentials.Store, log logging.Logger) *HTTPClient {
	if log == nil {
		log = logging.Nop()
	}
	d := NewDispatcher(hc, resolver, store, log.With("component", "dispatcher"))
	return &HTTPClient{guard: NewGuard(d, store, log.With("component", "guard"))}
}

func (c *HTTPClient) OnAuthFailure(fn func(ctx context.Context)) {
	c.guard.OnAuthFailure(fn)
}

func (c *HTTPClient) call(ctx context.Context, req *Request, out any) error {
	resp, err := c.guard.Do(ctx, req)
	if err != nil {
		return err
	}
	return resp.Decode(out)
}

func eventPath(slug string, rest string) string {
	return "/events/" + url.PathEscape(slug) + "/" + rest
}

func (c *HTTPClient) Register(ctx context.Context, u models.NewUser) (*models.User, error) {
	var out models.User
	err := c.call(ctx, &Request{Method: http.MethodPost, Path: "/auth/register/", Body: u, Public: true}, &out)
	if err != nil {
		return nil, authError(err, true)
	}
	return &out, nil
}

func (c *HTTPClient) Login(ctx context.Context, cr models.Credentials) (*models.TokenResponse, error) {
	var out models.TokenResponse
	err := c.call(ctx, &Request{Method: http.MethodPost, Path: "/auth/login/", Body: cr, Public: true}, &out)
	if err != nil {
		return nil, authError(err, false)
	}
	if out.Access == "" || out.Refresh == "" {
		return nil, &AuthError{Detail: "login response is missing tokens"}
	}
	return &out, nil
}

func (c *HTTPClient) Profile(ctx context.Context) (*models.User, error) {
	var out models.User
	if err := c.call(ctx, &Request{Method: http.MethodGet, Path: "/auth/profile/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) UpdateProfile(ctx context.Context, u models.ProfileUpdate) (*models.User, error) {
	var out models.User
	err := c.call(ctx, &Request{Method: http.MethodPatch, Path: "/auth/profile/", Body: u}, &out)
	if err != nil {
		return nil, validationError(err)
	}
	return &out, nil
}

func (c *HTTPClient) Events(ctx context.Context, f models.EventFilter) (*models.Page[models.Event], error) {
	var out models.Page[models.Event]
	if err := c.call(ctx, &Request{Method: http.MethodGet, Path: "/events/", Query: f.Values()}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Event(ctx context.Context, slug string) (*models.Event, error) {
	var out models.Event
	if err := c.call(ctx, &Request{Method: http.MethodGet, Path: eventPath(slug, "")}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) CreateEvent(ctx context.Context, e models.NewEvent) (*models.Event, error) {
	var out models.Event
	err := c.call(ctx, &Request{Method: http.MethodPost, Path: "/events/", Body: e}, &out)
	if err != nil {
		return nil, validationError(err)
	}
	return &out, nil
}

func (c *HTTPClient) RegisterAttendee(ctx context.Context, slug string, r models.AttendeeRegistration) (*models.Registration, error) {
	var out models.Registration
	err := c.call(ctx, &Request{Method: http.MethodPost, Path: eventPath(slug, "register/"), Body: r}, &out)
	if err != nil {
		return nil, validationError(err)
	}
	return &out, nil
}

func (c *HTTPClient) Sessions(ctx context.Context, slug string) ([]models.EventSession, error) {
	var out models.Page[models.EventSession]
	if err := c.call(ctx, &Request{Method: http.MethodGet, Path: eventPath(slug, "sessions/")}, &out); err != nil {
		return nil, err
	}
	return out.Results, nil
}

func (c *HTTPClient) CreateSession(ctx context.Context, slug string, s models.EventSession) (*models.EventSession, error) {
	var out models.EventSession
	err := c.call(ctx, &Request{Method: http.MethodPost, Path: eventPath(slug, "sessions/"), Body: s}, &out)
	if err != nil {
		return nil, validationError(err)
	}
	return &out, nil
}

func (c *HTTPClient) AdminMetrics(ctx context.Context) (*models.AdminMetrics, error) {
	var out models.AdminMetrics
	if err := c.call(ctx, &Request{Method: http.MethodGet, Path: "/admin/metrics/"}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ExportAttendees(ctx context.Context, slug string) ([]byte, error) {
	resp, err := c.guard.Do(ctx, &Request{Method: http.MethodGet, Path: eventPath(slug, "export/"), Accept: "text/csv"})
	if err != nil {
		return nil, fmt.Errorf("export %s: %w", slug, err)
	}
	return resp.Body, nil
}
