package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/dmitrijs2005/eventhub/internal/client/client"
	"github.com/dmitrijs2005/eventhub/internal/client/credentials"
	"github.com/dmitrijs2005/eventhub/internal/client/models"
	"github.com/dmitrijs2005/eventhub/internal/logging"
)

const DefaultRole = "attendee"

var ErrMissingCredentials = errors.New("username and password are required")

// Session is a snapshot of the login state. User is nil when logged out.
type Session struct {
	User    *models.UserProfile
	Loading bool
}

func (s Session) Authenticated() bool { return s.User != nil }

// SessionController owns the login state of the process.
//
// After every operation either both tokens and the user are present, or
// all of them are absent.
type SessionController interface {
	// Init restores the session from stored tokens. Loading is true until
	// the first Init returns.
	Init(ctx context.Context) error
	Login(ctx context.Context, username, password string) (*models.UserProfile, error)
	// Register creates the account and logs it in. Per-field backend
	// failures come back as *client.ValidationError without a login attempt.
	Register(ctx context.Context, u models.NewUser) (*models.UserProfile, error)
	LoadProfile(ctx context.Context) (*models.UserProfile, error)
	UpdateProfile(ctx context.Context, u models.ProfileUpdate) (*models.UserProfile, error)
	// Logout clears local state only. It never fails on an empty session.
	Logout(ctx context.Context) error
	Session() Session
	// OnAuthRequired registers fn to run when the session ended because the
	// access token could not be refreshed.
	OnAuthRequired(fn func())
}

type sessionController struct {
	api   client.AuthAPI
	store credentials.Store
	log   logging.Logger

	initOnce sync.Once

	mu       sync.RWMutex
	user     *models.UserProfile
	loading  bool
	handlers []func()
}

func NewSessionController(api client.AuthAPI, store credentials.Store, log logging.Logger) SessionController {
	if log == nil {
		log = logging.Nop()
	}
	s := &sessionController{api: api, store: store, log: log, loading: true}
	api.OnAuthFailure(s.authFailed)
	return s
}

func (s *sessionController) authFailed(ctx context.Context) {
	s.mu.Lock()
	s.user = nil
	handlers := append([]func(){}, s.handlers...)
	s.mu.Unlock()

	s.log.Info(ctx, "authentication required")
	for _, fn := range handlers {
		fn()
	}
}

func (s *sessionController) OnAuthRequired(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.handlers = append(s.handlers, fn)
}

func (s *sessionController) Session() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := Session{Loading: s.loading}
	if s.user != nil {
		u := *s.user
		out.User = &u
	}
	return out
}

func (s *sessionController) setUser(u *models.UserProfile) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.user = u
}

func (s *sessionController) Init(ctx context.Context) error {
	var err error
	s.initOnce.Do(func() {
		defer func() {
			s.mu.Lock()
			s.loading = false
			s.mu.Unlock()
		}()

		if _, ok := s.store.Get(ctx, credentials.Access); !ok {
			return
		}
		if _, err = s.LoadProfile(ctx); err != nil {
			s.log.Info(ctx, "stored session could not be restored", "error", err)
		}
	})
	return err
}

func (s *sessionController) LoadProfile(ctx context.Context) (*models.UserProfile, error) {
	u, err := s.api.Profile(ctx)
	if err != nil {
		s.reset(ctx)
		return nil, fmt.Errorf("load profile: %w", err)
	}

	p := u.Profile()
	s.setUser(&p)
	return &p, nil
}

func (s *sessionController) Login(ctx context.Context, username, password string) (*models.UserProfile, error) {
	username = strings.TrimSpace(username)
	if username == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	tokens, err := s.api.Login(ctx, models.Credentials{Username: username, Password: password})
	if err != nil {
		return nil, fmt.Errorf("login: %w", err)
	}

	if err := s.store.SetPair(ctx, credentials.Pair{Access: tokens.Access, Refresh: tokens.Refresh}); err != nil {
		s.reset(ctx)
		return nil, fmt.Errorf("saving tokens: %w", err)
	}

	p, err := s.LoadProfile(ctx)
	if err != nil {
		return nil, err
	}
	s.log.Info(ctx, "logged in", "user_id", p.ID, "role", p.Role)
	return p, nil
}

func (s *sessionController) Register(ctx context.Context, u models.NewUser) (*models.UserProfile, error) {
	if strings.TrimSpace(u.Username) == "" || u.Password == "" {
		return nil, ErrMissingCredentials
	}
	if u.Role == "" {
		u.Role = DefaultRole
	}
	if u.PasswordConfirm == "" {
		u.PasswordConfirm = u.Password
	}

	if _, err := s.api.Register(ctx, u); err != nil {
		return nil, fmt.Errorf("register: %w", err)
	}
	return s.Login(ctx, u.Username, u.Password)
}

func (s *sessionController) UpdateProfile(ctx context.Context, upd models.ProfileUpdate) (*models.UserProfile, error) {
	if upd.Empty() {
		return s.Session().User, nil
	}

	u, err := s.api.UpdateProfile(ctx, upd)
	if err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}

	p := u.Profile()
	s.setUser(&p)
	return &p, nil
}

func (s *sessionController) Logout(ctx context.Context) error {
	s.setUser(nil)
	if err := s.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	s.log.Info(ctx, "logged out")
	return nil
}

// reset drops tokens and user after a failed operation.
func (s *sessionController) reset(ctx context.Context) {
	s.setUser(nil)
	if err := s.store.Clear(ctx); err != nil {
		s.log.Warn(ctx, "clearing credentials failed", "error", err)
	}
}
