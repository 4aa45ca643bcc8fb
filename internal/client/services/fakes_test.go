package services

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/eventhub/internal/client/models"
)

// fakeAuthAPI presets results and records inputs.
type fakeAuthAPI struct {
	mu sync.Mutex

	LoginRet    *models.TokenResponse
	LoginErr    error
	RegisterErr error
	ProfileRet  *models.User
	ProfileErr  error
	UpdateRet   *models.User
	UpdateErr   error

	LastCredentials models.Credentials
	LastNewUser     models.NewUser
	LastUpdate      models.ProfileUpdate

	LoginCalls    int
	RegisterCalls int
	ProfileCalls  int

	failureHandlers []func(context.Context)
}

func (f *fakeAuthAPI) Register(_ context.Context, u models.NewUser) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.RegisterCalls++
	f.LastNewUser = u
	if f.RegisterErr != nil {
		return nil, f.RegisterErr
	}
	return &models.User{Username: u.Username, Email: u.Email, Role: u.Role}, nil
}

func (f *fakeAuthAPI) Login(_ context.Context, c models.Credentials) (*models.TokenResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LoginCalls++
	f.LastCredentials = c
	return f.LoginRet, f.LoginErr
}

func (f *fakeAuthAPI) Profile(context.Context) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ProfileCalls++
	return f.ProfileRet, f.ProfileErr
}

func (f *fakeAuthAPI) UpdateProfile(_ context.Context, u models.ProfileUpdate) (*models.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.LastUpdate = u
	return f.UpdateRet, f.UpdateErr
}

func (f *fakeAuthAPI) OnAuthFailure(fn func(context.Context)) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.failureHandlers = append(f.failureHandlers, fn)
}

func (f *fakeAuthAPI) fireAuthFailure() {
	f.mu.Lock()
	hs := append([]func(context.Context){}, f.failureHandlers...)
	f.mu.Unlock()
	for _, fn := range hs {
		fn(context.Background())
	}
}

type fakeEventsAPI struct {
	EventsRet   *models.Page[models.Event]
	EventRet    *models.Event
	CreateRet   *models.Event
	RegRet      *models.Registration
	SessionsRet []models.EventSession
	SessionRet  *models.EventSession
	MetricsRet  *models.AdminMetrics
	ExportRet   []byte
	Err         error

	LastFilter models.EventFilter
	LastSlug   string
	LastReg    models.AttendeeRegistration
	Calls      int
}

func (f *fakeEventsAPI) Events(_ context.Context, flt models.EventFilter) (*models.Page[models.Event], error) {
	f.Calls++
	f.LastFilter = flt
	return f.EventsRet, f.Err
}

func (f *fakeEventsAPI) Event(_ context.Context, slug string) (*models.Event, error) {
	f.Calls++
	f.LastSlug = slug
	return f.EventRet, f.Err
}

func (f *fakeEventsAPI) CreateEvent(_ context.Context, _ models.NewEvent) (*models.Event, error) {
	f.Calls++
	return f.CreateRet, f.Err
}

func (f *fakeEventsAPI) RegisterAttendee(_ context.Context, slug string, r models.AttendeeRegistration) (*models.Registration, error) {
	f.Calls++
	f.LastSlug = slug
	f.LastReg = r
	return f.RegRet, f.Err
}

func (f *fakeEventsAPI) Sessions(_ context.Context, slug string) ([]models.EventSession, error) {
	f.Calls++
	f.LastSlug = slug
	return f.SessionsRet, f.Err
}

func (f *fakeEventsAPI) CreateSession(_ context.Context, slug string, _ models.EventSession) (*models.EventSession, error) {
	f.Calls++
	f.LastSlug = slug
	return f.SessionRet, f.Err
}

func (f *fakeEventsAPI) AdminMetrics(context.Context) (*models.AdminMetrics, error) {
	f.Calls++
	return f.MetricsRet, f.Err
}

func (f *fakeEventsAPI) ExportAttendees(_ context.Context, slug string) ([]byte, error) {
	f.Calls++
	f.LastSlug = slug
	return f.ExportRet, f.Err
}

type fakeSink struct {
	name string
	data []byte
	err  error
}

func (s *fakeSink) Put(_ context.Context, name string, data []byte) (string, error) {
	s.name, s.data = name, data
	if s.err != nil {
		return "", s.err
	}
	return "mem://" + name, nil
}
