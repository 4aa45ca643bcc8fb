package cli

import (
	"bufio"
	"bytes"
	"context"
	"strings"

	"github.com/dmitrijs2005/eventhub/internal/client/client"
	"github.com/dmitrijs2005/eventhub/internal/client/credentials"
	"github.com/dmitrijs2005/eventhub/internal/client/export"
	"github.com/dmitrijs2005/eventhub/internal/client/models"
	"github.com/dmitrijs2005/eventhub/internal/client/services"
	"github.com/dmitrijs2005/eventhub/internal/logging"
)

type fakeSession struct {
	user *models.UserProfile

	loginUser, loginPass string
	loginErr             error
	registered           models.NewUser
	registerErr          error
	update               models.ProfileUpdate
	loggedOut            bool
}

func (f *fakeSession) Init(context.Context) error { return nil }

func (f *fakeSession) Login(_ context.Context, username, password string) (*models.UserProfile, error) {
	f.loginUser, f.loginPass = username, password
	if f.loginErr != nil {
		return nil, f.loginErr
	}
	f.user = &models.UserProfile{Username: username, DisplayName: "Alice Liddell", Role: "attendee"}
	return f.user, nil
}

func (f *fakeSession) Register(ctx context.Context, u models.NewUser) (*models.UserProfile, error) {
	f.registered = u
	if f.registerErr != nil {
		return nil, f.registerErr
	}
	return f.Login(ctx, u.Username, u.Password)
}

func (f *fakeSession) LoadProfile(context.Context) (*models.UserProfile, error) {
	if f.user == nil {
		return nil, &client.HTTPError{Status: 401}
	}
	return f.user, nil
}

func (f *fakeSession) UpdateProfile(_ context.Context, u models.ProfileUpdate) (*models.UserProfile, error) {
	f.update = u
	if u.FirstName != nil {
		f.user.FirstName = *u.FirstName
		f.user.DisplayName = models.DisplayName(f.user.FirstName, f.user.LastName, f.user.Username, f.user.Email)
	}
	return f.user, nil
}

func (f *fakeSession) Logout(context.Context) error {
	f.loggedOut = true
	f.user = nil
	return nil
}

func (f *fakeSession) Session() services.Session { return services.Session{User: f.user} }

func (f *fakeSession) OnAuthRequired(func()) {}

type fakeEvents struct {
	page     *models.Page[models.Event]
	event    *models.Event
	reg      *models.Registration
	sessions []models.EventSession
	metrics  *models.AdminMetrics
	exportTo string
	err      error

	filter  models.EventFilter
	slug    string
	attendR models.AttendeeRegistration
}

func (f *fakeEvents) List(_ context.Context, flt models.EventFilter) (*models.Page[models.Event], error) {
	f.filter = flt
	return f.page, f.err
}
func (f *fakeEvents) Get(_ context.Context, slug string) (*models.Event, error) {
	f.slug = slug
	return f.event, f.err
}
func (f *fakeEvents) Create(context.Context, models.NewEvent) (*models.Event, error) {
	return f.event, f.err
}
func (f *fakeEvents) RegisterAttendee(_ context.Context, slug string, r models.AttendeeRegistration) (*models.Registration, error) {
	f.slug, f.attendR = slug, r
	return f.reg, f.err
}
func (f *fakeEvents) Sessions(_ context.Context, slug string) ([]models.EventSession, error) {
	f.slug = slug
	return f.sessions, f.err
}
func (f *fakeEvents) CreateSession(context.Context, string, models.EventSession) (*models.EventSession, error) {
	return nil, f.err
}
func (f *fakeEvents) AdminMetrics(context.Context) (*models.AdminMetrics, error) {
	return f.metrics, f.err
}
func (f *fakeEvents) ExportAttendees(_ context.Context, slug string, _ export.Sink) (string, error) {
	f.slug = slug
	return f.exportTo, f.err
}

// newTestApp builds an App whose prompts read from input.
func newTestApp(sess *fakeSession, ev *fakeEvents, input string) (*App, *bytes.Buffer) {
	out := &bytes.Buffer{}
	store := credentials.NewMemoryStore()
	r := client.NewResolver("http://backend.test/api/v1", "", "", "")
	return &App{
		session:  sess,
		events:   ev,
		store:    store,
		resolver: r,
		sink:     export.NewFileSink("unused"),
		log:      logging.Nop(),
		reader:   bufio.NewReader(strings.NewReader(input)),
		out:      out,
	}, out
}
