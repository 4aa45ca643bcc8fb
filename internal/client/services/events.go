package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/dmitrijs2005/eventhub/internal/client/client"
	"github.com/dmitrijs2005/eventhub/internal/client/export"
	"github.com/dmitrijs2005/eventhub/internal/client/models"
)

var (
	ErrEmptySlug   = errors.New("event slug is required")
	ErrEmptyExport = errors.New("export is empty")
)

type EventService interface {
	List(ctx context.Context, f models.EventFilter) (*models.Page[models.Event], error)
	Get(ctx context.Context, slug string) (*models.Event, error)
	Create(ctx context.Context, e models.NewEvent) (*models.Event, error)
	RegisterAttendee(ctx context.Context, slug string, r models.AttendeeRegistration) (*models.Registration, error)
	Sessions(ctx context.Context, slug string) ([]models.EventSession, error)
	CreateSession(ctx context.Context, slug string, s models.EventSession) (*models.EventSession, error)
	AdminMetrics(ctx context.Context) (*models.AdminMetrics, error)
	// ExportAttendees downloads the attendee CSV of an event and stores it in
	// sink. It returns the sink location.
	ExportAttendees(ctx context.Context, slug string, sink export.Sink) (string, error)
}

type eventService struct {
	api client.EventsAPI
	now func() time.Time
}

func NewEventService(api client.EventsAPI) EventService {
	return &eventService{api: api, now: time.Now}
}

func cleanSlug(slug string) (string, error) {
	slug = strings.TrimSpace(slug)
	if slug == "" {
		return "", ErrEmptySlug
	}
	return slug, nil
}

func (s *eventService) List(ctx context.Context, f models.EventFilter) (*models.Page[models.Event], error) {
	page, err := s.api.Events(ctx, f)
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}
	return page, nil
}

func (s *eventService) Get(ctx context.Context, slug string) (*models.Event, error) {
	slug, err := cleanSlug(slug)
	if err != nil {
		return nil, err
	}
	e, err := s.api.Event(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("get event %s: %w", slug, err)
	}
	return e, nil
}

func (s *eventService) Create(ctx context.Context, e models.NewEvent) (*models.Event, error) {
	if strings.TrimSpace(e.Title) == "" {
		return nil, errors.New("event title is required")
	}
	if !e.EndDate.IsZero() && e.EndDate.Before(e.StartDate) {
		return nil, errors.New("event cannot end before it starts")
	}
	out, err := s.api.CreateEvent(ctx, e)
	if err != nil {
		return nil, fmt.Errorf("create event: %w", err)
	}
	return out, nil
}

func (s *eventService) RegisterAttendee(ctx context.Context, slug string, r models.AttendeeRegistration) (*models.Registration, error) {
	slug, err := cleanSlug(slug)
	if err != nil {
		return nil, err
	}
	reg, err := s.api.RegisterAttendee(ctx, slug, r)
	if err != nil {
		return nil, fmt.Errorf("register for %s: %w", slug, err)
	}
	return reg, nil
}

func (s *eventService) Sessions(ctx context.Context, slug string) ([]models.EventSession, error) {
	slug, err := cleanSlug(slug)
	if err != nil {
		return nil, err
	}
	out, err := s.api.Sessions(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("sessions of %s: %w", slug, err)
	}
	return out, nil
}

func (s *eventService) CreateSession(ctx context.Context, slug string, es models.EventSession) (*models.EventSession, error) {
	slug, err := cleanSlug(slug)
	if err != nil {
		return nil, err
	}
	out, err := s.api.CreateSession(ctx, slug, es)
	if err != nil {
		return nil, fmt.Errorf("create session for %s: %w", slug, err)
	}
	return out, nil
}

func (s *eventService) AdminMetrics(ctx context.Context) (*models.AdminMetrics, error) {
	m, err := s.api.AdminMetrics(ctx)
	if err != nil {
		return nil, fmt.Errorf("admin metrics: %w", err)
	}
	return m, nil
}

func (s *eventService) ExportAttendees(ctx context.Context, slug string, sink export.Sink) (string, error) {
	slug, err := cleanSlug(slug)
	if err != nil {
		return "", err
	}

	data, err := s.api.ExportAttendees(ctx, slug)
	if err != nil {
		return "", err
	}
	if len(data) == 0 {
		return "", ErrEmptyExport
	}

	name := fmt.Sprintf("%s-attendees-%s.csv", slug, s.now().UTC().Format("20060102T150405Z"))
	loc, err := sink.Put(ctx, name, data)
	if err != nil {
		return "", fmt.Errorf("store export: %w", err)
	}
	return loc, nil
}
