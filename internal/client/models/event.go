package models

import (
	"encoding/json"
	"fmt"
	"net/url"
	"strconv"
	"time"
)

type Event struct {
	ID                 int64     `json:"id"`
	Title              string    `json:"title"`
	Slug               string    `json:"slug"`
	Description        string    `json:"description"`
	EventType          string    `json:"event_type"`
	Status             string    `json:"status"`
	StartDate          time.Time `json:"start_date"`
	EndDate            time.Time `json:"end_date"`
	City               string    `json:"city"`
	Country            string    `json:"country"`
	VenueName          string    `json:"venue_name"`
	Capacity           int       `json:"capacity"`
	CurrentAttendees   int       `json:"current_attendees"`
	AvailableSpots     int       `json:"available_spots"`
	IsRegistrationOpen bool      `json:"is_registration_open"`
	OrganizerName      string    `json:"organizer_name,omitempty"`
	DurationDays       int       `json:"duration_days"`
}

func (e Event) String() string {
	state := "closed"
	if e.IsRegistrationOpen {
		state = "open"
	}
	return fmt.Sprintf("%-24s %-32s %s %s, %s  %d/%d  registration %s",
		e.Slug, e.Title, e.StartDate.Format("2006-01-02"), e.City, e.Country,
		e.CurrentAttendees, e.Capacity, state)
}

// NewEvent is the POST /events/ body.
type NewEvent struct {
	Title             string     `json:"title"`
	Slug              string     `json:"slug,omitempty"`
	Description       string     `json:"description"`
	EventType         string     `json:"event_type"`
	Status            string     `json:"status,omitempty"`
	StartDate         time.Time  `json:"start_date"`
	EndDate           time.Time  `json:"end_date"`
	RegistrationStart *time.Time `json:"registration_start,omitempty"`
	RegistrationEnd   *time.Time `json:"registration_end,omitempty"`
	VenueName         string     `json:"venue_name"`
	VenueAddress      string     `json:"venue_address,omitempty"`
	City              string     `json:"city"`
	Country           string     `json:"country"`
	Capacity          int        `json:"capacity"`
	Website           string     `json:"website,omitempty"`
}

// EventFilter maps onto the /events/ query string. Zero values are omitted.
type EventFilter struct {
	Search            string
	City              string
	Country           string
	Status            []string
	EventType         []string
	RegistrationOpen  *bool
	HasAvailableSpots *bool
	Ordering          string
	Page              int
}

func (f EventFilter) Values() url.Values {
	v := url.Values{}
	set := func(key, val string) {
		if val != "" {
			v.Set(key, val)
		}
	}
	set("search", f.Search)
	set("city", f.City)
	set("country", f.Country)
	set("ordering", f.Ordering)
	for _, s := range f.Status {
		v.Add("status", s)
	}
	for _, t := range f.EventType {
		v.Add("event_type", t)
	}
	if f.RegistrationOpen != nil {
		v.Set("registration_open", strconv.FormatBool(*f.RegistrationOpen))
	}
	if f.HasAvailableSpots != nil {
		v.Set("has_available_spots", strconv.FormatBool(*f.HasAvailableSpots))
	}
	if f.Page > 0 {
		v.Set("page", strconv.Itoa(f.Page))
	}
	return v
}

// AttendeeRegistration is the POST /events/{slug}/register/ body.
type AttendeeRegistration struct {
	DietaryRequirements string `json:"dietary_requirements,omitempty"`
	SpecialRequests     string `json:"special_requests,omitempty"`
}

type Registration struct {
	ID               int64     `json:"id"`
	Event            int64     `json:"event"`
	EventTitle       string    `json:"event_title"`
	AttendeeName     string    `json:"attendee_name"`
	AttendeeEmail    string    `json:"attendee_email"`
	Status           string    `json:"status"`
	RegistrationDate time.Time `json:"registration_date"`
}

type EventSession struct {
	ID        int64     `json:"id,omitempty"`
	Title     string    `json:"title"`
	Speaker   string    `json:"speaker,omitempty"`
	StartTime time.Time `json:"start_time"`
	EndTime   time.Time `json:"end_time"`
	Room      string    `json:"room,omitempty"`
}

type AdminMetrics struct {
	TotalEvents    int     `json:"total_events"`
	TotalAttendees int     `json:"total_attendees"`
	CapacityUsed   float64 `json:"capacity_used"`
}

// Page decodes list endpoints that may or may not be paginated: a bare JSON
// array is taken as is, an object contributes its "results" field.
type Page[T any] struct {
	Count   int
	Next    string
	Results []T
}

func (p *Page[T]) UnmarshalJSON(b []byte) error {
	var items []T
	if err := json.Unmarshal(b, &items); err == nil {
		p.Results = items
		p.Count = len(items)
		return nil
	}

	var envelope struct {
		Count   int    `json:"count"`
		Next    string `json:"next"`
		Results []T    `json:"results"`
	}
	if err := json.Unmarshal(b, &envelope); err != nil {
		return err
	}
	p.Count, p.Next, p.Results = envelope.Count, envelope.Next, envelope.Results
	if p.Results == nil {
		p.Results = []T{}
	}
	return nil
}
