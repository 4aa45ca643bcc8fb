package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/dmitrijs2005/eventhub/internal/client/models"
)

func slugArg(args []string, usage string) (string, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return "", errors.New("usage: " + usage)
	}
	return args[0], nil
}

// eventFilter builds a filter from key=value arguments, e.g.
// "city=Riga status=published registration_open=true".
func eventFilter(args []string) (models.EventFilter, error) {
	var f models.EventFilter

	kv, err := ParseKeyValues(args)
	if err != nil {
		return f, err
	}

	last := func(vs []string) string { return vs[len(vs)-1] }
	boolean := func(k string, vs []string) (*bool, error) {
		b, err := strconv.ParseBool(last(vs))
		if err != nil {
			return nil, fmt.Errorf("%s: expected true or false", k)
		}
		return &b, nil
	}

	for k, vs := range kv {
		switch k {
		case "search", "q":
			f.Search = last(vs)
		case "city":
			f.City = last(vs)
		case "country":
			f.Country = last(vs)
		case "status":
			f.Status = append(f.Status, vs...)
		case "type", "event_type":
			f.EventType = append(f.EventType, vs...)
		case "ordering", "order":
			f.Ordering = last(vs)
		case "registration_open", "open":
			if f.RegistrationOpen, err = boolean(k, vs); err != nil {
				return f, err
			}
		case "has_available_spots", "spots":
			if f.HasAvailableSpots, err = boolean(k, vs); err != nil {
				return f, err
			}
		case "page":
			n, err := strconv.Atoi(last(vs))
			if err != nil || n < 1 {
				return f, errors.New("page: expected a positive number")
			}
			f.Page = n
		default:
			return f, fmt.Errorf("unknown filter %q", k)
		}
	}
	return f, nil
}

func (a *App) ListEvents(ctx context.Context, args []string) error {
	f, err := eventFilter(args)
	if err != nil {
		return err
	}

	page, err := a.events.List(ctx, f)
	if err != nil {
		return err
	}
	if len(page.Results) == 0 {
		fmt.Fprintln(a.out, "No events found.")
		return nil
	}
	for _, e := range page.Results {
		fmt.Fprintln(a.out, e.String())
	}
	if page.Next != "" {
		fmt.Fprintf(a.out, "%d events in total, more with page=%d\n", page.Count, max(f.Page, 1)+1)
	}
	return nil
}

func (a *App) ShowEvent(ctx context.Context, args []string) error {
	slug, err := slugArg(args, "event <slug>")
	if err != nil {
		return err
	}
	e, err := a.events.Get(ctx, slug)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s (%s)\n", e.Title, e.Slug)
	fmt.Fprintf(a.out, "  %s, %s  %s, %s\n", e.EventType, e.Status, e.VenueName, e.City)
	fmt.Fprintf(a.out, "  %s to %s\n", e.StartDate.Format("2006-01-02 15:04"), e.EndDate.Format("2006-01-02 15:04"))
	fmt.Fprintf(a.out, "  %d/%d attendees, %d spots left\n", e.CurrentAttendees, e.Capacity, e.AvailableSpots)
	if e.OrganizerName != "" {
		fmt.Fprintf(a.out, "  organized by %s\n", e.OrganizerName)
	}
	if e.Description != "" {
		fmt.Fprintln(a.out, "\n"+e.Description)
	}
	return nil
}

func (a *App) Attend(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	slug, err := slugArg(args, "attend <slug>")
	if err != nil {
		return err
	}

	var r models.AttendeeRegistration
	if r.DietaryRequirements, err = getSimpleText(a.reader, "Dietary requirements (optional)", a.out); err != nil {
		return err
	}
	if r.SpecialRequests, err = getSimpleText(a.reader, "Special requests (optional)", a.out); err != nil {
		return err
	}

	reg, err := a.events.RegisterAttendee(ctx, slug, r)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Registered for %s, status %s.\n", slug, reg.Status)
	return nil
}

func (a *App) Sessions(ctx context.Context, args []string) error {
	slug, err := slugArg(args, "sessions <slug>")
	if err != nil {
		return err
	}
	sessions, err := a.events.Sessions(ctx, slug)
	if err != nil {
		return err
	}
	if len(sessions) == 0 {
		fmt.Fprintln(a.out, "No sessions scheduled.")
		return nil
	}
	for _, s := range sessions {
		fmt.Fprintf(a.out, "%s-%s  %-32s %s %s\n",
			s.StartTime.Format("Jan 02 15:04"), s.EndTime.Format("15:04"), s.Title, s.Speaker, s.Room)
	}
	return nil
}

func (a *App) Metrics(ctx context.Context) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	m, err := a.events.AdminMetrics(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "events:        %d\nattendees:     %d\ncapacity used: %.1f%%\n",
		m.TotalEvents, m.TotalAttendees, m.CapacityUsed)
	return nil
}

func (a *App) Export(ctx context.Context, args []string) error {
	if !a.isLoggedIn() {
		return errNotLoggedIn
	}
	slug, err := slugArg(args, "export <slug>")
	if err != nil {
		return err
	}
	loc, err := a.events.ExportAttendees(ctx, slug, a.sink)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Attendees of %s exported to %s\n", slug, loc)
	return nil
}
