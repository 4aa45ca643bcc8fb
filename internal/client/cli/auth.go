package cli

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/dmitrijs2005/eventhub/internal/client/client"
	"github.com/dmitrijs2005/eventhub/internal/client/credentials"
	"github.com/dmitrijs2005/eventhub/internal/client/models"
)

// getSimpleText, getPassword and getMultiline are indirections used to
// facilitate testing.
var (
	getSimpleText = GetSimpleText
	getPassword   = GetPassword
	getMultiline  = GetMultiline
)

var errNotLoggedIn = errors.New("not logged in, use 'login' first")

// Register prompts for the account fields, creates the account and logs in.
func (a *App) Register(ctx context.Context) error {
	var u models.NewUser
	var err error

	prompts := []struct {
		label string
		dst   *string
	}{
		{"Username", &u.Username},
		{"Email", &u.Email},
		{"First name", &u.FirstName},
		{"Last name", &u.LastName},
		{"Role (attendee/organizer, empty for attendee)", &u.Role},
	}
	for _, p := range prompts {
		if *p.dst, err = getSimpleText(a.reader, p.label, a.out); err != nil {
			return err
		}
	}

	if u.Password, err = getPassword(a.reader, a.out); err != nil {
		return err
	}
	fmt.Fprint(a.out, "Repeat password. ")
	if u.PasswordConfirm, err = getPassword(a.reader, a.out); err != nil {
		return err
	}
	if u.Password != u.PasswordConfirm {
		return errors.New("passwords do not match")
	}

	p, err := a.session.Register(ctx, u)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Account created. Logged in as %s.\n", p.DisplayName)
	return nil
}

func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		return err
	}
	password, err := getPassword(a.reader, a.out)
	if err != nil {
		return err
	}

	p, err := a.session.Login(ctx, username, password)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Logged in as %s (%s).\n", p.DisplayName, p.Role)
	return nil
}

func (a *App) Logout(ctx context.Context) error {
	if err := a.session.Logout(ctx); err != nil {
		return err
	}
	fmt.Fprintln(a.out, "Logged out.")
	return nil
}

func (a *App) WhoAmI(ctx context.Context) error {
	p, err := a.session.LoadProfile(ctx)
	if err != nil {
		return err
	}

	fmt.Fprintf(a.out, "%s <%s>\n", p.DisplayName, p.Email)
	fmt.Fprintf(a.out, "  username: %s\n  role:     %s\n", p.Username, p.Role)
	for _, f := range [][2]string{{"company", p.Company}, {"job", p.JobTitle}, {"phone", p.Phone}, {"bio", p.Bio}} {
		if f[1] != "" {
			fmt.Fprintf(a.out, "  %-8s  %s\n", f[0]+":", f[1])
		}
	}
	return nil
}

// EditProfile prompts for each editable field; an empty answer keeps the
// current value.
func (a *App) EditProfile(ctx context.Context) error {
	cur := a.session.Session().User
	if cur == nil {
		return errNotLoggedIn
	}

	var upd models.ProfileUpdate
	fields := []struct {
		label   string
		current string
		dst     **string
	}{
		{"First name", cur.FirstName, &upd.FirstName},
		{"Last name", cur.LastName, &upd.LastName},
		{"Phone", cur.Phone, &upd.Phone},
		{"Company", cur.Company, &upd.Company},
		{"Job title", cur.JobTitle, &upd.JobTitle},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.label, f.current), a.out)
		if err != nil {
			return err
		}
		if v != "" && v != f.current {
			*f.dst = &v
		}
	}

	bio, err := getMultiline(a.reader, "Bio (empty keeps the current one)", a.out)
	if err != nil {
		return err
	}
	if bio != "" && bio != cur.Bio {
		upd.Bio = &bio
	}

	if upd.Empty() {
		fmt.Fprintln(a.out, "Nothing to update.")
		return nil
	}

	p, err := a.session.UpdateProfile(ctx, upd)
	if err != nil {
		return err
	}
	fmt.Fprintf(a.out, "Profile updated for %s.\n", p.DisplayName)
	return nil
}

// Status reports the backend address and what the stored tokens say about
// themselves. Tokens are decoded, never verified.
func (a *App) Status(ctx context.Context) error {
	fmt.Fprintf(a.out, "backend: %s\n", a.resolver.BaseURL())

	s := a.session.Session()
	if s.User != nil {
		fmt.Fprintf(a.out, "user:    %s (%s)\n", s.User.DisplayName, s.User.Role)
	} else {
		fmt.Fprintln(a.out, "user:    not logged in")
	}

	now := time.Now()
	for _, kind := range []credentials.Kind{credentials.Access, credentials.Refresh} {
		token, ok := a.store.Get(ctx, kind)
		if !ok {
			fmt.Fprintf(a.out, "%s: absent\n", kind)
			continue
		}
		info := credentials.Inspect(token)
		switch {
		case info.Opaque || info.ExpiresAt.IsZero():
			fmt.Fprintf(a.out, "%s: present, expiry unknown\n", kind)
		case info.Expired(now):
			fmt.Fprintf(a.out, "%s: expired %s ago\n", kind, now.Sub(info.ExpiresAt).Round(time.Second))
		default:
			fmt.Fprintf(a.out, "%s: valid for %s\n", kind, info.ExpiresAt.Sub(now).Round(time.Second))
		}
	}
	return nil
}

// describe renders err for the terminal.
func describe(err error) string {
	var verr *client.ValidationError
	if errors.As(err, &verr) {
		keys := make([]string, 0, len(verr.Fields))
		for k := range verr.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)

		var b strings.Builder
		b.WriteString("the server rejected some fields:")
		for _, k := range keys {
			fmt.Fprintf(&b, "\n  %s: %s", k, strings.Join(verr.Fields[k], " "))
		}
		return b.String()
	}

	var aerr *client.AuthError
	if errors.As(err, &aerr) {
		if aerr.Detail != "" {
			return aerr.Detail
		}
		return "authentication failed"
	}

	switch {
	case errors.Is(err, client.ErrUnavailable):
		return "server unavailable, check your connection or the backend address ('status')"
	case errors.Is(err, client.ErrUnauthorized):
		return "not authorized, please log in"
	case errors.Is(err, client.ErrForbidden):
		return "you do not have permission to do that"
	case errors.Is(err, client.ErrNotFound):
		return "not found"
	}
	return err.Error()
}
