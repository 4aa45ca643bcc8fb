// Package models defines the client-side records exchanged with the Eventhub
// backend.
package models

import "strings"

const fallbackDisplayName = "User"

// User is the backend user record as returned by /auth/profile/.
type User struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	FullName  string `json:"full_name,omitempty"`
	Role      string `json:"role"`
	Phone     string `json:"phone,omitempty"`
	Bio       string `json:"bio,omitempty"`
	Company   string `json:"company,omitempty"`
	JobTitle  string `json:"job_title,omitempty"`
}

// UserProfile is the normalized view the client works with.
type UserProfile struct {
	ID          int64
	Username    string
	Email       string
	FirstName   string
	LastName    string
	Role        string
	DisplayName string

	Phone    string
	Bio      string
	Company  string
	JobTitle string
}

// Profile normalizes the backend record.
func (u User) Profile() UserProfile {
	return UserProfile{
		ID:          u.ID,
		Username:    u.Username,
		Email:       u.Email,
		FirstName:   u.FirstName,
		LastName:    u.LastName,
		Role:        u.Role,
		DisplayName: DisplayName(u.FirstName, u.LastName, u.Username, u.Email),
		Phone:       u.Phone,
		Bio:         u.Bio,
		Company:     u.Company,
		JobTitle:    u.JobTitle,
	}
}

// DisplayName picks "first last", then username, then the local part of
// email, then "User".
func DisplayName(first, last, username, email string) string {
	if full := strings.TrimSpace(strings.TrimSpace(first) + " " + strings.TrimSpace(last)); full != "" {
		return full
	}
	if u := strings.TrimSpace(username); u != "" {
		return u
	}
	if local, _, _ := strings.Cut(strings.TrimSpace(email), "@"); local != "" {
		return local
	}
	return fallbackDisplayName
}

func (p UserProfile) IsAdmin() bool {
	return p.Role == "admin"
}

func (p UserProfile) IsOrganizer() bool {
	return p.Role == "organizer" || p.Role == "admin"
}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenResponse is returned by /auth/login/ and /auth/refresh/. Refresh is
// empty on refresh unless the backend rotates refresh tokens.
type TokenResponse struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh,omitempty"`
}

// NewUser is the registration request body.
type NewUser struct {
	Username        string `json:"username"`
	Email           string `json:"email"`
	Password        string `json:"password"`
	PasswordConfirm string `json:"password_confirm"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Role            string `json:"role"`
	Phone           string `json:"phone,omitempty"`
	Company         string `json:"company,omitempty"`
	JobTitle        string `json:"job_title,omitempty"`
}

// ProfileUpdate is the PATCH /auth/profile/ body; nil fields are left alone.
type ProfileUpdate struct {
	FirstName *string `json:"first_name,omitempty"`
	LastName  *string `json:"last_name,omitempty"`
	Phone     *string `json:"phone,omitempty"`
	Bio       *string `json:"bio,omitempty"`
	Company   *string `json:"company,omitempty"`
	JobTitle  *string `json:"job_title,omitempty"`
}

func (u ProfileUpdate) Empty() bool {
	return u.FirstName == nil && u.LastName == nil && u.Phone == nil &&
		u.Bio == nil && u.Company == nil && u.JobTitle == nil
}
