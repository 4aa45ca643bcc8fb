package credentials

import (
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenInfo is what can be read out of a token without verifying it.
type TokenInfo struct {
	Subject   string
	UserID    string
	ExpiresAt time.Time
	// Opaque is true when the token is not a decodable JWT.
	Opaque bool
}

// Expired reports whether the token carries an expiry that lies before now.
// Opaque tokens and tokens without "exp" are never reported as expired.
func (i TokenInfo) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && now.After(i.ExpiresAt)
}

// Inspect decodes a JWT without checking its signature. It is meant for
// display only; the client never makes auth decisions on it.
func Inspect(token string) TokenInfo {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return TokenInfo{Opaque: true}
	}

	var info TokenInfo
	if sub, err := claims.GetSubject(); err == nil {
		info.Subject = sub
	}
	// the Django backend puts the user id under "user_id"
	switch v := claims["user_id"].(type) {
	case string:
		info.UserID = v
	case float64:
		info.UserID = strconv.FormatInt(int64(v), 10)
	}
	if exp, err := claims.GetExpirationTime(); err == nil && exp != nil {
		info.ExpiresAt = exp.Time
	}
	return info
}
