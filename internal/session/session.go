package session

import (
	"encoding/json"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// User is the signed-in identity returned by the login endpoint.
type User struct {
	ID       string `json:"id" toml:"id"`
	Username string `json:"username" toml:"username"`
	Role     string `json:"role" toml:"role"`
}

// UnmarshalJSON accepts both "id" and the Mongo style "_id".
func (u *User) UnmarshalJSON(data []byte) error {
	var raw struct {
		ID       string `json:"id"`
		MongoID  string `json:"_id"`
		Username string `json:"username"`
		Role     string `json:"role"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	u.ID = raw.ID
	if u.ID == "" {
		u.ID = raw.MongoID
	}
	u.Username = raw.Username
	u.Role = raw.Role
	return nil
}

// Session is a bearer token plus the user it belongs to.
type Session struct {
	Token string `toml:"token"`
	User  *User  `toml:"user,omitempty"`
}

// ExpiresAt reads the exp claim of a JWT token without verifying it. ok is
// false for opaque tokens and tokens without exp.
func (s Session) ExpiresAt() (exp time.Time, ok bool) {
	token := strings.TrimSpace(s.Token)
	if token == "" {
		return time.Time{}, false
	}
	claims := &jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

// Expired reports whether the token carries an exp claim in the past.
func (s Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}

func (s Session) empty() bool {
	return s.Token == "" && s.User == nil
}

func (s Session) clone() Session {
	dup := Session{Token: s.Token}
	if s.User != nil {
		u := *s.User
		dup.User = &u
	}
	return dup
}
