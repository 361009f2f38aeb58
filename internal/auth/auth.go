// Package auth signs staff in and out and fetches their profile.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/five82/packetdesk/internal/api"
	"github.com/five82/packetdesk/internal/session"
)

const (
	loginFailedMessage   = "Login failed"
	profileFailedMessage = "Failed to fetch user profile"
)

// Credentials are what the login form submits.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResult is the data of a successful login.
type LoginResult struct {
	Token string        `json:"token"`
	User  *session.User `json:"user"`
}

// Profile is the extended record from /users/profile.
type Profile struct {
	session.User
	IsActive bool `json:"isActive"`
}

// UnmarshalJSON decodes the embedded user with its _id handling and the
// isActive flag alongside it.
func (p *Profile) UnmarshalJSON(data []byte) error {
	if err := p.User.UnmarshalJSON(data); err != nil {
		return err
	}
	var extra struct {
		IsActive bool `json:"isActive"`
	}
	if err := json.Unmarshal(data, &extra); err != nil {
		return err
	}
	p.IsActive = extra.IsActive
	return nil
}

// Service wraps the auth and user endpoints.
type Service struct {
	client  *api.Client
	session *session.Manager
	log     zerolog.Logger
}

// NewService returns a Service that records logins in sess.
func NewService(client *api.Client, sess *session.Manager, logger zerolog.Logger) *Service {
	return &Service{client: client, session: sess, log: logger}
}

// Login posts the credentials and, on success, stores the token and user.
func (s *Service) Login(ctx context.Context, creds Credentials) (*LoginResult, error) {
	creds.Username = strings.TrimSpace(creds.Username)
	if creds.Username == "" || creds.Password == "" {
		return nil, &api.Error{Message: "Please enter username and password"}
	}

	env, err := api.Post[LoginResult](ctx, s.client, "/auth/login", creds)
	if err != nil {
		return nil, err
	}
	result, err := env.Result(loginFailedMessage)
	if err != nil {
		return nil, err
	}
	if result.Token == "" || result.User == nil {
		return nil, &api.Error{Status: env.StatusCode, Message: loginFailedMessage}
	}

	if err := s.session.Begin(ctx, session.Session{Token: result.Token, User: result.User}); err != nil {
		return nil, fmt.Errorf("store session: %w", err)
	}
	return &result, nil
}

// Logout tells the server when a token is held, then clears the session no
// matter how that call went.
func (s *Service) Logout(ctx context.Context) error {
	if s.session.Token() != "" {
		callCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		_, err := api.Post[any](callCtx, s.client, "/auth/logout", nil)
		cancel()
		if err != nil {
			s.log.Warn().Err(err).Msg("logout request failed")
		}
	}
	if err := s.session.Clear(); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	s.log.Info().Msg("signed out")
	return nil
}

// Profile fetches the signed-in user's profile.
func (s *Service) Profile(ctx context.Context) (*Profile, error) {
	env, err := api.Get[Profile](ctx, s.client, "/users/profile")
	if err != nil {
		return nil, err
	}
	profile, err := env.Result(profileFailedMessage)
	if err != nil {
		return nil, err
	}
	return &profile, nil
}

// Revalidate checks a restored session against /users/profile. A rejected
// token is already cleared by the client. An inactive account is signed
// out, and an active one has its stored user refreshed. Network failures
// leave the session alone so the console can start offline.
func (s *Service) Revalidate(ctx context.Context) error {
	if !s.session.IsAuthenticated() {
		return nil
	}
	profile, err := s.Profile(ctx)
	if err != nil {
		if api.IsUnauthorized(err) {
			s.log.Warn().Msg("stored session rejected by server")
		}
		return fmt.Errorf("fetch profile: %w", err)
	}
	if !profile.IsActive {
		s.log.Warn().Str("user", profile.Username).Msg("account inactive, signing out")
		if err := s.session.Clear(); err != nil {
			return fmt.Errorf("clear session: %w", err)
		}
		return nil
	}

	user := profile.User
	if err := s.session.Begin(ctx, session.Session{Token: s.session.Token(), User: &user}); err != nil {
		return fmt.Errorf("store session: %w", err)
	}
	return nil
}
