package school

import (
	"context"
	"fmt"
	"net/http"

	"github.com/pkg/errors"

	"github.com/AkmalxonWeBd/education-platform/core/resource"
	"github.com/AkmalxonWeBd/education-platform/core/session"
)

type loginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

type resetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// Login authenticates against the backend, persists the session and drops every cached entry:
// data fetched for a previous user must not be served to the new one.
func (s *Service) Login(ctx context.Context, creds Credentials) (User, error) {
	m := resource.Mutation{Method: http.MethodPost, Resource: "auth/login", Body: creds}
	resp, err := write[loginResponse](ctx, s, creds, m)
	if err != nil {
		return User{}, err
	}
	if resp.Token == "" {
		return User{}, errors.New("login response holds no token")
	}

	sess := session.Session{Token: resp.Token, User: resp.User.SessionUser()}
	if err := s.store.Save(sess); err != nil {
		return User{}, errors.Wrap(err, "saving session")
	}
	s.cache.Reset()
	s.logger.Info(fmt.Sprintf("logged in as %s (%s)", resp.User.Email, resp.User.Role), *sess.User)
	return resp.User, nil
}

func (s *Service) Logout() error {
	if err := s.store.Clear(); err != nil {
		return errors.Wrap(err, "clearing session")
	}
	s.cache.Reset()
	return nil
}

func (s *Service) ResetPassword(ctx context.Context, email string) error {
	in := resetPasswordRequest{Email: email}
	m := resource.Mutation{Method: http.MethodPost, Resource: "auth/reset-password", Body: in}
	return discard(write[struct{}](ctx, s, in, m))
}

// CurrentUser returns the user of the persisted session.
func (s *Service) CurrentUser() (session.User, error) {
	sess, err := s.store.Load()
	if err != nil {
		return session.User{}, errors.Wrap(err, "loading session")
	}
	if !sess.Authenticated() || sess.User == nil {
		return session.User{}, ErrNotAuthenticated
	}
	return *sess.User, nil
}
