package testutil

import (
	"testing"
	"time"

	"github.com/AkmalxonWeBd/education-platform/core"
	"github.com/AkmalxonWeBd/education-platform/core/resource"
	"github.com/AkmalxonWeBd/education-platform/core/session"
)

// NewClient returns a cache client talking to api with the token of store, closed with the test.
func NewClient(t *testing.T, api *FakeAPI, store session.Store) *resource.Client {
	t.Helper()
	req := resource.NewHTTPRequester(api.URL(), 5*time.Second, session.TokenFunc(store))
	client := resource.NewClient(req, resource.Options{Logger: core.NopLogger{}})
	t.Cleanup(client.Close)
	return client
}

// CreateUser seeds a user with login credentials and returns its record.
func CreateUser(t *testing.T, api *FakeAPI, name, email, pwd, role string) Record {
	t.Helper()
	usr := api.Seed(t, "users", Record{"name": name, "email": email, "role": role})[0]
	if pwd != "" {
		api.AddAccount(t, email, pwd, usr["id"].(string))
	}
	return usr
}

// Authenticate stores a valid session for usr without going through the login endpoint.
func Authenticate(t *testing.T, api *FakeAPI, store session.Store, usr Record) session.User {
	t.Helper()
	u := session.User{
		ID:    usr["id"].(string),
		Email: usr["email"].(string),
		Name:  usr["name"].(string),
		Role:  usr["role"].(string),
	}
	token, err := api.Token(u.ID, u.Role, time.Hour)
	if err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	if err := store.Save(session.Session{Token: token, User: &u}); err != nil {
		t.Fatalf("Authenticate() failed: %v", err)
	}
	return u
}
