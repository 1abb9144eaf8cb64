// Package session holds the persisted authentication state: the bearer token and the current user.
// It is written by the login flow and read by the HTTP layer at request time.
package session

import (
	"sync"
	"time"

	"github.com/dgrijalva/jwt-go"
	"github.com/pkg/errors"
)

// Roles
const (
	RoleSuperAdmin  = "super_admin"
	RoleSchoolAdmin = "school_admin"
	RoleTeacher     = "teacher"
	RoleStudent     = "student"
	RoleParent      = "parent"
)

var (
	AllRoles = []string{RoleSuperAdmin, RoleSchoolAdmin, RoleTeacher, RoleStudent, RoleParent}

	errTokenMalformed = errors.New("malformed token")
)

type User struct {
	ID    string `json:"id" yaml:"id"`
	Email string `json:"email" yaml:"email"`
	Name  string `json:"name" yaml:"name"`
	Role  string `json:"role" yaml:"role"`
}

func (u *User) IsAdmin() bool {
	return u.Role == RoleSuperAdmin || u.Role == RoleSchoolAdmin
}

type Session struct {
	Token string `yaml:"token,omitempty"`
	User  *User  `yaml:"user,omitempty"`
}

// Authenticated reports whether a token is present. Its validity is up to the backend.
func (s Session) Authenticated() bool { return s.Token != "" }

// Store persists the Session between runs.
type Store interface {
	Load() (Session, error)
	Save(Session) error
	Clear() error
}

// TokenFunc returns a function reading the current token from store at call time.
// A store failure reads as "no token".
func TokenFunc(store Store) func() string {
	return func() string {
		sess, err := store.Load()
		if err != nil {
			return ""
		}
		return sess.Token
	}
}

// TokenExpiry extracts the `exp` claim of a JWT without verifying its signature:
// the signing key belongs to the backend, the dashboard only uses it for display.
// The zero time is returned for tokens without expiry.
func TokenExpiry(token string) (time.Time, error) {
	if token == "" {
		return time.Time{}, errTokenMalformed
	}
	claims := new(jwt.StandardClaims)
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err != nil {
		return time.Time{}, errors.Wrap(errTokenMalformed, err.Error())
	}
	if claims.ExpiresAt == 0 {
		return time.Time{}, nil
	}
	return time.Unix(claims.ExpiresAt, 0).UTC(), nil
}

// MemoryStore keeps the Session in memory, eg. for tests.
type MemoryStore struct {
	mu   sync.RWMutex
	sess Session
}

var _ Store = (*MemoryStore)(nil)

func NewMemoryStore(sess ...Session) *MemoryStore {
	s := new(MemoryStore)
	if len(sess) > 0 {
		s.sess = sess[0]
	}
	return s
}

func (s *MemoryStore) Load() (Session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.sess, nil
}

func (s *MemoryStore) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sess = sess
	return nil
}

func (s *MemoryStore) Clear() error {
	return s.Save(Session{})
}
