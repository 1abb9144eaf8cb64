package session

import (
	"os"
	"path/filepath"
	"sync"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
)

// FileStore persists the Session as YAML, readable only by the current user.
type FileStore struct {
	mu   sync.Mutex
	path string
}

var _ Store = (*FileStore)(nil)

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Path() string { return s.path }

// Load returns an empty Session when the file does not exist yet.
func (s *FileStore) Load() (Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var sess Session
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return sess, nil
		}
		return sess, errors.Wrapf(err, "reading session %s", s.path)
	}
	if err := yaml.Unmarshal(data, &sess); err != nil {
		return Session{}, errors.Wrapf(err, "decoding session %s", s.path)
	}
	return sess, nil
}

func (s *FileStore) Save(sess Session) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := yaml.Marshal(&sess)
	if err != nil {
		return errors.Wrap(err, "encoding session")
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o700); err != nil {
		return errors.Wrapf(err, "creating %s", filepath.Dir(s.path))
	}
	if err := os.WriteFile(s.path, data, 0o600); err != nil {
		return errors.Wrapf(err, "writing session %s", s.path)
	}
	return nil
}

func (s *FileStore) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, "removing session %s", s.path)
	}
	return nil
}
