package store

import (
	"encoding/json"
	"errors"
	"os"
	"sync"

	"skywings-cli/model"
	"skywings-cli/session"
)

// SessionFile is a session.Provider persisted as session.json in the user
// config dir. The token and user live under the shared storage keys and
// are always written and removed together.
type SessionFile struct {
	mu   sync.Mutex
	path string
}

var _ session.Provider = (*SessionFile)(nil)

func OpenSession() (*SessionFile, error) {
	path, err := configPath("session.json")
	if err != nil {
		return nil, err
	}
	return &SessionFile{path: path}, nil
}

func (s *SessionFile) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, err := s.load()
	if err != nil {
		return ""
	}
	var token string
	if raw, ok := record[session.TokenKey]; ok {
		_ = json.Unmarshal(raw, &token)
	}
	return token
}

func (s *SessionFile) User() (model.User, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, err := s.load()
	if err != nil {
		return model.User{}, false
	}
	raw, ok := record[session.UserKey]
	if !ok || string(raw) == "null" {
		return model.User{}, false
	}
	var user model.User
	if err := json.Unmarshal(raw, &user); err != nil {
		return model.User{}, false
	}
	return user, true
}

func (s *SessionFile) Save(token string, user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.write(token, user)
}

func (s *SessionFile) UpdateUser(user model.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	record, err := s.load()
	if err != nil {
		return err
	}
	var token string
	if raw, ok := record[session.TokenKey]; ok {
		_ = json.Unmarshal(raw, &token)
	}
	if token == "" {
		return errors.New("no active session")
	}
	return s.write(token, user)
}

func (s *SessionFile) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := os.Remove(s.path); err != nil && !os.IsNotExist(err) {
		return err
	}
	return nil
}

func (s *SessionFile) load() (map[string]json.RawMessage, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return map[string]json.RawMessage{}, nil
		}
		return nil, err
	}
	record := map[string]json.RawMessage{}
	if err := json.Unmarshal(data, &record); err != nil {
		return nil, errors.New("invalid session format")
	}
	return record, nil
}

func (s *SessionFile) write(token string, user model.User) error {
	record := map[string]any{
		session.TokenKey: token,
		session.UserKey:  user,
	}
	return writeJSON(s.path, record, 0o600)
}
