// Package session holds the signed-in user's credentials. The API client and
// every page read them through Provider so tests can swap in Memory.
package session

import (
	"strings"
	"sync"

	"skywings-cli/model"
)

// Storage keys shared by all providers.
const (
	TokenKey = "access_token"
	UserKey  = "user"
)

// Provider stores the access token and user record. Save and Clear always
// write both together.
type Provider interface {
	Token() string
	User() (model.User, bool)
	Save(token string, user model.User) error
	UpdateUser(user model.User) error
	Clear() error
}

// IsAuthenticated reports whether the provider holds a token.
func IsAuthenticated(p Provider) bool {
	if p == nil {
		return false
	}
	return strings.TrimSpace(p.Token()) != ""
}

// Memory is an in-process Provider.
type Memory struct {
	mu    sync.RWMutex
	token string
	user  *model.User
}

func NewMemory() *Memory {
	return &Memory{}
}

func (m *Memory) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.token
}

func (m *Memory) User() (model.User, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.user == nil {
		return model.User{}, false
	}
	return *m.user, true
}

func (m *Memory) Save(token string, user model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = token
	m.user = &user
	return nil
}

func (m *Memory) UpdateUser(user model.User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.user = &user
	return nil
}

func (m *Memory) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.token = ""
	m.user = nil
	return nil
}
