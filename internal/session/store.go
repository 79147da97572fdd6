// Package session holds the signed-in identity of the local user and keeps
// it in local storage between runs.
package session

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/ariefcatur/storefront-client/internal/shop"
	"github.com/ariefcatur/storefront-client/internal/storage"
)

type State int

const (
	// Unknown until Restore has completed.
	Unknown State = iota
	Anonymous
	Authenticated
)

func (s State) String() string {
	switch s {
	case Anonymous:
		return "anonymous"
	case Authenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Authenticator is the slice of the remote API the store needs.
type Authenticator interface {
	Login(ctx context.Context, email, password string) (shop.User, string, error)
	Register(ctx context.Context, name, email, password, confirmation string) (shop.User, string, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (shop.User, error)
	UpdateProfile(ctx context.Context, p shop.Profile) (shop.User, error)
}

type record struct {
	User  *shop.User `json:"user"`
	Token string     `json:"token"`
}

// Store is safe for concurrent use. Remote calls run without the lock held
// (the API client reads Token while they are in flight); the lock covers the
// persist-and-swap that follows.
type Store struct {
	auth Authenticator
	st   storage.Storage

	mu    sync.RWMutex
	state State
	user  *shop.User
	token string
}

func NewStore(auth Authenticator, st storage.Storage) *Store {
	return &Store{auth: auth, st: st}
}

// Restore loads the persisted session. A read failure keeps the state
// Unknown; an undecodable record is removed and the state becomes Anonymous.
func (s *Store) Restore(ctx context.Context) error {
	raw, found, err := s.st.Get(ctx, storage.KeySession)
	if err != nil {
		return fmt.Errorf("restore session: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !found {
		s.setLocked(nil, "")
		return nil
	}
	var rec record
	if err := json.Unmarshal([]byte(raw), &rec); err != nil || rec.User == nil {
		s.setLocked(nil, "")
		if rmErr := s.st.Remove(ctx, storage.KeySession); rmErr != nil {
			return fmt.Errorf("discard corrupt session: %w", rmErr)
		}
		return nil
	}
	s.setLocked(rec.User, rec.Token)
	return nil
}

// Login returns the remote error unchanged on failure and leaves state alone.
func (s *Store) Login(ctx context.Context, email, password string) (shop.User, error) {
	u, tok, err := s.auth.Login(ctx, email, password)
	if err != nil {
		return shop.User{}, err
	}
	if err := s.save(ctx, &u, tok); err != nil {
		return shop.User{}, err
	}
	return u, nil
}

func (s *Store) Register(ctx context.Context, name, email, password, confirmation string) (shop.User, error) {
	u, tok, err := s.auth.Register(ctx, name, email, password, confirmation)
	if err != nil {
		return shop.User{}, err
	}
	if err := s.save(ctx, &u, tok); err != nil {
		return shop.User{}, err
	}
	return u, nil
}

// Logout always ends Anonymous, whatever the remote call returned. The
// returned error is the remote one, if any, for logging; a failure to clear
// storage takes precedence.
func (s *Store) Logout(ctx context.Context) error {
	remoteErr := s.auth.Logout(ctx)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.setLocked(nil, "")
	if err := s.st.Remove(ctx, storage.KeySession); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	return remoteErr
}

// UpdateProfile replaces the cached user on success; the token is kept.
func (s *Store) UpdateProfile(ctx context.Context, p shop.Profile) (shop.User, error) {
	u, err := s.auth.UpdateProfile(ctx, p)
	if err != nil {
		return shop.User{}, err
	}
	if err := s.replaceUser(ctx, &u); err != nil {
		return shop.User{}, err
	}
	return u, nil
}

// Refresh re-reads the current user from the server.
func (s *Store) Refresh(ctx context.Context) (shop.User, error) {
	u, err := s.auth.CurrentUser(ctx)
	if err != nil {
		return shop.User{}, err
	}
	if err := s.replaceUser(ctx, &u); err != nil {
		return shop.User{}, err
	}
	return u, nil
}

func (s *Store) replaceUser(ctx context.Context, u *shop.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.user == nil {
		return ErrSignedOut
	}
	return s.persistLocked(ctx, u, s.token)
}

func (s *Store) save(ctx context.Context, u *shop.User, tok string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.persistLocked(ctx, u, tok)
}

func (s *Store) persistLocked(ctx context.Context, u *shop.User, tok string) error {
	b, err := json.Marshal(record{User: u, Token: tok})
	if err != nil {
		return fmt.Errorf("encode session: %w", err)
	}
	if err := s.st.Set(ctx, storage.KeySession, string(b)); err != nil {
		return fmt.Errorf("persist session: %w", err)
	}
	s.setLocked(u, tok)
	return nil
}

func (s *Store) setLocked(u *shop.User, tok string) {
	s.user, s.token = u, tok
	if u == nil {
		s.state = Anonymous
	} else {
		s.state = Authenticated
	}
}

func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// CurrentUser returns a copy of the signed-in user.
func (s *Store) CurrentUser() (shop.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return shop.User{}, false
	}
	return *s.user, true
}

func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAdmin is true only when the user's is_admin is the JSON literal true.
func (s *Store) IsAdmin() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil && s.user.IsAdmin.IsTrue()
}
