// Package session holds the client's authentication state: who is logged
// in, whether an auth call is in flight, and whether the auth modal is
// showing. Every UI element reads the same Store; mutation goes only through
// its methods.
package session

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/fragmede/cpphub/internal/api"
	"github.com/fragmede/cpphub/internal/logging"
)

// AuthAPI is the subset of the backend the store talks to.
type AuthAPI interface {
	Login(ctx context.Context, req api.LoginRequest) (*api.AuthResponse, error)
	Register(ctx context.Context, req api.RegisterRequest) (*api.AuthResponse, error)
	Logout(ctx context.Context) error
	CurrentUser(ctx context.Context) (*api.User, error)
	UpdateProfile(ctx context.Context, update api.ProfileUpdate) (*api.User, error)
}

// Modal is the auth modal sub-state.
type Modal struct {
	IsOpen bool
	Mode   AuthMode
}

// State is a point-in-time copy of the session.
type State struct {
	User      *api.User
	IsLoading bool
	Modal     Modal
}

// Authenticated reports whether a user is present.
func (s State) Authenticated() bool {
	return s.User != nil
}

// Store is the single source of truth for session state.
type Store struct {
	api    AuthAPI
	tokens TokenStore
	log    logging.Logger

	mu        sync.RWMutex
	user      *api.User
	token     string
	loading   bool
	modal     Modal
	listeners []func(State)
	// epoch advances on every auth attempt and logout.
	epoch uint64

	bg sync.WaitGroup
}

// Option configures a Store.
type Option func(*Store)

// WithLogger sets the logger. The default discards everything.
func WithLogger(l logging.Logger) Option {
	return func(s *Store) { s.log = l }
}

// New creates an unauthenticated store with the modal closed.
func New(client AuthAPI, tokens TokenStore, opts ...Option) *Store {
	s := &Store{
		api:    client,
		tokens: tokens,
		log:    logging.Discard(),
		modal:  Modal{Mode: ModeLogin},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// State returns a snapshot of the session.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotLocked()
}

func (s *Store) snapshotLocked() State {
	st := State{IsLoading: s.loading, Modal: s.modal}
	if s.user != nil {
		u := *s.user
		st.User = &u
	}
	return st
}

// Token returns the in-memory bearer token, "" when unauthenticated. It is
// the API client's token source.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// IsAuthenticated reports whether a user is logged in.
func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

// OnChange registers fn to be called with a fresh snapshot after every
// state change. Listeners run on the goroutine that made the change.
func (s *Store) OnChange(fn func(State)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, fn)
}

func (s *Store) notify() {
	s.mu.RLock()
	st := s.snapshotLocked()
	listeners := slices.Clone(s.listeners)
	s.mu.RUnlock()

	for _, fn := range listeners {
		fn(st)
	}
}

// Restore re-establishes a session from the persisted token. It is a
// best-effort background step: failures leave the session unauthenticated,
// remove the stale token, and are only logged. An auth call or logout made
// while Restore waits on the server wins, and the restore result is dropped.
func (s *Store) Restore(ctx context.Context) {
	s.mu.RLock()
	epoch := s.epoch
	s.mu.RUnlock()

	token, err := s.tokens.Token(ctx)
	if err != nil {
		s.log.Warn(ctx, "reading stored token", "error", err)
		s.dropStoredToken(ctx, epoch)
		return
	}
	if token == "" {
		return
	}

	user, err := s.api.CurrentUser(api.ContextWithToken(ctx, token))
	if err != nil {
		s.log.Warn(ctx, "stored session is no longer valid", "error", err)
		s.dropStoredToken(ctx, epoch)
		return
	}

	s.mu.Lock()
	if !s.untouchedLocked(epoch) {
		s.mu.Unlock()
		s.log.Debug(ctx, "discarding restored session", "user_id", user.ID)
		return
	}
	s.user = user
	s.token = token
	s.mu.Unlock()

	s.log.Info(ctx, "session restored", "user_id", user.ID)
	s.notify()
}

// untouchedLocked reports whether the session is still empty and unchanged
// since epoch was read.
func (s *Store) untouchedLocked(epoch uint64) bool {
	return s.epoch == epoch && !s.loading && s.user == nil && s.token == ""
}

// dropStoredToken deletes the persisted token unless a newer session owns it.
func (s *Store) dropStoredToken(ctx context.Context, epoch uint64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.untouchedLocked(epoch) {
		return
	}
	if err := s.tokens.DeleteToken(ctx); err != nil {
		s.log.Warn(ctx, "removing stale token", "error", err)
	}
}

// Login authenticates with email and password. Input validation is the
// caller's job. On success the user is set, the token is persisted and the
// auth modal closes. On failure nothing changes and an error matching
// ErrAuthFailed is returned.
func (s *Store) Login(ctx context.Context, email, password string) error {
	return s.authenticate(ctx, "login", func(ctx context.Context) (*api.AuthResponse, error) {
		return s.api.Login(ctx, api.LoginRequest{Email: email, Password: password})
	})
}

// RegisterOption customizes a registration request.
type RegisterOption func(*api.RegisterRequest)

// WithPlan requests a subscription plan for the new account.
func WithPlan(plan api.Plan) RegisterOption {
	return func(r *api.RegisterRequest) { r.Plan = plan }
}

// Register creates an account. Same contract as Login.
func (s *Store) Register(ctx context.Context, email, password, name string, opts ...RegisterOption) error {
	req := api.RegisterRequest{
		Name:                 name,
		Email:                email,
		Password:             password,
		PasswordConfirmation: password,
	}
	for _, opt := range opts {
		opt(&req)
	}
	return s.authenticate(ctx, "register", func(ctx context.Context) (*api.AuthResponse, error) {
		return s.api.Register(ctx, req)
	})
}

func (s *Store) authenticate(ctx context.Context, op string, call func(context.Context) (*api.AuthResponse, error)) error {
	s.mu.Lock()
	if s.loading {
		s.mu.Unlock()
		return ErrAuthInFlight
	}
	s.loading = true
	s.epoch++
	s.mu.Unlock()
	s.notify()

	resp, err := call(ctx)
	if err == nil && (resp == nil || resp.Token == "") {
		err = errors.New("response carried no token")
	}

	// The token is written under the lock so a concurrent Restore cannot
	// delete it between the write and the state update.
	s.mu.Lock()
	if err == nil {
		err = s.tokens.SetToken(ctx, resp.Token)
	}
	if err != nil {
		s.loading = false
		s.mu.Unlock()
		s.notify()

		s.log.Warn(ctx, op+" failed", "error", err)
		return fmt.Errorf("%w: %w", ErrAuthFailed, err)
	}

	user := resp.User
	s.user = &user
	s.token = resp.Token
	s.modal.IsOpen = false
	s.loading = false
	s.mu.Unlock()

	s.log.Info(ctx, op+" succeeded", "user_id", user.ID)
	s.notify()
	return nil
}

// Logout clears the session locally and notifies the server in the
// background. The local logout happens regardless of the server's answer.
func (s *Store) Logout(ctx context.Context) {
	s.mu.Lock()
	token := s.token
	s.user = nil
	s.token = ""
	s.epoch++
	if err := s.tokens.DeleteToken(ctx); err != nil {
		s.log.Warn(ctx, "removing stored token", "error", err)
	}
	s.mu.Unlock()
	s.notify()

	if token == "" {
		return
	}

	bgCtx := api.ContextWithToken(context.WithoutCancel(ctx), token)
	s.bg.Add(1)
	go func() {
		defer s.bg.Done()
		if err := s.api.Logout(bgCtx); err != nil {
			s.log.Warn(bgCtx, "logout notification failed", "error", err)
		}
	}()
}

// Wait blocks until background logout notifications have finished.
func (s *Store) Wait() {
	s.bg.Wait()
}

// UpdateProfile applies a partial update to the current user.
func (s *Store) UpdateProfile(ctx context.Context, update api.ProfileUpdate) error {
	if !s.IsAuthenticated() {
		return ErrNotAuthenticated
	}

	user, err := s.api.UpdateProfile(ctx, update)
	if err != nil {
		return fmt.Errorf("updating profile: %w", err)
	}

	s.mu.Lock()
	if s.user == nil {
		// Logged out while the request was in flight.
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.user = user
	s.mu.Unlock()

	s.notify()
	return nil
}

// OpenAuthModal shows the auth modal in the given mode. Opening while
// already open just switches the mode.
func (s *Store) OpenAuthModal(mode AuthMode) {
	s.mu.Lock()
	s.modal = Modal{IsOpen: true, Mode: mode}
	s.mu.Unlock()
	s.notify()
}

// CloseAuthModal hides the auth modal. The mode is kept.
func (s *Store) CloseAuthModal() {
	s.mu.Lock()
	s.modal.IsOpen = false
	s.mu.Unlock()
	s.notify()
}
