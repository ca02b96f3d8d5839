package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/yndnr/rentdesk-go/internal/cli/connection"
	"github.com/yndnr/rentdesk-go/internal/core/domain"
	"github.com/yndnr/rentdesk-go/internal/telemetry/logger"
	"github.com/yndnr/rentdesk-go/internal/telemetry/metric"
)

// State is the sign-in state of the store.
type State int

const (
	// StateUnknown means durable storage has not been read yet.
	StateUnknown State = iota
	StateAnonymous
	StateAuthenticated
)

func (s State) String() string {
	switch s {
	case StateAnonymous:
		return "anonymous"
	case StateAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Event is a state transition published to subscribers.
type Event string

const (
	EventSignedIn    Event = "signed_in"
	EventSignedOut   Event = "signed_out"
	EventInvalidated Event = "invalidated"
)

// Authenticator exchanges credentials for a session.
type Authenticator interface {
	Login(ctx context.Context, creds domain.Credentials) (*domain.Session, error)
}

// Store is the single owner of the live session.
// All methods are safe for concurrent use.
type Store struct {
	storage Storage
	auth    Authenticator
	logger  logger.Logger
	metrics *metric.Registry
	now     func() time.Time

	mu      sync.RWMutex
	state   State
	current domain.Session

	subMu  sync.RWMutex
	nextID int
	subs   map[int]func(Event)
}

// Option configures a Store.
type Option func(*Store)

// WithAuthenticator sets the service SignIn delegates to.
func WithAuthenticator(a Authenticator) Option {
	return func(s *Store) {
		s.auth = a
	}
}

// WithLogger sets the store logger.
func WithLogger(l logger.Logger) Option {
	return func(s *Store) {
		s.logger = l
	}
}

// WithMetrics records transitions in r.
func WithMetrics(r *metric.Registry) Option {
	return func(s *Store) {
		s.metrics = r
	}
}

// WithClock overrides the clock used for token expiry checks.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// NewStore creates a store in StateUnknown backed by storage.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		logger:  logger.Default(),
		now:     time.Now,
		subs:    make(map[int]func(Event)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Rehydrate reads durable storage and leaves StateUnknown. An unreadable
// payload is removed; a payload that is not a usable session leaves the
// store anonymous. Storage I/O errors are returned after the store has
// become anonymous.
func (s *Store) Rehydrate(ctx context.Context) error {
	sess, err := s.load(ctx)

	s.mu.Lock()
	if sess != nil {
		s.state = StateAuthenticated
		s.current = *sess
	} else {
		s.state = StateAnonymous
		s.current = domain.Session{}
	}
	state := s.state
	s.mu.Unlock()

	s.logger.Debug("session rehydrated", "state", state.String())
	return err
}

// load reads and checks the stored session. It returns nil when there is
// no usable session.
func (s *Store) load(ctx context.Context) (*domain.Session, error) {
	data, err := s.storage.Load(ctx)
	switch {
	case errors.Is(err, ErrNoSession):
		return nil, nil
	case errors.Is(err, domain.ErrSessionCorrupt):
		s.logger.Warn("stored session unreadable, removing", "error", err)
		return nil, s.storage.Remove(ctx)
	case err != nil:
		return nil, fmt.Errorf("load session: %w", err)
	}

	var sess domain.Session
	if err := json.Unmarshal(data, &sess); err != nil {
		s.logger.Warn("stored session unparsable, removing", "error", err)
		return nil, s.storage.Remove(ctx)
	}
	if !sess.LooksValid() {
		s.logger.Warn("stored session incomplete, removing")
		return nil, s.storage.Remove(ctx)
	}
	if tokenExpired(sess.Token, s.now()) {
		s.logger.Debug("stored session token expired, removing")
		return nil, s.storage.Remove(ctx)
	}
	return &sess, nil
}

// SignIn exchanges creds for a session and persists it. On failure the
// store and storage are left as they were.
func (s *Store) SignIn(ctx context.Context, creds domain.Credentials) (domain.User, error) {
	if s.auth == nil {
		return domain.User{}, errors.New("session: no authenticator configured")
	}

	sess, err := s.auth.Login(ctx, creds)
	if err != nil {
		return domain.User{}, err
	}
	if !sess.LooksValid() {
		return domain.User{}, domain.ErrBadResponse.WithDetails("sign-in response has no token or user")
	}

	data, err := json.Marshal(sess)
	if err != nil {
		return domain.User{}, fmt.Errorf("encode session: %w", err)
	}
	if err := s.storage.Save(ctx, data); err != nil {
		return domain.User{}, fmt.Errorf("save session: %w", err)
	}

	s.mu.Lock()
	s.state = StateAuthenticated
	s.current = domain.Session{Token: sess.Token, User: sess.User}
	s.mu.Unlock()

	s.logger.Info("signed in", "user", sess.User.DisplayName())
	s.emit(EventSignedIn)
	return *sess.User, nil
}

// SignOut destroys the session. Signing out twice is harmless. The
// in-memory session is dropped even when storage cannot be cleared; the
// storage error is still returned.
func (s *Store) SignOut(ctx context.Context) error {
	err := s.storage.Remove(ctx)
	if s.clear() {
		s.logger.Info("signed out")
		s.emit(EventSignedOut)
	}
	if err != nil {
		return fmt.Errorf("remove session: %w", err)
	}
	return nil
}

// Invalidate destroys the session after the API rejected its credential.
// It does nothing unless the store is authenticated.
func (s *Store) Invalidate() {
	if s.State() != StateAuthenticated {
		return
	}
	if err := s.storage.Remove(context.Background()); err != nil {
		s.logger.Error("remove invalidated session", "error", err)
	}
	if s.clear() {
		s.logger.Warn("session invalidated by the API")
		s.emit(EventInvalidated)
	}
}

// clear moves to StateAnonymous and reports whether the store was
// authenticated.
func (s *Store) clear() bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	was := s.state == StateAuthenticated
	s.state = StateAnonymous
	s.current = domain.Session{}
	return was
}

// Resync re-reads storage after it changed outside this store, such as
// another process signing in or out. Losing the stored session while
// authenticated counts as an invalidation.
func (s *Store) Resync(ctx context.Context) error {
	sess, err := s.load(ctx)
	if err != nil {
		return err
	}

	var ev Event
	s.mu.Lock()
	switch {
	case sess != nil && (s.state != StateAuthenticated || s.current.Token != sess.Token):
		s.state = StateAuthenticated
		s.current = *sess
		ev = EventSignedIn
	case sess == nil && s.state == StateAuthenticated:
		s.state = StateAnonymous
		s.current = domain.Session{}
		ev = EventInvalidated
	case sess == nil:
		s.state = StateAnonymous
	}
	s.mu.Unlock()

	if ev != "" {
		s.logger.Debug("session changed on disk", "event", string(ev))
		s.emit(ev)
	}
	return nil
}

// Token returns the bearer credential, or "" when not authenticated.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateAuthenticated {
		return ""
	}
	return s.current.Token
}

// User returns the signed-in user.
func (s *Store) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.state != StateAuthenticated || s.current.User == nil {
		return domain.User{}, false
	}
	return *s.current.User, true
}

// IsAuthenticated reports whether a session is live.
func (s *Store) IsAuthenticated() bool {
	return s.State() == StateAuthenticated
}

// State returns the current state.
func (s *Store) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Subscribe registers fn for transition events. Events are delivered
// outside the store lock, so fn may call back into the store.
func (s *Store) Subscribe(fn func(Event)) (unsubscribe func()) {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

// Bind invalidates the store whenever client sees a 401.
func (s *Store) Bind(client *connection.HTTPClient) (unbind func()) {
	return client.OnUnauthorized(func(req *http.Request) {
		s.logger.Debug("unauthorized response", "path", req.URL.Path)
		s.Invalidate()
	})
}

func (s *Store) emit(ev Event) {
	s.metrics.RecordSessionEvent(string(ev))

	s.subMu.RLock()
	subs := make([]func(Event), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	s.subMu.RUnlock()

	for _, fn := range subs {
		fn(ev)
	}
}
