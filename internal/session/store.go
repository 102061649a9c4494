// Package session owns "who is logged in": the canonical in-memory copy
// of the session, its durable file mirror, and fan-out to every component
// that cares. The session is replace-only; the store is the single mutator.
package session

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/learncrew/learncrew-agent/internal/api"
	"github.com/learncrew/learncrew-agent/internal/models"
	"github.com/learncrew/learncrew-agent/internal/notify"
	"github.com/learncrew/learncrew-agent/internal/storage"
	"github.com/learncrew/learncrew-agent/pkg/jwt"
	"github.com/learncrew/learncrew-agent/pkg/logger"
	"github.com/learncrew/learncrew-agent/pkg/metrics"
	"go.uber.org/zap"
)

var ErrNotAuthenticated = errors.New("not authenticated")

// Store is the single source of truth for the active session.
//
// State machine: uninitialized -> hydrating -> {authenticated, anonymous};
// authenticated -> anonymous on logout or forced expiry; anonymous ->
// authenticated on successful login/register. Nothing else transitions.
type Store struct {
	apiClient *api.Client
	file      *storage.SessionFile
	watcher   *storage.Watcher
	notifier  notify.Notifier

	mu      sync.RWMutex
	current *models.Session
	loading bool
	subs    []chan *models.Session

	done chan struct{}
}

// NewStore creates the store and synchronously hydrates from the durable
// file, so the first caller already sees the correct state. The watcher
// may be nil (no cross-process sync, used in tests).
func NewStore(apiClient *api.Client, file *storage.SessionFile, watcher *storage.Watcher, notifier notify.Notifier) *Store {
	s := &Store{
		apiClient: apiClient,
		file:      file,
		watcher:   watcher,
		notifier:  notifier,
		loading:   true,
		done:      make(chan struct{}),
	}

	s.hydrate()

	if watcher != nil {
		go s.watchExternalChanges()
	}

	return s
}

// hydrate loads the stored session before anything else runs. A stored
// token that is already past its JWT expiry is discarded rather than
// presented as a live session.
func (s *Store) hydrate() {
	defer func() {
		s.mu.Lock()
		s.loading = false
		s.mu.Unlock()
	}()

	stored, err := s.file.Load()
	if err != nil {
		logger.Warn("Failed to hydrate session, starting anonymous", zap.Error(err))
		return
	}
	if stored == nil {
		return
	}

	if jwt.Expired(stored.Token, time.Now()) {
		logger.Info("Discarding stored session with expired token",
			zap.String("user_id", stored.ID))
		if clearErr := s.file.Clear(); clearErr != nil {
			logger.Warn("Failed to clear expired session file", zap.Error(clearErr))
		}
		metrics.SessionEvents.WithLabelValues("expire").Inc()
		return
	}

	s.mu.Lock()
	s.current = stored
	s.mu.Unlock()

	metrics.SessionEvents.WithLabelValues("hydrate").Inc()
	logger.Info("Session hydrated",
		zap.String("user_id", stored.ID),
		zap.String("role", string(stored.Role)))
}

// Loading reports whether the initial hydration is still in progress
func (s *Store) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Current returns the active session, or nil when anonymous. Callers must
// treat the returned object as read-only.
func (s *Store) Current() *models.Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// IsAuthenticated reports whether a session is active
func (s *Store) IsAuthenticated() bool {
	return s.Current() != nil
}

// Token returns the bearer token of the active session, or an error when
// anonymous
func (s *Store) Token() (string, error) {
	session := s.Current()
	if session == nil {
		return "", ErrNotAuthenticated
	}
	return session.Token, nil
}

// Subscribe registers a subscriber that receives the new session object
// (nil for anonymous) after every replacement. The channel is buffered;
// slow subscribers lose intermediate states, never the latest one.
func (s *Store) Subscribe() <-chan *models.Session {
	ch := make(chan *models.Session, 8)

	s.mu.Lock()
	s.subs = append(s.subs, ch)
	s.mu.Unlock()

	return ch
}

// Login exchanges credentials for a session. On failure the server's
// message is surfaced as a transient notification and state is untouched.
// Never retried.
func (s *Store) Login(ctx context.Context, credentials *models.LoginCredentials) bool {
	session, err := s.apiClient.Login(ctx, credentials)
	if err != nil {
		logger.Warn("Login failed", zap.Error(err))
		s.notifier.Error(api.UserMessage(err))
		return false
	}

	s.persistAndPublish(session)
	metrics.SessionEvents.WithLabelValues("login").Inc()
	s.notifier.Success("Welcome back, " + session.Name + "!")

	logger.Info("Logged in",
		zap.String("user_id", session.ID),
		zap.String("role", string(session.Role)))
	return true
}

// Register creates an account; same contract as Login
func (s *Store) Register(ctx context.Context, form *models.RegisterForm) bool {
	session, err := s.apiClient.Register(ctx, form)
	if err != nil {
		logger.Warn("Registration failed", zap.Error(err))
		s.notifier.Error(api.UserMessage(err))
		return false
	}

	s.persistAndPublish(session)
	metrics.SessionEvents.WithLabelValues("register").Inc()
	s.notifier.Success("Welcome to LearnCrew, " + session.Name + "!")

	logger.Info("Registered",
		zap.String("user_id", session.ID),
		zap.String("role", string(session.Role)))
	return true
}

// Logout clears durable and in-memory state synchronously. No server call.
func (s *Store) Logout() {
	if err := s.file.Clear(); err != nil {
		logger.Warn("Failed to clear session file on logout", zap.Error(err))
	}
	s.replace(nil)
	metrics.SessionEvents.WithLabelValues("logout").Inc()
	logger.Info("Logged out")
}

// Expire forces the session out after the server rejected its token
// (a background poll observed a 401). Notifies the user once.
func (s *Store) Expire() {
	if !s.IsAuthenticated() {
		return
	}
	if err := s.file.Clear(); err != nil {
		logger.Warn("Failed to clear session file on expiry", zap.Error(err))
	}
	s.replace(nil)
	metrics.SessionEvents.WithLabelValues("expire").Inc()
	s.notifier.Error("Your session has expired. Please log in again.")
	logger.Info("Session expired by server")
}

// RefreshFromProfile replaces the session with a fresher server copy of
// the user (balance after a top-up or purchase), keeping the token. The
// whole object is replaced; never a field merge.
func (s *Store) RefreshFromProfile(user *models.User) {
	current := s.Current()
	if current == nil || user == nil || current.ID != user.ID {
		return
	}

	fresh := &models.Session{
		ID:          user.ID,
		Name:        user.Name,
		Username:    user.Username,
		Role:        user.Role,
		Token:       current.Token,
		StarBalance: user.StarBalance,
	}
	s.persistAndPublish(fresh)
}

// Close stops the external-change loop
func (s *Store) Close() {
	close(s.done)
}

// persistAndPublish mirrors the session to disk, then publishes it
func (s *Store) persistAndPublish(session *models.Session) {
	if err := s.file.Save(session); err != nil {
		// In-memory state still wins; the mirror catches up on next write
		logger.Error("Failed to persist session", zap.Error(err))
	}
	s.replace(session)
}

// replace is the single mutator of the in-memory session. The lock is
// held across the fan-out so publishers serialize and the state set here
// is the state every subscriber sees last.
func (s *Store) replace(session *models.Session) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.current = session
	for _, ch := range s.subs {
		select {
		case ch <- session:
		default:
			// Buffer full: drop the oldest so the latest lands. No other
			// publisher can steal the freed slot while the lock is held.
			select {
			case <-ch:
			default:
			}
			ch <- session
		}
	}
}

// watchExternalChanges republishes the stored session whenever another
// process writes the file. Last writer wins; our own writes are
// suppressed by comparing against the current state.
func (s *Store) watchExternalChanges() {
	for {
		select {
		case <-s.done:
			return
		case _, ok := <-s.watcher.Events():
			if !ok {
				return
			}

			stored, err := s.file.Load()
			if err != nil {
				logger.Warn("Failed to re-read session after external change", zap.Error(err))
				continue
			}

			if stored.Equal(s.Current()) {
				continue
			}

			metrics.SessionEvents.WithLabelValues("external_change").Inc()
			if stored == nil {
				logger.Info("Session cleared by another process")
			} else {
				logger.Info("Session replaced by another process",
					zap.String("user_id", stored.ID))
			}
			s.replace(stored)
		}
	}
}
