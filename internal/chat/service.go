// Package chat implements the messaging screen state: the conversation
// list, the selected conversation with its short-interval history poll,
// sending, and the cached user search used to start new conversations.
package chat

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
	"unicode/utf8"

	"github.com/learncrew/learncrew-agent/internal/api"
	"github.com/learncrew/learncrew-agent/internal/cache"
	"github.com/learncrew/learncrew-agent/internal/models"
	"github.com/learncrew/learncrew-agent/internal/notify"
	"github.com/learncrew/learncrew-agent/internal/poller"
	"github.com/learncrew/learncrew-agent/internal/session"
	apperrors "github.com/learncrew/learncrew-agent/pkg/errors"
	"github.com/learncrew/learncrew-agent/pkg/logger"
	"github.com/learncrew/learncrew-agent/pkg/metrics"
	"go.uber.org/zap"
)

var (
	ErrNotLoggedIn  = errors.New("no active session")
	ErrNoSelection  = errors.New("no conversation selected")
	ErrEmptyMessage = errors.New("message content is empty")
)

// Service holds the chat screen state. At most one conversation is
// selected at a time; selecting a new one cancels the previous history
// poll before starting the next.
type Service struct {
	baseCtx        context.Context
	apiClient      *api.Client
	store          *session.Store
	notifier       notify.Notifier
	searchCache    *cache.UserSearchCache
	pollInterval   time.Duration
	minQueryLength int

	mu            sync.RWMutex
	conversations []models.ChatThread
	selected      string
	messages      []models.ChatMessage
	historyTask   *poller.Task
}

// NewService creates a chat Service. baseCtx bounds the lifetime of the
// history polls (it outlives any single request; cancel it on shutdown).
// pollInterval governs how often the open conversation's history is
// re-fetched; minQueryLength is the shortest search query that hits the
// server.
func NewService(baseCtx context.Context, apiClient *api.Client, store *session.Store, notifier notify.Notifier, searchCache *cache.UserSearchCache, pollInterval time.Duration, minQueryLength int) *Service {
	return &Service{
		baseCtx:        baseCtx,
		apiClient:      apiClient,
		store:          store,
		notifier:       notifier,
		searchCache:    searchCache,
		pollInterval:   pollInterval,
		minQueryLength: minQueryLength,
	}
}

// RefreshConversations reloads the conversation list, replacing it
// wholesale
func (s *Service) RefreshConversations(ctx context.Context) error {
	token, err := s.store.Token()
	if err != nil {
		return ErrNotLoggedIn
	}

	threads, err := s.apiClient.Conversations(ctx, token)
	if err != nil {
		logger.Warn("Failed to refresh conversations", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.conversations = threads
	s.mu.Unlock()
	return nil
}

// Conversations returns a copy of the current conversation list
func (s *Service) Conversations() []models.ChatThread {
	s.mu.RLock()
	defer s.mu.RUnlock()

	threads := make([]models.ChatThread, len(s.conversations))
	copy(threads, s.conversations)
	return threads
}

// Select opens the conversation with otherUserID: fetches its history
// immediately and keeps it fresh on the poll interval until Deselect or
// another Select. The poll runs on the service's base context, so it
// survives the request that triggered the selection. Selecting the
// already-open conversation just forces a refresh.
func (s *Service) Select(otherUserID string) error {
	if _, err := s.store.Token(); err != nil {
		return ErrNotLoggedIn
	}

	s.mu.Lock()
	if s.historyTask != nil {
		s.historyTask.Stop()
	}
	s.selected = otherUserID
	s.messages = nil
	task := poller.NewTask("chat_history", s.pollInterval, func(pollCtx context.Context) error {
		return s.refreshHistory(pollCtx, otherUserID)
	})
	s.historyTask = task
	s.mu.Unlock()

	task.Start(s.baseCtx)

	logger.Info("Conversation opened", zap.String("other_user_id", otherUserID))
	return nil
}

// Deselect closes the open conversation and stops its history poll
func (s *Service) Deselect() {
	s.mu.Lock()
	task := s.historyTask
	s.historyTask = nil
	s.selected = ""
	s.messages = nil
	s.mu.Unlock()

	if task != nil {
		task.Stop()
	}
}

// Selected returns the other user's id for the open conversation, or ""
func (s *Service) Selected() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.selected
}

// Messages returns a copy of the open conversation's history, in the
// server's ascending creation-time order
func (s *Service) Messages() []models.ChatMessage {
	s.mu.RLock()
	defer s.mu.RUnlock()

	messages := make([]models.ChatMessage, len(s.messages))
	copy(messages, s.messages)
	return messages
}

// Send posts a message to the open conversation. The acknowledged copy
// from the server is appended locally; nothing is appended on failure,
// the text stays with the caller for a manual retry.
func (s *Service) Send(ctx context.Context, content string) (*models.ChatMessage, error) {
	if strings.TrimSpace(content) == "" {
		return nil, ErrEmptyMessage
	}

	s.mu.RLock()
	receiverID := s.selected
	s.mu.RUnlock()
	if receiverID == "" {
		return nil, ErrNoSelection
	}

	token, err := s.store.Token()
	if err != nil {
		return nil, ErrNotLoggedIn
	}

	message, err := s.apiClient.SendMessage(ctx, token, &models.SendMessagePayload{
		ReceiverID: receiverID,
		Content:    content,
	})
	if err != nil {
		metrics.ChatMessagesSent.WithLabelValues("failure").Inc()
		logger.Warn("Failed to send message",
			zap.String("receiver_id", receiverID),
			zap.Error(err))
		s.notifier.Error(api.UserMessage(err))
		return nil, err
	}

	s.mu.Lock()
	if s.selected == receiverID {
		s.messages = append(s.messages, *message)
	}
	s.mu.Unlock()

	metrics.ChatMessagesSent.WithLabelValues("success").Inc()

	// Conversation previews are stale now; refresh is best effort
	if err := s.RefreshConversations(ctx); err != nil {
		logger.Debug("Conversation refresh after send failed", zap.Error(err))
	}

	return message, nil
}

// SearchUsers finds users to start a conversation with. Queries shorter
// than the minimum never hit the server and return an empty list; results
// for real queries are cached briefly.
func (s *Service) SearchUsers(ctx context.Context, query string) ([]models.User, error) {
	trimmed := strings.TrimSpace(query)
	// Characters, not bytes: a two-rune accented query stays local
	if utf8.RuneCountInString(trimmed) < s.minQueryLength {
		return []models.User{}, nil
	}

	if users, found := s.searchCache.Get(trimmed); found {
		return users, nil
	}

	token, err := s.store.Token()
	if err != nil {
		return nil, ErrNotLoggedIn
	}

	users, err := s.apiClient.ListUsers(ctx, token, models.UserFilter{Search: trimmed})
	if err != nil {
		logger.Warn("User search failed", zap.String("query", trimmed), zap.Error(err))
		return nil, err
	}

	s.searchCache.Set(trimmed, users)
	return users, nil
}

// refreshHistory replaces the open conversation's history with the
// server copy. A fetch that lands after the selection changed is
// discarded. A 401 force-expires the session, same as the badge poll.
func (s *Service) refreshHistory(ctx context.Context, otherUserID string) error {
	token, err := s.store.Token()
	if err != nil {
		return nil
	}

	messages, err := s.apiClient.History(ctx, token, otherUserID)
	if err != nil {
		if apperrors.Is(err, apperrors.ErrUnauthorized) {
			logger.Info("History poll rejected with 401, expiring session")
			s.store.Expire()
		}
		return err
	}

	s.mu.Lock()
	if s.selected == otherUserID {
		s.messages = messages
	}
	s.mu.Unlock()
	return nil
}
