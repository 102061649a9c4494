// Package inbox implements the request lifecycle UI state: the received
// items list, accept/reject on pending requests, and mark-read on
// everything else, with optimistic local removal.
package inbox

import (
	"context"
	"errors"
	"sync"

	"github.com/learncrew/learncrew-agent/internal/api"
	"github.com/learncrew/learncrew-agent/internal/models"
	"github.com/learncrew/learncrew-agent/internal/notify"
	"github.com/learncrew/learncrew-agent/internal/session"
	"github.com/learncrew/learncrew-agent/pkg/logger"
	"github.com/learncrew/learncrew-agent/pkg/metrics"
	"go.uber.org/zap"
)

var (
	ErrInvalidStatus = errors.New("status must be accepted or rejected")
	ErrItemNotFound  = errors.New("inbox item not found")
	ErrNotActionable = errors.New("item is not actionable")
	ErrNotLoggedIn   = errors.New("no active session")
)

// Service holds the client-visible inbox list for the active session
type Service struct {
	apiClient *api.Client
	store     *session.Store
	notifier  notify.Notifier

	mu    sync.RWMutex
	items []models.InboxItem
}

// NewService creates a new inbox Service
func NewService(apiClient *api.Client, store *session.Store, notifier notify.Notifier) *Service {
	return &Service{
		apiClient: apiClient,
		store:     store,
		notifier:  notifier,
	}
}

// Refresh loads the full received-items list, replacing the local list
// wholesale. No incremental merge.
func (s *Service) Refresh(ctx context.Context) error {
	token, err := s.store.Token()
	if err != nil {
		return ErrNotLoggedIn
	}

	items, err := s.apiClient.ListReceived(ctx, token)
	if err != nil {
		logger.Warn("Failed to refresh inbox", zap.Error(err))
		return err
	}

	s.mu.Lock()
	s.items = items
	s.mu.Unlock()

	logger.Info("Inbox refreshed", zap.Int("count", len(items)))
	return nil
}

// Items returns a copy of the current list
func (s *Service) Items() []models.InboxItem {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]models.InboxItem, len(s.items))
	copy(items, s.items)
	return items
}

// Respond accepts or rejects a pending request. On success the item is
// removed from the local list immediately and a success notification is
// posted. On failure the item stays visible and actionable for a manual
// retry; the failure is surfaced as an error notification. Single
// attempt, never retried automatically.
func (s *Service) Respond(ctx context.Context, itemID string, status models.InboxStatus) error {
	if status != models.InboxAccepted && status != models.InboxRejected {
		return ErrInvalidStatus
	}

	item, err := s.find(itemID)
	if err != nil {
		return err
	}
	if !item.IsActionable() {
		return ErrNotActionable
	}

	token, err := s.store.Token()
	if err != nil {
		return ErrNotLoggedIn
	}

	if err := s.apiClient.Respond(ctx, token, itemID, status); err != nil {
		metrics.InboxActions.WithLabelValues("respond", "failure").Inc()
		logger.Warn("Failed to respond to request",
			zap.String("item_id", itemID),
			zap.String("status", string(status)),
			zap.Error(err))
		s.notifier.Error(api.UserMessage(err))
		return err
	}

	s.removeLocal(itemID)
	metrics.InboxActions.WithLabelValues("respond", "success").Inc()

	if status == models.InboxAccepted {
		s.notifier.Success("Request accepted")
	} else {
		s.notifier.Success("Request rejected")
	}

	logger.Info("Responded to request",
		zap.String("item_id", itemID),
		zap.String("status", string(status)))
	return nil
}

// MarkRead acknowledges an item; same optimistic-removal contract as
// Respond.
func (s *Service) MarkRead(ctx context.Context, itemID string) error {
	if _, err := s.find(itemID); err != nil {
		return err
	}

	token, err := s.store.Token()
	if err != nil {
		return ErrNotLoggedIn
	}

	if err := s.apiClient.MarkRead(ctx, token, itemID); err != nil {
		metrics.InboxActions.WithLabelValues("mark_read", "failure").Inc()
		logger.Warn("Failed to mark item read",
			zap.String("item_id", itemID),
			zap.Error(err))
		s.notifier.Error(api.UserMessage(err))
		return err
	}

	s.removeLocal(itemID)
	metrics.InboxActions.WithLabelValues("mark_read", "success").Inc()
	s.notifier.Success("Marked as read")

	logger.Info("Marked item read", zap.String("item_id", itemID))
	return nil
}

func (s *Service) find(itemID string) (*models.InboxItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	for i := range s.items {
		if s.items[i].ID == itemID {
			item := s.items[i]
			return &item, nil
		}
	}
	return nil, ErrItemNotFound
}

func (s *Service) removeLocal(itemID string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.items[:0]
	for _, item := range s.items {
		if item.ID != itemID {
			kept = append(kept, item)
		}
	}
	s.items = kept
}
