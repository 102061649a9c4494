// Package notify is the transient notification surface of the agent: the
// analogue of UI toasts. Every user-initiated mutation reports success or
// failure here; background refreshes never do.
package notify

import (
	"sync"
	"time"

	"github.com/learncrew/learncrew-agent/pkg/logger"
	"go.uber.org/zap"
)

// Level is the severity of a notification
type Level string

const (
	LevelSuccess Level = "success"
	LevelError   Level = "error"
)

// Notification is one transient message for the user
type Notification struct {
	Level     Level     `json:"level"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"createdAt"`
}

// Notifier is the interface services use to surface transient messages
type Notifier interface {
	Success(message string)
	Error(message string)
}

const maxPending = 50

// Center collects pending notifications until a consumer drains them.
// Oldest entries are dropped once the buffer is full; these are
// transient by definition.
type Center struct {
	mu      sync.Mutex
	pending []Notification
}

// NewCenter creates an empty notification center
func NewCenter() *Center {
	return &Center{}
}

// Success records a success notification
func (c *Center) Success(message string) {
	c.add(LevelSuccess, message)
}

// Error records an error notification
func (c *Center) Error(message string) {
	c.add(LevelError, message)
}

// Drain returns all pending notifications, oldest first, and clears them
func (c *Center) Drain() []Notification {
	c.mu.Lock()
	defer c.mu.Unlock()

	drained := c.pending
	c.pending = nil
	return drained
}

func (c *Center) add(level Level, message string) {
	logger.Debug("Notification", zap.String("level", string(level)), zap.String("message", message))

	c.mu.Lock()
	defer c.mu.Unlock()

	c.pending = append(c.pending, Notification{
		Level:     level,
		Message:   message,
		CreatedAt: time.Now(),
	})
	if len(c.pending) > maxPending {
		c.pending = c.pending[len(c.pending)-maxPending:]
	}
}
