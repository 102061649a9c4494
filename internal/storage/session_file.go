// Package storage is the durable mirror of the session: one
// JSON-serialized user object under a fixed key, plus a change watcher
// that turns file writes from other agent processes into an explicit
// broadcast channel.
package storage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/learncrew/learncrew-agent/internal/models"
)

// SessionFileName is the fixed key the session is stored under
const SessionFileName = "learncrew_user.json"

// SessionFile persists the session to a single JSON file. Writes are
// atomic (temp file + rename) so watchers never observe a partial record.
type SessionFile struct {
	path string
}

// NewSessionFile creates a session file handle inside stateDir
func NewSessionFile(stateDir string) (*SessionFile, error) {
	if err := os.MkdirAll(stateDir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create state directory: %w", err)
	}
	return &SessionFile{
		path: filepath.Join(stateDir, SessionFileName),
	}, nil
}

// Path returns the absolute location of the session file
func (f *SessionFile) Path() string {
	return f.path
}

// Dir returns the directory holding the session file
func (f *SessionFile) Dir() string {
	return filepath.Dir(f.path)
}

// Load reads the stored session. A missing file means no session and is
// not an error: it returns (nil, nil).
func (f *SessionFile) Load() (*models.Session, error) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read session file: %w", err)
	}

	var session models.Session
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("failed to decode session file: %w", err)
	}
	return &session, nil
}

// Save writes the session atomically
func (f *SessionFile) Save(session *models.Session) error {
	data, err := json.Marshal(session)
	if err != nil {
		return fmt.Errorf("failed to encode session: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0600); err != nil {
		return fmt.Errorf("failed to write session file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("failed to replace session file: %w", err)
	}
	return nil
}

// Clear removes the stored session. A missing file is not an error.
func (f *SessionFile) Clear() error {
	if err := os.Remove(f.path); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to remove session file: %w", err)
	}
	return nil
}
