package storage

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/learncrew/learncrew-agent/internal/models"
	"github.com/learncrew/learncrew-agent/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Initialize(logger.Config{Level: "error"})
}

func testSession() *models.Session {
	return &models.Session{
		ID:          "u-1",
		Name:        "Ada",
		Username:    "ada",
		Role:        models.RoleStudent,
		Token:       "token-abc",
		StarBalance: 12,
	}
}

func TestSessionFile_SaveAndLoad(t *testing.T) {
	file, err := NewSessionFile(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, file.Save(testSession()))

	loaded, err := file.Load()
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.True(t, loaded.Equal(testSession()))
}

func TestSessionFile_LoadMissingIsNotAnError(t *testing.T) {
	file, err := NewSessionFile(t.TempDir())
	require.NoError(t, err)

	loaded, err := file.Load()
	assert.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionFile_LoadCorruptFile(t *testing.T) {
	dir := t.TempDir()
	file, err := NewSessionFile(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(file.Path(), []byte("{not json"), 0600))

	_, err = file.Load()
	assert.Error(t, err)
}

func TestSessionFile_Clear(t *testing.T) {
	file, err := NewSessionFile(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, file.Save(testSession()))
	require.NoError(t, file.Clear())

	loaded, err := file.Load()
	assert.NoError(t, err)
	assert.Nil(t, loaded)

	// Clearing again is a no-op
	assert.NoError(t, file.Clear())
}

func TestSessionFile_FixedFileName(t *testing.T) {
	dir := t.TempDir()
	file, err := NewSessionFile(dir)
	require.NoError(t, err)

	assert.Equal(t, filepath.Join(dir, SessionFileName), file.Path())
	assert.Equal(t, dir, file.Dir())
}

func TestWatcher_SignalsOnExternalWrite(t *testing.T) {
	dir := t.TempDir()
	file, err := NewSessionFile(dir)
	require.NoError(t, err)

	watcher, err := NewWatcher(file)
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, file.Save(testSession()))

	select {
	case <-watcher.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal after the session file was written")
	}
}

func TestWatcher_IgnoresUnrelatedFiles(t *testing.T) {
	dir := t.TempDir()
	file, err := NewSessionFile(dir)
	require.NoError(t, err)

	watcher, err := NewWatcher(file)
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, os.WriteFile(filepath.Join(dir, "other.json"), []byte("{}"), 0600))

	select {
	case <-watcher.Events():
		t.Fatal("unrelated file writes must not produce a signal")
	case <-time.After(300 * time.Millisecond):
	}
}

func TestWatcher_SignalsOnRemove(t *testing.T) {
	dir := t.TempDir()
	file, err := NewSessionFile(dir)
	require.NoError(t, err)
	require.NoError(t, file.Save(testSession()))

	watcher, err := NewWatcher(file)
	require.NoError(t, err)
	defer watcher.Close()

	require.NoError(t, file.Clear())

	select {
	case <-watcher.Events():
	case <-time.After(2 * time.Second):
		t.Fatal("expected a change signal after the session file was removed")
	}
}
