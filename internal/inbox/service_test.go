package inbox

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/learncrew/learncrew-agent/internal/api"
	"github.com/learncrew/learncrew-agent/internal/models"
	"github.com/learncrew/learncrew-agent/internal/notify"
	"github.com/learncrew/learncrew-agent/internal/session"
	"github.com/learncrew/learncrew-agent/internal/storage"
	"github.com/learncrew/learncrew-agent/pkg/httpclient"
	"github.com/learncrew/learncrew-agent/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	_ = logger.Initialize(logger.Config{Level: "error"})
}

const receivedItems = `[
	{"id":"r-1","type":"mentorship","status":"pending","message":"Please mentor me","sender":{"id":"u-2","name":"Ben","username":"ben"}},
	{"id":"r-2","type":"partner","status":"pending","message":"Study partners?","sender":{"id":"u-3","name":"Cy","username":"cy"}},
	{"id":"n-1","type":"notification","message":"Plan updated|||PLAN:p-1"}
]`

type fixture struct {
	service *Service
	center  *notify.Center
	store   *session.Store
}

func newFixture(t *testing.T, handler http.HandlerFunc) *fixture {
	t.Helper()
	upstream := httptest.NewServer(handler)
	t.Cleanup(upstream.Close)

	file, err := storage.NewSessionFile(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, file.Save(&models.Session{ID: "u-1", Token: "opaque-token"}))

	apiClient := api.NewClient(upstream.URL, httpclient.NewStandardClient())
	center := notify.NewCenter()
	store := session.NewStore(apiClient, file, nil, center)
	t.Cleanup(store.Close)

	return &fixture{
		service: NewService(apiClient, store, center),
		center:  center,
		store:   store,
	}
}

func TestService_RefreshReplacesList(t *testing.T) {
	var calls atomic.Int32
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if calls.Add(1) == 1 {
			_, _ = w.Write([]byte(receivedItems))
			return
		}
		_, _ = w.Write([]byte(`[{"id":"r-9","type":"mentorship","status":"pending","message":"New"}]`))
	})

	require.NoError(t, f.service.Refresh(context.Background()))
	assert.Len(t, f.service.Items(), 3)

	// Second refresh fully replaces, never merges
	require.NoError(t, f.service.Refresh(context.Background()))
	items := f.service.Items()
	require.Len(t, items, 1)
	assert.Equal(t, "r-9", items[0].ID)
}

func TestService_RespondRemovesItemAndNotifies(t *testing.T) {
	var respondPath string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPut {
			respondPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(receivedItems))
	})

	require.NoError(t, f.service.Refresh(context.Background()))
	require.NoError(t, f.service.Respond(context.Background(), "r-1", models.InboxAccepted))

	assert.Equal(t, "/requests/r-1/respond", respondPath)

	// Removed locally without waiting for a refresh
	for _, item := range f.service.Items() {
		assert.NotEqual(t, "r-1", item.ID)
	}
	assert.Len(t, f.service.Items(), 2)

	pending := f.center.Drain()
	require.Len(t, pending, 1)
	assert.Equal(t, notify.LevelSuccess, pending[0].Level)
	assert.Equal(t, "Request accepted", pending[0].Message)
}

func TestService_RespondFailureKeepsItemActionable(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPut {
			w.WriteHeader(http.StatusConflict)
			_, _ = w.Write([]byte(`{"error":"Request already answered"}`))
			return
		}
		_, _ = w.Write([]byte(receivedItems))
	})

	require.NoError(t, f.service.Refresh(context.Background()))
	err := f.service.Respond(context.Background(), "r-1", models.InboxRejected)
	require.Error(t, err)

	// Item stays in the list for a manual retry
	assert.Len(t, f.service.Items(), 3)

	pending := f.center.Drain()
	require.Len(t, pending, 1)
	assert.Equal(t, notify.LevelError, pending[0].Level)
	assert.Equal(t, "Request already answered", pending[0].Message)
}

func TestService_RespondValidation(t *testing.T) {
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(receivedItems))
	})
	require.NoError(t, f.service.Refresh(context.Background()))

	assert.ErrorIs(t, f.service.Respond(context.Background(), "r-1", models.InboxPending), ErrInvalidStatus)
	assert.ErrorIs(t, f.service.Respond(context.Background(), "missing", models.InboxAccepted), ErrItemNotFound)
	// Notifications are not actionable
	assert.ErrorIs(t, f.service.Respond(context.Background(), "n-1", models.InboxAccepted), ErrNotActionable)
}

func TestService_MarkReadRemovesItem(t *testing.T) {
	var readPath string
	f := newFixture(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if r.Method == http.MethodPut {
			readPath = r.URL.Path
			w.WriteHeader(http.StatusNoContent)
			return
		}
		_, _ = w.Write([]byte(receivedItems))
	})

	require.NoError(t, f.service.Refresh(context.Background()))
	require.NoError(t, f.service.MarkRead(context.Background(), "n-1"))

	assert.Equal(t, "/requests/n-1/read", readPath)
	assert.Len(t, f.service.Items(), 2)
}

func TestDisplayFor(t *testing.T) {
	assert.Equal(t, "Mentorship Request", DisplayFor(models.InboxMentorship).Label)
	assert.Equal(t, "Partnership Request", DisplayFor(models.InboxPartner).Label)
	assert.Equal(t, DisplayFor(models.InboxPartner), DisplayFor(models.InboxPartnership))
	assert.Equal(t, "Notification", DisplayFor(models.InboxNotification).Label)

	fallback := DisplayFor(models.InboxType("mystery"))
	assert.Equal(t, "Inbox Item", fallback.Label)
	assert.Equal(t, "inbox", fallback.Icon)
}
