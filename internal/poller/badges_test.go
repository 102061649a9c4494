package poller

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/learncrew/learncrew-agent/internal/api"
	"github.com/learncrew/learncrew-agent/internal/models"
	"github.com/learncrew/learncrew-agent/internal/notify"
	"github.com/learncrew/learncrew-agent/internal/session"
	"github.com/learncrew/learncrew-agent/internal/storage"
	"github.com/learncrew/learncrew-agent/pkg/httpclient"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLoggedInStore(t *testing.T) *session.Store {
	t.Helper()
	file, err := storage.NewSessionFile(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, file.Save(&models.Session{ID: "u-1", Token: "opaque-token"}))

	store := session.NewStore(nil, file, nil, notify.NewCenter())
	t.Cleanup(store.Close)
	return store
}

func TestBadges_PollsWhileAuthenticated(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/requests/pending/count":
			_, _ = w.Write([]byte(`{"count":2}`))
		case "/chat/unread/count":
			_, _ = w.Write([]byte(`{"count":7}`))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer upstream.Close()

	store := newLoggedInStore(t)
	badges := NewBadges(store, api.NewClient(upstream.URL, httpclient.NewStandardClient()), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go badges.Run(ctx)

	assert.Eventually(t, func() bool {
		pending, unread := badges.Counts()
		return pending == 2 && unread == 7
	}, time.Second, 5*time.Millisecond)
}

func TestBadges_ResetOnLogout(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"count":5}`))
	}))
	defer upstream.Close()

	store := newLoggedInStore(t)
	badges := NewBadges(store, api.NewClient(upstream.URL, httpclient.NewStandardClient()), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go badges.Run(ctx)

	assert.Eventually(t, func() bool {
		pending, _ := badges.Counts()
		return pending == 5
	}, time.Second, 5*time.Millisecond)

	store.Logout()

	assert.Eventually(t, func() bool {
		pending, unread := badges.Counts()
		return pending == 0 && unread == 0
	}, time.Second, 5*time.Millisecond)
}

func TestBadges_UnauthorizedForcesExpiry(t *testing.T) {
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))
	defer upstream.Close()

	store := newLoggedInStore(t)
	badges := NewBadges(store, api.NewClient(upstream.URL, httpclient.NewStandardClient()), 10*time.Millisecond)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go badges.Run(ctx)

	// The server no longer honors the token: the session must be forced out
	assert.Eventually(t, func() bool {
		return !store.IsAuthenticated()
	}, time.Second, 5*time.Millisecond)
}
