package cache

import (
	"testing"
	"time"

	"github.com/learncrew/learncrew-agent/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestUserSearchCache_RoundTrip(t *testing.T) {
	c := NewUserSearchCache(time.Minute)

	_, found := c.Get("ada")
	assert.False(t, found)

	users := []models.User{{ID: "u-1", Username: "ada"}}
	c.Set("ada", users)

	got, found := c.Get("ada")
	assert.True(t, found)
	assert.Equal(t, users, got)
}

func TestUserSearchCache_NormalizesQueries(t *testing.T) {
	c := NewUserSearchCache(time.Minute)
	c.Set("  Ada ", []models.User{{ID: "u-1"}})

	_, found := c.Get("ada")
	assert.True(t, found)

	_, found = c.Get("ADA")
	assert.True(t, found)
}

func TestUserSearchCache_EntriesExpire(t *testing.T) {
	c := NewUserSearchCache(20 * time.Millisecond)
	c.Set("ada", []models.User{{ID: "u-1"}})

	time.Sleep(40 * time.Millisecond)

	_, found := c.Get("ada")
	assert.False(t, found)
}

func TestUserSearchCache_Flush(t *testing.T) {
	c := NewUserSearchCache(time.Minute)
	c.Set("ada", []models.User{{ID: "u-1"}})

	c.Flush()

	_, found := c.Get("ada")
	assert.False(t, found)
}
