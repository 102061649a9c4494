package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInboxItem_IsActionable(t *testing.T) {
	tests := []struct {
		name string
		item InboxItem
		want bool
	}{
		{
			name: "pending mentorship request",
			item: InboxItem{Type: InboxMentorship, Status: InboxPending},
			want: true,
		},
		{
			name: "pending partner request",
			item: InboxItem{Type: InboxPartner, Status: InboxPending},
			want: true,
		},
		{
			name: "pending partnership request (long form)",
			item: InboxItem{Type: InboxPartnership, Status: InboxPending},
			want: true,
		},
		{
			name: "accepted request",
			item: InboxItem{Type: InboxMentorship, Status: InboxAccepted},
			want: false,
		},
		{
			name: "rejected request",
			item: InboxItem{Type: InboxPartner, Status: InboxRejected},
			want: false,
		},
		{
			name: "notification never actionable",
			item: InboxItem{Type: InboxNotification},
			want: false,
		},
		{
			name: "notification with pending status still not actionable",
			item: InboxItem{Type: InboxNotification, Status: InboxPending},
			want: false,
		},
		{
			name: "unknown type",
			item: InboxItem{Type: InboxType("something-new"), Status: InboxPending},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.item.IsActionable())
		})
	}
}

func TestInboxItem_DisplayMessage(t *testing.T) {
	tests := []struct {
		name    string
		message string
		want    string
	}{
		{
			name:    "plain message unchanged",
			message: "Your study plan was updated",
			want:    "Your study plan was updated",
		},
		{
			name:    "marker stripped",
			message: "Your study plan was updated|||PLAN:plan-42",
			want:    "Your study plan was updated",
		},
		{
			name:    "trailing space before marker trimmed",
			message: "New thread reply |||THREAD:t-9",
			want:    "New thread reply",
		},
		{
			name:    "everything after first delimiter hidden",
			message: "Heads up|||PLAN:p-1|||THREAD:t-2",
			want:    "Heads up",
		},
		{
			name:    "unknown marker still hidden",
			message: "Heads up|||BOGUS:x-1",
			want:    "Heads up",
		},
		{
			name:    "empty message",
			message: "",
			want:    "",
		},
		{
			name:    "marker only",
			message: "|||PLAN:p-1",
			want:    "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			item := InboxItem{Message: tt.message}
			assert.Equal(t, tt.want, item.DisplayMessage())
		})
	}
}

func TestInboxItem_LinkedEntity(t *testing.T) {
	t.Run("no marker no link", func(t *testing.T) {
		item := InboxItem{Message: "plain text"}
		assert.Nil(t, item.LinkedEntity())
	})

	t.Run("plan marker resolved", func(t *testing.T) {
		item := InboxItem{Message: "Plan updated|||PLAN:plan-42"}
		linked := item.LinkedEntity()
		assert.NotNil(t, linked)
		assert.Equal(t, LinkedPlan, linked.Kind)
		assert.Equal(t, "plan-42", linked.ID)
	})

	t.Run("thread marker resolved", func(t *testing.T) {
		item := InboxItem{Message: "New reply|||THREAD:t-9"}
		linked := item.LinkedEntity()
		assert.NotNil(t, linked)
		assert.Equal(t, LinkedThread, linked.Kind)
		assert.Equal(t, "t-9", linked.ID)
	})

	t.Run("first recognized marker wins", func(t *testing.T) {
		item := InboxItem{Message: "Hi|||THREAD:t-1|||PLAN:p-2"}
		linked := item.LinkedEntity()
		assert.NotNil(t, linked)
		assert.Equal(t, LinkedThread, linked.Kind)
		assert.Equal(t, "t-1", linked.ID)
	})

	t.Run("unrecognized marker skipped in favor of later one", func(t *testing.T) {
		item := InboxItem{Message: "Hi|||BOGUS:x|||PLAN:p-2"}
		linked := item.LinkedEntity()
		assert.NotNil(t, linked)
		assert.Equal(t, LinkedPlan, linked.Kind)
		assert.Equal(t, "p-2", linked.ID)
	})

	t.Run("marker without id ignored", func(t *testing.T) {
		item := InboxItem{Message: "Hi|||PLAN:"}
		assert.Nil(t, item.LinkedEntity())
	})

	t.Run("marker without colon ignored", func(t *testing.T) {
		item := InboxItem{Message: "Hi|||PLAN"}
		assert.Nil(t, item.LinkedEntity())
	})

	t.Run("structured field wins over marker", func(t *testing.T) {
		item := InboxItem{
			Message: "Hi|||PLAN:from-marker",
			Linked:  &LinkedEntity{Kind: LinkedThread, ID: "from-server"},
		}
		linked := item.LinkedEntity()
		assert.NotNil(t, linked)
		assert.Equal(t, LinkedThread, linked.Kind)
		assert.Equal(t, "from-server", linked.ID)
	})
}
