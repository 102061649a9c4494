package models

import (
	"strings"
	"time"
)

// InboxType categorizes a received inbox item
type InboxType string

const (
	InboxMentorship   InboxType = "mentorship"
	InboxPartner      InboxType = "partner"
	InboxPartnership  InboxType = "partnership" // older records use the long form
	InboxNotification InboxType = "notification"
)

// InboxStatus is the lifecycle status of an actionable request
type InboxStatus string

const (
	InboxPending  InboxStatus = "pending"
	InboxAccepted InboxStatus = "accepted"
	InboxRejected InboxStatus = "rejected"
)

// LinkedEntityKind identifies what an inbox item links to
type LinkedEntityKind string

const (
	LinkedPlan   LinkedEntityKind = "plan"
	LinkedThread LinkedEntityKind = "thread"
)

// LinkedEntity is a structured pointer to a related entity, rendered as a
// "View Plan" / "View Thread" shortcut.
type LinkedEntity struct {
	Kind LinkedEntityKind `json:"kind"`
	ID   string           `json:"id"`
}

// InboxItem is a received request or notification. Mentorship and partner
// requests carry a pending/accepted/rejected status; plain notifications
// carry none.
type InboxItem struct {
	ID        string            `json:"id"`
	Type      InboxType         `json:"type"`
	Status    InboxStatus       `json:"status,omitempty"`
	Sender    *UserRef          `json:"sender,omitempty"`
	Message   string            `json:"message"`
	Pitch     map[string]string `json:"pitch,omitempty"`
	Linked    *LinkedEntity     `json:"linkedEntity,omitempty"`
	CreatedAt time.Time         `json:"createdAt"`
}

// IsActionable reports whether the item shows accept/reject controls:
// mentorship or partner requests that are still pending. Everything else
// only offers mark-read.
func (i *InboxItem) IsActionable() bool {
	switch i.Type {
	case InboxMentorship, InboxPartner, InboxPartnership:
		return i.Status == InboxPending
	default:
		return false
	}
}

// markerDelimiter separates the visible message text from legacy routing
// markers the server embeds in the message field, e.g. "...|||PLAN:<id>".
const markerDelimiter = "|||"

// legacy marker tags mapped to linked entity kinds
var markerKinds = map[string]LinkedEntityKind{
	"PLAN":   LinkedPlan,
	"THREAD": LinkedThread,
}

// DisplayMessage returns the message text without legacy routing markers.
func (i *InboxItem) DisplayMessage() string {
	text, _ := splitMessage(i.Message)
	return text
}

// LinkedEntity resolves the item's link target. A server-provided
// structured field wins over a legacy in-message marker. When several
// markers appear in one message, the first recognized one wins.
func (i *InboxItem) LinkedEntity() *LinkedEntity {
	if i.Linked != nil {
		return i.Linked
	}
	_, linked := splitMessage(i.Message)
	return linked
}

// splitMessage separates the visible text from the first recognized legacy
// marker. The visible text is everything before the first delimiter.
func splitMessage(message string) (string, *LinkedEntity) {
	parts := strings.Split(message, markerDelimiter)
	if len(parts) == 1 {
		return message, nil
	}

	text := strings.TrimRight(parts[0], " ")
	for _, part := range parts[1:] {
		tag, id, ok := strings.Cut(strings.TrimSpace(part), ":")
		if !ok {
			continue
		}
		kind, known := markerKinds[tag]
		if !known || id == "" {
			continue
		}
		return text, &LinkedEntity{Kind: kind, ID: id}
	}

	return text, nil
}

// RespondPayload is the payload for accepting or rejecting a request
type RespondPayload struct {
	Status InboxStatus `json:"status" binding:"required,oneof=accepted rejected"`
}

// RequestKind is the kind of outgoing request a user can create
type RequestKind string

const (
	RequestPartner     RequestKind = "partner"
	RequestMentorship  RequestKind = "mentorship"
	RequestPublicPitch RequestKind = "public_pitch"
)

// CreateRequestPayload creates a partner/mentorship request or a public pitch
type CreateRequestPayload struct {
	Kind       RequestKind       `json:"kind" binding:"required,oneof=partner mentorship public_pitch"`
	ReceiverID string            `json:"receiverId" binding:"required_unless=Kind public_pitch"`
	Message    string            `json:"message" binding:"omitempty,max=2000"`
	Pitch      map[string]string `json:"pitch" binding:"omitempty,max=20"`
}
