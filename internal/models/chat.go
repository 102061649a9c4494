package models

import "time"

// ChatThread summarizes a conversation with another user
type ChatThread struct {
	OtherUser     UserRef   `json:"otherUser"`
	LastMessage   string    `json:"lastMessage"`
	LastMessageAt time.Time `json:"lastMessageAt"`
	Unread        bool      `json:"unread"`
}

// ChatMessage is a single message between two users. Messages are rendered
// in ascending creation-time order as returned by the server; the client
// never re-sorts them.
type ChatMessage struct {
	ID         string    `json:"id"`
	SenderID   string    `json:"senderId"`
	ReceiverID string    `json:"receiverId"`
	Content    string    `json:"content"`
	CreatedAt  time.Time `json:"createdAt"`
}

// SendMessagePayload is the payload for sending a chat message
type SendMessagePayload struct {
	ReceiverID string `json:"receiverId" binding:"required"`
	Content    string `json:"content" binding:"required,max=4000"`
}

// UnreadCountResponse is the unread chat count returned by the server
type UnreadCountResponse struct {
	Count int `json:"count"`
}

// PendingCountResponse is the pending request count returned by the server
type PendingCountResponse struct {
	Count int `json:"count"`
}
