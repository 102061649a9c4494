package models

import "time"

// Thread is a discussion topic in the resource hub
type Thread struct {
	ID           string    `json:"id"`
	Title        string    `json:"title"`
	Body         string    `json:"body"`
	Author       UserRef   `json:"author"`
	Upvotes      int       `json:"upvotes"`
	Upvoted      bool      `json:"upvoted"`
	GuideVotes   int       `json:"guideVotes"`
	Price        int       `json:"price"`
	Purchased    bool      `json:"purchased"`
	Moderators   []UserRef `json:"moderators,omitempty"`
	Instructions string    `json:"instructions,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
	Posts        []Post    `json:"posts,omitempty"`
}

// Post is a reply entry inside a thread
type Post struct {
	ID          string       `json:"id"`
	ThreadID    string       `json:"threadId"`
	Author      UserRef      `json:"author"`
	Body        string       `json:"body"`
	Attachments []Attachment `json:"attachments,omitempty"`
	CreatedAt   time.Time    `json:"createdAt"`
}

// Attachment is a server-side reference to an uploaded file
type Attachment struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	URL  string `json:"url"`
}

// CreateThreadPayload is the non-file portion of a multipart thread creation
type CreateThreadPayload struct {
	Title string `json:"title" form:"title" binding:"required,max=200"`
	Body  string `json:"body" form:"body" binding:"required,max=20000"`
	Price int    `json:"price" form:"price" binding:"omitempty,gte=0"`
}

// CreatePostPayload is the non-file portion of a multipart post creation
type CreatePostPayload struct {
	Body string `json:"body" form:"body" binding:"required,max=20000"`
}

// UpdateThreadPayload updates a thread's title/body
type UpdateThreadPayload struct {
	Title string `json:"title" binding:"omitempty,max=200"`
	Body  string `json:"body" binding:"omitempty,max=20000"`
}

// UpdatePricePayload updates a thread's paywall price
type UpdatePricePayload struct {
	Price int `json:"price" binding:"gte=0"`
}

// InstructionsPayload acknowledges or updates thread instructions
type InstructionsPayload struct {
	Instructions string `json:"instructions" binding:"omitempty,max=5000"`
}
