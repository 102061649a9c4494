package models

// UserRef is a lightweight reference to another user (inbox senders,
// chat counterparties).
type UserRef struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// User is a full profile as returned by the users resource
type User struct {
	ID                string   `json:"id"`
	Name              string   `json:"name"`
	Username          string   `json:"username"`
	Role              Role     `json:"role"`
	Bio               string   `json:"bio,omitempty"`
	Skills            []string `json:"skills,omitempty"`
	LookingForPartner bool     `json:"lookingForPartner"`
	LookingForMentee  bool     `json:"lookingForMentee"`
	StarBalance       int      `json:"starBalance"`
}

// UserFilter narrows a users listing. Zero values mean "no filter".
type UserFilter struct {
	Role              Role
	Search            string
	LookingForPartner bool
	LookingForMentee  bool
}

// UpdateProfilePayload is the payload for updating the caller's own profile
type UpdateProfilePayload struct {
	Name              string   `json:"name" binding:"omitempty,max=100"`
	Bio               string   `json:"bio" binding:"omitempty,max=2000"`
	Skills            []string `json:"skills" binding:"omitempty,max=20,dive,max=50"`
	LookingForPartner *bool    `json:"lookingForPartner,omitempty"`
	LookingForMentee  *bool    `json:"lookingForMentee,omitempty"`
}

// TopUpPayload is the payload for a star balance top-up
type TopUpPayload struct {
	Amount int `json:"amount" binding:"required,gt=0"`
}
