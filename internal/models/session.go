package models

// Role identifies what kind of actor a user is on the platform
type Role string

const (
	RoleStudent Role = "student"
	RoleMentor  Role = "mentor"
)

// Session is the locally cached identity of the logged-in actor.
// The session store owns the canonical in-memory copy; the durable
// session file is a secondary mirror. Sessions are replace-only:
// a fresher server copy fully replaces the old one, never a field merge.
type Session struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	Token       string `json:"token"`
	StarBalance int    `json:"starBalance"`
}

// Equal reports whether two sessions describe the same server state.
// Used by the storage watcher to suppress republishing our own writes.
func (s *Session) Equal(other *Session) bool {
	if s == nil || other == nil {
		return s == other
	}
	return *s == *other
}

// LoginCredentials is the login form payload
type LoginCredentials struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RegisterForm is the registration form payload
type RegisterForm struct {
	Name     string `json:"name" binding:"required,max=100"`
	Username string `json:"username" binding:"required,alphanum,min=3,max=30"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role" binding:"required,oneof=student mentor"`
}
