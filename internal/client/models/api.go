package models

// LoginRequest is the body of POST /api/login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is what POST /api/login returns on success.
type LoginResponse struct {
	Token    string `json:"token"`
	UserID   int64  `json:"userId"`
	Username string `json:"username"`
}

// Identity maps the flat login payload onto the persisted identity shape.
func (r LoginResponse) Identity() Identity {
	return Identity{ID: r.UserID, Username: r.Username}
}

// RegisterRequest is the body of POST /api/register.
type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterResponse is what POST /api/register returns on success.
type RegisterResponse struct {
	Token string   `json:"token"`
	User  Identity `json:"user"`
}

// Profile is the body of GET /api/profile/:id.
type Profile struct {
	Username string `json:"username"`
	Email    string `json:"email"`
}

// ProfileUpdate is the body of PUT /api/profile/:id. An empty password keeps
// the current one.
type ProfileUpdate struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password,omitempty"`
}

// ErrorResponse is the error payload the API sends with non-2xx statuses.
type ErrorResponse struct {
	Message string `json:"message,omitempty"`
	Error   string `json:"error,omitempty"`
}
