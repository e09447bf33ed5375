package models

// User is a VibeFlo account.
type User struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	AvatarURL string `json:"avatar_url,omitempty"`
	CreatedAt string `json:"created_at,omitempty"`
}

// LoginInput is the credentials payload for password login. Login is
// the email or username.
type LoginInput struct {
	Login    string `json:"login"`
	Password string `json:"password"`
}

// RegisterInput is the payload for account creation.
type RegisterInput struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// AuthResponse is returned by login and register. Token is the bearer
// token for subsequent requests.
type AuthResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}
