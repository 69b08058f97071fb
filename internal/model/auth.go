package model

// AccessToken is the object embedded into the JWT access token.
type AccessToken struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Password string `json:"password"`
}

type RegisterResponse struct{}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	AccessToken string `json:"access_token"`
	User        User   `json:"user"`
}

func (r *LoginResponse) SessionInfo() map[string]any {
	return map[string]any{"user_id": r.User.ID}
}

type IssueCSRFTokenRequest struct{}

type IssueCSRFTokenResponse struct {
	// Token duplicates the readable cookie so non-browser clients can echo it
	// back in the configured header.
	Token string `json:"token"`
}
