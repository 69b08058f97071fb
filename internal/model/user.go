package model

type User struct {
	ID        string `json:"id"`
	Email     string `json:"email"`
	Name      string `json:"name"`
	Role      string `json:"role"`
	CreatedAt string `json:"created_at"`
}

type GetMeRequest struct{}

type GetMeResponse struct {
	User  User      `json:"user"`
	Stats UserStats `json:"stats"`
}

type GetUserRequest struct {
	UserID string `json:"user_id"`
}

type GetUserResponse struct {
	User  User      `json:"user"`
	Stats UserStats `json:"stats"`
}

type UpdateUserRoleRequest struct {
	UserID string `json:"user_id"`
	Role   string `json:"role"`
}

type UpdateUserRoleResponse struct{}
