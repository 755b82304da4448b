package dto

// LoginRequest: payload for token login
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse: response payload after successful login
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}
