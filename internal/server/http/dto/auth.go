package dto

// CredentialsRequest is the customer register/login payload.
type CredentialsRequest struct {
	Username string `json:"username"`
	PIN      string `json:"pin"`
}

// StallLoginRequest authenticates a stall owner.
type StallLoginRequest struct {
	StallID string `json:"stall_id"`
	PIN     string `json:"pin"`
}

// AdminLoginRequest authenticates an operator.
type AdminLoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterResponse struct {
	UID string `json:"uid"`
}

type LoginResponse struct {
	Username string `json:"username"`
	UID      string `json:"uid"`
	Balance  Money  `json:"balance"`
}

type StallLoginResponse struct {
	StallID string `json:"stall_id"`
	Name    string `json:"name"`
}

type AdminLoginResponse struct {
	Username string `json:"username"`
}

// ErrorResponse is the body of every failed request.
type ErrorResponse struct {
	Error   string `json:"error"`
	Balance *Money `json:"balance,omitempty"`
}
