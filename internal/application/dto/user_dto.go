package dto

import "time"

// LoginRequest credenciales de acceso.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// UserResponse usuario sin campos sensibles.
type UserResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	FullName  string    `json:"full_name"`
	Role      string    `json:"role"`
	StationID *string   `json:"station_id,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// LoginResponse token + usuario autenticado.
type LoginResponse struct {
	Token string       `json:"token"`
	User  UserResponse `json:"user"`
}

// RegisterRequest alta de usuario operativo.
type RegisterRequest struct {
	Email     string  `json:"email"`
	Password  string  `json:"password"`
	FullName  string  `json:"full_name"`
	Role      string  `json:"role"`
	StationID *string `json:"station_id"`
}
