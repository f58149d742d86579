package entity

import "time"

// Roles de usuario.
const (
	RoleAdmin   = "admin"   // oficina central
	RoleStation = "station" // operador de estación
)

// User usuario operativo del sistema. StationID es nil para usuarios de oficina.
type User struct {
	ID           string
	Email        string
	PasswordHash string
	FullName     string
	Role         string
	StationID    *string
	Status       string // active | inactive
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
