package entity

import "time"

// User é o ator autenticado; o ID numérico identifica o autor de cada
// movimento e reserva.
type User struct {
	ID           int64
	Name         string
	Email        string
	PasswordHash string
	Role         string // "admin" | "estoquista" | "vendedor"
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
