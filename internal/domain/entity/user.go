package entity

import "time"

// User representa un usuario de la aplicación. CompanyID queda vacío hasta completar el setup de empresa.
type User struct {
	ID           string
	CompanyID    string
	Email        string
	PasswordHash string // bcrypt hash, nunca plano en dominio después de persistir
	Name         string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
