package entity

import "time"

// Company representa la empresa que lleva la contabilidad. Un usuario es dueño de una sola empresa.
type Company struct {
	ID           string
	OwnerUserID  string
	Name         string
	MobileNumber string
	Address      string
	Email        string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
