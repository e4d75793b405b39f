package dto

import "time"

// CreateCompanyRequest entrada para el setup de la empresa del usuario.
type CreateCompanyRequest struct {
	Name         string `json:"name" validate:"required,min=2,max=200"`
	MobileNumber string `json:"mobile_number" validate:"required,min=10,max=20"`
	Address      string `json:"address" validate:"required,min=5,max=500"`
	Email        string `json:"email" validate:"required,email"`
}

// CompanyResponse salida de una empresa.
type CompanyResponse struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	MobileNumber string    `json:"mobile_number"`
	Address      string    `json:"address"`
	Email        string    `json:"email"`
	CreatedAt    time.Time `json:"created_at"`
}

// CompanySetupResponse empresa creada más un token nuevo que ya lleva company_id.
type CompanySetupResponse struct {
	Company CompanyResponse `json:"company"`
	Token   string          `json:"token"`
}
