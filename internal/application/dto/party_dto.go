package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreatePartyRequest body para POST /api/parties.
type CreatePartyRequest struct {
	Role           string          `json:"role" validate:"required,oneof=customer supplier"`
	Name           string          `json:"name" validate:"required,min=1,max=200"`
	MobileNumber   string          `json:"mobile_number,omitempty" validate:"omitempty,max=20"`
	Address        string          `json:"address,omitempty" validate:"omitempty,max=500"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
}

// UpdatePartyRequest body para PUT /api/parties/:id. El rol no se puede cambiar.
type UpdatePartyRequest struct {
	Name           string           `json:"name" validate:"required,min=1,max=200"`
	MobileNumber   string           `json:"mobile_number,omitempty" validate:"omitempty,max=20"`
	Address        string           `json:"address,omitempty" validate:"omitempty,max=500"`
	OpeningBalance *decimal.Decimal `json:"opening_balance,omitempty"`
}

// PartyResponse tercero en respuestas.
type PartyResponse struct {
	ID             string          `json:"id"`
	CompanyID      string          `json:"company_id"`
	Role           string          `json:"role"`
	Name           string          `json:"name"`
	MobileNumber   string          `json:"mobile_number,omitempty"`
	Address        string          `json:"address,omitempty"`
	OpeningBalance decimal.Decimal `json:"opening_balance"`
	CreatedAt      time.Time       `json:"created_at"`
}

// PartyListResponse lista paginada de terceros.
type PartyListResponse struct {
	Items []PartyResponse `json:"items"`
	Page  PageResponse    `json:"page"`
}
