package entity

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PartyRole es el rol de la contraparte. Conjunto cerrado: customer o supplier.
type PartyRole string

const (
	RoleCustomer PartyRole = "customer"
	RoleSupplier PartyRole = "supplier"
)

// ParsePartyRole valida un rol recibido como texto.
func ParsePartyRole(s string) (PartyRole, error) {
	switch PartyRole(s) {
	case RoleCustomer, RoleSupplier:
		return PartyRole(s), nil
	}
	return "", fmt.Errorf("rol de tercero desconocido %q", s)
}

// Party representa un cliente o proveedor de la empresa.
// OpeningBalance es inmutable una vez que algún comprobante referencia al tercero.
type Party struct {
	ID             string
	CompanyID      string
	Role           PartyRole
	Name           string
	MobileNumber   string
	Address        string
	OpeningBalance decimal.Decimal
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
