package dto

import "github.com/jhoicas/ledgerbook-api/internal/domain"

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// PageRequest paginación por limit/offset.
type PageRequest struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// DefaultPage normaliza la página: limit en [1, 100] (20 si no vino) y offset no negativo.
func (p *PageRequest) DefaultPage() {
	switch {
	case p.Limit <= 0:
		p.Limit = defaultPageSize
	case p.Limit > maxPageSize:
		p.Limit = maxPageSize
	}
	if p.Offset < 0 {
		p.Offset = 0
	}
}

// Response arma los metadatos para una página con n elementos.
func (p PageRequest) Response(n int) PageResponse {
	return PageResponse{Limit: p.Limit, Offset: p.Offset, Count: n, HasMore: n == p.Limit}
}

// PageResponse metadatos de página. HasMore es una estimación: la página vino llena.
type PageResponse struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Count   int  `json:"count"`
	HasMore bool `json:"has_more"`
}

// ErrorResponse cuerpo de error HTTP. Fields solo viene en errores de validación.
type ErrorResponse struct {
	Code    string              `json:"code"`
	Message string              `json:"message"`
	Fields  []domain.FieldError `json:"fields,omitempty"`
}
