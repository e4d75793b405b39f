package dto_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
)

func TestValidate_EmpresaValida(t *testing.T) {
	in := dto.CreateCompanyRequest{Name: "Acme", MobileNumber: "3001234567", Address: "Calle 1 # 2-3", Email: "a@acme.co"}

	assert.NoError(t, dto.Validate(in))
}

func TestValidate_EmpresaCamposInvalidos(t *testing.T) {
	in := dto.CreateCompanyRequest{Name: "A", MobileNumber: "300", Address: "x", Email: "no-es-email"}

	err := dto.Validate(in)
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrValidation)

	fields := map[string]string{}
	for _, f := range domain.FieldsOf(err) {
		fields[f.Field] = f.Message
	}
	assert.Contains(t, fields, "name")
	assert.Contains(t, fields, "mobile_number")
	assert.Contains(t, fields, "address")
	assert.Equal(t, "email inválido", fields["email"])
}

func TestValidate_ComprobanteLineasAnidadas(t *testing.T) {
	in := dto.CreateVoucherRequest{
		Type:    "sales",
		PartyID: "p1",
		Date:    "2024-13-40",
		Lines:   []dto.VoucherLineRequest{{ItemID: ""}},
	}

	err := dto.Validate(in)
	require.Error(t, err)

	fields := map[string]string{}
	for _, f := range domain.FieldsOf(err) {
		fields[f.Field] = f.Message
	}
	assert.Contains(t, fields, "date")
	assert.Equal(t, "es requerido", fields["lines[0].item_id"])
}

func TestValidate_TipoDeComprobanteDesconocido(t *testing.T) {
	err := dto.Validate(dto.CreateVoucherRequest{Type: "refund", PartyID: "p1"})

	require.Error(t, err)
	require.Len(t, domain.FieldsOf(err), 1)
	assert.Equal(t, "type", domain.FieldsOf(err)[0].Field)
}
