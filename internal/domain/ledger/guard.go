package ledger

import (
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// Guard valida que un comprobante nuevo no deje el saldo del tercero en negativo.
// CustomerReceipts extiende la misma regla a recibos de clientes (desactivado por defecto).
type Guard struct {
	CustomerReceipts bool
}

// CheckPayment aplica la regla de saldo no negativo para pagos a proveedores.
// Para cualquier otro rol no hace nada.
func CheckPayment(party *entity.Party, proposed decimal.Decimal, vouchers []entity.Voucher) error {
	if party.Role != entity.RoleSupplier {
		return nil
	}
	return checkNonNegative(party, proposed, vouchers)
}

// Applies indica si la regla se evalúa para este rol y tipo; el caso de uso solo bloquea
// la fila del tercero cuando aplica.
func (g Guard) Applies(role entity.PartyRole, typ entity.VoucherType) bool {
	switch {
	case role == entity.RoleSupplier && typ == entity.VoucherPayment:
		return true
	case g.CustomerReceipts && role == entity.RoleCustomer && typ == entity.VoucherReceipt:
		return true
	}
	return false
}

// Check decide si el comprobante de tipo typ por el importe dado puede admitirse.
func (g Guard) Check(party *entity.Party, typ entity.VoucherType, proposed decimal.Decimal, vouchers []entity.Voucher) error {
	if !g.Applies(party.Role, typ) {
		return nil
	}
	return checkNonNegative(party, proposed, vouchers)
}

func checkNonNegative(party *entity.Party, proposed decimal.Decimal, vouchers []entity.Voucher) error {
	current := Balance(party.Role, party.OpeningBalance, vouchers)
	if current.Sub(proposed).IsNegative() {
		return domain.Constraint("el importe %s excede el saldo pendiente %s del tercero %s",
			proposed.StringFixed(2), current.StringFixed(2), party.Name)
	}
	return nil
}
