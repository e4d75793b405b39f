// Package voucher contiene los casos de uso de comprobantes: numeración, creación atómica y consultas.
package voucher

import (
	"context"

	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una transacción, pasando repositorios atados a esa tx.
// Si fn devuelve error no queda ningún efecto persistido (ni número, ni stock, ni líneas).
type TxRunner interface {
	Run(ctx context.Context, fn func(
		partyRepo repository.PartyRepository,
		itemRepo repository.ItemRepository,
		voucherRepo repository.VoucherRepository,
	) error) error
}
