// Package ledger expone el libro por tercero: proyección completa y saldo actual.
package ledger

import (
	"context"

	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	domainledger "github.com/jhoicas/ledgerbook-api/internal/domain/ledger"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"github.com/jhoicas/ledgerbook-api/pkg/logger"
)

// LedgerUseCase proyecta comprobantes persistidos. Solo lectura.
type LedgerUseCase struct {
	partyRepo   repository.PartyRepository
	voucherRepo repository.VoucherRepository
	log         *logger.Logger
}

// NewLedgerUseCase construye el caso de uso.
func NewLedgerUseCase(partyRepo repository.PartyRepository, voucherRepo repository.VoucherRepository, log *logger.Logger) *LedgerUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &LedgerUseCase{partyRepo: partyRepo, voucherRepo: voucherRepo, log: log.Component("ledger")}
}

// GetLedger devuelve el libro del tercero en orden (fecha, creación).
func (uc *LedgerUseCase) GetLedger(ctx context.Context, companyID, partyID string) (*dto.LedgerResponse, error) {
	party, vouchers, err := uc.load(ctx, companyID, partyID)
	if err != nil {
		return nil, err
	}
	p := domainledger.Project(party.Role, party.OpeningBalance, vouchers)
	for _, inc := range p.Inconsistencies {
		uc.log.For(ctx).Warn().
			Str("company_id", companyID).
			Str("party_id", party.ID).
			Str("voucher_number", inc.VoucherNumber).
			Str("type", string(inc.Type)).
			Str("role", string(inc.Role)).
			Msg("comprobante no corresponde al rol del tercero; excluido del saldo")
	}

	out := &dto.LedgerResponse{
		PartyID:        party.ID,
		PartyName:      party.Name,
		Role:           string(party.Role),
		OpeningBalance: p.Opening,
		Entries:        make([]dto.LedgerEntryResponse, 0, len(p.Entries)),
		TotalDebit:     p.TotalDebit,
		TotalCredit:    p.TotalCredit,
		ClosingBalance: p.Closing,
	}
	for _, e := range p.Entries {
		out.Entries = append(out.Entries, dto.LedgerEntryResponse{
			Date:          e.Date.Format("2006-01-02"),
			VoucherNumber: e.VoucherNumber,
			Type:          string(e.Type),
			Narration:     e.Narration,
			Opening:       e.Opening,
			Debit:         e.Debit,
			Credit:        e.Credit,
			Balance:       e.Balance,
		})
	}
	for _, inc := range p.Inconsistencies {
		out.Inconsistencies = append(out.Inconsistencies, dto.InconsistentVoucher{
			VoucherID:     inc.VoucherID,
			VoucherNumber: inc.VoucherNumber,
			Type:          string(inc.Type),
		})
	}
	return out, nil
}

// GetBalance devuelve solo el saldo de cierre.
func (uc *LedgerUseCase) GetBalance(ctx context.Context, companyID, partyID string) (*dto.BalanceResponse, error) {
	party, vouchers, err := uc.load(ctx, companyID, partyID)
	if err != nil {
		return nil, err
	}
	return &dto.BalanceResponse{
		PartyID: party.ID,
		Role:    string(party.Role),
		Balance: domainledger.Balance(party.Role, party.OpeningBalance, vouchers),
	}, nil
}

func (uc *LedgerUseCase) load(ctx context.Context, companyID, partyID string) (*entity.Party, []entity.Voucher, error) {
	party, err := uc.partyRepo.GetByID(ctx, partyID)
	if err != nil {
		return nil, nil, err
	}
	if party == nil || party.CompanyID != companyID {
		return nil, nil, domain.NotFound("tercero")
	}
	vouchers, err := uc.voucherRepo.List(ctx, repository.VoucherFilter{
		CompanyID: companyID,
		PartyID:   party.ID,
		Ascending: true,
	})
	if err != nil {
		return nil, nil, err
	}
	// El repositorio ya ordena; se reordena para no depender del adaptador.
	domainledger.SortVouchers(vouchers)
	return party, vouchers, nil
}
