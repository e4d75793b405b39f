package inventory

import (
	"context"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jhoicas/ledgerbook-api/internal/application/dto"
	"github.com/jhoicas/ledgerbook-api/internal/domain"
	"github.com/jhoicas/ledgerbook-api/internal/domain/entity"
	"github.com/jhoicas/ledgerbook-api/internal/domain/repository"
	"github.com/jhoicas/ledgerbook-api/internal/domain/stock"
	"github.com/jhoicas/ledgerbook-api/pkg/logger"
	"github.com/shopspring/decimal"
)

// ItemUseCase CRUD de artículos. El stock actual solo cambia por comprobantes
// (o por el desplazamiento que produce editar el stock inicial).
type ItemUseCase struct {
	repo        repository.ItemRepository
	voucherRepo repository.VoucherRepository
	log         *logger.Logger
}

// NewItemUseCase construye el caso de uso.
func NewItemUseCase(repo repository.ItemRepository, voucherRepo repository.VoucherRepository, log *logger.Logger) *ItemUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ItemUseCase{repo: repo, voucherRepo: voucherRepo, log: log.Component("inventory")}
}

// Create registra un artículo con stock actual = stock inicial.
func (uc *ItemUseCase) Create(ctx context.Context, companyID string, in dto.CreateItemRequest) (*dto.ItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := validateQuantities(in.Rate, in.OpeningStock, in.ReorderLevel); err != nil {
		return nil, err
	}
	now := time.Now()
	it := &entity.Item{
		ID:           uuid.New().String(),
		CompanyID:    companyID,
		Name:         strings.TrimSpace(in.Name),
		Description:  strings.TrimSpace(in.Description),
		Unit:         strings.TrimSpace(in.Unit),
		Rate:         in.Rate,
		OpeningStock: in.OpeningStock,
		CurrentStock: in.OpeningStock,
		ReorderLevel: in.ReorderLevel,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if err := uc.repo.Create(ctx, it); err != nil {
		return nil, err
	}
	return ToItemResponse(it), nil
}

// GetByID obtiene un artículo de la empresa.
func (uc *ItemUseCase) GetByID(ctx context.Context, companyID, id string) (*dto.ItemResponse, error) {
	it, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	return ToItemResponse(it), nil
}

// List lista artículos con paginación.
func (uc *ItemUseCase) List(ctx context.Context, companyID string, page dto.PageRequest) (*dto.ItemListResponse, error) {
	page.DefaultPage()
	list, err := uc.repo.ListByCompany(ctx, companyID, page.Limit, page.Offset)
	if err != nil {
		return nil, err
	}
	items := make([]dto.ItemResponse, 0, len(list))
	for _, it := range list {
		items = append(items, *ToItemResponse(it))
	}
	return &dto.ItemListResponse{
		Items: items,
		Page:  page.Response(len(items)),
	}, nil
}

// Update modifica los datos maestros. Cambiar el stock inicial desplaza el stock actual
// en la misma diferencia para que siga valiendo inicial + compras − ventas.
func (uc *ItemUseCase) Update(ctx context.Context, companyID, id string, in dto.UpdateItemRequest) (*dto.ItemResponse, error) {
	if err := dto.Validate(in); err != nil {
		return nil, err
	}
	if err := validateQuantities(in.Rate, in.OpeningStock, in.ReorderLevel); err != nil {
		return nil, err
	}
	it, err := uc.get(ctx, companyID, id)
	if err != nil {
		return nil, err
	}
	it.Name = strings.TrimSpace(in.Name)
	it.Description = strings.TrimSpace(in.Description)
	it.Unit = strings.TrimSpace(in.Unit)
	it.Rate = in.Rate
	it.OpeningStock = in.OpeningStock
	it.ReorderLevel = in.ReorderLevel
	it.UpdatedAt = time.Now()
	if err := uc.repo.Update(ctx, it); err != nil {
		return nil, err
	}
	return ToItemResponse(it), nil
}

// Delete elimina un artículo sin líneas de comprobante.
func (uc *ItemUseCase) Delete(ctx context.Context, companyID, id string) error {
	it, err := uc.get(ctx, companyID, id)
	if err != nil {
		return err
	}
	used, err := uc.repo.HasPostings(ctx, it.ID)
	if err != nil {
		return err
	}
	if used {
		return domain.Constraint("el artículo %s tiene movimientos y no se puede eliminar", it.Name)
	}
	return uc.repo.Delete(ctx, it.ID)
}

func (uc *ItemUseCase) get(ctx context.Context, companyID, id string) (*entity.Item, error) {
	it, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if it == nil || it.CompanyID != companyID {
		return nil, domain.NotFound("artículo")
	}
	return it, nil
}

func validateQuantities(rate, opening, reorder decimal.Decimal) error {
	var fields []domain.FieldError
	switch {
	case rate.IsNegative():
		fields = append(fields, domain.FieldError{Field: "rate", Message: "debe ser >= 0"})
	case !entity.FitsScale(rate, entity.MoneyScale):
		fields = append(fields, domain.FieldError{Field: "rate", Message: "máximo 2 decimales"})
	}
	switch {
	case opening.IsNegative():
		fields = append(fields, domain.FieldError{Field: "opening_stock", Message: "debe ser >= 0"})
	case !entity.FitsScale(opening, entity.QuantityScale):
		fields = append(fields, domain.FieldError{Field: "opening_stock", Message: "máximo 4 decimales"})
	}
	switch {
	case reorder.IsNegative():
		fields = append(fields, domain.FieldError{Field: "reorder_level", Message: "debe ser >= 0"})
	case !entity.FitsScale(reorder, entity.QuantityScale):
		fields = append(fields, domain.FieldError{Field: "reorder_level", Message: "máximo 4 decimales"})
	}
	if len(fields) > 0 {
		return domain.Validation("datos inválidos", fields...)
	}
	return nil
}

// ToItemResponse convierte la entidad; LowStock se calcula en cada lectura.
func ToItemResponse(it *entity.Item) *dto.ItemResponse {
	return &dto.ItemResponse{
		ID:           it.ID,
		CompanyID:    it.CompanyID,
		Name:         it.Name,
		Description:  it.Description,
		Unit:         it.Unit,
		Rate:         it.Rate,
		OpeningStock: it.OpeningStock,
		CurrentStock: it.CurrentStock,
		ReorderLevel: it.ReorderLevel,
		LowStock:     stock.IsLowStock(it),
		CreatedAt:    it.CreatedAt,
	}
}
