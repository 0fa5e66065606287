package inventory

import (
	"context"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

const (
	defaultPageSize = 50
	maxPageSize     = 500
)

// ReconcileReport compara el stock materializado con lo que dice el ledger.
type ReconcileReport struct {
	MaterialID    string
	LocationID    string
	Stock         decimal.Decimal
	LatestAfter   decimal.Decimal // after_quantity del último asiento (0 sin asientos)
	LedgerSum     decimal.Decimal // Σ signed_quantity
	LatestEntryID int64           // 0 sin asientos
	Consistent    bool
}

// QueryUseCase lecturas sobre stock y ledger. No toma bloqueos.
type QueryUseCase struct {
	stockRepo  repository.StockRepository
	ledgerRepo repository.LedgerRepository
}

// NewQueryUseCase construye el caso de uso de consultas.
func NewQueryUseCase(stockRepo repository.StockRepository, ledgerRepo repository.LedgerRepository) *QueryUseCase {
	return &QueryUseCase{stockRepo: stockRepo, ledgerRepo: ledgerRepo}
}

// GetStock devuelve la existencia de la clave; cero si nunca tuvo movimientos.
func (uc *QueryUseCase) GetStock(ctx context.Context, materialID, locationID string) (*entity.StockRecord, error) {
	if strings.TrimSpace(materialID) == "" || strings.TrimSpace(locationID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.Get(ctx, materialID, locationID)
}

// ListStockByMaterial existencias del material en todas las ubicaciones.
func (uc *QueryUseCase) ListStockByMaterial(ctx context.Context, materialID string) ([]*entity.StockRecord, error) {
	if strings.TrimSpace(materialID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.ListByMaterial(ctx, materialID)
}

// ListStockByLocation existencias de todos los materiales en la ubicación.
func (uc *QueryUseCase) ListStockByLocation(ctx context.Context, locationID string) ([]*entity.StockRecord, error) {
	if strings.TrimSpace(locationID) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.stockRepo.ListByLocation(ctx, locationID)
}

// ListEntries asientos de la clave, del más antiguo al más reciente.
func (uc *QueryUseCase) ListEntries(ctx context.Context, materialID, locationID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	if strings.TrimSpace(materialID) == "" || strings.TrimSpace(locationID) == "" {
		return nil, domain.ErrInvalidInput
	}
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	if offset < 0 {
		offset = 0
	}
	return uc.ledgerRepo.ListByKey(ctx, materialID, locationID, limit, offset)
}

// ListByReference asientos generados por un documento.
func (uc *QueryUseCase) ListByReference(ctx context.Context, referenceType, referenceNo string) ([]*entity.LedgerEntry, error) {
	if strings.TrimSpace(referenceNo) == "" {
		return nil, domain.ErrInvalidInput
	}
	return uc.ledgerRepo.ListByReference(ctx, referenceType, referenceNo)
}

// Reconcile verifica que stock == after del último asiento == Σ cantidades con signo.
func (uc *QueryUseCase) Reconcile(ctx context.Context, materialID, locationID string) (*ReconcileReport, error) {
	stock, err := uc.GetStock(ctx, materialID, locationID)
	if err != nil {
		return nil, err
	}
	latest, err := uc.ledgerRepo.LatestByKey(ctx, materialID, locationID)
	if err != nil {
		return nil, err
	}
	sum, err := uc.ledgerRepo.SumByKey(ctx, materialID, locationID)
	if err != nil {
		return nil, err
	}
	report := &ReconcileReport{
		MaterialID: materialID,
		LocationID: locationID,
		Stock:      stock.Quantity,
		LedgerSum:  sum,
	}
	if latest != nil {
		report.LatestAfter = latest.AfterQuantity
		report.LatestEntryID = latest.ID
	}
	report.Consistent = report.Stock.Equal(report.LatestAfter) && report.Stock.Equal(report.LedgerSum)
	return report, nil
}
