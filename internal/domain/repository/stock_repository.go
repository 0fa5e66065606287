package repository

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// StockRepository puerto del Stock Store: lectura/escritura de (material, ubicación) → cantidad.
// No valida nada; la política de stock no negativo vive en el MovementApplier.
type StockRepository interface {
	// Get devuelve el registro; si no existe devuelve cantidad cero (sin error).
	Get(ctx context.Context, materialID, locationID string) (*entity.StockRecord, error)
	// GetForUpdate bloquea la clave hasta el fin de la unidad de trabajo (SELECT FOR UPDATE).
	// Si la fila no existe la crea en cero para que el bloqueo exista.
	GetForUpdate(ctx context.Context, materialID, locationID string) (*entity.StockRecord, error)
	Upsert(ctx context.Context, stock *entity.StockRecord) error
	ListByMaterial(ctx context.Context, materialID string) ([]*entity.StockRecord, error)
	ListByLocation(ctx context.Context, locationID string) ([]*entity.StockRecord, error)
}
