package repository

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// LineageRepository una consulta tipada por salto del recorrido de trazabilidad.
// Todas son de solo lectura y devuelven filas ordenadas de forma estable
// (fecha y luego identificador) para que el grafo sea determinista.
type LineageRepository interface {
	ReceiptsByBatch(ctx context.Context, keys []entity.BatchKey) ([]entity.ReceiptRow, error)
	ConsumptionsByBatch(ctx context.Context, keys []entity.BatchKey) ([]entity.ConsumptionRow, error)
	ConsumptionsByTask(ctx context.Context, taskNos []string) ([]entity.ConsumptionRow, error)
	TasksByNo(ctx context.Context, taskNos []string) ([]entity.ProductionTask, error)
	TasksByOutput(ctx context.Context, keys []entity.BatchKey) ([]entity.ProductionTask, error)
	InspectionsByTask(ctx context.Context, taskNos []string) ([]entity.InspectionRow, error)
	ShipmentsByBatch(ctx context.Context, keys []entity.BatchKey) ([]entity.ShipmentRow, error)
}
