package repository

import (
	"context"
	"time"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/shopspring/decimal"
)

// LedgerRepository puerto del ledger append-only. No existe Update ni Delete.
type LedgerRepository interface {
	// Append inserta el asiento y le asigna ID monotónico.
	Append(ctx context.Context, entry *entity.LedgerEntry) error
	// NextSequence reserva el siguiente consecutivo diario para el código de tipo.
	NextSequence(ctx context.Context, code string, day time.Time) (int, error)

	ListByKey(ctx context.Context, materialID, locationID string, limit, offset int) ([]*entity.LedgerEntry, error)
	ListByReference(ctx context.Context, referenceType, referenceNo string) ([]*entity.LedgerEntry, error)
	// LatestByKey último asiento insertado para la clave (nil si no hay).
	LatestByKey(ctx context.Context, materialID, locationID string) (*entity.LedgerEntry, error)
	SumByKey(ctx context.Context, materialID, locationID string) (decimal.Decimal, error)
}
