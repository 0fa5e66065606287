package documents

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/application/inventory"
)

// DocumentGuard exclusión mutua por documento. release debe llamarse siempre que Acquire no falle.
// Si no se obtiene a tiempo devuelve *domain.ConcurrencyTimeoutError.
type DocumentGuard interface {
	Acquire(ctx context.Context, key string) (release func(), err error)
}

// BatchApplier lo que la confirmación necesita del motor de movimientos.
type BatchApplier interface {
	ApplyBatch(ctx context.Context, inputs []inventory.MovementInput) (*inventory.BatchResult, error)
}
