package inventory

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

// TxRunner ejecuta una función dentro de una unidad de trabajo atómica, pasando repositorios atados a ella.
// Los bloqueos tomados con StockRepository.GetForUpdate se liberan al confirmar o deshacer.
type TxRunner interface {
	Run(ctx context.Context, fn func(
		stockRepo repository.StockRepository,
		ledgerRepo repository.LedgerRepository,
	) error) error
}
