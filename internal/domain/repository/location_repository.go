package repository

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// LocationRepository acceso de solo lectura al catálogo de ubicaciones.
type LocationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Location, error)
}
