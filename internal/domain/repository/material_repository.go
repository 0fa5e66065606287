package repository

import (
	"context"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// MaterialRepository acceso de solo lectura al catálogo de materiales (colaborador externo).
type MaterialRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Material, error)
	GetByCode(ctx context.Context, code string) (*entity.Material, error)
}
