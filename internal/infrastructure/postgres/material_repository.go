package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ repository.MaterialRepository = (*MaterialRepo)(nil)

// MaterialRepo lectura del catálogo de materiales (tabla mantenida por el módulo de datos base).
type MaterialRepo struct {
	q Querier
}

// NewMaterialRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMaterialRepository(q Querier) *MaterialRepo {
	return &MaterialRepo{q: q}
}

// GetByID obtiene un material por ID; domain.ErrNotFound si no existe.
func (r *MaterialRepo) GetByID(ctx context.Context, id string) (*entity.Material, error) {
	return r.get(ctx, `SELECT id, code, name, unit_id FROM materials WHERE id = $1`, id)
}

// GetByCode obtiene un material por código.
func (r *MaterialRepo) GetByCode(ctx context.Context, code string) (*entity.Material, error) {
	return r.get(ctx, `SELECT id, code, name, unit_id FROM materials WHERE code = $1`, code)
}

func (r *MaterialRepo) get(ctx context.Context, query, arg string) (*entity.Material, error) {
	var m entity.Material
	err := r.q.QueryRow(ctx, query, arg).Scan(&m.ID, &m.Code, &m.Name, &m.UnitID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrNotFound
		}
		return nil, fmt.Errorf("get material: %w", err)
	}
	return &m, nil
}
