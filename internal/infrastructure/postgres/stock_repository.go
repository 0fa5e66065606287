package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ repository.StockRepository = (*StockRepo)(nil)

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Get obtiene la existencia actual; cero si la clave no tiene fila.
func (r *StockRepo) Get(ctx context.Context, materialID, locationID string) (*entity.StockRecord, error) {
	query := `
		SELECT material_id, location_id, quantity, updated_at
		FROM stock WHERE material_id = $1 AND location_id = $2`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, materialID, locationID).Scan(
		&s.MaterialID, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return &entity.StockRecord{MaterialID: materialID, LocationID: locationID, Quantity: decimal.Zero}, nil
		}
		return nil, fmt.Errorf("get stock: %w", err)
	}
	return &s, nil
}

// GetForUpdate materializa la fila si no existe y la bloquea (SELECT FOR UPDATE).
// La espera queda acotada por el lock_timeout de la transacción.
func (r *StockRepo) GetForUpdate(ctx context.Context, materialID, locationID string) (*entity.StockRecord, error) {
	key := entity.StockKey{MaterialID: materialID, LocationID: locationID}.String()
	insert := `
		INSERT INTO stock (material_id, location_id, quantity, updated_at)
		VALUES ($1, $2, 0, now())
		ON CONFLICT (material_id, location_id) DO NOTHING`
	if _, err := r.q.Exec(ctx, insert, materialID, locationID); err != nil {
		return nil, lockError(key, fmt.Errorf("ensure stock row: %w", err))
	}

	query := `
		SELECT material_id, location_id, quantity, updated_at
		FROM stock WHERE material_id = $1 AND location_id = $2
		FOR UPDATE`
	var s entity.StockRecord
	err := r.q.QueryRow(ctx, query, materialID, locationID).Scan(
		&s.MaterialID, &s.LocationID, &s.Quantity, &s.UpdatedAt,
	)
	if err != nil {
		return nil, lockError(key, fmt.Errorf("get stock for update: %w", err))
	}
	return &s, nil
}

// Upsert inserta o actualiza la cantidad en stock (por material y ubicación).
func (r *StockRepo) Upsert(ctx context.Context, stock *entity.StockRecord) error {
	query := `
		INSERT INTO stock (material_id, location_id, quantity, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (material_id, location_id)
		DO UPDATE SET quantity = EXCLUDED.quantity, updated_at = EXCLUDED.updated_at`
	updatedAt := stock.UpdatedAt
	if updatedAt.IsZero() {
		updatedAt = time.Now()
	}
	_, err := r.q.Exec(ctx, query, stock.MaterialID, stock.LocationID, stock.Quantity, updatedAt)
	if err != nil {
		return fmt.Errorf("upsert stock: %w", err)
	}
	return nil
}

// ListByMaterial existencias del material en todas sus ubicaciones.
func (r *StockRepo) ListByMaterial(ctx context.Context, materialID string) ([]*entity.StockRecord, error) {
	return r.list(ctx, `
		SELECT material_id, location_id, quantity, updated_at
		FROM stock WHERE material_id = $1 ORDER BY location_id`, materialID)
}

// ListByLocation existencias de la ubicación.
func (r *StockRepo) ListByLocation(ctx context.Context, locationID string) ([]*entity.StockRecord, error) {
	return r.list(ctx, `
		SELECT material_id, location_id, quantity, updated_at
		FROM stock WHERE location_id = $1 ORDER BY material_id`, locationID)
}

func (r *StockRepo) list(ctx context.Context, query string, arg string) ([]*entity.StockRecord, error) {
	rows, err := r.q.Query(ctx, query, arg)
	if err != nil {
		return nil, fmt.Errorf("list stock: %w", err)
	}
	defer rows.Close()
	var list []*entity.StockRecord
	for rows.Next() {
		var s entity.StockRecord
		if err := rows.Scan(&s.MaterialID, &s.LocationID, &s.Quantity, &s.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan stock: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}
