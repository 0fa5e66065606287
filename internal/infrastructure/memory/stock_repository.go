package memory

import (
	"context"
	"errors"
	"sort"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.StockRepository = (*StockRepo)(nil)

var errNoUnitOfWork = errors.New("GetForUpdate requiere una unidad de trabajo")

// StockRepo stock en memoria; con tx != nil lee primero lo pendiente de la unidad de trabajo.
type StockRepo struct {
	s  *Store
	tx *tx
}

func (r *StockRepo) read(materialID, locationID string) *entity.StockRecord {
	k := entity.StockKey{MaterialID: materialID, LocationID: locationID}
	if r.tx != nil {
		if rec, ok := r.tx.stock[k]; ok {
			return &rec
		}
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	if rec, ok := r.s.stock[k]; ok {
		return &rec
	}
	return &entity.StockRecord{MaterialID: materialID, LocationID: locationID, Quantity: decimal.Zero}
}

// Get devuelve el registro o uno en cero si la clave no existe.
func (r *StockRepo) Get(_ context.Context, materialID, locationID string) (*entity.StockRecord, error) {
	return r.read(materialID, locationID), nil
}

// GetForUpdate toma el semáforo de la clave hasta el fin de la unidad de trabajo.
func (r *StockRepo) GetForUpdate(ctx context.Context, materialID, locationID string) (*entity.StockRecord, error) {
	if r.tx == nil {
		return nil, errNoUnitOfWork
	}
	k := entity.StockKey{MaterialID: materialID, LocationID: locationID}
	if err := r.s.lock(ctx, r.tx, k); err != nil {
		return nil, err
	}
	return r.read(materialID, locationID), nil
}

// Upsert deja el registro pendiente (en tx) o lo escribe directamente.
func (r *StockRepo) Upsert(_ context.Context, stock *entity.StockRecord) error {
	rec := *stock
	if r.tx != nil {
		r.tx.stock[rec.Key()] = rec
		return nil
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.stock[rec.Key()] = rec
	return nil
}

// ListByMaterial registros confirmados del material ordenados por ubicación.
func (r *StockRepo) ListByMaterial(_ context.Context, materialID string) ([]*entity.StockRecord, error) {
	return r.list(func(k entity.StockKey) bool { return k.MaterialID == materialID }), nil
}

// ListByLocation registros confirmados de la ubicación ordenados por material.
func (r *StockRepo) ListByLocation(_ context.Context, locationID string) ([]*entity.StockRecord, error) {
	return r.list(func(k entity.StockKey) bool { return k.LocationID == locationID }), nil
}

func (r *StockRepo) list(match func(entity.StockKey) bool) []*entity.StockRecord {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]*entity.StockRecord, 0)
	for k, rec := range r.s.stock {
		if match(k) {
			rec := rec
			out = append(out, &rec)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key().Less(out[j].Key()) })
	return out
}
