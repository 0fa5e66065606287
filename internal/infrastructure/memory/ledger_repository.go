package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/shopspring/decimal"
)

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo asientos en memoria. Los IDs y consecutivos se reservan al pedirlos y no
// se reutilizan aunque la unidad de trabajo se deshaga.
type LedgerRepo struct {
	s  *Store
	tx *tx
}

// Append asigna ID y guarda una copia del asiento.
func (r *LedgerRepo) Append(_ context.Context, entry *entity.LedgerEntry) error {
	r.s.mu.Lock()
	r.s.nextID++
	entry.ID = r.s.nextID
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = time.Now()
	}
	e := *entry
	if r.tx == nil {
		r.s.entries = append(r.s.entries, &e)
	}
	r.s.mu.Unlock()

	if r.tx != nil {
		r.tx.entries = append(r.tx.entries, &e)
	}
	return nil
}

// NextSequence consecutivo diario por código de tipo, empezando en 1.
func (r *LedgerRepo) NextSequence(_ context.Context, code string, day time.Time) (int, error) {
	k := code + day.Format("20060102")
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.sequences[k]++
	return r.s.sequences[k], nil
}

// snapshot asientos visibles ordenados por ID (confirmados + pendientes propios).
func (r *LedgerRepo) snapshot(match func(*entity.LedgerEntry) bool) []*entity.LedgerEntry {
	r.s.mu.RLock()
	out := make([]*entity.LedgerEntry, 0)
	for _, e := range r.s.entries {
		if match(e) {
			c := *e
			out = append(out, &c)
		}
	}
	r.s.mu.RUnlock()
	if r.tx != nil {
		for _, e := range r.tx.entries {
			if match(e) {
				c := *e
				out = append(out, &c)
			}
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func byKey(materialID, locationID string) func(*entity.LedgerEntry) bool {
	return func(e *entity.LedgerEntry) bool {
		return e.MaterialID == materialID && e.LocationID == locationID
	}
}

// ListByKey página de asientos de la clave, del más antiguo al más reciente.
func (r *LedgerRepo) ListByKey(_ context.Context, materialID, locationID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	all := r.snapshot(byKey(materialID, locationID))
	if offset >= len(all) {
		return []*entity.LedgerEntry{}, nil
	}
	end := len(all)
	if limit > 0 && offset+limit < end {
		end = offset + limit
	}
	return all[offset:end], nil
}

// ListByReference asientos de un documento; referenceType vacío no filtra por tipo.
func (r *LedgerRepo) ListByReference(_ context.Context, referenceType, referenceNo string) ([]*entity.LedgerEntry, error) {
	return r.snapshot(func(e *entity.LedgerEntry) bool {
		return e.ReferenceNo == referenceNo && (referenceType == "" || e.ReferenceType == referenceType)
	}), nil
}

// LatestByKey último asiento de la clave o nil.
func (r *LedgerRepo) LatestByKey(_ context.Context, materialID, locationID string) (*entity.LedgerEntry, error) {
	all := r.snapshot(byKey(materialID, locationID))
	if len(all) == 0 {
		return nil, nil
	}
	return all[len(all)-1], nil
}

// SumByKey Σ signed_quantity de la clave.
func (r *LedgerRepo) SumByKey(_ context.Context, materialID, locationID string) (decimal.Decimal, error) {
	sum := decimal.Zero
	for _, e := range r.snapshot(byKey(materialID, locationID)) {
		sum = sum.Add(e.SignedQuantity)
	}
	return sum, nil
}
