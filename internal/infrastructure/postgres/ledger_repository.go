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

var _ repository.LedgerRepository = (*LedgerRepo)(nil)

// LedgerRepo ledger append-only sobre PostgreSQL (usable con pool o tx).
type LedgerRepo struct {
	q   Querier
	seq Querier
}

// NewLedgerRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLedgerRepository(q Querier) *LedgerRepo {
	return &LedgerRepo{q: q, seq: q}
}

// newTxLedgerRepository asientos sobre la tx; consecutivos sobre seq (el pool), en autocommit,
// para que la fila de ledger_sequences no quede bloqueada mientras dura la tx del movimiento.
func newTxLedgerRepository(tx, seq Querier) *LedgerRepo {
	return &LedgerRepo{q: tx, seq: seq}
}

const ledgerColumns = `id, transaction_no, material_id, location_id, movement_type, signed_quantity,
	requested_quantity, unit_id, batch_no, reference_no, reference_type, operator, remark,
	before_quantity, after_quantity, created_at`

// Append inserta el asiento; id lo asigna la secuencia de la tabla.
func (r *LedgerRepo) Append(ctx context.Context, e *entity.LedgerEntry) error {
	query := `
		INSERT INTO ledger_entries (transaction_no, material_id, location_id, movement_type, signed_quantity,
			requested_quantity, unit_id, batch_no, reference_no, reference_type, operator, remark,
			before_quantity, after_quantity, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
		RETURNING id`
	err := r.q.QueryRow(ctx, query,
		e.TransactionNo, e.MaterialID, e.LocationID, string(e.MovementType), e.SignedQuantity,
		e.RequestedQuantity, e.UnitID, e.BatchNo, e.ReferenceNo, e.ReferenceType, e.Operator, e.Remark,
		e.BeforeQuantity, e.AfterQuantity, e.CreatedAt,
	).Scan(&e.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("append ledger entry: transaction_no %s duplicado: %w", e.TransactionNo, err)
		}
		return fmt.Errorf("append ledger entry: %w", err)
	}
	return nil
}

// NextSequence incrementa el consecutivo (código, día). Dentro de TxRunner corre fuera de la tx:
// un rollback deja un hueco en la numeración, no la reutiliza.
func (r *LedgerRepo) NextSequence(ctx context.Context, code string, day time.Time) (int, error) {
	query := `
		INSERT INTO ledger_sequences (code, day, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (code, day) DO UPDATE SET last_value = ledger_sequences.last_value + 1
		RETURNING last_value`
	var seq int
	if err := r.seq.QueryRow(ctx, query, code, day).Scan(&seq); err != nil {
		return 0, lockError("sequence:"+code, fmt.Errorf("next sequence: %w", err))
	}
	return seq, nil
}

func scanEntries(rows pgx.Rows) ([]*entity.LedgerEntry, error) {
	defer rows.Close()
	list := make([]*entity.LedgerEntry, 0)
	for rows.Next() {
		var e entity.LedgerEntry
		var movementType string
		if err := rows.Scan(
			&e.ID, &e.TransactionNo, &e.MaterialID, &e.LocationID, &movementType, &e.SignedQuantity,
			&e.RequestedQuantity, &e.UnitID, &e.BatchNo, &e.ReferenceNo, &e.ReferenceType, &e.Operator, &e.Remark,
			&e.BeforeQuantity, &e.AfterQuantity, &e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scan ledger entry: %w", err)
		}
		e.MovementType = entity.MovementType(movementType)
		list = append(list, &e)
	}
	return list, rows.Err()
}

// ListByKey asientos de la clave del más antiguo al más reciente.
func (r *LedgerRepo) ListByKey(ctx context.Context, materialID, locationID string, limit, offset int) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries WHERE material_id = $1 AND location_id = $2
		ORDER BY id LIMIT $3 OFFSET $4`
	rows, err := r.q.Query(ctx, query, materialID, locationID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries: %w", err)
	}
	return scanEntries(rows)
}

// ListByReference asientos de un documento; referenceType vacío no filtra por tipo.
func (r *LedgerRepo) ListByReference(ctx context.Context, referenceType, referenceNo string) ([]*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries WHERE reference_no = $1 AND ($2 = '' OR reference_type = $2)
		ORDER BY id`
	rows, err := r.q.Query(ctx, query, referenceNo, referenceType)
	if err != nil {
		return nil, fmt.Errorf("list ledger entries by reference: %w", err)
	}
	return scanEntries(rows)
}

// LatestByKey último asiento de la clave o nil.
func (r *LedgerRepo) LatestByKey(ctx context.Context, materialID, locationID string) (*entity.LedgerEntry, error) {
	query := `SELECT ` + ledgerColumns + `
		FROM ledger_entries WHERE material_id = $1 AND location_id = $2
		ORDER BY id DESC LIMIT 1`
	rows, err := r.q.Query(ctx, query, materialID, locationID)
	if err != nil {
		return nil, fmt.Errorf("latest ledger entry: %w", err)
	}
	list, err := scanEntries(rows)
	if err != nil {
		return nil, err
	}
	if len(list) == 0 {
		return nil, nil
	}
	return list[0], nil
}

// SumByKey Σ signed_quantity de la clave.
func (r *LedgerRepo) SumByKey(ctx context.Context, materialID, locationID string) (decimal.Decimal, error) {
	query := `
		SELECT COALESCE(SUM(signed_quantity), 0)
		FROM ledger_entries WHERE material_id = $1 AND location_id = $2`
	var sum decimal.Decimal
	if err := r.q.QueryRow(ctx, query, materialID, locationID).Scan(&sum); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("sum ledger entries: %w", err)
	}
	return sum, nil
}
