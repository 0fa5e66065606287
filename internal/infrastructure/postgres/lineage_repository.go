package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ repository.LineageRepository = (*LineageRepo)(nil)

// LineageRepo una consulta por salto del recorrido. Lecturas en read committed, sin FOR UPDATE.
type LineageRepo struct {
	q Querier
}

// NewLineageRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLineageRepository(q Querier) *LineageRepo {
	return &LineageRepo{q: q}
}

// splitKeys arreglos paralelos para unnest($1::text[], $2::text[]).
func splitKeys(keys []entity.BatchKey) ([]string, []string) {
	codes := make([]string, len(keys))
	batches := make([]string, len(keys))
	for i, k := range keys {
		codes[i] = k.Code
		batches[i] = k.BatchNo
	}
	return codes, batches
}

// ReceiptsByBatch asientos de entrada (compra y maquila) con su recepción.
func (r *LineageRepo) ReceiptsByBatch(ctx context.Context, keys []entity.BatchKey) ([]entity.ReceiptRow, error) {
	codes, batches := splitKeys(keys)
	query := `
		WITH keys AS (SELECT * FROM unnest($1::text[], $2::text[]) AS k(code, batch_no))
		SELECT le.transaction_no, le.reference_type, le.reference_no, m.code, le.batch_no,
			le.signed_quantity, COALESCE(pr.supplier_name, ''), le.created_at
		FROM ledger_entries le
		JOIN materials m ON m.id = le.material_id
		JOIN keys k ON k.code = m.code AND k.batch_no = le.batch_no
		LEFT JOIN purchase_receipts pr ON pr.receipt_no = le.reference_no
		WHERE le.movement_type IN ('purchase_inbound', 'outsourced_inbound')
		ORDER BY le.created_at, le.transaction_no`
	rows, err := r.q.Query(ctx, query, codes, batches)
	if err != nil {
		return nil, fmt.Errorf("lineage receipts: %w", err)
	}
	return collect(rows, func(row pgx.Rows) (entity.ReceiptRow, error) {
		var x entity.ReceiptRow
		err := row.Scan(&x.TransactionNo, &x.ReferenceType, &x.ReferenceNo, &x.MaterialCode, &x.BatchNo,
			&x.Quantity, &x.Party, &x.Date)
		return x, err
	})
}

// ShipmentsByBatch asientos de despacho de venta con su documento de salida.
func (r *LineageRepo) ShipmentsByBatch(ctx context.Context, keys []entity.BatchKey) ([]entity.ShipmentRow, error) {
	codes, batches := splitKeys(keys)
	query := `
		WITH keys AS (SELECT * FROM unnest($1::text[], $2::text[]) AS k(code, batch_no))
		SELECT le.transaction_no, le.reference_no, m.code, le.batch_no,
			abs(le.signed_quantity), COALESCE(so.customer_name, ''), le.created_at
		FROM ledger_entries le
		JOIN materials m ON m.id = le.material_id
		JOIN keys k ON k.code = m.code AND k.batch_no = le.batch_no
		LEFT JOIN sales_outbounds so ON so.outbound_no = le.reference_no
		WHERE le.movement_type = 'sales_outbound'
		ORDER BY le.created_at, le.transaction_no`
	rows, err := r.q.Query(ctx, query, codes, batches)
	if err != nil {
		return nil, fmt.Errorf("lineage shipments: %w", err)
	}
	return collect(rows, func(row pgx.Rows) (entity.ShipmentRow, error) {
		var x entity.ShipmentRow
		err := row.Scan(&x.TransactionNo, &x.ReferenceNo, &x.ProductCode, &x.BatchNo, &x.Quantity, &x.Party, &x.Date)
		return x, err
	})
}

const consumptionColumns = `c.task_no, c.material_code, c.batch_no, c.quantity, c.issued_at`

func scanConsumption(row pgx.Rows) (entity.ConsumptionRow, error) {
	var x entity.ConsumptionRow
	err := row.Scan(&x.TaskNo, &x.MaterialCode, &x.BatchNo, &x.Quantity, &x.IssuedAt)
	return x, err
}

// ConsumptionsByBatch entregas de los lotes a órdenes de producción.
func (r *LineageRepo) ConsumptionsByBatch(ctx context.Context, keys []entity.BatchKey) ([]entity.ConsumptionRow, error) {
	codes, batches := splitKeys(keys)
	query := `
		WITH keys AS (SELECT * FROM unnest($1::text[], $2::text[]) AS k(code, batch_no))
		SELECT ` + consumptionColumns + `
		FROM production_consumptions c
		JOIN keys k ON k.code = c.material_code AND k.batch_no = c.batch_no
		ORDER BY c.issued_at, c.task_no`
	rows, err := r.q.Query(ctx, query, codes, batches)
	if err != nil {
		return nil, fmt.Errorf("lineage consumptions by batch: %w", err)
	}
	return collect(rows, scanConsumption)
}

// ConsumptionsByTask materiales entregados a las órdenes.
func (r *LineageRepo) ConsumptionsByTask(ctx context.Context, taskNos []string) ([]entity.ConsumptionRow, error) {
	query := `
		SELECT ` + consumptionColumns + `
		FROM production_consumptions c
		WHERE c.task_no = ANY($1)
		ORDER BY c.issued_at, c.task_no`
	rows, err := r.q.Query(ctx, query, taskNos)
	if err != nil {
		return nil, fmt.Errorf("lineage consumptions by task: %w", err)
	}
	return collect(rows, scanConsumption)
}

const taskColumns = `t.task_no, t.product_code, t.output_batch_no, t.quantity, t.status, t.started_at`

func scanTask(row pgx.Rows) (entity.ProductionTask, error) {
	var x entity.ProductionTask
	err := row.Scan(&x.TaskNo, &x.ProductCode, &x.OutputBatchNo, &x.Quantity, &x.Status, &x.StartedAt)
	return x, err
}

// TasksByNo órdenes por número.
func (r *LineageRepo) TasksByNo(ctx context.Context, taskNos []string) ([]entity.ProductionTask, error) {
	query := `
		SELECT ` + taskColumns + `
		FROM production_tasks t
		WHERE t.task_no = ANY($1)
		ORDER BY t.started_at, t.task_no`
	rows, err := r.q.Query(ctx, query, taskNos)
	if err != nil {
		return nil, fmt.Errorf("lineage tasks: %w", err)
	}
	return collect(rows, scanTask)
}

// TasksByOutput órdenes que produjeron alguno de los lotes.
func (r *LineageRepo) TasksByOutput(ctx context.Context, keys []entity.BatchKey) ([]entity.ProductionTask, error) {
	codes, batches := splitKeys(keys)
	query := `
		WITH keys AS (SELECT * FROM unnest($1::text[], $2::text[]) AS k(code, batch_no))
		SELECT ` + taskColumns + `
		FROM production_tasks t
		JOIN keys k ON k.code = t.product_code AND k.batch_no = t.output_batch_no
		ORDER BY t.started_at, t.task_no`
	rows, err := r.q.Query(ctx, query, codes, batches)
	if err != nil {
		return nil, fmt.Errorf("lineage tasks by output: %w", err)
	}
	return collect(rows, scanTask)
}

// InspectionsByTask inspecciones de calidad de las órdenes.
func (r *LineageRepo) InspectionsByTask(ctx context.Context, taskNos []string) ([]entity.InspectionRow, error) {
	query := `
		SELECT i.inspection_no, i.task_no, i.product_code, i.batch_no, i.result, i.inspector, i.inspected_at
		FROM quality_inspections i
		WHERE i.task_no = ANY($1)
		ORDER BY i.inspected_at, i.inspection_no`
	rows, err := r.q.Query(ctx, query, taskNos)
	if err != nil {
		return nil, fmt.Errorf("lineage inspections: %w", err)
	}
	return collect(rows, func(row pgx.Rows) (entity.InspectionRow, error) {
		var x entity.InspectionRow
		err := row.Scan(&x.InspectionNo, &x.TaskNo, &x.ProductCode, &x.BatchNo, &x.Result, &x.Inspector, &x.InspectedAt)
		return x, err
	})
}

// collect recorre las filas con scan y cierra el cursor.
func collect[T any](rows pgx.Rows, scan func(pgx.Rows) (T, error)) ([]T, error) {
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		x, err := scan(rows)
		if err != nil {
			return nil, fmt.Errorf("scan lineage row: %w", err)
		}
		out = append(out, x)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("lineage rows: %w", err)
	}
	return out, nil
}
