package memory

import (
	"context"
	"sort"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
)

var _ repository.LineageRepository = (*LineageRepo)(nil)

// AddProductionTask registra una orden de producción.
func (s *Store) AddProductionTask(t entity.ProductionTask) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tasks = append(s.tasks, t)
}

// AddConsumption registra el consumo de un lote por una orden.
func (s *Store) AddConsumption(c entity.ConsumptionRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.consumptions = append(s.consumptions, c)
}

// AddInspection registra una inspección de calidad.
func (s *Store) AddInspection(i entity.InspectionRow) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.inspections = append(s.inspections, i)
}

// SetParty asocia proveedor o cliente al documento referenciado por los asientos.
func (s *Store) SetParty(referenceNo, party string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.parties[referenceNo] = party
}

// LineageRepo lee asientos confirmados y tablas de documentos. Sin bloqueos de stock.
type LineageRepo struct{ s *Store }

func batchSet(keys []entity.BatchKey) map[entity.BatchKey]struct{} {
	set := make(map[entity.BatchKey]struct{}, len(keys))
	for _, k := range keys {
		set[k] = struct{}{}
	}
	return set
}

func stringSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		set[v] = struct{}{}
	}
	return set
}

// codeOf código del material del asiento; sin catálogo se usa el ID. Requiere s.mu tomado.
func (s *Store) codeOf(materialID string) string {
	if m, ok := s.materials[materialID]; ok && m.Code != "" {
		return m.Code
	}
	return materialID
}

// ReceiptsByBatch entradas de compra y maquila con lote.
func (r *LineageRepo) ReceiptsByBatch(_ context.Context, keys []entity.BatchKey) ([]entity.ReceiptRow, error) {
	set := batchSet(keys)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.ReceiptRow, 0)
	for _, e := range r.s.entries {
		if e.MovementType != entity.MovementPurchaseInbound && e.MovementType != entity.MovementOutsourcedInbound {
			continue
		}
		k := entity.BatchKey{Code: r.s.codeOf(e.MaterialID), BatchNo: e.BatchNo}
		if _, ok := set[k]; !ok || e.BatchNo == "" {
			continue
		}
		out = append(out, entity.ReceiptRow{
			TransactionNo: e.TransactionNo,
			ReferenceType: e.ReferenceType,
			ReferenceNo:   e.ReferenceNo,
			MaterialCode:  k.Code,
			BatchNo:       e.BatchNo,
			Quantity:      e.SignedQuantity.Abs(),
			Party:         r.s.parties[e.ReferenceNo],
			Date:          e.CreatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TransactionNo < out[j].TransactionNo
	})
	return out, nil
}

// ShipmentsByBatch despachos de venta con lote.
func (r *LineageRepo) ShipmentsByBatch(_ context.Context, keys []entity.BatchKey) ([]entity.ShipmentRow, error) {
	set := batchSet(keys)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.ShipmentRow, 0)
	for _, e := range r.s.entries {
		if e.MovementType != entity.MovementSalesOutbound {
			continue
		}
		k := entity.BatchKey{Code: r.s.codeOf(e.MaterialID), BatchNo: e.BatchNo}
		if _, ok := set[k]; !ok || e.BatchNo == "" {
			continue
		}
		out = append(out, entity.ShipmentRow{
			TransactionNo: e.TransactionNo,
			ReferenceNo:   e.ReferenceNo,
			ProductCode:   k.Code,
			BatchNo:       e.BatchNo,
			Quantity:      e.SignedQuantity.Abs(),
			Party:         r.s.parties[e.ReferenceNo],
			Date:          e.CreatedAt,
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].Date.Equal(out[j].Date) {
			return out[i].Date.Before(out[j].Date)
		}
		return out[i].TransactionNo < out[j].TransactionNo
	})
	return out, nil
}

func (r *LineageRepo) consumptions(match func(entity.ConsumptionRow) bool) []entity.ConsumptionRow {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.ConsumptionRow, 0)
	for _, c := range r.s.consumptions {
		if match(c) {
			out = append(out, c)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].IssuedAt.Equal(out[j].IssuedAt) {
			return out[i].IssuedAt.Before(out[j].IssuedAt)
		}
		return out[i].TaskNo < out[j].TaskNo
	})
	return out
}

// ConsumptionsByBatch consumos de los lotes indicados.
func (r *LineageRepo) ConsumptionsByBatch(_ context.Context, keys []entity.BatchKey) ([]entity.ConsumptionRow, error) {
	set := batchSet(keys)
	return r.consumptions(func(c entity.ConsumptionRow) bool {
		_, ok := set[entity.BatchKey{Code: c.MaterialCode, BatchNo: c.BatchNo}]
		return ok
	}), nil
}

// ConsumptionsByTask consumos de las órdenes indicadas.
func (r *LineageRepo) ConsumptionsByTask(_ context.Context, taskNos []string) ([]entity.ConsumptionRow, error) {
	set := stringSet(taskNos)
	return r.consumptions(func(c entity.ConsumptionRow) bool {
		_, ok := set[c.TaskNo]
		return ok
	}), nil
}

func (r *LineageRepo) tasks(match func(entity.ProductionTask) bool) []entity.ProductionTask {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.ProductionTask, 0)
	for _, t := range r.s.tasks {
		if match(t) {
			out = append(out, t)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.Before(out[j].StartedAt)
		}
		return out[i].TaskNo < out[j].TaskNo
	})
	return out
}

// TasksByNo órdenes por número.
func (r *LineageRepo) TasksByNo(_ context.Context, taskNos []string) ([]entity.ProductionTask, error) {
	set := stringSet(taskNos)
	return r.tasks(func(t entity.ProductionTask) bool {
		_, ok := set[t.TaskNo]
		return ok
	}), nil
}

// TasksByOutput órdenes cuyo lote de salida está entre los indicados.
func (r *LineageRepo) TasksByOutput(_ context.Context, keys []entity.BatchKey) ([]entity.ProductionTask, error) {
	set := batchSet(keys)
	return r.tasks(func(t entity.ProductionTask) bool {
		_, ok := set[t.OutputKey()]
		return ok
	}), nil
}

// InspectionsByTask inspecciones de las órdenes indicadas.
func (r *LineageRepo) InspectionsByTask(_ context.Context, taskNos []string) ([]entity.InspectionRow, error) {
	set := stringSet(taskNos)
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	out := make([]entity.InspectionRow, 0)
	for _, i := range r.s.inspections {
		if _, ok := set[i.TaskNo]; ok {
			out = append(out, i)
		}
	}
	sort.SliceStable(out, func(a, b int) bool {
		if !out[a].InspectedAt.Equal(out[b].InspectedAt) {
			return out[a].InspectedAt.Before(out[b].InspectedAt)
		}
		return out[a].InspectionNo < out[b].InspectionNo
	})
	return out, nil
}
