package lineage_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-ledger/internal/application/lineage"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/memory"
)

var day = time.Date(2026, 10, 1, 8, 0, 0, 0, time.UTC)

func at(h int) time.Time { return day.Add(time.Duration(h) * time.Hour) }

func qty(v int64) decimal.Decimal { return decimal.NewFromInt(v) }

// plant fixture: RM-001/L1 se recibe, T-1 lo consume y produce FG-100/B1,
// QC-1 inspecciona T-1 y SO-77 despacha FG-100/B1.
func plant(t *testing.T) *memory.Store {
	t.Helper()
	ctx := context.Background()
	s := memory.NewStore(time.Second)
	s.AddMaterial(entity.Material{ID: "mat-1", Code: "RM-001", UnitID: "kg"})
	s.AddMaterial(entity.Material{ID: "mat-2", Code: "RM-002", UnitID: "kg"})
	s.AddMaterial(entity.Material{ID: "mat-3", Code: "FG-100", UnitID: "und"})
	s.SetParty("RC-1", "Proveedor Andino")
	s.SetParty("SO-77", "Cliente Norte")

	ledger := s.Ledger()
	require.NoError(t, ledger.Append(ctx, &entity.LedgerEntry{
		TransactionNo: "PI261001001", MaterialID: "mat-1", LocationID: "wh-1",
		MovementType: entity.MovementPurchaseInbound, SignedQuantity: qty(50), RequestedQuantity: qty(50),
		BatchNo: "L1", ReferenceNo: "RC-1", ReferenceType: "purchase_receipt", AfterQuantity: qty(50), CreatedAt: at(0),
	}))
	require.NoError(t, ledger.Append(ctx, &entity.LedgerEntry{
		TransactionNo: "SO261003001", MaterialID: "mat-3", LocationID: "wh-1",
		MovementType: entity.MovementSalesOutbound, SignedQuantity: qty(-10), RequestedQuantity: qty(-10),
		BatchNo: "B1", ReferenceNo: "SO-77", ReferenceType: "sales_outbound", CreatedAt: at(48),
	}))

	s.AddProductionTask(entity.ProductionTask{TaskNo: "T-1", ProductCode: "FG-100", OutputBatchNo: "B1", Quantity: qty(20), Status: "done", StartedAt: at(2)})
	s.AddConsumption(entity.ConsumptionRow{TaskNo: "T-1", MaterialCode: "RM-001", BatchNo: "L1", Quantity: qty(30), IssuedAt: at(3)})
	s.AddInspection(entity.InspectionRow{InspectionNo: "QC-1", TaskNo: "T-1", ProductCode: "FG-100", BatchNo: "B1", Result: "aprobado", Inspector: "ana", InspectedAt: at(10)})
	return s
}

func TestResolve_ForwardFullChain(t *testing.T) {
	s := plant(t)
	r := lineage.NewResolver(s.Lineage(), 0)

	g, err := r.Resolve(context.Background(), entity.DirectionForward, "RM-001", "L1")
	require.NoError(t, err)

	ids := make([]string, len(g.Nodes))
	for i, n := range g.Nodes {
		ids[i] = n.ID
	}
	assert.Equal(t, []string{
		"material_batch:RM-001/L1",
		"receipt:PI261001001",
		"production_task:T-1",
		"material_batch:FG-100/B1",
		"inspection:QC-1",
		"shipment:SO261003001",
	}, ids)
	assert.ElementsMatch(t, []entity.LineageEdge{
		{Source: "receipt:PI261001001", Target: "material_batch:RM-001/L1", Relation: entity.RelationReceived},
		{Source: "production_task:T-1", Target: "material_batch:FG-100/B1", Relation: entity.RelationProduced},
		{Source: "material_batch:RM-001/L1", Target: "production_task:T-1", Relation: entity.RelationConsumedBy},
		{Source: "production_task:T-1", Target: "inspection:QC-1", Relation: entity.RelationInspectedBy},
		{Source: "material_batch:FG-100/B1", Target: "shipment:SO261003001", Relation: entity.RelationShippedIn},
	}, g.Edges)

	require.Len(t, g.Trace.Receipts, 1)
	assert.Equal(t, "Proveedor Andino", g.Trace.Receipts[0].Party)
	require.Len(t, g.Trace.Shipments, 1)
	assert.Equal(t, "Cliente Norte", g.Trace.Shipments[0].Party)
	assert.True(t, g.Trace.Shipments[0].Quantity.Equal(qty(10)))
}

func TestResolve_ForwardMissingConsumptionNamesStep(t *testing.T) {
	s := plant(t)
	require.NoError(t, s.Ledger().Append(context.Background(), &entity.LedgerEntry{
		TransactionNo: "PI261001002", MaterialID: "mat-2", LocationID: "wh-1",
		MovementType: entity.MovementPurchaseInbound, SignedQuantity: qty(5), RequestedQuantity: qty(5),
		BatchNo: "L9", ReferenceNo: "RC-2", CreatedAt: at(1),
	}))
	r := lineage.NewResolver(s.Lineage(), 0)

	g, err := r.Resolve(context.Background(), entity.DirectionForward, "RM-002", "L9")
	assert.Nil(t, g)
	require.ErrorIs(t, err, domain.ErrLineageNotFound)
	var nf *domain.LineageNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, lineage.StepConsumptions, nf.Step)
	assert.Equal(t, "forward", nf.Direction)
	assert.Equal(t, "RM-002", nf.Code)
	assert.Contains(t, nf.Error(), "L9")
}

func TestResolve_ForwardMissingReceipt(t *testing.T) {
	r := lineage.NewResolver(plant(t).Lineage(), 0)

	_, err := r.Resolve(context.Background(), entity.DirectionForward, "RM-001", "NOPE")
	var nf *domain.LineageNotFoundError
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, lineage.StepReceipts, nf.Step)
}

func TestResolve_ForwardFanOutAndMultiHop(t *testing.T) {
	s := plant(t)
	s.AddProductionTask(entity.ProductionTask{TaskNo: "T-2", ProductCode: "FG-200", OutputBatchNo: "B2", StartedAt: at(4)})
	s.AddConsumption(entity.ConsumptionRow{TaskNo: "T-2", MaterialCode: "RM-001", BatchNo: "L1", Quantity: qty(20), IssuedAt: at(5)})
	s.AddProductionTask(entity.ProductionTask{TaskNo: "T-3", ProductCode: "KIT-1", OutputBatchNo: "K1", StartedAt: at(20)})
	s.AddConsumption(entity.ConsumptionRow{TaskNo: "T-3", MaterialCode: "FG-100", BatchNo: "B1", Quantity: qty(5), IssuedAt: at(21)})

	deep, err := lineage.NewResolver(s.Lineage(), 0).Resolve(context.Background(), entity.DirectionForward, "RM-001", "L1")
	require.NoError(t, err)
	taskNos := func(g *entity.LineageGraph) []string {
		var out []string
		for _, tk := range g.Trace.Tasks {
			out = append(out, tk.TaskNo)
		}
		return out
	}
	assert.Equal(t, []string{"T-1", "T-2", "T-3"}, taskNos(deep))
	assert.Contains(t, deep.Edges, entity.LineageEdge{Source: "material_batch:FG-100/B1", Target: "production_task:T-3", Relation: entity.RelationConsumedBy})

	shallow, err := lineage.NewResolver(s.Lineage(), 1).Resolve(context.Background(), entity.DirectionForward, "RM-001", "L1")
	require.NoError(t, err)
	assert.Equal(t, []string{"T-1", "T-2"}, taskNos(shallow))
}

func TestResolve_IsIdempotent(t *testing.T) {
	r := lineage.NewResolver(plant(t).Lineage(), 0)
	ctx := context.Background()

	first, err := r.Resolve(ctx, entity.DirectionForward, "RM-001", "L1")
	require.NoError(t, err)
	second, err := r.Resolve(ctx, entity.DirectionForward, "RM-001", "L1")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestResolve_Backward(t *testing.T) {
	r := lineage.NewResolver(plant(t).Lineage(), 0)

	g, err := r.Resolve(context.Background(), entity.DirectionBackward, "FG-100", "B1")
	require.NoError(t, err)
	assert.Equal(t, "material_batch:FG-100/B1", g.Nodes[0].ID)
	require.Len(t, g.Trace.Tasks, 1)
	require.Len(t, g.Trace.Receipts, 1)
	require.Len(t, g.Trace.Inspections, 1)
	require.Len(t, g.Trace.Shipments, 1)
	assert.Contains(t, g.Edges, entity.LineageEdge{Source: "material_batch:FG-100/B1", Target: "production_task:T-1", Relation: entity.RelationProduced})
	assert.Contains(t, g.Edges, entity.LineageEdge{Source: "production_task:T-1", Target: "material_batch:RM-001/L1", Relation: entity.RelationConsumedBy})
	assert.Contains(t, g.Edges, entity.LineageEdge{Source: "material_batch:RM-001/L1", Target: "receipt:PI261001001", Relation: entity.RelationReceived})
}

func TestResolve_BackwardMissingSteps(t *testing.T) {
	s := plant(t)
	s.AddProductionTask(entity.ProductionTask{TaskNo: "T-9", ProductCode: "FG-900", OutputBatchNo: "Z1", StartedAt: at(1)})
	r := lineage.NewResolver(s.Lineage(), 0)

	var nf *domain.LineageNotFoundError
	_, err := r.Resolve(context.Background(), entity.DirectionBackward, "FG-100", "B404")
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, lineage.StepTasks, nf.Step)

	_, err = r.Resolve(context.Background(), entity.DirectionBackward, "FG-900", "Z1")
	require.True(t, errors.As(err, &nf))
	assert.Equal(t, lineage.StepConsumptions, nf.Step)
	assert.Equal(t, "backward", nf.Direction)
}

func TestResolve_InvalidInput(t *testing.T) {
	r := lineage.NewResolver(plant(t).Lineage(), 0)

	_, err := r.Resolve(context.Background(), "sideways", "RM-001", "L1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = r.Resolve(context.Background(), entity.DirectionForward, "", "L1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
