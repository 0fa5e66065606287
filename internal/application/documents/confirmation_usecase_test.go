package documents_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-ledger/internal/application/documents"
	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/memory"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

type fixture struct {
	store *memory.Store
	guard *memory.DocumentGuard
	uc    *documents.ConfirmationUseCase
}

func newFixture(t *testing.T) fixture {
	t.Helper()
	store := memory.NewStore(time.Second)
	store.AddMaterial(entity.Material{ID: "mat-1", Code: "RM-001", UnitID: "kg"})
	store.AddMaterial(entity.Material{ID: "mat-2", Code: "RM-002", UnitID: "kg"})
	store.AddLocation(entity.Location{ID: "wh-1", Code: "BOD1"})
	store.AddLocation(entity.Location{ID: "wh-2", Code: "BOD2"})
	applier := inventory.NewMovementApplier(store, store.Materials(), store.Locations(), nil, time.UTC)
	guard := memory.NewDocumentGuard(30 * time.Millisecond)
	return fixture{store: store, guard: guard, uc: documents.NewConfirmationUseCase(applier, guard, nil)}
}

func (f fixture) stock(t *testing.T, material, location string) decimal.Decimal {
	t.Helper()
	rec, err := f.store.Stock().Get(context.Background(), material, location)
	require.NoError(t, err)
	return rec.Quantity
}

func TestConfirm_PurchaseReceiptAddsEveryLine(t *testing.T) {
	f := newFixture(t)

	res, err := f.uc.Confirm(context.Background(), documents.KindPurchaseReceipt, documents.Document{
		ReferenceNo: "RC-100",
		LocationID:  "wh-1",
		Operator:    "user-7",
		Lines: []documents.Line{
			{MaterialID: "mat-1", Quantity: dec("25"), BatchNo: "L1"},
			{MaterialID: "mat-2", Quantity: dec("4"), LocationID: "wh-2"},
		},
	})
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	assert.Empty(t, res.Warnings)

	for _, e := range res.Entries {
		assert.Equal(t, entity.MovementPurchaseInbound, e.MovementType)
		assert.Equal(t, "purchase_receipt", e.ReferenceType)
		assert.Equal(t, "RC-100", e.ReferenceNo)
		assert.Equal(t, "user-7", e.Operator)
		assert.True(t, e.SignedQuantity.IsPositive())
	}
	assert.Equal(t, "L1", res.Entries[0].BatchNo)
	assert.True(t, f.stock(t, "mat-1", "wh-1").Equal(dec("25")))
	assert.True(t, f.stock(t, "mat-2", "wh-2").Equal(dec("4")))
}

func TestConfirm_SalesOutboundAccumulatesWarnings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	_, err := f.uc.Confirm(ctx, documents.KindPurchaseReceipt, documents.Document{
		ReferenceNo: "RC-1", LocationID: "wh-1",
		Lines: []documents.Line{{MaterialID: "mat-1", Quantity: dec("5")}, {MaterialID: "mat-2", Quantity: dec("1")}},
	})
	require.NoError(t, err)

	res, err := f.uc.Confirm(ctx, documents.KindSalesOutbound, documents.Document{
		ReferenceNo: "SO-1", LocationID: "wh-1",
		Lines: []documents.Line{{MaterialID: "mat-1", Quantity: dec("8")}, {MaterialID: "mat-2", Quantity: dec("3")}},
	})
	require.NoError(t, err)
	require.Len(t, res.Entries, 2)
	require.Len(t, res.Warnings, 2)
	assert.True(t, res.Warnings[0].Shortfall.Equal(dec("3")))
	assert.True(t, res.Warnings[1].Shortfall.Equal(dec("2")))
	assert.True(t, res.Entries[0].SignedQuantity.Equal(dec("-5")))
	assert.True(t, f.stock(t, "mat-1", "wh-1").IsZero())
}

func TestConfirm_KindMapping(t *testing.T) {
	tests := []struct {
		kind     documents.Kind
		movement entity.MovementType
		refType  string
		negative bool
	}{
		{documents.KindPurchaseReceipt, entity.MovementPurchaseInbound, "purchase_receipt", false},
		{documents.KindPurchaseReturn, entity.MovementPurchaseReturnOutbound, "purchase_return", true},
		{documents.KindSalesOutbound, entity.MovementSalesOutbound, "sales_outbound", true},
		{documents.KindSalesReturn, entity.MovementSalesReturnInbound, "sales_return", false},
		{documents.KindOutsourcedOutbound, entity.MovementOutsourcedOutbound, "outsourced_order", true},
		{documents.KindOutsourcedReceipt, entity.MovementOutsourcedInbound, "outsourced_order", false},
	}
	for _, tt := range tests {
		t.Run(string(tt.kind), func(t *testing.T) {
			f := newFixture(t)
			res, err := f.uc.Confirm(context.Background(), tt.kind, documents.Document{
				ReferenceNo: "DOC-1", LocationID: "wh-1",
				Lines: []documents.Line{{MaterialID: "mat-1", Quantity: dec("2")}},
			})
			require.NoError(t, err)
			e := res.Entries[0]
			assert.Equal(t, tt.movement, e.MovementType)
			assert.Equal(t, tt.refType, e.ReferenceType)
			assert.Equal(t, tt.negative, e.RequestedQuantity.IsNegative())
		})
	}
	assert.Len(t, documents.Kinds(), len(tests)+1)
}

func TestConfirm_AdjustmentKeepsLineSign(t *testing.T) {
	f := newFixture(t)

	res, err := f.uc.Confirm(context.Background(), documents.KindStockAdjustment, documents.Document{
		ReferenceNo: "AJ-1", LocationID: "wh-1", Remark: "conteo físico",
		Lines: []documents.Line{
			{MaterialID: "mat-1", Quantity: dec("10")},
			{MaterialID: "mat-1", Quantity: dec("-4"), Remark: "merma"},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "conteo físico", res.Entries[0].Remark)
	assert.Equal(t, "merma", res.Entries[1].Remark)
	assert.True(t, f.stock(t, "mat-1", "wh-1").Equal(dec("6")))
}

func TestConfirm_RejectsBadDocuments(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	line := []documents.Line{{MaterialID: "mat-1", Quantity: dec("1")}}

	_, err := f.uc.Confirm(ctx, "transfer", documents.Document{ReferenceNo: "X", LocationID: "wh-1", Lines: line})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)

	_, err = f.uc.Confirm(ctx, documents.KindSalesOutbound, documents.Document{LocationID: "wh-1", Lines: line})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)

	_, err = f.uc.Confirm(ctx, documents.KindSalesOutbound, documents.Document{ReferenceNo: "SO-2", LocationID: "wh-1"})
	assert.ErrorIs(t, err, domain.ErrInvalidMovement)

	_, err = f.uc.Confirm(ctx, documents.KindSalesOutbound, documents.Document{
		ReferenceNo: "SO-3", LocationID: "wh-1",
		Lines: []documents.Line{{MaterialID: "mat-1", Quantity: dec("1")}, {MaterialID: "mat-1", Quantity: dec("-1")}},
	})
	var inv *domain.InvalidMovementError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "lines[1].quantity", inv.Field)

	entries, err := f.store.Ledger().ListByKey(ctx, "mat-1", "wh-1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestConfirm_SameDocumentIsSerialized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	release, err := f.guard.Acquire(ctx, documents.GuardKey(documents.KindPurchaseReceipt, "RC-9"))
	require.NoError(t, err)

	doc := documents.Document{ReferenceNo: "RC-9", LocationID: "wh-1", Lines: []documents.Line{{MaterialID: "mat-1", Quantity: dec("1")}}}
	_, err = f.uc.Confirm(ctx, documents.KindPurchaseReceipt, doc)
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))

	release()
	_, err = f.uc.Confirm(ctx, documents.KindPurchaseReceipt, doc)
	require.NoError(t, err)
	assert.True(t, f.stock(t, "mat-1", "wh-1").Equal(dec("1")))
}
