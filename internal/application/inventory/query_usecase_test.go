package inventory_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

func TestQuery_StockMatchesLedger(t *testing.T) {
	store, applier := newApplier(t, time.Second)
	ctx := context.Background()
	q := inventory.NewQueryUseCase(store.Stock(), store.Ledger())

	for _, in := range []inventory.MovementInput{receive("40"), ship("-15"), receive("2.5"), ship("-50"), receive("8")} {
		_, err := applier.Apply(ctx, in)
		require.NoError(t, err)
	}

	report, err := q.Reconcile(ctx, "mat-1", "wh-1")
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.True(t, report.Stock.Equal(dec("8")))
	assert.True(t, report.LatestAfter.Equal(dec("8")))
	assert.True(t, report.LedgerSum.Equal(dec("8")))

	entries, err := q.ListEntries(ctx, "mat-1", "wh-1", 0, 0)
	require.NoError(t, err)
	require.Len(t, entries, 5)
	for _, e := range entries {
		assert.True(t, e.AfterQuantity.Equal(e.BeforeQuantity.Add(e.SignedQuantity)), e.TransactionNo)
		assert.False(t, e.AfterQuantity.IsNegative())
	}

	page, err := q.ListEntries(ctx, "mat-1", "wh-1", 2, 3)
	require.NoError(t, err)
	require.Len(t, page, 2)
	assert.Equal(t, entries[3].ID, page[0].ID)
}

func TestQuery_ReconcileDetectsDrift(t *testing.T) {
	store, applier := newApplier(t, time.Second)
	ctx := context.Background()
	q := inventory.NewQueryUseCase(store.Stock(), store.Ledger())

	_, err := applier.Apply(ctx, receive("10"))
	require.NoError(t, err)
	require.NoError(t, store.Stock().Upsert(ctx, &entity.StockRecord{MaterialID: "mat-1", LocationID: "wh-1", Quantity: dec("11")}))

	report, err := q.Reconcile(ctx, "mat-1", "wh-1")
	require.NoError(t, err)
	assert.False(t, report.Consistent)
}

func TestQuery_FreshKeyIsZeroAndConsistent(t *testing.T) {
	store, _ := newApplier(t, time.Second)
	q := inventory.NewQueryUseCase(store.Stock(), store.Ledger())

	report, err := q.Reconcile(context.Background(), "mat-2", "wh-2")
	require.NoError(t, err)
	assert.True(t, report.Consistent)
	assert.True(t, report.Stock.IsZero())
	assert.Zero(t, report.LatestEntryID)
}

func TestQuery_ListByReferenceAndStockViews(t *testing.T) {
	store, applier := newApplier(t, time.Second)
	ctx := context.Background()
	q := inventory.NewQueryUseCase(store.Stock(), store.Ledger())

	other := receive("3")
	other.LocationID = "wh-2"
	_, err := applier.ApplyBatch(ctx, []inventory.MovementInput{receive("5"), other})
	require.NoError(t, err)
	_, err = applier.Apply(ctx, ship("-1"))
	require.NoError(t, err)

	byRef, err := q.ListByReference(ctx, "purchase_receipt", "RC-0001")
	require.NoError(t, err)
	assert.Len(t, byRef, 2)

	anyType, err := q.ListByReference(ctx, "", "SO-0001")
	require.NoError(t, err)
	assert.Len(t, anyType, 1)

	byMaterial, err := q.ListStockByMaterial(ctx, "mat-1")
	require.NoError(t, err)
	require.Len(t, byMaterial, 2)
	assert.Equal(t, "wh-1", byMaterial[0].LocationID)
	assert.True(t, byMaterial[0].Quantity.Equal(dec("4")))

	byLocation, err := q.ListStockByLocation(ctx, "wh-2")
	require.NoError(t, err)
	require.Len(t, byLocation, 1)

	_, err = q.GetStock(ctx, "", "wh-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
