package inventory_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/jhoicas/erp-ledger/internal/infrastructure/memory"
)

var fixedNow = time.Date(2026, 10, 18, 10, 30, 0, 0, time.UTC)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func newApplier(t *testing.T, lockTimeout time.Duration) (*memory.Store, *inventory.MovementApplier) {
	t.Helper()
	store := memory.NewStore(lockTimeout)
	store.AddMaterial(entity.Material{ID: "mat-1", Code: "RM-001", Name: "Resina", UnitID: "kg"})
	store.AddMaterial(entity.Material{ID: "mat-2", Code: "RM-002", Name: "Pigmento", UnitID: "g"})
	store.AddLocation(entity.Location{ID: "wh-1", Code: "BOD1", Name: "Bodega principal"})
	store.AddLocation(entity.Location{ID: "wh-2", Code: "BOD2", Name: "Bodega producción"})
	applier := inventory.NewMovementApplier(store, store.Materials(), store.Locations(), nil, time.UTC).
		WithClock(func() time.Time { return fixedNow })
	return store, applier
}

func receive(qty string) inventory.MovementInput {
	return inventory.MovementInput{
		MaterialID:     "mat-1",
		LocationID:     "wh-1",
		SignedQuantity: dec(qty),
		MovementType:   entity.MovementPurchaseInbound,
		ReferenceNo:    "RC-0001",
		ReferenceType:  "purchase_receipt",
		Operator:       "user-1",
	}
}

func ship(qty string) inventory.MovementInput {
	return inventory.MovementInput{
		MaterialID:     "mat-1",
		LocationID:     "wh-1",
		SignedQuantity: dec(qty),
		MovementType:   entity.MovementSalesOutbound,
		ReferenceNo:    "SO-0001",
		ReferenceType:  "sales_outbound",
		Operator:       "user-1",
	}
}

func TestApply_InboundOnFreshKey(t *testing.T) {
	store, applier := newApplier(t, time.Second)
	ctx := context.Background()

	res, err := applier.Apply(ctx, receive("100"))
	require.NoError(t, err)
	require.NotNil(t, res.Entry)
	assert.Nil(t, res.Warning)

	e := res.Entry
	assert.Equal(t, "PI261018001", e.TransactionNo)
	assert.True(t, e.BeforeQuantity.IsZero())
	assert.True(t, e.SignedQuantity.Equal(dec("100")))
	assert.True(t, e.AfterQuantity.Equal(dec("100")))
	assert.Equal(t, "kg", e.UnitID, "la unidad por defecto es la del material")
	assert.Equal(t, fixedNow, e.CreatedAt)
	assert.NotZero(t, e.ID)

	stock, err := store.Stock().Get(ctx, "mat-1", "wh-1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec("100")))
}

func TestApply_OutboundClampsToZero(t *testing.T) {
	store, applier := newApplier(t, time.Second)
	ctx := context.Background()

	_, err := applier.Apply(ctx, receive("5"))
	require.NoError(t, err)

	res, err := applier.Apply(ctx, ship("-8"))
	require.NoError(t, err, "el faltante no es un error")
	require.NotNil(t, res.Warning)

	e := res.Entry
	assert.True(t, e.BeforeQuantity.Equal(dec("5")))
	assert.True(t, e.SignedQuantity.Equal(dec("-5")))
	assert.True(t, e.AfterQuantity.IsZero())
	assert.True(t, e.RequestedQuantity.Equal(dec("-8")))
	assert.True(t, e.Clamped())
	assert.Equal(t, "SO261018001", e.TransactionNo)

	w := res.Warning
	assert.True(t, w.Available.Equal(dec("5")))
	assert.True(t, w.Requested.Equal(dec("8")))
	assert.True(t, w.Shortfall.Equal(dec("3")))
	assert.Contains(t, w.Error(), "5")
	assert.Contains(t, w.Error(), "8")

	stock, err := store.Stock().Get(ctx, "mat-1", "wh-1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.IsZero())
}

func TestApply_OutboundWithoutStockRecord(t *testing.T) {
	_, applier := newApplier(t, time.Second)

	res, err := applier.Apply(context.Background(), ship("-3"))
	require.NoError(t, err)
	require.NotNil(t, res.Warning)
	assert.True(t, res.Entry.BeforeQuantity.IsZero())
	assert.True(t, res.Entry.SignedQuantity.IsZero())
	assert.True(t, res.Entry.AfterQuantity.IsZero())
	assert.True(t, res.Warning.Shortfall.Equal(dec("3")))
}

func TestApply_AdjustmentBothSigns(t *testing.T) {
	_, applier := newApplier(t, time.Second)
	ctx := context.Background()

	adj := func(q string) inventory.MovementInput {
		in := receive(q)
		in.MovementType = entity.MovementAdjustment
		in.ReferenceType = "stock_adjustment"
		return in
	}
	res, err := applier.Apply(ctx, adj("12.5"))
	require.NoError(t, err)
	assert.True(t, res.Entry.AfterQuantity.Equal(dec("12.5")))

	res, err = applier.Apply(ctx, adj("-2.5"))
	require.NoError(t, err)
	assert.Nil(t, res.Warning)
	assert.True(t, res.Entry.AfterQuantity.Equal(dec("10")))
	assert.Equal(t, "AJ261018002", res.Entry.TransactionNo)
}

func TestApply_InvalidMovements(t *testing.T) {
	tests := []struct {
		name  string
		mut   func(in *inventory.MovementInput)
		field string
	}{
		{"tipo desconocido", func(in *inventory.MovementInput) { in.MovementType = "transfer" }, "movement_type"},
		{"material vacío", func(in *inventory.MovementInput) { in.MaterialID = " " }, "material_id"},
		{"ubicación vacía", func(in *inventory.MovementInput) { in.LocationID = "" }, "location_id"},
		{"cantidad cero", func(in *inventory.MovementInput) { in.SignedQuantity = decimal.Zero }, "signed_quantity"},
		{"más de cuatro decimales", func(in *inventory.MovementInput) { in.SignedQuantity = dec("1.00005") }, "signed_quantity"},
		{"entrada negativa", func(in *inventory.MovementInput) { in.SignedQuantity = dec("-1") }, "signed_quantity"},
		{"salida positiva", func(in *inventory.MovementInput) {
			in.MovementType = entity.MovementPurchaseReturnOutbound
		}, "signed_quantity"},
		{"material inexistente", func(in *inventory.MovementInput) { in.MaterialID = "nope" }, "material_id"},
		{"ubicación inexistente", func(in *inventory.MovementInput) { in.LocationID = "nope" }, "location_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, applier := newApplier(t, time.Second)
			in := receive("10")
			tt.mut(&in)

			res, err := applier.Apply(context.Background(), in)
			require.Error(t, err)
			assert.Nil(t, res)
			assert.ErrorIs(t, err, domain.ErrInvalidMovement)
			var inv *domain.InvalidMovementError
			require.True(t, errors.As(err, &inv))
			assert.Equal(t, tt.field, inv.Field)

			entries, err := store.Ledger().ListByKey(context.Background(), "mat-1", "wh-1", 10, 0)
			require.NoError(t, err)
			assert.Empty(t, entries, "un movimiento inválido no deja rastro")
		})
	}
}

func TestApply_ConcurrentOutboundsNeverGoNegative(t *testing.T) {
	store, applier := newApplier(t, 5*time.Second)
	ctx := context.Background()
	_, err := applier.Apply(ctx, receive("10"))
	require.NoError(t, err)

	var wg sync.WaitGroup
	results := make([]*inventory.MovementResult, 2)
	errs := make([]error, 2)
	for i := 0; i < 2; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			results[i], errs[i] = applier.Apply(ctx, ship("-6"))
		}(i)
	}
	wg.Wait()

	shipped := decimal.Zero
	warnings := 0
	for i := range results {
		require.NoError(t, errs[i])
		shipped = shipped.Add(results[i].Entry.SignedQuantity.Neg())
		if results[i].Warning != nil {
			warnings++
		}
		assert.False(t, results[i].Entry.AfterQuantity.IsNegative())
	}
	assert.True(t, shipped.Equal(dec("10")), "no se despacha más de lo disponible")
	assert.Equal(t, 1, warnings)

	stock, err := store.Stock().Get(ctx, "mat-1", "wh-1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.IsZero())
}

func TestApply_ConcurrentInboundsSerializePerKey(t *testing.T) {
	store, applier := newApplier(t, 5*time.Second)
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := applier.Apply(ctx, receive("1"))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	entries, err := store.Ledger().ListByKey(ctx, "mat-1", "wh-1", 100, 0)
	require.NoError(t, err)
	require.Len(t, entries, 20)
	seen := make(map[string]bool)
	for i, e := range entries {
		assert.True(t, e.AfterQuantity.Equal(e.BeforeQuantity.Add(e.SignedQuantity)))
		if i > 0 {
			assert.True(t, e.BeforeQuantity.Equal(entries[i-1].AfterQuantity), "la cadena antes/después no se rompe")
		}
		assert.False(t, seen[e.TransactionNo], "transaction_no repetido %s", e.TransactionNo)
		seen[e.TransactionNo] = true
	}
	stock, err := store.Stock().Get(ctx, "mat-1", "wh-1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.Equal(dec("20")))
}

func TestApplyBatch_ChainsRepeatedKeys(t *testing.T) {
	_, applier := newApplier(t, time.Second)

	second := receive("4")
	second.MaterialID = "mat-2"
	res, err := applier.ApplyBatch(context.Background(), []inventory.MovementInput{
		receive("3"), second, receive("7"),
	})
	require.NoError(t, err)
	require.Len(t, res.Entries, 3)
	assert.Empty(t, res.Warnings)

	assert.True(t, res.Entries[0].AfterQuantity.Equal(dec("3")))
	assert.True(t, res.Entries[2].BeforeQuantity.Equal(dec("3")))
	assert.True(t, res.Entries[2].AfterQuantity.Equal(dec("10")))
	assert.Equal(t, "g", res.Entries[1].UnitID)
	assert.Equal(t, "PI261018001", res.Entries[0].TransactionNo)
	assert.Equal(t, "PI261018002", res.Entries[1].TransactionNo)
	assert.Equal(t, "PI261018003", res.Entries[2].TransactionNo)
}

func TestApplyBatch_InvalidLineNamesIndex(t *testing.T) {
	store, applier := newApplier(t, time.Second)
	bad := receive("1")
	bad.LocationID = "missing"

	_, err := applier.ApplyBatch(context.Background(), []inventory.MovementInput{receive("1"), bad})
	var inv *domain.InvalidMovementError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, "lines[1].location_id", inv.Field)

	stock, err := store.Stock().Get(context.Background(), "mat-1", "wh-1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.IsZero())
}

func TestApplyBatch_LockTimeoutIsAtomicAndRetryable(t *testing.T) {
	store, applier := newApplier(t, 50*time.Millisecond)
	ctx := context.Background()

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = store.Run(ctx, func(stockRepo repository.StockRepository, _ repository.LedgerRepository) error {
			_, err := stockRepo.GetForUpdate(ctx, "mat-2", "wh-1")
			close(locked)
			<-done
			return err
		})
	}()
	<-locked
	defer close(done)

	other := receive("4")
	other.MaterialID = "mat-2"
	_, err := applier.ApplyBatch(ctx, []inventory.MovementInput{receive("9"), other})
	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConcurrencyTimeout)
	assert.True(t, domain.IsRetryable(err))

	stock, err := store.Stock().Get(ctx, "mat-1", "wh-1")
	require.NoError(t, err)
	assert.True(t, stock.Quantity.IsZero(), "ninguna línea del lote queda aplicada")
	entries, err := store.Ledger().ListByKey(ctx, "mat-1", "wh-1", 10, 0)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestApply_CancelledContextIsConcurrencyTimeout(t *testing.T) {
	store, applier := newApplier(t, 0)
	ctx := context.Background()

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = store.Run(ctx, func(stockRepo repository.StockRepository, _ repository.LedgerRepository) error {
			_, err := stockRepo.GetForUpdate(ctx, "mat-1", "wh-1")
			close(locked)
			<-done
			return err
		})
	}()
	<-locked
	defer close(done)

	cctx, cancel := context.WithTimeout(ctx, 30*time.Millisecond)
	defer cancel()
	_, err := applier.Apply(cctx, receive("1"))
	require.Error(t, err)
	assert.True(t, domain.IsRetryable(err))
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestApply_DifferentKeysDoNotBlock(t *testing.T) {
	store, applier := newApplier(t, 2*time.Second)
	ctx := context.Background()

	locked := make(chan struct{})
	done := make(chan struct{})
	go func() {
		_ = store.Run(ctx, func(stockRepo repository.StockRepository, _ repository.LedgerRepository) error {
			_, err := stockRepo.GetForUpdate(ctx, "mat-1", "wh-1")
			close(locked)
			<-done
			return err
		})
	}()
	<-locked
	defer close(done)

	other := receive("5")
	other.MaterialID = "mat-2"
	other.LocationID = "wh-2"

	start := time.Now()
	res, err := applier.Apply(ctx, other)
	require.NoError(t, err)
	assert.Less(t, time.Since(start), 500*time.Millisecond, "otra clave no espera el bloqueo de mat-1@wh-1")
	assert.True(t, res.Entry.AfterQuantity.Equal(dec("5")))
}

// failingRunner delega en el store pero hace fallar la n-ésima escritura indicada.
type failingRunner struct {
	store        *memory.Store
	failAppendAt int
	failUpsertAt int
}

func (r *failingRunner) Run(ctx context.Context, fn func(repository.StockRepository, repository.LedgerRepository) error) error {
	return r.store.Run(ctx, func(s repository.StockRepository, l repository.LedgerRepository) error {
		return fn(&failingStock{StockRepository: s, failAt: r.failUpsertAt}, &failingLedger{LedgerRepository: l, failAt: r.failAppendAt})
	})
}

type failingLedger struct {
	repository.LedgerRepository
	failAt int
	calls  int
}

func (l *failingLedger) Append(ctx context.Context, e *entity.LedgerEntry) error {
	l.calls++
	if l.calls == l.failAt {
		return errors.New("disco lleno")
	}
	return l.LedgerRepository.Append(ctx, e)
}

type failingStock struct {
	repository.StockRepository
	failAt int
	calls  int
}

func (s *failingStock) Upsert(ctx context.Context, rec *entity.StockRecord) error {
	s.calls++
	if s.calls == s.failAt {
		return errors.New("disco lleno")
	}
	return s.StockRepository.Upsert(ctx, rec)
}

func TestApplyBatch_WriteFailureRollsBackEverything(t *testing.T) {
	tests := []struct {
		name   string
		runner func(*memory.Store) *failingRunner
	}{
		{"falla el segundo asiento", func(s *memory.Store) *failingRunner { return &failingRunner{store: s, failAppendAt: 2} }},
		{"falla el segundo saldo", func(s *memory.Store) *failingRunner { return &failingRunner{store: s, failUpsertAt: 2} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store, seed := newApplier(t, time.Second)
			ctx := context.Background()
			_, err := seed.Apply(ctx, receive("10"))
			require.NoError(t, err)

			applier := inventory.NewMovementApplier(tt.runner(store), store.Materials(), store.Locations(), nil, time.UTC).
				WithClock(func() time.Time { return fixedNow })
			second := receive("3")
			second.MaterialID = "mat-2"
			_, err = applier.ApplyBatch(ctx, []inventory.MovementInput{ship("-4"), second})
			require.Error(t, err)
			assert.ErrorContains(t, err, "disco lleno")

			stock, err := store.Stock().Get(ctx, "mat-1", "wh-1")
			require.NoError(t, err)
			assert.True(t, stock.Quantity.Equal(dec("10")), "el saldo no cambia si falla la unidad de trabajo")
			stock2, err := store.Stock().Get(ctx, "mat-2", "wh-1")
			require.NoError(t, err)
			assert.True(t, stock2.Quantity.IsZero())

			entries, err := store.Ledger().ListByKey(ctx, "mat-1", "wh-1", 10, 0)
			require.NoError(t, err)
			assert.Len(t, entries, 1, "solo queda el asiento de la entrada inicial")
		})
	}
}
