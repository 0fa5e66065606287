package inventory

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	rules "github.com/jhoicas/erp-ledger/internal/domain/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain/repository"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

// MovementInput una línea de movimiento. SignedQuantity ya trae el signo:
// positivo para entradas, negativo para salidas; el ajuste admite ambos.
type MovementInput struct {
	MaterialID     string
	LocationID     string
	SignedQuantity decimal.Decimal
	MovementType   entity.MovementType
	UnitID         string // vacío = unidad del material
	BatchNo        string
	ReferenceNo    string
	ReferenceType  string
	Operator       string
	Remark         string
}

// MovementResult asiento creado y, si la salida se recortó, el aviso correspondiente.
type MovementResult struct {
	Entry   *entity.LedgerEntry
	Warning *domain.InsufficientStockWarning
}

// BatchResult asientos de un lote de líneas (en el orden de entrada) y los avisos acumulados.
type BatchResult struct {
	Entries  []*entity.LedgerEntry
	Warnings []*domain.InsufficientStockWarning
}

// MovementApplier único punto de escritura sobre stock y ledger.
// Cada llamada es una unidad de trabajo: bloqueo por clave, lectura, cálculo,
// upsert de stock, numeración y asiento; todo o nada.
type MovementApplier struct {
	txRunner     TxRunner
	materialRepo repository.MaterialRepository
	locationRepo repository.LocationRepository
	log          *logger.Logger
	tz           *time.Location
	now          func() time.Time
}

// NewMovementApplier construye el applier. tz define el día usado en el número de transacción.
func NewMovementApplier(
	txRunner TxRunner,
	materialRepo repository.MaterialRepository,
	locationRepo repository.LocationRepository,
	log *logger.Logger,
	tz *time.Location,
) *MovementApplier {
	if log == nil {
		log = logger.Nop()
	}
	if tz == nil {
		tz = time.Local
	}
	return &MovementApplier{
		txRunner:     txRunner,
		materialRepo: materialRepo,
		locationRepo: locationRepo,
		log:          log,
		tz:           tz,
		now:          time.Now,
	}
}

// WithClock reemplaza el reloj (tests).
func (a *MovementApplier) WithClock(now func() time.Time) *MovementApplier {
	a.now = now
	return a
}

// Apply registra un movimiento. Un faltante de stock no es error: se devuelve en Warning.
func (a *MovementApplier) Apply(ctx context.Context, in MovementInput) (*MovementResult, error) {
	res, err := a.ApplyBatch(ctx, []MovementInput{in})
	if err != nil {
		return nil, err
	}
	out := &MovementResult{Entry: res.Entries[0]}
	if len(res.Warnings) > 0 {
		out.Warning = res.Warnings[0]
	}
	return out, nil
}

// ApplyBatch registra varias líneas en una sola unidad de trabajo. Las claves se
// bloquean en orden (material, ubicación) para no producir interbloqueos y las líneas
// se aplican en el orden recibido; una clave repetida encadena su saldo.
func (a *MovementApplier) ApplyBatch(ctx context.Context, inputs []MovementInput) (*BatchResult, error) {
	if len(inputs) == 0 {
		return nil, domain.NewInvalidMovement("lines", "no hay líneas para aplicar")
	}
	lines := make([]MovementInput, len(inputs))
	for i, in := range inputs {
		line, err := a.validate(ctx, in)
		if err != nil {
			var inv *domain.InvalidMovementError
			if len(inputs) > 1 && errors.As(err, &inv) {
				inv.Field = fmt.Sprintf("lines[%d].%s", i, inv.Field)
			}
			return nil, err
		}
		lines[i] = line
	}
	keys := sortedKeys(lines)

	var result BatchResult
	err := a.txRunner.Run(ctx, func(stockRepo repository.StockRepository, ledgerRepo repository.LedgerRepository) error {
		balances := make(map[entity.StockKey]*entity.StockRecord, len(keys))
		for _, k := range keys {
			rec, err := stockRepo.GetForUpdate(ctx, k.MaterialID, k.LocationID)
			if err != nil {
				return err
			}
			balances[k] = rec
		}

		now := a.now()
		day := rules.DayOf(now, a.tz)
		entries := make([]*entity.LedgerEntry, 0, len(lines))
		var warnings []*domain.InsufficientStockWarning
		for _, line := range lines {
			k := entity.StockKey{MaterialID: line.MaterialID, LocationID: line.LocationID}
			bal := balances[k]
			out := rules.ComputeOutcome(bal.Quantity, line.SignedQuantity)

			code := line.MovementType.Code()
			seq, err := ledgerRepo.NextSequence(ctx, code, day)
			if err != nil {
				return err
			}
			entry := &entity.LedgerEntry{
				TransactionNo:     rules.TransactionNo(code, day, seq),
				MaterialID:        line.MaterialID,
				LocationID:        line.LocationID,
				MovementType:      line.MovementType,
				SignedQuantity:    out.Applied,
				RequestedQuantity: out.Requested,
				UnitID:            line.UnitID,
				BatchNo:           line.BatchNo,
				ReferenceNo:       line.ReferenceNo,
				ReferenceType:     line.ReferenceType,
				Operator:          line.Operator,
				Remark:            line.Remark,
				BeforeQuantity:    out.Before,
				AfterQuantity:     out.After,
				CreatedAt:         now,
			}
			if err := ledgerRepo.Append(ctx, entry); err != nil {
				return err
			}
			entries = append(entries, entry)

			if out.Degraded() {
				warnings = append(warnings, &domain.InsufficientStockWarning{
					MaterialID: line.MaterialID,
					LocationID: line.LocationID,
					Available:  out.Before,
					Requested:  out.Requested.Neg(),
					Shortfall:  out.Shortfall,
				})
			}
			bal.Quantity = out.After
			bal.UpdatedAt = now
		}

		for _, k := range keys {
			if err := stockRepo.Upsert(ctx, balances[k]); err != nil {
				return err
			}
		}
		result = BatchResult{Entries: entries, Warnings: warnings}
		return nil
	})
	if err != nil {
		err = asConcurrencyTimeout(err, keys)
		a.log.Error().Err(err).
			Int("lines", len(lines)).
			Str("reference_no", lines[0].ReferenceNo).
			Bool("retryable", domain.IsRetryable(err)).
			Msg("movimiento abortado")
		return nil, err
	}

	for _, w := range result.Warnings {
		a.log.Warn().
			Str("material_id", w.MaterialID).
			Str("location_id", w.LocationID).
			Str("available", w.Available.String()).
			Str("requested", w.Requested.String()).
			Str("shortfall", w.Shortfall.String()).
			Str("reference_no", lines[0].ReferenceNo).
			Msg("salida recortada por stock insuficiente")
	}
	return &result, nil
}

// QuantityScale decimales que persiste el ledger (NUMERIC(18,4)).
const QuantityScale = 4

// validate rechaza la línea antes de cualquier mutación y completa la unidad por defecto.
func (a *MovementApplier) validate(ctx context.Context, in MovementInput) (MovementInput, error) {
	if !in.MovementType.Valid() {
		return in, domain.NewInvalidMovement("movement_type", fmt.Sprintf("tipo desconocido %q", in.MovementType))
	}
	in.MaterialID = strings.TrimSpace(in.MaterialID)
	in.LocationID = strings.TrimSpace(in.LocationID)
	if in.MaterialID == "" {
		return in, domain.NewInvalidMovement("material_id", "es obligatorio")
	}
	if in.LocationID == "" {
		return in, domain.NewInvalidMovement("location_id", "es obligatorio")
	}
	if in.SignedQuantity.IsZero() {
		return in, domain.NewInvalidMovement("signed_quantity", "no puede ser cero")
	}
	if !in.SignedQuantity.Equal(in.SignedQuantity.Truncate(QuantityScale)) {
		return in, domain.NewInvalidMovement("signed_quantity", fmt.Sprintf("admite como máximo %d decimales", QuantityScale))
	}
	if in.MovementType.IsInbound() && in.SignedQuantity.IsNegative() {
		return in, domain.NewInvalidMovement("signed_quantity", fmt.Sprintf("%s requiere cantidad positiva", in.MovementType))
	}
	if in.MovementType.IsOutbound() && in.SignedQuantity.IsPositive() {
		return in, domain.NewInvalidMovement("signed_quantity", fmt.Sprintf("%s requiere cantidad negativa", in.MovementType))
	}

	material, err := a.materialRepo.GetByID(ctx, in.MaterialID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return in, domain.NewInvalidMovement("material_id", fmt.Sprintf("material %s no existe", in.MaterialID))
		}
		return in, fmt.Errorf("consultar material: %w", err)
	}
	if _, err := a.locationRepo.GetByID(ctx, in.LocationID); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return in, domain.NewInvalidMovement("location_id", fmt.Sprintf("ubicación %s no existe", in.LocationID))
		}
		return in, fmt.Errorf("consultar ubicación: %w", err)
	}
	if in.UnitID == "" {
		in.UnitID = material.UnitID
	}
	return in, nil
}

func sortedKeys(lines []MovementInput) []entity.StockKey {
	seen := make(map[entity.StockKey]struct{}, len(lines))
	keys := make([]entity.StockKey, 0, len(lines))
	for _, l := range lines {
		k := entity.StockKey{MaterialID: l.MaterialID, LocationID: l.LocationID}
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Less(keys[j]) })
	return keys
}

// asConcurrencyTimeout una cancelación o vencimiento del contexto mientras se esperaba
// un bloqueo se reporta como timeout de concurrencia.
func asConcurrencyTimeout(err error, keys []entity.StockKey) error {
	if errors.Is(err, domain.ErrConcurrencyTimeout) {
		return err
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		names := make([]string, len(keys))
		for i, k := range keys {
			names[i] = k.String()
		}
		return &domain.ConcurrencyTimeoutError{Key: strings.Join(names, ","), Cause: err}
	}
	return err
}
