// Package documents traduce la confirmación de documentos de compra, venta, maquila
// y ajuste en movimientos del ledger.
package documents

import (
	"context"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
	"github.com/jhoicas/erp-ledger/pkg/logger"
)

// Kind tipo de documento que dispara movimientos al confirmarse.
type Kind string

const (
	KindPurchaseReceipt    Kind = "purchase_receipt"
	KindPurchaseReturn     Kind = "purchase_return"
	KindSalesOutbound      Kind = "sales_outbound"
	KindSalesReturn        Kind = "sales_return"
	KindOutsourcedOutbound Kind = "outsourced_outbound"
	KindOutsourcedReceipt  Kind = "outsourced_receipt"
	KindStockAdjustment    Kind = "stock_adjustment"
)

type kindRule struct {
	movement      entity.MovementType
	sign          int // +1 entrada, -1 salida, 0 la línea trae el signo
	referenceType string
}

var kindRules = map[Kind]kindRule{
	KindPurchaseReceipt:    {entity.MovementPurchaseInbound, 1, "purchase_receipt"},
	KindPurchaseReturn:     {entity.MovementPurchaseReturnOutbound, -1, "purchase_return"},
	KindSalesOutbound:      {entity.MovementSalesOutbound, -1, "sales_outbound"},
	KindSalesReturn:        {entity.MovementSalesReturnInbound, 1, "sales_return"},
	KindOutsourcedOutbound: {entity.MovementOutsourcedOutbound, -1, "outsourced_order"},
	KindOutsourcedReceipt:  {entity.MovementOutsourcedInbound, 1, "outsourced_order"},
	KindStockAdjustment:    {entity.MovementAdjustment, 0, "stock_adjustment"},
}

// Kinds tipos de documento soportados.
func Kinds() []Kind {
	return []Kind{
		KindPurchaseReceipt, KindPurchaseReturn,
		KindSalesOutbound, KindSalesReturn,
		KindOutsourcedOutbound, KindOutsourcedReceipt,
		KindStockAdjustment,
	}
}

// Line línea del documento. Quantity es absoluta salvo en ajustes, donde trae su signo.
// LocationID vacío toma la ubicación del documento.
type Line struct {
	MaterialID string
	LocationID string
	Quantity   decimal.Decimal
	UnitID     string
	BatchNo    string
	Remark     string
}

// Document documento confirmado por el flujo externo.
type Document struct {
	ReferenceNo   string
	ReferenceType string // vacío = el del tipo de documento
	LocationID    string
	Operator      string
	Remark        string
	Lines         []Line
}

// Result asientos generados y avisos de stock insuficiente acumulados.
type Result struct {
	Kind        Kind
	ReferenceNo string
	Entries     []*entity.LedgerEntry
	Warnings    []*domain.InsufficientStockWarning
}

// ConfirmationUseCase aplica todas las líneas de un documento en una sola unidad de trabajo.
type ConfirmationUseCase struct {
	applier BatchApplier
	guard   DocumentGuard
	log     *logger.Logger
}

// NewConfirmationUseCase guard puede ser nil (sin serialización por documento).
func NewConfirmationUseCase(applier BatchApplier, guard DocumentGuard, log *logger.Logger) *ConfirmationUseCase {
	if log == nil {
		log = logger.Nop()
	}
	return &ConfirmationUseCase{applier: applier, guard: guard, log: log}
}

// GuardKey clave de exclusión de un documento.
func GuardKey(kind Kind, referenceNo string) string {
	return "confirm:" + string(kind) + ":" + referenceNo
}

// Confirm convierte el documento en movimientos. Un error aborta la transición de
// estado del documento; los avisos no.
func (uc *ConfirmationUseCase) Confirm(ctx context.Context, kind Kind, doc Document) (*Result, error) {
	inputs, err := buildInputs(kind, doc)
	if err != nil {
		return nil, err
	}
	refNo := strings.TrimSpace(doc.ReferenceNo)

	if uc.guard != nil {
		release, err := uc.guard.Acquire(ctx, GuardKey(kind, refNo))
		if err != nil {
			uc.log.Warn().Err(err).Str("kind", string(kind)).Str("reference_no", refNo).Msg("documento en confirmación concurrente")
			return nil, err
		}
		defer release()
	}

	res, err := uc.applier.ApplyBatch(ctx, inputs)
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("kind", string(kind)).
		Str("reference_no", refNo).
		Int("entries", len(res.Entries)).
		Int("warnings", len(res.Warnings)).
		Msg("documento confirmado")
	return &Result{Kind: kind, ReferenceNo: refNo, Entries: res.Entries, Warnings: res.Warnings}, nil
}

func buildInputs(kind Kind, doc Document) ([]inventory.MovementInput, error) {
	rule, ok := kindRules[kind]
	if !ok {
		return nil, domain.NewInvalidMovement("kind", fmt.Sprintf("tipo de documento desconocido %q", kind))
	}
	refNo := strings.TrimSpace(doc.ReferenceNo)
	if refNo == "" {
		return nil, domain.NewInvalidMovement("reference_no", "es obligatorio")
	}
	if len(doc.Lines) == 0 {
		return nil, domain.NewInvalidMovement("lines", "el documento no tiene líneas")
	}
	refType := doc.ReferenceType
	if refType == "" {
		refType = rule.referenceType
	}

	inputs := make([]inventory.MovementInput, 0, len(doc.Lines))
	for i, l := range doc.Lines {
		signed := l.Quantity
		switch rule.sign {
		case 0:
			if signed.IsZero() {
				return nil, domain.NewInvalidMovement(fmt.Sprintf("lines[%d].quantity", i), "no puede ser cero")
			}
		default:
			if !signed.IsPositive() {
				return nil, domain.NewInvalidMovement(fmt.Sprintf("lines[%d].quantity", i), "debe ser positiva")
			}
			if rule.sign < 0 {
				signed = signed.Neg()
			}
		}
		loc := l.LocationID
		if loc == "" {
			loc = doc.LocationID
		}
		remark := l.Remark
		if remark == "" {
			remark = doc.Remark
		}
		inputs = append(inputs, inventory.MovementInput{
			MaterialID:     l.MaterialID,
			LocationID:     loc,
			SignedQuantity: signed,
			MovementType:   rule.movement,
			UnitID:         l.UnitID,
			BatchNo:        l.BatchNo,
			ReferenceNo:    refNo,
			ReferenceType:  refType,
			Operator:       doc.Operator,
			Remark:         remark,
		})
	}
	return inputs, nil
}
