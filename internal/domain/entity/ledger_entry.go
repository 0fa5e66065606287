package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MovementType tipo de movimiento del ledger.
type MovementType string

// Tipos de movimiento de inventario.
const (
	MovementPurchaseInbound        MovementType = "purchase_inbound"         // recepción de compra
	MovementPurchaseReturnOutbound MovementType = "purchase_return_outbound" // devolución a proveedor
	MovementSalesOutbound          MovementType = "sales_outbound"           // despacho de venta
	MovementSalesReturnInbound     MovementType = "sales_return_inbound"     // devolución de cliente
	MovementOutsourcedOutbound     MovementType = "outsourced_outbound"      // salida a maquila
	MovementOutsourcedInbound      MovementType = "outsourced_inbound"       // entrada de maquila
	MovementAdjustment             MovementType = "adjustment"               // ajuste (+/-)
)

// movementCodes código de dos letras usado en el número de transacción.
var movementCodes = map[MovementType]string{
	MovementPurchaseInbound:        "PI",
	MovementPurchaseReturnOutbound: "PR",
	MovementSalesOutbound:          "SO",
	MovementSalesReturnInbound:     "SR",
	MovementOutsourcedOutbound:     "OO",
	MovementOutsourcedInbound:      "OI",
	MovementAdjustment:             "AJ",
}

// Valid indica si el tipo pertenece a la enumeración.
func (t MovementType) Valid() bool {
	_, ok := movementCodes[t]
	return ok
}

// Code devuelve el código de dos letras ("" si el tipo no es válido).
func (t MovementType) Code() string {
	return movementCodes[t]
}

// IsInbound tipos que solo aceptan cantidades positivas.
func (t MovementType) IsInbound() bool {
	switch t {
	case MovementPurchaseInbound, MovementSalesReturnInbound, MovementOutsourcedInbound:
		return true
	}
	return false
}

// IsOutbound tipos que solo aceptan cantidades negativas.
func (t MovementType) IsOutbound() bool {
	switch t {
	case MovementPurchaseReturnOutbound, MovementSalesOutbound, MovementOutsourcedOutbound:
		return true
	}
	return false
}

// MovementTypes lista ordenada de todos los tipos.
func MovementTypes() []MovementType {
	return []MovementType{
		MovementPurchaseInbound,
		MovementPurchaseReturnOutbound,
		MovementSalesOutbound,
		MovementSalesReturnInbound,
		MovementOutsourcedOutbound,
		MovementOutsourcedInbound,
		MovementAdjustment,
	}
}

// LedgerEntry asiento inmutable del ledger con la foto antes/después de la cantidad.
// Invariante: AfterQuantity = BeforeQuantity + SignedQuantity.
// RequestedQuantity conserva lo pedido por el llamador; difiere de SignedQuantity
// solo cuando la salida se recortó por falta de stock.
type LedgerEntry struct {
	ID                int64
	TransactionNo     string
	MaterialID        string
	LocationID        string
	MovementType      MovementType
	SignedQuantity    decimal.Decimal
	RequestedQuantity decimal.Decimal
	UnitID            string
	BatchNo           string
	ReferenceNo       string
	ReferenceType     string
	Operator          string
	Remark            string
	BeforeQuantity    decimal.Decimal
	AfterQuantity     decimal.Decimal
	CreatedAt         time.Time
}

// Key devuelve la clave de stock afectada por el asiento.
func (e *LedgerEntry) Key() StockKey {
	return StockKey{MaterialID: e.MaterialID, LocationID: e.LocationID}
}

// Clamped indica si el asiento proviene del modo degradado.
func (e *LedgerEntry) Clamped() bool {
	return !e.SignedQuantity.Equal(e.RequestedQuantity)
}
