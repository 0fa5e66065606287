package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Direction sentido del recorrido de trazabilidad.
type Direction string

const (
	DirectionForward  Direction = "forward"  // materia prima → producto terminado
	DirectionBackward Direction = "backward" // producto terminado → materia prima
)

// Valid indica si la dirección es conocida.
func (d Direction) Valid() bool {
	return d == DirectionForward || d == DirectionBackward
}

// NodeType categoría de un nodo de trazabilidad.
type NodeType string

const (
	NodeMaterialBatch  NodeType = "material_batch"
	NodeReceipt        NodeType = "receipt"
	NodeProductionTask NodeType = "production_task"
	NodeInspection     NodeType = "inspection"
	NodeShipment       NodeType = "shipment"
)

// Relation etiqueta de una arista.
type Relation string

const (
	RelationReceived    Relation = "received"     // recepción → lote
	RelationConsumedBy  Relation = "consumed_by"  // lote → orden de producción
	RelationProduced    Relation = "produced"     // orden → lote de salida
	RelationInspectedBy Relation = "inspected_by" // orden → inspección
	RelationShippedIn   Relation = "shipped_in"   // lote → despacho
)

// BatchKey identifica un lote de un material por su código.
type BatchKey struct {
	Code    string
	BatchNo string
}

// LineageNode nodo transitorio; solo existe dentro de una respuesta del resolver.
type LineageNode struct {
	ID          string    `json:"id"`
	Type        NodeType  `json:"type"`
	Label       string    `json:"label"`
	Code        string    `json:"code,omitempty"`
	BatchNo     string    `json:"batch_no,omitempty"`
	ReferenceNo string    `json:"reference_no,omitempty"`
	Date        time.Time `json:"date,omitempty"`
}

// LineageEdge arista dirigida entre dos nodos.
type LineageEdge struct {
	Source   string   `json:"source"`
	Target   string   `json:"target"`
	Relation Relation `json:"relation"`
}

// ReceiptRow asiento de entrada (compra o maquila) unido a su documento de recepción.
type ReceiptRow struct {
	TransactionNo string
	ReferenceType string
	ReferenceNo   string
	MaterialCode  string
	BatchNo       string
	Quantity      decimal.Decimal
	Party         string // proveedor
	Date          time.Time
}

// ConsumptionRow consumo de un lote de material por una orden de producción.
type ConsumptionRow struct {
	TaskNo       string
	MaterialCode string
	BatchNo      string
	Quantity     decimal.Decimal
	IssuedAt     time.Time
}

// ProductionTask orden/lote de producción con su lote de salida.
type ProductionTask struct {
	TaskNo        string
	ProductCode   string
	OutputBatchNo string
	Quantity      decimal.Decimal
	Status        string
	StartedAt     time.Time
}

// OutputKey lote producido por la orden.
func (t ProductionTask) OutputKey() BatchKey {
	return BatchKey{Code: t.ProductCode, BatchNo: t.OutputBatchNo}
}

// InspectionRow inspección de calidad sobre una orden de producción.
type InspectionRow struct {
	InspectionNo string
	TaskNo       string
	ProductCode  string
	BatchNo      string
	Result       string
	Inspector    string
	InspectedAt  time.Time
}

// ShipmentRow asiento de despacho de venta unido a su documento de salida.
type ShipmentRow struct {
	TransactionNo string
	ReferenceNo   string
	ProductCode   string
	BatchNo       string
	Quantity      decimal.Decimal
	Party         string // cliente
	Date          time.Time
}

// LineageTrace filas crudas reunidas por el recorrido, por paso.
type LineageTrace struct {
	Receipts     []ReceiptRow
	Consumptions []ConsumptionRow
	Tasks        []ProductionTask
	Inspections  []InspectionRow
	Shipments    []ShipmentRow
}

// LineageGraph resultado del resolver: grafo + filas crudas.
type LineageGraph struct {
	Direction Direction
	Start     BatchKey
	Nodes     []LineageNode
	Edges     []LineageEdge
	Trace     LineageTrace
}
