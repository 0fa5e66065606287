package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// LineageResponse respuesta de GET /api/lineage. Con success=false solo vienen message y step.
type LineageResponse struct {
	Success      bool                 `json:"success"`
	Message      string               `json:"message,omitempty"`
	Step         string               `json:"step,omitempty"`
	Direction    string               `json:"direction,omitempty"`
	Nodes        []entity.LineageNode `json:"nodes,omitempty"`
	Links        []entity.LineageEdge `json:"links,omitempty"`
	Receipts     []ReceiptRowDTO      `json:"receipts,omitempty"`
	Consumptions []ConsumptionRowDTO  `json:"consumptions,omitempty"`
	Tasks        []TaskRowDTO         `json:"tasks,omitempty"`
	Inspections  []InspectionRowDTO   `json:"inspections,omitempty"`
	Shipments    []ShipmentRowDTO     `json:"shipments,omitempty"`
}

type ReceiptRowDTO struct {
	TransactionNo string          `json:"transaction_no"`
	ReferenceType string          `json:"reference_type"`
	ReferenceNo   string          `json:"reference_no"`
	MaterialCode  string          `json:"material_code"`
	BatchNo       string          `json:"batch_no"`
	Quantity      decimal.Decimal `json:"quantity" swaggertype:"string"`
	Supplier      string          `json:"supplier,omitempty"`
	Date          time.Time       `json:"date"`
}

type ConsumptionRowDTO struct {
	TaskNo       string          `json:"task_no"`
	MaterialCode string          `json:"material_code"`
	BatchNo      string          `json:"batch_no"`
	Quantity     decimal.Decimal `json:"quantity" swaggertype:"string"`
	IssuedAt     time.Time       `json:"issued_at"`
}

type TaskRowDTO struct {
	TaskNo        string          `json:"task_no"`
	ProductCode   string          `json:"product_code"`
	OutputBatchNo string          `json:"output_batch_no"`
	Quantity      decimal.Decimal `json:"quantity" swaggertype:"string"`
	Status        string          `json:"status"`
	StartedAt     time.Time       `json:"started_at"`
}

type InspectionRowDTO struct {
	InspectionNo string    `json:"inspection_no"`
	TaskNo       string    `json:"task_no"`
	ProductCode  string    `json:"product_code"`
	BatchNo      string    `json:"batch_no"`
	Result       string    `json:"result"`
	Inspector    string    `json:"inspector"`
	InspectedAt  time.Time `json:"inspected_at"`
}

type ShipmentRowDTO struct {
	TransactionNo string          `json:"transaction_no"`
	ReferenceNo   string          `json:"reference_no"`
	ProductCode   string          `json:"product_code"`
	BatchNo       string          `json:"batch_no"`
	Quantity      decimal.Decimal `json:"quantity" swaggertype:"string"`
	Customer      string          `json:"customer,omitempty"`
	Date          time.Time       `json:"date"`
}

// LineageFromGraph respuesta exitosa con grafo y filas crudas.
func LineageFromGraph(g *entity.LineageGraph) LineageResponse {
	out := LineageResponse{
		Success:   true,
		Direction: string(g.Direction),
		Nodes:     g.Nodes,
		Links:     g.Edges,
	}
	for _, r := range g.Trace.Receipts {
		out.Receipts = append(out.Receipts, ReceiptRowDTO{
			TransactionNo: r.TransactionNo, ReferenceType: r.ReferenceType, ReferenceNo: r.ReferenceNo,
			MaterialCode: r.MaterialCode, BatchNo: r.BatchNo, Quantity: r.Quantity, Supplier: r.Party, Date: r.Date,
		})
	}
	for _, c := range g.Trace.Consumptions {
		out.Consumptions = append(out.Consumptions, ConsumptionRowDTO{
			TaskNo: c.TaskNo, MaterialCode: c.MaterialCode, BatchNo: c.BatchNo, Quantity: c.Quantity, IssuedAt: c.IssuedAt,
		})
	}
	for _, t := range g.Trace.Tasks {
		out.Tasks = append(out.Tasks, TaskRowDTO{
			TaskNo: t.TaskNo, ProductCode: t.ProductCode, OutputBatchNo: t.OutputBatchNo,
			Quantity: t.Quantity, Status: t.Status, StartedAt: t.StartedAt,
		})
	}
	for _, i := range g.Trace.Inspections {
		out.Inspections = append(out.Inspections, InspectionRowDTO{
			InspectionNo: i.InspectionNo, TaskNo: i.TaskNo, ProductCode: i.ProductCode, BatchNo: i.BatchNo,
			Result: i.Result, Inspector: i.Inspector, InspectedAt: i.InspectedAt,
		})
	}
	for _, s := range g.Trace.Shipments {
		out.Shipments = append(out.Shipments, ShipmentRowDTO{
			TransactionNo: s.TransactionNo, ReferenceNo: s.ReferenceNo, ProductCode: s.ProductCode,
			BatchNo: s.BatchNo, Quantity: s.Quantity, Customer: s.Party, Date: s.Date,
		})
	}
	return out
}
