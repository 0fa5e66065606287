package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// MovementRequest body para POST /api/ledger/movements.
// signed_quantity lleva el signo: positivo entradas, negativo salidas.
type MovementRequest struct {
	MaterialID     string          `json:"material_id"`
	LocationID     string          `json:"location_id"`
	SignedQuantity decimal.Decimal `json:"signed_quantity" swaggertype:"string" example:"-8"`
	MovementType   string          `json:"movement_type" example:"sales_outbound"`
	UnitID         string          `json:"unit_id,omitempty"`
	BatchNo        string          `json:"batch_no,omitempty"`
	ReferenceNo    string          `json:"reference_no,omitempty"`
	ReferenceType  string          `json:"reference_type,omitempty"`
	Operator       string          `json:"operator,omitempty"` // vacío = usuario del token
	Remark         string          `json:"remark,omitempty"`
}

// LedgerEntryResponse asiento del ledger.
type LedgerEntryResponse struct {
	ID                int64           `json:"id"`
	TransactionNo     string          `json:"transaction_no"`
	MaterialID        string          `json:"material_id"`
	LocationID        string          `json:"location_id"`
	MovementType      string          `json:"movement_type"`
	SignedQuantity    decimal.Decimal `json:"signed_quantity" swaggertype:"string"`
	RequestedQuantity decimal.Decimal `json:"requested_quantity" swaggertype:"string"`
	UnitID            string          `json:"unit_id"`
	BatchNo           string          `json:"batch_no,omitempty"`
	ReferenceNo       string          `json:"reference_no"`
	ReferenceType     string          `json:"reference_type"`
	Operator          string          `json:"operator"`
	Remark            string          `json:"remark,omitempty"`
	BeforeQuantity    decimal.Decimal `json:"before_quantity" swaggertype:"string"`
	AfterQuantity     decimal.Decimal `json:"after_quantity" swaggertype:"string"`
	CreatedAt         time.Time       `json:"created_at"`
}

// WarningResponse aviso de stock insuficiente (la salida se recortó a lo disponible).
type WarningResponse struct {
	MaterialID string          `json:"material_id"`
	LocationID string          `json:"location_id"`
	Available  decimal.Decimal `json:"available" swaggertype:"string"`
	Requested  decimal.Decimal `json:"requested" swaggertype:"string"`
	Shortfall  decimal.Decimal `json:"shortfall" swaggertype:"string"`
	Message    string          `json:"message"`
}

// MovementResponse respuesta de POST /api/ledger/movements.
type MovementResponse struct {
	LedgerEntry LedgerEntryResponse `json:"ledger_entry"`
	Warning     *WarningResponse    `json:"warning,omitempty"`
}

// LedgerEntryListResponse página de asientos.
type LedgerEntryListResponse struct {
	Items []LedgerEntryResponse `json:"items"`
	Page  PageResponse          `json:"page"`
}

// StockResponse existencia de un material en una ubicación.
type StockResponse struct {
	MaterialID string          `json:"material_id"`
	LocationID string          `json:"location_id"`
	Quantity   decimal.Decimal `json:"quantity" swaggertype:"string"`
	UpdatedAt  *time.Time      `json:"updated_at,omitempty"`
}

// StockListResponse existencias de un material o ubicación.
type StockListResponse struct {
	Items []StockResponse `json:"items"`
}

// ReconcileResponse comparación stock vs ledger.
type ReconcileResponse struct {
	MaterialID    string          `json:"material_id"`
	LocationID    string          `json:"location_id"`
	Stock         decimal.Decimal `json:"stock" swaggertype:"string"`
	LatestAfter   decimal.Decimal `json:"latest_after" swaggertype:"string"`
	LedgerSum     decimal.Decimal `json:"ledger_sum" swaggertype:"string"`
	LatestEntryID int64           `json:"latest_entry_id"`
	Consistent    bool            `json:"consistent"`
}

// LedgerEntryFromEntity convierte el asiento a su forma JSON.
func LedgerEntryFromEntity(e *entity.LedgerEntry) LedgerEntryResponse {
	return LedgerEntryResponse{
		ID:                e.ID,
		TransactionNo:     e.TransactionNo,
		MaterialID:        e.MaterialID,
		LocationID:        e.LocationID,
		MovementType:      string(e.MovementType),
		SignedQuantity:    e.SignedQuantity,
		RequestedQuantity: e.RequestedQuantity,
		UnitID:            e.UnitID,
		BatchNo:           e.BatchNo,
		ReferenceNo:       e.ReferenceNo,
		ReferenceType:     e.ReferenceType,
		Operator:          e.Operator,
		Remark:            e.Remark,
		BeforeQuantity:    e.BeforeQuantity,
		AfterQuantity:     e.AfterQuantity,
		CreatedAt:         e.CreatedAt,
	}
}

// LedgerEntriesFromEntities convierte una lista de asientos (nunca devuelve nil).
func LedgerEntriesFromEntities(list []*entity.LedgerEntry) []LedgerEntryResponse {
	out := make([]LedgerEntryResponse, 0, len(list))
	for _, e := range list {
		out = append(out, LedgerEntryFromEntity(e))
	}
	return out
}

// WarningFromDomain nil si no hubo recorte.
func WarningFromDomain(w *domain.InsufficientStockWarning) *WarningResponse {
	if w == nil {
		return nil
	}
	return &WarningResponse{
		MaterialID: w.MaterialID,
		LocationID: w.LocationID,
		Available:  w.Available,
		Requested:  w.Requested,
		Shortfall:  w.Shortfall,
		Message:    w.Error(),
	}
}

// WarningsFromDomain lista de avisos (nunca nil).
func WarningsFromDomain(list []*domain.InsufficientStockWarning) []WarningResponse {
	out := make([]WarningResponse, 0, len(list))
	for _, w := range list {
		out = append(out, *WarningFromDomain(w))
	}
	return out
}

// StockFromEntity updated_at se omite para claves sin movimientos.
func StockFromEntity(s *entity.StockRecord) StockResponse {
	out := StockResponse{MaterialID: s.MaterialID, LocationID: s.LocationID, Quantity: s.Quantity}
	if !s.UpdatedAt.IsZero() {
		t := s.UpdatedAt
		out.UpdatedAt = &t
	}
	return out
}
