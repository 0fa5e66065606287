package dto

import "github.com/shopspring/decimal"

// ConfirmDocumentLine línea del documento. quantity es absoluta salvo en stock_adjustment.
type ConfirmDocumentLine struct {
	MaterialID string          `json:"material_id"`
	LocationID string          `json:"location_id,omitempty"`
	Quantity   decimal.Decimal `json:"quantity" swaggertype:"string" example:"25"`
	UnitID     string          `json:"unit_id,omitempty"`
	BatchNo    string          `json:"batch_no,omitempty"`
	Remark     string          `json:"remark,omitempty"`
}

// ConfirmDocumentRequest body para POST /api/documents/{kind}/confirm.
type ConfirmDocumentRequest struct {
	ReferenceNo   string                `json:"reference_no"`
	ReferenceType string                `json:"reference_type,omitempty"`
	LocationID    string                `json:"location_id"`
	Operator      string                `json:"operator,omitempty"`
	Remark        string                `json:"remark,omitempty"`
	Lines         []ConfirmDocumentLine `json:"lines"`
}

// ConfirmDocumentResponse asientos generados y avisos acumulados.
type ConfirmDocumentResponse struct {
	Kind        string                `json:"kind"`
	ReferenceNo string                `json:"reference_no"`
	Entries     []LedgerEntryResponse `json:"entries"`
	Warnings    []WarningResponse     `json:"warnings"`
}
