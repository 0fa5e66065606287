package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-ledger/internal/application/documents"
	"github.com/jhoicas/erp-ledger/internal/application/dto"
)

// DocumentHandler confirmación de documentos de inventario (protegido).
type DocumentHandler struct {
	uc *documents.ConfirmationUseCase
}

// NewDocumentHandler construye el handler.
func NewDocumentHandler(uc *documents.ConfirmationUseCase) *DocumentHandler {
	return &DocumentHandler{uc: uc}
}

// Confirm godoc
// @Summary      Confirmar documento
// @Description  Genera un asiento por línea en una sola unidad de trabajo. Los recortes por
//
//	stock insuficiente se devuelven en warnings sin abortar la confirmación.
//
// @Tags         documents
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        kind  path  string                      true  "purchase_receipt | purchase_return | sales_outbound | sales_return | outsourced_outbound | outsourced_receipt | stock_adjustment"
// @Param        body  body  dto.ConfirmDocumentRequest  true  "reference_no, location_id, lines"
// @Success      200   {object}  dto.ConfirmDocumentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/documents/{kind}/confirm [post]
func (h *DocumentHandler) Confirm(c *fiber.Ctx) error {
	var in dto.ConfirmDocumentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	doc := documents.Document{
		ReferenceNo:   in.ReferenceNo,
		ReferenceType: in.ReferenceType,
		LocationID:    in.LocationID,
		Operator:      in.Operator,
		Remark:        in.Remark,
		Lines:         make([]documents.Line, 0, len(in.Lines)),
	}
	if doc.Operator == "" {
		doc.Operator = GetUserID(c)
	}
	for _, l := range in.Lines {
		doc.Lines = append(doc.Lines, documents.Line{
			MaterialID: l.MaterialID,
			LocationID: l.LocationID,
			Quantity:   l.Quantity,
			UnitID:     l.UnitID,
			BatchNo:    l.BatchNo,
			Remark:     l.Remark,
		})
	}
	res, err := h.uc.Confirm(c.UserContext(), documents.Kind(c.Params("kind")), doc)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ConfirmDocumentResponse{
		Kind:        string(res.Kind),
		ReferenceNo: res.ReferenceNo,
		Entries:     dto.LedgerEntriesFromEntities(res.Entries),
		Warnings:    dto.WarningsFromDomain(res.Warnings),
	})
}
