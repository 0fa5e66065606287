package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// LedgerHandler movimientos directos y consultas de stock/ledger (protegido).
type LedgerHandler struct {
	applier *inventory.MovementApplier
	query   *inventory.QueryUseCase
}

// NewLedgerHandler construye el handler.
func NewLedgerHandler(applier *inventory.MovementApplier, query *inventory.QueryUseCase) *LedgerHandler {
	return &LedgerHandler{applier: applier, query: query}
}

// RegisterMovement godoc
// @Summary      Registrar movimiento de inventario
// @Description  Aplica un movimiento sobre (material, ubicación). Una salida mayor al stock
//
//	se recorta a lo disponible y la respuesta trae warning.
//
// @Tags         ledger
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.MovementRequest  true  "material_id, location_id, signed_quantity, movement_type"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      401   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      503   {object}  dto.ErrorResponse
// @Router       /api/ledger/movements [post]
func (h *LedgerHandler) RegisterMovement(c *fiber.Ctx) error {
	var in dto.MovementRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	operator := in.Operator
	if operator == "" {
		operator = GetUserID(c)
	}
	res, err := h.applier.Apply(c.UserContext(), inventory.MovementInput{
		MaterialID:     in.MaterialID,
		LocationID:     in.LocationID,
		SignedQuantity: in.SignedQuantity,
		MovementType:   entity.MovementType(in.MovementType),
		UnitID:         in.UnitID,
		BatchNo:        in.BatchNo,
		ReferenceNo:    in.ReferenceNo,
		ReferenceType:  in.ReferenceType,
		Operator:       operator,
		Remark:         in.Remark,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		LedgerEntry: dto.LedgerEntryFromEntity(res.Entry),
		Warning:     dto.WarningFromDomain(res.Warning),
	})
}

// GetStock godoc
// @Summary      Existencia de un material en una ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        material_id  path  string  true  "Material"
// @Param        location_id  path  string  true  "Ubicación"
// @Success      200  {object}  dto.StockResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/stock/{material_id}/{location_id} [get]
func (h *LedgerHandler) GetStock(c *fiber.Ctx) error {
	s, err := h.query.GetStock(c.UserContext(), c.Params("material_id"), c.Params("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.StockFromEntity(s))
}

// ListStock godoc
// @Summary      Existencias por material o por ubicación
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        material_id  query  string  false  "Filtrar por material"
// @Param        location_id  query  string  false  "Filtrar por ubicación (si no hay material_id)"
// @Success      200  {object}  dto.StockListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock [get]
func (h *LedgerHandler) ListStock(c *fiber.Ctx) error {
	var (
		list []*entity.StockRecord
		err  error
	)
	if materialID := c.Query("material_id"); materialID != "" {
		list, err = h.query.ListStockByMaterial(c.UserContext(), materialID)
	} else {
		list, err = h.query.ListStockByLocation(c.UserContext(), c.Query("location_id"))
	}
	if err != nil {
		return writeError(c, err)
	}
	out := dto.StockListResponse{Items: make([]dto.StockResponse, 0, len(list))}
	for _, s := range list {
		out.Items = append(out.Items, dto.StockFromEntity(s))
	}
	return c.JSON(out)
}

// Reconcile godoc
// @Summary      Conciliar stock contra ledger
// @Description  Compara la cantidad en stock con el after_quantity del último asiento y con la suma de cantidades firmadas.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        material_id  path  string  true  "Material"
// @Param        location_id  path  string  true  "Ubicación"
// @Success      200  {object}  dto.ReconcileResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/{material_id}/{location_id}/reconcile [get]
func (h *LedgerHandler) Reconcile(c *fiber.Ctx) error {
	r, err := h.query.Reconcile(c.UserContext(), c.Params("material_id"), c.Params("location_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ReconcileResponse{
		MaterialID:    r.MaterialID,
		LocationID:    r.LocationID,
		Stock:         r.Stock,
		LatestAfter:   r.LatestAfter,
		LedgerSum:     r.LedgerSum,
		LatestEntryID: r.LatestEntryID,
		Consistent:    r.Consistent,
	})
}

// ListEntries godoc
// @Summary      Asientos del ledger de una clave
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        material_id  query  string  true   "Material"
// @Param        location_id  query  string  true   "Ubicación"
// @Param        limit        query  int     false  "Máximo 500 (default 50)"
// @Param        offset       query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.LedgerEntryListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/entries [get]
func (h *LedgerHandler) ListEntries(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "limit/offset inválidos"})
	}
	page.DefaultPage()
	list, err := h.query.ListEntries(c.UserContext(), c.Query("material_id"), c.Query("location_id"), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LedgerEntryListResponse{
		Items: dto.LedgerEntriesFromEntities(list),
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// ListByReference godoc
// @Summary      Asientos generados por un documento
// @Tags         ledger
// @Security     Bearer
// @Produce      json
// @Param        reference_type  path  string  true  "Tipo de documento (purchase_receipt, sales_outbound, ...)"
// @Param        reference_no    path  string  true  "Número del documento"
// @Success      200  {array}   dto.LedgerEntryResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/ledger/references/{reference_type}/{reference_no} [get]
func (h *LedgerHandler) ListByReference(c *fiber.Ctx) error {
	list, err := h.query.ListByReference(c.UserContext(), c.Params("reference_type"), c.Params("reference_no"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.LedgerEntriesFromEntities(list))
}
