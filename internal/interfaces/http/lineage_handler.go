package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-ledger/internal/application/dto"
	"github.com/jhoicas/erp-ledger/internal/application/lineage"
	"github.com/jhoicas/erp-ledger/internal/domain"
	"github.com/jhoicas/erp-ledger/internal/domain/entity"
)

// LineageHandler consulta de trazabilidad de lotes (protegido).
type LineageHandler struct {
	resolver *lineage.Resolver
}

// NewLineageHandler construye el handler.
func NewLineageHandler(resolver *lineage.Resolver) *LineageHandler {
	return &LineageHandler{resolver: resolver}
}

// Trace godoc
// @Summary      Trazabilidad de un lote
// @Description  forward: materia prima → producto terminado; backward: producto → materia prima.
//
//	Si falta un paso obligatorio responde 200 con success=false, message y step.
//
// @Tags         lineage
// @Security     Bearer
// @Produce      json
// @Param        direction  query  string  true  "forward | backward"
// @Param        code       query  string  true  "Código del material o producto"
// @Param        batch_no   query  string  true  "Número de lote"
// @Success      200  {object}  dto.LineageResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/lineage [get]
func (h *LineageHandler) Trace(c *fiber.Ctx) error {
	dir := entity.Direction(c.Query("direction"))
	g, err := h.resolver.Resolve(c.UserContext(), dir, c.Query("code"), c.Query("batch_no"))
	if err != nil {
		var nf *domain.LineageNotFoundError
		if errors.As(err, &nf) {
			return c.JSON(dto.LineageResponse{Success: false, Message: nf.Reason, Step: nf.Step, Direction: nf.Direction})
		}
		return writeError(c, err)
	}
	return c.JSON(dto.LineageFromGraph(g))
}
