package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/erp-ledger/internal/application/documents"
	"github.com/jhoicas/erp-ledger/internal/application/inventory"
	"github.com/jhoicas/erp-ledger/internal/application/lineage"
	"github.com/jhoicas/erp-ledger/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Applier      *inventory.MovementApplier
	Query        *inventory.QueryUseCase
	Confirmation *documents.ConfirmationUseCase
	Resolver     *lineage.Resolver
	JWTSecret    string
	JWTIssuer    string
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token; las
// escrituras exigen rol admin o bodeguero.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))
	writers := RequireRole(jwt.RoleAdmin, jwt.RoleBodeguero)

	ledgerHandler := NewLedgerHandler(deps.Applier, deps.Query)
	ledger := api.Group("/ledger")
	ledger.Post("/movements", writers, ledgerHandler.RegisterMovement)
	ledger.Get("/entries", ledgerHandler.ListEntries)
	ledger.Get("/references/:reference_type/:reference_no", ledgerHandler.ListByReference)

	stock := api.Group("/stock")
	stock.Get("/", ledgerHandler.ListStock)
	stock.Get("/:material_id/:location_id", ledgerHandler.GetStock)
	stock.Get("/:material_id/:location_id/reconcile", ledgerHandler.Reconcile)

	documentHandler := NewDocumentHandler(deps.Confirmation)
	api.Post("/documents/:kind/confirm", writers, documentHandler.Confirm)

	lineageHandler := NewLineageHandler(deps.Resolver)
	api.Get("/lineage", lineageHandler.Trace)
}
