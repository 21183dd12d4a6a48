package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastano/stockcore-api/internal/application/dto"
	"github.com/jcastano/stockcore-api/internal/application/reorder"
)

// ReorderHandler expone el escaneo de reposición (protegido).
type ReorderHandler struct {
	engine *reorder.EngineUseCase
}

// NewReorderHandler construye el handler.
func NewReorderHandler(uc *reorder.EngineUseCase) *ReorderHandler {
	return &ReorderHandler{engine: uc}
}

// Scan godoc
// @Summary      Escanear productos bajo umbral y generar órdenes
// @Description  Evalúa todos los productos activos de la empresa cuyo stock está en o por
//
//	debajo de su umbral de reposición y crea una orden pending auto-generada
//	por cada uno, salvo que ya exista una orden auto-generada abierta.
//
// @Tags         reorders
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.ScanResultResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/reorders/scan [post]
func (h *ReorderHandler) Scan(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}

	result, err := h.engine.Scan(c.Context(), companyID)
	if err != nil {
		return respondError(c, err)
	}

	orders := make([]dto.PurchaseOrderResponse, 0, len(result.OrdersCreated))
	for _, o := range result.OrdersCreated {
		orders = append(orders, toPurchaseOrderResponse(o))
	}
	errs := make([]dto.ScanErrorDTO, 0, len(result.Errors))
	for _, e := range result.Errors {
		errs = append(errs, dto.ScanErrorDTO{ProductID: e.ProductID, Message: e.Message})
	}
	return c.JSON(dto.ScanResultResponse{
		Scanned:       result.Scanned,
		Skipped:       result.Skipped,
		OrdersCreated: orders,
		Errors:        errs,
	})
}
