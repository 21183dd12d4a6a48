package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastano/stockcore-api/internal/application/dto"
	"github.com/jcastano/stockcore-api/internal/application/ledger"
	"github.com/jcastano/stockcore-api/internal/domain/entity"
	"github.com/jcastano/stockcore-api/pkg/validator"
)

// StockHandler maneja las peticiones HTTP del libro de movimientos (protegido).
type StockHandler struct {
	ledger *ledger.StockLedgerUseCase
}

// NewStockHandler construye el handler.
func NewStockHandler(uc *ledger.StockLedgerUseCase) *StockHandler {
	return &StockHandler{ledger: uc}
}

// ApplyMovement godoc
// @Summary      Registrar un movimiento de stock
// @Description  IN recalcula el costo promedio ponderado; OUT descuenta al costo vigente.
// @Tags         stock
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ApplyMovementRequest  true  "product_id, direction (IN|OUT), quantity, unit_cost (entradas)"
// @Success      201   {object}  dto.MovementResultResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/stock/movements [post]
func (h *StockHandler) ApplyMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ApplyMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Describe(errs)})
	}

	result, err := h.ledger.Apply(c.Context(), ledger.ApplyInput{
		CompanyID: companyID,
		UserID:    userID,
		ProductID: in.ProductID,
		Direction: in.Direction,
		Quantity:  in.Quantity,
		UnitCost:  in.UnitCost,
		Reference: in.Reference,
		Notes:     in.Notes,
	})
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResultResponse(result))
}

// ReverseMovement godoc
// @Summary      Revertir un movimiento
// @Description  Registra el movimiento opuesto con la misma cantidad y costo.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del movimiento"
// @Success      201  {object}  dto.MovementResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/movements/{id}/reverse [post]
func (h *StockHandler) ReverseMovement(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	result, err := h.ledger.Reverse(c.Context(), companyID, userID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toMovementResultResponse(result))
}

// RecomputeProduct godoc
// @Summary      Recalcular stock y costo desde el historial
// @Description  Reproduce todos los movimientos del producto desde cero y corrige snapshots desviados.
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del producto"
// @Success      200  {object}  dto.MovementResultResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/stock/products/{id}/recompute [post]
func (h *StockHandler) RecomputeProduct(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	result, err := h.ledger.RecomputeFromHistory(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toMovementResultResponse(result))
}

// ListMovements godoc
// @Summary      Listar movimientos de un producto
// @Tags         stock
// @Security     Bearer
// @Produce      json
// @Param        product_id  query  string  true   "ID del producto"
// @Param        from        query  string  false  "Fecha inicial (RFC3339)"
// @Param        to          query  string  false  "Fecha final (RFC3339)"
// @Param        limit       query  int     false  "Tamaño de página (default 20)"
// @Param        offset      query  int     false  "Desplazamiento"
// @Success      200  {object}  dto.MovementListResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/stock/movements [get]
func (h *StockHandler) ListMovements(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.ListMovementsRequest
	if err := c.QueryParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Describe(errs)})
	}
	in.DefaultPage()

	movements, err := h.ledger.ListMovements(c.Context(), companyID, in.ProductID, in.From, in.To, in.Limit, in.Offset)
	if err != nil {
		return respondError(c, err)
	}

	items := make([]dto.MovementResponse, 0, len(movements))
	for _, m := range movements {
		items = append(items, toMovementResponse(m))
	}
	return c.JSON(dto.MovementListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: in.Limit, Offset: in.Offset, Total: len(items)},
	})
}

func toMovementResultResponse(r *ledger.MovementResult) dto.MovementResultResponse {
	return dto.MovementResultResponse{
		MovementID:     r.MovementID,
		ProductID:      r.ProductID,
		NewStock:       r.NewStock,
		NewAverageCost: r.NewAverageCost,
		TotalValue:     r.TotalValue,
	}
}

func toMovementResponse(m *entity.StockMovement) dto.MovementResponse {
	return dto.MovementResponse{
		ID:               m.ID,
		ProductID:        m.ProductID,
		Direction:        m.Direction,
		Quantity:         m.Quantity,
		UnitCost:         m.UnitCost,
		TotalCost:        m.TotalCost,
		StockAfter:       m.StockAfter,
		AverageCostAfter: m.AverageCostAfter,
		Reference:        m.Reference,
		Notes:            m.Notes,
		Date:             m.Date,
		CreatedBy:        m.CreatedBy,
	}
}
