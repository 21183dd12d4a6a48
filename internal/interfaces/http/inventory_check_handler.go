package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jcastano/stockcore-api/internal/application/check"
	"github.com/jcastano/stockcore-api/internal/application/dto"
	"github.com/jcastano/stockcore-api/internal/domain/entity"
	"github.com/jcastano/stockcore-api/pkg/validator"
)

// InventoryCheckHandler maneja las peticiones HTTP de conteos físicos (protegido).
type InventoryCheckHandler struct {
	reconciler *check.ReconcilerUseCase
}

// NewInventoryCheckHandler construye el handler.
func NewInventoryCheckHandler(uc *check.ReconcilerUseCase) *InventoryCheckHandler {
	return &InventoryCheckHandler{reconciler: uc}
}

// Create godoc
// @Summary      Crear conteo físico en borrador
// @Description  Congela el stock esperado de cada línea con el valor del libro al momento de crear.
// @Tags         inventory-checks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateInventoryCheckRequest  true  "líneas con product_id y actual_stock"
// @Success      201   {object}  dto.InventoryCheckResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/inventory-checks [post]
func (h *InventoryCheckHandler) Create(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	userID := GetUserID(c)
	if companyID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CreateInventoryCheckRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Describe(errs)})
	}

	chk, err := h.reconciler.Create(c.Context(), companyID, userID, in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toInventoryCheckResponse(chk))
}

// List godoc
// @Summary      Listar conteos físicos
// @Tags         inventory-checks
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Tamaño de página (default 20)"
// @Param        offset  query  int  false  "Desplazamiento"
// @Success      200  {object}  dto.InventoryCheckListResponse
// @Router       /api/inventory-checks [get]
func (h *InventoryCheckHandler) List(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "parámetros inválidos"})
	}
	page.DefaultPage()

	checks, err := h.reconciler.ListByCompany(c.Context(), companyID, page.Limit, page.Offset)
	if err != nil {
		return respondError(c, err)
	}
	items := make([]dto.InventoryCheckResponse, 0, len(checks))
	for _, chk := range checks {
		items = append(items, toInventoryCheckResponse(chk))
	}
	return c.JSON(dto.InventoryCheckListResponse{
		Items: items,
		Page:  dto.PageResponse{Limit: page.Limit, Offset: page.Offset, Total: len(items)},
	})
}

// GetByID godoc
// @Summary      Obtener conteo físico
// @Tags         inventory-checks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del conteo"
// @Success      200  {object}  dto.InventoryCheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory-checks/{id} [get]
func (h *InventoryCheckHandler) GetByID(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	chk, err := h.reconciler.GetByID(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInventoryCheckResponse(chk))
}

// Update godoc
// @Summary      Actualizar conteo en borrador
// @Tags         inventory-checks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string  true  "ID del conteo"
// @Param        body  body  dto.UpdateInventoryCheckRequest  true  "notas y/o líneas"
// @Success      200   {object}  dto.InventoryCheckResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory-checks/{id} [put]
func (h *InventoryCheckHandler) Update(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	var in dto.UpdateInventoryCheckRequest
	if err := c.BodyParser(&in); err != nil {
		return invalidBody(c)
	}
	if errs := validator.ValidateStruct(in); len(errs) > 0 {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: validator.Describe(errs)})
	}

	chk, err := h.reconciler.Update(c.Context(), companyID, c.Params("id"), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInventoryCheckResponse(chk))
}

// Complete godoc
// @Summary      Completar conteo
// @Description  Sobrescribe el stock de cada producto con el conteo real en una sola transacción. El costo promedio no cambia.
// @Tags         inventory-checks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del conteo"
// @Success      200  {object}  dto.InventoryCheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory-checks/{id}/complete [post]
func (h *InventoryCheckHandler) Complete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	chk, err := h.reconciler.Complete(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInventoryCheckResponse(chk))
}

// Cancel godoc
// @Summary      Cancelar conteo en borrador
// @Tags         inventory-checks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del conteo"
// @Success      200  {object}  dto.InventoryCheckResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory-checks/{id}/cancel [post]
func (h *InventoryCheckHandler) Cancel(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	chk, err := h.reconciler.Cancel(c.Context(), companyID, c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(toInventoryCheckResponse(chk))
}

// Delete godoc
// @Summary      Eliminar conteo no completado
// @Tags         inventory-checks
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del conteo"
// @Success      204  "sin contenido"
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/inventory-checks/{id} [delete]
func (h *InventoryCheckHandler) Delete(c *fiber.Ctx) error {
	companyID := GetCompanyID(c)
	if companyID == "" {
		return unauthorized(c)
	}
	if err := h.reconciler.Delete(c.Context(), companyID, c.Params("id")); err != nil {
		return respondError(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func toInventoryCheckResponse(chk *entity.InventoryCheck) dto.InventoryCheckResponse {
	lines := make([]dto.CheckLineResponse, 0, len(chk.Lines))
	for _, l := range chk.Lines {
		lines = append(lines, dto.CheckLineResponse{
			ProductID:     l.ProductID,
			ExpectedStock: l.ExpectedStock,
			ActualStock:   l.ActualStock,
			Difference:    l.Difference(),
		})
	}
	return dto.InventoryCheckResponse{
		ID:        chk.ID,
		CompanyID: chk.CompanyID,
		CheckCode: chk.CheckCode,
		Status:    chk.Status.String(),
		Notes:     chk.Notes,
		Lines:     lines,
		CreatedBy: chk.CreatedBy,
		CreatedAt: chk.CreatedAt,
		UpdatedAt: chk.UpdatedAt,
	}
}
