package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/usecase"
)

// CategoryHandler maneja las peticiones HTTP para Category.
type CategoryHandler struct {
	uc   *usecase.CategoryUseCase
	errs *ErrorWriter
}

// NewCategoryHandler construye el handler.
func NewCategoryHandler(uc *usecase.CategoryUseCase, errs *ErrorWriter) *CategoryHandler {
	return &CategoryHandler{uc: uc, errs: errs}
}

// List godoc
// @Summary      Listar categorías
// @Description  Incluye product_count por categoría.
// @Tags         categories
// @Produce      json
// @Success      200  {object}  dto.Response{data=[]dto.CategoryResponse}
// @Router       /api/categories [get]
func (h *CategoryHandler) List(c *fiber.Ctx) error {
	out, err := h.uc.List(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// GetByID godoc
// @Summary      Obtener categoría por ID
// @Tags         categories
// @Produce      json
// @Param        id   path  int  true  "ID de la categoría"
// @Success      200  {object}  dto.Response{data=dto.CategoryResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [get]
func (h *CategoryHandler) GetByID(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.errs.Write(c, err)
	}
	out, err := h.uc.GetByID(c.UserContext(), id)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// Create godoc
// @Summary      Crear categoría
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateCategoryRequest  true  "Datos de la categoría"
// @Success      201   {object}  dto.Response{data=dto.CategoryResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories [post]
func (h *CategoryHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateCategoryRequest
	if err := bindJSON(c, &in); err != nil {
		return h.errs.Write(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return ok(c, fiber.StatusCreated, out, "categoría creada")
}

// Update godoc
// @Summary      Actualizar categoría
// @Tags         categories
// @Accept       json
// @Produce      json
// @Param        id    path  int                        true  "ID de la categoría"
// @Param        body  body  dto.UpdateCategoryRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Response{data=dto.CategoryResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [put]
func (h *CategoryHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.errs.Write(c, err)
	}
	var in dto.UpdateCategoryRequest
	if err := bindJSON(c, &in); err != nil {
		return h.errs.Write(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return ok(c, fiber.StatusOK, out, "categoría actualizada")
}

// Delete godoc
// @Summary      Eliminar categoría
// @Description  Responde 409 si la categoría todavía tiene productos.
// @Tags         categories
// @Param        id   path  int  true  "ID de la categoría"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/categories/{id} [delete]
func (h *CategoryHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.errs.Write(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return h.errs.Write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
