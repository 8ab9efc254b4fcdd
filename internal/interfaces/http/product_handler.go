package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/usecase"
)

// ProductHandler maneja las peticiones HTTP para Product.
type ProductHandler struct {
	uc   *usecase.ProductUseCase
	errs *ErrorWriter
}

// NewProductHandler construye el handler.
func NewProductHandler(uc *usecase.ProductUseCase, errs *ErrorWriter) *ProductHandler {
	return &ProductHandler{uc: uc, errs: errs}
}

// Create godoc
// @Summary      Crear producto
// @Description  quantity es la cantidad inicial y no genera historial.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateProductRequest  true  "Datos del producto"
// @Success      201   {object}  dto.Response{data=dto.ProductResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products [post]
func (h *ProductHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return h.errs.Write(c, err)
	}
	out, err := h.uc.Create(c.UserContext(), in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return ok(c, fiber.StatusCreated, out, "producto creado")
}

// GetByID godoc
// @Summary      Obtener producto por ID
// @Tags         products
// @Produce      json
// @Param        id   path  int  true  "ID del producto"
// @Success      200  {object}  dto.Response{data=dto.ProductResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [get]
func (h *ProductHandler) GetByID(c *fiber.Ctx) error {
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

// List godoc
// @Summary      Listar productos
// @Tags         products
// @Produce      json
// @Param        page         query  int     false  "Página"  default(1)
// @Param        limit        query  int     false  "Límite (1-100)"  default(20)
// @Param        category_id  query  int     false  "Filtrar por categoría"
// @Param        search       query  string  false  "Busca en nombre y código"
// @Param        sort_by      query  string  false  "name | product_code | price | quantity | created_at"
// @Param        sort_order   query  string  false  "asc | desc"
// @Success      200  {object}  dto.ListResponse{data=[]dto.ProductResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/products [get]
func (h *ProductHandler) List(c *fiber.Ctx) error {
	q := newQueryParser(c)
	query := dto.ProductQuery{
		Page:       q.intInRange("page", 1, 1<<31-1),
		Limit:      q.intInRange("limit", 1, usecase.MaxProductLimit),
		CategoryID: q.optionalID("category_id"),
		Search:     c.Query("search"),
		SortBy:     c.Query("sort_by"),
		SortOrder:  c.Query("sort_order"),
	}
	if err := q.err(); err != nil {
		return h.errs.Write(c, err)
	}
	out, err := h.uc.List(c.UserContext(), query)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return okList(c, out.Items, out.Pagination)
}

// Update godoc
// @Summary      Actualizar producto
// @Description  La cantidad sólo cambia por /api/inventory.
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id    path  int                       true  "ID del producto"
// @Param        body  body  dto.UpdateProductRequest  true  "Campos a modificar"
// @Success      200   {object}  dto.Response{data=dto.ProductResponse}
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/products/{id} [put]
func (h *ProductHandler) Update(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.errs.Write(c, err)
	}
	var in dto.UpdateProductRequest
	if err := bindJSON(c, &in); err != nil {
		return h.errs.Write(c, err)
	}
	out, err := h.uc.Update(c.UserContext(), id, in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return ok(c, fiber.StatusOK, out, "producto actualizado")
}

// Delete godoc
// @Summary      Eliminar producto
// @Description  Elimina también su historial.
// @Tags         products
// @Param        id   path  int  true  "ID del producto"
// @Success      204
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/products/{id} [delete]
func (h *ProductHandler) Delete(c *fiber.Ctx) error {
	id, err := pathID(c, "id")
	if err != nil {
		return h.errs.Write(c, err)
	}
	if err := h.uc.Delete(c.UserContext(), id); err != nil {
		return h.errs.Write(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}
