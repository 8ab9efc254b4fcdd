package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ledger/internal/application/dto"
	"github.com/jhoicas/warehouse-ledger/internal/application/inventory"
	"github.com/jhoicas/warehouse-ledger/internal/domain/entity"
)

// InventoryHandler maneja las transiciones de stock y la consulta del historial.
type InventoryHandler struct {
	ledger  *inventory.LedgerUseCase
	history *inventory.HistoryUseCase
	errs    *ErrorWriter
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(ledger *inventory.LedgerUseCase, history *inventory.HistoryUseCase, errs *ErrorWriter) *InventoryHandler {
	return &InventoryHandler{ledger: ledger, history: history, errs: errs}
}

// Increase godoc
// @Summary      Incrementar stock
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        productId  path  int                     true  "ID del producto"
// @Param        body       body  dto.StockChangeRequest  true  "quantity (> 0), reason opcional"
// @Success      201  {object}  dto.Response{data=dto.InventoryHistoryResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/increase [post]
func (h *InventoryHandler) Increase(c *fiber.Ctx) error {
	return h.change(c, entity.ChangeTypeIncrease, "stock incrementado")
}

// Decrease godoc
// @Summary      Disminuir stock
// @Description  Falla con INSUFFICIENT_STOCK (422) si la cantidad quedaría negativa; no se escribe nada.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        productId  path  int                     true  "ID del producto"
// @Param        body       body  dto.StockChangeRequest  true  "quantity (> 0), reason opcional"
// @Success      201  {object}  dto.Response{data=dto.InventoryHistoryResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      422  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/decrease [post]
func (h *InventoryHandler) Decrease(c *fiber.Ctx) error {
	return h.change(c, entity.ChangeTypeDecrease, "stock disminuido")
}

func (h *InventoryHandler) change(c *fiber.Ctx, changeType entity.ChangeType, message string) error {
	id, err := pathID(c, "productId")
	if err != nil {
		return h.errs.Write(c, err)
	}
	var in dto.StockChangeRequest
	if err := bindJSON(c, &in); err != nil {
		return h.errs.Write(c, err)
	}
	res, err := h.ledger.ApplyFromRequest(c.UserContext(), id, changeType, in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return ok(c, fiber.StatusCreated, res.Entry, message)
}

// Adjust godoc
// @Summary      Ajustar stock a una cantidad
// @Description  Responde 200 sin entrada nueva cuando la cantidad no cambia y los ajustes sin cambio no se registran.
// @Tags         inventory
// @Accept       json
// @Produce      json
// @Param        productId  path  int                     true  "ID del producto"
// @Param        body       body  dto.StockAdjustRequest  true  "new_quantity (>= 0), reason opcional"
// @Success      201  {object}  dto.Response{data=dto.InventoryHistoryResponse}
// @Success      200  {object}  dto.Response{data=dto.InventoryHistoryResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/adjust [post]
func (h *InventoryHandler) Adjust(c *fiber.Ctx) error {
	id, err := pathID(c, "productId")
	if err != nil {
		return h.errs.Write(c, err)
	}
	var in dto.StockAdjustRequest
	if err := bindJSON(c, &in); err != nil {
		return h.errs.Write(c, err)
	}
	res, err := h.ledger.AdjustFromRequest(c.UserContext(), id, in)
	if err != nil {
		return h.errs.Write(c, err)
	}
	if !res.Recorded {
		return ok(c, fiber.StatusOK, res.Entry, "la cantidad no cambió")
	}
	return ok(c, fiber.StatusCreated, res.Entry, "stock ajustado")
}

// ProductHistory godoc
// @Summary      Historial de un producto
// @Tags         inventory
// @Produce      json
// @Param        productId    path   int     true   "ID del producto"
// @Param        page         query  int     false  "Página"  default(1)
// @Param        limit        query  int     false  "Límite (1-100)"  default(20)
// @Param        change_type  query  string  false  "increase | decrease | adjustment"
// @Param        start_date   query  string  false  "RFC 3339 o YYYY-MM-DD"
// @Param        end_date     query  string  false  "RFC 3339 o YYYY-MM-DD (inclusive)"
// @Success      200  {object}  dto.ListResponse{data=[]dto.InventoryHistoryResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/{productId}/history [get]
func (h *InventoryHandler) ProductHistory(c *fiber.Ctx) error {
	id, err := pathID(c, "productId")
	if err != nil {
		return h.errs.Write(c, err)
	}
	f, err := historyFilterFromQuery(c)
	if err != nil {
		return h.errs.Write(c, err)
	}
	f.ProductID = &id
	return h.list(c, f)
}

// AllHistory godoc
// @Summary      Historial de inventario
// @Tags         inventory
// @Produce      json
// @Param        product_id   query  int     false  "Filtrar por producto"
// @Param        page         query  int     false  "Página"  default(1)
// @Param        limit        query  int     false  "Límite (1-100)"  default(20)
// @Param        change_type  query  string  false  "increase | decrease | adjustment"
// @Param        start_date   query  string  false  "RFC 3339 o YYYY-MM-DD"
// @Param        end_date     query  string  false  "RFC 3339 o YYYY-MM-DD (inclusive)"
// @Success      200  {object}  dto.ListResponse{data=[]dto.InventoryHistoryResponse}
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/history [get]
func (h *InventoryHandler) AllHistory(c *fiber.Ctx) error {
	f, err := historyFilterFromQuery(c)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return h.list(c, f)
}

func (h *InventoryHandler) list(c *fiber.Ctx, f inventory.HistoryFilter) error {
	out, err := h.history.ListHistory(c.UserContext(), f)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return okList(c, out.Items, out.Pagination)
}

func historyFilterFromQuery(c *fiber.Ctx) (inventory.HistoryFilter, error) {
	q := newQueryParser(c)
	f := inventory.HistoryFilter{
		ProductID: q.optionalID("product_id"),
		Page:      q.intInRange("page", 1, 1<<31-1),
		Limit:     q.intInRange("limit", 1, inventory.MaxHistoryLimit),
		StartDate: q.date("start_date", false),
		EndDate:   q.date("end_date", true),
	}
	if raw := c.Query("change_type"); raw != "" {
		ct, valid := entity.ParseChangeType(raw)
		if valid {
			f.ChangeType = &ct
		} else {
			q.ve.Add("change_type", "debe ser increase, decrease o adjustment")
		}
	}
	return f, q.err()
}
