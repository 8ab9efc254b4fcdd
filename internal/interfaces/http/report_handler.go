package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/warehouse-ledger/internal/application/report"
)

// ReportHandler expone los reportes agregados de inventario.
type ReportHandler struct {
	uc   *report.ReportUseCase
	errs *ErrorWriter
}

// NewReportHandler construye el handler.
func NewReportHandler(uc *report.ReportUseCase, errs *ErrorWriter) *ReportHandler {
	return &ReportHandler{uc: uc, errs: errs}
}

// StockByCategory godoc
// @Summary      Stock por categoría
// @Description  Una fila por categoría (también las vacías), ordenadas por nombre.
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.Response{data=[]dto.StockByCategoryDTO}
// @Router       /api/reports/stock-by-category [get]
func (h *ReportHandler) StockByCategory(c *fiber.Ctx) error {
	out, err := h.uc.StockByCategory(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// StockByCategoryPDF godoc
// @Summary      Stock por categoría (PDF)
// @Tags         reports
// @Produce      application/pdf
// @Success      200  {file}  binary
// @Router       /api/reports/stock-by-category/pdf [get]
func (h *ReportHandler) StockByCategoryPDF(c *fiber.Ctx) error {
	body, filename, err := h.uc.StockByCategoryPDF(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Status(fiber.StatusOK).Send(body)
}

// LowStock godoc
// @Summary      Productos con stock bajo
// @Description  quantity <= threshold; sin threshold se usa el valor configurado.
// @Tags         reports
// @Produce      json
// @Param        threshold  query  int  false  "Umbral (>= 0)"
// @Success      200  {object}  dto.Response{data=dto.LowStockReportDTO}
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	q := newQueryParser(c)
	threshold := q.optionalInt("threshold", 0)
	if err := q.err(); err != nil {
		return h.errs.Write(c, err)
	}
	out, err := h.uc.LowStock(c.UserContext(), threshold)
	if err != nil {
		return h.errs.Write(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}

// Dashboard godoc
// @Summary      Indicadores generales
// @Tags         reports
// @Produce      json
// @Success      200  {object}  dto.Response{data=dto.DashboardStatsDTO}
// @Router       /api/reports/dashboard [get]
func (h *ReportHandler) Dashboard(c *fiber.Ctx) error {
	out, err := h.uc.DashboardStats(c.UserContext())
	if err != nil {
		return h.errs.Write(c, err)
	}
	return ok(c, fiber.StatusOK, out, "")
}
