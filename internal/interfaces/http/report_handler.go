package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/primegestor/primegestor-api/internal/application/report"
	"github.com/primegestor/primegestor-api/internal/application/usecase"
)

// ReportHandler reportes y registro de actividad.
type ReportHandler struct {
	reports  *report.ReportUseCase
	activity *usecase.ActivityLogUseCase
}

// NewReportHandler construye el handler.
func NewReportHandler(reports *report.ReportUseCase, activity *usecase.ActivityLogUseCase) *ReportHandler {
	return &ReportHandler{reports: reports, activity: activity}
}

// Sales godoc
// @Summary      Ventas por producto (unidades, ingreso, costo FIFO, ganancia)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        from  query  string  false  "Desde (por defecto hace 30 días)"
// @Param        to    query  string  false  "Hasta, exclusivo (por defecto ahora)"
// @Success      200  {object}  dto.SalesReportResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/sales [get]
func (h *ReportHandler) Sales(c *fiber.Ctx) error {
	from, to, err := timeRange(c)
	if err != nil {
		return err
	}
	out, err := h.reports.SalesSummary(c.UserContext(), from, to)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// LowStock godoc
// @Summary      Productos en o bajo su mínimo, con cantidad sugerida
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  map[string]interface{}
// @Router       /api/reports/low-stock [get]
func (h *ReportHandler) LowStock(c *fiber.Ctx) error {
	list, err := h.reports.LowStock(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{
		"total": len(list),
		"items": list,
	})
}

// StockValuation godoc
// @Summary      Valor del inventario (Σ remanente × precio de compra)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Success      200  {object}  dto.StockValuationResponse
// @Router       /api/reports/stock-valuation [get]
func (h *ReportHandler) StockValuation(c *fiber.Ctx) error {
	out, err := h.reports.StockValuation(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ActivityLogs godoc
// @Summary      Registro de auditoría, más reciente primero
// @Tags         activity
// @Security     Bearer
// @Produce      json
// @Param        limit   query  int  false  "Límite"  default(20)
// @Param        offset  query  int  false  "Offset"  default(0)
// @Success      200  {object}  dto.ActivityLogListResponse
// @Router       /api/activity-logs [get]
func (h *ReportHandler) ActivityLogs(c *fiber.Ctx) error {
	limit, offset := pageParams(c)
	out, err := h.activity.List(c.UserContext(), limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
