package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/primegestor/primegestor-api/internal/application/dto"
	"github.com/primegestor/primegestor-api/internal/application/inventory"
)

// InventoryHandler compras y ventas (protegido).
type InventoryHandler struct {
	purchase *inventory.CreatePurchaseUseCase
	sale     *inventory.CreateSaleUseCase
	query    *inventory.QueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(purchase *inventory.CreatePurchaseUseCase, sale *inventory.CreateSaleUseCase, query *inventory.QueryUseCase) *InventoryHandler {
	return &InventoryHandler{purchase: purchase, sale: sale, query: query}
}

// CreatePurchase godoc
// @Summary      Registrar compra
// @Description  Crea la compra, un lote nuevo, suma la cantidad al producto y anota un movimiento IN.
// @Tags         purchases
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreatePurchaseRequest  true  "supplier_id, product_id, purchased_quantity, purchase_price"
// @Success      201   {object}  dto.PurchaseResponse
// @Failure      400   {object}  dto.ValidationErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/purchases [post]
func (h *InventoryHandler) CreatePurchase(c *fiber.Ctx) error {
	var in dto.CreatePurchaseRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.purchase.Execute(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// CreateSale godoc
// @Summary      Registrar venta
// @Description  Calcula el costo FIFO, drena lotes, descuenta la cantidad del producto y anota un movimiento OUT.
// @Tags         sales
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateSaleRequest  true  "customer_id, product_id, sold_quantity, sale_price"
// @Success      201   {object}  dto.SaleResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      500   {object}  dto.ErrorResponse
// @Router       /api/sales [post]
func (h *InventoryHandler) CreateSale(c *fiber.Ctx) error {
	var in dto.CreateSaleRequest
	if err := parseBody(c, &in); err != nil {
		return err
	}
	out, err := h.sale.Execute(c.UserContext(), GetUserID(c), in)
	if err != nil {
		return err
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetSale godoc
// @Summary      Obtener venta
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la venta"
// @Success      200  {object}  dto.SaleResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/sales/{id} [get]
func (h *InventoryHandler) GetSale(c *fiber.Ctx) error {
	out, err := h.query.GetSale(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListSales godoc
// @Summary      Listar ventas
// @Tags         sales
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta, exclusivo"
// @Param        limit   query  int     false  "Límite"  default(20)
// @Param        offset  query  int     false  "Offset"  default(0)
// @Success      200  {object}  dto.SaleListResponse
// @Router       /api/sales [get]
func (h *InventoryHandler) ListSales(c *fiber.Ctx) error {
	from, to, err := timeRange(c)
	if err != nil {
		return err
	}
	limit, offset := pageParams(c)
	out, err := h.query.ListSales(c.UserContext(), from, to, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// GetPurchase godoc
// @Summary      Obtener compra
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        id   path  string  true  "ID de la compra"
// @Success      200  {object}  dto.PurchaseResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/purchases/{id} [get]
func (h *InventoryHandler) GetPurchase(c *fiber.Ctx) error {
	out, err := h.query.GetPurchase(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(out)
}

// ListPurchases godoc
// @Summary      Listar compras
// @Tags         purchases
// @Security     Bearer
// @Produce      json
// @Param        from    query  string  false  "Desde (RFC3339 o YYYY-MM-DD)"
// @Param        to      query  string  false  "Hasta, exclusivo"
// @Success      200  {object}  dto.PurchaseListResponse
// @Router       /api/purchases [get]
func (h *InventoryHandler) ListPurchases(c *fiber.Ctx) error {
	from, to, err := timeRange(c)
	if err != nil {
		return err
	}
	limit, offset := pageParams(c)
	out, err := h.query.ListPurchases(c.UserContext(), from, to, limit, offset)
	if err != nil {
		return err
	}
	return c.JSON(out)
}
