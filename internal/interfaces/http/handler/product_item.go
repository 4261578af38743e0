package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	billingapp "github.com/sid/billing-service/internal/application/billing"
	"github.com/sid/billing-service/internal/interfaces/http/dto"
)

// ProductItemResource is a product item with its HAL links
type ProductItemResource struct {
	billingapp.ProductItemResponse
	Links dto.Links `json:"_links"`
}

// ProductItemHandler handles product item API endpoints
type ProductItemHandler struct {
	BaseHandler
	items *billingapp.ProductItemService
	bills *billingapp.BillService
}

// NewProductItemHandler creates a new ProductItemHandler
func NewProductItemHandler(
	base BaseHandler,
	items *billingapp.ProductItemService,
	bills *billingapp.BillService,
) *ProductItemHandler {
	return &ProductItemHandler{BaseHandler: base, items: items, bills: bills}
}

// List returns one page of product items.
// GET /productItems?page=0&size=20&bill_id=1
func (h *ProductItemHandler) List(c *gin.Context) {
	var filter billingapp.ProductItemListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	items, total, err := h.items.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resources := make([]ProductItemResource, len(items))
	for i := range items {
		resources[i] = h.productItemResource(c, &items[i])
	}

	page := dto.NewPageMetadata(filter.Page, billingapp.PageSize(filter.Size), total)
	extra := listQuery(filter.Sort, "bill_id", filter.BillID) + listQuery("", "product_id", filter.ProductID)
	links := h.pageLinks(c, "/productItems", page, extra)
	c.JSON(http.StatusOK, dto.NewPagedModel("productItems", resources, links, page))
}

// Create adds a product item to an existing bill.
// POST /productItems
func (h *ProductItemHandler) Create(c *gin.Context) {
	var req billingapp.CreateProductItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	item, err := h.items.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resource := h.productItemResource(c, item)
	h.Created(c, resource.Links["self"].Href, resource)
}

// Get returns a product item.
// GET /productItems/:id
func (h *ProductItemHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.items.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.productItemResource(c, item))
}

// GetBill follows the item's bill association.
// GET /productItems/:id/bill
func (h *ProductItemHandler) GetBill(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	item, err := h.items.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	bill, err := h.bills.GetByID(c.Request.Context(), item.BillID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, BillResource{BillResponse: *bill, Links: h.billLinks(c, bill.ID)})
}

// Update replaces a product item. The body must carry the current version.
// PUT /productItems/:id
func (h *ProductItemHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req billingapp.UpdateProductItemRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if _, err := h.items.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete removes a product item.
// DELETE /productItems/:id
func (h *ProductItemHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.items.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}
