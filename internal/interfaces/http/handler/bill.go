package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	billingapp "github.com/sid/billing-service/internal/application/billing"
	"github.com/sid/billing-service/internal/interfaces/http/dto"
)

// ProjectionFullBill selects the fullBill view on GET /bills/:id
const ProjectionFullBill = "fullBill"

// BillResource is a bill with its HAL links
type BillResource struct {
	billingapp.BillResponse
	Links dto.Links `json:"_links"`
}

// FullBillResource is the fullBill projection with its HAL links
type FullBillResource struct {
	billingapp.FullBillProjection
	Links dto.Links `json:"_links"`
}

// BillHandler handles bill API endpoints
type BillHandler struct {
	BaseHandler
	bills *billingapp.BillService
}

// NewBillHandler creates a new BillHandler
func NewBillHandler(base BaseHandler, bills *billingapp.BillService) *BillHandler {
	return &BillHandler{BaseHandler: base, bills: bills}
}

func (h *BillHandler) toResource(c *gin.Context, b *billingapp.BillResponse) BillResource {
	return BillResource{BillResponse: *b, Links: h.billLinks(c, b.ID)}
}

// List returns one page of bills.
// GET /bills?page=0&size=20&sort=billingDate,desc&customer_id=7
func (h *BillHandler) List(c *gin.Context) {
	var filter billingapp.BillListFilter
	if !h.bindQuery(c, &filter) {
		return
	}

	bills, total, err := h.bills.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resources := make([]BillResource, len(bills))
	for i := range bills {
		resources[i] = h.toResource(c, &bills[i])
	}

	page := dto.NewPageMetadata(filter.Page, billingapp.PageSize(filter.Size), total)
	links := h.pageLinks(c, "/bills", page, listQuery(filter.Sort, "customer_id", filter.CustomerID))
	c.JSON(http.StatusOK, dto.NewPagedModel("bills", resources, links, page))
}

// Create creates a bill, optionally with inline product items.
// POST /bills
func (h *BillHandler) Create(c *gin.Context) {
	var req billingapp.CreateBillRequest
	if !h.bindJSON(c, &req) {
		return
	}

	bill, err := h.bills.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resource := h.toResource(c, bill)
	h.Created(c, resource.Links["self"].Href, resource)
}

// Get returns a bill. ?projection=fullBill returns the bill with its items.
// GET /bills/:id
func (h *BillHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if c.Query("projection") == ProjectionFullBill {
		projection, err := h.bills.GetFullBill(c.Request.Context(), id)
		if err != nil {
			h.HandleError(c, err)
			return
		}
		c.JSON(http.StatusOK, FullBillResource{FullBillProjection: *projection, Links: h.billLinks(c, id)})
		return
	}

	bill, err := h.bills.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, h.toResource(c, bill))
}

// Update replaces a bill's fields. The body must carry the current version.
// PUT /bills/:id
func (h *BillHandler) Update(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	var req billingapp.UpdateBillRequest
	if !h.bindJSON(c, &req) {
		return
	}

	if _, err := h.bills.Update(c.Request.Context(), id, req); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// Delete removes a bill and its items.
// DELETE /bills/:id
func (h *BillHandler) Delete(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	if err := h.bills.Delete(c.Request.Context(), id); err != nil {
		h.HandleError(c, err)
		return
	}
	h.NoContent(c)
}

// ListItems returns the product items of a bill.
// GET /bills/:id/productItems
func (h *BillHandler) ListItems(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	items, err := h.bills.ListItems(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	resources := make([]ProductItemResource, len(items))
	for i := range items {
		resources[i] = h.productItemResource(c, &items[i])
	}
	links := dto.Links{"self": h.link(c, "/bills/%d/productItems", id)}
	c.JSON(http.StatusOK, dto.NewCollectionModel("productItems", resources, links))
}
