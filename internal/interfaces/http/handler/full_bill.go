package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	billingapp "github.com/sid/billing-service/internal/application/billing"
)

// FullBillHandler serves bills joined with their customer and products
type FullBillHandler struct {
	BaseHandler
	enrichment *billingapp.EnrichmentService
}

// NewFullBillHandler creates a new FullBillHandler
func NewFullBillHandler(base BaseHandler, enrichment *billingapp.EnrichmentService) *FullBillHandler {
	return &FullBillHandler{BaseHandler: base, enrichment: enrichment}
}

// Get returns the enriched bill. Unknown customers or products answer 404,
// unreachable remotes 502 and slow ones 504.
// GET /fullBill/:id
func (h *FullBillHandler) Get(c *gin.Context) {
	id, ok := h.parseID(c, "id")
	if !ok {
		return
	}

	bill, err := h.enrichment.GetEnrichedBill(c.Request.Context(), id)
	if err != nil {
		h.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, billingapp.ToEnrichedBillResponse(bill))
}
