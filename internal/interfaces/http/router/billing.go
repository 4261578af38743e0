package router

import (
	"github.com/gin-gonic/gin"

	"github.com/sid/billing-service/internal/interfaces/http/handler"
)

// BillingHandlers are the handlers served by the billing API
type BillingHandlers struct {
	Bills        *handler.BillHandler
	ProductItems *handler.ProductItemHandler
	FullBills    *handler.FullBillHandler
	System       *handler.SystemHandler

	// Idempotency guards the create endpoints; nil leaves them unguarded
	Idempotency gin.HandlerFunc
}

// RegisterBilling registers the bill, product item, fullBill and system routes
func (r *Router) RegisterBilling(h BillingHandlers) *Router {
	create := func(fn gin.HandlerFunc) []gin.HandlerFunc {
		if h.Idempotency == nil {
			return []gin.HandlerFunc{fn}
		}
		return []gin.HandlerFunc{h.Idempotency, fn}
	}

	bills := NewDomainGroup("bills", "/bills")
	bills.GET("", h.Bills.List).
		POST("", create(h.Bills.Create)...).
		GET("/:id", h.Bills.Get).
		PUT("/:id", h.Bills.Update).
		DELETE("/:id", h.Bills.Delete).
		GET("/:id/productItems", h.Bills.ListItems)

	items := NewDomainGroup("productItems", "/productItems")
	items.GET("", h.ProductItems.List).
		POST("", create(h.ProductItems.Create)...).
		GET("/:id", h.ProductItems.Get).
		GET("/:id/bill", h.ProductItems.GetBill).
		PUT("/:id", h.ProductItems.Update).
		DELETE("/:id", h.ProductItems.Delete)

	fullBills := NewDomainGroup("fullBill", "/fullBill")
	fullBills.GET("/:id", h.FullBills.Get)

	system := NewDomainGroup("system", "/system")
	system.GET("/ping", h.System.Ping).
		GET("/info", h.System.GetSystemInfo)

	health := NewDomainGroup("health", "")
	health.GET("/health", h.System.Health)

	return r.Register(bills).
		Register(items).
		Register(fullBills).
		Register(system).
		Register(health)
}
