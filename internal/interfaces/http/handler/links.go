package handler

import (
	"fmt"
	"net/netip"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"

	billingapp "github.com/sid/billing-service/internal/application/billing"
	"github.com/sid/billing-service/internal/interfaces/http/dto"
)

// baseURL returns scheme://host plus the configured base path
func (h *BaseHandler) baseURL(c *gin.Context) string {
	scheme, host := "http", c.Request.Host
	if c.Request.TLS != nil {
		scheme = "https"
	}
	if h.fromTrustedProxy(c) {
		if proto := firstForwarded(c.GetHeader("X-Forwarded-Proto")); proto == "http" || proto == "https" {
			scheme = proto
		}
		if fwdHost := firstForwarded(c.GetHeader("X-Forwarded-Host")); fwdHost != "" {
			host = fwdHost
		}
	}
	return scheme + "://" + host + h.basePath
}

// fromTrustedProxy reports whether the direct peer is a configured proxy
func (h *BaseHandler) fromTrustedProxy(c *gin.Context) bool {
	if len(h.trustedProxies) == 0 {
		return false
	}
	addr, err := netip.ParseAddr(c.RemoteIP())
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range h.trustedProxies {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}

// firstForwarded returns the first hop of a comma separated forwarded header
func firstForwarded(v string) string {
	first, _, _ := strings.Cut(v, ",")
	return strings.ToLower(strings.TrimSpace(first))
}

// link builds an absolute HAL link for a path relative to the base path
func (h *BaseHandler) link(c *gin.Context, format string, args ...any) dto.Link {
	return dto.Link{Href: h.baseURL(c) + fmt.Sprintf(format, args...)}
}

// billLinks are the links of a bill resource
func (h *BaseHandler) billLinks(c *gin.Context, id int64) dto.Links {
	self := h.link(c, "/bills/%d", id)
	return dto.Links{
		"self":         self,
		"bill":         self,
		"productItems": h.link(c, "/bills/%d/productItems", id),
	}
}

// productItemResource wraps an item with its links
func (h *BaseHandler) productItemResource(c *gin.Context, item *billingapp.ProductItemResponse) ProductItemResource {
	self := h.link(c, "/productItems/%d", item.ID)
	return ProductItemResource{
		ProductItemResponse: *item,
		Links: dto.Links{
			"self":        self,
			"productItem": self,
			"bill":        h.link(c, "/productItems/%d/bill", item.ID),
		},
	}
}

// pageLinks builds self, first, prev, next and last links for a page.
// extra is appended to every query string.
func (h *BaseHandler) pageLinks(c *gin.Context, path string, page dto.PageMetadata, extra string) dto.Links {
	at := func(n int) dto.Link {
		return h.link(c, "%s?page=%d&size=%d%s", path, n, page.Size, extra)
	}

	links := dto.Links{"self": at(page.Number)}
	if page.TotalPages == 0 {
		return links
	}
	links["first"] = at(0)
	links["last"] = at(page.TotalPages - 1)
	if page.Number > 0 {
		links["prev"] = at(min(page.Number, page.TotalPages) - 1)
	}
	if page.Number+1 < page.TotalPages {
		links["next"] = at(page.Number + 1)
	}
	return links
}

// listQuery renders the sort and one optional id filter as query suffix
func listQuery(sort, filterName string, filterValue int64) string {
	q := ""
	if sort != "" {
		q += "&sort=" + url.QueryEscape(sort)
	}
	if filterValue > 0 {
		q += fmt.Sprintf("&%s=%d", filterName, filterValue)
	}
	return q
}
