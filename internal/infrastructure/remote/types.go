package remote

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/sid/billing-service/internal/domain/billing"
)

// halLink is one entry of a HAL _links object
type halLink struct {
	Href string `json:"href"`
}

// halLinks maps a link relation to its target
type halLinks map[string]halLink

// flatten returns rel -> href
func (l halLinks) flatten() map[string]string {
	if len(l) == 0 {
		return nil
	}
	out := make(map[string]string, len(l))
	for rel, link := range l {
		out[rel] = link.Href
	}
	return out
}

// idFromSelf extracts the trailing numeric path segment of the self link.
// Repository-backed HAL resources usually omit the id from the body.
func (l halLinks) idFromSelf() int64 {
	self, ok := l["self"]
	if !ok {
		return 0
	}
	href := strings.TrimRight(self.Href, "/")
	if i := strings.IndexAny(href, "?{"); i >= 0 {
		href = href[:i]
	}
	id, err := strconv.ParseInt(href[strings.LastIndex(href, "/")+1:], 10, 64)
	if err != nil {
		return 0
	}
	return id
}

type customerResource struct {
	ID    int64    `json:"id"`
	Name  string   `json:"name"`
	Email string   `json:"email"`
	Links halLinks `json:"_links"`
}

func (r *customerResource) toDomain() *billing.Customer {
	id := r.ID
	if id == 0 {
		id = r.Links.idFromSelf()
	}
	return &billing.Customer{ID: id, Name: r.Name, Email: r.Email}
}

type productResource struct {
	ID    int64           `json:"id"`
	Name  string          `json:"name"`
	Price decimal.Decimal `json:"price"`
	Links halLinks        `json:"_links"`
}

func (r *productResource) toDomain() billing.Product {
	id := r.ID
	if id == 0 {
		id = r.Links.idFromSelf()
	}
	return billing.Product{ID: id, Name: r.Name, Price: r.Price}
}

// productPageResource is a HAL paged collection of products
type productPageResource struct {
	Embedded struct {
		Products []productResource `json:"products"`
	} `json:"_embedded"`
	Page  *billing.PageMetadata `json:"page"`
	Links halLinks              `json:"_links"`
}

// productListBody accepts either a HAL page or a plain JSON array
type productListBody struct {
	page productPageResource
}

// UnmarshalJSON implements json.Unmarshaler
func (b *productListBody) UnmarshalJSON(data []byte) error {
	if trimmed := bytes.TrimSpace(data); len(trimmed) > 0 && trimmed[0] == '[' {
		return json.Unmarshal(trimmed, &b.page.Embedded.Products)
	}
	return json.Unmarshal(data, &b.page)
}

func (b *productListBody) toDomain() *billing.ProductPage {
	products := make([]billing.Product, 0, len(b.page.Embedded.Products))
	for i := range b.page.Embedded.Products {
		products = append(products, b.page.Embedded.Products[i].toDomain())
	}
	return &billing.ProductPage{
		Products: products,
		Page:     b.page.Page,
		Links:    b.page.Links.flatten(),
	}
}
