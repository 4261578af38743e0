package dto

// Link is a HAL link object
type Link struct {
	Href      string `json:"href"`
	Templated bool   `json:"templated,omitempty"`
}

// Links maps a relation name to its link
type Links map[string]Link

// PageMetadata describes one page of a collection. Number is zero-based.
type PageMetadata struct {
	Size          int   `json:"size"`
	TotalElements int64 `json:"totalElements"`
	TotalPages    int   `json:"totalPages"`
	Number        int   `json:"number"`
}

// NewPageMetadata computes page metadata for a zero-based page number
func NewPageMetadata(number, size int, total int64) PageMetadata {
	if size <= 0 {
		size = defaultPageSize
	}
	totalPages := int(total) / size
	if int(total)%size > 0 {
		totalPages++
	}
	return PageMetadata{
		Size:          size,
		TotalElements: total,
		TotalPages:    totalPages,
		Number:        number,
	}
}

// CollectionModel is a HAL collection without pagination
type CollectionModel struct {
	Embedded map[string]any `json:"_embedded"`
	Links    Links          `json:"_links"`
}

// NewCollectionModel embeds items under rel
func NewCollectionModel(rel string, items any, links Links) CollectionModel {
	return CollectionModel{
		Embedded: map[string]any{rel: items},
		Links:    links,
	}
}

// PagedModel is a HAL collection with page metadata
type PagedModel struct {
	Embedded map[string]any `json:"_embedded"`
	Links    Links          `json:"_links"`
	Page     PageMetadata   `json:"page"`
}

// NewPagedModel embeds items under rel with page metadata
func NewPagedModel(rel string, items any, links Links, page PageMetadata) PagedModel {
	return PagedModel{
		Embedded: map[string]any{rel: items},
		Links:    links,
		Page:     page,
	}
}
