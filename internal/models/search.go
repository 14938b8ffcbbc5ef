package models

import "strings"

// PropertyFilter is the search input. Pointer fields are optional.
type PropertyFilter struct {
	Name          string   `form:"name" json:"name,omitempty"`
	Address       string   `form:"address" json:"address,omitempty"`
	MinPrice      *float64 `form:"minPrice" json:"minPrice,omitempty"`
	MaxPrice      *float64 `form:"maxPrice" json:"maxPrice,omitempty"`
	City          string   `form:"city" json:"city,omitempty"`
	State         string   `form:"state" json:"state,omitempty"`
	Country       string   `form:"country" json:"country,omitempty"`
	OwnerName     string   `form:"ownerName" json:"ownerName,omitempty"`
	Year          *int     `form:"year" json:"year,omitempty"`
	Page          int      `form:"page" json:"page"`
	PageSize      int      `form:"pageSize" json:"pageSize"`
	SortBy        string   `form:"sortBy" json:"sortBy,omitempty"`
	SortDirection string   `form:"sortDirection" json:"sortDirection,omitempty"`
}

const (
	DefaultPage          = 1
	DefaultPageSize      = 10
	DefaultSortBy        = "CreatedAt"
	DefaultSortDirection = "desc"
)

// ApplyDefaults fills page, page size and sort when the caller left them empty.
func (f *PropertyFilter) ApplyDefaults(pageSize int) {
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}
	if f.Page == 0 {
		f.Page = DefaultPage
	}
	if f.PageSize == 0 {
		f.PageSize = pageSize
	}
	if f.SortBy == "" {
		f.SortBy = DefaultSortBy
	}
	if f.SortDirection == "" {
		f.SortDirection = DefaultSortDirection
	}
}

// LocationTerms maps each specified place tag to its search term.
func (f *PropertyFilter) LocationTerms() map[string]string {
	terms := make(map[string]string, 3)
	for tag, term := range map[string]string{PlaceCity: f.City, PlaceState: f.State, PlaceCountry: f.Country} {
		if term = strings.TrimSpace(term); term != "" {
			terms[tag] = term
		}
	}
	return terms
}

type PaginationMeta struct {
	TotalCount      int64   `json:"totalCount"`
	Page            int     `json:"page"`
	PageSize        int     `json:"pageSize"`
	TotalPages      int     `json:"totalPages"`
	HasNextPage     bool    `json:"hasNextPage"`
	HasPreviousPage bool    `json:"hasPreviousPage"`
	Next            *string `json:"next,omitempty"`
	Prev            *string `json:"prev,omitempty"`
}

// PagedResult is one page of items plus the metadata describing the full set.
type PagedResult[T any] struct {
	Items []T            `json:"items"`
	Meta  PaginationMeta `json:"meta"`
}
