package utils

import (
	"net/url"
	"strconv"

	"realestate-catalog/internal/models"
)

// BuildPaginationURL returns baseURL with params plus the given page and
// pageSize. Any page or pageSize already in params is replaced.
func BuildPaginationURL(baseURL string, page, pageSize int, params url.Values) string {
	u, err := url.Parse(baseURL)
	if err != nil {
		return ""
	}
	q := url.Values{}
	for key, values := range params {
		if key == "page" || key == "pageSize" {
			continue
		}
		for _, value := range values {
			q.Add(key, value)
		}
	}
	q.Set("page", strconv.Itoa(page))
	q.Set("pageSize", strconv.Itoa(pageSize))
	u.RawQuery = q.Encode()
	return u.String()
}

// SetPageLinks fills the next and previous links of meta.
func SetPageLinks(meta *models.PaginationMeta, baseURL string, params url.Values) {
	if meta.HasNextPage {
		next := BuildPaginationURL(baseURL, meta.Page+1, meta.PageSize, params)
		meta.Next = &next
	}
	if meta.HasPreviousPage {
		prev := BuildPaginationURL(baseURL, meta.Page-1, meta.PageSize, params)
		meta.Prev = &prev
	}
}
