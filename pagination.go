package gorecipes

import (
	"fmt"
	"strings"
)

type Pagination struct {
	TotalCount int `json:"totalCount"`
	Page       int `json:"page"`
	PerPage    int `json:"perPage"`
	TotalPages int `json:"totalPages"`
}

func NewPagination(totalCount, page, perPage int) Pagination {
	totalPages := 0
	if perPage > 0 {
		totalPages = (totalCount + perPage - 1) / perPage
	}
	return Pagination{TotalCount: totalCount, Page: page, PerPage: perPage, TotalPages: totalPages}
}

type Link struct {
	Rel  string `json:"rel"`
	Href string `json:"href"`
}

// Links returns the hypermedia link set for this page: next when a later page
// exists, prev when an earlier one does, and always first and last.
func (p Pagination) Links(baseURL string) []Link {
	href := func(page int) string {
		return fmt.Sprintf("%s?page=%d&per_page=%d", baseURL, page, p.PerPage)
	}

	var links []Link
	if p.Page < p.TotalPages {
		links = append(links, Link{Rel: "next", Href: href(p.Page + 1)})
	}
	if p.Page > 1 {
		links = append(links, Link{Rel: "prev", Href: href(p.Page - 1)})
	}
	links = append(links, Link{Rel: "first", Href: href(1)})
	links = append(links, Link{Rel: "last", Href: href(p.TotalPages)})
	return links
}

// LinkHeader renders the link set as an RFC 5988 Link header value.
func (p Pagination) LinkHeader(baseURL string) string {
	links := p.Links(baseURL)
	parts := make([]string, 0, len(links))
	for _, l := range links {
		parts = append(parts, fmt.Sprintf("<%s>; rel=%q", l.Href, l.Rel))
	}
	return strings.Join(parts, ", ")
}
