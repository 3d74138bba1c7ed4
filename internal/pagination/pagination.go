// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package pagination translates (page, pageSize) query parameters into
// bounded SQL offsets and derives response metadata from a total count.
package pagination

// Defaults applied when the caller omits paging parameters.
const (
	DefaultPage     = 1
	DefaultPageSize = 12
	MaxPageSize     = 100
)

// Params is a normalized page request. Build it with Normalize; a
// zero-value Params is not valid for querying.
type Params struct {
	Page     int
	PageSize int
}

// Normalize clamps raw paging input to valid bounds. Non-positive values
// fall back to the defaults; oversized pages are capped at MaxPageSize.
func Normalize(page, pageSize int) Params {
	if page < 1 {
		page = DefaultPage
	}
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return Params{Page: page, PageSize: pageSize}
}

// Offset returns the number of rows to skip for this page.
func (p Params) Offset() int {
	return (p.Page - 1) * p.PageSize
}

// Limit returns the number of rows to fetch for this page.
func (p Params) Limit() int {
	return p.PageSize
}

// Meta is the pagination block attached to list responses. NextPage is
// nil on the last page and beyond.
type Meta struct {
	Total      int  `json:"total"`
	Page       int  `json:"page"`
	PageSize   int  `json:"page_size"`
	TotalPages int  `json:"total_pages"`
	NextPage   *int `json:"next_page"`
}

// MetaFor derives response metadata from the total row count matching the
// filter. TotalPages = ceil(total/pageSize).
func (p Params) MetaFor(total int) Meta {
	totalPages := (total + p.PageSize - 1) / p.PageSize

	var next *int
	if p.Page+1 <= totalPages {
		n := p.Page + 1
		next = &n
	}

	return Meta{
		Total:      total,
		Page:       p.Page,
		PageSize:   p.PageSize,
		TotalPages: totalPages,
		NextPage:   next,
	}
}
