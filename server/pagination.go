package main

import (
	"net/http"
	"strconv"
)

const pageSize = 50

type pageLink struct {
	Page    int
	URL     string
	Current bool
}

type pagination struct {
	Page    int
	Pages   int
	Total   int64
	PrevURL string
	NextURL string
	Links   []pageLink
}

// newPagination reads ?page= from r, clamps it to the available pages and builds the
// links with urlFor.
func newPagination(r *http.Request, total int64, urlFor func(page int) string) *pagination {
	pages := int((total + pageSize - 1) / pageSize)
	if pages < 1 {
		pages = 1
	}

	page, err := strconv.Atoi(r.URL.Query().Get("page"))
	if err != nil || page < 1 {
		page = 1
	}
	if page > pages {
		page = pages
	}

	p := &pagination{
		Page:  page,
		Pages: pages,
		Total: total,
	}
	if page > 1 {
		p.PrevURL = urlFor(page - 1)
	}
	if page < pages {
		p.NextURL = urlFor(page + 1)
	}
	if pages > 1 {
		for i := 1; i <= pages; i++ {
			p.Links = append(p.Links, pageLink{Page: i, URL: urlFor(i), Current: i == page})
		}
	}
	return p
}

func (p *pagination) Offset() int {
	return (p.Page - 1) * pageSize
}
