package server

const (
	defaultPerPage = 20
	maxPerPage     = 100
)

type pageQuery struct {
	Page    int `form:"page" binding:"omitempty,min=1"`
	PerPage int `form:"per_page" binding:"omitempty,min=1"`
}

var pageMessages = bindMessages{
	"Page":    {"min": "page must be at least 1"},
	"PerPage": {"min": "per_page must be at least 1"},
}

func (q pageQuery) normalize() (int, int) {
	page, perPage := q.Page, q.PerPage
	if page <= 0 {
		page = 1
	}
	if perPage <= 0 {
		perPage = defaultPerPage
	}
	if perPage > maxPerPage {
		perPage = maxPerPage
	}
	return page, perPage
}

type pagination struct {
	Page       int   `json:"page"`
	PerPage    int   `json:"per_page"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasPrev    bool  `json:"has_prev"`
	HasNext    bool  `json:"has_next"`
	PrevPage   int   `json:"prev_page,omitempty"`
	NextPage   int   `json:"next_page,omitempty"`
}

func buildPagination(page, perPage int, total int64) pagination {
	if perPage <= 0 {
		perPage = 1
	}
	totalPages := int((total + int64(perPage) - 1) / int64(perPage))
	if totalPages == 0 {
		totalPages = 1
	}
	if page <= 0 {
		page = 1
	}
	data := pagination{
		Page:       page,
		PerPage:    perPage,
		Total:      total,
		TotalPages: totalPages,
	}
	data.HasPrev = page > 1
	data.HasNext = page < totalPages
	if data.HasPrev {
		data.PrevPage = min(page-1, totalPages)
	}
	if data.HasNext {
		data.NextPage = page + 1
	}
	return data
}
