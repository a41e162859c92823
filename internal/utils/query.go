package utils

import (
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
)

// MaxPerPage caps oversized per_page values some list screens send to
// emulate "fetch all".
const MaxPerPage = 1000

type Pagination struct {
	Page    int
	PerPage int
}

func (p Pagination) Skip() int64  { return int64((p.Page - 1) * p.PerPage) }
func (p Pagination) Limit() int64 { return int64(p.PerPage) }

// ParsePagination reads page/per_page query parameters with sane defaults.
func ParsePagination(c *gin.Context) Pagination {
	page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
	if err != nil || page < 1 {
		page = 1
	}
	perPage, err := strconv.Atoi(c.DefaultQuery("per_page", "20"))
	if err != nil || perPage < 1 {
		perPage = 20
	}
	if perPage > MaxPerPage {
		perPage = MaxPerPage
	}
	return Pagination{Page: page, PerPage: perPage}
}

// ParseWith splits the "with" eager-load parameter into relation names.
func ParseWith(c *gin.Context) map[string]bool {
	with := map[string]bool{}
	for _, rel := range strings.Split(c.Query("with"), ",") {
		rel = strings.TrimSpace(rel)
		if rel != "" {
			with[rel] = true
		}
	}
	return with
}
