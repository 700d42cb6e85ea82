package responses

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// PageParams reads page and page_size (or limit) from the query string,
// clamping them to sane bounds.
func PageParams(c *gin.Context) (page, pageSize int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}

	raw := c.Query("page_size")
	if raw == "" {
		raw = c.DefaultQuery("limit", strconv.Itoa(DefaultPageSize))
	}
	pageSize, _ = strconv.Atoi(raw)
	if pageSize < 1 {
		pageSize = DefaultPageSize
	}
	if pageSize > MaxPageSize {
		pageSize = MaxPageSize
	}
	return page, pageSize
}

// Offset converts a 1-based page into a row offset.
func Offset(page, pageSize int) int {
	return (page - 1) * pageSize
}
