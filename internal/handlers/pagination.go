package handlers

import (
	"strconv"

	"github.com/cpopa/taskdesk-api/internal/constants"
	"github.com/gin-gonic/gin"
)

// pageMeta is the pagination block attached to paginated list responses.
type pageMeta struct {
	Page  int   `json:"page"`
	Limit int   `json:"limit"`
	Total int64 `json:"total"`
}

// pageParams reads ?page and ?limit, clamping both to the configured bounds.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", strconv.Itoa(constants.MinPageSize)))
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageSize)))

	if page < constants.MinPageSize {
		page = constants.MinPageSize
	}
	if limit < constants.MinPageSize || limit > constants.MaxPageSize {
		limit = constants.DefaultPageSize
	}
	return page, limit
}
