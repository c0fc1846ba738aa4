package utils

import (
	"strconv"

	"github.com/gin-gonic/gin"
)

// PostsPerPage is the fixed page size for the home and per-user feeds.
const PostsPerPage = 3

// ParsePageParam extracts the 1-based 'page' parameter from the request's query parameters.
// Missing, malformed or non-positive values fall back to the first page.
func ParsePageParam(ctx *gin.Context) int {
	pageString := ctx.Query(PageParamKey)
	if pageString == "" {
		return 1
	}

	page, err := strconv.Atoi(pageString)
	if err != nil || page < 1 {
		return 1
	}

	return page
}

// PageOffset returns the row offset for the given 1-based page.
func PageOffset(page int) int {
	return (page - 1) * PostsPerPage
}
