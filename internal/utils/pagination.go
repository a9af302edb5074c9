package utils

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"storytracker/internal/constants"
)

// PaginationParams holds the pagination parameters
type PaginationParams struct {
	Offset int
	Limit  int
}

// GetPaginationParams extracts and validates pagination parameters from the request
func GetPaginationParams(c *gin.Context) PaginationParams {
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(constants.DefaultPageLimit)))

	if offset < 0 {
		offset = 0
	}
	if limit < 1 || limit > constants.MaxPageLimit {
		limit = constants.DefaultPageLimit
	}

	return PaginationParams{
		Offset: offset,
		Limit:  limit,
	}
}

// BuildLinkHeader produces the hydra pagination relations for a collection page.
// basePageURL must end with '?' or '&' so offset/limit can be appended directly.
// hydra:next is present only while a further page exists; hydra:last always is.
func BuildLinkHeader(basePageURL string, params PaginationParams, total int64) string {
	var relations []string

	if total > int64(params.Offset+params.Limit-1) {
		relations = append(relations, fmt.Sprintf("<%soffset=%d&limit=%d>; rel=\"hydra:next\"",
			basePageURL, params.Offset+params.Limit, params.Limit))
	}

	lastOffset := total - int64(params.Limit)
	if lastOffset < 0 {
		lastOffset = 0
	}
	relations = append(relations, fmt.Sprintf("<%soffset=%d&limit=%d>; rel=\"hydra:last\"",
		basePageURL, lastOffset, params.Limit))

	return strings.Join(relations, ", ")
}
