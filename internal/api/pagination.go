package api

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/plateful/backend/internal/types"
)

const (
	defaultPageSize = 6
	maxPageSize     = 100
)

// pageParams reads the page/limit query parameters, clamping both to sane
// bounds.
func pageParams(c *gin.Context) (page, limit int) {
	page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	if page < 1 {
		page = 1
	}
	limit, _ = strconv.Atoi(c.DefaultQuery("limit", strconv.Itoa(defaultPageSize)))
	if limit < 1 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	return page, limit
}

// paginate wraps results in the {count, next, previous, results} envelope
// with absolute neighbor-page URLs.
func paginate(c *gin.Context, count int64, page, limit int, results interface{}) types.Page {
	var next, previous *string
	if int64(page*limit) < count {
		u := pageURL(c, page+1, limit)
		next = &u
	}
	if page > 1 {
		u := pageURL(c, page-1, limit)
		previous = &u
	}
	return types.Page{
		Count:    count,
		Next:     next,
		Previous: previous,
		Results:  results,
	}
}

func pageURL(c *gin.Context, page, limit int) string {
	u := *c.Request.URL
	q := u.Query()
	q.Set("page", strconv.Itoa(page))
	q.Set("limit", strconv.Itoa(limit))
	u.RawQuery = q.Encode()

	scheme := "http"
	if c.Request.TLS != nil {
		scheme = "https"
	}
	return scheme + "://" + c.Request.Host + u.String()
}
