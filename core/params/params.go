package params

import (
	"strconv"

	"github.com/labstack/echo/v4"
)

// QueryParams carries common list-endpoint paging parameters.
type QueryParams struct {
	PageNumber int
	PageSize   int
}

// FromContext reads paging parameters from the query string, applying sane
// bounds.
func FromContext(ctx echo.Context) QueryParams {
	page, _ := strconv.Atoi(ctx.QueryParam("page"))
	if page < 1 {
		page = 1
	}
	size, _ := strconv.Atoi(ctx.QueryParam("page_size"))
	if size < 1 || size > 100 {
		size = 20
	}
	return QueryParams{PageNumber: page, PageSize: size}
}
