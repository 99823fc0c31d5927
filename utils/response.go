package utils

import (
	"github.com/kataras/iris/v12"
)

type PageMeta struct {
	Page    int   `json:"page"`
	PerPage int   `json:"per_page"`
	Total   int64 `json:"total"`
}

func JSONPage(ctx iris.Context, data interface{}, page, perPage int, total int64) {
	ctx.JSON(iris.Map{
		"data":  data,
		"meta":  PageMeta{Page: page, PerPage: perPage, Total: total},
		"links": iris.Map{},
	})
}

// JSONError writes a code/message error body. data, when non-nil, carries the
// last known-good state so the client can revert to it instead of keeping an
// optimistically applied change.
func JSONError(ctx iris.Context, status int, code, message string, data interface{}) {
	body := iris.Map{"error": code, "message": message}
	if data != nil {
		body["data"] = data
	}
	ctx.StatusCode(status)
	ctx.JSON(body)
}
