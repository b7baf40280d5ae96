package controller

import (
	"errors"
	"ggsc_backend/internal/util"
	"io"

	"github.com/gin-gonic/gin"
)

// bindJSON decodes the body into req. An empty body leaves req zeroed so the service
// can report exactly which fields are missing.
func bindJSON(ctx *gin.Context, req interface{}) bool {
	if err := ctx.ShouldBindJSON(req); err != nil && !errors.Is(err, io.EOF) {
		util.BadRequest(ctx, err.Error())
		return false
	}
	return true
}
