package handler

import (
	"github.com/denisceno/clone-magazina/pkg/apperror"
	"github.com/denisceno/clone-magazina/pkg/response"

	"github.com/gin-gonic/gin"
)

// writeError maps an engine error to its HTTP status and envelope. Business
// rejections carry their kind so clients can branch on it.
func writeError(c *gin.Context, err error) {
	status := apperror.HTTPStatus(err)
	kind := apperror.KindOf(err)
	c.JSON(status, response.ErrorWithKind(status, string(kind), err.Error()))
}
