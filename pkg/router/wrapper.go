package router

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pulsespace/backend/pkg/errorx"
	"github.com/pulsespace/backend/pkg/xcontext"
)

func wrapHandler[Request, Response any](
	router *Router,
	method string,
	handler HandlerFunc[Request, Response],
) gin.HandlerFunc {
	return func(ginCtx *gin.Context) {
		ctx, err := router.prepare(ginCtx)
		if err != nil {
			writeError(ginCtx, err)
			return
		}

		var req Request
		switch method {
		case http.MethodGet:
			err = ginCtx.ShouldBindQuery(&req)
		default:
			err = ginCtx.ShouldBindJSON(&req)
		}
		if err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
			writeError(ginCtx, errorx.New(errorx.BadRequest, "Invalid request"))
			return
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			writeError(ginCtx, err)
			return
		}

		writeResponse(ginCtx, resp)
	}
}

// prepare derives the per-request context from the router's base context and
// runs the middleware chain on it.
func (r *Router) prepare(ginCtx *gin.Context) (context.Context, error) {
	ctx := xcontext.WithHTTPRequest(r.baseCtx, ginCtx.Request)

	for _, middleware := range r.befores {
		next, err := middleware(ctx)
		if err != nil {
			return nil, err
		}

		if next != nil {
			ctx = next
		}
	}

	return ctx, nil
}

func writeResponse(ginCtx *gin.Context, data any) {
	ginCtx.JSON(http.StatusOK, newResponse(data))
}

func writeError(ginCtx *gin.Context, err error) {
	errx := errorx.Unknown
	if !errors.As(err, &errx) {
		errx = errorx.Unknown
	}

	ginCtx.JSON(errx.Code.StatusCode(), newErrorResponse(errx))
}
