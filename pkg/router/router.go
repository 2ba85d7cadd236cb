package router

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
)

// HandlerFunc is a typed operation handler. The request is bound from the
// query string (GET) or the JSON body (POST) before the handler runs.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before a handler. It may derive a new context (for
// example, binding the authenticated user id) or fail the request.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

type Router struct {
	inner   gin.IRouter
	root    *gin.Engine
	baseCtx context.Context
	befores []MiddlewareFunc
}

// New creates a Router whose handlers run on top of ctx. The context is
// expected to carry the configs, logger, database, token engine, and
// snowflake node set up by the server.
func New(ctx context.Context) *Router {
	engine := gin.New()
	engine.Use(gin.Recovery())

	return &Router{
		inner:   engine,
		root:    engine,
		baseCtx: ctx,
	}
}

// Branch returns a Router sharing the same underlying mux but with an
// independent middleware chain.
func (r *Router) Branch() *Router {
	return &Router{
		inner:   r.inner,
		root:    r.root,
		baseCtx: r.baseCtx,
		befores: append([]MiddlewareFunc{}, r.befores...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.GET(pattern, wrapHandler(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.inner.POST(pattern, wrapHandler(r, http.MethodPost, handler))
}

// HandleFunc registers a raw handler for endpoints that take over the
// connection, such as the websocket upgrade. The middleware chain still runs
// first; a returned error is written as a standard error envelope unless the
// handler already hijacked the connection.
func (r *Router) HandleFunc(
	method, pattern string,
	handler func(ctx context.Context, w http.ResponseWriter, req *http.Request) error,
) {
	r.inner.Handle(method, pattern, func(ginCtx *gin.Context) {
		ctx, err := r.prepare(ginCtx)
		if err != nil {
			writeError(ginCtx, err)
			return
		}

		if err := handler(ctx, ginCtx.Writer, ginCtx.Request); err != nil {
			if !ginCtx.Writer.Written() {
				writeError(ginCtx, err)
			}
		}
	})
}

func (r *Router) Handler() http.Handler {
	return r.root
}
