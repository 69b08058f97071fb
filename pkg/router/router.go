package router

import (
	"context"
	"net/http"
	"time"

	"github.com/bskmt/backend/pkg/xcontext"
	"github.com/rs/cors"
)

// HandlerFunc handles a request after it is bound from the query string or
// the json body.
type HandlerFunc[Request, Response any] func(ctx context.Context, req *Request) (*Response, error)

// MiddlewareFunc runs before or after the handler. It can derive a new
// context for the following stages. Returning an error stops the request and
// the error is written to the client.
type MiddlewareFunc func(ctx context.Context) (context.Context, error)

// CloserFunc runs after the response is written. It cannot modify the
// response anymore.
type CloserFunc func(ctx context.Context)

type Router struct {
	mux *http.ServeMux
	ctx context.Context

	befores []MiddlewareFunc
	afters  []MiddlewareFunc
	closers []CloserFunc
}

// New creates a Router whose handlers derive from the given root context. The
// root context should carry the configs, logger, database, and token engine.
func New(ctx context.Context) *Router {
	return &Router{mux: http.NewServeMux(), ctx: ctx}
}

// Branch returns a new Router sharing the underlying mux but with an
// independent middleware chain. Middlewares registered on the parent before
// branching are inherited.
func (r *Router) Branch() *Router {
	return &Router{
		mux:     r.mux,
		ctx:     r.ctx,
		befores: append([]MiddlewareFunc{}, r.befores...),
		afters:  append([]MiddlewareFunc{}, r.afters...),
		closers: append([]CloserFunc{}, r.closers...),
	}
}

func (r *Router) Before(middleware MiddlewareFunc) {
	r.befores = append(r.befores, middleware)
}

func (r *Router) After(middleware MiddlewareFunc) {
	r.afters = append(r.afters, middleware)
}

func (r *Router) AddCloser(closer CloserFunc) {
	r.closers = append(r.closers, closer)
}

func (r *Router) Static(pattern, root string) {
	r.mux.Handle(pattern, http.FileServer(http.Dir(root)))
}

// Handle mounts a raw http.Handler, bypassing the middleware chain and the
// response envelope.
func (r *Router) Handle(pattern string, handler http.Handler) {
	r.mux.Handle(pattern, handler)
}

// Handler returns the http.Handler of all registered routes, wrapped with the
// CORS policy of the server configs.
func (r *Router) Handler() http.Handler {
	c := cors.New(cors.Options{
		AllowedOrigins:   xcontext.Configs(r.ctx).ApiServer.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return c.Handler(r.mux)
}

func GET[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrap(r, http.MethodGet, handler))
}

func POST[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrap(r, http.MethodPost, handler))
}

func PUT[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrap(r, http.MethodPut, handler))
}

func DELETE[Request, Response any](r *Router, pattern string, handler HandlerFunc[Request, Response]) {
	r.mux.HandleFunc(pattern, wrap(r, http.MethodDelete, handler))
}

func wrap[Request, Response any](
	r *Router, method string, handler HandlerFunc[Request, Response],
) http.HandlerFunc {
	befores := append([]MiddlewareFunc{}, r.befores...)
	afters := append([]MiddlewareFunc{}, r.afters...)
	closers := append([]CloserFunc{}, r.closers...)

	run := func(ctx context.Context) context.Context {
		for _, middleware := range befores {
			newCtx, err := middleware(ctx)
			if err != nil {
				return xcontext.WithError(ctx, err)
			}
			ctx = newCtx
		}

		var req Request
		if err := bind(ctx, &req); err != nil {
			xcontext.Logger(ctx).Debugf("Cannot bind the request: %v", err)
			return xcontext.WithError(ctx, errBadRequest)
		}

		resp, err := handler(ctx, &req)
		if err != nil {
			return xcontext.WithError(ctx, err)
		}
		ctx = xcontext.WithResponse(ctx, resp)

		for _, middleware := range afters {
			newCtx, err := middleware(ctx)
			if err != nil {
				return xcontext.WithError(ctx, err)
			}
			ctx = newCtx
		}

		return ctx
	}

	return func(w http.ResponseWriter, httpReq *http.Request) {
		ctx := xcontext.WithStartTime(r.ctx, time.Now())
		ctx = xcontext.WithHTTPRequest(ctx, httpReq.WithContext(ctx))
		ctx = xcontext.WithHTTPWriter(ctx, w)

		if httpReq.Method != method {
			ctx = xcontext.WithError(ctx, errMethodNotAllowed)
		} else {
			ctx = run(ctx)
		}

		writeResponse(ctx)
		for _, closer := range closers {
			closer(ctx)
		}
	}
}
