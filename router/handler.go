package router

import (
	"fmt"

	"github.com/webpp-sub002/corehttp/httpmsg"
)

// StatusCode lets a handler return a bare status code instead of a full
// Response; applyResult assigns it to ctx.Response.Headers.StatusCode
// without touching the body.
type StatusCode int

// HandlerFunc is a route's action. It may mutate ctx.Response directly
// and return nil, or return one of: a string (becomes the response body
// with status 200), a StatusCode (becomes the response status), or a
// *httpmsg.Response (replaces the context response outright).
type HandlerFunc func(ctx *Context) any

// applyResult coerces a handler's return value into ctx.Response,
// per spec.md §4.7.
func applyResult(ctx *Context, result any) {
	switch v := result.(type) {
	case nil:
		// Handler already wrote to ctx.Response directly.
	case string:
		ctx.Response.Body.Append([]byte(v))
	case []byte:
		ctx.Response.Body.Append(v)
	case StatusCode:
		ctx.Response.SetStatus(int(v))
	case *httpmsg.Response:
		ctx.Response = v
	default:
		panic(fmt.Sprintf("router: handler returned unsupported result type %T", v))
	}
}
