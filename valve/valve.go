// Package valve implements the composable boolean predicate algebra the
// routing core filters requests with: And/Or/Xor composition over a
// routing context, plus the method and path-root primitives spec.md
// names directly.
package valve

import (
	"strings"

	"github.com/webpp-sub002/corehttp/uri"
)

// Context is the minimal routing-context view a valve predicate needs.
// router.Context satisfies this interface; valve does not import router
// to avoid a cycle (routes, which live in router, hold Valves).
type Context interface {
	RequestMethod() string
	Traverser() *uri.Traverser
}

// Predicate is the callable a Valve wraps.
type Predicate func(ctx Context) bool

// Valve is a composable boolean predicate evaluated against a routing
// context. The zero value always evaluates false.
type Valve struct {
	predicate Predicate
}

// New wraps an arbitrary predicate as a Valve.
func New(p Predicate) Valve {
	return Valve{predicate: p}
}

// Evaluate runs the valve's predicate against ctx.
func (v Valve) Evaluate(ctx Context) bool {
	if v.predicate == nil {
		return false
	}
	return v.predicate(ctx)
}

// And returns a Valve that is true iff both v and other are true,
// evaluated left then right, short-circuiting on a false v.
//
// No rollback is performed: if v passes after advancing ctx's traverser
// (as Segment does on a match) and other then fails, the combined valve
// returns false with the traverser left advanced.
func (v Valve) And(other Valve) Valve {
	return New(func(ctx Context) bool {
		if !v.Evaluate(ctx) {
			return false
		}
		return other.Evaluate(ctx)
	})
}

// Or returns a Valve that is true iff either v or other is true,
// evaluated left then right, short-circuiting on a true v.
func (v Valve) Or(other Valve) Valve {
	return New(func(ctx Context) bool {
		if v.Evaluate(ctx) {
			return true
		}
		return other.Evaluate(ctx)
	})
}

// Xor returns a Valve that is true iff exactly one of v, other is true.
// Both sides are always evaluated.
func (v Valve) Xor(other Valve) Valve {
	return New(func(ctx Context) bool {
		a := v.Evaluate(ctx)
		b := other.Evaluate(ctx)
		return a != b
	})
}

// Root passes iff the context's traverser is at its first segment.
func Root() Valve {
	return New(func(ctx Context) bool {
		return ctx.Traverser().AtBeginning()
	})
}

// Segment passes iff the next path segment equals slug, advancing the
// traverser past it on a match. It is named convenience for the
// single-segment routes spec.md's end-to-end scenarios use
// (`root/"page"`). It does not check Root: in a top-level route, whose
// traverser starts at the beginning of the request path, it matches the
// first segment; in a nested router's route, whose traverser continues
// from the parent's matched prefix, it matches the segment after that
// prefix.
func Segment(slug string) Valve {
	return New(func(ctx Context) bool {
		return ctx.Traverser().CheckSegment(slug)
	})
}

// Method passes iff the request method equals s, compared case-sensitively
// against the (conventionally uppercase) request method. s itself is
// uppercased once at construction so callers don't have to remember to.
func Method(s string) Valve {
	want := strings.ToUpper(s)
	return New(func(ctx Context) bool {
		return ctx.RequestMethod() == want
	})
}

// Predefined method valves for the common HTTP verbs.
var (
	Get     = Method("GET")
	Post    = Method("POST")
	Put     = Method("PUT")
	Patch   = Method("PATCH")
	Delete  = Method("DELETE")
	Head    = Method("HEAD")
	Options = Method("OPTIONS")
)
