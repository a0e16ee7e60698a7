package routing

import (
	"strings"
	"sync"

	"github.com/heo-go/heo/httperr"
)

// Router owns a route tree and the global middlewares registered
// against path prefixes. It is safe for concurrent use once built:
// registration (Handle/Use/Mount) is expected to happen during setup,
// Lookup during request handling, guarded by the same RWMutex.
type Router struct {
	mu      sync.RWMutex
	root    *node
	globals []globalEntry
	onError ErrorHandlerFunc
}

type globalEntry struct {
	prefix   string
	handlers []HandlerFunc
}

// New creates an empty Router.
func New() *Router {
	return &Router{root: newNode()}
}

// OnError sets the chain error handler used by every route resolved
// through this Router. Call it before serving traffic; it is not
// guarded the way Handle/Use/Mount are since it is meant to be set
// once at wiring time.
func (rt *Router) OnError(fn ErrorHandlerFunc) {
	rt.onError = fn
}

// Use registers a global middleware applied to every route whose path
// starts with prefix ("/" matches everything). Globals run before a
// route's own handlers, in registration order, and are not
// retroactively applied to routes already registered under a
// now-overlapping prefix — each route's chain is fixed at the time
// Handle builds it.
func (rt *Router) Use(prefix string, handlers ...HandlerFunc) {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	rt.globals = append(rt.globals, globalEntry{prefix: prefix, handlers: handlers})
}

// Handle registers handlers for method and pattern. The effective
// chain run at request time is every global middleware whose prefix
// matches pattern (in registration order) followed by handlers (in
// the order given here); invariant 5 in SPEC_FULL's data model.
func (rt *Router) Handle(method, pattern string, handlers ...HandlerFunc) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()

	segments := Split(pattern)
	target, params, err := rt.root.descend(segments)
	if err != nil {
		return err
	}

	chain := append(rt.matchingGlobals(pattern), handlers...)
	target.setEntry(method, chain, params)
	return nil
}

func (rt *Router) matchingGlobals(pattern string) []HandlerFunc {
	var combined []HandlerFunc
	for _, g := range rt.globals {
		if strings.HasPrefix(pattern, g.prefix) || g.prefix == "/" {
			combined = append(combined, g.handlers...)
		}
	}
	return combined
}

func (rt *Router) Get(pattern string, handlers ...HandlerFunc) error {
	return rt.Handle("GET", pattern, handlers...)
}

func (rt *Router) Post(pattern string, handlers ...HandlerFunc) error {
	return rt.Handle("POST", pattern, handlers...)
}

func (rt *Router) Put(pattern string, handlers ...HandlerFunc) error {
	return rt.Handle("PUT", pattern, handlers...)
}

func (rt *Router) Patch(pattern string, handlers ...HandlerFunc) error {
	return rt.Handle("PATCH", pattern, handlers...)
}

func (rt *Router) Delete(pattern string, handlers ...HandlerFunc) error {
	return rt.Handle("DELETE", pattern, handlers...)
}

// Mount attaches sub's route tree under prefix. Where sub and the
// receiver both already have a node at the same path, the receiver's
// existing registration wins and sub's is skipped (attach-or-skip,
// per DESIGN.md's Open Question resolution) rather than overwriting
// it or erroring. sub's global middlewares are rebased under prefix
// and appended to the receiver's globals, so they apply to routes the
// receiver registers afterwards; routes already copied from sub keep
// the chains they were built with.
func (rt *Router) Mount(prefix string, sub *Router) error {
	rt.mu.Lock()
	defer rt.mu.Unlock()
	sub.mu.RLock()
	defer sub.mu.RUnlock()

	base := Split(prefix)
	if err := mountNode(rt.root, base, sub.root); err != nil {
		return err
	}
	for _, g := range sub.globals {
		segments := append(append([]string{}, base...), Split(g.prefix)...)
		rebased := "/" + strings.Join(segments, "/")
		rt.globals = append(rt.globals, globalEntry{prefix: rebased, handlers: g.handlers})
	}
	return nil
}

func mountNode(dst *node, prefixSegments []string, src *node) error {
	target, _, err := dst.descend(prefixSegments)
	if err != nil {
		return err
	}
	return copyInto(target, src)
}

func copyInto(dst, src *node) error {
	for method, entry := range src.methods {
		if dst.entry(method) != nil {
			continue // attach-or-skip: destination already owns this method here
		}
		dst.setEntry(method, entry.chain, entry.params)
	}

	for seg, child := range src.children {
		dstChild, ok := dst.children[seg]
		if !ok {
			dstChild = newNode()
			dst.children[seg] = dstChild
		}
		if err := copyInto(dstChild, child); err != nil {
			return err
		}
	}

	if src.paramChild != nil {
		if dst.paramChild == nil {
			dst.paramChild = newNode()
			dst.paramChild.paramName = src.paramChild.paramName
		}
		if dst.paramChild.paramName != src.paramChild.paramName {
			return &RouteConflictError{
				Segment:  ":" + src.paramChild.paramName,
				Existing: ":" + dst.paramChild.paramName,
			}
		}
		if err := copyInto(dst.paramChild, src.paramChild); err != nil {
			return err
		}
	}

	return nil
}

// Result is what Lookup returns on a match: the chain to run and the
// request's route parameters keyed by name.
type Result struct {
	Chain  *Chain
	Params map[string]string
}

// Lookup resolves method and path against the tree. It returns
// httperr-shaped errors for the two cases the acceptor handles
// directly rather than through the user error handler: no node
// matches the path (not found), or a node matches but has no entry
// for method (method not allowed).
func (rt *Router) Lookup(method, path string) (*Result, error) {
	rt.mu.RLock()
	defer rt.mu.RUnlock()

	segments := Split(path)
	target, captured := rt.root.find(segments)
	if target == nil || !target.endpoint() {
		return nil, notFoundErr(method, path)
	}

	entry := target.entry(method)
	if entry == nil {
		return nil, methodNotAllowedErr(method, path)
	}

	params := make(map[string]string, len(entry.params))
	for _, slot := range entry.params {
		if v, ok := captured[slot.Index]; ok {
			params[slot.Name] = v
		}
	}

	return &Result{
		Chain:  NewChain(entry.chain, rt.onError),
		Params: params,
	}, nil
}

func notFoundErr(method, path string) error {
	return httperr.NotFound(method, path)
}

func methodNotAllowedErr(method, path string) error {
	return httperr.MethodNotAllowed(method, path)
}
