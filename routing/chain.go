package routing

import (
	"github.com/pkg/errors"

	"github.com/heo-go/heo/webio"
)

// HandlerFunc is a single step in a middleware chain. It receives the
// response, the request, and a Next callback used to hand control to
// the following handler. A handler that never calls Next terminates
// the chain there — this is how a handler short-circuits the rest of
// the pipeline (auth rejection, cache hit, etc.) without an explicit
// abort flag.
type HandlerFunc func(w *webio.Response, r *webio.Request, next Next)

// Next hands control to the next handler in the chain. Calling it with
// a non-nil err skips every remaining ordinary handler and jumps
// straight to the chain's error handler, mirroring the two-argument
// and three-argument next() calls of the framework this engine is
// descended from.
type Next func(err error)

// ErrorHandlerFunc is invoked at most once per chain: either because a
// handler called next(err) with a non-nil err, or because a handler
// panicked and the chain recovered on its behalf.
type ErrorHandlerFunc func(w *webio.Response, r *webio.Request, err error)

// Chain is an ordered, immutable list of handlers plus the single
// error handler that catches anything they raise. Router.Lookup builds
// a fresh Chain over the matched route's handler list on every match,
// and each Chain is run once per request; it carries no per-request
// state itself.
type Chain struct {
	handlers []HandlerFunc
	onError  ErrorHandlerFunc
}

// NewChain builds a Chain from an ordered handler list and an error
// handler. A nil error handler falls back to DefaultErrorHandler.
func NewChain(handlers []HandlerFunc, onError ErrorHandlerFunc) *Chain {
	if onError == nil {
		onError = DefaultErrorHandler
	}
	return &Chain{handlers: handlers, onError: onError}
}

// Run drives the chain against one request/response pair. A handler
// panic is recovered here and funneled through the same error handler
// as an explicit next(err) call, so user code never has to distinguish
// the two.
func (c *Chain) Run(w *webio.Response, r *webio.Request) {
	runner := &chainRunner{chain: c, w: w, r: r}
	runner.run(0, nil)
}

type chainRunner struct {
	chain   *Chain
	w       *webio.Response
	r       *webio.Request
	errored bool
}

func (cr *chainRunner) run(index int, startErr error) {
	defer func() {
		if rec := recover(); rec != nil {
			cr.fail(errors.Errorf("panic recovered in handler: %v", rec))
		}
	}()

	if startErr != nil {
		cr.fail(startErr)
		return
	}

	if index >= len(cr.chain.handlers) {
		return
	}

	handler := cr.chain.handlers[index]
	handler(cr.w, cr.r, func(err error) {
		if err != nil {
			cr.fail(err)
			return
		}
		cr.run(index+1, nil)
	})
}

// fail routes err to the chain's error handler exactly once. A second
// call (e.g. a handler that calls next(err) after already having been
// failed via panic) is ignored — the response is single-use and the
// first failure already owns it.
func (cr *chainRunner) fail(err error) {
	if cr.errored {
		return
	}
	cr.errored = true
	cr.chain.onError(cr.w, cr.r, err)
}

// DefaultErrorHandler is used whenever a chain is built without an
// explicit error handler. It reports the status carried by a
// httperr-shaped error, or 500 for anything else.
func DefaultErrorHandler(w *webio.Response, r *webio.Request, err error) {
	status := 500
	message := "Internal Server Error"
	var sc interface{ StatusCode() int }
	if errors.As(err, &sc) {
		status = sc.StatusCode()
		message = err.Error()
	}
	if w.Finished() {
		return
	}
	w.Status(status).JSON(map[string]string{"error": message})
}
