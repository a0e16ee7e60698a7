package webio

import "sync"

// Request is the framework's request value object. It is built by the
// acceptor from the raw socket bytes, enriched by the acceptor with
// the route parameters the router's lookup extracted, and is read-only from the point of view of ordinary
// middleware and handlers. DecodedBody is populated only by a body-
// decoding middleware (form/JSON parsing lives outside this package,
// per the framework's scope) — core code must never assume it is set.
//
// Headers are stored verbatim (as received) but GetHeader/SetHeader
// compare case-insensitively, per HTTP's header-name semantics.
type Request struct {
	Method        string
	Path          string
	Query         map[string]string
	headers       map[string]string // canonical lower-case key -> last-written raw value
	headerCasing  map[string]string // canonical lower-case key -> the casing it was last set with
	Params        map[string]string
	RawBody       []byte
	DecodedBody   map[string]any
	ClientAddress string
}

var requestPool = sync.Pool{
	New: func() any {
		return &Request{}
	},
}

// Acquire returns a Request from the pool, reset and ready to be
// populated by the acceptor for a new connection.
func Acquire() *Request {
	return requestPool.Get().(*Request)
}

// Release returns a Request to the pool. The acceptor calls this once
// a request's chain has finished running; callers must not retain a
// reference to req afterwards.
func Release(req *Request) {
	req.reset()
	requestPool.Put(req)
}

func (r *Request) reset() {
	r.Method = ""
	r.Path = ""
	r.ClientAddress = ""
	r.RawBody = nil
	r.DecodedBody = nil
	for k := range r.Query {
		delete(r.Query, k)
	}
	for k := range r.Params {
		delete(r.Params, k)
	}
	for k := range r.headers {
		delete(r.headers, k)
	}
	for k := range r.headerCasing {
		delete(r.headerCasing, k)
	}
}

// SetHeader records a header as received on the wire. The last write
// for a given (case-insensitive) key wins, matching the distilled
// spec's "duplicate headers retain the last write" rule.
func (r *Request) SetHeader(key, value string) {
	if r.headers == nil {
		r.headers = make(map[string]string)
		r.headerCasing = make(map[string]string)
	}
	canon := canonicalHeader(key)
	r.headers[canon] = value
	r.headerCasing[canon] = key
}

// GetHeader looks up a header case-insensitively. Absent headers
// return the empty string.
func (r *Request) GetHeader(key string) string {
	if r.headers == nil {
		return ""
	}
	return r.headers[canonicalHeader(key)]
}

// SetParam records a route parameter value. Called by the acceptor
// after a successful router lookup; not meant to be called by handlers.
func (r *Request) SetParam(name, value string) {
	if r.Params == nil {
		r.Params = make(map[string]string)
	}
	r.Params[name] = value
}

// Param returns the named route parameter, or the empty string if it
// is absent — per the distilled spec's "missing name returns an
// explicit empty sentinel" accessor semantics.
func (r *Request) Param(name string) string {
	return r.Params[name]
}

// GetQuery returns the named query parameter, or the empty string if
// absent.
func (r *Request) GetQuery(name string) string {
	return r.Query[name]
}

// canonicalHeader lowercases a header key for case-insensitive storage
// and lookup. http.CanonicalHeaderKey-style title-casing is avoided
// since this package doesn't speak net/http's header type.
func canonicalHeader(key string) string {
	b := []byte(key)
	for i, c := range b {
		if c >= 'A' && c <= 'Z' {
			b[i] = c - 'A' + 'a'
		}
	}
	return string(b)
}
