package webio

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"sync"
)

// Response is the framework's single-use response value object.
// Status/header/body mutation is only valid while the response is
// open; once a terminal write (Send/JSON) has run, Finished is true.
// Calling Status or SetHeader after that is a programmer error and
// panics; a second Send or JSON is a silent no-op.
type Response struct {
	status   int
	headers  map[string]string
	body     []byte
	finished bool
	onFinish func()

	w io.Writer // the underlying connection; set by the acceptor
}

// New creates an open Response writing to w.
func New(w io.Writer) *Response {
	return &Response{status: 200, w: w}
}

var responsePool = sync.Pool{
	New: func() any {
		return &Response{status: 200}
	},
}

// AcquireResponse returns a pooled, open Response writing to w.
func AcquireResponse(w io.Writer) *Response {
	resp := responsePool.Get().(*Response)
	resp.w = w
	return resp
}

// ReleaseResponse returns a finished Response to the pool. Callers
// must not retain a reference to resp afterwards.
func ReleaseResponse(resp *Response) {
	resp.reset()
	responsePool.Put(resp)
}

func (r *Response) reset() {
	r.status = 200
	r.body = nil
	r.finished = false
	r.onFinish = nil
	r.w = nil
	for k := range r.headers {
		delete(r.headers, k)
	}
}

// Status sets the response status code. Calling it after the response
// has finished is a programmer error.
func (r *Response) Status(code int) *Response {
	r.mustBeOpen("Status")
	r.status = code
	return r
}

// SetHeader sets a response header. Calling it after the response has
// finished is a programmer error.
func (r *Response) SetHeader(key, value string) *Response {
	r.mustBeOpen("SetHeader")
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
	return r
}

// OnFinish registers a callback invoked exactly once, after the
// terminal write has been flushed to the underlying writer.
func (r *Response) OnFinish(fn func()) {
	r.onFinish = fn
}

// GetStatus returns the status code that will be (or was) sent.
func (r *Response) GetStatus() int {
	return r.status
}

// GetBodyLength returns the number of body bytes written so far.
func (r *Response) GetBodyLength() int {
	return len(r.body)
}

// Finished reports whether a terminal write has already run.
func (r *Response) Finished() bool {
	return r.finished
}

// Send is a terminal write: it emits status line, headers, a default
// "text/plain" content type, Content-Length, and the body, then
// flushes and runs the finish hook. A second call is a no-op.
func (r *Response) Send(body string) {
	r.write("text/plain", []byte(body))
}

// JSON is a terminal write like Send, but marshals v as the body and
// defaults the content type to "application/json".
func (r *Response) JSON(v any) {
	data, err := json.Marshal(v)
	if err != nil {
		r.write("text/plain", []byte(fmt.Sprintf("failed to encode JSON response: %v", err)))
		return
	}
	r.write("application/json", data)
}

func (r *Response) write(defaultContentType string, body []byte) {
	if r.finished {
		return
	}
	r.finished = true
	r.body = body

	if _, ok := r.headers["Content-Type"]; !ok {
		r.SetHeaderUnguarded("Content-Type", defaultContentType)
	}

	var buf []byte
	buf = append(buf, "HTTP/1.1 "...)
	buf = appendInt(buf, r.status)
	buf = append(buf, ' ')
	buf = append(buf, ReasonPhrase(r.status)...)
	buf = append(buf, "\r\n"...)

	keys := make([]string, 0, len(r.headers))
	for k := range r.headers {
		if k == "Content-Length" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		buf = append(buf, k...)
		buf = append(buf, ": "...)
		buf = append(buf, r.headers[k]...)
		buf = append(buf, "\r\n"...)
	}

	buf = append(buf, "Content-Length: "...)
	buf = appendInt(buf, len(body))
	buf = append(buf, "\r\n\r\n"...)
	buf = append(buf, body...)

	if r.w != nil {
		r.w.Write(buf)
	}

	if r.onFinish != nil {
		r.onFinish()
	}
}

// SetHeaderUnguarded sets a header without the open/finished guard;
// used internally by the terminal-write path to fill in the default
// Content-Type after Send/JSON has already flipped finished to true.
func (r *Response) SetHeaderUnguarded(key, value string) {
	if r.headers == nil {
		r.headers = make(map[string]string)
	}
	r.headers[key] = value
}

func (r *Response) mustBeOpen(op string) {
	if r.finished {
		panic(fmt.Sprintf("webio: Response.%s called after the response was already sent", op))
	}
}
