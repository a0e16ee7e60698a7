package server

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/heo-go/heo/webio"
)

// errInvalidRequest marks a request that couldn't be parsed at all
// (bad request line, unterminated headers). The acceptor answers it
// directly with 400, the same way it answers not-found/method-not-
// allowed directly rather than through the user error handler.
var errInvalidRequest = errors.New("invalid HTTP request")

// readRequest reads one HTTP/1.1 request from br line by line: the
// request line, headers up to the blank line, and — when present — a
// body of exactly Content-Length bytes. Grounded on the line-by-line
// socket read loop the original request handler uses, adapted from
// the teacher's zero-copy unsafe-pointer parser to ordinary allocating
// reads (see DESIGN.md).
func readRequest(br *bufio.Reader, clientAddr string) (*webio.Request, error) {
	line, err := readLine(br)
	if err != nil {
		return nil, err
	}
	if line == "" {
		return nil, errInvalidRequest
	}

	method, path, ok := splitRequestLine(line)
	if !ok {
		return nil, errInvalidRequest
	}

	req := webio.Acquire()
	req.Method = method
	req.ClientAddress = clientAddr

	rawPath, query := splitQuery(path)
	req.Path = rawPath
	if len(query) > 0 {
		req.Query = query
	}

	for {
		headerLine, err := readLine(br)
		if err != nil {
			webio.Release(req)
			return nil, err
		}
		if headerLine == "" {
			break
		}
		key, value, ok := splitHeader(headerLine)
		if ok {
			req.SetHeader(key, value)
		}
	}

	if cl := req.GetHeader("Content-Length"); cl != "" {
		n, err := strconv.Atoi(strings.TrimSpace(cl))
		if err != nil || n < 0 {
			webio.Release(req)
			return nil, errInvalidRequest
		}
		if n > 0 {
			body := make([]byte, n)
			if _, err := io.ReadFull(br, body); err != nil {
				webio.Release(req)
				return nil, errInvalidRequest
			}
			req.RawBody = body
		}
		return req, nil
	}

	// No Content-Length: take only the bytes already sitting in br's
	// buffer. This does not wait for more data, for EOF, or for the
	// read deadline, since the connection is not necessarily closed by
	// the client.
	if buffered := br.Buffered(); buffered > 0 {
		body := make([]byte, buffered)
		io.ReadFull(br, body)
		req.RawBody = body
	}

	return req, nil
}

// readLine reads one CRLF- or LF-terminated line, with the trailing
// newline (and any preceding CR) stripped.
func readLine(br *bufio.Reader) (string, error) {
	line, err := br.ReadString('\n')
	if err != nil {
		if err == io.EOF && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		return "", err
	}
	return strings.TrimRight(line, "\r\n"), nil
}

// splitRequestLine parses "METHOD PATH PROTO" into method and path,
// discarding the protocol version (this framework only ever speaks
// HTTP/1.1 on the wire, per the non-goals excluding HTTP/2). A line
// without all three parts, or whose protocol does not start with
// "HTTP/", is rejected.
func splitRequestLine(line string) (method, path string, ok bool) {
	sp1 := strings.IndexByte(line, ' ')
	if sp1 == -1 {
		return "", "", false
	}
	rest := line[sp1+1:]
	sp2 := strings.IndexByte(rest, ' ')
	if sp2 == -1 {
		return "", "", false
	}
	if !strings.HasPrefix(rest[sp2+1:], "HTTP/") {
		return "", "", false
	}
	return line[:sp1], rest[:sp2], true
}

func splitHeader(line string) (key, value string, ok bool) {
	colon := strings.IndexByte(line, ':')
	if colon <= 0 {
		return "", "", false
	}
	return strings.TrimSpace(line[:colon]), strings.TrimSpace(line[colon+1:]), true
}

// splitQuery parses "?"-delimited query parameters for any request
// path regardless of method, fixing the source's GET-only query
// parsing per the REDESIGN FLAGS. A term is kept only when it has
// exactly one "=": a term with none or with more than one is
// malformed and dropped entirely, matching the original request
// handler's keyValue.length == 2 check.
func splitQuery(path string) (string, map[string]string) {
	idx := strings.IndexByte(path, '?')
	if idx == -1 {
		return path, nil
	}

	rawQuery := path[idx+1:]
	path = path[:idx]
	if rawQuery == "" {
		return path, nil
	}

	query := make(map[string]string)
	for _, pair := range bytes.Split([]byte(rawQuery), []byte("&")) {
		if len(pair) == 0 {
			continue
		}
		kv := bytes.Split(pair, []byte("="))
		if len(kv) != 2 {
			continue
		}
		query[string(kv[0])] = string(kv[1])
	}
	return path, query
}
