package server

import (
	"bufio"
	"strings"
	"testing"

	"github.com/heo-go/heo/webio"
)

func TestReadRequestBasicGet(t *testing.T) {
	raw := "GET /hello?name=world HTTP/1.1\r\nHost: example.com\r\nX-Custom: yes\r\n\r\n"
	br := bufio.NewReader(strings.NewReader(raw))

	req, err := readRequest(br, "127.0.0.1:1234")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	defer webio.Release(req)

	if req.Method != "GET" {
		t.Errorf("expected method GET, got %q", req.Method)
	}
	if req.Path != "/hello" {
		t.Errorf("expected path /hello, got %q", req.Path)
	}
	if req.GetQuery("name") != "world" {
		t.Errorf("expected query name=world, got %q", req.GetQuery("name"))
	}
	if req.GetHeader("Host") != "example.com" {
		t.Errorf("expected Host header example.com, got %q", req.GetHeader("Host"))
	}
	if req.ClientAddress != "127.0.0.1:1234" {
		t.Errorf("expected client address to be recorded, got %q", req.ClientAddress)
	}
}

func TestReadRequestContentLengthBody(t *testing.T) {
	body := `{"a":1}`
	raw := "POST /items HTTP/1.1\r\nContent-Length: " + itoa(len(body)) + "\r\n\r\n" + body
	br := bufio.NewReader(strings.NewReader(raw))

	req, err := readRequest(br, "")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	defer webio.Release(req)

	if string(req.RawBody) != body {
		t.Errorf("expected body %q, got %q", body, string(req.RawBody))
	}
}

func TestReadRequestQueryParsedForEveryMethod(t *testing.T) {
	raw := "POST /items?bulk=true HTTP/1.1\r\nContent-Length: 0\r\n\r\n"
	br := bufio.NewReader(strings.NewReader(raw))

	req, err := readRequest(br, "")
	if err != nil {
		t.Fatalf("unexpected parse error: %v", err)
	}
	defer webio.Release(req)

	if req.GetQuery("bulk") != "true" {
		t.Errorf("expected query parsing on POST, got %q", req.GetQuery("bulk"))
	}
}

func TestReadRequestMalformedLine(t *testing.T) {
	br := bufio.NewReader(strings.NewReader("not a request\r\n\r\n"))
	if _, err := readRequest(br, ""); err == nil {
		t.Error("expected an error for a malformed request line")
	}
}

func TestSplitQuery(t *testing.T) {
	tests := []struct {
		path      string
		wantPath  string
		wantQuery map[string]string
	}{
		{"/a", "/a", nil},
		{"/a?x=1&y=2", "/a", map[string]string{"x": "1", "y": "2"}},
		// Malformed terms (no "=", or more than one "=") are dropped
		// entirely rather than kept with an empty or truncated value.
		{"/a?flag", "/a", map[string]string{}},
		{"/a?a=b=c", "/a", map[string]string{}},
		{"/a?x=1&flag&y=2&a=b=c", "/a", map[string]string{"x": "1", "y": "2"}},
	}

	for _, tt := range tests {
		path, query := splitQuery(tt.path)
		if path != tt.wantPath {
			t.Errorf("splitQuery(%q) path = %q, want %q", tt.path, path, tt.wantPath)
		}
		if len(query) != len(tt.wantQuery) {
			t.Errorf("splitQuery(%q) query = %v, want %v", tt.path, query, tt.wantQuery)
			continue
		}
		for k, v := range tt.wantQuery {
			if query[k] != v {
				t.Errorf("splitQuery(%q) query[%q] = %q, want %q", tt.path, k, query[k], v)
			}
		}
	}
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}
