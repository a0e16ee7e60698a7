package webio

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
)

func TestResponseSendDefaults(t *testing.T) {
	var buf bytes.Buffer
	resp := New(&buf)
	resp.Send("hello")

	out := buf.String()
	if !strings.HasPrefix(out, "HTTP/1.1 200 OK\r\n") {
		t.Fatalf("expected default 200 OK status line, got %q", out)
	}
	if !strings.Contains(out, "Content-Type: text/plain\r\n") {
		t.Errorf("expected default text/plain content type, got %q", out)
	}
	if !strings.HasSuffix(out, "hello") {
		t.Errorf("expected body %q at end of response, got %q", "hello", out)
	}
	if resp.GetStatus() != 200 {
		t.Errorf("expected GetStatus()=200, got %d", resp.GetStatus())
	}
	if resp.GetBodyLength() != len("hello") {
		t.Errorf("expected body length %d, got %d", len("hello"), resp.GetBodyLength())
	}
}

func TestResponseJSONContentType(t *testing.T) {
	var buf bytes.Buffer
	resp := New(&buf)
	resp.Status(201).JSON(map[string]string{"ok": "true"})

	out := buf.String()
	if !strings.HasPrefix(out, "HTTP/1.1 201 Created\r\n") {
		t.Fatalf("expected 201 Created status line, got %q", out)
	}
	if !strings.Contains(out, "Content-Type: application/json\r\n") {
		t.Errorf("expected application/json content type, got %q", out)
	}

	bodyStart := strings.Index(out, "\r\n\r\n") + 4
	var decoded map[string]string
	if err := json.Unmarshal([]byte(out[bodyStart:]), &decoded); err != nil {
		t.Fatalf("body did not decode as JSON: %v", err)
	}
	if decoded["ok"] != "true" {
		t.Errorf("expected decoded body {ok: true}, got %v", decoded)
	}
}

func TestResponseSingleUse(t *testing.T) {
	var buf bytes.Buffer
	resp := New(&buf)
	resp.Send("first")
	firstLen := buf.Len()

	resp.Send("second")
	if buf.Len() != firstLen {
		t.Error("a second Send should be a no-op on an already-finished response")
	}
}

func TestResponseMutationAfterFinishPanics(t *testing.T) {
	var buf bytes.Buffer
	resp := New(&buf)
	resp.Send("done")

	defer func() {
		if recover() == nil {
			t.Error("expected Status after Send to panic")
		}
	}()
	resp.Status(500)
}

func TestResponseOnFinishRunsOnce(t *testing.T) {
	var buf bytes.Buffer
	resp := New(&buf)

	calls := 0
	resp.OnFinish(func() { calls++ })
	resp.Send("x")
	resp.Send("y") // no-op; must not re-run the hook

	if calls != 1 {
		t.Errorf("expected finish hook to run exactly once, got %d", calls)
	}
}

func TestResponseCustomHeader(t *testing.T) {
	var buf bytes.Buffer
	resp := New(&buf)
	resp.SetHeader("X-Request-Id", "abc123")
	resp.Send("body")

	if !strings.Contains(buf.String(), "X-Request-Id: abc123\r\n") {
		t.Errorf("expected custom header in output, got %q", buf.String())
	}
}
