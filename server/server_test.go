package server

import (
	"bufio"
	"net"
	"strings"
	"testing"
	"time"

	"github.com/heo-go/heo/routing"
	"github.com/heo-go/heo/webio"
)

func startTestServer(t *testing.T, router *routing.Router) (addr string, stop func()) {
	t.Helper()

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}

	srv := New(router, 4)
	srv.listener = ln
	srv.pool = newWorkerPool(4)

	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			srv.pool.submit(func() { srv.serveConn(conn) })
		}
	}()

	return ln.Addr().String(), func() { srv.Close() }
}

func TestServeConnRoutesRequest(t *testing.T) {
	router := routing.New()
	router.Get("/ping", func(w *webio.Response, r *webio.Request, next routing.Next) {
		w.Send("pong")
	})

	addr, stop := startTestServer(t, router)
	defer stop()

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.Write([]byte("GET /ping HTTP/1.1\r\nHost: localhost\r\n\r\n"))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	status, err := bufio.NewReader(conn).ReadString('\n')
	if err != nil {
		t.Fatalf("reading response: %v", err)
	}
	if !strings.HasPrefix(status, "HTTP/1.1 200") {
		t.Errorf("expected 200 status line, got %q", status)
	}
}

func TestServeConnNotFound(t *testing.T) {
	router := routing.New()
	addr, stop := startTestServer(t, router)
	defer stop()

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.Write([]byte("GET /missing HTTP/1.1\r\nHost: localhost\r\n\r\n"))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("reading response: %v", err)
	}
	if !strings.HasPrefix(status, "HTTP/1.1 404") {
		t.Errorf("expected 404 status line, got %q", status)
	}

	body := readBody(t, br)
	if want := `"error":"Cannot GET /missing"`; !strings.Contains(body, want) {
		t.Errorf("expected body to contain %s, got %q", want, body)
	}
}

func TestServeConnMethodNotAllowed(t *testing.T) {
	router := routing.New()
	router.Get("/widgets", func(w *webio.Response, r *webio.Request, next routing.Next) {
		w.Send("ok")
	})

	addr, stop := startTestServer(t, router)
	defer stop()

	conn, err := net.DialTimeout("tcp", addr, time.Second)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close()

	conn.Write([]byte("POST /widgets HTTP/1.1\r\nHost: localhost\r\n\r\n"))
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))

	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		t.Fatalf("reading response: %v", err)
	}
	if !strings.HasPrefix(status, "HTTP/1.1 405") {
		t.Errorf("expected 405 status line, got %q", status)
	}

	body := readBody(t, br)
	if want := `"error":"Cannot POST /widgets"`; !strings.Contains(body, want) {
		t.Errorf("expected body to contain %s, got %q", want, body)
	}
}

// readBody skips headers (until the blank line) and reads whatever
// remains as the response body.
func readBody(t *testing.T, br *bufio.Reader) string {
	t.Helper()
	for {
		line, err := br.ReadString('\n')
		if err != nil {
			t.Fatalf("reading headers: %v", err)
		}
		if strings.TrimRight(line, "\r\n") == "" {
			break
		}
	}
	var sb strings.Builder
	buf := make([]byte, 512)
	for {
		n, err := br.Read(buf)
		sb.Write(buf[:n])
		if err != nil {
			break
		}
	}
	return sb.String()
}

func TestWorkerPoolRunsSubmittedTasks(t *testing.T) {
	pool := newWorkerPool(2)
	defer pool.close()

	done := make(chan struct{}, 10)
	for i := 0; i < 10; i++ {
		pool.submit(func() { done <- struct{}{} })
	}

	for i := 0; i < 10; i++ {
		select {
		case <-done:
		case <-time.After(2 * time.Second):
			t.Fatal("timed out waiting for submitted tasks to run")
		}
	}
}
