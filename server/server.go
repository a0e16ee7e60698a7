// Package server is the connection acceptor: it listens on a TCP
// port, accepts connections on a bounded worker pool created once at
// Listen (not per accept — the source bug the distilled spec's
// REDESIGN FLAGS call out), parses one request per connection, routes
// it, and drives the matched chain.
package server

import (
	"bufio"
	"log"
	"net"
	"time"

	"golang.org/x/sys/unix"

	"github.com/heo-go/heo/httperr"
	"github.com/heo-go/heo/routing"
	"github.com/heo-go/heo/webio"
)

// ReadTimeout is the per-connection deadline for reading the request
// line, headers, and body, matching the distilled spec's 30s default.
const ReadTimeout = 30 * time.Second

// Server accepts connections for a single Router.
type Server struct {
	Router  *routing.Router
	Workers int
	Logger  *log.Logger

	listener net.Listener
	pool     *workerPool
}

// New builds a Server for router. workers defaults to 100 (the
// distilled spec's default worker pool size) when <= 0.
func New(router *routing.Router, workers int) *Server {
	if workers <= 0 {
		workers = 100
	}
	return &Server{
		Router:  router,
		Workers: workers,
		Logger:  log.Default(),
	}
}

// Listen starts accepting connections on addr. The worker pool is
// created exactly once here, before the accept loop starts — fixing
// the source's per-accept pool-creation bug.
func (s *Server) Listen(addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	s.listener = ln
	s.pool = newWorkerPool(s.Workers)

	s.Logger.Printf("listening on %s with %d workers", addr, s.Workers)

	for {
		conn, err := ln.Accept()
		if err != nil {
			if s.pool == nil {
				return nil // Close already torn the pool down
			}
			s.Logger.Printf("accept error: %v", err)
			continue
		}
		tuneConn(conn)
		s.pool.submit(func() {
			s.serveConn(conn)
		})
	}
}

// Close stops the listener and drains the worker pool.
func (s *Server) Close() error {
	var err error
	if s.listener != nil {
		err = s.listener.Close()
	}
	if s.pool != nil {
		s.pool.close()
		s.pool = nil
	}
	return err
}

func (s *Server) serveConn(conn net.Conn) {
	defer conn.Close()

	conn.SetReadDeadline(time.Now().Add(ReadTimeout))

	br := bufio.NewReader(conn)
	req, err := readRequest(br, conn.RemoteAddr().String())
	if err != nil {
		resp := webio.AcquireResponse(conn)
		resp.Status(400).JSON(map[string]string{"error": "bad request"})
		webio.ReleaseResponse(resp)
		return
	}
	defer webio.Release(req)

	resp := webio.AcquireResponse(conn)
	defer webio.ReleaseResponse(resp)

	result, err := s.Router.Lookup(req.Method, req.Path)
	if err != nil {
		s.writeRouteError(resp, err)
		return
	}

	for name, value := range result.Params {
		req.SetParam(name, value)
	}

	result.Chain.Run(resp, req)
}

// writeRouteError answers not-found/method-not-allowed directly,
// bypassing the user error handler — the asymmetry the distilled spec
// calls for and DESIGN.md documents rather than unifies.
func (s *Server) writeRouteError(resp *webio.Response, err error) {
	if re, ok := err.(*httperr.ResponseError); ok {
		resp.Status(re.StatusCode()).JSON(map[string]string{"error": re.Error()})
		return
	}
	resp.Status(500).JSON(map[string]string{"error": err.Error()})
}

// tuneConn applies TCP_NODELAY and SO_KEEPALIVE to accepted
// connections via golang.org/x/sys/unix, the cross-platform socket-
// tuning path the teacher reaches for elsewhere in its syscall-level
// code (see DESIGN.md).
func tuneConn(conn net.Conn) {
	tcp, ok := conn.(*net.TCPConn)
	if !ok {
		return
	}

	raw, err := tcp.SyscallConn()
	if err != nil {
		return
	}
	raw.Control(func(fd uintptr) {
		unix.SetsockoptInt(int(fd), unix.IPPROTO_TCP, unix.TCP_NODELAY, 1)
		unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_KEEPALIVE, 1)
	})
}
