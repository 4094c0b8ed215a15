// Package server owns the listening socket and the per-connection
// request/response cycle: accept, parse, authorize, match, invoke,
// serialize, close.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"sync/atomic"
	"time"

	"github.com/Karim-Chrif/simple-http-server/pkg/auth"
	"github.com/Karim-Chrif/simple-http-server/pkg/config"
	"github.com/Karim-Chrif/simple-http-server/pkg/logging"
	"github.com/Karim-Chrif/simple-http-server/pkg/request"
	"github.com/Karim-Chrif/simple-http-server/pkg/response"
	"github.com/Karim-Chrif/simple-http-server/pkg/route"
)

// Server serves a static route table over a single TCP listener.
// Connections are handled strictly one at a time: the accept loop fully
// processes and closes a connection before accepting the next.
type Server struct {
	cfg        *config.Config
	table      *route.Table
	authorizer auth.Authorizer

	listener net.Listener
	closed   atomic.Bool
}

// New creates a server. authorizer may be nil, in which case every request
// is admitted.
func New(cfg *config.Config, table *route.Table, authorizer auth.Authorizer) *Server {
	return &Server{
		cfg:        cfg,
		table:      table,
		authorizer: authorizer,
	}
}

// Listen binds the configured address. A bind failure (port in use,
// permission denied) is returned to the caller; it is the only fatal error
// the server produces.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.cfg.Address())
	if err != nil {
		return fmt.Errorf("failed to bind %s: %w", s.cfg.Address(), err)
	}
	s.listener = ln

	logging.InfoWith("Server listening", map[string]interface{}{
		"address": ln.Addr().String(),
		"routes":  s.table.Len(),
	})
	return nil
}

// Addr returns the bound listener address, or nil before Listen
func (s *Server) Addr() net.Addr {
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Serve runs the accept loop until the context is cancelled or the
// listener is closed. Per-connection failures are logged and never
// terminate the loop.
func (s *Server) Serve(ctx context.Context) error {
	if s.listener == nil {
		return errors.New("server is not listening; call Listen first")
	}

	stop := context.AfterFunc(ctx, func() {
		s.Shutdown()
	})
	defer stop()

	for {
		conn, err := s.listener.Accept()
		if s.closed.Load() {
			if conn != nil {
				conn.Close()
			}
			return nil
		}
		if err != nil {
			logging.ErrorWith("Failed to accept connection", map[string]interface{}{
				"error": err.Error(),
			})
			continue
		}

		// Synchronous: one connection from accept through close before
		// the next accept
		s.handle(conn)
	}
}

// Start binds and serves; it blocks until shutdown
func (s *Server) Start(ctx context.Context) error {
	if err := s.Listen(); err != nil {
		return err
	}
	return s.Serve(ctx)
}

// Shutdown closes the listening socket, breaking the accept loop. Safe to
// call more than once.
func (s *Server) Shutdown() error {
	if !s.closed.CompareAndSwap(false, true) {
		return nil
	}
	logging.Info("Shutting down the server")
	return s.listener.Close()
}

// handle processes one connection. The connection is closed on every exit
// path exactly once, via the deferred Close.
func (s *Server) handle(conn net.Conn) {
	defer conn.Close()

	remote := conn.RemoteAddr().String()
	s.applyDeadlines(conn)

	req, err := request.FromReader(conn)
	if err != nil {
		if errors.Is(err, request.ErrTruncated) {
			// Empty or prematurely closed stream: no response can usefully
			// be written, close silently
			logging.DebugWith("Connection closed before a full request arrived", map[string]interface{}{
				"remote": remote,
				"error":  err.Error(),
			})
			return
		}

		s.respond(conn, remote, "", "", response.New(
			response.StatusBadRequest,
			map[string]string{"error": "Bad Request"},
		))
		return
	}

	resp := s.dispatch(req)
	s.respond(conn, remote, req.Method, req.Path, resp)
}

// dispatch runs the per-request pipeline: Content-Type precheck, auth
// gate, route match, handler invocation
func (s *Server) dispatch(req *request.Request) *response.Response {
	if ct := req.Headers.Get("Content-Type"); ct != "" && ct != "application/json" {
		return response.New(response.StatusBadRequest, map[string]string{
			"error": "Invalid Content-Type",
		})
	}

	if s.authorizer != nil && !s.authorizer.Authorize(req.Headers) {
		return response.New(response.StatusUnauthorized, map[string]string{
			"error": "Unauthorized",
		})
	}

	r, ok := s.table.Lookup(req.Method, req.Path)
	if !ok {
		return response.New(response.StatusNotFound, map[string]string{
			"error": "Not Found",
		})
	}

	return s.invoke(r)
}

// invoke runs a route handler, converting a panic or a nil result into a
// 500 so one faulty handler cannot take down the accept loop
func (s *Server) invoke(r route.Route) (resp *response.Response) {
	defer func() {
		if p := recover(); p != nil {
			logging.ErrorWith("Handler panicked", map[string]interface{}{
				"method": r.Method,
				"path":   r.Path,
				"panic":  fmt.Sprint(p),
			})
			resp = response.New(response.StatusInternalServerError, map[string]string{
				"error": "Internal Server Error",
			})
		}
	}()

	resp = r.Handler()
	if resp == nil {
		logging.ErrorWith("Handler returned no response", map[string]interface{}{
			"method": r.Method,
			"path":   r.Path,
		})
		resp = response.New(response.StatusInternalServerError, map[string]string{
			"error": "Internal Server Error",
		})
	}
	return resp
}

// respond serializes resp to the connection and writes the access log line
func (s *Server) respond(conn net.Conn, remote, method, path string, resp *response.Response) {
	written, err := resp.WriteTo(conn)
	if err != nil {
		logging.WarnWith("Failed to write response", map[string]interface{}{
			"remote": remote,
			"error":  err.Error(),
		})
		if written == 0 {
			// Serialization failed before any bytes hit the wire (an
			// unserializable handler body); the connection can still
			// carry a 500
			fallback := response.New(response.StatusInternalServerError, map[string]string{
				"error": "Internal Server Error",
			})
			if _, err := fallback.WriteTo(conn); err != nil {
				return
			}
			logging.Access(remote, method, path, fallback.StatusCode)
		}
		return
	}
	logging.Access(remote, method, path, resp.StatusCode)
}

// applyDeadlines sets the configured read and write deadlines; a zero
// timeout leaves that direction unbounded
func (s *Server) applyDeadlines(conn net.Conn) {
	now := time.Now()
	if s.cfg.Server.ReadTimeout > 0 {
		conn.SetReadDeadline(now.Add(time.Duration(s.cfg.Server.ReadTimeout) * time.Second))
	}
	if s.cfg.Server.WriteTimeout > 0 {
		conn.SetWriteDeadline(now.Add(time.Duration(s.cfg.Server.WriteTimeout) * time.Second))
	}
}
