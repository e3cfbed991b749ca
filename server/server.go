package server

import (
	"context"
	"net"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/net/netutil"

	"github.com/syohex/gnu-apl-mode/out"
	"github.com/syohex/gnu-apl-mode/server/api"
	"github.com/syohex/gnu-apl-mode/server/api/io"
	"github.com/syohex/gnu-apl-mode/server/client"
)

// Server accepts editor connections and serves each one in its own goroutine.
// All connections share one workspace.
type Server struct {
	cfg    *Config
	ws     api.Workspace
	logger *out.Logger

	mu       sync.Mutex
	listener net.Listener
	conns    map[*client.Connection]struct{}

	closing   chan struct{}
	closeOnce sync.Once
	wg        sync.WaitGroup
}

func New(cfg *Config, ws api.Workspace, logger *out.Logger) *Server {
	return &Server{
		cfg:     cfg,
		ws:      ws,
		logger:  logger,
		conns:   make(map[*client.Connection]struct{}),
		closing: make(chan struct{}),
	}
}

// ListenAndServe listens on the configured tcp address and blocks until Shutdown is called or accepting fails.
func (s *Server) ListenAndServe() error {
	l, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return errors.Wrapf(err, "listening on %s", s.cfg.Addr)
	}
	return s.Serve(l)
}

// Serve accepts connections on `l`, which is closed when Serve returns.
// It returns nil after Shutdown.
func (s *Server) Serve(l net.Listener) error {
	if s.cfg.MaxConns > 0 {
		l = netutil.LimitListener(l, s.cfg.MaxConns)
	}
	s.mu.Lock()
	select {
	case <-s.closing:
		s.mu.Unlock()
		l.Close()
		return nil
	default:
	}
	s.listener = l
	s.mu.Unlock()
	defer l.Close()

	s.logger.Infof("listening on %s", l.Addr())
	var delay time.Duration
	for {
		rwc, err := l.Accept()
		if err != nil {
			select {
			case <-s.closing:
				return nil
			default:
			}
			if ne, ok := err.(net.Error); ok && ne.Temporary() {
				if delay == 0 {
					delay = 5 * time.Millisecond
				} else if delay *= 2; delay > time.Second {
					delay = time.Second
				}
				s.logger.Errorf("accept: %v, retrying in %s", err, delay)
				select {
				case <-time.After(delay):
				case <-s.closing:
					return nil
				}
				continue
			}
			return errors.Wrap(err, "accept")
		}
		delay = 0
		s.handle(rwc)
	}
}

// Addr returns the address the server listens on, or nil if it is not listening yet.
func (s *Server) Addr() net.Addr {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener == nil {
		return nil
	}
	return s.listener.Addr()
}

// Shutdown stops accepting connections, closes the live ones and waits for their goroutines to finish,
// or for `ctx` to be done.
func (s *Server) Shutdown(ctx context.Context) error {
	s.closeOnce.Do(func() {
		s.mu.Lock()
		close(s.closing)
		if s.listener != nil {
			s.listener.Close()
		}
		for conn := range s.conns {
			conn.Close()
		}
		s.mu.Unlock()
	})

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Server) handle(rwc net.Conn) {
	conn := client.WrapConnection(rwc, s.cfg.MaxLineLength, s.cfg.IdleTimeout, s.cfg.Sentinel)
	logger := s.logger.With("[" + rwc.RemoteAddr().String() + "]")

	s.mu.Lock()
	select {
	case <-s.closing:
		s.mu.Unlock()
		conn.Close()
		return
	default:
	}
	s.conns[conn] = struct{}{}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		defer func() {
			s.mu.Lock()
			delete(s.conns, conn)
			s.mu.Unlock()
		}()
		s.serve(conn, logger)
	}()
}

// serve runs the read-eval-reply loop of a connection until it breaks
func (s *Server) serve(conn *client.Connection, logger *out.Logger) {
	defer conn.Close()
	logger.Infof("connected")
	for {
		line, err := conn.ReadCommand()
		if err == nil {
			logger.Debugf("command %q", line)
			err = eval(line, conn, s.ws, logger)
		}
		if err == nil {
			continue
		}
		if io.Graceful(err) || s.shuttingDown() {
			logger.Infof("connection closed: %v", err)
		} else {
			logger.Errorf("connection closed: %v", err)
		}
		return
	}
}

func (s *Server) shuttingDown() bool {
	select {
	case <-s.closing:
		return true
	default:
		return false
	}
}
