package singleinstance

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"pop-translate/src/logutil"
)

const (
	residentHost    = "127.0.0.1"
	pingRequest     = "PING\n"
	pongResponse    = "PONG\n"
	showRequest     = "SHOW\n"
	successResponse = "SUCCESS\n"
	errorResponse   = "ERROR\n"

	requestTimeout = 3 * time.Second
)

// tcpServer implements Server over TCP loopback.
type tcpServer struct {
	want     int
	lis      net.Listener
	incoming chan *tcpConn
	done     chan struct{}
	once     sync.Once
	port     int
	log      *zap.Logger
}

func newTCPServer(port int) Server {
	return &tcpServer{
		want:     port,
		incoming: make(chan *tcpConn, 8),
		done:     make(chan struct{}),
		log:      logutil.Named("singleinstance"),
	}
}

// Start binds only the configured port. If it is occupied, Start fails.
func (s *tcpServer) Start(ctx context.Context) error {
	if s.lis != nil {
		return nil
	}
	addr := address(s.want)
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("bind %s: %w", addr, err)
	}
	s.lis = lis
	s.port = lis.Addr().(*net.TCPAddr).Port
	s.log.Info("listening", zap.String("addr", lis.Addr().String()))
	go s.acceptLoop(ctx)
	return nil
}

// Port returns the bound port (0 if not started).
func (s *tcpServer) Port() int { return s.port }

func (s *tcpServer) acceptLoop(ctx context.Context) {
	for {
		c, err := s.lis.Accept()
		if err != nil {
			return
		}
		remote := c.RemoteAddr().String()
		_ = c.SetDeadline(time.Now().Add(requestTimeout))
		br := bufio.NewReader(c)
		line, _ := br.ReadString('\n')
		bw := bufio.NewWriter(c)

		switch line {
		case pingRequest:
			s.log.Debug("PING -> PONG", zap.String("remote", remote))
			_, _ = bw.WriteString(pongResponse)
			_ = bw.Flush()
			_ = c.Close()
			continue
		case showRequest:
		default:
			s.log.Warn("rejecting request", zap.String("remote", remote), zap.String("line", logutil.Truncate(line, 32)))
			_, _ = bw.WriteString(errorResponse + ErrUnknownRequest.Error())
			_ = bw.Flush()
			_ = c.Close()
			continue
		}

		tc := &tcpConn{id: uuid.NewString(), c: c, r: RequestShow, w: bw}
		s.log.Info("request", zap.String("id", tc.id), zap.String("remote", remote), zap.Stringer("request", RequestShow))
		select {
		case s.incoming <- tc:
		case <-s.done:
			_ = c.Close()
			return
		case <-ctx.Done():
			_ = c.Close()
			return
		}
	}
}

func (s *tcpServer) Next(ctx context.Context) (Conn, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case <-s.done:
		return nil, net.ErrClosed
	case tc := <-s.incoming:
		return tc, nil
	}
}

func (s *tcpServer) Close() error {
	s.once.Do(func() {
		close(s.done)
		if s.lis != nil {
			_ = s.lis.Close()
		}
	})
	return nil
}

type tcpConn struct {
	id string
	c  net.Conn
	r  Request
	w  *bufio.Writer
}

func (tc *tcpConn) ID() string { return tc.id }

func (tc *tcpConn) Request() Request { return tc.r }

func (tc *tcpConn) RespondSuccess() error {
	if _, err := tc.w.WriteString(successResponse); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) RespondError(msg string) error {
	if _, err := tc.w.WriteString(errorResponse + msg); err != nil {
		return err
	}
	return tc.w.Flush()
}

func (tc *tcpConn) Close() error { return tc.c.Close() }
