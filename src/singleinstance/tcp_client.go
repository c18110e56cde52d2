package singleinstance

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"
)

type tcpClient struct {
	port int
}

func newTCPClient(port int) Client { return &tcpClient{port: port} }

func (c *tcpClient) Show(ctx context.Context) (bool, error) {
	timeout := timeoutFrom(ctx, 2*time.Second)
	addr := address(c.port)
	if !ping(addr, timeout) {
		return false, nil
	}

	conn, err := net.DialTimeout("tcp", addr, timeout)
	if err != nil {
		return false, nil
	}
	defer conn.Close()
	_ = conn.SetDeadline(time.Now().Add(timeout))

	w := bufio.NewWriter(conn)
	if _, err := w.WriteString(showRequest); err != nil {
		return true, fmt.Errorf("send request: %w", err)
	}
	if err := w.Flush(); err != nil {
		return true, fmt.Errorf("send request: %w", err)
	}

	br := bufio.NewReader(conn)
	status, err := br.ReadString('\n')
	if err != nil {
		return true, fmt.Errorf("read response: %w", err)
	}
	switch status {
	case successResponse:
		return true, nil
	case errorResponse:
		msg, _ := io.ReadAll(br)
		return true, errors.New(strings.TrimSpace(string(msg)))
	default:
		return true, fmt.Errorf("unexpected response %q", strings.TrimSpace(status))
	}
}
