package singleinstance

// Single-instance ownership over a loopback TCP port, plus delegation of
// "show the panel" requests from a second launch to the resident.

import (
	"context"
	"errors"
	"net"
	"strconv"
)

const DefaultPort = 49560

// ErrUnknownRequest is returned to clients that send an unsupported command.
var ErrUnknownRequest = errors.New("unknown request")

// Request is a command delegated to the resident instance.
type Request int

const (
	// RequestShow asks the resident to run the shortcut flow.
	RequestShow Request = iota + 1
)

func (r Request) String() string {
	switch r {
	case RequestShow:
		return "SHOW"
	}
	return "UNKNOWN"
}

// Server owns the TCP endpoint and answers delegated requests.
type Server interface {
	// Start binds the configured port on the loopback interface and starts accepting clients.
	Start(ctx context.Context) error
	// Port returns the bound TCP port, or 0 if not started.
	Port() int
	// Next returns the next accepted request, or ctx error.
	Next(ctx context.Context) (Conn, error)
	// Close releases ownership and stops accepting clients.
	Close() error
}

// Conn represents one client connection.
type Conn interface {
	// ID correlates log lines of one delegated request.
	ID() string
	Request() Request
	RespondSuccess() error
	// RespondError sends an error with a human-readable message.
	RespondError(msg string) error
	Close() error
}

// Client delegates requests to a resident server.
type Client interface {
	// Show asks the resident to show the panel. If no resident answers,
	// it returns delegated=false, err=nil.
	Show(ctx context.Context) (delegated bool, err error)
}

// NewServer returns the TCP implementation bound to port.
func NewServer(port int) Server { return newTCPServer(port) }

// NewClient returns the TCP implementation targeting port.
func NewClient(port int) Client { return newTCPClient(port) }

func address(port int) string {
	return net.JoinHostPort(residentHost, strconv.Itoa(port))
}
