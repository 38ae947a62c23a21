package gopher

import (
	"bufio"
	"crypto/tls"
	"fmt"
	"io"
	"net"

	"github.com/rs/zerolog"
)

// Request contains the data of a single client request.
type Request struct {
	// Selector as sent by the client, without the trailing CRLF. Empty
	// for a root menu request.
	Selector string
	// RemoteAddr is the client's network address.
	RemoteAddr net.Addr
}

// Handler is the interface a struct needs to implement to be able to serve
// Gopher requests. The returned reader is streamed to the client and the
// connection closed afterwards, which is how Gopher marks the end of a
// response. A nil reader closes the connection with an empty response; if
// the reader is an io.Closer it is closed once streamed.
type Handler interface {
	ServeGopher(r Request) io.Reader
}

// HandlerFunc adapts a plain function to a Handler.
type HandlerFunc func(r Request) io.Reader

func (f HandlerFunc) ServeGopher(r Request) io.Reader { return f(r) }

// ServerOption configures Serve and the ListenAndServe variants.
type ServerOption func(*server)

// WithLogger sets the logger used for read and write failures on client
// connections. The default discards everything; the serving loop behaves
// the same either way.
func WithLogger(logger zerolog.Logger) ServerOption {
	return func(s *server) { s.logger = logger }
}

type server struct {
	handler Handler
	logger  zerolog.Logger
}

// ListenAndServe creates a TCP server on the specified address and passes
// new connections to the given handler. Each request is handled in a
// separate goroutine. It blocks until the listener fails.
func ListenAndServe(addr string, handler Handler, opts ...ServerOption) error {
	if addr == "" {
		addr = ":70"
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	defer ln.Close()

	return Serve(ln, handler, opts...)
}

// ListenAndServeTLS is ListenAndServe over TLS, for serving gophers://
// clients, with the server certificate and key loaded from the given PEM
// files.
func ListenAndServeTLS(addr, certFile, keyFile string, handler Handler, opts ...ServerOption) error {
	if addr == "" {
		addr = ":70"
	}

	cert, err := tls.LoadX509KeyPair(certFile, keyFile)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrTLSSetup, err)
	}
	config := &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
	}

	ln, err := tls.Listen("tcp", addr, config)
	if err != nil {
		return err
	}
	defer ln.Close()

	return Serve(ln, handler, opts...)
}

// Serve accepts connections on ln and serves each in its own goroutine.
// It returns when Accept fails, which includes ln being closed.
func Serve(ln net.Listener, handler Handler, opts ...ServerOption) error {
	srv := &server{handler: handler, logger: zerolog.Nop()}
	for _, opt := range opts {
		opt(srv)
	}

	for {
		conn, err := ln.Accept()
		if err != nil {
			return err
		}

		go srv.handleConnection(conn)
	}
}

func (s *server) handleConnection(conn net.Conn) {
	defer conn.Close()

	selector, err := readSelector(conn)
	if err != nil {
		s.logger.Debug().Err(err).
			Stringer("remote", conn.RemoteAddr()).
			Msg("failed to read selector line")
		return
	}

	body := s.handler.ServeGopher(Request{
		Selector:   selector,
		RemoteAddr: conn.RemoteAddr(),
	})
	if body == nil {
		return
	}
	if closer, ok := body.(io.Closer); ok {
		defer closer.Close()
	}

	if _, err := io.Copy(conn, body); err != nil {
		s.logger.Debug().Err(err).
			Stringer("remote", conn.RemoteAddr()).
			Msg("failed to write response")
	}
}

func readSelector(conn io.Reader) (string, error) {
	scanner := bufio.NewScanner(conn)
	if ok := scanner.Scan(); !ok {
		if err := scanner.Err(); err != nil {
			return "", err
		}
		return "", io.ErrUnexpectedEOF
	}

	// Scan's line splitter already dropped the CR before the LF.
	return scanner.Text(), nil
}
