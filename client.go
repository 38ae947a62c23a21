package gopher

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"io"
	"net"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/net/idna"
)

// Endpoint is a resolved Gopher endpoint. The Host, Port and TLS triple is
// filled in by Resolve and should not be changed afterwards; the remaining
// fields are optional TLS material that may be set before Connect.
type Endpoint struct {
	Host string
	Port uint16
	// TLS is true for gophers:// endpoints.
	TLS bool

	// ClientCertFile and ClientKeyFile optionally name a PEM certificate
	// and key pair presented to servers that request one. Only consulted
	// when TLS is true.
	ClientCertFile string
	ClientKeyFile  string
	// RootCAs optionally holds extra PEM root certificates trusted in
	// addition to the system pool. Only consulted when TLS is true.
	RootCAs []byte
}

// Resolve parses an endpoint URL of the form scheme://host[:port] into an
// Endpoint. The scheme must be "gopher" (plain TCP) or "gophers" (TLS);
// the port defaults to 70 when the URL doesn't name one. Unicode hostnames
// are converted to punycode. Resolve performs no network I/O.
func Resolve(endpoint string) (*Endpoint, error) {
	e, _, err := resolve(endpoint)
	return e, err
}

func resolve(endpoint string) (*Endpoint, *url.URL, error) {
	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, nil, err
	}
	if u.Scheme == "" {
		// Mirrors url.Parse's own error shape for the other syntax
		// failures, so callers see one kind of parse error.
		return nil, nil, &url.Error{
			Op:  "parse",
			URL: endpoint,
			Err: errors.New("not an absolute URL"),
		}
	}

	var useTLS bool
	switch u.Scheme {
	case "gopher":
	case "gophers":
		useTLS = true
	default:
		return nil, nil, fmt.Errorf("%w: %q", ErrUnsupportedProtocol, u.Scheme)
	}

	host := u.Hostname()
	if host == "" {
		return nil, nil, ErrInvalidHost
	}
	// IDNs go on the wire, and into certificate validation, as punycode.
	// Hosts the lookup profile rejects (underscores etc.) pass through.
	if ascii, err := idna.Lookup.ToASCII(host); err == nil {
		host = ascii
	}

	port := uint16(DefaultPort)
	if p := u.Port(); p != "" {
		n, err := strconv.ParseUint(p, 10, 16)
		if err != nil {
			return nil, nil, &url.Error{Op: "parse", URL: endpoint, Err: err}
		}
		port = uint16(n)
	}

	return &Endpoint{Host: host, Port: port, TLS: useTLS}, u, nil
}

// Connect opens a fresh TCP connection to the endpoint and, for gophers://
// endpoints, performs the TLS handshake with the endpoint host as the name
// the server certificate is validated against. Connections are not pooled
// or reused; every call dials its own socket.
func (e *Endpoint) Connect() (*Conn, error) {
	addr := net.JoinHostPort(e.Host, strconv.Itoa(int(e.Port)))
	sock, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, err
	}

	if !e.TLS {
		return &Conn{conn: sock}, nil
	}

	conf, err := e.tlsConfig()
	if err != nil {
		sock.Close()
		return nil, err
	}

	tlsConn := tls.Client(sock, conf)
	if err := tlsConn.Handshake(); err != nil {
		sock.Close()
		return nil, fmt.Errorf("%w: %v", ErrHandshake, err)
	}

	return &Conn{conn: tlsConn, tls: true}, nil
}

func (e *Endpoint) tlsConfig() (*tls.Config, error) {
	conf := &tls.Config{
		ServerName: e.Host,
		MinVersion: tls.VersionTLS12,
	}

	if e.ClientCertFile != "" || e.ClientKeyFile != "" {
		cert, err := tls.LoadX509KeyPair(e.ClientCertFile, e.ClientKeyFile)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrTLSSetup, err)
		}
		conf.Certificates = []tls.Certificate{cert}
	}

	if len(e.RootCAs) > 0 {
		pool, err := x509.SystemCertPool()
		if err != nil {
			pool = x509.NewCertPool()
		}
		if !pool.AppendCertsFromPEM(e.RootCAs) {
			return nil, fmt.Errorf("%w: no certificates found in root CA PEM", ErrTLSSetup)
		}
		conf.RootCAs = pool
	}

	return conf, nil
}

// Conn is a single-owner connection to a Gopher server, either plain TCP
// or TLS. Both variants expose the same blocking byte-stream surface.
// A Conn must not be used from more than one goroutine; open one Conn per
// in-flight fetch.
type Conn struct {
	conn net.Conn
	tls  bool
}

// Encrypted reports whether the connection runs over TLS.
func (c *Conn) Encrypted() bool { return c.tls }

func (c *Conn) Read(p []byte) (int, error)  { return c.conn.Read(p) }
func (c *Conn) Write(p []byte) (int, error) { return c.conn.Write(p) }

// Close releases the underlying socket. A closed Conn cannot be reopened;
// retrying a failed fetch means connecting again.
func (c *Conn) Close() error { return c.conn.Close() }

// SetDeadline sets the read and write deadlines on the underlying socket.
// The library never sets one itself; see Fetch.
func (c *Conn) SetDeadline(t time.Time) error { return c.conn.SetDeadline(t) }

// Fetch requests the resource named by path and returns the server's
// entire response. The request is the selector followed by CRLF; an empty
// path requests the root menu. The response is read until the server
// closes the connection and returned uninterpreted.
//
// Fetch sets no deadline, so a server that accepts the connection but
// never closes it blocks forever. Callers needing a bound should call
// SetDeadline first.
func (c *Conn) Fetch(path string) ([]byte, error) {
	if _, err := io.WriteString(c.conn, path+"\r\n"); err != nil {
		return nil, err
	}
	return io.ReadAll(c.conn)
}

// Fetch resolves rawURL, connects, fetches the URL path and closes the
// connection.
func Fetch(rawURL string) ([]byte, error) {
	e, u, err := resolve(rawURL)
	if err != nil {
		return nil, err
	}

	conn, err := e.Connect()
	if err != nil {
		return nil, err
	}
	defer conn.Close()

	return conn.Fetch(u.Path)
}
