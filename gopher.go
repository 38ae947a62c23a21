package gopher

import "errors"

// DefaultPort is the TCP port Gopher servers listen on when the endpoint
// URL doesn't name one.
const DefaultPort = 70

// Gopher item types as defined in RFC 1436 section 3.8, plus the common
// extensions. These identify the first character of a menu line; this
// library does not parse menus, the constants are provided for callers
// that do.
const (
	ItemFile       = '0'
	ItemDirectory  = '1'
	ItemCSO        = '2'
	ItemError      = '3'
	ItemBinHex     = '4'
	ItemDOSArchive = '5'
	ItemUUEncoded  = '6'
	ItemSearch     = '7'
	ItemTelnet     = '8'
	ItemBinary     = '9'
	ItemMirror     = '+'
	ItemGIF        = 'g'
	ItemImage      = 'I'
	ItemTN3270     = 'T'

	// Non-canonical types in wide use.
	ItemHTML = 'h'
	ItemInfo = 'i'
)

// Errors returned by Resolve and Connect, matched with errors.Is.
// Malformed URLs surface as the *url.Error from net/url and socket
// failures as the underlying net error, both unwrapped.
var (
	// ErrInvalidHost means the endpoint URL parsed but carries no host.
	ErrInvalidHost = errors.New("gopher: invalid host")
	// ErrUnsupportedProtocol means the URL scheme is neither "gopher"
	// nor "gophers".
	ErrUnsupportedProtocol = errors.New("gopher: unsupported protocol")
	// ErrHandshake means the socket connected but the TLS handshake
	// with the server failed.
	ErrHandshake = errors.New("gopher: TLS handshake failed")
	// ErrTLSSetup means the TLS client configuration could not be
	// built, before any handshake was attempted.
	ErrTLSSetup = errors.New("gopher: TLS setup failed")
)
