// Package gopher provides a minimal client, and a small server, for the
// Gopher protocol (RFC 1436).
//
// A fetch is one exchange: resolve an endpoint URL, connect, send a single
// selector line, and read until the server closes the connection. The raw
// response bytes are returned as-is; interpreting the tab-delimited menu
// format is left to the caller.
//
// Endpoints with Unicode hostnames are handled: the hostname is converted
// to punycode at resolve time, so it is used in that form for DNS and for
// certificate validation on gophers:// endpoints.
package gopher
