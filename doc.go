// Package nntp implements a client for the news protocol NNTP, as
// defined in RFC 3977, with the widely deployed pre-standard extensions
// XOVER, XHDR, and XGTITLE.
//
// A Session is opened with Dial, which negotiates transport security
// (plaintext, implicit TLS, or an in-band STARTTLS upgrade), reads and
// validates the welcome banner, and loads the server's capabilities.
// From there, typed methods on Session cover group selection, article
// retrieval, overview/header digests, posting, and article transfer.
//
// A Session is single-owner: it assumes its caller serializes commands.
// Exactly one request/response exchange is ever in flight; a second
// command issued before the first's response has been read fails with
// CommandInProgress instead of being written to the wire.
package nntp
