package nntp

import (
	"io"
	"mime"

	"golang.org/x/net/html/charset"
	"golang.org/x/net/idna"
)

// HeaderDecoder decodes a raw header or extended-overview field value,
// allowing callers to customize MIME decoding of header and overview
// field values. The default
// implementation decodes RFC 2047 MIME encoded-words; callers with more
// exotic requirements (vendor-specific transfer encodings, for example)
// can supply their own.
type HeaderDecoder func(raw string) string

// DefaultHeaderDecoder returns a HeaderDecoder backed by mime.WordDecoder
// with a CharsetReader that understands any charset golang.org/x/net/
// html/charset recognizes by IANA label, not just the handful
// encoding/unicode covers out of the stdlib. Decode failures return the
// raw input unchanged rather than erroring: a header the decoder can't
// parse is still more useful to the caller verbatim than dropped.
func DefaultHeaderDecoder() HeaderDecoder {
	dec := &mime.WordDecoder{
		CharsetReader: func(label string, input io.Reader) (io.Reader, error) {
			return charset.NewReaderLabel(label, input)
		},
	}
	return func(raw string) string {
		decoded, err := dec.DecodeHeader(raw)
		if err != nil {
			return raw
		}
		return decoded
	}
}

// normalizeSNIHost converts an internationalized hostname to its ASCII
// ("punycode") form suitable for use as a TLS ServerName/SNI value. Pure
// ASCII hosts pass through unchanged; a hostname idna rejects outright
// (rather than merely declining to transform) is also passed through,
// since STARTTLS/implicit-TLS should still be attempted with whatever
// the caller configured instead of failing Dial over a cosmetic SNI
// concern.
func normalizeSNIHost(host string) string {
	ascii, err := idna.Lookup.ToASCII(host)
	if err != nil {
		return host
	}
	return ascii
}
