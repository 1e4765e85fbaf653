package nntp

import (
	"bufio"
	"io"
)

// maxLineLength bounds a single framed line, terminator included. RFC 3977
// requires servers to accept 512; this client tolerates the larger lines
// some implementations send in practice, per the implementation budget
// noted in the design documents this package follows.
const maxLineLength = 2048

// Framer reads a byte stream and yields exactly one CRLF-terminated line
// per ReadLine call. It does not interpret line content; the response
// classifier and multi-line reader sit on top of it.
//
// Framer accepts LF-only or CR-only line boundaries on input (some older
// or misbehaving servers emit them) but never produces either as part of
// a returned line: the terminator is always stripped.
type Framer struct {
	r *bufio.Reader
}

// NewFramer wraps r. bufio.NewReaderSize is sized to maxLineLength, so
// the buffer can hold a whole line of the maximum length.
func NewFramer(r io.Reader) *Framer {
	return &Framer{r: bufio.NewReaderSize(r, maxLineLength)}
}

// Buffered reports how many bytes the framer has already read from the
// underlying stream but not yet delivered via ReadLine. The command
// engine checks this is zero before a STARTTLS upgrade: any buffered
// byte would otherwise belong to the plaintext stream and be silently
// lost once the TLS layer takes over.
func (f *Framer) Buffered() int {
	return f.r.Buffered()
}

// ReadLine reads up to and including the next line terminator and returns
// the line with the terminator stripped. It recognizes CRLF, bare LF, and
// bare CR as terminators on input.
func (f *Framer) ReadLine() (string, error) {
	var line []byte
	for {
		b, err := f.r.ReadByte()
		if err != nil {
			if err == io.EOF {
				if len(line) == 0 {
					return "", io.EOF
				}
				return "", &ProtocolViolation{Reason: ReasonUnexpectedEOF, Detail: "stream ended mid-line"}
			}
			return "", err
		}
		if b == '\n' {
			return string(trimTrailingCR(line)), nil
		}
		if b == '\r' {
			// Either a CRLF (peek for the LF and consume it) or a bare CR
			// terminator.
			next, err := f.r.Peek(1)
			if err == nil && len(next) == 1 && next[0] == '\n' {
				_, _ = f.r.ReadByte()
			}
			return string(line), nil
		}
		line = append(line, b)
		if len(line)+2 > maxLineLength {
			// The content plus its CRLF terminator no longer fits. The
			// rest of the oversized line is left unread, so the stream is
			// no longer framed; this ProtocolViolation is not recoverable.
			return "", &ProtocolViolation{Reason: ReasonLineTooLong, Detail: "exceeds 2048 bytes"}
		}
	}
}

func trimTrailingCR(b []byte) []byte {
	if n := len(b); n > 0 && b[n-1] == '\r' {
		return b[:n-1]
	}
	return b
}
