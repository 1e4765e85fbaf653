package nntp

import (
	"io"
	"strings"
)

// dotTerminator is the line that ends a multi-line ("long") response:
// a line consisting solely of a single period.
const dotTerminator = "."

// unstuffLine removes one leading dot from a line that starts with "..",
// per RFC 3977 dot-stuffing. Lines that do not start with ".." are
// returned unchanged.
func unstuffLine(line string) string {
	if strings.HasPrefix(line, "..") {
		return line[1:]
	}
	return line
}

// stuffLine adds a leading dot to a line that begins with ".", so it
// cannot be confused with the multi-line terminator on the wire.
func stuffLine(line string) string {
	if strings.HasPrefix(line, ".") {
		return "." + line
	}
	return line
}

// ReadMultiline reads lines from f until the dot terminator, un-stuffing
// each as it goes, and returns them in order. The terminator line itself
// is never included in the result. An end-of-stream before the
// terminator is a ProtocolViolation with ReasonUnexpectedEOF.
func ReadMultiline(f *Framer) ([]string, error) {
	var lines []string
	for {
		line, err := f.ReadLine()
		if err != nil {
			if err == io.EOF {
				return nil, &ProtocolViolation{Reason: ReasonUnexpectedEOF, Detail: "stream ended before terminator"}
			}
			return nil, err
		}
		if line == dotTerminator {
			return lines, nil
		}
		lines = append(lines, unstuffLine(line))
	}
}

// LineSink receives one already-unstuffed payload line per call, without
// its terminator. Implementations append the line plus a newline (or
// CRLF, at the sink's discretion) to whatever they are accumulating into.
type LineSink func(line string) error

// ReadMultilineTo streams a long response into sink instead of building a
// slice, for callers handling bodies too large to buffer wholesale.
func ReadMultilineTo(f *Framer, sink LineSink) error {
	for {
		line, err := f.ReadLine()
		if err != nil {
			return err
		}
		if line == dotTerminator {
			return nil
		}
		if err := sink(unstuffLine(line)); err != nil {
			return err
		}
	}
}
