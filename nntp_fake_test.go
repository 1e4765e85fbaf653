package nntp

import (
	"bytes"
	"net"
	"strings"
	"time"
)

// fakeAddr satisfies net.Addr for the fake connection below.
type fakeAddr struct{}

func (fakeAddr) Network() string { return "fake" }
func (fakeAddr) String() string  { return "fake" }

// fakeConn wraps a canned server response stream (r) and a buffer that
// captures whatever the client writes (w), presenting both as a
// net.Conn so Transport can be driven in tests without a real socket,
// satisfying net.Conn's deadline methods as no-ops.
type fakeConn struct {
	r      *strings.Reader
	w      *bytes.Buffer
	closed bool
}

func newFakeConn(serverScript string) *fakeConn {
	return &fakeConn{
		r: strings.NewReader(serverScript),
		w: &bytes.Buffer{},
	}
}

func (f *fakeConn) Read(p []byte) (int, error)  { return f.r.Read(p) }
func (f *fakeConn) Write(p []byte) (int, error) { return f.w.Write(p) }
func (f *fakeConn) Close() error                { f.closed = true; return nil }
func (f *fakeConn) LocalAddr() net.Addr         { return fakeAddr{} }
func (f *fakeConn) RemoteAddr() net.Addr        { return fakeAddr{} }
func (f *fakeConn) SetDeadline(time.Time) error      { return nil }
func (f *fakeConn) SetReadDeadline(time.Time) error  { return nil }
func (f *fakeConn) SetWriteDeadline(time.Time) error { return nil }

// writtenLines returns everything the client has written so far, as CRLF
// normalized lines with the terminators stripped.
func (f *fakeConn) writtenLines() []string {
	raw := f.w.String()
	raw = strings.TrimSuffix(raw, "\r\n")
	if raw == "" {
		return nil
	}
	return strings.Split(raw, "\r\n")
}

// newTestSession builds a Session wired directly to a fakeConn, bypassing
// Dial's net.DialTimeout so scripted scenarios can drive the banner line
// themselves.
func newTestSession(conn *fakeConn) *Session {
	return &Session{
		transport:   &Transport{conn: conn, framer: NewFramer(conn)},
		decoder:     DefaultHeaderDecoder(),
		nntpVersion: 1,
	}
}

// dialFake runs the full Dial handshake (banner + capabilities + mode
// reader + STARTTLS-if-required) against a scripted fakeConn, for the
// end-to-end scenarios.
func dialFake(cfg Config, conn *fakeConn) (*Session, error) {
	transport := &Transport{conn: conn, framer: NewFramer(conn), timeout: cfg.Timeout}
	return handshake(cfg, transport, cfg.TLSMode == TLSImplicit)
}

func crlf(s string) string {
	return strings.ReplaceAll(s, "\n", "\r\n")
}
