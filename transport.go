package nntp

import (
	"crypto/tls"
	"net"
	"time"
)

// Transport owns the byte stream underlying a Session: a plain TCP
// socket, or (after Dial with implicit TLS, or after UpgradeTLS) a TLS
// socket wrapping the same logical connection. Every read and write goes
// through a single per-operation deadline, set fresh before each request.
type Transport struct {
	conn    net.Conn
	framer  *Framer
	timeout time.Duration
}

// DialTransport opens a plain TCP connection to addr.
func DialTransport(network, addr string, dialTimeout, opTimeout time.Duration) (*Transport, error) {
	conn, err := net.DialTimeout(network, addr, dialTimeout)
	if err != nil {
		return nil, err
	}
	return &Transport{conn: conn, framer: NewFramer(conn), timeout: opTimeout}, nil
}

// DialTransportTLS opens a connection that is TLS from the first byte
// (the implicit-TLS port, conventionally 563).
func DialTransportTLS(network, addr string, dialTimeout, opTimeout time.Duration, cfg *tls.Config) (*Transport, error) {
	rawConn, err := net.DialTimeout(network, addr, dialTimeout)
	if err != nil {
		return nil, err
	}
	tlsConn := tls.Client(rawConn, cfg)
	if err := tlsConn.SetDeadline(time.Now().Add(dialTimeout)); err != nil {
		rawConn.Close()
		return nil, err
	}
	if err := tlsConn.Handshake(); err != nil {
		rawConn.Close()
		return nil, err
	}
	_ = tlsConn.SetDeadline(time.Time{})
	return &Transport{conn: tlsConn, framer: NewFramer(tlsConn), timeout: opTimeout}, nil
}

// cloneTLSConfig returns cfg (or a fresh zero-value config if cfg is
// nil) with ServerName filled in from host when not already set, after
// normalizing host through IDNA so internationalized hostnames present
// a valid ASCII SNI value.
func cloneTLSConfig(cfg *tls.Config, host string) *tls.Config {
	var out *tls.Config
	if cfg == nil {
		out = &tls.Config{}
	} else {
		out = cfg.Clone()
	}
	if out.ServerName == "" {
		out.ServerName = normalizeSNIHost(host)
	}
	return out
}

func (t *Transport) deadline() time.Time {
	if t.timeout <= 0 {
		return time.Time{}
	}
	return time.Now().Add(t.timeout)
}

// WriteLine writes s followed by CRLF, under the transport's configured
// per-operation timeout.
func (t *Transport) WriteLine(s string) error {
	if err := t.conn.SetWriteDeadline(t.deadline()); err != nil {
		return err
	}
	_, err := t.conn.Write([]byte(s + "\r\n"))
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return &Timeout{Op: "write", Err: err}
		}
		return err
	}
	return nil
}

// ReadLine reads one framed line, under the transport's configured
// per-operation timeout.
func (t *Transport) ReadLine() (string, error) {
	if err := t.conn.SetReadDeadline(t.deadline()); err != nil {
		return "", err
	}
	line, err := t.framer.ReadLine()
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return "", &Timeout{Op: "read", Err: err}
		}
		return "", err
	}
	return line, nil
}

// Framer exposes the underlying line framer, used by multi-line reads.
func (t *Transport) Framer() *Framer { return t.framer }

// UpgradeTLS wraps the current connection in TLS and performs the
// handshake. It must be called immediately after reading the server's
// 382 reply to STARTTLS and before any further read, so the framer has
// not buffered any byte belonging to the post-handshake stream. If any
// byte is already buffered, the upgrade is refused and the transport is
// closed: a partial upgrade cannot be made safe after the fact.
func (t *Transport) UpgradeTLS(serverName string, cfg *tls.Config) error {
	if t.framer.Buffered() > 0 {
		t.Close()
		return &ProtocolViolation{Reason: ReasonSTARTTLSLeak, Detail: "plaintext bytes received after 382"}
	}

	effective := cfg
	if effective == nil {
		effective = &tls.Config{}
	}
	if effective.ServerName == "" && serverName != "" {
		clone := effective.Clone()
		clone.ServerName = serverName
		effective = clone
	}

	upgraded, err := tlsHandshake(t.conn, effective, t.deadline())
	if err != nil {
		t.Close()
		return err
	}

	t.conn = upgraded
	t.framer = NewFramer(upgraded)
	return nil
}

// tlsHandshake performs the client-side TLS handshake over an already
// established connection. It is a package variable so tests can stub a
// successful upgrade without a real TLS server on the other end.
var tlsHandshake = func(conn net.Conn, cfg *tls.Config, deadline time.Time) (net.Conn, error) {
	tlsConn := tls.Client(conn, cfg)
	if err := tlsConn.SetDeadline(deadline); err != nil {
		return nil, err
	}
	if err := tlsConn.Handshake(); err != nil {
		return nil, err
	}
	_ = tlsConn.SetDeadline(time.Time{})
	return tlsConn, nil
}

// Close closes the underlying connection. Close is idempotent: repeated
// calls are no-ops.
func (t *Transport) Close() error {
	if t.conn == nil {
		return nil
	}
	err := t.conn.Close()
	t.conn = nil
	return err
}

// Closed reports whether Close has already run.
func (t *Transport) Closed() bool { return t.conn == nil }
