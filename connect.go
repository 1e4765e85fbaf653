package nntp

import "fmt"

// Dial opens a connection per cfg, reads and validates the welcome
// banner, and loads the server's capabilities. connected only becomes
// true once the banner has been read and found acceptable — unlike
// reference implementations that flip it before the read completes, a
// failed banner read never leaves a half-connected Session behind.
func Dial(cfg Config) (*Session, error) {
	addr := cfg.addr()

	var transport *Transport
	var err error
	tlsOn := false
	if cfg.TLSMode == TLSImplicit {
		tlsConfig := cloneTLSConfig(cfg.TLSConfig, cfg.Host)
		transport, err = DialTransportTLS("tcp", addr, cfg.DialTimeout, cfg.Timeout, tlsConfig)
		tlsOn = true
	} else {
		transport, err = DialTransport("tcp", addr, cfg.DialTimeout, cfg.Timeout)
	}
	if err != nil {
		return nil, err
	}

	return handshake(cfg, transport, tlsOn)
}

// handshake runs the post-dial banner/capability/reader-mode/STARTTLS
// negotiation shared by Dial and tests driving a fake transport.
func handshake(cfg Config, transport *Transport, tlsOn bool) (*Session, error) {
	s := &Session{cfg: cfg, transport: transport, tlsOn: tlsOn, nntpVersion: 1}
	s.decoder = cfg.HeaderDecoder
	if s.decoder == nil {
		s.decoder = DefaultHeaderDecoder()
	}

	line, err := s.transport.ReadLine()
	if err != nil {
		s.transport.Close()
		return nil, err
	}
	resp, err := Classify(line)
	if err != nil {
		s.transport.Close()
		return nil, err
	}
	if resp.Code != 200 && resp.Code != 201 {
		s.transport.Close()
		return nil, classifyFailure("BANNER", resp, []int{200, 201})
	}

	s.banner = resp.Text
	s.postAllowed = resp.Code == 200
	s.connected = true
	logStateChange("connected", true)

	if err := s.reloadCapabilities(); err != nil {
		s.Close()
		return nil, err
	}

	if cfg.TLSMode == TLSStartTLSRequired || (cfg.TLSMode == TLSStartTLSIfAvailable && s.caps.Has("STARTTLS")) {
		if err := s.StartTLS(); err != nil {
			s.Close()
			return nil, err
		}
	}

	if cfg.ReaderModeOnConnect && !s.caps.Has("READER") {
		if err := s.modeReader(); err != nil {
			s.Close()
			return nil, err
		}
	}

	return s, nil
}

// modeReader issues MODE READER and applies the three possible
// outcomes RFC 3977 describes: success (reload capabilities), 480 (defer
// until after login), or any other reply (fail).
func (s *Session) modeReader() error {
	resp, err := s.doShort("MODE READER")
	if err != nil {
		return err
	}
	switch resp.Code {
	case 200, 201:
		s.invalidateCapabilities()
		return s.reloadCapabilities()
	case 480:
		s.readermodeAfterAuth = true
		return nil
	default:
		return classifyFailure("MODE READER", resp, []int{200, 201, 480})
	}
}

// Login performs the AUTHINFO USER/PASS exchange. It fails immediately
// with AlreadyLoggedIn if the session has already authenticated. On
// success, the capability reload completes before Login returns — no
// caller ever observes the pre-reload capability set after a
// successful Login.
func (s *Session) Login(user, password string) error {
	release, err := s.enter()
	if err != nil {
		return err
	}
	defer release()

	if s.authenticated {
		return &AlreadyLoggedIn{}
	}

	resp, err := s.doShort(fmt.Sprintf("AUTHINFO USER %s", user))
	if err != nil {
		return err
	}

	switch resp.Code {
	case 281:
		// success without a password
	case 381:
		if password == "" {
			return &ReplyError{Command: "AUTHINFO USER", Code: resp.Code, Text: resp.Text, Raw: resp.Raw, Want: []int{281}}
		}
		passResp, err := s.doShort(fmt.Sprintf("AUTHINFO PASS %s", password))
		if err != nil {
			return err
		}
		if passResp.Code != 281 {
			return &Permanent{Command: "AUTHINFO PASS", Code: passResp.Code, Text: passResp.Text, Raw: passResp.Raw}
		}
	default:
		return classifyFailure("AUTHINFO USER", resp, []int{281, 381})
	}

	s.authenticated = true
	s.invalidateCapabilities()
	if err := s.reloadCapabilities(); err != nil {
		return err
	}
	if s.readermodeAfterAuth && !s.caps.Has("READER") {
		if err := s.modeReader(); err != nil {
			return err
		}
	}
	return nil
}

// StartTLS negotiates an in-band upgrade of the existing plaintext
// connection to TLS. It refuses if TLS is already active or the session
// has already authenticated (most servers refuse post-auth
// renegotiation, and the wire state for a partially-upgraded stream is
// never recoverable, so the client does not try).
func (s *Session) StartTLS() error {
	release, err := s.enter()
	if err != nil {
		return err
	}
	defer release()

	if s.tlsOn {
		return &TLSAlreadyEnabled{}
	}
	if s.authenticated {
		return &TLSForbiddenAfterAuth{}
	}

	resp, err := s.doShort("STARTTLS")
	if err != nil {
		return err
	}
	if resp.Code != 382 {
		return classifyFailure("STARTTLS", resp, []int{382})
	}

	tlsConfig := cloneTLSConfig(s.cfg.TLSConfig, s.cfg.Host)
	if err := s.transport.UpgradeTLS(normalizeSNIHost(s.cfg.Host), tlsConfig); err != nil {
		s.fail()
		return err
	}

	s.tlsOn = true
	s.invalidateCapabilities()
	return s.reloadCapabilities()
}

// Quit sends QUIT and closes the transport regardless of the server's
// reply: any error reading the QUIT response is suppressed on the close
// path.
func (s *Session) Quit() error {
	release, err := s.enter()
	if err != nil {
		if _, ok := err.(*NotConnected); ok {
			return nil
		}
		return err
	}
	defer release()

	_, _ = s.doShort("QUIT")
	s.connected = false
	return s.transport.Close()
}

// Close closes the transport unconditionally. It is safe to call
// repeatedly and safe to call instead of, or in addition to, Quit.
func (s *Session) Close() error {
	s.connected = false
	if s.transport == nil {
		return nil
	}
	return s.transport.Close()
}
