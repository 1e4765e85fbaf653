package nntp

import (
	"sync"
)

// Session is the live, stateful handle a caller holds for one NNTP
// connection. It is single-owner: nothing about it is safe for
// concurrent use by more than one goroutine at a time. A second command
// started before the first's response has been fully read fails with
// CommandInProgress rather than being sent: no pipelining.
type Session struct {
	cfg Config

	transport *Transport
	banner    string

	caps Capabilities

	overviewFmt *OverviewFormat

	tlsOn               bool
	authenticated       bool
	readermodeAfterAuth bool
	connected           bool
	postAllowed         bool
	nntpVersion         int
	nntpImplementation  string

	decoder HeaderDecoder

	quirks struct {
		overFailed bool // OVER was tried and rejected; permanently prefer XOVER
	}

	busy sync.Mutex
}

// Connected reports whether the session is open. It is true from the
// moment Dial validates the welcome banner until Quit or Close runs, or
// until a failed read or write leaves the stream unusable.
func (s *Session) Connected() bool { return s.connected }

// TLSOn reports whether the transport is currently running over TLS.
func (s *Session) TLSOn() bool { return s.tlsOn }

// Authenticated reports whether AUTHINFO has succeeded this session.
func (s *Session) Authenticated() bool { return s.authenticated }

// Banner returns the welcome line captured at connect time.
func (s *Session) Banner() string { return s.banner }

// NNTPVersion returns the integer VERSION capability attribute, or the
// RFC 3977 default of 1 if the server never advertised one.
func (s *Session) NNTPVersion() int { return s.nntpVersion }

// NNTPImplementation returns the free-form IMPLEMENTATION capability
// string, or "" if absent.
func (s *Session) NNTPImplementation() string { return s.nntpImplementation }

// PostAllowed reports whether the welcome banner was 200 (posting
// allowed) as opposed to 201 (posting forbidden).
func (s *Session) PostAllowed() bool { return s.postAllowed }

// enter acquires the single-command guard. It never blocks: a command
// already in flight makes the second call fail immediately rather than
// queue, matching "ordering equals call ordering, no pipelining".
func (s *Session) enter() (func(), error) {
	if !s.connected {
		return nil, &NotConnected{}
	}
	if !s.busy.TryLock() {
		return nil, &CommandInProgress{}
	}
	return s.busy.Unlock, nil
}

// invalidateCapabilities drops the cached capability map. It is called
// after any command that can change what the server advertises:
// successful authentication, successful STARTTLS, successful MODE
// READER.
func (s *Session) invalidateCapabilities() {
	s.caps = nil
}

// reloadCapabilities re-issues CAPABILITIES and replaces the cache,
// updating the derived NNTP version/implementation fields.
func (s *Session) reloadCapabilities() error {
	resp, lines, err := s.doLong("CAPABILITIES", 101)
	if err != nil {
		return err
	}
	_ = resp
	s.caps = ParseCapabilities(lines)
	s.nntpVersion = s.caps.Version()
	s.nntpImplementation = s.caps.Implementation()
	return nil
}

// Capabilities returns the cached capability map, loading it first if
// the cache has been invalidated.
func (s *Session) Capabilities() (Capabilities, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	if s.caps == nil {
		if err := s.reloadCapabilities(); err != nil {
			return nil, err
		}
	}
	return s.caps, nil
}
