package nntp

import "time"

// doShort writes cmd, reads exactly one response line, classifies it,
// and checks the code against want. If want is empty any code is
// accepted (used by QUIT, whose reply is ignored on the close path).
func (s *Session) doShort(cmd string, want ...int) (Response, error) {
	start := time.Now()
	logCommand(cmd)
	if err := s.transport.WriteLine(cmd); err != nil {
		s.fail()
		return Response{}, err
	}
	line, err := s.transport.ReadLine()
	if err != nil {
		s.fail()
		return Response{}, err
	}
	resp, err := Classify(line)
	if err != nil {
		s.fail()
		return Response{}, err
	}
	logResponse(resp.Code, resp.Text, time.Since(start))
	if len(want) > 0 && !codeIn(resp.Code, want) {
		return resp, classifyFailure(commandName(cmd), resp, want)
	}
	return resp, nil
}

// doLong writes cmd, reads the response line, and — iff its code is in
// the well-known long-response set — reads the multi-line payload. If
// want is given the code must both be a long-response code and a member
// of want. If the code is not a long-response code, ReplyError(expected
// long response) is returned without attempting to read a payload.
func (s *Session) doLong(cmd string, want ...int) (Response, []string, error) {
	start := time.Now()
	logCommand(cmd)
	if err := s.transport.WriteLine(cmd); err != nil {
		s.fail()
		return Response{}, nil, err
	}
	line, err := s.transport.ReadLine()
	if err != nil {
		s.fail()
		return Response{}, nil, err
	}
	resp, err := Classify(line)
	if err != nil {
		s.fail()
		return Response{}, nil, err
	}
	logResponse(resp.Code, resp.Text, time.Since(start))

	if len(want) > 0 && !codeIn(resp.Code, want) {
		return resp, nil, classifyFailure(commandName(cmd), resp, want)
	}
	if !IsLongResponse(resp.Code) {
		return resp, nil, &ReplyError{Command: commandName(cmd), Code: resp.Code, Text: resp.Text, Raw: resp.Raw, Want: want}
	}

	payload, err := ReadMultiline(s.transport.Framer())
	if err != nil {
		// The wire cannot be resynchronized once a long response has
		// been interrupted mid-payload; the session is no longer usable.
		s.fail()
		return resp, nil, err
	}
	return resp, payload, nil
}

// fail marks the session unusable and releases the transport. It is
// called whenever a command's I/O fails in a way that leaves the stream
// state ambiguous (malformed line, timeout, interrupted long response).
func (s *Session) fail() {
	s.connected = false
	if s.transport != nil {
		s.transport.Close()
	}
}

func codeIn(code int, want []int) bool {
	for _, w := range want {
		if code == w {
			return true
		}
	}
	return false
}

// classifyFailure converts a code that failed its "want" check into the
// appropriate error kind: 4xx -> Temporary, 5xx -> Permanent, anything
// else -> ReplyError.
func classifyFailure(cmd string, resp Response, want []int) error {
	switch resp.Code / 100 {
	case 4:
		return &Temporary{Command: cmd, Code: resp.Code, Text: resp.Text, Raw: resp.Raw}
	case 5:
		return &Permanent{Command: cmd, Code: resp.Code, Text: resp.Text, Raw: resp.Raw}
	default:
		return &ReplyError{Command: cmd, Code: resp.Code, Text: resp.Text, Raw: resp.Raw, Want: want}
	}
}

// commandName extracts the verb from a full command line, for error
// reporting ("GROUP", not "GROUP misc.test").
func commandName(cmd string) string {
	for i, c := range cmd {
		if c == ' ' {
			return cmd[:i]
		}
	}
	return cmd
}
