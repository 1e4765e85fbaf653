package nntp

import (
	"strconv"
	"strings"
)

// Capabilities is the parsed result of a CAPABILITIES response: a
// mapping from capability name (uppercased token) to its ordered
// attribute list.
type Capabilities map[string][]string

// ParseCapabilities parses the payload lines of a CAPABILITIES reply.
// Each line's first token is the capability name; the rest are its
// attributes. Unrecognized capabilities are preserved verbatim.
func ParseCapabilities(lines []string) Capabilities {
	caps := make(Capabilities, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		name := strings.ToUpper(fields[0])
		caps[name] = append([]string{}, fields[1:]...)
	}
	return caps
}

// Has reports whether name was advertised.
func (c Capabilities) Has(name string) bool {
	_, ok := c[strings.ToUpper(name)]
	return ok
}

// Version returns the integer advertised by the VERSION capability, or 1
// (the RFC 3977 default) if absent or unparseable.
func (c Capabilities) Version() int {
	attrs, ok := c["VERSION"]
	if !ok || len(attrs) == 0 {
		return 1
	}
	v, err := strconv.Atoi(attrs[0])
	if err != nil {
		return 1
	}
	return v
}

// Implementation returns the free-form IMPLEMENTATION string, or "" if
// the server did not advertise one.
func (c Capabilities) Implementation() string {
	attrs, ok := c["IMPLEMENTATION"]
	if !ok {
		return ""
	}
	return strings.Join(attrs, " ")
}
