package nntp

// Kind is the broad classification of a response's status code, per the
// first digit (plus the well-known long-response-code set for 2xx/1xx).
type Kind int

const (
	KindInformational Kind = iota
	KindSuccess
	KindContinuation
	KindTemporary
	KindPermanent
)

// longResponseCodes is the well-known set of status codes that carry a
// multi-line payload.
var longResponseCodes = map[int]bool{
	100: true,
	101: true,
	211: true, // only valid as a long response after LISTGROUP
	215: true,
	220: true,
	221: true,
	222: true,
	224: true,
	225: true,
	230: true,
	231: true,
	282: true,
}

// IsLongResponse reports whether code is in the well-known long-response
// set.
func IsLongResponse(code int) bool {
	return longResponseCodes[code]
}

// Response is a classified reply: the parsed status code, the remainder
// of the first line, the kind it falls into, and the raw first line for
// error reporting.
type Response struct {
	Code int
	Text string
	Kind Kind
	Raw  string
}

// Classify parses a response's first line. line must not include its
// CRLF terminator (the framer already stripped it). A line shorter than
// 3 characters, whose first three bytes are not ASCII digits, or whose
// fourth byte (if any) is not a space, is a ProtocolViolation.
func Classify(line string) (Response, error) {
	if len(line) < 3 {
		return Response{}, &ProtocolViolation{Reason: ReasonBadStatus, Detail: line}
	}
	for i := 0; i < 3; i++ {
		if line[i] < '0' || line[i] > '9' {
			return Response{}, &ProtocolViolation{Reason: ReasonBadStatus, Detail: line}
		}
	}
	if len(line) > 3 && line[3] != ' ' {
		return Response{}, &ProtocolViolation{Reason: ReasonBadStatus, Detail: line}
	}
	code := int(line[0]-'0')*100 + int(line[1]-'0')*10 + int(line[2]-'0')
	text := ""
	if len(line) > 4 {
		text = line[4:]
	}

	var kind Kind
	switch code / 100 {
	case 1:
		kind = KindInformational
	case 2:
		kind = KindSuccess
	case 3:
		kind = KindContinuation
	case 4:
		kind = KindTemporary
	case 5:
		kind = KindPermanent
	default:
		return Response{}, &ProtocolViolation{Reason: ReasonBadStatus, Detail: line}
	}

	return Response{Code: code, Text: text, Kind: kind, Raw: line}, nil
}
