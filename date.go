package nntp

import (
	"strconv"
	"time"
)

// timeFormatNew is the wire format for NEWGROUPS/NEWNEWS date+time
// arguments the client emits: a four-digit year, always.
const timeFormatNew = "20060102 150405"

// timeFormatDate is the wire format of a DATE command's reply: 14 digits,
// no separators.
const timeFormatDate = "20060102150405"

// FormatNewsTime renders t for use as a NEWGROUPS/NEWNEWS argument. The
// client always emits a four-digit year; it never produces the legacy
// two-digit form.
func FormatNewsTime(t time.Time) string {
	return t.UTC().Format(timeFormatNew)
}

// ParseNewsTime parses a NEWGROUPS/NEWNEWS-shaped date+time argument as
// produced by a server. Both the modern "YYYYMMDD HHMMSS" form and the
// legacy "YYMMDD HHMMSS" form are accepted on input; years below 70 map
// to 20yy, years 70-99 map to 19yy.
func ParseNewsTime(s string) (time.Time, error) {
	if t, err := time.Parse(timeFormatNew, s); err == nil {
		return t, nil
	}
	// Legacy six-digit date form: "YYMMDD HHMMSS".
	if len(s) < 6 {
		return time.Time{}, &ProtocolViolation{Reason: ReasonBadStatus, Detail: "malformed news time: " + s}
	}
	yy, err := strconv.Atoi(s[0:2])
	if err != nil {
		return time.Time{}, &ProtocolViolation{Reason: ReasonBadStatus, Detail: "malformed news time: " + s}
	}
	year := twoDigitYear(yy)
	fixed := strconv.Itoa(year) + s[2:]
	t, err := time.Parse(timeFormatNew, fixed)
	if err != nil {
		return time.Time{}, &ProtocolViolation{Reason: ReasonBadStatus, Detail: "malformed news time: " + s}
	}
	return t, nil
}

// twoDigitYear applies the NNTP legacy year-rollover rule: values below
// 70 are 20yy, values 70 through 99 are 19yy.
func twoDigitYear(yy int) int {
	if yy < 70 {
		return 2000 + yy
	}
	return 1900 + yy
}

// ParseDATE parses the reply to a DATE command, which must be exactly 14
// ASCII digits ("YYYYMMDDHHMMSS"). Any deviation is a DataError.
func ParseDATE(text string) (time.Time, error) {
	if len(text) != 14 {
		return time.Time{}, &DataError{Reason: ReasonBadDate, Detail: text}
	}
	for _, c := range text {
		if c < '0' || c > '9' {
			return time.Time{}, &DataError{Reason: ReasonBadDate, Detail: text}
		}
	}
	t, err := time.Parse(timeFormatDate, text)
	if err != nil {
		return time.Time{}, &DataError{Reason: ReasonBadDate, Detail: text}
	}
	return t, nil
}

// FormatDATE renders t in the DATE reply wire format. Provided for
// symmetry/testing; the client never sends this as a request argument.
func FormatDATE(t time.Time) string {
	return t.UTC().Format(timeFormatDate)
}
