package nntp

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatNewsTimeAlwaysFourDigitYear(t *testing.T) {
	ref := time.Date(2024, time.March, 5, 1, 2, 3, 0, time.UTC)
	assert.Equal(t, "20240305 010203", FormatNewsTime(ref))
}

func TestParseNewsTimeModernForm(t *testing.T) {
	got, err := ParseNewsTime("20240305 010203")
	require.NoError(t, err)
	assert.True(t, time.Date(2024, time.March, 5, 1, 2, 3, 0, time.UTC).Equal(got))
}

func TestParseNewsTimeLegacyYearRollover(t *testing.T) {
	cases := []struct {
		in       string
		wantYear int
	}{
		{"690101 000000", 2069},
		{"700101 000000", 1970},
		{"000101 000000", 2000},
		{"990101 000000", 1999},
	}
	for _, tc := range cases {
		got, err := ParseNewsTime(tc.in)
		require.NoError(t, err, tc.in)
		assert.Equal(t, tc.wantYear, got.Year(), tc.in)
	}
}

func TestParseNewsTimeMalformed(t *testing.T) {
	_, err := ParseNewsTime("not-a-date")
	var pv *ProtocolViolation
	require.ErrorAs(t, err, &pv)
}

func TestParseDATERoundTrip(t *testing.T) {
	for year := 1970; year < 2070; year += 23 {
		ref := time.Date(year, time.June, 15, 12, 30, 45, 0, time.UTC)
		text := FormatDATE(ref)
		got, err := ParseDATE(text)
		require.NoError(t, err, text)
		assert.True(t, ref.Equal(got), text)
	}
}

func TestParseDATEStrictLength(t *testing.T) {
	cases := []string{
		"",
		"2024010100000",    // 13 digits
		"202401010000000",  // 15 digits
		"2024010a000000",   // non-digit
		"99999999999999",   // 14 digits, not a valid calendar date/time
	}
	for _, text := range cases {
		_, err := ParseDATE(text)
		var dataErr *DataError
		require.ErrorAsf(t, err, &dataErr, "text %q", text)
		assert.Equal(t, ReasonBadDate, dataErr.Reason, "text %q", text)
	}
}
