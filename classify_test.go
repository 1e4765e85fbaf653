package nntp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassifyStatusLineRoundTrip(t *testing.T) {
	cases := []struct {
		line string
		code int
		text string
		kind Kind
	}{
		{"200 hello there", 200, "hello there", KindSuccess},
		{"101 Capability list:", 101, "Capability list:", KindInformational},
		{"340 send article", 340, "send article", KindContinuation},
		{"411 no such group", 411, "no such group", KindTemporary},
		{"500 unknown command", 500, "unknown command", KindPermanent},
		{"211", 211, "", KindSuccess},
	}

	for _, tc := range cases {
		resp, err := Classify(tc.line)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.code, resp.Code, tc.line)
		assert.Equal(t, tc.text, resp.Text, tc.line)
		assert.Equal(t, tc.kind, resp.Kind, tc.line)
		assert.Equal(t, tc.line, resp.Raw, tc.line)
	}
}

func TestClassifyBadStatus(t *testing.T) {
	cases := []string{
		"",
		"20",
		"abc hello",
		"2x0 hello",
		"999 out of range",
	}

	for _, line := range cases {
		_, err := Classify(line)
		var pv *ProtocolViolation
		require.ErrorAsf(t, err, &pv, "line %q", line)
		assert.Equal(t, ReasonBadStatus, pv.Reason, "line %q", line)
	}
}

func TestIsLongResponse(t *testing.T) {
	assert.True(t, IsLongResponse(224))
	assert.True(t, IsLongResponse(101))
	assert.False(t, IsLongResponse(200))
	assert.False(t, IsLongResponse(240))
}
