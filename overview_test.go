package nntp

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOverviewFormatLinesDefault(t *testing.T) {
	lines := []string{
		"Subject:",
		"From:",
		"Date:",
		"Message-ID:",
		"References:",
		"Bytes:",
		"Lines:",
	}
	format, err := ParseOverviewFormatLines(lines)
	require.NoError(t, err)
	assert.Equal(t, defaultOverviewFields, format.Fields)
}

func TestParseOverviewFormatLinesColonMetadataAndExtension(t *testing.T) {
	lines := []string{
		"Subject:",
		"From:",
		"Date:",
		"Message-ID:",
		"References:",
		":bytes",
		":lines",
		"Xref:full",
	}
	format, err := ParseOverviewFormatLines(lines)
	require.NoError(t, err)
	require.Len(t, format.Fields, 8)
	assert.Equal(t, "xref", format.Fields[7])
}

func TestParseOverviewFormatLinesTooShort(t *testing.T) {
	_, err := ParseOverviewFormatLines([]string{"Subject:", "From:"})
	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, ReasonOverviewFmtInvalid, dataErr.Reason)
}

func TestParseOverviewFormatLinesWrongPrefix(t *testing.T) {
	lines := []string{
		"From:", // out of order
		"Subject:",
		"Date:",
		"Message-ID:",
		"References:",
		"Bytes:",
		"Lines:",
	}
	_, err := ParseOverviewFormatLines(lines)
	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, ReasonOverviewFmtInvalid, dataErr.Reason)
}

func TestParseOverviewRecordsWithXrefExtension(t *testing.T) {
	format, err := ParseOverviewFormatLines([]string{
		"Subject:",
		"From:",
		"Date:",
		"Message-ID:",
		"References:",
		"Bytes:",
		"Lines:",
		"Xref:full",
	})
	require.NoError(t, err)

	line := "42\tHello world\tme@example.com\tdate\t<1@x>\t\t1234\t56\tXref: news.example misc.test:42"
	records, err := ParseOverviewRecords([]string{line}, format, nil)
	require.NoError(t, err)
	require.Len(t, records, 1)

	rec := records[0]
	assert.Equal(t, int64(42), rec.Number)
	assert.Equal(t, "Hello world", rec.Fields["subject"])
	assert.Equal(t, "1234", rec.Fields[":bytes"])
	assert.Equal(t, "news.example misc.test:42", rec.Fields["xref"])
}

func TestParseOverviewRecordsMissingHeaderPrefix(t *testing.T) {
	format, err := ParseOverviewFormatLines([]string{
		"Subject:",
		"From:",
		"Date:",
		"Message-ID:",
		"References:",
		"Bytes:",
		"Lines:",
		"Xref:full",
	})
	require.NoError(t, err)

	line := "42\tHello\tme@example.com\tdate\t<1@x>\t\t1234\t56\tnews.example misc.test:42"
	_, err = ParseOverviewRecords([]string{line}, format, nil)
	var dataErr *DataError
	require.ErrorAs(t, err, &dataErr)
	assert.Equal(t, ReasonOverMissingHeaderKey, dataErr.Reason)
}

func TestParseOverviewRecordsAppliesDecoder(t *testing.T) {
	format, err := ParseOverviewFormatLines([]string{
		"Subject:",
		"From:",
		"Date:",
		"Message-ID:",
		"References:",
		"Bytes:",
		"Lines:",
		"Xref:full",
	})
	require.NoError(t, err)

	decode := func(raw string) string { return "DECODED:" + raw }
	line := "1\ts\tf\td\t<1@x>\t\t1\t1\tXref: raw-value"
	records, err := ParseOverviewRecords([]string{line}, format, decode)
	require.NoError(t, err)
	assert.Equal(t, "DECODED:raw-value", records[0].Fields["xref"])
}

func TestParseOverviewRecordsSkipsBlankLines(t *testing.T) {
	format := DefaultOverviewFormat()
	lines := []string{
		"1\ts\tf\td\t<1@x>\t\t1\t1",
		"",
		"2\ts2\tf2\td2\t<2@x>\t\t2\t2",
	}
	records, err := ParseOverviewRecords(lines, format, nil)
	require.NoError(t, err)
	assert.Len(t, records, 2)
}
