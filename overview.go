package nntp

import (
	"strconv"
	"strings"
)

// defaultOverviewFields are the canonical seven fields every overview
// format descriptor's prefix must match, case-insensitively. A leading
// ":" marks a server-synthesized metadatum; its absence marks a header.
var defaultOverviewFields = []string{
	"subject", "from", "date", "message-id", "references", ":bytes", ":lines",
}

// overviewAliases maps the bare (uncolonned) spellings servers
// sometimes use for the metadata fields onto their canonical colon form.
var overviewAliases = map[string]string{
	"bytes": ":bytes",
	"lines": ":lines",
}

// OverviewFormat is an ordered list of field names describing how to
// interpret the tab-delimited records OVER/XOVER return. The first
// seven entries always equal defaultOverviewFields.
type OverviewFormat struct {
	Fields []string
}

// DefaultOverviewFormat returns the canonical seven-field descriptor,
// used whenever LIST OVERVIEW.FMT is unavailable or fails.
func DefaultOverviewFormat() *OverviewFormat {
	fields := make([]string, len(defaultOverviewFields))
	copy(fields, defaultOverviewFields)
	return &OverviewFormat{Fields: fields}
}

// normalizeOverviewFieldName implements the per-line normalization of
// the LIST OVERVIEW.FMT negotiation: trim trailing whitespace, split the
// metadatum/header name out of the raw "name:flags" token, lowercase it,
// and apply the bytes/lines aliases.
func normalizeOverviewFieldName(raw string) string {
	raw = strings.TrimRight(raw, " \t\r\n")
	var name string
	if strings.HasPrefix(raw, ":") {
		rest := raw[1:]
		if idx := strings.Index(rest, ":"); idx >= 0 {
			name = ":" + rest[:idx]
		} else {
			name = ":" + rest
		}
	} else {
		if idx := strings.Index(raw, ":"); idx >= 0 {
			name = raw[:idx]
		} else {
			name = raw
		}
	}
	name = strings.ToLower(name)
	if alias, ok := overviewAliases[name]; ok {
		return alias
	}
	return name
}

// ParseOverviewFormatLines validates and normalizes a LIST OVERVIEW.FMT
// reply's payload lines into an OverviewFormat. The first seven
// normalized entries must equal defaultOverviewFields; anything short of
// that, or fewer than seven lines, is a DataError.
func ParseOverviewFormatLines(lines []string) (*OverviewFormat, error) {
	if len(lines) < 7 {
		return nil, &DataError{Reason: ReasonOverviewFmtInvalid, Detail: "fewer than 7 fields"}
	}
	fields := make([]string, len(lines))
	for i, line := range lines {
		fields[i] = normalizeOverviewFieldName(line)
	}
	for i, want := range defaultOverviewFields {
		if fields[i] != want {
			return nil, &DataError{
				Reason: ReasonOverviewFmtInvalid,
				Detail: "field " + strconv.Itoa(i) + " is " + fields[i] + ", want " + want,
			}
		}
	}
	return &OverviewFormat{Fields: fields}, nil
}

// OverviewRecord is one parsed OVER/XOVER line: the article number and a
// map from normalized field name to its value.
type OverviewRecord struct {
	Number int64
	Fields map[string]string
}

// isMetadatum reports whether a normalized field name is a
// server-synthesized metadatum (leading colon) rather than a header.
func isMetadatum(name string) bool {
	return strings.HasPrefix(name, ":")
}

// ParseOverviewRecords parses the tab-delimited payload of an OVER/XOVER
// response according to format. Extension fields (index >= 7) that are
// headers, not metadata, must carry a "<field-name>: " prefix on their
// value (case-insensitive); the prefix is stripped. A missing prefix is
// a DataError. Trailing empty lines are skipped.
func ParseOverviewRecords(lines []string, format *OverviewFormat, decode HeaderDecoder) ([]OverviewRecord, error) {
	var records []OverviewRecord
	for _, line := range lines {
		if line == "" {
			continue
		}
		parts := strings.Split(line, "\t")
		number, err := strconv.ParseInt(parts[0], 10, 64)
		if err != nil {
			return nil, &DataError{Reason: ReasonOverviewFmtInvalid, Detail: "bad article number in: " + line}
		}
		rec := OverviewRecord{Number: number, Fields: make(map[string]string, len(format.Fields))}
		for i, name := range format.Fields {
			valueIdx := i + 1
			if valueIdx >= len(parts) {
				break
			}
			value := parts[valueIdx]
			if i >= 7 && !isMetadatum(name) {
				prefix := name + ": "
				if len(value) < len(prefix) || !strings.EqualFold(value[:len(prefix)], prefix) {
					return nil, &DataError{Reason: ReasonOverMissingHeaderKey, Detail: name}
				}
				value = value[len(prefix):]
				if decode != nil {
					value = decode(value)
				}
			}
			rec.Fields[name] = value
		}
		records = append(records, rec)
	}
	return records, nil
}
