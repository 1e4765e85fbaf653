package nntp

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"
)

// GroupResp is the parsed reply to a GROUP command.
type GroupResp struct {
	Raw   string
	Count int64
	First int64
	Last  int64
	Name  string
}

// Group selects name as the current group.
func (s *Session) Group(name string) (*GroupResp, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	resp, err := s.doShort(fmt.Sprintf("GROUP %s", name), 211)
	if err != nil {
		return nil, err
	}
	return parseGroupLine(resp)
}

func parseGroupLine(resp Response) (*GroupResp, error) {
	fields := strings.Fields(resp.Text)
	if len(fields) < 4 {
		return nil, &ReplyError{Command: "GROUP", Code: resp.Code, Text: resp.Text, Raw: resp.Raw}
	}
	count, err1 := strconv.ParseInt(fields[0], 10, 64)
	first, err2 := strconv.ParseInt(fields[1], 10, 64)
	last, err3 := strconv.ParseInt(fields[2], 10, 64)
	if err1 != nil || err2 != nil || err3 != nil {
		return nil, &ReplyError{Command: "GROUP", Code: resp.Code, Text: resp.Text, Raw: resp.Raw}
	}
	return &GroupResp{
		Raw:   resp.Raw,
		Count: count,
		First: first,
		Last:  last,
		Name:  strings.ToLower(fields[3]),
	}, nil
}

// StatResp is the parsed reply to STAT/NEXT/LAST.
type StatResp struct {
	ArticleNumber int64
	MessageID     string
}

func (s *Session) nextLastStat(verb string, ref ArticleRef) (*StatResp, error) {
	cmd := verb
	if arg := ref.arg(); arg != "" {
		cmd = verb + " " + arg
	}
	resp, err := s.doShort(cmd, 223)
	if err != nil {
		return nil, err
	}
	fields := strings.Fields(resp.Text)
	if len(fields) < 2 {
		return nil, &ReplyError{Command: verb, Code: resp.Code, Text: resp.Text, Raw: resp.Raw}
	}
	number, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return nil, &ReplyError{Command: verb, Code: resp.Code, Text: resp.Text, Raw: resp.Raw}
	}
	return &StatResp{ArticleNumber: number, MessageID: fields[1]}, nil
}

// Stat looks up ref without changing the currently selected article.
func (s *Session) Stat(ref ArticleRef) (*StatResp, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return s.nextLastStat("STAT", ref)
}

// Next selects the next article in the group.
func (s *Session) Next() (*StatResp, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return s.nextLastStat("NEXT", Current())
}

// Last selects the previous article in the group.
func (s *Session) Last() (*StatResp, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()
	return s.nextLastStat("LAST", Current())
}

// HeaderField is one "Name: value" pair from an article's headers, in
// wire order (duplicates are preserved as separate entries, since RFC
// 3977 says nothing about their equivalence to a single comma-joined
// value).
type HeaderField struct {
	Name  string
	Value string
}

// Article is a full article: its headers in wire order, plus its body
// lines.
type Article struct {
	ArticleNumber int64
	MessageID     string
	Headers       []HeaderField
	Body          []string
}

// Head fetches only the headers of ref.
func (s *Session) Head(ref ArticleRef) (*Article, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	cmd := "HEAD"
	if arg := ref.arg(); arg != "" {
		cmd += " " + arg
	}
	resp, payload, err := s.doLong(cmd, 221)
	if err != nil {
		return nil, err
	}
	number, msgid, err := parseArticleStatusLine(resp)
	if err != nil {
		return nil, err
	}
	headers, err := parseHeaderLines(payload, s.decoder)
	if err != nil {
		return nil, err
	}
	return &Article{ArticleNumber: number, MessageID: msgid, Headers: headers}, nil
}

// Body fetches only the body of ref.
func (s *Session) Body(ref ArticleRef) (*Article, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	cmd := "BODY"
	if arg := ref.arg(); arg != "" {
		cmd += " " + arg
	}
	resp, payload, err := s.doLong(cmd, 222)
	if err != nil {
		return nil, err
	}
	number, msgid, err := parseArticleStatusLine(resp)
	if err != nil {
		return nil, err
	}
	return &Article{ArticleNumber: number, MessageID: msgid, Body: payload}, nil
}

// ArticleFull fetches headers and body together via ARTICLE.
func (s *Session) ArticleFull(ref ArticleRef) (*Article, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	cmd := "ARTICLE"
	if arg := ref.arg(); arg != "" {
		cmd += " " + arg
	}
	resp, payload, err := s.doLong(cmd, 220)
	if err != nil {
		return nil, err
	}
	number, msgid, err := parseArticleStatusLine(resp)
	if err != nil {
		return nil, err
	}

	split := len(payload)
	for i, line := range payload {
		if line == "" {
			split = i
			break
		}
	}
	headers, err := parseHeaderLines(payload[:split], s.decoder)
	if err != nil {
		return nil, err
	}
	var body []string
	if split < len(payload) {
		body = payload[split+1:]
	}
	return &Article{ArticleNumber: number, MessageID: msgid, Headers: headers, Body: body}, nil
}

func parseArticleStatusLine(resp Response) (int64, string, error) {
	fields := strings.Fields(resp.Text)
	if len(fields) < 2 {
		return 0, "", &ReplyError{Code: resp.Code, Text: resp.Text, Raw: resp.Raw}
	}
	number, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, "", &ReplyError{Code: resp.Code, Text: resp.Text, Raw: resp.Raw}
	}
	return number, fields[1], nil
}

// parseHeaderLines parses "Name: value" lines, folding continuation
// lines (those beginning with a space or tab) into the previous value.
// decode, if non-nil, post-processes each assembled value (e.g. RFC 2047
// MIME decoded-word decoding).
func parseHeaderLines(lines []string, decode HeaderDecoder) ([]HeaderField, error) {
	var headers []HeaderField
	for _, line := range lines {
		if len(line) == 0 {
			continue
		}
		if (line[0] == ' ' || line[0] == '\t') && len(headers) > 0 {
			headers[len(headers)-1].Value += " " + strings.TrimSpace(line)
			continue
		}
		idx := strings.Index(line, ":")
		if idx < 0 {
			return nil, &ProtocolViolation{Reason: ReasonBadStatus, Detail: "malformed header line: " + line}
		}
		name := line[:idx]
		value := strings.TrimLeft(line[idx+1:], " \t")
		headers = append(headers, HeaderField{Name: name, Value: value})
	}
	if decode != nil {
		for i := range headers {
			headers[i].Value = decode(headers[i].Value)
		}
	}
	return headers, nil
}

// List issues LIST, optionally with a keyword (e.g. "ACTIVE",
// "NEWSGROUPS", "OVERVIEW.FMT") and a wildmat pattern. Both keyword and
// pattern may be empty.
func (s *Session) List(keyword, pattern string) ([]string, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	cmd := "LIST"
	if keyword != "" {
		cmd += " " + keyword
		if pattern != "" {
			cmd += " " + pattern
		}
	}
	_, payload, err := s.doLong(cmd, 215)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// GroupTitle is one "<name> <title>" line from XGTITLE.
type GroupTitle struct {
	Name  string
	Title string
}

// XGTitle returns newsgroup descriptions matching pattern.
func (s *Session) XGTitle(pattern string) ([]GroupTitle, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	cmd := "XGTITLE"
	if pattern != "" {
		cmd += " " + pattern
	}
	_, payload, err := s.doLong(cmd, 215)
	if err != nil {
		return nil, err
	}
	titles := make([]GroupTitle, 0, len(payload))
	for _, line := range payload {
		name, title, _ := strings.Cut(line, " ")
		titles = append(titles, GroupTitle{Name: name, Title: title})
	}
	return titles, nil
}

// GroupInfo is one group line from LIST ACTIVE or NEWGROUPS.
type GroupInfo struct {
	Name string
	High int64
	Low  int64
}

// NewGroups returns the groups created since t.
func (s *Session) NewGroups(since time.Time) ([]GroupInfo, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	cmd := fmt.Sprintf("NEWGROUPS %s GMT", FormatNewsTime(since))
	_, payload, err := s.doLong(cmd, 231)
	if err != nil {
		return nil, err
	}
	return parseGroupInfoLines(payload)
}

func parseGroupInfoLines(lines []string) ([]GroupInfo, error) {
	out := make([]GroupInfo, 0, len(lines))
	for _, line := range lines {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			return nil, &ReplyError{Raw: line}
		}
		high, err1 := strconv.ParseInt(fields[1], 10, 64)
		low, err2 := strconv.ParseInt(fields[2], 10, 64)
		if err1 != nil || err2 != nil {
			return nil, &ReplyError{Raw: line}
		}
		out = append(out, GroupInfo{Name: fields[0], High: high, Low: low})
	}
	return out, nil
}

// NewNews returns the deduplicated, sorted message-ids of articles
// posted to group since t.
func (s *Session) NewNews(group string, since time.Time) ([]string, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	cmd := fmt.Sprintf("NEWNEWS %s %s GMT", group, FormatNewsTime(since))
	_, payload, err := s.doLong(cmd, 230)
	if err != nil {
		return nil, err
	}
	return dedupeSorted(payload), nil
}

func dedupeSorted(lines []string) []string {
	seen := make(map[string]struct{}, len(lines))
	out := make([]string, 0, len(lines))
	for _, l := range lines {
		if _, ok := seen[l]; ok {
			continue
		}
		seen[l] = struct{}{}
		out = append(out, l)
	}
	sort.Strings(out)
	return out
}

// HeaderLine is one "<article-number> <value>" line from XHDR/HDR. If
// the line could not be split this way, Number is 0 and Raw holds the
// line verbatim.
type HeaderLine struct {
	Number int64
	Value  string
	Raw    string
}

func (s *Session) hdr(verb, header, rangeOrRef string, code int) ([]HeaderLine, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	cmd := verb + " " + header
	if rangeOrRef != "" {
		cmd += " " + rangeOrRef
	}
	_, payload, err := s.doLong(cmd, code)
	if err != nil {
		return nil, err
	}
	out := make([]HeaderLine, 0, len(payload))
	for _, line := range payload {
		numStr, value, ok := strings.Cut(line, " ")
		if !ok {
			out = append(out, HeaderLine{Raw: line})
			continue
		}
		num, err := strconv.ParseInt(numStr, 10, 64)
		if err != nil {
			out = append(out, HeaderLine{Raw: line})
			continue
		}
		out = append(out, HeaderLine{Number: num, Value: value})
	}
	return out, nil
}

// XHdr retrieves the given header across rangeOrRef (an article number
// range like "1-100", a single number, a message-id, or "").
func (s *Session) XHdr(header, rangeOrRef string) ([]HeaderLine, error) {
	return s.hdr("XHDR", header, rangeOrRef, 221)
}

// Hdr is the RFC 3977-native equivalent of XHdr.
func (s *Session) Hdr(header, rangeOrRef string) ([]HeaderLine, error) {
	return s.hdr("HDR", header, rangeOrRef, 225)
}

// ensureOverviewFormat returns the cached overview descriptor, querying
// LIST OVERVIEW.FMT and validating it on first use. A query failure (any
// non-215 reply, or a transport/data error) falls back to the canonical
// default descriptor, which is then cached exactly as a successful
// negotiation would be — subsequent OVER/XOVER calls never re-query.
func (s *Session) ensureOverviewFormat() *OverviewFormat {
	if s.overviewFmt != nil {
		return s.overviewFmt
	}
	_, payload, err := s.doLong("LIST OVERVIEW.FMT", 215)
	if err != nil {
		s.overviewFmt = DefaultOverviewFormat()
		return s.overviewFmt
	}
	format, err := ParseOverviewFormatLines(payload)
	if err != nil {
		s.overviewFmt = DefaultOverviewFormat()
		return s.overviewFmt
	}
	s.overviewFmt = format
	return s.overviewFmt
}

// Over retrieves overview records for rng, preferring OVER when the
// server advertises it and falling back to XOVER otherwise — and
// permanently thereafter, once an OVER attempt has been rejected with a
// ReplyError in this session.
func (s *Session) Over(rng Range) ([]OverviewRecord, error) {
	return s.over(rng.arg())
}

// OverArticle retrieves the overview record for a single article
// reference (or the current article, if ref is Current()).
func (s *Session) OverArticle(ref ArticleRef) ([]OverviewRecord, error) {
	return s.over(ref.arg())
}

func (s *Session) over(arg string) ([]OverviewRecord, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	format := s.ensureOverviewFormat()

	verb := "XOVER"
	if s.caps.Has("OVER") && !s.quirks.overFailed {
		verb = "OVER"
	}
	cmd := verb
	if arg != "" {
		cmd += " " + arg
	}
	_, payload, err := s.doLong(cmd, 224)
	if err != nil {
		if verb == "OVER" {
			if _, ok := err.(*ReplyError); ok {
				s.quirks.overFailed = true
			}
		}
		return nil, err
	}
	return ParseOverviewRecords(payload, format, s.decoder)
}

// Post streams lines as a new article. Each line is dot-stuffed as
// needed; the terminator is appended automatically. Post fails with
// ReplyError if the server's continuation reply to POST is not a 3xx.
func (s *Session) Post(lines []string) error {
	release, err := s.enter()
	if err != nil {
		return err
	}
	defer release()

	resp, err := s.doShort("POST")
	if err != nil {
		return err
	}
	if resp.Kind != KindContinuation {
		return &ReplyError{Command: "POST", Code: resp.Code, Text: resp.Text, Raw: resp.Raw, Want: []int{340}}
	}

	if err := s.streamBody(lines); err != nil {
		return err
	}

	final, err := s.doShort(".", 240)
	if err != nil {
		return err
	}
	_ = final
	return nil
}

// IHave offers messageID for transfer and streams lines as its body.
// IHave's continuation code is 335 (distinct from POST's 340); a
// successful transfer ends in 235.
func (s *Session) IHave(messageID string, lines []string) error {
	release, err := s.enter()
	if err != nil {
		return err
	}
	defer release()

	resp, err := s.doShort(fmt.Sprintf("IHAVE %s", messageID), 335)
	if err != nil {
		return err
	}
	_ = resp

	if err := s.streamBody(lines); err != nil {
		return err
	}

	_, err = s.doShort(".", 235)
	return err
}

// streamBody writes lines CRLF-terminated (adding a trailing CRLF to any
// line that lacks one) and dot-stuffed, without the final terminator —
// callers send that themselves as a distinct command so its reply can
// be read through the normal doShort path.
func (s *Session) streamBody(lines []string) error {
	for _, line := range lines {
		line = strings.TrimRight(line, "\r\n")
		if err := s.transport.WriteLine(stuffLine(line)); err != nil {
			s.fail()
			return err
		}
	}
	return nil
}

// Date returns the server's current time, as reported by DATE. Session
// state is untouched by a DataError here: the session remains usable
// even if the server's clock string was malformed.
func (s *Session) Date() (time.Time, error) {
	release, err := s.enter()
	if err != nil {
		return time.Time{}, err
	}
	defer release()

	resp, err := s.doShort("DATE", 111)
	if err != nil {
		return time.Time{}, err
	}
	return ParseDATE(strings.TrimSpace(resp.Text))
}

// Help returns the server's free-form help text.
func (s *Session) Help() ([]string, error) {
	release, err := s.enter()
	if err != nil {
		return nil, err
	}
	defer release()

	_, payload, err := s.doLong("HELP", 100)
	if err != nil {
		return nil, err
	}
	return payload, nil
}

// Slave informs the server this connection is a slave, historically
// used to de-prioritize it relative to "master" feed connections.
func (s *Session) Slave() error {
	release, err := s.enter()
	if err != nil {
		return err
	}
	defer release()

	_, err = s.doShort("SLAVE", 202)
	return err
}
