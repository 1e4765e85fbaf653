package nntp

import "strconv"

// ArticleRefKind distinguishes the three ways an article may be
// addressed on the wire.
type ArticleRefKind int

const (
	// RefCurrent addresses the currently selected article in the group;
	// it contributes no argument to the command line.
	RefCurrent ArticleRefKind = iota
	// RefNumber addresses an article by its number within the currently
	// selected group.
	RefNumber
	// RefMessageID addresses an article by its global message-id.
	RefMessageID
)

// ArticleRef is the tagged variant commands like HEAD/BODY/ARTICLE/
// STAT/OVER accept in place of the dynamically-typed argument the
// reference implementations use.
type ArticleRef struct {
	kind   ArticleRefKind
	number int64
	id     string
}

// Current addresses the currently selected article.
func Current() ArticleRef { return ArticleRef{kind: RefCurrent} }

// Number addresses an article by number in the selected group.
func Number(n int64) ArticleRef { return ArticleRef{kind: RefNumber, number: n} }

// MessageID addresses an article by message-id. id should include the
// surrounding angle brackets; if it doesn't, they are added.
func MessageID(id string) ArticleRef {
	if len(id) == 0 || id[0] != '<' {
		id = "<" + id
	}
	if id[len(id)-1] != '>' {
		id = id + ">"
	}
	return ArticleRef{kind: RefMessageID, id: id}
}

// arg renders the reference as a command argument, or "" for RefCurrent.
func (r ArticleRef) arg() string {
	switch r.kind {
	case RefNumber:
		return strconv.FormatInt(r.number, 10)
	case RefMessageID:
		return r.id
	default:
		return ""
	}
}

// Range is a start-end article number range, as accepted by OVER/XOVER/
// HDR's range form. End of 0 means "to the end of the group"
// (conventionally rendered "<start>-").
type Range struct {
	Start int64
	End   int64
}

func (r Range) arg() string {
	if r.End == 0 {
		return strconv.FormatInt(r.Start, 10) + "-"
	}
	return strconv.FormatInt(r.Start, 10) + "-" + strconv.FormatInt(r.End, 10)
}
