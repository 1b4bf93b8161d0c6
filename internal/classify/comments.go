package classify

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/jward/tincture/internal/style"
)

// Label is a comment prefix that gives the whole comment a style.
type Label struct {
	Text string
	Tag  style.Tag
	// IgnoreCase matches Text case-insensitively.
	IgnoreCase bool
	// AllowPunctuation lets the label be followed directly by punctuation,
	// as in "TODO: ship it".
	AllowPunctuation bool
}

// LabelSet is an immutable set of labels, longest first.
type LabelSet struct {
	labels []Label
}

// NewLabelSet copies labels and orders them for matching. Labels with an
// empty Text or an invalid Tag are ignored.
func NewLabelSet(labels []Label) *LabelSet {
	out := make([]Label, 0, len(labels))
	for _, l := range labels {
		if l.Text == "" || !l.Tag.Valid() {
			continue
		}
		out = append(out, l)
	}
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].Text) > len(out[j].Text) })
	return &LabelSet{labels: out}
}

// DefaultLabels returns the built-in comment labels.
func DefaultLabels() *LabelSet {
	return NewLabelSet([]Label{
		{Text: "!", Tag: style.Emphasis},
		{Text: "#", Tag: style.Emphasis},
		{Text: "?", Tag: style.Question},
		{Text: "!?", Tag: style.Exclamation},
		{Text: "x", Tag: style.Deletion, IgnoreCase: true},
		{Text: "+++", Tag: style.Heading1},
		{Text: "!!", Tag: style.Heading1},
		{Text: "++", Tag: style.Heading2},
		{Text: "+", Tag: style.Heading3},
		{Text: "-", Tag: style.Heading4},
		{Text: "--", Tag: style.Heading5},
		{Text: "---", Tag: style.Heading6},
		{Text: "TODO", Tag: style.ToDo, IgnoreCase: true, AllowPunctuation: true},
		{Text: "TO-DO", Tag: style.ToDo, IgnoreCase: true, AllowPunctuation: true},
		{Text: "undone", Tag: style.ToDo, IgnoreCase: true, AllowPunctuation: true},
		{Text: "NOTE", Tag: style.Note, IgnoreCase: true, AllowPunctuation: true},
		{Text: "HACK", Tag: style.Hack, IgnoreCase: true, AllowPunctuation: true},
	})
}

// Len returns the number of labels.
func (s *LabelSet) Len() int {
	if s == nil {
		return 0
	}
	return len(s.labels)
}

// Labels returns a copy of the labels in match order.
func (s *LabelSet) Labels() []Label {
	if s == nil {
		return nil
	}
	return append([]Label(nil), s.labels...)
}

// Match returns the tag of the longest label the comment text starts with.
func (s *LabelSet) Match(comment string) (style.Tag, bool) {
	if s == nil {
		return 0, false
	}
	content := commentContent(comment)
	for _, l := range s.labels {
		if l.matches(content) {
			return l.Tag, true
		}
	}
	return 0, false
}

func (l Label) matches(content string) bool {
	if len(content) < len(l.Text) {
		return false
	}
	head := content[:len(l.Text)]
	if l.IgnoreCase {
		if !strings.EqualFold(head, l.Text) {
			return false
		}
	} else if head != l.Text {
		return false
	}
	last, _ := utf8.DecodeLastRuneInString(l.Text)
	if !isWordRune(last) {
		return true
	}
	next, size := utf8.DecodeRuneInString(content[len(l.Text):])
	if size == 0 || unicode.IsSpace(next) {
		return true
	}
	if isWordRune(next) {
		return false
	}
	return l.AllowPunctuation
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

// commentContent strips the comment delimiters and leading blanks.
func commentContent(text string) string {
	switch {
	case strings.HasPrefix(text, "//"):
		text = text[2:]
	case strings.HasPrefix(text, "/*"):
		text = strings.TrimSuffix(text[2:], "*/")
	}
	return strings.TrimLeftFunc(text, unicode.IsSpace)
}

// LabelSource yields the comment labels for one call.
type LabelSource interface {
	Labels() *LabelSet
}

type staticLabels struct{ set *LabelSet }

func (s staticLabels) Labels() *LabelSet { return s.set }
