package span

import "fmt"

// Span is a half-open byte range [Start, End) into the original component
// source. Every node in the template tree carries one so diagnostics can
// point back at the source without the tree holding the source itself.
type Span struct {
	Start int
	End   int
}

func New(start, end int) Span {
	return Span{Start: start, End: end}
}

// Empty returns a zero-width span at the given offset.
func Empty(offset int) Span {
	return Span{Start: offset, End: offset}
}

func (s Span) Len() int {
	return s.End - s.Start
}

func (s Span) IsEmpty() bool {
	return s.End <= s.Start
}

// Contains reports whether the byte offset falls inside the span.
func (s Span) Contains(offset int) bool {
	return offset >= s.Start && offset < s.End
}

// Text slices the span out of the source it was produced from.
func (s Span) Text(source string) string {
	if s.Start < 0 || s.End > len(source) || s.IsEmpty() {
		return ""
	}
	return source[s.Start:s.End]
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}

type Place struct {
	Line      int
	Character int
}

type Range struct {
	Start Place
	End   Place
}

// LineColumn calculates the zero-based line and column for a byte offset.
func LineColumn(source string, offset int) (line, col int) {
	if offset <= 0 {
		return 0, 0
	}
	if offset > len(source) {
		offset = len(source)
	}
	lastNewline := -1
	for i := 0; i < offset; i++ {
		if source[i] == '\n' {
			line++
			lastNewline = i
		}
	}
	col = offset - lastNewline - 1
	return line, col
}

// GetRange resolves both ends of the span against the source text.
func (s Span) GetRange(source string) Range {
	startLine, startCol := LineColumn(source, s.Start)
	endLine, endCol := LineColumn(source, s.End)
	return Range{
		Start: Place{Line: startLine, Character: startCol},
		End:   Place{Line: endLine, Character: endCol},
	}
}
