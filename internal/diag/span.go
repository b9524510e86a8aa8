package diag

import "fmt"

// Span is a half-open byte range [Start, End) into the sheet document a
// diagnostic refers to. The zero Span means "location unknown".
type Span struct {
	Start uint32
	End   uint32
}

// IsZero reports whether the span carries no location.
func (s Span) IsZero() bool {
	return s.Start == 0 && s.End == 0
}

func (s Span) Len() uint32 {
	if s.End <= s.Start {
		return 0
	}
	return s.End - s.Start
}

func (s Span) String() string {
	return fmt.Sprintf("%d..%d", s.Start, s.End)
}
