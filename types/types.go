package types

import (
	"fmt"
)

type Position struct {
	Line     int
	Column   int
	Filename string
}

type Span struct {
	From Position
	To   Position
}

func (p Position) String() string {
	if p.Filename == "" {
		p.Filename = "<unknown>"
	}
	return fmt.Sprintf("%s:%d:%d", p.Filename, p.Line, p.Column)
}

func (s Span) String() string {
	if s.To == (Position{}) || s.To == s.From {
		return s.From.String()
	}
	return fmt.Sprintf("%s-%d:%d", s.From, s.To.Line, s.To.Column)
}

func (s Span) IsZero() bool {
	return s == Span{}
}

func SingleCharSpan(p Position) Span {
	return Span{p, p}
}
