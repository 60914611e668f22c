package state

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/fogleman/gg"
)

// LineCap is the shape drawn at the ends of a stroke.
type LineCap int

const (
	CapRound LineCap = iota
	CapButt
	CapSquare
)

func (c LineCap) gg() gg.LineCap {
	switch c {
	case CapButt:
		return gg.LineCapButt
	case CapSquare:
		return gg.LineCapSquare
	}
	return gg.LineCapRound
}

func (c LineCap) String() string {
	switch c {
	case CapButt:
		return "butt"
	case CapSquare:
		return "square"
	}
	return "round"
}

// ParseLineCap accepts round, butt and square.
func ParseLineCap(s string) (LineCap, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "round", "":
		return CapRound, nil
	case "butt":
		return CapButt, nil
	case "square":
		return CapSquare, nil
	}
	return CapRound, fmt.Errorf("unknown line cap %q", s)
}

// LineJoin is the shape drawn where curve segments meet.
type LineJoin int

const (
	JoinRound LineJoin = iota
	JoinBevel
)

func (j LineJoin) gg() gg.LineJoin {
	if j == JoinBevel {
		return gg.LineJoinBevel
	}
	return gg.LineJoinRound
}

func (j LineJoin) String() string {
	if j == JoinBevel {
		return "bevel"
	}
	return "round"
}

// ParseLineJoin accepts round and bevel.
func ParseLineJoin(s string) (LineJoin, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "round", "":
		return JoinRound, nil
	case "bevel":
		return JoinBevel, nil
	}
	return JoinRound, fmt.Errorf("unknown line join %q", s)
}

// StrokeStyle describes how brush segments are rendered.
type StrokeStyle struct {
	Color     color.Color
	LineWidth float64
	LineCap   LineCap
	LineJoin  LineJoin
}

// Segment is one smoothed piece of a stroke: a quadratic curve from Begin
// through Control to End.
type Segment struct {
	Begin, Control, End Pointer
}

// Smoother turns sampled pointers into quadratic segments that meet at the
// midpoints between samples instead of at the samples themselves.
type Smoother struct {
	path  []Pointer
	begin Pointer
}

// Start resets the path to p and anchors the next segment there.
func (s *Smoother) Start(p Pointer) {
	s.path = append(s.path[:0], p)
	s.begin = p
}

// Add records p. Once three or more points are recorded it returns the
// segment ending at the midpoint of the last two and advances the anchor.
func (s *Smoother) Add(p Pointer) (Segment, bool) {
	s.path = append(s.path, p)
	n := len(s.path)
	if n < 3 {
		return Segment{}, false
	}
	control, last := s.path[n-2], s.path[n-1]
	seg := Segment{Begin: s.begin, Control: control, End: control.Mid(last)}
	s.begin = seg.End
	return seg, true
}

// Anchor returns the start of the next segment.
func (s *Smoother) Anchor() Pointer { return s.begin }

// Len returns the number of recorded points.
func (s *Smoother) Len() int { return len(s.path) }

// Reset forgets the path.
func (s *Smoother) Reset() {
	s.path = s.path[:0]
	s.begin = Pointer{}
}
