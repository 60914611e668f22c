package state

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSmootherNeedsThreePoints(t *testing.T) {
	var s Smoother
	s.Start(Pointer{X: 10, Y: 10})
	_, ok := s.Add(Pointer{X: 20, Y: 10})
	assert.False(t, ok)

	seg, ok := s.Add(Pointer{X: 30, Y: 10})
	require.True(t, ok)
	assert.Equal(t, Segment{
		Begin:   Pointer{X: 10, Y: 10},
		Control: Pointer{X: 20, Y: 10},
		End:     Pointer{X: 25, Y: 10},
	}, seg)
	assert.Equal(t, seg.End, s.Anchor())
}

func TestSmootherMidpointsAndContinuity(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var s Smoother
	pts := []Pointer{{X: rng.Float64() * 600, Y: rng.Float64() * 300}}
	s.Start(pts[0])

	prevEnd := pts[0]
	for i := 1; i < 200; i++ {
		p := Pointer{X: rng.Float64() * 600, Y: rng.Float64() * 300}
		pts = append(pts, p)
		seg, ok := s.Add(p)
		if len(pts) < 3 {
			assert.False(t, ok)
			continue
		}
		require.True(t, ok)
		last2, last := pts[len(pts)-2], pts[len(pts)-1]
		assert.Equal(t, last2, seg.Control)
		assert.InDelta(t, (last2.X+last.X)/2, seg.End.X, 1e-9)
		assert.InDelta(t, (last2.Y+last.Y)/2, seg.End.Y, 1e-9)
		assert.Equal(t, prevEnd, seg.Begin)
		prevEnd = seg.End
	}
	assert.Equal(t, 200, s.Len())

	s.Reset()
	assert.Zero(t, s.Len())
}

func TestParseStyle(t *testing.T) {
	c, err := ParseLineCap("Square")
	require.NoError(t, err)
	assert.Equal(t, CapSquare, c)
	_, err = ParseLineCap("triangle")
	assert.Error(t, err)

	j, err := ParseLineJoin("bevel")
	require.NoError(t, err)
	assert.Equal(t, JoinBevel, j)
	_, err = ParseLineJoin("miter")
	assert.Error(t, err)

	sh, err := ParseEraseShape("circle")
	require.NoError(t, err)
	assert.Equal(t, EraseCircle, sh)
}
