package domain

import "math"

type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

func (p Point) Dist(q Point) float64 {
	return math.Hypot(p.X-q.X, p.Y-q.Y)
}

// Arena is the logical play field. Spawns stay Margin away from the edges.
type Arena struct {
	Width  float64
	Height float64
	Margin float64
}

func (a Arena) Center() Point {
	return Point{X: a.Width / 2, Y: a.Height / 2}
}

func (a Arena) Clamp(p Point) Point {
	return Point{X: clamp(p.X, 0, a.Width), Y: clamp(p.Y, 0, a.Height)}
}

func (a Arena) Valid() bool {
	return a.Width > 2*a.Margin && a.Height > 2*a.Margin && a.Margin >= 0
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
