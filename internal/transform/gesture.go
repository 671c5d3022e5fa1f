package transform

import "math"

const (
	MinScale = 0.5
	MaxScale = 3.0
)

// Gesture accumulates pinch, rotate and pan input for the displayed image.
// Only scale and rotation are baked on save.
type Gesture struct {
	Scale    float64
	Rotation float64
	PanX     float64
	PanY     float64
}

func NewGesture() Gesture {
	return Gesture{Scale: 1}
}

// Pinch multiplies the scale by factor unless the result would leave [MinScale, MaxScale].
func (g *Gesture) Pinch(factor float64) bool {
	next := g.Scale * factor
	if !(next >= MinScale && next <= MaxScale) {
		return false
	}
	g.Scale = next
	return true
}

// Rotate adds radians, keeping the total within (-2π, 2π).
func (g *Gesture) Rotate(radians float64) {
	g.Rotation = math.Mod(g.Rotation+radians, 2*math.Pi)
}

func (g *Gesture) Pan(dx, dy float64) {
	g.PanX += dx
	g.PanY += dy
}

func (g *Gesture) Reset() {
	*g = NewGesture()
}

// Degrees returns the rotation in degrees for display.
func (g Gesture) Degrees() float64 {
	return g.Rotation * 180 / math.Pi
}
