// Package geometry converts between positions on the dial and angles, and
// between angles and the seconds they represent. It holds no state.
//
// Angles are in degrees, 0 <= angle < 360, starting at 12 o'clock and growing
// in the dial's Direction. Points use the view's local coordinate space with
// y growing downwards; the circle always sits flush against the top-left
// corner of its bounding box, so its center is (radius, radius).
package geometry

import (
	"errors"
	"fmt"
	"math"
	"strings"
)

const (
	// SecondsPerDial is the duration represented by one full turn.
	SecondsPerDial = 60 * 60

	// DegreesPerTick is how far the arc moves for one second of countdown.
	DegreesPerTick = 360.0 / SecondsPerDial

	degenerateEpsilon = 1e-9
)

var (
	// ErrDegenerate is returned when an angle is requested for the center
	// itself, where the ray to the point has no length.
	ErrDegenerate = errors.New("point coincides with circle center")

	// ErrInvalidRadius is returned for a radius that is not a positive finite number.
	ErrInvalidRadius = errors.New("radius must be positive and finite")
)

// Direction is the way the angle grows when moving away from 12 o'clock.
type Direction int

const (
	Clockwise Direction = iota
	CounterClockwise
)

func (d Direction) String() string {
	if d == CounterClockwise {
		return "counterclockwise"
	}
	return "clockwise"
}

// ParseDirection accepts "clockwise"/"cw" and "counterclockwise"/"ccw".
// An empty string yields Clockwise.
func ParseDirection(s string) (Direction, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "clockwise", "cw":
		return Clockwise, nil
	case "counterclockwise", "counter-clockwise", "ccw":
		return CounterClockwise, nil
	}
	return Clockwise, fmt.Errorf("unknown dial direction %q", s)
}

// Point is a position in the dial's local coordinate space.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{X: x, Y: y}.
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func distance(a, b Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

// Circle is the immutable dial shape.
type Circle struct {
	radius    float64
	direction Direction
}

// NewCircle creates a circle of the given radius.
func NewCircle(radius float64, direction Direction) (Circle, error) {
	if radius <= 0 || math.IsNaN(radius) || math.IsInf(radius, 0) {
		return Circle{}, fmt.Errorf("%w: %v", ErrInvalidRadius, radius)
	}
	return Circle{radius: radius, direction: direction}, nil
}

func (c Circle) Radius() float64 {
	return c.radius
}

func (c Circle) Direction() Direction {
	return c.direction
}

// Center is always (radius, radius).
func (c Circle) Center() Point {
	return Point{X: c.radius, Y: c.radius}
}

// Top is the 12 o'clock point on the boundary.
func (c Circle) Top() Point {
	return Point{X: c.radius, Y: 0}
}

// Contains reports whether p lies inside the circle's bounding square,
// edges included.
func (c Circle) Contains(p Point) bool {
	center := c.Center()
	return p.X >= center.X-c.radius && p.X <= center.X+c.radius &&
		p.Y >= center.Y-c.radius && p.Y <= center.Y+c.radius
}

// PointToAngle returns the dial angle of the ray from the center to p.
//
// The unsigned angle between 12 o'clock and p comes from the law of cosines on
// the triangle (center, top, p); points on the half behind 12 o'clock are then
// reflected so the angle covers the full turn.
func (c Circle) PointToAngle(p Point) (float64, error) {
	center := c.Center()
	toPoint := distance(center, p)
	if toPoint < degenerateEpsilon || math.IsNaN(toPoint) {
		return 0, ErrDegenerate
	}
	toTop := c.radius
	topToPoint := distance(c.Top(), p)

	cos := (toTop*toTop + toPoint*toPoint - topToPoint*topToPoint) / (2 * toTop * toPoint)
	// rounding can push the ratio just outside acos' domain
	cos = math.Max(-1, math.Min(1, cos))
	angle := math.Acos(cos) * 180 / math.Pi

	if c.reflects(p) {
		angle = 360 - angle
	}
	if angle >= 360 {
		angle -= 360
	}
	return angle, nil
}

func (c Circle) reflects(p Point) bool {
	if c.direction == CounterClockwise {
		return p.X > c.radius
	}
	return p.X < c.radius
}

// AngleToPoint returns the point on the boundary at the given dial angle.
func (c Circle) AngleToPoint(angle float64) Point {
	sin, cos := math.Sincos(angle * math.Pi / 180)
	if c.direction == CounterClockwise {
		sin = -sin
	}
	center := c.Center()
	return Point{
		X: center.X + c.radius*sin,
		Y: center.Y - c.radius*cos,
	}
}

// SecondsForAngle converts an angle to whole seconds: one tenth of a degree
// is one second, so a full turn is an hour.
func SecondsForAngle(angle float64) int {
	s := int(math.Round(angle / DegreesPerTick))
	if s < 0 {
		return 0
	}
	if s > SecondsPerDial {
		return SecondsPerDial
	}
	return s
}

// AngleForSeconds is the inverse of SecondsForAngle.
func AngleForSeconds(seconds int) float64 {
	return float64(seconds) * DegreesPerTick
}
