package geometry

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const tolerance = 1e-6

type geometryTestSuite struct {
	suite.Suite
	assert *assert.Assertions
	circle Circle
}

func (suite *geometryTestSuite) SetupTest() {
	suite.assert = assert.New(suite.T())
	c, err := NewCircle(150, Clockwise)
	require.NoError(suite.T(), err)
	suite.circle = c
}

// boundary returns the clockwise point at deg degrees from 12 o'clock.
func boundary(c Circle, deg float64) Point {
	sin, cos := math.Sincos(deg * math.Pi / 180)
	r := c.Radius()
	return Pt(r+r*sin, r-r*cos)
}

func (suite *geometryTestSuite) TestNewCircle() {
	suite.assert.Equal(Pt(150, 150), suite.circle.Center())
	suite.assert.Equal(Pt(150, 0), suite.circle.Top())

	for _, r := range []float64{0, -1, math.NaN(), math.Inf(1)} {
		_, err := NewCircle(r, Clockwise)
		suite.assert.ErrorIs(err, ErrInvalidRadius, "radius %v", r)
	}
}

func (suite *geometryTestSuite) TestContains() {
	suite.assert.True(suite.circle.Contains(Pt(0, 0)))
	suite.assert.True(suite.circle.Contains(Pt(300, 300)))
	suite.assert.True(suite.circle.Contains(Pt(150, 150)))
	suite.assert.False(suite.circle.Contains(Pt(-0.1, 10)))
	suite.assert.False(suite.circle.Contains(Pt(10, 300.5)))
}

func (suite *geometryTestSuite) TestCardinalAngles() {
	cases := map[Point]float64{
		Pt(150, 0):   0,
		Pt(300, 150): 90,
		Pt(150, 300): 180,
		Pt(0, 150):   270,
	}
	for p, want := range cases {
		got, err := suite.circle.PointToAngle(p)
		suite.assert.NoError(err)
		suite.assert.InDelta(want, got, tolerance, "point %v", p)
	}
}

func (suite *geometryTestSuite) TestInteriorPointsUseRayAngle() {
	got, err := suite.circle.PointToAngle(Pt(200, 150))
	suite.assert.NoError(err)
	suite.assert.InDelta(90, got, tolerance)

	got, err = suite.circle.PointToAngle(Pt(100, 100))
	suite.assert.NoError(err)
	suite.assert.InDelta(315, got, tolerance)
}

func (suite *geometryTestSuite) TestCenterIsDegenerate() {
	_, err := suite.circle.PointToAngle(suite.circle.Center())
	suite.assert.ErrorIs(err, ErrDegenerate)
}

func (suite *geometryTestSuite) TestRoundTrip() {
	for deg := 0.5; deg < 360; deg += 7.25 {
		p := boundary(suite.circle, deg)
		angle, err := suite.circle.PointToAngle(p)
		suite.assert.NoError(err)
		back := suite.circle.AngleToPoint(angle)
		suite.assert.InDelta(p.X, back.X, tolerance, "deg %v", deg)
		suite.assert.InDelta(p.Y, back.Y, tolerance, "deg %v", deg)
	}
}

func (suite *geometryTestSuite) TestMonotonicClockwise() {
	prev := -1.0
	for deg := 0.0; deg < 360; deg += 0.5 {
		angle, err := suite.circle.PointToAngle(boundary(suite.circle, deg))
		suite.assert.NoError(err)
		suite.assert.GreaterOrEqual(angle, prev, "deg %v", deg)
		prev = angle
	}
}

func (suite *geometryTestSuite) TestCounterClockwiseMirrors() {
	ccw, err := NewCircle(150, CounterClockwise)
	suite.assert.NoError(err)

	left, err := ccw.PointToAngle(Pt(0, 150))
	suite.assert.NoError(err)
	suite.assert.InDelta(90, left, tolerance)

	right, err := ccw.PointToAngle(Pt(300, 150))
	suite.assert.NoError(err)
	suite.assert.InDelta(270, right, tolerance)

	p := ccw.AngleToPoint(90)
	suite.assert.InDelta(0, p.X, tolerance)
	suite.assert.InDelta(150, p.Y, tolerance)
}

func (suite *geometryTestSuite) TestSecondsScale() {
	suite.assert.Equal(900, SecondsForAngle(90))
	suite.assert.Equal(3600, SecondsForAngle(360))
	suite.assert.Equal(0, SecondsForAngle(0))
	suite.assert.Equal(5, SecondsForAngle(0.5))
	suite.assert.Equal(0, SecondsForAngle(-3))
	suite.assert.InDelta(90.0, AngleForSeconds(900), tolerance)
	suite.assert.InDelta(DegreesPerTick, AngleForSeconds(1), tolerance)
}

func (suite *geometryTestSuite) TestTwelveOClockConvention() {
	angle, err := suite.circle.PointToAngle(suite.circle.Top())
	suite.assert.NoError(err)
	suite.assert.Equal(0, SecondsForAngle(angle))

	// a hair before 12 o'clock is a full hour
	angle, err = suite.circle.PointToAngle(Pt(149.99, 0))
	suite.assert.NoError(err)
	suite.assert.Equal(SecondsPerDial, SecondsForAngle(angle))
}

func (suite *geometryTestSuite) TestParseDirection() {
	d, err := ParseDirection("CCW")
	suite.assert.NoError(err)
	suite.assert.Equal(CounterClockwise, d)

	d, err = ParseDirection("")
	suite.assert.NoError(err)
	suite.assert.Equal(Clockwise, d)

	_, err = ParseDirection("sideways")
	suite.assert.Error(err)
}

func TestGeometryTestSuite(t *testing.T) {
	suite.Run(t, new(geometryTestSuite))
}
