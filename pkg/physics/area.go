// pkg/physics/area.go
package physics

// Point is an integer position in world pixels.
type Point struct {
	X int
	Y int
}

// Add returns the component-wise sum of two points.
func (p Point) Add(other Point) Point {
	return Point{X: p.X + other.X, Y: p.Y + other.Y}
}

// Div floor-divides both coordinates by divider.
func (p Point) Div(divider int) Point {
	return Point{X: floorDiv(p.X, divider), Y: floorDiv(p.Y, divider)}
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}

// Area is an axis-aligned rectangle given by its top-left and bottom-right
// corners. Both edges are inclusive.
type Area struct {
	TopLeft     Point
	BottomRight Point
}

// NewArea builds an area from two opposite corners in any order.
func NewArea(a, b Point) Area {
	if a.X > b.X {
		a.X, b.X = b.X, a.X
	}
	if a.Y > b.Y {
		a.Y, b.Y = b.Y, a.Y
	}
	return Area{TopLeft: a, BottomRight: b}
}

// Width returns the horizontal extent of the area.
func (a Area) Width() int {
	return a.BottomRight.X - a.TopLeft.X
}

// Height returns the vertical extent of the area.
func (a Area) Height() int {
	return a.BottomRight.Y - a.TopLeft.Y
}

// Empty reports whether the area has no extent on either axis.
func (a Area) Empty() bool {
	return a.Width() <= 0 || a.Height() <= 0
}

// Contains reports whether p lies inside the area, edges included.
func (a Area) Contains(p Point) bool {
	return p.X >= a.TopLeft.X &&
		p.Y >= a.TopLeft.Y &&
		p.X <= a.BottomRight.X &&
		p.Y <= a.BottomRight.Y
}

// Overlaps reports whether two areas share at least one point, edges included.
func (a Area) Overlaps(other Area) bool {
	return a.TopLeft.X <= other.BottomRight.X &&
		other.TopLeft.X <= a.BottomRight.X &&
		a.TopLeft.Y <= other.BottomRight.Y &&
		other.TopLeft.Y <= a.BottomRight.Y
}

// Quadrants splits the area into four children by floor-bisecting its width
// and height. Order: top-left, top-right, bottom-left, bottom-right.
// Neighbouring quadrants share their boundary row and column.
func (a Area) Quadrants() [4]Area {
	tl := a.TopLeft
	halfW := a.Width() / 2
	halfH := a.Height() / 2
	midX := tl.X + halfW
	midY := tl.Y + halfH

	return [4]Area{
		{TopLeft: tl, BottomRight: Point{X: midX, Y: midY}},
		{TopLeft: Point{X: midX, Y: tl.Y}, BottomRight: Point{X: a.BottomRight.X, Y: midY}},
		{TopLeft: Point{X: tl.X, Y: midY}, BottomRight: Point{X: midX, Y: a.BottomRight.Y}},
		{TopLeft: Point{X: midX, Y: midY}, BottomRight: a.BottomRight},
	}
}

// Center returns the midpoint of the area.
func (a Area) Center() Point {
	return Point{
		X: a.TopLeft.X + a.Width()/2,
		Y: a.TopLeft.Y + a.Height()/2,
	}
}
