// pkg/physics/vector.go
package physics

import "math"

// Vector2D represents a 2D vector with x and y components
type Vector2D struct {
	X float64
	Y float64
}

// Add returns the sum of two vectors
func (v Vector2D) Add(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X + other.X,
		Y: v.Y + other.Y,
	}
}

// Sub returns the difference between two vectors
func (v Vector2D) Sub(other Vector2D) Vector2D {
	return Vector2D{
		X: v.X - other.X,
		Y: v.Y - other.Y,
	}
}

// Scale multiplies the vector by a scalar value
func (v Vector2D) Scale(factor float64) Vector2D {
	return Vector2D{
		X: v.X * factor,
		Y: v.Y * factor,
	}
}

// Length returns the magnitude of the vector
func (v Vector2D) Length() float64 {
	return math.Hypot(v.X, v.Y)
}

// Normalize returns a unit vector in the same direction
func (v Vector2D) Normalize() Vector2D {
	length := v.Length()
	if length == 0 {
		return Vector2D{}
	}
	return Vector2D{
		X: v.X / length,
		Y: v.Y / length,
	}
}

// Distance returns the distance between two vectors
func (v Vector2D) Distance(other Vector2D) float64 {
	return v.Sub(other).Length()
}

// Dot returns the dot product of two vectors
func (v Vector2D) Dot(other Vector2D) float64 {
	return v.X*other.X + v.Y*other.Y
}

// Rotate rotates the vector by angle (in radians)
func (v Vector2D) Rotate(angle float64) Vector2D {
	cos := math.Cos(angle)
	sin := math.Sin(angle)
	return Vector2D{
		X: v.X*cos - v.Y*sin,
		Y: v.X*sin + v.Y*cos,
	}
}

// Heading returns the displacement of one step of the given length along a
// screen heading. Angle 0 points up (negative Y) and grows clockwise.
func Heading(angle, length float64) Vector2D {
	return Vector2D{
		X: math.Sin(angle) * length,
		Y: -math.Cos(angle) * length,
	}
}

// Round returns the nearest integer point.
func (v Vector2D) Round() Point {
	return Point{X: int(math.Round(v.X)), Y: int(math.Round(v.Y))}
}

// BoundsAround returns the smallest integer area covering a box of the given
// half extents centred on v.
func BoundsAround(v Vector2D, halfWidth, halfHeight float64) Area {
	return Area{
		TopLeft: Point{
			X: int(math.Floor(v.X - halfWidth)),
			Y: int(math.Floor(v.Y - halfHeight)),
		},
		BottomRight: Point{
			X: int(math.Ceil(v.X + halfWidth)),
			Y: int(math.Ceil(v.Y + halfHeight)),
		},
	}
}
