// pkg/physics/collision.go
package physics

import "math"

// Circle represents a circular collision shape
type Circle struct {
	Center Vector2D
	Radius float64
}

// Collides checks if two circles are colliding
func (c Circle) Collides(other Circle) bool {
	return c.Center.Distance(other.Center) < c.Radius+other.Radius
}

// Bounds returns the integer bounding box of the circle.
func (c Circle) Bounds() Area {
	return BoundsAround(c.Center, c.Radius, c.Radius)
}

// OrientedRect is a rectangle of the given size rotated by Angle around its
// center. Angle uses the same screen convention as Heading.
type OrientedRect struct {
	Center Vector2D
	Width  float64
	Height float64
	Angle  float64
}

// Bounds returns the integer axis-aligned box enclosing the rotated rectangle.
func (r OrientedRect) Bounds() Area {
	sin := math.Abs(math.Sin(r.Angle))
	cos := math.Abs(math.Cos(r.Angle))
	halfW := (r.Width*cos + r.Height*sin) / 2
	halfH := (r.Width*sin + r.Height*cos) / 2
	// Drop floating noise from sin/cos so right angles give exact boxes.
	halfW = math.Round(halfW*1e6) / 1e6
	halfH = math.Round(halfH*1e6) / 1e6
	return BoundsAround(r.Center, halfW, halfH)
}

// IntersectsCircle reports whether the rectangle and the circle share area.
// The circle center is moved into the rectangle's local frame and clamped to
// the rectangle to find the closest point.
func (r OrientedRect) IntersectsCircle(c Circle) bool {
	local := c.Center.Sub(r.Center).Rotate(-r.Angle)
	halfW := r.Width / 2
	halfH := r.Height / 2
	closest := Vector2D{
		X: math.Max(-halfW, math.Min(halfW, local.X)),
		Y: math.Max(-halfH, math.Min(halfH, local.Y)),
	}
	return local.Sub(closest).Length() < c.Radius
}

// SphereMass returns the mass of a sphere of the given radius with unit
// density, π·r³/3.
func SphereMass(radius float64) float64 {
	return math.Pi * radius * radius * radius / 3
}

// SphereRadius is the inverse of SphereMass.
func SphereRadius(mass float64) float64 {
	return math.Cbrt(3 * mass / math.Pi)
}

// ElasticSpeeds returns the post-impact speeds of two bodies in a
// one-dimensional elastic collision. Momentum m1·v1 + m2·v2 is preserved.
func ElasticSpeeds(m1, v1, m2, v2 float64) (float64, float64) {
	total := m1 + m2
	if total == 0 {
		return v1, v2
	}
	u1 := (v1*(m1-m2) + 2*m2*v2) / total
	u2 := (v2*(m2-m1) + 2*m1*v1) / total
	return u1, u2
}
