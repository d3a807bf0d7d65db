package core

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"
)

// WorldUp is the up axis the camera basis is built against.
var WorldUp = mgl32.Vec3{0, 1, 0}

// BuildCamera derives the ray-generation basis of a pinhole camera at origin
// looking at target. fov is the vertical field of view in radians.
//
// The basis is right-handed: the camera looks down -forward, Horizontal points
// to camera-right and LowerLeft is the corner a kernel reaches at (u, v) = (0, 0)
// with direction = LowerLeft + u*Horizontal - v*Vertical - Origin, v growing
// downward. A view parallel to WorldUp has no defined right axis and yields NaNs.
func BuildCamera(origin, target mgl32.Vec3, fov, aspect float32) Camera {
	viewportHeight := 2.0 * float32(math.Tan(float64(fov)*0.5))
	viewportWidth := aspect * viewportHeight

	forward := origin.Sub(target).Normalize()
	right := WorldUp.Cross(forward).Normalize()
	up := forward.Cross(right)

	horizontal := right.Mul(viewportWidth)
	vertical := up.Mul(viewportHeight)

	lowerLeft := origin.
		Sub(horizontal.Mul(0.5)).
		Add(vertical.Mul(0.5)).
		Sub(forward)

	return Camera{
		Origin:     origin,
		Horizontal: horizontal,
		Vertical:   vertical,
		LowerLeft:  lowerLeft,
	}
}

// Forward recovers the unit vector from the view target toward the eye.
func (c Camera) Forward() mgl32.Vec3 {
	center := c.LowerLeft.Add(c.Horizontal.Mul(0.5)).Sub(c.Vertical.Mul(0.5))
	return c.Origin.Sub(center).Normalize()
}

// Direction returns the (unnormalized) ray direction for normalized pixel
// coordinates u, v in [0, 1].
func (c Camera) Direction(u, v float32) mgl32.Vec3 {
	return c.LowerLeft.
		Add(c.Horizontal.Mul(u)).
		Sub(c.Vertical.Mul(v)).
		Sub(c.Origin)
}
