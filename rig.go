package rig

import "math"

// DefaultLayer is the name of the layer every Composer is created with.
// Layer-scoped calls that should address "the" layer pass this constant.
const DefaultLayer = "Default"

// Vec2 is a 2D vector used for translations and scale pairs throughout the API.
type Vec2 struct {
	X, Y float64
}

// Lerp returns the linear interpolation between v and other at weight w.
// w=0 yields v, w=1 yields other. w is not clamped.
func (v Vec2) Lerp(other Vec2, w float64) Vec2 {
	return Vec2{
		X: v.X + (other.X-v.X)*w,
		Y: v.Y + (other.Y-v.Y)*w,
	}
}

// Transform is a 2D TRS transform: translation, rotation (radians, clockwise
// with Y down), and per-axis scale. It is the unit of pose data, one
// Transform per joint.
type Transform struct {
	X, Y     float64 // translation
	Rotation float64 // radians
	ScaleX   float64 // horizontal scale (1 = unscaled)
	ScaleY   float64 // vertical scale (1 = unscaled)
}

// IdentityTransform is the no-op transform.
var IdentityTransform = Transform{ScaleX: 1, ScaleY: 1}

// Lerp returns the component-wise interpolation between t and other at
// weight w. Rotation interpolates along the shortest arc, so blending
// 350° with 10° passes through 0° rather than sweeping backwards.
func (t Transform) Lerp(other Transform, w float64) Transform {
	return Transform{
		X:        lerp(t.X, other.X, w),
		Y:        lerp(t.Y, other.Y, w),
		Rotation: lerpAngle(t.Rotation, other.Rotation, w),
		ScaleX:   lerp(t.ScaleX, other.ScaleX, w),
		ScaleY:   lerp(t.ScaleY, other.ScaleY, w),
	}
}

func lerp(a, b, w float64) float64 {
	return a + (b-a)*w
}

// lerpAngle interpolates between two angles along the shortest arc.
func lerpAngle(a, b, w float64) float64 {
	d := math.Mod(b-a, 2*math.Pi)
	if d > math.Pi {
		d -= 2 * math.Pi
	}
	if d < -math.Pi {
		d += 2 * math.Pi
	}
	return a + d*w
}

// floorMod reduces t into [0, length) using floored modulo, so negative
// input wraps up from the end rather than mirroring around zero.
// length must be positive.
func floorMod(t, length float64) float64 {
	r := math.Mod(t, length)
	if r < 0 {
		r += length
	}
	return r
}
