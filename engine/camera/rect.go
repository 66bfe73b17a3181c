package camera

import (
	"image"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Rect is a pixel rectangle with its origin at the bottom-left of the screen
// (y grows upward), the convention GPU viewports use.
type Rect struct {
	X, Y float64
	W, H float64
}

// Empty reports whether the rectangle has no area
func (r Rect) Empty() bool {
	return r.W <= 0 || r.H <= 0
}

// Contains reports whether (x, y) lies inside r (bottom-left convention)
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x < r.X+r.W && y >= r.Y && y < r.Y+r.H
}

// Aspect returns W/H, or 0 for an empty rectangle
func (r Rect) Aspect() float64 {
	if r.Empty() {
		return 0
	}
	return r.W / r.H
}

// Image converts r to a top-left origin image.Rectangle for a screen of the
// given height. Edges are rounded outward so the fitted area is fully covered.
func (r Rect) Image(screenHeight int) image.Rectangle {
	top := float64(screenHeight) - (r.Y + r.H)
	return image.Rect(
		int(math.Floor(r.X)),
		int(math.Floor(top)),
		int(math.Ceil(r.X+r.W)),
		int(math.Ceil(top+r.H)),
	)
}

// Affine is a 2D transform to screen pixels (top-left origin):
// x' = A*x + B*y + TX, y' = C*x + D*y + TY.
type Affine struct {
	A, B, TX float64
	C, D, TY float64
}

// Apply maps (x, y) through the transform
func (a Affine) Apply(x, y float64) (float64, float64) {
	return a.A*x + a.B*y + a.TX, a.C*x + a.D*y + a.TY
}

// ScreenAffine folds an orthographic projection m and the viewport it is bound
// to into one transform. It lands on the same pixels as ProjectWorld and
// ProjectOverlay, which put screen row 0 at the top and screenH-1 at the
// bottom.
func ScreenAffine(m mgl64.Mat4, vp Rect, screenH int) Affine {
	hw, hh := vp.W/2, vp.H/2
	return Affine{
		A:  m.At(0, 0) * hw,
		B:  m.At(0, 1) * hw,
		TX: vp.X + (m.At(0, 3)+1)*hw,
		C:  -m.At(1, 0) * hh,
		D:  -m.At(1, 1) * hh,
		TY: float64(screenH) - vp.Y - (m.At(1, 3)+1)*hh - 1,
	}
}
