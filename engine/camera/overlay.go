package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// overlay is the HUD projection state. projection and inverse are only
// written together.
type overlay struct {
	rect       Rect // overlay area, screen pixels
	binding    Rect // viewport bound while drawing the overlay
	projection mgl64.Mat4
	inverse    mgl64.Mat4
	ok         bool
}

func (c *Camera) updateOverlay() {
	o := &c.overlay
	o.ok = false

	var insetX, insetY float64
	if c.fullOverlay {
		o.binding = Rect{W: float64(c.screenWidth), H: float64(c.screenHeight)}
		o.rect = o.binding
	} else {
		// anchored to the world-aspect area of the fitted viewport
		o.binding = c.viewport
		o.rect = fitAspect(c.viewport, c.worldAspect)
		insetX = o.rect.X - o.binding.X
		insetY = o.rect.Y - o.binding.Y
	}
	if o.rect.Empty() || o.binding.Empty() {
		return
	}

	proj := mgl64.Ortho(-insetX, o.binding.W-insetX, -insetY, o.binding.H-insetY, near, far)
	det := proj.Det()
	if det == 0 || math.IsNaN(det) || math.IsInf(det, 0) {
		return
	}
	o.projection = proj
	o.inverse = proj.Inv()
	o.ok = true
}

// fitAspect returns the largest rectangle of the given aspect ratio centered
// inside container.
func fitAspect(container Rect, aspect float64) Rect {
	w := container.W
	h := w / aspect
	if h > container.H {
		h = container.H
		w = h * aspect
	}
	return Rect{
		X: container.X + (container.W-w)/2,
		Y: container.Y + (container.H-h)/2,
		W: w,
		H: h,
	}
}

// OverlayClip maps a screen pixel (top-left origin) to the overlay's
// normalized [-1, 1] coordinates, before the inverse projection.
func (c *Camera) OverlayClip(screenX, screenY int) (mgl64.Vec3, error) {
	o := &c.overlay
	if !o.ok {
		return mgl64.Vec3{}, ErrOverlayUnavailable
	}
	b := o.binding
	x := float64(screenX) - b.X
	y := float64(c.screenHeight-screenY-1) - b.Y
	return mgl64.Vec3{2*x/b.W - 1, 2*y/b.H - 1, 2*0 - 1}, nil
}

// UnprojectOverlay maps a screen pixel (top-left origin) to overlay space,
// whose origin is the bottom-left corner of OverlayRect.
func (c *Camera) UnprojectOverlay(screenX, screenY int) (mgl64.Vec3, error) {
	clip, err := c.OverlayClip(screenX, screenY)
	if err != nil {
		return mgl64.Vec3{}, err
	}
	return transform(c.overlay.inverse, clip.Vec4(1)), nil
}

// ProjectOverlay maps an overlay-space point to screen pixels (top-left origin)
func (c *Camera) ProjectOverlay(p mgl64.Vec3) (mgl64.Vec3, error) {
	o := &c.overlay
	if !o.ok {
		return mgl64.Vec3{}, ErrOverlayUnavailable
	}
	b := o.binding
	ndc := transform(o.projection, p.Vec4(1))
	x := b.W*(ndc.X()+1)/2 + b.X
	y := b.H*(ndc.Y()+1)/2 + b.Y
	return mgl64.Vec3{x, float64(c.screenHeight) - y - 1, (ndc.Z() + 1) / 2}, nil
}

// OverlayAvailable reports whether the overlay projection is usable
func (c *Camera) OverlayAvailable() bool { return c.overlay.ok }

// OverlayRect returns the overlay area in screen pixels (bottom-left origin)
func (c *Camera) OverlayRect() Rect { return c.overlay.rect }

// OverlayViewport returns the rectangle to bind before drawing the overlay:
// the whole screen in full-overlay mode, the world viewport otherwise.
func (c *Camera) OverlayViewport() Rect { return c.overlay.binding }

func (c *Camera) OverlayProjection() mgl64.Mat4        { return c.overlay.projection }
func (c *Camera) OverlayInverseProjection() mgl64.Mat4 { return c.overlay.inverse }
