// Package camera fits a fixed-size 2D world into a screen of any size and
// keeps an orthographic projection for it, plus an independent overlay (HUD)
// projection. It has no rendering or input dependencies: hosts bind the
// rectangles it reports and feed it pixel deltas and pointer positions.
//
// A Camera is not safe for concurrent use; hosts call it from their
// render/input loop.
package camera

import (
	"errors"
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// zeroF is the tolerance used for aspect-ratio and clamp comparisons
const zeroF = 0.01

// depth range of both orthographic projections
const (
	near = 0.0
	far  = 100.0
)

var (
	// ErrInvalidOptions is returned by New for unusable construction parameters
	ErrInvalidOptions = errors.New("camera: invalid options")
	// ErrOverlayUnavailable is returned when the overlay rectangle collapsed
	ErrOverlayUnavailable = errors.New("camera: overlay unavailable")
)

// Options are the construction parameters, fixed for the camera's lifetime.
type Options struct {
	WorldWidth  float64 // logical world size, world units
	WorldHeight float64
	Padding     int // minimum pixel margin on every side of the viewport
	ZoomMin     float64
	ZoomMax     float64
	FullOverlay bool // overlay spans the whole screen instead of the fitted viewport
}

// Validate reports whether the options can build a camera
func (o Options) Validate() error {
	switch {
	case o.WorldWidth <= 0 || o.WorldHeight <= 0:
		return fmt.Errorf("%w: world size %gx%g must be positive", ErrInvalidOptions, o.WorldWidth, o.WorldHeight)
	case o.Padding < 0:
		return fmt.Errorf("%w: padding %d is negative", ErrInvalidOptions, o.Padding)
	case o.ZoomMin <= 0:
		return fmt.Errorf("%w: zoom min %g must be positive", ErrInvalidOptions, o.ZoomMin)
	case o.ZoomMin > o.ZoomMax:
		return fmt.Errorf("%w: zoom min %g exceeds zoom max %g", ErrInvalidOptions, o.ZoomMin, o.ZoomMax)
	}
	return nil
}

// Camera is the viewport controller for one world.
type Camera struct {
	worldWidth  float64
	worldHeight float64
	worldAspect float64
	padding     int
	zoomMin     float64
	zoomMax     float64
	fullOverlay bool

	zoom     float64
	position mgl64.Vec2 // world point at the center of the visible area

	screenWidth  int
	screenHeight int

	viewport Rect // fitted on-screen rectangle, pixels

	// camera extent in world units, follows the viewport aspect ratio
	viewportWidth  float64
	viewportHeight float64

	// world units per viewport pixel at zoom 1
	widthFactor  float64
	heightFactor float64

	projection    mgl64.Mat4 // combined view-projection
	invProjection mgl64.Mat4

	overlay overlay
}

// New creates a camera centered on the world. The viewport stays empty until
// the host reports the screen size through UpdateViewport.
func New(opts Options) (*Camera, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	c := &Camera{
		worldWidth:     opts.WorldWidth,
		worldHeight:    opts.WorldHeight,
		worldAspect:    opts.WorldWidth / opts.WorldHeight,
		padding:        opts.Padding,
		zoomMin:        opts.ZoomMin,
		zoomMax:        opts.ZoomMax,
		fullOverlay:    opts.FullOverlay,
		zoom:           mgl64.Clamp(1, opts.ZoomMin, opts.ZoomMax),
		viewportWidth:  opts.WorldWidth,
		viewportHeight: opts.WorldHeight,
	}
	c.CenterOnWorld()
	return c, nil
}

// UpdateViewport refits the world into a screen of the given pixel size.
// Both dimensions must be positive and leave room for the padding; otherwise
// the call is ignored, the previous fit is kept and false is returned.
func (c *Camera) UpdateViewport(screenWidth, screenHeight int) bool {
	if screenWidth-2*c.padding <= 0 || screenHeight-2*c.padding <= 0 {
		return false
	}
	c.screenWidth = screenWidth
	c.screenHeight = screenHeight

	c.fit()
	c.updateOverlay()
	c.clampPosition()
	c.updateProjection()
	return true
}

func (c *Camera) fit() {
	pad := float64(c.padding)
	availW := float64(c.screenWidth) - 2*pad
	availH := float64(c.screenHeight) - 2*pad
	screenAspect := float64(c.screenWidth) / float64(c.screenHeight)
	diff := c.worldAspect - screenAspect

	vp := &c.viewport
	if diff <= -zeroF {
		// screen wider than world: use max height, width grows up to max available on zooming
		vp.H = availH
		vp.W = math.Min(availH*c.worldAspect/c.zoom, availW)
		vp.X = pad + (availW-vp.W)/2
		vp.Y = pad
		// camera aspect ratio must follow viewport aspect ratio
		c.viewportHeight = c.worldHeight
		c.viewportWidth = c.viewportHeight * (vp.W / vp.H)
	} else {
		// world wider than screen, or matching ratios: use max width
		vp.W = availW
		vp.H = math.Min(availW/c.worldAspect/c.zoom, availH)
		vp.X = pad
		vp.Y = pad + (availH-vp.H)/2
		c.viewportWidth = c.worldWidth
		c.viewportHeight = c.viewportWidth * (vp.H / vp.W)
	}

	c.widthFactor = c.viewportWidth / vp.W
	c.heightFactor = c.viewportHeight / vp.H
}

// refresh recomputes everything that depends on zoom or position
func (c *Camera) refresh() {
	if c.hasScreen() {
		c.UpdateViewport(c.screenWidth, c.screenHeight)
		return
	}
	c.clampPosition()
	c.updateProjection()
}

func (c *Camera) hasScreen() bool {
	return c.screenWidth > 0 && c.screenHeight > 0
}

// Zoom adds delta to the zoom factor, clamps it and refits the viewport
func (c *Camera) Zoom(delta float64) {
	c.SetZoom(c.zoom + delta)
}

// SetZoom sets the zoom factor with clamping
func (c *Camera) SetZoom(z float64) {
	c.zoom = mgl64.Clamp(z, c.zoomMin, c.zoomMax)
	c.refresh()
}

// ZoomAt zooms and keeps the world point under the given screen pixel in place
func (c *Camera) ZoomAt(delta float64, screenX, screenY int) {
	if !c.hasScreen() {
		c.Zoom(delta)
		return
	}
	before := c.UnprojectWorld(screenX, screenY)
	c.Zoom(delta)
	after := c.UnprojectWorld(screenX, screenY)
	c.position = c.position.Add(mgl64.Vec2{before.X() - after.X(), before.Y() - after.Y()})
	c.clampPosition()
	c.updateProjection()
}

// Translate pans by a pixel delta (e.g. a drag). Screen y grows downward,
// world y upward, so dy moves the camera down in world space.
func (c *Camera) Translate(dx, dy float64) {
	deltaX := dx * c.zoom * c.widthFactor
	deltaY := dy * c.zoom * c.heightFactor
	c.position = c.position.Add(mgl64.Vec2{deltaX, -deltaY})
	c.clampPosition()
	c.updateProjection()
}

// CenterOnWorld moves the camera to the center of the world
func (c *Camera) CenterOnWorld() {
	c.CenterOn(c.worldWidth/2, c.worldHeight/2)
}

// CenterOn centers the camera on a world position, within clamp limits
func (c *Camera) CenterOn(x, y float64) {
	c.position = mgl64.Vec2{x, y}
	c.clampPosition()
	c.updateProjection()
}

func (c *Camera) clampPosition() {
	cameraWidth := c.viewportWidth * c.zoom
	cameraHeight := c.viewportHeight * c.zoom
	x, y := c.position.X(), c.position.Y()

	// on each axis, clamp on [ cameraDim/2 ; worldDim - cameraDim/2 ]
	if c.worldWidth-cameraWidth > zeroF {
		x = mgl64.Clamp(x, cameraWidth/2, c.worldWidth-cameraWidth/2)
	} else {
		x = c.worldWidth / 2
	}
	if c.worldHeight-cameraHeight > zeroF {
		y = mgl64.Clamp(y, cameraHeight/2, c.worldHeight-cameraHeight/2)
	} else {
		y = c.worldHeight / 2
	}
	c.position = mgl64.Vec2{x, y}
}

func (c *Camera) updateProjection() {
	hw := c.viewportWidth * c.zoom / 2
	hh := c.viewportHeight * c.zoom / 2
	proj := mgl64.Ortho(-hw, hw, -hh, hh, near, far)
	view := mgl64.Translate3D(-c.position.X(), -c.position.Y(), 0)
	c.projection = proj.Mul4(view)
	c.invProjection = c.projection.Inv()
}

// ViewportReady reports whether a screen size has been applied, so the world
// viewport can be bound and unprojected through.
func (c *Camera) ViewportReady() bool {
	return c.hasScreen() && !c.viewport.Empty()
}

// UnprojectWorld maps a screen pixel (top-left origin) to world coordinates
// through the fitted viewport. Before the first applied UpdateViewport there
// is no viewport and it returns the zero vector; check ViewportReady.
func (c *Camera) UnprojectWorld(screenX, screenY int) mgl64.Vec3 {
	if !c.ViewportReady() {
		return mgl64.Vec3{}
	}
	vp := c.viewport
	x := float64(screenX) - vp.X
	y := float64(c.screenHeight-screenY-1) - vp.Y
	ndc := mgl64.Vec4{2*x/vp.W - 1, 2*y/vp.H - 1, 2*0 - 1, 1}
	return transform(c.invProjection, ndc)
}

// ProjectWorld maps a world point to screen pixel coordinates (top-left
// origin). Z is the window depth in [0, 1].
func (c *Camera) ProjectWorld(p mgl64.Vec3) mgl64.Vec3 {
	vp := c.viewport
	ndc := transform(c.projection, p.Vec4(1))
	x := vp.W*(ndc.X()+1)/2 + vp.X
	y := vp.H*(ndc.Y()+1)/2 + vp.Y
	return mgl64.Vec3{x, float64(c.screenHeight) - y - 1, (ndc.Z() + 1) / 2}
}

// VisibleWorld returns the world-space rectangle currently in view
func (c *Camera) VisibleWorld() Rect {
	w := c.viewportWidth * c.zoom
	h := c.viewportHeight * c.zoom
	return Rect{X: c.position.X() - w/2, Y: c.position.Y() - h/2, W: w, H: h}
}

// transform applies m to v and divides by w
func transform(m mgl64.Mat4, v mgl64.Vec4) mgl64.Vec3 {
	r := m.Mul4x1(v)
	if r.W() != 0 {
		return mgl64.Vec3{r.X() / r.W(), r.Y() / r.W(), r.Z() / r.W()}
	}
	return r.Vec3()
}

// ZoomLevel returns the current zoom factor
func (c *Camera) ZoomLevel() float64 { return c.zoom }

// ZoomBounds returns the configured zoom range
func (c *Camera) ZoomBounds() (lo, hi float64) { return c.zoomMin, c.zoomMax }

// Position returns the world point at the center of the visible area
func (c *Camera) Position() mgl64.Vec2 { return c.position }

func (c *Camera) ScreenSize() (w, h int)       { return c.screenWidth, c.screenHeight }
func (c *Camera) WorldSize() (w, h float64)    { return c.worldWidth, c.worldHeight }
func (c *Camera) Padding() int                 { return c.padding }
func (c *Camera) FullOverlay() bool            { return c.fullOverlay }
func (c *Camera) WorldViewport() Rect          { return c.viewport }
func (c *Camera) WorldProjection() mgl64.Mat4  { return c.projection }
func (c *Camera) CameraExtent() (w, h float64) { return c.viewportWidth, c.viewportHeight }
func (c *Camera) PixelFactors() (w, h float64) { return c.widthFactor, c.heightFactor }

func (c *Camera) ViewportLeft() int   { return int(c.viewport.X) }
func (c *Camera) ViewportBottom() int { return int(c.viewport.Y) }
func (c *Camera) ViewportWidth() int  { return int(c.viewport.W) }
func (c *Camera) ViewportHeight() int { return int(c.viewport.H) }
