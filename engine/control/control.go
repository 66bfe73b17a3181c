// Package control turns per-frame pointer and keyboard state into camera
// calls and reports what changed on the event bus. It does not import any
// windowing library, so hosts can feed it from ebiten, tests or replays.
package control

import (
	"github.com/1siamBot/fitview/engine/core"
	"github.com/go-gl/mathgl/mgl64"
)

// Target is the camera surface the controller drives
type Target interface {
	UpdateViewport(screenWidth, screenHeight int) bool
	ViewportReady() bool
	Zoom(delta float64)
	ZoomAt(delta float64, screenX, screenY int)
	Translate(dx, dy float64)
	CenterOnWorld()
	ZoomLevel() float64
	Position() mgl64.Vec2
	UnprojectWorld(screenX, screenY int) mgl64.Vec3
	UnprojectOverlay(screenX, screenY int) (mgl64.Vec3, error)
}

// Frame is one frame of input, in screen pixels with a top-left origin
type Frame struct {
	CursorX, CursorY int
	DragDX, DragDY   int // pointer delta since last frame while dragging
	Dragging         bool
	Pressed          bool    // pointer went down this frame
	Scroll           float64 // wheel notches, positive away from the user
	Pinch            float64 // change of two-finger distance in pixels

	PanLeft, PanRight, PanUp, PanDown bool
	ZoomIn, ZoomOut                   bool
	Center                            bool
}

// Bindings scale raw input into camera deltas
type Bindings struct {
	ZoomStep     float64 // zoom delta per wheel notch
	PinchStep    float64 // zoom delta per pixel of pinch
	KeyZoomStep  float64 // zoom delta per frame while a zoom key is held
	KeyPanSpeed  float64 // pixels per frame while a pan key is held
	ZoomAtCursor bool    // keep the world point under the cursor fixed on wheel zoom
	InvertDrag   bool    // drag moves the camera instead of grabbing the world
}

// DefaultBindings returns the bindings used when no config is given
func DefaultBindings() Bindings {
	return Bindings{
		ZoomStep:     0.1,
		PinchStep:    0.005,
		KeyZoomStep:  0.02,
		KeyPanSpeed:  8,
		ZoomAtCursor: true,
	}
}

// Controller applies frames to a camera
type Controller struct {
	target Target
	bus    *core.EventBus
	bind   Bindings

	screenW, screenH int
}

// NewController creates a controller. bus may be nil.
func NewController(t Target, bus *core.EventBus, b Bindings) *Controller {
	return &Controller{target: t, bus: bus, bind: b}
}

// Bindings returns the active bindings
func (c *Controller) Bindings() Bindings { return c.bind }

// Resize forwards a screen size change to the camera. Unchanged sizes are
// ignored so hosts can call it every frame, and sizes the camera rejects are
// neither remembered nor reported.
func (c *Controller) Resize(screenW, screenH int) bool {
	if screenW == c.screenW && screenH == c.screenH {
		return false
	}
	if !c.target.UpdateViewport(screenW, screenH) {
		return false
	}
	c.screenW, c.screenH = screenW, screenH
	c.emit(core.EvtViewportResized, core.ResizePayload{ScreenW: screenW, ScreenH: screenH})
	return true
}

// Apply runs one frame of input against the camera
func (c *Controller) Apply(f Frame) {
	c.applyZoom(f)
	c.applyPan(f)
	if f.Pressed {
		c.pick(f.CursorX, f.CursorY)
	}
}

func (c *Controller) applyZoom(f Frame) {
	from := c.target.ZoomLevel()

	// smaller zoom factor magnifies: wheel up / pinch out zoom in
	if f.Scroll != 0 {
		delta := -f.Scroll * c.bind.ZoomStep
		if c.bind.ZoomAtCursor {
			c.target.ZoomAt(delta, f.CursorX, f.CursorY)
		} else {
			c.target.Zoom(delta)
		}
	}
	if f.Pinch != 0 {
		c.target.Zoom(-f.Pinch * c.bind.PinchStep)
	}
	if f.ZoomIn {
		c.target.Zoom(-c.bind.KeyZoomStep)
	}
	if f.ZoomOut {
		c.target.Zoom(c.bind.KeyZoomStep)
	}

	if to := c.target.ZoomLevel(); to != from {
		c.emit(core.EvtZoomed, core.ZoomPayload{From: from, To: to})
	}
}

func (c *Controller) applyPan(f Frame) {
	from := c.target.Position()

	if f.Center {
		c.target.CenterOnWorld()
		if to := c.target.Position(); to != from {
			c.emit(core.EvtCentered, core.PanPayload{From: from, To: to})
		}
		return
	}

	var dx, dy float64
	if f.Dragging && (f.DragDX != 0 || f.DragDY != 0) {
		// grabbing the world moves the camera against the pointer
		dx, dy = -float64(f.DragDX), -float64(f.DragDY)
		if c.bind.InvertDrag {
			dx, dy = -dx, -dy
		}
	}
	speed := c.bind.KeyPanSpeed
	if f.PanLeft {
		dx -= speed
	}
	if f.PanRight {
		dx += speed
	}
	if f.PanUp {
		dy -= speed
	}
	if f.PanDown {
		dy += speed
	}
	if dx == 0 && dy == 0 {
		return
	}

	c.target.Translate(dx, dy)
	if to := c.target.Position(); to != from {
		c.emit(core.EvtPanned, core.PanPayload{From: from, To: to})
	}
}

func (c *Controller) pick(x, y int) {
	p := core.PickPayload{ScreenX: x, ScreenY: y}
	if c.target.ViewportReady() {
		p.World = c.target.UnprojectWorld(x, y)
		p.WorldOK = true
	}
	ov, err := c.target.UnprojectOverlay(x, y)
	if err != nil {
		c.emit(core.EvtOverlayUnavailable, err)
	} else {
		p.Overlay = ov
		p.OverlayOK = true
	}
	c.emit(core.EvtPicked, p)
}

func (c *Controller) emit(t core.EventType, payload interface{}) {
	if c.bus == nil {
		return
	}
	c.bus.Emit(core.Event{Type: t, Payload: payload})
}
