package input

import (
	"math"

	"github.com/1siamBot/fitview/engine/control"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"
)

// InputState tracks pointer and keyboard state per frame
type InputState struct {
	// Mouse
	MouseX, MouseY   int
	MouseDX, MouseDY int // delta since last frame
	prevMouseX       int
	prevMouseY       int
	LeftPressed      bool
	LeftJustPressed  bool
	LeftJustReleased bool
	ScrollY          float64

	// Drag
	DragStartX, DragStartY int
	Dragging               bool
	DragThreshold          int

	// Two-finger pinch
	touchIDs      []ebiten.TouchID
	pinchDist     float64
	PinchDelta    float64
	pinchTracking bool

	// Keyboard
	KeysPressed map[ebiten.Key]bool
}

// tracked keys, read once per frame
var cameraKeys = []ebiten.Key{
	ebiten.KeyW, ebiten.KeyA, ebiten.KeyS, ebiten.KeyD,
	ebiten.KeyUp, ebiten.KeyDown, ebiten.KeyLeft, ebiten.KeyRight,
	ebiten.KeyEqual, ebiten.KeyMinus, ebiten.KeyKPAdd, ebiten.KeyKPSubtract,
	ebiten.KeyHome, ebiten.KeyC,
}

func NewInputState(dragThreshold int) *InputState {
	return &InputState{
		DragThreshold: dragThreshold,
		KeysPressed:   make(map[ebiten.Key]bool),
	}
}

// Update should be called every frame
func (s *InputState) Update() {
	// Mouse position
	s.prevMouseX = s.MouseX
	s.prevMouseY = s.MouseY
	s.MouseX, s.MouseY = ebiten.CursorPosition()
	s.MouseDX = s.MouseX - s.prevMouseX
	s.MouseDY = s.MouseY - s.prevMouseY

	leftDown := ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)
	s.LeftJustPressed = inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
	s.LeftJustReleased = inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
	s.LeftPressed = leftDown

	// Scroll
	_, s.ScrollY = ebiten.Wheel()

	// Drag tracking
	if s.LeftJustPressed {
		s.DragStartX = s.MouseX
		s.DragStartY = s.MouseY
		s.Dragging = false
	}
	if leftDown && !s.Dragging {
		dx := s.MouseX - s.DragStartX
		dy := s.MouseY - s.DragStartY
		if dx*dx+dy*dy > s.DragThreshold*s.DragThreshold {
			s.Dragging = true
		}
	}
	if !leftDown {
		s.Dragging = false
	}

	s.updatePinch()

	for _, k := range cameraKeys {
		s.KeysPressed[k] = ebiten.IsKeyPressed(k)
	}
}

func (s *InputState) updatePinch() {
	s.touchIDs = ebiten.AppendTouchIDs(s.touchIDs[:0])
	s.PinchDelta = 0
	if len(s.touchIDs) != 2 {
		s.pinchTracking = false
		return
	}
	x0, y0 := ebiten.TouchPosition(s.touchIDs[0])
	x1, y1 := ebiten.TouchPosition(s.touchIDs[1])
	d := math.Hypot(float64(x1-x0), float64(y1-y0))
	if s.pinchTracking {
		s.PinchDelta = d - s.pinchDist
	}
	s.pinchDist = d
	s.pinchTracking = true
}

func (s *InputState) anyKey(keys ...ebiten.Key) bool {
	for _, k := range keys {
		if s.KeysPressed[k] {
			return true
		}
	}
	return false
}

// Frame converts the sampled state into a controller frame
func (s *InputState) Frame() control.Frame {
	f := control.Frame{
		CursorX:  s.MouseX,
		CursorY:  s.MouseY,
		Dragging: s.Dragging,
		Pressed:  s.LeftJustPressed,
		Scroll:   s.ScrollY,
		Pinch:    s.PinchDelta,

		PanLeft:  s.anyKey(ebiten.KeyA, ebiten.KeyLeft),
		PanRight: s.anyKey(ebiten.KeyD, ebiten.KeyRight),
		PanUp:    s.anyKey(ebiten.KeyW, ebiten.KeyUp),
		PanDown:  s.anyKey(ebiten.KeyS, ebiten.KeyDown),
		ZoomIn:   s.anyKey(ebiten.KeyEqual, ebiten.KeyKPAdd),
		ZoomOut:  s.anyKey(ebiten.KeyMinus, ebiten.KeyKPSubtract),
		Center:   inpututil.IsKeyJustPressed(ebiten.KeyHome) || inpututil.IsKeyJustPressed(ebiten.KeyC),
	}
	if s.Dragging {
		f.DragDX, f.DragDY = s.MouseDX, s.MouseDY
	}
	return f
}
