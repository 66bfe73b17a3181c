package control

import (
	"math"
	"testing"

	"github.com/1siamBot/fitview/engine/camera"
	"github.com/1siamBot/fitview/engine/core"
	"github.com/go-gl/mathgl/mgl64"
)

type recorder struct {
	events []core.Event
}

func (r *recorder) listen(bus *core.EventBus, types ...core.EventType) {
	for _, t := range types {
		bus.On(t, func(e core.Event) { r.events = append(r.events, e) })
	}
}

func (r *recorder) ofType(t core.EventType) []core.Event {
	var out []core.Event
	for _, e := range r.events {
		if e.Type == t {
			out = append(out, e)
		}
	}
	return out
}

func setup(t *testing.T, b Bindings) (*camera.Camera, *Controller, *core.EventBus, *recorder) {
	t.Helper()
	cam, err := camera.New(camera.Options{WorldWidth: 1600, WorldHeight: 900, ZoomMin: 0.5, ZoomMax: 2})
	if err != nil {
		t.Fatalf("camera.New: %v", err)
	}
	bus := core.NewEventBus()
	rec := &recorder{}
	rec.listen(bus, core.EvtViewportResized, core.EvtZoomed, core.EvtPanned,
		core.EvtCentered, core.EvtPicked, core.EvtOverlayUnavailable)
	return cam, NewController(cam, bus, b), bus, rec
}

func closeTo(a, b float64) bool { return math.Abs(a-b) < 1e-9 }

func TestResizeOnlyOnChange(t *testing.T) {
	cam, ctl, bus, rec := setup(t, DefaultBindings())
	if !ctl.Resize(1000, 1000) {
		t.Fatalf("first Resize should apply")
	}
	if ctl.Resize(1000, 1000) {
		t.Fatalf("repeated Resize should be ignored")
	}
	bus.Dispatch()

	got := rec.ofType(core.EvtViewportResized)
	if len(got) != 1 {
		t.Fatalf("resize events = %d, want 1", len(got))
	}
	if p := got[0].Payload.(core.ResizePayload); p.ScreenW != 1000 || p.ScreenH != 1000 {
		t.Fatalf("payload = %+v", p)
	}
	if w, h := cam.ScreenSize(); w != 1000 || h != 1000 {
		t.Fatalf("camera screen = %dx%d", w, h)
	}
}

func TestScrollZoomsIn(t *testing.T) {
	b := DefaultBindings()
	b.ZoomAtCursor = false
	cam, ctl, bus, rec := setup(t, b)
	ctl.Resize(1000, 1000)

	ctl.Apply(Frame{Scroll: 1})
	if got := cam.ZoomLevel(); !closeTo(got, 0.9) {
		t.Fatalf("zoom = %v, want 0.9", got)
	}
	bus.Dispatch()
	zooms := rec.ofType(core.EvtZoomed)
	if len(zooms) != 1 {
		t.Fatalf("zoom events = %d, want 1", len(zooms))
	}
	if p := zooms[0].Payload.(core.ZoomPayload); p.From != 1 || !closeTo(p.To, 0.9) {
		t.Fatalf("payload = %+v", p)
	}
}

func TestZoomAtBoundEmitsNothing(t *testing.T) {
	cam, ctl, bus, rec := setup(t, DefaultBindings())
	ctl.Resize(1000, 1000)
	ctl.Apply(Frame{Scroll: -20, CursorX: 500, CursorY: 500})
	if cam.ZoomLevel() != 2 {
		t.Fatalf("zoom = %v, want max 2", cam.ZoomLevel())
	}
	bus.Dispatch()
	rec.events = nil

	ctl.Apply(Frame{Scroll: -1, CursorX: 500, CursorY: 500})
	ctl.Apply(Frame{ZoomOut: true})
	bus.Dispatch()
	if n := len(rec.ofType(core.EvtZoomed)); n != 0 {
		t.Fatalf("zoom events at bound = %d, want 0", n)
	}
}

func TestPinchAndKeyZoom(t *testing.T) {
	cam, ctl, _, _ := setup(t, DefaultBindings())
	ctl.Resize(1000, 1000)

	ctl.Apply(Frame{Pinch: 40}) // spread fingers
	if got := cam.ZoomLevel(); !closeTo(got, 0.8) {
		t.Fatalf("zoom after pinch = %v, want 0.8", got)
	}
	ctl.Apply(Frame{ZoomOut: true})
	if got := cam.ZoomLevel(); !closeTo(got, 0.82) {
		t.Fatalf("zoom after key = %v, want 0.82", got)
	}
}

func TestDragGrabsWorld(t *testing.T) {
	b := DefaultBindings()
	b.ZoomAtCursor = false
	cam, ctl, bus, rec := setup(t, b)
	ctl.Resize(1000, 1000)
	ctl.Apply(Frame{Scroll: 5}) // zoom 0.5, room to pan

	start := cam.Position()
	ctl.Apply(Frame{Dragging: true, DragDX: 10, DragDY: 10})
	got := cam.Position()
	// pointer right/down: camera moves left and up in world space
	if !closeTo(got.X(), start.X()-8) || !closeTo(got.Y(), start.Y()+8) {
		t.Fatalf("position = %v, want %v", got, start.Add(mgl64.Vec2{-8, 8}))
	}

	bus.Dispatch()
	pans := rec.ofType(core.EvtPanned)
	if len(pans) != 1 {
		t.Fatalf("pan events = %d, want 1", len(pans))
	}
	if p := pans[0].Payload.(core.PanPayload); p.From != start || p.To != got {
		t.Fatalf("payload = %+v", p)
	}
}

func TestInvertDrag(t *testing.T) {
	b := DefaultBindings()
	b.ZoomAtCursor = false
	b.InvertDrag = true
	cam, ctl, _, _ := setup(t, b)
	ctl.Resize(1000, 1000)
	ctl.Apply(Frame{Scroll: 5})

	start := cam.Position()
	ctl.Apply(Frame{Dragging: true, DragDX: 10})
	if got := cam.Position(); !closeTo(got.X(), start.X()+8) {
		t.Fatalf("x = %v, want %v", got.X(), start.X()+8)
	}
}

func TestDragIgnoredWhenNotDragging(t *testing.T) {
	cam, ctl, _, _ := setup(t, DefaultBindings())
	ctl.Resize(1000, 1000)
	ctl.Apply(Frame{Pinch: 100})
	start := cam.Position()
	ctl.Apply(Frame{DragDX: 50, DragDY: 50})
	if cam.Position() != start {
		t.Fatalf("position moved without an active drag")
	}
}

func TestKeyPanAndCenter(t *testing.T) {
	b := DefaultBindings()
	cam, ctl, bus, rec := setup(t, b)
	ctl.Resize(1000, 1000)
	ctl.Apply(Frame{Pinch: 100}) // zoom 0.5

	start := cam.Position()
	ctl.Apply(Frame{PanRight: true, PanUp: true})
	got := cam.Position()
	step := b.KeyPanSpeed * 0.5 * 1.6
	if !closeTo(got.X(), start.X()+step) || !closeTo(got.Y(), start.Y()+step) {
		t.Fatalf("position = %v, want +%v on both axes from %v", got, step, start)
	}

	ctl.Apply(Frame{Center: true, PanLeft: true})
	if cam.Position() != start {
		t.Fatalf("center should restore %v, got %v", start, cam.Position())
	}
	bus.Dispatch()
	if n := len(rec.ofType(core.EvtCentered)); n != 1 {
		t.Fatalf("centered events = %d, want 1", n)
	}
}

func TestPanPinnedEmitsNothing(t *testing.T) {
	_, ctl, bus, rec := setup(t, DefaultBindings())
	ctl.Resize(1000, 1000)
	ctl.Apply(Frame{Dragging: true, DragDX: 30, DragDY: -30})
	bus.Dispatch()
	if n := len(rec.ofType(core.EvtPanned)); n != 0 {
		t.Fatalf("pan events while pinned = %d, want 0", n)
	}
}

func TestPressPicksBothSpaces(t *testing.T) {
	cam, ctl, bus, rec := setup(t, DefaultBindings())
	ctl.Resize(1000, 1000)

	ctl.Apply(Frame{Pressed: true, CursorX: 500, CursorY: 500})
	bus.Dispatch()
	picks := rec.ofType(core.EvtPicked)
	if len(picks) != 1 {
		t.Fatalf("pick events = %d, want 1", len(picks))
	}
	p := picks[0].Payload.(core.PickPayload)
	if !p.WorldOK || p.World != cam.UnprojectWorld(500, 500) {
		t.Fatalf("world = %v, want %v", p.World, cam.UnprojectWorld(500, 500))
	}
	wantOverlay, _ := cam.UnprojectOverlay(500, 500)
	if !p.OverlayOK || p.Overlay != wantOverlay {
		t.Fatalf("overlay = %v (ok=%v), want %v", p.Overlay, p.OverlayOK, wantOverlay)
	}
}

func TestPressBeforeResizeReportsOverlayUnavailable(t *testing.T) {
	_, ctl, bus, rec := setup(t, DefaultBindings())
	ctl.Apply(Frame{Pressed: true, CursorX: 5, CursorY: 5})
	bus.Dispatch()

	if n := len(rec.ofType(core.EvtOverlayUnavailable)); n != 1 {
		t.Fatalf("overlay unavailable events = %d, want 1", n)
	}
	picks := rec.ofType(core.EvtPicked)
	if len(picks) != 1 {
		t.Fatalf("pick events = %d, want 1", len(picks))
	}
	p := picks[0].Payload.(core.PickPayload)
	if p.OverlayOK || p.WorldOK {
		t.Fatalf("pick before resize should carry no coordinates: %+v", p)
	}
	for i := range p.World {
		if math.IsNaN(p.World[i]) || math.IsInf(p.World[i], 0) {
			t.Fatalf("pick world = %v before resize", p.World)
		}
	}
}

func TestResizeIgnoresDegenerateSizes(t *testing.T) {
	cam, err := camera.New(camera.Options{WorldWidth: 1600, WorldHeight: 900, Padding: 10, ZoomMin: 0.5, ZoomMax: 2})
	if err != nil {
		t.Fatalf("camera.New: %v", err)
	}
	bus := core.NewEventBus()
	rec := &recorder{}
	rec.listen(bus, core.EvtViewportResized)
	ctl := NewController(cam, bus, DefaultBindings())

	tests := []struct {
		w, h   int
		want   bool
		events int
		camW   int
		camH   int
	}{
		{0, 0, false, 0, 0, 0},
		{20, 20, false, 0, 0, 0},
		{800, 600, true, 1, 800, 600},
		{15, 600, false, 1, 800, 600},
		{800, 600, false, 1, 800, 600},
		{1024, 768, true, 2, 1024, 768},
	}
	for _, tt := range tests {
		if got := ctl.Resize(tt.w, tt.h); got != tt.want {
			t.Fatalf("Resize(%d, %d) = %v, want %v", tt.w, tt.h, got, tt.want)
		}
		bus.Dispatch()
		if n := len(rec.ofType(core.EvtViewportResized)); n != tt.events {
			t.Fatalf("after Resize(%d, %d): resize events = %d, want %d", tt.w, tt.h, n, tt.events)
		}
		if w, h := cam.ScreenSize(); w != tt.camW || h != tt.camH {
			t.Fatalf("after Resize(%d, %d): camera screen = %dx%d, want %dx%d", tt.w, tt.h, w, h, tt.camW, tt.camH)
		}
	}
}

func TestNilBus(t *testing.T) {
	cam, err := camera.New(camera.Options{WorldWidth: 10, WorldHeight: 10, ZoomMin: 1, ZoomMax: 1})
	if err != nil {
		t.Fatal(err)
	}
	ctl := NewController(cam, nil, DefaultBindings())
	ctl.Resize(100, 100)
	ctl.Apply(Frame{Pressed: true, Scroll: 1, Dragging: true, DragDX: 1})
}
