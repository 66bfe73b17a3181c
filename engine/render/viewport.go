package render

import (
	"fmt"
	"image"
	"image/color"

	"github.com/1siamBot/fitview/engine/camera"
	"github.com/1siamBot/fitview/engine/core"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"
)

// Renderer draws the world through the camera's fitted viewport, then the
// overlay pass through the overlay viewport.
type Renderer struct {
	Camera  *camera.Camera
	ShowHUD bool

	Letterbox   color.Color
	WorldBorder color.Color
	OverlayLine color.Color
	Marker      color.Color

	backdrop *ebiten.Image
	scale    float64 // backdrop pixels per world unit

	pick    core.PickPayload
	hasPick bool
}

// NewRenderer creates a renderer drawing backdrop over the camera's world.
// scale is the backdrop's pixels per world unit.
func NewRenderer(cam *camera.Camera, backdrop image.Image, scale float64) *Renderer {
	if scale <= 0 {
		scale = 1
	}
	return &Renderer{
		Camera:      cam,
		ShowHUD:     true,
		Letterbox:   colornames.Black,
		WorldBorder: colornames.Gold,
		OverlayLine: colornames.Lightgreen,
		Marker:      colornames.Orangered,
		backdrop:    ebiten.NewImageFromImage(backdrop),
		scale:       scale,
	}
}

// OnPick records the last pick for the markers. Register it for EvtPicked.
func (r *Renderer) OnPick(e core.Event) {
	if p, ok := e.Payload.(core.PickPayload); ok {
		r.pick = p
		r.hasPick = true
	}
}

// Draw renders one frame. cursorX/cursorY feed the HUD readout.
func (r *Renderer) Draw(screen *ebiten.Image, cursorX, cursorY int) {
	screen.Fill(r.Letterbox)
	_, sh := r.Camera.ScreenSize()
	if sh <= 0 {
		return
	}
	r.drawWorld(screen, sh)
	if r.Camera.OverlayAvailable() {
		r.drawOverlay(screen, sh, cursorX, cursorY)
	}
}

func (r *Renderer) drawWorld(screen *ebiten.Image, screenH int) {
	vp := r.Camera.WorldViewport()
	if vp.Empty() {
		return
	}
	dst := bind(screen, vp, screenH)
	g := projectionGeoM(r.Camera.WorldProjection(), vp, screenH)

	// backdrop rows run top-down, world y runs bottom-up
	_, worldH := r.Camera.WorldSize()
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(1/r.scale, -1/r.scale)
	op.GeoM.Translate(0, worldH)
	op.GeoM.Concat(g)
	op.Filter = ebiten.FilterLinear
	dst.DrawImage(r.backdrop, op)

	worldW, _ := r.Camera.WorldSize()
	x0, y0, x1, y1 := applyRect(g, 0, 0, worldW, worldH)
	vector.StrokeRect(dst, x0, y0, x1-x0, y1-y0, 2, r.WorldBorder, false)

	if r.hasPick && r.pick.WorldOK {
		px, py := g.Apply(r.pick.World.X(), r.pick.World.Y())
		vector.DrawFilledCircle(dst, float32(px), float32(py), 5, r.Marker, true)
	}
}

func (r *Renderer) drawOverlay(screen *ebiten.Image, screenH, cursorX, cursorY int) {
	b := r.Camera.OverlayViewport()
	dst := bind(screen, b, screenH)
	g := projectionGeoM(r.Camera.OverlayProjection(), b, screenH)

	// overlay units are pixels with the origin at the overlay rect's bottom-left
	rect := r.Camera.OverlayRect()
	x0, y0, x1, y1 := applyRect(g, 0, 0, rect.W, rect.H)
	vector.StrokeRect(dst, x0+0.5, y0+0.5, x1-x0-1, y1-y0-1, 1, r.OverlayLine, false)

	const tick = 12
	for _, c := range [][2]float32{{x0, y0}, {x1, y0}, {x0, y1}, {x1, y1}} {
		vector.StrokeLine(dst, c[0]-tick, c[1], c[0]+tick, c[1], 1, r.OverlayLine, false)
		vector.StrokeLine(dst, c[0], c[1]-tick, c[0], c[1]+tick, 1, r.OverlayLine, false)
	}

	if r.hasPick && r.pick.OverlayOK {
		px, py := g.Apply(r.pick.Overlay.X(), r.pick.Overlay.Y())
		fx, fy := float32(px), float32(py)
		vector.StrokeLine(dst, fx-6, fy, fx+6, fy, 1, r.Marker, false)
		vector.StrokeLine(dst, fx, fy-6, fx, fy+6, 1, r.Marker, false)
	}

	if r.ShowHUD {
		r.drawHUD(dst, int(x0)+6, int(y0)+6, cursorX, cursorY)
	}
}

func (r *Renderer) drawHUD(dst *ebiten.Image, x, y, cursorX, cursorY int) {
	cam := r.Camera
	pos := cam.Position()
	vis := cam.VisibleWorld()
	lines := []string{
		fmt.Sprintf("zoom %.3f  pos %.1f,%.1f", cam.ZoomLevel(), pos.X(), pos.Y()),
		fmt.Sprintf("view %.0f,%.0f %.0fx%.0f", vis.X, vis.Y, vis.W, vis.H),
		fmt.Sprintf("viewport %d,%d %dx%d", cam.ViewportLeft(), cam.ViewportBottom(), cam.ViewportWidth(), cam.ViewportHeight()),
	}
	w := cam.UnprojectWorld(cursorX, cursorY)
	lines = append(lines, fmt.Sprintf("cursor world %.1f,%.1f", w.X(), w.Y()))
	if o, err := cam.UnprojectOverlay(cursorX, cursorY); err == nil {
		lines = append(lines, fmt.Sprintf("cursor overlay %.0f,%.0f", o.X(), o.Y()))
	}
	for i, l := range lines {
		ebitenutil.DebugPrintAt(dst, l, x, y+i*14)
	}
}

// bind clips drawing to a viewport rectangle. Sub-images keep the screen's
// coordinate space.
func bind(screen *ebiten.Image, vp camera.Rect, screenH int) *ebiten.Image {
	return screen.SubImage(vp.Image(screenH)).(*ebiten.Image)
}

// projectionGeoM folds an orthographic projection and its viewport into a
// GeoM mapping projected x/y to screen pixels (top-left origin).
func projectionGeoM(m mgl64.Mat4, vp camera.Rect, screenH int) ebiten.GeoM {
	a := camera.ScreenAffine(m, vp, screenH)
	var g ebiten.GeoM
	g.SetElement(0, 0, a.A)
	g.SetElement(0, 1, a.B)
	g.SetElement(0, 2, a.TX)
	g.SetElement(1, 0, a.C)
	g.SetElement(1, 1, a.D)
	g.SetElement(1, 2, a.TY)
	return g
}

// applyRect maps a y-up rectangle through g and returns its screen corners
// ordered top-left, bottom-right.
func applyRect(g ebiten.GeoM, x, y, w, h float64) (x0, y0, x1, y1 float32) {
	ax, ay := g.Apply(x, y+h)
	bx, by := g.Apply(x+w, y)
	return float32(min(ax, bx)), float32(min(ay, by)), float32(max(ax, bx)), float32(max(ay, by))
}
