package replay

import (
	"bytes"
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/1siamBot/fitview/engine/camera"
	"github.com/1siamBot/fitview/engine/control"
)

func newController(t *testing.T) (*camera.Camera, *control.Controller) {
	t.Helper()
	cam, err := camera.New(camera.Options{WorldWidth: 1600, WorldHeight: 900, Padding: 4, ZoomMin: 0.25, ZoomMax: 1})
	if err != nil {
		t.Fatal(err)
	}
	return cam, control.NewController(cam, nil, control.DefaultBindings())
}

var session = []control.Frame{
	{Scroll: 3, CursorX: 300, CursorY: 200},
	{},
	{Dragging: true, DragDX: 25, DragDY: -14, CursorX: 325, CursorY: 186},
	{PanRight: true, PanDown: true},
	{Pinch: 30},
	{Pressed: true, CursorX: 10, CursorY: 10},
	{ZoomOut: true, PanLeft: true},
	{Scroll: -1, CursorX: 700, CursorY: 500},
}

func TestRecordThenReplayReproducesCamera(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.fvrp")
	rec, err := NewRecorder(path)
	if err != nil {
		t.Fatalf("NewRecorder: %v", err)
	}

	live, ctl := newController(t)
	ctl.Resize(1024, 768)
	if err := rec.Resize(1024, 768); err != nil {
		t.Fatal(err)
	}
	for i, f := range session {
		if i == 4 {
			ctl.Resize(800, 800)
			if err := rec.Resize(800, 800); err != nil {
				t.Fatal(err)
			}
		}
		ctl.Apply(f)
		if err := rec.Frame(f); err != nil {
			t.Fatal(err)
		}
		rec.Advance()
	}
	if err := rec.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	// the empty frame is not written
	if got, want := rec.Count(), len(session)-1+2; got != want {
		t.Fatalf("Count() = %d, want %d", got, want)
	}

	p, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	replayed, ctl2 := newController(t)
	for !p.Done() {
		p.Step(ctl2)
	}

	if replayed.Position() != live.Position() || replayed.ZoomLevel() != live.ZoomLevel() {
		t.Fatalf("replayed camera pos %v zoom %v, live pos %v zoom %v",
			replayed.Position(), replayed.ZoomLevel(), live.Position(), live.ZoomLevel())
	}
	if replayed.WorldViewport() != live.WorldViewport() {
		t.Fatalf("viewport %+v, want %+v", replayed.WorldViewport(), live.WorldViewport())
	}
	if w, h, ok := p.ScreenSize(); !ok || w != 800 || h != 800 {
		t.Fatalf("ScreenSize() = %d, %d, %v", w, h, ok)
	}
}

func TestStepKeepsTicks(t *testing.T) {
	var buf bytes.Buffer
	if err := writeHeader(&buf); err != nil {
		t.Fatal(err)
	}
	recs := []Record{
		{Tick: 0, Kind: KindResize, ScreenW: 640, ScreenH: 480},
		{Tick: 0, Kind: KindFrame, Frame: control.Frame{Scroll: 1}},
		{Tick: 3, Kind: KindFrame, Frame: control.Frame{Center: true, CursorX: -5}},
	}
	for i := range recs {
		if err := recs[i].Encode(&buf); err != nil {
			t.Fatal(err)
		}
	}
	p, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if len(p.Records) != len(recs) {
		t.Fatalf("records = %d, want %d", len(p.Records), len(recs))
	}
	for i := range recs {
		if p.Records[i] != recs[i] {
			t.Fatalf("record %d = %+v, want %+v", i, p.Records[i], recs[i])
		}
	}

	_, ctl := newController(t)
	want := []int{2, 0, 0, 1}
	for tick, n := range want {
		if got := p.Step(ctl); got != n {
			t.Fatalf("tick %d applied %d records, want %d", tick, got, n)
		}
	}
	if !p.Done() || p.Tick() != 4 {
		t.Fatalf("Done() = %v, Tick() = %d", p.Done(), p.Tick())
	}
}

func TestReadRejectsForeignStream(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("PNG\x00\x01\x00")))
	if !errors.Is(err, ErrBadHeader) {
		t.Fatalf("err = %v, want ErrBadHeader", err)
	}
}

func TestReadTruncatedRecord(t *testing.T) {
	var buf bytes.Buffer
	if err := writeHeader(&buf); err != nil {
		t.Fatal(err)
	}
	rec := Record{Tick: 1, Kind: KindFrame, Frame: control.Frame{Pinch: 2}}
	if err := rec.Encode(&buf); err != nil {
		t.Fatal(err)
	}
	data := buf.Bytes()[:buf.Len()-3]
	_, err := Read(bytes.NewReader(data))
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Fatalf("err = %v, want io.ErrUnexpectedEOF", err)
	}
}

func TestEncodeRejectsUnknownKind(t *testing.T) {
	rec := Record{Kind: 9}
	if err := rec.Encode(io.Discard); !errors.Is(err, ErrBadKind) {
		t.Fatalf("err = %v, want ErrBadKind", err)
	}
}
