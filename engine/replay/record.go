package replay

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"

	"github.com/1siamBot/fitview/engine/control"
)

// Kind identifies a replay record
type Kind uint8

const (
	KindFrame Kind = iota + 1
	KindResize
)

// Record is one input event at a tick
type Record struct {
	Tick    uint64
	Kind    Kind
	Frame   control.Frame // KindFrame
	ScreenW int           // KindResize
	ScreenH int
}

const (
	flagDragging uint16 = 1 << iota
	flagPressed
	flagPanLeft
	flagPanRight
	flagPanUp
	flagPanDown
	flagZoomIn
	flagZoomOut
	flagCenter
)

// wireRecord is the fixed-size little-endian layout of a Record
type wireRecord struct {
	Tick          uint64
	Kind          Kind
	Flags         uint16
	A, B, C, D    int32 // cursor x/y and drag dx/dy, or screen w/h
	Scroll, Pinch float64
}

var ErrBadKind = errors.New("replay: unknown record kind")

// Encode writes a record in binary
func (r *Record) Encode(w io.Writer) error {
	wr := wireRecord{Tick: r.Tick, Kind: r.Kind}
	switch r.Kind {
	case KindResize:
		wr.A, wr.B = int32(r.ScreenW), int32(r.ScreenH)
	case KindFrame:
		f := r.Frame
		wr.A, wr.B = int32(f.CursorX), int32(f.CursorY)
		wr.C, wr.D = int32(f.DragDX), int32(f.DragDY)
		wr.Scroll, wr.Pinch = f.Scroll, f.Pinch
		wr.Flags = packFlags(f)
	default:
		return fmt.Errorf("%w: %d", ErrBadKind, r.Kind)
	}
	return binary.Write(w, binary.LittleEndian, &wr)
}

// Decode reads a record. A clean end of stream returns io.EOF.
func (r *Record) Decode(rd io.Reader) error {
	var wr wireRecord
	if err := binary.Read(rd, binary.LittleEndian, &wr); err != nil {
		return err
	}
	*r = Record{Tick: wr.Tick, Kind: wr.Kind}
	switch wr.Kind {
	case KindResize:
		r.ScreenW, r.ScreenH = int(wr.A), int(wr.B)
	case KindFrame:
		r.Frame = unpackFlags(wr.Flags)
		r.Frame.CursorX, r.Frame.CursorY = int(wr.A), int(wr.B)
		r.Frame.DragDX, r.Frame.DragDY = int(wr.C), int(wr.D)
		r.Frame.Scroll, r.Frame.Pinch = wr.Scroll, wr.Pinch
	default:
		return fmt.Errorf("%w: %d", ErrBadKind, wr.Kind)
	}
	return nil
}

func packFlags(f control.Frame) uint16 {
	var fl uint16
	set := func(b bool, bit uint16) {
		if b {
			fl |= bit
		}
	}
	set(f.Dragging, flagDragging)
	set(f.Pressed, flagPressed)
	set(f.PanLeft, flagPanLeft)
	set(f.PanRight, flagPanRight)
	set(f.PanUp, flagPanUp)
	set(f.PanDown, flagPanDown)
	set(f.ZoomIn, flagZoomIn)
	set(f.ZoomOut, flagZoomOut)
	set(f.Center, flagCenter)
	return fl
}

func unpackFlags(fl uint16) control.Frame {
	return control.Frame{
		Dragging: fl&flagDragging != 0,
		Pressed:  fl&flagPressed != 0,
		PanLeft:  fl&flagPanLeft != 0,
		PanRight: fl&flagPanRight != 0,
		PanUp:    fl&flagPanUp != 0,
		PanDown:  fl&flagPanDown != 0,
		ZoomIn:   fl&flagZoomIn != 0,
		ZoomOut:  fl&flagZoomOut != 0,
		Center:   fl&flagCenter != 0,
	}
}
