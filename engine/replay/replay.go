// Package replay records controller input per tick and plays it back, so a
// camera session can be reproduced exactly.
package replay

import (
	"bufio"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/1siamBot/fitview/engine/control"
)

// magic and version open every replay stream
var magic = [4]byte{'F', 'V', 'R', 'P'}

const version uint16 = 1

var ErrBadHeader = errors.New("replay: not a replay stream")

// Sink receives replayed input. *control.Controller implements it.
type Sink interface {
	Resize(screenW, screenH int) bool
	Apply(f control.Frame)
}

// Recorder writes input to a replay file
type Recorder struct {
	file   *os.File
	writer *bufio.Writer
	tick   uint64
	count  int
}

// NewRecorder creates a replay file for recording
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	r := &Recorder{file: f, writer: bufio.NewWriter(f)}
	if err := writeHeader(r.writer); err != nil {
		f.Close()
		return nil, err
	}
	return r, nil
}

func writeHeader(w io.Writer) error {
	if _, err := w.Write(magic[:]); err != nil {
		return err
	}
	return binary.Write(w, binary.LittleEndian, version)
}

func readHeader(r io.Reader) error {
	var m [4]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	var v uint16
	if err := binary.Read(r, binary.LittleEndian, &v); err != nil {
		return fmt.Errorf("%w: %v", ErrBadHeader, err)
	}
	if m != magic || v != version {
		return fmt.Errorf("%w: magic %q version %d", ErrBadHeader, m[:], v)
	}
	return nil
}

// Resize records a screen size change at the current tick
func (r *Recorder) Resize(w, h int) error {
	return r.write(Record{Tick: r.tick, Kind: KindResize, ScreenW: w, ScreenH: h})
}

// Frame records a frame at the current tick. Empty frames are skipped.
func (r *Recorder) Frame(f control.Frame) error {
	if f == (control.Frame{}) {
		return nil
	}
	return r.write(Record{Tick: r.tick, Kind: KindFrame, Frame: f})
}

func (r *Recorder) write(rec Record) error {
	if err := rec.Encode(r.writer); err != nil {
		return err
	}
	r.count++
	return nil
}

// Advance moves to the next tick
func (r *Recorder) Advance() { r.tick++ }

// Count returns the number of records written
func (r *Recorder) Count() int { return r.count }

// Close flushes and closes the replay file
func (r *Recorder) Close() error {
	if r.writer != nil {
		if err := r.writer.Flush(); err != nil {
			r.file.Close()
			return err
		}
	}
	if r.file != nil {
		return r.file.Close()
	}
	return nil
}

// Replay holds a loaded recording and the playback position
type Replay struct {
	Records []Record
	pos     int
	tick    uint64
}

// Load reads a replay file
func Load(path string) (*Replay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(bufio.NewReader(f))
}

// Read decodes a replay stream. A record cut short is an error.
func Read(rd io.Reader) (*Replay, error) {
	if err := readHeader(rd); err != nil {
		return nil, err
	}
	p := &Replay{}
	for {
		var rec Record
		err := rec.Decode(rd)
		if errors.Is(err, io.EOF) {
			return p, nil
		}
		if err != nil {
			return nil, fmt.Errorf("replay record %d: %w", len(p.Records), err)
		}
		p.Records = append(p.Records, rec)
	}
}

// Step feeds every record of the current tick to s and advances one tick.
// It returns the number of records applied.
func (p *Replay) Step(s Sink) int {
	n := 0
	for p.pos < len(p.Records) && p.Records[p.pos].Tick <= p.tick {
		rec := p.Records[p.pos]
		switch rec.Kind {
		case KindResize:
			s.Resize(rec.ScreenW, rec.ScreenH)
		case KindFrame:
			s.Apply(rec.Frame)
		}
		p.pos++
		n++
	}
	p.tick++
	return n
}

// Tick returns the next tick Step will play
func (p *Replay) Tick() uint64 { return p.tick }

// Done reports whether every record has been played
func (p *Replay) Done() bool { return p.pos >= len(p.Records) }

// ScreenSize returns the most recent screen size played so far
func (p *Replay) ScreenSize() (w, h int, ok bool) {
	for i := p.pos - 1; i >= 0; i-- {
		if p.Records[i].Kind == KindResize {
			return p.Records[i].ScreenW, p.Records[i].ScreenH, true
		}
	}
	return 0, 0, false
}
