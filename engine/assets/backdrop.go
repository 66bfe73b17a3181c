// Package assets builds the world backdrop image: either a PNG scaled to the
// world size or a generated checkerboard. It has no ebiten dependency.
package assets

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"
	"os"
	"path/filepath"

	"golang.org/x/image/colornames"
	xdraw "golang.org/x/image/draw"
)

// MaxBackdropSide caps either side of a backdrop image in pixels
const MaxBackdropSide = 4096

var ErrEmptyWorld = errors.New("world size must be positive")

// BackdropSize returns the pixel size of a backdrop covering a world of
// worldW x worldH units, plus the number of pixels per world unit.
func BackdropSize(worldW, worldH float64) (w, h int, scale float64, err error) {
	if worldW <= 0 || worldH <= 0 {
		return 0, 0, 0, ErrEmptyWorld
	}
	scale = 1
	if side := math.Max(worldW, worldH); side > MaxBackdropSide {
		scale = MaxBackdropSide / side
	}
	w = max(1, int(math.Round(worldW*scale)))
	h = max(1, int(math.Round(worldH*scale)))
	return w, h, scale, nil
}

// Palette colors a generated backdrop
type Palette struct {
	Light, Dark, Grid color.RGBA
}

func DefaultPalette() Palette {
	return Palette{
		Light: colornames.Darkslategray,
		Dark:  colornames.Darkslateblue,
		Grid:  colornames.Lightslategray,
	}
}

// Checkerboard draws a w x h board with square cells of cell pixels and a
// one pixel grid line on each cell's top and left edge.
func Checkerboard(w, h, cell int, p Palette) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	if cell < 1 {
		cell = 1
	}
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			c := p.Light
			if (x/cell+y/cell)%2 == 1 {
				c = p.Dark
			}
			if cell > 2 && (x%cell == 0 || y%cell == 0) {
				c = p.Grid
			}
			img.SetRGBA(x, y, c)
		}
	}
	return img
}

// Scale resamples src to w x h
func Scale(src image.Image, w, h int) *image.RGBA {
	dst := image.NewRGBA(image.Rect(0, 0, w, h))
	xdraw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Over, nil)
	return dst
}

// LoadBackdrop decodes the PNG at path and scales it to the backdrop size of
// the world.
func LoadBackdrop(path string, worldW, worldH float64) (*image.RGBA, error) {
	w, h, _, err := BackdropSize(worldW, worldH)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open backdrop: %w", err)
	}
	defer f.Close()
	src, err := png.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode backdrop %s: %w", path, err)
	}
	return Scale(src, w, h), nil
}

// Backdrop returns the image for a world: the PNG at path when set, a
// checkerboard with cells of cellSize world units otherwise.
func Backdrop(path string, worldW, worldH, cellSize float64) (*image.RGBA, error) {
	if path != "" {
		return LoadBackdrop(path, worldW, worldH)
	}
	w, h, scale, err := BackdropSize(worldW, worldH)
	if err != nil {
		return nil, err
	}
	if cellSize <= 0 {
		cellSize = math.Max(worldW, worldH) / 32
	}
	return Checkerboard(w, h, int(math.Round(cellSize*scale)), DefaultPalette()), nil
}

// SavePNG writes img to path, creating parent directories
func SavePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	out, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(out, img); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}
