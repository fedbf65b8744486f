// Package debug renders globe rasters to images for screenshots and the
// debug server.
package debug

import (
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/Faultbox/geoglobe/internal/view"
	"github.com/Faultbox/geoglobe/pkg/math"
)

var (
	colorSpace    = color.RGBA{R: 5, G: 7, B: 18, A: 255}
	colorNight    = color.RGBA{R: 12, G: 24, B: 64, A: 255}
	colorDay      = color.RGBA{R: 64, G: 156, B: 230, A: 255}
	colorTwilight = color.RGBA{R: 222, G: 128, B: 72, A: 255}
	colorCloud    = color.RGBA{R: 235, G: 240, B: 245, A: 255}
	colorCountry  = color.RGBA{R: 200, G: 220, B: 255, A: 255}
	colorMarker   = color.RGBA{R: 255, G: 200, B: 64, A: 255}
	colorSelected = color.RGBA{R: 255, G: 72, B: 72, A: 255}
	colorPanel    = color.RGBA{R: 16, G: 20, B: 40, A: 255}
	colorText     = color.RGBA{R: 240, G: 240, B: 250, A: 255}
)

// captionPad is the margin around caption text in pixels.
const captionPad = 4

// Image paints r with each cell as a size×size square.
func Image(r *view.Raster, size int) *image.RGBA {
	if size <= 0 {
		size = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, r.Cols*size, r.Rows*size))
	for row := 0; row < r.Rows; row++ {
		for col := 0; col < r.Cols; col++ {
			c := CellColor(r.At(col, row))
			for y := row * size; y < (row+1)*size; y++ {
				for x := col * size; x < (col+1)*size; x++ {
					img.SetRGBA(x, y, c)
				}
			}
		}
	}
	return img
}

// CellColor is the color of one raster cell.
func CellColor(c view.Cell) color.RGBA {
	switch {
	case c.Selected:
		return colorSelected
	case c.Marker >= 0:
		return colorMarker
	case c.Shade == view.Space:
		return colorSpace
	}

	out := lerp(colorNight, colorDay, math.Clamp((c.Light+0.1)/0.5, 0, 1))
	if c.Shade == view.Twilight {
		out = lerp(out, colorTwilight, 0.35)
	}
	if c.Border {
		out = lerp(out, colorCountry, 0.6)
	}
	if c.Cloud {
		if c.Shade == view.Night {
			out = lerp(out, colorCloud, 0.15)
		} else {
			out = lerp(out, colorCloud, 0.7)
		}
	}
	return out
}

func lerp(a, b color.RGBA, t float64) color.RGBA {
	mix := func(x, y uint8) uint8 {
		return uint8(float64(x) + (float64(y)-float64(x))*t + 0.5)
	}
	return color.RGBA{R: mix(a.R, b.R), G: mix(a.G, b.G), B: mix(a.B, b.B), A: 255}
}

// Caption draws lines in a box at the top-left corner of img.
func Caption(img *image.RGBA, lines []string) {
	if len(lines) == 0 {
		return
	}
	face := basicfont.Face7x13
	m := face.Metrics()
	lineH := m.Height.Ceil()

	d := &font.Drawer{Dst: img, Src: image.NewUniform(colorText), Face: face}
	width := 0
	for _, l := range lines {
		width = max(width, d.MeasureString(l).Ceil())
	}
	box := image.Rect(0, 0, width+2*captionPad, len(lines)*lineH+2*captionPad)
	draw.Draw(img, box.Intersect(img.Bounds()), image.NewUniform(colorPanel), image.Point{}, draw.Src)

	for i, l := range lines {
		d.Dot = fixed.P(captionPad, captionPad+m.Ascent.Ceil()+i*lineH)
		d.DrawString(l)
	}
}

// EncodePNG writes img as a PNG.
func EncodePNG(w io.Writer, img image.Image) error {
	return png.Encode(w, img)
}

// ScreenshotCapture saves rasters as timestamped PNG files.
type ScreenshotCapture struct {
	outputDir string
	prefix    string
	now       func() time.Time
}

// NewScreenshotCapture creates a new screenshot capture handler.
func NewScreenshotCapture(outputDir, prefix string) *ScreenshotCapture {
	return &ScreenshotCapture{
		outputDir: outputDir,
		prefix:    prefix,
		now:       time.Now,
	}
}

// Capture saves img and returns the file name.
func (sc *ScreenshotCapture) Capture(img image.Image) (string, error) {
	// Create output directory if needed
	if sc.outputDir != "" {
		if err := os.MkdirAll(sc.outputDir, 0755); err != nil {
			return "", fmt.Errorf("creating output dir: %w", err)
		}
	}

	filename := sc.GenerateFilename()
	file, err := os.Create(filename)
	if err != nil {
		return "", fmt.Errorf("creating file: %w", err)
	}
	defer file.Close()

	if err := EncodePNG(file, img); err != nil {
		return "", fmt.Errorf("encoding PNG: %w", err)
	}
	return filename, nil
}

// GenerateFilename generates a screenshot filename without saving.
func (sc *ScreenshotCapture) GenerateFilename() string {
	timestamp := sc.now().Format("2006-01-02_15-04-05.000")
	filename := fmt.Sprintf("%s_%s.png", sc.prefix, timestamp)
	if sc.outputDir != "" {
		filename = filepath.Join(sc.outputDir, filename)
	}
	return filename
}
