package output

import (
	"fmt"
	"image"
	"image/color"

	"github.com/df07/go-sphere-raytracer/pkg/core"
	"github.com/disintegration/imaging"
)

// DisplayGamma is the gamma applied when converting linear color to 8-bit.
// Gamma 2 makes the conversion a square root.
const DisplayGamma = 2.0

// Sink consumes linear RGB pixels in row-major order, top row first
type Sink interface {
	WritePixel(c core.Vec3) error
}

// Framebuffer holds linear RGB values for a width×height image in row-major order
type Framebuffer struct {
	Width  int
	Height int
	Pixels []core.Vec3
	// BottomUp marks pixels stored bottom row first; Image flips them upright
	BottomUp bool
	next     int // Write cursor for WritePixel
}

// NewFramebuffer creates a black framebuffer
func NewFramebuffer(width, height int) *Framebuffer {
	return &Framebuffer{
		Width:  width,
		Height: height,
		Pixels: make([]core.Vec3, width*height),
	}
}

// WritePixel stores c at the write cursor and advances it
func (f *Framebuffer) WritePixel(c core.Vec3) error {
	if f.next >= len(f.Pixels) {
		return fmt.Errorf("framebuffer full: %dx%d pixels already written", f.Width, f.Height)
	}
	f.Pixels[f.next] = c
	f.next++
	return nil
}

// Set stores the linear color of pixel (x, y)
func (f *Framebuffer) Set(x, y int, c core.Vec3) {
	f.Pixels[y*f.Width+x] = c
}

// At returns the linear color of pixel (x, y)
func (f *Framebuffer) At(x, y int) core.Vec3 {
	return f.Pixels[y*f.Width+x]
}

// Written returns how many pixels WritePixel has stored
func (f *Framebuffer) Written() int {
	return f.next
}

// Image converts the framebuffer to a displayable 8-bit image, top row first
func (f *Framebuffer) Image() image.Image {
	img := image.NewRGBA(image.Rect(0, 0, f.Width, f.Height))
	for y := 0; y < f.Height; y++ {
		for x := 0; x < f.Width; x++ {
			img.SetRGBA(x, y, ToRGBA(f.At(x, y)))
		}
	}
	if f.BottomUp {
		return imaging.FlipV(img)
	}
	return img
}

// ToRGBA converts a linear color to RGBA with gamma correction and clamping.
// Overshoot above 1.0 and non-finite components are clamped.
func ToRGBA(colorVec core.Vec3) color.RGBA {
	if !colorVec.IsFinite() {
		colorVec = sanitize(colorVec)
	}

	colorVec = colorVec.GammaCorrect(DisplayGamma)
	colorVec = colorVec.Clamp(0.0, 1.0)

	return color.RGBA{
		R: uint8(255 * colorVec.X),
		G: uint8(255 * colorVec.Y),
		B: uint8(255 * colorVec.Z),
		A: 255,
	}
}

// sanitize maps NaN to 0 and keeps the sign of infinities so clamping
// sends them to the nearest bound
func sanitize(v core.Vec3) core.Vec3 {
	fix := func(c float64) float64 {
		if c != c {
			return 0
		}
		return c
	}
	return core.NewVec3(fix(v.X), fix(v.Y), fix(v.Z))
}
