package output

import (
	"bufio"
	"fmt"
	"io"

	"github.com/df07/go-sphere-raytracer/pkg/core"
)

// PPMWriter is a streaming Sink that writes a plain-text (P3) PPM image
type PPMWriter struct {
	w       *bufio.Writer
	width   int
	height  int
	written int
}

// NewPPMWriter writes the PPM header and returns a sink for width×height pixels
func NewPPMWriter(w io.Writer, width, height int) (*PPMWriter, error) {
	bw := bufio.NewWriter(w)
	if _, err := fmt.Fprintf(bw, "P3\n%d %d\n255\n", width, height); err != nil {
		return nil, fmt.Errorf("failed to write PPM header: %w", err)
	}
	return &PPMWriter{w: bw, width: width, height: height}, nil
}

// WritePixel writes one gamma-corrected, quantized pixel
func (p *PPMWriter) WritePixel(c core.Vec3) error {
	if p.written >= p.width*p.height {
		return fmt.Errorf("PPM image full: %dx%d pixels already written", p.width, p.height)
	}
	rgba := ToRGBA(c)
	if _, err := fmt.Fprintf(p.w, "%d %d %d\n", rgba.R, rgba.G, rgba.B); err != nil {
		return fmt.Errorf("failed to write PPM pixel %d: %w", p.written, err)
	}
	p.written++
	return nil
}

// Close flushes buffered output. It fails if fewer pixels than declared were written.
func (p *PPMWriter) Close() error {
	if err := p.w.Flush(); err != nil {
		return fmt.Errorf("failed to flush PPM output: %w", err)
	}
	if p.written != p.width*p.height {
		return fmt.Errorf("incomplete PPM image: wrote %d of %d pixels", p.written, p.width*p.height)
	}
	return nil
}

// WritePPM writes a whole framebuffer as a P3 PPM image
func WritePPM(w io.Writer, fb *Framebuffer) error {
	ppm, err := NewPPMWriter(w, fb.Width, fb.Height)
	if err != nil {
		return err
	}
	for y := 0; y < fb.Height; y++ {
		row := y
		if fb.BottomUp {
			row = fb.Height - 1 - y
		}
		for x := 0; x < fb.Width; x++ {
			if err := ppm.WritePixel(fb.At(x, row)); err != nil {
				return err
			}
		}
	}
	return ppm.Close()
}
