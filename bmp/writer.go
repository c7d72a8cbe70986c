package bmp

import (
	"errors"
	"image"
	"image/draw"
	"io"

	"github.com/bodgit/raster/stream"
)

// Options are the encoding parameters. Density is the pixel density in
// pixels per meter written to both axes of the info header; zero means 2835,
// or 72 DPI.
type Options struct {
	Density int32
}

type encoder struct {
	w *stream.Writer

	width   int
	height  int
	density int32
}

func (e *encoder) writeHeaders() error {
	pixelBytes := uint32(e.width) * uint32(e.height) * 4

	if _, err := e.w.Write([]byte(magic)); err != nil {
		return err
	}
	if err := e.w.WriteUint32(headerSize + pixelBytes); err != nil {
		return err
	}
	if err := e.w.WriteUint16(0); err != nil {
		return err
	}
	if err := e.w.WriteUint16(0); err != nil {
		return err
	}
	if err := e.w.WriteUint32(headerSize); err != nil {
		return err
	}

	if err := e.w.WriteUint32(infoHeaderSize); err != nil {
		return err
	}
	if err := e.w.WriteInt32(int32(e.width)); err != nil {
		return err
	}
	if err := e.w.WriteInt32(int32(e.height)); err != nil {
		return err
	}
	if err := e.w.WriteUint16(1); err != nil {
		return err
	}
	if err := e.w.WriteUint16(32); err != nil {
		return err
	}
	if err := e.w.WriteUint32(compressionRGB); err != nil {
		return err
	}
	if err := e.w.WriteUint32(pixelBytes); err != nil {
		return err
	}
	if err := e.w.WriteInt32(e.density); err != nil {
		return err
	}
	if err := e.w.WriteInt32(e.density); err != nil {
		return err
	}
	if err := e.w.WriteUint32(0); err != nil {
		return err
	}

	return e.w.WriteUint32(0)
}

// Rows are written bottom-up. At 32 bits per pixel they are naturally
// aligned so no padding is needed.
func (e *encoder) writePixels(m *image.NRGBA) error {
	b := m.Bounds()
	row := make([]byte, e.width*4)
	for y := b.Max.Y - 1; y >= b.Min.Y; y-- {
		src := m.Pix[m.PixOffset(b.Min.X, y):]
		for x := 0; x < e.width; x++ {
			row[x*4+0] = src[x*4+2]
			row[x*4+1] = src[x*4+1]
			row[x*4+2] = src[x*4+0]
			row[x*4+3] = src[x*4+3]
		}
		if _, err := e.w.Write(row); err != nil {
			return err
		}
	}

	return nil
}

// Encode writes the Image m to w as an uncompressed 32 bits per pixel
// bottom-up bitmap. A nil Options writes the default pixel density.
func Encode(w io.Writer, m image.Image, o *Options) error {
	b := m.Bounds()
	if b.Dx() <= 0 || b.Dy() <= 0 {
		return errors.New("bmp: image has no pixels")
	}

	nm, ok := m.(*image.NRGBA)
	if !ok {
		nm = image.NewNRGBA(b)
		draw.Draw(nm, b, m, b.Min, draw.Src)
	}

	e := encoder{
		w:       stream.NewWriter(w),
		width:   b.Dx(),
		height:  b.Dy(),
		density: defaultDensity,
	}
	if o != nil && o.Density != 0 {
		e.density = o.Density
	}

	if err := e.writeHeaders(); err != nil {
		return err
	}

	return e.writePixels(nm)
}
