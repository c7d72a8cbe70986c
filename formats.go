package raster

import (
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"

	"github.com/bodgit/raster/bmp"
	"github.com/chai2010/webp"
	"github.com/ericpauley/go-quantize/quantize"
	"github.com/xfmoulet/qoi"
)

// DefaultRegistry returns a new registry with every built-in format
// registered in probe order.
func DefaultRegistry() *Registry {
	reg := NewRegistry()
	reg.Register(BMP{}, "bmp")
	reg.Register(PNG{}, "png")
	reg.Register(JPEG{}, "jpg", "jpeg")
	reg.Register(GIF{}, "gif")
	reg.Register(QOI{}, "qoi")
	reg.Register(WebP{}, "webp")
	return reg
}

func probeMagic(r io.Reader, magic string) bool {
	b := make([]byte, len(magic))
	if _, err := io.ReadFull(r, b); err != nil {
		return false
	}
	return string(b) == magic
}

// BMP is the uncompressed Windows bitmap format implemented by the bmp
// sub-package. Its probe reads the full header and applies the same
// structural checks decoding does.
type BMP struct{}

func (BMP) Name() string { return "bmp" }

func (BMP) Probe(r io.ReadSeeker) bool { return bmp.ProbeStrict(r) }

func (BMP) Decode(r io.ReadSeeker) (image.Image, error) { return bmp.Decode(r) }

func (BMP) Encode(w io.Writer, m image.Image) error { return bmp.Encode(w, m, nil) }

// PNG wraps the standard library PNG codec.
type PNG struct{}

func (PNG) Name() string { return "png" }

func (PNG) Probe(r io.ReadSeeker) bool { return probeMagic(r, "\x89PNG\r\n\x1a\n") }

func (PNG) Decode(r io.ReadSeeker) (image.Image, error) { return png.Decode(r) }

func (PNG) Encode(w io.Writer, m image.Image) error { return png.Encode(w, m) }

// JPEG wraps the standard library JPEG codec. Quality runs from 1 to 100;
// zero means jpeg.DefaultQuality.
type JPEG struct {
	Quality int
}

func (JPEG) Name() string { return "jpeg" }

func (JPEG) Probe(r io.ReadSeeker) bool { return probeMagic(r, "\xff\xd8") }

func (JPEG) Decode(r io.ReadSeeker) (image.Image, error) { return jpeg.Decode(r) }

func (f JPEG) Encode(w io.Writer, m image.Image) error {
	q := f.Quality
	if q == 0 {
		q = jpeg.DefaultQuality
	}
	return jpeg.Encode(w, m, &jpeg.Options{Quality: q})
}

// GIF wraps the standard library GIF codec; multi-frame images decode as
// their first frame. NumColors bounds the encoded palette size, zero
// meaning 256, and encoding quantizes with the median cut algorithm.
type GIF struct {
	NumColors int
}

func (GIF) Name() string { return "gif" }

func (GIF) Probe(r io.ReadSeeker) bool { return probeMagic(r, "GIF8") }

func (GIF) Decode(r io.ReadSeeker) (image.Image, error) { return gif.Decode(r) }

func (f GIF) Encode(w io.Writer, m image.Image) error {
	n := f.NumColors
	if n == 0 {
		n = 256
	}
	return gif.Encode(w, m, &gif.Options{
		NumColors: n,
		Quantizer: quantize.MedianCutQuantizer{},
	})
}

// QOI wraps the Quite OK Image codec.
type QOI struct{}

func (QOI) Name() string { return "qoi" }

func (QOI) Probe(r io.ReadSeeker) bool { return probeMagic(r, "qoif") }

func (QOI) Decode(r io.ReadSeeker) (image.Image, error) { return qoi.Decode(r) }

func (QOI) Encode(w io.Writer, m image.Image) error { return qoi.Encode(w, m) }

// WebP wraps the libwebp bindings. Quality is the lossy encoding quality
// from 1 to 100, zero meaning 90. Lossless ignores Quality.
type WebP struct {
	Quality  float32
	Lossless bool
}

func (WebP) Name() string { return "webp" }

func (WebP) Probe(r io.ReadSeeker) bool {
	var b [12]byte
	if _, err := io.ReadFull(r, b[:]); err != nil {
		return false
	}
	return string(b[0:4]) == "RIFF" && string(b[8:12]) == "WEBP"
}

func (WebP) Decode(r io.ReadSeeker) (image.Image, error) { return webp.Decode(r) }

func (f WebP) Encode(w io.Writer, m image.Image) error {
	q := f.Quality
	if q == 0 {
		q = 90
	}
	return webp.Encode(w, m, &webp.Options{Lossless: f.Lossless, Quality: q})
}
