package raster

import (
	"bytes"
	"image"
	"io"

	"github.com/klauspost/compress/zstd"
	"golang.org/x/image/draw"

	"github.com/bodgit/raster/bmp"
)

// Thumbnails are stored as zstd-compressed uncompressed bitmaps bounded to
// this edge length.
const thumbEdge = 128

// thumbnail scales m down so its longest edge is at most edge pixels,
// preserving the aspect ratio. Images already within the bound are returned
// as is.
func thumbnail(m image.Image, edge int) image.Image {
	b := m.Bounds()
	w, h := b.Dx(), b.Dy()
	if w <= edge && h <= edge {
		return m
	}

	if w > h {
		h = h * edge / w
		if h < 1 {
			h = 1
		}
		w = edge
	} else {
		w = w * edge / h
		if w < 1 {
			w = 1
		}
		h = edge
	}

	dst := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.ApproxBiLinear.Scale(dst, dst.Bounds(), m, b, draw.Src, nil)

	return dst
}

// encodeThumbnail produces the compressed bitmap blob stored in the catalog.
func encodeThumbnail(m image.Image, edge int) ([]byte, error) {
	var buf bytes.Buffer
	if err := bmp.Encode(&buf, thumbnail(m, edge), nil); err != nil {
		return nil, err
	}
	return compress(buf.Bytes())
}

func compress(b []byte) ([]byte, error) {
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err := enc.Write(b); err != nil {
		enc.Close()
		return nil, err
	}
	if err := enc.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decompress(b []byte) ([]byte, error) {
	dec, err := zstd.NewReader(bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	defer dec.Close()

	return io.ReadAll(dec)
}
