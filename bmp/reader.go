package bmp

import (
	"fmt"
	"image"
	"image/color"
	"io"

	"github.com/bodgit/raster/stream"
)

type decoder struct {
	r *stream.Reader

	file fileHeader
	info infoHeader

	width   int
	height  int
	topDown bool

	palette []color.NRGBA
	image   *image.NRGBA
}

func (d *decoder) readFileHeader() error {
	var m [2]byte
	if err := d.r.ReadFull(m[:]); err != nil {
		return FormatError("truncated file header")
	}
	if m[0] != magic[0] || m[1] != magic[1] {
		return UnsupportedError("bad magic")
	}

	var err error
	if d.file.fileSize, err = d.r.ReadUint32(); err != nil {
		return FormatError("truncated file header")
	}
	if d.file.reserved1, err = d.r.ReadUint16(); err != nil {
		return FormatError("truncated file header")
	}
	if d.file.reserved2, err = d.r.ReadUint16(); err != nil {
		return FormatError("truncated file header")
	}
	if d.file.dataOffset, err = d.r.ReadUint32(); err != nil {
		return FormatError("truncated file header")
	}

	return nil
}

func (d *decoder) readInfoHeader() error {
	var err error
	if d.info.headerSize, err = d.r.ReadUint32(); err != nil {
		return FormatError("truncated info header")
	}
	if d.info.width, err = d.r.ReadInt32(); err != nil {
		return FormatError("truncated info header")
	}
	if d.info.height, err = d.r.ReadInt32(); err != nil {
		return FormatError("truncated info header")
	}
	if d.info.planes, err = d.r.ReadUint16(); err != nil {
		return FormatError("truncated info header")
	}
	if d.info.bitsPerPixel, err = d.r.ReadUint16(); err != nil {
		return FormatError("truncated info header")
	}
	if d.info.compression, err = d.r.ReadUint32(); err != nil {
		return FormatError("truncated info header")
	}
	if d.info.imageSize, err = d.r.ReadUint32(); err != nil {
		return FormatError("truncated info header")
	}
	if d.info.xDensity, err = d.r.ReadInt32(); err != nil {
		return FormatError("truncated info header")
	}
	if d.info.yDensity, err = d.r.ReadInt32(); err != nil {
		return FormatError("truncated info header")
	}
	if d.info.colorsUsed, err = d.r.ReadUint32(); err != nil {
		return FormatError("truncated info header")
	}
	if d.info.colorsImportant, err = d.r.ReadUint32(); err != nil {
		return FormatError("truncated info header")
	}

	return nil
}

func (d *decoder) readColorTable() error {
	n := int(d.info.colorsUsed)
	if n == 0 {
		n = implicitColors
	}
	if int64(n)*paletteEntrySize > d.r.Remaining() {
		return FormatError("truncated color table")
	}

	d.palette = make([]color.NRGBA, n)
	var tmp [paletteEntrySize]byte
	for i := range d.palette {
		if err := d.r.ReadFull(tmp[:]); err != nil {
			return FormatError("truncated color table")
		}
		// Each entry is stored as blue, green, red, padding
		d.palette[i] = color.NRGBA{tmp[2], tmp[1], tmp[0], 0xff}
	}

	return nil
}

func (d *decoder) decodeScanlines(rowBytes int) error {
	row := make([]byte, rowBytes)
	for y := 0; y < d.height; y++ {
		if err := d.r.ReadFull(row); err != nil {
			return FormatError("truncated pixel data")
		}

		dst := d.image.Pix[destRow(y, d.height, d.topDown)*d.image.Stride:]

		switch d.info.bitsPerPixel {
		case 8:
			for x := 0; x < d.width; x++ {
				if int(row[x]) >= len(d.palette) {
					return FormatError("palette index out of range")
				}
				c := d.palette[row[x]]
				dst[x*4+0] = c.R
				dst[x*4+1] = c.G
				dst[x*4+2] = c.B
				dst[x*4+3] = 0xff
			}
		case 24:
			for x := 0; x < d.width; x++ {
				dst[x*4+0] = row[x*3+2]
				dst[x*4+1] = row[x*3+1]
				dst[x*4+2] = row[x*3+0]
				dst[x*4+3] = 0xff
			}
		case 32:
			for x := 0; x < d.width; x++ {
				dst[x*4+0] = row[x*4+2]
				dst[x*4+1] = row[x*4+1]
				dst[x*4+2] = row[x*4+0]
				dst[x*4+3] = row[x*4+3]
			}
		}
	}

	return nil
}

func (d *decoder) decode(r *stream.Reader, configOnly bool) error {
	d.r = r

	if err := d.readFileHeader(); err != nil {
		return err
	}
	if err := d.readInfoHeader(); err != nil {
		return err
	}

	if d.info.compression != compressionRGB {
		return UnsupportedError(fmt.Sprintf("compression mode %d", d.info.compression))
	}
	switch d.info.bitsPerPixel {
	case 8, 24, 32:
	default:
		return UnsupportedError(fmt.Sprintf("%d bits per pixel", d.info.bitsPerPixel))
	}

	d.topDown = d.info.height < 0
	d.width = int(d.info.width)
	d.height = int(d.info.height)
	if d.topDown {
		d.height = -d.height
	}
	if d.width <= 0 || d.height <= 0 {
		return UnsupportedError(fmt.Sprintf("%dx%d image", d.width, d.height))
	}

	if configOnly {
		return nil
	}

	if d.info.bitsPerPixel == 8 {
		if err := d.readColorTable(); err != nil {
			return err
		}
	}

	// The pixel data lives wherever the file header says it does, which is
	// not necessarily straight after the headers and color table.
	if err := d.r.SetPosition(int64(d.file.dataOffset)); err != nil {
		return err
	}

	rowBytes := stride(d.width, int(d.info.bitsPerPixel))
	if int64(rowBytes)*int64(d.height) > d.r.Remaining() {
		return FormatError("truncated pixel data")
	}

	d.image = image.NewNRGBA(image.Rect(0, 0, d.width, d.height))

	return d.decodeScanlines(rowBytes)
}

// Decode reads a bitmap from rs and returns it as an image.Image. The
// returned image is always an *image.NRGBA; 8 and 24 bits per pixel input
// decodes as fully opaque while 32 bits per pixel input keeps its alpha
// channel as stored.
func Decode(rs io.ReadSeeker) (image.Image, error) {
	r, err := stream.NewReader(rs)
	if err != nil {
		return nil, err
	}
	var d decoder
	if err := d.decode(r, false); err != nil {
		return nil, err
	}
	return d.image, nil
}

// DecodeConfig returns the color model and dimensions of a bitmap without
// decoding the entire image.
func DecodeConfig(rs io.ReadSeeker) (image.Config, error) {
	r, err := stream.NewReader(rs)
	if err != nil {
		return image.Config{}, err
	}
	var d decoder
	if err := d.decode(r, true); err != nil {
		return image.Config{}, err
	}
	return image.Config{
		ColorModel: color.NRGBAModel,
		Width:      d.width,
		Height:     d.height,
	}, nil
}

// Probe reports whether r starts with the bitmap magic bytes. It reads at
// most two bytes and does not restore the position of r.
func Probe(r io.Reader) bool {
	var m [2]byte
	if _, err := io.ReadFull(r, m[:]); err != nil {
		return false
	}
	return m[0] == magic[0] && m[1] == magic[1]
}

// ProbeStrict reads the full header from rs and reports whether it describes
// a bitmap this package can decode, applying the same structural checks as
// Decode. Like Probe it leaves the stream position wherever reading stopped.
func ProbeStrict(rs io.ReadSeeker) bool {
	r, err := stream.NewReader(rs)
	if err != nil {
		return false
	}
	var d decoder
	return d.decode(r, true) == nil
}
