/*
Package bmp implements an uncompressed Windows bitmap decoder and encoder.

A bitmap file begins with a 14 byte file header carrying the "BM" magic, the
total file size and the absolute offset of the pixel data, followed by a 40
byte info header carrying the dimensions, color depth and compression mode.
Images of 8 bits per pixel store a color table of 4 byte blue, green, red,
padding entries between the headers and the pixel data. Rows are padded to
four byte boundaries and are normally stored bottom-up; a negative height
marks them as stored top-down instead. All multi-byte values are
little-endian.

Only uncompressed images of 8, 24 or 32 bits per pixel are decoded. Encoding
always produces a 32 bits per pixel bottom-up image.
*/
package bmp

const magic = "BM"

const (
	fileHeaderSize   = 14
	infoHeaderSize   = 40
	headerSize       = fileHeaderSize + infoHeaderSize
	paletteEntrySize = 4
	implicitColors   = 256

	// 2835 pixels per meter is 72 DPI
	defaultDensity = 2835
)

// Compression modes defined by the info header. Only compressionRGB,
// meaning no compression at all, is supported.
const (
	compressionRGB = iota
	compressionRLE8
	compressionRLE4
	compressionBitfields
)

type fileHeader struct {
	fileSize   uint32
	reserved1  uint16
	reserved2  uint16
	dataOffset uint32
}

type infoHeader struct {
	headerSize      uint32
	width           int32
	height          int32
	planes          uint16
	bitsPerPixel    uint16
	compression     uint32
	imageSize       uint32
	xDensity        int32
	yDensity        int32
	colorsUsed      uint32
	colorsImportant uint32
}

// A FormatError reports that the input claimed to be a bitmap but was
// malformed or truncated.
type FormatError string

func (e FormatError) Error() string {
	return "bmp: " + string(e)
}

// An UnsupportedError reports that the input is not a bitmap this package
// can decode.
type UnsupportedError string

func (e UnsupportedError) Error() string {
	return "bmp: unsupported: " + string(e)
}

// stride returns the byte width of a row of the given depth, padded to a
// four byte boundary.
func stride(width, depth int) int {
	return (depth*width + 31) / 32 * 4
}

// destRow maps a scanline's position in the file to the image row it belongs
// to. Bottom-up files store the last display row first while top-down files
// store rows in display order.
func destRow(y, height int, topDown bool) int {
	if topDown {
		return y
	}
	return height - 1 - y
}
