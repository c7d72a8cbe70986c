package bmp

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/bodgit/raster/stream"
)

// makeBMP assembles a bitmap file from its parts. The data offset is
// computed from the palette and gap lengths so pixel data need not follow
// the headers directly.
func makeBMP(t *testing.T, width, height int32, depth uint16, compression, colorsUsed uint32, palette, gap, pixels []byte) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := stream.NewWriter(&buf)

	offset := uint32(headerSize + len(palette) + len(gap))

	w.Write([]byte(magic))
	w.WriteUint32(offset + uint32(len(pixels)))
	w.WriteUint16(0)
	w.WriteUint16(0)
	w.WriteUint32(offset)

	w.WriteUint32(infoHeaderSize)
	w.WriteInt32(width)
	w.WriteInt32(height)
	w.WriteUint16(1)
	w.WriteUint16(depth)
	w.WriteUint32(compression)
	w.WriteUint32(uint32(len(pixels)))
	w.WriteInt32(defaultDensity)
	w.WriteInt32(defaultDensity)
	w.WriteUint32(colorsUsed)
	w.WriteUint32(0)

	buf.Write(palette)
	buf.Write(gap)
	buf.Write(pixels)

	return buf.Bytes()
}

// grayPalette returns n color table entries where entry i is the gray
// (i, i, i).
func grayPalette(n int) []byte {
	p := make([]byte, n*paletteEntrySize)
	for i := 0; i < n; i++ {
		p[i*4+0] = byte(i)
		p[i*4+1] = byte(i)
		p[i*4+2] = byte(i)
	}
	return p
}

func TestStride(t *testing.T) {
	tests := []struct {
		width, depth, want int
	}{
		{1, 8, 4},
		{2, 8, 4},
		{4, 8, 4},
		{5, 8, 8},
		{1, 24, 4},
		{2, 24, 8},
		{3, 24, 12},
		{4, 24, 12},
		{5, 24, 16},
		{1, 32, 4},
		{7, 32, 28},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, stride(tt.width, tt.depth), "stride(%d, %d)", tt.width, tt.depth)
	}
}

func TestDestRow(t *testing.T) {
	// A ten row bottom-up image stores the bottom display row first
	assert.Equal(t, 9, destRow(0, 10, false))
	assert.Equal(t, 0, destRow(9, 10, false))

	// A top-down image stores rows in display order
	assert.Equal(t, 0, destRow(0, 10, true))
	assert.Equal(t, 9, destRow(9, 10, true))
}
