package raster

import (
	"bytes"
	"errors"
	"image"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bodgit/raster/bmp"
)

func TestCatalog(t *testing.T) {
	c, err := NewCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer c.Close()

	thumb, err := encodeThumbnail(makeTestImage(4, 4), thumbEdge)
	require.NoError(t, err)

	e := Entry{
		Path:   "/images/a.png",
		Size:   123,
		SHA1:   "DA39A3EE5E6B4B0D3255BFEF95601890AFD80709",
		Format: "png",
		Width:  4,
		Height: 4,
	}
	require.NoError(t, c.Put(e, thumb))

	got, err := c.Entry("/images/a.png")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, e, *got)

	missing, err := c.Entry("/images/missing.png")
	require.NoError(t, err)
	assert.Nil(t, missing)

	// The stored thumbnail comes back as a decodable bitmap
	b, err := c.Thumbnail("/images/a.png")
	require.NoError(t, err)
	require.NotNil(t, b)

	m, err := bmp.Decode(bytes.NewReader(b))
	require.NoError(t, err)
	assert.Equal(t, image.Rect(0, 0, 4, 4), m.Bounds())

	// A second path with the same content hash shares the image row and
	// its thumbnail
	e2 := e
	e2.Path = "/images/b.png"
	require.NoError(t, c.Put(e2, nil))

	b2, err := c.Thumbnail("/images/b.png")
	require.NoError(t, err)
	assert.Equal(t, b, b2)

	var paths []string
	require.NoError(t, c.Each(func(e Entry) error {
		paths = append(paths, e.Path)
		return nil
	}))
	assert.Equal(t, []string{"/images/a.png", "/images/b.png"}, paths)

	boom := errors.New("boom")
	assert.Equal(t, boom, c.Each(func(Entry) error { return boom }))
}

func TestCatalogRescan(t *testing.T) {
	c, err := NewCatalog(filepath.Join(t.TempDir(), "catalog.db"))
	require.NoError(t, err)
	defer c.Close()

	e := Entry{
		Path:   "/images/a.png",
		Size:   100,
		SHA1:   "AAAA",
		Format: "png",
		Width:  1,
		Height: 1,
	}
	require.NoError(t, c.Put(e, nil))

	// Scanning the same path again replaces the file row
	e.Size = 200
	e.SHA1 = "BBBB"
	require.NoError(t, c.Put(e, nil))

	got, err := c.Entry("/images/a.png")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(200), got.Size)
	assert.Equal(t, "BBBB", got.SHA1)

	n := 0
	require.NoError(t, c.Each(func(Entry) error {
		n++
		return nil
	}))
	assert.Equal(t, 1, n)
}

func TestCompress(t *testing.T) {
	in := bytes.Repeat([]byte("raster"), 512)

	z, err := compress(in)
	require.NoError(t, err)
	assert.True(t, len(z) < len(in))

	out, err := decompress(z)
	require.NoError(t, err)
	assert.Equal(t, in, out)
}

func TestThumbnail(t *testing.T) {
	// Images already within the bound pass through untouched
	small := makeTestImage(16, 16)
	got, ok := thumbnail(small, thumbEdge).(*image.NRGBA)
	require.True(t, ok)
	assert.Equal(t, small, got)

	wide := thumbnail(makeTestImage(640, 200), thumbEdge).Bounds()
	assert.Equal(t, 128, wide.Dx())
	assert.Equal(t, 40, wide.Dy())

	tall := thumbnail(makeTestImage(100, 400), thumbEdge).Bounds()
	assert.Equal(t, 32, tall.Dx())
	assert.Equal(t, 128, tall.Dy())

	// Extreme ratios never collapse to zero
	line := thumbnail(makeTestImage(1000, 1), thumbEdge).Bounds()
	assert.Equal(t, 128, line.Dx())
	assert.Equal(t, 1, line.Dy())
}
