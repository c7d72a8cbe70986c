package raster

import (
	"bytes"
	"errors"
	"image"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// ErrUnknownFormat is returned when no registered format recognizes a
// stream.
var ErrUnknownFormat = errors.New("raster: unknown image format")

// Format is a single image file format. Probe reports whether the stream
// looks like this format; it may read freely without restoring the stream
// position and never returns an error, so a caller trying several formats
// rewinds between attempts. Decode reads a whole image from the stream and
// Encode writes one out.
type Format interface {
	Name() string
	Probe(r io.ReadSeeker) bool
	Decode(r io.ReadSeeker) (image.Image, error)
	Encode(w io.Writer, m image.Image) error
}

type registration struct {
	format     Format
	extensions []string
}

// Registry is an ordered list of formats. Lookups try formats in
// registration order and the first match wins.
type Registry struct {
	formats []registration
}

func NewRegistry() *Registry {
	return &Registry{}
}

// Register appends a format and the filename extensions it claims to the
// registry.
func (reg *Registry) Register(f Format, extensions ...string) {
	reg.formats = append(reg.formats, registration{f, extensions})
}

// FormatForStream probes each registered format in turn, restoring the
// stream position after every probe, and returns the first format that
// recognizes the stream or nil if none does.
func (reg *Registry) FormatForStream(r io.ReadSeeker) (Format, error) {
	pos, err := r.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	for _, x := range reg.formats {
		ok := x.format.Probe(r)
		if _, err := r.Seek(pos, io.SeekStart); err != nil {
			return nil, err
		}
		if ok {
			return x.format, nil
		}
	}
	return nil, nil
}

// FormatForExtension returns the first registered format claiming the
// extension of name, or nil. The comparison is case-insensitive and name
// may be a full path or a bare extension with or without the leading dot.
func (reg *Registry) FormatForExtension(name string) Format {
	ext := strings.ToLower(filepath.Ext(name))
	if ext == "" {
		ext = "." + strings.TrimPrefix(strings.ToLower(name), ".")
	}
	for _, x := range reg.formats {
		for _, e := range x.extensions {
			if "."+e == ext {
				return x.format
			}
		}
	}
	return nil
}

// Decode probes r and decodes it with the first matching format, returning
// the image along with the format that claimed it. ErrUnknownFormat is
// returned when nothing matches.
func (reg *Registry) Decode(r io.ReadSeeker) (image.Image, Format, error) {
	f, err := reg.FormatForStream(r)
	if err != nil {
		return nil, nil, err
	}
	if f == nil {
		return nil, nil, ErrUnknownFormat
	}
	m, err := f.Decode(r)
	if err != nil {
		return nil, f, err
	}
	return m, f, nil
}

// DecodeFile decodes the image file at path.
func (reg *Registry) DecodeFile(path string) (image.Image, Format, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, err
	}
	defer f.Close()

	return reg.Decode(f)
}

// DecodeBytes decodes an in-memory image file.
func (reg *Registry) DecodeBytes(b []byte) (image.Image, Format, error) {
	return reg.Decode(bytes.NewReader(b))
}
