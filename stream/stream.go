/*
Package stream provides little-endian readers and writers for binary image
file formats.

Reader wraps a seekable byte stream and adds typed little-endian reads, an
absolute seek and a bytes-remaining query. Writer wraps a plain byte stream
with the matching typed writes. Both track the current position.
*/
package stream

import (
	"encoding/binary"
	"io"
)

type Reader struct {
	rs   io.ReadSeeker
	size int64
	pos  int64
	tmp  [4]byte
}

// NewReader measures the total size of rs and returns a Reader positioned
// wherever rs currently is.
func NewReader(rs io.ReadSeeker) (*Reader, error) {
	pos, err := rs.Seek(0, io.SeekCurrent)
	if err != nil {
		return nil, err
	}
	size, err := rs.Seek(0, io.SeekEnd)
	if err != nil {
		return nil, err
	}
	if _, err := rs.Seek(pos, io.SeekStart); err != nil {
		return nil, err
	}
	return &Reader{
		rs:   rs,
		size: size,
		pos:  pos,
	}, nil
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.rs.Read(p)
	r.pos += int64(n)
	return n, err
}

// ReadFull reads exactly len(p) bytes. A clean EOF is reported as
// io.ErrUnexpectedEOF so a short read is always distinguishable from a
// successful one.
func (r *Reader) ReadFull(p []byte) error {
	_, err := io.ReadFull(r, p)
	if err == io.EOF {
		err = io.ErrUnexpectedEOF
	}
	return err
}

func (r *Reader) ReadByte() (byte, error) {
	if err := r.ReadFull(r.tmp[:1]); err != nil {
		return 0, err
	}
	return r.tmp[0], nil
}

// ReadUint16 reads an unsigned little-endian 16-bit value.
func (r *Reader) ReadUint16() (uint16, error) {
	if err := r.ReadFull(r.tmp[:2]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(r.tmp[:2]), nil
}

// ReadUint32 reads an unsigned little-endian 32-bit value.
func (r *Reader) ReadUint32() (uint32, error) {
	if err := r.ReadFull(r.tmp[:4]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r.tmp[:4]), nil
}

// ReadInt32 reads a signed little-endian 32-bit value.
func (r *Reader) ReadInt32() (int32, error) {
	v, err := r.ReadUint32()
	return int32(v), err
}

// Position returns the current offset from the start of the stream.
func (r *Reader) Position() int64 {
	return r.pos
}

// SetPosition seeks to an absolute offset from the start of the stream.
func (r *Reader) SetPosition(pos int64) error {
	n, err := r.rs.Seek(pos, io.SeekStart)
	if err != nil {
		return err
	}
	r.pos = n
	return nil
}

// Size returns the total size of the stream.
func (r *Reader) Size() int64 {
	return r.size
}

// Remaining returns the number of bytes between the current position and the
// end of the stream.
func (r *Reader) Remaining() int64 {
	if r.pos > r.size {
		return 0
	}
	return r.size - r.pos
}

type Writer struct {
	w   io.Writer
	pos int64
	tmp [4]byte
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (w *Writer) Write(p []byte) (int, error) {
	n, err := w.w.Write(p)
	w.pos += int64(n)
	return n, err
}

func (w *Writer) WriteByte(b byte) error {
	w.tmp[0] = b
	_, err := w.Write(w.tmp[:1])
	return err
}

// WriteUint16 writes an unsigned little-endian 16-bit value.
func (w *Writer) WriteUint16(v uint16) error {
	binary.LittleEndian.PutUint16(w.tmp[:2], v)
	_, err := w.Write(w.tmp[:2])
	return err
}

// WriteUint32 writes an unsigned little-endian 32-bit value.
func (w *Writer) WriteUint32(v uint32) error {
	binary.LittleEndian.PutUint32(w.tmp[:4], v)
	_, err := w.Write(w.tmp[:4])
	return err
}

// WriteInt32 writes a signed little-endian 32-bit value.
func (w *Writer) WriteInt32(v int32) error {
	return w.WriteUint32(uint32(v))
}

// Position returns the number of bytes written so far.
func (w *Writer) Position() int64 {
	return w.pos
}
