// MIT License
//
// # Copyright (c) 2025 Jimmy Fjällid
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package ndr

import "fmt"

// Decoder is the read cursor for one unmarshal operation.
type Decoder struct {
	buf []byte
	pos int
}

func NewDecoder(buf []byte) *Decoder {
	return &Decoder{buf: buf}
}

func (d *Decoder) Pos() int {
	return d.pos
}

func (d *Decoder) Remaining() int {
	return len(d.buf) - d.pos
}

// Align skips to the next multiple of n. It never fails; at the end of the
// buffer the position is clamped and the next read reports the underrun.
func (d *Decoder) Align(n int) {
	if n <= 1 {
		return
	}
	if rem := d.pos % n; rem != 0 {
		d.pos += n - rem
	}
	if d.pos > len(d.buf) {
		d.pos = len(d.buf)
	}
}

func (d *Decoder) need(n int) error {
	if n < 0 || d.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes at offset %d, have %d", ErrUnderrun, n, d.pos, d.Remaining())
	}
	return nil
}

// CheckCount verifies that count elements of at least size bytes each can
// still be present in the buffer. It guards allocations sized by the peer.
func (d *Decoder) CheckCount(count uint32, size int) error {
	if size < 1 {
		size = 1
	}
	if uint64(count)*uint64(size) > uint64(d.Remaining()) {
		return fmt.Errorf("%w: %d elements of %d bytes announced at offset %d, have %d", ErrUnderrun, count, size, d.pos, d.Remaining())
	}
	return nil
}

func (d *Decoder) ReadUint8() (v uint8, err error) {
	if err = d.need(1); err != nil {
		return
	}
	v = d.buf[d.pos]
	d.pos++
	return
}

func (d *Decoder) ReadUint16() (v uint16, err error) {
	d.Align(AlignShort)
	if err = d.need(2); err != nil {
		return
	}
	v = le.Uint16(d.buf[d.pos:])
	d.pos += 2
	return
}

func (d *Decoder) ReadUint32() (v uint32, err error) {
	d.Align(AlignLong)
	if err = d.need(4); err != nil {
		return
	}
	v = le.Uint32(d.buf[d.pos:])
	d.pos += 4
	return
}

func (d *Decoder) ReadUint64() (v uint64, err error) {
	d.Align(AlignHyper)
	if err = d.need(8); err != nil {
		return
	}
	v = le.Uint64(d.buf[d.pos:])
	d.pos += 8
	return
}

func (d *Decoder) ReadInt8() (int8, error) {
	v, err := d.ReadUint8()
	return int8(v), err
}

func (d *Decoder) ReadInt16() (int16, error) {
	v, err := d.ReadUint16()
	return int16(v), err
}

func (d *Decoder) ReadInt32() (int32, error) {
	v, err := d.ReadUint32()
	return int32(v), err
}

func (d *Decoder) ReadInt64() (int64, error) {
	v, err := d.ReadUint64()
	return int64(v), err
}

// ReadBytes returns a copy of the next n bytes.
func (d *Decoder) ReadBytes(n int) ([]byte, error) {
	if err := d.need(n); err != nil {
		return nil, err
	}
	b := make([]byte, n)
	copy(b, d.buf[d.pos:])
	d.pos += n
	return b, nil
}

// ReadReferent returns the raw pointer placeholder. Zero means null.
func (d *Decoder) ReadReferent() (uint32, error) {
	return d.ReadUint32()
}
