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

// FirstReferent is the first non-null referent handed out by an Encoder.
// Windows clients start at the same value and step by four.
const FirstReferent uint32 = 0x00020000

// Encoder is the write cursor for one marshal operation. Alignment is relative
// to the first byte written, which is the start of the stub.
type Encoder struct {
	buf    []byte
	nextId uint32
}

// NewEncoder returns an empty Encoder.
func NewEncoder() *Encoder {
	return &Encoder{nextId: FirstReferent}
}

// Bytes returns the stub written so far.
func (e *Encoder) Bytes() []byte {
	return e.buf
}

// Len is the number of bytes written, which is also the current offset.
func (e *Encoder) Len() int {
	return len(e.buf)
}

// Align pads with zero bytes up to the next multiple of n.
func (e *Encoder) Align(n int) {
	if n <= 1 {
		return
	}
	if rem := len(e.buf) % n; rem != 0 {
		e.buf = append(e.buf, make([]byte, n-rem)...)
	}
}

func (e *Encoder) WriteUint8(v uint8) {
	e.buf = append(e.buf, v)
}

func (e *Encoder) WriteUint16(v uint16) {
	e.Align(AlignShort)
	e.buf = le.AppendUint16(e.buf, v)
}

func (e *Encoder) WriteUint32(v uint32) {
	e.Align(AlignLong)
	e.buf = le.AppendUint32(e.buf, v)
}

func (e *Encoder) WriteUint64(v uint64) {
	e.Align(AlignHyper)
	e.buf = le.AppendUint64(e.buf, v)
}

func (e *Encoder) WriteInt8(v int8) {
	e.WriteUint8(uint8(v))
}

func (e *Encoder) WriteInt16(v int16) {
	e.WriteUint16(uint16(v))
}

func (e *Encoder) WriteInt32(v int32) {
	e.WriteUint32(uint32(v))
}

func (e *Encoder) WriteInt64(v int64) {
	e.WriteUint64(uint64(v))
}

// WriteBytes appends raw bytes without alignment.
func (e *Encoder) WriteBytes(b []byte) {
	e.buf = append(e.buf, b...)
}

// WriteFixedBytes writes a fixed size array of n bytes. Shorter input is zero
// padded, longer input is an error.
func (e *Encoder) WriteFixedBytes(b []byte, n int) error {
	if len(b) > n {
		return &BoundError{What: "fixed array", Count: len(b), Min: 0, Max: n}
	}
	e.buf = append(e.buf, b...)
	if len(b) < n {
		e.buf = append(e.buf, make([]byte, n-len(b))...)
	}
	return nil
}

// WriteReferent writes the placeholder of an embedded or unique pointer and
// returns the value written.
func (e *Encoder) WriteReferent(present bool) uint32 {
	if !present {
		e.WriteUint32(0)
		return 0
	}
	id := e.nextId
	e.nextId += 4
	e.WriteUint32(id)
	return id
}
