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

// Primitive element types so that arrays of scalars can use the generic
// array codecs.

type ULong uint32

func (v ULong) MarshalEntity(e *Encoder) error {
	e.WriteUint32(uint32(v))
	return nil
}

func (v *ULong) UnmarshalEntity(d *Decoder) (err error) {
	var n uint32
	n, err = d.ReadUint32()
	*v = ULong(n)
	return
}

type Long int32

func (v Long) MarshalEntity(e *Encoder) error {
	e.WriteInt32(int32(v))
	return nil
}

func (v *Long) UnmarshalEntity(d *Decoder) (err error) {
	var n int32
	n, err = d.ReadInt32()
	*v = Long(n)
	return
}

type UShort uint16

func (v UShort) MarshalEntity(e *Encoder) error {
	e.WriteUint16(uint16(v))
	return nil
}

func (v *UShort) UnmarshalEntity(d *Decoder) (err error) {
	var n uint16
	n, err = d.ReadUint16()
	*v = UShort(n)
	return
}

type UChar uint8

func (v UChar) MarshalEntity(e *Encoder) error {
	e.WriteUint8(uint8(v))
	return nil
}

func (v *UChar) UnmarshalEntity(d *Decoder) (err error) {
	var n uint8
	n, err = d.ReadUint8()
	*v = UChar(n)
	return
}

// ULongs converts a slice of plain uint32 to its wire element type.
func ULongs(in []uint32) []ULong {
	if in == nil {
		return nil
	}
	out := make([]ULong, len(in))
	for i, v := range in {
		out[i] = ULong(v)
	}
	return out
}

// Uint32s is the inverse of ULongs.
func Uint32s(in []ULong) []uint32 {
	if in == nil {
		return nil
	}
	out := make([]uint32, len(in))
	for i, v := range in {
		out[i] = uint32(v)
	}
	return out
}
