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

import (
	"encoding/json"
	"fmt"
	"unicode/utf16"
)

// EncodeUTF16 returns the UTF-16 code units of s.
func EncodeUTF16(s string) []uint16 {
	return utf16.Encode([]rune(s))
}

// DecodeUTF16 converts code units to a string and strips a single trailing NUL.
func DecodeUTF16(units []uint16) string {
	if n := len(units); n > 0 && units[n-1] == 0 {
		units = units[:n-1]
	}
	return string(utf16.Decode(units))
}

// UnicodeString is an RPC_UNICODE_STRING. MaxLength is in bytes and a zero
// value means the maximum length equals the encoded length. An empty string
// with a zero MaxLength is sent with a null buffer pointer.
type UnicodeString struct {
	S         string
	MaxLength uint16
	counted
}

// UnicodeStringZ is the variant whose buffer carries a terminating NUL. The
// terminator is counted in Length and removed again when decoding.
type UnicodeStringZ struct {
	S         string
	MaxLength uint16
	counted
}

func NewUnicodeString(s string) UnicodeString {
	return UnicodeString{S: s}
}

// Equal ignores decode bookkeeping so that go-cmp compares the value only.
func (self UnicodeString) Equal(o UnicodeString) bool {
	return self.S == o.S && self.MaxLength == o.MaxLength
}

func (self UnicodeString) String() string {
	return self.S
}

func (self *UnicodeString) MarshalEntity(e *Encoder) error {
	return self.counted.marshalEntity(e, EncodeUTF16(self.S), self.MaxLength)
}

func (self *UnicodeString) MarshalDeferrals(e *Encoder) error {
	return self.counted.marshalDeferrals(e)
}

func (self *UnicodeString) UnmarshalEntity(d *Decoder) (err error) {
	self.MaxLength, err = self.counted.unmarshalEntity(d)
	return
}

func (self *UnicodeString) UnmarshalDeferrals(d *Decoder) (err error) {
	var units []uint16
	if units, err = self.counted.unmarshalDeferrals(d); err != nil {
		return
	}
	self.S = string(utf16.Decode(units))
	return
}

func (self UnicodeStringZ) Equal(o UnicodeStringZ) bool {
	return self.S == o.S && self.MaxLength == o.MaxLength
}

func (self UnicodeStringZ) String() string {
	return self.S
}

func (self *UnicodeStringZ) MarshalEntity(e *Encoder) error {
	units := append(EncodeUTF16(self.S), 0)
	return self.counted.marshalEntity(e, units, self.MaxLength)
}

func (self *UnicodeStringZ) MarshalDeferrals(e *Encoder) error {
	return self.counted.marshalDeferrals(e)
}

func (self *UnicodeStringZ) UnmarshalEntity(d *Decoder) (err error) {
	self.MaxLength, err = self.counted.unmarshalEntity(d)
	return
}

func (self *UnicodeStringZ) UnmarshalDeferrals(d *Decoder) (err error) {
	var units []uint16
	if units, err = self.counted.unmarshalDeferrals(d); err != nil {
		return
	}
	self.S = DecodeUTF16(units)
	return
}

// counted holds the state shared by the two counted string variants between
// the entity and deferrals phases.
type counted struct {
	units   []uint16
	length  uint16
	max     uint16
	present bool
	// set when an empty string was decoded with a non-null buffer so that it
	// is sent back the same way
	emptyRef bool
}

func (c *counted) marshalEntity(e *Encoder, units []uint16, maxLength uint16) error {
	byteLen := len(units) * 2
	if byteLen > 0xffff {
		return &BoundError{What: "counted string length", Count: byteLen, Min: 0, Max: 0xffff}
	}
	max := maxLength
	if max == 0 {
		max = uint16(byteLen)
	}
	if byteLen > int(max) {
		return &BoundError{What: "counted string length", Count: byteLen, Min: 0, Max: int(max)}
	}
	c.units = units
	c.length = uint16(byteLen)
	c.max = max
	c.present = max != 0 || c.emptyRef

	e.Align(AlignLong)
	e.WriteUint16(c.length)
	e.WriteUint16(c.max)
	e.WriteReferent(c.present)
	return nil
}

func (c *counted) marshalDeferrals(e *Encoder) error {
	if !c.present {
		return nil
	}
	e.WriteUint32(uint32(c.max / 2))
	e.WriteUint32(0)
	e.WriteUint32(uint32(len(c.units)))
	for _, u := range c.units {
		e.WriteUint16(u)
	}
	return nil
}

// unmarshalEntity returns the MaxLength to store in the public field.
func (c *counted) unmarshalEntity(d *Decoder) (maxLength uint16, err error) {
	d.Align(AlignLong)
	if c.length, err = d.ReadUint16(); err != nil {
		return
	}
	if c.max, err = d.ReadUint16(); err != nil {
		return
	}
	var ref uint32
	if ref, err = d.ReadReferent(); err != nil {
		return
	}
	if c.length > c.max {
		err = &FormatError{What: "counted string", Reason: fmt.Sprintf("length %d exceeds maximum length %d", c.length, c.max)}
		log.Errorln(err)
		return
	}
	c.present = ref != 0
	c.emptyRef = c.present && c.max == 0
	c.units = nil
	if c.max != c.length {
		maxLength = c.max
	}
	return
}

func (c *counted) unmarshalDeferrals(d *Decoder) (units []uint16, err error) {
	if !c.present {
		return nil, nil
	}
	var maxCount, actual uint32
	if maxCount, err = d.ReadUint32(); err != nil {
		return
	}
	if actual, err = readVariance(d, "counted string buffer", maxCount); err != nil {
		return
	}
	if actual*2 > uint32(c.max) {
		err = &FormatError{What: "counted string buffer", Reason: fmt.Sprintf("actual count %d exceeds maximum length %d bytes", actual, c.max)}
		log.Errorln(err)
		return
	}
	if actual*2 != uint32(c.length) {
		err = &FormatError{What: "counted string buffer", Reason: fmt.Sprintf("actual count %d does not match length %d bytes", actual, c.length)}
		log.Errorln(err)
		return
	}
	if err = d.CheckCount(actual, 2); err != nil {
		return
	}
	units = make([]uint16, actual)
	for i := range units {
		if units[i], err = d.ReadUint16(); err != nil {
			return
		}
	}
	c.units = units
	return
}

// WString is a [string] wchar_t* pointee: a conformant varying array of UTF-16
// code units that always ends with a NUL.
type WString string

func (self WString) MarshalEntity(e *Encoder) error {
	units := append(EncodeUTF16(string(self)), 0)
	e.WriteUint32(uint32(len(units)))
	e.WriteUint32(0)
	e.WriteUint32(uint32(len(units)))
	for _, u := range units {
		e.WriteUint16(u)
	}
	return nil
}

func (self *WString) UnmarshalEntity(d *Decoder) (err error) {
	var maxCount, actual uint32
	if maxCount, err = d.ReadUint32(); err != nil {
		return
	}
	if actual, err = readVariance(d, "string", maxCount); err != nil {
		return
	}
	if err = d.CheckCount(actual, 2); err != nil {
		return
	}
	units := make([]uint16, actual)
	for i := range units {
		if units[i], err = d.ReadUint16(); err != nil {
			return
		}
	}
	*self = WString(DecodeUTF16(units))
	return
}

func (self UnicodeString) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.S)
}

func (self UnicodeStringZ) MarshalJSON() ([]byte, error) {
	return json.Marshal(self.S)
}
