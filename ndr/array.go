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

// ConformantArray is a [size_is(n)] array. The maximum count is written in the
// preamble and is always the number of items.
type ConformantArray[T any, P Element[T]] struct {
	Items []T
	count uint32
}

func (self *ConformantArray[T, P]) MarshalPreamble(e *Encoder) error {
	e.WriteUint32(uint32(len(self.Items)))
	return nil
}

func (self *ConformantArray[T, P]) MarshalEntity(e *Encoder) (err error) {
	for i := range self.Items {
		if err = P(&self.Items[i]).MarshalEntity(e); err != nil {
			return
		}
	}
	return
}

func (self *ConformantArray[T, P]) MarshalDeferrals(e *Encoder) (err error) {
	for i := range self.Items {
		if err = MarshalDeferrals(e, P(&self.Items[i])); err != nil {
			return
		}
	}
	return
}

func (self *ConformantArray[T, P]) UnmarshalPreamble(d *Decoder) (err error) {
	self.count, err = d.ReadUint32()
	return
}

func (self *ConformantArray[T, P]) UnmarshalEntity(d *Decoder) (err error) {
	self.Items = nil
	if self.count == 0 {
		return
	}
	if err = d.CheckCount(self.count, 1); err != nil {
		log.Errorln(err)
		return
	}
	self.Items = make([]T, self.count)
	for i := range self.Items {
		if err = P(&self.Items[i]).UnmarshalEntity(d); err != nil {
			return
		}
	}
	return
}

func (self *ConformantArray[T, P]) UnmarshalDeferrals(d *Decoder) (err error) {
	for i := range self.Items {
		if err = UnmarshalDeferrals(d, P(&self.Items[i])); err != nil {
			return
		}
	}
	return
}

// ConformantVaryingArray is a [size_is(max), length_is(n)] array. A zero
// MaxCount means the maximum equals the number of items. Decoding stores
// MaxCount only when the peer sent a maximum that differs from the actual
// count.
type ConformantVaryingArray[T any, P Element[T]] struct {
	MaxCount uint32
	Items    []T
	max      uint32
}

func (self *ConformantVaryingArray[T, P]) maxCount() uint32 {
	if self.MaxCount == 0 {
		return uint32(len(self.Items))
	}
	return self.MaxCount
}

func (self *ConformantVaryingArray[T, P]) MarshalPreamble(e *Encoder) error {
	max := self.maxCount()
	if uint64(len(self.Items)) > uint64(max) {
		return &BoundError{What: "conformant varying array", Count: len(self.Items), Min: 0, Max: int(max)}
	}
	e.WriteUint32(max)
	return nil
}

func (self *ConformantVaryingArray[T, P]) MarshalEntity(e *Encoder) (err error) {
	e.WriteUint32(0) // Offset
	e.WriteUint32(uint32(len(self.Items)))
	for i := range self.Items {
		if err = P(&self.Items[i]).MarshalEntity(e); err != nil {
			return
		}
	}
	return
}

func (self *ConformantVaryingArray[T, P]) MarshalDeferrals(e *Encoder) (err error) {
	for i := range self.Items {
		if err = MarshalDeferrals(e, P(&self.Items[i])); err != nil {
			return
		}
	}
	return
}

func (self *ConformantVaryingArray[T, P]) UnmarshalPreamble(d *Decoder) (err error) {
	self.max, err = d.ReadUint32()
	return
}

func (self *ConformantVaryingArray[T, P]) UnmarshalEntity(d *Decoder) (err error) {
	var actual uint32
	if actual, err = readVariance(d, "conformant varying array", self.max); err != nil {
		return
	}
	self.MaxCount = 0
	if self.max != actual {
		self.MaxCount = self.max
	}
	self.Items = nil
	if actual == 0 {
		return
	}
	if err = d.CheckCount(actual, 1); err != nil {
		log.Errorln(err)
		return
	}
	self.Items = make([]T, actual)
	for i := range self.Items {
		if err = P(&self.Items[i]).UnmarshalEntity(d); err != nil {
			return
		}
	}
	return
}

func (self *ConformantVaryingArray[T, P]) UnmarshalDeferrals(d *Decoder) (err error) {
	for i := range self.Items {
		if err = UnmarshalDeferrals(d, P(&self.Items[i])); err != nil {
			return
		}
	}
	return
}

// readVariance reads offset and actual count and validates them against max.
func readVariance(d *Decoder, what string, max uint32) (actual uint32, err error) {
	var offset uint32
	if offset, err = d.ReadUint32(); err != nil {
		return
	}
	if actual, err = d.ReadUint32(); err != nil {
		return
	}
	if offset != 0 {
		err = &FormatError{What: what, Reason: fmt.Sprintf("unsupported offset %d", offset)}
		log.Errorln(err)
		return
	}
	if actual > max {
		err = &FormatError{What: what, Reason: fmt.Sprintf("actual count %d exceeds maximum count %d", actual, max)}
		log.Errorln(err)
		return
	}
	return
}

// ConformantBytes is a [size_is(n)] byte array.
type ConformantBytes struct {
	Data  []byte
	count uint32
}

func (self *ConformantBytes) MarshalPreamble(e *Encoder) error {
	e.WriteUint32(uint32(len(self.Data)))
	return nil
}

func (self *ConformantBytes) MarshalEntity(e *Encoder) error {
	e.WriteBytes(self.Data)
	return nil
}

func (self *ConformantBytes) UnmarshalPreamble(d *Decoder) (err error) {
	self.count, err = d.ReadUint32()
	return
}

func (self *ConformantBytes) UnmarshalEntity(d *Decoder) (err error) {
	self.Data = nil
	if self.count == 0 {
		return
	}
	self.Data, err = d.ReadBytes(int(self.count))
	return
}

// VaryingBytes is a [size_is(max), length_is(n)] byte array with the same
// MaxCount convention as ConformantVaryingArray.
type VaryingBytes struct {
	MaxCount uint32
	Data     []byte
	max      uint32
}

func (self *VaryingBytes) MarshalPreamble(e *Encoder) error {
	max := self.MaxCount
	if max == 0 {
		max = uint32(len(self.Data))
	}
	if uint64(len(self.Data)) > uint64(max) {
		return &BoundError{What: "varying byte array", Count: len(self.Data), Min: 0, Max: int(max)}
	}
	e.WriteUint32(max)
	return nil
}

func (self *VaryingBytes) MarshalEntity(e *Encoder) error {
	e.WriteUint32(0)
	e.WriteUint32(uint32(len(self.Data)))
	e.WriteBytes(self.Data)
	return nil
}

func (self *VaryingBytes) UnmarshalPreamble(d *Decoder) (err error) {
	self.max, err = d.ReadUint32()
	return
}

func (self *VaryingBytes) UnmarshalEntity(d *Decoder) (err error) {
	var actual uint32
	if actual, err = readVariance(d, "varying byte array", self.max); err != nil {
		return
	}
	self.MaxCount = 0
	if self.max != actual {
		self.MaxCount = self.max
	}
	self.Data = nil
	if actual == 0 {
		return
	}
	self.Data, err = d.ReadBytes(int(actual))
	return
}

// CountedArray is the {unsigned long Count; [size_is(Count)] T* Items}
// structure most list parameters are built from. A nil Items is sent as a null
// pointer. Decoding a non-null pointer always yields a non-nil slice.
type CountedArray[T any, P Element[T]] struct {
	Items   []T
	count   uint32
	present bool
}

func (self *CountedArray[T, P]) MarshalEntity(e *Encoder) error {
	e.WriteUint32(uint32(len(self.Items)))
	e.WriteReferent(self.Items != nil)
	return nil
}

func (self *CountedArray[T, P]) MarshalDeferrals(e *Encoder) error {
	if self.Items == nil {
		return nil
	}
	return Marshal(e, &ConformantArray[T, P]{Items: self.Items})
}

func (self *CountedArray[T, P]) UnmarshalEntity(d *Decoder) (err error) {
	if self.count, err = d.ReadUint32(); err != nil {
		return
	}
	var ref uint32
	if ref, err = d.ReadReferent(); err != nil {
		return
	}
	self.present = ref != 0
	self.Items = nil
	return
}

func (self *CountedArray[T, P]) UnmarshalDeferrals(d *Decoder) (err error) {
	if !self.present {
		return
	}
	var arr ConformantArray[T, P]
	if err = Unmarshal(d, &arr); err != nil {
		return
	}
	if arr.count != self.count {
		err = &FormatError{What: "counted array", Reason: fmt.Sprintf("count %d does not match conformance %d", self.count, arr.count)}
		log.Errorln(err)
		return
	}
	self.Items = arr.Items
	if self.Items == nil {
		self.Items = []T{}
	}
	return
}
