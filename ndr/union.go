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

// Arm is one member of a non-encapsulated union. Tag returns the
// discriminant value the arm is selected by.
type Arm interface {
	Marshaler
	Unmarshaler
	Tag() uint32
}

// UnionLayout describes how the discriminant of a union is framed. Align is
// applied before the tag; zero means the natural alignment of the tag. The arm
// aligns itself to its own largest member.
type UnionLayout struct {
	Align   int
	TagSize int
}

var (
	// Union keyed by a 16-bit enum such as an information class. The tag only
	// aligns to 2, so a tag that follows another enum is packed right after it.
	ShortTag = UnionLayout{TagSize: 2}
	// Union keyed by an unsigned long.
	LongTag = UnionLayout{TagSize: 4}
)

func (l UnionLayout) writeTag(e *Encoder, tag uint32) {
	e.Align(l.Align)
	if l.TagSize == 2 {
		e.WriteUint16(uint16(tag))
		return
	}
	e.WriteUint32(tag)
}

func (l UnionLayout) readTag(d *Decoder) (uint32, error) {
	d.Align(l.Align)
	if l.TagSize == 2 {
		v, err := d.ReadUint16()
		return uint32(v), err
	}
	return d.ReadUint32()
}

// MarshalUnionEntity writes the discriminant followed by the fixed part of the
// arm. The arm's pointer payloads are written by MarshalUnionDeferrals.
func MarshalUnionEntity(e *Encoder, l UnionLayout, arm Arm) error {
	l.writeTag(e, arm.Tag())
	return arm.MarshalEntity(e)
}

func MarshalUnionDeferrals(e *Encoder, arm Arm) error {
	return MarshalDeferrals(e, arm)
}

// MarshalUnion writes a union that is a top-level parameter or a [ref]
// pointee.
func MarshalUnion(e *Encoder, l UnionLayout, arm Arm) error {
	if err := MarshalUnionEntity(e, l, arm); err != nil {
		return err
	}
	return MarshalUnionDeferrals(e, arm)
}

// UnmarshalUnionEntity reads the discriminant, checks it against the value the
// caller expects and decodes the fixed part of the matching arm. newArm
// returns an UnknownArmError for tags it does not know.
func UnmarshalUnionEntity[A Arm](d *Decoder, l UnionLayout, expected uint32, newArm func(uint32) (A, error)) (arm A, err error) {
	var tag uint32
	if tag, err = l.readTag(d); err != nil {
		return
	}
	if tag != expected {
		err = &DiscriminantMismatchError{Observed: tag, Expected: expected}
		log.Errorln(err)
		return
	}
	if arm, err = newArm(tag); err != nil {
		return
	}
	err = arm.UnmarshalEntity(d)
	return
}

func UnmarshalUnion[A Arm](d *Decoder, l UnionLayout, expected uint32, newArm func(uint32) (A, error)) (arm A, err error) {
	if arm, err = UnmarshalUnionEntity(d, l, expected, newArm); err != nil {
		return
	}
	err = UnmarshalDeferrals(d, arm)
	return
}
