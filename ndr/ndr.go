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

// Package ndr implements the subset of the NDR 2.0 transfer syntax (C706
// chapter 14) used by the MS-SAMR and MS-LSAD/LSAT interfaces.
//
// Every composite wire type follows the same three phase contract. The
// preamble carries conformance counts that NDR hoists in front of a
// structure, the entity carries the fixed part with referents standing in for
// pointers, and the deferrals carry the pointed-to data in declaration order.
// Only MarshalEntity/UnmarshalEntity are mandatory; the other two phases are
// optional capabilities discovered at runtime, much like io.WriterTo.
//
// Pointer payloads are written by recursion: a parent's deferrals run each
// child's full preamble, entity, deferrals cycle. No queue of pending
// payloads is kept and none is needed.
package ndr

import (
	"encoding/binary"

	"github.com/jfjallid/golog"
)

var (
	log = golog.Get("github.com/jfjallid/go-msrpc/ndr")
	le  = binary.LittleEndian
)

// Natural alignment of the primitive types.
const (
	AlignByte  = 1
	AlignShort = 2
	AlignLong  = 4
	AlignHyper = 8
)

// Marshaler is implemented by every type that can be written to the wire.
type Marshaler interface {
	MarshalEntity(e *Encoder) error
}

// PreambleMarshaler is implemented by conformant types whose maximum count
// must precede the fixed part of the enclosing structure.
type PreambleMarshaler interface {
	MarshalPreamble(e *Encoder) error
}

// DeferralMarshaler is implemented by types that embed pointers.
type DeferralMarshaler interface {
	MarshalDeferrals(e *Encoder) error
}

// Unmarshaler is implemented by every type that can be read from the wire.
type Unmarshaler interface {
	UnmarshalEntity(d *Decoder) error
}

type PreambleUnmarshaler interface {
	UnmarshalPreamble(d *Decoder) error
}

type DeferralUnmarshaler interface {
	UnmarshalDeferrals(d *Decoder) error
}

// Element is the constraint for values stored in the generic array codecs.
type Element[T any] interface {
	*T
	Marshaler
	Unmarshaler
}

func MarshalPreamble(e *Encoder, v Marshaler) error {
	if p, ok := v.(PreambleMarshaler); ok {
		return p.MarshalPreamble(e)
	}
	return nil
}

func MarshalDeferrals(e *Encoder, v Marshaler) error {
	if p, ok := v.(DeferralMarshaler); ok {
		return p.MarshalDeferrals(e)
	}
	return nil
}

func UnmarshalPreamble(d *Decoder, v Unmarshaler) error {
	if p, ok := v.(PreambleUnmarshaler); ok {
		return p.UnmarshalPreamble(d)
	}
	return nil
}

func UnmarshalDeferrals(d *Decoder, v Unmarshaler) error {
	if p, ok := v.(DeferralUnmarshaler); ok {
		return p.UnmarshalDeferrals(d)
	}
	return nil
}

// Marshal runs the full preamble, entity, deferrals cycle for v. It is used
// for top-level parameters, for [ref] pointees and by parents when writing the
// payload of an embedded pointer.
func Marshal(e *Encoder, v Marshaler) (err error) {
	if err = MarshalPreamble(e, v); err != nil {
		return
	}
	if err = v.MarshalEntity(e); err != nil {
		return
	}
	return MarshalDeferrals(e, v)
}

// Unmarshal is the reading counterpart of Marshal.
func Unmarshal(d *Decoder, v Unmarshaler) (err error) {
	if err = UnmarshalPreamble(d, v); err != nil {
		return
	}
	if err = v.UnmarshalEntity(d); err != nil {
		return
	}
	return UnmarshalDeferrals(d, v)
}

// MarshalUnique writes a top-level [unique] pointer parameter. The referent is
// followed immediately by the pointee since top-level parameters are not
// deferred past each other.
func MarshalUnique(e *Encoder, present bool, v Marshaler) error {
	e.WriteReferent(present)
	if !present {
		return nil
	}
	return Marshal(e, v)
}

// UnmarshalUnique reads a top-level [unique] pointer parameter and returns nil
// when the referent is null.
func UnmarshalUnique[T any, P Element[T]](d *Decoder) (*T, error) {
	ref, err := d.ReadReferent()
	if err != nil {
		return nil, err
	}
	if ref == 0 {
		return nil, nil
	}
	v := new(T)
	if err = Unmarshal(d, P(v)); err != nil {
		return nil, err
	}
	return v, nil
}

// ReadPointer reads the referent of an embedded pointer during the entity
// phase. A fresh target is returned for a non-null referent and its payload is
// expected to be read later in the deferrals phase of the parent.
func ReadPointer[T any](d *Decoder) (*T, error) {
	ref, err := d.ReadReferent()
	if err != nil {
		return nil, err
	}
	if ref == 0 {
		return nil, nil
	}
	return new(T), nil
}
