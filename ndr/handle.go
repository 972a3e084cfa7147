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
	"encoding/hex"
	"encoding/json"
)

const HandleSize = 20

// Handle is an opaque 20-byte context handle. K is a marker type that keeps
// handles of different object kinds from being mixed up at compile time.
type Handle[K any] [HandleSize]byte

// ContextHandle is implemented by handles of every kind. Operations such as
// close that accept any object use it.
type ContextHandle interface {
	Bytes() []byte
	IsZero() bool
}

func (h Handle[K]) Bytes() []byte {
	return h[:]
}

func (h Handle[K]) IsZero() bool {
	return h == Handle[K]{}
}

func (h Handle[K]) String() string {
	return hex.EncodeToString(h[:])
}

func (h Handle[K]) MarshalJSON() ([]byte, error) {
	return json.Marshal(h.String())
}

func (h *Handle[K]) MarshalEntity(e *Encoder) error {
	e.Align(AlignLong)
	e.WriteBytes(h[:])
	return nil
}

func (h *Handle[K]) UnmarshalEntity(d *Decoder) error {
	d.Align(AlignLong)
	b, err := d.ReadBytes(HandleSize)
	if err != nil {
		return err
	}
	copy(h[:], b)
	return nil
}

// HandleFromBytes builds a handle from a raw wire value.
func HandleFromBytes[K any](b []byte) (h Handle[K], err error) {
	if len(b) != HandleSize {
		err = &BoundError{What: "context handle", Count: len(b), Min: HandleSize, Max: HandleSize}
		return
	}
	copy(h[:], b)
	return
}
