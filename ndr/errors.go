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
	"errors"
	"fmt"
)

// ErrUnderrun is returned (wrapped) whenever a read would go past the end of
// the buffer.
var ErrUnderrun = errors.New("NDR buffer underrun")

// DiscriminantMismatchError is returned when a union tag on the wire differs
// from the information class the caller asked for.
type DiscriminantMismatchError struct {
	Observed uint32
	Expected uint32
}

func (e *DiscriminantMismatchError) Error() string {
	return fmt.Sprintf("Union discriminant mismatch: observed %d, expected %d", e.Observed, e.Expected)
}

// UnknownArmError is returned when no union arm exists for a tag.
type UnknownArmError struct {
	Union string
	Tag   uint32
}

func (e *UnknownArmError) Error() string {
	return fmt.Sprintf("No arm of %s for discriminant %d", e.Union, e.Tag)
}

// BoundError reports a count outside a conformance bound or an IDL range.
type BoundError struct {
	What  string
	Count int
	Min   int
	Max   int
}

func (e *BoundError) Error() string {
	return fmt.Sprintf("%s: count %d is outside the allowed range [%d, %d]", e.What, e.Count, e.Min, e.Max)
}

// FormatError reports conformance data that contradicts itself, such as an
// actual count larger than the maximum count.
type FormatError struct {
	What   string
	Reason string
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("Malformed %s: %s", e.What, e.Reason)
}

// CheckRange validates an [range(min,max)] count before it is put on the wire.
func CheckRange(what string, count, min, max int) error {
	if count < min || count > max {
		return &BoundError{What: what, Count: count, Min: min, Max: max}
	}
	return nil
}
