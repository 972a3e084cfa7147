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

package dcerpc

import (
	"context"
	"encoding"
	"errors"
	"fmt"
	"slices"
)

// Transport performs one request/response round trip for an already bound
// interface. The stub is the NDR encoded body of the request, the returned
// slice the NDR encoded body of the response.
type Transport interface {
	Call(ctx context.Context, opnum uint16, stub []byte) ([]byte, error)
}

// Operation describes one RPC method of an interface.
type Operation struct {
	Name  string
	Opnum uint16
	// Statuses that count as success. Empty means only STATUS_SUCCESS.
	Accept []uint32
	// Human readable messages for statuses, e.g. a package ResponseCodeMap
	Codes map[uint32]error
}

func (op Operation) accepts(status uint32) bool {
	if len(op.Accept) == 0 {
		return status == StatusSuccess
	}
	return slices.Contains(op.Accept, status)
}

// StatusError is returned when the server answers with a status outside the
// accepted set of the operation.
type StatusError struct {
	Operation string
	Status    uint32
	Cause     error
}

func (e *StatusError) Error() string {
	msg := "unknown status"
	if e.Cause != nil {
		msg = e.Cause.Error()
	} else if known, found := StatusMessages[e.Status]; found {
		msg = known
	}
	return fmt.Sprintf("%s failed with status 0x%08x: %s", e.Operation, e.Status, msg)
}

func (e *StatusError) Unwrap() error {
	return e.Cause
}

// IsStatus reports whether err is a StatusError carrying status.
func IsStatus(err error, status uint32) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Status == status
}

// FaultError is returned when the server answers with a fault PDU.
type FaultError struct {
	Opnum  uint16
	Status uint32
}

func (e *FaultError) Error() string {
	msg, found := FaultMessages[e.Status]
	if !found {
		msg = "unknown fault"
	}
	return fmt.Sprintf("RPC fault for opnum %d: %s (0x%08x)", e.Opnum, msg, e.Status)
}

// BindError is returned when a bind is rejected.
type BindError struct {
	Reason string
}

func (e *BindError) Error() string {
	return "Bind rejected: " + e.Reason
}

// responseStatus returns the status carried in the last four bytes of a
// response stub.
func responseStatus(op Operation, stub []byte) (uint32, error) {
	if len(stub) < 4 {
		return 0, fmt.Errorf("Server response to %s was too small. Expected at least 4 bytes", op.Name)
	}
	return le.Uint32(stub[len(stub)-4:]), nil
}

// Call marshals req, sends it as op and decodes the response into a new R.
// The status is checked before the body is decoded so that error responses,
// which frequently carry a truncated body, are never parsed. Nothing is
// returned alongside an error.
func Call[R any, P interface {
	*R
	encoding.BinaryUnmarshaler
}](ctx context.Context, t Transport, op Operation, req encoding.BinaryMarshaler) (*R, error) {
	log.Debugln("In Call for " + op.Name)
	stub, err := req.MarshalBinary()
	if err != nil {
		log.Errorln(err)
		return nil, err
	}
	if err = ctx.Err(); err != nil {
		return nil, err
	}
	buffer, err := t.Call(ctx, op.Opnum, stub)
	if err != nil {
		log.Errorln(err)
		return nil, err
	}
	status, err := responseStatus(op, buffer)
	if err != nil {
		log.Errorln(err)
		return nil, err
	}
	if !op.accepts(status) {
		err = &StatusError{Operation: op.Name, Status: status, Cause: op.Codes[status]}
		log.Errorln(err)
		return nil, err
	}
	res := new(R)
	if err = P(res).UnmarshalBinary(buffer); err != nil {
		err = fmt.Errorf("Failed to decode %s response: %w", op.Name, err)
		log.Errorln(err)
		return nil, err
	}
	return res, nil
}

// CallStatus sends req as op and returns the response status. It is used for
// operations whose response carries nothing but the status, and for callers
// that need to distinguish between several accepted statuses.
func CallStatus(ctx context.Context, t Transport, op Operation, req encoding.BinaryMarshaler) (status uint32, buffer []byte, err error) {
	log.Debugln("In CallStatus for " + op.Name)
	var stub []byte
	if stub, err = req.MarshalBinary(); err != nil {
		log.Errorln(err)
		return
	}
	if err = ctx.Err(); err != nil {
		return
	}
	if buffer, err = t.Call(ctx, op.Opnum, stub); err != nil {
		log.Errorln(err)
		return
	}
	if status, err = responseStatus(op, buffer); err != nil {
		log.Errorln(err)
		return
	}
	if !op.accepts(status) {
		err = &StatusError{Operation: op.Name, Status: status, Cause: op.Codes[status]}
		log.Errorln(err)
		return
	}
	return
}

// CallClose performs a close operation. A handle the server no longer knows
// is reported as (false, nil) so that closing twice is harmless.
func CallClose(ctx context.Context, t Transport, op Operation, req encoding.BinaryMarshaler) (bool, error) {
	op.Accept = []uint32{StatusSuccess, StatusInvalidHandle}
	status, _, err := CallStatus(ctx, t, op, req)
	if err != nil {
		return false, err
	}
	if status == StatusInvalidHandle {
		log.Debugf("%s: handle was already closed\n", op.Name)
		return false, nil
	}
	return true, nil
}
