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

// Package dcerpc implements the connection-oriented DCE/RPC PDUs (C706
// chapter 12) needed to bind an interface and exchange request/response stubs
// over a byte stream such as an SMB named pipe, together with the call
// dispatcher used by the interface packages.
package dcerpc

import (
	"encoding/binary"

	"github.com/google/uuid"
	"github.com/jfjallid/go-msrpc/msdtyp"
	"github.com/jfjallid/golog"
)

var (
	log                  = golog.Get("github.com/jfjallid/go-msrpc/dcerpc")
	le  binary.ByteOrder = binary.LittleEndian
)

var (
	MSRPCUuidNdr           = uuid.MustParse("8a885d04-1ceb-11c9-9fe8-08002b104860")
	MSRPCNdrMajorVersion   = uint16(2)
	MSRPCDefaultFragSize   = uint16(4280)
	MSRPCNdrTransferSyntax = SyntaxId{UUID: msdtyp.GUIDFromUUID(MSRPCUuidNdr), MajorVersion: MSRPCNdrMajorVersion}
)

// MSRPC Packet Types
const (
	PacketTypeRequest  uint8 = 0
	PacketTypeResponse uint8 = 2
	PacketTypeFault    uint8 = 3
	PacketTypeBind     uint8 = 11
	PacketTypeBindAck  uint8 = 12
	PacketTypeBindNak  uint8 = 13
)

var PacketTypeMap = map[uint8]string{
	PacketTypeRequest:  "request",
	PacketTypeResponse: "response",
	PacketTypeFault:    "fault",
	PacketTypeBind:     "bind",
	PacketTypeBindAck:  "bind_ack",
	PacketTypeBindNak:  "bind_nak",
}

// C706 Section 12.6.3.1 pfc_flags
const (
	PfcFirstFrag     uint8 = 0x01
	PfcLastFrag      uint8 = 0x02
	PfcPendingCancel uint8 = 0x04
	PfcConcMpx       uint8 = 0x10
	PfcDidNotExecute uint8 = 0x20
	PfcMaybe         uint8 = 0x40
	PfcObjectUUID    uint8 = 0x80
)

// Data representation: little-endian, ASCII, IEEE floating point
const NDRRepresentation uint32 = 0x00000010

// Size of the common header and of the fixed part of request/response PDUs
const (
	HeaderSize        = 16
	RequestHeaderSize = 24
)

// C706 Section 12.6.3.1 p_cont_def_result_t
type resultType uint16

const (
	ResultAcceptance        resultType = 0
	ResultUserRejection     resultType = 1
	ResultProviderRejection resultType = 2
)

// C706 Section 12.6.3.1 p_provider_reason_t
type providerReason uint16

const (
	ReasonNotSpecified                 providerReason = 0
	ReasonAbstractSyntaxNotSupported   providerReason = 1
	ReasonTransferSyntaxesNotSupported providerReason = 2
	ReasonLocalLimitExceeded           providerReason = 3
)

var providerReasonMap = map[providerReason]string{
	ReasonNotSpecified:                 "reason not specified",
	ReasonAbstractSyntaxNotSupported:   "abstract syntax not supported",
	ReasonTransferSyntaxesNotSupported: "proposed transfer syntaxes not supported",
	ReasonLocalLimitExceeded:           "local limit exceeded",
}

// C706 Section 12.6.3.1 bind_nak reject reasons
var bindNakReasonMap = map[uint16]string{
	0: "reason not specified",
	1: "temporary congestion",
	2: "local limit exceeded",
	3: "called paddr unknown",
	4: "protocol version not supported",
	5: "default context not supported",
	6: "user data not readable",
	7: "no psap available",
}

// SyntaxId identifies an interface or transfer syntax and its version.
type SyntaxId struct {
	UUID         msdtyp.GUID
	MajorVersion uint16
	MinorVersion uint16
}

// NewSyntaxId parses an interface uuid in its textual form.
func NewSyntaxId(s string, major, minor uint16) (SyntaxId, error) {
	g, err := msdtyp.ParseGUID(s)
	if err != nil {
		return SyntaxId{}, err
	}
	return SyntaxId{UUID: g, MajorVersion: major, MinorVersion: minor}, nil
}

func MustSyntaxId(s string, major, minor uint16) SyntaxId {
	id, err := NewSyntaxId(s, major, minor)
	if err != nil {
		panic(err)
	}
	return id
}

func newHeader(pType uint8) Header {
	return Header{
		MajorVersion:   5,
		MinorVersion:   0,
		Type:           pType,
		Flags:          PfcFirstFrag | PfcLastFrag,
		Representation: NDRRepresentation,
	}
}

