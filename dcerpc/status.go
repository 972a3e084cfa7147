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

// NTSTATUS values shared by MS-SAMR and MS-LSAD
const (
	StatusSuccess               uint32 = 0x00000000
	StatusMoreEntries           uint32 = 0x00000105
	StatusSomeNotMapped         uint32 = 0x00000107
	StatusNoMoreEntries         uint32 = 0x8000001a
	StatusUnsuccessful          uint32 = 0xc0000001
	StatusInvalidHandle         uint32 = 0xc0000008
	StatusInvalidParameter      uint32 = 0xc000000d
	StatusAccessDenied          uint32 = 0xc0000022
	StatusBufferTooSmall        uint32 = 0xc0000023
	StatusObjectTypeMismatch    uint32 = 0xc0000024
	StatusObjectNameNotFound    uint32 = 0xc0000034
	StatusObjectNameCollision   uint32 = 0xc0000035
	StatusInvalidSid            uint32 = 0xc0000078
	StatusNoneMapped            uint32 = 0xc0000073
	StatusInsufficientResources uint32 = 0xc000009a
	StatusInvalidInfoClass      uint32 = 0xc0000003
	StatusNoSuchPrivilege       uint32 = 0xc0000060
	StatusNoSuchUser            uint32 = 0xc0000064
	StatusNoSuchDomain          uint32 = 0xc00000df
	StatusTrustedDomainFailure  uint32 = 0xc000018c
	StatusRpcNtCallCancelled    uint32 = 0xc0020049
)

// StatusMessages is used by StatusError when an operation has no message of
// its own for a status.
var StatusMessages = map[uint32]string{
	StatusSuccess:               "The operation completed successfully",
	StatusMoreEntries:           "More information is available",
	StatusSomeNotMapped:         "Some of the information to be translated has not been translated",
	StatusNoMoreEntries:         "No more information is available",
	StatusUnsuccessful:          "The requested operation was unsuccessful",
	StatusInvalidHandle:         "An invalid HANDLE was specified",
	StatusInvalidParameter:      "An invalid parameter was passed to a service or function",
	StatusAccessDenied:          "A process has requested access to an object but has not been granted those access rights",
	StatusBufferTooSmall:        "The buffer is too small to contain the entry",
	StatusObjectTypeMismatch:    "There is a mismatch between the type of object that is required by the requested operation and the type of object that is specified in the request",
	StatusObjectNameNotFound:    "The object name is not found",
	StatusObjectNameCollision:   "The object name already exists",
	StatusInvalidSid:            "The SID structure is not valid",
	StatusNoneMapped:            "None of the information to be translated has been translated",
	StatusInsufficientResources: "Insufficient system resources exist to complete the API",
	StatusInvalidInfoClass:      "The specified information class is not a valid information class for the specified object",
	StatusNoSuchPrivilege:       "A specified privilege does not exist",
	StatusNoSuchUser:            "The specified account does not exist",
	StatusNoSuchDomain:          "The specified domain did not exist",
	StatusTrustedDomainFailure:  "The trust relationship between the primary domain and the trusted domain failed",
	StatusRpcNtCallCancelled:    "The remote procedure call was cancelled",
}

// C706 Appendix E and MS-RPCE 2.3.1 fault codes
const (
	FaultOpRangeError     uint32 = 0x1c010002
	FaultUnknownInterface uint32 = 0x1c010003
	FaultProtocolError    uint32 = 0x000006c0
	FaultAccessDenied     uint32 = 0x00000005
	FaultBadStubData      uint32 = 0x000006f7
	FaultInvalidTag       uint32 = 0x1c000006
	FaultInvalidBound     uint32 = 0x1c000007
)

var FaultMessages = map[uint32]string{
	FaultOpRangeError:     "nca_s_op_rng_error: the operation number is out of range",
	FaultUnknownInterface: "nca_s_unk_if: the interface is unknown to the server",
	FaultProtocolError:    "rpc_s_protocol_error",
	FaultAccessDenied:     "rpc_s_access_denied",
	FaultBadStubData:      "rpc_x_bad_stub_data: the stub received bad data",
	FaultInvalidTag:       "nca_s_fault_invalid_tag: union discriminant not valid",
	FaultInvalidBound:     "nca_s_fault_invalid_bound: array bound not valid",
}
