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
	"fmt"

	"github.com/jfjallid/go-msrpc/ndr"
)

// Defined in C706 (DCE 1.1: Remote Procedure Call) section 12.6.3.1 as "common fields"
type Header struct {
	MajorVersion   byte // rpc_vers
	MinorVersion   byte // rpc_vers_minor
	Type           byte
	Flags          byte
	Representation uint32 // NDR data representation
	FragLength     uint16
	AuthLength     uint16
	CallId         uint32
}

/*
C706 Section 12.6.3.1

	typedef struct {
	  p_context_id_t p_cont_id;
	  u_int8 n_transfer_syn;               // number of items
	  u_int8 reserved;                     // alignment pad, m.b.z.
	  p_syntax_id_t abstract_syntax;       // transfer syntax list
	  p_syntax_id_t [size_is(n_transfer_syn)] transfer_syntaxes[];
	} p_cont_elem_t;
*/
type ContextItem struct {
	Id             uint16
	AbstractSyntax SyntaxId
	TransferSyntax []SyntaxId
}

// C706 Section 12.6.4.3
type BindReq struct {
	Header          // 16 Bytes
	MaxSendFragSize uint16
	MaxRecvFragSize uint16
	Association     uint32 // A value of 0 means a request for a new Association group
	ContextList     []ContextItem
}

/*
C706 12.6.3.1

	typedef struct {
	  p_cont_def_result_t result;
	  p_provider_reason_t reason; // only relevant if result != acceptance
	  p_syntax_id_t transfer_syntax; // tr syntax selected 0 if result not accepted
	} p_result_t;
*/
type ContextResItem struct {
	Result         resultType
	Reason         providerReason
	TransferSyntax SyntaxId
}

// C706 Section 12.6.4.4 (bind_ack)
type BindRes struct {
	Header          // 16 Bytes
	MaxSendFragSize uint16
	MaxRecvFragSize uint16
	Association     uint32
	SecAddr         string
	ResultList      []ContextResItem
}

// C706 Section 12.6.4.5 (bind_nak)
type BindNak struct {
	Header
	RejectReason uint16
	Versions     []byte // p_rt_versions_supported_t, kept raw
}

// C706 Section 12.6.4.9
type RequestReq struct { // 24 + optional fields + len of Buffer
	Header // 16 bytes
	// AllocHint is an optional field useful for hinting required space when
	// sending fragmented requests
	AllocHint uint32
	ContextId uint16
	Opnum     uint16
	Buffer    []byte
}

// C706 Section 12.6.4.10
type RequestRes struct {
	Header // 16 bytes
	// This optional field AllocHint is used to hint about how much
	// contiguous space to allocate for fragmented requests.
	AllocHint   uint32
	ContextId   uint16
	CancelCount byte
	Reserved    byte
	Buffer      []byte
}

// C706 Section 12.6.4.7
type FaultRes struct {
	Header
	AllocHint   uint32
	ContextId   uint16
	CancelCount byte
	Reserved    byte
	Status      uint32
}

func (self *Header) marshal(e *ndr.Encoder) {
	e.WriteUint8(self.MajorVersion)
	e.WriteUint8(self.MinorVersion)
	e.WriteUint8(self.Type)
	e.WriteUint8(self.Flags)
	e.WriteUint32(self.Representation)
	e.WriteUint16(self.FragLength)
	e.WriteUint16(self.AuthLength)
	e.WriteUint32(self.CallId)
}

func (self *Header) unmarshal(d *ndr.Decoder) (err error) {
	if self.MajorVersion, err = d.ReadUint8(); err != nil {
		return
	}
	if self.MinorVersion, err = d.ReadUint8(); err != nil {
		return
	}
	if self.Type, err = d.ReadUint8(); err != nil {
		return
	}
	if self.Flags, err = d.ReadUint8(); err != nil {
		return
	}
	if self.Representation, err = d.ReadUint32(); err != nil {
		return
	}
	if self.FragLength, err = d.ReadUint16(); err != nil {
		return
	}
	if self.AuthLength, err = d.ReadUint16(); err != nil {
		return
	}
	self.CallId, err = d.ReadUint32()
	return
}

func (self *Header) MarshalBinary() ([]byte, error) {
	e := ndr.NewEncoder()
	self.marshal(e)
	return e.Bytes(), nil
}

func (self *Header) UnmarshalBinary(buf []byte) (err error) {
	if len(buf) < HeaderSize {
		return fmt.Errorf("Buffer is too small to unmarshal Header")
	}
	err = self.unmarshal(ndr.NewDecoder(buf))
	if err != nil {
		log.Errorln(err)
		return
	}
	if self.MajorVersion != 5 || self.MinorVersion != 0 {
		return fmt.Errorf("Unsupported DCE/RPC version %d.%d", self.MajorVersion, self.MinorVersion)
	}
	if self.Representation != NDRRepresentation {
		return fmt.Errorf("Unsupported data representation 0x%08x", self.Representation)
	}
	return
}

func (self *SyntaxId) marshal(e *ndr.Encoder) {
	e.WriteBytes(self.UUID.Bytes())
	e.WriteUint16(self.MajorVersion)
	e.WriteUint16(self.MinorVersion)
}

func (self *SyntaxId) unmarshal(d *ndr.Decoder) (err error) {
	if err = self.UUID.UnmarshalEntity(d); err != nil {
		return
	}
	if self.MajorVersion, err = d.ReadUint16(); err != nil {
		return
	}
	self.MinorVersion, err = d.ReadUint16()
	return
}

func (self *ContextItem) marshal(e *ndr.Encoder) {
	e.WriteUint16(self.Id)
	e.WriteUint8(uint8(len(self.TransferSyntax)))
	e.WriteUint8(0) // Reserved
	self.AbstractSyntax.marshal(e)
	for i := range self.TransferSyntax {
		self.TransferSyntax[i].marshal(e)
	}
}

func (self *ContextItem) unmarshal(d *ndr.Decoder) (err error) {
	if self.Id, err = d.ReadUint16(); err != nil {
		return
	}
	var count uint8
	if count, err = d.ReadUint8(); err != nil {
		return
	}
	if _, err = d.ReadUint8(); err != nil {
		return
	}
	if err = self.AbstractSyntax.unmarshal(d); err != nil {
		return
	}
	self.TransferSyntax = make([]SyntaxId, count)
	for i := range self.TransferSyntax {
		if err = self.TransferSyntax[i].unmarshal(d); err != nil {
			return
		}
	}
	return
}

func (self *BindReq) MarshalBinary() (ret []byte, err error) {
	log.Debugln("In MarshalBinary for BindReq")
	e := ndr.NewEncoder()
	self.Header.marshal(e)
	e.WriteUint16(self.MaxSendFragSize)
	e.WriteUint16(self.MaxRecvFragSize)
	e.WriteUint32(self.Association)
	e.WriteUint8(uint8(len(self.ContextList)))
	e.WriteUint8(0)  // Reserved
	e.WriteUint16(0) // Reserved2
	for i := range self.ContextList {
		self.ContextList[i].marshal(e)
	}
	ret = e.Bytes()
	// Update FragLength now that the size is known
	le.PutUint16(ret[8:], uint16(len(ret)))
	self.FragLength = uint16(len(ret))
	return
}

func (self *BindReq) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for BindReq")
	if err = self.Header.UnmarshalBinary(buf); err != nil {
		return
	}
	d := ndr.NewDecoder(buf[HeaderSize:])
	if self.MaxSendFragSize, err = d.ReadUint16(); err != nil {
		return
	}
	if self.MaxRecvFragSize, err = d.ReadUint16(); err != nil {
		return
	}
	if self.Association, err = d.ReadUint32(); err != nil {
		return
	}
	var count uint8
	if count, err = d.ReadUint8(); err != nil {
		return
	}
	d.Align(4)
	self.ContextList = make([]ContextItem, count)
	for i := range self.ContextList {
		if err = self.ContextList[i].unmarshal(d); err != nil {
			log.Errorln(err)
			return
		}
	}
	return
}

func (self *BindRes) MarshalBinary() (ret []byte, err error) {
	log.Debugln("In MarshalBinary for BindRes")
	e := ndr.NewEncoder()
	self.Header.marshal(e)
	e.WriteUint16(self.MaxSendFragSize)
	e.WriteUint16(self.MaxRecvFragSize)
	e.WriteUint32(self.Association)
	secAddr := []byte(self.SecAddr)
	if len(secAddr) > 0 {
		secAddr = append(secAddr, 0)
	}
	e.WriteUint16(uint16(len(secAddr)))
	e.WriteBytes(secAddr)
	e.Align(4)
	e.WriteUint8(uint8(len(self.ResultList)))
	e.WriteUint8(0)
	e.WriteUint16(0)
	for _, item := range self.ResultList {
		e.WriteUint16(uint16(item.Result))
		e.WriteUint16(uint16(item.Reason))
		item.TransferSyntax.marshal(e)
	}
	ret = e.Bytes()
	le.PutUint16(ret[8:], uint16(len(ret)))
	self.FragLength = uint16(len(ret))
	return
}

func (self *BindRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for BindRes")
	err = self.Header.UnmarshalBinary(buf)
	if err != nil {
		log.Errorln(err)
		return
	}
	// Alignment of the result list is relative to the start of the PDU
	d := ndr.NewDecoder(buf)
	if err = self.Header.unmarshal(d); err != nil {
		return
	}
	if self.MaxSendFragSize, err = d.ReadUint16(); err != nil {
		return
	}
	if self.MaxRecvFragSize, err = d.ReadUint16(); err != nil {
		return
	}
	if self.Association, err = d.ReadUint32(); err != nil {
		return
	}
	var secAddrLen uint16
	if secAddrLen, err = d.ReadUint16(); err != nil {
		return
	}
	var secAddr []byte
	if secAddr, err = d.ReadBytes(int(secAddrLen)); err != nil {
		log.Errorln(err)
		return
	}
	if n := len(secAddr); n > 0 && secAddr[n-1] == 0 {
		secAddr = secAddr[:n-1]
	}
	self.SecAddr = string(secAddr)
	d.Align(4)

	var count uint8
	if count, err = d.ReadUint8(); err != nil {
		return
	}
	d.Align(4)
	self.ResultList = make([]ContextResItem, count)
	for i := range self.ResultList {
		var v uint16
		if v, err = d.ReadUint16(); err != nil {
			return
		}
		self.ResultList[i].Result = resultType(v)
		if v, err = d.ReadUint16(); err != nil {
			return
		}
		self.ResultList[i].Reason = providerReason(v)
		if err = self.ResultList[i].TransferSyntax.unmarshal(d); err != nil {
			log.Errorln(err)
			return
		}
	}
	return
}

func (self *BindNak) MarshalBinary() (ret []byte, err error) {
	e := ndr.NewEncoder()
	self.Header.marshal(e)
	e.WriteUint16(self.RejectReason)
	e.WriteBytes(self.Versions)
	ret = e.Bytes()
	le.PutUint16(ret[8:], uint16(len(ret)))
	self.FragLength = uint16(len(ret))
	return
}

func (self *BindNak) UnmarshalBinary(buf []byte) (err error) {
	if err = self.Header.UnmarshalBinary(buf); err != nil {
		return
	}
	d := ndr.NewDecoder(buf[HeaderSize:])
	if self.RejectReason, err = d.ReadUint16(); err != nil {
		return
	}
	self.Versions, err = d.ReadBytes(d.Remaining())
	return
}

func (self *RequestReq) MarshalBinary() (ret []byte, err error) {
	log.Debugln("In MarshalBinary for RequestReq")
	e := ndr.NewEncoder()
	self.FragLength = uint16(RequestHeaderSize + len(self.Buffer))
	self.Header.marshal(e)
	e.WriteUint32(self.AllocHint)
	e.WriteUint16(self.ContextId)
	e.WriteUint16(self.Opnum)
	e.WriteBytes(self.Buffer)
	return e.Bytes(), nil
}

func (self *RequestReq) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for RequestReq")
	if err = self.Header.UnmarshalBinary(buf); err != nil {
		return
	}
	if int(self.FragLength) < RequestHeaderSize || len(buf) < int(self.FragLength) {
		return fmt.Errorf("Provided buffer is too small to unmarshal a RequestReq")
	}
	d := ndr.NewDecoder(buf[HeaderSize:self.FragLength])
	if self.AllocHint, err = d.ReadUint32(); err != nil {
		return
	}
	if self.ContextId, err = d.ReadUint16(); err != nil {
		return
	}
	if self.Opnum, err = d.ReadUint16(); err != nil {
		return
	}
	self.Buffer, err = d.ReadBytes(d.Remaining())
	return
}

func (self *RequestRes) MarshalBinary() (ret []byte, err error) {
	log.Debugln("In MarshalBinary for RequestRes")
	e := ndr.NewEncoder()
	self.FragLength = uint16(RequestHeaderSize + len(self.Buffer))
	self.Header.marshal(e)
	e.WriteUint32(self.AllocHint)
	e.WriteUint16(self.ContextId)
	e.WriteUint8(self.CancelCount)
	e.WriteUint8(self.Reserved)
	e.WriteBytes(self.Buffer)
	return e.Bytes(), nil
}

func (self *RequestRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for RequestRes")
	err = self.Header.UnmarshalBinary(buf)
	if err != nil {
		log.Errorln(err)
		return
	}
	if int(self.FragLength) < RequestHeaderSize || len(buf) < int(self.FragLength) {
		return fmt.Errorf("Provided buffer is too small to unmarshal a RequestRes")
	}
	// Auth verifier, if any, trails the stub
	end := int(self.FragLength)
	if self.AuthLength > 0 {
		end -= int(self.AuthLength) + 8
		if end < RequestHeaderSize {
			return fmt.Errorf("Invalid auth length %d in RequestRes", self.AuthLength)
		}
	}
	d := ndr.NewDecoder(buf[HeaderSize:end])
	if self.AllocHint, err = d.ReadUint32(); err != nil {
		return
	}
	if self.ContextId, err = d.ReadUint16(); err != nil {
		return
	}
	if self.CancelCount, err = d.ReadUint8(); err != nil {
		return
	}
	if self.Reserved, err = d.ReadUint8(); err != nil {
		return
	}
	self.Buffer, err = d.ReadBytes(d.Remaining())
	return
}

func (self *FaultRes) MarshalBinary() (ret []byte, err error) {
	e := ndr.NewEncoder()
	self.FragLength = RequestHeaderSize + 8
	self.Header.marshal(e)
	e.WriteUint32(self.AllocHint)
	e.WriteUint16(self.ContextId)
	e.WriteUint8(self.CancelCount)
	e.WriteUint8(self.Reserved)
	e.WriteUint32(self.Status)
	e.WriteUint32(0) // Reserved
	return e.Bytes(), nil
}

func (self *FaultRes) UnmarshalBinary(buf []byte) (err error) {
	if err = self.Header.UnmarshalBinary(buf); err != nil {
		return
	}
	if len(buf) < RequestHeaderSize+4 {
		return fmt.Errorf("Provided buffer is too small to unmarshal a FaultRes")
	}
	d := ndr.NewDecoder(buf[HeaderSize:])
	if self.AllocHint, err = d.ReadUint32(); err != nil {
		return
	}
	if self.ContextId, err = d.ReadUint16(); err != nil {
		return
	}
	if self.CancelCount, err = d.ReadUint8(); err != nil {
		return
	}
	if self.Reserved, err = d.ReadUint8(); err != nil {
		return
	}
	self.Status, err = d.ReadUint32()
	return
}
