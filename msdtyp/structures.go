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

package msdtyp

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jfjallid/go-msrpc/ndr"
	"github.com/jfjallid/golog"
)

var (
	le  = binary.LittleEndian
	be  = binary.BigEndian
	log = golog.Get("github.com/jfjallid/go-msrpc/msdtyp")
)

// MS-DTYP Section 2.4.2.3 RPC_SID
const MaxSubAuthorities = 15

// Well-known identifier authorities
const (
	NullAuthority  uint32 = 0
	WorldAuthority uint32 = 1
	LocalAuthority uint32 = 2
	NTAuthority    uint32 = 5
)

// MS-DTYP Section 2.4.2.3 RPC_SID
/*
typedef struct _RPC_SID {
  unsigned char Revision;
  unsigned char SubAuthorityCount;
  RPC_SID_IDENTIFIER_AUTHORITY IdentifierAuthority;
  [size_is(SubAuthorityCount)] unsigned long SubAuthority[];
} RPC_SID,
 *PRPC_SID;
*/
type SID struct {
	Revision       byte
	Authority      [6]byte
	SubAuthorities []uint32
	count          uint32
}

// MS-DTYP Section 2.3.3 FILETIME and MS-SAMR 2.2.2.1 OLD_LARGE_INTEGER.
// Both are two unsigned longs so the structure only aligns to 4.
type Filetime struct {
	LowDateTime  uint32
	HighDateTime uint32
}

// MS-DTYP Section 2.3.4.2 GUID--Packet Representation
type GUID struct {
	Data1 uint32
	Data2 uint16
	Data3 uint16
	Data4 [8]byte
}

// MS-SAMR Section 2.2.6.22 RPC_SHORT_BLOB
/*
typedef struct _RPC_SHORT_BLOB {
  unsigned short Length;
  unsigned short MaximumLength;
  [size_is(MaximumLength/2), length_is(Length/2)]
    unsigned short* Buffer;
} RPC_SHORT_BLOB,
 *PRPC_SHORT_BLOB;
*/
type ShortBlob struct {
	Data     []byte
	present  bool
	emptyRef bool
}

// NewSID builds a SID with revision 1.
func NewSID(authority uint32, subAuthorities ...uint32) *SID {
	s := &SID{Revision: 1, SubAuthorities: subAuthorities}
	be.PutUint32(s.Authority[2:], authority)
	return s
}

func (self *SID) MarshalPreamble(e *ndr.Encoder) error {
	e.WriteUint32(uint32(len(self.SubAuthorities)))
	return nil
}

func (self *SID) MarshalEntity(e *ndr.Encoder) error {
	if len(self.SubAuthorities) > MaxSubAuthorities {
		return &ndr.BoundError{What: "SID sub authorities", Count: len(self.SubAuthorities), Min: 0, Max: MaxSubAuthorities}
	}
	e.Align(ndr.AlignLong)
	e.WriteUint8(self.Revision)
	e.WriteUint8(uint8(len(self.SubAuthorities)))
	e.WriteBytes(self.Authority[:])
	for _, sa := range self.SubAuthorities {
		e.WriteUint32(sa)
	}
	return nil
}

func (self *SID) UnmarshalPreamble(d *ndr.Decoder) (err error) {
	self.count, err = d.ReadUint32()
	return
}

func (self *SID) UnmarshalEntity(d *ndr.Decoder) (err error) {
	d.Align(ndr.AlignLong)
	if self.Revision, err = d.ReadUint8(); err != nil {
		return
	}
	var numAuth uint8
	if numAuth, err = d.ReadUint8(); err != nil {
		return
	}
	if uint32(numAuth) != self.count {
		err = &ndr.FormatError{What: "SID", Reason: fmt.Sprintf("sub authority count %d does not match conformance %d", numAuth, self.count)}
		log.Errorln(err)
		return
	}
	if numAuth > MaxSubAuthorities {
		err = &ndr.BoundError{What: "SID sub authorities", Count: int(numAuth), Min: 0, Max: MaxSubAuthorities}
		log.Errorln(err)
		return
	}
	var auth []byte
	if auth, err = d.ReadBytes(6); err != nil {
		return
	}
	copy(self.Authority[:], auth)
	self.SubAuthorities = nil
	if numAuth == 0 {
		return
	}
	self.SubAuthorities = make([]uint32, numAuth)
	for i := range self.SubAuthorities {
		if self.SubAuthorities[i], err = d.ReadUint32(); err != nil {
			return
		}
	}
	return
}

// Equal compares the wire value and ignores decode bookkeeping.
func (self SID) Equal(o SID) bool {
	if self.Revision != o.Revision || self.Authority != o.Authority || len(self.SubAuthorities) != len(o.SubAuthorities) {
		return false
	}
	for i := range self.SubAuthorities {
		if self.SubAuthorities[i] != o.SubAuthorities[i] {
			return false
		}
	}
	return true
}

func (self *SID) GetAuthority() uint32 {
	return be.Uint32(self.Authority[2:])
}

// RID returns the last sub authority which is the relative id of an account
// SID.
func (self *SID) RID() uint32 {
	if len(self.SubAuthorities) == 0 {
		return 0
	}
	return self.SubAuthorities[len(self.SubAuthorities)-1]
}

// WithRID returns a copy of the SID with rid appended. Used to build an
// account SID from a domain SID.
func (self *SID) WithRID(rid uint32) *SID {
	subs := make([]uint32, len(self.SubAuthorities), len(self.SubAuthorities)+1)
	copy(subs, self.SubAuthorities)
	return &SID{Revision: self.Revision, Authority: self.Authority, SubAuthorities: append(subs, rid)}
}

func (self *SID) String() string {
	return ConvertSIDtoStr(self)
}

func (self SID) MarshalText() ([]byte, error) {
	return []byte(ConvertSIDtoStr(&self)), nil
}

// Seconds between 1601-01-01 and 1970-01-01
const filetimeUnixOffset = 11644473600

// The value the server uses for times that never occur, such as
// AccountExpires on an account without expiry.
const (
	FiletimeNever uint64 = 0x7fffffffffffffff
)

func FiletimeFromUint64(v uint64) Filetime {
	return Filetime{LowDateTime: uint32(v), HighDateTime: uint32(v >> 32)}
}

// FiletimeFromTime converts t to 100ns intervals since 1601-01-01 UTC. The
// zero time maps to the zero Filetime.
func FiletimeFromTime(t time.Time) Filetime {
	if t.IsZero() {
		return Filetime{}
	}
	secs := t.Unix() + filetimeUnixOffset
	if secs < 0 {
		return Filetime{}
	}
	return FiletimeFromUint64(uint64(secs)*10000000 + uint64(t.Nanosecond()/100))
}

func (self Filetime) Uint64() uint64 {
	return uint64(self.HighDateTime)<<32 | uint64(self.LowDateTime)
}

func (self Filetime) IsNever() bool {
	v := self.Uint64()
	return v == FiletimeNever || v == 0xffffffffffffffff
}

// Time converts the Filetime to a UTC time. Zero and never values yield the
// zero time.
func (self Filetime) Time() time.Time {
	v := self.Uint64()
	if v == 0 || self.IsNever() {
		return time.Time{}
	}
	secs := int64(v/10000000) - filetimeUnixOffset
	nsec := int64(v%10000000) * 100
	return time.Unix(secs, nsec).UTC()
}

func (self Filetime) String() string {
	if self.Uint64() == 0 {
		return "0"
	}
	if self.IsNever() {
		return "Never"
	}
	return self.Time().String()
}

func (self *Filetime) MarshalEntity(e *ndr.Encoder) error {
	e.WriteUint32(self.LowDateTime)
	e.WriteUint32(self.HighDateTime)
	return nil
}

func (self *Filetime) UnmarshalEntity(d *ndr.Decoder) (err error) {
	if self.LowDateTime, err = d.ReadUint32(); err != nil {
		return
	}
	self.HighDateTime, err = d.ReadUint32()
	return
}

func GUIDFromUUID(u uuid.UUID) GUID {
	g := GUID{
		Data1: be.Uint32(u[0:4]),
		Data2: be.Uint16(u[4:6]),
		Data3: be.Uint16(u[6:8]),
	}
	copy(g.Data4[:], u[8:])
	return g
}

// ParseGUID parses the textual form xxxxxxxx-xxxx-xxxx-xxxx-xxxxxxxxxxxx.
func ParseGUID(s string) (g GUID, err error) {
	var u uuid.UUID
	if u, err = uuid.Parse(s); err != nil {
		log.Errorln(err)
		return
	}
	return GUIDFromUUID(u), nil
}

func (self GUID) UUID() uuid.UUID {
	var u uuid.UUID
	be.PutUint32(u[0:4], self.Data1)
	be.PutUint16(u[4:6], self.Data2)
	be.PutUint16(u[6:8], self.Data3)
	copy(u[8:], self.Data4[:])
	return u
}

func (self GUID) String() string {
	return self.UUID().String()
}

// Bytes returns the 16 byte little-endian packet representation.
func (self GUID) Bytes() []byte {
	buf := make([]byte, 0, 16)
	buf = le.AppendUint32(buf, self.Data1)
	buf = le.AppendUint16(buf, self.Data2)
	buf = le.AppendUint16(buf, self.Data3)
	return append(buf, self.Data4[:]...)
}

func (self *GUID) MarshalEntity(e *ndr.Encoder) error {
	e.WriteUint32(self.Data1)
	e.WriteUint16(self.Data2)
	e.WriteUint16(self.Data3)
	e.WriteBytes(self.Data4[:])
	return nil
}

func (self *GUID) UnmarshalEntity(d *ndr.Decoder) (err error) {
	if self.Data1, err = d.ReadUint32(); err != nil {
		return
	}
	if self.Data2, err = d.ReadUint16(); err != nil {
		return
	}
	if self.Data3, err = d.ReadUint16(); err != nil {
		return
	}
	var b []byte
	if b, err = d.ReadBytes(8); err != nil {
		return
	}
	copy(self.Data4[:], b)
	return
}

// NewShortBlob wraps data. An empty blob is sent with a null buffer.
func NewShortBlob(data []byte) ShortBlob {
	return ShortBlob{Data: data}
}

func (self ShortBlob) Equal(o ShortBlob) bool {
	return string(self.Data) == string(o.Data)
}

func (self *ShortBlob) MarshalEntity(e *ndr.Encoder) error {
	if len(self.Data)%2 != 0 || len(self.Data) > 0xffff {
		return &ndr.FormatError{What: "short blob", Reason: fmt.Sprintf("length %d is not an even 16-bit value", len(self.Data))}
	}
	self.present = len(self.Data) > 0 || self.emptyRef
	e.Align(ndr.AlignLong)
	e.WriteUint16(uint16(len(self.Data)))
	e.WriteUint16(uint16(len(self.Data)))
	e.WriteReferent(self.present)
	return nil
}

func (self *ShortBlob) MarshalDeferrals(e *ndr.Encoder) error {
	if !self.present {
		return nil
	}
	n := uint32(len(self.Data) / 2)
	e.WriteUint32(n)
	e.WriteUint32(0)
	e.WriteUint32(n)
	e.WriteBytes(self.Data)
	return nil
}

func (self *ShortBlob) UnmarshalEntity(d *ndr.Decoder) (err error) {
	d.Align(ndr.AlignLong)
	var length, maxLength uint16
	if length, err = d.ReadUint16(); err != nil {
		return
	}
	if maxLength, err = d.ReadUint16(); err != nil {
		return
	}
	if length > maxLength {
		err = &ndr.FormatError{What: "short blob", Reason: fmt.Sprintf("length %d exceeds maximum length %d", length, maxLength)}
		log.Errorln(err)
		return
	}
	var ref uint32
	if ref, err = d.ReadReferent(); err != nil {
		return
	}
	self.present = ref != 0
	self.emptyRef = self.present && length == 0
	self.Data = nil
	return
}

func (self *ShortBlob) UnmarshalDeferrals(d *ndr.Decoder) (err error) {
	if !self.present {
		return
	}
	var max, offset, actual uint32
	if max, err = d.ReadUint32(); err != nil {
		return
	}
	if offset, err = d.ReadUint32(); err != nil {
		return
	}
	if actual, err = d.ReadUint32(); err != nil {
		return
	}
	if offset != 0 || actual > max {
		err = &ndr.FormatError{What: "short blob buffer", Reason: fmt.Sprintf("offset %d, actual count %d, maximum count %d", offset, actual, max)}
		log.Errorln(err)
		return
	}
	if actual == 0 {
		return
	}
	self.Data, err = d.ReadBytes(int(actual) * 2)
	return
}

// SIDPointer is an embedded PRPC_SID, the element of the SID arrays in
// MS-SAMR and MS-LSAT.
type SIDPointer struct {
	SID *SID
}

func (self *SIDPointer) MarshalEntity(e *ndr.Encoder) error {
	e.WriteReferent(self.SID != nil)
	return nil
}

func (self *SIDPointer) MarshalDeferrals(e *ndr.Encoder) error {
	if self.SID == nil {
		return nil
	}
	return ndr.Marshal(e, self.SID)
}

func (self *SIDPointer) UnmarshalEntity(d *ndr.Decoder) (err error) {
	self.SID, err = ndr.ReadPointer[SID](d)
	return
}

func (self *SIDPointer) UnmarshalDeferrals(d *ndr.Decoder) error {
	if self.SID == nil {
		return nil
	}
	return ndr.Unmarshal(d, self.SID)
}

// SIDPointers wraps sids for the wire.
func SIDPointers(sids []*SID) []SIDPointer {
	if sids == nil {
		return nil
	}
	out := make([]SIDPointer, len(sids))
	for i, sid := range sids {
		out[i].SID = sid
	}
	return out
}

// SIDs is the inverse of SIDPointers.
func SIDs(ptrs []SIDPointer) []*SID {
	if ptrs == nil {
		return nil
	}
	out := make([]*SID, len(ptrs))
	for i := range ptrs {
		out[i] = ptrs[i].SID
	}
	return out
}
