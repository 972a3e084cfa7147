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

package mssamr

import (
	"fmt"
	"slices"

	"github.com/jfjallid/go-msrpc/msdtyp"
	"github.com/jfjallid/go-msrpc/ndr"
)

type (
	ridEnumerationArray = ndr.CountedArray[SamprRidEnumeration, *SamprRidEnumeration]
	ulongArray          = ndr.CountedArray[ndr.ULong, *ndr.ULong]
	ustringArray        = ndr.CountedArray[ndr.UnicodeString, *ndr.UnicodeString]
	sidArray            = ndr.CountedArray[msdtyp.SIDPointer, *msdtyp.SIDPointer]
)

// MS-SAMR Section 2.2.3.9 SAMPR_RID_ENUMERATION
type SamprRidEnumeration struct {
	RelativeId uint32
	Name       ndr.UnicodeString
}

// MS-SAMR Section 2.2.7.15 SAMPR_REVISION_INFO
type RevisionInfo interface {
	ndr.Arm
	revisionInfo()
}

// MS-SAMR Section 2.2.7.16 SAMPR_REVISION_INFO_V1
type SamprRevisionInfoV1 struct {
	Revision          uint32 // The value MUST be set to 3
	SupportedFeatures uint32
}

// MS-SAMR Section 2.2.7.14 SAMPR_GET_MEMBERS_BUFFER
type SamprGetMembersBuffer struct {
	Members    []uint32
	Attributes []uint32
	count      uint32
}

// MS-SAMR Section 2.2.6.5
// unsigned short UnitsPerWeek;
// [size_is(1260), length_is((UnitsPerWeek+7)/8)]
// unsigned char* LogonHours;
type SamrLogonHours struct {
	UnitsPerWeek uint16
	LogonHours   []byte // nil is sent as a null pointer
}

// MS-SAMR Section 2.2.3.11 SR_SECURITY_DESCRIPTOR
type SrSecurityDescriptor struct {
	SecurityDescriptor []byte // nil is sent as a null pointer
}

// Result of SamrLookupIdsInDomain and SamrLookupNamesInDomain for one account
type SamrRidMapping struct {
	Name string
	RID  uint32
	Use  uint32
}

type SamrGroupMember struct {
	RID        uint32
	Attributes uint32
}

func (self *SamprRidEnumeration) MarshalEntity(e *ndr.Encoder) error {
	e.WriteUint32(self.RelativeId)
	return self.Name.MarshalEntity(e)
}

func (self *SamprRidEnumeration) MarshalDeferrals(e *ndr.Encoder) error {
	return self.Name.MarshalDeferrals(e)
}

func (self *SamprRidEnumeration) UnmarshalEntity(d *ndr.Decoder) (err error) {
	if self.RelativeId, err = d.ReadUint32(); err != nil {
		return
	}
	return self.Name.UnmarshalEntity(d)
}

func (self *SamprRidEnumeration) UnmarshalDeferrals(d *ndr.Decoder) error {
	return self.Name.UnmarshalDeferrals(d)
}

func (self *SamprRevisionInfoV1) Tag() uint32 {
	return 1
}

func (self *SamprRevisionInfoV1) revisionInfo() {}

func (self *SamprRevisionInfoV1) MarshalEntity(e *ndr.Encoder) error {
	e.WriteUint32(self.Revision)
	e.WriteUint32(self.SupportedFeatures)
	return nil
}

func (self *SamprRevisionInfoV1) UnmarshalEntity(d *ndr.Decoder) (err error) {
	if self.Revision, err = d.ReadUint32(); err != nil {
		return
	}
	self.SupportedFeatures, err = d.ReadUint32()
	return
}

func newRevisionInfo(version uint32) (RevisionInfo, error) {
	if version != 1 {
		return nil, &ndr.UnknownArmError{Union: "SAMPR_REVISION_INFO", Tag: version}
	}
	return &SamprRevisionInfoV1{}, nil
}

func (self *SamprGetMembersBuffer) MarshalEntity(e *ndr.Encoder) error {
	if len(self.Members) != len(self.Attributes) {
		return &ndr.FormatError{What: "SAMPR_GET_MEMBERS_BUFFER", Reason: fmt.Sprintf("%d members but %d attributes", len(self.Members), len(self.Attributes))}
	}
	e.WriteUint32(uint32(len(self.Members)))
	e.WriteReferent(self.Members != nil)
	e.WriteReferent(self.Attributes != nil)
	return nil
}

func (self *SamprGetMembersBuffer) MarshalDeferrals(e *ndr.Encoder) (err error) {
	if self.Members != nil {
		if err = ndr.Marshal(e, &ndr.ConformantArray[ndr.ULong, *ndr.ULong]{Items: ndr.ULongs(self.Members)}); err != nil {
			return
		}
	}
	if self.Attributes != nil {
		err = ndr.Marshal(e, &ndr.ConformantArray[ndr.ULong, *ndr.ULong]{Items: ndr.ULongs(self.Attributes)})
	}
	return
}

func (self *SamprGetMembersBuffer) UnmarshalEntity(d *ndr.Decoder) (err error) {
	if self.count, err = d.ReadUint32(); err != nil {
		return
	}
	var ref uint32
	self.Members, self.Attributes = nil, nil
	if ref, err = d.ReadReferent(); err != nil {
		return
	}
	if ref != 0 {
		self.Members = []uint32{}
	}
	if ref, err = d.ReadReferent(); err != nil {
		return
	}
	if ref != 0 {
		self.Attributes = []uint32{}
	}
	return
}

func (self *SamprGetMembersBuffer) UnmarshalDeferrals(d *ndr.Decoder) (err error) {
	read := func(dst *[]uint32) (err error) {
		if *dst == nil {
			return
		}
		var arr ndr.ConformantArray[ndr.ULong, *ndr.ULong]
		if err = ndr.Unmarshal(d, &arr); err != nil {
			return
		}
		if uint32(len(arr.Items)) != self.count {
			err = &ndr.FormatError{What: "SAMPR_GET_MEMBERS_BUFFER", Reason: fmt.Sprintf("MemberCount is %d but the array holds %d", self.count, len(arr.Items))}
			log.Errorln(err)
			return
		}
		if arr.Items != nil {
			*dst = ndr.Uint32s(arr.Items)
		}
		return
	}
	if err = read(&self.Members); err != nil {
		return
	}
	return read(&self.Attributes)
}

// Equal ignores decode bookkeeping.
func (self SamprGetMembersBuffer) Equal(o SamprGetMembersBuffer) bool {
	return slices.Equal(self.Members, o.Members) && slices.Equal(self.Attributes, o.Attributes)
}

func (self *SamrLogonHours) MarshalEntity(e *ndr.Encoder) error {
	if self.LogonHours != nil {
		if expected := (int(self.UnitsPerWeek) + 7) / 8; len(self.LogonHours) != expected {
			return &ndr.FormatError{What: "SAMPR_LOGON_HOURS", Reason: fmt.Sprintf("%d units per week need %d bytes, have %d", self.UnitsPerWeek, expected, len(self.LogonHours))}
		}
	}
	e.WriteUint16(self.UnitsPerWeek)
	e.WriteReferent(self.LogonHours != nil)
	return nil
}

func (self *SamrLogonHours) MarshalDeferrals(e *ndr.Encoder) error {
	if self.LogonHours == nil {
		return nil
	}
	return ndr.Marshal(e, &ndr.VaryingBytes{MaxCount: MaxLogonHoursSize, Data: self.LogonHours})
}

func (self *SamrLogonHours) UnmarshalEntity(d *ndr.Decoder) (err error) {
	if self.UnitsPerWeek, err = d.ReadUint16(); err != nil {
		return
	}
	var ref uint32
	if ref, err = d.ReadReferent(); err != nil {
		return
	}
	self.LogonHours = nil
	if ref != 0 {
		self.LogonHours = []byte{}
	}
	return
}

func (self *SamrLogonHours) UnmarshalDeferrals(d *ndr.Decoder) (err error) {
	if self.LogonHours == nil {
		return
	}
	var buf ndr.VaryingBytes
	if err = ndr.Unmarshal(d, &buf); err != nil {
		return
	}
	if buf.Data != nil {
		self.LogonHours = buf.Data
	}
	return
}

func (self *SrSecurityDescriptor) MarshalEntity(e *ndr.Encoder) error {
	e.WriteUint32(uint32(len(self.SecurityDescriptor)))
	e.WriteReferent(self.SecurityDescriptor != nil)
	return nil
}

func (self *SrSecurityDescriptor) MarshalDeferrals(e *ndr.Encoder) error {
	if self.SecurityDescriptor == nil {
		return nil
	}
	return ndr.Marshal(e, &ndr.ConformantBytes{Data: self.SecurityDescriptor})
}

func (self *SrSecurityDescriptor) UnmarshalEntity(d *ndr.Decoder) (err error) {
	if _, err = d.ReadUint32(); err != nil {
		return
	}
	var ref uint32
	if ref, err = d.ReadReferent(); err != nil {
		return
	}
	self.SecurityDescriptor = nil
	if ref != 0 {
		self.SecurityDescriptor = []byte{}
	}
	return
}

func (self *SrSecurityDescriptor) UnmarshalDeferrals(d *ndr.Decoder) (err error) {
	if self.SecurityDescriptor == nil {
		return
	}
	var buf ndr.ConformantBytes
	if err = ndr.Unmarshal(d, &buf); err != nil {
		return
	}
	if buf.Data != nil {
		self.SecurityDescriptor = buf.Data
	}
	return
}

// ridEnumerations returns the items of a decoded enumeration buffer pointer.
func ridEnumerations(arr *ridEnumerationArray) []SamprRidEnumeration {
	if arr == nil {
		return nil
	}
	return arr.Items
}
