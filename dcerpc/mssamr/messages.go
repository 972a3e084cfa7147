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

	"github.com/jfjallid/go-msrpc/msdtyp"
	"github.com/jfjallid/go-msrpc/ndr"
)

type SamrCloseHandleReq struct {
	Handle ObjectHandle
}

type SamrCloseHandleRes struct {
	Handle     ObjectHandle
	ReturnCode uint32
}

// SamrReturnCodeRes is the response of every operation that returns nothing
// but a status.
type SamrReturnCodeRes struct {
	ReturnCode uint32
}

type SamrConnect5Req struct {
	ServerName     string // Empty is sent as a null pointer
	DesiredAccess  uint32
	InRevisionInfo RevisionInfo
}

type SamrConnect5Res struct {
	OutRevisionInfo RevisionInfo
	ServerHandle    ServerHandle
	ReturnCode      uint32
}

type SamrLookupDomainReq struct {
	ServerHandle ServerHandle
	Name         ndr.UnicodeString
}

type SamrLookupDomainRes struct {
	DomainId   *msdtyp.SID
	ReturnCode uint32
}

type SamrEnumDomainsReq struct {
	ServerHandle          ServerHandle
	EnumerationContext    uint32
	PreferedMaximumLength uint32
}

// SamrEnumerationRes is the response layout shared by the enumeration
// operations.
type SamrEnumerationRes struct {
	EnumerationContext uint32
	Buffer             []SamprRidEnumeration // nil when the server sent a null buffer
	CountReturned      uint32
	ReturnCode         uint32
}

type SamrEnumDomainsRes struct {
	SamrEnumerationRes
}

type SamrOpenDomainReq struct {
	ServerHandle  ServerHandle
	DesiredAccess uint32
	DomainId      *msdtyp.SID
}

type SamrOpenDomainRes struct {
	DomainHandle DomainHandle
	ReturnCode   uint32
}

type SamrEnumerateGroupsInDomainReq struct {
	DomainHandle          DomainHandle
	EnumerationContext    uint32
	PreferedMaximumLength uint32
}

type SamrEnumerateGroupsInDomainRes struct {
	SamrEnumerationRes
}

type SamrCreateUserInDomainReq struct {
	DomainHandle  DomainHandle
	Name          ndr.UnicodeString
	DesiredAccess uint32
}

type SamrCreateUserInDomainRes struct {
	UserHandle UserHandle
	RelativeId uint32
	ReturnCode uint32
}

type SamrEnumDomainUsersReq struct {
	DomainHandle          DomainHandle
	EnumerationContext    uint32
	UserAccountControl    uint32
	PreferedMaximumLength uint32
}

type SamrEnumDomainUsersRes struct {
	SamrEnumerationRes
}

type SamrEnumAliasesInDomainReq struct {
	DomainHandle          DomainHandle
	EnumerationContext    uint32
	PreferedMaximumLength uint32
}

type SamrEnumAliasesInDomainRes struct {
	SamrEnumerationRes
}

type SamrLookupNamesInDomainReq struct {
	DomainHandle DomainHandle
	Names        []ndr.UnicodeString // At most MaxLookupCount
}

type SamrLookupNamesInDomainRes struct {
	RelativeIds []uint32
	Use         []uint32
	ReturnCode  uint32
}

type SamrLookupIdsInDomainReq struct {
	DomainHandle DomainHandle
	RelativeIds  []uint32 // At most MaxLookupCount
}

type SamrLookupIdsInDomainRes struct {
	Names      []ndr.UnicodeString
	Use        []uint32
	ReturnCode uint32
}

type SamrOpenGroupReq struct {
	DomainHandle  DomainHandle
	DesiredAccess uint32
	GroupId       uint32
}

type SamrOpenGroupRes struct {
	GroupHandle GroupHandle
	ReturnCode  uint32
}

type SamrAddMemberToGroupReq struct {
	GroupHandle GroupHandle
	MemberId    uint32
	Attributes  uint32
}

type SamrRemoveMemberFromGroupReq struct {
	GroupHandle GroupHandle
	MemberId    uint32
}

type SamrGetMembersInGroupReq struct {
	GroupHandle GroupHandle
}

type SamrGetMembersInGroupRes struct {
	Members    *SamprGetMembersBuffer
	ReturnCode uint32
}

type SamrOpenAliasReq struct {
	DomainHandle  DomainHandle
	DesiredAccess uint32
	AliasId       uint32
}

type SamrOpenAliasRes struct {
	AliasHandle AliasHandle
	ReturnCode  uint32
}

type SamrAddMemberToAliasReq struct {
	AliasHandle AliasHandle
	MemberId    *msdtyp.SID
}

type SamrRemoveMemberFromAliasReq struct {
	AliasHandle AliasHandle
	MemberId    *msdtyp.SID
}

type SamrGetMembersInAliasReq struct {
	AliasHandle AliasHandle
}

type SamrGetMembersInAliasRes struct {
	Members    []*msdtyp.SID
	ReturnCode uint32
}

type SamrOpenUserReq struct {
	DomainHandle  DomainHandle
	DesiredAccess uint32
	UserId        uint32
}

type SamrOpenUserRes struct {
	UserHandle UserHandle
	ReturnCode uint32
}

type SamrDeleteUserReq struct {
	UserHandle UserHandle
}

type SamrDeleteUserRes struct {
	UserHandle UserHandle
	ReturnCode uint32
}

type SamrQueryInformationUser2Req struct {
	UserHandle           UserHandle
	UserInformationClass uint16
}

type SamrQueryInformationUser2Res struct {
	Buffer     UserInfo
	ReturnCode uint32
	// Class the union is decoded against. It is not part of the response
	// and must be set before UnmarshalBinary.
	UserInformationClass uint16 `json:"-"`
}

type SamrSetInformationUser2Req struct {
	UserHandle UserHandle
	Buffer     UserInfo
}

type SamrRidToSidReq struct {
	DomainHandle DomainHandle
	Rid          uint32
}

type SamrRidToSidRes struct {
	Sid        *msdtyp.SID
	ReturnCode uint32
}

func tooSmall(name string, size int) error {
	return fmt.Errorf("Server response to %s was too small. Expected at least %d bytes", name, size)
}

func (self *SamrCloseHandleReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrCloseHandleReq")
	e := ndr.NewEncoder()
	self.Handle.MarshalEntity(e)
	return e.Bytes(), nil
}

func (self *SamrCloseHandleReq) UnmarshalBinary(buf []byte) error {
	return self.Handle.UnmarshalEntity(ndr.NewDecoder(buf))
}

func (self *SamrCloseHandleRes) MarshalBinary() ([]byte, error) {
	e := ndr.NewEncoder()
	self.Handle.MarshalEntity(e)
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrCloseHandleRes) UnmarshalBinary(buf []byte) (err error) {
	if len(buf) < 24 {
		return tooSmall("SamrCloseHandle", 24)
	}
	d := ndr.NewDecoder(buf)
	if err = self.Handle.UnmarshalEntity(d); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *SamrReturnCodeRes) MarshalBinary() ([]byte, error) {
	e := ndr.NewEncoder()
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrReturnCodeRes) UnmarshalBinary(buf []byte) (err error) {
	self.ReturnCode, err = ndr.NewDecoder(buf).ReadUint32()
	return
}

func (self *SamrConnect5Req) MarshalBinary() (res []byte, err error) {
	log.Debugln("In MarshalBinary for SamrConnect5Req")
	if self.InRevisionInfo == nil {
		return nil, fmt.Errorf("SamrConnect5Req: InRevisionInfo is required")
	}
	e := ndr.NewEncoder()
	if err = ndr.MarshalUnique(e, self.ServerName != "", ndr.WString(self.ServerName)); err != nil {
		return
	}
	e.WriteUint32(self.DesiredAccess)
	e.WriteUint32(self.InRevisionInfo.Tag())
	if err = ndr.MarshalUnion(e, ndr.LongTag, self.InRevisionInfo); err != nil {
		return
	}
	return e.Bytes(), nil
}

func (self *SamrConnect5Req) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	var name *ndr.WString
	if name, err = ndr.UnmarshalUnique[ndr.WString](d); err != nil {
		return
	}
	self.ServerName = ""
	if name != nil {
		self.ServerName = string(*name)
	}
	if self.DesiredAccess, err = d.ReadUint32(); err != nil {
		return
	}
	var version uint32
	if version, err = d.ReadUint32(); err != nil {
		return
	}
	self.InRevisionInfo, err = ndr.UnmarshalUnion(d, ndr.LongTag, version, newRevisionInfo)
	return
}

func (self *SamrConnect5Res) MarshalBinary() (res []byte, err error) {
	if self.OutRevisionInfo == nil {
		return nil, fmt.Errorf("SamrConnect5Res: OutRevisionInfo is required")
	}
	e := ndr.NewEncoder()
	e.WriteUint32(self.OutRevisionInfo.Tag())
	if err = ndr.MarshalUnion(e, ndr.LongTag, self.OutRevisionInfo); err != nil {
		return
	}
	self.ServerHandle.MarshalEntity(e)
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrConnect5Res) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for SamrConnect5Res")
	if len(buf) < 40 {
		return tooSmall("SamrConnect5", 40)
	}
	d := ndr.NewDecoder(buf)
	var version uint32
	if version, err = d.ReadUint32(); err != nil {
		return
	}
	if self.OutRevisionInfo, err = ndr.UnmarshalUnion(d, ndr.LongTag, version, newRevisionInfo); err != nil {
		return
	}
	if err = self.ServerHandle.UnmarshalEntity(d); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *SamrLookupDomainReq) MarshalBinary() (res []byte, err error) {
	log.Debugln("In MarshalBinary for SamrLookupDomainReq")
	e := ndr.NewEncoder()
	self.ServerHandle.MarshalEntity(e)
	if err = ndr.Marshal(e, &self.Name); err != nil {
		return
	}
	return e.Bytes(), nil
}

func (self *SamrLookupDomainReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.ServerHandle.UnmarshalEntity(d); err != nil {
		return
	}
	return ndr.Unmarshal(d, &self.Name)
}

func (self *SamrLookupDomainRes) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = ndr.MarshalUnique(e, self.DomainId != nil, self.DomainId); err != nil {
		return
	}
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrLookupDomainRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for SamrLookupDomainRes")
	d := ndr.NewDecoder(buf)
	if self.DomainId, err = ndr.UnmarshalUnique[msdtyp.SID](d); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *SamrEnumDomainsReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrEnumDomainsReq")
	e := ndr.NewEncoder()
	self.ServerHandle.MarshalEntity(e)
	e.WriteUint32(self.EnumerationContext)
	e.WriteUint32(self.PreferedMaximumLength)
	return e.Bytes(), nil
}

func (self *SamrEnumDomainsReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.ServerHandle.UnmarshalEntity(d); err != nil {
		return
	}
	if self.EnumerationContext, err = d.ReadUint32(); err != nil {
		return
	}
	self.PreferedMaximumLength, err = d.ReadUint32()
	return
}

func (self *SamrEnumerationRes) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	e.WriteUint32(self.EnumerationContext)
	if err = ndr.MarshalUnique(e, self.Buffer != nil, &ridEnumerationArray{Items: self.Buffer}); err != nil {
		return
	}
	e.WriteUint32(self.CountReturned)
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrEnumerationRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for SamrEnumerationRes")
	if len(buf) < 16 {
		return tooSmall("the enumeration", 16)
	}
	d := ndr.NewDecoder(buf)
	if self.EnumerationContext, err = d.ReadUint32(); err != nil {
		return
	}
	var arr *ridEnumerationArray
	if arr, err = ndr.UnmarshalUnique[ridEnumerationArray](d); err != nil {
		return
	}
	self.Buffer = ridEnumerations(arr)
	if self.CountReturned, err = d.ReadUint32(); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *SamrOpenDomainReq) MarshalBinary() (res []byte, err error) {
	log.Debugln("In MarshalBinary for SamrOpenDomainReq")
	if self.DomainId == nil {
		return nil, fmt.Errorf("SamrOpenDomainReq: DomainId is required")
	}
	e := ndr.NewEncoder()
	self.ServerHandle.MarshalEntity(e)
	e.WriteUint32(self.DesiredAccess)
	if err = ndr.Marshal(e, self.DomainId); err != nil {
		return
	}
	return e.Bytes(), nil
}

func (self *SamrOpenDomainReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.ServerHandle.UnmarshalEntity(d); err != nil {
		return
	}
	if self.DesiredAccess, err = d.ReadUint32(); err != nil {
		return
	}
	self.DomainId = new(msdtyp.SID)
	return ndr.Unmarshal(d, self.DomainId)
}

func (self *SamrOpenDomainRes) MarshalBinary() ([]byte, error) {
	e := ndr.NewEncoder()
	self.DomainHandle.MarshalEntity(e)
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrOpenDomainRes) UnmarshalBinary(buf []byte) (err error) {
	if len(buf) < 24 {
		return tooSmall("SamrOpenDomain", 24)
	}
	d := ndr.NewDecoder(buf)
	if err = self.DomainHandle.UnmarshalEntity(d); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *SamrEnumerateGroupsInDomainReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrEnumerateGroupsInDomainReq")
	e := ndr.NewEncoder()
	self.DomainHandle.MarshalEntity(e)
	e.WriteUint32(self.EnumerationContext)
	e.WriteUint32(self.PreferedMaximumLength)
	return e.Bytes(), nil
}

func (self *SamrEnumerateGroupsInDomainReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.DomainHandle.UnmarshalEntity(d); err != nil {
		return
	}
	if self.EnumerationContext, err = d.ReadUint32(); err != nil {
		return
	}
	self.PreferedMaximumLength, err = d.ReadUint32()
	return
}

func (self *SamrCreateUserInDomainReq) MarshalBinary() (res []byte, err error) {
	log.Debugln("In MarshalBinary for SamrCreateUserInDomainReq")
	e := ndr.NewEncoder()
	self.DomainHandle.MarshalEntity(e)
	if err = ndr.Marshal(e, &self.Name); err != nil {
		return
	}
	e.WriteUint32(self.DesiredAccess)
	return e.Bytes(), nil
}

func (self *SamrCreateUserInDomainReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.DomainHandle.UnmarshalEntity(d); err != nil {
		return
	}
	if err = ndr.Unmarshal(d, &self.Name); err != nil {
		return
	}
	self.DesiredAccess, err = d.ReadUint32()
	return
}

func (self *SamrCreateUserInDomainRes) MarshalBinary() ([]byte, error) {
	e := ndr.NewEncoder()
	self.UserHandle.MarshalEntity(e)
	e.WriteUint32(self.RelativeId)
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrCreateUserInDomainRes) UnmarshalBinary(buf []byte) (err error) {
	if len(buf) < 28 {
		return tooSmall("SamrCreateUserInDomain", 28)
	}
	d := ndr.NewDecoder(buf)
	if err = self.UserHandle.UnmarshalEntity(d); err != nil {
		return
	}
	if self.RelativeId, err = d.ReadUint32(); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *SamrEnumDomainUsersReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrEnumDomainUsersReq")
	e := ndr.NewEncoder()
	self.DomainHandle.MarshalEntity(e)
	e.WriteUint32(self.EnumerationContext)
	e.WriteUint32(self.UserAccountControl)
	e.WriteUint32(self.PreferedMaximumLength)
	return e.Bytes(), nil
}

func (self *SamrEnumDomainUsersReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.DomainHandle.UnmarshalEntity(d); err != nil {
		return
	}
	if self.EnumerationContext, err = d.ReadUint32(); err != nil {
		return
	}
	if self.UserAccountControl, err = d.ReadUint32(); err != nil {
		return
	}
	self.PreferedMaximumLength, err = d.ReadUint32()
	return
}

func (self *SamrEnumAliasesInDomainReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrEnumAliasesInDomainReq")
	e := ndr.NewEncoder()
	self.DomainHandle.MarshalEntity(e)
	e.WriteUint32(self.EnumerationContext)
	e.WriteUint32(self.PreferedMaximumLength)
	return e.Bytes(), nil
}

func (self *SamrEnumAliasesInDomainReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.DomainHandle.UnmarshalEntity(d); err != nil {
		return
	}
	if self.EnumerationContext, err = d.ReadUint32(); err != nil {
		return
	}
	self.PreferedMaximumLength, err = d.ReadUint32()
	return
}

func (self *SamrLookupNamesInDomainReq) MarshalBinary() (res []byte, err error) {
	log.Debugln("In MarshalBinary for SamrLookupNamesInDomainReq")
	if err = ndr.CheckRange("SamrLookupNamesInDomain names", len(self.Names), 0, MaxLookupCount); err != nil {
		log.Errorln(err)
		return
	}
	e := ndr.NewEncoder()
	self.DomainHandle.MarshalEntity(e)
	e.WriteUint32(uint32(len(self.Names)))
	names := ndr.ConformantVaryingArray[ndr.UnicodeString, *ndr.UnicodeString]{MaxCount: MaxLookupCount, Items: self.Names}
	if err = ndr.Marshal(e, &names); err != nil {
		return
	}
	return e.Bytes(), nil
}

func (self *SamrLookupNamesInDomainReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.DomainHandle.UnmarshalEntity(d); err != nil {
		return
	}
	var count uint32
	if count, err = d.ReadUint32(); err != nil {
		return
	}
	if err = ndr.CheckRange("SamrLookupNamesInDomain names", int(count), 0, MaxLookupCount); err != nil {
		log.Errorln(err)
		return
	}
	var names ndr.ConformantVaryingArray[ndr.UnicodeString, *ndr.UnicodeString]
	if err = ndr.Unmarshal(d, &names); err != nil {
		return
	}
	if len(names.Items) != int(count) {
		return &ndr.FormatError{What: "SamrLookupNamesInDomain names", Reason: fmt.Sprintf("Count is %d but the array holds %d", count, len(names.Items))}
	}
	self.Names = names.Items
	return
}

func (self *SamrLookupNamesInDomainRes) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = ndr.Marshal(e, &ulongArray{Items: ndr.ULongs(self.RelativeIds)}); err != nil {
		return
	}
	if err = ndr.Marshal(e, &ulongArray{Items: ndr.ULongs(self.Use)}); err != nil {
		return
	}
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrLookupNamesInDomainRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for SamrLookupNamesInDomainRes")
	d := ndr.NewDecoder(buf)
	var rids, use ulongArray
	if err = ndr.Unmarshal(d, &rids); err != nil {
		return
	}
	if err = ndr.Unmarshal(d, &use); err != nil {
		return
	}
	self.RelativeIds = ndr.Uint32s(rids.Items)
	self.Use = ndr.Uint32s(use.Items)
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *SamrLookupIdsInDomainReq) MarshalBinary() (res []byte, err error) {
	log.Debugln("In MarshalBinary for SamrLookupIdsInDomainReq")
	if err = ndr.CheckRange("SamrLookupIdsInDomain ids", len(self.RelativeIds), 0, MaxLookupCount); err != nil {
		log.Errorln(err)
		return
	}
	e := ndr.NewEncoder()
	self.DomainHandle.MarshalEntity(e)
	e.WriteUint32(uint32(len(self.RelativeIds)))
	ids := ndr.ConformantVaryingArray[ndr.ULong, *ndr.ULong]{MaxCount: MaxLookupCount, Items: ndr.ULongs(self.RelativeIds)}
	if err = ndr.Marshal(e, &ids); err != nil {
		return
	}
	return e.Bytes(), nil
}

func (self *SamrLookupIdsInDomainReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.DomainHandle.UnmarshalEntity(d); err != nil {
		return
	}
	var count uint32
	if count, err = d.ReadUint32(); err != nil {
		return
	}
	if err = ndr.CheckRange("SamrLookupIdsInDomain ids", int(count), 0, MaxLookupCount); err != nil {
		log.Errorln(err)
		return
	}
	var ids ndr.ConformantVaryingArray[ndr.ULong, *ndr.ULong]
	if err = ndr.Unmarshal(d, &ids); err != nil {
		return
	}
	if len(ids.Items) != int(count) {
		return &ndr.FormatError{What: "SamrLookupIdsInDomain ids", Reason: fmt.Sprintf("Count is %d but the array holds %d", count, len(ids.Items))}
	}
	self.RelativeIds = ndr.Uint32s(ids.Items)
	return
}

func (self *SamrLookupIdsInDomainRes) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = ndr.Marshal(e, &ustringArray{Items: self.Names}); err != nil {
		return
	}
	if err = ndr.Marshal(e, &ulongArray{Items: ndr.ULongs(self.Use)}); err != nil {
		return
	}
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrLookupIdsInDomainRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for SamrLookupIdsInDomainRes")
	d := ndr.NewDecoder(buf)
	var names ustringArray
	var use ulongArray
	if err = ndr.Unmarshal(d, &names); err != nil {
		return
	}
	if err = ndr.Unmarshal(d, &use); err != nil {
		return
	}
	self.Names = names.Items
	self.Use = ndr.Uint32s(use.Items)
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *SamrOpenGroupReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrOpenGroupReq")
	e := ndr.NewEncoder()
	self.DomainHandle.MarshalEntity(e)
	e.WriteUint32(self.DesiredAccess)
	e.WriteUint32(self.GroupId)
	return e.Bytes(), nil
}

func (self *SamrOpenGroupReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.DomainHandle.UnmarshalEntity(d); err != nil {
		return
	}
	if self.DesiredAccess, err = d.ReadUint32(); err != nil {
		return
	}
	self.GroupId, err = d.ReadUint32()
	return
}

func (self *SamrOpenGroupRes) MarshalBinary() ([]byte, error) {
	e := ndr.NewEncoder()
	self.GroupHandle.MarshalEntity(e)
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrOpenGroupRes) UnmarshalBinary(buf []byte) (err error) {
	if len(buf) < 24 {
		return tooSmall("SamrOpenGroup", 24)
	}
	d := ndr.NewDecoder(buf)
	if err = self.GroupHandle.UnmarshalEntity(d); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *SamrAddMemberToGroupReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrAddMemberToGroupReq")
	e := ndr.NewEncoder()
	self.GroupHandle.MarshalEntity(e)
	e.WriteUint32(self.MemberId)
	e.WriteUint32(self.Attributes)
	return e.Bytes(), nil
}

func (self *SamrAddMemberToGroupReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.GroupHandle.UnmarshalEntity(d); err != nil {
		return
	}
	if self.MemberId, err = d.ReadUint32(); err != nil {
		return
	}
	self.Attributes, err = d.ReadUint32()
	return
}

func (self *SamrRemoveMemberFromGroupReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrRemoveMemberFromGroupReq")
	e := ndr.NewEncoder()
	self.GroupHandle.MarshalEntity(e)
	e.WriteUint32(self.MemberId)
	return e.Bytes(), nil
}

func (self *SamrRemoveMemberFromGroupReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.GroupHandle.UnmarshalEntity(d); err != nil {
		return
	}
	self.MemberId, err = d.ReadUint32()
	return
}

func (self *SamrGetMembersInGroupReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrGetMembersInGroupReq")
	e := ndr.NewEncoder()
	self.GroupHandle.MarshalEntity(e)
	return e.Bytes(), nil
}

func (self *SamrGetMembersInGroupReq) UnmarshalBinary(buf []byte) error {
	return self.GroupHandle.UnmarshalEntity(ndr.NewDecoder(buf))
}

func (self *SamrGetMembersInGroupRes) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = ndr.MarshalUnique(e, self.Members != nil, self.Members); err != nil {
		return
	}
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrGetMembersInGroupRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for SamrGetMembersInGroupRes")
	d := ndr.NewDecoder(buf)
	if self.Members, err = ndr.UnmarshalUnique[SamprGetMembersBuffer](d); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *SamrOpenAliasReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrOpenAliasReq")
	e := ndr.NewEncoder()
	self.DomainHandle.MarshalEntity(e)
	e.WriteUint32(self.DesiredAccess)
	e.WriteUint32(self.AliasId)
	return e.Bytes(), nil
}

func (self *SamrOpenAliasReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.DomainHandle.UnmarshalEntity(d); err != nil {
		return
	}
	if self.DesiredAccess, err = d.ReadUint32(); err != nil {
		return
	}
	self.AliasId, err = d.ReadUint32()
	return
}

func (self *SamrOpenAliasRes) MarshalBinary() ([]byte, error) {
	e := ndr.NewEncoder()
	self.AliasHandle.MarshalEntity(e)
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrOpenAliasRes) UnmarshalBinary(buf []byte) (err error) {
	if len(buf) < 24 {
		return tooSmall("SamrOpenAlias", 24)
	}
	d := ndr.NewDecoder(buf)
	if err = self.AliasHandle.UnmarshalEntity(d); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func marshalAliasMember(name string, handle *AliasHandle, sid *msdtyp.SID) (res []byte, err error) {
	log.Debugln("In MarshalBinary for " + name)
	if sid == nil {
		return nil, fmt.Errorf("%s: MemberId is required", name)
	}
	e := ndr.NewEncoder()
	handle.MarshalEntity(e)
	if err = ndr.Marshal(e, sid); err != nil {
		return
	}
	return e.Bytes(), nil
}

func unmarshalAliasMember(buf []byte, handle *AliasHandle) (sid *msdtyp.SID, err error) {
	d := ndr.NewDecoder(buf)
	if err = handle.UnmarshalEntity(d); err != nil {
		return
	}
	sid = new(msdtyp.SID)
	if err = ndr.Unmarshal(d, sid); err != nil {
		return nil, err
	}
	return
}

func (self *SamrAddMemberToAliasReq) MarshalBinary() ([]byte, error) {
	return marshalAliasMember("SamrAddMemberToAliasReq", &self.AliasHandle, self.MemberId)
}

func (self *SamrAddMemberToAliasReq) UnmarshalBinary(buf []byte) (err error) {
	self.MemberId, err = unmarshalAliasMember(buf, &self.AliasHandle)
	return
}

func (self *SamrRemoveMemberFromAliasReq) MarshalBinary() ([]byte, error) {
	return marshalAliasMember("SamrRemoveMemberFromAliasReq", &self.AliasHandle, self.MemberId)
}

func (self *SamrRemoveMemberFromAliasReq) UnmarshalBinary(buf []byte) (err error) {
	self.MemberId, err = unmarshalAliasMember(buf, &self.AliasHandle)
	return
}

func (self *SamrGetMembersInAliasReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrGetMembersInAliasReq")
	e := ndr.NewEncoder()
	self.AliasHandle.MarshalEntity(e)
	return e.Bytes(), nil
}

func (self *SamrGetMembersInAliasReq) UnmarshalBinary(buf []byte) error {
	return self.AliasHandle.UnmarshalEntity(ndr.NewDecoder(buf))
}

func (self *SamrGetMembersInAliasRes) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = ndr.Marshal(e, &sidArray{Items: msdtyp.SIDPointers(self.Members)}); err != nil {
		return
	}
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrGetMembersInAliasRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for SamrGetMembersInAliasRes")
	d := ndr.NewDecoder(buf)
	var sids sidArray
	if err = ndr.Unmarshal(d, &sids); err != nil {
		return
	}
	self.Members = msdtyp.SIDs(sids.Items)
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *SamrOpenUserReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrOpenUserReq")
	e := ndr.NewEncoder()
	self.DomainHandle.MarshalEntity(e)
	e.WriteUint32(self.DesiredAccess)
	e.WriteUint32(self.UserId)
	return e.Bytes(), nil
}

func (self *SamrOpenUserReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.DomainHandle.UnmarshalEntity(d); err != nil {
		return
	}
	if self.DesiredAccess, err = d.ReadUint32(); err != nil {
		return
	}
	self.UserId, err = d.ReadUint32()
	return
}

func (self *SamrOpenUserRes) MarshalBinary() ([]byte, error) {
	e := ndr.NewEncoder()
	self.UserHandle.MarshalEntity(e)
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrOpenUserRes) UnmarshalBinary(buf []byte) (err error) {
	if len(buf) < 24 {
		return tooSmall("SamrOpenUser", 24)
	}
	d := ndr.NewDecoder(buf)
	if err = self.UserHandle.UnmarshalEntity(d); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *SamrDeleteUserReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrDeleteUserReq")
	e := ndr.NewEncoder()
	self.UserHandle.MarshalEntity(e)
	return e.Bytes(), nil
}

func (self *SamrDeleteUserReq) UnmarshalBinary(buf []byte) error {
	return self.UserHandle.UnmarshalEntity(ndr.NewDecoder(buf))
}

func (self *SamrDeleteUserRes) MarshalBinary() ([]byte, error) {
	e := ndr.NewEncoder()
	self.UserHandle.MarshalEntity(e)
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrDeleteUserRes) UnmarshalBinary(buf []byte) (err error) {
	if len(buf) < 24 {
		return tooSmall("SamrDeleteUser", 24)
	}
	d := ndr.NewDecoder(buf)
	if err = self.UserHandle.UnmarshalEntity(d); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *SamrQueryInformationUser2Req) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrQueryInformationUser2Req")
	e := ndr.NewEncoder()
	self.UserHandle.MarshalEntity(e)
	e.WriteUint16(self.UserInformationClass)
	return e.Bytes(), nil
}

func (self *SamrQueryInformationUser2Req) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.UserHandle.UnmarshalEntity(d); err != nil {
		return
	}
	self.UserInformationClass, err = d.ReadUint16()
	return
}

func (self *SamrQueryInformationUser2Res) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	e.WriteReferent(self.Buffer != nil)
	if self.Buffer != nil {
		if err = ndr.MarshalUnion(e, ndr.ShortTag, self.Buffer); err != nil {
			return
		}
	}
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrQueryInformationUser2Res) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for SamrQueryInformationUser2Res")
	d := ndr.NewDecoder(buf)
	var ref uint32
	if ref, err = d.ReadReferent(); err != nil {
		return
	}
	self.Buffer = nil
	if ref != 0 {
		if self.Buffer, err = ndr.UnmarshalUnion(d, ndr.ShortTag, uint32(self.UserInformationClass), newUserInfo); err != nil {
			return
		}
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

// settable reports whether info may be sent with SamrSetInformationUser2.
// Password material needs session key encryption which is not supported.
func settable(info UserInfo) error {
	if info == nil {
		return fmt.Errorf("SamrSetInformationUser2Req: Buffer is required")
	}
	if all, ok := info.(*SamprUserAllInformation); ok {
		if all.WhichFields&(UserAllNtpasswordpresent|UserAllLmpasswordpresent) != 0 || all.LmPasswordPresent || all.NtPasswordPresent {
			return fmt.Errorf("SamrSetInformationUser2Req: setting password hashes is not supported")
		}
	}
	return nil
}

func (self *SamrSetInformationUser2Req) MarshalBinary() (res []byte, err error) {
	log.Debugln("In MarshalBinary for SamrSetInformationUser2Req")
	if err = settable(self.Buffer); err != nil {
		log.Errorln(err)
		return
	}
	e := ndr.NewEncoder()
	self.UserHandle.MarshalEntity(e)
	e.WriteUint16(uint16(self.Buffer.Tag()))
	if err = ndr.MarshalUnion(e, ndr.ShortTag, self.Buffer); err != nil {
		return
	}
	return e.Bytes(), nil
}

func (self *SamrSetInformationUser2Req) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.UserHandle.UnmarshalEntity(d); err != nil {
		return
	}
	var class uint16
	if class, err = d.ReadUint16(); err != nil {
		return
	}
	self.Buffer, err = ndr.UnmarshalUnion(d, ndr.ShortTag, uint32(class), newUserInfo)
	return
}

func (self *SamrRidToSidReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for SamrRidToSidReq")
	e := ndr.NewEncoder()
	self.DomainHandle.MarshalEntity(e)
	e.WriteUint32(self.Rid)
	return e.Bytes(), nil
}

func (self *SamrRidToSidReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.DomainHandle.UnmarshalEntity(d); err != nil {
		return
	}
	self.Rid, err = d.ReadUint32()
	return
}

func (self *SamrRidToSidRes) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = ndr.MarshalUnique(e, self.Sid != nil, self.Sid); err != nil {
		return
	}
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *SamrRidToSidRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for SamrRidToSidRes")
	d := ndr.NewDecoder(buf)
	if self.Sid, err = ndr.UnmarshalUnique[msdtyp.SID](d); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}
