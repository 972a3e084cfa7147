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

package mslsad

import (
	"fmt"

	"github.com/jfjallid/go-msrpc/msdtyp"
	"github.com/jfjallid/go-msrpc/ndr"
)

// MS-LSAD Section Opnum 0
type LsarCloseReq struct {
	ObjectHandle ObjectHandle
}

// MS-LSAD Opnum 0
type LsarCloseRes struct {
	ObjectHandle ObjectHandle
	ReturnCode   uint32
}

// LsarReturnCodeRes is the response of every operation that returns nothing
// but a status.
type LsarReturnCodeRes struct {
	ReturnCode uint32
}

// MS-LSAD Opnum 7
type LsarQueryInformationPolicyReq struct {
	PolicyHandle     PolicyHandle
	InformationClass uint16
}

// MS-LSAD Opnum 7
type LsarQueryInformationPolicyRes struct {
	PolicyInformation PolicyInformation
	ReturnCode        uint32
	// Class the union is decoded against. It is not part of the response
	// and must be set before UnmarshalBinary.
	InformationClass uint16 `json:"-"`
}

// MS-LSAD Opnum 10
type LsarCreateAccountReq struct {
	PolicyHandle  PolicyHandle
	AccountSid    *msdtyp.SID
	DesiredAccess uint32
}

// MS-LSAD Opnum 10
type LsarCreateAccountRes struct {
	AccountHandle AccountHandle
	ReturnCode    uint32
}

// MS-LSAD Opnum 11
type LsarEnumerateAccountsReq struct {
	PolicyHandle       PolicyHandle
	EnumerationContext uint32
	PreferredMaxLength uint32
}

// MS-LSAD Opnum 11
type LsarEnumerateAccountsRes struct {
	EnumerationContext uint32
	EnumerationBuffer  []*msdtyp.SID // nil when the server sent a null buffer
	ReturnCode         uint32
}

// MS-LSAD Opnum 17
type LsarOpenAccountReq struct {
	PolicyHandle  PolicyHandle
	AccountSid    *msdtyp.SID
	DesiredAccess uint32
}

// MS-LSAD Opnum 17
type LsarOpenAccountRes struct {
	AccountHandle AccountHandle
	ReturnCode    uint32
}

// MS-LSAD Opnum 23
type LsarGetSystemAccessAccountReq struct {
	AccountHandle AccountHandle
}

// MS-LSAD Opnum 23
type LsarGetSystemAccessAccountRes struct {
	SystemAccess uint32
	ReturnCode   uint32
}

// MS-LSAD Opnum 24
type LsarSetSystemAccessAccountReq struct {
	AccountHandle AccountHandle
	SystemAccess  uint32
}

// MS-LSAD Opnum 34
type LsarDeleteObjectReq struct {
	ObjectHandle ObjectHandle
}

// MS-LSAD Opnum 34
type LsarDeleteObjectRes struct {
	ObjectHandle ObjectHandle
	ReturnCode   uint32
}

// MS-LSAD Opnum 35
type LsarEnumerateAccountsWithUserRightReq struct {
	PolicyHandle PolicyHandle
	UserRight    string // Empty is sent as a null pointer
}

// MS-LSAD Opnum 35
type LsarEnumerateAccountsWithUserRightRes struct {
	EnumerationBuffer []*msdtyp.SID
	ReturnCode        uint32
}

// MS-LSAD Opnum 36
type LsarEnumerateAccountRightsReq struct {
	PolicyHandle PolicyHandle
	AccountSid   *msdtyp.SID
}

// MS-LSAD Opnum 36
type LsarEnumerateAccountRightsRes struct {
	UserRights []ndr.UnicodeString
	ReturnCode uint32
}

// MS-LSAD Opnum 37
type LsarAddAccountRightsReq struct {
	PolicyHandle PolicyHandle
	AccountSid   *msdtyp.SID
	UserRights   []ndr.UnicodeString
}

// MS-LSAD Opnum 38
type LsarRemoveAccountRightsReq struct {
	PolicyHandle PolicyHandle
	AccountSid   *msdtyp.SID
	AllRights    bool
	UserRights   []ndr.UnicodeString // nil is sent as a null pointer
}

// MS-LSAD Opnum 44
type LsarOpenPolicy2Req struct {
	SystemName       string // Empty is sent as a null pointer
	ObjectAttributes LsaprObjectAttributes
	DesiredAccess    uint32
}

// MS-LSAD Opnum 44
type LsarOpenPolicy2Res struct {
	PolicyHandle PolicyHandle
	ReturnCode   uint32
}

// MS-LSAT opnum 45
type LsarGetUserNameReq struct {
	SystemName string        // Empty is sent as a null pointer
	UserName   StringPointer // Top-level ref ptr, so can never be NULL
	DomainName *StringPointer
}

// MS-LSAT opnum 45
type LsarGetUserNameRes struct {
	UserName   StringPointer
	DomainName *StringPointer
	ReturnCode uint32
}

// MS-LSAT opnum 57
type LsarLookupSids2Req struct {
	PolicyHandle    PolicyHandle
	SidEnumBuffer   []*msdtyp.SID // At most MaxLookupSids
	TranslatedNames []LsaprTranslatedNameEx
	LookupLevel     LsapLookupLevel
	MappedCount     uint32
	LookupOptions   uint32 // Must be 0
	ClientRevision  uint32
}

// MS-LSAT opnum 57
type LsarLookupSids2Res struct {
	ReferencedDomains *LsaprReferencedDomainList
	TranslatedNames   []LsaprTranslatedNameEx
	MappedCount       uint32
	ReturnCode        uint32
}

// MS-LSAT opnum 68
type LsarLookupNames3Req struct {
	PolicyHandle   PolicyHandle
	Names          []ndr.UnicodeString // At most MaxLookupNames
	TranslatedSids []LsaprTranslatedSidEx2
	LookupLevel    LsapLookupLevel
	MappedCount    uint32
	LookupOptions  uint32
	ClientRevision uint32
}

// MS-LSAT opnum 68
type LsarLookupNames3Res struct {
	ReferencedDomains *LsaprReferencedDomainList
	TranslatedSids    []LsaprTranslatedSidEx2
	MappedCount       uint32
	ReturnCode        uint32
}

func tooSmall(name string, size int) error {
	return fmt.Errorf("Server response to %s was too small. Expected at least %d bytes", name, size)
}

// Responses made of a context handle and the status
func marshalHandleRes[K any](handle *ndr.Handle[K], returnCode uint32) []byte {
	e := ndr.NewEncoder()
	handle.MarshalEntity(e)
	e.WriteUint32(returnCode)
	return e.Bytes()
}

func unmarshalHandleRes[K any](name string, buf []byte, handle *ndr.Handle[K]) (returnCode uint32, err error) {
	if len(buf) < 24 {
		return 0, tooSmall(name, 24)
	}
	d := ndr.NewDecoder(buf)
	if err = handle.UnmarshalEntity(d); err != nil {
		return
	}
	return d.ReadUint32()
}

// Requests that start with a context handle followed by a [ref] PRPC_SID
func marshalSidReq[K any](e *ndr.Encoder, name string, handle *ndr.Handle[K], sid *msdtyp.SID) error {
	log.Debugln("In MarshalBinary for " + name)
	if sid == nil {
		return fmt.Errorf("%s: AccountSid is required", name)
	}
	handle.MarshalEntity(e)
	return ndr.Marshal(e, sid)
}

func unmarshalSidReq[K any](d *ndr.Decoder, handle *ndr.Handle[K]) (sid *msdtyp.SID, err error) {
	if err = handle.UnmarshalEntity(d); err != nil {
		return
	}
	sid = new(msdtyp.SID)
	if err = ndr.Unmarshal(d, sid); err != nil {
		return nil, err
	}
	return
}

func (self *LsarCloseReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for LsarCloseReq")
	e := ndr.NewEncoder()
	self.ObjectHandle.MarshalEntity(e)
	return e.Bytes(), nil
}

func (self *LsarCloseReq) UnmarshalBinary(buf []byte) error {
	return self.ObjectHandle.UnmarshalEntity(ndr.NewDecoder(buf))
}

func (self *LsarCloseRes) MarshalBinary() ([]byte, error) {
	return marshalHandleRes(&self.ObjectHandle, self.ReturnCode), nil
}

func (self *LsarCloseRes) UnmarshalBinary(buf []byte) (err error) {
	self.ReturnCode, err = unmarshalHandleRes("LsarClose", buf, &self.ObjectHandle)
	return
}

func (self *LsarReturnCodeRes) MarshalBinary() ([]byte, error) {
	e := ndr.NewEncoder()
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *LsarReturnCodeRes) UnmarshalBinary(buf []byte) (err error) {
	self.ReturnCode, err = ndr.NewDecoder(buf).ReadUint32()
	return
}

func (self *LsarQueryInformationPolicyReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for LsarQueryInformationPolicyReq")
	e := ndr.NewEncoder()
	self.PolicyHandle.MarshalEntity(e)
	e.WriteUint16(self.InformationClass)
	return e.Bytes(), nil
}

func (self *LsarQueryInformationPolicyReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.PolicyHandle.UnmarshalEntity(d); err != nil {
		return
	}
	self.InformationClass, err = d.ReadUint16()
	return
}

func (self *LsarQueryInformationPolicyRes) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	e.WriteReferent(self.PolicyInformation != nil)
	if self.PolicyInformation != nil {
		if err = ndr.MarshalUnion(e, ndr.ShortTag, self.PolicyInformation); err != nil {
			return
		}
	}
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *LsarQueryInformationPolicyRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for LsarQueryInformationPolicyRes")
	if len(buf) < 8 {
		return tooSmall("LsarQueryInformationPolicy", 8)
	}
	d := ndr.NewDecoder(buf)
	var ref uint32
	if ref, err = d.ReadReferent(); err != nil {
		return
	}
	self.PolicyInformation = nil
	if ref != 0 {
		if self.PolicyInformation, err = ndr.UnmarshalUnion(d, ndr.ShortTag, uint32(self.InformationClass), newPolicyInformation); err != nil {
			return
		}
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *LsarCreateAccountReq) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = marshalSidReq(e, "LsarCreateAccountReq", &self.PolicyHandle, self.AccountSid); err != nil {
		return
	}
	e.WriteUint32(self.DesiredAccess)
	return e.Bytes(), nil
}

func (self *LsarCreateAccountReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if self.AccountSid, err = unmarshalSidReq(d, &self.PolicyHandle); err != nil {
		return
	}
	self.DesiredAccess, err = d.ReadUint32()
	return
}

func (self *LsarCreateAccountRes) MarshalBinary() ([]byte, error) {
	return marshalHandleRes(&self.AccountHandle, self.ReturnCode), nil
}

func (self *LsarCreateAccountRes) UnmarshalBinary(buf []byte) (err error) {
	self.ReturnCode, err = unmarshalHandleRes("LsarCreateAccount", buf, &self.AccountHandle)
	return
}

func (self *LsarEnumerateAccountsReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for LsarEnumerateAccountsReq")
	e := ndr.NewEncoder()
	self.PolicyHandle.MarshalEntity(e)
	e.WriteUint32(self.EnumerationContext)
	e.WriteUint32(self.PreferredMaxLength)
	return e.Bytes(), nil
}

func (self *LsarEnumerateAccountsReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.PolicyHandle.UnmarshalEntity(d); err != nil {
		return
	}
	if self.EnumerationContext, err = d.ReadUint32(); err != nil {
		return
	}
	self.PreferredMaxLength, err = d.ReadUint32()
	return
}

func (self *LsarEnumerateAccountsRes) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	e.WriteUint32(self.EnumerationContext)
	if err = ndr.Marshal(e, &sidArray{Items: msdtyp.SIDPointers(self.EnumerationBuffer)}); err != nil {
		return
	}
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *LsarEnumerateAccountsRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for LsarEnumerateAccountsRes")
	if len(buf) < 16 {
		return tooSmall("LsarEnumerateAccounts", 16)
	}
	d := ndr.NewDecoder(buf)
	if self.EnumerationContext, err = d.ReadUint32(); err != nil {
		return
	}
	var sids sidArray
	if err = ndr.Unmarshal(d, &sids); err != nil {
		return
	}
	self.EnumerationBuffer = msdtyp.SIDs(sids.Items)
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *LsarOpenAccountReq) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = marshalSidReq(e, "LsarOpenAccountReq", &self.PolicyHandle, self.AccountSid); err != nil {
		return
	}
	e.WriteUint32(self.DesiredAccess)
	return e.Bytes(), nil
}

func (self *LsarOpenAccountReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if self.AccountSid, err = unmarshalSidReq(d, &self.PolicyHandle); err != nil {
		return
	}
	self.DesiredAccess, err = d.ReadUint32()
	return
}

func (self *LsarOpenAccountRes) MarshalBinary() ([]byte, error) {
	return marshalHandleRes(&self.AccountHandle, self.ReturnCode), nil
}

func (self *LsarOpenAccountRes) UnmarshalBinary(buf []byte) (err error) {
	self.ReturnCode, err = unmarshalHandleRes("LsarOpenAccount", buf, &self.AccountHandle)
	return
}

func (self *LsarGetSystemAccessAccountReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for LsarGetSystemAccessAccountReq")
	e := ndr.NewEncoder()
	self.AccountHandle.MarshalEntity(e)
	return e.Bytes(), nil
}

func (self *LsarGetSystemAccessAccountReq) UnmarshalBinary(buf []byte) error {
	return self.AccountHandle.UnmarshalEntity(ndr.NewDecoder(buf))
}

func (self *LsarGetSystemAccessAccountRes) MarshalBinary() ([]byte, error) {
	e := ndr.NewEncoder()
	e.WriteUint32(self.SystemAccess)
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *LsarGetSystemAccessAccountRes) UnmarshalBinary(buf []byte) (err error) {
	if len(buf) < 8 {
		return tooSmall("LsarGetSystemAccessAccount", 8)
	}
	d := ndr.NewDecoder(buf)
	if self.SystemAccess, err = d.ReadUint32(); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *LsarSetSystemAccessAccountReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for LsarSetSystemAccessAccountReq")
	e := ndr.NewEncoder()
	self.AccountHandle.MarshalEntity(e)
	e.WriteUint32(self.SystemAccess)
	return e.Bytes(), nil
}

func (self *LsarSetSystemAccessAccountReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.AccountHandle.UnmarshalEntity(d); err != nil {
		return
	}
	self.SystemAccess, err = d.ReadUint32()
	return
}

func (self *LsarDeleteObjectReq) MarshalBinary() ([]byte, error) {
	log.Debugln("In MarshalBinary for LsarDeleteObjectReq")
	e := ndr.NewEncoder()
	self.ObjectHandle.MarshalEntity(e)
	return e.Bytes(), nil
}

func (self *LsarDeleteObjectReq) UnmarshalBinary(buf []byte) error {
	return self.ObjectHandle.UnmarshalEntity(ndr.NewDecoder(buf))
}

func (self *LsarDeleteObjectRes) MarshalBinary() ([]byte, error) {
	return marshalHandleRes(&self.ObjectHandle, self.ReturnCode), nil
}

func (self *LsarDeleteObjectRes) UnmarshalBinary(buf []byte) (err error) {
	self.ReturnCode, err = unmarshalHandleRes("LsarDeleteObject", buf, &self.ObjectHandle)
	return
}

func (self *LsarEnumerateAccountsWithUserRightReq) MarshalBinary() (res []byte, err error) {
	log.Debugln("In MarshalBinary for LsarEnumerateAccountsWithUserRightReq")
	e := ndr.NewEncoder()
	self.PolicyHandle.MarshalEntity(e)
	right := ndr.NewUnicodeString(self.UserRight)
	if err = ndr.MarshalUnique(e, self.UserRight != "", &right); err != nil {
		return
	}
	return e.Bytes(), nil
}

func (self *LsarEnumerateAccountsWithUserRightReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.PolicyHandle.UnmarshalEntity(d); err != nil {
		return
	}
	var right *ndr.UnicodeString
	if right, err = ndr.UnmarshalUnique[ndr.UnicodeString](d); err != nil {
		return
	}
	self.UserRight = ""
	if right != nil {
		self.UserRight = right.S
	}
	return
}

func (self *LsarEnumerateAccountsWithUserRightRes) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = ndr.Marshal(e, &sidArray{Items: msdtyp.SIDPointers(self.EnumerationBuffer)}); err != nil {
		return
	}
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *LsarEnumerateAccountsWithUserRightRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for LsarEnumerateAccountsWithUserRightRes")
	if len(buf) < 12 {
		return tooSmall("LsarEnumerateAccountsWithUserRight", 12)
	}
	d := ndr.NewDecoder(buf)
	var sids sidArray
	if err = ndr.Unmarshal(d, &sids); err != nil {
		return
	}
	self.EnumerationBuffer = msdtyp.SIDs(sids.Items)
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *LsarEnumerateAccountRightsReq) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = marshalSidReq(e, "LsarEnumerateAccountRightsReq", &self.PolicyHandle, self.AccountSid); err != nil {
		return
	}
	return e.Bytes(), nil
}

func (self *LsarEnumerateAccountRightsReq) UnmarshalBinary(buf []byte) (err error) {
	self.AccountSid, err = unmarshalSidReq(ndr.NewDecoder(buf), &self.PolicyHandle)
	return
}

func (self *LsarEnumerateAccountRightsRes) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = ndr.Marshal(e, &userRightArray{Items: self.UserRights}); err != nil {
		return
	}
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *LsarEnumerateAccountRightsRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for LsarEnumerateAccountRightsRes")
	if len(buf) < 12 {
		return tooSmall("LsarEnumerateAccountRights", 12)
	}
	d := ndr.NewDecoder(buf)
	var rights userRightArray
	if err = ndr.Unmarshal(d, &rights); err != nil {
		return
	}
	if err = ndr.CheckRange("LsarEnumerateAccountRights user rights", len(rights.Items), 0, MaxUserRights); err != nil {
		log.Errorln(err)
		return
	}
	self.UserRights = rights.Items
	self.ReturnCode, err = d.ReadUint32()
	return
}

func marshalRights(e *ndr.Encoder, rights []ndr.UnicodeString) error {
	if err := ndr.CheckRange("user rights", len(rights), 0, MaxUserRights); err != nil {
		log.Errorln(err)
		return err
	}
	return ndr.Marshal(e, &userRightArray{Items: rights})
}

func unmarshalRights(d *ndr.Decoder) (rights []ndr.UnicodeString, err error) {
	var arr userRightArray
	if err = ndr.Unmarshal(d, &arr); err != nil {
		return
	}
	if err = ndr.CheckRange("user rights", len(arr.Items), 0, MaxUserRights); err != nil {
		log.Errorln(err)
		return
	}
	return arr.Items, nil
}

func (self *LsarAddAccountRightsReq) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = marshalSidReq(e, "LsarAddAccountRightsReq", &self.PolicyHandle, self.AccountSid); err != nil {
		return
	}
	if err = marshalRights(e, self.UserRights); err != nil {
		return
	}
	return e.Bytes(), nil
}

func (self *LsarAddAccountRightsReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if self.AccountSid, err = unmarshalSidReq(d, &self.PolicyHandle); err != nil {
		return
	}
	self.UserRights, err = unmarshalRights(d)
	return
}

func (self *LsarRemoveAccountRightsReq) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = marshalSidReq(e, "LsarRemoveAccountRightsReq", &self.PolicyHandle, self.AccountSid); err != nil {
		return
	}
	var allRights uint8
	if self.AllRights {
		allRights = 1
	}
	e.WriteUint8(allRights)
	if err = marshalRights(e, self.UserRights); err != nil {
		return
	}
	return e.Bytes(), nil
}

func (self *LsarRemoveAccountRightsReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if self.AccountSid, err = unmarshalSidReq(d, &self.PolicyHandle); err != nil {
		return
	}
	var allRights uint8
	if allRights, err = d.ReadUint8(); err != nil {
		return
	}
	self.AllRights = allRights != 0
	self.UserRights, err = unmarshalRights(d)
	return
}

func (self *LsarOpenPolicy2Req) MarshalBinary() (res []byte, err error) {
	log.Debugln("In MarshalBinary for LsarOpenPolicy2Req")
	e := ndr.NewEncoder()
	if err = ndr.MarshalUnique(e, self.SystemName != "", ndr.WString(self.SystemName)); err != nil {
		return
	}
	if err = ndr.Marshal(e, &self.ObjectAttributes); err != nil {
		return
	}
	e.WriteUint32(self.DesiredAccess)
	return e.Bytes(), nil
}

func (self *LsarOpenPolicy2Req) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	var name *ndr.WString
	if name, err = ndr.UnmarshalUnique[ndr.WString](d); err != nil {
		return
	}
	self.SystemName = ""
	if name != nil {
		self.SystemName = string(*name)
	}
	if err = ndr.Unmarshal(d, &self.ObjectAttributes); err != nil {
		return
	}
	self.DesiredAccess, err = d.ReadUint32()
	return
}

func (self *LsarOpenPolicy2Res) MarshalBinary() ([]byte, error) {
	return marshalHandleRes(&self.PolicyHandle, self.ReturnCode), nil
}

func (self *LsarOpenPolicy2Res) UnmarshalBinary(buf []byte) (err error) {
	self.ReturnCode, err = unmarshalHandleRes("LsarOpenPolicy2", buf, &self.PolicyHandle)
	return
}

func (self *LsarGetUserNameReq) MarshalBinary() (res []byte, err error) {
	log.Debugln("In MarshalBinary for LsarGetUserNameReq")
	e := ndr.NewEncoder()
	if err = ndr.MarshalUnique(e, self.SystemName != "", ndr.WString(self.SystemName)); err != nil {
		return
	}
	if err = ndr.Marshal(e, &self.UserName); err != nil {
		return
	}
	if err = ndr.MarshalUnique(e, self.DomainName != nil, self.DomainName); err != nil {
		return
	}
	return e.Bytes(), nil
}

func (self *LsarGetUserNameReq) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	var name *ndr.WString
	if name, err = ndr.UnmarshalUnique[ndr.WString](d); err != nil {
		return
	}
	self.SystemName = ""
	if name != nil {
		self.SystemName = string(*name)
	}
	if err = ndr.Unmarshal(d, &self.UserName); err != nil {
		return
	}
	self.DomainName, err = ndr.UnmarshalUnique[StringPointer](d)
	return
}

func (self *LsarGetUserNameRes) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = ndr.Marshal(e, &self.UserName); err != nil {
		return
	}
	if err = ndr.MarshalUnique(e, self.DomainName != nil, self.DomainName); err != nil {
		return
	}
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *LsarGetUserNameRes) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for LsarGetUserNameRes")
	if len(buf) < 12 {
		return tooSmall("LsarGetUserName", 12)
	}
	d := ndr.NewDecoder(buf)
	if err = ndr.Unmarshal(d, &self.UserName); err != nil {
		return
	}
	if self.DomainName, err = ndr.UnmarshalUnique[StringPointer](d); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func marshalDomainList(e *ndr.Encoder, list *LsaprReferencedDomainList) error {
	return ndr.MarshalUnique(e, list != nil, list)
}

func unmarshalDomainList(d *ndr.Decoder) (list *LsaprReferencedDomainList, err error) {
	if list, err = ndr.UnmarshalUnique[LsaprReferencedDomainList](d); err != nil {
		return
	}
	if list != nil {
		if err = ndr.CheckRange("referenced domains", len(list.Domains), 0, MaxLookupDomains); err != nil {
			log.Errorln(err)
			return nil, err
		}
	}
	return
}

func (self *LsarLookupSids2Req) MarshalBinary() (res []byte, err error) {
	log.Debugln("In MarshalBinary for LsarLookupSids2Req")
	if err = ndr.CheckRange("LsarLookupSids2 SIDs", len(self.SidEnumBuffer), 0, MaxLookupSids); err != nil {
		log.Errorln(err)
		return
	}
	for i, sid := range self.SidEnumBuffer {
		if sid == nil {
			return nil, fmt.Errorf("LsarLookupSids2Req: SID %d is nil", i)
		}
	}
	if err = ndr.CheckRange("LsarLookupSids2 translated names", len(self.TranslatedNames), 0, MaxLookupSids); err != nil {
		log.Errorln(err)
		return
	}
	e := ndr.NewEncoder()
	self.PolicyHandle.MarshalEntity(e)
	if err = ndr.Marshal(e, &sidArray{Items: msdtyp.SIDPointers(self.SidEnumBuffer)}); err != nil {
		return
	}
	if err = ndr.Marshal(e, &translatedNamesArray{Items: self.TranslatedNames}); err != nil {
		return
	}
	e.WriteUint32(uint32(self.LookupLevel))
	e.WriteUint32(self.MappedCount)
	e.WriteUint32(self.LookupOptions)
	e.WriteUint32(self.ClientRevision)
	return e.Bytes(), nil
}

func (self *LsarLookupSids2Req) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.PolicyHandle.UnmarshalEntity(d); err != nil {
		return
	}
	var sids sidArray
	if err = ndr.Unmarshal(d, &sids); err != nil {
		return
	}
	if err = ndr.CheckRange("LsarLookupSids2 SIDs", len(sids.Items), 0, MaxLookupSids); err != nil {
		log.Errorln(err)
		return
	}
	self.SidEnumBuffer = msdtyp.SIDs(sids.Items)
	var names translatedNamesArray
	if err = ndr.Unmarshal(d, &names); err != nil {
		return
	}
	self.TranslatedNames = names.Items
	var level uint32
	if level, err = d.ReadUint32(); err != nil {
		return
	}
	self.LookupLevel = LsapLookupLevel(level)
	if self.MappedCount, err = d.ReadUint32(); err != nil {
		return
	}
	if self.LookupOptions, err = d.ReadUint32(); err != nil {
		return
	}
	self.ClientRevision, err = d.ReadUint32()
	return
}

func (self *LsarLookupSids2Res) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = marshalDomainList(e, self.ReferencedDomains); err != nil {
		return
	}
	if err = ndr.Marshal(e, &translatedNamesArray{Items: self.TranslatedNames}); err != nil {
		return
	}
	e.WriteUint32(self.MappedCount)
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *LsarLookupSids2Res) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for LsarLookupSids2Res")
	if len(buf) < 20 {
		return tooSmall("LsarLookupSids2", 20)
	}
	d := ndr.NewDecoder(buf)
	if self.ReferencedDomains, err = unmarshalDomainList(d); err != nil {
		return
	}
	var names translatedNamesArray
	if err = ndr.Unmarshal(d, &names); err != nil {
		return
	}
	if err = ndr.CheckRange("LsarLookupSids2 translated names", len(names.Items), 0, MaxLookupSids); err != nil {
		log.Errorln(err)
		return
	}
	self.TranslatedNames = names.Items
	if self.MappedCount, err = d.ReadUint32(); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}

func (self *LsarLookupNames3Req) MarshalBinary() (res []byte, err error) {
	log.Debugln("In MarshalBinary for LsarLookupNames3Req")
	if err = ndr.CheckRange("LsarLookupNames3 names", len(self.Names), 0, MaxLookupNames); err != nil {
		log.Errorln(err)
		return
	}
	if err = ndr.CheckRange("LsarLookupNames3 translated SIDs", len(self.TranslatedSids), 0, MaxLookupNames); err != nil {
		log.Errorln(err)
		return
	}
	e := ndr.NewEncoder()
	self.PolicyHandle.MarshalEntity(e)
	e.WriteUint32(uint32(len(self.Names)))
	if err = ndr.Marshal(e, &ndr.ConformantArray[ndr.UnicodeString, *ndr.UnicodeString]{Items: self.Names}); err != nil {
		return
	}
	if err = ndr.Marshal(e, &translatedSidsArray{Items: self.TranslatedSids}); err != nil {
		return
	}
	e.WriteUint32(uint32(self.LookupLevel))
	e.WriteUint32(self.MappedCount)
	e.WriteUint32(self.LookupOptions)
	e.WriteUint32(self.ClientRevision)
	return e.Bytes(), nil
}

func (self *LsarLookupNames3Req) UnmarshalBinary(buf []byte) (err error) {
	d := ndr.NewDecoder(buf)
	if err = self.PolicyHandle.UnmarshalEntity(d); err != nil {
		return
	}
	var count uint32
	if count, err = d.ReadUint32(); err != nil {
		return
	}
	if err = ndr.CheckRange("LsarLookupNames3 names", int(count), 0, MaxLookupNames); err != nil {
		log.Errorln(err)
		return
	}
	var names ndr.ConformantArray[ndr.UnicodeString, *ndr.UnicodeString]
	if err = ndr.Unmarshal(d, &names); err != nil {
		return
	}
	if len(names.Items) != int(count) {
		return &ndr.FormatError{What: "LsarLookupNames3 names", Reason: fmt.Sprintf("Count is %d but the array holds %d", count, len(names.Items))}
	}
	self.Names = names.Items
	var sids translatedSidsArray
	if err = ndr.Unmarshal(d, &sids); err != nil {
		return
	}
	self.TranslatedSids = sids.Items
	var level uint32
	if level, err = d.ReadUint32(); err != nil {
		return
	}
	self.LookupLevel = LsapLookupLevel(level)
	if self.MappedCount, err = d.ReadUint32(); err != nil {
		return
	}
	if self.LookupOptions, err = d.ReadUint32(); err != nil {
		return
	}
	self.ClientRevision, err = d.ReadUint32()
	return
}

func (self *LsarLookupNames3Res) MarshalBinary() (res []byte, err error) {
	e := ndr.NewEncoder()
	if err = marshalDomainList(e, self.ReferencedDomains); err != nil {
		return
	}
	if err = ndr.Marshal(e, &translatedSidsArray{Items: self.TranslatedSids}); err != nil {
		return
	}
	e.WriteUint32(self.MappedCount)
	e.WriteUint32(self.ReturnCode)
	return e.Bytes(), nil
}

func (self *LsarLookupNames3Res) UnmarshalBinary(buf []byte) (err error) {
	log.Debugln("In UnmarshalBinary for LsarLookupNames3Res")
	if len(buf) < 20 {
		return tooSmall("LsarLookupNames3", 20)
	}
	d := ndr.NewDecoder(buf)
	if self.ReferencedDomains, err = unmarshalDomainList(d); err != nil {
		return
	}
	var sids translatedSidsArray
	if err = ndr.Unmarshal(d, &sids); err != nil {
		return
	}
	if err = ndr.CheckRange("LsarLookupNames3 translated SIDs", len(sids.Items), 0, MaxLookupNames); err != nil {
		log.Errorln(err)
		return
	}
	self.TranslatedSids = sids.Items
	if self.MappedCount, err = d.ReadUint32(); err != nil {
		return
	}
	self.ReturnCode, err = d.ReadUint32()
	return
}
