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

type (
	sidArray             = ndr.CountedArray[msdtyp.SIDPointer, *msdtyp.SIDPointer]
	userRightArray       = ndr.CountedArray[ndr.UnicodeString, *ndr.UnicodeString]
	trustInfoArray       = ndr.CountedArray[LsaprTrustInformation, *LsaprTrustInformation]
	translatedNamesArray = ndr.CountedArray[LsaprTranslatedNameEx, *LsaprTranslatedNameEx]
	translatedSidsArray  = ndr.CountedArray[LsaprTranslatedSidEx2, *LsaprTranslatedSidEx2]
)

// MS-LSAD Section 2.2.2.4
// Every pointer but SecurityQualityOfService MUST be NULL or is ignored by the
// server, so only that one is supported.
type LsaprObjectAttributes struct {
	Length                   uint32 // Must be ignored
	Attributes               uint32 // Must be ignored
	SecurityQualityOfService *SecurityQualityOfService
}

// MS-LSAD Section 2.2.3.7
type SecurityQualityOfService struct {
	Length              uint32
	ImpersonationLevel  uint16
	ContextTrackingMode uint8
	EffectiveOnly       uint8
}

// StringPointer is a PRPC_UNICODE_STRING, an embedded pointer to a counted
// string. A nil String is sent as a null pointer.
type StringPointer struct {
	String *ndr.UnicodeString
}

// MS-LSAT Section 2.2.11 LSAPR_TRUST_INFORMATION
type LsaprTrustInformation struct {
	Name ndr.UnicodeString
	Sid  *msdtyp.SID
}

// MS-LSAT Section 2.2.12 LSAPR_REFERENCED_DOMAIN_LIST
type LsaprReferencedDomainList struct {
	Domains    []LsaprTrustInformation
	MaxEntries uint32 // This field MUST be ignored. The content is unspecified
	domains    trustInfoArray
}

// MS-LSAT Section 2.2.22 LSAPR_TRANSLATED_NAME_EX
type LsaprTranslatedNameEx struct {
	Use         SidNameUse
	Name        ndr.UnicodeString
	DomainIndex int32
	Flags       uint32
}

// MS-LSAT Section 2.2.26 LSAPR_TRANSLATED_SID_EX2
type LsaprTranslatedSidEx2 struct {
	Use         SidNameUse
	Sid         *msdtyp.SID
	DomainIndex int32
	Flags       uint32
}

// Client struct
type DomainTranslation struct {
	Name string
	Sid  string
}

// Client struct
type SidNameTranslation struct {
	Use         SidNameUse
	Name        string
	Sid         string
	DomainIndex int32
	Flags       uint32
}

// Client struct
type SidTranslations struct {
	ReferencedDomains []DomainTranslation
	TranslatedNames   []SidNameTranslation
	ReturnCode        uint32
}

// Client struct
type NameTranslations struct {
	ReferencedDomains []DomainTranslation
	TranslatedSids    []SidNameTranslation
	ReturnCode        uint32
}

func (self *SecurityQualityOfService) MarshalEntity(e *ndr.Encoder) error {
	e.WriteUint32(self.Length)
	e.WriteUint16(self.ImpersonationLevel)
	e.WriteUint8(self.ContextTrackingMode)
	e.WriteUint8(self.EffectiveOnly)
	return nil
}

func (self *SecurityQualityOfService) UnmarshalEntity(d *ndr.Decoder) (err error) {
	if self.Length, err = d.ReadUint32(); err != nil {
		return
	}
	if self.ImpersonationLevel, err = d.ReadUint16(); err != nil {
		return
	}
	if self.ContextTrackingMode, err = d.ReadUint8(); err != nil {
		return
	}
	self.EffectiveOnly, err = d.ReadUint8()
	return
}

func (self *LsaprObjectAttributes) MarshalEntity(e *ndr.Encoder) error {
	e.WriteUint32(self.Length)
	e.WriteReferent(false) // RootDirectory
	e.WriteReferent(false) // ObjectName
	e.WriteUint32(self.Attributes)
	e.WriteReferent(false) // SecurityDescriptor
	e.WriteReferent(self.SecurityQualityOfService != nil)
	return nil
}

func (self *LsaprObjectAttributes) MarshalDeferrals(e *ndr.Encoder) error {
	if self.SecurityQualityOfService == nil {
		return nil
	}
	return ndr.Marshal(e, self.SecurityQualityOfService)
}

func (self *LsaprObjectAttributes) UnmarshalEntity(d *ndr.Decoder) (err error) {
	if self.Length, err = d.ReadUint32(); err != nil {
		return
	}
	null := func(name string) error {
		ref, err := d.ReadReferent()
		if err != nil {
			return err
		}
		if ref != 0 {
			err = &ndr.FormatError{What: "LSAPR_OBJECT_ATTRIBUTES", Reason: name + " is not supported and must be NULL"}
			log.Errorln(err)
			return err
		}
		return nil
	}
	if err = null("RootDirectory"); err != nil {
		return
	}
	if err = null("ObjectName"); err != nil {
		return
	}
	if self.Attributes, err = d.ReadUint32(); err != nil {
		return
	}
	if err = null("SecurityDescriptor"); err != nil {
		return
	}
	self.SecurityQualityOfService, err = ndr.ReadPointer[SecurityQualityOfService](d)
	return
}

func (self *LsaprObjectAttributes) UnmarshalDeferrals(d *ndr.Decoder) error {
	if self.SecurityQualityOfService == nil {
		return nil
	}
	return ndr.Unmarshal(d, self.SecurityQualityOfService)
}

func (self *StringPointer) MarshalEntity(e *ndr.Encoder) error {
	e.WriteReferent(self.String != nil)
	return nil
}

func (self *StringPointer) MarshalDeferrals(e *ndr.Encoder) error {
	if self.String == nil {
		return nil
	}
	return ndr.Marshal(e, self.String)
}

func (self *StringPointer) UnmarshalEntity(d *ndr.Decoder) (err error) {
	self.String, err = ndr.ReadPointer[ndr.UnicodeString](d)
	return
}

func (self *StringPointer) UnmarshalDeferrals(d *ndr.Decoder) error {
	if self.String == nil {
		return nil
	}
	return ndr.Unmarshal(d, self.String)
}

// Value returns the string or "" for a null pointer.
func (self *StringPointer) Value() string {
	if self == nil || self.String == nil {
		return ""
	}
	return self.String.S
}

// marshalSid and friends handle an embedded PRPC_SID field.
func marshalSid(e *ndr.Encoder, sid *msdtyp.SID) {
	e.WriteReferent(sid != nil)
}

func marshalSidDeferral(e *ndr.Encoder, sid *msdtyp.SID) error {
	if sid == nil {
		return nil
	}
	return ndr.Marshal(e, sid)
}

func unmarshalSidDeferral(d *ndr.Decoder, sid *msdtyp.SID) error {
	if sid == nil {
		return nil
	}
	return ndr.Unmarshal(d, sid)
}

func sidString(sid *msdtyp.SID) string {
	if sid == nil {
		return ""
	}
	return sid.String()
}

func (self *LsaprTrustInformation) MarshalEntity(e *ndr.Encoder) (err error) {
	if err = self.Name.MarshalEntity(e); err != nil {
		return
	}
	marshalSid(e, self.Sid)
	return
}

func (self *LsaprTrustInformation) MarshalDeferrals(e *ndr.Encoder) (err error) {
	if err = self.Name.MarshalDeferrals(e); err != nil {
		return
	}
	return marshalSidDeferral(e, self.Sid)
}

func (self *LsaprTrustInformation) UnmarshalEntity(d *ndr.Decoder) (err error) {
	if err = self.Name.UnmarshalEntity(d); err != nil {
		return
	}
	self.Sid, err = ndr.ReadPointer[msdtyp.SID](d)
	return
}

func (self *LsaprTrustInformation) UnmarshalDeferrals(d *ndr.Decoder) (err error) {
	if err = self.Name.UnmarshalDeferrals(d); err != nil {
		return
	}
	return unmarshalSidDeferral(d, self.Sid)
}

func (self *LsaprReferencedDomainList) MarshalEntity(e *ndr.Encoder) (err error) {
	self.domains = trustInfoArray{Items: self.Domains}
	if err = self.domains.MarshalEntity(e); err != nil {
		return
	}
	e.WriteUint32(self.MaxEntries)
	return
}

func (self *LsaprReferencedDomainList) MarshalDeferrals(e *ndr.Encoder) error {
	return self.domains.MarshalDeferrals(e)
}

func (self *LsaprReferencedDomainList) UnmarshalEntity(d *ndr.Decoder) (err error) {
	if err = self.domains.UnmarshalEntity(d); err != nil {
		return
	}
	self.MaxEntries, err = d.ReadUint32()
	return
}

func (self *LsaprReferencedDomainList) UnmarshalDeferrals(d *ndr.Decoder) (err error) {
	if err = self.domains.UnmarshalDeferrals(d); err != nil {
		return
	}
	self.Domains = self.domains.Items
	return
}

func (self *LsaprTranslatedNameEx) MarshalEntity(e *ndr.Encoder) (err error) {
	e.WriteUint32(uint32(self.Use))
	if err = self.Name.MarshalEntity(e); err != nil {
		return
	}
	e.WriteInt32(self.DomainIndex)
	e.WriteUint32(self.Flags)
	return
}

func (self *LsaprTranslatedNameEx) MarshalDeferrals(e *ndr.Encoder) error {
	return self.Name.MarshalDeferrals(e)
}

func (self *LsaprTranslatedNameEx) UnmarshalEntity(d *ndr.Decoder) (err error) {
	var use uint32
	if use, err = d.ReadUint32(); err != nil {
		return
	}
	self.Use = SidNameUse(use)
	if err = self.Name.UnmarshalEntity(d); err != nil {
		return
	}
	if self.DomainIndex, err = d.ReadInt32(); err != nil {
		return
	}
	self.Flags, err = d.ReadUint32()
	return
}

func (self *LsaprTranslatedNameEx) UnmarshalDeferrals(d *ndr.Decoder) error {
	return self.Name.UnmarshalDeferrals(d)
}

func (self *LsaprTranslatedSidEx2) MarshalEntity(e *ndr.Encoder) error {
	e.WriteUint32(uint32(self.Use))
	marshalSid(e, self.Sid)
	e.WriteInt32(self.DomainIndex)
	e.WriteUint32(self.Flags)
	return nil
}

func (self *LsaprTranslatedSidEx2) MarshalDeferrals(e *ndr.Encoder) error {
	return marshalSidDeferral(e, self.Sid)
}

func (self *LsaprTranslatedSidEx2) UnmarshalEntity(d *ndr.Decoder) (err error) {
	var use uint32
	if use, err = d.ReadUint32(); err != nil {
		return
	}
	self.Use = SidNameUse(use)
	if self.Sid, err = ndr.ReadPointer[msdtyp.SID](d); err != nil {
		return
	}
	if self.DomainIndex, err = d.ReadInt32(); err != nil {
		return
	}
	self.Flags, err = d.ReadUint32()
	return
}

func (self *LsaprTranslatedSidEx2) UnmarshalDeferrals(d *ndr.Decoder) error {
	return unmarshalSidDeferral(d, self.Sid)
}

// domainTranslations flattens a referenced domain list for the client
// results.
func domainTranslations(list *LsaprReferencedDomainList) (res []DomainTranslation) {
	if list == nil {
		return
	}
	for _, item := range list.Domains {
		res = append(res, DomainTranslation{Name: item.Name.S, Sid: sidString(item.Sid)})
	}
	return
}

// userRights converts rights to the strings of an LSAPR_USER_RIGHT_SET.
func userRights(rights []string) ([]ndr.UnicodeString, error) {
	if err := ndr.CheckRange("user rights", len(rights), 0, MaxUserRights); err != nil {
		return nil, err
	}
	res := make([]ndr.UnicodeString, len(rights))
	for i, right := range rights {
		if right == "" {
			return nil, fmt.Errorf("Cannot send an empty user right")
		}
		res[i] = ndr.NewUnicodeString(right)
	}
	return res, nil
}

// rightNames is the inverse of userRights.
func rightNames(rights []ndr.UnicodeString) []string {
	res := make([]string, 0, len(rights))
	for _, item := range rights {
		res = append(res, item.S)
	}
	return res
}
