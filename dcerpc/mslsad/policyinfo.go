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
	"github.com/jfjallid/go-msrpc/msdtyp"
	"github.com/jfjallid/go-msrpc/ndr"
)

// MS-LSAD Section 2.2.4.2 LSAPR_POLICY_INFORMATION
// Only the classes below can be queried.
type PolicyInformation interface {
	ndr.Arm
	policyInformation()
}

// MS-LSAD Section 2.2.4.5
type LsaprPolicyPrimaryDomInfo struct {
	Name ndr.UnicodeString
	Sid  *msdtyp.SID
}

// MS-LSAD Section 2.2.4.6
type LsaprPolicyAccountDomInfo struct {
	DomainName ndr.UnicodeString
	DomainSid  *msdtyp.SID
}

// MS-LSAD Section 2.2.4.8
// POLICY_LSA_SERVER_ROLE is an enum. It is the only member of the arm, which
// aligns to 4 like every other arm, so it occupies four bytes on the wire.
type PolicyLsaServerRoleInfo struct {
	LsaServerRole uint32
}

// MS-LSAD Section 2.2.4.14
type LsaprPolicyDnsDomainInfo struct {
	Name          ndr.UnicodeString
	DnsDomainName ndr.UnicodeString
	DnsForestName ndr.UnicodeString
	DomainGuid    msdtyp.GUID
	Sid           *msdtyp.SID
}

func (*LsaprPolicyPrimaryDomInfo) policyInformation() {}
func (*LsaprPolicyAccountDomInfo) policyInformation() {}
func (*PolicyLsaServerRoleInfo) policyInformation()   {}
func (*LsaprPolicyDnsDomainInfo) policyInformation()  {}

func (*LsaprPolicyPrimaryDomInfo) Tag() uint32 { return uint32(PolicyPrimaryDomainInformation) }
func (*LsaprPolicyAccountDomInfo) Tag() uint32 { return uint32(PolicyAccountDomainInformation) }
func (*PolicyLsaServerRoleInfo) Tag() uint32   { return uint32(PolicyLsaServerRoleInformation) }
func (*LsaprPolicyDnsDomainInfo) Tag() uint32  { return uint32(PolicyDnsDomainInformation) }

func newPolicyInformation(class uint32) (PolicyInformation, error) {
	switch uint16(class) {
	case PolicyPrimaryDomainInformation:
		return new(LsaprPolicyPrimaryDomInfo), nil
	case PolicyAccountDomainInformation:
		return new(LsaprPolicyAccountDomInfo), nil
	case PolicyLsaServerRoleInformation:
		return new(PolicyLsaServerRoleInfo), nil
	case PolicyDnsDomainInformation:
		return new(LsaprPolicyDnsDomainInfo), nil
	}
	return nil, &ndr.UnknownArmError{Union: "LSAPR_POLICY_INFORMATION", Tag: class}
}

func (self *LsaprPolicyPrimaryDomInfo) MarshalEntity(e *ndr.Encoder) (err error) {
	if err = self.Name.MarshalEntity(e); err != nil {
		return
	}
	marshalSid(e, self.Sid)
	return
}

func (self *LsaprPolicyPrimaryDomInfo) MarshalDeferrals(e *ndr.Encoder) (err error) {
	if err = self.Name.MarshalDeferrals(e); err != nil {
		return
	}
	return marshalSidDeferral(e, self.Sid)
}

func (self *LsaprPolicyPrimaryDomInfo) UnmarshalEntity(d *ndr.Decoder) (err error) {
	if err = self.Name.UnmarshalEntity(d); err != nil {
		return
	}
	self.Sid, err = ndr.ReadPointer[msdtyp.SID](d)
	return
}

func (self *LsaprPolicyPrimaryDomInfo) UnmarshalDeferrals(d *ndr.Decoder) (err error) {
	if err = self.Name.UnmarshalDeferrals(d); err != nil {
		return
	}
	return unmarshalSidDeferral(d, self.Sid)
}

func (self *LsaprPolicyAccountDomInfo) MarshalEntity(e *ndr.Encoder) (err error) {
	if err = self.DomainName.MarshalEntity(e); err != nil {
		return
	}
	marshalSid(e, self.DomainSid)
	return
}

func (self *LsaprPolicyAccountDomInfo) MarshalDeferrals(e *ndr.Encoder) (err error) {
	if err = self.DomainName.MarshalDeferrals(e); err != nil {
		return
	}
	return marshalSidDeferral(e, self.DomainSid)
}

func (self *LsaprPolicyAccountDomInfo) UnmarshalEntity(d *ndr.Decoder) (err error) {
	if err = self.DomainName.UnmarshalEntity(d); err != nil {
		return
	}
	self.DomainSid, err = ndr.ReadPointer[msdtyp.SID](d)
	return
}

func (self *LsaprPolicyAccountDomInfo) UnmarshalDeferrals(d *ndr.Decoder) (err error) {
	if err = self.DomainName.UnmarshalDeferrals(d); err != nil {
		return
	}
	return unmarshalSidDeferral(d, self.DomainSid)
}

func (self *PolicyLsaServerRoleInfo) MarshalEntity(e *ndr.Encoder) error {
	e.WriteUint32(self.LsaServerRole)
	return nil
}

func (self *PolicyLsaServerRoleInfo) UnmarshalEntity(d *ndr.Decoder) (err error) {
	self.LsaServerRole, err = d.ReadUint32()
	return
}

func (self *LsaprPolicyDnsDomainInfo) MarshalEntity(e *ndr.Encoder) (err error) {
	for _, s := range []*ndr.UnicodeString{&self.Name, &self.DnsDomainName, &self.DnsForestName} {
		if err = s.MarshalEntity(e); err != nil {
			return
		}
	}
	if err = self.DomainGuid.MarshalEntity(e); err != nil {
		return
	}
	marshalSid(e, self.Sid)
	return
}

func (self *LsaprPolicyDnsDomainInfo) MarshalDeferrals(e *ndr.Encoder) (err error) {
	for _, s := range []*ndr.UnicodeString{&self.Name, &self.DnsDomainName, &self.DnsForestName} {
		if err = s.MarshalDeferrals(e); err != nil {
			return
		}
	}
	return marshalSidDeferral(e, self.Sid)
}

func (self *LsaprPolicyDnsDomainInfo) UnmarshalEntity(d *ndr.Decoder) (err error) {
	for _, s := range []*ndr.UnicodeString{&self.Name, &self.DnsDomainName, &self.DnsForestName} {
		if err = s.UnmarshalEntity(d); err != nil {
			return
		}
	}
	if err = self.DomainGuid.UnmarshalEntity(d); err != nil {
		return
	}
	self.Sid, err = ndr.ReadPointer[msdtyp.SID](d)
	return
}

func (self *LsaprPolicyDnsDomainInfo) UnmarshalDeferrals(d *ndr.Decoder) (err error) {
	for _, s := range []*ndr.UnicodeString{&self.Name, &self.DnsDomainName, &self.DnsForestName} {
		if err = s.UnmarshalDeferrals(d); err != nil {
			return
		}
	}
	return unmarshalSidDeferral(d, self.Sid)
}
