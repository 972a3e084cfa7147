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
	"context"
	"encoding"
	"fmt"

	"github.com/jfjallid/go-msrpc/dcerpc"
	"github.com/jfjallid/go-msrpc/msdtyp"
	"github.com/jfjallid/go-msrpc/ndr"
)

func (sb *RPCCon) SamrConnect5(ctx context.Context, serverName string) (handle ServerHandle, err error) {
	log.Debugln("In SamrConnect5")
	req := SamrConnect5Req{
		ServerName:     serverName,
		DesiredAccess:  MaximumAllowed,
		InRevisionInfo: &SamprRevisionInfoV1{Revision: 3},
	}
	res, err := dcerpc.Call[SamrConnect5Res](ctx, sb.Transport, opConnect5, &req)
	if err != nil {
		return
	}
	return res.ServerHandle, nil
}

// SamrCloseHandle closes any SAMR context handle. It returns false without an
// error if the server no longer knew the handle.
func (sb *RPCCon) SamrCloseHandle(ctx context.Context, handle ndr.ContextHandle) (closed bool, err error) {
	log.Debugln("In SamrCloseHandle")
	h, err := ndr.HandleFromBytes[objectKind](handle.Bytes())
	if err != nil {
		log.Errorln(err)
		return
	}
	return dcerpc.CallClose(ctx, sb.Transport, opCloseHandle, &SamrCloseHandleReq{Handle: h})
}

func (sb *RPCCon) SamrLookupDomain(ctx context.Context, handle ServerHandle, name string) (domainId *msdtyp.SID, err error) {
	log.Debugln("In SamrLookupDomain")
	req := SamrLookupDomainReq{ServerHandle: handle, Name: ndr.NewUnicodeString(name)}
	res, err := dcerpc.Call[SamrLookupDomainRes](ctx, sb.Transport, opLookupDomain, &req)
	if err != nil {
		return
	}
	if res.DomainId == nil {
		err = fmt.Errorf("SamrLookupDomain returned no SID for domain %s", name)
		log.Errorln(err)
		return
	}
	return res.DomainId, nil
}

// enumerate resumes an enumeration until the server reports that no more
// entries remain. next builds the request for a given enumeration context.
func (sb *RPCCon) enumerate(ctx context.Context, op dcerpc.Operation, next func(resume uint32) encoding.BinaryMarshaler) (items []SamprRidEnumeration, err error) {
	var resume uint32
	for {
		var res *SamrEnumerationRes
		res, err = dcerpc.Call[SamrEnumerationRes](ctx, sb.Transport, op, next(resume))
		if err != nil {
			return
		}
		for _, item := range res.Buffer {
			log.Infof("Enumerated %s entry (%d): %s\n", op.Name, item.RelativeId, item.Name)
		}
		items = append(items, res.Buffer...)
		if res.ReturnCode == dcerpc.StatusSuccess {
			return
		}
		if len(res.Buffer) == 0 {
			err = fmt.Errorf("%s reported more entries but returned none", op.Name)
			log.Errorln(err)
			return
		}
		resume = res.EnumerationContext
	}
}

func enumLength(maxLength uint32) uint32 {
	if maxLength == 0 {
		return 0xffffffff
	}
	return maxLength
}

// SamrEnumDomains returns the names of all domains hosted by the server,
// typically the local account domain and Builtin.
func (sb *RPCCon) SamrEnumDomains(ctx context.Context, handle ServerHandle) (domains []string, err error) {
	log.Debugln("In SamrEnumDomains")
	items, err := sb.enumerate(ctx, opEnumDomains, func(resume uint32) encoding.BinaryMarshaler {
		return &SamrEnumDomainsReq{ServerHandle: handle, EnumerationContext: resume, PreferedMaximumLength: 0xffff}
	})
	if err != nil {
		return
	}
	for _, item := range items {
		domains = append(domains, item.Name.S)
	}
	return
}

func (sb *RPCCon) SamrOpenDomain(ctx context.Context, handle ServerHandle, desiredAccess uint32, domainId *msdtyp.SID) (domainHandle DomainHandle, err error) {
	log.Debugln("In SamrOpenDomain")
	req := SamrOpenDomainReq{ServerHandle: handle, DesiredAccess: desiredAccess, DomainId: domainId}
	res, err := dcerpc.Call[SamrOpenDomainRes](ctx, sb.Transport, opOpenDomain, &req)
	if err != nil {
		return
	}
	return res.DomainHandle, nil
}

// A maxLength of 0 requests as much as the server is willing to return per
// round trip.
func (sb *RPCCon) SamrEnumerateGroupsInDomain(ctx context.Context, domainHandle DomainHandle, maxLength uint32) (groups []SamprRidEnumeration, err error) {
	log.Debugln("In SamrEnumerateGroupsInDomain")
	return sb.enumerate(ctx, opEnumerateGroupsInDomain, func(resume uint32) encoding.BinaryMarshaler {
		return &SamrEnumerateGroupsInDomainReq{DomainHandle: domainHandle, EnumerationContext: resume, PreferedMaximumLength: enumLength(maxLength)}
	})
}

func (sb *RPCCon) SamrCreateUserInDomain(ctx context.Context, domainHandle DomainHandle, name string, desiredAccess uint32) (userHandle UserHandle, rid uint32, err error) {
	log.Debugln("In SamrCreateUserInDomain")
	req := SamrCreateUserInDomainReq{DomainHandle: domainHandle, Name: ndr.NewUnicodeString(name), DesiredAccess: desiredAccess}
	res, err := dcerpc.Call[SamrCreateUserInDomainRes](ctx, sb.Transport, opCreateUserInDomain, &req)
	if err != nil {
		return
	}
	log.Infof("Created user %s with RID %d\n", name, res.RelativeId)
	return res.UserHandle, res.RelativeId, nil
}

// accountFlags filters on UserAccountControl bits. 0 returns every account.
func (sb *RPCCon) SamrEnumDomainUsers(ctx context.Context, domainHandle DomainHandle, accountFlags, maxLength uint32) (users []SamprRidEnumeration, err error) {
	log.Debugln("In SamrEnumDomainUsers")
	return sb.enumerate(ctx, opEnumDomainUsers, func(resume uint32) encoding.BinaryMarshaler {
		return &SamrEnumDomainUsersReq{
			DomainHandle:          domainHandle,
			EnumerationContext:    resume,
			UserAccountControl:    accountFlags,
			PreferedMaximumLength: enumLength(maxLength),
		}
	})
}

func (sb *RPCCon) SamrEnumAliasesInDomain(ctx context.Context, domainHandle DomainHandle, maxLength uint32) (aliases []SamprRidEnumeration, err error) {
	log.Debugln("In SamrEnumAliasesInDomain")
	return sb.enumerate(ctx, opEnumAliasesInDomain, func(resume uint32) encoding.BinaryMarshaler {
		return &SamrEnumAliasesInDomainReq{DomainHandle: domainHandle, EnumerationContext: resume, PreferedMaximumLength: enumLength(maxLength)}
	})
}

// SamrLookupNamesInDomain translates at most MaxLookupCount account names.
// Names the server could not map are returned with Use SidTypeUnknown.
func (sb *RPCCon) SamrLookupNamesInDomain(ctx context.Context, domainHandle DomainHandle, names []string) (mappings []SamrRidMapping, err error) {
	log.Debugln("In SamrLookupNamesInDomain")
	if err = ndr.CheckRange("SamrLookupNamesInDomain names", len(names), 0, MaxLookupCount); err != nil {
		log.Errorln(err)
		return
	}
	req := SamrLookupNamesInDomainReq{DomainHandle: domainHandle}
	for _, name := range names {
		req.Names = append(req.Names, ndr.NewUnicodeString(name))
	}
	res, err := dcerpc.Call[SamrLookupNamesInDomainRes](ctx, sb.Transport, opLookupNamesInDomain, &req)
	if err != nil {
		return
	}
	if len(res.RelativeIds) != len(names) || len(res.Use) != len(names) {
		err = fmt.Errorf("SamrLookupNamesInDomain returned %d ids and %d uses for %d names", len(res.RelativeIds), len(res.Use), len(names))
		log.Errorln(err)
		return
	}
	for i, name := range names {
		mappings = append(mappings, SamrRidMapping{Name: name, RID: res.RelativeIds[i], Use: res.Use[i]})
	}
	return
}

// SamrLookupIdsInDomain translates at most MaxLookupCount relative ids.
func (sb *RPCCon) SamrLookupIdsInDomain(ctx context.Context, domainHandle DomainHandle, ids []uint32) (mappings []SamrRidMapping, err error) {
	log.Debugln("In SamrLookupIdsInDomain")
	if err = ndr.CheckRange("SamrLookupIdsInDomain ids", len(ids), 0, MaxLookupCount); err != nil {
		log.Errorln(err)
		return
	}
	req := SamrLookupIdsInDomainReq{DomainHandle: domainHandle, RelativeIds: ids}
	res, err := dcerpc.Call[SamrLookupIdsInDomainRes](ctx, sb.Transport, opLookupIdsInDomain, &req)
	if err != nil {
		return
	}
	if len(res.Names) != len(ids) || len(res.Use) != len(ids) {
		err = fmt.Errorf("SamrLookupIdsInDomain returned %d names and %d uses for %d ids", len(res.Names), len(res.Use), len(ids))
		log.Errorln(err)
		return
	}
	for i, id := range ids {
		mappings = append(mappings, SamrRidMapping{Name: res.Names[i].S, RID: id, Use: res.Use[i]})
	}
	return
}

func (sb *RPCCon) SamrOpenGroup(ctx context.Context, domainHandle DomainHandle, desiredAccess, rid uint32) (groupHandle GroupHandle, err error) {
	log.Debugln("In SamrOpenGroup")
	req := SamrOpenGroupReq{DomainHandle: domainHandle, DesiredAccess: desiredAccess, GroupId: rid}
	res, err := dcerpc.Call[SamrOpenGroupRes](ctx, sb.Transport, opOpenGroup, &req)
	if err != nil {
		return
	}
	return res.GroupHandle, nil
}

func (sb *RPCCon) SamrAddMemberToGroup(ctx context.Context, groupHandle GroupHandle, rid, attributes uint32) (err error) {
	log.Debugln("In SamrAddMemberToGroup")
	req := SamrAddMemberToGroupReq{GroupHandle: groupHandle, MemberId: rid, Attributes: attributes}
	_, _, err = dcerpc.CallStatus(ctx, sb.Transport, opAddMemberToGroup, &req)
	return
}

func (sb *RPCCon) SamrRemoveMemberFromGroup(ctx context.Context, groupHandle GroupHandle, rid uint32) (err error) {
	log.Debugln("In SamrRemoveMemberFromGroup")
	req := SamrRemoveMemberFromGroupReq{GroupHandle: groupHandle, MemberId: rid}
	_, _, err = dcerpc.CallStatus(ctx, sb.Transport, opRemoveMemberFromGroup, &req)
	return
}

func (sb *RPCCon) SamrGetMembersInGroup(ctx context.Context, groupHandle GroupHandle) (members []SamrGroupMember, err error) {
	log.Debugln("In SamrGetMembersInGroup")
	req := SamrGetMembersInGroupReq{GroupHandle: groupHandle}
	res, err := dcerpc.Call[SamrGetMembersInGroupRes](ctx, sb.Transport, opGetMembersInGroup, &req)
	if err != nil {
		return
	}
	if res.Members == nil {
		return
	}
	for i, rid := range res.Members.Members {
		member := SamrGroupMember{RID: rid}
		if i < len(res.Members.Attributes) {
			member.Attributes = res.Members.Attributes[i]
		}
		members = append(members, member)
	}
	return
}

func (sb *RPCCon) SamrOpenAlias(ctx context.Context, domainHandle DomainHandle, desiredAccess, aliasId uint32) (aliasHandle AliasHandle, err error) {
	log.Debugln("In SamrOpenAlias")
	req := SamrOpenAliasReq{DomainHandle: domainHandle, DesiredAccess: desiredAccess, AliasId: aliasId}
	res, err := dcerpc.Call[SamrOpenAliasRes](ctx, sb.Transport, opOpenAlias, &req)
	if err != nil {
		return
	}
	return res.AliasHandle, nil
}

func (sb *RPCCon) SamrAddMemberToAlias(ctx context.Context, aliasHandle AliasHandle, sid *msdtyp.SID) (err error) {
	log.Debugln("In SamrAddMemberToAlias")
	req := SamrAddMemberToAliasReq{AliasHandle: aliasHandle, MemberId: sid}
	_, _, err = dcerpc.CallStatus(ctx, sb.Transport, opAddMemberToAlias, &req)
	return
}

func (sb *RPCCon) SamrRemoveMemberFromAlias(ctx context.Context, aliasHandle AliasHandle, sid *msdtyp.SID) (err error) {
	log.Debugln("In SamrRemoveMemberFromAlias")
	req := SamrRemoveMemberFromAliasReq{AliasHandle: aliasHandle, MemberId: sid}
	_, _, err = dcerpc.CallStatus(ctx, sb.Transport, opRemoveMemberFromAlias, &req)
	return
}

func (sb *RPCCon) SamrGetMembersInAlias(ctx context.Context, aliasHandle AliasHandle) (members []*msdtyp.SID, err error) {
	log.Debugln("In SamrGetMembersInAlias")
	req := SamrGetMembersInAliasReq{AliasHandle: aliasHandle}
	res, err := dcerpc.Call[SamrGetMembersInAliasRes](ctx, sb.Transport, opGetMembersInAlias, &req)
	if err != nil {
		return
	}
	for _, sid := range res.Members {
		if sid != nil {
			members = append(members, sid)
		}
	}
	return
}

func (sb *RPCCon) SamrOpenUser(ctx context.Context, domainHandle DomainHandle, desiredAccess, rid uint32) (userHandle UserHandle, err error) {
	log.Debugln("In SamrOpenUser")
	req := SamrOpenUserReq{DomainHandle: domainHandle, DesiredAccess: desiredAccess, UserId: rid}
	res, err := dcerpc.Call[SamrOpenUserRes](ctx, sb.Transport, opOpenUser, &req)
	if err != nil {
		return
	}
	return res.UserHandle, nil
}

// SamrDeleteUser deletes the account. The server invalidates userHandle on
// success so it must not be closed afterwards.
func (sb *RPCCon) SamrDeleteUser(ctx context.Context, userHandle UserHandle) (err error) {
	log.Debugln("In SamrDeleteUser")
	_, err = dcerpc.Call[SamrDeleteUserRes](ctx, sb.Transport, opDeleteUser, &SamrDeleteUserReq{UserHandle: userHandle})
	return
}

// SamrQueryInformationUser2 returns the arm of the USER_INFORMATION_CLASS
// union selected by class, e.g. *SamprUserAllInformation for
// UserAllInformation.
func (sb *RPCCon) SamrQueryInformationUser2(ctx context.Context, userHandle UserHandle, class uint16) (info UserInfo, err error) {
	log.Debugln("In SamrQueryInformationUser2")
	req := SamrQueryInformationUser2Req{UserHandle: userHandle, UserInformationClass: class}
	_, buffer, err := dcerpc.CallStatus(ctx, sb.Transport, opQueryInformationUser2, &req)
	if err != nil {
		return
	}
	res := SamrQueryInformationUser2Res{UserInformationClass: class}
	if err = res.UnmarshalBinary(buffer); err != nil {
		err = fmt.Errorf("Failed to decode SamrQueryInformationUser2 response: %w", err)
		log.Errorln(err)
		return
	}
	if res.Buffer == nil {
		err = fmt.Errorf("SamrQueryInformationUser2 returned no information for class %d", class)
		log.Errorln(err)
		return
	}
	return res.Buffer, nil
}

// SamrSetInformationUser2 updates the fields carried by info. Password hashes
// cannot be set through this call.
func (sb *RPCCon) SamrSetInformationUser2(ctx context.Context, userHandle UserHandle, info UserInfo) (err error) {
	log.Debugln("In SamrSetInformationUser2")
	req := SamrSetInformationUser2Req{UserHandle: userHandle, Buffer: info}
	_, _, err = dcerpc.CallStatus(ctx, sb.Transport, opSetInformationUser2, &req)
	return
}

func (sb *RPCCon) SamrRidToSid(ctx context.Context, domainHandle DomainHandle, rid uint32) (sid *msdtyp.SID, err error) {
	log.Debugln("In SamrRidToSid")
	req := SamrRidToSidReq{DomainHandle: domainHandle, Rid: rid}
	res, err := dcerpc.Call[SamrRidToSidRes](ctx, sb.Transport, opRidToSid, &req)
	if err != nil {
		return
	}
	if res.Sid == nil {
		err = fmt.Errorf("SamrRidToSid returned no SID for RID %d", rid)
		log.Errorln(err)
		return
	}
	return res.Sid, nil
}
