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
	"encoding"

	"github.com/jfjallid/go-msrpc/dcerpc"
)

func procedure[Req, Res any, PReq interface {
	*Req
	encoding.BinaryUnmarshaler
}, PRes interface {
	*Res
	encoding.BinaryUnmarshaler
}](op dcerpc.Operation) dcerpc.Procedure {
	return dcerpc.Procedure{
		Operation:   op,
		NewRequest:  func() encoding.BinaryUnmarshaler { return PReq(new(Req)) },
		NewResponse: func(uint16) encoding.BinaryUnmarshaler { return PRes(new(Res)) },
	}
}

// Interface describes SAMR for decoding captured stubs.
var Interface = &dcerpc.Interface{
	Name:   "samr",
	Pipe:   MSRPCSamrPipe,
	Syntax: MSRPCSamrSyntax,
	Procedures: map[uint16]dcerpc.Procedure{
		SamrCloseHandle:             procedure[SamrCloseHandleReq, SamrCloseHandleRes](opCloseHandle),
		SamrLookupDomain:            procedure[SamrLookupDomainReq, SamrLookupDomainRes](opLookupDomain),
		SamrEnumDomains:             procedure[SamrEnumDomainsReq, SamrEnumDomainsRes](opEnumDomains),
		SamrOpenDomain:              procedure[SamrOpenDomainReq, SamrOpenDomainRes](opOpenDomain),
		SamrEnumerateGroupsInDomain: procedure[SamrEnumerateGroupsInDomainReq, SamrEnumerateGroupsInDomainRes](opEnumerateGroupsInDomain),
		SamrCreateUserInDomain:      procedure[SamrCreateUserInDomainReq, SamrCreateUserInDomainRes](opCreateUserInDomain),
		SamrEnumDomainUsers:         procedure[SamrEnumDomainUsersReq, SamrEnumDomainUsersRes](opEnumDomainUsers),
		SamrEnumAliasesInDomain:     procedure[SamrEnumAliasesInDomainReq, SamrEnumAliasesInDomainRes](opEnumAliasesInDomain),
		SamrLookupNamesInDomain:     procedure[SamrLookupNamesInDomainReq, SamrLookupNamesInDomainRes](opLookupNamesInDomain),
		SamrLookupIdsInDomain:       procedure[SamrLookupIdsInDomainReq, SamrLookupIdsInDomainRes](opLookupIdsInDomain),
		SamrOpenGroup:               procedure[SamrOpenGroupReq, SamrOpenGroupRes](opOpenGroup),
		SamrAddMemberToGroup:        procedure[SamrAddMemberToGroupReq, SamrReturnCodeRes](opAddMemberToGroup),
		SamrRemoveMemberFromGroup:   procedure[SamrRemoveMemberFromGroupReq, SamrReturnCodeRes](opRemoveMemberFromGroup),
		SamrGetMembersInGroup:       procedure[SamrGetMembersInGroupReq, SamrGetMembersInGroupRes](opGetMembersInGroup),
		SamrOpenAlias:               procedure[SamrOpenAliasReq, SamrOpenAliasRes](opOpenAlias),
		SamrAddMemberToAlias:        procedure[SamrAddMemberToAliasReq, SamrReturnCodeRes](opAddMemberToAlias),
		SamrRemoveMemberFromAlias:   procedure[SamrRemoveMemberFromAliasReq, SamrReturnCodeRes](opRemoveMemberFromAlias),
		SamrGetMembersInAlias:       procedure[SamrGetMembersInAliasReq, SamrGetMembersInAliasRes](opGetMembersInAlias),
		SamrOpenUser:                procedure[SamrOpenUserReq, SamrOpenUserRes](opOpenUser),
		SamrDeleteUser:              procedure[SamrDeleteUserReq, SamrDeleteUserRes](opDeleteUser),
		SamrQueryInformationUser2: {
			Operation:  opQueryInformationUser2,
			NewRequest: func() encoding.BinaryUnmarshaler { return new(SamrQueryInformationUser2Req) },
			NewResponse: func(class uint16) encoding.BinaryUnmarshaler {
				return &SamrQueryInformationUser2Res{UserInformationClass: class}
			},
		},
		SamrSetInformationUser2: procedure[SamrSetInformationUser2Req, SamrReturnCodeRes](opSetInformationUser2),
		SamrConnect5:            procedure[SamrConnect5Req, SamrConnect5Res](opConnect5),
		SamrRidToSid:            procedure[SamrRidToSidReq, SamrRidToSidRes](opRidToSid),
	},
}

func init() {
	dcerpc.RegisterInterface(Interface)
}
