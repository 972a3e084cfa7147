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

// Interface describes lsarpc, both the MS-LSAD and the MS-LSAT methods, for
// decoding captured stubs.
var Interface = &dcerpc.Interface{
	Name:   "lsarpc",
	Pipe:   MSRPCLsaRpcPipe,
	Syntax: MSRPCLsaRpcSyntax,
	Procedures: map[uint16]dcerpc.Procedure{
		LsarClose: procedure[LsarCloseReq, LsarCloseRes](opClose),
		LsarQueryInformationPolicy: {
			Operation:  opQueryInformationPolicy,
			NewRequest: func() encoding.BinaryUnmarshaler { return new(LsarQueryInformationPolicyReq) },
			NewResponse: func(class uint16) encoding.BinaryUnmarshaler {
				return &LsarQueryInformationPolicyRes{InformationClass: class}
			},
		},
		LsarCreateAccount:                  procedure[LsarCreateAccountReq, LsarCreateAccountRes](opCreateAccount),
		LsarEnumerateAccounts:              procedure[LsarEnumerateAccountsReq, LsarEnumerateAccountsRes](opEnumerateAccounts),
		LsarOpenAccount:                    procedure[LsarOpenAccountReq, LsarOpenAccountRes](opOpenAccount),
		LsarGetSystemAccessAccount:         procedure[LsarGetSystemAccessAccountReq, LsarGetSystemAccessAccountRes](opGetSystemAccessAccount),
		LsarSetSystemAccessAccount:         procedure[LsarSetSystemAccessAccountReq, LsarReturnCodeRes](opSetSystemAccessAccount),
		LsarDeleteObject:                   procedure[LsarDeleteObjectReq, LsarDeleteObjectRes](opDeleteObject),
		LsarEnumerateAccountsWithUserRight: procedure[LsarEnumerateAccountsWithUserRightReq, LsarEnumerateAccountsWithUserRightRes](opEnumerateAccountsWithUserRight),
		LsarEnumerateAccountRights:         procedure[LsarEnumerateAccountRightsReq, LsarEnumerateAccountRightsRes](opEnumerateAccountRights),
		LsarAddAccountRights:               procedure[LsarAddAccountRightsReq, LsarReturnCodeRes](opAddAccountRights),
		LsarRemoveAccountRights:            procedure[LsarRemoveAccountRightsReq, LsarReturnCodeRes](opRemoveAccountRights),
		LsarOpenPolicy2:                    procedure[LsarOpenPolicy2Req, LsarOpenPolicy2Res](opOpenPolicy2),
		LsarGetUserName:                    procedure[LsarGetUserNameReq, LsarGetUserNameRes](opGetUserName),
		LsarLookupSids2:                    procedure[LsarLookupSids2Req, LsarLookupSids2Res](opLookupSids2),
		LsarLookupNames3:                   procedure[LsarLookupNames3Req, LsarLookupNames3Res](opLookupNames3),
	},
}

func init() {
	dcerpc.RegisterInterface(Interface)
}
