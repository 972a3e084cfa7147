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
	"context"
	"fmt"

	"github.com/jfjallid/go-msrpc/dcerpc"
	"github.com/jfjallid/go-msrpc/msdtyp"
	"github.com/jfjallid/go-msrpc/ndr"
)

// LsarClose closes any lsarpc context handle. It returns false without an
// error if the server no longer knew the handle.
func (sb *RPCCon) LsarClose(ctx context.Context, handle ndr.ContextHandle) (closed bool, err error) {
	log.Debugln("In LsarClose")
	h, err := ndr.HandleFromBytes[objectKind](handle.Bytes())
	if err != nil {
		log.Errorln(err)
		return
	}
	return dcerpc.CallClose(ctx, sb.Transport, opClose, &LsarCloseReq{ObjectHandle: h})
}

// LsarDeleteObject deletes the object behind an open account handle. The
// handle is invalidated by the server on success.
func (sb *RPCCon) LsarDeleteObject(ctx context.Context, handle ndr.ContextHandle) (err error) {
	log.Debugln("In LsarDeleteObject")
	h, err := ndr.HandleFromBytes[objectKind](handle.Bytes())
	if err != nil {
		log.Errorln(err)
		return
	}
	_, err = dcerpc.Call[LsarDeleteObjectRes](ctx, sb.Transport, opDeleteObject, &LsarDeleteObjectReq{ObjectHandle: h})
	return
}

func (sb *RPCCon) LsarOpenPolicy2(ctx context.Context, systemName string, desiredAccess uint32) (policyHandle PolicyHandle, err error) {
	log.Debugln("In LsarOpenPolicy2")
	req := LsarOpenPolicy2Req{
		SystemName: systemName,
		ObjectAttributes: LsaprObjectAttributes{
			Length: 24,
			SecurityQualityOfService: &SecurityQualityOfService{
				Length:              12,
				ImpersonationLevel:  LsaSecurityImpersonation,
				ContextTrackingMode: 1,
			},
		},
		DesiredAccess: desiredAccess,
	}
	res, err := dcerpc.Call[LsarOpenPolicy2Res](ctx, sb.Transport, opOpenPolicy2, &req)
	if err != nil {
		return
	}
	return res.PolicyHandle, nil
}

// LsarQueryInformationPolicy returns one of the supported policy information
// classes. Other classes are rejected without contacting the server.
func (sb *RPCCon) LsarQueryInformationPolicy(ctx context.Context, policyHandle PolicyHandle, informationClass uint16) (info PolicyInformation, err error) {
	log.Debugln("In LsarQueryInformationPolicy")
	if _, err = newPolicyInformation(uint32(informationClass)); err != nil {
		log.Errorln(err)
		return
	}
	req := LsarQueryInformationPolicyReq{PolicyHandle: policyHandle, InformationClass: informationClass}
	status, buffer, err := dcerpc.CallStatus(ctx, sb.Transport, opQueryInformationPolicy, &req)
	if err != nil {
		return
	}
	res := LsarQueryInformationPolicyRes{InformationClass: informationClass}
	if err = res.UnmarshalBinary(buffer); err != nil {
		log.Errorln(err)
		return
	}
	if res.PolicyInformation == nil {
		err = fmt.Errorf("LsarQueryInformationPolicy returned status 0x%x but no information for class %d", status, informationClass)
		log.Errorln(err)
		return
	}
	return res.PolicyInformation, nil
}

func (sb *RPCCon) LsarCreateAccount(ctx context.Context, policyHandle PolicyHandle, sid *msdtyp.SID, desiredAccess uint32) (accountHandle AccountHandle, err error) {
	log.Debugln("In LsarCreateAccount")
	req := LsarCreateAccountReq{PolicyHandle: policyHandle, AccountSid: sid, DesiredAccess: desiredAccess}
	res, err := dcerpc.Call[LsarCreateAccountRes](ctx, sb.Transport, opCreateAccount, &req)
	if err != nil {
		return
	}
	log.Infof("Created account object for %s\n", sid)
	return res.AccountHandle, nil
}

// LsarEnumerateAccounts returns the SIDs of every account object in the
// server's policy database, resuming until the server runs out of entries.
func (sb *RPCCon) LsarEnumerateAccounts(ctx context.Context, policyHandle PolicyHandle) (accounts []*msdtyp.SID, err error) {
	log.Debugln("In LsarEnumerateAccounts")
	req := LsarEnumerateAccountsReq{PolicyHandle: policyHandle, PreferredMaxLength: enumPreferredSize}
	for {
		var res *LsarEnumerateAccountsRes
		res, err = dcerpc.Call[LsarEnumerateAccountsRes](ctx, sb.Transport, opEnumerateAccounts, &req)
		if err != nil {
			return
		}
		accounts = append(accounts, res.EnumerationBuffer...)
		if res.ReturnCode == dcerpc.StatusNoMoreEntries || len(res.EnumerationBuffer) == 0 {
			return
		}
		req.EnumerationContext = res.EnumerationContext
	}
}

func (sb *RPCCon) LsarOpenAccount(ctx context.Context, policyHandle PolicyHandle, sid *msdtyp.SID, desiredAccess uint32) (accountHandle AccountHandle, err error) {
	log.Debugln("In LsarOpenAccount")
	req := LsarOpenAccountReq{PolicyHandle: policyHandle, AccountSid: sid, DesiredAccess: desiredAccess}
	res, err := dcerpc.Call[LsarOpenAccountRes](ctx, sb.Transport, opOpenAccount, &req)
	if err != nil {
		return
	}
	return res.AccountHandle, nil
}

func (sb *RPCCon) LsarGetSystemAccessAccount(ctx context.Context, accountHandle AccountHandle) (systemAccess uint32, err error) {
	log.Debugln("In LsarGetSystemAccessAccount")
	res, err := dcerpc.Call[LsarGetSystemAccessAccountRes](ctx, sb.Transport, opGetSystemAccessAccount, &LsarGetSystemAccessAccountReq{AccountHandle: accountHandle})
	if err != nil {
		return
	}
	return res.SystemAccess, nil
}

func (sb *RPCCon) LsarSetSystemAccessAccount(ctx context.Context, accountHandle AccountHandle, systemAccess uint32) (err error) {
	log.Debugln("In LsarSetSystemAccessAccount")
	req := LsarSetSystemAccessAccountReq{AccountHandle: accountHandle, SystemAccess: systemAccess}
	_, _, err = dcerpc.CallStatus(ctx, sb.Transport, opSetSystemAccessAccount, &req)
	return
}

// LsarEnumerateAccountsWithUserRight returns the accounts holding userRight,
// e.g. "SeBackupPrivilege". An empty userRight asks for every account that
// holds any right.
func (sb *RPCCon) LsarEnumerateAccountsWithUserRight(ctx context.Context, policyHandle PolicyHandle, userRight string) (accounts []*msdtyp.SID, err error) {
	log.Debugln("In LsarEnumerateAccountsWithUserRight")
	req := LsarEnumerateAccountsWithUserRightReq{PolicyHandle: policyHandle, UserRight: userRight}
	res, err := dcerpc.Call[LsarEnumerateAccountsWithUserRightRes](ctx, sb.Transport, opEnumerateAccountsWithUserRight, &req)
	if err != nil {
		return
	}
	return res.EnumerationBuffer, nil
}

func (sb *RPCCon) LsarEnumerateAccountRights(ctx context.Context, policyHandle PolicyHandle, sid *msdtyp.SID) (rights []string, err error) {
	log.Debugln("In LsarEnumerateAccountRights")
	req := LsarEnumerateAccountRightsReq{PolicyHandle: policyHandle, AccountSid: sid}
	res, err := dcerpc.Call[LsarEnumerateAccountRightsRes](ctx, sb.Transport, opEnumerateAccountRights, &req)
	if err != nil {
		return
	}
	return rightNames(res.UserRights), nil
}

// LsarAddAccountRights grants rights to the account, creating the account
// object on the server if needed.
func (sb *RPCCon) LsarAddAccountRights(ctx context.Context, policyHandle PolicyHandle, sid *msdtyp.SID, rights []string) (err error) {
	log.Debugln("In LsarAddAccountRights")
	if len(rights) == 0 {
		err = fmt.Errorf("Must specify atleast one right to add")
		log.Errorln(err)
		return
	}
	userRights, err := userRights(rights)
	if err != nil {
		log.Errorln(err)
		return
	}
	req := LsarAddAccountRightsReq{PolicyHandle: policyHandle, AccountSid: sid, UserRights: userRights}
	_, _, err = dcerpc.CallStatus(ctx, sb.Transport, opAddAccountRights, &req)
	return
}

// LsarRemoveAccountRights removes rights from the account. With allRights set
// the rights list is ignored and the account object is deleted.
func (sb *RPCCon) LsarRemoveAccountRights(ctx context.Context, policyHandle PolicyHandle, sid *msdtyp.SID, rights []string, allRights bool) (err error) {
	log.Debugln("In LsarRemoveAccountRights")
	req := LsarRemoveAccountRightsReq{PolicyHandle: policyHandle, AccountSid: sid, AllRights: allRights}
	if !allRights {
		if len(rights) == 0 {
			err = fmt.Errorf("Must specify atleast one right to remove or set allRights")
			log.Errorln(err)
			return
		}
		if req.UserRights, err = userRights(rights); err != nil {
			log.Errorln(err)
			return
		}
	}
	_, _, err = dcerpc.CallStatus(ctx, sb.Transport, opRemoveAccountRights, &req)
	return
}
