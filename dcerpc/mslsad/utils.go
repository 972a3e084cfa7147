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
	"strings"

	"github.com/jfjallid/go-msrpc/dcerpc"
	"github.com/jfjallid/go-msrpc/msdtyp"
)

// openPolicy opens the local policy with MaximumAllowed. The returned closer
// releases the handle.
func (sb *RPCCon) openPolicy(ctx context.Context) (policyHandle PolicyHandle, closer func(), err error) {
	policyHandle, err = sb.LsarOpenPolicy2(ctx, "", MaximumAllowed)
	if err != nil {
		log.Errorln(err)
		return
	}
	closer = func() { sb.LsarClose(ctx, policyHandle) }
	return
}

// SystemAccessRights decodes a system access mask into right names in bit
// order. Unknown bits are ignored.
func SystemAccessRights(systemAccess uint32) (rights []string) {
	for _, item := range systemAccessRightNames {
		if systemAccess&item.flag != 0 {
			rights = append(rights, item.name)
		}
	}
	return
}

// SystemAccessMask is the inverse of SystemAccessRights. Names are matched
// case-insensitively.
func SystemAccessMask(rights []string) (systemAccess uint32, err error) {
	for _, item := range rights {
		val, found := SystemAccessRightsMap[strings.ToUpper(item)]
		if !found {
			err = fmt.Errorf("Unknown system access right: %s", item)
			log.Errorln(err)
			return
		}
		systemAccess |= val
	}
	return
}

func (sb *RPCCon) ListAccounts(ctx context.Context) (accounts []*msdtyp.SID, err error) {
	log.Debugln("In ListAccounts")
	policyHandle, closer, err := sb.openPolicy(ctx)
	if err != nil {
		return
	}
	defer closer()

	return sb.LsarEnumerateAccounts(ctx, policyHandle)
}

// ListAccountsWithUserRight returns the SIDs of the accounts holding right.
func (sb *RPCCon) ListAccountsWithUserRight(ctx context.Context, right string) (accounts []*msdtyp.SID, err error) {
	log.Debugln("In ListAccountsWithUserRight")
	policyHandle, closer, err := sb.openPolicy(ctx)
	if err != nil {
		return
	}
	defer closer()

	return sb.LsarEnumerateAccountsWithUserRight(ctx, policyHandle, right)
}

// ListAccountRights returns the rights held by the account. An account that
// holds no rights has no account object on the server, so that is reported
// as an empty list rather than an error.
func (sb *RPCCon) ListAccountRights(ctx context.Context, sid string) (rights []string, err error) {
	log.Debugln("In ListAccountRights")
	accountSid, err := msdtyp.ConvertStrToSID(sid)
	if err != nil {
		log.Errorln(err)
		return
	}
	policyHandle, closer, err := sb.openPolicy(ctx)
	if err != nil {
		return
	}
	defer closer()

	rights, err = sb.LsarEnumerateAccountRights(ctx, policyHandle, accountSid)
	if dcerpc.IsStatus(err, StatusObjectNameNotFound) {
		return []string{}, nil
	}
	return
}

func (sb *RPCCon) AddAccountRights(ctx context.Context, sid string, rights []string) (err error) {
	log.Debugln("In AddAccountRights")
	accountSid, err := msdtyp.ConvertStrToSID(sid)
	if err != nil {
		log.Errorln(err)
		return
	}
	policyHandle, closer, err := sb.openPolicy(ctx)
	if err != nil {
		return
	}
	defer closer()

	return sb.LsarAddAccountRights(ctx, policyHandle, accountSid, rights)
}

func (sb *RPCCon) RemoveAccountRights(ctx context.Context, sid string, rights []string, removeAllRights bool) (err error) {
	log.Debugln("In RemoveAccountRights")
	accountSid, err := msdtyp.ConvertStrToSID(sid)
	if err != nil {
		log.Errorln(err)
		return
	}
	policyHandle, closer, err := sb.openPolicy(ctx)
	if err != nil {
		return
	}
	defer closer()

	return sb.LsarRemoveAccountRights(ctx, policyHandle, accountSid, rights, removeAllRights)
}

// openAccount opens the policy and then the account object of accountSid.
// The closer releases both handles.
func (sb *RPCCon) openAccount(ctx context.Context, accountSid string, desiredAccess uint32) (accountHandle AccountHandle, closer func(), err error) {
	sid, err := msdtyp.ConvertStrToSID(accountSid)
	if err != nil {
		log.Errorln(err)
		return
	}
	policyHandle, closePolicy, err := sb.openPolicy(ctx)
	if err != nil {
		return
	}
	accountHandle, err = sb.LsarOpenAccount(ctx, policyHandle, sid, desiredAccess)
	if err != nil {
		log.Errorln(err)
		closePolicy()
		return
	}
	closer = func() {
		sb.LsarClose(ctx, accountHandle)
		closePolicy()
	}
	return
}

// GetSystemAccessAccount returns the logon rights of the account, e.g.
// SeInteractiveLogonRight.
func (sb *RPCCon) GetSystemAccessAccount(ctx context.Context, accountSid string) (rights []string, err error) {
	log.Debugln("In GetSystemAccessAccount")
	accountHandle, closer, err := sb.openAccount(ctx, accountSid, MaximumAllowed)
	if err != nil {
		return
	}
	defer closer()

	systemAccess, err := sb.LsarGetSystemAccessAccount(ctx, accountHandle)
	if err != nil {
		log.Errorln(err)
		return
	}
	return SystemAccessRights(systemAccess), nil
}

// SetSystemAccessAccount replaces the logon rights of the account.
func (sb *RPCCon) SetSystemAccessAccount(ctx context.Context, accountSid string, rights []string) (err error) {
	log.Debugln("In SetSystemAccessAccount")
	systemAccess, err := SystemAccessMask(rights)
	if err != nil {
		return
	}
	accountHandle, closer, err := sb.openAccount(ctx, accountSid, MaximumAllowed)
	if err != nil {
		return
	}
	defer closer()

	err = sb.LsarSetSystemAccessAccount(ctx, accountHandle, systemAccess)
	if err != nil {
		log.Errorln(err)
	}
	return
}

func (sb *RPCCon) GetPrimaryDomainInfo(ctx context.Context) (domainInfo *LsaprPolicyPrimaryDomInfo, err error) {
	log.Debugln("In GetPrimaryDomainInfo")
	policyHandle, closer, err := sb.openPolicy(ctx)
	if err != nil {
		return
	}
	defer closer()

	res, err := sb.LsarQueryInformationPolicy(ctx, policyHandle, PolicyPrimaryDomainInformation)
	if err != nil {
		log.Errorln(err)
		return
	}
	domainInfo = res.(*LsaprPolicyPrimaryDomInfo)
	return
}

// LookupSids translates SID strings on a freshly opened policy handle.
func (sb *RPCCon) LookupSids(ctx context.Context, level LsapLookupLevel, sids []string) (res SidTranslations, err error) {
	log.Debugln("In LookupSids")
	sidList := make([]*msdtyp.SID, 0, len(sids))
	for _, s := range sids {
		var sid *msdtyp.SID
		if sid, err = msdtyp.ConvertStrToSID(s); err != nil {
			log.Errorln(err)
			return
		}
		sidList = append(sidList, sid)
	}
	policyHandle, closer, err := sb.openPolicy(ctx)
	if err != nil {
		return
	}
	defer closer()

	return sb.LsarLookupSids2(ctx, policyHandle, level, sidList)
}

// LookupNames translates account names on a freshly opened policy handle.
func (sb *RPCCon) LookupNames(ctx context.Context, level LsapLookupLevel, names []string) (res NameTranslations, err error) {
	log.Debugln("In LookupNames")
	if len(names) > MaxLookupNames {
		err = fmt.Errorf("Cannot lookup more than %d names per call", MaxLookupNames)
		log.Errorln(err)
		return
	}
	policyHandle, closer, err := sb.openPolicy(ctx)
	if err != nil {
		return
	}
	defer closer()

	return sb.LsarLookupNames3(ctx, policyHandle, level, names)
}
