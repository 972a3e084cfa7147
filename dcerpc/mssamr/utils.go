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
	"fmt"
	"strings"

	"github.com/jfjallid/go-msrpc/msdtyp"
)

// openDomain connects to the server and opens the named domain. An empty
// netbiosComputerName selects the only domain besides Builtin. The returned
// closer releases both handles.
func (sb *RPCCon) openDomain(ctx context.Context, netbiosComputerName string) (domainHandle DomainHandle, domainId *msdtyp.SID, closer func(), err error) {
	handle, err := sb.SamrConnect5(ctx, "")
	if err != nil {
		log.Errorln(err)
		return
	}
	closeServer := func() { sb.SamrCloseHandle(ctx, handle) }

	if netbiosComputerName == "" {
		var domains []string
		domains, err = sb.SamrEnumDomains(ctx, handle)
		if err != nil {
			log.Errorln(err)
			closeServer()
			return
		}
		var otherDomains []string
		for _, domain := range domains {
			if domain != "Builtin" {
				otherDomains = append(otherDomains, domain)
			}
		}
		if len(otherDomains) != 1 {
			err = fmt.Errorf("Failed to automatically identity the Netbios domain. Select the correct domain and use it as an argument from the available domains: %v", domains)
			log.Errorln(err)
			closeServer()
			return
		}
		netbiosComputerName = otherDomains[0]
	}

	domainId, err = sb.SamrLookupDomain(ctx, handle, strings.ToUpper(netbiosComputerName))
	if err != nil {
		log.Errorln(err)
		closeServer()
		return
	}
	domainHandle, err = sb.SamrOpenDomain(ctx, handle, MaximumAllowed, domainId)
	if err != nil {
		log.Errorln(err)
		closeServer()
		return
	}
	closer = func() {
		sb.SamrCloseHandle(ctx, domainHandle)
		closeServer()
	}
	return
}

// ListDomainUsers enumerates the normal user accounts of a domain, the local
// account domain when netbiosComputerName is empty.
func (sb *RPCCon) ListDomainUsers(ctx context.Context, netbiosComputerName string, limit uint32) (users []SamprRidEnumeration, err error) {
	log.Debugln("In ListDomainUsers")
	// Rough estimate of the mean size of a user entry
	maxLength := limit * 39
	domainHandle, _, closer, err := sb.openDomain(ctx, netbiosComputerName)
	if err != nil {
		return
	}
	defer closer()

	return sb.SamrEnumDomainUsers(ctx, domainHandle, UserNormalAccount, maxLength)
}

// QueryUserAllInfo returns everything the server is willing to tell about the
// account with RID userRid.
func (sb *RPCCon) QueryUserAllInfo(ctx context.Context, netbiosComputerName string, userRid uint32) (info *SamprUserAllInformation, err error) {
	log.Debugln("In QueryUserAllInfo")
	domainHandle, _, closer, err := sb.openDomain(ctx, netbiosComputerName)
	if err != nil {
		return
	}
	defer closer()

	userHandle, err := sb.SamrOpenUser(ctx, domainHandle, MaximumAllowed, userRid)
	if err != nil {
		log.Errorln(err)
		return
	}
	defer sb.SamrCloseHandle(ctx, userHandle)

	result, err := sb.SamrQueryInformationUser2(ctx, userHandle, UserAllInformation)
	if err != nil {
		log.Errorln(err)
		return
	}
	info, ok := result.(*SamprUserAllInformation)
	if !ok {
		err = fmt.Errorf("SamrQueryInformationUser2 returned %T for UserAllInformation", result)
		log.Errorln(err)
		return nil, err
	}
	return
}

// AddMemberToLocalAlias adds the account with SID memberSID to an alias of the
// Builtin domain, e.g. DomainAliasRidAdmins.
func (sb *RPCCon) AddMemberToLocalAlias(ctx context.Context, aliasRid uint32, memberSID string) (err error) {
	log.Debugln("In AddMemberToLocalAlias")
	if memberSID == "" {
		err = fmt.Errorf("Cannot add an empty SID to a local alias")
		return
	}
	sid, err := msdtyp.ConvertStrToSID(memberSID)
	if err != nil {
		log.Errorln(err)
		return
	}
	handle, err := sb.SamrConnect5(ctx, "")
	if err != nil {
		log.Errorln(err)
		return
	}
	defer sb.SamrCloseHandle(ctx, handle)

	builtinId, err := sb.SamrLookupDomain(ctx, handle, "Builtin")
	if err != nil {
		log.Errorln(err)
		return
	}
	handleBuiltin, err := sb.SamrOpenDomain(ctx, handle, MaximumAllowed, builtinId)
	if err != nil {
		log.Errorln(err)
		return
	}
	defer sb.SamrCloseHandle(ctx, handleBuiltin)
	handleAlias, err := sb.SamrOpenAlias(ctx, handleBuiltin, MaximumAllowed, aliasRid)
	if err != nil {
		log.Errorln(err)
		return
	}
	defer sb.SamrCloseHandle(ctx, handleAlias)
	err = sb.SamrAddMemberToAlias(ctx, handleAlias, sid)
	if err != nil {
		log.Errorln(err)
		return
	}
	log.Infof("Added %s to local alias %d\n", memberSID, aliasRid)
	return
}

// AddLocalAdmin adds the account with SID userSID to BUILTIN\Administrators.
func (sb *RPCCon) AddLocalAdmin(ctx context.Context, userSID string) error {
	return sb.AddMemberToLocalAlias(ctx, DomainAliasRidAdmins, userSID)
}
