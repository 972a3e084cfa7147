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

// LsarGetUserName returns the name and domain of the security principal the
// connection is authenticated as.
func (sb *RPCCon) LsarGetUserName(ctx context.Context) (username, domain string, err error) {
	log.Debugln("In LsarGetUserName")
	req := LsarGetUserNameReq{DomainName: &StringPointer{}}
	res, err := dcerpc.Call[LsarGetUserNameRes](ctx, sb.Transport, opGetUserName, &req)
	if err != nil {
		return
	}
	return res.UserName.Value(), res.DomainName.Value(), nil
}

// LsarLookupSids2 translates sids to names. A partial result comes back with
// ReturnCode STATUS_SOME_NOT_MAPPED and SidTypeUnknown entries for the SIDs
// that could not be translated.
func (sb *RPCCon) LsarLookupSids2(ctx context.Context, policyHandle PolicyHandle, level LsapLookupLevel, sids []*msdtyp.SID) (res SidTranslations, err error) {
	log.Debugln("In LsarLookupSids2")
	if len(sids) == 0 {
		err = fmt.Errorf("Must specify atleast one SID to lookup")
		return
	}
	if err = ndr.CheckRange("LsarLookupSids2 SIDs", len(sids), 1, MaxLookupSids); err != nil {
		log.Errorln(err)
		return
	}
	req := LsarLookupSids2Req{
		PolicyHandle:   policyHandle,
		SidEnumBuffer:  sids,
		LookupLevel:    level,
		ClientRevision: lookupRevision2,
	}
	resp, err := dcerpc.Call[LsarLookupSids2Res](ctx, sb.Transport, opLookupSids2, &req)
	if err != nil {
		return
	}
	if len(resp.TranslatedNames) != len(sids) {
		err = fmt.Errorf("LsarLookupSids2 returned %d names for %d SIDs", len(resp.TranslatedNames), len(sids))
		log.Errorln(err)
		return
	}

	res.ReferencedDomains = domainTranslations(resp.ReferencedDomains)
	for i, item := range resp.TranslatedNames {
		res.TranslatedNames = append(res.TranslatedNames, SidNameTranslation{Use: item.Use, Name: item.Name.S, Sid: sids[i].String(), DomainIndex: item.DomainIndex, Flags: item.Flags})
	}
	res.ReturnCode = resp.ReturnCode
	if resp.ReturnCode == dcerpc.StatusSomeNotMapped {
		log.Infof("LsarLookupSids2 mapped %d of %d SIDs\n", resp.MappedCount, len(sids))
	}
	return
}

// LsarLookupNames3 translates account names, optionally qualified as
// DOMAIN\name, to SIDs. At most MaxLookupNames names are accepted per call.
func (sb *RPCCon) LsarLookupNames3(ctx context.Context, policyHandle PolicyHandle, level LsapLookupLevel, names []string) (res NameTranslations, err error) {
	log.Debugln("In LsarLookupNames3")
	if len(names) == 0 {
		err = fmt.Errorf("Must specify atleast one Name to lookup")
		return
	}
	if err = ndr.CheckRange("LsarLookupNames3 names", len(names), 1, MaxLookupNames); err != nil {
		log.Errorln(err)
		return
	}
	nameList := make([]ndr.UnicodeString, len(names))
	for i, name := range names {
		nameList[i] = ndr.NewUnicodeString(name)
	}
	req := LsarLookupNames3Req{
		PolicyHandle:   policyHandle,
		Names:          nameList,
		LookupLevel:    level,
		ClientRevision: lookupRevision2,
	}
	resp, err := dcerpc.Call[LsarLookupNames3Res](ctx, sb.Transport, opLookupNames3, &req)
	if err != nil {
		return
	}
	if len(resp.TranslatedSids) != len(names) {
		err = fmt.Errorf("LsarLookupNames3 returned %d SIDs for %d names", len(resp.TranslatedSids), len(names))
		log.Errorln(err)
		return
	}

	res.ReferencedDomains = domainTranslations(resp.ReferencedDomains)
	for i, item := range resp.TranslatedSids {
		res.TranslatedSids = append(res.TranslatedSids, SidNameTranslation{Use: item.Use, Name: names[i], Sid: sidString(item.Sid), DomainIndex: item.DomainIndex, Flags: item.Flags})
	}
	res.ReturnCode = resp.ReturnCode
	if resp.ReturnCode == dcerpc.StatusSomeNotMapped {
		log.Infof("LsarLookupNames3 mapped %d of %d names\n", resp.MappedCount, len(names))
	}
	return
}
