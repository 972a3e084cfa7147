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
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/jfjallid/go-msrpc/dcerpc"
	"github.com/jfjallid/go-msrpc/msdtyp"
	"github.com/jfjallid/go-msrpc/ndr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testAccountSID  = "S-1-5-21-1023064509-695355555-2046574917-1106"
	testSidBytes    = "05000000010500000000000515000000bdb9fa3ca34872294541fc7952040000"
	primaryDomRes   = "00000200030000000c000e00040002000800020007000000000000000600000053004b0059004e004500540004000000010400000000000515000000bdb9fa3ca34872294541fc7900000000"
	enumAccountsRes = "1400000014000000000002001400000004000200080002000c0002001000020014000200180002001c0002002000020024000200280002002c0002003000020034000200380002003c0002004000020044000200480002004c000200500002000200000001020000000000055a0000000000000006000000010600000000000550000000208e57230361b762f2baaf11117706f0e7956e8306000000010600000000000550000000703344e71d40b7ffb8844562a9e3c7d4fd9771d8060000000106000000000005500000006ebf1bbb45efd2b14a3b45db505b43270458d86b060000000106000000000005500000002c4559766def9a2f8e23ea83ae7c7f71254cb2cc020000000102000000000005500000000000000001000000010100000000000506000000020000000102000000000005200000002f020000020000000102000000000005200000002b02000002000000010200000000000520000000270200000200000001020000000000052000000021020000020000000102000000000005200000002002000005000000010500000000000515000000c207a1ca5072fbb32ce9c7d2fd03000005000000010500000000000515000000c207a1ca5072fbb32ce9c7d2f203000005000000010500000000000515000000c207a1ca5072fbb32ce9c7d2e903000005000000010500000000000515000000c207a1ca5072fbb32ce9c7d2e803000005000000010500000000000515000000bdb9fa3ca34872294541fc795204000001000000010100000000000514000000010000000101000000000005130000000100000001010000000000010000000000000000"
	// LSAPR_USER_RIGHT_SET holding SeRestorePrivilege
	restoreRightSet = "01000000000002000100000024002600040002001300000000000000120000005300650052006500730074006f0072006500500072006900760069006c00650067006500"
)

func testHandle[K any](t *testing.T, pkt []byte) ndr.Handle[K] {
	t.Helper()
	h, err := ndr.HandleFromBytes[K](pkt[:ndr.HandleSize])
	if err != nil {
		t.Fatal(err)
	}
	return h
}

type fakeTransport struct {
	replies [][]byte
	opnums  []uint16
	stubs   [][]byte
}

func (f *fakeTransport) Call(ctx context.Context, opnum uint16, stub []byte) ([]byte, error) {
	f.opnums = append(f.opnums, opnum)
	f.stubs = append(f.stubs, stub)
	if len(f.replies) == 0 {
		return nil, fmt.Errorf("no reply queued for opnum %d", opnum)
	}
	reply := f.replies[0]
	f.replies = f.replies[1:]
	return reply, nil
}

func (f *fakeTransport) queue(t *testing.T, res interface{ MarshalBinary() ([]byte, error) }) {
	t.Helper()
	buf, err := res.MarshalBinary()
	require.NoError(t, err)
	f.replies = append(f.replies, buf)
}

func (f *fakeTransport) queueHex(t *testing.T, s string) {
	t.Helper()
	buf, err := hex.DecodeString(s)
	require.NoError(t, err)
	f.replies = append(f.replies, buf)
}

func TestLsarCloseReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000013d8cd7a32dac447a2d2e1094606f710")

	req := LsarCloseReq{
		ObjectHandle: testHandle[objectKind](t, pkt),
	}

	buf, err := req.MarshalBinary()
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(pkt, buf) {
		t.Fatal("Fail")
	}
}

func TestLsarClose(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000013d8cd7a32dac447a2d2e1094606f710")
	handle := testHandle[policyKind](t, pkt)

	ft := &fakeTransport{}
	ft.queue(t, &LsarCloseRes{ReturnCode: dcerpc.StatusSuccess})
	ft.queue(t, &LsarCloseRes{ObjectHandle: testHandle[objectKind](t, pkt), ReturnCode: dcerpc.StatusInvalidHandle})
	ft.queue(t, &LsarCloseRes{ObjectHandle: testHandle[objectKind](t, pkt), ReturnCode: dcerpc.StatusAccessDenied})
	c := NewRPCCon(ft)

	closed, err := c.LsarClose(context.Background(), handle)
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Equal(t, pkt, ft.stubs[0])

	closed, err = c.LsarClose(context.Background(), handle)
	require.NoError(t, err)
	assert.False(t, closed)

	closed, err = c.LsarClose(context.Background(), handle)
	assert.False(t, closed)
	assert.True(t, dcerpc.IsStatus(err, dcerpc.StatusAccessDenied))
}

func TestLsarDeleteObject(t *testing.T) {
	pkt, _ := hex.DecodeString("00000000dcc6a0b132ead24785decd3b8a1723b5")

	ft := &fakeTransport{}
	ft.queue(t, &LsarDeleteObjectRes{ReturnCode: dcerpc.StatusSuccess})
	c := NewRPCCon(ft)

	require.NoError(t, c.LsarDeleteObject(context.Background(), testHandle[accountKind](t, pkt)))
	assert.Equal(t, []uint16{LsarDeleteObject}, ft.opnums)
	assert.Equal(t, pkt, ft.stubs[0])
}

func TestLsarQueryInformationPolicyReq(t *testing.T) {
	pkt, _ := hex.DecodeString("000000002576201d63a8614681d8eeb1380e15200300")

	req := LsarQueryInformationPolicyReq{
		PolicyHandle:     testHandle[policyKind](t, pkt),
		InformationClass: PolicyPrimaryDomainInformation,
	}

	buf, err := req.MarshalBinary()
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(pkt, buf) {
		t.Fatal("Fail")
	}
}

func TestLsarQueryInformationPolicyRes(t *testing.T) {
	pkt, _ := hex.DecodeString(primaryDomRes)

	resp := LsarQueryInformationPolicyRes{InformationClass: PolicyPrimaryDomainInformation}
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	info := resp.PolicyInformation.(*LsaprPolicyPrimaryDomInfo)
	if info.Name.S != "SKYNET" {
		t.Fatal("Fail")
	}
	if info.Sid.String() != "S-1-5-21-1023064509-695355555-2046574917" {
		t.Fatal("Fail")
	}

	buf, err := resp.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)
}

func TestLsarQueryInformationPolicyMismatch(t *testing.T) {
	ft := &fakeTransport{}
	ft.queueHex(t, primaryDomRes)
	c := NewRPCCon(ft)

	_, err := c.LsarQueryInformationPolicy(context.Background(), PolicyHandle{}, PolicyAccountDomainInformation)
	var me *ndr.DiscriminantMismatchError
	require.ErrorAs(t, err, &me)
	assert.Equal(t, uint32(PolicyPrimaryDomainInformation), me.Observed)
	assert.Equal(t, uint32(PolicyAccountDomainInformation), me.Expected)
}

func TestLsarQueryInformationPolicyUnsupportedClass(t *testing.T) {
	ft := &fakeTransport{}
	c := NewRPCCon(ft)

	_, err := c.LsarQueryInformationPolicy(context.Background(), PolicyHandle{}, PolicyAuditEventsInformation)
	var ue *ndr.UnknownArmError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, uint32(PolicyAuditEventsInformation), ue.Tag)
	assert.Empty(t, ft.opnums)
}

func TestPolicyInformationRoundTrip(t *testing.T) {
	domainSid := msdtyp.MustParseSID("S-1-5-21-1023064509-695355555-2046574917")
	guid, err := msdtyp.ParseGUID("6f1e9d3a-7c2b-4e55-9a1d-3c0f2b8e4a77")
	require.NoError(t, err)

	cases := []PolicyInformation{
		&LsaprPolicyAccountDomInfo{DomainName: ndr.NewUnicodeString("DC01"), DomainSid: domainSid},
		&PolicyLsaServerRoleInfo{LsaServerRole: PolicyServerRolePrimary},
		&LsaprPolicyDnsDomainInfo{
			Name:          ndr.NewUnicodeString("SKYNET"),
			DnsDomainName: ndr.NewUnicodeString("skynet.local"),
			DnsForestName: ndr.NewUnicodeString("skynet.local"),
			DomainGuid:    guid,
			Sid:           domainSid,
		},
	}
	for _, info := range cases {
		res := LsarQueryInformationPolicyRes{PolicyInformation: info}
		buf, err := res.MarshalBinary()
		require.NoError(t, err)

		decoded := LsarQueryInformationPolicyRes{InformationClass: uint16(info.Tag())}
		require.NoError(t, decoded.UnmarshalBinary(buf))
		if diff := cmp.Diff(info, decoded.PolicyInformation); diff != "" {
			t.Fatalf("%T mismatch (-want +got):\n%s", info, diff)
		}
	}
}

func TestLsarCreateAccountReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000032bf6b0453c549498219e34aa230a400" + testSidBytes + "00000002")

	req := LsarCreateAccountReq{
		PolicyHandle:  testHandle[policyKind](t, pkt),
		AccountSid:    msdtyp.MustParseSID(testAccountSID),
		DesiredAccess: MaximumAllowed,
	}
	buf, err := req.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)

	req.AccountSid = nil
	_, err = req.MarshalBinary()
	require.Error(t, err)
}

func TestLsarEnumerateAccountsReq(t *testing.T) {
	pkt, _ := hex.DecodeString("000000000f0b08773dd4954a885f252d1e3571fd0000000000100000")

	req := LsarEnumerateAccountsReq{
		PolicyHandle:       testHandle[policyKind](t, pkt),
		EnumerationContext: 0,
		PreferredMaxLength: 4096,
	}

	buf, err := req.MarshalBinary()
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(pkt, buf) {
		t.Fatal("Fail")
	}
}

func TestLsarEnumerateAccountsRes(t *testing.T) {
	pkt, _ := hex.DecodeString(enumAccountsRes)
	var resp LsarEnumerateAccountsRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if len(resp.EnumerationBuffer) != 20 {
		t.Fatal("Fail")
	}
	if resp.EnumerationBuffer[1].String() != "S-1-5-80-592940576-1656185091-296729330-4026955537-2205062631" {
		t.Fatal("Fail")
	}
	assert.Equal(t, "S-1-1-0", resp.EnumerationBuffer[19].String())

	buf, err := resp.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)
}

func TestLsarEnumerateAccountsResume(t *testing.T) {
	first := []*msdtyp.SID{msdtyp.MustParseSID("S-1-5-32-544"), msdtyp.MustParseSID("S-1-5-32-545")}
	second := []*msdtyp.SID{msdtyp.MustParseSID(testAccountSID)}

	ft := &fakeTransport{}
	ft.queue(t, &LsarEnumerateAccountsRes{EnumerationContext: 2, EnumerationBuffer: first, ReturnCode: dcerpc.StatusSuccess})
	ft.queue(t, &LsarEnumerateAccountsRes{EnumerationContext: 3, EnumerationBuffer: second, ReturnCode: dcerpc.StatusSuccess})
	ft.queue(t, &LsarEnumerateAccountsRes{EnumerationContext: 3, ReturnCode: dcerpc.StatusNoMoreEntries})
	c := NewRPCCon(ft)

	accounts, err := c.LsarEnumerateAccounts(context.Background(), PolicyHandle{})
	require.NoError(t, err)
	require.Len(t, accounts, 3)
	assert.Equal(t, testAccountSID, accounts[2].String())
	assert.Equal(t, []uint16{LsarEnumerateAccounts, LsarEnumerateAccounts, LsarEnumerateAccounts}, ft.opnums)

	var req LsarEnumerateAccountsReq
	require.NoError(t, req.UnmarshalBinary(ft.stubs[2]))
	assert.Equal(t, uint32(3), req.EnumerationContext)
	assert.Equal(t, uint32(enumPreferredSize), req.PreferredMaxLength)
}

func TestLsarOpenAccountReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000032bf6b0453c549498219e34aa230a400" + testSidBytes + "00000002")

	req := LsarOpenAccountReq{
		PolicyHandle:  testHandle[policyKind](t, pkt),
		AccountSid:    msdtyp.MustParseSID(testAccountSID),
		DesiredAccess: MaximumAllowed,
	}

	buf, err := req.MarshalBinary()
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(pkt, buf) {
		t.Fatal("Fail")
	}

	var decoded LsarOpenAccountReq
	require.NoError(t, decoded.UnmarshalBinary(pkt))
	assert.Equal(t, testAccountSID, decoded.AccountSid.String())
}

func TestLsarOpenAccountRes(t *testing.T) {
	pkt, _ := hex.DecodeString("00000000dcc6a0b132ead24785decd3b8a1723b500000000")
	handle, _ := hex.DecodeString("00000000dcc6a0b132ead24785decd3b8a1723b5")

	var resp LsarOpenAccountRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(resp.AccountHandle.Bytes(), handle) {
		t.Fatal("Fail")
	}

	err = resp.UnmarshalBinary(pkt[:20])
	require.Error(t, err)
}

func TestLsarGetSystemAccessAccountReq(t *testing.T) {
	pkt, _ := hex.DecodeString("00000000dcc6a0b132ead24785decd3b8a1723b5")

	req := LsarGetSystemAccessAccountReq{
		AccountHandle: testHandle[accountKind](t, pkt),
	}

	buf, err := req.MarshalBinary()
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(pkt, buf) {
		t.Fatal("Fail")
	}
}

func TestLsarGetSystemAccessAccountRes(t *testing.T) {
	pkt, _ := hex.DecodeString("0100000000000000")

	var resp LsarGetSystemAccessAccountRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if resp.SystemAccess != SeInteractiveLogonRight {
		t.Fatal("Fail")
	}
}

func TestLsarSetSystemAccessAccountReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000054bd1c622f4ec44194c665bb6d9936c601000000")

	req := LsarSetSystemAccessAccountReq{
		AccountHandle: testHandle[accountKind](t, pkt),
		SystemAccess:  SeInteractiveLogonRight,
	}

	buf, err := req.MarshalBinary()
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(pkt, buf) {
		t.Fatal("Fail")
	}
}

func TestSystemAccessRights(t *testing.T) {
	rights := SystemAccessRights(SeInteractiveLogonRight | SeDenyNetworkLogonRight | 0x80000000)
	assert.Equal(t, []string{"SeInteractiveLogonRight", "SeDenyNetworkLogonRight"}, rights)
	assert.Empty(t, SystemAccessRights(0))

	mask, err := SystemAccessMask([]string{"seinteractivelogonright", "SeDenyNetworkLogonRight"})
	require.NoError(t, err)
	assert.Equal(t, SeInteractiveLogonRight|SeDenyNetworkLogonRight, mask)

	_, err = SystemAccessMask([]string{"SeBackupPrivilege"})
	require.Error(t, err)
}

func TestGetSystemAccessAccount(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &LsarOpenPolicy2Res{ReturnCode: dcerpc.StatusSuccess})
	ft.queue(t, &LsarOpenAccountRes{ReturnCode: dcerpc.StatusSuccess})
	ft.queue(t, &LsarGetSystemAccessAccountRes{SystemAccess: SeInteractiveLogonRight | SeNetworkLogonRight})
	ft.queue(t, &LsarCloseRes{})
	ft.queue(t, &LsarCloseRes{})
	c := NewRPCCon(ft)

	rights, err := c.GetSystemAccessAccount(context.Background(), testAccountSID)
	require.NoError(t, err)
	assert.Equal(t, []string{"SeInteractiveLogonRight", "SeNetworkLogonRight"}, rights)
	assert.Equal(t, []uint16{LsarOpenPolicy2, LsarOpenAccount, LsarGetSystemAccessAccount, LsarClose, LsarClose}, ft.opnums)
}

func TestSetSystemAccessAccountUnknownRight(t *testing.T) {
	ft := &fakeTransport{}
	c := NewRPCCon(ft)

	err := c.SetSystemAccessAccount(context.Background(), testAccountSID, []string{"SeNotARight"})
	require.Error(t, err)
	assert.Empty(t, ft.opnums)
}

func TestLsarEnumerateAccountsWithUserRightReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000063184d5211b96540ad5e805393ffcc81")
	handle := testHandle[policyKind](t, pkt)

	for _, right := range []string{"SeBackupPrivilege", ""} {
		req := LsarEnumerateAccountsWithUserRightReq{PolicyHandle: handle, UserRight: right}
		buf, err := req.MarshalBinary()
		require.NoError(t, err)

		var decoded LsarEnumerateAccountsWithUserRightReq
		require.NoError(t, decoded.UnmarshalBinary(buf))
		assert.Equal(t, req, decoded)
	}

	req := LsarEnumerateAccountsWithUserRightReq{PolicyHandle: handle}
	buf, err := req.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, append(pkt, 0, 0, 0, 0), buf)
}

func TestLsarEnumerateAccountRightsReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000063184d5211b96540ad5e805393ffcc81" + testSidBytes)

	req := LsarEnumerateAccountRightsReq{
		PolicyHandle: testHandle[policyKind](t, pkt),
		AccountSid:   msdtyp.MustParseSID(testAccountSID),
	}

	buf, err := req.MarshalBinary()
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(pkt, buf) {
		t.Fatal("Fail")
	}
}

func TestLsarEnumerateAccountRightsRes(t *testing.T) {
	pkt, _ := hex.DecodeString("0100000000000200010000002200240004000200120000000000000011000000530065004200610063006b0075007000500072006900760069006c00650067006500000000000000")

	var resp LsarEnumerateAccountRightsRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if len(resp.UserRights) != 1 {
		t.Fatal("Fail")
	}
	if resp.UserRights[0].S != "SeBackupPrivilege" {
		t.Fatal("Fail")
	}
	assert.Equal(t, uint16(36), resp.UserRights[0].MaxLength)

	buf, err := resp.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)
}

func TestListAccountRightsNoAccountObject(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &LsarOpenPolicy2Res{ReturnCode: dcerpc.StatusSuccess})
	ft.queue(t, &LsarReturnCodeRes{ReturnCode: StatusObjectNameNotFound})
	ft.queue(t, &LsarCloseRes{})
	c := NewRPCCon(ft)

	rights, err := c.ListAccountRights(context.Background(), testAccountSID)
	require.NoError(t, err)
	assert.NotNil(t, rights)
	assert.Empty(t, rights)
	assert.Equal(t, []uint16{LsarOpenPolicy2, LsarEnumerateAccountRights, LsarClose}, ft.opnums)
}

func TestLsarEnumerateAccountRightsStatus(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &LsarReturnCodeRes{ReturnCode: StatusObjectNameNotFound})
	c := NewRPCCon(ft)

	_, err := c.LsarEnumerateAccountRights(context.Background(), PolicyHandle{}, msdtyp.MustParseSID(testAccountSID))
	require.Error(t, err)
	var se *dcerpc.StatusError
	require.True(t, errors.As(err, &se))
	assert.Equal(t, StatusObjectNameNotFound, se.Status)
	assert.Equal(t, ResponseCodeMap[StatusObjectNameNotFound], se.Cause)
}

func TestLsarAddAccountRightsReq(t *testing.T) {
	pkt, _ := hex.DecodeString("000000004434e0c899f505488f125fc485ca3a87" + testSidBytes + restoreRightSet)

	req := LsarAddAccountRightsReq{
		PolicyHandle: testHandle[policyKind](t, pkt),
		AccountSid:   msdtyp.MustParseSID(testAccountSID),
		UserRights:   []ndr.UnicodeString{{S: "SeRestorePrivilege", MaxLength: 38}},
	}

	buf, err := req.MarshalBinary()
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(pkt, buf) {
		t.Fatal("Fail")
	}

	var decoded LsarAddAccountRightsReq
	require.NoError(t, decoded.UnmarshalBinary(pkt))
	if diff := cmp.Diff(req, decoded); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestLsarRemoveAccountRightsReq(t *testing.T) {
	pkt, _ := hex.DecodeString("000000008a5f943e238b5e4e89106934c5bb01de" + testSidBytes + "00000000" + restoreRightSet)

	req := LsarRemoveAccountRightsReq{
		PolicyHandle: testHandle[policyKind](t, pkt),
		AccountSid:   msdtyp.MustParseSID(testAccountSID),
		AllRights:    false,
		UserRights:   []ndr.UnicodeString{{S: "SeRestorePrivilege", MaxLength: 38}},
	}

	buf, err := req.MarshalBinary()
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(pkt, buf) {
		t.Fatal("Fail")
	}
}

func TestLsarRemoveAllAccountRights(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &LsarReturnCodeRes{})
	c := NewRPCCon(ft)

	require.NoError(t, c.LsarRemoveAccountRights(context.Background(), PolicyHandle{}, msdtyp.MustParseSID(testAccountSID), nil, true))

	var req LsarRemoveAccountRightsReq
	require.NoError(t, req.UnmarshalBinary(ft.stubs[0]))
	assert.True(t, req.AllRights)
	assert.Nil(t, req.UserRights)
}

func TestLsarAddAccountRightsValidation(t *testing.T) {
	ft := &fakeTransport{}
	c := NewRPCCon(ft)
	sid := msdtyp.MustParseSID(testAccountSID)

	require.Error(t, c.LsarAddAccountRights(context.Background(), PolicyHandle{}, sid, nil))
	require.Error(t, c.LsarAddAccountRights(context.Background(), PolicyHandle{}, sid, []string{""}))

	err := c.LsarAddAccountRights(context.Background(), PolicyHandle{}, sid, make([]string, MaxUserRights+1))
	var be *ndr.BoundError
	require.ErrorAs(t, err, &be)

	require.Error(t, c.LsarRemoveAccountRights(context.Background(), PolicyHandle{}, sid, nil, false))
	assert.Empty(t, ft.opnums)
}

func TestLsarOpenPolicy2Req(t *testing.T) {
	pkt, _ := hex.DecodeString("000000001800000000000000000000000000000000000000000002000c0000000200010000000002")

	req := LsarOpenPolicy2Req{
		SystemName: "",
		ObjectAttributes: LsaprObjectAttributes{
			Length: 24,
			SecurityQualityOfService: &SecurityQualityOfService{
				Length:              12,
				ImpersonationLevel:  LsaSecurityImpersonation,
				ContextTrackingMode: 1,
			},
		},
		DesiredAccess: MaximumAllowed,
	}

	buf, err := req.MarshalBinary()
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(pkt, buf) {
		t.Fatal("Fail")
	}

	var decoded LsarOpenPolicy2Req
	require.NoError(t, decoded.UnmarshalBinary(pkt))
	assert.Equal(t, req, decoded)
}

func TestLsarOpenPolicy2ReqRejectsRootDirectory(t *testing.T) {
	pkt, _ := hex.DecodeString("000000001800000000000200000000000000000000000000000000000000000000000002")

	var decoded LsarOpenPolicy2Req
	err := decoded.UnmarshalBinary(pkt)
	var fe *ndr.FormatError
	require.ErrorAs(t, err, &fe)
}

func TestLsarOpenPolicy2SystemName(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &LsarOpenPolicy2Res{ReturnCode: dcerpc.StatusSuccess})
	c := NewRPCCon(ft)

	_, err := c.LsarOpenPolicy2(context.Background(), "DC01", PolicyLookupNames)
	require.NoError(t, err)

	var req LsarOpenPolicy2Req
	require.NoError(t, req.UnmarshalBinary(ft.stubs[0]))
	assert.Equal(t, "DC01", req.SystemName)
	assert.Equal(t, PolicyLookupNames, req.DesiredAccess)
	require.NotNil(t, req.ObjectAttributes.SecurityQualityOfService)
	assert.Equal(t, LsaSecurityImpersonation, req.ObjectAttributes.SecurityQualityOfService.ImpersonationLevel)
}

func TestGetPrimaryDomainInfo(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &LsarOpenPolicy2Res{ReturnCode: dcerpc.StatusSuccess})
	ft.queueHex(t, primaryDomRes)
	ft.queue(t, &LsarCloseRes{})
	c := NewRPCCon(ft)

	info, err := c.GetPrimaryDomainInfo(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "SKYNET", info.Name.S)
	assert.Equal(t, "S-1-5-21-1023064509-695355555-2046574917", info.Sid.String())
	assert.Equal(t, []uint16{LsarOpenPolicy2, LsarQueryInformationPolicy, LsarClose}, ft.opnums)
}

func TestInterfaceRegistered(t *testing.T) {
	iface, err := dcerpc.LookupInterface("lsarpc")
	require.NoError(t, err)
	assert.Equal(t, MSRPCLsaRpcSyntax, iface.Syntax)

	p, err := iface.Procedure(LsarQueryInformationPolicy)
	require.NoError(t, err)
	res := p.NewResponse(PolicyPrimaryDomainInformation)
	pkt, _ := hex.DecodeString(primaryDomRes)
	require.NoError(t, res.UnmarshalBinary(pkt))

	for _, opnum := range []uint16{LsarGetUserName, LsarLookupSids2, LsarLookupNames3} {
		_, err = iface.Procedure(opnum)
		require.NoError(t, err)
	}
	_, err = iface.Procedure(1)
	require.Error(t, err)
}
