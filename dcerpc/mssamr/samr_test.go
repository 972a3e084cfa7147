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
	"bytes"
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/jfjallid/go-msrpc/dcerpc"
	"github.com/jfjallid/go-msrpc/msdtyp"
	"github.com/jfjallid/go-msrpc/ndr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	testDomainSID = "S-1-5-21-3399550914-3019600464-3536316716"
	userAllRes    = "000002001500000000000000000000000000000000000000b08de0187e99db01ffffffffffffff7fb04d4a43479adb01ffffffffffffff7f0a000a00040002000000000008000200000000000c000200000000001000020000000000140002000000000018000200000000001c0002000000000020000200000000002400020000000000280002000000000000000000000000000000000000000000000000000000000000000000040400000102000010020000ffffff00a80000002c000200000000000000000000000000050000000000000005000000740065007300740033000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000000ec0400000000000015000000ffffffffffffffffffffffffffffffffffffffffff00000000000000"
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

func TestSamrConnect5Req(t *testing.T) {
	pkt, _ := hex.DecodeString("000000000000000201000000010000000300000000000000")

	req := SamrConnect5Req{
		ServerName:     "",
		DesiredAccess:  MaximumAllowed,
		InRevisionInfo: &SamprRevisionInfoV1{Revision: 3, SupportedFeatures: 0},
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

func TestSamrConnect5Res(t *testing.T) {
	pkt, _ := hex.DecodeString("0100000001000000030000000000000000000000f46a5a3de8697b4d93cb4afc153179ca00000000")
	handle, _ := hex.DecodeString("00000000f46a5a3de8697b4d93cb4afc153179ca")
	var resp SamrConnect5Res
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}

	if !bytes.Equal(resp.ServerHandle.Bytes(), handle) {
		t.Fatal("Fail")
	}
	if resp.OutRevisionInfo.(*SamprRevisionInfoV1).Revision != 3 {
		t.Fatal("Fail")
	}
}

func TestSamrConnect5ServerName(t *testing.T) {
	req := SamrConnect5Req{
		ServerName:     "DC01",
		DesiredAccess:  MaximumAllowed,
		InRevisionInfo: &SamprRevisionInfoV1{Revision: 3},
	}
	buf, err := req.MarshalBinary()
	require.NoError(t, err)

	var decoded SamrConnect5Req
	require.NoError(t, decoded.UnmarshalBinary(buf))
	assert.Equal(t, "DC01", decoded.ServerName)
	assert.Equal(t, MaximumAllowed, decoded.DesiredAccess)
}

func TestSamrEnumDomainsReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000063537d27c9f31247a57ec952454f923100000000ffff0000")

	req := SamrEnumDomainsReq{
		ServerHandle:          testHandle[serverKind](t, pkt),
		EnumerationContext:    0,
		PreferedMaximumLength: 0xFFFF,
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

func TestSamrEnumDomainsRes(t *testing.T) {
	pkt, _ := hex.DecodeString("0200000000000200020000000400020002000000000000000a000c0008000200000000000e0010000c0002000600000000000000050000004600490046005400480000000800000000000000070000004200750069006c00740069006e0000000200000000000000")
	var resp SamrEnumDomainsRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if resp.CountReturned != 2 {
		t.Fatal("Fail")
	}
	if resp.Buffer[0].Name.S != "FIFTH" || resp.Buffer[1].Name.S != "Builtin" {
		t.Fatal("Fail")
	}

	buf, err := resp.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)
}

func TestSamrLookupDomainReq(t *testing.T) {
	pkt, _ := hex.DecodeString("00000000f25d62c2f570cd4cba8f5909bc7eebd60e001000000002000800000000000000070000004200750069006c00740069006e00")

	req := SamrLookupDomainReq{
		ServerHandle: testHandle[serverKind](t, pkt),
		Name:         ndr.UnicodeString{S: "Builtin", MaxLength: 16},
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

func TestSamrLookupDomainRes(t *testing.T) {
	pkt, _ := hex.DecodeString("000002000100000001010000000000052000000000000000")
	var resp SamrLookupDomainRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}

	if resp.DomainId.String() != "S-1-5-32" {
		t.Fatal("Fail")
	}
}

func TestSamrAddMemberToGroup(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000074f7a8f9b9f26b4db8fdd6e23eaed272e903000000000000")

	req := SamrAddMemberToGroupReq{
		GroupHandle: testHandle[groupKind](t, pkt),
		MemberId:    1001,
		Attributes:  0,
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

func TestSamrRemoveMemberFromGroup(t *testing.T) {
	pkt, _ := hex.DecodeString("000000006b7d89c99f79464b819e9e36106b7b6ae9030000")

	req := SamrRemoveMemberFromGroupReq{
		GroupHandle: testHandle[groupKind](t, pkt),
		MemberId:    1001,
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

func TestSamrGetMembersInGroupReq(t *testing.T) {
	pkt, _ := hex.DecodeString("00000000a7cc62ab49e43f459177017f95a45521")

	req := SamrGetMembersInGroupReq{
		GroupHandle: testHandle[groupKind](t, pkt),
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

func TestSamrGetMembersInGroupRes(t *testing.T) {
	pkt, _ := hex.DecodeString("0000020005000000040002000800020005000000f4010000f5010000f7010000f8010000e903000005000000070000000700000007000000070000000700000000000000")
	var resp SamrGetMembersInGroupRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}

	expected := &SamprGetMembersBuffer{
		Members:    []uint32{500, 501, 503, 504, 1001},
		Attributes: []uint32{7, 7, 7, 7, 7},
	}
	if diff := cmp.Diff(expected, resp.Members, cmpopts.IgnoreUnexported(SamprGetMembersBuffer{})); diff != "" {
		t.Fatalf("members mismatch (-want +got):\n%s", diff)
	}

	buf, err := resp.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)
}

func TestSamrGetMembersInGroupCountMismatch(t *testing.T) {
	// MemberCount says 2 but the arrays hold one entry each
	pkt, _ := hex.DecodeString("0000020002000000040002000800020001000000f40100000100000007000000" + "00000000")
	var resp SamrGetMembersInGroupRes
	err := resp.UnmarshalBinary(pkt)
	var fe *ndr.FormatError
	require.ErrorAs(t, err, &fe)
}

func TestSamrOpenDomainReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000001be3929e54f624593c95b7077cdbc440000000204000000010400000000000515000000c207a1ca5072fbb32ce9c7d2")

	req := SamrOpenDomainReq{
		ServerHandle:  testHandle[serverKind](t, pkt),
		DesiredAccess: MaximumAllowed,
		DomainId:      msdtyp.MustParseSID(testDomainSID),
	}

	buf, err := req.MarshalBinary()
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(pkt, buf) {
		t.Fatal("Fail")
	}

	var decoded SamrOpenDomainReq
	require.NoError(t, decoded.UnmarshalBinary(pkt))
	if diff := cmp.Diff(req, decoded); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestSamrOpenDomainRes(t *testing.T) {
	pkt, _ := hex.DecodeString("000000003758ced4cd5af6449cbc22f1ca57069800000000")
	handle, _ := hex.DecodeString("000000003758ced4cd5af6449cbc22f1ca570698")
	var resp SamrOpenDomainRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(resp.DomainHandle.Bytes(), handle) {
		t.Fatal("Fail")
	}
}

func TestSamrOpenDomainResTooSmall(t *testing.T) {
	var resp SamrOpenDomainRes
	err := resp.UnmarshalBinary(make([]byte, 20))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "too small")
}

func TestSamrAddMemberToAliasReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000081444460e094954a9d85644d9c4a599805000000010500000000000515000000c207a1ca5072fbb32ce9c7d2e9030000")

	req := SamrAddMemberToAliasReq{
		AliasHandle: testHandle[aliasKind](t, pkt),
		MemberId:    msdtyp.MustParseSID(testDomainSID + "-1001"),
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

func TestSamrRemoveMemberFromAlias(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000054058e3e85a62448ad45ab5ed0228a9c05000000010500000000000515000000c207a1ca5072fbb32ce9c7d2e9030000")

	req := SamrRemoveMemberFromAliasReq{
		AliasHandle: testHandle[aliasKind](t, pkt),
		MemberId:    msdtyp.MustParseSID(testDomainSID).WithRID(1001),
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

func TestSamrLookupIdsInDomainReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000081eafdf986dda74c831514c07839cf5101000000e80300000000000001000000e9030000")

	req := SamrLookupIdsInDomainReq{
		DomainHandle: testHandle[domainKind](t, pkt),
		RelativeIds:  []uint32{1001},
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

func TestSamrLookupIdsInDomainRes(t *testing.T) {
	pkt, _ := hex.DecodeString("010000000000020001000000080008000400020004000000000000000400000074006500730074000100000008000200010000000100000000000000")
	var resp SamrLookupIdsInDomainRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if len(resp.Names) != 1 || resp.Names[0].S != "test" {
		t.Fatal("Fail")
	}
	if len(resp.Use) != 1 || resp.Use[0] != SidTypeUser {
		t.Fatal("Fail")
	}

	buf, err := resp.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)
}

func TestSamrLookupNamesInDomainMaxCount(t *testing.T) {
	names := make([]ndr.UnicodeString, MaxLookupCount)
	for i := range names {
		names[i] = ndr.NewUnicodeString(fmt.Sprintf("user%d", i))
	}
	req := SamrLookupNamesInDomainReq{Names: names}
	buf, err := req.MarshalBinary()
	require.NoError(t, err)

	var decoded SamrLookupNamesInDomainReq
	require.NoError(t, decoded.UnmarshalBinary(buf))
	require.Len(t, decoded.Names, MaxLookupCount)
	if diff := cmp.Diff(names, decoded.Names); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
}

func TestSamrLookupCapRejectedBeforeSend(t *testing.T) {
	ft := &fakeTransport{}
	c := NewRPCCon(ft)

	_, err := c.SamrLookupNamesInDomain(context.Background(), DomainHandle{}, make([]string, MaxLookupCount+1))
	var be *ndr.BoundError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, MaxLookupCount+1, be.Count)

	_, err = c.SamrLookupIdsInDomain(context.Background(), DomainHandle{}, make([]uint32, MaxLookupCount+1))
	require.ErrorAs(t, err, &be)

	assert.Empty(t, ft.opnums)
}

func TestSamrLookupNamesInDomain(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &SamrLookupNamesInDomainRes{
		RelativeIds: []uint32{1001, 0},
		Use:         []uint32{SidTypeUser, SidTypeUnknown},
		ReturnCode:  dcerpc.StatusSomeNotMapped,
	})
	c := NewRPCCon(ft)

	mappings, err := c.SamrLookupNamesInDomain(context.Background(), DomainHandle{}, []string{"test", "missing"})
	require.NoError(t, err)
	expected := []SamrRidMapping{
		{Name: "test", RID: 1001, Use: SidTypeUser},
		{Name: "missing", RID: 0, Use: SidTypeUnknown},
	}
	assert.Equal(t, expected, mappings)
	assert.Equal(t, []uint16{SamrLookupNamesInDomain}, ft.opnums)
}

func TestSamrOpenGroupReq(t *testing.T) {
	pkt, _ := hex.DecodeString("00000000b046a8d99e6d044994b050f11fbec06a0000000201020000")

	req := SamrOpenGroupReq{
		DomainHandle:  testHandle[domainKind](t, pkt),
		DesiredAccess: MaximumAllowed,
		GroupId:       513,
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

func TestSamrOpenAliasReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000030534e79673c3248b0d54c5ccc3fc9890000000220020000")

	req := SamrOpenAliasReq{
		DomainHandle:  testHandle[domainKind](t, pkt),
		DesiredAccess: MaximumAllowed,
		AliasId:       DomainAliasRidAdmins,
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

func TestSamrGetMembersInAliasRes(t *testing.T) {
	pkt, _ := hex.DecodeString("020000000000020002000000040002000800020005000000010500000000000515000000c207a1ca5072fbb32ce9c7d2f401000005000000010500000000000515000000bdb9fa3ca34872294541fc790002000000000000")
	var resp SamrGetMembersInAliasRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if len(resp.Members) != 2 {
		t.Fatal("Fail")
	}
	if resp.Members[0].String() != testDomainSID+"-500" {
		t.Fatal("Fail")
	}
	if resp.Members[1].String() != "S-1-5-21-1023064509-695355555-2046574917-512" {
		t.Fatal("Fail")
	}

	buf, err := resp.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)
}

func TestSamrCloseHandleReq(t *testing.T) {
	pkt, _ := hex.DecodeString("00000000f8bd7c9a1edf0a4aa4532dfb47d8c3b2")

	req := SamrCloseHandleReq{
		Handle: testHandle[objectKind](t, pkt),
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

func TestSamrCloseHandle(t *testing.T) {
	pkt, _ := hex.DecodeString("00000000f8bd7c9a1edf0a4aa4532dfb47d8c3b2")
	handle := testHandle[aliasKind](t, pkt)

	ft := &fakeTransport{}
	ft.queue(t, &SamrCloseHandleRes{ReturnCode: dcerpc.StatusSuccess})
	ft.queue(t, &SamrCloseHandleRes{Handle: testHandle[objectKind](t, pkt), ReturnCode: dcerpc.StatusInvalidHandle})
	ft.queue(t, &SamrCloseHandleRes{Handle: testHandle[objectKind](t, pkt), ReturnCode: dcerpc.StatusAccessDenied})
	c := NewRPCCon(ft)

	closed, err := c.SamrCloseHandle(context.Background(), handle)
	require.NoError(t, err)
	assert.True(t, closed)
	assert.Equal(t, pkt, ft.stubs[0])

	closed, err = c.SamrCloseHandle(context.Background(), handle)
	require.NoError(t, err)
	assert.False(t, closed)

	closed, err = c.SamrCloseHandle(context.Background(), handle)
	assert.False(t, closed)
	assert.True(t, dcerpc.IsStatus(err, dcerpc.StatusAccessDenied))
}

func TestSamrRidToSidReq(t *testing.T) {
	pkt, _ := hex.DecodeString("00000000499bb328026c2e4f9e6a060437c0dca7e9030000")

	req := SamrRidToSidReq{
		DomainHandle: testHandle[domainKind](t, pkt),
		Rid:          1001,
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

func TestSamrRidToSidRes(t *testing.T) {
	pkt, _ := hex.DecodeString("0000020005000000010500000000000515000000c207a1ca5072fbb32ce9c7d2e903000000000000")
	var resp SamrRidToSidRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if resp.Sid.String() != testDomainSID+"-1001" {
		t.Fatal("Fail")
	}
	if resp.Sid.RID() != 1001 {
		t.Fatal("Fail")
	}
}

func TestSamrCreateUserInDomainReq(t *testing.T) {
	pkt, _ := hex.DecodeString("00000000c30967e83fe5a042b91c5b7030fbeea50a000c000000020006000000000000000500000074006500730074003300000000000002")

	req := SamrCreateUserInDomainReq{
		DomainHandle:  testHandle[domainKind](t, pkt),
		Name:          ndr.UnicodeString{S: "test3", MaxLength: 12},
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
}

func TestSamrCreateUserInDomainRes(t *testing.T) {
	pkt, _ := hex.DecodeString("00000000ace4f8f78255c149bb97f6de9efbb32e0404000000000000")
	handle, _ := hex.DecodeString("00000000ace4f8f78255c149bb97f6de9efbb32e")
	var resp SamrCreateUserInDomainRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(resp.UserHandle.Bytes(), handle) {
		t.Fatal("Fail")
	}
	if resp.RelativeId != 0x404 {
		t.Fatal("Fail")
	}
}

func TestSamrEnumDomainUsersReq(t *testing.T) {
	pkt, _ := hex.DecodeString("000000003758ced4cd5af6449cbc22f1ca5706980000000010000000ffff0000")

	req := SamrEnumDomainUsersReq{
		DomainHandle:          testHandle[domainKind](t, pkt),
		EnumerationContext:    0,
		UserAccountControl:    UserNormalAccount,
		PreferedMaximumLength: 0xFFFF,
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

func TestSamrEnumDomainUsersRes(t *testing.T) {
	pkt, _ := hex.DecodeString("0500000000000200050000000400020005000000f40100001a00200008000200f70100001c0020000c000200f50100000a00200010000200e90300000800200014000200f8010000240024001800020010000000000000000d000000410064006d0069006e006900730074007200610074006f007200000010000000000000000e000000440065006600610075006c0074004100630063006f0075006e007400100000000000000005000000470075006500730074000000100000000000000004000000740065007300740012000000000000001200000057004400410047005500740069006c006900740079004100630063006f0075006e0074000500000000000000")
	var resp SamrEnumDomainUsersRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if resp.CountReturned != 5 {
		t.Fatal("Fail")
	}
	var names []string
	for _, item := range resp.Buffer {
		names = append(names, item.Name.S)
	}
	assert.Equal(t, []string{"Administrator", "DefaultAccount", "Guest", "test", "WDAGUtilityAccount"}, names)
	if resp.Buffer[3].RelativeId != 1001 {
		t.Fatal("Fail")
	}

	buf, err := resp.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)
}

func TestSamrEnumerateGroupsInDomainReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000040fe770f096e8148ad56f70ea0a2292200000000ffff0000")

	req := SamrEnumerateGroupsInDomainReq{
		DomainHandle:          testHandle[domainKind](t, pkt),
		EnumerationContext:    0,
		PreferedMaximumLength: 0xFFFF,
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

func TestSamrEnumerateGroupsInDomainRes(t *testing.T) {
	pkt, _ := hex.DecodeString("01000000000002000100000004000200010000000102000008002000080002001000000000000000040000004e006f006e0065000100000000000000")
	var resp SamrEnumerateGroupsInDomainRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if resp.CountReturned != 1 {
		t.Fatal("Fail")
	}
	if resp.Buffer[0].RelativeId != 513 {
		t.Fatal("Fail")
	}
	if resp.Buffer[0].Name.S != "None" {
		t.Fatal("Fail")
	}
}

func TestSamrEnumerationNullBuffer(t *testing.T) {
	pkt, _ := hex.DecodeString("00000000" + "00000000" + "00000000" + "00000000")
	var resp SamrEnumAliasesInDomainRes
	require.NoError(t, resp.UnmarshalBinary(pkt))
	assert.Nil(t, resp.Buffer)

	buf, err := resp.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)
}

func TestSamrEnumAliasesInDomainReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000078179f9aca3a8043b01d4b5c2d59954100000000ffff0000")

	req := SamrEnumAliasesInDomainReq{
		DomainHandle:          testHandle[domainKind](t, pkt),
		EnumerationContext:    0,
		PreferedMaximumLength: 0xFFFF,
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

func TestSamrEnumAliasesInDomainRes(t *testing.T) {
	pkt, _ := hex.DecodeString("0100000000000200010000000400020001000000e80300004200420008000200210000000000000021000000530051004c005300650072007600650072003200300030003500530051004c00420072006f007700730065007200550073006500720024004600490046005400480000000100000000000000")
	var resp SamrEnumAliasesInDomainRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if resp.Buffer[0].RelativeId != 1000 {
		t.Fatal("Fail")
	}
	if resp.Buffer[0].Name.S != "SQLServer2005SQLBrowserUser$FIFTH" {
		t.Fatal("Fail")
	}
}

func TestSamrEnumDomainUsersResume(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &SamrEnumerationRes{
		EnumerationContext: 1,
		Buffer:             []SamprRidEnumeration{{RelativeId: 500, Name: ndr.NewUnicodeString("Administrator")}},
		CountReturned:      1,
		ReturnCode:         dcerpc.StatusMoreEntries,
	})
	ft.queue(t, &SamrEnumerationRes{
		Buffer:        []SamprRidEnumeration{{RelativeId: 501, Name: ndr.NewUnicodeString("Guest")}},
		CountReturned: 1,
		ReturnCode:    dcerpc.StatusSuccess,
	})
	c := NewRPCCon(ft)

	users, err := c.SamrEnumDomainUsers(context.Background(), DomainHandle{}, UserNormalAccount, 0)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, "Administrator", users[0].Name.S)
	assert.Equal(t, uint32(501), users[1].RelativeId)
	assert.Equal(t, []uint16{SamrEnumDomainUsers, SamrEnumDomainUsers}, ft.opnums)

	var second SamrEnumDomainUsersReq
	require.NoError(t, second.UnmarshalBinary(ft.stubs[1]))
	assert.Equal(t, uint32(1), second.EnumerationContext)
	assert.Equal(t, UserNormalAccount, second.UserAccountControl)
	assert.Equal(t, uint32(0xffffffff), second.PreferedMaximumLength)
}

func TestSamrEnumerationStatusError(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &SamrEnumerationRes{ReturnCode: dcerpc.StatusAccessDenied})
	c := NewRPCCon(ft)

	groups, err := c.SamrEnumerateGroupsInDomain(context.Background(), DomainHandle{}, 0)
	assert.Nil(t, groups)
	var se *dcerpc.StatusError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "SamrEnumerateGroupsInDomain", se.Operation)
	assert.Equal(t, dcerpc.StatusAccessDenied, se.Status)
}

func TestSamrQueryInformationUser2Req(t *testing.T) {
	pkt, _ := hex.DecodeString("000000001e1d87d3ab21d24daab28f93984541001500")

	req := SamrQueryInformationUser2Req{
		UserHandle:           testHandle[userKind](t, pkt),
		UserInformationClass: UserAllInformation,
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

func TestSamrQueryInformationUser2Res(t *testing.T) {
	pkt, _ := hex.DecodeString(userAllRes)
	resp := SamrQueryInformationUser2Res{UserInformationClass: UserAllInformation}
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	info, ok := resp.Buffer.(*SamprUserAllInformation)
	if !ok {
		t.Fatal("Fail")
	}
	if info.UserName.S != "test3" {
		t.Fatal("Fail")
	}
	if info.UserId != 0x404 || info.PrimaryGroupId != 0x201 {
		t.Fatal("Fail")
	}
	if info.UserAccountControl != UserNormalAccount|UserDontExpirePassword {
		t.Fatal("Fail")
	}
	if info.LogonHours.UnitsPerWeek != 168 || !bytes.Equal(info.LogonHours.LogonHours, bytes.Repeat([]byte{0xff}, 21)) {
		t.Fatal("Fail")
	}
	if !info.AccountExpires.IsNever() {
		t.Fatal("Fail")
	}

	buf, err := resp.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)
}

func TestSamrQueryInformationUser2Mismatch(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &SamrQueryInformationUser2Res{Buffer: &UserControlInfo{UserAccountControl: UserNormalAccount}})
	c := NewRPCCon(ft)

	info, err := c.SamrQueryInformationUser2(context.Background(), UserHandle{}, UserAllInformation)
	assert.Nil(t, info)
	var mismatch *ndr.DiscriminantMismatchError
	require.ErrorAs(t, err, &mismatch)
	assert.Equal(t, uint32(UserControlInformation), mismatch.Observed)
	assert.Equal(t, uint32(UserAllInformation), mismatch.Expected)
}

func TestSamrSetInformationUser2Req(t *testing.T) {
	// The class and the union tag share the word after the handle, the arm
	// starts at the next 4 byte boundary
	pkt, _ := hex.DecodeString("000000003296d64a4fc91a49b615efad07bf4f111000100010020000")

	req := SamrSetInformationUser2Req{
		UserHandle: testHandle[userKind](t, pkt),
		Buffer:     &UserControlInfo{UserAccountControl: UserNormalAccount | UserDontExpirePassword},
	}

	buf, err := req.MarshalBinary()
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(pkt, buf) {
		t.Fatal("Fail")
	}

	var decoded SamrSetInformationUser2Req
	require.NoError(t, decoded.UnmarshalBinary(pkt))
	if diff := cmp.Diff(req, decoded); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestSamrSetInformationUser2RejectsPasswords(t *testing.T) {
	ft := &fakeTransport{}
	c := NewRPCCon(ft)

	info := &SamprUserAllInformation{WhichFields: UserAllNtpasswordpresent, NtOwfPassword: msdtyp.NewShortBlob(make([]byte, 16))}
	err := c.SamrSetInformationUser2(context.Background(), UserHandle{}, info)
	require.Error(t, err)
	assert.Empty(t, ft.opnums)
}

func TestSamrUserInfoRoundTrip(t *testing.T) {
	all := &SamprUserAllInformation{
		LastLogon:          msdtyp.FiletimeFromUint64(0x01db997e18e08db0),
		AccountExpires:     msdtyp.FiletimeFromUint64(0x7fffffffffffffff),
		UserName:           ndr.NewUnicodeString("alice"),
		FullName:           ndr.NewUnicodeString("Alice Liddell"),
		HomeDirectory:      ndr.NewUnicodeString(`\\fs01\home\alice`),
		AdminComment:       ndr.NewUnicodeString(""),
		SecurityDescriptor: SrSecurityDescriptor{SecurityDescriptor: []byte{1, 0, 4, 0x80}},
		UserId:             1105,
		PrimaryGroupId:     513,
		UserAccountControl: UserNormalAccount,
		WhichFields:        UserAllUsername | UserAllFullname,
		LogonHours:         SamrLogonHours{UnitsPerWeek: 168, LogonHours: bytes.Repeat([]byte{0xff}, 21)},
		LogonCount:         3,
		PasswordExpired:    true,
	}
	arms := []UserInfo{
		all,
		&SamprUserNameInformation{UserName: ndr.NewUnicodeString("alice"), FullName: ndr.NewUnicodeString("Alice")},
		&SamprUserAccountNameInformation{UserName: ndr.NewUnicodeString("alice")},
		&SamprUserFullNameInformation{FullName: ndr.NewUnicodeString("Alice")},
		&UserPrimaryGroupInfo{PrimaryGroupId: 513},
		&SamprUserHomeInformation{HomeDirectory: ndr.NewUnicodeString(`\\fs01\home`), HomeDirectoryDrive: ndr.NewUnicodeString("H:")},
		&SamprUserScriptInformation{ScriptPath: ndr.NewUnicodeString("logon.cmd")},
		&SamprUserProfileInformation{ProfilePath: ndr.NewUnicodeString(`\\fs01\profiles\alice`)},
		&SamprUserAdminCommentInformation{AdminComment: ndr.NewUnicodeString("")},
		&SamprUserWorkStationsInformation{WorkStations: ndr.NewUnicodeString("WS01,WS02")},
		&UserControlInfo{UserAccountControl: UserNormalAccount | UserAccountDisabled},
		&UserExpiresInfo{AccountExpires: msdtyp.FiletimeFromUint64(0x7fffffffffffffff)},
	}
	for _, arm := range arms {
		res := SamrQueryInformationUser2Res{Buffer: arm}
		buf, err := res.MarshalBinary()
		require.NoError(t, err)

		decoded := SamrQueryInformationUser2Res{UserInformationClass: uint16(arm.Tag())}
		require.NoError(t, decoded.UnmarshalBinary(buf), "class %d", arm.Tag())
		if diff := cmp.Diff(arm, decoded.Buffer); diff != "" {
			t.Fatalf("class %d mismatch (-want +got):\n%s", arm.Tag(), diff)
		}
	}
}

func TestSamrLogonHoursLength(t *testing.T) {
	res := SamrQueryInformationUser2Res{Buffer: &SamprUserAllInformation{
		LogonHours: SamrLogonHours{UnitsPerWeek: 168, LogonHours: []byte{0xff}},
	}}
	_, err := res.MarshalBinary()
	var fe *ndr.FormatError
	require.ErrorAs(t, err, &fe)
}

func TestSamrOpenUserReq(t *testing.T) {
	pkt, _ := hex.DecodeString("000000002c0c5d793c997d49ad162fd8db33960d0000000204040000")

	req := SamrOpenUserReq{
		DomainHandle:  testHandle[domainKind](t, pkt),
		DesiredAccess: MaximumAllowed,
		UserId:        0x404,
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

func TestSamrOpenUserRes(t *testing.T) {
	pkt, _ := hex.DecodeString("000000001e1d87d3ab21d24daab28f939845410000000000")
	handle, _ := hex.DecodeString("000000001e1d87d3ab21d24daab28f9398454100")
	var resp SamrOpenUserRes
	err := resp.UnmarshalBinary(pkt)
	if err != nil {
		t.Fatal(err)
		return
	}
	if !bytes.Equal(resp.UserHandle.Bytes(), handle) {
		t.Fatal("Fail")
	}
}

func TestSamrDeleteUserReq(t *testing.T) {
	pkt, _ := hex.DecodeString("0000000075727d6e145d97458157e795872506e5")

	req := SamrDeleteUserReq{
		UserHandle: testHandle[userKind](t, pkt),
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

func TestQueryUserAllInfo(t *testing.T) {
	srv, _ := hex.DecodeString("00000000f46a5a3de8697b4d93cb4afc153179ca")
	dom, _ := hex.DecodeString("000000003758ced4cd5af6449cbc22f1ca570698")
	usr, _ := hex.DecodeString("000000001e1d87d3ab21d24daab28f9398454100")
	userAll, _ := hex.DecodeString(userAllRes)

	ft := &fakeTransport{}
	ft.queue(t, &SamrConnect5Res{OutRevisionInfo: &SamprRevisionInfoV1{Revision: 3}, ServerHandle: testHandle[serverKind](t, srv)})
	ft.queue(t, &SamrEnumerationRes{
		Buffer: []SamprRidEnumeration{
			{RelativeId: 0, Name: ndr.NewUnicodeString("FIFTH")},
			{RelativeId: 1, Name: ndr.NewUnicodeString("Builtin")},
		},
		CountReturned: 2,
	})
	ft.queue(t, &SamrLookupDomainRes{DomainId: msdtyp.MustParseSID(testDomainSID)})
	ft.queue(t, &SamrOpenDomainRes{DomainHandle: testHandle[domainKind](t, dom)})
	ft.queue(t, &SamrOpenUserRes{UserHandle: testHandle[userKind](t, usr)})
	ft.replies = append(ft.replies, userAll)
	for range 3 {
		ft.queue(t, &SamrCloseHandleRes{})
	}
	c := NewRPCCon(ft)

	info, err := c.QueryUserAllInfo(context.Background(), "", 0x404)
	require.NoError(t, err)
	assert.Equal(t, "test3", info.UserName.S)
	assert.Equal(t, []uint16{
		SamrConnect5, SamrEnumDomains, SamrLookupDomain, SamrOpenDomain, SamrOpenUser,
		SamrQueryInformationUser2, SamrCloseHandle, SamrCloseHandle, SamrCloseHandle,
	}, ft.opnums)

	var lookup SamrLookupDomainReq
	require.NoError(t, lookup.UnmarshalBinary(ft.stubs[2]))
	assert.Equal(t, "FIFTH", lookup.Name.S)

	// Handles are closed innermost first
	assert.Equal(t, usr, ft.stubs[6])
	assert.Equal(t, dom, ft.stubs[7])
	assert.Equal(t, srv, ft.stubs[8])
}

func TestListDomainUsersAmbiguousDomain(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &SamrConnect5Res{OutRevisionInfo: &SamprRevisionInfoV1{Revision: 3}})
	ft.queue(t, &SamrEnumerationRes{
		Buffer: []SamprRidEnumeration{
			{RelativeId: 0, Name: ndr.NewUnicodeString("FIFTH")},
			{RelativeId: 1, Name: ndr.NewUnicodeString("SIXTH")},
			{RelativeId: 2, Name: ndr.NewUnicodeString("Builtin")},
		},
	})
	ft.queue(t, &SamrCloseHandleRes{})
	c := NewRPCCon(ft)

	_, err := c.ListDomainUsers(context.Background(), "", 100)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "FIFTH"))
	assert.Equal(t, []uint16{SamrConnect5, SamrEnumDomains, SamrCloseHandle}, ft.opnums)
}

func TestAddMemberToLocalAlias(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &SamrConnect5Res{OutRevisionInfo: &SamprRevisionInfoV1{Revision: 3}})
	ft.queue(t, &SamrLookupDomainRes{DomainId: msdtyp.MustParseSID("S-1-5-32")})
	ft.queue(t, &SamrOpenDomainRes{})
	ft.queue(t, &SamrOpenAliasRes{})
	ft.queue(t, &SamrReturnCodeRes{ReturnCode: StatusMemberInAlias})
	for range 3 {
		ft.queue(t, &SamrCloseHandleRes{})
	}
	c := NewRPCCon(ft)

	err := c.AddLocalAdmin(context.Background(), testDomainSID+"-1001")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ResponseCodeMap[StatusMemberInAlias]))

	var open SamrOpenAliasReq
	require.NoError(t, open.UnmarshalBinary(ft.stubs[3]))
	assert.Equal(t, DomainAliasRidAdmins, open.AliasId)

	var add SamrAddMemberToAliasReq
	require.NoError(t, add.UnmarshalBinary(ft.stubs[4]))
	assert.Equal(t, testDomainSID+"-1001", add.MemberId.String())
}

func TestInterfaceRegistered(t *testing.T) {
	iface, err := dcerpc.LookupInterface("samr")
	require.NoError(t, err)
	assert.Equal(t, MSRPCSamrSyntax, iface.Syntax)

	p, err := iface.Procedure(SamrQueryInformationUser2)
	require.NoError(t, err)
	res := p.NewResponse(UserAllInformation)
	pkt, _ := hex.DecodeString(userAllRes)
	require.NoError(t, res.UnmarshalBinary(pkt))

	_, err = iface.Procedure(2)
	require.Error(t, err)
}
