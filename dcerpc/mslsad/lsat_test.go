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
	"encoding/hex"
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
	lookupPolicyHandle = "00000000ee51eb0e73daa44d8c1e8a2fbe9b8b2a"

	// BUILTIN\Administrators
	lookupSids2Res = "00000200010000000400020020000000" +
		"01000000" +
		"0e001000080002000c000200" +
		"080000000000000007000000" + "4200550049004c00540049004e000000" +
		"01000000010100000000000520000000" +
		"0100000010000200" +
		"01000000" +
		"040000001c001e00140002000000000000000000" +
		"0f000000000000000e000000410064006d0069006e006900730074007200610074006f0072007300" +
		"0100000000000000"

	getUserNameRes = "00000200" + "0800080004000200" + "0400000000000000040000007400650073007400" +
		"08000200" + "0c000200" + "0c000c0010000200" + "06000000000000000600000053004b0059004e0045005400" +
		"00000000"
)

func TestLsarLookupSids2Req(t *testing.T) {
	pkt, _ := hex.DecodeString(lookupPolicyHandle +
		"0100000000000200" + // SidEnumBuffer
		"0100000004000200" + // conformance, referent of the first SID
		"02000000010200000000000520000000" + "20020000" +
		"0000000000000000" + // TranslatedNames
		"01000000000000000000000002000000")

	req := LsarLookupSids2Req{
		PolicyHandle:   testHandle[policyKind](t, pkt),
		SidEnumBuffer:  []*msdtyp.SID{msdtyp.MustParseSID("S-1-5-32-544")},
		LookupLevel:    LsapLookupWksta,
		ClientRevision: lookupRevision2,
	}
	buf, err := req.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)

	var decoded LsarLookupSids2Req
	require.NoError(t, decoded.UnmarshalBinary(pkt))
	if diff := cmp.Diff(req, decoded); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}
}

func TestLsarLookupSids2Res(t *testing.T) {
	pkt, err := hex.DecodeString(lookupSids2Res)
	require.NoError(t, err)

	var resp LsarLookupSids2Res
	require.NoError(t, resp.UnmarshalBinary(pkt))
	require.NotNil(t, resp.ReferencedDomains)
	require.Len(t, resp.ReferencedDomains.Domains, 1)
	assert.Equal(t, "BUILTIN", resp.ReferencedDomains.Domains[0].Name.S)
	assert.Equal(t, "S-1-5-32", resp.ReferencedDomains.Domains[0].Sid.String())
	assert.Equal(t, uint32(32), resp.ReferencedDomains.MaxEntries)
	require.Len(t, resp.TranslatedNames, 1)
	assert.Equal(t, SidTypeAlias, resp.TranslatedNames[0].Use)
	assert.Equal(t, "Administrators", resp.TranslatedNames[0].Name.S)
	assert.Equal(t, int32(0), resp.TranslatedNames[0].DomainIndex)
	assert.Equal(t, uint32(1), resp.MappedCount)

	buf, err := resp.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)
}

func TestLsarLookupSids2ResNullDomains(t *testing.T) {
	pkt, _ := hex.DecodeString("00000000" + "0000000000000000" + "00000000" + "730000c0")

	var resp LsarLookupSids2Res
	require.NoError(t, resp.UnmarshalBinary(pkt))
	assert.Nil(t, resp.ReferencedDomains)
	assert.Nil(t, resp.TranslatedNames)
	assert.Equal(t, dcerpc.StatusNoneMapped, resp.ReturnCode)
}

func TestLsarLookupSids2(t *testing.T) {
	sids := []*msdtyp.SID{msdtyp.MustParseSID("S-1-5-32-544"), msdtyp.MustParseSID("S-1-5-21-1-2-3-4242")}
	ft := &fakeTransport{}
	ft.queue(t, &LsarLookupSids2Res{
		ReferencedDomains: &LsaprReferencedDomainList{
			Domains:    []LsaprTrustInformation{{Name: ndr.NewUnicodeString("BUILTIN"), Sid: msdtyp.MustParseSID("S-1-5-32")}},
			MaxEntries: 32,
		},
		TranslatedNames: []LsaprTranslatedNameEx{
			{Use: SidTypeAlias, Name: ndr.NewUnicodeString("Administrators"), DomainIndex: 0},
			{Use: SidTypeUnknown, Name: ndr.NewUnicodeString("S-1-5-21-1-2-3-4242"), DomainIndex: -1},
		},
		MappedCount: 1,
		ReturnCode:  dcerpc.StatusSomeNotMapped,
	})
	c := NewRPCCon(ft)

	res, err := c.LsarLookupSids2(context.Background(), PolicyHandle{}, LsapLookupWksta, sids)
	require.NoError(t, err)
	expected := SidTranslations{
		ReferencedDomains: []DomainTranslation{{Name: "BUILTIN", Sid: "S-1-5-32"}},
		TranslatedNames: []SidNameTranslation{
			{Use: SidTypeAlias, Name: "Administrators", Sid: "S-1-5-32-544", DomainIndex: 0},
			{Use: SidTypeUnknown, Name: "S-1-5-21-1-2-3-4242", Sid: "S-1-5-21-1-2-3-4242", DomainIndex: -1},
		},
		ReturnCode: dcerpc.StatusSomeNotMapped,
	}
	assert.Equal(t, expected, res)

	var req LsarLookupSids2Req
	require.NoError(t, req.UnmarshalBinary(ft.stubs[0]))
	require.Len(t, req.SidEnumBuffer, 2)
	assert.Equal(t, "S-1-5-21-1-2-3-4242", req.SidEnumBuffer[1].String())
	assert.Equal(t, uint32(lookupRevision2), req.ClientRevision)
}

func TestLsarLookupSids2NoneMapped(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &LsarLookupSids2Res{ReturnCode: dcerpc.StatusNoneMapped})
	c := NewRPCCon(ft)

	_, err := c.LsarLookupSids2(context.Background(), PolicyHandle{}, LsapLookupWksta, []*msdtyp.SID{msdtyp.MustParseSID("S-1-5-21-1-2-3-4242")})
	assert.True(t, dcerpc.IsStatus(err, dcerpc.StatusNoneMapped))
}

func TestLsarLookupSids2Bounds(t *testing.T) {
	ft := &fakeTransport{}
	c := NewRPCCon(ft)

	_, err := c.LsarLookupSids2(context.Background(), PolicyHandle{}, LsapLookupWksta, nil)
	require.Error(t, err)

	req := LsarLookupSids2Req{SidEnumBuffer: make([]*msdtyp.SID, MaxLookupSids+1)}
	_, err = req.MarshalBinary()
	var be *ndr.BoundError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, MaxLookupSids, be.Max)

	req = LsarLookupSids2Req{SidEnumBuffer: []*msdtyp.SID{nil}}
	_, err = req.MarshalBinary()
	require.Error(t, err)
	assert.Empty(t, ft.opnums)
}

func TestLsarLookupNames3Req(t *testing.T) {
	pkt, _ := hex.DecodeString(lookupPolicyHandle +
		"01000000" + // Count
		"01000000" + "1a001a0000000200" +
		"0d000000000000000d000000" + "410064006d0069006e006900730074007200610074006f0072000000" +
		"0000000000000000" + // TranslatedSids
		"01000000000000000000000002000000")

	req := LsarLookupNames3Req{
		PolicyHandle:   testHandle[policyKind](t, pkt),
		Names:          []ndr.UnicodeString{ndr.NewUnicodeString("Administrator")},
		LookupLevel:    LsapLookupWksta,
		ClientRevision: lookupRevision2,
	}
	buf, err := req.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)

	var decoded LsarLookupNames3Req
	require.NoError(t, decoded.UnmarshalBinary(pkt))
	if diff := cmp.Diff(req, decoded); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}

	// Count disagrees with the conformance of Names
	pkt[20] = 2
	require.Error(t, decoded.UnmarshalBinary(pkt))
}

func TestLsarLookupNames3ResRoundTrip(t *testing.T) {
	resp := LsarLookupNames3Res{
		ReferencedDomains: &LsaprReferencedDomainList{
			Domains:    []LsaprTrustInformation{{Name: ndr.NewUnicodeString("SKYNET"), Sid: msdtyp.MustParseSID("S-1-5-21-1023064509-695355555-2046574917")}},
			MaxEntries: 32,
		},
		TranslatedSids: []LsaprTranslatedSidEx2{
			{Use: SidTypeUser, Sid: msdtyp.MustParseSID(testAccountSID), DomainIndex: 0},
			{Use: SidTypeUnknown, DomainIndex: -1},
		},
		MappedCount: 1,
		ReturnCode:  dcerpc.StatusSomeNotMapped,
	}
	buf, err := resp.MarshalBinary()
	require.NoError(t, err)

	var decoded LsarLookupNames3Res
	require.NoError(t, decoded.UnmarshalBinary(buf))
	if diff := cmp.Diff(resp, decoded, cmpopts.IgnoreUnexported(LsaprReferencedDomainList{})); diff != "" {
		t.Fatalf("response mismatch (-want +got):\n%s", diff)
	}
}

func TestLsarLookupNames3CapRejectedBeforeSend(t *testing.T) {
	ft := &fakeTransport{}
	c := NewRPCCon(ft)

	_, err := c.LsarLookupNames3(context.Background(), PolicyHandle{}, LsapLookupWksta, make([]string, MaxLookupNames+1))
	var be *ndr.BoundError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, MaxLookupNames+1, be.Count)

	_, err = c.LookupNames(context.Background(), LsapLookupWksta, make([]string, MaxLookupNames+1))
	require.Error(t, err)
	assert.Empty(t, ft.opnums)
}

func TestLookupNames(t *testing.T) {
	ft := &fakeTransport{}
	ft.queue(t, &LsarOpenPolicy2Res{ReturnCode: dcerpc.StatusSuccess})
	ft.queue(t, &LsarLookupNames3Res{
		ReferencedDomains: &LsaprReferencedDomainList{
			Domains: []LsaprTrustInformation{{Name: ndr.NewUnicodeString("SKYNET"), Sid: msdtyp.MustParseSID("S-1-5-21-1023064509-695355555-2046574917")}},
		},
		TranslatedSids: []LsaprTranslatedSidEx2{
			{Use: SidTypeUser, Sid: msdtyp.MustParseSID(testAccountSID), DomainIndex: 0},
		},
		MappedCount: 1,
	})
	ft.queue(t, &LsarCloseRes{})
	c := NewRPCCon(ft)

	res, err := c.LookupNames(context.Background(), LsapLookupWksta, []string{`SKYNET\test`})
	require.NoError(t, err)
	expected := NameTranslations{
		ReferencedDomains: []DomainTranslation{{Name: "SKYNET", Sid: "S-1-5-21-1023064509-695355555-2046574917"}},
		TranslatedSids:    []SidNameTranslation{{Use: SidTypeUser, Name: `SKYNET\test`, Sid: testAccountSID}},
	}
	assert.Equal(t, expected, res)
	assert.Equal(t, []uint16{LsarOpenPolicy2, LsarLookupNames3, LsarClose}, ft.opnums)
}

func TestLookupSidsInvalidSid(t *testing.T) {
	ft := &fakeTransport{}
	c := NewRPCCon(ft)

	_, err := c.LookupSids(context.Background(), LsapLookupWksta, []string{"S-1-5-32-544", "not-a-sid"})
	require.Error(t, err)
	assert.Empty(t, ft.opnums)
}

func TestLsarGetUserNameReq(t *testing.T) {
	pkt, _ := hex.DecodeString("000000000000000000000200" + "00000000")

	req := LsarGetUserNameReq{DomainName: &StringPointer{}}
	buf, err := req.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)
}

func TestLsarGetUserName(t *testing.T) {
	ft := &fakeTransport{}
	ft.queueHex(t, getUserNameRes)
	c := NewRPCCon(ft)

	user, domain, err := c.LsarGetUserName(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "test", user)
	assert.Equal(t, "SKYNET", domain)
	assert.Equal(t, []uint16{LsarGetUserName}, ft.opnums)

	var resp LsarGetUserNameRes
	pkt, _ := hex.DecodeString(getUserNameRes)
	require.NoError(t, resp.UnmarshalBinary(pkt))
	buf, err := resp.MarshalBinary()
	require.NoError(t, err)
	assert.Equal(t, pkt, buf)
}

func TestSidNameUseString(t *testing.T) {
	assert.Equal(t, "SidTypeAlias", SidTypeAlias.String())
	assert.Equal(t, "SidNameUse(42)", SidNameUse(42).String())
}
