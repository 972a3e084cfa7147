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

// Package mslsad is a client for the Local Security Authority (Domain Policy)
// Remote Protocol (MS-LSAD) and the translation methods of MS-LSAT, which
// share the lsarpc interface.
package mslsad

import (
	"fmt"

	"github.com/jfjallid/go-msrpc/dcerpc"
	"github.com/jfjallid/go-msrpc/ndr"
	"github.com/jfjallid/golog"
)

var log = golog.Get("github.com/jfjallid/go-msrpc/dcerpc/mslsad")

const (
	MSRPCUuidLsaRpc                = "12345778-1234-abcd-ef00-0123456789ab"
	MSRPCLsaRpcPipe                = "lsarpc"
	MSRPCLsaRpcMajorVersion uint16 = 0
	MSRPCLsaRpcMinorVersion uint16 = 0
)

var MSRPCLsaRpcSyntax = dcerpc.MustSyntaxId(MSRPCUuidLsaRpc, MSRPCLsaRpcMajorVersion, MSRPCLsaRpcMinorVersion)

// Local Security Authority (Domain Policy) Remote Protocol (lsarpc) Operations
const (
	LsarClose                          uint16 = 0  // This method closes an open handle.
	LsarQueryInformationPolicy         uint16 = 7  // This method is invoked to query values representing the server's information policy.
	LsarCreateAccount                  uint16 = 10 // This method is invoked to create a new account object in the server's database.
	LsarEnumerateAccounts              uint16 = 11 // This method is invoked to request a list of account objects in the server's database.
	LsarOpenAccount                    uint16 = 17 // This method is invoked to obtain a handle to an account object.
	LsarGetSystemAccessAccount         uint16 = 23 // Retrieves system access flags from the account object.
	LsarSetSystemAccessAccount         uint16 = 24 // Sets system access flags on the account object.
	LsarDeleteObject                   uint16 = 34 // This method deletes the object the handle refers to.
	LsarEnumerateAccountsWithUserRight uint16 = 35 // Returns the accounts that hold a specific right.
	LsarEnumerateAccountRights         uint16 = 36 // This method is invoked to retrieve a list of rights that are associated with an existing account.
	LsarAddAccountRights               uint16 = 37 // This method is invoked to add new rights to an account object.
	LsarRemoveAccountRights            uint16 = 38 // This method is invoked to remove rights from an account object.
	LsarOpenPolicy2                    uint16 = 44 // This method opens a context handle to the RPC server.
)

// MS-LSAT Operations
const (
	LsarGetUserName  uint16 = 45
	LsarLookupSids2  uint16 = 57
	LsarLookupNames3 uint16 = 68
)

// MS-LSAD Section 2.2.3.5
const (
	LsaSecurityAnonymous      uint16 = 0
	LsaSecurityIdentification uint16 = 1
	LsaSecurityImpersonation  uint16 = 2
	LsaSecurityDelegation     uint16 = 3
)

const (
	StatusInvalidSID          uint32 = 0xC0000078
	StatusNotSupported        uint32 = 0xC00000BB
	StatusNoSuchPrivilege     uint32 = 0xC0000060
	StatusObjectNameNotFound  uint32 = 0xC0000034
	StatusObjectNameCollision uint32 = 0xC0000035
)

var ResponseCodeMap = map[uint32]error{
	dcerpc.StatusAccessDenied:         fmt.Errorf("Access is denied"),
	dcerpc.StatusInvalidParameter:     fmt.Errorf("One of the function parameters is not valid."),
	dcerpc.StatusInvalidHandle:        fmt.Errorf("PolicyHandle is not a valid handle."),
	dcerpc.StatusNoneMapped:           fmt.Errorf("None of the names or SIDs could be translated"),
	dcerpc.StatusTrustedDomainFailure: fmt.Errorf("A trusted domain could not be contacted to complete the lookup"),
	dcerpc.StatusInvalidInfoClass:     fmt.Errorf("The information class is not valid"),
	StatusObjectNameCollision:         fmt.Errorf("Another TDO already exists that matches some of the identifying information of the supplied information"),
	StatusInvalidSID:                  fmt.Errorf("The security identifier of the trusted domain is not valid"),
	StatusObjectNameNotFound:          fmt.Errorf("No value has been set for this policy."),
	StatusNotSupported:                fmt.Errorf("The operation is not supported for this object."),
	StatusNoSuchPrivilege:             fmt.Errorf("One of the specified rights does not exist"),
}

// MS-LSAD Section 2.2.1.1 ACCESS_MASK for all objects
const (
	Delete         uint32 = 0x00010000
	ReadControl    uint32 = 0x00020000
	WriteDac       uint32 = 0x00040000
	WriteOwner     uint32 = 0x00080000
	MaximumAllowed uint32 = 0x02000000
	GenericAll     uint32 = 0x10000000
	GenericExecute uint32 = 0x20000000
)

// MS-LSAD Section 2.2.1.1.2 ACCESS_MASK for Policy Objects
const (
	PolicyViewLocalInformation  uint32 = 0x00000001
	PolicyViewAuditInformation  uint32 = 0x00000002
	PolicyGetPrivateInformation uint32 = 0x00000004
	PolicyTrustAdmin            uint32 = 0x00000008
	PolicyCreateAccount         uint32 = 0x00000010
	PolicyCreateSecret          uint32 = 0x00000020
	PolicyCreatePrivilege       uint32 = 0x00000040
	PolicySetDefaultQuotaLimits uint32 = 0x00000080
	PolicySetAuditRequirements  uint32 = 0x00000100
	PolicyAuditLogAdmin         uint32 = 0x00000200
	PolicyServerAdmin           uint32 = 0x00000400
	PolicyLookupNames           uint32 = 0x00000800
	PolicyNotification          uint32 = 0x00001000
)

// MS-LSAD Section 2.2.4.1
const (
	PolicyAuditLogInformation           uint16 = 1
	PolicyAuditEventsInformation        uint16 = 2
	PolicyPrimaryDomainInformation      uint16 = 3
	PolicyPdAccountInformation          uint16 = 4
	PolicyAccountDomainInformation      uint16 = 5
	PolicyLsaServerRoleInformation      uint16 = 6
	PolicyReplicaSourceInformation      uint16 = 7
	PolicyInformationNotUsedOnWire      uint16 = 8
	PolicyModificationInformation       uint16 = 9
	PolicyAuditFullSetInformation       uint16 = 10
	PolicyAuditFullQueryInformation     uint16 = 11
	PolicyDnsDomainInformation          uint16 = 12
	PolicyDnsDomainInformationInt       uint16 = 13
	PolicyLocalAccountDomainInformation uint16 = 14
	PolicyMachineAccountInformation     uint16 = 15
)

// MS-LSAD Section 2.2.4.7 POLICY_LSA_SERVER_ROLE
const (
	PolicyServerRoleBackup  uint32 = 2
	PolicyServerRolePrimary uint32 = 3
)

// MS-LSAD Section 3.1.1.2.2
const (
	SeInteractiveLogonRight           uint32 = 0x00000001
	SeNetworkLogonRight               uint32 = 0x00000002
	SeBatchLogonRight                 uint32 = 0x00000004
	SeServiceLogonRight               uint32 = 0x00000010
	SeDenyInteractiveLogonRight       uint32 = 0x00000040
	SeDenyNetworkLogonRight           uint32 = 0x00000080
	SeDenyBatchLogonRight             uint32 = 0x00000100
	SeDenyServiceLogonRight           uint32 = 0x00000200
	SeRemoteInteractiveLogonRight     uint32 = 0x00000400
	SeDenyRemoteInteractiveLogonRight uint32 = 0x00000800
)

// Keys are upper case so that lookups are case insensitive.
var SystemAccessRightsMap = map[string]uint32{
	"SEINTERACTIVELOGONRIGHT":           SeInteractiveLogonRight,
	"SENETWORKLOGONRIGHT":               SeNetworkLogonRight,
	"SEBATCHLOGONRIGHT":                 SeBatchLogonRight,
	"SESERVICELOGONRIGHT":               SeServiceLogonRight,
	"SEDENYINTERACTIVELOGONRIGHT":       SeDenyInteractiveLogonRight,
	"SEDENYNETWORKLOGONRIGHT":           SeDenyNetworkLogonRight,
	"SEDENYBATCHLOGONRIGHT":             SeDenyBatchLogonRight,
	"SEDENYSERVICELOGONRIGHT":           SeDenyServiceLogonRight,
	"SEREMOTEINTERACTIVELOGONRIGHT":     SeRemoteInteractiveLogonRight,
	"SEDENYREMOTEINTERACTIVELOGONRIGHT": SeDenyRemoteInteractiveLogonRight,
}

// Names in bit order, used to decode a system access mask.
var systemAccessRightNames = []struct {
	flag uint32
	name string
}{
	{SeInteractiveLogonRight, "SeInteractiveLogonRight"},
	{SeNetworkLogonRight, "SeNetworkLogonRight"},
	{SeBatchLogonRight, "SeBatchLogonRight"},
	{SeServiceLogonRight, "SeServiceLogonRight"},
	{SeDenyInteractiveLogonRight, "SeDenyInteractiveLogonRight"},
	{SeDenyNetworkLogonRight, "SeDenyNetworkLogonRight"},
	{SeDenyBatchLogonRight, "SeDenyBatchLogonRight"},
	{SeDenyServiceLogonRight, "SeDenyServiceLogonRight"},
	{SeRemoteInteractiveLogonRight, "SeRemoteInteractiveLogonRight"},
	{SeDenyRemoteInteractiveLogonRight, "SeDenyRemoteInteractiveLogonRight"},
}

// MS-LSAT Section 2.2.13 SID_NAME_USE
type SidNameUse uint32

const (
	SidTypeUser SidNameUse = iota + 1
	SidTypeGroup
	SidTypeDomain
	SidTypeAlias
	SidTypeWellKnownGroup
	SidTypeDeletedAccount
	SidTypeInvalid
	SidTypeUnknown
	SidTypeComputer
	SidTypeLabel
)

var SidNameUseMap = map[SidNameUse]string{
	SidTypeUser:           "SidTypeUser",
	SidTypeGroup:          "SidTypeGroup",
	SidTypeDomain:         "SidTypeDomain",
	SidTypeAlias:          "SidTypeAlias",
	SidTypeWellKnownGroup: "SidTypeWellKnownGroup",
	SidTypeDeletedAccount: "SidTypeDeletedAccount",
	SidTypeInvalid:        "SidTypeInvalid",
	SidTypeUnknown:        "SidTypeUnknown",
	SidTypeComputer:       "SidTypeComputer",
	SidTypeLabel:          "SidTypeLabel",
}

func (self SidNameUse) String() string {
	if name, found := SidNameUseMap[self]; found {
		return name
	}
	return fmt.Sprintf("SidNameUse(%d)", uint32(self))
}

// MS-LSAT Section 2.2.16 LSAP_LOOKUP_LEVEL
type LsapLookupLevel uint32

const (
	LsapLookupWksta LsapLookupLevel = iota + 1
	LsapLookupPDC
	LsapLookupTDL
	LsapLookupGC
	LsapLookupXForestReferral
	LsapLookupXForestResolve
	LsapLookupRODCReferralToFullDC
)

// Bounds from the [range] attributes of the lsarpc IDL
const (
	MaxLookupNames    = 1000
	MaxLookupSids     = 20480
	MaxUserRights     = 256
	MaxLookupDomains  = 256
	lookupRevision2   = 2
	enumPreferredSize = 4096
)

type (
	policyKind  struct{}
	accountKind struct{}
	objectKind  struct{}
)

type (
	PolicyHandle  = ndr.Handle[policyKind]
	AccountHandle = ndr.Handle[accountKind]
	// Any of the above, as accepted by LsarClose and LsarDeleteObject
	ObjectHandle = ndr.Handle[objectKind]
)

// RPCCon is an lsarpc client on a bound transport.
type RPCCon struct {
	dcerpc.Transport
}

func NewRPCCon(t dcerpc.Transport) *RPCCon {
	return &RPCCon{Transport: t}
}

func operation(name string, opnum uint16, accept ...uint32) dcerpc.Operation {
	return dcerpc.Operation{Name: name, Opnum: opnum, Accept: accept, Codes: ResponseCodeMap}
}

var (
	opClose                          = operation("LsarClose", LsarClose)
	opQueryInformationPolicy         = operation("LsarQueryInformationPolicy", LsarQueryInformationPolicy)
	opCreateAccount                  = operation("LsarCreateAccount", LsarCreateAccount)
	opEnumerateAccounts              = operation("LsarEnumerateAccounts", LsarEnumerateAccounts, dcerpc.StatusSuccess, dcerpc.StatusNoMoreEntries)
	opOpenAccount                    = operation("LsarOpenAccount", LsarOpenAccount)
	opGetSystemAccessAccount         = operation("LsarGetSystemAccessAccount", LsarGetSystemAccessAccount)
	opSetSystemAccessAccount         = operation("LsarSetSystemAccessAccount", LsarSetSystemAccessAccount)
	opDeleteObject                   = operation("LsarDeleteObject", LsarDeleteObject)
	opEnumerateAccountsWithUserRight = operation("LsarEnumerateAccountsWithUserRight", LsarEnumerateAccountsWithUserRight, dcerpc.StatusSuccess, dcerpc.StatusNoMoreEntries)
	opEnumerateAccountRights         = operation("LsarEnumerateAccountRights", LsarEnumerateAccountRights)
	opAddAccountRights               = operation("LsarAddAccountRights", LsarAddAccountRights)
	opRemoveAccountRights            = operation("LsarRemoveAccountRights", LsarRemoveAccountRights)
	opOpenPolicy2                    = operation("LsarOpenPolicy2", LsarOpenPolicy2)
	opGetUserName                    = operation("LsarGetUserName", LsarGetUserName)
	opLookupSids2                    = operation("LsarLookupSids2", LsarLookupSids2, dcerpc.StatusSuccess, dcerpc.StatusSomeNotMapped)
	opLookupNames3                   = operation("LsarLookupNames3", LsarLookupNames3, dcerpc.StatusSuccess, dcerpc.StatusSomeNotMapped)
)
