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

// Package mssamr is a client for the Security Account Manager (SAM) Remote
// Protocol (MS-SAMR) on top of the ndr codec and the dcerpc dispatcher.
package mssamr

import (
	"fmt"

	"github.com/jfjallid/go-msrpc/dcerpc"
	"github.com/jfjallid/go-msrpc/ndr"
	"github.com/jfjallid/golog"
)

var log = golog.Get("github.com/jfjallid/go-msrpc/dcerpc/mssamr")

const (
	MSRPCUuidSamr                = "12345778-1234-abcd-ef00-0123456789ac"
	MSRPCSamrPipe                = "samr"
	MSRPCSamrMajorVersion uint16 = 1
	MSRPCSamrMinorVersion uint16 = 0
)

var MSRPCSamrSyntax = dcerpc.MustSyntaxId(MSRPCUuidSamr, MSRPCSamrMajorVersion, MSRPCSamrMinorVersion)

// MSRPC Security Account Manager (SAM) Remote Protocol Operations
const (
	SamrCloseHandle             uint16 = 1
	SamrLookupDomain            uint16 = 5
	SamrEnumDomains             uint16 = 6
	SamrOpenDomain              uint16 = 7
	SamrEnumerateGroupsInDomain uint16 = 11
	SamrCreateUserInDomain      uint16 = 12
	SamrEnumDomainUsers         uint16 = 13
	SamrEnumAliasesInDomain     uint16 = 15
	SamrLookupNamesInDomain     uint16 = 17
	SamrLookupIdsInDomain       uint16 = 18
	SamrOpenGroup               uint16 = 19
	SamrAddMemberToGroup        uint16 = 22
	SamrRemoveMemberFromGroup   uint16 = 24
	SamrGetMembersInGroup       uint16 = 25
	SamrOpenAlias               uint16 = 27
	SamrAddMemberToAlias        uint16 = 31
	SamrRemoveMemberFromAlias   uint16 = 32
	SamrGetMembersInAlias       uint16 = 33
	SamrOpenUser                uint16 = 34
	SamrDeleteUser              uint16 = 35
	SamrQueryInformationUser2   uint16 = 47
	SamrSetInformationUser2     uint16 = 58
	SamrConnect5                uint16 = 64
	SamrRidToSid                uint16 = 65
)

const (
	StatusInvalidAccountName  uint32 = 0xc0000062
	StatusUserExists          uint32 = 0xc0000063
	StatusGroupExists         uint32 = 0xc0000065
	StatusNoSuchGroup         uint32 = 0xc0000066
	StatusMemberInGroup       uint32 = 0xc0000067
	StatusMemberNotInGroup    uint32 = 0xc0000068
	StatusLastAdmin           uint32 = 0xc0000069
	StatusPasswordRestriction uint32 = 0xc000006c
	StatusSpecialAccount      uint32 = 0xc0000124
	StatusNoSuchAlias         uint32 = 0xc0000151
	StatusMemberNotInAlias    uint32 = 0xc0000152
	StatusMemberInAlias       uint32 = 0xc0000153
	StatusNoSuchMember        uint32 = 0xc000017a
)

var ResponseCodeMap = map[uint32]error{
	dcerpc.StatusAccessDenied:       fmt.Errorf("Access is denied"),
	dcerpc.StatusInvalidParameter:   fmt.Errorf("Status Invalid Parameter"),
	dcerpc.StatusInvalidHandle:      fmt.Errorf("Invalid handle"),
	dcerpc.StatusInvalidInfoClass:   fmt.Errorf("Invalid information class"),
	dcerpc.StatusNoSuchDomain:       fmt.Errorf("No such domain"),
	dcerpc.StatusNoSuchUser:         fmt.Errorf("No such user"),
	dcerpc.StatusNoneMapped:         fmt.Errorf("None of the names or ids could be mapped"),
	dcerpc.StatusSomeNotMapped:      fmt.Errorf("Some of the names or ids could not be mapped"),
	dcerpc.StatusObjectTypeMismatch: fmt.Errorf("Handle is of the wrong object type"),
	StatusInvalidAccountName:        fmt.Errorf("Invalid account name"),
	StatusUserExists:                fmt.Errorf("User already exists"),
	StatusGroupExists:               fmt.Errorf("Group already exists"),
	StatusNoSuchGroup:               fmt.Errorf("No such group"),
	StatusMemberInGroup:             fmt.Errorf("Member is already in group"),
	StatusMemberNotInGroup:          fmt.Errorf("User not in group"),
	StatusLastAdmin:                 fmt.Errorf("Cannot remove the last administrator"),
	StatusPasswordRestriction:       fmt.Errorf("Password Restrictions"),
	StatusSpecialAccount:            fmt.Errorf("Operation is not allowed on a special account"),
	StatusNoSuchAlias:               fmt.Errorf("No such alias"),
	StatusMemberNotInAlias:          fmt.Errorf("Member is NOT in alias"),
	StatusMemberInAlias:             fmt.Errorf("Member is already in alias"),
	StatusNoSuchMember:              fmt.Errorf("No such member"),
}

// MS-SAMR Section 2.2.1.1 Common ACCESS_MASK Values
const (
	Delete               uint32 = 0x00010000 // Specifies access to the ability to delete the object.
	ReadControl          uint32 = 0x00020000 // Specifies access to the ability to read the security descriptor
	WriteDac             uint32 = 0x00040000 // Specifies access to the ability to update the discretionary access control list (DACL) of the security descriptor.
	WriteOwner           uint32 = 0x00080000 // Specifies access to the ability to update the Owner field of the security descriptor.
	AccessSystemSecurity uint32 = 0x01000000 // Specifies access to the system security portion of the security descriptor.
	MaximumAllowed       uint32 = 0x02000000 // Indicates that the caller is requesting the maximum access permissions possible to the object.
)

// MS-SAMR Section 2.2.1.2 Generic ACCESS_MASK Values
const (
	GenericExecute uint32 = 0x20000000 // Specifies access control suitable for executing an action on the object.
	GenericAll     uint32 = 0x10000000 // Specifies all defined access control on the object.
)

// MS-SAMR Section 2.2.1.3 Server ACCESS_MASK Values
const (
	SamServerConnect          uint32 = 0x00000001 // Specifies access control to obtain a server handle.
	SamServerShutdown         uint32 = 0x00000002 // Does not specify any access control.
	SamServerInitialize       uint32 = 0x00000004 // Does not specify any access control.
	SamServerCreateDomain     uint32 = 0x00000008 // Does not specify any access control.
	SamServerEnumerateDomains uint32 = 0x00000010 // Specifies access control to view domain objects.
	SamServerLookupDomain     uint32 = 0x00000020 // Specifies access control to perform SID-to-name translation.
	SamServerAllAccess        uint32 = 0x000F003F // The specified accesses for a GENERIC_ALL request.
	SamServerRead             uint32 = 0x00020010 // The specified accesses for a GENERIC_READ request.
	SamServerWrite            uint32 = 0x0002000E // The specified accesses for a GENERIC_WRITE request.
	SamServerExecute          uint32 = 0x00020021 // The specified accesses for a GENERIC_EXECUTE request
)

// MS-SAMR Section 2.2.1.4 Domain ACCESS_MASK Values
const (
	DomainReadPasswordParameters uint32 = 0x00000001
	DomainWritePasswordParams    uint32 = 0x00000002
	DomainReadOtherParameters    uint32 = 0x00000004
	DomainWriteOtherParameters   uint32 = 0x00000008
	DomainCreateUser             uint32 = 0x00000010
	DomainCreateGroup            uint32 = 0x00000020
	DomainCreateAlias            uint32 = 0x00000040
	DomainGetAliasMembership     uint32 = 0x00000080
	DomainListAccounts           uint32 = 0x00000100
	DomainLookup                 uint32 = 0x00000200
	DomainAdministerServer       uint32 = 0x00000400
	DomainAllAccess              uint32 = 0x000F07FF
)

// MS-SAMR Section 2.2.1.5 Group ACCESS_MASK Values
const (
	GroupReadInformation uint32 = 0x00000001
	GroupWriteAccount    uint32 = 0x00000002
	GroupAddMember       uint32 = 0x00000004
	GroupRemoveMember    uint32 = 0x00000008
	GroupListMembers     uint32 = 0x00000010
	GroupAllAccess       uint32 = 0x000F001F
)

// MS-SAMR Section 2.2.1.6 Alias ACCESS_MASK Values
const (
	AliasAddMember       uint32 = 0x00000001
	AliasRemoveMember    uint32 = 0x00000002
	AliasListMembers     uint32 = 0x00000004
	AliasReadInformation uint32 = 0x00000008
	AliasWriteAccount    uint32 = 0x00000010
	AliasAllAccess       uint32 = 0x000F001F
)

// MS-SAMR Section 2.2.1.7 User ACCESS_MASK Values
const (
	UserReadGeneral           uint32 = 0x00000001
	UserReadPreferences       uint32 = 0x00000002
	UserWritePreferences      uint32 = 0x00000004
	UserReadLogon             uint32 = 0x00000008
	UserReadAccount           uint32 = 0x00000010
	UserWriteAccount          uint32 = 0x00000020
	UserChangePassword        uint32 = 0x00000040
	UserForcePasswordChange   uint32 = 0x00000080
	UserListGroups            uint32 = 0x00000100
	UserReadGroupInformation  uint32 = 0x00000200
	UserWriteGroupInformation uint32 = 0x00000400
	UserAllAccess             uint32 = 0x000F07FF
)

// MS-SAMR Section 2.2.1.12 USER_ACCOUNT Codes
const (
	UserAccountDisabled                    uint32 = 0x00000001
	UserHomeDirectoryRequired              uint32 = 0x00000002
	UserPasswordNotRequired                uint32 = 0x00000004
	UserTempDuplicateAccount               uint32 = 0x00000008
	UserNormalAccount                      uint32 = 0x00000010
	UserMnsLogonAccount                    uint32 = 0x00000020
	UserInterdomainTrustAccount            uint32 = 0x00000040
	UserWorkstationTrustAccount            uint32 = 0x00000080
	UserServerTrustAccount                 uint32 = 0x00000100
	UserDontExpirePassword                 uint32 = 0x00000200
	UserAccountAutoLocked                  uint32 = 0x00000400
	UserEncryptedTextPasswordAllowed       uint32 = 0x00000800
	UserSmartcardRequired                  uint32 = 0x00001000
	UserTrustedForDelegation               uint32 = 0x00002000
	UserNotDelegated                       uint32 = 0x00004000
	UserUseDesKeyOnly                      uint32 = 0x00008000
	UserDontRequirePreauth                 uint32 = 0x00010000
	UserPasswordExpired                    uint32 = 0x00020000
	UserTrustedToAuthenticateForDelegation uint32 = 0x00040000
	UserNoAuthDataRequired                 uint32 = 0x00080000
	UserPartialSecretsAccount              uint32 = 0x00100000
	UserUseAesKeys                         uint32 = 0x00200000
)

// MS-SAMR Section 2.2.1.10 SE_GROUP Attributes
const (
	SeGroupMandatory        uint32 = 0x00000001
	SeGroupEnabledByDefault uint32 = 0x00000002
	SeGroupEnabled          uint32 = 0x00000004
)

// MS-SAMR Section 2.2.2.3 SID_NAME_USE
const (
	SidTypeUser uint32 = iota + 1
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

var SidType = map[uint32]string{
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

// MS-SAMR Section 2.2.6.28 USER_INFORMATION_CLASS
const (
	UserGeneralInformation      uint16 = 1
	UserPreferencesInformation  uint16 = 2
	UserLogonInformation        uint16 = 3
	UserLogonHoursInformation   uint16 = 4
	UserAccountInformation      uint16 = 5
	UserNameInformation         uint16 = 6
	UserAccountNameInformation  uint16 = 7
	UserFullNameInformation     uint16 = 8
	UserPrimaryGroupInformation uint16 = 9
	UserHomeInformation         uint16 = 10
	UserScriptInformation       uint16 = 11
	UserProfileInformation      uint16 = 12
	UserAdminCommentInformation uint16 = 13
	UserWorkStationsInformation uint16 = 14
	UserControlInformation      uint16 = 16
	UserExpiresInformation      uint16 = 17
	UserInternal1Information    uint16 = 18
	UserParametersInformation   uint16 = 20
	UserAllInformation          uint16 = 21
	UserInternal4Information    uint16 = 23
	UserInternal5Information    uint16 = 24
	UserInternal4InformationNew uint16 = 25
	UserInternal5InformationNew uint16 = 26
)

// MS-SAMR Section 2.2.1.8 USER_ALL Values, the WhichFields bits of
// SAMPR_USER_ALL_INFORMATION
const (
	UserAllUsername           uint32 = 0x00000001
	UserAllFullname           uint32 = 0x00000002
	UserAllUserid             uint32 = 0x00000004
	UserAllPrimarygroupid     uint32 = 0x00000008
	UserAllAdmincomment       uint32 = 0x00000010
	UserAllUsercomment        uint32 = 0x00000020
	UserAllHomedirectory      uint32 = 0x00000040
	UserAllHomedirectorydrive uint32 = 0x00000080
	UserAllScriptpath         uint32 = 0x00000100
	UserAllProfilepath        uint32 = 0x00000200
	UserAllWorkstations       uint32 = 0x00000400
	UserAllLastlogon          uint32 = 0x00000800
	UserAllLastlogoff         uint32 = 0x00001000
	UserAllLogonhours         uint32 = 0x00002000
	UserAllBadpasswordcount   uint32 = 0x00004000
	UserAllLogoncount         uint32 = 0x00008000
	UserAllPasswordcanchange  uint32 = 0x00010000
	UserAllPasswordmustchange uint32 = 0x00020000
	UserAllPasswordlastset    uint32 = 0x00040000
	UserAllAccountexpires     uint32 = 0x00080000
	UserAllUseraccountcontrol uint32 = 0x00100000
	UserAllParameters         uint32 = 0x00200000
	UserAllCountrycode        uint32 = 0x00400000
	UserAllCodepage           uint32 = 0x00800000
	UserAllNtpasswordpresent  uint32 = 0x01000000
	UserAllLmpasswordpresent  uint32 = 0x02000000
	UserAllPrivatedata        uint32 = 0x04000000
	UserAllPasswordexpired    uint32 = 0x08000000
	UserAllSecuritydescriptor uint32 = 0x10000000
	UserAllUndefined          uint32 = 0xc0000000
)

// Well-known RIDs
const (
	DomainUserRidAdmin    uint32 = 500
	DomainUserRidGuest    uint32 = 501
	DomainGroupRidAdmins  uint32 = 512
	DomainGroupRidUsers   uint32 = 513
	DomainAliasRidAdmins  uint32 = 544
	DomainAliasRidUsers   uint32 = 545
	DomainAliasRidGuests  uint32 = 546
	DomainAliasRidRdpUser uint32 = 555
)

// Limit on names and ids per lookup. The arrays are declared size_is(1000).
const MaxLookupCount = 1000

// Maximum number of bytes in the LogonHours bitmap, size_is(1260)
const MaxLogonHoursSize = 1260

// Kinds of context handle. They keep handles of different objects apart at
// compile time.
type (
	serverKind struct{}
	domainKind struct{}
	groupKind  struct{}
	aliasKind  struct{}
	userKind   struct{}
	objectKind struct{}
)

type (
	ServerHandle = ndr.Handle[serverKind]
	DomainHandle = ndr.Handle[domainKind]
	GroupHandle  = ndr.Handle[groupKind]
	AliasHandle  = ndr.Handle[aliasKind]
	UserHandle   = ndr.Handle[userKind]
	// Any of the above, as accepted by SamrCloseHandle
	ObjectHandle = ndr.Handle[objectKind]
)

// RPCCon is a SAMR client on a bound transport.
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
	opCloseHandle             = operation("SamrCloseHandle", SamrCloseHandle)
	opLookupDomain            = operation("SamrLookupDomain", SamrLookupDomain)
	opEnumDomains             = operation("SamrEnumDomains", SamrEnumDomains, dcerpc.StatusSuccess, dcerpc.StatusMoreEntries)
	opOpenDomain              = operation("SamrOpenDomain", SamrOpenDomain)
	opEnumerateGroupsInDomain = operation("SamrEnumerateGroupsInDomain", SamrEnumerateGroupsInDomain, dcerpc.StatusSuccess, dcerpc.StatusMoreEntries)
	opCreateUserInDomain      = operation("SamrCreateUserInDomain", SamrCreateUserInDomain)
	opEnumDomainUsers         = operation("SamrEnumDomainUsers", SamrEnumDomainUsers, dcerpc.StatusSuccess, dcerpc.StatusMoreEntries)
	opEnumAliasesInDomain     = operation("SamrEnumAliasesInDomain", SamrEnumAliasesInDomain, dcerpc.StatusSuccess, dcerpc.StatusMoreEntries)
	opLookupNamesInDomain     = operation("SamrLookupNamesInDomain", SamrLookupNamesInDomain, dcerpc.StatusSuccess, dcerpc.StatusSomeNotMapped)
	opLookupIdsInDomain       = operation("SamrLookupIdsInDomain", SamrLookupIdsInDomain, dcerpc.StatusSuccess, dcerpc.StatusSomeNotMapped)
	opOpenGroup               = operation("SamrOpenGroup", SamrOpenGroup)
	opAddMemberToGroup        = operation("SamrAddMemberToGroup", SamrAddMemberToGroup)
	opRemoveMemberFromGroup   = operation("SamrRemoveMemberFromGroup", SamrRemoveMemberFromGroup)
	opGetMembersInGroup       = operation("SamrGetMembersInGroup", SamrGetMembersInGroup)
	opOpenAlias               = operation("SamrOpenAlias", SamrOpenAlias)
	opAddMemberToAlias        = operation("SamrAddMemberToAlias", SamrAddMemberToAlias)
	opRemoveMemberFromAlias   = operation("SamrRemoveMemberFromAlias", SamrRemoveMemberFromAlias)
	opGetMembersInAlias       = operation("SamrGetMembersInAlias", SamrGetMembersInAlias)
	opOpenUser                = operation("SamrOpenUser", SamrOpenUser)
	opDeleteUser              = operation("SamrDeleteUser", SamrDeleteUser)
	opQueryInformationUser2   = operation("SamrQueryInformationUser2", SamrQueryInformationUser2)
	opSetInformationUser2     = operation("SamrSetInformationUser2", SamrSetInformationUser2)
	opConnect5                = operation("SamrConnect5", SamrConnect5)
	opRidToSid                = operation("SamrRidToSid", SamrRidToSid)
)
