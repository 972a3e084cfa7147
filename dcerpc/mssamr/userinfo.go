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
	"github.com/jfjallid/go-msrpc/msdtyp"
	"github.com/jfjallid/go-msrpc/ndr"
)

// MS-SAMR Section 2.2.6.29 SAMPR_USER_INFO_BUFFER
// UserInfo is implemented by one struct per supported USER_INFORMATION_CLASS.
type UserInfo interface {
	ndr.Arm
	userInfo()
}

// MS-SAMR Section 2.2.6.6 SAMPR_USER_ALL_INFORMATION
type SamprUserAllInformation struct {
	LastLogon            msdtyp.Filetime
	LastLogoff           msdtyp.Filetime
	PasswordLastSet      msdtyp.Filetime
	AccountExpires       msdtyp.Filetime
	PasswordCanChange    msdtyp.Filetime
	PasswordMustChange   msdtyp.Filetime
	UserName             ndr.UnicodeString
	FullName             ndr.UnicodeString
	HomeDirectory        ndr.UnicodeString
	HomeDirectoryDrive   ndr.UnicodeString
	ScriptPath           ndr.UnicodeString
	ProfilePath          ndr.UnicodeString
	AdminComment         ndr.UnicodeString
	WorkStations         ndr.UnicodeString
	UserComment          ndr.UnicodeString
	Parameters           ndr.UnicodeString
	LmOwfPassword        msdtyp.ShortBlob
	NtOwfPassword        msdtyp.ShortBlob
	PrivateData          ndr.UnicodeString
	SecurityDescriptor   SrSecurityDescriptor
	UserId               uint32
	PrimaryGroupId       uint32
	UserAccountControl   uint32
	WhichFields          uint32
	LogonHours           SamrLogonHours
	BadPasswordCount     uint16
	LogonCount           uint16
	CountryCode          uint16
	CodePage             uint16
	LmPasswordPresent    bool
	NtPasswordPresent    bool
	PasswordExpired      bool
	PrivateDataSensitive bool
}

// MS-SAMR Section 2.2.6.14 SAMPR_USER_NAME_INFORMATION
type SamprUserNameInformation struct {
	UserName ndr.UnicodeString
	FullName ndr.UnicodeString
}

// MS-SAMR Section 2.2.6.14 SAMPR_USER_A_NAME_INFORMATION
type SamprUserAccountNameInformation struct {
	UserName ndr.UnicodeString
}

// MS-SAMR Section 2.2.6.14 SAMPR_USER_F_NAME_INFORMATION
type SamprUserFullNameInformation struct {
	FullName ndr.UnicodeString
}

// MS-SAMR Section 2.2.6.11 USER_PRIMARY_GROUP_INFORMATION
type UserPrimaryGroupInfo struct {
	PrimaryGroupId uint32
}

// MS-SAMR Section 2.2.6.13 SAMPR_USER_HOME_INFORMATION
type SamprUserHomeInformation struct {
	HomeDirectory      ndr.UnicodeString
	HomeDirectoryDrive ndr.UnicodeString
}

// MS-SAMR Section 2.2.6.15 SAMPR_USER_SCRIPT_INFORMATION
type SamprUserScriptInformation struct {
	ScriptPath ndr.UnicodeString
}

// MS-SAMR Section 2.2.6.16 SAMPR_USER_PROFILE_INFORMATION
type SamprUserProfileInformation struct {
	ProfilePath ndr.UnicodeString
}

// MS-SAMR Section 2.2.6.17 SAMPR_USER_ADMIN_COMMENT_INFORMATION
type SamprUserAdminCommentInformation struct {
	AdminComment ndr.UnicodeString
}

// MS-SAMR Section 2.2.6.18 SAMPR_USER_WORKSTATIONS_INFORMATION
type SamprUserWorkStationsInformation struct {
	WorkStations ndr.UnicodeString
}

// MS-SAMR Section 2.2.6.12 USER_CONTROL_INFORMATION
type UserControlInfo struct {
	UserAccountControl uint32
}

// MS-SAMR Section 2.2.6.19 USER_EXPIRES_INFORMATION
type UserExpiresInfo struct {
	AccountExpires msdtyp.Filetime
}

// newUserInfo returns an empty arm for class. Classes that carry password
// material are not supported.
func newUserInfo(class uint32) (UserInfo, error) {
	switch uint16(class) {
	case UserNameInformation:
		return &SamprUserNameInformation{}, nil
	case UserAccountNameInformation:
		return &SamprUserAccountNameInformation{}, nil
	case UserFullNameInformation:
		return &SamprUserFullNameInformation{}, nil
	case UserPrimaryGroupInformation:
		return &UserPrimaryGroupInfo{}, nil
	case UserHomeInformation:
		return &SamprUserHomeInformation{}, nil
	case UserScriptInformation:
		return &SamprUserScriptInformation{}, nil
	case UserProfileInformation:
		return &SamprUserProfileInformation{}, nil
	case UserAdminCommentInformation:
		return &SamprUserAdminCommentInformation{}, nil
	case UserWorkStationsInformation:
		return &SamprUserWorkStationsInformation{}, nil
	case UserControlInformation:
		return &UserControlInfo{}, nil
	case UserExpiresInformation:
		return &UserExpiresInfo{}, nil
	case UserAllInformation:
		return &SamprUserAllInformation{}, nil
	}
	err := &ndr.UnknownArmError{Union: "SAMPR_USER_INFO_BUFFER", Tag: class}
	log.Errorln(err)
	return nil, err
}

func marshalStrings(e *ndr.Encoder, fields ...*ndr.UnicodeString) (err error) {
	for _, f := range fields {
		if err = f.MarshalEntity(e); err != nil {
			return
		}
	}
	return
}

func marshalStringDeferrals(e *ndr.Encoder, fields ...*ndr.UnicodeString) (err error) {
	for _, f := range fields {
		if err = f.MarshalDeferrals(e); err != nil {
			return
		}
	}
	return
}

func unmarshalStrings(d *ndr.Decoder, fields ...*ndr.UnicodeString) (err error) {
	for _, f := range fields {
		if err = f.UnmarshalEntity(d); err != nil {
			return
		}
	}
	return
}

func unmarshalStringDeferrals(d *ndr.Decoder, fields ...*ndr.UnicodeString) (err error) {
	for _, f := range fields {
		if err = f.UnmarshalDeferrals(d); err != nil {
			return
		}
	}
	return
}

func (self *SamprUserAllInformation) Tag() uint32 { return uint32(UserAllInformation) }
func (self *SamprUserAllInformation) userInfo()   {}

func (self *SamprUserAllInformation) times() []*msdtyp.Filetime {
	return []*msdtyp.Filetime{&self.LastLogon, &self.LastLogoff, &self.PasswordLastSet, &self.AccountExpires, &self.PasswordCanChange, &self.PasswordMustChange}
}

func (self *SamprUserAllInformation) strings() []*ndr.UnicodeString {
	return []*ndr.UnicodeString{&self.UserName, &self.FullName, &self.HomeDirectory, &self.HomeDirectoryDrive, &self.ScriptPath,
		&self.ProfilePath, &self.AdminComment, &self.WorkStations, &self.UserComment, &self.Parameters}
}

func (self *SamprUserAllInformation) MarshalEntity(e *ndr.Encoder) (err error) {
	for _, t := range self.times() {
		if err = t.MarshalEntity(e); err != nil {
			return
		}
	}
	if err = marshalStrings(e, self.strings()...); err != nil {
		return
	}
	if err = self.LmOwfPassword.MarshalEntity(e); err != nil {
		return
	}
	if err = self.NtOwfPassword.MarshalEntity(e); err != nil {
		return
	}
	if err = self.PrivateData.MarshalEntity(e); err != nil {
		return
	}
	if err = self.SecurityDescriptor.MarshalEntity(e); err != nil {
		return
	}
	e.WriteUint32(self.UserId)
	e.WriteUint32(self.PrimaryGroupId)
	e.WriteUint32(self.UserAccountControl)
	e.WriteUint32(self.WhichFields)
	if err = self.LogonHours.MarshalEntity(e); err != nil {
		return
	}
	e.WriteUint16(self.BadPasswordCount)
	e.WriteUint16(self.LogonCount)
	e.WriteUint16(self.CountryCode)
	e.WriteUint16(self.CodePage)
	for _, b := range []bool{self.LmPasswordPresent, self.NtPasswordPresent, self.PasswordExpired, self.PrivateDataSensitive} {
		e.WriteUint8(boolToByte(b))
	}
	return
}

func (self *SamprUserAllInformation) MarshalDeferrals(e *ndr.Encoder) (err error) {
	if err = marshalStringDeferrals(e, self.strings()...); err != nil {
		return
	}
	if err = self.LmOwfPassword.MarshalDeferrals(e); err != nil {
		return
	}
	if err = self.NtOwfPassword.MarshalDeferrals(e); err != nil {
		return
	}
	if err = self.PrivateData.MarshalDeferrals(e); err != nil {
		return
	}
	if err = self.SecurityDescriptor.MarshalDeferrals(e); err != nil {
		return
	}
	return self.LogonHours.MarshalDeferrals(e)
}

func (self *SamprUserAllInformation) UnmarshalEntity(d *ndr.Decoder) (err error) {
	for _, t := range self.times() {
		if err = t.UnmarshalEntity(d); err != nil {
			return
		}
	}
	if err = unmarshalStrings(d, self.strings()...); err != nil {
		return
	}
	if err = self.LmOwfPassword.UnmarshalEntity(d); err != nil {
		return
	}
	if err = self.NtOwfPassword.UnmarshalEntity(d); err != nil {
		return
	}
	if err = self.PrivateData.UnmarshalEntity(d); err != nil {
		return
	}
	if err = self.SecurityDescriptor.UnmarshalEntity(d); err != nil {
		return
	}
	for _, v := range []*uint32{&self.UserId, &self.PrimaryGroupId, &self.UserAccountControl, &self.WhichFields} {
		if *v, err = d.ReadUint32(); err != nil {
			return
		}
	}
	if err = self.LogonHours.UnmarshalEntity(d); err != nil {
		return
	}
	for _, v := range []*uint16{&self.BadPasswordCount, &self.LogonCount, &self.CountryCode, &self.CodePage} {
		if *v, err = d.ReadUint16(); err != nil {
			return
		}
	}
	for _, v := range []*bool{&self.LmPasswordPresent, &self.NtPasswordPresent, &self.PasswordExpired, &self.PrivateDataSensitive} {
		var b byte
		if b, err = d.ReadUint8(); err != nil {
			return
		}
		*v = b != 0
	}
	return
}

func (self *SamprUserAllInformation) UnmarshalDeferrals(d *ndr.Decoder) (err error) {
	if err = unmarshalStringDeferrals(d, self.strings()...); err != nil {
		return
	}
	if err = self.LmOwfPassword.UnmarshalDeferrals(d); err != nil {
		return
	}
	if err = self.NtOwfPassword.UnmarshalDeferrals(d); err != nil {
		return
	}
	if err = self.PrivateData.UnmarshalDeferrals(d); err != nil {
		return
	}
	if err = self.SecurityDescriptor.UnmarshalDeferrals(d); err != nil {
		return
	}
	return self.LogonHours.UnmarshalDeferrals(d)
}

func boolToByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}

func (self *SamprUserNameInformation) Tag() uint32 { return uint32(UserNameInformation) }
func (self *SamprUserNameInformation) userInfo()   {}

func (self *SamprUserNameInformation) MarshalEntity(e *ndr.Encoder) error {
	return marshalStrings(e, &self.UserName, &self.FullName)
}

func (self *SamprUserNameInformation) MarshalDeferrals(e *ndr.Encoder) error {
	return marshalStringDeferrals(e, &self.UserName, &self.FullName)
}

func (self *SamprUserNameInformation) UnmarshalEntity(d *ndr.Decoder) error {
	return unmarshalStrings(d, &self.UserName, &self.FullName)
}

func (self *SamprUserNameInformation) UnmarshalDeferrals(d *ndr.Decoder) error {
	return unmarshalStringDeferrals(d, &self.UserName, &self.FullName)
}

func (self *SamprUserAccountNameInformation) Tag() uint32 { return uint32(UserAccountNameInformation) }
func (self *SamprUserAccountNameInformation) userInfo()   {}

func (self *SamprUserAccountNameInformation) MarshalEntity(e *ndr.Encoder) error {
	return self.UserName.MarshalEntity(e)
}

func (self *SamprUserAccountNameInformation) MarshalDeferrals(e *ndr.Encoder) error {
	return self.UserName.MarshalDeferrals(e)
}

func (self *SamprUserAccountNameInformation) UnmarshalEntity(d *ndr.Decoder) error {
	return self.UserName.UnmarshalEntity(d)
}

func (self *SamprUserAccountNameInformation) UnmarshalDeferrals(d *ndr.Decoder) error {
	return self.UserName.UnmarshalDeferrals(d)
}

func (self *SamprUserFullNameInformation) Tag() uint32 { return uint32(UserFullNameInformation) }
func (self *SamprUserFullNameInformation) userInfo()   {}

func (self *SamprUserFullNameInformation) MarshalEntity(e *ndr.Encoder) error {
	return self.FullName.MarshalEntity(e)
}

func (self *SamprUserFullNameInformation) MarshalDeferrals(e *ndr.Encoder) error {
	return self.FullName.MarshalDeferrals(e)
}

func (self *SamprUserFullNameInformation) UnmarshalEntity(d *ndr.Decoder) error {
	return self.FullName.UnmarshalEntity(d)
}

func (self *SamprUserFullNameInformation) UnmarshalDeferrals(d *ndr.Decoder) error {
	return self.FullName.UnmarshalDeferrals(d)
}

func (self *UserPrimaryGroupInfo) Tag() uint32 { return uint32(UserPrimaryGroupInformation) }
func (self *UserPrimaryGroupInfo) userInfo()   {}

func (self *UserPrimaryGroupInfo) MarshalEntity(e *ndr.Encoder) error {
	e.WriteUint32(self.PrimaryGroupId)
	return nil
}

func (self *UserPrimaryGroupInfo) UnmarshalEntity(d *ndr.Decoder) (err error) {
	self.PrimaryGroupId, err = d.ReadUint32()
	return
}

func (self *SamprUserHomeInformation) Tag() uint32 { return uint32(UserHomeInformation) }
func (self *SamprUserHomeInformation) userInfo()   {}

func (self *SamprUserHomeInformation) MarshalEntity(e *ndr.Encoder) error {
	return marshalStrings(e, &self.HomeDirectory, &self.HomeDirectoryDrive)
}

func (self *SamprUserHomeInformation) MarshalDeferrals(e *ndr.Encoder) error {
	return marshalStringDeferrals(e, &self.HomeDirectory, &self.HomeDirectoryDrive)
}

func (self *SamprUserHomeInformation) UnmarshalEntity(d *ndr.Decoder) error {
	return unmarshalStrings(d, &self.HomeDirectory, &self.HomeDirectoryDrive)
}

func (self *SamprUserHomeInformation) UnmarshalDeferrals(d *ndr.Decoder) error {
	return unmarshalStringDeferrals(d, &self.HomeDirectory, &self.HomeDirectoryDrive)
}

func (self *SamprUserScriptInformation) Tag() uint32 { return uint32(UserScriptInformation) }
func (self *SamprUserScriptInformation) userInfo()   {}

func (self *SamprUserScriptInformation) MarshalEntity(e *ndr.Encoder) error {
	return self.ScriptPath.MarshalEntity(e)
}

func (self *SamprUserScriptInformation) MarshalDeferrals(e *ndr.Encoder) error {
	return self.ScriptPath.MarshalDeferrals(e)
}

func (self *SamprUserScriptInformation) UnmarshalEntity(d *ndr.Decoder) error {
	return self.ScriptPath.UnmarshalEntity(d)
}

func (self *SamprUserScriptInformation) UnmarshalDeferrals(d *ndr.Decoder) error {
	return self.ScriptPath.UnmarshalDeferrals(d)
}

func (self *SamprUserProfileInformation) Tag() uint32 { return uint32(UserProfileInformation) }
func (self *SamprUserProfileInformation) userInfo()   {}

func (self *SamprUserProfileInformation) MarshalEntity(e *ndr.Encoder) error {
	return self.ProfilePath.MarshalEntity(e)
}

func (self *SamprUserProfileInformation) MarshalDeferrals(e *ndr.Encoder) error {
	return self.ProfilePath.MarshalDeferrals(e)
}

func (self *SamprUserProfileInformation) UnmarshalEntity(d *ndr.Decoder) error {
	return self.ProfilePath.UnmarshalEntity(d)
}

func (self *SamprUserProfileInformation) UnmarshalDeferrals(d *ndr.Decoder) error {
	return self.ProfilePath.UnmarshalDeferrals(d)
}

func (self *SamprUserAdminCommentInformation) Tag() uint32 { return uint32(UserAdminCommentInformation) }
func (self *SamprUserAdminCommentInformation) userInfo()   {}

func (self *SamprUserAdminCommentInformation) MarshalEntity(e *ndr.Encoder) error {
	return self.AdminComment.MarshalEntity(e)
}

func (self *SamprUserAdminCommentInformation) MarshalDeferrals(e *ndr.Encoder) error {
	return self.AdminComment.MarshalDeferrals(e)
}

func (self *SamprUserAdminCommentInformation) UnmarshalEntity(d *ndr.Decoder) error {
	return self.AdminComment.UnmarshalEntity(d)
}

func (self *SamprUserAdminCommentInformation) UnmarshalDeferrals(d *ndr.Decoder) error {
	return self.AdminComment.UnmarshalDeferrals(d)
}

func (self *SamprUserWorkStationsInformation) Tag() uint32 { return uint32(UserWorkStationsInformation) }
func (self *SamprUserWorkStationsInformation) userInfo()   {}

func (self *SamprUserWorkStationsInformation) MarshalEntity(e *ndr.Encoder) error {
	return self.WorkStations.MarshalEntity(e)
}

func (self *SamprUserWorkStationsInformation) MarshalDeferrals(e *ndr.Encoder) error {
	return self.WorkStations.MarshalDeferrals(e)
}

func (self *SamprUserWorkStationsInformation) UnmarshalEntity(d *ndr.Decoder) error {
	return self.WorkStations.UnmarshalEntity(d)
}

func (self *SamprUserWorkStationsInformation) UnmarshalDeferrals(d *ndr.Decoder) error {
	return self.WorkStations.UnmarshalDeferrals(d)
}

func (self *UserControlInfo) Tag() uint32 { return uint32(UserControlInformation) }
func (self *UserControlInfo) userInfo()   {}

func (self *UserControlInfo) MarshalEntity(e *ndr.Encoder) error {
	e.WriteUint32(self.UserAccountControl)
	return nil
}

func (self *UserControlInfo) UnmarshalEntity(d *ndr.Decoder) (err error) {
	self.UserAccountControl, err = d.ReadUint32()
	return
}

func (self *UserExpiresInfo) Tag() uint32 { return uint32(UserExpiresInformation) }
func (self *UserExpiresInfo) userInfo()   {}

func (self *UserExpiresInfo) MarshalEntity(e *ndr.Encoder) error {
	return self.AccountExpires.MarshalEntity(e)
}

func (self *UserExpiresInfo) UnmarshalEntity(d *ndr.Decoder) error {
	return self.AccountExpires.UnmarshalEntity(d)
}
