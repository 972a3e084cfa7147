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

package msdtyp

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/jfjallid/go-msrpc/ndr"
	"github.com/jfjallid/mstypes"
)

// RPCSID converts the SID to its mstypes representation.
func (self *SID) RPCSID() *mstypes.RPCSID {
	subs := make([]uint32, len(self.SubAuthorities))
	copy(subs, self.SubAuthorities)
	return &mstypes.RPCSID{
		Revision:            self.Revision,
		SubAuthorityCount:   uint8(len(subs)),
		IdentifierAuthority: self.Authority,
		SubAuthority:        subs,
	}
}

func FromRPCSID(sid *mstypes.RPCSID) (*SID, error) {
	if int(sid.SubAuthorityCount) != len(sid.SubAuthority) {
		return nil, fmt.Errorf("Invalid SID: SubAuthorityCount %d but %d sub authorities", sid.SubAuthorityCount, len(sid.SubAuthority))
	}
	if len(sid.SubAuthority) > MaxSubAuthorities {
		return nil, &ndr.BoundError{What: "SID sub authorities", Count: len(sid.SubAuthority), Min: 0, Max: MaxSubAuthorities}
	}
	s := &SID{Revision: sid.Revision, Authority: sid.IdentifierAuthority}
	if len(sid.SubAuthority) > 0 {
		s.SubAuthorities = make([]uint32, len(sid.SubAuthority))
		copy(s.SubAuthorities, sid.SubAuthority)
	}
	return s, nil
}

// ConvertSIDtoStr formats the SID as S-R-I-S-S...
func ConvertSIDtoStr(sid *SID) string {
	return sid.RPCSID().String()
}

// ConvertStrToSID parses the textual form of a SID, S-R-I-S-S...
func ConvertStrToSID(s string) (sid *SID, err error) {
	parts := strings.Split(s, "-")
	if len(parts) < 3 || !strings.EqualFold(parts[0], "S") {
		err = fmt.Errorf("Invalid SID representation: %q", s)
		log.Errorln(err)
		return
	}
	if len(parts)-3 > MaxSubAuthorities {
		err = &ndr.BoundError{What: "SID sub authorities", Count: len(parts) - 3, Min: 0, Max: MaxSubAuthorities}
		log.Errorln(err)
		return
	}
	rev, err := strconv.ParseUint(parts[1], 10, 8)
	if err != nil {
		log.Errorln(err)
		return
	}
	auth, err := strconv.ParseUint(parts[2], 10, 32)
	if err != nil {
		log.Errorln(err)
		return
	}
	sid = &SID{Revision: byte(rev)}
	be.PutUint32(sid.Authority[2:], uint32(auth))
	for _, part := range parts[3:] {
		var subA uint64
		subA, err = strconv.ParseUint(part, 10, 32)
		if err != nil {
			log.Errorln(err)
			return nil, err
		}
		sid.SubAuthorities = append(sid.SubAuthorities, uint32(subA))
	}
	return
}

// MustParseSID is ConvertStrToSID for constants. It panics on error.
func MustParseSID(s string) *SID {
	sid, err := ConvertStrToSID(s)
	if err != nil {
		panic(err)
	}
	return sid
}
