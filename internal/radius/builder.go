package radius

import (
	"fmt"
	mathrand "math/rand"
	"net"
)

// AcctStatusType is the value of the Acct-Status-Type attribute.
type AcctStatusType uint32

const (
	AcctStatusStart         AcctStatusType = 1
	AcctStatusStop          AcctStatusType = 2
	AcctStatusInterimUpdate AcctStatusType = 3
	AcctStatusAccountingOn  AcctStatusType = 7
	AcctStatusAccountingOff AcctStatusType = 8
)

var acctStatusTypes = map[string]AcctStatusType{
	"Start":          AcctStatusStart,
	"Stop":           AcctStatusStop,
	"Interim-Update": AcctStatusInterimUpdate,
	"Accounting-On":  AcctStatusAccountingOn,
	"Accounting-Off": AcctStatusAccountingOff,
}

// ParseAcctStatusType maps an accounting type name to its numeric value.
// Unrecognized names map to Start: NAS firmwares send nonstandard
// spellings, and dropping their accounting entirely is worse than
// treating it as a session start.
func ParseAcctStatusType(name string) AcctStatusType {
	if v, ok := acctStatusTypes[name]; ok {
		return v
	}
	return AcctStatusStart
}

func (t AcctStatusType) String() string {
	for name, v := range acctStatusTypes {
		if v == t {
			return name
		}
	}
	return fmt.Sprintf("Acct-Status-Type(%d)", uint32(t))
}

// AccessRequest holds the parameters for building an Access-Request.
type AccessRequest struct {
	Username  string
	Password  string
	NASIP     net.IP
	NASPort   uint32
	SessionID string // optional
	Secret    []byte
}

// AccountingRequest holds the parameters for building an Accounting-Request.
type AccountingRequest struct {
	Username     string
	SessionID    string
	NASIP        net.IP
	StatusType   AcctStatusType
	SessionTime  uint32
	InputOctets  uint32
	OutputOctets uint32
	Secret       []byte
}

// BuildAccessRequest assembles an Access-Request packet with a fresh
// random authenticator and identifier. The password travels hidden with
// the shared secret of the tenant that owns the NAS.
func BuildAccessRequest(req AccessRequest) (*Packet, error) {
	auth, err := NewRequestAuthenticator()
	if err != nil {
		return nil, err
	}

	p := &Packet{
		Code:          CodeAccessRequest,
		Identifier:    byte(mathrand.Intn(256)),
		Authenticator: auth,
	}

	if err := p.AddString(AttrUserName, req.Username); err != nil {
		return nil, err
	}
	if err := p.AddIPv4(AttrNASIPAddress, req.NASIP); err != nil {
		return nil, err
	}
	if err := p.AddUint32(AttrNASPort, req.NASPort); err != nil {
		return nil, err
	}
	if err := p.Add(AttrUserPassword, HidePassword(req.Password, req.Secret, auth)); err != nil {
		return nil, err
	}
	if req.SessionID != "" {
		if err := p.AddString(AttrAcctSessionID, req.SessionID); err != nil {
			return nil, err
		}
	}
	if err := p.Add(AttrMessageAuthenticator, messageAuthenticator(req.Secret, auth)); err != nil {
		return nil, err
	}

	return p, nil
}

// BuildAccountingRequest assembles an Accounting-Request packet.
func BuildAccountingRequest(req AccountingRequest) (*Packet, error) {
	auth, err := NewRequestAuthenticator()
	if err != nil {
		return nil, err
	}

	p := &Packet{
		Code:          CodeAccountingRequest,
		Identifier:    byte(mathrand.Intn(256)),
		Authenticator: auth,
	}

	if err := p.AddString(AttrUserName, req.Username); err != nil {
		return nil, err
	}
	if err := p.AddString(AttrAcctSessionID, req.SessionID); err != nil {
		return nil, err
	}
	if err := p.AddIPv4(AttrNASIPAddress, req.NASIP); err != nil {
		return nil, err
	}
	if err := p.AddUint32(AttrAcctStatusType, uint32(req.StatusType)); err != nil {
		return nil, err
	}
	if err := p.AddUint32(AttrAcctSessionTime, req.SessionTime); err != nil {
		return nil, err
	}
	if err := p.AddUint32(AttrAcctInputOctets, req.InputOctets); err != nil {
		return nil, err
	}
	if err := p.AddUint32(AttrAcctOutputOctets, req.OutputOctets); err != nil {
		return nil, err
	}
	if err := p.Add(AttrMessageAuthenticator, messageAuthenticator(req.Secret, auth)); err != nil {
		return nil, err
	}

	return p, nil
}
