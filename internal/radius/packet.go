package radius

import (
	"encoding/binary"
	"errors"
	"fmt"
	"net"
)

// Code identifies the RADIUS packet type (RFC 2865 / RFC 2866)
type Code byte

const (
	CodeAccessRequest      Code = 1
	CodeAccessAccept       Code = 2
	CodeAccessReject       Code = 3
	CodeAccountingRequest  Code = 4
	CodeAccountingResponse Code = 5
)

var codeNames = map[Code]string{
	CodeAccessRequest:      "Access-Request",
	CodeAccessAccept:       "Access-Accept",
	CodeAccessReject:       "Access-Reject",
	CodeAccountingRequest:  "Accounting-Request",
	CodeAccountingResponse: "Accounting-Response",
}

func (c Code) String() string {
	if name, ok := codeNames[c]; ok {
		return name
	}
	return fmt.Sprintf("Code(%d)", byte(c))
}

// AttributeType identifies a RADIUS attribute
type AttributeType byte

const (
	AttrUserName             AttributeType = 1
	AttrUserPassword         AttributeType = 2
	AttrNASIPAddress         AttributeType = 4
	AttrNASPort              AttributeType = 5
	AttrAcctStatusType       AttributeType = 40
	AttrAcctInputOctets      AttributeType = 42
	AttrAcctOutputOctets     AttributeType = 43
	AttrAcctSessionID        AttributeType = 44
	AttrAcctSessionTime      AttributeType = 46
	AttrMessageAuthenticator AttributeType = 80
)

// attributeNames is the dictionary of attributes this codec understands.
// Decoding skips any type not listed here so that packets from newer
// NAS firmware still parse.
var attributeNames = map[AttributeType]string{
	AttrUserName:             "User-Name",
	AttrUserPassword:         "User-Password",
	AttrNASIPAddress:         "NAS-IP-Address",
	AttrNASPort:              "NAS-Port",
	AttrAcctStatusType:       "Acct-Status-Type",
	AttrAcctInputOctets:      "Acct-Input-Octets",
	AttrAcctOutputOctets:     "Acct-Output-Octets",
	AttrAcctSessionID:        "Acct-Session-Id",
	AttrAcctSessionTime:      "Acct-Session-Time",
	AttrMessageAuthenticator: "Message-Authenticator",
}

func (t AttributeType) String() string {
	if name, ok := attributeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Attribute(%d)", byte(t))
}

const (
	headerLength = 20
	// Attribute length is a single byte covering type+length+value,
	// so the value itself caps at 253 bytes.
	maxAttributeData = 253
)

// ErrMalformedPacket is returned when raw input cannot be a RADIUS packet.
var ErrMalformedPacket = errors.New("radius: malformed packet")

// Attribute is a single type-length-value entry. Data holds the raw
// payload; use the typed getters on Packet to interpret it.
type Attribute struct {
	Type AttributeType
	Data []byte
}

// Packet is an in-memory RADIUS packet. Attributes keep insertion order,
// which is the order they are encoded in.
type Packet struct {
	Code          Code
	Identifier    byte
	Authenticator [16]byte
	Attributes    []Attribute
}

// Add appends a raw attribute.
func (p *Packet) Add(t AttributeType, data []byte) error {
	if len(data) > maxAttributeData {
		return fmt.Errorf("radius: attribute %s data too long (%d bytes)", t, len(data))
	}
	p.Attributes = append(p.Attributes, Attribute{Type: t, Data: data})
	return nil
}

// AddString appends a UTF-8 string attribute.
func (p *Packet) AddString(t AttributeType, value string) error {
	return p.Add(t, []byte(value))
}

// AddUint32 appends a 4-byte big-endian integer attribute.
func (p *Packet) AddUint32(t AttributeType, value uint32) error {
	data := make([]byte, 4)
	binary.BigEndian.PutUint32(data, value)
	return p.Add(t, data)
}

// AddIPv4 appends a 4-octet IPv4 address attribute.
func (p *Packet) AddIPv4(t AttributeType, ip net.IP) error {
	ip4 := ip.To4()
	if ip4 == nil {
		return fmt.Errorf("radius: attribute %s requires an IPv4 address, got %s", t, ip)
	}
	return p.Add(t, []byte(ip4))
}

// Lookup returns the raw payload of the first attribute of the given type.
func (p *Packet) Lookup(t AttributeType) ([]byte, bool) {
	for _, attr := range p.Attributes {
		if attr.Type == t {
			return attr.Data, true
		}
	}
	return nil, false
}

// GetString returns a string attribute value.
func (p *Packet) GetString(t AttributeType) (string, bool) {
	data, ok := p.Lookup(t)
	if !ok {
		return "", false
	}
	return string(data), true
}

// GetUint32 returns a 4-byte integer attribute value.
func (p *Packet) GetUint32(t AttributeType) (uint32, bool) {
	data, ok := p.Lookup(t)
	if !ok || len(data) != 4 {
		return 0, false
	}
	return binary.BigEndian.Uint32(data), true
}

// GetIPv4 returns an IPv4 address attribute value.
func (p *Packet) GetIPv4(t AttributeType) (net.IP, bool) {
	data, ok := p.Lookup(t)
	if !ok || len(data) != 4 {
		return nil, false
	}
	return net.IPv4(data[0], data[1], data[2], data[3]).To4(), true
}

// Encode serializes the packet: a 4-byte header (code, identifier,
// 2-byte big-endian total length), the 16-byte authenticator, then each
// attribute as type, length, value with length = len(value)+2.
func (p *Packet) Encode() []byte {
	length := headerLength
	for _, attr := range p.Attributes {
		length += 2 + len(attr.Data)
	}

	buf := make([]byte, 0, length)
	buf = append(buf, byte(p.Code), p.Identifier)
	buf = binary.BigEndian.AppendUint16(buf, uint16(length))
	buf = append(buf, p.Authenticator[:]...)

	for _, attr := range p.Attributes {
		buf = append(buf, byte(attr.Type), byte(2+len(attr.Data)))
		buf = append(buf, attr.Data...)
	}

	return buf
}

// Decode parses a raw RADIUS packet. Input shorter than the 20-byte
// header is rejected with ErrMalformedPacket. An attribute whose declared
// length overruns the packet stops parsing; attributes decoded up to that
// point are kept. Attribute types outside the dictionary are skipped.
func Decode(data []byte) (*Packet, error) {
	if len(data) < headerLength {
		return nil, fmt.Errorf("%w: %d bytes", ErrMalformedPacket, len(data))
	}

	p := &Packet{
		Code:       Code(data[0]),
		Identifier: data[1],
	}
	copy(p.Authenticator[:], data[4:20])

	length := int(binary.BigEndian.Uint16(data[2:4]))
	if length > len(data) {
		length = len(data)
	}

	offset := headerLength
	for offset+2 <= length {
		attrType := AttributeType(data[offset])
		attrLen := int(data[offset+1])
		if attrLen < 2 || offset+attrLen > length {
			// Truncated or corrupt trailing attribute; keep what
			// was parsed so far.
			break
		}
		if _, known := attributeNames[attrType]; known {
			value := make([]byte, attrLen-2)
			copy(value, data[offset+2:offset+attrLen])
			p.Attributes = append(p.Attributes, Attribute{Type: attrType, Data: value})
		}
		offset += attrLen
	}

	return p, nil
}
