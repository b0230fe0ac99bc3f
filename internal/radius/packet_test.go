package radius

import (
	"encoding/binary"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEncodeDecodeRoundTrip(t *testing.T) {
	p := &Packet{
		Code:       CodeAccessRequest,
		Identifier: 42,
	}
	copy(p.Authenticator[:], []byte("0123456789abcdef"))

	require.NoError(t, p.AddString(AttrUserName, "alice@isp.com"))
	require.NoError(t, p.AddIPv4(AttrNASIPAddress, net.ParseIP("10.0.0.5")))
	require.NoError(t, p.AddUint32(AttrNASPort, 15))
	require.NoError(t, p.AddString(AttrAcctSessionID, "7_1700000000_1234"))
	require.NoError(t, p.AddUint32(AttrAcctInputOctets, 1048576))

	decoded, err := Decode(p.Encode())
	require.NoError(t, err)

	assert.Equal(t, CodeAccessRequest, decoded.Code)
	assert.Equal(t, byte(42), decoded.Identifier)
	assert.Equal(t, p.Authenticator, decoded.Authenticator)

	name, ok := decoded.GetString(AttrUserName)
	require.True(t, ok)
	assert.Equal(t, "alice@isp.com", name)

	ip, ok := decoded.GetIPv4(AttrNASIPAddress)
	require.True(t, ok)
	assert.Equal(t, "10.0.0.5", ip.String())

	port, ok := decoded.GetUint32(AttrNASPort)
	require.True(t, ok)
	assert.Equal(t, uint32(15), port)

	sessionID, ok := decoded.GetString(AttrAcctSessionID)
	require.True(t, ok)
	assert.Equal(t, "7_1700000000_1234", sessionID)

	octets, ok := decoded.GetUint32(AttrAcctInputOctets)
	require.True(t, ok)
	assert.Equal(t, uint32(1048576), octets)
}

func TestEncodeLengthField(t *testing.T) {
	p := &Packet{Code: CodeAccountingRequest, Identifier: 9}
	require.NoError(t, p.AddString(AttrUserName, "bob@isp.com"))
	require.NoError(t, p.AddUint32(AttrAcctStatusType, uint32(AcctStatusStop)))

	raw := p.Encode()
	// header(20) + (2+11) + (2+4)
	assert.Len(t, raw, 39)
	assert.Equal(t, uint16(39), binary.BigEndian.Uint16(raw[2:4]))
}

func TestDecodeTooShort(t *testing.T) {
	_, err := Decode([]byte{1, 2, 0, 19})
	assert.ErrorIs(t, err, ErrMalformedPacket)

	_, err = Decode(make([]byte, 19))
	assert.ErrorIs(t, err, ErrMalformedPacket)

	_, err = Decode(make([]byte, 20))
	assert.NoError(t, err)
}

func TestDecodeAttributeOverrunStopsParsing(t *testing.T) {
	p := &Packet{Code: CodeAccessRequest, Identifier: 1}
	require.NoError(t, p.AddString(AttrUserName, "carol@isp.com"))
	raw := p.Encode()

	// Append an attribute whose declared length runs past the packet.
	raw = append(raw, byte(AttrAcctSessionID), 40, 'x', 'y')
	binary.BigEndian.PutUint16(raw[2:4], uint16(len(raw)))

	decoded, err := Decode(raw)
	require.NoError(t, err)
	require.Len(t, decoded.Attributes, 1)

	name, ok := decoded.GetString(AttrUserName)
	require.True(t, ok)
	assert.Equal(t, "carol@isp.com", name)
}

func TestDecodeZeroLengthAttributeStopsParsing(t *testing.T) {
	p := &Packet{Code: CodeAccessRequest, Identifier: 1}
	require.NoError(t, p.AddString(AttrUserName, "dave@isp.com"))
	raw := p.Encode()

	raw = append(raw, byte(AttrNASPort), 0, 0, 0)
	binary.BigEndian.PutUint16(raw[2:4], uint16(len(raw)))

	decoded, err := Decode(raw)
	require.NoError(t, err)
	assert.Len(t, decoded.Attributes, 1)
}

func TestDecodeSkipsUnknownAttributes(t *testing.T) {
	p := &Packet{Code: CodeAccessRequest, Identifier: 7}
	require.NoError(t, p.AddString(AttrUserName, "erin@isp.com"))
	// Reply-Message(18) is not in the dictionary.
	require.NoError(t, p.Add(AttributeType(18), []byte("hello")))
	require.NoError(t, p.AddUint32(AttrNASPort, 3))

	decoded, err := Decode(p.Encode())
	require.NoError(t, err)
	require.Len(t, decoded.Attributes, 2)

	_, ok := decoded.Lookup(AttributeType(18))
	assert.False(t, ok)

	port, ok := decoded.GetUint32(AttrNASPort)
	require.True(t, ok)
	assert.Equal(t, uint32(3), port)
}

func TestAddAttributeTooLong(t *testing.T) {
	p := &Packet{Code: CodeAccessRequest}
	err := p.Add(AttrUserName, make([]byte, 254))
	assert.Error(t, err)
	assert.NoError(t, p.Add(AttrUserName, make([]byte, 253)))
}

func TestAddIPv4RejectsIPv6(t *testing.T) {
	p := &Packet{Code: CodeAccessRequest}
	assert.Error(t, p.AddIPv4(AttrNASIPAddress, net.ParseIP("2001:db8::1")))
}
