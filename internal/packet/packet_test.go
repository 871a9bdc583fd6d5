package packet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func buildEthIPv4TCP() []byte {
	buf := make([]byte, 0, 64)
	// ethernet: dest, source, ethertype=IPv4
	buf = append(buf, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF)
	buf = append(buf, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	buf = append(buf, 0x08, 0x00)

	// ipv4: version/ihl, dscp/ecn, total_length, id, flags/frag, ttl, proto, checksum, src, dst
	buf = append(buf, 0x45, 0x00)
	buf = append(buf, 0x00, 0x28)
	buf = append(buf, 0x00, 0x01)
	buf = append(buf, 0x40, 0x00)
	buf = append(buf, 64)
	buf = append(buf, 6) // TCP
	buf = append(buf, 0x00, 0x00)
	buf = append(buf, 192, 168, 1, 1)
	buf = append(buf, 192, 168, 1, 2)

	// tcp: sport, dport, seq, ack, dataoff/flags, window, checksum, urgent
	buf = append(buf, 0x1F, 0x90) // 8080
	buf = append(buf, 0x00, 0x50) // 80
	buf = append(buf, 0, 0, 0, 1)
	buf = append(buf, 0, 0, 0, 2)
	buf = append(buf, 0x50, 0x18) // data offset 5, flags ACK|PSH
	buf = append(buf, 0x20, 0x00)
	buf = append(buf, 0x00, 0x00)
	buf = append(buf, 0x00, 0x00)

	buf = append(buf, []byte("payload")...)
	return buf
}

func TestEthernetDecodeAndLazyInner(t *testing.T) {
	raw := buildEthIPv4TCP()
	eth, err := EthernetFromBytes(raw, 0)
	require.NoError(t, err)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", eth.Dest.String())
	assert.Equal(t, EtherTypeIPv4, eth.Ethertype)

	inner1, err := eth.Inner()
	require.NoError(t, err)
	ip, ok := inner1.(*IPv4)
	require.True(t, ok)

	inner2, err := eth.Inner()
	require.NoError(t, err)
	assert.Same(t, ip, inner2.(*IPv4))
}

func TestIPv4FieldsAndNestedTCP(t *testing.T) {
	raw := buildEthIPv4TCP()
	eth, err := EthernetFromBytes(raw, 0)
	require.NoError(t, err)

	inner, err := eth.Inner()
	require.NoError(t, err)
	ip := inner.(*IPv4)

	assert.Equal(t, uint8(4), ip.Version)
	assert.Equal(t, uint8(5), ip.IHL)
	assert.Equal(t, "192.168.1.1", ip.Source.String())
	assert.Equal(t, "192.168.1.2", ip.Destination.String())
	assert.Equal(t, ProtocolTCP, ip.NextProtocol)

	tcpv, err := ip.Inner()
	require.NoError(t, err)
	tcp := tcpv.(*TCP)
	assert.Equal(t, uint16(8080), tcp.SourcePort)
	assert.Equal(t, uint16(80), tcp.DestPort)
	assert.Equal(t, uint8(5), tcp.DataOffset)
	assert.Equal(t, "payload", string(tcp.Payload()))
}

func TestEthernetTooShortIsInvalidLength(t *testing.T) {
	_, err := EthernetFromBytes([]byte{1, 2, 3}, 0)
	assert.Error(t, err)
}

func TestVlanRoundTrip(t *testing.T) {
	buf := make([]byte, 0, 8)
	// priority=5, dei=1, vlan_id=100
	b0 := byte(5<<5) | byte(1<<4) | byte((100>>8)&0x0F)
	b1 := byte(100 & 0xFF)
	buf = append(buf, b0, b1, 0x08, 0x00)
	buf = append(buf, []byte{0x45, 0, 0, 20, 0, 0, 0x40, 0, 64, 6, 0, 0, 10, 0, 0, 1, 10, 0, 0, 2}...)

	vlan, err := VlanFromBytes(buf, 0)
	require.NoError(t, err)
	assert.Equal(t, ClassOfService(5), vlan.Priority)
	assert.True(t, vlan.DEI)
	assert.Equal(t, uint16(100), vlan.VlanID)
	assert.Equal(t, EtherTypeIPv4, vlan.Ethertype)
}

func TestMacAddressParseRoundTrip(t *testing.T) {
	m, err := MacAddressFromString("AA:BB:CC:DD:EE:FF")
	require.NoError(t, err)
	assert.Equal(t, "AA:BB:CC:DD:EE:FF", m.String())

	_, err = MacAddressFromString("not-a-mac")
	assert.Error(t, err)
}

func TestIPv6AddressParse(t *testing.T) {
	a, err := IPv6AddressFromString("2001:db8::1")
	require.NoError(t, err)
	assert.Equal(t, uint16(0x2001), a[0])
	assert.Equal(t, uint16(0xdb8), a[1])
	assert.Equal(t, uint16(1), a[7])
	for i := 2; i < 7; i++ {
		assert.Equal(t, uint16(0), a[i])
	}
}

func TestPcapReaderRejectsBadMagic(t *testing.T) {
	_, err := NewReader(bytes.NewReader(make([]byte, 24)))
	assert.Error(t, err)
}

func TestPcapReaderReadsGlobalHeaderAndRecord(t *testing.T) {
	var buf bytes.Buffer
	// global header, little endian
	writeLE32(&buf, MagicMicroseconds)
	writeLE16(&buf, 2)
	writeLE16(&buf, 4)
	writeLE32(&buf, 0)
	writeLE32(&buf, 0)
	writeLE32(&buf, 65535)
	writeLE32(&buf, 1)

	// one record
	writeLE32(&buf, 1000)
	writeLE32(&buf, 0)
	writeLE32(&buf, 4)
	writeLE32(&buf, 4)
	buf.Write([]byte{1, 2, 3, 4})

	r, err := NewReader(&buf)
	require.NoError(t, err)
	assert.Equal(t, uint32(65535), r.Header.SnapLen)

	rec, err := r.NextPacket()
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3, 4}, rec.Rawdata)
	assert.Equal(t, uint32(1000), rec.Header.TsSec)
}

func TestPcapReaderRejectsCaplenExceedingSnaplen(t *testing.T) {
	var buf bytes.Buffer
	writeLE32(&buf, MagicMicroseconds)
	writeLE16(&buf, 2)
	writeLE16(&buf, 4)
	writeLE32(&buf, 0)
	writeLE32(&buf, 0)
	writeLE32(&buf, 10) // snaplen
	writeLE32(&buf, 1)

	writeLE32(&buf, 0)
	writeLE32(&buf, 0)
	writeLE32(&buf, 20) // caplen > snaplen
	writeLE32(&buf, 20)

	r, err := NewReader(&buf)
	require.NoError(t, err)

	_, err = r.NextPacket()
	assert.Error(t, err)
}

func writeLE32(buf *bytes.Buffer, v uint32) {
	buf.Write([]byte{byte(v), byte(v >> 8), byte(v >> 16), byte(v >> 24)})
}

func writeLE16(buf *bytes.Buffer, v uint16) {
	buf.Write([]byte{byte(v), byte(v >> 8)})
}
