package property

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/binoyjayan/p2sh-go/internal/packet"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

func buildEthIPv4() []byte {
	buf := make([]byte, 0, 40)
	buf = append(buf, 0xAA, 0xBB, 0xCC, 0xDD, 0xEE, 0xFF)
	buf = append(buf, 0x11, 0x22, 0x33, 0x44, 0x55, 0x66)
	buf = append(buf, 0x08, 0x00)
	buf = append(buf, 0x45, 0x00, 0x00, 0x14, 0, 0, 0x40, 0, 64, 17, 0, 0)
	buf = append(buf, 10, 0, 0, 1, 10, 0, 0, 2)
	return buf
}

func TestGetEthernetProperties(t *testing.T) {
	eth, err := packet.EthernetFromBytes(buildEthIPv4(), 0)
	require.NoError(t, err)

	v, err := Get(eth, "src")
	require.NoError(t, err)
	assert.Equal(t, value.String("11:22:33:44:55:66"), v)

	v, err = Get(eth, "ethertype")
	require.NoError(t, err)
	assert.Equal(t, value.Int(0x0800), v)
}

func TestSetEthernetEthertypeValidatesRange(t *testing.T) {
	eth, err := packet.EthernetFromBytes(buildEthIPv4(), 0)
	require.NoError(t, err)

	err = Set(eth, "ethertype", value.Int(70000))
	assert.Error(t, err)

	err = Set(eth, "ethertype", value.Int(0x86DD))
	require.NoError(t, err)
	v, _ := Get(eth, "ethertype")
	assert.Equal(t, value.Int(0x86DD), v)
}

func TestGetInnerChainsThroughIPv4(t *testing.T) {
	eth, err := packet.EthernetFromBytes(buildEthIPv4(), 0)
	require.NoError(t, err)

	inner, err := Get(eth, "inner")
	require.NoError(t, err)
	ip, ok := inner.(*packet.IPv4)
	require.True(t, ok)

	src, err := Get(ip, "src")
	require.NoError(t, err)
	assert.Equal(t, value.String("10.0.0.1"), src)
}

func TestSetIPv4TTLRangeValidation(t *testing.T) {
	eth, err := packet.EthernetFromBytes(buildEthIPv4(), 0)
	require.NoError(t, err)
	inner, err := Get(eth, "inner")
	require.NoError(t, err)
	ip := inner.(*packet.IPv4)

	err = Set(ip, "ttl", value.Int(300))
	assert.Error(t, err)

	err = Set(ip, "ttl", value.Int(128))
	require.NoError(t, err)
	v, _ := Get(ip, "ttl")
	assert.Equal(t, value.Int(128), v)
}

func buildBareIPv6() []byte {
	buf := make([]byte, 40)
	buf[0] = 0x60
	buf[6] = 17 // UDP
	buf[7] = 64
	copy(buf[8:24], []byte{0x20, 1, 0xd, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 1})
	copy(buf[24:40], []byte{0x20, 1, 0xd, 0xb8, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 0, 2})
	return buf
}

func TestSetIPv6FieldsRoundTrip(t *testing.T) {
	ip, err := packet.IPv6FromBytes(buildBareIPv6(), 0)
	require.NoError(t, err)

	require.NoError(t, Set(ip, "hop_limit", value.Int(32)))
	v, err := Get(ip, "hop_limit")
	require.NoError(t, err)
	assert.Equal(t, value.Int(32), v)

	require.NoError(t, Set(ip, "src", value.String("2001:db8::99")))
	v, err = Get(ip, "src")
	require.NoError(t, err)
	assert.Equal(t, value.String("2001:db8::99"), v)

	err = Set(ip, "hop_limit", value.Int(256))
	assert.Error(t, err)

	err = Set(ip, "src", value.String("not-an-address"))
	assert.Error(t, err)
}

func TestUnknownPropertyIsAnError(t *testing.T) {
	eth, err := packet.EthernetFromBytes(buildEthIPv4(), 0)
	require.NoError(t, err)
	_, err = Get(eth, "nonexistent")
	assert.Error(t, err)
}
