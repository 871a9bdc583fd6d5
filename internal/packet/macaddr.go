// Package packet implements the lazily-decoded packet layer tree: Ethernet,
// VLAN, IPv4/IPv6, TCP and UDP headers, and the PCAP file/record reader that
// produces the raw bytes they parse. Every layer holds a reference to the
// single raw byte buffer for the whole packet plus its own offset into it,
// and decodes its inner (encapsulated) layer lazily and caches the result,
// so a script that never inspects past the Ethernet header never pays to
// parse IP or TCP.
package packet

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/binoyjayan/p2sh-go/internal/value"
)

// MacAddress is a 6-byte hardware address.
type MacAddress [6]byte

// MacAddressFromBytes reads a MacAddress from the first 6 bytes of b.
func MacAddressFromBytes(b []byte) (MacAddress, error) {
	if len(b) < 6 {
		return MacAddress{}, fmt.Errorf("invalid MAC address length: %d", len(b))
	}
	var m MacAddress
	copy(m[:], b[:6])
	return m, nil
}

// MacAddressFromString parses a MacAddress from "AA:BB:CC:DD:EE:FF" form.
func MacAddressFromString(s string) (MacAddress, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 6 {
		return MacAddress{}, invalidMacAddress(s)
	}
	var m MacAddress
	for i, p := range parts {
		b, err := strconv.ParseUint(p, 16, 8)
		if err != nil {
			return MacAddress{}, invalidMacAddress(s)
		}
		m[i] = byte(b)
	}
	return m, nil
}

func invalidMacAddress(s string) error {
	return fmt.Errorf("invalid MAC address: %q", s)
}

// InvalidMacAddress builds the first-class runtime error value for a
// malformed MAC address, for use by property setters that accept strings.
func InvalidMacAddress(s string) *value.Error {
	return value.NewKindError(value.ErrInvalidMacAddress, "invalid MAC address: %q", s)
}

func (m MacAddress) String() string {
	return fmt.Sprintf("%02X:%02X:%02X:%02X:%02X:%02X", m[0], m[1], m[2], m[3], m[4], m[5])
}

func (m MacAddress) Bytes() []byte {
	return []byte{m[0], m[1], m[2], m[3], m[4], m[5]}
}
