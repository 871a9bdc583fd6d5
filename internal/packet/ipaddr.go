package packet

import (
	"encoding/binary"
	"fmt"
	"strconv"
	"strings"
)

// IPv4Address is a 4-byte IPv4 address.
type IPv4Address [4]byte

func IPv4AddressFromBytes(b []byte) (IPv4Address, error) {
	if len(b) < 4 {
		return IPv4Address{}, fmt.Errorf("invalid IPv4 address length: %d", len(b))
	}
	var a IPv4Address
	copy(a[:], b[:4])
	return a, nil
}

func IPv4AddressFromString(s string) (IPv4Address, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 4 {
		return IPv4Address{}, invalidIPAddress(s)
	}
	var a IPv4Address
	for i, p := range parts {
		n, err := strconv.ParseUint(p, 10, 8)
		if err != nil {
			return IPv4Address{}, invalidIPAddress(s)
		}
		a[i] = byte(n)
	}
	return a, nil
}

func (a IPv4Address) String() string {
	return fmt.Sprintf("%d.%d.%d.%d", a[0], a[1], a[2], a[3])
}

func (a IPv4Address) Bytes() []byte {
	return []byte{a[0], a[1], a[2], a[3]}
}

func invalidIPAddress(s string) error {
	return fmt.Errorf("invalid IP address: %q", s)
}

// IPv6Address is a 16-byte IPv6 address, stored as 8 big-endian 16-bit
// groups matching the textual colon-hextet representation.
type IPv6Address [8]uint16

func IPv6AddressFromBytes(b []byte) (IPv6Address, error) {
	if len(b) < 16 {
		return IPv6Address{}, fmt.Errorf("invalid IPv6 address length: %d", len(b))
	}
	var a IPv6Address
	for i := 0; i < 8; i++ {
		a[i] = binary.BigEndian.Uint16(b[i*2:])
	}
	return a, nil
}

// IPv6AddressFromString parses the standard colon-hextet form, including a
// single "::" zero-compression run.
func IPv6AddressFromString(s string) (IPv6Address, error) {
	var a IPv6Address

	if strings.Count(s, "::") > 1 {
		return a, invalidIPAddress(s)
	}

	var left, right []string
	if idx := strings.Index(s, "::"); idx >= 0 {
		leftPart := s[:idx]
		rightPart := s[idx+2:]
		if leftPart != "" {
			left = strings.Split(leftPart, ":")
		}
		if rightPart != "" {
			right = strings.Split(rightPart, ":")
		}
		if len(left)+len(right) > 7 {
			return a, invalidIPAddress(s)
		}
	} else {
		left = strings.Split(s, ":")
		if len(left) != 8 {
			return a, invalidIPAddress(s)
		}
	}

	fill := 8 - len(left) - len(right)
	if fill < 0 {
		return a, invalidIPAddress(s)
	}

	idx := 0
	for _, g := range left {
		v, err := strconv.ParseUint(g, 16, 16)
		if err != nil {
			return a, invalidIPAddress(s)
		}
		a[idx] = uint16(v)
		idx++
	}
	idx += fill
	for _, g := range right {
		v, err := strconv.ParseUint(g, 16, 16)
		if err != nil {
			return a, invalidIPAddress(s)
		}
		a[idx] = uint16(v)
		idx++
	}
	return a, nil
}

// String formats a in lowercase hex groups, writing the longest run of two or
// more zero groups (the first, on a tie) as "::".
func (a IPv6Address) String() string {
	parts := make([]string, 8)
	for i, g := range a {
		parts[i] = strconv.FormatUint(uint64(g), 16)
	}
	start, n := -1, 1
	for i := 0; i < 8; i++ {
		j := i
		for j < 8 && a[j] == 0 {
			j++
		}
		if j-i > n {
			start, n = i, j-i
		}
	}
	if start < 0 {
		return strings.Join(parts, ":")
	}
	return strings.Join(parts[:start], ":") + "::" + strings.Join(parts[start+n:], ":")
}

func (a IPv6Address) Bytes() []byte {
	b := make([]byte, 16)
	for i, g := range a {
		binary.BigEndian.PutUint16(b[i*2:], g)
	}
	return b
}
