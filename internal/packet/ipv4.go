package packet

import (
	"encoding/binary"
	"fmt"

	"github.com/binoyjayan/p2sh-go/internal/value"
)

const IPv4HeaderSizeMin = 20

// Protocol names the IPv4/IPv6 next-header protocol numbers used by the
// handful of upper-layer protocols this package decodes.
type Protocol uint8

const (
	ProtocolICMP Protocol = 1
	ProtocolTCP  Protocol = 6
	ProtocolUDP  Protocol = 17
	ProtocolIPv6 Protocol = 41
)

func (p Protocol) String() string {
	switch p {
	case ProtocolICMP:
		return "ICMP"
	case ProtocolTCP:
		return "TCP"
	case ProtocolUDP:
		return "UDP"
	case ProtocolIPv6:
		return "IPv6"
	default:
		return fmt.Sprintf("%d", uint8(p))
	}
}

// IPv4 is a decoded IPv4 header, including IHL-dependent options the
// property engine does not expose but which are skipped correctly when
// locating the payload.
type IPv4 struct {
	Version        uint8
	IHL            uint8
	DSCP           uint8
	ECN            uint8
	TotalLength    uint16
	Identification uint16
	Flags          uint8
	FragmentOffset uint16
	TTL            uint8
	NextProtocol   Protocol
	Checksum       uint16
	Source         IPv4Address
	Destination    IPv4Address

	rawdata    []byte
	offset     int
	inner      value.Value
	innerKnown bool
}

func IPv4FromBytes(rawdata []byte, off int) (*IPv4, error) {
	if len(rawdata) < off+IPv4HeaderSizeMin {
		return nil, invalidLength(len(rawdata))
	}
	version := rawdata[off] >> 4
	ihl := rawdata[off] & 0x0F
	dscp := rawdata[off+1] >> 2
	ecn := rawdata[off+1] & 0x03
	totalLength := binary.BigEndian.Uint16(rawdata[off+2:])
	identification := binary.BigEndian.Uint16(rawdata[off+4:])
	flagsFrag := binary.BigEndian.Uint16(rawdata[off+6:])
	flags := uint8(flagsFrag >> 13)
	fragOffset := flagsFrag & 0x1FFF
	ttl := rawdata[off+8]
	proto := Protocol(rawdata[off+9])
	checksum := binary.BigEndian.Uint16(rawdata[off+10:])
	source, _ := IPv4AddressFromBytes(rawdata[off+12:])
	dest, _ := IPv4AddressFromBytes(rawdata[off+16:])

	hdrLen := int(ihl) * 4
	if hdrLen < IPv4HeaderSizeMin || len(rawdata) < off+hdrLen {
		return nil, invalidLength(len(rawdata))
	}

	return &IPv4{
		Version:        version,
		IHL:            ihl,
		DSCP:           dscp,
		ECN:            ecn,
		TotalLength:    totalLength,
		Identification: identification,
		Flags:          flags,
		FragmentOffset: fragOffset,
		TTL:            ttl,
		NextProtocol:   proto,
		Checksum:       checksum,
		Source:         source,
		Destination:    dest,
		rawdata:        rawdata,
		offset:         off + hdrLen,
	}, nil
}

func (h *IPv4) Type() string { return "ipv4" }

func (h *IPv4) String() string {
	inner, err := h.Inner()
	if err == nil && inner != nil {
		return fmt.Sprintf("<src:%s,dst:%s,proto:%s> %s", h.Source, h.Destination, h.NextProtocol, inner.String())
	}
	return fmt.Sprintf("<src:%s,dst:%s,proto:%s> [len: %d]", h.Source, h.Destination, h.NextProtocol, len(h.rawdata)-h.offset)
}

func (h *IPv4) Truth() bool { return true }

func (h *IPv4) PayloadOffset() int { return h.offset }
func (h *IPv4) Raw() []byte        { return h.rawdata }

func (h *IPv4) Inner() (value.Value, error) {
	if h.innerKnown {
		return h.inner, nil
	}
	h.innerKnown = true
	var iv value.Value
	var err error
	switch h.NextProtocol {
	case ProtocolTCP:
		iv, err = TCPFromBytes(h.rawdata, h.offset)
	case ProtocolUDP:
		iv, err = UDPFromBytes(h.rawdata, h.offset)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	h.inner = iv
	return iv, nil
}
