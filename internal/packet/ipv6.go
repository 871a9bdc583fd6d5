package packet

import (
	"encoding/binary"
	"fmt"

	"github.com/binoyjayan/p2sh-go/internal/value"
)

const IPv6HeaderSize = 40

// IPv6 is a decoded IPv6 fixed header (extension headers are not walked;
// NextHeader is exposed as-is, matching the reference implementation).
type IPv6 struct {
	Version       uint8
	TrafficClass  uint8
	FlowLabel     uint32
	PayloadLength uint16
	NextHeader    Protocol
	HopLimit      uint8
	Source        IPv6Address
	Destination   IPv6Address

	rawdata    []byte
	offset     int
	inner      value.Value
	innerKnown bool
}

func IPv6FromBytes(rawdata []byte, off int) (*IPv6, error) {
	if len(rawdata) < off+IPv6HeaderSize {
		return nil, invalidLength(len(rawdata))
	}
	word0 := binary.BigEndian.Uint32(rawdata[off:])
	version := uint8(word0 >> 28)
	trafficClass := uint8((word0 >> 20) & 0xFF)
	flowLabel := word0 & 0x000FFFFF
	payloadLength := binary.BigEndian.Uint16(rawdata[off+4:])
	nextHeader := Protocol(rawdata[off+6])
	hopLimit := rawdata[off+7]
	source, _ := IPv6AddressFromBytes(rawdata[off+8:])
	dest, _ := IPv6AddressFromBytes(rawdata[off+24:])

	return &IPv6{
		Version:       version,
		TrafficClass:  trafficClass,
		FlowLabel:     flowLabel,
		PayloadLength: payloadLength,
		NextHeader:    nextHeader,
		HopLimit:      hopLimit,
		Source:        source,
		Destination:   dest,
		rawdata:       rawdata,
		offset:        off + IPv6HeaderSize,
	}, nil
}

func (h *IPv6) Type() string { return "ipv6" }

func (h *IPv6) String() string {
	inner, err := h.Inner()
	if err == nil && inner != nil {
		return fmt.Sprintf("<src:%s,dst:%s,next:%s> %s", h.Source, h.Destination, h.NextHeader, inner.String())
	}
	return fmt.Sprintf("<src:%s,dst:%s,next:%s> [len: %d]", h.Source, h.Destination, h.NextHeader, len(h.rawdata)-h.offset)
}

func (h *IPv6) Truth() bool { return true }

func (h *IPv6) PayloadOffset() int { return h.offset }
func (h *IPv6) Raw() []byte        { return h.rawdata }

func (h *IPv6) Inner() (value.Value, error) {
	if h.innerKnown {
		return h.inner, nil
	}
	h.innerKnown = true
	var iv value.Value
	var err error
	switch h.NextHeader {
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
