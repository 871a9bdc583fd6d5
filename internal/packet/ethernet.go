package packet

import (
	"encoding/binary"
	"fmt"

	"github.com/binoyjayan/p2sh-go/internal/value"
)

const EthernetHeaderSize = 14

// EtherType names the well-known ethertype values; unrecognized values still
// carry their raw number, they just have no readable name.
type EtherType uint16

const (
	EtherTypeIPv4 EtherType = 0x0800
	EtherTypeARP  EtherType = 0x0806
	EtherTypeVLAN EtherType = 0x8100
	EtherTypeIPv6 EtherType = 0x86DD
	EtherTypeQinQ EtherType = 0x9100
)

func (e EtherType) String() string {
	switch e {
	case EtherTypeIPv4:
		return "IPv4"
	case EtherTypeARP:
		return "ARP"
	case EtherTypeVLAN:
		return "VLAN"
	case EtherTypeIPv6:
		return "IPv6"
	case EtherTypeQinQ:
		return "QinQ"
	default:
		return fmt.Sprintf("0x%04X", uint16(e))
	}
}

// Ethernet is a decoded Ethernet II header. It shares the raw packet buffer
// with every other layer and lazily decodes its inner layer (VLAN or an
// IPv4/IPv6 payload) on first access, caching the result in inner.
type Ethernet struct {
	Dest       MacAddress
	Source     MacAddress
	Ethertype  EtherType
	rawdata    []byte
	offset     int
	inner      value.Value
	innerKnown bool
}

// EthernetFromBytes decodes an Ethernet header starting at off in rawdata.
func EthernetFromBytes(rawdata []byte, off int) (*Ethernet, error) {
	if len(rawdata) < off+EthernetHeaderSize {
		return nil, invalidLength(len(rawdata))
	}
	dest, _ := MacAddressFromBytes(rawdata[off:])
	source, _ := MacAddressFromBytes(rawdata[off+6:])
	ethertype := EtherType(binary.BigEndian.Uint16(rawdata[off+12:]))
	return &Ethernet{
		Dest:      dest,
		Source:    source,
		Ethertype: ethertype,
		rawdata:   rawdata,
		offset:    off + EthernetHeaderSize,
	}, nil
}

func (e *Ethernet) Type() string { return "ethernet" }

func (e *Ethernet) String() string {
	inner, err := e.Inner()
	if err == nil && inner != nil {
		return fmt.Sprintf("<eth src:%s dst:%s> %s", e.Source, e.Dest, inner.String())
	}
	return fmt.Sprintf("<eth src:%s dst:%s> [len: %d]", e.Source, e.Dest, len(e.rawdata)-e.offset)
}

func (e *Ethernet) Truth() bool { return true }

// PayloadOffset returns the offset of the byte following this header.
func (e *Ethernet) PayloadOffset() int { return e.offset }

// Raw returns the whole-packet buffer this header was decoded from.
func (e *Ethernet) Raw() []byte { return e.rawdata }

// Inner lazily decodes and caches the layer encapsulated in this frame's
// payload, dispatching on Ethertype.
func (e *Ethernet) Inner() (value.Value, error) {
	if e.innerKnown {
		return e.inner, nil
	}
	e.innerKnown = true
	var v value.Value
	var err error
	switch e.Ethertype {
	case EtherTypeVLAN, EtherTypeQinQ:
		v, err = VlanFromBytes(e.rawdata, e.offset)
	case EtherTypeIPv4:
		v, err = IPv4FromBytes(e.rawdata, e.offset)
	case EtherTypeIPv6:
		v, err = IPv6FromBytes(e.rawdata, e.offset)
	default:
		return nil, nil
	}
	if err != nil {
		e.inner = nil
		return nil, err
	}
	e.inner = v
	return v, nil
}

func invalidLength(n int) error {
	return value.NewKindError(value.ErrInvalidLength, "buffer too short: %d bytes", n)
}
