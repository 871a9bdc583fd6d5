package packet

import (
	"encoding/binary"
	"fmt"

	"github.com/binoyjayan/p2sh-go/internal/value"
)

const VlanHeaderSize = 4

// ClassOfService is the VLAN tag's 3-bit Priority Code Point.
type ClassOfService uint8

// Vlan is a decoded 802.1Q (or QinQ) VLAN tag. off, in VlanFromBytes, is the
// offset of the VLAN tag itself, which may be nested inside another VLAN tag
// for QinQ framing.
type Vlan struct {
	Priority   ClassOfService
	DEI        bool
	VlanID     uint16
	Ethertype  EtherType
	rawdata    []byte
	offset     int
	inner      value.Value
	innerKnown bool
}

func VlanFromBytes(rawdata []byte, off int) (*Vlan, error) {
	if len(rawdata) < off+VlanHeaderSize {
		return nil, invalidLength(len(rawdata))
	}
	priority := ClassOfService(rawdata[off] >> 5)
	dei := (rawdata[off]>>4)&1 == 1
	vlanID := (uint16(rawdata[off]&0x0F) << 8) | uint16(rawdata[off+1])
	ethertype := EtherType(binary.BigEndian.Uint16(rawdata[off+2:]))
	return &Vlan{
		Priority:  priority,
		DEI:       dei,
		VlanID:    vlanID,
		Ethertype: ethertype,
		rawdata:   rawdata,
		offset:    off + VlanHeaderSize,
	}, nil
}

func (v *Vlan) Type() string { return "vlan" }

func (v *Vlan) String() string {
	inner, err := v.Inner()
	if err == nil && inner != nil {
		return fmt.Sprintf("<id:%d,type:%s> %s", v.VlanID, v.Ethertype, inner.String())
	}
	return fmt.Sprintf("<id:%d,type:%s> [len: %d]", v.VlanID, v.Ethertype, len(v.rawdata)-v.offset)
}

func (v *Vlan) Truth() bool { return true }

func (v *Vlan) PayloadOffset() int { return v.offset }
func (v *Vlan) Raw() []byte        { return v.rawdata }

func (v *Vlan) Inner() (value.Value, error) {
	if v.innerKnown {
		return v.inner, nil
	}
	v.innerKnown = true
	var iv value.Value
	var err error
	switch v.Ethertype {
	case EtherTypeVLAN, EtherTypeQinQ:
		iv, err = VlanFromBytes(v.rawdata, v.offset)
	case EtherTypeIPv4:
		iv, err = IPv4FromBytes(v.rawdata, v.offset)
	case EtherTypeIPv6:
		iv, err = IPv6FromBytes(v.rawdata, v.offset)
	default:
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	v.inner = iv
	return iv, nil
}
