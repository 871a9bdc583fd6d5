package property

import (
	"github.com/binoyjayan/p2sh-go/internal/packet"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

func getVlan(v *packet.Vlan, name string) (value.Value, error) {
	switch name {
	case "priority":
		return value.Int(v.Priority), nil
	case "dei":
		return value.Bool(v.DEI), nil
	case "id":
		return value.Int(v.VlanID), nil
	case "ethertype":
		return value.Int(v.Ethertype), nil
	case "inner", "vlan", "ipv4", "ipv6":
		return innerOrError(v.Inner())
	case "payload":
		return rawPayload(v.Raw(), v.PayloadOffset()), nil
	default:
		return nil, unknownProperty("vlan", name)
	}
}

func setVlan(v *packet.Vlan, name string, val value.Value) error {
	switch name {
	case "priority":
		n, err := expectInt(val, 0, 7)
		if err != nil {
			return err
		}
		v.Priority = packet.ClassOfService(n)
		return nil
	case "dei":
		b, err := expectBool(val)
		if err != nil {
			return err
		}
		v.DEI = b
		return nil
	case "id":
		n, err := expectInt(val, 0, 4095)
		if err != nil {
			return err
		}
		v.VlanID = uint16(n)
		return nil
	case "ethertype":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		v.Ethertype = packet.EtherType(n)
		return nil
	default:
		return unknownProperty("vlan", name)
	}
}
