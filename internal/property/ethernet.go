package property

import (
	"github.com/binoyjayan/p2sh-go/internal/packet"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

func getEthernet(e *packet.Ethernet, name string) (value.Value, error) {
	switch name {
	case "src":
		return value.String(e.Source.String()), nil
	case "dst":
		return value.String(e.Dest.String()), nil
	case "ethertype":
		return value.Int(e.Ethertype), nil
	case "inner", "vlan", "ipv4", "ipv6":
		return innerOrError(e.Inner())
	case "payload":
		return rawPayload(e.Raw(), e.PayloadOffset()), nil
	default:
		return nil, unknownProperty("ethernet", name)
	}
}

func setEthernet(e *packet.Ethernet, name string, val value.Value) error {
	switch name {
	case "src":
		s, err := expectString(val)
		if err != nil {
			return err
		}
		addr, err := packet.MacAddressFromString(s)
		if err != nil {
			return packet.InvalidMacAddress(s)
		}
		e.Source = addr
		return nil
	case "dst":
		s, err := expectString(val)
		if err != nil {
			return err
		}
		addr, err := packet.MacAddressFromString(s)
		if err != nil {
			return packet.InvalidMacAddress(s)
		}
		e.Dest = addr
		return nil
	case "ethertype":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		e.Ethertype = packet.EtherType(n)
		return nil
	default:
		return unknownProperty("ethernet", name)
	}
}
