package property

import (
	"github.com/binoyjayan/p2sh-go/internal/packet"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

func getIPv4(h *packet.IPv4, name string) (value.Value, error) {
	switch name {
	case "version":
		return value.Int(h.Version), nil
	case "ihl":
		return value.Int(h.IHL), nil
	case "dscp":
		return value.Int(h.DSCP), nil
	case "ecn":
		return value.Int(h.ECN), nil
	case "total_length":
		return value.Int(h.TotalLength), nil
	case "id":
		return value.Int(h.Identification), nil
	case "flags":
		return value.Int(h.Flags), nil
	case "fragment_offset":
		return value.Int(h.FragmentOffset), nil
	case "ttl":
		return value.Int(h.TTL), nil
	case "protocol":
		return value.Int(h.NextProtocol), nil
	case "checksum":
		return value.Int(h.Checksum), nil
	case "src":
		return value.String(h.Source.String()), nil
	case "dst":
		return value.String(h.Destination.String()), nil
	case "inner", "tcp", "udp":
		return innerOrError(h.Inner())
	case "payload":
		return rawPayload(h.Raw(), h.PayloadOffset()), nil
	default:
		return nil, unknownProperty("ipv4", name)
	}
}

func setIPv4(h *packet.IPv4, name string, val value.Value) error {
	switch name {
	case "ihl":
		n, err := expectInt(val, 0, 15)
		if err != nil {
			return err
		}
		h.IHL = uint8(n)
		return nil
	case "dscp":
		n, err := expectInt(val, 0, 63)
		if err != nil {
			return err
		}
		h.DSCP = uint8(n)
		return nil
	case "ecn":
		n, err := expectInt(val, 0, 3)
		if err != nil {
			return err
		}
		h.ECN = uint8(n)
		return nil
	case "total_length":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		h.TotalLength = uint16(n)
		return nil
	case "id":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		h.Identification = uint16(n)
		return nil
	case "flags":
		n, err := expectInt(val, 0, 7)
		if err != nil {
			return err
		}
		h.Flags = uint8(n)
		return nil
	case "fragment_offset":
		n, err := expectInt(val, 0, 8191)
		if err != nil {
			return err
		}
		h.FragmentOffset = uint16(n)
		return nil
	case "ttl":
		n, err := expectInt(val, 0, 255)
		if err != nil {
			return err
		}
		h.TTL = uint8(n)
		return nil
	case "protocol":
		n, err := expectInt(val, 0, 255)
		if err != nil {
			return err
		}
		h.NextProtocol = packet.Protocol(n)
		return nil
	case "checksum":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		h.Checksum = uint16(n)
		return nil
	case "src":
		s, err := expectString(val)
		if err != nil {
			return err
		}
		addr, perr := packet.IPv4AddressFromString(s)
		if perr != nil {
			return value.NewKindError(value.ErrInvalidIPAddress, "invalid IPv4 address: %q", s)
		}
		h.Source = addr
		return nil
	case "dst":
		s, err := expectString(val)
		if err != nil {
			return err
		}
		addr, perr := packet.IPv4AddressFromString(s)
		if perr != nil {
			return value.NewKindError(value.ErrInvalidIPAddress, "invalid IPv4 address: %q", s)
		}
		h.Destination = addr
		return nil
	default:
		return unknownProperty("ipv4", name)
	}
}
