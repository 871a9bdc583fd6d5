package property

import (
	"github.com/binoyjayan/p2sh-go/internal/packet"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

func getIPv6(h *packet.IPv6, name string) (value.Value, error) {
	switch name {
	case "version":
		return value.Int(h.Version), nil
	case "traffic_class":
		return value.Int(h.TrafficClass), nil
	case "flow_label":
		return value.Int(h.FlowLabel), nil
	case "length":
		return value.Int(h.PayloadLength), nil
	case "next_header":
		return value.Int(h.NextHeader), nil
	case "hop_limit":
		return value.Int(h.HopLimit), nil
	case "src":
		return value.String(h.Source.String()), nil
	case "dst":
		return value.String(h.Destination.String()), nil
	case "inner", "tcp", "udp":
		return innerOrError(h.Inner())
	case "payload":
		return rawPayload(h.Raw(), h.PayloadOffset()), nil
	default:
		return nil, unknownProperty("ipv6", name)
	}
}

func setIPv6(h *packet.IPv6, name string, val value.Value) error {
	switch name {
	case "version":
		n, err := expectInt(val, 0, 15)
		if err != nil {
			return err
		}
		h.Version = uint8(n)
		return nil
	case "traffic_class":
		n, err := expectInt(val, 0, 255)
		if err != nil {
			return err
		}
		h.TrafficClass = uint8(n)
		return nil
	case "flow_label":
		n, err := expectInt(val, 0, 1048575)
		if err != nil {
			return err
		}
		h.FlowLabel = uint32(n)
		return nil
	case "length":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		h.PayloadLength = uint16(n)
		return nil
	case "next_header":
		n, err := expectInt(val, 0, 255)
		if err != nil {
			return err
		}
		h.NextHeader = packet.Protocol(n)
		return nil
	case "hop_limit":
		n, err := expectInt(val, 0, 255)
		if err != nil {
			return err
		}
		h.HopLimit = uint8(n)
		return nil
	case "src":
		s, err := expectString(val)
		if err != nil {
			return err
		}
		addr, perr := packet.IPv6AddressFromString(s)
		if perr != nil {
			return value.NewKindError(value.ErrInvalidIPAddress, "invalid IPv6 address: %q", s)
		}
		h.Source = addr
		return nil
	case "dst":
		s, err := expectString(val)
		if err != nil {
			return err
		}
		addr, perr := packet.IPv6AddressFromString(s)
		if perr != nil {
			return value.NewKindError(value.ErrInvalidIPAddress, "invalid IPv6 address: %q", s)
		}
		h.Destination = addr
		return nil
	default:
		return unknownProperty("ipv6", name)
	}
}
