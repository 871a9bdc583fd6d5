package property

import (
	"github.com/binoyjayan/p2sh-go/internal/packet"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

func getUDP(u *packet.UDP, name string) (value.Value, error) {
	switch name {
	case "src_port":
		return value.Int(u.SourcePort), nil
	case "dst_port":
		return value.Int(u.DestPort), nil
	case "length":
		return value.Int(u.Length), nil
	case "checksum":
		return value.Int(u.Checksum), nil
	case "payload":
		return rawPayload(u.Raw(), u.PayloadOffset()), nil
	default:
		return nil, unknownProperty("udp", name)
	}
}

func setUDP(u *packet.UDP, name string, val value.Value) error {
	switch name {
	case "src_port":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		u.SourcePort = uint16(n)
		return nil
	case "dst_port":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		u.DestPort = uint16(n)
		return nil
	case "length":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		u.Length = uint16(n)
		return nil
	case "checksum":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		u.Checksum = uint16(n)
		return nil
	default:
		return unknownProperty("udp", name)
	}
}
