package property

import (
	"github.com/binoyjayan/p2sh-go/internal/packet"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

func getTCP(t *packet.TCP, name string) (value.Value, error) {
	switch name {
	case "src_port":
		return value.Int(t.SourcePort), nil
	case "dst_port":
		return value.Int(t.DestPort), nil
	case "sequence":
		return value.Int(t.Sequence), nil
	case "ack":
		return value.Int(t.Ack), nil
	case "data_offset":
		return value.Int(t.DataOffset), nil
	case "flags":
		return value.Int(t.Flags), nil
	case "window_size":
		return value.Int(t.WindowSize), nil
	case "checksum":
		return value.Int(t.Checksum), nil
	case "urgent":
		return value.Int(t.UrgentPointer), nil
	case "payload":
		return rawPayload(t.Raw(), t.PayloadOffset()), nil
	default:
		return nil, unknownProperty("tcp", name)
	}
}

func setTCP(t *packet.TCP, name string, val value.Value) error {
	switch name {
	case "src_port":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		t.SourcePort = uint16(n)
		return nil
	case "dst_port":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		t.DestPort = uint16(n)
		return nil
	case "sequence":
		n, err := expectInt(val, 0, 4294967295)
		if err != nil {
			return err
		}
		t.Sequence = uint32(n)
		return nil
	case "ack":
		n, err := expectInt(val, 0, 4294967295)
		if err != nil {
			return err
		}
		t.Ack = uint32(n)
		return nil
	case "data_offset":
		n, err := expectInt(val, 0, 15)
		if err != nil {
			return err
		}
		t.DataOffset = uint8(n)
		return nil
	case "flags":
		n, err := expectInt(val, 0, 511)
		if err != nil {
			return err
		}
		t.Flags = uint16(n)
		return nil
	case "window_size":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		t.WindowSize = uint16(n)
		return nil
	case "checksum":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		t.Checksum = uint16(n)
		return nil
	case "urgent":
		n, err := expectInt(val, 0, 65535)
		if err != nil {
			return err
		}
		t.UrgentPointer = uint16(n)
		return nil
	default:
		return unknownProperty("tcp", name)
	}
}
