// Package property implements field-level access on packet values: it maps
// a (value, property name) pair to a get or set action, including the
// "inner" property every layer exposes to reach its lazily-decoded
// encapsulated layer. This is the single place that knows how a dotted
// property expression turns into a read or write against the packet
// decoder tree in internal/packet.
package property

import (
	"fmt"

	"github.com/binoyjayan/p2sh-go/internal/packet"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

// Get resolves obj.name to a value. A lazy decode failure reached through
// "inner" or a layer property is returned as an error whose dynamic type is
// *value.Error, so the caller (internal/vm) can hand it to the running
// script as a value instead of aborting.
func Get(obj value.Value, name string) (value.Value, error) {
	switch o := obj.(type) {
	case *packet.PacketRecord:
		return getPacketRecord(o, name)
	case *packet.PcapFile:
		return getPcapFile(o, name)
	case *packet.Ethernet:
		return getEthernet(o, name)
	case *packet.Vlan:
		return getVlan(o, name)
	case *packet.IPv4:
		return getIPv4(o, name)
	case *packet.IPv6:
		return getIPv6(o, name)
	case *packet.TCP:
		return getTCP(o, name)
	case *packet.UDP:
		return getUDP(o, name)
	default:
		return nil, fmt.Errorf("type %s has no property %q", obj.Type(), name)
	}
}

// Set resolves obj.name = val. Only mutable header fields are settable;
// "inner" and other derived/read-only properties return an error.
func Set(obj value.Value, name string, val value.Value) error {
	switch o := obj.(type) {
	case *packet.PcapFile:
		return fmt.Errorf("pcap global header fields are read-only")
	case *packet.Ethernet:
		return setEthernet(o, name, val)
	case *packet.Vlan:
		return setVlan(o, name, val)
	case *packet.IPv4:
		return setIPv4(o, name, val)
	case *packet.IPv6:
		return setIPv6(o, name, val)
	case *packet.TCP:
		return setTCP(o, name, val)
	case *packet.UDP:
		return setUDP(o, name, val)
	default:
		return fmt.Errorf("type %s has no settable property %q", obj.Type(), name)
	}
}

// MaxProtoDepth bounds GetInner's traversal depth. A var, not a const, so
// internal/config can lower or raise it at startup from
// P2SH_MAX_PROTO_DEPTH.
var MaxProtoDepth = 10

// innerLayer is satisfied by every packet value that exposes a lazily
// decoded next layer.
type innerLayer interface {
	Inner() (value.Value, error)
}

// GetInner walks obj's decode chain up to depth layers deep, populating each
// layer's inner cache as it goes. depth 0 returns obj unchanged; a value
// that does not implement innerLayer (e.g. a TCP/UDP leaf) also stops the
// walk and is returned as-is.
func GetInner(obj value.Value, depth int) (value.Value, error) {
	if depth > MaxProtoDepth {
		depth = MaxProtoDepth
	}
	cur := obj
	for i := 0; i < depth; i++ {
		layer, ok := cur.(innerLayer)
		if !ok {
			return cur, nil
		}
		next, err := layer.Inner()
		if err != nil {
			return nil, err
		}
		if next == nil {
			return value.NullValue, nil
		}
		cur = next
	}
	return cur, nil
}

// rawPayload returns the bytes from offset to the end of raw as an array of
// byte values, backing every layer's "payload" property.
func rawPayload(raw []byte, offset int) value.Value {
	elems := make([]value.Value, len(raw)-offset)
	for i, b := range raw[offset:] {
		elems[i] = value.Byte(b)
	}
	return value.NewArray(elems)
}

func innerOrError(inner value.Value, err error) (value.Value, error) {
	if err != nil {
		return nil, err
	}
	if inner == nil {
		return value.NullValue, nil
	}
	return inner, nil
}

func expectInt(val value.Value, lo, hi int64) (int64, error) {
	i, ok := val.(value.Int)
	if !ok {
		return 0, fmt.Errorf("expected integer value, got %s", val.Type())
	}
	if int64(i) < lo || int64(i) > hi {
		return 0, fmt.Errorf("value %d out of range [%d, %d]", int64(i), lo, hi)
	}
	return int64(i), nil
}

func expectBool(val value.Value) (bool, error) {
	b, ok := val.(value.Bool)
	if !ok {
		return false, fmt.Errorf("expected bool value, got %s", val.Type())
	}
	return bool(b), nil
}

func expectString(val value.Value) (string, error) {
	s, ok := val.(value.String)
	if !ok {
		return "", fmt.Errorf("expected string value, got %s", val.Type())
	}
	return string(s), nil
}

func unknownProperty(typ, name string) error {
	return fmt.Errorf("type %s has no property %q", typ, name)
}
