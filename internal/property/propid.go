package property

import "golang.org/x/exp/slices"

// propertyNames is the closed, stable-indexed enumeration of property
// identifiers the GetProp/SetProp opcodes address by a single-byte operand.
// Position in this slice IS the wire id: never reorder existing entries,
// only append.
var propertyNames = []string{
	"magic", "major", "minor", "thiszone", "sigflags", "snaplen", "linktype",
	"sec", "usec", "caplen", "wirelen", "payload", "eth",
	"src", "dst", "ethertype", "vlan", "ipv4", "ipv6", "priority", "dei", "id",
	"ihl", "dscp", "ecn", "flags", "fragment_offset", "total_length", "ttl",
	"protocol", "checksum", "traffic_class", "flow_label", "length",
	"next_header", "hop_limit", "version",
	"src_port", "dst_port", "sequence", "ack", "data_offset", "window_size",
	"urgent", "udp", "tcp",
	"inner", // generic alias for eth/vlan/ipv4/ipv6/tcp/udp, kept for internal use
}

var propertyIDs = func() map[string]int {
	m := make(map[string]int, len(propertyNames))
	for i, n := range propertyNames {
		m[n] = i
	}
	return m
}()

// PropertyID returns the stable wire id for a property name, as assigned to
// GetProp/SetProp's one-byte operand at compile time. The second result is
// false for a name outside the closed enumeration (a compile error).
func PropertyID(name string) (int, bool) {
	id, ok := propertyIDs[name]
	return id, ok
}

// PropertyName reverses PropertyID, used by the VM to recover the name a
// GetProp/SetProp instruction's operand refers to.
func PropertyName(id int) (string, bool) {
	if id < 0 || id >= len(propertyNames) {
		return "", false
	}
	return propertyNames[id], true
}

// Names returns every property name in the closed enumeration, sorted, for
// the "prop_names" builtin's introspection of what a packet object exposes.
func Names() []string {
	names := make([]string, len(propertyNames))
	copy(names, propertyNames)
	slices.Sort(names)
	return names
}
