// Package value implements the runtime value model: every type a compiled
// program can produce or manipulate, plus the free functions (Binary, Unary,
// Equal, Compare, IsFalsey, HashKey) that implement the language's arithmetic,
// comparison, truthiness and hashing rules across that type set.
//
// Packet values (Ethernet, VLAN, IPv4/IPv6, TCP, UDP, raw PCAP records) are
// defined in the sibling internal/packet package and satisfy this package's
// Value interface, but their field-level get/set semantics live in
// internal/property; this package only needs to know they are opaque,
// self-describing values.
package value

import "fmt"

// Value is satisfied by every runtime value the VM can hold on its stack,
// store in a global/local slot, or put in an Array or Map.
type Value interface {
	// Type returns the name of the value's dynamic type, as used in runtime
	// type-mismatch error messages (e.g. "integer", "array", "ipv4").
	Type() string
	// String returns the value's display representation, as printed by the
	// `print`/`println` builtins.
	String() string
	// Truth returns whether the value is truthy in a boolean context.
	Truth() bool
}

// Null is the singleton absence-of-value type.
type Null struct{}

func (Null) Type() string   { return "null" }
func (Null) String() string { return "null" }
func (Null) Truth() bool    { return false }

// NullValue is the single shared Null instance.
var NullValue = Null{}

// Bool is a boolean value.
type Bool bool

func (b Bool) Type() string   { return "bool" }
func (b Bool) String() string { return fmt.Sprintf("%t", bool(b)) }
func (b Bool) Truth() bool    { return bool(b) }

// Int is a signed 64-bit integer value.
type Int int64

func (i Int) Type() string   { return "integer" }
func (i Int) String() string { return fmt.Sprintf("%d", int64(i)) }
func (i Int) Truth() bool    { return i != 0 }

// Float is a 64-bit floating point value.
type Float float64

func (f Float) Type() string   { return "float" }
func (f Float) String() string { return fmt.Sprintf("%g", float64(f)) }
func (f Float) Truth() bool    { return f != 0 }

// Byte is an unsigned 8-bit integer value, distinct from Int so that packet
// payload bytes round-trip without silent widening.
type Byte uint8

func (b Byte) Type() string   { return "byte" }
func (b Byte) String() string { return fmt.Sprintf("%d", uint8(b)) }
func (b Byte) Truth() bool    { return b != 0 }

// Char is a single Unicode code point, written in source as 'c'.
type Char rune

func (c Char) Type() string   { return "char" }
func (c Char) String() string { return fmt.Sprintf("%c", rune(c)) }
func (c Char) Truth() bool    { return c != 0 }

// String is a Go string wrapped as a runtime value.
type String string

func (s String) Type() string   { return "string" }
func (s String) String() string { return string(s) }
func (s String) Truth() bool    { return len(s) > 0 }

// IsFalsey reports whether v is falsey: null, false, zero numbers, and
// empty strings/arrays/maps are all falsey. This is the more permissive of
// the two readings considered for this language (the alternative restricts
// falsey-ness to null and false only); the richer reading is what the
// reference implementation's is_falsey actually does.
func IsFalsey(v Value) bool {
	switch vv := v.(type) {
	case Array:
		return len(vv.Elems) == 0
	case *Map:
		return vv.Len() == 0
	default:
		return !v.Truth()
	}
}

// TypeName returns v's dynamic type name, or "nil" if v is untyped nil (should
// not normally occur on the value stack, but guards diagnostics that print
// a zero-value Value).
func TypeName(v Value) string {
	if v == nil {
		return "nil"
	}
	return v.Type()
}
