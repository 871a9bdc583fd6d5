package value

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/dolthub/swiss"
)

// entry pairs the original key Value (kept for iteration/display) with its
// stored value. The swiss map itself is keyed by the canonical hash string
// computed by HashKey, because dolthub/swiss requires a comparable Go type
// and Value is an interface over types (Array, *Map) that are not
// comparable in Go's sense but must be content-comparable here.
type entry struct {
	key Value
	val Value
}

// Map is the language's hash map value. Keys must satisfy IsValidKey.
type Map struct {
	m     *swiss.Map[string, entry]
	order []string // insertion order of canonical hash keys, for stable iteration/display
}

// NewMap creates an empty Map with a capacity hint.
func NewMap(sizeHint int) *Map {
	if sizeHint < 1 {
		sizeHint = 1
	}
	return &Map{m: swiss.NewMap[string, entry](uint32(sizeHint))}
}

func (m *Map) Type() string { return "map" }

func (m *Map) Truth() bool { return m.Len() > 0 }

func (m *Map) Len() int { return m.m.Count() }

// Get returns the value stored for key, if any.
func (m *Map) Get(key Value) (Value, bool) {
	hk, err := HashKey(key)
	if err != nil {
		return nil, false
	}
	e, ok := m.m.Get(hk)
	if !ok {
		return nil, false
	}
	return e.val, true
}

// Set stores val under key, returning an error if key is not hashable.
func (m *Map) Set(key, val Value) error {
	hk, err := HashKey(key)
	if err != nil {
		return err
	}
	if _, existed := m.m.Get(hk); !existed {
		m.order = append(m.order, hk)
	}
	m.m.Put(hk, entry{key: key, val: val})
	return nil
}

// Delete removes key from the map, reporting whether it was present.
func (m *Map) Delete(key Value) bool {
	hk, err := HashKey(key)
	if err != nil {
		return false
	}
	if _, ok := m.m.Get(hk); !ok {
		return false
	}
	m.m.Delete(hk)
	for i, k := range m.order {
		if k == hk {
			m.order = append(m.order[:i], m.order[i+1:]...)
			break
		}
	}
	return true
}

// Keys returns the map's keys in insertion order.
func (m *Map) Keys() []Value {
	keys := make([]Value, 0, len(m.order))
	for _, hk := range m.order {
		if e, ok := m.m.Get(hk); ok {
			keys = append(keys, e.key)
		}
	}
	return keys
}

func (m *Map) String() string {
	var sb strings.Builder
	sb.WriteByte('{')
	for i, hk := range m.order {
		e, ok := m.m.Get(hk)
		if !ok {
			continue
		}
		if i > 0 {
			sb.WriteString(", ")
		}
		sb.WriteString(displayElem(e.key))
		sb.WriteString(": ")
		sb.WriteString(displayElem(e.val))
	}
	sb.WriteByte('}')
	return sb.String()
}

// IsValidKey reports whether v may be used as a Map key. Arrays and Maps are
// excluded: arrays because mutation after insertion would silently corrupt
// the hash, maps because they are themselves mutable and unordered.
func IsValidKey(v Value) bool {
	switch v.(type) {
	case String, Char, Byte, Int, Float, Bool, Null:
		return true
	default:
		return false
	}
}

// HashKey computes a canonical string encoding of v suitable for use as the
// backing swiss.Map's comparable key. Floats hash by IEEE-754 bit pattern
// (so NaN hashes equal to NaN, and +0/-0 hash distinctly), and scalars by a
// type-tagged textual form so that e.g. Int(1) and Byte(1) never collide.
// Arrays, maps and every other non-scalar type are not hashable and return
// an error.
func HashKey(v Value) (string, error) {
	switch vv := v.(type) {
	case Null:
		return "n", nil
	case Bool:
		if vv {
			return "b:1", nil
		}
		return "b:0", nil
	case Int:
		return fmt.Sprintf("i:%d", int64(vv)), nil
	case Byte:
		return fmt.Sprintf("y:%d", uint8(vv)), nil
	case Char:
		return fmt.Sprintf("c:%d", rune(vv)), nil
	case Float:
		return fmt.Sprintf("f:%x", math.Float64bits(float64(vv))), nil
	case String:
		return "s:" + string(vv), nil
	default:
		return "", fmt.Errorf("unhashable type: %s", v.Type())
	}
}

// sortedKeys returns the canonical hash keys sorted lexically, independent of
// insertion order (iteration and display use insertion order instead).
func (m *Map) sortedKeys() []string {
	ks := make([]string, len(m.order))
	copy(ks, m.order)
	sort.Strings(ks)
	return ks
}
