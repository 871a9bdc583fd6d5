package packet

import (
	"encoding/binary"
	"fmt"
)

const TCPHeaderSize = 20

// TCP is a decoded TCP header. DataOffset and Flags are split out of the
// combined 16-bit word at bytes 12-13 the way the reference implementation's
// prose describes them (a 4-bit data offset, 3 reserved bits, and 9 flag
// bits), rather than kept as one raw field, so property access reads
// naturally as tcp.data_offset and tcp.flags.
type TCP struct {
	SourcePort      uint16
	DestPort        uint16
	Sequence        uint32
	Ack             uint32
	DataOffset      uint8
	Flags           uint16
	WindowSize      uint16
	Checksum        uint16
	UrgentPointer   uint16

	rawdata []byte
	offset  int
}

func TCPFromBytes(rawdata []byte, off int) (*TCP, error) {
	if len(rawdata) < off+TCPHeaderSize {
		return nil, invalidLength(len(rawdata))
	}
	srcPort := binary.BigEndian.Uint16(rawdata[off:])
	dstPort := binary.BigEndian.Uint16(rawdata[off+2:])
	seq := binary.BigEndian.Uint32(rawdata[off+4:])
	ack := binary.BigEndian.Uint32(rawdata[off+8:])
	word := binary.BigEndian.Uint16(rawdata[off+12:])
	dataOffset := uint8(word >> 12)
	flags := word & 0x01FF
	window := binary.BigEndian.Uint16(rawdata[off+14:])
	checksum := binary.BigEndian.Uint16(rawdata[off+16:])
	urgent := binary.BigEndian.Uint16(rawdata[off+18:])

	hdrLen := int(dataOffset) * 4
	if hdrLen < TCPHeaderSize {
		hdrLen = TCPHeaderSize
	}

	return &TCP{
		SourcePort:    srcPort,
		DestPort:      dstPort,
		Sequence:      seq,
		Ack:           ack,
		DataOffset:    dataOffset,
		Flags:         flags,
		WindowSize:    window,
		Checksum:      checksum,
		UrgentPointer: urgent,
		rawdata:       rawdata,
		offset:        off + hdrLen,
	}, nil
}

func (t *TCP) Type() string { return "tcp" }

func (t *TCP) String() string {
	return fmt.Sprintf("<sport:%d,dport:%d> [len: %d]", t.SourcePort, t.DestPort, len(t.rawdata)-t.offset)
}

func (t *TCP) Truth() bool { return true }

func (t *TCP) PayloadOffset() int { return t.offset }
func (t *TCP) Raw() []byte        { return t.rawdata }

// Payload returns the bytes past the TCP header, the final layer in the
// decode chain: there is no further structured protocol to lazily decode.
func (t *TCP) Payload() []byte { return t.rawdata[t.offset:] }
