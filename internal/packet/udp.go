package packet

import (
	"encoding/binary"
	"fmt"
)

const UDPHeaderSize = 8

// UDP is a decoded UDP header.
type UDP struct {
	SourcePort uint16
	DestPort   uint16
	Length     uint16
	Checksum   uint16

	rawdata []byte
	offset  int
}

func UDPFromBytes(rawdata []byte, off int) (*UDP, error) {
	if len(rawdata) < off+UDPHeaderSize {
		return nil, invalidLength(len(rawdata))
	}
	srcPort := binary.BigEndian.Uint16(rawdata[off:])
	dstPort := binary.BigEndian.Uint16(rawdata[off+2:])
	length := binary.BigEndian.Uint16(rawdata[off+4:])
	checksum := binary.BigEndian.Uint16(rawdata[off+6:])

	return &UDP{
		SourcePort: srcPort,
		DestPort:   dstPort,
		Length:     length,
		Checksum:   checksum,
		rawdata:    rawdata,
		offset:     off + UDPHeaderSize,
	}, nil
}

func (u *UDP) Type() string { return "udp" }

func (u *UDP) String() string {
	return fmt.Sprintf("<sport:%d,dport:%d> [len: %d]", u.SourcePort, u.DestPort, len(u.rawdata)-u.offset)
}

func (u *UDP) Truth() bool { return true }

func (u *UDP) PayloadOffset() int { return u.offset }
func (u *UDP) Raw() []byte        { return u.rawdata }

// Payload returns the bytes past the UDP header.
func (u *UDP) Payload() []byte { return u.rawdata[u.offset:] }
