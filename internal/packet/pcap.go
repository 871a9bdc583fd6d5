package packet

import (
	"encoding/binary"
	"fmt"
	"io"
)

const (
	MagicMicroseconds uint32 = 0xA1B2C3D4
	MagicNanoseconds  uint32 = 0xA1B23C4D

	GlobalHeaderSize = 24
	RecordHeaderSize = 16
)

// TimestampFormat records whether a capture file's record timestamps are in
// microsecond or nanosecond resolution, determined by which magic number the
// global header carries.
type TimestampFormat int

const (
	TimestampMicroseconds TimestampFormat = iota
	TimestampNanoseconds
)

// GlobalHeader is a PCAP file's 24-byte global header. All fields are
// little-endian on the wire, unlike every other layer in this package.
type GlobalHeader struct {
	MagicNumber    uint32
	VersionMajor   uint16
	VersionMinor   uint16
	ThisZone       int32
	SigFigs        uint32
	SnapLen        uint32
	LinkType       uint32
	TimestampFormat TimestampFormat
}

// Reader reads successive records from a PCAP capture stream.
type Reader struct {
	r      io.Reader
	Header GlobalHeader
}

// NewReader reads and validates the global header from r.
func NewReader(r io.Reader) (*Reader, error) {
	buf := make([]byte, GlobalHeaderSize)
	if _, err := io.ReadFull(r, buf); err != nil {
		return nil, fmt.Errorf("reading pcap global header: %w", err)
	}

	magic := binary.LittleEndian.Uint32(buf[0:])
	var format TimestampFormat
	switch magic {
	case MagicMicroseconds:
		format = TimestampMicroseconds
	case MagicNanoseconds:
		format = TimestampNanoseconds
	default:
		return nil, fmt.Errorf("not a pcap file: invalid magic number 0x%08X", magic)
	}

	hdr := GlobalHeader{
		MagicNumber:     magic,
		VersionMajor:    binary.LittleEndian.Uint16(buf[4:]),
		VersionMinor:    binary.LittleEndian.Uint16(buf[6:]),
		ThisZone:        int32(binary.LittleEndian.Uint32(buf[8:])),
		SigFigs:         binary.LittleEndian.Uint32(buf[12:]),
		SnapLen:         binary.LittleEndian.Uint32(buf[16:]),
		LinkType:        binary.LittleEndian.Uint32(buf[20:]),
		TimestampFormat: format,
	}
	return &Reader{r: r, Header: hdr}, nil
}

// RecordHeader is a PCAP per-packet record header.
type RecordHeader struct {
	TsSec   uint32
	TsUsec  uint32
	CapLen  uint32
	WireLen uint32
}

// Record is a single captured packet: its record header and exactly CapLen
// bytes of captured payload.
type Record struct {
	Header  RecordHeader
	Rawdata []byte
}

// NextPacket reads the next record. It returns io.EOF (unwrapped) when the
// stream is exhausted cleanly. A record whose CapLen exceeds the file's
// SnapLen is a read error, not a silently truncated read.
func (r *Reader) NextPacket() (*Record, error) {
	buf := make([]byte, RecordHeaderSize)
	if _, err := io.ReadFull(r.r, buf); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("truncated pcap record header")
		}
		return nil, err
	}

	hdr := RecordHeader{
		TsSec:   binary.LittleEndian.Uint32(buf[0:]),
		TsUsec:  binary.LittleEndian.Uint32(buf[4:]),
		CapLen:  binary.LittleEndian.Uint32(buf[8:]),
		WireLen: binary.LittleEndian.Uint32(buf[12:]),
	}
	if hdr.CapLen > r.Header.SnapLen {
		return nil, fmt.Errorf("invalid caplen value %d exceeds snaplen %d", hdr.CapLen, r.Header.SnapLen)
	}

	data := make([]byte, hdr.CapLen)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, fmt.Errorf("reading pcap record payload: %w", err)
	}

	return &Record{Header: hdr, Rawdata: data}, nil
}
