package packet

import (
	"fmt"
	"io"

	"github.com/binoyjayan/p2sh-go/internal/value"
)

// PacketRecord is a single captured packet as a runtime value: its PCAP
// record header fields plus a lazily-decoded Ethernet layer, the root of
// the per-packet decode tree a script walks via .inner-style property
// access (see internal/property).
type PacketRecord struct {
	Header     RecordHeader
	rawdata    []byte
	inner      value.Value
	innerKnown bool
}

// NewPacketRecord wraps a decoded PCAP record as a runtime value.
func NewPacketRecord(rec *Record) *PacketRecord {
	return &PacketRecord{Header: rec.Header, rawdata: rec.Rawdata}
}

func (p *PacketRecord) Type() string { return "packet" }

func (p *PacketRecord) String() string {
	inner, err := p.Inner()
	if err == nil && inner != nil {
		return fmt.Sprintf("<packet caplen:%d> %s", p.Header.CapLen, inner.String())
	}
	return fmt.Sprintf("<packet caplen:%d> [len: %d]", p.Header.CapLen, len(p.rawdata))
}

func (p *PacketRecord) Truth() bool { return true }

func (p *PacketRecord) Raw() []byte { return p.rawdata }

// Inner lazily decodes and caches this packet's Ethernet layer.
func (p *PacketRecord) Inner() (value.Value, error) {
	if p.innerKnown {
		return p.inner, nil
	}
	p.innerKnown = true
	eth, err := EthernetFromBytes(p.rawdata, 0)
	if err != nil {
		return nil, err
	}
	p.inner = eth
	return eth, nil
}

// PcapFile is an open PCAP capture as a runtime value: its global header
// fields plus a cursor over the record stream, advanced by next_packet.
type PcapFile struct {
	Header GlobalHeader
	reader *Reader
	name   string
}

// NewPcapFile wraps an already-opened Reader.
func NewPcapFile(name string, r *Reader) *PcapFile {
	return &PcapFile{Header: r.Header, reader: r, name: name}
}

func (f *PcapFile) Type() string   { return "pcap" }
func (f *PcapFile) String() string { return fmt.Sprintf("<pcap %s>", f.name) }
func (f *PcapFile) Truth() bool    { return true }

// NextPacket advances to and returns the next packet, or io.EOF when the
// capture is exhausted.
func (f *PcapFile) NextPacket() (*PacketRecord, error) {
	rec, err := f.reader.NextPacket()
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, err
	}
	return NewPacketRecord(rec), nil
}
