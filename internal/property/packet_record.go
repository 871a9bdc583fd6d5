package property

import (
	"github.com/binoyjayan/p2sh-go/internal/packet"
	"github.com/binoyjayan/p2sh-go/internal/value"
)

func getPacketRecord(p *packet.PacketRecord, name string) (value.Value, error) {
	switch name {
	case "sec":
		return value.Int(p.Header.TsSec), nil
	case "usec":
		return value.Int(p.Header.TsUsec), nil
	case "caplen":
		return value.Int(p.Header.CapLen), nil
	case "wirelen":
		return value.Int(p.Header.WireLen), nil
	case "inner", "eth":
		return innerOrError(p.Inner())
	default:
		return nil, unknownProperty("packet", name)
	}
}

func getPcapFile(f *packet.PcapFile, name string) (value.Value, error) {
	switch name {
	case "magic":
		return value.Int(f.Header.MagicNumber), nil
	case "major":
		return value.Int(f.Header.VersionMajor), nil
	case "minor":
		return value.Int(f.Header.VersionMinor), nil
	case "thiszone":
		return value.Int(f.Header.ThisZone), nil
	case "sigflags":
		return value.Int(f.Header.SigFigs), nil
	case "snaplen":
		return value.Int(f.Header.SnapLen), nil
	case "linktype":
		return value.Int(f.Header.LinkType), nil
	default:
		return nil, unknownProperty("pcap", name)
	}
}
