package velodyne

import (
	"encoding/binary"
	"fmt"
)

const (
	// PacketSize is the fixed wire size of one Velodyne UDP payload.
	PacketSize = 1206

	blocksPerPacket   = 12
	channelsPerBlock  = 32
	blockSize         = 100 // 2 (marker) + 2 (azimuth) + 32*3 (channels)
	blockMarker       = 0xFFEE // little-endian wire bytes EE FF; hardware captures have shown FF EE
	tailOffset        = blocksPerPacket * blockSize // 1200
	returnModeOffset  = tailOffset + 4
	productIDOffset   = tailOffset + 5
)

// ReturnMode identifies which echo(es) a packet reports.
type ReturnMode uint8

const (
	ReturnStrongest ReturnMode = 0x37
	ReturnLast      ReturnMode = 0x38
	ReturnDual      ReturnMode = 0x39
)

func (m ReturnMode) String() string {
	switch m {
	case ReturnStrongest:
		return "Strongest"
	case ReturnLast:
		return "Last"
	case ReturnDual:
		return "Dual"
	default:
		return fmt.Sprintf("ReturnMode(0x%02x)", uint8(m))
	}
}

func (m ReturnMode) valid() bool {
	switch m {
	case ReturnStrongest, ReturnLast, ReturnDual:
		return true
	default:
		return false
	}
}

// ProductID identifies the sensor model a packet came from, and with it
// the packet's beam count. The mapping is device-specific; the pair
// below covers the two beam counts this package supports.
type ProductID uint8

const (
	ProductVLP16  ProductID = 0x22
	ProductVLP32C ProductID = 0x28
)

// BeamCount returns the number of lasers encoded per block for this
// product, or 0 with ok=false if the product id is unrecognized.
func (p ProductID) BeamCount() (count int, ok bool) {
	switch p {
	case ProductVLP16:
		return 16, true
	case ProductVLP32C:
		return 32, true
	default:
		return 0, false
	}
}

// Channel is one (distance, intensity) measurement from one laser.
type Channel struct {
	Distance  uint16 // raw LSB count; meters = Distance * distance_resolution
	Intensity uint8
}

// Block is one packet substructure: an azimuth reading shared by its 32
// channels. For 16-beam sensors a block encodes two firings (its
// channels split into two 16-wide halves); for 32-beam sensors one.
type Block struct {
	Azimuth  uint16 // centi-degrees, 0..36000
	Channels [channelsPerBlock]Channel
}

// AzimuthDegrees returns the block's azimuth reading in degrees.
func (b Block) AzimuthDegrees() float64 {
	return centiDegToDeg(b.Azimuth)
}

// Packet is a fully parsed Velodyne UDP payload.
type Packet struct {
	Blocks     [blocksPerPacket]Block
	Timestamp  uint32 // microseconds since the top of the current hour
	ReturnMode ReturnMode
	ProductID  ProductID
}

// Parse decodes a raw 1206-byte UDP payload into a Packet. It fails with
// ErrPacketMalformed if the length is wrong, a block marker does not
// match 0xFFEE, or the return-mode / product-id bytes are unrecognized.
func Parse(raw []byte) (*Packet, error) {
	if len(raw) != PacketSize {
		return nil, fmt.Errorf("%w: expected %d bytes, got %d", ErrPacketMalformed, PacketSize, len(raw))
	}

	var pkt Packet
	for i := 0; i < blocksPerPacket; i++ {
		off := i * blockSize
		marker := binary.LittleEndian.Uint16(raw[off : off+2])
		if marker != blockMarker {
			return nil, fmt.Errorf("%w: block %d marker 0x%04x != 0x%04x", ErrPacketMalformed, i, marker, blockMarker)
		}
		block := &pkt.Blocks[i]
		block.Azimuth = binary.LittleEndian.Uint16(raw[off+2 : off+4])

		chanOff := off + 4
		for c := 0; c < channelsPerBlock; c++ {
			base := chanOff + c*3
			block.Channels[c] = Channel{
				Distance:  binary.LittleEndian.Uint16(raw[base : base+2]),
				Intensity: raw[base+2],
			}
		}
	}

	pkt.Timestamp = binary.LittleEndian.Uint32(raw[tailOffset : tailOffset+4])

	mode := ReturnMode(raw[returnModeOffset])
	if !mode.valid() {
		return nil, fmt.Errorf("%w: return mode byte 0x%02x", ErrPacketMalformed, uint8(mode))
	}
	pkt.ReturnMode = mode

	product := ProductID(raw[productIDOffset])
	if _, ok := product.BeamCount(); !ok {
		return nil, fmt.Errorf("%w: product id byte 0x%02x", ErrPacketMalformed, uint8(product))
	}
	pkt.ProductID = product

	return &pkt, nil
}

// Serialize encodes the packet back into its 1206-byte wire form. It is
// the inverse of Parse, used by the round-trip test suite.
func (p *Packet) Serialize() []byte {
	raw := make([]byte, PacketSize)
	for i := 0; i < blocksPerPacket; i++ {
		off := i * blockSize
		binary.LittleEndian.PutUint16(raw[off:off+2], blockMarker)
		block := p.Blocks[i]
		binary.LittleEndian.PutUint16(raw[off+2:off+4], block.Azimuth)
		chanOff := off + 4
		for c := 0; c < channelsPerBlock; c++ {
			base := chanOff + c*3
			binary.LittleEndian.PutUint16(raw[base:base+2], block.Channels[c].Distance)
			raw[base+2] = block.Channels[c].Intensity
		}
	}
	binary.LittleEndian.PutUint32(raw[tailOffset:tailOffset+4], p.Timestamp)
	raw[returnModeOffset] = byte(p.ReturnMode)
	raw[productIDOffset] = byte(p.ProductID)
	return raw
}

// BeamCount returns the beam count (16 or 32) implied by the packet's
// product id. Parse already rejected unrecognized ids, so this never
// fails for a successfully parsed packet.
func (p *Packet) BeamCount() int {
	count, _ := p.ProductID.BeamCount()
	return count
}

// FiringFormat collapses (ReturnMode, BeamCount) into one of the four
// named variants.
func (p *Packet) FiringFormat() FiringFormat {
	return firingFormatOf(p.ReturnMode, p.BeamCount())
}
