package velodyne

import (
	"iter"
	"time"
)

// AzimuthRange is the half-open azimuth interval [Start, End) covered by
// a firing, in degrees. End is not normalized into [0, 360) — it may
// exceed 360 when the interval crosses the wrap boundary — so that the
// interpolation ratio in convert.go stays a simple linear computation;
// only final per-point azimuths are normalized.
type AzimuthRange struct {
	Start float64
	End   float64
}

// StartAzimuth satisfies the azimuth-ordering contract the batcher
// (frame.go) depends on to detect revolution wrap-around.
func (r AzimuthRange) StartAzimuth() float64 { return r.Start }

func azimuthDelta(curDeg, nextDeg float64) float64 {
	d := nextDeg - curDeg
	if d < 0 {
		d += fullCircle
	}
	return d
}

// blockAzimuthRange builds the [cur, cur+delta) range for one block,
// adding a full turn to the delta when the interval crosses 360°.
func blockAzimuthRange(curDeg, nextDeg float64) AzimuthRange {
	delta := azimuthDelta(curDeg, nextDeg)
	return AzimuthRange{Start: curDeg, End: curDeg + delta}
}

// nextBlockAzimuth returns the azimuth (in degrees) that follows block
// i within pkt.Blocks, synthesizing one for the last block by
// extrapolating the delta between the last two blocks.
func nextBlockAzimuth(blocks []Block, i int) float64 {
	if i+1 < len(blocks) {
		return blocks[i+1].AzimuthDegrees()
	}
	prevDelta := azimuthDelta(blocks[i-1].AzimuthDegrees(), blocks[i].AzimuthDegrees())
	return normalizeDegrees(blocks[i].AzimuthDegrees() + prevDelta)
}

// FiringS16 is one Single16 firing: half of a 16-beam block's channels.
type FiringS16 struct {
	Time         time.Duration
	AzimuthRange AzimuthRange
	Channels     [16]Channel
}

// FiringS32 is one Single32 firing: a full 32-beam block.
type FiringS32 struct {
	Time         time.Duration
	AzimuthRange AzimuthRange
	Channels     [32]Channel
}

// FiringD16 is one Dual16 firing: half of a strongest/last 16-beam block
// pair, sharing time and azimuth.
type FiringD16 struct {
	Time         time.Duration
	AzimuthRange AzimuthRange
	Strongest    [16]Channel
	Last         [16]Channel
}

// FiringD32 is one Dual32 firing: a full strongest/last 32-beam block
// pair, sharing time and azimuth.
type FiringD32 struct {
	Time         time.Duration
	AzimuthRange AzimuthRange
	Strongest    [32]Channel
	Last         [32]Channel
}

func (f FiringS16) StartAzimuth() float64 { return f.AzimuthRange.StartAzimuth() }
func (f FiringS32) StartAzimuth() float64 { return f.AzimuthRange.StartAzimuth() }
func (f FiringD16) StartAzimuth() float64 { return f.AzimuthRange.StartAzimuth() }
func (f FiringD32) StartAzimuth() float64 { return f.AzimuthRange.StartAzimuth() }

// Firing is the format-polymorphic wrapper carrying exactly one of the
// four firing variants.
type Firing = FormatKind[FiringS16, FiringS32, FiringD16, FiringD32]

// ExtractFirings walks a parsed packet and returns its firings in
// arrival order. The count always equals
// pkt.FiringFormat().FiringCount(); extraction never fails, since all
// validation happened in Parse.
func ExtractFirings(pkt *Packet) []Firing {
	switch pkt.FiringFormat() {
	case Single16:
		return extractSingle16(pkt)
	case Single32:
		return extractSingle32(pkt)
	case Dual16:
		return extractDual16(pkt)
	default:
		return extractDual32(pkt)
	}
}

// FiringsSeq adapts ExtractFirings into a pull-based iterator, matching
// the lazy producer/consumer shape of the rest of the pipeline.
func FiringsSeq(pkt *Packet) iter.Seq[Firing] {
	firings := ExtractFirings(pkt)
	return func(yield func(Firing) bool) {
		for _, f := range firings {
			if !yield(f) {
				return
			}
		}
	}
}

func extractSingle16(pkt *Packet) []Firing {
	firings := make([]Firing, 0, 24)
	for i := range pkt.Blocks {
		block := &pkt.Blocks[i]
		cur := block.AzimuthDegrees()
		next := nextBlockAzimuth(pkt.Blocks[:], i)
		full := blockAzimuthRange(cur, next)
		mid := full.Start + (full.End-full.Start)/2

		baseTime := time.Duration(pkt.Timestamp)*time.Microsecond + time.Duration(i)*BlockPeriod

		var first, second FiringS16
		copy(first.Channels[:], block.Channels[0:16])
		first.Time = baseTime
		first.AzimuthRange = AzimuthRange{Start: full.Start, End: mid}

		copy(second.Channels[:], block.Channels[16:32])
		second.Time = baseTime + FiringPeriod/2
		second.AzimuthRange = AzimuthRange{Start: mid, End: full.End}

		firings = append(firings, NewSingle16[FiringS16, FiringS32, FiringD16, FiringD32](first))
		firings = append(firings, NewSingle16[FiringS16, FiringS32, FiringD16, FiringD32](second))
	}
	return firings
}

func extractSingle32(pkt *Packet) []Firing {
	firings := make([]Firing, 0, 12)
	for i := range pkt.Blocks {
		block := &pkt.Blocks[i]
		cur := block.AzimuthDegrees()
		next := nextBlockAzimuth(pkt.Blocks[:], i)

		var f FiringS32
		f.Channels = block.Channels
		f.Time = time.Duration(pkt.Timestamp)*time.Microsecond + time.Duration(i)*BlockPeriod
		f.AzimuthRange = blockAzimuthRange(cur, next)

		firings = append(firings, NewSingle32[FiringS16, FiringS32, FiringD16, FiringD32](f))
	}
	return firings
}

func extractDual16(pkt *Packet) []Firing {
	firings := make([]Firing, 0, 12)
	for pair := 0; pair < blocksPerPacket/2; pair++ {
		strongBlock := &pkt.Blocks[pair*2]
		lastBlock := &pkt.Blocks[pair*2+1]

		cur := strongBlock.AzimuthDegrees()
		next := nextPairAzimuth(pkt.Blocks[:], pair)
		full := blockAzimuthRange(cur, next)
		mid := full.Start + (full.End-full.Start)/2

		baseTime := time.Duration(pkt.Timestamp)*time.Microsecond + time.Duration(pair)*BlockPeriod

		var first, second FiringD16
		copy(first.Strongest[:], strongBlock.Channels[0:16])
		copy(first.Last[:], lastBlock.Channels[0:16])
		first.Time = baseTime
		first.AzimuthRange = AzimuthRange{Start: full.Start, End: mid}

		copy(second.Strongest[:], strongBlock.Channels[16:32])
		copy(second.Last[:], lastBlock.Channels[16:32])
		second.Time = baseTime + FiringPeriod/2
		second.AzimuthRange = AzimuthRange{Start: mid, End: full.End}

		firings = append(firings, NewDual16[FiringS16, FiringS32, FiringD16, FiringD32](first))
		firings = append(firings, NewDual16[FiringS16, FiringS32, FiringD16, FiringD32](second))
	}
	return firings
}

func extractDual32(pkt *Packet) []Firing {
	firings := make([]Firing, 0, 6)
	for pair := 0; pair < blocksPerPacket/2; pair++ {
		strongBlock := &pkt.Blocks[pair*2]
		lastBlock := &pkt.Blocks[pair*2+1]

		cur := strongBlock.AzimuthDegrees()
		next := nextPairAzimuth(pkt.Blocks[:], pair)

		var f FiringD32
		f.Strongest = strongBlock.Channels
		f.Last = lastBlock.Channels
		f.Time = time.Duration(pkt.Timestamp)*time.Microsecond + time.Duration(pair)*BlockPeriod
		f.AzimuthRange = blockAzimuthRange(cur, next)

		firings = append(firings, NewDual32[FiringS16, FiringS32, FiringD16, FiringD32](f))
	}
	return firings
}

// nextPairAzimuth mirrors nextBlockAzimuth for dual-return block pairs,
// where each pair's azimuth is carried by its even (strongest) block.
func nextPairAzimuth(blocks []Block, pair int) float64 {
	lastPair := blocksPerPacket/2 - 1
	if pair < lastPair {
		return blocks[(pair+1)*2].AzimuthDegrees()
	}
	prevDelta := azimuthDelta(blocks[(pair-1)*2].AzimuthDegrees(), blocks[pair*2].AzimuthDegrees())
	return normalizeDegrees(blocks[pair*2].AzimuthDegrees() + prevDelta)
}
