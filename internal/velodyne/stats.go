package velodyne

import (
	"fmt"
	"sync"
	"time"
)

// PacketStats tracks packet/firing throughput with thread-safe counters,
// reset on each read.
type PacketStats struct {
	mu           sync.Mutex
	packetCount  int64
	byteCount    int64
	droppedCount int64
	firingCount  int64
	lastReset    time.Time
}

// NewPacketStats creates a PacketStats whose window starts now.
func NewPacketStats() *PacketStats {
	return &PacketStats{lastReset: time.Now()}
}

// AddPacket records one successfully received packet.
func (ps *PacketStats) AddPacket(bytes int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.packetCount++
	ps.byteCount += int64(bytes)
}

// AddDropped records one packet that failed to parse or forward.
func (ps *PacketStats) AddDropped() {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.droppedCount++
}

// AddFirings records the firings extracted from one packet.
func (ps *PacketStats) AddFirings(count int) {
	ps.mu.Lock()
	defer ps.mu.Unlock()
	ps.firingCount += int64(count)
}

// GetAndReset returns the counters accumulated since the last reset and
// zeroes them.
func (ps *PacketStats) GetAndReset() (packets, bytes, dropped, firings int64, window time.Duration) {
	ps.mu.Lock()
	defer ps.mu.Unlock()

	now := time.Now()
	window = now.Sub(ps.lastReset)
	packets, bytes, dropped, firings = ps.packetCount, ps.byteCount, ps.droppedCount, ps.firingCount
	ps.packetCount, ps.byteCount, ps.droppedCount, ps.firingCount = 0, 0, 0, 0
	ps.lastReset = now
	return
}

// LogStats emits one Opsf line summarizing the window, if anything
// happened in it.
func (ps *PacketStats) LogStats() {
	packets, bytes, dropped, firings, window := ps.GetAndReset()
	if packets == 0 && dropped == 0 {
		return
	}
	secs := window.Seconds()
	if secs <= 0 {
		secs = 1
	}
	Opsf("velodyne stats (/sec): %.2f MB, %.1f packets, %s firings, %d dropped",
		float64(bytes)/secs/(1024*1024), float64(packets)/secs, formatWithCommas(int64(float64(firings)/secs)), dropped)
}

func formatWithCommas(n int64) string {
	s := fmt.Sprintf("%d", n)
	if len(s) <= 3 {
		return s
	}
	out := make([]byte, 0, len(s)+len(s)/3)
	for i, c := range s {
		if i > 0 && (len(s)-i)%3 == 0 {
			out = append(out, ',')
		}
		out = append(out, byte(c))
	}
	return string(out)
}
