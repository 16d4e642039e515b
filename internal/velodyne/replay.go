//go:build pcap

package velodyne

import (
	"context"
	"fmt"
	"time"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/google/gopacket/pcap"
)

// ReplayPCAP replays a captured .pcap/.pcapng file through the same
// decode pipeline used for live traffic, for testing and offline
// analysis. Only available when built with the 'pcap' tag, since it
// links against libpcap via cgo.
func ReplayPCAP(ctx context.Context, path string, udpPort int, stats *PacketStats, sink PacketSink) error {
	handle, err := pcap.OpenOffline(path)
	if err != nil {
		return fmt.Errorf("%w: open pcap file %q: %v", ErrIoFailure, path, err)
	}
	defer handle.Close()

	filter := fmt.Sprintf("udp port %d", udpPort)
	if err := handle.SetBPFFilter(filter); err != nil {
		return fmt.Errorf("%w: set BPF filter %q: %v", ErrIoFailure, filter, err)
	}
	Opsf("pcap replay: filter %q", filter)

	source := gopacket.NewPacketSource(handle, handle.LinkType())
	count := 0
	start := time.Now()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case packet, ok := <-source.Packets():
			if !ok || packet == nil {
				Opsf("pcap replay complete: %d packets in %v", count, time.Since(start))
				return nil
			}
			count++

			udpLayer := packet.Layer(layers.LayerTypeUDP)
			if udpLayer == nil {
				continue
			}
			udp, ok := udpLayer.(*layers.UDP)
			if !ok || len(udp.Payload) == 0 {
				continue
			}

			if stats != nil {
				stats.AddPacket(len(udp.Payload))
			}

			pkt, err := Parse(udp.Payload)
			if err != nil {
				if stats != nil {
					stats.AddDropped()
				}
				Diagf("dropping malformed packet %d: %v", count, err)
				sink(nil, err)
				continue
			}
			if stats != nil {
				stats.AddFirings(pkt.FiringFormat().FiringCount())
			}
			Tracef("packet decoded: format=%v timestamp=%d", pkt.FiringFormat(), pkt.Timestamp)
			sink(pkt, nil)

			if count%10000 == 0 {
				Opsf("pcap replay progress: %d packets in %v (%.0f pkt/s)", count, time.Since(start), float64(count)/time.Since(start).Seconds())
			}
		}
	}
}
