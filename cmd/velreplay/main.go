//go:build pcap

// Command velreplay replays a captured PCAP file through the Velodyne
// decode pipeline, for offline analysis and regression testing.
package main

import (
	"context"
	"flag"
	"log"
	"os/signal"
	"syscall"

	"github.com/jerry73204/go-velodyne-lidar/internal/velodyne"
)

var (
	pcapFile = flag.String("pcap", "", "path to a .pcap/.pcapng capture file")
	udpPort  = flag.Int("udp-port", 2368, "UDP port the capture carries velodyne packets on")
)

func main() {
	flag.Parse()
	if *pcapFile == "" {
		log.Fatal("velreplay: -pcap is required")
	}

	velodyne.SetLogWriters(velodyne.LogWriters{Ops: logWriter{}})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	stats := velodyne.NewPacketStats()
	err := velodyne.ReplayPCAP(ctx, *pcapFile, *udpPort, stats, func(*velodyne.Packet, error) {
		// Stats and malformed-packet logging happen inside ReplayPCAP.
	})
	if err != nil && err != context.Canceled {
		log.Fatalf("velreplay: replay failed: %v", err)
	}
}

type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	log.Print(string(p))
	return len(p), nil
}
