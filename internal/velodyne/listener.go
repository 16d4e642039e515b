package velodyne

import (
	"context"
	"fmt"
	"net"
	"time"
)

// UDPListenerConfig configures a UDPListener.
type UDPListenerConfig struct {
	// Address is the local "host:port" to bind, e.g. ":2368".
	Address string
	// RcvBuf is the requested OS socket receive-buffer size in bytes.
	RcvBuf int
	// LogInterval is how often stats are logged; zero disables it.
	LogInterval time.Duration
	// Stats receives packet/firing counters. Required.
	Stats *PacketStats
}

// UDPListener owns a UDP socket, reads into a reused buffer, and decodes
// each datagram through Parse before handing it to a
// caller-supplied sink. This sits outside the core decode path: it is
// the only goroutine-owning component in this package.
type UDPListener struct {
	cfg    UDPListenerConfig
	buffer []byte
}

// NewUDPListener validates cfg and returns a ready-to-run listener.
func NewUDPListener(cfg UDPListenerConfig) (*UDPListener, error) {
	if cfg.Stats == nil {
		return nil, fmt.Errorf("velodyne: UDPListenerConfig.Stats must not be nil")
	}
	return &UDPListener{cfg: cfg, buffer: make([]byte, 1500)}, nil
}

// PacketSink receives each decoded packet, or a non-nil err if Parse
// failed. A decode failure does not stop the listener: the sink is
// expected to log and continue.
type PacketSink func(pkt *Packet, err error)

// Run listens until ctx is cancelled. It returns early with an
// ErrIoFailure error only if the address cannot be resolved or bound;
// errors while reading are logged and the loop continues.
func (l *UDPListener) Run(ctx context.Context, sink PacketSink) error {
	addr, err := net.ResolveUDPAddr("udp", l.cfg.Address)
	if err != nil {
		return fmt.Errorf("%w: resolve %q: %v", ErrIoFailure, l.cfg.Address, err)
	}

	conn, err := net.ListenUDP("udp", addr)
	if err != nil {
		return fmt.Errorf("%w: listen on %q: %v", ErrIoFailure, l.cfg.Address, err)
	}
	defer conn.Close()

	if l.cfg.RcvBuf > 0 {
		if err := conn.SetReadBuffer(l.cfg.RcvBuf); err != nil {
			Opsf("failed to set UDP receive buffer to %d bytes: %v", l.cfg.RcvBuf, err)
		}
	}

	Opsf("listening for velodyne packets on %s", l.cfg.Address)

	if l.cfg.LogInterval > 0 {
		go l.logStatsLoop(ctx)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		if err := conn.SetReadDeadline(time.Now().Add(time.Second)); err != nil {
			Opsf("error setting read deadline: %v", err)
			continue
		}

		n, _, err := conn.ReadFromUDP(l.buffer)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				continue
			}
			Opsf("error reading UDP packet: %v", err)
			continue
		}

		l.handle(l.buffer[:n], sink)
	}
}

func (l *UDPListener) handle(raw []byte, sink PacketSink) {
	l.cfg.Stats.AddPacket(len(raw))

	pkt, err := Parse(raw)
	if err != nil {
		l.cfg.Stats.AddDropped()
		Diagf("dropping malformed packet: %v", err)
		sink(nil, err)
		return
	}

	l.cfg.Stats.AddFirings(pkt.FiringFormat().FiringCount())
	Tracef("packet decoded: format=%v timestamp=%d", pkt.FiringFormat(), pkt.Timestamp)
	sink(pkt, nil)
}

func (l *UDPListener) logStatsLoop(ctx context.Context) {
	ticker := time.NewTicker(l.cfg.LogInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			l.cfg.Stats.LogStats()
		}
	}
}
