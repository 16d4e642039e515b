// Command veludp listens for Velodyne UDP packets, decodes them, and
// logs periodic throughput statistics. It is the CLI surface around
// the internal/velodyne decode pipeline.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/google/uuid"

	"github.com/jerry73204/go-velodyne-lidar/internal/velodyne"
)

var (
	httpListen  = flag.String("listen", ":8081", "HTTP status listen address")
	udpPort     = flag.Int("udp-port", 2368, "UDP port to listen for velodyne packets")
	udpAddress  = flag.String("udp-addr", "", "UDP bind address (default: all interfaces)")
	rcvBuf      = flag.Int("rcvbuf", 4<<20, "UDP receive buffer size in bytes")
	logInterval = flag.Int("log-interval", 2, "statistics logging interval in seconds")
	product     = flag.String("product", "vlp16", "sensor product: vlp16 or vlp32c")
	returnMode  = flag.String("return-mode", "strongest", "return mode: strongest, last, or dual")
	verbose     = flag.Int("verbose", 0, "logging verbosity: 1 enables diag, 2 adds trace")
)

func parseConfig() (velodyne.Config, error) {
	var cfg velodyne.Config
	switch *product {
	case "vlp16":
		cfg = velodyne.DefaultVLP16Config()
	case "vlp32c":
		cfg = velodyne.DefaultVLP32Config()
	default:
		return velodyne.Config{}, fmt.Errorf("unknown -product %q (want vlp16 or vlp32c)", *product)
	}
	switch *returnMode {
	case "strongest":
		cfg.ReturnMode = velodyne.ReturnStrongest
	case "last":
		cfg.ReturnMode = velodyne.ReturnLast
	case "dual":
		cfg.ReturnMode = velodyne.ReturnDual
	default:
		return velodyne.Config{}, fmt.Errorf("unknown -return-mode %q (want strongest, last, or dual)", *returnMode)
	}
	return cfg, nil
}

// frameLogger drives the firing-extract/project/batch stages per
// decoded packet and assigns each completed frame a UUID, the way a
// forwarding or storage sink downstream would key it.
type frameLogger struct {
	conv    velodyne.ConverterKind
	batcher *velodyne.Batcher[velodyne.FiringXyz]
}

func newFrameLogger(cfg velodyne.Config) (*frameLogger, error) {
	conv, err := velodyne.FromConfig(cfg)
	if err != nil {
		return nil, err
	}
	return &frameLogger{conv: conv, batcher: velodyne.NewBatcher[velodyne.FiringXyz]()}, nil
}

func (fl *frameLogger) handlePacket(pkt *velodyne.Packet) {
	for _, firing := range velodyne.ExtractFirings(pkt) {
		fx, err := velodyne.ConvertFiring(fl.conv, firing)
		if err != nil {
			velodyne.Diagf("dropping firing: %v", err)
			continue
		}
		if batch, complete := fl.batcher.PushOne(fx); complete {
			fl.logFrame(batch)
		}
	}
}

func (fl *frameLogger) flush() {
	if batch, ok := fl.batcher.Flush(); ok {
		fl.logFrame(batch)
	}
}

func (fl *frameLogger) logFrame(batch []velodyne.FiringXyz) {
	frame, err := velodyne.BuildFrameXyz(batch)
	if err != nil {
		velodyne.Diagf("dropping frame: %v", err)
		return
	}
	velodyne.Opsf("frame %s: format=%v firings=%d", uuid.New(), frame.Format(), len(batch))
}

func main() {
	flag.Parse()

	writers := velodyne.LogWriters{Ops: logWriter{}}
	if *verbose >= 1 {
		writers.Diag = logWriter{}
	}
	if *verbose >= 2 {
		writers.Trace = logWriter{}
	}
	velodyne.SetLogWriters(writers)

	cfg, err := parseConfig()
	if err != nil {
		log.Fatalf("veludp: %v", err)
	}
	fl, err := newFrameLogger(cfg)
	if err != nil {
		log.Fatalf("veludp: failed to build converter: %v", err)
	}

	udpListenAddr := fmt.Sprintf("%s:%d", *udpAddress, *udpPort)
	if *udpAddress == "" {
		udpListenAddr = fmt.Sprintf(":%d", *udpPort)
	}

	stats := velodyne.NewPacketStats()
	listener, err := velodyne.NewUDPListener(velodyne.UDPListenerConfig{
		Address:     udpListenAddr,
		RcvBuf:      *rcvBuf,
		LogInterval: time.Duration(*logInterval) * time.Second,
		Stats:       stats,
	})
	if err != nil {
		log.Fatalf("failed to configure UDP listener: %v", err)
	}

	var wg sync.WaitGroup
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	wg.Add(1)
	go func() {
		defer wg.Done()
		err := listener.Run(ctx, func(pkt *velodyne.Packet, err error) {
			// Malformed packets are already counted and logged by the
			// listener; only decode the good ones.
			if err != nil {
				return
			}
			fl.handlePacket(pkt)
		})
		fl.flush()
		if err != nil && err != context.Canceled {
			velodyne.Opsf("UDP listener error: %v", err)
		}
	}()

	wg.Add(1)
	go func() {
		defer wg.Done()
		runStatusServer(ctx, stats)
	}()

	wg.Wait()
	log.Print("veludp: graceful shutdown complete")
}

func runStatusServer(ctx context.Context, stats *velodyne.PacketStats) {
	mux := http.NewServeMux()
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintf(w, `{"status":"ok","service":"veludp","time":%q}`, time.Now().UTC().Format(time.RFC3339))
	})

	server := &http.Server{Addr: *httpListen, Handler: mux}

	go func() {
		velodyne.Opsf("starting HTTP status server on %s", *httpListen)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			velodyne.Opsf("HTTP status server error: %v", err)
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		_ = server.Close()
	}
}

// logWriter adapts the standard logger into an io.Writer for
// velodyne.SetLogWriters, so Opsf output also lands on the process's
// default log stream.
type logWriter struct{}

func (logWriter) Write(p []byte) (int, error) {
	log.Print(string(p))
	return len(p), nil
}
