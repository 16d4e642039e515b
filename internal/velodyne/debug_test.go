package velodyne

import (
	"bytes"
	"strings"
	"sync"
	"testing"
)

func TestSetLogWritersRoutesStreams(t *testing.T) {
	var ops, diag, trace bytes.Buffer
	SetLogWriters(LogWriters{Ops: &ops, Diag: &diag, Trace: &trace})
	defer SetLogWriters(LogWriters{})

	Opsf("ops %d", 1)
	Diagf("diag %d", 2)
	Tracef("trace %d", 3)

	if !strings.Contains(ops.String(), "ops 1") {
		t.Errorf("ops stream missing message, got %q", ops.String())
	}
	if !strings.Contains(diag.String(), "diag 2") {
		t.Errorf("diag stream missing message, got %q", diag.String())
	}
	if !strings.Contains(trace.String(), "trace 3") {
		t.Errorf("trace stream missing message, got %q", trace.String())
	}
	if strings.Contains(ops.String(), "diag 2") {
		t.Error("diag message leaked into ops stream")
	}
}

func TestLogPrefixPresent(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriter(LogOps, &buf)
	defer SetLogWriter(LogOps, nil)

	Opsf("hello")
	if !strings.Contains(buf.String(), "[velodyne]") {
		t.Errorf("expected [velodyne] prefix, got %q", buf.String())
	}
}

func TestDisabledStreamsDoNotPanic(t *testing.T) {
	SetLogWriters(LogWriters{})
	Opsf("silently discarded %d", 1)
	Diagf("silently discarded %d", 2)
	Tracef("silently discarded %d", 3)
}

func TestConcurrentLogWrites(t *testing.T) {
	var buf bytes.Buffer
	SetLogWriter(LogOps, &buf)
	defer SetLogWriter(LogOps, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				Opsf("writer %d message %d", n, j)
			}
		}(i)
	}
	wg.Wait()
}
