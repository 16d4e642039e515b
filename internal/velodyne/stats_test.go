package velodyne

import "testing"

func TestPacketStatsGetAndReset(t *testing.T) {
	ps := NewPacketStats()
	ps.AddPacket(1206)
	ps.AddPacket(1206)
	ps.AddDropped()
	ps.AddFirings(24)

	packets, bytes, dropped, firings, window := ps.GetAndReset()
	if packets != 2 {
		t.Errorf("packets = %d, want 2", packets)
	}
	if bytes != 2412 {
		t.Errorf("bytes = %d, want 2412", bytes)
	}
	if dropped != 1 {
		t.Errorf("dropped = %d, want 1", dropped)
	}
	if firings != 24 {
		t.Errorf("firings = %d, want 24", firings)
	}
	if window < 0 {
		t.Errorf("window = %v, want non-negative", window)
	}

	packets, bytes, dropped, firings, _ = ps.GetAndReset()
	if packets != 0 || bytes != 0 || dropped != 0 || firings != 0 {
		t.Errorf("counters not zeroed after reset: %d %d %d %d", packets, bytes, dropped, firings)
	}
}

func TestFormatWithCommas(t *testing.T) {
	cases := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
	}
	for _, c := range cases {
		if got := formatWithCommas(c.in); got != c.want {
			t.Errorf("formatWithCommas(%d) = %q, want %q", c.in, got, c.want)
		}
	}
}
