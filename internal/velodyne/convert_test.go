package velodyne

import (
	"math"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestSphericalProjectionUnitCases(t *testing.T) {
	cases := []struct {
		name                string
		distance            float64
		elevationDeg        float64
		azimuthDeg          float64
		wantX, wantY, wantZ float64
	}{
		{"forward", 10, 0, 0, 0, 10, 0},
		{"right", 10, 0, 90, 10, 0, 0},
		{"up", 10, 90, 0, 0, 0, 10},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			xyz := sphericalToXYZ(c.distance, c.elevationDeg, c.azimuthDeg, 0, 0)
			if math.Abs(xyz[0]-c.wantX) > 1e-9 || math.Abs(xyz[1]-c.wantY) > 1e-9 || math.Abs(xyz[2]-c.wantZ) > 1e-9 {
				t.Errorf("got (%v,%v,%v), want (%v,%v,%v)", xyz[0], xyz[1], xyz[2], c.wantX, c.wantY, c.wantZ)
			}
		})
	}
}

func TestZeroDistanceYieldsFiniteOffsetOnlyPoint(t *testing.T) {
	xyz := sphericalToXYZ(0, 10, 45, 0.05, 0.02)
	for i, v := range xyz {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Errorf("component %d is not finite: %v", i, v)
		}
	}
}

func vlp16Config(mode ReturnMode) Config {
	cfg := DefaultVLP16Config()
	cfg.ReturnMode = mode
	return cfg
}

func vlp32Config(mode ReturnMode) Config {
	cfg := DefaultVLP32Config()
	cfg.ReturnMode = mode
	return cfg
}

func TestConvertFiringSingle16PointCountAndOrder(t *testing.T) {
	conv, err := FromConfig(vlp16Config(ReturnStrongest))
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	raw := makeRawPacket(sequentialAzimuths(0, 20), ReturnStrongest, ProductVLP16)
	pkt := mustParse(t, raw)

	for _, firing := range ExtractFirings(pkt) {
		fx, err := ConvertFiring(conv, firing)
		if err != nil {
			t.Fatalf("ConvertFiring failed: %v", err)
		}
		s16, ok := fx.AsSingle16()
		if !ok {
			t.Fatalf("expected Single16 FiringXyz")
		}
		if len(s16.Points) != 16 {
			t.Fatalf("expected 16 points, got %d", len(s16.Points))
		}
		var prevTime time.Duration = -1
		for i, p := range s16.Points {
			if p.LaserID != i {
				t.Errorf("point %d has laser_id %d", i, p.LaserID)
			}
			if p.Azimuth < 0 || p.Azimuth >= 360 {
				t.Errorf("point %d azimuth %v out of [0,360)", i, p.Azimuth)
			}
			if p.Time < prevTime {
				t.Errorf("point %d time %v decreased from %v", i, p.Time, prevTime)
			}
			prevTime = p.Time
		}
		if s16.Points[15].Time-s16.Points[0].Time > FiringPeriod {
			t.Errorf("channel time span exceeds FIRING_PERIOD")
		}
	}
}

func TestConvertFiringFormatMismatch(t *testing.T) {
	conv16, err := FromConfig(vlp16Config(ReturnStrongest))
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	raw := makeRawPacket(sequentialAzimuths(0, 20), ReturnStrongest, ProductVLP32C)
	pkt := mustParse(t, raw)
	firing := ExtractFirings(pkt)[0]

	if _, err := ConvertFiring(conv16, firing); err == nil {
		t.Fatal("expected ErrFormatMismatch converting a Single32 firing with a Single16 converter")
	}
}

func TestDualReturnSharesAzimuthAndTime(t *testing.T) {
	conv, err := FromConfig(vlp32Config(ReturnDual))
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	raw := makeRawPacket(sequentialAzimuths(0, 20), ReturnDual, ProductVLP32C)
	pkt := mustParse(t, raw)

	firing := ExtractFirings(pkt)[0]
	fx, err := ConvertFiring(conv, firing)
	if err != nil {
		t.Fatalf("ConvertFiring failed: %v", err)
	}
	d32, ok := fx.AsDual32()
	if !ok {
		t.Fatalf("expected Dual32 FiringXyz")
	}
	for i, p := range d32.Points {
		if i != p.LaserID {
			t.Errorf("point %d: laser_id mismatch", i)
		}
		if want := d32.Time + time.Duration(i/2)*ChannelPeriod; p.Time != want {
			t.Errorf("point %d: time %v, want %v", i, p.Time, want)
		}
		// The fixture gives the strongest and last blocks identical
		// channels, so both returns project to the same xyz only if they
		// share one azimuth, elevation, and offset set.
		if p.Measurement.Strongest.XYZ != p.Measurement.Last.XYZ {
			t.Errorf("point %d: strongest xyz %v != last xyz %v", i, p.Measurement.Strongest.XYZ, p.Measurement.Last.XYZ)
		}
	}
}

func TestConfigValidateWrongLaserCount(t *testing.T) {
	cfg := Config{
		Lasers:             make([]LaserParameter, 15),
		DistanceResolution: DistanceResolution,
		ReturnMode:         ReturnStrongest,
		ProductID:          ProductVLP16,
	}
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected ConfigInvalid for 15-entry laser table on a 16-beam product")
	}
}

func TestConfigValidateNonPositiveDistanceResolution(t *testing.T) {
	cfg := DefaultVLP16Config()
	cfg.DistanceResolution = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected ConfigInvalid for zero distance resolution")
	}
}

func TestConvertFiringDeterministic(t *testing.T) {
	conv, err := FromConfig(vlp16Config(ReturnStrongest))
	if err != nil {
		t.Fatalf("FromConfig failed: %v", err)
	}
	raw := makeRawPacket(sequentialAzimuths(0, 20), ReturnStrongest, ProductVLP16)
	pkt := mustParse(t, raw)
	firing := ExtractFirings(pkt)[0]

	a, err := ConvertFiring(conv, firing)
	if err != nil {
		t.Fatalf("ConvertFiring failed: %v", err)
	}
	b, err := ConvertFiring(conv, firing)
	if err != nil {
		t.Fatalf("ConvertFiring failed: %v", err)
	}
	sa, _ := a.AsSingle16()
	sb, _ := b.AsSingle16()
	if diff := cmp.Diff(sa, sb); diff != "" {
		t.Fatalf("identical inputs produced different outputs (-a +b):\n%s", diff)
	}
}
