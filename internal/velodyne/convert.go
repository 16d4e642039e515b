package velodyne

import (
	"math"
	"time"
)

// FiringXyzS16 is a projected Single16 firing.
type FiringXyzS16 struct {
	Time         time.Duration
	AzimuthRange AzimuthRange
	Points       [16]PointS
}

// FiringXyzS32 is a projected Single32 firing.
type FiringXyzS32 struct {
	Time         time.Duration
	AzimuthRange AzimuthRange
	Points       [32]PointS
}

// FiringXyzD16 is a projected Dual16 firing.
type FiringXyzD16 struct {
	Time         time.Duration
	AzimuthRange AzimuthRange
	Points       [16]PointD
}

// FiringXyzD32 is a projected Dual32 firing.
type FiringXyzD32 struct {
	Time         time.Duration
	AzimuthRange AzimuthRange
	Points       [32]PointD
}

func (f FiringXyzS16) StartAzimuth() float64 { return f.AzimuthRange.StartAzimuth() }
func (f FiringXyzS32) StartAzimuth() float64 { return f.AzimuthRange.StartAzimuth() }
func (f FiringXyzD16) StartAzimuth() float64 { return f.AzimuthRange.StartAzimuth() }
func (f FiringXyzD32) StartAzimuth() float64 { return f.AzimuthRange.StartAzimuth() }

// FiringXyz is the format-polymorphic wrapper around a projected firing.
type FiringXyz = FormatKind[FiringXyzS16, FiringXyzS32, FiringXyzD16, FiringXyzD32]

// ConverterS16 projects Single16 firings using a fixed 16-entry
// calibration table.
type ConverterS16 struct {
	Lasers             [16]LaserParameter
	DistanceResolution float64
}

// ConverterS32 projects Single32 firings using a fixed 32-entry
// calibration table.
type ConverterS32 struct {
	Lasers             [32]LaserParameter
	DistanceResolution float64
}

// ConverterD16 projects Dual16 firings.
type ConverterD16 struct {
	Lasers             [16]LaserParameter
	DistanceResolution float64
}

// ConverterD32 projects Dual32 firings.
type ConverterD32 struct {
	Lasers             [32]LaserParameter
	DistanceResolution float64
}

// ConverterKind is the format-polymorphic wrapper around a converter,
// built once from a Config via FromConfig and reused for every packet
// of that device.
type ConverterKind = FormatKind[ConverterS16, ConverterS32, ConverterD16, ConverterD32]

// FromConfig builds the converter variant matching cfg.FiringFormat().
// It fails with ErrConfigInvalid if the laser table length does not
// match the beam count.
func FromConfig(cfg Config) (ConverterKind, error) {
	if err := cfg.Validate(); err != nil {
		return ConverterKind{}, err
	}

	switch cfg.FiringFormat() {
	case Single16:
		var c ConverterS16
		copy(c.Lasers[:], cfg.Lasers)
		c.DistanceResolution = cfg.DistanceResolution
		return NewSingle16[ConverterS16, ConverterS32, ConverterD16, ConverterD32](c), nil
	case Single32:
		var c ConverterS32
		copy(c.Lasers[:], cfg.Lasers)
		c.DistanceResolution = cfg.DistanceResolution
		return NewSingle32[ConverterS16, ConverterS32, ConverterD16, ConverterD32](c), nil
	case Dual16:
		var c ConverterD16
		copy(c.Lasers[:], cfg.Lasers)
		c.DistanceResolution = cfg.DistanceResolution
		return NewDual16[ConverterS16, ConverterS32, ConverterD16, ConverterD32](c), nil
	default:
		var c ConverterD32
		copy(c.Lasers[:], cfg.Lasers)
		c.DistanceResolution = cfg.DistanceResolution
		return NewDual32[ConverterS16, ConverterS32, ConverterD16, ConverterD32](c), nil
	}
}

// ConvertFiring dispatches firing to the converter variant matching its
// own tag and returns the projected FiringXyz. A firing whose variant
// does not match conv's is reported as ErrFormatMismatch.
func ConvertFiring(conv ConverterKind, firing Firing) (FiringXyz, error) {
	switch firing.Format() {
	case Single16:
		c, ok := conv.AsSingle16()
		if !ok {
			return FiringXyz{}, formatMismatch(conv.Format(), firing.Format())
		}
		f, _ := firing.AsSingle16()
		return NewSingle16[FiringXyzS16, FiringXyzS32, FiringXyzD16, FiringXyzD32](c.convert(f)), nil
	case Single32:
		c, ok := conv.AsSingle32()
		if !ok {
			return FiringXyz{}, formatMismatch(conv.Format(), firing.Format())
		}
		f, _ := firing.AsSingle32()
		return NewSingle32[FiringXyzS16, FiringXyzS32, FiringXyzD16, FiringXyzD32](c.convert(f)), nil
	case Dual16:
		c, ok := conv.AsDual16()
		if !ok {
			return FiringXyz{}, formatMismatch(conv.Format(), firing.Format())
		}
		f, _ := firing.AsDual16()
		return NewDual16[FiringXyzS16, FiringXyzS32, FiringXyzD16, FiringXyzD32](c.convert(f)), nil
	default:
		c, ok := conv.AsDual32()
		if !ok {
			return FiringXyz{}, formatMismatch(conv.Format(), firing.Format())
		}
		f, _ := firing.AsDual32()
		return NewDual32[FiringXyzS16, FiringXyzS32, FiringXyzD16, FiringXyzD32](c.convert(f)), nil
	}
}

func formatMismatch(converterFmt, firingFmt FiringFormat) error {
	return &formatMismatchError{converter: converterFmt, firing: firingFmt}
}

type formatMismatchError struct {
	converter, firing FiringFormat
}

func (e *formatMismatchError) Error() string {
	return ErrFormatMismatch.Error() + ": converter is " + e.converter.String() + ", firing is " + e.firing.String()
}

func (e *formatMismatchError) Unwrap() error { return ErrFormatMismatch }

func (c ConverterS16) convert(f FiringS16) FiringXyzS16 {
	out := FiringXyzS16{Time: f.Time, AzimuthRange: f.AzimuthRange}
	for k := 0; k < 16; k++ {
		channelTime := f.Time + time.Duration(k)*ChannelPeriod
		out.Points[k] = projectSingle(k, c.Lasers[k], c.DistanceResolution, f.Channels[k], f.Time, channelTime, f.AzimuthRange)
	}
	return out
}

func (c ConverterS32) convert(f FiringS32) FiringXyzS32 {
	out := FiringXyzS32{Time: f.Time, AzimuthRange: f.AzimuthRange}
	for k := 0; k < 32; k++ {
		channelTime := f.Time + time.Duration(k/2)*ChannelPeriod
		out.Points[k] = projectSingle(k, c.Lasers[k], c.DistanceResolution, f.Channels[k], f.Time, channelTime, f.AzimuthRange)
	}
	return out
}

func (c ConverterD16) convert(f FiringD16) FiringXyzD16 {
	out := FiringXyzD16{Time: f.Time, AzimuthRange: f.AzimuthRange}
	for k := 0; k < 16; k++ {
		channelTime := f.Time + time.Duration(k)*ChannelPeriod
		out.Points[k] = projectDual(k, c.Lasers[k], c.DistanceResolution, f.Strongest[k], f.Last[k], f.Time, channelTime, f.AzimuthRange)
	}
	return out
}

func (c ConverterD32) convert(f FiringD32) FiringXyzD32 {
	out := FiringXyzD32{Time: f.Time, AzimuthRange: f.AzimuthRange}
	for k := 0; k < 32; k++ {
		channelTime := f.Time + time.Duration(k/2)*ChannelPeriod
		out.Points[k] = projectDual(k, c.Lasers[k], c.DistanceResolution, f.Strongest[k], f.Last[k], f.Time, channelTime, f.AzimuthRange)
	}
	return out
}

// channelAzimuth computes the interpolated, normalized azimuth for one
// channel given its laser's azimuth offset.
func channelAzimuth(az AzimuthRange, firingTime, channelTime time.Duration, offsetDeg float64) float64 {
	ratio := float64(channelTime-firingTime) / float64(FiringPeriod)
	raw := az.Start + (az.End-az.Start)*ratio + offsetDeg
	return normalizeDegrees(raw)
}

// sphericalToXYZ projects a spherical measurement into the sensor
// frame: +y forward, azimuth clockwise from +y.
func sphericalToXYZ(distance, elevationDeg, azimuthDeg, vOffset, hOffset float64) [3]float64 {
	elev := degreesToRadians(elevationDeg)
	az := degreesToRadians(azimuthDeg)

	dPlane := distance*math.Cos(elev) - vOffset*math.Sin(elev)
	x := dPlane*math.Sin(az) - hOffset*math.Cos(az)
	y := dPlane*math.Cos(az) + hOffset*math.Sin(az)
	z := distance*math.Sin(elev) + vOffset*math.Cos(elev)
	return [3]float64{x, y, z}
}

func projectSingle(laserID int, laser LaserParameter, distRes float64, ch Channel, firingTime, channelTime time.Duration, az AzimuthRange) PointS {
	azimuth := channelAzimuth(az, firingTime, channelTime, laser.AzimuthOffsetDeg)
	distance := float64(ch.Distance) * distRes
	xyz := sphericalToXYZ(distance, laser.ElevationDeg, azimuth, laser.VerticalOffset, laser.HorizontalOffset)
	return PointS{
		LaserID: laserID,
		Time:    channelTime,
		Azimuth: azimuth,
		Measurement: Measurement{
			Distance:  distance,
			Intensity: ch.Intensity,
			XYZ:       xyz,
		},
	}
}

func projectDual(laserID int, laser LaserParameter, distRes float64, strongest, last Channel, firingTime, channelTime time.Duration, az AzimuthRange) PointD {
	azimuth := channelAzimuth(az, firingTime, channelTime, laser.AzimuthOffsetDeg)

	toMeasurement := func(ch Channel) Measurement {
		distance := float64(ch.Distance) * distRes
		xyz := sphericalToXYZ(distance, laser.ElevationDeg, azimuth, laser.VerticalOffset, laser.HorizontalOffset)
		return Measurement{Distance: distance, Intensity: ch.Intensity, XYZ: xyz}
	}

	return PointD{
		LaserID: laserID,
		Time:    channelTime,
		Azimuth: azimuth,
		Measurement: MeasurementDual{
			Strongest: toMeasurement(strongest),
			Last:      toMeasurement(last),
		},
	}
}
