package velodyne

import "fmt"

// LaserParameter is the per-beam intrinsic calibration for one laser:
// mounting elevation, azimuth offset, and the two linear mount offsets.
// Angles are in degrees; offsets are in meters.
type LaserParameter struct {
	ElevationDeg     float64
	AzimuthOffsetDeg float64
	VerticalOffset   float64
	HorizontalOffset float64
}

// Config describes a device's calibration and wire parameters, ordered
// by laser_id (0..N). FiringFormat() derives which of the four
// (return-mode × beam-count) variants this config targets.
type Config struct {
	Lasers             []LaserParameter
	DistanceResolution float64
	ReturnMode         ReturnMode
	ProductID          ProductID
}

// FiringFormat collapses (ReturnMode, ProductID) into one of the four
// named variants, mirroring Packet.FiringFormat.
func (c Config) FiringFormat() FiringFormat {
	count, _ := c.ProductID.BeamCount()
	return firingFormatOf(c.ReturnMode, count)
}

// Validate checks that the laser table length matches the product's
// beam count and that the distance resolution is strictly positive.
func (c Config) Validate() error {
	count, ok := c.ProductID.BeamCount()
	if !ok {
		return fmt.Errorf("%w: unrecognized product id 0x%02x", ErrConfigInvalid, uint8(c.ProductID))
	}
	if len(c.Lasers) != count {
		return fmt.Errorf("%w: expected %d lasers for product id 0x%02x, got %d", ErrConfigInvalid, count, uint8(c.ProductID), len(c.Lasers))
	}
	if c.DistanceResolution <= 0 {
		return fmt.Errorf("%w: distance resolution must be positive, got %v", ErrConfigInvalid, c.DistanceResolution)
	}
	if !c.ReturnMode.valid() {
		return fmt.Errorf("%w: unrecognized return mode 0x%02x", ErrConfigInvalid, uint8(c.ReturnMode))
	}
	return nil
}

// DefaultVLP16Config returns a Single-return VLP-16 configuration with
// zeroed laser calibration and the standard distance resolution. It is
// meant as a starting point for tests and CLI defaults, not as a
// substitute for a real factory calibration table.
func DefaultVLP16Config() Config {
	return Config{
		Lasers:             make([]LaserParameter, 16),
		DistanceResolution: DistanceResolution,
		ReturnMode:         ReturnStrongest,
		ProductID:          ProductVLP16,
	}
}

// DefaultVLP32Config mirrors DefaultVLP16Config for the 32-beam variant.
func DefaultVLP32Config() Config {
	return Config{
		Lasers:             make([]LaserParameter, 32),
		DistanceResolution: DistanceResolution,
		ReturnMode:         ReturnStrongest,
		ProductID:          ProductVLP32C,
	}
}
