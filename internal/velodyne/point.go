package velodyne

import "time"

// Measurement is one projected return: a physical distance/intensity
// pair plus its sensor-frame Cartesian coordinates.
type Measurement struct {
	Distance  float64 // meters
	Intensity uint8
	XYZ       [3]float64
}

// MeasurementDual bundles the strongest and last returns for one laser
// in dual-return mode. Both share timing, azimuth, elevation, and mount
// offsets; only distance and intensity differ.
type MeasurementDual struct {
	Strongest Measurement
	Last      Measurement
}

// PointS is one single-return projected point.
type PointS struct {
	LaserID     int
	Time        time.Duration
	Azimuth     float64 // degrees, normalized to [0, 360)
	Measurement Measurement
}

// PointD is one dual-return projected point.
type PointD struct {
	LaserID     int
	Time        time.Duration
	Azimuth     float64
	Measurement MeasurementDual
}
