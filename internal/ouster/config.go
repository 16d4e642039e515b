package ouster

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
)

// PixelsPerColumn is the fixed beam count every Ouster config array is
// sized to.
const PixelsPerColumn = 64

// LidarMode names one of the sensor's fixed resolution/rotation-rate
// combinations.
type LidarMode string

const (
	Mode512x10  LidarMode = "512x10"
	Mode512x20  LidarMode = "512x20"
	Mode1024x10 LidarMode = "1024x10"
	Mode1024x20 LidarMode = "1024x20"
	Mode2048x10 LidarMode = "2048x10"
)

// IntBool is a bool that marshals as the JSON integers 0/1 instead of
// true/false, matching the wire convention some Ouster response fields
// use.
type IntBool bool

func (b IntBool) MarshalJSON() ([]byte, error) {
	if b {
		return []byte("1"), nil
	}
	return []byte("0"), nil
}

func (b *IntBool) UnmarshalJSON(data []byte) error {
	switch string(data) {
	case "0":
		*b = false
	case "1":
		*b = true
	default:
		return fmt.Errorf("%w: expected JSON 0 or 1 for bool field, got %s", ErrProtocolUnexpected, data)
	}
	return nil
}

// Config is the Ouster sensor configuration document, as returned by
// get_config_txt and consumed by write_config_txt.
type Config struct {
	BeamAltitudeAngles [PixelsPerColumn]float64 `json:"beam_altitude_angles"`
	BeamAzimuthAngles  [PixelsPerColumn]float64 `json:"beam_azimuth_angles"`
	LidarMode          LidarMode                `json:"lidar_mode"`
}

// LoadConfigFile reads and parses a Config JSON document from path.
func LoadConfigFile(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open config file %q: %v", ErrIoFailure, path, err)
	}
	defer f.Close()
	return LoadConfigReader(f)
}

// LoadConfigReader parses a Config JSON document from r.
func LoadConfigReader(r io.Reader) (*Config, error) {
	var cfg Config
	if err := json.NewDecoder(r).Decode(&cfg); err != nil {
		return nil, fmt.Errorf("%w: decoding config: %v", ErrProtocolUnexpected, err)
	}
	return &cfg, nil
}

// ParseConfigJSON parses a Config JSON document from a byte slice.
func ParseConfigJSON(data []byte) (*Config, error) {
	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("%w: decoding config: %v", ErrProtocolUnexpected, err)
	}
	return &cfg, nil
}

// OS1Config returns placeholder default configuration for an Ouster
// OS-1, mirroring the firmware default's lidar_mode. The angle arrays
// are left zeroed: like DefaultVLP16Config in the velodyne package,
// this is a starting point for tests and CLI defaults, not a substitute
// for a real factory calibration.
func OS1Config() Config {
	return Config{LidarMode: Mode1024x10}
}
