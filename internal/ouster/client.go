package ouster

import (
	"bufio"
	"encoding/json"
	"fmt"
	"net"
	"strings"
)

// LidarIntrinsics is the response of get_lidar_intrinsics: the rigid
// transform from the lidar frame into the sensor frame, row-major.
type LidarIntrinsics struct {
	LidarToSensorTransform [16]float64 `json:"lidar_to_sensor_transform"`
}

// ImuIntrinsics is the response of get_imu_intrinsics.
type ImuIntrinsics struct {
	ImuToSensorTransform [16]float64 `json:"imu_to_sensor_transform"`
}

// BeamIntrinsics is the response of get_beam_intrinsics: per-beam
// mounting angles plus the beam-to-lidar-origin offset.
type BeamIntrinsics struct {
	BeamAltitudeAngles                 [PixelsPerColumn]float64 `json:"beam_altitude_angles"`
	BeamAzimuthAngles                  [PixelsPerColumn]float64 `json:"beam_azimuth_angles"`
	LidarOriginToBeamOriginMillimeters float64                  `json:"lidar_origin_to_beam_origin_mm"`
}

// TimeInfoPulse describes one of the sensor's external time-sync inputs.
type TimeInfoPulse struct {
	Locked IntBool `json:"locked"`
	State  string  `json:"state"`
}

// TimeInfo is the response of get_time_info.
type TimeInfo struct {
	TimestampMode      string        `json:"timestamp_mode"`
	SyncPulseIn        TimeInfoPulse `json:"sync_pulse_in"`
	InternalOscillator TimeInfoPulse `json:"internal_oscillator_status"`
}

// CommandClient speaks the Ouster TCP configuration protocol: one
// newline-delimited ASCII command per request, one line per response.
// It is a thin request/response shim; every method blocks for exactly
// one round trip.
type CommandClient struct {
	conn    net.Conn
	scanner *bufio.Scanner
	writer  *bufio.Writer
}

// NewCommandClient wraps an already-established connection.
func NewCommandClient(conn net.Conn) *CommandClient {
	return &CommandClient{
		conn:    conn,
		scanner: bufio.NewScanner(conn),
		writer:  bufio.NewWriter(conn),
	}
}

// Dial opens a TCP connection to addr (host:port, typically port 7501)
// and returns a ready CommandClient.
func Dial(addr string) (*CommandClient, error) {
	conn, err := net.Dial("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("%w: dial %q: %v", ErrIoFailure, addr, err)
	}
	return NewCommandClient(conn), nil
}

// Close closes the underlying connection.
func (c *CommandClient) Close() error {
	return c.conn.Close()
}

func (c *CommandClient) sendCommand(cmd string) (string, error) {
	if _, err := c.writer.WriteString(cmd + "\n"); err != nil {
		return "", fmt.Errorf("%w: writing command %q: %v", ErrIoFailure, cmd, err)
	}
	if err := c.writer.Flush(); err != nil {
		return "", fmt.Errorf("%w: flushing command %q: %v", ErrIoFailure, cmd, err)
	}
	if !c.scanner.Scan() {
		if err := c.scanner.Err(); err != nil {
			return "", fmt.Errorf("%w: reading response to %q: %v", ErrIoFailure, cmd, err)
		}
		return "", fmt.Errorf("%w: connection closed awaiting response to %q", ErrIoFailure, cmd)
	}
	return c.scanner.Text(), nil
}

func (c *CommandClient) sendCommandJSON(cmd string, out interface{}) error {
	line, err := c.sendCommand(cmd)
	if err != nil {
		return err
	}
	if err := json.Unmarshal([]byte(line), out); err != nil {
		return fmt.Errorf("%w: decoding response to %q: %v", ErrProtocolUnexpected, cmd, err)
	}
	return nil
}

// sendCommandEcho issues cmd and expects the sensor to echo the command
// name — the first word of cmd, not the argument-bearing line — as the
// entire response.
func (c *CommandClient) sendCommandEcho(cmd string) error {
	line, err := c.sendCommand(cmd)
	if err != nil {
		return err
	}
	name, _, _ := strings.Cut(cmd, " ")
	if line != name {
		return fmt.Errorf("%w: expected echo %q, got %q", ErrProtocolUnexpected, name, line)
	}
	return nil
}

// GetConfigTxt retrieves the current sensor configuration.
func (c *CommandClient) GetConfigTxt() (*Config, error) {
	var cfg Config
	if err := c.sendCommandJSON("get_config_txt", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// GetTimeInfo retrieves the sensor's time-synchronization status.
func (c *CommandClient) GetTimeInfo() (*TimeInfo, error) {
	var info TimeInfo
	if err := c.sendCommandJSON("get_time_info", &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// GetLidarIntrinsics retrieves the lidar-to-sensor-frame transform.
func (c *CommandClient) GetLidarIntrinsics() (*LidarIntrinsics, error) {
	var v LidarIntrinsics
	if err := c.sendCommandJSON("get_lidar_intrinsics", &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetImuIntrinsics retrieves the IMU-to-sensor-frame transform.
func (c *CommandClient) GetImuIntrinsics() (*ImuIntrinsics, error) {
	var v ImuIntrinsics
	if err := c.sendCommandJSON("get_imu_intrinsics", &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// GetBeamIntrinsics retrieves the per-beam mounting calibration.
func (c *CommandClient) GetBeamIntrinsics() (*BeamIntrinsics, error) {
	var v BeamIntrinsics
	if err := c.sendCommandJSON("get_beam_intrinsics", &v); err != nil {
		return nil, err
	}
	return &v, nil
}

// Reinitialize requests the sensor restart its data pipeline.
func (c *CommandClient) Reinitialize() error {
	return c.sendCommandEcho("reinitialize")
}

// WriteConfigTxt persists the currently staged configuration to the
// sensor's non-volatile storage.
func (c *CommandClient) WriteConfigTxt() error {
	return c.sendCommandEcho("write_config_txt")
}

// SetConfigParam stages one configuration parameter by name/value, to
// be persisted by a subsequent WriteConfigTxt.
func (c *CommandClient) SetConfigParam(name, value string) error {
	return c.sendCommandEcho(fmt.Sprintf("set_config_param %s %s", name, value))
}
