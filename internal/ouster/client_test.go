package ouster

import (
	"bufio"
	"net"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

// fakeServer answers each incoming line with the corresponding response
// from responses (matched by exact command text) until the connection
// closes. Unmapped commands get the real sensor's default behavior: a
// literal echo of the command name, stripped of any arguments.
func fakeServer(t *testing.T, conn net.Conn, responses map[string]string) {
	t.Helper()
	go func() {
		defer conn.Close()
		scanner := bufio.NewScanner(conn)
		writer := bufio.NewWriter(conn)
		for scanner.Scan() {
			cmd := scanner.Text()
			resp, ok := responses[cmd]
			if !ok {
				resp, _, _ = strings.Cut(cmd, " ")
			}
			writer.WriteString(resp + "\n")
			writer.Flush()
		}
	}()
}

func TestGetConfigTxt(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	fakeServer(t, serverConn, map[string]string{
		"get_config_txt": `{"beam_altitude_angles":[0],"beam_azimuth_angles":[0],"lidar_mode":"1024x10"}`,
	})

	client := NewCommandClient(clientConn)
	cfg, err := client.GetConfigTxt()
	require.NoError(t, err)
	require.Equal(t, Mode1024x10, cfg.LidarMode)
}

func TestReinitializeEcho(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	fakeServer(t, serverConn, map[string]string{
		"reinitialize": "reinitialize",
	})

	client := NewCommandClient(clientConn)
	require.NoError(t, client.Reinitialize())
}

func TestSetConfigParam(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	// The sensor echoes only the command name, not the arguments.
	fakeServer(t, serverConn, map[string]string{
		"set_config_param lidar_mode 1024x10": "set_config_param",
	})

	client := NewCommandClient(clientConn)
	require.NoError(t, client.SetConfigParam("lidar_mode", "1024x10"))
}

func TestSetConfigParamRejectsFullLineEcho(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	fakeServer(t, serverConn, map[string]string{
		"set_config_param lidar_mode 1024x10": "set_config_param lidar_mode 1024x10",
	})

	client := NewCommandClient(clientConn)
	err := client.SetConfigParam("lidar_mode", "1024x10")
	require.ErrorIs(t, err, ErrProtocolUnexpected)
}

func TestUnexpectedEchoIsProtocolError(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	fakeServer(t, serverConn, map[string]string{
		"reinitialize": "not-what-you-expected",
	})

	client := NewCommandClient(clientConn)
	err := client.Reinitialize()
	require.ErrorIs(t, err, ErrProtocolUnexpected)
}

func TestMalformedJSONIsProtocolError(t *testing.T) {
	clientConn, serverConn := net.Pipe()
	defer clientConn.Close()
	fakeServer(t, serverConn, map[string]string{
		"get_time_info": "not json",
	})

	client := NewCommandClient(clientConn)
	_, err := client.GetTimeInfo()
	require.ErrorIs(t, err, ErrProtocolUnexpected)
}
