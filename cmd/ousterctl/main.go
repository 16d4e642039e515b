// Command ousterctl issues one Ouster TCP configuration command against
// a sensor and prints the result.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/jerry73204/go-velodyne-lidar/internal/ouster"
)

var (
	addr = flag.String("addr", "", "sensor address, host:port (typically port 7501)")
)

func main() {
	flag.Parse()
	args := flag.Args()
	if *addr == "" || len(args) == 0 {
		fmt.Fprintln(os.Stderr, "usage: ousterctl -addr host:7501 <command> [args...]")
		fmt.Fprintln(os.Stderr, "commands: get_config_txt, get_time_info, get_lidar_intrinsics, get_imu_intrinsics, get_beam_intrinsics, reinitialize, write_config_txt, set_config_param <name> <value>")
		os.Exit(2)
	}

	client, err := ouster.Dial(*addr)
	if err != nil {
		log.Fatalf("ousterctl: %v", err)
	}
	defer client.Close()

	cmd := args[0]
	var result interface{}

	switch cmd {
	case "get_config_txt":
		result, err = client.GetConfigTxt()
	case "get_time_info":
		result, err = client.GetTimeInfo()
	case "get_lidar_intrinsics":
		result, err = client.GetLidarIntrinsics()
	case "get_imu_intrinsics":
		result, err = client.GetImuIntrinsics()
	case "get_beam_intrinsics":
		result, err = client.GetBeamIntrinsics()
	case "reinitialize":
		err = client.Reinitialize()
		result = map[string]string{"status": "ok"}
	case "write_config_txt":
		err = client.WriteConfigTxt()
		result = map[string]string{"status": "ok"}
	case "set_config_param":
		if len(args) != 3 {
			log.Fatal("ousterctl: set_config_param requires <name> <value>")
		}
		err = client.SetConfigParam(args[1], args[2])
		result = map[string]string{"status": "ok"}
	default:
		log.Fatalf("ousterctl: unknown command %q", cmd)
	}

	if err != nil {
		log.Fatalf("ousterctl: %s failed: %v", cmd, err)
	}

	out, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("ousterctl: encoding result: %v", err)
	}
	fmt.Println(string(out))
}
