package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/tetherhq/tether/internal/flagx"
	"github.com/tetherhq/tether/internal/timex"
)

// JsonConfig is the DTO for reading the client's JSON configuration file.
// After unmarshalling, its fields are copied into the runtime Config.
type JsonConfig struct {
	ServerEndpointAddr string         `json:"server_endpoint_addr"`
	TokenFile          string         `json:"token_file"`
	RequestTimeout     timex.Duration `json:"request_timeout"`
}

// parseJson loads configuration values from the JSON file named by the -c or
// -config flags. If neither flag is set, nothing is loaded. Invalid files
// cause a panic, matching the server-side behavior.
func parseJson(config *Config) {

	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	err = json.Unmarshal(file, c)
	if err != nil {
		panic(err)
	}

	config.ServerEndpointAddr = c.ServerEndpointAddr
	config.TokenFile = c.TokenFile
	config.RequestTimeout = time.Duration(c.RequestTimeout.Duration)
}
