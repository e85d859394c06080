package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseJson(t *testing.T) {

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	dir := t.TempDir()
	path := filepath.Join(dir, "conf.json")

	body := `{
		"endpoint_addr_http": ":8080",
		"database_dsn": "postgres://localhost/tether",
		"secret_key": "json-secret",
		"token_validity_duration": "12h",
		"request_timeout": "3s"
	}`
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))

	os.Args = []string{"cmd", "-c", path}

	config := &Config{}
	parseJson(config)

	assert.Equal(t, ":8080", config.EndpointAddrHTTP)
	assert.Equal(t, "postgres://localhost/tether", config.DatabaseDSN)
	assert.Equal(t, "json-secret", config.SecretKey)
	assert.Equal(t, 12*time.Hour, config.TokenValidityDuration)
	assert.Equal(t, 3*time.Second, config.RequestTimeout)
}

func TestParseJson_NoFlag(t *testing.T) {

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	os.Args = []string{"cmd"}

	config := &Config{}
	config.LoadDefaults()
	before := *config

	parseJson(config)

	assert.Equal(t, before, *config, "config must be untouched when no file is given")
}

func TestParseJson_BadFile(t *testing.T) {

	oldArgs := os.Args
	defer func() { os.Args = oldArgs }()

	dir := t.TempDir()
	path := filepath.Join(dir, "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	os.Args = []string{"cmd", "-c", path}

	config := &Config{}
	require.Panics(t, func() { parseJson(config) })
}
