package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/redteam-mcp/scanner/internal/constants"
)

func validConfig() *Config {
	return &Config{
		Transport:      constants.TransportStdio,
		Command:        "python3 server.py",
		Budget:         10,
		TimeoutSeconds: 5,
		OutDir:         "out",
	}
}

func TestValidateRequiresCommandForStdio(t *testing.T) {
	cfg := validConfig()
	cfg.Command = ""
	assert.Error(t, cfg.Validate())
}

func TestValidateRequiresURLForHTTP(t *testing.T) {
	cfg := validConfig()
	cfg.Transport = constants.TransportHTTP
	cfg.URL = ""
	assert.Error(t, cfg.Validate())

	cfg.URL = "http://localhost:8000/rpc"
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsUnsupportedTransport(t *testing.T) {
	cfg := validConfig()
	cfg.Transport = "carrier-pigeon"
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsNonPositiveBudgetAndTimeout(t *testing.T) {
	cfg := validConfig()
	cfg.Budget = 0
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.TimeoutSeconds = 0
	assert.Error(t, cfg.Validate())
}

func TestIsLocalTargetOnlyAppliesToHTTP(t *testing.T) {
	cfg := validConfig()
	cfg.Transport = constants.TransportHTTP
	cfg.URL = "http://127.0.0.1:9100/rpc"
	assert.True(t, cfg.IsLocalTarget())

	cfg.URL = "http://example.com/rpc"
	assert.False(t, cfg.IsLocalTarget())

	stdioCfg := validConfig()
	assert.False(t, stdioCfg.IsLocalTarget())
}

func TestMetadataExposesProbeInputs(t *testing.T) {
	cfg := validConfig()
	cfg.FakeMetadataURL = "http://169.254.169.254/latest/meta-data"
	cfg.LabSupportsAuthToggle = true

	md := cfg.Metadata()
	assert.Equal(t, "http://169.254.169.254/latest/meta-data", md["fake_metadata_url"])
	assert.Equal(t, true, md["lab_supports_auth_toggle"])
}

func TestLoadFromEnvAppliesDefaults(t *testing.T) {
	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, constants.TransportStdio, cfg.Transport)
	assert.Equal(t, constants.DefaultBudget, cfg.Budget)
	assert.Equal(t, constants.DefaultTimeoutSeconds, cfg.TimeoutSeconds)
	assert.Equal(t, constants.DefaultOutDir, cfg.OutDir)
	assert.Equal(t, constants.DefaultFakeMetadataURL, cfg.FakeMetadataURL)
}

func TestLoadFromEnvReadsVariables(t *testing.T) {
	t.Setenv("TRANSPORT", "http")
	t.Setenv("URL", "http://127.0.0.1:8000/rpc")
	t.Setenv("BUDGET", "7")
	t.Setenv("TIMEOUT_SECONDS", "2.5")
	t.Setenv("LAB_SUPPORTS_AUTH_TOGGLE", "true")

	cfg, err := LoadFromEnv()
	require.NoError(t, err)

	assert.Equal(t, constants.TransportHTTP, cfg.Transport)
	assert.Equal(t, "http://127.0.0.1:8000/rpc", cfg.URL)
	assert.Equal(t, 7, cfg.Budget)
	assert.Equal(t, 2.5, cfg.TimeoutSeconds)
	assert.True(t, cfg.LabSupportsAuthToggle)
}

func TestLoadFromEnvRejectsMalformedValue(t *testing.T) {
	t.Setenv("BUDGET", "not-a-number")
	_, err := LoadFromEnv()
	assert.Error(t, err)
}
