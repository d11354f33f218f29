// Package config holds the configuration surface consumed by the scan
// engine: transport selection, budget, timeout, output directory, the
// include-LLM-probes flag, and the scanner metadata dictionary. Fields
// are tagged for github.com/caarlos0/env/v11 and loaded through
// LoadFromEnv, a pure environment-variable path a caller can use instead
// of (or alongside) bespoke flag code.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"github.com/redteam-mcp/scanner/internal/constants"
)

// Config is consumed verbatim by the scan engine; it performs no
// CLI/suite-file loading itself (that is an external collaborator's
// concern).
type Config struct {
	// Transport selects "stdio" or "http".
	Transport string `env:"TRANSPORT" envDefault:"stdio"`

	// Command is the subprocess command line, required for stdio transport.
	Command string `env:"COMMAND"`

	// URL is the JSON-RPC endpoint, required for http transport.
	URL string `env:"URL"`

	// Budget is the hard ceiling on callTool invocations within one scan.
	Budget int `env:"BUDGET" envDefault:"50"`

	// TimeoutSeconds is the per-call deadline.
	TimeoutSeconds float64 `env:"TIMEOUT_SECONDS" envDefault:"10.0"`

	// OutDir is where transcript.jsonl, report.json, and report.md are
	// written.
	OutDir string `env:"OUT_DIR" envDefault:"out"`

	// IncludeLLMProbes records whether an LLM-judge collaborator should be
	// invoked; the core never invokes it itself, it only threads the flag
	// through to the emitted report's summary.
	IncludeLLMProbes bool `env:"INCLUDE_LLM_PROBES" envDefault:"false"`

	// FakeMetadataURL is the scanner metadata entry the SSRF probe targets.
	FakeMetadataURL string `env:"FAKE_METADATA_URL" envDefault:"http://127.0.0.1:9100/metadata"`

	// LabSupportsAuthToggle is the scanner metadata entry gating AuthProbe.
	LabSupportsAuthToggle bool `env:"LAB_SUPPORTS_AUTH_TOGGLE" envDefault:"false"`
}

// LoadFromEnv populates a Config from environment variables using the
// env tags on its fields, applying the envDefault values for anything
// unset. Returns a ConfigInvalid-kind error on a malformed environment
// variable (e.g. a non-numeric BUDGET).
func LoadFromEnv() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("ConfigInvalid: parse environment: %w", err)
	}
	return cfg, nil
}

// Timeout returns TimeoutSeconds as a time.Duration.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds * float64(time.Second))
}

// Metadata returns the scanner metadata dictionary the probes consume.
func (c *Config) Metadata() map[string]interface{} {
	return map[string]interface{}{
		"fake_metadata_url":        c.FakeMetadataURL,
		"lab_supports_auth_toggle": c.LabSupportsAuthToggle,
	}
}

// Validate reports a ConfigInvalid-kind error for anything that would
// prevent the scan from starting at all. Configuration errors are fatal
// before scan start; they never surface mid-scan.
func (c *Config) Validate() error {
	switch c.Transport {
	case constants.TransportStdio:
		if c.Command == "" {
			return fmt.Errorf("ConfigInvalid: command is required for stdio transport")
		}
	case constants.TransportHTTP:
		if c.URL == "" {
			return fmt.Errorf("ConfigInvalid: url is required for http transport")
		}
	default:
		return fmt.Errorf("ConfigInvalid: unsupported transport %q", c.Transport)
	}
	if c.Budget <= 0 {
		return fmt.Errorf("ConfigInvalid: budget must be positive, got %d", c.Budget)
	}
	if c.TimeoutSeconds <= 0 {
		return fmt.Errorf("ConfigInvalid: timeout must be positive, got %f", c.TimeoutSeconds)
	}
	if c.OutDir == "" {
		return fmt.Errorf("ConfigInvalid: out dir must not be empty")
	}
	return nil
}

// IsLocalTarget reports whether the configured HTTP target points at a
// loopback address — a signal worth a warning log line, not a hard
// failure, since lab/self-test targets are legitimately loopback.
func (c *Config) IsLocalTarget() bool {
	if c.Transport != constants.TransportHTTP {
		return false
	}
	return hasAnyPrefix(c.URL, "http://127.0.0.1", "http://localhost")
}

func hasAnyPrefix(s string, prefixes ...string) bool {
	for _, p := range prefixes {
		if len(s) >= len(p) && s[:len(p)] == p {
			return true
		}
	}
	return false
}
