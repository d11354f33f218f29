// Package signals implements the pure detectors that inspect a response
// payload (and timing) for canary leakage, error-trace leakage, metadata
// exfiltration, and latency anomalies. Every function here is a pure
// function of its inputs: same input, same output, no side effects
// (same input, same output, no side effects).
package signals

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
)

// errorPatterns are matched case-insensitively against the stringified
// response payload. Package-level and immutable.
var errorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)Traceback`),
	regexp.MustCompile(`(?i)Exception`),
	regexp.MustCompile(`(?i)File "[^"]+"`),
}

const (
	canaryMarker = "CANARY_SECRET"
	ssrfMarker   = "FAKE_METADATA_TOKEN"
)

// Evidence is a single piece of proof that a probe succeeded, carrying the
// triggering request id so a report can hyperlink back to the transcript.
type Evidence struct {
	Signal       string `json:"signal"`
	Detail       string `json:"detail"`
	TranscriptID int    `json:"transcript_id"`
}

// stringify renders a response payload the same way detectors inspect it:
// a single string covering the whole structure, so a marker anywhere in a
// nested value is found regardless of its key.
func stringify(payload map[string]interface{}) string {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Sprintf("%v", payload)
	}
	return string(raw)
}

// DetectErrorLeak produces one evidence if the payload contains a
// stack-trace-shaped substring.
func DetectErrorLeak(payload map[string]interface{}, transcriptID int) []Evidence {
	text := stringify(payload)
	for _, pattern := range errorPatterns {
		if pattern.MatchString(text) {
			return []Evidence{{
				Signal:       "ErrorLeakSignal",
				Detail:       "Potential stack trace or exception leakage",
				TranscriptID: transcriptID,
			}}
		}
	}
	return nil
}

// DetectCanary produces one evidence if the planted canary literal
// appears in the payload.
func DetectCanary(payload map[string]interface{}, transcriptID int) []Evidence {
	if strings.Contains(stringify(payload), canaryMarker) {
		return []Evidence{{
			Signal:       "CanarySignal",
			Detail:       "Canary value detected in response",
			TranscriptID: transcriptID,
		}}
	}
	return nil
}

// DetectSSRF produces one evidence if the fake metadata token appears in
// the payload.
func DetectSSRF(payload map[string]interface{}, transcriptID int) []Evidence {
	if strings.Contains(stringify(payload), ssrfMarker) {
		return []Evidence{{
			Signal:       "SSRFSignal",
			Detail:       "Fake metadata token detected",
			TranscriptID: transcriptID,
		}}
	}
	return nil
}

// DetectTiming produces one evidence if the measured latency meets or
// exceeds the threshold.
func DetectTiming(latencyMs, thresholdMs float64, transcriptID int) []Evidence {
	if latencyMs >= thresholdMs {
		return []Evidence{{
			Signal:       "TimingSignal",
			Detail:       fmt.Sprintf("Latency %.1fms exceeds threshold %.1fms", latencyMs, thresholdMs),
			TranscriptID: transcriptID,
		}}
	}
	return nil
}
