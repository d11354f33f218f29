// Package scanner orchestrates a single scan end-to-end: handshake,
// discovery, static prompt-injection scanning, ranked dynamic fuzzing under
// a budget, and final report assembly. It is the single place that wires
// the leaf packages (transport, mcpclient, transcript, heuristics, probes,
// signals) into one coherent run — single-shot and synchronous rather
// than a long-lived server, matching the engine's single-threaded,
// synchronous top level.
package scanner

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/redteam-mcp/scanner/internal/config"
	"github.com/redteam-mcp/scanner/internal/constants"
	"github.com/redteam-mcp/scanner/internal/heuristics"
	"github.com/redteam-mcp/scanner/internal/mcpclient"
	"github.com/redteam-mcp/scanner/internal/probes"
	"github.com/redteam-mcp/scanner/internal/signals"
	"github.com/redteam-mcp/scanner/internal/transcript"
	"github.com/redteam-mcp/scanner/internal/transport"
)

// severityByProbe maps a probe's name to the severity assigned to any
// finding it produces.
var severityByProbe = map[string]string{
	"PathTraversalProbe":   constants.SeverityHigh,
	"SSRFProbe":            constants.SeverityHigh,
	"CmdInjectionProbe":    constants.SeverityHigh,
	"DoSProbe":             constants.SeverityMedium,
	"AuthProbe":            constants.SeverityMedium,
	"SchemaConfusionProbe": constants.SeverityLow,
	"PromptInjectionProbe": constants.SeverityLow,
}

// Runner holds the configuration and logger for a single scan. It is not
// reused across scans.
type Runner struct {
	cfg    *config.Config
	logger *slog.Logger

	// transportOverride lets package-internal tests substitute a scripted
	// transport.Transport for the real stdio/HTTP variants without
	// spawning a subprocess or HTTP server. Nil in production use.
	transportOverride transport.Transport

	// buildTransportErrOverride lets package-internal tests force
	// buildTransport to fail, the way a real stdio subprocess failing to
	// spawn would, without depending on the host's shell. Nil in
	// production use.
	buildTransportErrOverride error
}

// NewRunner constructs a Runner. A nil logger defaults to slog.Default().
func NewRunner(cfg *config.Config, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{cfg: cfg, logger: logger}
}

// Run is the package-level convenience entry point most callers want: the
// library boundary this engine exposes to its external collaborators (a
// CLI, a suite runner, a test harness).
func Run(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*Report, error) {
	return NewRunner(cfg, logger).Run(ctx)
}

// Run executes the six-state scan: Init, Handshake,
// Discovery, Static Scan, Dynamic Scan, Teardown. Teardown runs on every
// exit path, including configuration and transport faults that occur
// after the transcript/client are constructed.
func (r *Runner) Run(ctx context.Context) (*Report, error) {
	if err := r.cfg.Validate(); err != nil {
		return nil, err
	}
	if r.cfg.IsLocalTarget() {
		r.logger.Warn("scan target is a loopback address", "url", r.cfg.URL)
	}

	// Init. The transport is built before any output file is created: a
	// fatal failure here (e.g. the stdio subprocess fails to spawn) must
	// leave no output files on disk at all, so transcript/report creation
	// is deferred until the transport is known to be usable.
	tport, target, err := r.buildTransport()
	if err != nil {
		return nil, err
	}
	client := mcpclient.New(tport)

	if err := os.MkdirAll(r.cfg.OutDir, 0o755); err != nil {
		client.Close()
		return nil, fmt.Errorf("ConfigInvalid: create out dir: %w", err)
	}

	tw, err := transcript.New(filepath.Join(r.cfg.OutDir, constants.TranscriptFileName))
	if err != nil {
		client.Close()
		return nil, fmt.Errorf("ConfigInvalid: %w", err)
	}

	defer func() {
		if err := client.Close(); err != nil {
			r.logger.Warn("error closing transport", "error", err)
		}
		if err := tw.Close(); err != nil {
			r.logger.Warn("error closing transcript", "error", err)
		}
	}()

	timeout := r.cfg.Timeout()
	thresholdMs := r.cfg.TimeoutSeconds * 1000 * constants.TimingThresholdRatio
	metadata := r.cfg.Metadata()

	// Handshake — do not abort the scan on error, record and proceed.
	initReq, initResp, initErr := client.Initialize(ctx, timeout)
	r.record(tw, constants.MethodInitialize, map[string]interface{}{
		"protocolVersion": constants.MCPProtocolVersion,
		"capabilities":    map[string]interface{}{},
	}, initReq, initResp, initErr)

	// Discovery.
	toolsReq, toolsResp, tools, toolsErr := client.ListTools(ctx, timeout)
	r.record(tw, constants.MethodListTools, map[string]interface{}{}, toolsReq, toolsResp, toolsErr)

	resourcesReq, resourcesResp, resources, resourcesErr := client.ListResources(ctx, timeout)
	r.record(tw, constants.MethodListResources, map[string]interface{}{}, resourcesReq, resourcesResp, resourcesErr)

	promptsReq, promptsResp, prompts, promptsErr := client.ListPrompts(ctx, timeout)
	r.record(tw, constants.MethodListPrompts, map[string]interface{}{}, promptsReq, promptsResp, promptsErr)

	var findings []Finding

	// Static Scan: PromptInjection runs over discovery results, before any
	// dynamic finding and before any callTool invocation.
	promptProbe := &probes.PromptInjectionProbe{}
	for _, pf := range promptProbe.Scan(tools, resources, prompts) {
		findings = append(findings, Finding{
			Severity:    severityByProbe[promptProbe.Name()],
			Confidence:  constants.ConfidenceLow,
			ToolName:    pf.Location,
			ProbeName:   promptProbe.Name(),
			Description: "Potential prompt injection pattern detected",
			ReproArgs:   map[string]interface{}{},
			Evidence: []signals.Evidence{{
				Signal:       "PromptInjectionSignal",
				Detail:       fmt.Sprintf("Matched content: %s", pf.Content),
				TranscriptID: 0,
			}},
			Remediation: constants.RemediationDefault,
		})
	}

	// Dynamic Scan: ranked tools, fixed probe order, budget-bounded.
	testsRun := 0
	ranked := heuristics.RankTools(tools)

dynamicScan:
	for _, risk := range ranked {
		tool := risk.Tool
		for _, probe := range probes.Registry {
			for _, tc := range probe.Generate(tool, metadata) {
				if testsRun >= r.cfg.Budget {
					break dynamicScan
				}
				testsRun++

				callReq, callResp, callErr := client.CallTool(ctx, tc.ToolName, tc.Args, timeout)
				r.record(tw, constants.MethodCallTool, map[string]interface{}{
					"name":      tc.ToolName,
					"arguments": tc.Args,
				}, callReq, callResp, callErr)

				if callErr != nil {
					continue
				}

				payload := callResp.Payload()
				var evidence []signals.Evidence
				evidence = append(evidence, signals.DetectErrorLeak(payload, callReq.ID)...)
				evidence = append(evidence, signals.DetectCanary(payload, callReq.ID)...)
				evidence = append(evidence, signals.DetectSSRF(payload, callReq.ID)...)
				evidence = append(evidence, signals.DetectTiming(callResp.Latency, thresholdMs, callReq.ID)...)

				if len(evidence) > 0 {
					findings = append(findings, Finding{
						Severity:    severityByProbe[tc.ProbeName],
						Confidence:  constants.ConfidenceHigh,
						ToolName:    tc.ToolName,
						ProbeName:   tc.ProbeName,
						Description: fmt.Sprintf("Probe %s triggered signals", tc.ProbeName),
						ReproArgs:   tc.Args,
						Evidence:    evidence,
						Remediation: constants.RemediationDefault,
					})
				}
			}
		}
	}

	report := &Report{
		Summary: Summary{
			ScanID:           uuid.NewString(),
			Target:           target,
			ToolCount:        len(tools),
			TestsRun:         testsRun,
			IncludeLLMProbes: r.cfg.IncludeLLMProbes,
		},
		Findings: findings,
	}

	if err := report.WriteJSON(filepath.Join(r.cfg.OutDir, constants.ReportJSONFileName)); err != nil {
		return nil, err
	}
	if err := report.WriteMarkdown(filepath.Join(r.cfg.OutDir, constants.ReportMDFileName)); err != nil {
		return nil, err
	}

	return report, nil
}

// buildTransport constructs the configured transport variant and returns
// the human-readable target identifier for the report summary.
func (r *Runner) buildTransport() (transport.Transport, string, error) {
	if r.buildTransportErrOverride != nil {
		return nil, "", r.buildTransportErrOverride
	}
	if r.transportOverride != nil {
		return r.transportOverride, r.cfg.URL + r.cfg.Command, nil
	}
	switch r.cfg.Transport {
	case constants.TransportStdio:
		t, err := transport.NewStdioTransport(r.cfg.Command, r.logger)
		if err != nil {
			return nil, "", fmt.Errorf("start stdio transport: %w", err)
		}
		return t, r.cfg.Command, nil
	case constants.TransportHTTP:
		return transport.NewHTTPTransport(r.cfg.URL, r.logger), r.cfg.URL, nil
	default:
		return nil, "", fmt.Errorf("ConfigInvalid: unsupported transport %q", r.cfg.Transport)
	}
}

// record writes the request entry followed by the response (or error)
// entry for one exchange, matching the ordering contract:
// the request is written strictly before its response.
func (r *Runner) record(tw *transcript.Writer, method string, params map[string]interface{}, req *mcpclient.Request, resp *mcpclient.Response, sendErr error) {
	if req == nil {
		return
	}

	if err := tw.Record("request", method, req.ID, params, nil, nil); err != nil {
		r.logger.Warn("failed to record transcript request", "method", method, "error", err)
	}

	if sendErr != nil {
		errMsg := r.categorizeError(sendErr)
		if err := tw.Record("response", method, req.ID, map[string]interface{}{}, nil, &errMsg); err != nil {
			r.logger.Warn("failed to record transcript response", "method", method, "error", err)
		}
		return
	}

	var errMsg *string
	if resp.HasError() {
		data, err := json.Marshal(resp.Error)
		if err == nil {
			s := string(data)
			errMsg = &s
		}
	}
	latency := resp.Latency
	if err := tw.Record("response", method, req.ID, resp.Payload(), &latency, errMsg); err != nil {
		r.logger.Warn("failed to record transcript response", "method", method, "error", err)
	}
}

// categorizeError renders a transport failure for the transcript's error
// field, tagging it with its Kind so the transcript records a short
// diagnostic string rather than a raw error value.
func (r *Runner) categorizeError(err error) string {
	var te *transport.Error
	if ok := asTransportError(err, &te); ok {
		return fmt.Sprintf("%s: %s", te.Kind, te.Err)
	}
	return err.Error()
}

func asTransportError(err error, target **transport.Error) bool {
	te, ok := err.(*transport.Error)
	if !ok {
		return false
	}
	*target = te
	return true
}
