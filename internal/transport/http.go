package transport

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/redteam-mcp/scanner/internal/constants"
)

// HTTPTransport POSTs the JSON-RPC envelope to a configured URL and decodes
// the JSON-RPC response, the way internal/client.ODataClient.buildRequest
// builds OData requests — explicit header setting, context-scoped request
// construction — adapted to a single fixed method and no retry/CSRF logic
// (the MCP wire format has none of that).
type HTTPTransport struct {
	url        string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewHTTPTransport creates an HTTP transport targeting url. A nil logger
// defaults to slog.Default().
func NewHTTPTransport(url string, logger *slog.Logger) *HTTPTransport {
	if logger == nil {
		logger = slog.Default()
	}
	return &HTTPTransport{
		url:        url,
		httpClient: &http.Client{},
		logger:     logger,
	}
}

// Send implements Transport.
func (t *HTTPTransport) Send(ctx context.Context, message map[string]interface{}, timeout time.Duration) (map[string]interface{}, time.Duration, error) {
	callCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	body, err := json.Marshal(message)
	if err != nil {
		return nil, 0, newError(KindDecode, fmt.Errorf("marshal request: %w", err))
	}

	req, err := http.NewRequestWithContext(callCtx, http.MethodPost, t.url, bytes.NewReader(body))
	if err != nil {
		return nil, 0, newError(KindIO, fmt.Errorf("build request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("User-Agent", constants.DefaultUserAgent)

	start := time.Now()
	resp, err := t.httpClient.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, time.Since(start), newError(KindTimeout, err)
		}
		t.logger.Debug("http transport send failed", "url", t.url, "error", err)
		return nil, time.Since(start), newError(KindIO, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	latency := time.Since(start)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, latency, newError(KindTimeout, err)
		}
		return nil, latency, newError(KindIO, fmt.Errorf("read response body: %w", err))
	}

	var decoded map[string]interface{}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, latency, newError(KindDecode, fmt.Errorf("decode response: %w", err))
	}

	return decoded, latency, nil
}

// Close is a no-op: the underlying http.Client's idle connections are
// reclaimed by the transport's own client, there is no persistent
// connection owned exclusively by this transport.
func (t *HTTPTransport) Close() error {
	return nil
}
