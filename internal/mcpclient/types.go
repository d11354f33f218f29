// Package mcpclient is a thin, intentionally narrow MCP client: it issues
// monotonically increasing request ids and exposes exactly the five
// methods the scan engine needs (initialize, the three list calls, and
// callTool). It is not a general MCP client library — only the surface
// a scanner needs is implemented.
package mcpclient

// Tool is a named, schema-typed callable exposed by an MCP server.
// Immutable after construction from a listTools response.
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// Resource is an MCP resource entry.
type Resource struct {
	URI         string `json:"uri"`
	Description string `json:"description"`
}

// Prompt is an MCP prompt entry.
type Prompt struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// Request is the JSON-RPC envelope sent to the server.
type Request struct {
	JSONRPC string                 `json:"jsonrpc"`
	ID      int                    `json:"id"`
	Method  string                 `json:"method"`
	Params  map[string]interface{} `json:"params,omitempty"`
}

// RPCError is the JSON-RPC error object, populated only when Response.Error
// is non-nil.
type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// Response is the decoded reply to a Request. Result and Error are
// mutually exclusive: at most one is populated.
type Response struct {
	ID      int                    `json:"id"`
	Result  map[string]interface{} `json:"result,omitempty"`
	Error   *RPCError              `json:"error,omitempty"`
	Latency float64                `json:"-"` // milliseconds; not part of the wire envelope
}

// HasError reports whether the response carries a JSON-RPC error.
func (r *Response) HasError() bool {
	return r.Error != nil
}

// asMap renders the response as the shape the transcript writer and signal
// detectors operate on: {"result": ..., "error": ...}.
func (r *Response) asMap() map[string]interface{} {
	return map[string]interface{}{
		"result": anyOrNil(r.Result),
		"error":  errorOrNil(r.Error),
	}
}

func anyOrNil(m map[string]interface{}) interface{} {
	if m == nil {
		return nil
	}
	return m
}

func errorOrNil(e *RPCError) interface{} {
	if e == nil {
		return nil
	}
	return map[string]interface{}{
		"code":    e.Code,
		"message": e.Message,
		"data":    e.Data,
	}
}

// Payload returns the {"result":..., "error":...} view of the response,
// the shape recorded in the transcript and fed to signal detectors.
func (r *Response) Payload() map[string]interface{} {
	return r.asMap()
}
