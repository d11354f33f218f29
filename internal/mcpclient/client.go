package mcpclient

import (
	"context"
	"time"

	"github.com/redteam-mcp/scanner/internal/constants"
	"github.com/redteam-mcp/scanner/internal/transport"
)

// Client is a thin wrapper over a transport.Transport that assigns request
// ids from a monotonic counter starting at 1 and constructs the JSON-RPC
// envelope. The engine is single-threaded at the top level,
// so the counter is a plain field, not an atomic.
type Client struct {
	transport transport.Transport
	nextID    int
}

// New wraps t in a Client.
func New(t transport.Transport) *Client {
	return &Client{transport: t, nextID: 1}
}

func (c *Client) allocateID() int {
	id := c.nextID
	c.nextID++
	return id
}

// send issues method with params and returns the decoded Response plus the
// Request that was sent, so the caller (the scan runner) can record both
// sides of the exchange in the transcript.
func (c *Client) send(ctx context.Context, method string, params map[string]interface{}, timeout time.Duration) (*Request, *Response, error) {
	req := &Request{
		JSONRPC: constants.JSONRPCVersion,
		ID:      c.allocateID(),
		Method:  method,
		Params:  params,
	}

	message := map[string]interface{}{
		"jsonrpc": req.JSONRPC,
		"id":      req.ID,
		"method":  req.Method,
		"params":  params,
	}

	payload, latency, err := c.transport.Send(ctx, message, timeout)
	if err != nil {
		return req, nil, err
	}

	resp := &Response{
		ID:      req.ID,
		Latency: float64(latency) / float64(time.Millisecond),
	}
	if result, ok := payload["result"].(map[string]interface{}); ok {
		resp.Result = result
	}
	if errPayload, ok := payload["error"].(map[string]interface{}); ok {
		resp.Error = &RPCError{}
		if code, ok := errPayload["code"].(float64); ok {
			resp.Error.Code = int(code)
		}
		if message, ok := errPayload["message"].(string); ok {
			resp.Error.Message = message
		}
		resp.Error.Data = errPayload["data"]
	}

	return req, resp, nil
}

// Initialize performs the MCP handshake.
func (c *Client) Initialize(ctx context.Context, timeout time.Duration) (*Request, *Response, error) {
	params := map[string]interface{}{
		"protocolVersion": constants.MCPProtocolVersion,
		"capabilities":    map[string]interface{}{},
	}
	return c.send(ctx, constants.MethodInitialize, params, timeout)
}

// ListTools fetches the server's tool catalog. Parsing is defensive: a
// missing name/description defaults to the empty string, a missing
// inputSchema defaults to an empty object, and an entry that is not an
// object is skipped rather than aborting the scan.
func (c *Client) ListTools(ctx context.Context, timeout time.Duration) (*Request, *Response, []Tool, error) {
	req, resp, err := c.send(ctx, constants.MethodListTools, map[string]interface{}{}, timeout)
	if err != nil {
		return req, nil, nil, err
	}

	var tools []Tool
	if resp.Result != nil {
		if raw, ok := resp.Result["tools"].([]interface{}); ok {
			for _, item := range raw {
				obj, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				tools = append(tools, Tool{
					Name:        stringOrDefault(obj["name"]),
					Description: stringOrDefault(obj["description"]),
					InputSchema: objectOrDefault(obj["inputSchema"]),
				})
			}
		}
	}
	return req, resp, tools, nil
}

// ListResources fetches the server's resource catalog, defensively parsed
// like ListTools.
func (c *Client) ListResources(ctx context.Context, timeout time.Duration) (*Request, *Response, []Resource, error) {
	req, resp, err := c.send(ctx, constants.MethodListResources, map[string]interface{}{}, timeout)
	if err != nil {
		return req, nil, nil, err
	}

	var resources []Resource
	if resp.Result != nil {
		if raw, ok := resp.Result["resources"].([]interface{}); ok {
			for _, item := range raw {
				obj, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				resources = append(resources, Resource{
					URI:         stringOrDefault(obj["uri"]),
					Description: stringOrDefault(obj["description"]),
				})
			}
		}
	}
	return req, resp, resources, nil
}

// ListPrompts fetches the server's prompt catalog, defensively parsed like
// ListTools.
func (c *Client) ListPrompts(ctx context.Context, timeout time.Duration) (*Request, *Response, []Prompt, error) {
	req, resp, err := c.send(ctx, constants.MethodListPrompts, map[string]interface{}{}, timeout)
	if err != nil {
		return req, nil, nil, err
	}

	var prompts []Prompt
	if resp.Result != nil {
		if raw, ok := resp.Result["prompts"].([]interface{}); ok {
			for _, item := range raw {
				obj, ok := item.(map[string]interface{})
				if !ok {
					continue
				}
				prompts = append(prompts, Prompt{
					Name:        stringOrDefault(obj["name"]),
					Description: stringOrDefault(obj["description"]),
				})
			}
		}
	}
	return req, resp, prompts, nil
}

// CallTool invokes a tool by name with the given arguments.
func (c *Client) CallTool(ctx context.Context, name string, args map[string]interface{}, timeout time.Duration) (*Request, *Response, error) {
	params := map[string]interface{}{
		"name":      name,
		"arguments": args,
	}
	return c.send(ctx, constants.MethodCallTool, params, timeout)
}

// Close releases the underlying transport.
func (c *Client) Close() error {
	return c.transport.Close()
}

func stringOrDefault(v interface{}) string {
	s, _ := v.(string)
	return s
}

func objectOrDefault(v interface{}) map[string]interface{} {
	if m, ok := v.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}
