package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"sync/atomic"

	"github.com/viant/jsonrpc"
)

// Client performs one JSON-RPC call at a time over HTTP POST against a single
// MCP endpoint. It accepts both plain JSON and SSE framed responses and
// classifies failures into the typed error taxonomy; it applies no retry
// policy of its own.
type Client struct {
	config     Config
	lifecycle  Lifecycle
	httpClient *http.Client
	logger     *slog.Logger
	sequence   atomic.Uint64
}

// New creates a Client for the given config.
func New(config Config, options ...Option) (*Client, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	ret := &Client{
		config:    config,
		lifecycle: LifecycleEphemeral,
		logger:    slog.Default(),
	}
	for _, option := range options {
		option(ret)
	}
	if ret.httpClient == nil {
		ret.httpClient = newHTTPClient(ret.lifecycle)
	}
	return ret, nil
}

// Config returns the connection config the client was built with.
func (c *Client) Config() Config { return c.config }

// NextRequestId returns the next caller assigned request id.
func (c *Client) NextRequestId() uint64 {
	return c.sequence.Add(1)
}

// Call issues a single JSON-RPC request and returns the raw result member.
// A JSON-RPC error envelope surfaces as *ProtocolError.
func (c *Client) Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error) {
	request, err := jsonrpc.NewRequest(method, params)
	if err != nil {
		return nil, &ProtocolError{Message: "failed to encode params: " + err.Error()}
	}
	request.Id = c.NextRequestId()
	response, err := c.Send(ctx, request)
	if err != nil {
		return nil, err
	}
	if response.Error != nil {
		return nil, &ProtocolError{Code: response.Error.Code, Message: response.Error.Message}
	}
	return response.Result, nil
}

// Send posts the supplied envelope as-is and returns the normalized response
// envelope. The caller owns id assignment; if the server omits the response
// id it is backfilled from the request before returning.
func (c *Client) Send(ctx context.Context, request *jsonrpc.Request) (*jsonrpc.Response, error) {
	if request.Jsonrpc == "" {
		request.Jsonrpc = jsonrpc.Version
	}
	data, err := json.Marshal(request)
	if err != nil {
		return nil, &ProtocolError{Message: "failed to encode request: " + err.Error()}
	}
	ctx, cancel := context.WithTimeout(ctx, c.config.Timeout)
	defer cancel()

	httpRequest, err := http.NewRequestWithContext(ctx, http.MethodPost, c.config.URL, bytes.NewReader(data))
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	httpRequest.Header.Set("Content-Type", "application/json")
	httpRequest.Header.Set("Accept", "application/json, text/event-stream")

	httpResponse, err := c.httpClient.Do(httpRequest)
	if err != nil {
		return nil, classifyTransport(ctx, err)
	}
	defer httpResponse.Body.Close()

	if httpResponse.StatusCode >= http.StatusBadRequest {
		body, _ := io.ReadAll(io.LimitReader(httpResponse.Body, 4*1024))
		return nil, classifyStatus(httpResponse.StatusCode, body)
	}
	response, err := decodeResponse(httpResponse, c.logger)
	if err != nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, &TimeoutError{Err: err}
		}
		return nil, err
	}
	if response.Id == nil {
		response.Id = request.Id
	}
	return response, nil
}

// classifyTransport separates deadline expiry from plain socket failure.
func classifyTransport(ctx context.Context, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Err: err}
	}
	return &ConnectionError{Err: err}
}
