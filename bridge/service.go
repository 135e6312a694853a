package bridge

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"syscall"

	"github.com/mcprelay/mcprelay/client"
	"github.com/mcprelay/mcprelay/internal/conv"
	"github.com/viant/jsonrpc"
	"github.com/viant/mcp-protocol/schema"
)

// defaultRequestId replaces a missing or null inbound id so every forwarded
// request stays correlatable.
const defaultRequestId = 1

// maxLineBytes bounds a single inbound stdin line.
const maxLineBytes = 10 * 1024 * 1024

// Transport sends one JSON-RPC envelope and returns the response envelope.
// *client.Client satisfies it.
type Transport interface {
	Send(ctx context.Context, request *jsonrpc.Request) (*jsonrpc.Response, error)
}

// Service is the stdio bridge: a serial loop that reads newline-delimited
// JSON-RPC requests, forwards them to the remote endpoint with retry, and
// writes newline-delimited responses. Lines are handled strictly in order;
// the downstream consumer relies on that ordering.
type Service struct {
	transport     Transport
	retry         client.Config
	logger        *slog.Logger
	notifications map[string]bool
}

// Option represents a service option.
type Option func(s *Service)

// WithLogger sets the diagnostics logger; stdout stays reserved for frames.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithRetryConfig sets the backoff envelope applied to each forwarded call.
func WithRetryConfig(config client.Config) Option {
	return func(s *Service) {
		s.retry = config
	}
}

// New creates a Service forwarding through the supplied transport.
func New(transport Transport, options ...Option) *Service {
	ret := &Service{
		transport: transport,
		retry:     client.DefaultConfig("http://localhost:4040/mcp"),
		logger:    slog.Default(),
		notifications: map[string]bool{
			schema.MethodNotificationInitialized: true,
			schema.MethodNotificationCanceled:    true,
			"notifications/progress":             true,
		},
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// frame is the exact outbound wire shape: id is always present (null for
// unattributable errors), result and error are mutually exclusive.
type frame struct {
	Jsonrpc string          `json:"jsonrpc"`
	Id      interface{}     `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *jsonrpc.Error  `json:"error,omitempty"`
}

// inboundLine is one stdin line handed from the reader goroutine to the
// serial handling loop. An oversized line carries no data; it was drained to
// its newline so the stream stays aligned.
type inboundLine struct {
	data      []byte
	oversized bool
}

// Run processes input until EOF or ctx cancellation. Per-line failures never
// terminate the loop; they become structured error frames. Input is read on a
// separate goroutine so a termination signal takes effect even while the loop
// is idle waiting on stdin. A broken output pipe means the consumer went away
// and counts as a normal shutdown.
func (s *Service) Run(ctx context.Context, in io.Reader, out io.Writer) error {
	writer := bufio.NewWriter(out)
	lines := make(chan inboundLine)
	closed := make(chan error, 1)
	go readLines(in, lines, closed)

	s.logger.Info("bridge loop started")
	for {
		var response *frame
		select {
		case <-ctx.Done():
			s.logger.Info("shutdown signal received")
			return nil
		case err := <-closed:
			if err != nil && !errors.Is(err, io.EOF) {
				s.logger.Error("input closed with error", slog.Any("error", err))
			}
			s.logger.Info("bridge loop finished")
			return nil
		case line := <-lines:
			if line.oversized {
				s.logger.Error("input line dropped, exceeds size cap", slog.Int("cap", maxLineBytes))
				response = errorFrame(nil, jsonrpc.NewParsingError("request line exceeds the size limit", nil))
			} else {
				response = s.handleLine(ctx, line.data)
			}
		}
		if response == nil {
			continue
		}
		if err := writeFrame(writer, response); err != nil {
			if isBrokenPipe(err) {
				s.logger.Info("output pipe closed, shutting down")
				return nil
			}
			s.logger.Error("failed to write response", slog.Any("error", err))
		}
	}
}

// readLines delivers trimmed, non-empty lines one at a time, then the closing
// error. Lines longer than maxLineBytes are consumed to their newline and
// delivered as oversized so the loop can answer and keep serving.
func readLines(in io.Reader, lines chan<- inboundLine, closed chan<- error) {
	reader := bufio.NewReaderSize(in, 64*1024)
	for {
		line, oversized, err := readBoundedLine(reader)
		if oversized {
			lines <- inboundLine{oversized: true}
		} else if trimmed := bytes.TrimSpace(line); len(trimmed) > 0 {
			lines <- inboundLine{data: trimmed}
		}
		if err != nil {
			closed <- err
			return
		}
	}
}

// readBoundedLine accumulates one newline-terminated line up to maxLineBytes.
// Past the cap it stops buffering and keeps discarding until the newline.
func readBoundedLine(reader *bufio.Reader) ([]byte, bool, error) {
	var line []byte
	oversized := false
	for {
		chunk, err := reader.ReadSlice('\n')
		if !oversized {
			line = append(line, chunk...)
			if len(line) > maxLineBytes {
				line = nil
				oversized = true
			}
		}
		if err == bufio.ErrBufferFull {
			continue
		}
		return line, oversized, err
	}
}

// handleLine turns one inbound line into at most one outbound frame; nil
// suppresses output (notifications).
func (s *Service) handleLine(ctx context.Context, line []byte) *frame {
	var probe interface{}
	if err := json.Unmarshal(line, &probe); err != nil {
		s.logger.Error("malformed input line", slog.Any("error", err))
		return errorFrame(nil, jsonrpc.NewParsingError("failed to parse request: "+err.Error(), nil))
	}
	request := &jsonrpc.Request{}
	if err := json.Unmarshal(line, request); err != nil || request.Method == "" {
		s.logger.Error("invalid request object", slog.String("line", string(line)))
		return errorFrame(nil, jsonrpc.NewInvalidRequest("request requires a method", nil))
	}
	if s.notifications[request.Method] {
		s.logger.Debug("notification handled", slog.String("method", request.Method))
		return nil
	}
	if request.Id == nil {
		request.Id = defaultRequestId
	}
	id := conv.AsInt(request.Id)
	s.logger.Debug("forwarding request", slog.Int("id", id), slog.String("method", request.Method))

	response, err := client.WithRetry(ctx, s.retry, func(ctx context.Context) (*jsonrpc.Response, error) {
		return s.transport.Send(ctx, request)
	})
	if err != nil {
		s.logger.Error("request failed", slog.Int("id", id), slog.String("method", request.Method), slog.Any("error", err))
		return errorFrame(request.Id, jsonrpc.NewInternalError(err.Error(), nil))
	}
	return &frame{Jsonrpc: jsonrpc.Version, Id: response.Id, Result: response.Result, Error: response.Error}
}

func errorFrame(id interface{}, rpcError *jsonrpc.Error) *frame {
	return &frame{Jsonrpc: jsonrpc.Version, Id: id, Error: rpcError}
}

// writeFrame emits exactly one line and flushes so the consumer sees it
// immediately.
func writeFrame(writer *bufio.Writer, response *frame) error {
	data, err := json.Marshal(response)
	if err != nil {
		return err
	}
	if _, err := writer.Write(data); err != nil {
		return err
	}
	if err := writer.WriteByte('\n'); err != nil {
		return err
	}
	return writer.Flush()
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe) || errors.Is(err, fs.ErrClosed)
}
