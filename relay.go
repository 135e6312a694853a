package mcprelay

import (
	"context"
	"errors"
	"log/slog"

	"github.com/mcprelay/mcprelay/catalog"
	"github.com/mcprelay/mcprelay/circuit"
	"github.com/mcprelay/mcprelay/client"
	"github.com/viant/mcp-protocol/schema"
)

// ErrOpen rejects calls while the circuit breaker is open.
var ErrOpen = errors.New("circuit breaker is open")

// Service is the orchestration boundary: one client, one catalog and one
// process wide circuit breaker wired together. Every guarded call checks the
// breaker first and records exactly one success or failure outcome.
type Service struct {
	client  *client.Client
	catalog *catalog.Catalog
	breaker *circuit.Breaker
	config  client.Config
	logger  *slog.Logger

	clientOptions []client.Option
}

// Option represents a service option.
type Option func(s *Service)

// WithBreaker injects a shared breaker; by default each Service builds its
// own with the default thresholds.
func WithBreaker(breaker *circuit.Breaker) Option {
	return func(s *Service) {
		if breaker != nil {
			s.breaker = breaker
		}
	}
}

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Service) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClientOptions forwards options to the underlying client.
func WithClientOptions(options ...client.Option) Option {
	return func(s *Service) {
		s.clientOptions = append(s.clientOptions, options...)
	}
}

// New creates a Service for the given connection config.
func New(config client.Config, options ...Option) (*Service, error) {
	ret := &Service{
		config:  config,
		breaker: circuit.New(circuit.DefaultConfig()),
		logger:  slog.Default(),
	}
	for _, option := range options {
		option(ret)
	}
	transport, err := client.New(config, append(ret.clientOptions, client.WithLogger(ret.logger))...)
	if err != nil {
		return nil, err
	}
	ret.client = transport
	ret.catalog = catalog.New(transport, catalog.WithLogger(ret.logger))
	return ret, nil
}

// Client returns the underlying transport client.
func (s *Service) Client() *client.Client { return s.client }

// Catalog returns the tool catalog.
func (s *Service) Catalog() *catalog.Catalog { return s.catalog }

// Breaker returns the shared circuit breaker.
func (s *Service) Breaker() *circuit.Breaker { return s.breaker }

// Connect runs tool discovery with retry. It may be called again at any time
// to refresh the catalog.
func (s *Service) Connect(ctx context.Context) (map[string]schema.Tool, error) {
	return client.WithRetry(ctx, s.config, func(ctx context.Context) (map[string]schema.Tool, error) {
		return s.catalog.Discover(ctx)
	})
}

// CallTool invokes a discovered tool behind the breaker. While the breaker is
// open the call is rejected with ErrOpen without touching the wire.
func (s *Service) CallTool(ctx context.Context, name string, arguments map[string]interface{}) (*schema.CallToolResult, error) {
	if s.breaker.IsOpen() {
		s.logger.Warn("call rejected, circuit breaker open", slog.String("tool", name))
		return nil, ErrOpen
	}
	result, err := client.WithRetry(ctx, s.config, func(ctx context.Context) (*schema.CallToolResult, error) {
		return s.catalog.Invoke(ctx, name, arguments)
	})
	if err != nil {
		s.breaker.RecordFailure()
		return nil, err
	}
	s.breaker.RecordSuccess()
	return result, nil
}

// Health reports whether the endpoint answers discovery, along with the
// breaker snapshot.
type Health struct {
	Healthy bool          `json:"healthy"`
	Tools   int           `json:"tools"`
	Breaker circuit.Stats `json:"circuitBreaker"`
}

// Health performs a discovery round trip and snapshots the breaker.
func (s *Service) Health(ctx context.Context) Health {
	tools, err := s.Connect(ctx)
	return Health{
		Healthy: err == nil,
		Tools:   len(tools),
		Breaker: s.breaker.Stats(),
	}
}
