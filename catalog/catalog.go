package catalog

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"

	"github.com/mcprelay/mcprelay/internal/collection"
	"github.com/viant/mcp-protocol/schema"
)

// Caller issues one JSON-RPC call and returns the raw result member.
// *client.Client satisfies it.
type Caller interface {
	Call(ctx context.Context, method string, params interface{}) (json.RawMessage, error)
}

type entry struct {
	tool  schema.Tool
	model *ParameterModel
}

// Catalog discovers the tools a remote MCP server exposes and validates calls
// against their compiled parameter models. Discovery runs once per session
// and is authoritative until the next Discover.
type Catalog struct {
	caller Caller
	logger *slog.Logger
	tools  *collection.SyncMap[string, entry]
}

// Option represents a catalog option.
type Option func(c *Catalog)

// WithLogger sets the diagnostics logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Catalog) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// New creates a Catalog on top of the supplied caller.
func New(caller Caller, options ...Option) *Catalog {
	ret := &Catalog{
		caller: caller,
		logger: slog.Default(),
		tools:  collection.NewSyncMap[string, entry](),
	}
	for _, option := range options {
		option(ret)
	}
	return ret
}

// Discover calls tools/list and rebuilds the name to definition map,
// compiling each tool's input schema. A response that does not carry a tools
// member is a protocol failure; transport failures pass through unchanged.
func (c *Catalog) Discover(ctx context.Context) (map[string]schema.Tool, error) {
	raw, err := c.caller.Call(ctx, schema.MethodToolsList, map[string]interface{}{})
	if err != nil {
		return nil, err
	}
	var probe struct {
		Tools *[]schema.Tool `json:"tools"`
	}
	if err := json.Unmarshal(raw, &probe); err != nil || probe.Tools == nil {
		return nil, errMalformedToolsList(err)
	}
	discovered := make(map[string]schema.Tool, len(*probe.Tools))
	c.tools.Clear()
	for _, tool := range *probe.Tools {
		model, err := Compile(tool.InputSchema)
		if err != nil {
			return nil, errSchemaCompile(tool.Name, err)
		}
		c.tools.Put(tool.Name, entry{tool: tool, model: model})
		discovered[tool.Name] = tool
	}
	c.logger.Info("discovered tools", slog.Int("count", len(discovered)))
	return discovered, nil
}

// Tools returns the discovered definitions sorted by name.
func (c *Catalog) Tools() []schema.Tool {
	names := c.names()
	ret := make([]schema.Tool, 0, len(names))
	for _, name := range names {
		if e, ok := c.tools.Get(name); ok {
			ret = append(ret, e.tool)
		}
	}
	return ret
}

// Len returns the number of discovered tools.
func (c *Catalog) Len() int { return c.tools.Len() }

// Invoke validates arguments against the tool's compiled model and forwards
// tools/call. An unknown name is a *ToolNotFoundError naming the known tools.
func (c *Catalog) Invoke(ctx context.Context, name string, arguments map[string]interface{}) (*schema.CallToolResult, error) {
	e, ok := c.tools.Get(name)
	if !ok {
		return nil, &ToolNotFoundError{Name: name, Known: c.names()}
	}
	normalized, err := e.model.Apply(name, arguments)
	if err != nil {
		return nil, err
	}
	raw, err := c.caller.Call(ctx, schema.MethodToolsCall, &schema.CallToolRequestParams{
		Name:      name,
		Arguments: normalized,
	})
	if err != nil {
		return nil, err
	}
	result := &schema.CallToolResult{}
	if err := json.Unmarshal(raw, result); err != nil {
		return nil, errMalformedCallResult(err)
	}
	return result, nil
}

func (c *Catalog) names() []string {
	names := c.tools.Keys()
	sort.Strings(names)
	return names
}
