// Package catalog discovers the tool surface of a remote MCP server and
// compiles each tool's JSON-Schema parameter description into an explicit,
// validated model. Invocations are checked against the compiled model before
// they reach the wire.
package catalog
