// Package bridge exposes a remote MCP HTTP endpoint over a line-oriented
// stdio transport.
//
// The bridge reads newline-delimited JSON-RPC requests from standard input,
// forwards them through the retrying client, and writes one response line per
// request to standard output, suppressing replies for one-way notifications.
// It is deliberately single threaded: responses appear in exactly the order
// requests arrived. A bad input line produces a structured error frame and
// the loop keeps serving; only a startup failure exits non-zero.
//
// The compiled binary lives in bridge/mcp-relay.
package bridge
