// Package client implements a resilient JSON-RPC 2.0 client for a single MCP
// endpoint over HTTP POST.
//
// The client accepts both response encodings an MCP server may produce, a
// plain JSON envelope and an SSE framed one ("data: " prefixed line), and
// normalizes them to the same in-memory shape. Failures are classified into a
// small typed taxonomy (ConnectionError, AuthError, TimeoutError,
// ProtocolError); WithRetry layers a bounded exponential backoff with jitter
// on top, retrying only the transient kinds.
package client
