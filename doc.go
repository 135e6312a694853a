// Package mcprelay turns a remote, possibly streaming MCP endpoint into a
// dependable local call surface.
//
// The module splits along resilience boundaries:
//  1. client — one JSON-RPC call over HTTP, accepting plain JSON or SSE
//     framed responses, with typed failure classification and a bounded
//     exponential retry helper,
//  2. circuit — a process wide failure gate with a timed recovery probe,
//  3. catalog — tool discovery plus JSON-Schema compiled parameter models,
//  4. bridge — a long lived stdio loop exposing the same endpoint to a host
//     process over newline-delimited JSON-RPC.
//
// The root Service is the orchestration boundary, wiring client, catalog and
// breaker together:
//
//	svc, _ := mcprelay.New(client.DefaultConfig("http://localhost:4040/mcp"))
//	tools, _ := svc.Connect(ctx)
//	result, _ := svc.CallTool(ctx, "projectList", map[string]any{})
//
// See the package docs of each subpackage for details.
package mcprelay
