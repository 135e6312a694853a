// Package conv holds tiny conversion helpers that are not part of the public
// API. Its single export, AsInt, coerces the dynamic JSON-RPC id
// representations into a plain int.
package conv
