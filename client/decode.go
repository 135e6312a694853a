package client

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"strings"

	"github.com/viant/jsonrpc"
)

// maxEventStreamBytes caps how much of an event stream body is read into
// memory. Anything past the cap is discarded with a warning instead of
// growing the buffer unbounded.
const maxEventStreamBytes = 1 << 20

const dataPrefix = "data: "

// decodeResponse normalizes both wire encodings the server may answer with,
// a plain JSON body or an SSE framed one, into the same JSON-RPC envelope.
func decodeResponse(httpResponse *http.Response, logger *slog.Logger) (*jsonrpc.Response, error) {
	contentType := httpResponse.Header.Get("Content-Type")
	if mediaType, _, err := mime.ParseMediaType(contentType); err == nil {
		contentType = mediaType
	}
	if contentType == "text/event-stream" {
		return decodeEventStream(httpResponse.Body, logger)
	}
	body, err := io.ReadAll(httpResponse.Body)
	if err != nil {
		return nil, &ConnectionError{Err: err}
	}
	response := &jsonrpc.Response{}
	if err := json.Unmarshal(body, response); err != nil {
		return nil, &ProtocolError{Message: "malformed response envelope: " + err.Error()}
	}
	return response, nil
}

// decodeEventStream scans an SSE body for the first "data: " line and decodes
// its payload as the JSON-RPC envelope.
func decodeEventStream(body io.Reader, logger *slog.Logger) (*jsonrpc.Response, error) {
	limited := &io.LimitedReader{R: body, N: maxEventStreamBytes}
	scanner := bufio.NewScanner(limited)
	scanner.Buffer(make([]byte, 0, 64*1024), maxEventStreamBytes)
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.HasPrefix(line, dataPrefix) {
			continue
		}
		payload := strings.TrimPrefix(line, dataPrefix)
		response := &jsonrpc.Response{}
		if err := json.Unmarshal([]byte(payload), response); err != nil {
			return nil, &ProtocolError{Message: "malformed event stream payload: " + err.Error()}
		}
		return response, nil
	}
	if err := scanner.Err(); err != nil {
		return nil, &ConnectionError{Err: err}
	}
	if limited.N == 0 {
		// The cap was reached without a data line; drain the remainder so the
		// connection can be reused, but do not buffer it.
		n, _ := io.Copy(io.Discard, body)
		logger.Warn("event stream exceeded size cap, truncated",
			slog.Int64("cap", maxEventStreamBytes), slog.Int64("discarded", n))
	}
	return nil, &ProtocolError{Message: "no data line found in event stream response"}
}

// classifyStatus maps an HTTP error status to the typed error taxonomy.
func classifyStatus(statusCode int, body []byte) error {
	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return &AuthError{StatusCode: statusCode}
	}
	snippet := string(bytes.TrimSpace(body))
	if len(snippet) > 256 {
		snippet = snippet[:256]
	}
	var err error
	if snippet != "" {
		err = errors.New(snippet)
	}
	return &ConnectionError{StatusCode: statusCode, Err: err}
}
