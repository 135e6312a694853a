package client

import (
	"io"
	"log/slog"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func httpResponseWith(contentType, body string) *http.Response {
	return &http.Response{
		Header: http.Header{"Content-Type": []string{contentType}},
		Body:   io.NopCloser(strings.NewReader(body)),
	}
}

func TestDecodeResponse(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	testCases := []struct {
		description string
		contentType string
		body        string
		expectErr   bool
	}{
		{
			description: "json body",
			contentType: "application/json; charset=utf-8",
			body:        `{"jsonrpc":"2.0","id":1,"result":{}}`,
		},
		{
			description: "event stream skips non data lines",
			contentType: "text/event-stream",
			body:        ": comment\nevent: message\ndata: {\"jsonrpc\":\"2.0\",\"id\":1,\"result\":{}}\n\n",
		},
		{
			description: "event stream without a data line",
			contentType: "text/event-stream",
			body:        "event: message\n\n",
			expectErr:   true,
		},
		{
			description: "event stream with garbage payload",
			contentType: "text/event-stream",
			body:        "data: not json\n\n",
			expectErr:   true,
		},
		{
			description: "malformed json body",
			contentType: "application/json",
			body:        `<html>gateway error</html>`,
			expectErr:   true,
		},
	}
	for _, testCase := range testCases {
		response, err := decodeResponse(httpResponseWith(testCase.contentType, testCase.body), logger)
		if testCase.expectErr {
			var protoErr *ProtocolError
			require.ErrorAs(t, err, &protoErr, testCase.description)
			continue
		}
		require.NoError(t, err, testCase.description)
		assert.EqualValues(t, 1, response.Id, testCase.description)
	}
}

func TestDecodeResponse_LargeJSONBody(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	payload := strings.Repeat("a", 2*maxEventStreamBytes)
	body := `{"jsonrpc":"2.0","id":1,"result":{"text":"` + payload + `"}}`
	response, err := decodeResponse(httpResponseWith("application/json", body), logger)
	require.NoError(t, err, "plain json bodies are not subject to the event stream cap")
	assert.EqualValues(t, 1, response.Id)
	assert.Len(t, response.Result, len(payload)+11)
}

func TestClassifyStatus(t *testing.T) {
	err := classifyStatus(http.StatusBadGateway, []byte("  upstream down  "))
	var connErr *ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.EqualValues(t, http.StatusBadGateway, connErr.StatusCode)
	assert.Contains(t, connErr.Error(), "upstream down")

	err = classifyStatus(http.StatusUnauthorized, nil)
	var authErr *AuthError
	require.ErrorAs(t, err, &authErr)
}
