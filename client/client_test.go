package client_test

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/viant/jsonrpc"

	"github.com/mcprelay/mcprelay/client"
)

func testConfig(URL string) client.Config {
	return client.Config{
		URL:        URL,
		Timeout:    5 * time.Second,
		MaxRetries: 0,
		BaseDelay:  time.Millisecond,
		MaxDelay:   10 * time.Millisecond,
	}
}

func TestClient_Call_JSONAndEventStream(t *testing.T) {
	envelope := `{"jsonrpc":"2.0","id":1,"result":{"tools":[{"name":"projectList"}]}}`
	testCases := []struct {
		description string
		contentType string
		body        string
	}{
		{
			description: "plain json body",
			contentType: "application/json",
			body:        envelope,
		},
		{
			description: "sse framed body",
			contentType: "text/event-stream",
			body:        "event: message\ndata: " + envelope + "\n\n",
		},
	}
	var results []string
	for _, testCase := range testCases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.EqualValues(t, "application/json, text/event-stream", r.Header.Get("Accept"), testCase.description)
			w.Header().Set("Content-Type", testCase.contentType)
			fmt.Fprint(w, testCase.body)
		}))
		c, err := client.New(testConfig(srv.URL))
		require.NoError(t, err, testCase.description)
		result, err := c.Call(context.Background(), "tools/list", map[string]interface{}{})
		require.NoError(t, err, testCase.description)
		results = append(results, string(result))
		srv.Close()
	}
	// Both encodings of the same payload normalize to the same result.
	assert.JSONEq(t, results[0], results[1])
}

func TestClient_Send_BackfillsMissingId(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"jsonrpc":"2.0","result":{}}`)
	}))
	defer srv.Close()

	c, err := client.New(testConfig(srv.URL))
	require.NoError(t, err)
	request := &jsonrpc.Request{Jsonrpc: jsonrpc.Version, Id: 42, Method: "ping", Params: json.RawMessage(`{}`)}
	response, err := c.Send(context.Background(), request)
	require.NoError(t, err)
	assert.EqualValues(t, 42, response.Id)
}

func TestClient_Call_Classification(t *testing.T) {
	testCases := []struct {
		description string
		status      int
		body        string
		expected    func(t *testing.T, err error)
	}{
		{
			description: "401 is an auth error",
			status:      http.StatusUnauthorized,
			expected: func(t *testing.T, err error) {
				var authErr *client.AuthError
				require.ErrorAs(t, err, &authErr)
				assert.EqualValues(t, http.StatusUnauthorized, authErr.StatusCode)
				assert.False(t, client.IsRetryable(err))
			},
		},
		{
			description: "403 is an auth error",
			status:      http.StatusForbidden,
			expected: func(t *testing.T, err error) {
				var authErr *client.AuthError
				require.ErrorAs(t, err, &authErr)
			},
		},
		{
			description: "500 is a retryable connection error",
			status:      http.StatusInternalServerError,
			body:        "boom",
			expected: func(t *testing.T, err error) {
				var connErr *client.ConnectionError
				require.ErrorAs(t, err, &connErr)
				assert.EqualValues(t, http.StatusInternalServerError, connErr.StatusCode)
				assert.True(t, client.IsRetryable(err))
			},
		},
		{
			description: "json-rpc error envelope is a protocol error",
			status:      http.StatusOK,
			body:        `{"jsonrpc":"2.0","id":1,"error":{"code":-32601,"message":"method not found"}}`,
			expected: func(t *testing.T, err error) {
				var protoErr *client.ProtocolError
				require.ErrorAs(t, err, &protoErr)
				assert.EqualValues(t, -32601, protoErr.Code)
				assert.False(t, client.IsRetryable(err))
			},
		},
	}
	for _, testCase := range testCases {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(testCase.status)
			fmt.Fprint(w, testCase.body)
		}))
		c, err := client.New(testConfig(srv.URL))
		require.NoError(t, err, testCase.description)
		_, err = c.Call(context.Background(), "tools/list", map[string]interface{}{})
		require.Error(t, err, testCase.description)
		testCase.expected(t, err)
		srv.Close()
	}
}

func TestClient_Call_Timeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()

	config := testConfig(srv.URL)
	config.Timeout = 20 * time.Millisecond
	c, err := client.New(config)
	require.NoError(t, err)
	_, err = c.Call(context.Background(), "tools/list", map[string]interface{}{})
	var timeoutErr *client.TimeoutError
	require.ErrorAs(t, err, &timeoutErr)
	assert.True(t, client.IsRetryable(err))
}

func TestClient_Call_ConnectionRefused(t *testing.T) {
	c, err := client.New(testConfig("http://127.0.0.1:1/mcp"))
	require.NoError(t, err)
	_, err = c.Call(context.Background(), "tools/list", map[string]interface{}{})
	var connErr *client.ConnectionError
	require.ErrorAs(t, err, &connErr)
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := client.New(client.Config{URL: ""})
	assert.Error(t, err)
}
