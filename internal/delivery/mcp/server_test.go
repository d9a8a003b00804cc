package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/offerlens/backend/internal/domain"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeResolver struct {
	result *domain.OfferResult
	err    error
	calls  int
	last   domain.OfferQuery
}

func (f *fakeResolver) ResolveOffers(ctx context.Context, q domain.OfferQuery) (*domain.OfferResult, error) {
	f.calls++
	f.last = q
	if f.err != nil {
		return nil, f.err
	}
	return f.result, nil
}

func newTestServer(resolver OfferResolver) *Server {
	return NewServer(resolver, "offerlens-mcp", "test", zerolog.Nop())
}

func sampleResult() *domain.OfferResult {
	return &domain.OfferResult{
		Query:           "chatgpt",
		NormalizedQuery: "chatgpt",
		TotalCandidates: 1,
		Returned:        1,
		Items: []domain.Row{
			{ProductID: 7, Title: "ChatGPT Plus", Price: "990 ₽", PriceValue: 990, Currency: "RUB"},
		},
	}
}

// roundTrip marshals the response the way the codec would and decodes it
// back into a generic map.
func roundTrip(t *testing.T, resp *Response) map[string]interface{} {
	t.Helper()
	require.NotNil(t, resp)
	data, err := json.Marshal(resp)
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &out))
	return out
}

func TestHandle_Methods(t *testing.T) {
	server := newTestServer(&fakeResolver{})
	ctx := context.Background()

	t.Run("initialize", func(t *testing.T) {
		out := roundTrip(t, server.Handle(ctx, []byte(`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`)))
		result := out["result"].(map[string]interface{})
		assert.Equal(t, ProtocolVersion, result["protocolVersion"])
		assert.Equal(t, "offerlens-mcp", result["serverInfo"].(map[string]interface{})["name"])
		assert.Contains(t, result["capabilities"], "tools")
		assert.Equal(t, float64(1), out["id"])
	})

	t.Run("ping", func(t *testing.T) {
		out := roundTrip(t, server.Handle(ctx, []byte(`{"jsonrpc":"2.0","id":"a","method":"ping"}`)))
		assert.Equal(t, "a", out["id"])
		assert.Equal(t, map[string]interface{}{}, out["result"])
	})

	t.Run("tools/list", func(t *testing.T) {
		out := roundTrip(t, server.Handle(ctx, []byte(`{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)))
		tools := out["result"].(map[string]interface{})["tools"].([]interface{})
		require.Len(t, tools, 1)
		tool := tools[0].(map[string]interface{})
		assert.Equal(t, ToolName, tool["name"])
		schema := tool["inputSchema"].(map[string]interface{})
		assert.Equal(t, []interface{}{"query"}, schema["required"])
		props := schema["properties"].(map[string]interface{})
		assert.Equal(t, float64(20), props["limit"].(map[string]interface{})["default"])
		assert.Equal(t, "price_asc", props["sort_by"].(map[string]interface{})["default"])
	})

	t.Run("unknown method", func(t *testing.T) {
		out := roundTrip(t, server.Handle(ctx, []byte(`{"jsonrpc":"2.0","id":3,"method":"resources/list"}`)))
		rpcErr := out["error"].(map[string]interface{})
		assert.Equal(t, float64(codeMethodNotFound), rpcErr["code"])
		assert.Equal(t, "Method not found: resources/list", rpcErr["message"])
		assert.NotContains(t, out, "result")
	})

	t.Run("notification gets no response", func(t *testing.T) {
		assert.Nil(t, server.Handle(ctx, []byte(`{"jsonrpc":"2.0","method":"notifications/initialized"}`)))
	})

	t.Run("null id still gets a response", func(t *testing.T) {
		resp := server.Handle(ctx, []byte(`{"jsonrpc":"2.0","id":null,"method":"ping"}`))
		require.NotNil(t, resp)
		assert.Equal(t, "null", string(resp.ID))
	})

	t.Run("undecodable message is dropped", func(t *testing.T) {
		assert.Nil(t, server.Handle(ctx, []byte(`{not json`)))
	})
}

func TestHandle_ToolCall(t *testing.T) {
	ctx := context.Background()

	t.Run("success returns text and structured content", func(t *testing.T) {
		resolver := &fakeResolver{result: sampleResult()}
		server := newTestServer(resolver)

		msg := `{"jsonrpc":"2.0","id":5,"method":"tools/call","params":{"name":"find_cheapest_reliable_options",` +
			`"arguments":{"query":"chatgpt","limit":3,"include_terms":"plus, 12m","min_positive_ratio":0.9}}}`
		out := roundTrip(t, server.Handle(ctx, []byte(msg)))

		result := out["result"].(map[string]interface{})
		assert.NotContains(t, result, "isError")
		content := result["content"].([]interface{})
		require.Len(t, content, 1)
		text := content[0].(map[string]interface{})["text"].(string)
		assert.Contains(t, text, "\n  \"query\": \"chatgpt\"")
		assert.Contains(t, text, "990 ₽")

		structured := result["structuredContent"].(map[string]interface{})
		assert.Equal(t, float64(1), structured["returned"])

		assert.Equal(t, 1, resolver.calls)
		assert.Equal(t, "chatgpt", resolver.last.Query)
		assert.Equal(t, 3, resolver.last.Limit)
		assert.Equal(t, []string{"plus", "12m"}, resolver.last.Filters.IncludeTerms)
		assert.Equal(t, 0.9, resolver.last.Filters.MinPositiveRatio)
	})

	t.Run("engine error is a tool error", func(t *testing.T) {
		resolver := &fakeResolver{err: errors.New("marketplace down")}
		server := newTestServer(resolver)

		msg := `{"jsonrpc":"2.0","id":6,"method":"tools/call","params":{"name":"find_cheapest_reliable_options","arguments":{"query":"x"}}}`
		out := roundTrip(t, server.Handle(ctx, []byte(msg)))

		assert.NotContains(t, out, "error")
		result := out["result"].(map[string]interface{})
		assert.Equal(t, true, result["isError"])
		text := result["content"].([]interface{})[0].(map[string]interface{})["text"]
		assert.Equal(t, "Error: marketplace down", text)
	})

	tests := []struct {
		name    string
		params  string
		message string
	}{
		{
			name:    "unknown tool",
			params:  `{"name":"other","arguments":{"query":"x"}}`,
			message: "Unknown tool: other",
		},
		{
			name:    "missing query",
			params:  `{"name":"find_cheapest_reliable_options","arguments":{"limit":5}}`,
			message: "Missing required argument: query",
		},
		{
			name:    "missing arguments",
			params:  `{"name":"find_cheapest_reliable_options"}`,
			message: "Missing required argument: query",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resolver := &fakeResolver{result: sampleResult()}
			server := newTestServer(resolver)

			msg := `{"jsonrpc":"2.0","id":9,"method":"tools/call","params":` + tt.params + `}`
			out := roundTrip(t, server.Handle(ctx, []byte(msg)))

			rpcErr := out["error"].(map[string]interface{})
			assert.Equal(t, float64(codeInvalidParams), rpcErr["code"])
			assert.Equal(t, tt.message, rpcErr["message"])
			assert.Zero(t, resolver.calls)
		})
	}
}

func TestServe(t *testing.T) {
	t.Run("ndjson session", func(t *testing.T) {
		input := strings.Join([]string{
			`{"jsonrpc":"2.0","id":1,"method":"initialize"}`,
			`{"jsonrpc":"2.0","method":"notifications/initialized"}`,
			`{"jsonrpc":"2.0","id":2,"method":"ping"}`,
		}, "\n") + "\n"

		var out bytes.Buffer
		err := newTestServer(&fakeResolver{}).Serve(context.Background(), strings.NewReader(input), &out)
		require.NoError(t, err)

		lines := strings.Split(strings.TrimSpace(out.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[0], `"id":1`)
		assert.Contains(t, lines[1], `"id":2`)
	})

	t.Run("content length session skips a bad header", func(t *testing.T) {
		body := `{"jsonrpc":"2.0","id":4,"method":"ping"}`
		input := "bogus\r\n\r\n" + "Content-Length: " + itoa(len(body)) + "\r\n\r\n" + body

		var out bytes.Buffer
		err := newTestServer(&fakeResolver{}).Serve(context.Background(), strings.NewReader(input), &out)
		require.NoError(t, err)

		assert.True(t, strings.HasPrefix(out.String(), "Content-Length: "))
		assert.Contains(t, out.String(), `"id":4`)
	})

	t.Run("cancelled context stops the loop", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		err := newTestServer(&fakeResolver{}).Serve(ctx, strings.NewReader(`{"id":1,"method":"ping"}`+"\n"), &bytes.Buffer{})
		assert.ErrorIs(t, err, context.Canceled)
	})
}

func itoa(n int) string {
	b, _ := json.Marshal(n)
	return string(b)
}
