// Package mcp serves the offer search engine as a JSON-RPC 2.0 tool server
// over stdio.
package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/offerlens/backend/internal/domain"
	"github.com/offerlens/backend/internal/usecase"
	"github.com/rs/zerolog"
)

// ProtocolVersion is the tool protocol revision announced on initialize.
const ProtocolVersion = "2024-11-05"

// ToolName is the single tool exposed by the server.
const ToolName = "find_cheapest_reliable_options"

// JSON-RPC error codes
const (
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// OfferResolver is the engine behind the tool
type OfferResolver interface {
	ResolveOffers(ctx context.Context, q domain.OfferQuery) (*domain.OfferResult, error)
}

// Response is a JSON-RPC response. Exactly one of Result and Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  interface{}     `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// RPCError is a JSON-RPC error object
type RPCError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type request struct {
	ID     json.RawMessage
	Method string
	Params json.RawMessage
}

type toolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

type textContent struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// Server dispatches tool protocol requests
type Server struct {
	offers  OfferResolver
	logger  zerolog.Logger
	name    string
	version string
}

// NewServer creates a new tool server
func NewServer(offers OfferResolver, name, version string, logger zerolog.Logger) *Server {
	return &Server{
		offers:  offers,
		logger:  logger.With().Str("component", "mcp").Logger(),
		name:    name,
		version: version,
	}
}

// Serve reads requests from r and writes responses to w until r is exhausted
// or ctx is cancelled. Unreadable messages are logged and skipped.
func (s *Server) Serve(ctx context.Context, r io.Reader, w io.Writer) error {
	codec := NewCodec(r, w)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		raw, err := codec.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			if errors.Is(err, errBadHeader) {
				s.logger.Warn().Err(err).Msg("skipping malformed message")
				continue
			}
			return err
		}

		resp := s.Handle(ctx, raw)
		if resp == nil {
			continue
		}
		if err := codec.Write(resp); err != nil {
			return fmt.Errorf("failed to write response: %w", err)
		}
	}
}

// Handle processes one raw message. Notifications (no "id" member) and
// undecodable messages yield nil.
func (s *Server) Handle(ctx context.Context, raw []byte) *Response {
	req, ok := s.decode(raw)
	if !ok {
		return nil
	}
	if req.ID == nil {
		s.logger.Debug().Str("method", req.Method).Msg("notification")
		return nil
	}

	switch req.Method {
	case "initialize":
		return success(req.ID, map[string]interface{}{
			"protocolVersion": ProtocolVersion,
			"capabilities":    map[string]interface{}{"tools": map[string]interface{}{}},
			"serverInfo":      map[string]string{"name": s.name, "version": s.version},
		})
	case "ping":
		return success(req.ID, map[string]interface{}{})
	case "tools/list":
		return success(req.ID, map[string]interface{}{"tools": []interface{}{toolSchema()}})
	case "tools/call":
		return s.callTool(ctx, req)
	default:
		return rpcError(req.ID, codeMethodNotFound, "Method not found: "+req.Method)
	}
}

func (s *Server) decode(raw []byte) (request, bool) {
	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		s.logger.Warn().Err(err).Msg("skipping undecodable message")
		return request{}, false
	}

	var req request
	if id, ok := envelope["id"]; ok {
		req.ID = id
	}
	if method, ok := envelope["method"]; ok {
		_ = json.Unmarshal(method, &req.Method)
	}
	req.Params = envelope["params"]
	return req, true
}

func (s *Server) callTool(ctx context.Context, req request) *Response {
	var params toolCallParams
	if len(req.Params) > 0 && !isNull(req.Params) {
		if err := json.Unmarshal(req.Params, &params); err != nil {
			return rpcError(req.ID, codeInvalidParams, "Invalid params: "+err.Error())
		}
	}
	if params.Name != ToolName {
		return rpcError(req.ID, codeInvalidParams, "Unknown tool: "+params.Name)
	}

	var present map[string]json.RawMessage
	if len(params.Arguments) > 0 && !isNull(params.Arguments) {
		if err := json.Unmarshal(params.Arguments, &present); err != nil {
			return rpcError(req.ID, codeInvalidParams, "Invalid arguments: "+err.Error())
		}
	}
	if _, ok := present["query"]; !ok {
		return rpcError(req.ID, codeInvalidParams, "Missing required argument: query")
	}

	var args usecase.SearchArgs
	if err := json.Unmarshal(params.Arguments, &args); err != nil {
		return rpcError(req.ID, codeInvalidParams, "Invalid arguments: "+err.Error())
	}

	result, err := s.offers.ResolveOffers(ctx, args.OfferQuery())
	if err != nil {
		s.logger.Warn().Err(err).Str("query", args.Query).Msg("tool call failed")
		return success(req.ID, map[string]interface{}{
			"isError": true,
			"content": []textContent{{Type: "text", Text: "Error: " + err.Error()}},
		})
	}

	text, err := marshalIndent(result)
	if err != nil {
		return success(req.ID, map[string]interface{}{
			"isError": true,
			"content": []textContent{{Type: "text", Text: "Error: " + err.Error()}},
		})
	}

	s.logger.Info().Str("query", args.Query).Int("returned", result.Returned).Msg("tool call completed")
	return success(req.ID, map[string]interface{}{
		"content":           []textContent{{Type: "text", Text: text}},
		"structuredContent": result,
	})
}

func marshalIndent(v interface{}) (string, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return "", err
	}
	return string(bytes.TrimRight(buf.Bytes(), "\n")), nil
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func success(id json.RawMessage, result interface{}) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Result: result}
}

func rpcError(id json.RawMessage, code int, message string) *Response {
	return &Response{JSONRPC: "2.0", ID: id, Error: &RPCError{Code: code, Message: message}}
}

// toolSchema describes the tool's arguments.
func toolSchema() map[string]interface{} {
	return map[string]interface{}{
		"name":        ToolName,
		"description": "Find Plati offers by text query or Plati URL, returning lots with links and full option variants.",
		"inputSchema": map[string]interface{}{
			"type": "object",
			"properties": map[string]interface{}{
				"query": map[string]interface{}{
					"type":        "string",
					"description": "Text query (e.g. 'chatgpt plus') or Plati URL (/search/<term>, /games/.../<id>/, /cat/.../<id>/).",
				},
				"preference":         map[string]interface{}{"type": "string", "description": "Buyer intent such as 'pro 12 months'; defaults to the query."},
				"limit":              map[string]interface{}{"type": "integer", "default": usecase.DefaultLimit, "minimum": 1, "maximum": usecase.MaxLimit},
				"currency":           map[string]interface{}{"type": "string", "default": usecase.DefaultCurrency},
				"lang":               map[string]interface{}{"type": "string", "default": usecase.DefaultLang},
				"min_reviews":        map[string]interface{}{"type": "integer", "default": 0, "minimum": 0},
				"min_positive_ratio": map[string]interface{}{"type": "number", "default": 0.0, "minimum": 0, "maximum": 1},
				"page":               map[string]interface{}{"type": "integer", "default": 1, "minimum": 1},
				"max_pages":          map[string]interface{}{"type": "integer", "default": usecase.DefaultMaxPages, "minimum": 1, "maximum": usecase.MaxMaxPages},
				"per_page":           map[string]interface{}{"type": "integer", "default": usecase.DefaultPerPage, "minimum": usecase.MinPerPage, "maximum": usecase.MaxPerPage},
				"sort_by": map[string]interface{}{
					"type":    "string",
					"default": domain.SortPriceAsc,
					"enum": []string{
						domain.SortPriceAsc, domain.SortPriceDesc, domain.SortSellerReviewsDesc,
						domain.SortReliabilityDesc, domain.SortTitleAsc, domain.SortTitleDesc,
					},
				},
				"min_price":     map[string]interface{}{"type": "number", "default": 0},
				"max_price":     map[string]interface{}{"type": "number", "default": 0},
				"include_terms": map[string]interface{}{"type": "string", "default": "", "description": "Space/comma-separated terms that must appear in lot title/options."},
				"exclude_terms": map[string]interface{}{"type": "string", "default": "", "description": "Space/comma-separated terms to exclude from lot title/options."},
				"return_all":    map[string]interface{}{"type": "boolean", "default": false, "description": "Return every qualifying option combination instead of the cheapest per lot."},
			},
			"required": []string{"query"},
		},
	}
}
