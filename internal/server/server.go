package server

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/ironsheep/datathief-mcp/internal/config"
	"github.com/ironsheep/datathief-mcp/internal/imaging"
)

// Name and Version are reported in the initialize handshake.
var (
	Name    = "datathief-mcp"
	Version = "0.1.0"
)

// Server handles MCP protocol communication
type Server struct {
	cache *imaging.ImageCache
	cfg   *config.Config
}

// MCPRequest represents an incoming JSON-RPC request
type MCPRequest struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// MCPResponse represents an outgoing JSON-RPC response
type MCPResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *MCPError   `json:"error,omitempty"`
}

// MCPError represents a JSON-RPC error
type MCPError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// New creates a server whose calibration defaults come from cfg. A nil cfg
// uses the built-in defaults.
func New(cfg *config.Config) *Server {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Server{
		cache: imaging.NewImageCache(),
		cfg:   cfg,
	}
}

// Run serves MCP over stdin and stdout.
func (s *Server) Run() error {
	return s.Serve(os.Stdin, os.Stdout)
}

// Serve reads one JSON-RPC request per line from r and writes responses to w
// until r is exhausted.
func (s *Server) Serve(r io.Reader, w io.Writer) error {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for large requests
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)

	encoder := json.NewEncoder(w)

	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		var req MCPRequest
		if err := json.Unmarshal(line, &req); err != nil {
			log.Printf("Failed to parse request: %v", err)
			if err := encoder.Encode(s.errorResponse(nil, -32700, "Parse error", err.Error())); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
			continue
		}

		resp := s.handleRequest(&req)
		if resp != nil {
			if err := encoder.Encode(resp); err != nil {
				log.Printf("Failed to encode response: %v", err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("scanner error: %w", err)
	}

	return nil
}

// handleRequest routes requests to appropriate handlers
func (s *Server) handleRequest(req *MCPRequest) *MCPResponse {
	if s.cfg.Debug() {
		log.Printf("request %v: %s", req.ID, req.Method)
	}

	switch req.Method {
	case "initialize":
		return s.handleInitialize(req)
	case "notifications/initialized":
		// Client acknowledgment, no response needed
		return nil
	case "tools/list":
		return s.handleToolsList(req)
	case "tools/call":
		return s.handleToolsCall(req)
	case "ping":
		return &MCPResponse{
			JSONRPC: "2.0",
			ID:      req.ID,
			Result:  map[string]interface{}{},
		}
	default:
		return s.errorResponse(req.ID, -32601, fmt.Sprintf("Method not found: %s", req.Method), "")
	}
}

func (s *Server) handleInitialize(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"protocolVersion": "2024-11-05",
			"capabilities": map[string]interface{}{
				"tools": map[string]interface{}{},
			},
			"serverInfo": map[string]interface{}{
				"name":    Name,
				"version": Version,
			},
		},
	}
}

// errorResponse creates a JSON-RPC error response. An empty data string is
// omitted.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	e := &MCPError{Code: code, Message: message}
	if data != "" {
		e.Data = data
	}
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error:   e,
	}
}
