// Package mcp exposes the resume tools over a JSON-RPC endpoint that
// follows the Model Context Protocol.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
	"github.com/resumify/backend/tools"
)

// ProtocolVersion is the MCP revision answered on initialize
const ProtocolVersion = "2024-11-05"

// JSON-RPC error codes
const (
	codeParseError     = -32700
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
)

// Server serves the tool registry to external AI agents
type Server struct {
	registry *tools.ToolRegistry
	name     string
	version  string
	log      zerolog.Logger
}

// NewServer creates a new MCP server
func NewServer(registry *tools.ToolRegistry, version string) *Server {
	return &Server{
		registry: registry,
		name:     "resumify",
		version:  version,
		log:      logger.With("mcp"),
	}
}

// Request is an incoming JSON-RPC request
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      interface{}     `json:"id"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// Response is a JSON-RPC response
type Response struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error is a JSON-RPC error object
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// ToolDefinition describes one tool for tools/list
type ToolDefinition struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

// ToolsListResult is the result of tools/list
type ToolsListResult struct {
	Tools []ToolDefinition `json:"tools"`
}

// ToolCallParams are the parameters of tools/call
type ToolCallParams struct {
	Name      string          `json:"name"`
	Arguments json.RawMessage `json:"arguments"`
}

// ToolCallResult is the result of tools/call
type ToolCallResult struct {
	Content []ContentItem `json:"content"`
	IsError bool          `json:"isError,omitempty"`
}

// ContentItem is one piece of tool output
type ContentItem struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

// InitializeResult answers the initialize handshake
type InitializeResult struct {
	ProtocolVersion string                 `json:"protocolVersion"`
	Capabilities    map[string]interface{} `json:"capabilities"`
	ServerInfo      map[string]string      `json:"serverInfo"`
}

// RegisterRoutes registers MCP endpoints on the given router group
func (s *Server) RegisterRoutes(router *gin.RouterGroup) {
	router.POST("/mcp", s.HandleMCP)
	router.GET("/mcp/tools", s.HandleToolsList)
	router.POST("/mcp/tools/call", s.HandleToolsCall)
}

// HandleMCP handles MCP JSON-RPC requests
// @Summary MCP endpoint
// @Description JSON-RPC 2.0 endpoint supporting initialize, tools/list and tools/call
// @Tags Tools
// @Accept json
// @Produce json
// @Param request body Request true "JSON-RPC request"
// @Success 200 {object} Response "JSON-RPC response"
// @Router /mcp [post]
func (s *Server) HandleMCP(c *gin.Context) {
	var req Request
	if err := c.ShouldBindJSON(&req); err != nil {
		s.sendError(c, nil, codeParseError, "Parse error", err.Error())
		return
	}

	switch req.Method {
	case "initialize":
		s.sendResult(c, req.ID, InitializeResult{
			ProtocolVersion: ProtocolVersion,
			Capabilities:    map[string]interface{}{"tools": map[string]interface{}{}},
			ServerInfo:      map[string]string{"name": s.name, "version": s.version},
		})
	case "tools/list":
		s.sendResult(c, req.ID, s.definitions())
	case "tools/call":
		var params ToolCallParams
		if err := json.Unmarshal(req.Params, &params); err != nil {
			s.sendError(c, req.ID, codeInvalidParams, "Invalid params", err.Error())
			return
		}
		s.sendResult(c, req.ID, s.call(c.Request.Context(), params))
	default:
		s.sendError(c, req.ID, codeMethodNotFound, "Method not found", req.Method)
	}
}

// HandleToolsList lists the available tools
// @Summary List available tools
// @Description Get a list of all available MCP tools for AI agents
// @Tags Tools
// @Produce json
// @Success 200 {object} ToolsListResult "List of tools"
// @Router /mcp/tools [get]
func (s *Server) HandleToolsList(c *gin.Context) {
	c.JSON(http.StatusOK, s.definitions())
}

// HandleToolsCall runs one tool outside of JSON-RPC framing
// @Summary Call a tool
// @Tags Tools
// @Accept json
// @Produce json
// @Param request body ToolCallParams true "Tool name and arguments"
// @Success 200 {object} ToolCallResult "Tool output"
// @Failure 400 {object} models.ErrorResponse "Invalid request"
// @Router /mcp/tools/call [post]
func (s *Server) HandleToolsCall(c *gin.Context) {
	var params ToolCallParams
	if err := c.ShouldBindJSON(&params); err != nil {
		c.JSON(http.StatusBadRequest, models.ErrorResponse{
			Error:   "Invalid request",
			Code:    http.StatusBadRequest,
			Details: err.Error(),
		})
		return
	}
	c.JSON(http.StatusOK, s.call(c.Request.Context(), params))
}

func (s *Server) definitions() ToolsListResult {
	list := s.registry.List()
	definitions := make([]ToolDefinition, 0, len(list))
	for _, tool := range list {
		definitions = append(definitions, ToolDefinition{
			Name:        tool.Name(),
			Description: tool.Description(),
			InputSchema: tool.InputSchema(),
		})
	}
	return ToolsListResult{Tools: definitions}
}

func (s *Server) call(ctx context.Context, params ToolCallParams) ToolCallResult {
	result, err := s.executeTool(ctx, params.Name, params.Arguments)
	if err != nil {
		return ToolCallResult{
			Content: []ContentItem{{Type: "text", Text: err.Error()}},
			IsError: true,
		}
	}

	var envelope tools.ToolResult
	isError := json.Unmarshal(result, &envelope) == nil && !envelope.Success
	return ToolCallResult{
		Content: []ContentItem{{Type: "text", Text: string(result)}},
		IsError: isError,
	}
}

func (s *Server) executeTool(ctx context.Context, name string, args json.RawMessage) (json.RawMessage, error) {
	tool, ok := s.registry.Get(name)
	if !ok {
		return nil, fmt.Errorf("tool not found: %s", name)
	}
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	s.log.Info().Str("tool", name).Msg("executing tool")
	result, err := tool.Execute(ctx, args)
	if err != nil {
		s.log.Warn().Err(err).Str("tool", name).Msg("tool failed")
		return nil, err
	}
	return result, nil
}

func (s *Server) sendResult(c *gin.Context, id interface{}, result interface{}) {
	c.JSON(http.StatusOK, Response{
		JSONRPC: "2.0",
		ID:      id,
		Result:  result,
	})
}

func (s *Server) sendError(c *gin.Context, id interface{}, code int, message string, data interface{}) {
	c.JSON(http.StatusOK, Response{
		JSONRPC: "2.0",
		ID:      id,
		Error: &Error{
			Code:    code,
			Message: message,
			Data:    data,
		},
	})
}
