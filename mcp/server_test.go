package mcp

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumify/backend/analysis"
	"github.com/resumify/backend/tools"
)

func setupRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	registry := tools.NewToolRegistry()
	registry.Register(tools.NewAnalyzeResumeTool(analysis.NewAnalyzer(nil)))
	registry.Register(tools.NewRenderResumeTool())

	router := gin.New()
	NewServer(registry, "test").RegisterRoutes(router.Group("/api"))
	return router
}

func rpc(t *testing.T, router *gin.Engine, body string) Response {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/mcp", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestInitializeAndList(t *testing.T) {
	router := setupRouter()

	resp := rpc(t, router, `{"jsonrpc":"2.0","id":1,"method":"initialize"}`)
	require.Nil(t, resp.Error)
	assert.Contains(t, resp.Result, "protocolVersion")

	resp = rpc(t, router, `{"jsonrpc":"2.0","id":2,"method":"tools/list"}`)
	require.Nil(t, resp.Error)
	data, _ := json.Marshal(resp.Result)
	var list ToolsListResult
	require.NoError(t, json.Unmarshal(data, &list))
	require.Len(t, list.Tools, 2)
	assert.Equal(t, "analyze_resume", list.Tools[0].Name)
}

func TestToolsCall(t *testing.T) {
	router := setupRouter()

	resp := rpc(t, router, `{"jsonrpc":"2.0","id":3,"method":"tools/call","params":{"name":"analyze_resume","arguments":{"resume_text":"education"}}}`)
	require.Nil(t, resp.Error)
	data, _ := json.Marshal(resp.Result)
	var result ToolCallResult
	require.NoError(t, json.Unmarshal(data, &result))
	assert.False(t, result.IsError)
	require.Len(t, result.Content, 1)
	assert.Contains(t, result.Content[0].Text, `"score":55`)

	resp = rpc(t, router, `{"jsonrpc":"2.0","id":4,"method":"tools/call","params":{"name":"missing"}}`)
	data, _ = json.Marshal(resp.Result)
	require.NoError(t, json.Unmarshal(data, &result))
	assert.True(t, result.IsError)
}

func TestErrors(t *testing.T) {
	router := setupRouter()

	resp := rpc(t, router, `{"jsonrpc":"2.0","id":5,"method":"nope"}`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeMethodNotFound, resp.Error.Code)

	resp = rpc(t, router, `not json`)
	require.NotNil(t, resp.Error)
	assert.Equal(t, codeParseError, resp.Error.Code)
}

func TestRESTToolsEndpoints(t *testing.T) {
	router := setupRouter()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/mcp/tools", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "render_resume")

	req := httptest.NewRequest(http.MethodPost, "/api/mcp/tools/call", bytes.NewBufferString(`{"name":"render_resume","arguments":{"resume":{"fullName":"Jane"}}}`))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Jane")
}
