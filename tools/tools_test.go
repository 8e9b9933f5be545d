package tools

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/resumify/backend/analysis"
	"github.com/resumify/backend/cache"
	"github.com/resumify/backend/labels"
	"github.com/resumify/backend/models"
)

func decode(t *testing.T, raw json.RawMessage) ToolResult {
	t.Helper()
	var result ToolResult
	require.NoError(t, json.Unmarshal(raw, &result))
	return result
}

func TestRegistryListIsSorted(t *testing.T) {
	r := NewToolRegistry()
	r.Register(NewRenderResumeTool())
	r.Register(NewAnalyzeResumeTool(analysis.NewAnalyzer(nil)))
	r.Register(NewTranslateResumeTool(nil))

	var names []string
	for _, tool := range r.List() {
		names = append(names, tool.Name())
	}
	assert.Equal(t, []string{"analyze_resume", "render_resume", "translate_resume"}, names)

	_, ok := r.Get("render_resume")
	assert.True(t, ok)
}

func TestAnalyzeResumeTool(t *testing.T) {
	tool := NewAnalyzeResumeTool(analysis.NewAnalyzer(nil))
	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"resume_text":"Skills: Go"}`))
	require.NoError(t, err)

	result := decode(t, raw)
	require.True(t, result.Success)
	var analyzed models.AnalyzeResponse
	require.NoError(t, json.Unmarshal(result.Data, &analyzed))
	assert.Equal(t, 55, analyzed.Score)

	raw, err = tool.Execute(context.Background(), json.RawMessage(`{"resume_text":""}`))
	require.NoError(t, err)
	assert.False(t, decode(t, raw).Success)
}

func TestGetLabelsTool(t *testing.T) {
	tool := NewGetLabelsTool(labels.NewProvider(nil, cache.NewMemoryCache(), time.Hour))

	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"language":"en"}`))
	require.NoError(t, err)
	result := decode(t, raw)
	require.True(t, result.Success)
	assert.Contains(t, string(result.Data), "Work Experience")

	raw, err = tool.Execute(context.Background(), json.RawMessage(`{"language":"fr"}`))
	require.NoError(t, err)
	assert.False(t, decode(t, raw).Success)
}

func TestTranslateResumeToolWithoutTranslator(t *testing.T) {
	tool := NewTranslateResumeTool(nil)
	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"resume":{"fullName":"Jane"},"target_lang":"fr"}`))
	require.NoError(t, err)
	assert.Equal(t, "translation is not configured", decode(t, raw).Error)

	raw, err = tool.Execute(context.Background(), json.RawMessage(`{"resume":{"fullName":"Jane"},"target_lang":"xx"}`))
	require.NoError(t, err)
	assert.False(t, decode(t, raw).Success)
}

func TestRenderResumeTool(t *testing.T) {
	tool := NewRenderResumeTool()
	raw, err := tool.Execute(context.Background(), json.RawMessage(`{"resume":{"fullName":"Jane","skills":"Go, SQL"}}`))
	require.NoError(t, err)

	result := decode(t, raw)
	require.True(t, result.Success)
	var doc struct {
		FullName string `json:"fullName"`
		Sections []struct {
			Key   string   `json:"key"`
			Items []string `json:"items"`
		} `json:"sections"`
	}
	require.NoError(t, json.Unmarshal(result.Data, &doc))
	assert.Equal(t, "Jane", doc.FullName)
	require.Len(t, doc.Sections, 1)
	assert.Equal(t, "skills", doc.Sections[0].Key)
	assert.Equal(t, []string{"Go", "SQL"}, doc.Sections[0].Items)

	raw, err = tool.Execute(context.Background(), json.RawMessage(`{"resume":{"fullName":"Jane"},"format":"html"}`))
	require.NoError(t, err)
	assert.Contains(t, string(decode(t, raw).Data), "Jane")
}
