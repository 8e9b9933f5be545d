package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/resumify/backend/models"
	"github.com/resumify/backend/render"
)

// RenderResumeTool lays a resume record out into its display sections
type RenderResumeTool struct{}

// NewRenderResumeTool creates a new resume layout tool
func NewRenderResumeTool() *RenderResumeTool {
	return &RenderResumeTool{}
}

func (t *RenderResumeTool) Name() string {
	return "render_resume"
}

func (t *RenderResumeTool) Description() string {
	return `Lay a resume record out the way the preview and PDF show it.
Returns the header, contacts and the ordered list of non-empty sections with their labels.
Set format to "html" for the printable page instead.`
}

func (t *RenderResumeTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"resume": map[string]interface{}{
				"type":        "object",
				"description": "Resume record",
			},
			"format": map[string]interface{}{
				"type":        "string",
				"description": "sections (default) or html",
				"enum":        []string{"sections", "html"},
			},
		},
		"required": []string{"resume"},
	}
}

// RenderResumeInput represents the input for resume layout
type RenderResumeInput struct {
	Resume *models.Resume `json:"resume"`
	Format string         `json:"format,omitempty"`
}

func (t *RenderResumeTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in RenderResumeInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}
	if in.Resume == nil {
		return NewErrorResult("resume is required")
	}

	if in.Format == "html" {
		html, err := render.PrintHTML(in.Resume)
		if err != nil {
			return NewErrorResult(fmt.Sprintf("render failed: %v", err))
		}
		return NewSuccessResult(map[string]string{"html": html})
	}
	return NewSuccessResult(render.Build(in.Resume))
}
