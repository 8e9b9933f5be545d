package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/resumify/backend/analysis"
)

// AnalyzeResumeTool scores resume text and suggests improvements
type AnalyzeResumeTool struct {
	analyzer *analysis.Analyzer
}

// NewAnalyzeResumeTool creates a new resume analysis tool
func NewAnalyzeResumeTool(analyzer *analysis.Analyzer) *AnalyzeResumeTool {
	return &AnalyzeResumeTool{analyzer: analyzer}
}

func (t *AnalyzeResumeTool) Name() string {
	return "analyze_resume"
}

func (t *AnalyzeResumeTool) Description() string {
	return `Score a resume from 0 to 100 and suggest improvements.
Input should be the plain resume text.
Returns the score, the keywords found and a list of suggestions.`
}

func (t *AnalyzeResumeTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"resume_text": map[string]interface{}{
				"type":        "string",
				"description": "The resume text to analyze",
			},
		},
		"required": []string{"resume_text"},
	}
}

// AnalyzeResumeInput represents the input for resume analysis
type AnalyzeResumeInput struct {
	ResumeText string `json:"resume_text"`
}

func (t *AnalyzeResumeTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in AnalyzeResumeInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	result, err := t.analyzer.Analyze(ctx, in.ResumeText)
	if err != nil {
		return NewErrorResult(fmt.Sprintf("analysis failed: %v", err))
	}
	return NewSuccessResult(result)
}
