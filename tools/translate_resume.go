package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/resumify/backend/labels"
	"github.com/resumify/backend/models"
)

// ResumeTranslator translates a resume record
type ResumeTranslator interface {
	TranslateResume(ctx context.Context, r *models.Resume, targetLang string) (*models.Resume, error)
}

// TranslateResumeTool translates the content of a resume record
type TranslateResumeTool struct {
	translator ResumeTranslator
}

// NewTranslateResumeTool creates a new resume translation tool
func NewTranslateResumeTool(translator ResumeTranslator) *TranslateResumeTool {
	return &TranslateResumeTool{translator: translator}
}

func (t *TranslateResumeTool) Name() string {
	return "translate_resume"
}

func (t *TranslateResumeTool) Description() string {
	return `Translate the free-text content of a resume record into another language.
Names, emails, phone numbers and URLs are kept as they are.`
}

func (t *TranslateResumeTool) InputSchema() map[string]interface{} {
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"resume": map[string]interface{}{
				"type":        "object",
				"description": "Resume record with fields such as fullName, summary, skills, experience",
			},
			"target_lang": map[string]interface{}{
				"type":        "string",
				"description": "Target language code, such as fr",
			},
		},
		"required": []string{"resume", "target_lang"},
	}
}

// TranslateResumeInput represents the input for resume translation
type TranslateResumeInput struct {
	Resume     *models.Resume `json:"resume"`
	TargetLang string         `json:"target_lang"`
}

func (t *TranslateResumeTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in TranslateResumeInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}
	if in.Resume == nil {
		return NewErrorResult("resume is required")
	}
	if _, ok := labels.Lookup(in.TargetLang); !ok {
		return NewErrorResult(fmt.Sprintf("unsupported language: %s", in.TargetLang))
	}
	if t.translator == nil {
		return NewErrorResult("translation is not configured")
	}

	translated, err := t.translator.TranslateResume(ctx, in.Resume, in.TargetLang)
	if err != nil {
		return NewErrorResult(fmt.Sprintf("translation failed: %v", err))
	}
	return NewSuccessResult(translated)
}
