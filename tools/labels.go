package tools

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/resumify/backend/labels"
)

// GetLabelsTool returns the resume form labels of a language
type GetLabelsTool struct {
	provider *labels.Provider
}

// NewGetLabelsTool creates a new label lookup tool
func NewGetLabelsTool(provider *labels.Provider) *GetLabelsTool {
	return &GetLabelsTool{provider: provider}
}

func (t *GetLabelsTool) Name() string {
	return "get_form_labels"
}

func (t *GetLabelsTool) Description() string {
	return `Get the resume form labels (field names and button captions) in a language.
Supported codes: en, es, fr, de, it, pt, ru, ja, ko, zh, ar, hi.`
}

func (t *GetLabelsTool) InputSchema() map[string]interface{} {
	codes := make([]string, 0, len(labels.Languages))
	for _, l := range labels.Languages {
		codes = append(codes, l.Code)
	}
	return map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"language": map[string]interface{}{
				"type":        "string",
				"description": "Language code",
				"enum":        codes,
			},
		},
		"required": []string{"language"},
	}
}

// GetLabelsInput represents the input for label lookup
type GetLabelsInput struct {
	Language string `json:"language"`
}

func (t *GetLabelsTool) Execute(ctx context.Context, input json.RawMessage) (json.RawMessage, error) {
	var in GetLabelsInput
	if err := json.Unmarshal(input, &in); err != nil {
		return NewErrorResult(fmt.Sprintf("invalid input: %v", err))
	}

	set, err := t.provider.Labels(ctx, in.Language)
	if err != nil {
		return NewErrorResult(err.Error())
	}
	return NewSuccessResult(set)
}
