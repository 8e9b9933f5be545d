package gemini

import (
	"testing"

	"cloud.google.com/go/vertexai/genai"
	"github.com/stretchr/testify/assert"
)

func TestCleanJSON(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"{\"a\":1}", "{\"a\":1}"},
		{"```json\n{\"a\":1}\n```", "{\"a\":1}"},
		{"  ```\n[1]\n```  ", "[1]"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, cleanJSON(tt.in))
	}
}

func TestExtractText(t *testing.T) {
	assert.Equal(t, "", extractText(nil))
	assert.Equal(t, "", extractText(&genai.GenerateContentResponse{}))

	resp := &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: &genai.Content{Parts: []genai.Part{genai.Text("{\"score\":"), genai.Text("80}")}},
		}},
	}
	assert.Equal(t, "{\"score\":80}", extractText(resp))
}

func TestClamp(t *testing.T) {
	assert.Equal(t, 0, clamp(-5, 0, 100))
	assert.Equal(t, 100, clamp(140, 0, 100))
	assert.Equal(t, 42, clamp(42, 0, 100))
}
