package models

import "encoding/json"

// ErrorResponse represents an API error response
// @Description Standard error response
type ErrorResponse struct {
	Error    string   `json:"error" example:"Invalid request body"`
	Code     int      `json:"code" example:"400"`
	Details  string   `json:"details,omitempty" example:"email is required"`
	Missing  []string `json:"missing,omitempty"`                          // required fields absent on the active step
	Redirect string   `json:"redirect,omitempty" example:"/my-resumes"` // where the client should go next
}

// HealthResponse represents health check response
// @Description Server health status
type HealthResponse struct {
	Status    string `json:"status" example:"healthy"`
	Version   string `json:"version" example:"1.0.0"`
	Timestamp string `json:"timestamp" example:"2024-01-15T10:30:00Z"`
}

// MessageResponse is a plain acknowledgement
type MessageResponse struct {
	Message string `json:"message" example:"Resume deleted"`
}

// AnalyzeRequest represents a resume analysis request
// @Description Plain-text resume analysis request
type AnalyzeRequest struct {
	ResumeText string `json:"resumeText" binding:"required" example:"Jane Doe\nBackend engineer with 5 years of experience..."`
}

// AnalyzeResponse represents the result of a resume analysis
// @Description Resume score with keywords and suggestions
type AnalyzeResponse struct {
	Score       int      `json:"score" example:"78"`
	Keywords    []string `json:"keywords"`
	Suggestions []string `json:"suggestions"`
}

// TranslateResumeRequest asks for a full-record translation
// @Description Resume translation request
type TranslateResumeRequest struct {
	ResumeData *Resume `json:"resumeData" binding:"required"`
	TargetLang string  `json:"targetLang" binding:"required" example:"fr"`
}

// LabelsResponse is the label map of one language
type LabelsResponse map[string]string

// CreateDraftRequest starts a draft, optionally from an existing resume
// @Description Draft creation request
type CreateDraftRequest struct {
	ResumeID string `json:"resumeId,omitempty" example:"abc123"` // edit an existing resume
	Language string `json:"language,omitempty" example:"en"`
}

// PatchDraftRequest sets draft fields; values may be strings, string arrays or record arrays
// @Description Partial draft update keyed by field name
type PatchDraftRequest map[string]json.RawMessage

// ChangeLanguageRequest selects the draft language
// @Description Language selection
type ChangeLanguageRequest struct {
	Language string `json:"language" binding:"required" example:"fr"`
}

// EntryRequest carries one structured-list entry
// @Description Structured entry, such as {"title":"Engineer","company":"Acme"}
type EntryRequest map[string]string
