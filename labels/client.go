package labels

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/rs/zerolog"
	"github.com/xeipuuv/gojsonschema"

	"github.com/resumify/backend/logger"
	"github.com/resumify/backend/models"
)

// ErrUnavailable wraps every failed call to the translation service
var ErrUnavailable = errors.New("translation service unavailable")

const maxResponseBytes = 1 << 20

// translatedResumeSchema accepts any object whose list fields are strings
// or arrays of strings/records
var translatedResumeSchema = gojsonschema.NewStringLoader(`{
  "type": "object",
  "definitions": {
    "flex": {
      "oneOf": [
        {"type": "string"},
        {"type": "null"},
        {"type": "array", "items": {"type": ["string", "object", "number", "null"]}}
      ]
    }
  },
  "properties": {
    "fullName": {"type": ["string", "null"]},
    "email": {"type": ["string", "null"]},
    "summary": {"type": ["string", "null"]},
    "skills": {"$ref": "#/definitions/flex"},
    "experience": {"$ref": "#/definitions/flex"},
    "education": {"$ref": "#/definitions/flex"},
    "projects": {"$ref": "#/definitions/flex"},
    "internship": {"$ref": "#/definitions/flex"},
    "certifications": {"$ref": "#/definitions/flex"},
    "achievements": {"$ref": "#/definitions/flex"},
    "languages": {"$ref": "#/definitions/flex"},
    "volunteer": {"$ref": "#/definitions/flex"},
    "hobbies": {"$ref": "#/definitions/flex"},
    "translatedLabels": {"type": ["object", "null"], "additionalProperties": {"type": "string"}}
  }
}`)

// Client calls the label and resume translation endpoints
type Client struct {
	baseURL    string
	httpClient *http.Client
	schema     *gojsonschema.Schema
	log        zerolog.Logger
}

// NewClient creates a client for the service at baseURL
func NewClient(baseURL string, httpClient *http.Client) (*Client, error) {
	schema, err := gojsonschema.NewSchema(translatedResumeSchema)
	if err != nil {
		return nil, fmt.Errorf("compile translation schema: %w", err)
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		schema:     schema,
		log:        logger.With("labels"),
	}, nil
}

// Resolve fetches the label set of a language. Any non-200 answer is a failure.
func (c *Client) Resolve(ctx context.Context, code string) (Set, error) {
	endpoint := c.baseURL + "/api/labels/" + url.PathEscape(code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	var set Set
	if err := json.Unmarshal(body, &set); err != nil {
		return nil, fmt.Errorf("%w: decode labels: %v", ErrUnavailable, err)
	}
	if len(set) == 0 {
		return nil, fmt.Errorf("%w: empty label set", ErrUnavailable)
	}
	return set, nil
}

// Translate asks for a translation of every free-text field of r into
// targetLang. The request carries the draft with empty translatedLabels and
// its language set to the target.
func (c *Client) Translate(ctx context.Context, r *models.Resume, targetLang string) (*models.Resume, error) {
	payload := r.Clone()
	payload.ID = ""
	payload.TranslatedLabels = map[string]string{}
	payload.Language = targetLang

	data, err := json.Marshal(models.TranslateResumeRequest{ResumeData: payload, TargetLang: targetLang})
	if err != nil {
		return nil, fmt.Errorf("encode translation request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/translateResume", bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req)
	if err != nil {
		return nil, err
	}

	result, err := c.schema.Validate(gojsonschema.NewBytesLoader(body))
	if err != nil {
		return nil, fmt.Errorf("%w: validate translation: %v", ErrUnavailable, err)
	}
	if !result.Valid() {
		msgs := make([]string, 0, len(result.Errors()))
		for _, e := range result.Errors() {
			msgs = append(msgs, e.String())
		}
		return nil, fmt.Errorf("%w: malformed translation: %s", ErrUnavailable, strings.Join(msgs, "; "))
	}

	var translated models.Resume
	if err := json.Unmarshal(body, &translated); err != nil {
		return nil, fmt.Errorf("%w: decode translation: %v", ErrUnavailable, err)
	}
	return &translated, nil
}

func (c *Client) do(req *http.Request) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("url", req.URL.String()).Msg("translation service request failed")
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read response: %v", ErrUnavailable, err)
	}
	if resp.StatusCode != http.StatusOK {
		c.log.Warn().Int("status", resp.StatusCode).Str("url", req.URL.String()).Msg("translation service returned error")
		return nil, fmt.Errorf("%w: status %d", ErrUnavailable, resp.StatusCode)
	}
	return body, nil
}
