// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package gemini calls the Gemini generateContent API to extract
// front-matter metadata from a document snippet and, optionally, to
// judge whether a filename already conforms to the naming templates.
package gemini

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/paperdf/paperdf/internal/httputil"
	"github.com/paperdf/paperdf/pkg/types"
)

// DefaultModel is used when no model is configured.
const DefaultModel = "gemini-2.5-flash-lite"

// apiBaseURL is the Gemini API root. Package-level var for test
// substitution.
var apiBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// ErrMissingAPIKey is returned by NewClient when no key is configured.
// The caller must check this once before a batch starts, not per
// document.
var ErrMissingAPIKey = fmt.Errorf("gemini API key is required")

// Client is a Gemini API client for metadata extraction and filename
// validation.
type Client struct {
	model  string
	apiKey string
	http   *httputil.Client
}

// NewClient validates the configuration and builds a client. Rate
// limiting and 429 retries come from the AI config.
func NewClient(cfg types.AIConfig) (*Client, error) {
	if strings.TrimSpace(cfg.APIKey) == "" {
		return nil, ErrMissingAPIKey
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}

	rpm := cfg.RequestsPerMinute
	if rpm == 0 {
		rpm = 30
	}

	return &Client{
		model:  model,
		apiKey: cfg.APIKey,
		http:   httputil.NewClient(cfg.Timeout, rpm, cfg.MaxRetries),
	}, nil
}

// --- wire format ---

type generateRequest struct {
	Contents          []content         `json:"contents"`
	SystemInstruction *content          `json:"systemInstruction,omitempty"`
	GenerationConfig  *generationConfig `json:"generationConfig,omitempty"`
}

type content struct {
	Role  string `json:"role,omitempty"`
	Parts []part `json:"parts"`
}

type part struct {
	Text       string      `json:"text,omitempty"`
	InlineData *inlineData `json:"inlineData,omitempty"`
}

type inlineData struct {
	MimeType string `json:"mimeType"`
	Data     string `json:"data"`
}

type generationConfig struct {
	ResponseMIMEType string `json:"responseMimeType,omitempty"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Extract uploads the snippet inline and asks the model for structured
// metadata. pages bounds, via the prompt, how far into the document the
// model may look. The response must be strict JSON; anything else is an
// error consumed at the per-document boundary.
func (c *Client) Extract(ctx context.Context, snippet []byte, isBook bool, pages int) (types.RawMetadata, error) {
	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: extractionInstruction(isBook, pages)}}},
		Contents: []content{{
			Role: "user",
			Parts: []part{
				{InlineData: &inlineData{
					MimeType: "application/pdf",
					Data:     base64.StdEncoding.EncodeToString(snippet),
				}},
			},
		}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return types.RawMetadata{}, err
	}
	return parseMetadata(text)
}

// IsAlreadyFormatted asks the model whether the base filename conforms
// to the filename pattern and author format. Pipeline callers treat any
// error as "not formatted" so a validator outage never suppresses a
// rename.
func (c *Client) IsAlreadyFormatted(ctx context.Context, name string, isBook bool, filenameTmpl, authorTmpl string) (bool, error) {
	req := generateRequest{
		SystemInstruction: &content{Parts: []part{{Text: validatorInstruction}}},
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: validatorPrompt(name, isBook, filenameTmpl, authorTmpl)}},
		}},
		GenerationConfig: &generationConfig{ResponseMIMEType: "application/json"},
	}

	text, err := c.generate(ctx, req)
	if err != nil {
		return false, err
	}
	return parseVerdict(text)
}

// generate posts one generateContent request and returns the first text
// part of the first candidate.
func (c *Client) generate(ctx context.Context, reqBody generateRequest) (string, error) {
	bodyBytes, err := json.Marshal(reqBody)
	if err != nil {
		return "", fmt.Errorf("marshaling request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", apiBaseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(bodyBytes))
	if err != nil {
		return "", fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.http.Do(ctx, req)
	if err != nil {
		return "", fmt.Errorf("calling Gemini API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return "", fmt.Errorf("Gemini API returned %d: %s", resp.StatusCode, string(body))
	}

	var gResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&gResp); err != nil {
		return "", fmt.Errorf("decoding Gemini response: %w", err)
	}

	for _, cand := range gResp.Candidates {
		for _, p := range cand.Content.Parts {
			if p.Text != "" {
				return p.Text, nil
			}
		}
	}
	return "", fmt.Errorf("no text content in Gemini response")
}

// parseMetadata decodes the model's JSON into a raw record. Keys are
// matched case-insensitively; authors may be an array or one
// comma-joined string; year may be a number.
func parseMetadata(text string) (types.RawMetadata, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal([]byte(text), &fields); err != nil {
		return types.RawMetadata{}, fmt.Errorf("invalid JSON from model: %w", err)
	}

	lower := make(map[string]json.RawMessage, len(fields))
	for k, v := range fields {
		lower[strings.ToLower(k)] = v
	}

	var raw types.RawMetadata
	raw.Authors = coerceAuthors(lower["authors"])
	raw.Year = coerceString(lower["year"])
	raw.Journal = coerceString(lower["journal"])
	raw.Title = coerceString(lower["title"])
	return raw, nil
}

// coerceAuthors accepts a JSON array of strings or a single string.
func coerceAuthors(msg json.RawMessage) []string {
	if len(msg) == 0 {
		return nil
	}
	var list []string
	if err := json.Unmarshal(msg, &list); err == nil {
		return list
	}
	var single string
	if err := json.Unmarshal(msg, &single); err == nil && single != "" {
		return []string{single}
	}
	return nil
}

// coerceString accepts a JSON string, number, or null.
func coerceString(msg json.RawMessage) string {
	if len(msg) == 0 {
		return ""
	}
	var s string
	if err := json.Unmarshal(msg, &s); err == nil {
		return s
	}
	var n json.Number
	if err := json.Unmarshal(msg, &n); err == nil {
		return n.String()
	}
	return ""
}

// parseVerdict decodes the validator's {"ok": ...} answer. Boolean and
// affirmative string forms are accepted.
func parseVerdict(text string) (bool, error) {
	var verdict struct {
		OK json.RawMessage `json:"ok"`
	}
	if err := json.Unmarshal([]byte(text), &verdict); err != nil {
		return false, fmt.Errorf("invalid JSON from validator: %w", err)
	}
	if len(verdict.OK) == 0 {
		return false, nil
	}

	var b bool
	if err := json.Unmarshal(verdict.OK, &b); err == nil {
		return b, nil
	}
	var s string
	if err := json.Unmarshal(verdict.OK, &s); err == nil {
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes", "y", "1":
			return true, nil
		}
	}
	return false, nil
}
