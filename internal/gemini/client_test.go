// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paperdf/paperdf/pkg/types"
)

// newTestClient points the package at a stub server answering every
// generateContent call with the given model text.
func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	old := apiBaseURL
	apiBaseURL = ts.URL
	t.Cleanup(func() { apiBaseURL = old })

	c, err := NewClient(types.AIConfig{APIKey: "test-key", RequestsPerMinute: -1})
	require.NoError(t, err)
	return c
}

// modelAnswer wraps text in the generateContent response envelope.
func modelAnswer(text string) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		resp := map[string]any{
			"candidates": []any{
				map[string]any{"content": map[string]any{
					"parts": []any{map[string]any{"text": text}},
				}},
			},
		}
		json.NewEncoder(w).Encode(resp)
	}
}

func TestNewClientRequiresKey(t *testing.T) {
	_, err := NewClient(types.AIConfig{})
	assert.ErrorIs(t, err, ErrMissingAPIKey)

	_, err = NewClient(types.AIConfig{APIKey: "  "})
	assert.ErrorIs(t, err, ErrMissingAPIKey)
}

func TestExtract(t *testing.T) {
	tests := []struct {
		name string
		text string
		want types.RawMetadata
	}{
		{
			name: "well-formed response",
			text: `{"authors": ["Jane Doe", "John Smith"], "year": "2020", "journal": "Acm", "title": "A Study"}`,
			want: types.RawMetadata{
				Authors: []string{"Jane Doe", "John Smith"},
				Year:    "2020",
				Journal: "Acm",
				Title:   "A Study",
			},
		},
		{
			name: "authors as comma-joined string",
			text: `{"authors": "Jane Doe, John Smith", "year": "2020", "journal": "", "title": ""}`,
			want: types.RawMetadata{Authors: []string{"Jane Doe, John Smith"}, Year: "2020"},
		},
		{
			name: "year as number",
			text: `{"authors": [], "year": 2020, "journal": "", "title": ""}`,
			want: types.RawMetadata{Year: "2020"},
		},
		{
			name: "capitalized keys accepted",
			text: `{"Authors": ["Jane Doe"], "Year": "2020", "Journal": "Acm", "Title": "A Study"}`,
			want: types.RawMetadata{Authors: []string{"Jane Doe"}, Year: "2020", Journal: "Acm", Title: "A Study"},
		},
		{
			name: "null fields",
			text: `{"authors": null, "year": null, "journal": null, "title": null}`,
			want: types.RawMetadata{},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, modelAnswer(tt.text))
			got, err := c.Extract(context.Background(), []byte("%PDF-"), false, 4)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExtractInvalidJSON(t *testing.T) {
	c := newTestClient(t, modelAnswer("the metadata is as follows: ..."))
	_, err := c.Extract(context.Background(), []byte("%PDF-"), false, 4)
	assert.ErrorContains(t, err, "invalid JSON")
}

func TestExtractAPIError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "boom", http.StatusBadRequest)
	})
	_, err := c.Extract(context.Background(), []byte("%PDF-"), false, 4)
	assert.ErrorContains(t, err, "400")
}

func TestExtractSendsInlinePDF(t *testing.T) {
	var captured generateRequest
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		modelAnswer(`{"authors": [], "year": "", "journal": "", "title": ""}`)(w, r)
	})

	_, err := c.Extract(context.Background(), []byte("%PDF-1.4"), true, 20)
	require.NoError(t, err)

	require.Len(t, captured.Contents, 1)
	require.Len(t, captured.Contents[0].Parts, 1)
	require.NotNil(t, captured.Contents[0].Parts[0].InlineData)
	assert.Equal(t, "application/pdf", captured.Contents[0].Parts[0].InlineData.MimeType)

	require.NotNil(t, captured.SystemInstruction)
	instr := captured.SystemInstruction.Parts[0].Text
	assert.Contains(t, instr, "first 20 pages")
	assert.Contains(t, instr, "Publisher")
}

func TestIsAlreadyFormatted(t *testing.T) {
	tests := []struct {
		name string
		text string
		want bool
	}{
		{name: "ok true", text: `{"ok": true}`, want: true},
		{name: "ok false", text: `{"ok": false}`, want: false},
		{name: "string yes", text: `{"ok": "yes"}`, want: true},
		{name: "string true", text: `{"ok": "True"}`, want: true},
		{name: "string no", text: `{"ok": "no"}`, want: false},
		{name: "missing key", text: `{}`, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, modelAnswer(tt.text))
			got, err := c.IsAlreadyFormatted(context.Background(), "x.pdf", false, "{title}.pdf", "{surname}")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestIsAlreadyFormattedError(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "unavailable", http.StatusServiceUnavailable)
	})
	_, err := c.IsAlreadyFormatted(context.Background(), "x.pdf", false, "{title}.pdf", "{surname}")
	assert.Error(t, err)
}

func TestGenerateUsesConfiguredModel(t *testing.T) {
	var path string
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		modelAnswer(`{"ok": true}`)(w, r)
	}))
	defer ts.Close()

	old := apiBaseURL
	apiBaseURL = ts.URL
	defer func() { apiBaseURL = old }()

	c, err := NewClient(types.AIConfig{APIKey: "k", Model: "gemini-exp", RequestsPerMinute: -1})
	require.NoError(t, err)

	_, err = c.IsAlreadyFormatted(context.Background(), "x.pdf", false, "{title}.pdf", "{surname}")
	require.NoError(t, err)
	assert.Equal(t, fmt.Sprintf("/models/%s:generateContent", "gemini-exp"), path)
}
