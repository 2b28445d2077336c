package analysis

import (
	"encoding/json"
	"strings"

	"github.com/tidwall/gjson"
)

// extractJSON pulls the JSON candidate out of a model reply that may wrap
// it in code fences or prose. Precedence: a fence labeled json, then any
// fence, then the whole text.
func extractJSON(text string) string {
	if start := strings.Index(text, "```json"); start >= 0 {
		inner := start + len("```json")
		if end := strings.LastIndex(text, "```"); end > inner {
			return strings.TrimSpace(text[inner:end])
		}
	}
	if start := strings.Index(text, "```"); start >= 0 {
		inner := start + len("```")
		if end := strings.LastIndex(text, "```"); end > inner {
			return strings.TrimSpace(text[inner:end])
		}
	}
	return strings.TrimSpace(text)
}

// parseResult validates the extracted text and unmarshals it. The probe
// requires a JSON object with a numeric overallRating and, when present, an
// ingredients array; other fields default rather than failing the pipeline.
func parseResult(raw string) (*Result, error) {
	if !gjson.Valid(raw) {
		return nil, ErrMalformedAnalysis
	}
	root := gjson.Parse(raw)
	if !root.IsObject() {
		return nil, ErrMalformedAnalysis
	}
	if root.Get("overallRating").Type != gjson.Number {
		return nil, ErrMalformedAnalysis
	}
	if ing := root.Get("ingredients"); ing.Exists() && !ing.IsArray() {
		return nil, ErrMalformedAnalysis
	}
	var res Result
	if err := json.Unmarshal([]byte(raw), &res); err != nil {
		return nil, ErrMalformedAnalysis
	}
	return &res, nil
}
