package analysis

import (
	"errors"
	"testing"
)

func TestExtractJSONLabeledFence(t *testing.T) {
	text := "Here is the assessment:\n```json\n{\"overallRating\":8}\n```\nHope that helps!"
	if got := extractJSON(text); got != `{"overallRating":8}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONBareFence(t *testing.T) {
	text := "```\n{\"overallRating\":8}\n```"
	if got := extractJSON(text); got != `{"overallRating":8}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONNoFence(t *testing.T) {
	text := "  {\"overallRating\":8}\n"
	if got := extractJSON(text); got != `{"overallRating":8}` {
		t.Errorf("got %q", got)
	}
}

func TestExtractJSONLabeledFencePreferredOverBare(t *testing.T) {
	text := "```\nnot it\n```\nactually:\n```json\n{\"overallRating\":3}\n```"
	got := extractJSON(text)
	if got != `{"overallRating":3}` {
		t.Errorf("got %q, want the labeled fence interior", got)
	}
}

func TestParseResultFull(t *testing.T) {
	raw := `{
		"overallRating": 8,
		"skinIrritationRating": 7,
		"allergenRating": 9,
		"environmentalRating": 6,
		"summary": "Generally safe",
		"keyFindings": ["Mild surfactant"],
		"recommendation": "Fine for daily use",
		"ingredients": [
			{"name": "water", "description": "Solvent", "safetyRating": 10, "concerns": []},
			{"name": "glycerin", "description": "Humectant", "safetyRating": 9, "concerns": ["May feel sticky"]}
		]
	}`
	res, err := parseResult(raw)
	if err != nil {
		t.Fatalf("parseResult: %v", err)
	}
	if res.OverallRating != 8 || len(res.Ingredients) != 2 {
		t.Errorf("res = %+v", res)
	}
	if res.Ingredients[1].Name != "glycerin" || res.Ingredients[1].SafetyRating != 9 {
		t.Errorf("ingredient = %+v", res.Ingredients[1])
	}
}

func TestParseResultMissingOptionalFieldsDefault(t *testing.T) {
	res, err := parseResult(`{"overallRating": 5}`)
	if err != nil {
		t.Fatalf("parseResult: %v", err)
	}
	if res.Summary != "" || res.Ingredients != nil || res.KeyFindings != nil {
		t.Errorf("optional fields not defaulted: %+v", res)
	}
}

func TestParseResultRejects(t *testing.T) {
	cases := map[string]string{
		"prose":                 "I could not produce JSON, sorry.",
		"array root":            `[1,2,3]`,
		"missing overallRating": `{"summary":"ok"}`,
		"string rating":         `{"overallRating":"8"}`,
		"ingredients not array": `{"overallRating":8,"ingredients":{"name":"water"}}`,
		"empty":                 "",
	}
	for name, raw := range cases {
		if _, err := parseResult(raw); !errors.Is(err, ErrMalformedAnalysis) {
			t.Errorf("%s: err = %v, want ErrMalformedAnalysis", name, err)
		}
	}
}
