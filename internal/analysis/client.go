package analysis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/go-resty/resty/v2"
)

// ErrUpstream covers transport failures, timeouts and non-2xx replies from
// the model provider.
var ErrUpstream = errors.New("model provider unavailable")

// ErrEmptyResponse means the provider answered but produced no candidate.
var ErrEmptyResponse = errors.New("empty model response")

// ErrMalformedAnalysis means the reply text could not be converted into a
// valid structured result.
var ErrMalformedAnalysis = errors.New("malformed analysis")

// Client calls the Gemini generateContent API. One outbound call per
// analysis, bounded by the client timeout; no retries within a request.
type Client struct {
	http   *resty.Client
	model  string
	apiKey string
}

func NewClient(baseURL, apiKey, model string) *Client {
	c := resty.New().
		SetBaseURL(baseURL).
		SetHeader("Content-Type", "application/json").
		SetTimeout(60 * time.Second)
	return &Client{http: c, model: model, apiKey: apiKey}
}

type generateRequest struct {
	Contents         []content        `json:"contents"`
	GenerationConfig generationConfig `json:"generationConfig"`
}

type content struct {
	Parts []part `json:"parts"`
}

type part struct {
	Text string `json:"text"`
}

// generationConfig keeps output deterministic-leaning and bounded so the
// reply is neither truncated mid-object nor wildly creative.
type generationConfig struct {
	Temperature     float64 `json:"temperature"`
	TopK            int     `json:"topK"`
	TopP            float64 `json:"topP"`
	MaxOutputTokens int     `json:"maxOutputTokens"`
}

type generateResponse struct {
	Candidates []struct {
		Content content `json:"content"`
	} `json:"candidates"`
}

// Generate submits the prompt and returns the first candidate's text.
func (c *Client) Generate(ctx context.Context, prompt string) (string, error) {
	body := generateRequest{
		Contents: []content{{Parts: []part{{Text: prompt}}}},
		GenerationConfig: generationConfig{
			Temperature:     0.2,
			TopK:            40,
			TopP:            0.95,
			MaxOutputTokens: 8192,
		},
	}
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("key", c.apiKey).
		SetBody(&body).
		Post("/v1beta/models/" + c.model + ":generateContent")
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		return "", fmt.Errorf("%w: status %d", ErrUpstream, resp.StatusCode())
	}
	var gr generateResponse
	if err := json.Unmarshal(resp.Body(), &gr); err != nil {
		return "", fmt.Errorf("%w: undecodable provider reply", ErrUpstream)
	}
	if len(gr.Candidates) == 0 || len(gr.Candidates[0].Content.Parts) == 0 {
		return "", ErrEmptyResponse
	}
	return gr.Candidates[0].Content.Parts[0].Text, nil
}

// buildPrompt instructs the model to answer with only the JSON object of
// the assessment shape, explicit ranges included.
func buildPrompt(ingredients string) string {
	return `Analyze the following product ingredients and provide a detailed health assessment. Focus on potential health impacts, allergens, irritants, and overall safety.

Ingredients: ` + ingredients + `

Format your response as a JSON object with the following structure:
{
  "overallRating": (number from 1-10, with 10 being safest),
  "skinIrritationRating": (number from 1-10, with 10 being least irritating),
  "allergenRating": (number from 1-10, with 10 being least allergenic),
  "environmentalRating": (number from 1-10, with 10 being most eco-friendly),
  "summary": "Brief summary of overall assessment",
  "keyFindings": ["Key finding 1", "Key finding 2", "Key finding 3"],
  "recommendation": "Overall recommendation on product usage",
  "ingredients": [
    {
      "name": "Ingredient name",
      "description": "Brief description of the ingredient",
      "safetyRating": (number from 1-10, with 10 being safest),
      "concerns": ["Potential concern 1", "Potential concern 2"]
    }
  ]
}

Ensure your response is only the valid JSON object with no additional text.`
}
