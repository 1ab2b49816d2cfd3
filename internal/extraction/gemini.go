package extraction

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"

// extractionPrompt instructs the model to return the bill as bare JSON.
const extractionPrompt = `Analyze this restaurant bill image and extract the information into a JSON object with exactly this structure:
{
    "bill_date": "date of the bill",
    "vendor": "restaurant/store name",
    "items": [
        {
            "name": "item name",
            "quantity": quantity_as_number,
            "price": price_as_number
        }
    ],
    "subtotal": subtotal_as_number,
    "tax": tax_amount_as_number,
    "total": total_amount_as_number,
    "currency": "currency_code"
}

IMPORTANT:
- Return ONLY the JSON object, no additional text
- All monetary values must be numbers (not strings)
- Quantities must be integers
- Include all items with their names, quantities, and prices
- Calculate subtotal as sum of (quantity x price) for all items
- Extract tax amount and total from the bill`

// Ensure GeminiClient implements Extractor
var _ Extractor = (*GeminiClient)(nil)

// GeminiClient calls the Gemini generateContent API with the bill image
// inline and parses the JSON the model returns.
type GeminiClient struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewGeminiClient creates a client for the given API key and model
// (e.g. "gemini-1.5-flash").
func NewGeminiClient(apiKey, model string) *GeminiClient {
	return &GeminiClient{
		apiKey:     apiKey,
		model:      model,
		baseURL:    defaultBaseURL,
		httpClient: &http.Client{Timeout: 60 * time.Second},
	}
}

// ExtractBill sends the image to Gemini and decodes the structured bill.
func (g *GeminiClient) ExtractBill(ctx context.Context, image []byte, mimeType string) (*ExtractedBill, error) {
	if g.apiKey == "" {
		return nil, errors.New("missing gemini api key")
	}
	if g.model == "" {
		return nil, errors.New("missing gemini model")
	}
	if len(image) == 0 {
		return nil, errors.New("empty image")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}

	url := fmt.Sprintf("%s/models/%s:generateContent?key=%s", g.baseURL, g.model, g.apiKey)

	payload := map[string]any{
		"contents": []map[string]any{
			{
				"parts": []map[string]any{
					{"text": extractionPrompt},
					{"inline_data": map[string]string{
						"mime_type": mimeType,
						"data":      base64.StdEncoding.EncodeToString(image),
					}},
				},
			},
		},
		"generationConfig": map[string]any{
			"temperature":     0.2,
			"maxOutputTokens": 2048,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("gemini request failed: %w", err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("gemini api error (status %d): %s", resp.StatusCode, raw)
	}

	// Gemini response shape
	var result struct {
		Candidates []struct {
			Content struct {
				Parts []struct {
					Text string `json:"text"`
				} `json:"parts"`
			} `json:"content"`
		} `json:"candidates"`
	}
	if err := json.Unmarshal(raw, &result); err != nil {
		return nil, fmt.Errorf("failed to decode gemini response: %w", err)
	}
	if len(result.Candidates) == 0 || len(result.Candidates[0].Content.Parts) == 0 {
		return nil, errors.New("empty gemini response")
	}

	text := result.Candidates[0].Content.Parts[0].Text
	jsonStr, err := extractJSON(text)
	if err != nil {
		return nil, err
	}

	var extracted ExtractedBill
	if err := json.Unmarshal([]byte(jsonStr), &extracted); err != nil {
		return nil, fmt.Errorf("failed to parse extracted bill: %w", err)
	}
	return &extracted, nil
}

// extractJSON strips any prose or markdown fencing around the outermost
// JSON object. Models occasionally wrap their answer despite instructions.
func extractJSON(text string) (string, error) {
	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start == -1 || end == -1 || end < start {
		return "", errors.New("no JSON object found in model output")
	}
	return text[start : end+1], nil
}
