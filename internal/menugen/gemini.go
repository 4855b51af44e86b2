package menugen

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"izakaya-order/internal/logger"
	"izakaya-order/internal/models"
)

const (
	DefaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	DefaultModel   = "gemini-2.5-flash"
)

var tracer = otel.Tracer("izakaya-order/menugen")

// GeminiClient generates specials through the GenerateContent REST API
type GeminiClient struct {
	apiKey     string
	baseURL    string
	model      string
	httpClient *http.Client
	log        *logger.Logger
}

func NewGeminiClient(apiKey, baseURL, model string, log *logger.Logger) *GeminiClient {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if model == "" {
		model = DefaultModel
	}
	return &GeminiClient{
		apiKey:     apiKey,
		baseURL:    strings.TrimRight(baseURL, "/"),
		model:      model,
		httpClient: &http.Client{Timeout: 30 * time.Second},
		log:        log,
	}
}

func (c *GeminiClient) Generate(ctx context.Context, ingredients string) (models.MenuItemDraft, error) {
	ctx, span := tracer.Start(ctx, "menugen.generate")
	defer span.End()
	span.SetAttributes(
		attribute.String("ai.provider", "gemini"),
		attribute.String("ai.model", c.model),
	)

	result, err := c.request(ctx, strings.TrimSpace(ingredients))
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		c.log.Error("menugen_failed", "Special generation failed", "", err, map[string]interface{}{
			"model": c.model,
		})
		return models.MenuItemDraft{}, failed(err)
	}

	draft := result.draft()
	span.SetAttributes(attribute.Int("menugen.price", draft.Price))
	c.log.Info("menugen_generated", "Special generated", "", map[string]interface{}{
		"name":  draft.Name,
		"price": draft.Price,
	})
	return draft, nil
}

func (c *GeminiClient) request(ctx context.Context, ingredients string) (special, error) {
	body, err := json.Marshal(generateRequest{
		Contents: []content{{
			Role:  "user",
			Parts: []part{{Text: prompt(ingredients)}},
		}},
		GenerationConfig: &generationConfig{
			Temperature:      0.9,
			ResponseMimeType: "application/json",
			ResponseSchema:   specialSchema(),
		},
	})
	if err != nil {
		return special{}, fmt.Errorf("failed to marshal request: %w", err)
	}

	url := fmt.Sprintf("%s/models/%s:generateContent", c.baseURL, c.model)
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return special{}, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	// the key must never appear in the URL
	req.Header.Set("x-goog-api-key", c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return special{}, fmt.Errorf("failed to send request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return special{}, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return special{}, fmt.Errorf("gemini API returned status %d", resp.StatusCode)
	}

	var parsed generateResponse
	if err := json.Unmarshal(raw, &parsed); err != nil {
		return special{}, fmt.Errorf("failed to parse response: %w", err)
	}
	if len(parsed.Candidates) == 0 {
		return special{}, errors.New("no candidates in response")
	}

	var text strings.Builder
	for _, p := range parsed.Candidates[0].Content.Parts {
		text.WriteString(p.Text)
	}
	if text.Len() == 0 {
		return special{}, fmt.Errorf("no text content in response (finish reason %q)", parsed.Candidates[0].FinishReason)
	}

	var out special
	if err := json.Unmarshal([]byte(text.String()), &out); err != nil {
		return special{}, fmt.Errorf("failed to parse generated special: %w", err)
	}
	return out, nil
}

func prompt(ingredients string) string {
	return fmt.Sprintf("Create a creative Japanese izakaya menu item using these ingredients or themes: %q. "+
		"Return a JSON object with name, price (in JPY, between %d and %d) and description (appetizing, at most 40 characters).",
		ingredients, MinPrice, MaxPrice)
}

// draft fills in missing fields and keeps the price inside the allowed band
func (s special) draft() models.MenuItemDraft {
	name := strings.TrimSpace(s.Name)
	if name == "" {
		name = fallbackName
	}
	description := strings.TrimSpace(s.Description)
	if description == "" {
		description = fallbackDescription
	}

	return models.MenuItemDraft{
		Name:        name,
		Price:       normalizePrice(s.Price),
		Category:    models.CategoryRecommend,
		Description: description,
		ImageURL:    fmt.Sprintf("https://picsum.photos/400/300?random=%d", rand.IntN(1000)),
		Special:     true,
	}
}

func normalizePrice(p float64) int {
	if p <= 0 || math.IsNaN(p) || math.IsInf(p, 0) {
		return DefaultPrice
	}
	price := int(math.Round(p))
	if price < MinPrice {
		return MinPrice
	}
	if price > MaxPrice {
		return MaxPrice
	}
	return price
}
