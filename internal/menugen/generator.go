package menugen

import (
	"context"
	"fmt"
	"strings"

	"izakaya-order/internal/config"
	"izakaya-order/internal/logger"
	"izakaya-order/internal/models"
)

// FailureMessage is shown to staff when a special could not be generated
const FailureMessage = "メニュー生成に失敗しました"

const (
	DefaultPrice = 800
	MinPrice     = 500
	MaxPrice     = 1200

	fallbackName        = "本日のスペシャル"
	fallbackDescription = "旬の食材を使った逸品です。"
)

// Generator drafts a daily special from ingredients or themes typed by staff
type Generator interface {
	Generate(ctx context.Context, ingredients string) (models.MenuItemDraft, error)
}

// GenerationError is returned by every generator failure. Message is safe to show to staff.
type GenerationError struct {
	Message string
	Err     error
}

func (e *GenerationError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return fmt.Sprintf("%s: %v", e.Message, e.Err)
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

func failed(err error) *GenerationError {
	return &GenerationError{Message: FailureMessage, Err: err}
}

// New picks the Gemini client when an API key is configured and the mock otherwise
func New(cfg config.MenuGenConfig, log *logger.Logger) Generator {
	if cfg.APIKey == "" {
		log.Warn("menugen_mock_mode", "No API key configured, specials will be mocked", "", nil)
		return Mock{}
	}
	return NewGeminiClient(cfg.APIKey, cfg.BaseURL, cfg.Model, log)
}

// Mock returns a canned special built from the ingredients
type Mock struct{}

func (Mock) Generate(ctx context.Context, ingredients string) (models.MenuItemDraft, error) {
	if err := ctx.Err(); err != nil {
		return models.MenuItemDraft{}, failed(err)
	}
	ingredients = strings.TrimSpace(ingredients)
	return models.MenuItemDraft{
		Name:        fmt.Sprintf("シェフの気まぐれ: %s風", ingredients),
		Price:       850,
		Category:    models.CategoryRecommend,
		Description: fmt.Sprintf("%sを贅沢に使った、本日限定の特別メニューです。", ingredients),
		ImageURL:    "https://picsum.photos/400/300?random=99",
		Special:     true,
	}, nil
}
