package ai

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"github.com/cloudwego/eino-ext/components/model/claude"
	"github.com/cloudwego/eino-ext/components/model/gemini"
	"github.com/cloudwego/eino-ext/components/model/openai"
	"github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"google.golang.org/genai"

	"caloriescan/internal/config"
)

// AnalysisPrompt is sent alongside every image.
const AnalysisPrompt = "Analyze this food image. List the food items you can identify and provide an estimate of the total calories. Explain your reasoning briefly."

// ErrEmptyResponse is returned when the model reply carries no text.
var ErrEmptyResponse = errors.New("model response contained no text")

// Analyzer turns an image into the model's free-text calorie estimate.
type Analyzer interface {
	Analyze(ctx context.Context, image []byte, mimeType string) (string, error)
}

// NewAnalyzer builds the analyzer for the configured provider. Exactly one
// provider serves a process; there is no fallback between them.
func NewAnalyzer(ctx context.Context, cfg *config.Config) (Analyzer, error) {
	if cfg == nil {
		return nil, errors.New("config required")
	}
	provider := cfg.Analyzer.Provider
	if provider == config.ProviderBedrock {
		return NewBedrockAnalyzer(ctx, cfg.Analyzer.Region, cfg.Analyzer.ModelID, cfg.Analyzer.MaxTokens)
	}

	provCfg := cfg.Provider()
	maxTokens := cfg.Analyzer.MaxTokens
	var (
		chatModel model.BaseChatModel
		err       error
	)
	switch provider {
	case config.ProviderOpenAI:
		chatModel, err = openai.NewChatModel(ctx, &openai.ChatModelConfig{
			BaseURL:   provCfg.BaseURL,
			Model:     provCfg.Model,
			APIKey:    provCfg.APIKey,
			MaxTokens: &maxTokens,
		})
	case config.ProviderGemini:
		var client *genai.Client
		client, err = genai.NewClient(ctx, &genai.ClientConfig{
			APIKey:  provCfg.APIKey,
			Backend: genai.BackendGeminiAPI,
		})
		if err != nil {
			return nil, fmt.Errorf("create gemini client: %w", err)
		}
		chatModel, err = gemini.NewChatModel(ctx, &gemini.Config{
			Client:    client,
			Model:     provCfg.Model,
			MaxTokens: &maxTokens,
		})
	case config.ProviderClaude:
		var baseURLPtr *string
		if provCfg.BaseURL != "" {
			baseURLPtr = &provCfg.BaseURL
		}
		chatModel, err = claude.NewChatModel(ctx, &claude.Config{
			APIKey:    provCfg.APIKey,
			Model:     provCfg.Model,
			BaseURL:   baseURLPtr,
			MaxTokens: maxTokens,
		})
	default:
		return nil, fmt.Errorf("invalid provider: %s", provider)
	}
	if err != nil {
		return nil, fmt.Errorf("init %s chat model: %w", provider, err)
	}
	return NewChatAnalyzer(chatModel), nil
}

// ChatAnalyzer sends the image through an eino chat model.
type ChatAnalyzer struct {
	chatModel model.BaseChatModel
}

// NewChatAnalyzer wraps any eino chat model that accepts image input.
func NewChatAnalyzer(chatModel model.BaseChatModel) *ChatAnalyzer {
	return &ChatAnalyzer{chatModel: chatModel}
}

func (a *ChatAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("image cannot be empty")
	}
	raw := base64.StdEncoding.EncodeToString(image)
	msg := &schema.Message{
		Role: schema.User,
		UserInputMultiContent: []schema.MessageInputPart{
			{
				Type: schema.ChatMessagePartTypeImageURL,
				Image: &schema.MessageInputImage{
					MessagePartCommon: schema.MessagePartCommon{
						Base64Data: &raw,
						MIMEType:   mimeType,
					},
				},
			},
			{
				Type: schema.ChatMessagePartTypeText,
				Text: AnalysisPrompt,
			},
		},
	}
	resp, err := a.chatModel.Generate(ctx, []*schema.Message{msg})
	if err != nil {
		return "", fmt.Errorf("failed to analyze image: %w", err)
	}
	if resp == nil || strings.TrimSpace(resp.Content) == "" {
		return "", fmt.Errorf("failed to analyze image: %w", ErrEmptyResponse)
	}
	return resp.Content, nil
}
