package ai

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/bedrockruntime"
)

const bedrockAnthropicVersion = "bedrock-2023-05-31"

type modelInvoker interface {
	InvokeModel(ctx context.Context, params *bedrockruntime.InvokeModelInput, optFns ...func(*bedrockruntime.Options)) (*bedrockruntime.InvokeModelOutput, error)
}

// BedrockAnalyzer calls an Anthropic model hosted on AWS Bedrock.
type BedrockAnalyzer struct {
	client    modelInvoker
	modelID   string
	maxTokens int
}

type bedrockRequest struct {
	AnthropicVersion string           `json:"anthropic_version"`
	MaxTokens        int              `json:"max_tokens"`
	Messages         []bedrockMessage `json:"messages"`
}

type bedrockMessage struct {
	Role    string         `json:"role"`
	Content []bedrockBlock `json:"content"`
}

type bedrockBlock struct {
	Type   string              `json:"type"`
	Text   string              `json:"text,omitempty"`
	Source *bedrockImageSource `json:"source,omitempty"`
}

type bedrockImageSource struct {
	Type      string `json:"type"`
	MediaType string `json:"media_type"`
	Data      string `json:"data"`
}

type bedrockResponse struct {
	Content []bedrockBlock `json:"content"`
}

// NewBedrockAnalyzer resolves credentials from the default AWS chain for region.
func NewBedrockAnalyzer(ctx context.Context, region, modelID string, maxTokens int) (*BedrockAnalyzer, error) {
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return newBedrockAnalyzer(bedrockruntime.NewFromConfig(awsCfg), modelID, maxTokens), nil
}

func newBedrockAnalyzer(client modelInvoker, modelID string, maxTokens int) *BedrockAnalyzer {
	return &BedrockAnalyzer{
		client:    client,
		modelID:   modelID,
		maxTokens: maxTokens,
	}
}

func (b *BedrockAnalyzer) Analyze(ctx context.Context, image []byte, mimeType string) (string, error) {
	if len(image) == 0 {
		return "", errors.New("image cannot be empty")
	}
	if mimeType == "" {
		mimeType = "image/jpeg"
	}
	body, err := json.Marshal(bedrockRequest{
		AnthropicVersion: bedrockAnthropicVersion,
		MaxTokens:        b.maxTokens,
		Messages: []bedrockMessage{{
			Role: "user",
			Content: []bedrockBlock{
				{
					Type: "image",
					Source: &bedrockImageSource{
						Type:      "base64",
						MediaType: mimeType,
						Data:      base64.StdEncoding.EncodeToString(image),
					},
				},
				{Type: "text", Text: AnalysisPrompt},
			},
		}},
	})
	if err != nil {
		return "", fmt.Errorf("encode bedrock request: %w", err)
	}

	out, err := b.client.InvokeModel(ctx, &bedrockruntime.InvokeModelInput{
		ModelId:     aws.String(b.modelID),
		ContentType: aws.String("application/json"),
		Accept:      aws.String("application/json"),
		Body:        body,
	})
	if err != nil {
		return "", fmt.Errorf("failed to analyze image: %w", err)
	}

	var resp bedrockResponse
	if err := json.Unmarshal(out.Body, &resp); err != nil {
		return "", fmt.Errorf("failed to analyze image: decode response: %w", err)
	}
	for _, block := range resp.Content {
		if block.Type == "text" && block.Text != "" {
			return block.Text, nil
		}
	}
	return "", fmt.Errorf("failed to analyze image: %w", ErrEmptyResponse)
}
