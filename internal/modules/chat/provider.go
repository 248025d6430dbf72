package chat

import (
	"context"
	"fmt"
	neturl "net/url"
	"strings"

	anthropicclient "github.com/anthropics/anthropic-sdk-go"
	anthropicoption "github.com/anthropics/anthropic-sdk-go/option"
	openaiclient "github.com/openai/openai-go/v2"
	openaioption "github.com/openai/openai-go/v2/option"

	"github.com/grillazz/stuff-and-nonsense/internal/config"
)

// Provider streams a model reply for a prompt, invoking onToken once per
// text chunk.
type Provider interface {
	Stream(ctx context.Context, prompt string, onToken func(string)) error
}

// NewProvider builds the backend selected by cfg.Provider.
func NewProvider(cfg config.LLMConfig) (Provider, error) {
	switch cfg.Provider {
	case "openai":
		return newOpenAIProvider(cfg), nil
	case "anthropic":
		return newAnthropicProvider(cfg), nil
	default:
		return nil, fmt.Errorf("unsupported llm provider: %s", cfg.Provider)
	}
}

type openAIProvider struct {
	client openaiclient.Client
	model  string
}

func newOpenAIProvider(cfg config.LLMConfig) *openAIProvider {
	opts := []openaioption.RequestOption{
		openaioption.WithMaxRetries(0),
	}
	if cfg.APIKey != "" {
		opts = append(opts, openaioption.WithAPIKey(cfg.APIKey))
	}
	if normalized := normalizeOpenAIBaseURL(cfg.BaseURL); normalized != "" {
		opts = append(opts, openaioption.WithBaseURL(normalized))
	}
	return &openAIProvider{
		client: openaiclient.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (p *openAIProvider) Stream(ctx context.Context, prompt string, onToken func(string)) error {
	stream := p.client.Chat.Completions.NewStreaming(ctx, openaiclient.ChatCompletionNewParams{
		Model: openaiclient.ChatModel(p.model),
		Messages: []openaiclient.ChatCompletionMessageParamUnion{
			openaiclient.UserMessage(prompt),
		},
	})
	defer stream.Close()

	for stream.Next() {
		chunk := stream.Current()
		if len(chunk.Choices) == 0 {
			continue
		}
		if delta := chunk.Choices[0].Delta.Content; delta != "" {
			onToken(delta)
		}
	}
	return stream.Err()
}

type anthropicProvider struct {
	client anthropicclient.Client
	model  string
}

func newAnthropicProvider(cfg config.LLMConfig) *anthropicProvider {
	opts := []anthropicoption.RequestOption{
		anthropicoption.WithMaxRetries(0),
	}
	if cfg.APIKey != "" {
		opts = append(opts, anthropicoption.WithAPIKey(cfg.APIKey))
	}
	if base := strings.TrimSpace(cfg.BaseURL); base != "" {
		opts = append(opts, anthropicoption.WithBaseURL(strings.TrimRight(base, "/")))
	}
	return &anthropicProvider{
		client: anthropicclient.NewClient(opts...),
		model:  cfg.Model,
	}
}

func (p *anthropicProvider) Stream(ctx context.Context, prompt string, onToken func(string)) error {
	stream := p.client.Messages.NewStreaming(ctx, anthropicclient.MessageNewParams{
		Model:     anthropicclient.Model(p.model),
		MaxTokens: 1024,
		Messages: []anthropicclient.MessageParam{
			anthropicclient.NewUserMessage(anthropicclient.NewTextBlock(prompt)),
		},
	})
	defer stream.Close()

	for stream.Next() {
		event := stream.Current()
		switch ev := event.AsAny().(type) {
		case anthropicclient.ContentBlockDeltaEvent:
			switch delta := ev.Delta.AsAny().(type) {
			case anthropicclient.TextDelta:
				if delta.Text != "" {
					onToken(delta.Text)
				}
			}
		}
	}
	return stream.Err()
}

// normalizeOpenAIBaseURL ensures the base URL carries the /v1 path segment
// the chat completions route hangs off of.
func normalizeOpenAIBaseURL(raw string) string {
	base := strings.TrimSpace(raw)
	if base == "" {
		return ""
	}
	parsed, err := neturl.Parse(base)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return strings.TrimRight(base, "/")
	}

	path := strings.TrimRight(parsed.Path, "/")
	if !strings.HasSuffix(path, "/v1") {
		path += "/v1"
	}
	parsed.Path = path
	return strings.TrimRight(parsed.String(), "/")
}
