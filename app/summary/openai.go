package summary

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/lysyi3m/rss-digest/app/errs"
	"github.com/lysyi3m/rss-digest/app/feed"
	"github.com/sashabaranov/go-openai"
)

const DefaultOpenAIModel = openai.GPT3Dot5Turbo

const systemPrompt = "You are a helpful assistant that summarizes news articles."

type OpenAI struct {
	client  *openai.Client
	model   string
	timeout time.Duration
}

// NewOpenAI returns a provider that reports ErrNotConfigured when apiKey is
// empty. baseURL overrides the API endpoint when set.
func NewOpenAI(apiKey, model, baseURL string) *OpenAI {
	o := &OpenAI{
		model:   model,
		timeout: DefaultProviderTimeout,
	}
	if o.model == "" {
		o.model = DefaultOpenAIModel
	}
	if apiKey == "" {
		return o
	}

	config := openai.DefaultConfig(apiKey)
	if baseURL != "" {
		config.BaseURL = baseURL
	}
	o.client = openai.NewClientWithConfig(config)
	return o
}

func (o *OpenAI) Method() feed.SummaryMethod {
	return feed.MethodOpenAI
}

func (o *OpenAI) Attempt(ctx context.Context, input Input) (string, error) {
	if o.client == nil {
		return "", errs.ErrNotConfigured
	}

	timeoutCtx, cancel := context.WithTimeout(ctx, o.timeout)
	defer cancel()

	resp, err := o.client.CreateChatCompletion(timeoutCtx, openai.ChatCompletionRequest{
		Model: o.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: buildPrompt(input)},
		},
		MaxTokens:   150,
		Temperature: 0.3,
	})
	if err != nil {
		return "", errs.Provider("openai summarize", fmt.Errorf("failed to create chat completion: %w", err))
	}

	if len(resp.Choices) == 0 {
		return "", errs.Provider("openai summarize", fmt.Errorf("no response from OpenAI"))
	}

	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

func buildPrompt(input Input) string {
	var sb strings.Builder
	sb.WriteString("Please provide a concise summary of the following article in 2-3 sentences:\n\n")
	sb.WriteString(fmt.Sprintf("Title: %s\n\n", input.Title))
	sb.WriteString(fmt.Sprintf("Content: %s\n\n", truncate(input.Content, MaxInputLength)))
	sb.WriteString("Summary:")
	return sb.String()
}
