// Package llm wraps the external text-generation provider behind a small
// client used by the reply pipeline. It performs single synchronous
// chat-completion calls and returns raw errors; the graceful-degradation
// contract (fall back to the canned response) lives in the service layer,
// keeping this package an honest transport.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/openai/openai-go/v2/shared"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// ErrEmptyCompletion is returned when the provider answers without any
// usable choice text.
var ErrEmptyCompletion = errors.New("llm: empty completion")

// Config carries provider settings loaded from the environment.
type Config struct {
	APIKey    string        // provider API key
	BaseURL   string        // optional override (compatible gateways, tests)
	Model     string        // e.g. "gpt-3.5-turbo"
	MaxTokens int           // cap on generated tokens per call
	Timeout   time.Duration // per-call deadline applied by the caller
}

// Client issues chat-completion calls against an OpenAI-compatible API.
type Client struct {
	api    openai.Client
	config Config
}

// New constructs a Client. A nil httpClient falls back to a plain
// http.Client; the per-request timeout is enforced through context
// deadlines, not the transport.
func New(config Config, httpClient *http.Client) *Client {
	if httpClient == nil {
		httpClient = &http.Client{}
	}
	opts := []option.RequestOption{
		option.WithAPIKey(config.APIKey),
		option.WithHTTPClient(httpClient),
	}
	if config.BaseURL != "" {
		opts = append(opts, option.WithBaseURL(strings.TrimSuffix(config.BaseURL, "/")))
	}
	return &Client{api: openai.NewClient(opts...), config: config}
}

// Enhance asks the model to rewrite a matched canned response in a more
// natural tone while preserving its factual content, scoped to an industry
// persona. It returns the rewritten text or an error; callers must treat
// any error as "use the canned response unchanged".
func (c *Client) Enhance(ctx context.Context, trigger, response, industry string) (string, error) {
	system := fmt.Sprintf(
		"You are an expert %s customer service assistant. Your job is to enhance customer service responses to make them more helpful, natural, and engaging while maintaining the same information.",
		personaIndustry(industry),
	)
	user := fmt.Sprintf("Enhance this response to the trigger question/phrase: %q\n\nOriginal response: %q", trigger, response)
	return c.complete(ctx, system, user, 300)
}

// General produces a free-form answer for utterances that matched no rule.
// botName defaults to "Assistant" when empty.
func (c *Client) General(ctx context.Context, utterance, industry, botName string) (string, error) {
	if strings.TrimSpace(botName) == "" {
		botName = "Assistant"
	}
	system := fmt.Sprintf(
		"You are %s, a friendly and helpful customer service chatbot for a %s business. Provide concise, accurate, and helpful answers to customer questions. Keep responses under 100 words and maintain a friendly, professional tone.",
		botName, personaIndustry(industry),
	)
	return c.complete(ctx, system, utterance, 150)
}

// complete performs one non-streaming chat completion.
func (c *Client) complete(ctx context.Context, system, user string, maxTokens int) (string, error) {
	if c.config.MaxTokens > 0 && c.config.MaxTokens < maxTokens {
		maxTokens = c.config.MaxTokens
	}

	resp, err := c.api.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: modelConstant(c.config.Model),
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		Temperature:         openai.Float(0.7),
		MaxCompletionTokens: openai.Int(int64(maxTokens)),
	})
	if err != nil {
		return "", err
	}
	if len(resp.Choices) == 0 || strings.TrimSpace(resp.Choices[0].Message.Content) == "" {
		return "", ErrEmptyCompletion
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}

// modelConstant maps configured model names onto the SDK's constants,
// passing unknown names through verbatim for compatible gateways.
func modelConstant(model string) shared.ChatModel {
	switch model {
	case "", "gpt-3.5-turbo":
		return shared.ChatModelGPT3_5Turbo
	case "gpt-4o":
		return shared.ChatModelGPT4o
	case "gpt-4o-mini":
		return shared.ChatModelGPT4oMini
	default:
		return shared.ChatModel(model)
	}
}

// personaIndustry normalizes the stored industry slug for prompt display
// ("real_estate" -> "Real Estate"). Unknown/empty values become "General".
func personaIndustry(industry string) string {
	s := strings.TrimSpace(strings.ReplaceAll(industry, "_", " "))
	if s == "" {
		s = "general"
	}
	return cases.Title(language.English).String(s)
}
