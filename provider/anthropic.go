package provider

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/Hassaanj79/MoneyDesk.co-sub001/insight"
)

// Anthropic is the optional third link of the chain, attempted only when
// an API key is configured.
type Anthropic struct {
	client  anthropic.Client
	model   anthropic.Model
	enabled bool
}

// NewAnthropic builds the adapter.
func NewAnthropic(apiKey, model string) *Anthropic {
	if model == "" {
		model = "claude-sonnet-4-20250514"
	}
	a := &Anthropic{
		model:   anthropic.Model(model),
		enabled: apiKey != "",
	}
	if a.enabled {
		a.client = anthropic.NewClient(option.WithAPIKey(apiKey))
	}
	return a
}

func (a *Anthropic) Name() string { return "anthropic" }

func (a *Anthropic) Available() bool { return a.enabled }

func (a *Anthropic) Generate(ctx context.Context, req *Request) (*insight.Insight, error) {
	msg, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     a.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: openAISystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(financialContext(req))),
		},
	})
	if err != nil {
		return nil, a.wrap(err)
	}

	var sb strings.Builder
	for _, block := range msg.Content {
		sb.WriteString(block.Text)
	}
	text := strings.TrimSpace(sb.String())
	if text == "" {
		return nil, &Error{Provider: a.Name(), Code: "empty", Err: errors.New("empty response text")}
	}

	// Anthropic is asked for the same canonical JSON shape as OpenAI.
	var payload openAIInsight
	if err := json.Unmarshal([]byte(cleanJSONResponse(text)), &payload); err != nil {
		return nil, &Error{Provider: a.Name(), Code: "parse", Err: err}
	}
	if payload.Summary == "" && len(payload.Highlights) == 0 {
		return nil, &Error{Provider: a.Name(), Code: "empty", Err: errors.New("response carried no insight")}
	}

	return payload.toInsight(), nil
}

func (a *Anthropic) wrap(err error) error {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return &Error{Provider: a.Name(), StatusCode: apiErr.StatusCode, Err: err}
	}
	return &Error{Provider: a.Name(), Err: err}
}
