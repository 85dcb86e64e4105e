package provider

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"

	"google.golang.org/genai"

	"github.com/Hassaanj79/MoneyDesk.co-sub001/insight"
)

const geminiSystemPrompt = `You are a personal-finance analyst. Given a spending summary,
respond with JSON only, in this exact shape:
{"insights": ["...", "..."], "recommendations": ["...", "..."]}
Insights are short observations about the user's finances (at most 5).
Recommendations are concrete actions the user should take (at most 4).
Do not invent figures that are not in the input.`

// Gemini is the preferred (cheapest) provider in the chain.
type Gemini struct {
	model  string
	client *genai.Client
}

// NewGemini builds the adapter. With an empty API key the adapter reports
// itself unavailable and the chain skips it.
func NewGemini(apiKey, model string) *Gemini {
	if model == "" {
		model = "gemini-2.0-flash"
	}
	g := &Gemini{model: model}
	if apiKey == "" {
		return g
	}

	client, err := genai.NewClient(context.Background(), &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		log.Printf("gemini client init failed: %v", err)
		return g
	}
	g.client = client
	return g
}

func (g *Gemini) Name() string { return "gemini" }

func (g *Gemini) Available() bool { return g.client != nil }

// geminiAnalysis is Gemini's native response variant.
type geminiAnalysis struct {
	Insights        []string `json:"insights"`
	Recommendations []string `json:"recommendations"`
}

func (g *Gemini) Generate(ctx context.Context, req *Request) (*insight.Insight, error) {
	config := &genai.GenerateContentConfig{
		SystemInstruction: &genai.Content{
			Parts: []*genai.Part{{Text: geminiSystemPrompt}},
		},
		Temperature:      genai.Ptr(float32(0.4)),
		MaxOutputTokens:  1024,
		ResponseMIMEType: "application/json",
	}

	resp, err := g.client.Models.GenerateContent(ctx, g.model, genai.Text(financialContext(req)), config)
	if err != nil {
		return nil, g.wrap(err)
	}

	text := strings.TrimSpace(resp.Text())
	if text == "" {
		return nil, &Error{Provider: g.Name(), Code: "empty", Err: errors.New("empty response text")}
	}

	var payload geminiAnalysis
	if err := json.Unmarshal([]byte(cleanJSONResponse(text)), &payload); err != nil {
		return nil, &Error{Provider: g.Name(), Code: "parse", Err: err}
	}
	if len(payload.Insights) == 0 && len(payload.Recommendations) == 0 {
		return nil, &Error{Provider: g.Name(), Code: "empty", Err: errors.New("response carried no insights")}
	}

	return payload.toInsight(), nil
}

// toInsight maps the native insights/recommendations pair into the
// canonical shape: observations become the summary and highlights, and
// each suggested action becomes a medium-priority recommendation.
func (a geminiAnalysis) toInsight() *insight.Insight {
	in := &insight.Insight{
		Summary:    strings.Join(a.Insights, "\n"),
		Highlights: a.Insights,
	}
	for _, rec := range a.Recommendations {
		in.Recommendations = append(in.Recommendations, insight.Recommendation{
			Title:       titleFromText(rec),
			Description: rec,
			Priority:    insight.PriorityMedium,
		})
	}
	in.Clamp()
	return in
}

func (g *Gemini) wrap(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &Error{Provider: g.Name(), StatusCode: apiErr.Code, Code: apiErr.Status, Err: err}
	}
	return &Error{Provider: g.Name(), Err: err}
}
