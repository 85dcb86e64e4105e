package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/Hassaanj79/MoneyDesk.co-sub001/insight"
)

const openAISystemPrompt = `You are a personal-finance analyst. Given a spending summary,
respond with a JSON object in this exact shape:
{"summary": "...", "highlights": ["..."], "recommendations": [{"title": "...", "description": "...", "priority": "low|medium|high"}]}
At most 5 highlights and 4 recommendations. Do not invent figures that are not in the input.`

// OpenAI calls the chat-completions API directly over HTTP.
type OpenAI struct {
	apiKey     string
	model      string
	baseURL    string
	httpClient *http.Client
}

// NewOpenAI builds the adapter. Availability is simply the presence of an
// API key.
func NewOpenAI(apiKey, model string) *OpenAI {
	if model == "" {
		model = "gpt-4o-mini"
	}
	return &OpenAI{
		apiKey:  apiKey,
		model:   model,
		baseURL: "https://api.openai.com/v1",
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

func (o *OpenAI) Name() string { return "openai" }

func (o *OpenAI) Available() bool { return o.apiKey != "" }

type openAIMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type openAIRequest struct {
	Model          string          `json:"model"`
	Messages       []openAIMessage `json:"messages"`
	Temperature    float64         `json:"temperature,omitempty"`
	ResponseFormat struct {
		Type string `json:"type"`
	} `json:"response_format"`
}

type openAIResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
		Code    string `json:"code"`
	} `json:"error"`
}

// openAIInsight is OpenAI's native response variant; it is already close
// to the canonical shape, so mapping only normalizes priorities and caps.
type openAIInsight struct {
	Summary         string `json:"summary"`
	Highlights      []string `json:"highlights"`
	Recommendations []struct {
		Title       string `json:"title"`
		Description string `json:"description"`
		Priority    string `json:"priority"`
	} `json:"recommendations"`
}

func (o *OpenAI) Generate(ctx context.Context, req *Request) (*insight.Insight, error) {
	body := openAIRequest{
		Model: o.model,
		Messages: []openAIMessage{
			{Role: "system", Content: openAISystemPrompt},
			{Role: "user", Content: financialContext(req)},
		},
		Temperature: 0.4,
	}
	body.ResponseFormat.Type = "json_object"

	jsonBody, err := json.Marshal(body)
	if err != nil {
		return nil, &Error{Provider: o.Name(), Err: fmt.Errorf("marshal request: %w", err)}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, o.baseURL+"/chat/completions", bytes.NewReader(jsonBody))
	if err != nil {
		return nil, &Error{Provider: o.Name(), Err: fmt.Errorf("create request: %w", err)}
	}
	httpReq.Header.Set("Authorization", "Bearer "+o.apiKey)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := o.httpClient.Do(httpReq)
	if err != nil {
		return nil, &Error{Provider: o.Name(), Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &Error{Provider: o.Name(), StatusCode: resp.StatusCode, Err: fmt.Errorf("read response: %w", err)}
	}

	var oaiResp openAIResponse
	if err := json.Unmarshal(respBody, &oaiResp); err != nil && resp.StatusCode < 400 {
		return nil, &Error{Provider: o.Name(), StatusCode: resp.StatusCode, Code: "parse", Err: err}
	}

	if resp.StatusCode >= 400 {
		code := ""
		msg := fmt.Sprintf("http %d", resp.StatusCode)
		if oaiResp.Error != nil {
			code = oaiResp.Error.Code
			msg = oaiResp.Error.Message
		}
		return nil, &Error{Provider: o.Name(), StatusCode: resp.StatusCode, Code: code, Err: errors.New(msg)}
	}

	if len(oaiResp.Choices) == 0 {
		return nil, &Error{Provider: o.Name(), Code: "empty", Err: errors.New("empty choices in response")}
	}

	var payload openAIInsight
	if err := json.Unmarshal([]byte(cleanJSONResponse(oaiResp.Choices[0].Message.Content)), &payload); err != nil {
		return nil, &Error{Provider: o.Name(), Code: "parse", Err: err}
	}
	if payload.Summary == "" && len(payload.Highlights) == 0 {
		return nil, &Error{Provider: o.Name(), Code: "empty", Err: errors.New("response carried no insight")}
	}

	return payload.toInsight(), nil
}

func (p openAIInsight) toInsight() *insight.Insight {
	in := &insight.Insight{
		Summary:    p.Summary,
		Highlights: p.Highlights,
	}
	for _, rec := range p.Recommendations {
		title := rec.Title
		if title == "" {
			title = titleFromText(rec.Description)
		}
		in.Recommendations = append(in.Recommendations, insight.Recommendation{
			Title:       title,
			Description: rec.Description,
			Priority:    normalizePriority(rec.Priority),
		})
	}
	in.Clamp()
	return in
}
