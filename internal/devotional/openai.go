package devotional

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/rs/zerolog"

	"github.com/PeytonLeFleur/lamp-and-light/internal/model"
)

const systemPrompt = `You are a careful Christian companion. Use only the given passage. Output JSON with fields: application, prayer, challenge, crossrefs.
Application: 2-4 sentences with one contextual note. Prayer: four sentences, simple and reverent. Challenge: one small task under ten minutes. Avoid controversy and promises of material outcomes.
Respond with JSON only.`

// OpenAIProvider calls a chat completions endpoint to produce devotional
// content. The hard request timeout makes a hung call a failure, not a hang.
type OpenAIProvider struct {
	client      *resty.Client
	model       string
	temperature float64
	log         zerolog.Logger
}

// Options configures an OpenAIProvider.
type Options struct {
	BaseURL     string
	APIKey      string
	Model       string
	Temperature float64
	Timeout     time.Duration
}

// NewOpenAIProvider builds a provider with the given options.
func NewOpenAIProvider(opts Options, log zerolog.Logger) *OpenAIProvider {
	c := resty.New().
		SetBaseURL(opts.BaseURL).
		SetHeader("Content-Type", "application/json").
		SetAuthToken(opts.APIKey).
		SetTimeout(opts.Timeout)

	return &OpenAIProvider{client: c, model: opts.Model, temperature: opts.Temperature, log: log}
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Model       string        `json:"model"`
	Temperature float64       `json:"temperature"`
	Messages    []chatMessage `json:"messages"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

// Generate requests devotional content for the passage. Any transport,
// status, timeout or parse problem is logged and returned as
// ErrGenerationFailed.
func (p *OpenAIProvider) Generate(ctx context.Context, passageRef, passageText string, recentThemes []string) (model.DevotionalContent, error) {
	user := fmt.Sprintf("Passage: %s\nText: %s\nRecent themes: %s",
		passageRef, passageText, strings.Join(recentThemes, ", "))

	reqBody := chatRequest{
		Model:       p.model,
		Temperature: p.temperature,
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: user},
		},
	}

	resp, err := p.client.R().
		SetContext(ctx).
		SetBody(&reqBody).
		Post("/v1/chat/completions")
	if err != nil {
		p.log.Warn().Err(err).Str("ref", passageRef).Msg("generation request failed")
		return model.DevotionalContent{}, ErrGenerationFailed
	}
	if resp.StatusCode() < 200 || resp.StatusCode() >= 300 {
		p.log.Warn().Int("status", resp.StatusCode()).Str("ref", passageRef).Msg("generation returned non-success status")
		return model.DevotionalContent{}, ErrGenerationFailed
	}

	var cr chatResponse
	if err := json.Unmarshal(resp.Body(), &cr); err != nil || len(cr.Choices) == 0 {
		p.log.Warn().Err(err).Str("ref", passageRef).Msg("generation response undecodable")
		return model.DevotionalContent{}, ErrGenerationFailed
	}

	raw := extractJSONObject(cr.Choices[0].Message.Content)
	if raw == nil {
		p.log.Warn().Str("ref", passageRef).Msg("no JSON object in generation payload")
		return model.DevotionalContent{}, ErrGenerationFailed
	}

	var content model.DevotionalContent
	if err := json.Unmarshal(raw, &content); err != nil {
		p.log.Warn().Err(err).Str("ref", passageRef).Msg("generation payload parse failed")
		return model.DevotionalContent{}, ErrGenerationFailed
	}
	if content.Application == "" || content.Prayer == "" || content.Challenge == "" {
		p.log.Warn().Str("ref", passageRef).Msg("generation payload missing required fields")
		return model.DevotionalContent{}, ErrGenerationFailed
	}
	return content, nil
}
