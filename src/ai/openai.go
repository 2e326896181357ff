package ai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

type openAIClient struct {
	apiKey     string
	httpClient *http.Client
	defaults   Options
}

func newOpenAIClient(cfg FactoryConfig) *openAIClient {
	return &openAIClient{
		apiKey:     cfg.OpenAIKey,
		httpClient: &http.Client{Timeout: 120 * time.Second},
		defaults: Options{
			Model:        valueOrDefault(cfg.Model, "gpt-4o-mini"),
			Temperature:  orFloat(cfg.Temperature, 0.2),
			MaxTokens:    orInt(cfg.MaxTokens, 1500),
			SystemPrompt: cfg.SystemPrompt,
		},
	}
}

func (c *openAIClient) Respond(ctx context.Context, input string, opts Options) (string, error) {
	merged := c.merge(opts)
	reqBody := map[string]interface{}{
		"model": merged.Model,
		"messages": []map[string]string{
			{"role": "system", "content": merged.SystemPrompt},
			{"role": "user", "content": input},
		},
		"temperature": merged.Temperature,
		"max_tokens":  merged.MaxTokens,
	}
	b, _ := json.Marshal(reqBody)
	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewBuffer(b))
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openAI API error: %s", string(body))
	}
	var result struct {
		Choices []struct {
			Message struct {
				Content string `json:"content"`
			} `json:"message"`
		} `json:"choices"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return "", err
	}
	if len(result.Choices) == 0 {
		return "", fmt.Errorf("no response from OpenAI")
	}
	return result.Choices[0].Message.Content, nil
}

func (c *openAIClient) merge(opts Options) Options {
	out := c.defaults
	if opts.Model != "" {
		out.Model = opts.Model
	}
	if opts.Temperature != 0 {
		out.Temperature = opts.Temperature
	}
	if opts.MaxTokens != 0 {
		out.MaxTokens = opts.MaxTokens
	}
	if opts.SystemPrompt != "" {
		out.SystemPrompt = opts.SystemPrompt
	}
	return out
}
