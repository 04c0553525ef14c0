// Package oracleai implements the classifier.Oracle interface on top of an
// OpenAI-compatible chat completion API.
package oracleai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/happyhackingspace/campo/classifier"
)

// DefaultModel is the chat model used when none is configured.
const DefaultModel = "gpt-4o-mini"

// Config holds the oracle client configuration.
type Config struct {
	APIKey  string
	BaseURL string // optional, for OpenAI-compatible endpoints
	Model   string
}

// Client calls a chat model to classify a form field from its HTML context.
type Client struct {
	client *openai.Client
	model  string
}

// New creates a Client from the given configuration.
func New(cfg Config) *Client {
	model := cfg.Model
	if model == "" {
		model = DefaultModel
	}
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}
	return &Client{
		client: openai.NewClientWithConfig(clientCfg),
		model:  model,
	}
}

const systemPrompt = `You classify HTML form fields from Brazilian web pages.
Given a field's HTML, its surrounding container and its extracted text
signals, respond with a JSON object:
  {"fieldType": "<type>", "confidence": <0..1>, "generatorType": "<type>"}
fieldType must be one of the allowed types. generatorType is the value
generator best suited to fill the field, usually equal to fieldType. Use
"unknown" with low confidence when unsure. Respond with JSON only.`

// Classify implements classifier.Oracle.
func (c *Client) Classify(ctx context.Context, in classifier.OracleInput) (*classifier.OracleVerdict, error) {
	userPrompt := fmt.Sprintf(
		"Allowed types: %s\n\nField HTML:\n%s\n\nContainer HTML:\n%s\n\nSignals: %s",
		strings.Join(allowedTypes(), ", "), in.ElementHTML, in.ContainerHTML, in.Signals)

	resp, err := c.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: c.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: systemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: userPrompt},
		},
		ResponseFormat: &openai.ChatCompletionResponseFormat{
			Type: openai.ChatCompletionResponseFormatTypeJSONObject,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("chat completion: %w", err)
	}
	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("chat completion: empty response")
	}
	return ParseVerdict(resp.Choices[0].Message.Content)
}

// ParseVerdict decodes a verdict from model output, tolerating a markdown
// code fence around the JSON.
func ParseVerdict(content string) (*classifier.OracleVerdict, error) {
	content = strings.TrimSpace(content)
	if strings.HasPrefix(content, "```") {
		content = strings.TrimPrefix(content, "```json")
		content = strings.TrimPrefix(content, "```")
		content = strings.TrimSuffix(strings.TrimSpace(content), "```")
		content = strings.TrimSpace(content)
	}
	var v classifier.OracleVerdict
	if err := json.Unmarshal([]byte(content), &v); err != nil {
		return nil, fmt.Errorf("parse verdict: %w", err)
	}
	return &v, nil
}

func allowedTypes() []string {
	types := make([]string, 0, len(classifier.AllFieldTypes))
	for _, t := range classifier.AllFieldTypes {
		types = append(types, string(t))
	}
	return types
}
