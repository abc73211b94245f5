package vision

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

type OpenAIProvider struct {
	ApiKey    string
	ModelName string
	Client    *http.Client
}

// Ensure OpenAIProvider implements Provider
var _ Provider = &OpenAIProvider{}

func NewOpenAIProvider(apiKey, modelName string) *OpenAIProvider {
	if modelName == "" {
		modelName = "gpt-4o-mini"
	}
	return &OpenAIProvider{
		ApiKey:    apiKey,
		ModelName: modelName,
		Client:    &http.Client{},
	}
}

// --- Request/Response structs (Internal to this package) ---

type openaiContentPart struct {
	Type     string           `json:"type"`
	Text     string           `json:"text,omitempty"`
	ImageURL *openaiImagePart `json:"image_url,omitempty"`
}

type openaiImagePart struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

type openaiChatMessage struct {
	Role    string      `json:"role"`
	Content interface{} `json:"content"`
}

type openaiChatRequest struct {
	Model       string              `json:"model"`
	Messages    []openaiChatMessage `json:"messages"`
	MaxTokens   int                 `json:"max_tokens,omitempty"`
	Temperature float64             `json:"temperature"`
}

type openaiChatResponse struct {
	Choices []struct {
		Message struct {
			Content string `json:"content"`
		} `json:"message"`
	} `json:"choices"`
}

func (o *OpenAIProvider) Analyze(ctx context.Context, instruction string, imageBase64 string, mimeType string) (string, error) {
	dataURL := fmt.Sprintf("data:%s;base64,%s", mimeType, imageBase64)

	reqPayload := openaiChatRequest{
		Model: o.ModelName,
		Messages: []openaiChatMessage{
			{
				Role:    "system",
				Content: instruction,
			},
			{
				Role: "user",
				Content: []openaiContentPart{
					{
						Type: "text",
						Text: "Analyzujte tento obrázek léku a extrahujte všechny viditelné informace:",
					},
					{
						Type: "image_url",
						ImageURL: &openaiImagePart{
							URL:    dataURL,
							Detail: "high", // high resolution for small package print
						},
					},
				},
			},
		},
		MaxTokens:   500,
		Temperature: 0.1, // low temperature for consistent extraction
	}

	payloadBytes, err := json.Marshal(reqPayload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/chat/completions", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+o.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := o.Client.Do(req)
	if err != nil {
		return "", fmt.Errorf("openai request failed: %w", err)
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("openai error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var openaiResp openaiChatResponse
	if err := json.Unmarshal(bodyBytes, &openaiResp); err != nil {
		return "", fmt.Errorf("unmarshal response: %w", err)
	}
	if len(openaiResp.Choices) == 0 {
		return "", fmt.Errorf("openai error: empty choices")
	}

	return openaiResp.Choices[0].Message.Content, nil
}
