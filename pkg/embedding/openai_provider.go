package embedding

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// OpenAIProvider implements Provider for the OpenAI embeddings API
// (text-embedding-3-small with reduced dimensions).
type OpenAIProvider struct {
	ApiKey     string
	Model      string
	Dimensions int
	Client     *http.Client
}

func NewOpenAIProvider(apiKey, model string, dimensions int) Provider {
	if model == "" {
		model = "text-embedding-3-small"
	}
	if dimensions <= 0 {
		dimensions = 512
	}
	return &OpenAIProvider{
		ApiKey:     apiKey,
		Model:      model,
		Dimensions: dimensions,
		Client:     &http.Client{},
	}
}

type openaiEmbeddingRequest struct {
	Model      string `json:"model"`
	Input      string `json:"input"`
	Dimensions int    `json:"dimensions,omitempty"`
}

type openaiEmbeddingResponse struct {
	Data []struct {
		Embedding []float32 `json:"embedding"`
	} `json:"data"`
}

func (p *OpenAIProvider) Generate(ctx context.Context, text string) (*Response, error) {
	reqBody := openaiEmbeddingRequest{
		Model:      p.Model,
		Input:      text,
		Dimensions: p.Dimensions,
	}
	jsonBody, err := json.Marshal(reqBody)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", "https://api.openai.com/v1/embeddings", bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Bearer "+p.ApiKey)
	req.Header.Set("Content-Type", "application/json")

	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("openai embedding error: status %d, body: %s", resp.StatusCode, string(bodyBytes))
	}

	var openaiResp openaiEmbeddingResponse
	if err := json.Unmarshal(bodyBytes, &openaiResp); err != nil {
		return nil, err
	}
	if len(openaiResp.Data) == 0 {
		return nil, fmt.Errorf("openai embedding error: empty data")
	}

	return &Response{
		Values: normalizeVector(openaiResp.Data[0].Embedding),
	}, nil
}
