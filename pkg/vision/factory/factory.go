package factory

import (
	"fmt"

	"pillsee-be/pkg/vision"
)

func NewVisionProvider(providerType, modelName, apiKey, ollamaBaseURL string) (vision.Provider, error) {
	switch providerType {
	case "openai":
		if apiKey == "" {
			return nil, fmt.Errorf("openai vision provider requires OPENAI_API_KEY")
		}
		return vision.NewOpenAIProvider(apiKey, modelName), nil
	case "ollama":
		return vision.NewOllamaProvider(ollamaBaseURL, modelName), nil
	default:
		return nil, fmt.Errorf("unsupported vision provider: %s", providerType)
	}
}
