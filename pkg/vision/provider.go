package vision

import "context"

// Provider defines the contract for a vision-capable inference backend. The
// response is free-form text; callers must parse it defensively.
type Provider interface {
	// Analyze sends one image plus a fixed instruction to the model and
	// returns the raw text response.
	Analyze(ctx context.Context, instruction string, imageBase64 string, mimeType string) (string, error)
}
