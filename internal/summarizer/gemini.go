package summarizer

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"google.golang.org/genai"

	"github.com/nguyentantai21042004/video-digest/internal/logger"
)

const refinePrompt = `You are given an automatically produced digest of a video: its speech transcript and the text that appeared on screen.
Rewrite it as a short, readable summary in the language of the content.

Requirements:
- Start with one sentence describing what the video is about
- List the main points in the order they appear
- Keep names, numbers and technical terms exactly as written
- Do not invent anything that is not in the digest
- Plain text with "- " bullets, no other formatting

Digest:
---
%s
---`

// generateFunc calls the model with one API key.
type generateFunc func(ctx context.Context, apiKey, model, prompt string) (string, error)

type geminiRefiner struct {
	apiKeys  []string
	model    string
	logger   logger.Logger
	generate generateFunc

	mu         sync.Mutex
	currentKey int
}

// NewGemini creates a Refiner that rotates through the supplied Gemini API keys.
func NewGemini(apiKeys []string, model string, log logger.Logger) (Refiner, error) {
	if len(apiKeys) == 0 {
		return nil, fmt.Errorf("at least one Gemini API key is required")
	}
	if model == "" {
		model = "gemini-2.5-flash"
	}
	return &geminiRefiner{
		apiKeys:  apiKeys,
		model:    model,
		logger:   log,
		generate: generateContent,
	}, nil
}

// Refine sends the digest to Gemini. Keys rotate on 429 / quota errors; each key is
// tried at most once per call.
func (g *geminiRefiner) Refine(ctx context.Context, digest string) (string, error) {
	prompt := fmt.Sprintf(refinePrompt, digest)

	var lastErr error
	for range g.apiKeys {
		idx, key := g.key()

		text, err := g.generate(ctx, key, g.model, prompt)
		if err != nil {
			if isQuotaError(err) {
				g.logger.Warn(ctx, "Key %d rate limited, rotating...", idx+1)
				g.rotateKey(idx)
				lastErr = err
				continue
			}
			return "", fmt.Errorf("generate content: %w", err)
		}
		return text, nil
	}

	return "", fmt.Errorf("all API keys exhausted: %w", lastErr)
}

func (g *geminiRefiner) key() (int, string) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.currentKey, g.apiKeys[g.currentKey]
}

// rotateKey advances past idx unless another run already did.
func (g *geminiRefiner) rotateKey(idx int) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if g.currentKey == idx {
		g.currentKey = (g.currentKey + 1) % len(g.apiKeys)
	}
}

func isQuotaError(err error) bool {
	msg := err.Error()
	return strings.Contains(msg, "429") || strings.Contains(msg, "quota") || strings.Contains(msg, "RESOURCE_EXHAUSTED")
}

func generateContent(ctx context.Context, apiKey, model, prompt string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  apiKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return "", fmt.Errorf("create client: %w", err)
	}

	result, err := client.Models.GenerateContent(ctx, model, genai.Text(prompt), nil)
	if err != nil {
		return "", err
	}

	if result != nil && len(result.Candidates) > 0 && result.Candidates[0].Content != nil {
		var text string
		for _, part := range result.Candidates[0].Content.Parts {
			if part.Text != "" {
				text += part.Text
			}
		}
		return text, nil
	}

	return "", fmt.Errorf("empty response from Gemini")
}
