// Package llm wraps the language model providers used to draft replies.
package llm

import (
	"context"
	"fmt"
	"strings"
)

// Turn roles understood by every provider.
const (
	RoleUser      = "user"
	RoleAssistant = "assistant"
)

// CompletionRequest represents a completion request.
type CompletionRequest struct {
	Model       string
	System      string
	Messages    []ChatMessage
	MaxTokens   int
	Temperature float64
}

// ChatMessage represents a chat message for LLM.
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// CompletionResponse represents a completion response.
type CompletionResponse struct {
	Content    string
	Model      string
	TokensIn   int
	TokensOut  int
	StopReason string
	LatencyMs  int64
}

// Client is the interface for LLM providers.
type Client interface {
	// Complete sends a completion request and returns the response.
	Complete(ctx context.Context, req *CompletionRequest) (*CompletionResponse, error)

	// Name returns the provider name.
	Name() string
}

// Provider is the type of LLM provider.
type Provider string

const (
	ProviderAnthropic Provider = "anthropic"
	ProviderOpenAI    Provider = "openai"
)

// Keys holds the API key of each provider; empty means unavailable.
type Keys struct {
	Anthropic string
	OpenAI    string
}

// NewClient picks the preferred provider, falling back to whichever has a key.
// It returns nil, nil when no key is configured.
func NewClient(preferred Provider, keys Keys) (Client, error) {
	order := []Provider{ProviderAnthropic, ProviderOpenAI}
	if preferred == ProviderOpenAI {
		order = []Provider{ProviderOpenAI, ProviderAnthropic}
	}
	for _, p := range order {
		switch {
		case p == ProviderAnthropic && keys.Anthropic != "":
			return NewAnthropicClient(keys.Anthropic)
		case p == ProviderOpenAI && keys.OpenAI != "":
			return NewOpenAIClient(keys.OpenAI)
		}
	}
	if preferred != ProviderAnthropic && preferred != ProviderOpenAI && preferred != "" {
		return nil, fmt.Errorf("unknown llm provider %q", preferred)
	}
	return nil, nil
}

// alternate merges consecutive turns of the same role and drops a leading
// assistant turn, since providers expect user/assistant alternation
// beginning with the user.
func alternate(msgs []ChatMessage) []ChatMessage {
	out := make([]ChatMessage, 0, len(msgs))
	for _, m := range msgs {
		if strings.TrimSpace(m.Content) == "" {
			continue
		}
		if len(out) == 0 && m.Role != RoleUser {
			continue
		}
		if n := len(out); n > 0 && out[n-1].Role == m.Role {
			out[n-1].Content += "\n\n" + m.Content
			continue
		}
		out = append(out, m)
	}
	return out
}
