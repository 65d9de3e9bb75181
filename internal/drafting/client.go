// Package drafting turns interaction context into a LinkedIn outreach
// message via an external chat-completion endpoint.
package drafting

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/alanchelmickjr/lets-connect/internal/core/domain"
)

const (
	defaultTimeout = 30 * time.Second

	// Sampling settings for message generation. 150 tokens comfortably
	// covers the sub-200-character target.
	maxTokens   = 150
	temperature = 0.7

	systemPrompt = "You are a professional networking assistant. Create personalized LinkedIn connection messages that are warm, specific, and actionable."
)

// Fallback text substituted for absent context fields. These strings are part
// of the observable contract of the assembled prompt.
const (
	fallbackTitle      = "Professional"
	fallbackCompany    = "their company"
	fallbackTranscript = "Had a great conversation"
	fallbackNotes      = "None"
)

// Client calls an Azure OpenAI chat-completion endpoint.
type Client struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatRequest struct {
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens"`
	Temperature float64       `json:"temperature"`
}

type chatResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
}

// NewClient creates a drafting client for the configured endpoint.
func NewClient(endpoint, apiKey string) *Client {
	return &Client{
		endpoint: endpoint,
		apiKey:   apiKey,
		client:   &http.Client{Timeout: defaultTimeout},
	}
}

// BuildPrompt assembles the user-role instruction from the interaction
// context, substituting fallback text for absent optional fields.
func BuildPrompt(dc domain.DraftContext) string {
	title := dc.ContactTitle
	if title == "" {
		title = fallbackTitle
	}
	company := dc.ContactCompany
	if company == "" {
		company = fallbackCompany
	}
	transcript := dc.VoiceTranscript
	if transcript == "" {
		transcript = fallbackTranscript
	}
	notes := dc.Notes
	if notes == "" {
		notes = fallbackNotes
	}

	return fmt.Sprintf(`Create a professional LinkedIn connection message based on this networking interaction:

Contact: %s
Their Role: %s at %s
Event: %s (%s)
Connection Type: %s
Conversation Summary: %s
Additional Notes: %s

Write a personalized LinkedIn connection message that:
1. Mentions where we met specifically
2. References something from our conversation
3. Suggests a relevant next step based on the connection type
4. Maintains a professional but friendly tone
5. Is concise (under 200 characters for LinkedIn limit)

Message:`,
		dc.ContactName, title, company, dc.EventName, dc.EventType,
		dc.PersonCategory, transcript, notes)
}

// Draft sends the assembled prompt as a chat-completion request and returns
// the trimmed generated message.
func (c *Client) Draft(ctx context.Context, dc domain.DraftContext) (string, error) {
	payload := chatRequest{
		Messages: []chatMessage{
			{Role: "system", Content: systemPrompt},
			{Role: "user", Content: BuildPrompt(dc)},
		},
		MaxTokens:   maxTokens,
		Temperature: temperature,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("api-key", c.apiKey)

	resp, err := c.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("request generation service: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("%w: generation service returned %d: %s",
			domain.ErrProvider, resp.StatusCode, strings.TrimSpace(string(respBody)))
	}

	var cr chatResponse
	if err := json.Unmarshal(respBody, &cr); err != nil {
		return "", fmt.Errorf("decode response: %w", err)
	}
	if len(cr.Choices) == 0 {
		return "", fmt.Errorf("%w: generation service returned no choices", domain.ErrProvider)
	}

	return strings.TrimSpace(cr.Choices[0].Message.Content), nil
}
