package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

// SuggestService asks an OpenAI-compatible chat endpoint for candidate
// metadata describing a dataset. Its output is ordinary untrusted input; the
// contributor may accept, edit, or discard it, and every suggestion still
// passes through metadata validation on save.
type SuggestService struct {
	apiKey   string
	endpoint string
	model    string
	client   *http.Client
}

func NewSuggestService(apiKey, endpoint, model string) *SuggestService {
	if model == "" {
		model = "gpt-4o-mini"
	}
	if endpoint == "" {
		endpoint = "https://api.openai.com/v1"
	}

	return &SuggestService{
		apiKey:   apiKey,
		endpoint: endpoint,
		model:    model,
		client: &http.Client{
			Timeout: 30 * time.Second,
		},
	}
}

// Suggestion is a candidate bilingual metadata record.
type Suggestion struct {
	Title             string   `json:"title"`
	TitleArabic       string   `json:"title_arabic"`
	Description       string   `json:"description"`
	DescriptionArabic string   `json:"description_arabic"`
	Category          string   `json:"category"`
	Tags              []string `json:"tags"`
	TagsArabic        []string `json:"tags_arabic"`
}

type chatRequest struct {
	Model     string        `json:"model"`
	Messages  []chatMessage `json:"messages"`
	MaxTokens int           `json:"max_tokens"`
}

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatResponse struct {
	Choices []struct {
		Message struct {
			Role    string `json:"role"`
			Content string `json:"content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Error *struct {
		Message string `json:"message"`
		Type    string `json:"type"`
	} `json:"error,omitempty"`
}

// SuggestMetadata returns candidate metadata for a dataset described by its
// filename, column names and row count.
func (s *SuggestService) SuggestMetadata(ctx context.Context, filename string, columns []string, rowCount int) (*Suggestion, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("suggestion API key not configured")
	}

	prompt := fmt.Sprintf(`You are helping describe a tabular open-data resource.
The file %q has %d data rows and these columns: %s.

Respond ONLY with JSON in this shape:
{
  "title": "short English title",
  "title_arabic": "short Arabic title",
  "description": "2-3 sentence English description",
  "description_arabic": "2-3 sentence Arabic description",
  "category": "one of: General, Health, Education, Economy, Environment, Transport, Demographics",
  "tags": ["3-6 English tags"],
  "tags_arabic": ["3-6 Arabic tags"]
}`, filename, rowCount, strings.Join(columns, ", "))

	requestBody := chatRequest{
		Model: s.model,
		Messages: []chatMessage{
			{Role: "user", Content: prompt},
		},
		MaxTokens: 600,
	}

	jsonBody, err := json.Marshal(requestBody)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/chat/completions", s.endpoint), bytes.NewBuffer(jsonBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", s.apiKey))

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("suggestion API returned status %d", resp.StatusCode)
	}

	var chatResp chatResponse
	if err := json.Unmarshal(body, &chatResp); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}
	if chatResp.Error != nil {
		return nil, fmt.Errorf("suggestion API error: %s", chatResp.Error.Message)
	}
	if len(chatResp.Choices) == 0 {
		return nil, fmt.Errorf("suggestion API returned no choices")
	}

	content := strings.TrimSpace(chatResp.Choices[0].Message.Content)
	content = strings.TrimPrefix(content, "```json")
	content = strings.TrimPrefix(content, "```")
	content = strings.TrimSuffix(content, "```")

	var suggestion Suggestion
	if err := json.Unmarshal([]byte(strings.TrimSpace(content)), &suggestion); err != nil {
		return nil, fmt.Errorf("failed to parse suggestion content: %w", err)
	}

	return &suggestion, nil
}
