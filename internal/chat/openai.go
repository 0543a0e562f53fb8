package chat

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
)

const openAIProvider = "openai"

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// OpenAISession speaks the OpenAI-compatible /chat/completions API.
type OpenAISession struct {
	opts     Options
	client   *http.Client
	mu       sync.Mutex
	messages []chatMessage
}

// NewOpenAISession requires BaseURL, Model and APIKey.
func NewOpenAISession(opts Options) (*OpenAISession, error) {
	opts.APIKey = strings.TrimSpace(opts.APIKey)
	if opts.APIKey == "" {
		return nil, ErrNoCredential
	}
	if opts.BaseURL == "" || opts.Model == "" {
		return nil, fmt.Errorf("chat: openai session needs base url and model")
	}
	s := &OpenAISession{opts: opts, client: opts.client()}
	if opts.SystemInstruction != "" {
		s.messages = append(s.messages, chatMessage{Role: "system", Content: opts.SystemInstruction})
	}
	return s, nil
}

func (s *OpenAISession) Send(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	user := chatMessage{Role: "user", Content: prompt}
	body := map[string]interface{}{
		"model":    s.opts.Model,
		"messages": append(append([]chatMessage(nil), s.messages...), user),
	}
	payload, err := json.Marshal(body)
	if err != nil {
		return "", &ServiceError{Provider: openAIProvider, Err: err}
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.endpoint("/chat/completions"), bytes.NewReader(payload))
	if err != nil {
		return "", &ServiceError{Provider: openAIProvider, Err: err}
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.opts.APIKey)

	resp, err := s.client.Do(req)
	if err != nil {
		return "", &ServiceError{Provider: openAIProvider, Err: fmt.Errorf("connection failed: %w", err)}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		data, _ := io.ReadAll(io.LimitReader(resp.Body, 64<<10))
		return "", &ServiceError{Provider: openAIProvider, StatusCode: resp.StatusCode, Err: fmt.Errorf("api error: %s", strings.TrimSpace(string(data)))}
	}

	var apiResp struct {
		Choices []struct {
			Message chatMessage `json:"message"`
		} `json:"choices"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&apiResp); err != nil {
		return "", &ServiceError{Provider: openAIProvider, StatusCode: resp.StatusCode, Err: fmt.Errorf("decode response: %w", err)}
	}

	var reply string
	if len(apiResp.Choices) > 0 {
		reply = apiResp.Choices[0].Message.Content
	}
	s.messages = append(s.messages, user, chatMessage{Role: "assistant", Content: reply})
	return reply, nil
}
