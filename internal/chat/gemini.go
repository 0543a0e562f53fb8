package chat

import (
	"context"
	"errors"
	"strings"
	"sync"

	"google.golang.org/genai"
)

const geminiProvider = "gemini"

// DefaultGeminiModel is used when Options.Model is empty.
const DefaultGeminiModel = "gemini-3-flash-preview"

// DefaultGeminiBaseURL is the public Generative Language API root.
const DefaultGeminiBaseURL = "https://generativelanguage.googleapis.com/"

// GeminiAPIVersion is appended to the base URL by the client.
const GeminiAPIVersion = "v1beta"

// GeminiSession is a genai chat; the SDK keeps the conversation history and
// replays it on every generateContent call.
type GeminiSession struct {
	chat  *genai.Chat
	mu    sync.Mutex
	turns int
}

// NewGeminiSession returns ErrNoCredential when opts.APIKey is blank.
func NewGeminiSession(opts Options) (*GeminiSession, error) {
	opts.APIKey = strings.TrimSpace(opts.APIKey)
	if opts.APIKey == "" {
		return nil, ErrNoCredential
	}
	if opts.Model == "" {
		opts.Model = DefaultGeminiModel
	}
	if opts.BaseURL == "" {
		opts.BaseURL = DefaultGeminiBaseURL
	}

	ctx := context.Background()
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:     opts.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: opts.client(),
		HTTPOptions: genai.HTTPOptions{
			BaseURL:    opts.BaseURL,
			APIVersion: GeminiAPIVersion,
		},
	})
	if err != nil {
		return nil, &ServiceError{Provider: geminiProvider, Err: err}
	}

	var cfg *genai.GenerateContentConfig
	if opts.SystemInstruction != "" {
		cfg = &genai.GenerateContentConfig{
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: opts.SystemInstruction}}},
		}
	}
	chat, err := client.Chats.Create(ctx, opts.Model, cfg, nil)
	if err != nil {
		return nil, &ServiceError{Provider: geminiProvider, Err: err}
	}
	return &GeminiSession{chat: chat}, nil
}

// Send submits prompt on the chat. A failed call leaves the history untouched.
func (s *GeminiSession) Send(ctx context.Context, prompt string) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	resp, err := s.chat.SendMessage(ctx, genai.Part{Text: prompt})
	if err != nil {
		return "", geminiError(err)
	}
	s.turns++
	return resp.Text(), nil
}

// Turns returns the number of completed exchanges.
func (s *GeminiSession) Turns() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.turns
}

func geminiError(err error) error {
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ServiceError{Provider: geminiProvider, StatusCode: apiErr.Code, Err: err}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &ServiceError{Provider: geminiProvider, StatusCode: apiErrPtr.Code, Err: err}
	}
	return &ServiceError{Provider: geminiProvider, Err: err}
}
