package chat

import (
	"context"
	"errors"
	"fmt"

	"aegis/internal/config"
	"aegis/internal/logging"
)

// Fallback tries each session in order. Only transient failures move on to
// the next session; any other error is returned as is.
type Fallback struct {
	sessions []Session
	logger   *logging.Logger
}

func NewFallback(logger *logging.Logger, sessions ...Session) *Fallback {
	return &Fallback{sessions: sessions, logger: logger}
}

func (f *Fallback) Send(ctx context.Context, prompt string) (string, error) {
	if len(f.sessions) == 0 {
		return "", ErrNoCredential
	}

	var lastErr error
	for i, s := range f.sessions {
		reply, err := s.Send(ctx, prompt)
		if err == nil {
			if i > 0 {
				f.logger.Writef("Chat fallback: provider %d succeeded after %d failures", i+1, i)
			}
			return reply, nil
		}
		lastErr = err
		if !IsUnavailable(err) {
			return "", err
		}
		f.logger.Writef("Chat provider %d unavailable: %v, trying next...", i+1, err)
	}
	return "", fmt.Errorf("%w: %v", ErrUnavailable, lastErr)
}

// Open builds the session chain described by cfg: Gemini first when a key is
// set, then the OpenAI-compatible fallback when configured. It returns
// ErrNoCredential when neither provider has a key.
func Open(cfg config.ChatConfig, logger *logging.Logger) (Session, error) {
	var sessions []Session

	gemini, err := NewGeminiSession(Options{
		APIKey:            cfg.APIKey,
		Model:             cfg.Model,
		BaseURL:           cfg.BaseURL,
		SystemInstruction: cfg.SystemInstruction,
		Timeout:           cfg.Timeout,
	})
	switch {
	case err == nil:
		sessions = append(sessions, gemini)
	case !errors.Is(err, ErrNoCredential):
		return nil, err
	}

	if cfg.FallbackURL != "" {
		openai, err := NewOpenAISession(Options{
			APIKey:            cfg.FallbackKey,
			Model:             cfg.FallbackModel,
			BaseURL:           cfg.FallbackURL,
			SystemInstruction: cfg.SystemInstruction,
			Timeout:           cfg.Timeout,
		})
		switch {
		case err == nil:
			sessions = append(sessions, openai)
		case !errors.Is(err, ErrNoCredential):
			return nil, err
		}
	}

	switch len(sessions) {
	case 0:
		return nil, ErrNoCredential
	case 1:
		return sessions[0], nil
	default:
		return NewFallback(logger, sessions...), nil
	}
}
